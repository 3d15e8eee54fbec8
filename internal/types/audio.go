package types

import (
	"fmt"
	"strings"
	"time"
)

// AudioProperties holds stream properties derived from container headers.
// None of them can be set by callers.
type AudioProperties struct {
	Codec      string
	Duration   time.Duration
	SampleRate int
	BitDepth   int
	Channels   int
	BitRate    int // kbps
	Lossless   bool
	VBR        bool
}

// Value returns the property in its public unit. Properties the container
// does not carry (e.g. bit depth for MP3) report false.
func (a AudioProperties) Value(p Property) (int, bool) {
	var v int
	switch p {
	case BitRate:
		v = a.BitRate
	case BitDepth:
		v = a.BitDepth
	case Channels:
		v = a.Channels
	case Duration:
		v = int(a.Duration.Milliseconds())
	case SampleRate:
		v = a.SampleRate
	default:
		return 0, false
	}
	return v, v > 0
}

// Quality is a coarse classification of the stream.
type Quality int

const (
	QualityUnknown Quality = iota
	QualityHQ              // lossy codec
	QualitySQ              // lossless below 44.1 kHz or 16 bit
	QualityHiRes           // lossless at 44.1 kHz / 16 bit or better
)

func (q Quality) String() string {
	switch q {
	case QualityHQ:
		return "HQ"
	case QualitySQ:
		return "SQ"
	case QualityHiRes:
		return "HiRes"
	default:
		return "unknown"
	}
}

// Quality classifies the stream.
func (a AudioProperties) Quality() Quality {
	switch {
	case a.Codec == "":
		return QualityUnknown
	case !a.Lossless:
		return QualityHQ
	case a.SampleRate >= 44100 && a.BitDepth >= 16:
		return QualityHiRes
	default:
		return QualitySQ
	}
}

// String returns a human-readable representation of the audio properties.
// Example output: "FLAC 44.1kHz 16-bit stereo".
func (a AudioProperties) String() string {
	parts := []string{a.Codec}
	if a.SampleRate > 0 {
		parts = append(parts, fmt.Sprintf("%.1fkHz", float64(a.SampleRate)/1000))
	}
	if a.BitDepth > 0 {
		parts = append(parts, fmt.Sprintf("%d-bit", a.BitDepth))
	}
	if ch := channelDescription(a.Channels); ch != "" {
		parts = append(parts, ch)
	}
	if !a.Lossless && a.BitRate > 0 {
		rate := fmt.Sprintf("%dkbps", a.BitRate)
		if a.VBR {
			rate += " VBR"
		}
		parts = append(parts, rate)
	}

	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func channelDescription(channels int) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// BitRateFromPayload returns the average rate in kbps of n payload bytes
// played over d, or 0 when d is zero.
func BitRateFromPayload(n int64, d time.Duration) int {
	ms := d.Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int(n * 8 / ms)
}
