package types

// Format is the container kind detected at open time.
type Format int

const (
	// FormatUnknown is the zero value; no handle ever carries it.
	FormatUnknown Format = iota
	// FormatMP3 is an MPEG audio stream with an optional ID3v2 tag.
	FormatMP3
	// FormatFLAC is a native FLAC stream.
	FormatFLAC
	// FormatWAV is a RIFF/WAVE container.
	FormatWAV
	// FormatMP4 is an ISO base media file (M4A, M4B, MP4).
	FormatMP4
)

func (f Format) String() string {
	switch f {
	case FormatMP3:
		return "MP3"
	case FormatFLAC:
		return "FLAC"
	case FormatWAV:
		return "WAV"
	case FormatMP4:
		return "MP4"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatMP3:
		return []string{".mp3"}
	case FormatFLAC:
		return []string{".flac"}
	case FormatWAV:
		return []string{".wav", ".wave"}
	case FormatMP4:
		return []string{".m4a", ".m4b", ".mp4", ".m4p"}
	default:
		return nil
	}
}

// DetectFormat classifies a buffer by its leading bytes.
//
// Checks run in a fixed order and the first match wins: an "ID3" marker or
// MPEG frame sync, "fLaC", "RIFF" with a "WAVE" form type, then an ftyp box.
func DetectFormat(data []byte) (Format, error) {
	if len(data) < 4 {
		return FormatUnknown, &UnsupportedFormatError{Reason: "buffer too small"}
	}

	magic := string(data[:4])

	if magic[:3] == "ID3" {
		return FormatMP3, nil
	}
	if isFrameSync(data) {
		return FormatMP3, nil
	}

	if magic == "fLaC" {
		return FormatFLAC, nil
	}

	if magic == "RIFF" {
		if len(data) >= 12 && string(data[8:12]) == "WAVE" {
			return FormatWAV, nil
		}
		return FormatUnknown, &UnsupportedFormatError{Reason: "RIFF container is not WAVE"}
	}

	if len(data) >= 8 && string(data[4:8]) == "ftyp" {
		size := uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
		// size 1 announces a 64-bit largesize after the type
		if size == 1 || size >= 8 {
			return FormatMP4, nil
		}
	}

	return FormatUnknown, &UnsupportedFormatError{Reason: "no known signature"}
}

// isFrameSync reports whether data starts with an MPEG audio frame header
// whose version, layer, bitrate and sample rate fields are all legal.
func isFrameSync(data []byte) bool {
	if data[0] != 0xFF || data[1]&0xE0 != 0xE0 {
		return false
	}
	version := (data[1] >> 3) & 0x03
	layer := (data[1] >> 1) & 0x03
	bitrate := data[2] >> 4
	rate := (data[2] >> 2) & 0x03
	return version != 1 && layer != 0 && bitrate != 0x0F && rate != 0x03
}
