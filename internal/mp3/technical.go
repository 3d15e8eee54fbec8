package mp3

import (
	"encoding/binary"
	"time"
)

// MPEG version identifiers as stored in the frame header.
const (
	mpeg25 = 0
	mpeg2  = 2
	mpeg1  = 3
)

// Bitrates in kbps indexed by [row][bitrate index]. Rows: MPEG1 L1, L2, L3,
// then MPEG2/2.5 L1 and L2/L3.
var bitrates = [5][16]int{
	{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, 0},
	{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, 0},
	{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0},
	{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, 0},
	{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0},
}

// Sample rates in Hz indexed by [version][rate index].
var sampleRates = [4][3]int{
	mpeg1:  {44100, 48000, 32000},
	mpeg2:  {22050, 24000, 16000},
	mpeg25: {11025, 12000, 8000},
}

// frameHeader is a decoded 4-byte MPEG audio frame header.
type frameHeader struct {
	version    int // mpeg1, mpeg2 or mpeg25
	layer      int // 1, 2 or 3
	bitrate    int // kbps
	sampleRate int
	padding    int
	mono       bool
}

// parseFrameHeader decodes b[0:4]. It reports false for anything that is
// not a legal header, including free-format bitrates.
func parseFrameHeader(b []byte) (frameHeader, bool) {
	if len(b) < 4 {
		return frameHeader{}, false
	}
	h := binary.BigEndian.Uint32(b)
	if h&0xFFE00000 != 0xFFE00000 {
		return frameHeader{}, false
	}

	version := int(h>>19) & 0x3
	layerBits := int(h>>17) & 0x3
	brIndex := int(h>>12) & 0xF
	srIndex := int(h>>10) & 0x3
	if version == 1 || layerBits == 0 || brIndex == 0 || brIndex == 0xF || srIndex == 3 {
		return frameHeader{}, false
	}

	fh := frameHeader{
		version:    version,
		layer:      4 - layerBits,
		sampleRate: sampleRates[version][srIndex],
		padding:    int(h>>9) & 0x1,
		mono:       (h>>6)&0x3 == 3,
	}

	row := fh.layer - 1
	if version != mpeg1 {
		row = 3
		if fh.layer > 1 {
			row = 4
		}
	}
	fh.bitrate = bitrates[row][brIndex]
	return fh, true
}

// samplesPerFrame returns the number of PCM samples one frame decodes to.
func (fh frameHeader) samplesPerFrame() int {
	switch {
	case fh.layer == 1:
		return 384
	case fh.layer == 3 && fh.version != mpeg1:
		return 576
	default:
		return 1152
	}
}

// size returns the frame length in bytes, header included.
func (fh frameHeader) size() int {
	if fh.layer == 1 {
		return (12*fh.bitrate*1000/fh.sampleRate + fh.padding) * 4
	}
	return fh.samplesPerFrame()/8*fh.bitrate*1000/fh.sampleRate + fh.padding
}

// sideInfoSize returns the Layer III side information length, which is
// where a Xing/Info header starts after the frame header.
func (fh frameHeader) sideInfoSize() int {
	switch {
	case fh.version == mpeg1 && !fh.mono:
		return 32
	case fh.version == mpeg1 || !fh.mono:
		return 17
	default:
		return 9
	}
}

func (fh frameHeader) sameStream(o frameHeader) bool {
	return fh.version == o.version && fh.layer == o.layer && fh.sampleRate == o.sampleRate
}

// streamInfo is what the frame scan learns about the audio.
type streamInfo struct {
	first    frameHeader
	offset   int64 // first frame
	frames   int64
	bytes    int64
	duration time.Duration
	bitrate  int // kbps
	vbr      bool
	summary  string // "Xing", "Info", "VBRI" or ""
}

// findFirstFrame returns the offset of the first frame at or after start
// that is followed by another frame of the same stream (or by the end of
// the buffer).
func findFirstFrame(data []byte, start int64) (int64, frameHeader, bool) {
	for off := start; off+4 <= int64(len(data)); off++ {
		if data[off] != 0xFF {
			continue
		}
		fh, ok := parseFrameHeader(data[off:])
		if !ok {
			continue
		}
		next := off + int64(fh.size())
		if next+4 > int64(len(data)) {
			if next <= int64(len(data)) {
				return off, fh, true
			}
			continue
		}
		if nh, ok := parseFrameHeader(data[next:]); ok && nh.sameStream(fh) {
			return off, fh, true
		}
	}
	return 0, frameHeader{}, false
}

// scanStream derives stream properties from the frames in data[start:end].
func scanStream(data []byte, start, end int64) (streamInfo, bool) {
	data = data[:end]
	off, fh, ok := findFirstFrame(data, start)
	if !ok {
		return streamInfo{}, false
	}
	info := streamInfo{first: fh, offset: off, bitrate: fh.bitrate}

	if fh.layer == 3 && readSummary(data, off, fh, &info) && info.frames > 0 {
		info.duration = framesDuration(info.frames, fh)
		if info.bytes == 0 {
			info.bytes = end - off
		}
		if info.summary != "Info" {
			info.vbr = true
			if ms := info.duration.Milliseconds(); ms > 0 {
				info.bitrate = int(info.bytes * 8 / ms)
			}
		}
		return info, true
	}

	// No summary header: walk the frames.
	var kbits int64
	firstRate := fh.bitrate
	for pos := off; pos+4 <= end; {
		h, ok := parseFrameHeader(data[pos:])
		if !ok || !h.sameStream(fh) {
			break
		}
		n := int64(h.size())
		if pos+n > end {
			break
		}
		info.frames++
		info.bytes += n
		kbits += int64(h.bitrate)
		if h.bitrate != firstRate {
			info.vbr = true
		}
		pos += n
	}
	info.duration = framesDuration(info.frames, fh)
	if info.frames > 0 {
		info.bitrate = int(kbits / info.frames)
	}
	return info, true
}

// readSummary looks for a Xing/Info or VBRI header in the first frame.
func readSummary(data []byte, off int64, fh frameHeader, info *streamInfo) bool {
	xing := off + 4 + int64(fh.sideInfoSize())
	if xing+8 <= int64(len(data)) {
		tag := string(data[xing : xing+4])
		if tag == "Xing" || tag == "Info" {
			info.summary = tag
			flags := binary.BigEndian.Uint32(data[xing+4:])
			pos := xing + 8
			if flags&0x1 != 0 && pos+4 <= int64(len(data)) {
				info.frames = int64(binary.BigEndian.Uint32(data[pos:]))
				pos += 4
			}
			if flags&0x2 != 0 && pos+4 <= int64(len(data)) {
				info.bytes = int64(binary.BigEndian.Uint32(data[pos:]))
			}
			return true
		}
	}

	vbri := off + 4 + 32
	if vbri+18 <= int64(len(data)) && string(data[vbri:vbri+4]) == "VBRI" {
		info.summary = "VBRI"
		info.bytes = int64(binary.BigEndian.Uint32(data[vbri+10:]))
		info.frames = int64(binary.BigEndian.Uint32(data[vbri+14:]))
		return true
	}
	return false
}

func framesDuration(frames int64, fh frameHeader) time.Duration {
	if fh.sampleRate == 0 {
		return 0
	}
	samples := float64(frames) * float64(fh.samplesPerFrame())
	return time.Duration(samples / float64(fh.sampleRate) * float64(time.Second))
}

func layerName(layer int) string {
	switch layer {
	case 1:
		return "MP1"
	case 2:
		return "MP2"
	default:
		return "MP3"
	}
}
