// Package id3v2 reads and writes ID3v2.3 and ID3v2.4 tags.
//
// It is shared by the MP3 codec, where the tag leads the file, and the WAV
// codec, where a tag lives inside an "id3 " chunk.
package id3v2

import (
	"encoding/binary"
	"fmt"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// HeaderSize is the length of the tag header and of the optional footer.
const HeaderSize = 10

// Tag header flags.
const (
	FlagUnsync       = 0x80
	FlagExtended     = 0x40
	FlagExperimental = 0x20
	FlagFooter       = 0x10
)

// Header is the 10-byte tag header.
type Header struct {
	Major    uint8
	Revision uint8
	Flags    uint8
	Size     uint32 // bytes after the header, excluding any footer
}

// TotalSize returns the number of bytes the tag occupies, header and footer
// included.
func (h Header) TotalSize() int64 {
	n := int64(HeaderSize) + int64(h.Size)
	if h.Major == 4 && h.Flags&FlagFooter != 0 {
		n += HeaderSize
	}
	return n
}

// Present reports whether data starts with an ID3v2 tag header.
func Present(data []byte) bool {
	return len(data) >= 3 && string(data[:3]) == "ID3"
}

// ParseHeader decodes the tag header at the start of data.
func ParseHeader(data []byte, format types.Format) (Header, error) {
	sr := binutil.NewSafeReader(data, "ID3v2")
	buf, err := sr.Slice(0, HeaderSize, "tag header")
	if err != nil {
		return Header{}, types.Corrupt(format, 0, "truncated ID3v2 header", err)
	}
	if string(buf[:3]) != "ID3" {
		return Header{}, types.Corrupt(format, 0, "missing ID3 marker", nil)
	}

	h := Header{
		Major:    buf[3],
		Revision: buf[4],
		Flags:    buf[5],
		Size:     binutil.DecodeSynchsafe(buf[6:10]),
	}
	if h.Major != 3 && h.Major != 4 {
		return Header{}, &types.UnsupportedFormatError{
			Format: format,
			Reason: fmt.Sprintf("ID3v2.%d tags are not supported", h.Major),
		}
	}
	for _, b := range buf[6:10] {
		if b&0x80 != 0 {
			return Header{}, types.Corrupt(format, 6, "tag size is not synchsafe", nil)
		}
	}
	return h, nil
}

func (h Header) encode(size uint32) ([]byte, error) {
	ss, err := binutil.EncodeSynchsafe(size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, HeaderSize)
	copy(out, "ID3")
	out[3] = h.Major
	out[4] = 0
	out[5] = 0
	copy(out[6:], ss[:])
	return out, nil
}

// Frame format flags (second flag byte) by version.
const (
	v23Compressed = 0x0080
	v23Encrypted  = 0x0040
	v23Grouping   = 0x0020

	v24Grouping   = 0x0040
	v24Compressed = 0x0008
	v24Encrypted  = 0x0004
	v24Unsync     = 0x0002
	v24DataLength = 0x0001
)

func frameSize(b []byte, major uint8) uint32 {
	if major == 4 {
		return binutil.DecodeSynchsafe(b)
	}
	return binary.BigEndian.Uint32(b)
}

func validFrameID(id []byte) bool {
	for _, c := range id {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
