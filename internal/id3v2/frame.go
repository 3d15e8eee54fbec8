package id3v2

import (
	"bytes"
	"encoding/binary"
	"strings"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/fieldmap"
)

// Frame is one frame of a parsed tag.
type Frame struct {
	// ID is the four-character frame identifier.
	ID string

	// Key is the lookup key in the field vocabulary. It equals ID except
	// for COMM and USLT frames with a description ("COMM:desc") and TXXX
	// frames ("TXXX:DESC").
	Key string

	// Raw holds the complete frame, header included, as it should be
	// re-emitted when the frame is kept.
	Raw []byte

	// Offset of the frame within the tag.
	Offset int64

	Flags uint16
}

// Opaque reports whether the body cannot be interpreted (compressed or
// encrypted frames).
func (f *Frame) Opaque(major uint8) bool {
	if major == 4 {
		return f.Flags&(v24Compressed|v24Encrypted) != 0
	}
	return f.Flags&(v23Compressed|v23Encrypted) != 0
}

// Body returns the frame content with per-frame framing removed.
func (f *Frame) Body(major uint8) []byte {
	b := f.Raw[HeaderSize:]
	if major == 4 {
		if f.Flags&v24Grouping != 0 && len(b) > 0 {
			b = b[1:]
		}
		if f.Flags&v24DataLength != 0 && len(b) >= 4 {
			b = b[4:]
		}
		if f.Flags&v24Unsync != 0 {
			b = binutil.RemoveUnsync(b)
		}
		return b
	}
	if f.Flags&v23Grouping != 0 && len(b) > 0 {
		b = b[1:]
	}
	return b
}

// frameKey derives the vocabulary key of a frame from its body.
func frameKey(id string, body []byte) string {
	switch id {
	case "COMM", "USLT":
		if desc, _, ok := describedText(body, true); ok && desc != "" {
			return id + ":" + desc
		}
	case "TXXX":
		if desc, _, ok := describedText(body, false); ok {
			return "TXXX:" + strings.ToUpper(desc)
		}
	}
	return id
}

// describedText splits [enc][lang?][desc\0][text] bodies used by COMM, USLT
// and TXXX.
func describedText(body []byte, hasLang bool) (desc, text string, ok bool) {
	if len(body) < 1 {
		return "", "", false
	}
	enc := Encoding(body[0])
	rest := body[1:]
	if hasLang {
		if len(rest) < 3 {
			return "", "", false
		}
		rest = rest[3:]
	}
	head, tail, found := splitTerminated(rest, enc)
	if !found {
		// Some writers omit the description terminator entirely.
		return "", decodeText(rest, enc), true
	}
	return decodeText(head, enc), decodeText(tail, enc), true
}

// newFrame builds a frame with a fresh header.
func newFrame(id string, body []byte, major uint8) (Frame, error) {
	raw := make([]byte, HeaderSize, HeaderSize+len(body))
	copy(raw, id)
	if major == 4 {
		if len(body) > binutil.MaxSynchsafe {
			return Frame{}, binutil.ErrSynchsafeOverflow
		}
		ss, _ := binutil.EncodeSynchsafe(uint32(len(body)))
		copy(raw[4:8], ss[:])
	} else {
		binary.BigEndian.PutUint32(raw[4:8], uint32(len(body)))
	}
	raw = append(raw, body...)
	return Frame{ID: id, Key: frameKey(id, body), Raw: raw}, nil
}

// textBody encodes a T*** frame body.
func textBody(value string, major uint8) ([]byte, error) {
	enc := chooseEncoding(major, value)
	b, err := encodeText(value, enc)
	if err != nil {
		return nil, err
	}
	return append([]byte{byte(enc)}, b...), nil
}

// describedBody encodes COMM/USLT (with lang) and TXXX (without) bodies.
func describedBody(desc, value string, lang string, major uint8) ([]byte, error) {
	enc := chooseEncoding(major, desc, value)
	d, err := encodeText(desc, enc)
	if err != nil {
		return nil, err
	}
	v, err := encodeText(value, enc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteByte(byte(enc))
	buf.WriteString(lang)
	buf.Write(d)
	buf.Write(enc.terminator())
	buf.Write(v)
	return buf.Bytes(), nil
}

// valueFor extracts the string a mapped frame carries.
func valueFor(f *Frame, body []byte) (string, bool) {
	switch {
	case f.ID == "COMM" || f.ID == "USLT":
		_, text, ok := describedText(body, true)
		return text, ok
	case f.ID == "TXXX":
		_, text, ok := describedText(body, false)
		return text, ok
	case f.ID == frameIDPopularimeter:
		return popmValue(body)
	case strings.HasPrefix(f.ID, "T"):
		if len(body) < 1 {
			return "", false
		}
		return firstValue(body[1:], Encoding(body[0])), true
	}
	return "", false
}

// txxxDescription returns the description a TXXX vocabulary key carries.
func txxxDescription(key string) string {
	switch key {
	case fieldmap.KeyTrackGainTXXX:
		return "REPLAYGAIN_TRACK_GAIN"
	case fieldmap.KeyAlbumGainTXXX:
		return "REPLAYGAIN_ALBUM_GAIN"
	}
	return strings.TrimPrefix(key, "TXXX:")
}
