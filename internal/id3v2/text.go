package id3v2

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is the text encoding byte that leads ID3v2 text bodies.
type Encoding byte

const (
	EncodingLatin1  Encoding = 0 // ISO-8859-1
	EncodingUTF16   Encoding = 1 // UTF-16 with BOM
	EncodingUTF16BE Encoding = 2 // UTF-16BE without BOM, v2.4 only
	EncodingUTF8    Encoding = 3 // UTF-8, v2.4 only
)

func (e Encoding) codec() encoding.Encoding {
	switch e {
	case EncodingUTF16:
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case EncodingUTF8:
		return unicode.UTF8
	default:
		return charmap.ISO8859_1
	}
}

// Valid reports whether e is one of the four defined encodings.
func (e Encoding) Valid() bool { return e <= EncodingUTF8 }

func (e Encoding) wide() bool { return e == EncodingUTF16 || e == EncodingUTF16BE }

// terminator returns the string terminator for e.
func (e Encoding) terminator() []byte {
	if e.wide() {
		return []byte{0, 0}
	}
	return []byte{0}
}

// decodeText converts b to UTF-8 and drops trailing terminators. Bytes that
// do not decode become U+FFFD.
func decodeText(b []byte, e Encoding) string {
	b = trimTerminators(b, e)
	if len(b) == 0 {
		return ""
	}
	if e == EncodingUTF8 {
		return string(b)
	}
	out, err := e.codec().NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// firstValue returns the first of several terminator-separated values.
func firstValue(b []byte, e Encoding) string {
	if head, _, ok := splitTerminated(b, e); ok {
		return decodeText(head, e)
	}
	return decodeText(b, e)
}

// encodeText converts s from UTF-8 to e, without a terminator.
func encodeText(s string, e Encoding) ([]byte, error) {
	if e == EncodingUTF8 {
		return []byte(s), nil
	}
	return e.codec().NewEncoder().Bytes([]byte(s))
}

// chooseEncoding picks the encoding for a new frame: UTF-8 in v2.4,
// otherwise Latin-1 when s fits and UTF-16 when it does not.
func chooseEncoding(major uint8, s ...string) Encoding {
	if major == 4 {
		return EncodingUTF8
	}
	enc := charmap.ISO8859_1.NewEncoder()
	for _, v := range s {
		if _, err := enc.String(v); err != nil {
			return EncodingUTF16
		}
	}
	return EncodingLatin1
}

// splitTerminated splits b at the first terminator for e. Wide terminators
// are only matched on even offsets.
func splitTerminated(b []byte, e Encoding) (head, tail []byte, ok bool) {
	if !e.wide() {
		i := bytes.IndexByte(b, 0)
		if i < 0 {
			return b, nil, false
		}
		return b[:i], b[i+1:], true
	}
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return b[:i], b[i+2:], true
		}
	}
	return b, nil, false
}

func trimTerminators(b []byte, e Encoding) []byte {
	if !e.wide() {
		return bytes.TrimRight(b, "\x00")
	}
	for len(b) >= 2 && b[len(b)-2] == 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-2]
	}
	if len(b)%2 != 0 {
		b = b[:len(b)-1]
	}
	return b
}
