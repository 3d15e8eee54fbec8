package id3v2

import (
	"bytes"
	"errors"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

var (
	errAPICTooShort    = errors.New("APIC frame too short")
	errAPICNoMIMETerm  = errors.New("APIC frame: MIME type not terminated")
	errAPICNoImageData = errors.New("APIC frame: no image data")
)

// parseAPIC decodes an attached picture body.
//
//	[1 byte]              Text encoding
//	[null-terminated]     MIME type (ISO-8859-1)
//	[1 byte]              Picture type
//	[terminated]          Description (in the frame encoding)
//	[remaining]           Picture data
func parseAPIC(body []byte) (types.Picture, error) {
	if len(body) < 4 {
		return types.Picture{}, errAPICTooShort
	}
	enc := Encoding(body[0])
	rest := body[1:]

	mimeEnd := bytes.IndexByte(rest, 0)
	if mimeEnd < 0 {
		return types.Picture{}, errAPICNoMIMETerm
	}
	mime := normalizeMIME(string(rest[:mimeEnd]))
	rest = rest[mimeEnd+1:]
	if len(rest) < 1 {
		return types.Picture{}, errAPICNoImageData
	}

	pictureType := types.PictureType(rest[0])
	rest = rest[1:]

	var desc string
	if head, tail, ok := splitTerminated(rest, enc); ok {
		desc = decodeText(head, enc)
		rest = tail
	}
	if len(rest) == 0 {
		return types.Picture{}, errAPICNoImageData
	}

	if mime == "" {
		mime = types.DetectMIMEType(rest)
	}

	return types.Picture{
		MIMEType:    mime,
		Type:        pictureType,
		Description: desc,
		Data:        rest,
	}, nil
}

// normalizeMIME maps the v2.2-style image format strings some writers still
// put into APIC frames.
func normalizeMIME(m string) string {
	switch strings.ToLower(m) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "-->":
		return ""
	}
	return m
}

// apicBody encodes an attached picture body.
func apicBody(p types.Picture, major uint8) ([]byte, error) {
	enc := chooseEncoding(major, p.Description)
	desc, err := encodeText(p.Description, enc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(p.MIMEType) + len(desc) + len(p.Data) + 5)
	buf.WriteByte(byte(enc))
	buf.WriteString(p.MIMEType)
	buf.WriteByte(0)
	buf.WriteByte(byte(p.Type))
	buf.Write(desc)
	buf.Write(enc.terminator())
	buf.Write(p.Data)
	return buf.Bytes(), nil
}
