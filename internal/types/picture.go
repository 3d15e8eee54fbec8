package types

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // registers GIF for DecodeConfig
	_ "image/jpeg" // registers JPEG for DecodeConfig
	_ "image/png"  // registers PNG for DecodeConfig

	"github.com/dustin/go-humanize"
)

// Picture is one embedded image.
type Picture struct {
	// MIME type of the image data, e.g. "image/jpeg"
	MIMEType string

	// Description is free text; empty in most files.
	Description string

	// Image bytes. Treat as immutable.
	Data []byte

	// Type of picture (front cover, back cover, artist photo, ...)
	Type PictureType
}

// Clone returns a deep copy of p.
func (p Picture) Clone() Picture {
	p.Data = bytes.Clone(p.Data)
	return p
}

// Valid reports whether p can be embedded.
func (p Picture) Valid() error {
	if p.MIMEType == "" {
		return &ValidationError{Field: "picture", Reason: "MIME type is empty"}
	}
	if len(p.Data) == 0 {
		return &ValidationError{Field: "picture", Reason: "image data is empty"}
	}
	if p.Type > PicturePublisherLogotype {
		return &ValidationError{Field: "picture type", Value: int(p.Type), Reason: "must be 0-20"}
	}
	return nil
}

// Equal reports whether two pictures hold the same image and attributes.
func (p Picture) Equal(o Picture) bool {
	return p.MIMEType == o.MIMEType && p.Type == o.Type &&
		p.Description == o.Description && bytes.Equal(p.Data, o.Data)
}

// Dimensions decodes the image header and returns width and height,
// or zeros when the format is not recognised.
func (p Picture) Dimensions() (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(p.Data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

// String returns a short description, e.g. "Front cover (600x600 JPEG, 48 kB)".
func (p Picture) String() string {
	dims := ""
	if w, h := p.Dimensions(); w > 0 && h > 0 {
		dims = fmt.Sprintf("%dx%d ", w, h)
	}
	return fmt.Sprintf("%s (%s%s, %s)", p.Type, dims, shortImageFormat(p.MIMEType),
		humanize.Bytes(uint64(len(p.Data))))
}

func shortImageFormat(mime string) string {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "JPEG"
	case "image/png":
		return "PNG"
	case "image/gif":
		return "GIF"
	case "image/bmp":
		return "BMP"
	case "image/webp":
		return "WebP"
	default:
		return "image"
	}
}

// DetectMIMEType sniffs common image signatures. It returns "" when
// nothing matches.
func DetectMIMEType(data []byte) string {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg"
	case len(data) >= 4 && string(data[:4]) == "\x89PNG":
		return "image/png"
	case len(data) >= 3 && string(data[:3]) == "GIF":
		return "image/gif"
	case len(data) >= 2 && string(data[:2]) == "BM":
		return "image/bmp"
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp"
	}
	return ""
}

// PictureType categorizes the purpose of an embedded picture.
//
// Values are the ID3v2 APIC picture types, shared by FLAC PICTURE blocks.
type PictureType uint8

const (
	PictureOther PictureType = iota
	PictureFileIcon
	PictureOtherIcon
	PictureFrontCover
	PictureBackCover
	PictureLeaflet
	PictureMedia
	PictureLeadArtist
	PictureArtist
	PictureConductor
	PictureBand
	PictureComposer
	PictureLyricist
	PictureRecordingLocation
	PictureDuringRecording
	PictureDuringPerformance
	PictureVideoCapture
	PictureBrightFish
	PictureIllustration
	PictureBandLogotype
	PicturePublisherLogotype
)

var pictureTypeNames = [...]string{
	"Other", "File icon", "Other file icon", "Front cover", "Back cover",
	"Leaflet page", "Media", "Lead artist", "Artist", "Conductor", "Band",
	"Composer", "Lyricist", "Recording location", "During recording",
	"During performance", "Video capture", "Bright coloured fish",
	"Illustration", "Band logotype", "Publisher logotype",
}

func (t PictureType) String() string {
	if int(t) < len(pictureTypeNames) {
		return pictureTypeNames[t]
	}
	return fmt.Sprintf("PictureType(%d)", uint8(t))
}
