package flac

import (
	"bytes"
	"fmt"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// parsePicture decodes a PICTURE block body.
//
//	[4 bytes] picture type
//	[4 bytes] MIME length, MIME type
//	[4 bytes] description length, description (UTF-8)
//	[16 bytes] width, height, color depth, indexed colors
//	[4 bytes] data length, data
func parsePicture(body []byte) (types.Picture, error) {
	cr := binary.NewChainReader(binary.NewReader(binary.NewSafeReader(body, "PICTURE"), 0))

	picType := binary.ReadChained[uint32](cr, "picture type")
	mimeLen := binary.ReadChained[uint32](cr, "MIME type length")
	mime := cr.String(int(mimeLen), "MIME type")
	descLen := binary.ReadChained[uint32](cr, "description length")
	desc := cr.String(int(descLen), "description")
	cr.Skip(16)
	dataLen := binary.ReadChained[uint32](cr, "picture data length")
	data := cr.Bytes(int64(dataLen), "picture data")
	if err := cr.Error(); err != nil {
		return types.Picture{}, err
	}

	pt := types.PictureType(picType)
	if picType > uint32(types.PicturePublisherLogotype) {
		pt = types.PictureOther
	}
	if mime == "" {
		mime = types.DetectMIMEType(data)
	}
	return types.Picture{
		MIMEType:    mime,
		Description: desc,
		Type:        pt,
		Data:        bytes.Clone(data),
	}, nil
}

// pictureBody encodes p as a PICTURE block body. Width and height are
// filled in when the image header can be decoded.
func pictureBody(p types.Picture) ([]byte, error) {
	if uint64(len(p.Data)) > maxBlockLength {
		return nil, &types.EncodingOverflowError{
			Format: types.FormatFLAC, What: "PICTURE block",
			Size: uint64(len(p.Data)), Limit: maxBlockLength,
		}
	}
	width, height := p.Dimensions()

	var buf bytes.Buffer
	w := binary.NewSafeWriter(&buf)
	_ = binary.Write(w, uint32(p.Type))
	_ = binary.Write(w, uint32(len(p.MIMEType)))
	_ = w.WriteString(p.MIMEType)
	_ = binary.Write(w, uint32(len(p.Description)))
	_ = w.WriteString(p.Description)
	_ = binary.Write(w, uint32(width))
	_ = binary.Write(w, uint32(height))
	_ = binary.Write(w, colorDepth(p.MIMEType))
	_ = binary.Write(w, uint32(0))
	_ = binary.Write(w, uint32(len(p.Data)))
	_ = w.WriteBytes(p.Data)
	return buf.Bytes(), nil
}

func colorDepth(mime string) uint32 {
	switch mime {
	case "image/jpeg", "image/png":
		return 24
	default:
		return 0
	}
}

func pictureRegionName(p types.Picture) string {
	return fmt.Sprintf("PICTURE (%s)", p.Type)
}
