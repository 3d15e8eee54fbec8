package wav

import (
	"bytes"
	"fmt"
	"math"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/fieldmap"
	"github.com/simonhull/audiotag/internal/id3v2"
	"github.com/simonhull/audiotag/internal/types"
)

// Write rebuilds the chunk list with updated LIST/INFO and id3 chunks.
//
// An existing INFO list is always updated. Without one, a list is added
// only when the file has no id3 chunk either. A readable id3 chunk is
// always updated; one is added when a set field has no INFO key. An id3
// chunk holding an unsupported tag version is kept, and a new chunk is
// added after it when needed. New chunks go after the existing ones.
func (p *parser) Write(file *types.File, md *types.Metadata, opts types.WriteOptions) ([]byte, error) { //nolint:gocyclo // chunk selection rules
	nat, ok := file.Native.(*native)
	if !ok {
		return nil, fmt.Errorf("wav: unexpected native record %T", file.Native)
	}
	dirty := md.Dirty()
	if dirty.Empty() {
		return bytes.Clone(file.Data), nil
	}
	opts = opts.WithDefaults()

	var newInfo, newTag []byte
	infoItems := 0
	if nat.info != nil || nat.tag == nil {
		info := nat.info
		if info == nil {
			info = &infoList{}
		}
		newInfo, infoItems = info.encode(md)
	}

	tag := nat.tag
	if tag == nil && needsID3(md) {
		tag = id3v2.New(opts.ID3Version, types.FormatWAV)
	}
	if tag != nil {
		var reuse int64
		for _, c := range nat.chunks {
			if isID3Chunk(c.id) && nat.tag != nil {
				reuse = int64(len(c.body))
			}
		}
		encoded, err := tag.Encode(md, id3v2.EncodeOptions{Reuse: reuse, Padding: opts.Padding})
		if err != nil {
			return nil, err
		}
		newTag = encoded
	}

	var out []chunk
	infoPlaced, tagPlaced := nat.info == nil && infoItems == 0, newTag == nil
	for _, c := range nat.chunks {
		switch {
		case c.id == idList && nat.info != nil && len(c.body) >= 4 && string(c.body[:4]) == idInfo:
			if infoItems > 0 {
				out = append(out, chunk{id: idList, body: newInfo})
			}
			infoPlaced = true
		case isID3Chunk(c.id) && newTag != nil && nat.tag != nil:
			if !tagPlaced {
				out = append(out, chunk{id: c.id, body: newTag})
				tagPlaced = true
			}
		default:
			out = append(out, c)
		}
	}
	if !infoPlaced && infoItems > 0 {
		out = append(out, chunk{id: idList, body: newInfo})
	}
	if !tagPlaced {
		out = append(out, chunk{id: "id3 ", body: newTag})
	}

	riffSize := uint64(4)
	for _, c := range out {
		if uint64(len(c.body)) > math.MaxUint32 {
			return nil, &types.EncodingOverflowError{
				Format: types.FormatWAV, What: fmt.Sprintf("%q chunk", c.id),
				Size: uint64(len(c.body)), Limit: math.MaxUint32,
			}
		}
		riffSize += 8 + uint64(len(c.body)) + uint64(len(c.body)%2)
	}
	if riffSize > math.MaxUint32 {
		return nil, &types.EncodingOverflowError{
			Format: types.FormatWAV, What: "RIFF size", Size: riffSize, Limit: math.MaxUint32,
		}
	}

	buf := bytes.NewBuffer(make([]byte, 0, riffSize+8+uint64(len(nat.trailing))))
	w := binary.NewSafeWriter(buf)
	_ = w.WriteString(idRIFF)
	_ = binary.WriteLE(w, uint32(riffSize))
	_ = w.WriteString(idWAVE)
	for _, c := range out {
		_ = w.WriteString(c.id)
		_ = binary.WriteLE(w, uint32(len(c.body)))
		_ = w.WriteBytes(c.body)
		_ = w.WriteZeros(len(c.body) % 2)
	}
	_ = w.WriteBytes(nat.trailing)

	opts.Logger.Debug("rebuilt RIFF chunks",
		"chunks", len(out),
		"info_items", infoItems,
		"id3", newTag != nil,
		"riff_size", riffSize)
	return buf.Bytes(), nil
}

// needsID3 reports whether a set field has no LIST/INFO key.
func needsID3(md *types.Metadata) bool {
	for _, f := range md.Dirty().Fields() {
		if fieldmap.RIFFInfo.Supports(f) {
			continue
		}
		if f == types.FieldPictures {
			if md.PictureCount() > 0 {
				return true
			}
			continue
		}
		if f.IsText() {
			if v, ok := md.Text(types.TextField(f)); ok && v != "" {
				return true
			}
			continue
		}
		if _, ok := md.Number(types.NumberField(f)); ok {
			return true
		}
	}
	return false
}
