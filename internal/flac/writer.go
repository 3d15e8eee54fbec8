package flac

import (
	"bytes"
	"fmt"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// Write rebuilds the metadata block list and appends the untouched audio
// frames.
//
// Blocks other than VORBIS_COMMENT and PICTURE are copied verbatim; only the
// last-block flag is recomputed. A VORBIS_COMMENT block is inserted after
// STREAMINFO when a text or number field is set and none existed. New
// PICTURE blocks take the place of the first old one, or go before the first
// PADDING block.
func (p *parser) Write(file *types.File, md *types.Metadata, opts types.WriteOptions) ([]byte, error) {
	nat, ok := file.Native.(*native)
	if !ok {
		return nil, fmt.Errorf("flac: unexpected native record %T", file.Native)
	}
	dirty := md.Dirty()
	if dirty.Empty() {
		return bytes.Clone(file.Data), nil
	}
	opts = opts.WithDefaults()

	var pictures []block
	if dirty.Has(types.FieldPictures) {
		var err error
		md.EachPicture(func(_ int, pic types.Picture) {
			if err != nil {
				return
			}
			var body []byte
			if body, err = pictureBody(pic); err == nil {
				pictures = append(pictures, block{typ: blockTypePicture, body: body})
			}
		})
		if err != nil {
			return nil, err
		}
	}

	out := make([]block, 0, len(nat.blocks)+len(pictures)+1)
	placed := !dirty.Has(types.FieldPictures)
	for i, b := range nat.blocks {
		switch {
		case b.typ == blockTypeVorbisComment && dirty.AnyText():
			out = append(out, block{typ: b.typ, body: nat.comments.Merge(md).Bytes()})
		case b.typ == blockTypePicture && dirty.Has(types.FieldPictures):
			if !placed {
				out = append(out, pictures...)
				placed = true
			}
		case b.typ == blockTypePadding && !placed:
			out = append(out, pictures...)
			placed = true
			out = append(out, b)
		default:
			out = append(out, b)
		}

		if i == 0 && nat.comments == nil && dirty.AnyText() {
			if vc := vorbis.New(opts.Vendor).Merge(md); len(vc.Comments) > 0 {
				out = append(out, block{typ: blockTypeVorbisComment, body: vc.Bytes()})
			}
		}
	}
	if !placed {
		out = append(out, pictures...)
	}

	audio := file.Data[nat.audioOffset:]
	size := 4 + len(audio)
	for _, b := range out {
		if len(b.body) > maxBlockLength {
			return nil, &types.EncodingOverflowError{
				Format: types.FormatFLAC, What: blockName(b.typ) + " block",
				Size: uint64(len(b.body)), Limit: maxBlockLength,
			}
		}
		size += 4 + len(b.body)
	}

	buf := bytes.NewBuffer(make([]byte, 0, size))
	w := binary.NewSafeWriter(buf)
	_ = w.WriteString("fLaC")
	for i, b := range out {
		flag := b.typ
		if i == len(out)-1 {
			flag |= 0x80
		}
		_ = binary.Write(w, flag)
		_ = w.WriteUint24(uint32(len(b.body)))
		_ = w.WriteBytes(b.body)
	}
	_ = w.WriteBytes(audio)

	opts.Logger.Debug("rebuilt FLAC metadata",
		"blocks", len(out),
		"old_audio_offset", nat.audioOffset,
		"new_audio_offset", int64(size-len(audio)))
	return buf.Bytes(), nil
}
