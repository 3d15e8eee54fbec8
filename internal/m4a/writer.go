package m4a

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// Write rebuilds moov with a new ilst and copies every other top-level atom
// unchanged. Missing udta, meta and ilst containers are created. When moov
// changes size, chunk offsets in stco and co64 that point past it are moved
// by the same amount.
func (p *parser) Write(file *types.File, md *types.Metadata, opts types.WriteOptions) ([]byte, error) {
	nat, ok := file.Native.(*native)
	if !ok {
		return nil, fmt.Errorf("m4a: unexpected native record %T", file.Native)
	}
	if md.Dirty().Empty() {
		return bytes.Clone(file.Data), nil
	}
	opts = opts.WithDefaults()
	data := file.Data

	ilst, err := buildIlst(data, nat.items, md)
	if err != nil {
		return nil, err
	}
	if nat.ilst == nil && len(ilst) == 8 {
		return bytes.Clone(data), nil
	}

	// Containers to splice into, innermost first.
	var chain []*Atom
	var old *Atom
	inner := ilst
	switch {
	case nat.ilst != nil:
		chain, old = []*Atom{nat.meta, nat.udta, nat.moov}, nat.ilst
	case nat.meta != nil:
		chain = []*Atom{nat.meta, nat.udta, nat.moov}
	case nat.udta != nil:
		if inner, err = metaAtom(inner); err != nil {
			return nil, err
		}
		chain = []*Atom{nat.udta, nat.moov}
	default:
		if inner, err = metaAtom(inner); err != nil {
			return nil, err
		}
		if inner, err = box("udta", inner); err != nil {
			return nil, err
		}
		chain = []*Atom{nat.moov}
	}
	for _, c := range chain {
		if inner, err = splice(data, c, old, inner); err != nil {
			return nil, err
		}
		old = c
	}
	moov := inner

	delta := int64(len(moov)) - nat.moov.Size
	if delta != 0 {
		shifted, err := shiftChunkOffsets(moov, nat.moov.End(), delta)
		if err != nil {
			return nil, err
		}
		if shifted > 0 {
			opts.Logger.Debug("moved chunk offsets", "tables", shifted, "delta", delta)
		}
	}

	out := make([]byte, 0, int64(len(data))+delta)
	out = append(out, data[:nat.moov.Offset]...)
	out = append(out, moov...)
	out = append(out, data[nat.moov.End():]...)

	opts.Logger.Debug("rebuilt MP4 metadata",
		"old_moov_size", nat.moov.Size,
		"new_moov_size", len(moov))
	return out, nil
}

// splice returns container with child replaced by replacement, or with
// replacement appended when child is nil. The header keeps its size form.
func splice(data []byte, container, child *Atom, replacement []byte) ([]byte, error) {
	var body bytes.Buffer
	if child != nil {
		body.Write(data[container.DataOffset():child.Offset])
		body.Write(replacement)
		body.Write(data[child.End():container.End()])
	} else {
		body.Write(data[container.DataOffset():container.End()])
		body.Write(replacement)
	}

	if !container.Extended {
		return box(container.Type, body.Bytes())
	}
	out := make([]byte, 16, 16+body.Len())
	binary.BigEndian.PutUint32(out, 1)
	copy(out[4:], container.Type)
	binary.BigEndian.PutUint64(out[8:], uint64(16+body.Len()))
	return append(out, body.Bytes()...), nil
}

// metaAtom wraps ilst in a meta full box with an iTunes metadata handler.
func metaAtom(ilst []byte) ([]byte, error) {
	hdlr := make([]byte, 25)
	copy(hdlr[8:], "mdir")
	copy(hdlr[12:], "appl")
	h, err := box("hdlr", hdlr)
	if err != nil {
		return nil, err
	}
	body := make([]byte, 4, 4+len(h)+len(ilst))
	body = append(body, h...)
	return box("meta", append(body, ilst...))
}

// shiftChunkOffsets adds delta to every stco and co64 entry in moov that is
// at or past threshold. It edits moov in place and returns the number of
// tables visited.
func shiftChunkOffsets(moov []byte, threshold, delta int64) (int, error) {
	sr := binutil.NewSafeReader(moov, "moov")
	root, err := readAtomHeader(sr, 0, sr.Size())
	if err != nil {
		return 0, err
	}

	var tables []*Atom
	if err := walk(sr, moov, root, 0, func(a *Atom, _ int) {
		if a.Type == "stco" || a.Type == "co64" {
			tables = append(tables, a)
		}
	}); err != nil {
		return 0, err
	}

	for _, t := range tables {
		count, err := binutil.Read[uint32](sr, t.DataOffset()+4, "chunk offset count")
		if err != nil {
			return 0, err
		}
		width := int64(4)
		if t.Type == "co64" {
			width = 8
		}
		start := t.DataOffset() + 8
		if int64(count) > (t.End()-start)/width {
			return 0, types.Corrupt(types.FormatMP4, t.Offset,
				fmt.Sprintf("%s entry count %d overruns the atom", t.Type, count), nil)
		}

		for i := range int64(count) {
			at := moov[start+i*width:]
			if width == 8 {
				v := int64(binary.BigEndian.Uint64(at))
				if v >= threshold {
					binary.BigEndian.PutUint64(at, uint64(v+delta))
				}
				continue
			}
			v := int64(binary.BigEndian.Uint32(at))
			if v < threshold {
				continue
			}
			if v+delta > math.MaxUint32 {
				return 0, &types.EncodingOverflowError{
					Format: types.FormatMP4, What: "stco chunk offset",
					Size: uint64(v + delta), Limit: math.MaxUint32,
				}
			}
			binary.BigEndian.PutUint32(at, uint32(v+delta))
		}
	}
	return len(tables), nil
}
