package m4a

import (
	"cmp"
	"slices"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/fieldmap"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// native is what the writer needs from a parse.
type native struct {
	moov  *Atom
	udta  *Atom // nil when absent, as are meta and ilst
	meta  *Atom
	ilst  *Atom
	items []item
}

// parser implements registry.FormatParser and registry.FormatWriter for
// MP4-family files.
type parser struct{}

// Parse walks the top-level atoms, loads the ilst items found at
// moov/udta/meta/ilst and derives audio properties from the first sound
// track. Every mdat atom's body is audio payload.
func (p *parser) Parse(data []byte) (*types.File, error) { //nolint:gocyclo // top-level walk with per-atom checks
	sr := binary.NewSafeReader(data, "mp4")

	top, err := readChildren(sr, 0, sr.Size())
	if err != nil {
		return nil, err
	}

	md := types.NewMetadata(fieldmap.BoundsFunc(types.FormatMP4))
	file := &types.File{
		Data:     data,
		Format:   types.FormatMP4,
		Metadata: md,
	}
	nat := &native{}
	file.Native = nat

	for _, a := range top {
		file.AddRegion(a.Type, 0, a.Offset, a.Size)
		switch a.Type {
		case "moov":
			if nat.moov != nil {
				return nil, types.Corrupt(types.FormatMP4, a.Offset, "duplicate moov atom", nil)
			}
			nat.moov = a
			if err := walk(sr, data, a, 1, func(c *Atom, depth int) {
				file.AddRegion(c.Type, depth, c.Offset, c.Size)
			}); err != nil {
				return nil, err
			}
		case "mdat":
			file.Payload = append(file.Payload, types.Span{Offset: a.DataOffset(), Length: a.DataSize()})
		}
	}
	if nat.moov == nil {
		return nil, types.Corrupt(types.FormatMP4, 0, "no moov atom", nil)
	}
	if end := lastEnd(top); end < sr.Size() {
		file.Warn("structure", end, "%d trailing bytes after the last atom", sr.Size()-end)
	}

	if err := locateIlst(sr, data, nat); err != nil {
		return nil, err
	}
	if nat.ilst != nil {
		depth := 0
		for _, r := range file.Layout {
			if r.Offset == nat.ilst.Offset && r.Name == "ilst" {
				depth = r.Depth + 1
			}
		}
		items, err := parseIlst(sr, nat.ilst, file, depth)
		if err != nil {
			return nil, err
		}
		nat.items = items
		for _, it := range items {
			it.apply(file, md)
		}
		slices.SortStableFunc(file.Layout, func(a, b types.Region) int {
			return cmp.Compare(a.Offset, b.Offset)
		})
	}

	parseTechnicalInfo(sr, data, nat.moov, file)
	return file, nil
}

// locateIlst finds moov/udta/meta/ilst. A meta with more than one ilst is
// rejected because the writer could not tell which to replace.
func locateIlst(sr *binary.SafeReader, data []byte, nat *native) error {
	path, err := findPath(sr, data, nat.moov, "udta", "meta")
	if err != nil {
		return err
	}
	if len(path) > 0 {
		nat.udta = path[0]
	}
	if len(path) < 2 {
		return nil
	}
	nat.meta = path[1]

	children, err := readChildren(sr, childStart(data, nat.meta), nat.meta.End())
	if err != nil {
		return err
	}
	for _, c := range children {
		if c.Type != "ilst" {
			continue
		}
		if nat.ilst != nil {
			return types.Corrupt(types.FormatMP4, c.Offset, "duplicate ilst atom", nil)
		}
		nat.ilst = c
	}
	return nil
}

func lastEnd(atoms []*Atom) int64 {
	if len(atoms) == 0 {
		return 0
	}
	return atoms[len(atoms)-1].End()
}

func init() {
	p := &parser{}
	registry.Register(types.FormatMP4, p)
	registry.RegisterWriter(types.FormatMP4, p)
}
