// Package m4a reads and writes MP4-family files (M4A, M4B, MP4) with iTunes
// ilst metadata.
package m4a

import (
	"fmt"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// Atom is a box header located in the buffer.
type Atom struct {
	Type     string // 4-character type code
	Offset   int64  // Position in the buffer
	Size     int64  // Total size including header
	Extended bool   // Whether this uses 64-bit extended size
}

// HeaderSize returns 16 for extended-size atoms and 8 otherwise.
func (a *Atom) HeaderSize() int64 {
	if a.Extended {
		return 16
	}
	return 8
}

// DataSize returns the size of the atom's data (excluding header)
func (a *Atom) DataSize() int64 {
	return a.Size - a.HeaderSize()
}

// DataOffset returns the offset where the atom's data starts
func (a *Atom) DataOffset() int64 {
	return a.Offset + a.HeaderSize()
}

// End returns the offset just past the atom.
func (a *Atom) End() int64 {
	return a.Offset + a.Size
}

// containerTypes lists atoms whose data is a sequence of child atoms.
// meta carries 4 bytes of version and flags first; see childStart.
var containerTypes = map[string]bool{
	"moov": true, // Movie container
	"udta": true, // User data
	"meta": true, // Metadata container
	"ilst": true, // iTunes metadata list
	"trak": true, // Track container
	"mdia": true, // Media container
	"minf": true, // Media information
	"stbl": true, // Sample table
	"edts": true, // Edit list container
	"dinf": true, // Data information
}

// IsContainer returns true if this atom type can contain other atoms
func (a *Atom) IsContainer() bool {
	return containerTypes[a.Type]
}

// readAtomHeader reads the atom header at offset. end bounds the enclosing
// container; a size of 0 extends the atom to end.
func readAtomHeader(sr *binary.SafeReader, offset, end int64) (*Atom, error) {
	cr := binary.NewChainReader(binary.NewReader(sr, offset))
	size32 := binary.ReadChained[uint32](cr, "atom size")
	typ := cr.String(4, "atom type")
	if err := cr.Error(); err != nil {
		return nil, types.Corrupt(types.FormatMP4, offset, "truncated atom header", err)
	}

	atom := &Atom{Type: typ, Offset: offset}
	switch size32 {
	case 0:
		atom.Size = end - offset
	case 1:
		size64 := binary.ReadChained[uint64](cr, "extended atom size")
		if err := cr.Error(); err != nil {
			return nil, types.Corrupt(types.FormatMP4, offset, "truncated extended atom size", err)
		}
		atom.Size = int64(size64)
		atom.Extended = true
	default:
		atom.Size = int64(size32)
	}

	if atom.Size < atom.HeaderSize() {
		return nil, types.Corrupt(types.FormatMP4, offset,
			fmt.Sprintf("invalid %q atom size %d", typ, atom.Size), nil)
	}
	if atom.End() > end {
		return nil, types.Corrupt(types.FormatMP4, offset,
			fmt.Sprintf("%q atom of %d bytes overruns its container", typ, atom.Size), nil)
	}
	return atom, nil
}

// readChildren returns the atoms in [start, end). Fewer than 8 trailing
// bytes are tolerated.
func readChildren(sr *binary.SafeReader, start, end int64) ([]*Atom, error) {
	var atoms []*Atom
	for offset := start; offset+8 <= end; {
		atom, err := readAtomHeader(sr, offset, end)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, atom)
		offset = atom.End()
	}
	return atoms, nil
}

// childStart returns where the children of a container begin. meta is a
// full box in ISO files but a plain container in some QuickTime files.
func childStart(data []byte, a *Atom) int64 {
	start := a.DataOffset()
	if a.Type == "meta" {
		if start+8 <= int64(len(data)) && string(data[start+4:start+8]) == "hdlr" {
			return start
		}
		return start + 4
	}
	return start
}

// findAtom returns the first child of parent with the given type, or nil.
func findAtom(sr *binary.SafeReader, data []byte, parent *Atom, atomType string) (*Atom, error) {
	children, err := readChildren(sr, childStart(data, parent), parent.End())
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		if c.Type == atomType {
			return c, nil
		}
	}
	return nil, nil
}

// findPath follows a chain of child types from parent. It returns the atoms
// found, stopping at the first missing one.
func findPath(sr *binary.SafeReader, data []byte, parent *Atom, path ...string) ([]*Atom, error) {
	var found []*Atom
	cur := parent
	for _, typ := range path {
		next, err := findAtom(sr, data, cur, typ)
		if err != nil {
			return found, err
		}
		if next == nil {
			break
		}
		found = append(found, next)
		cur = next
	}
	return found, nil
}

// walk calls fn for every atom below parent, depth first, descending into
// containers.
func walk(sr *binary.SafeReader, data []byte, parent *Atom, depth int, fn func(a *Atom, depth int)) error {
	children, err := readChildren(sr, childStart(data, parent), parent.End())
	if err != nil {
		return err
	}
	for _, c := range children {
		fn(c, depth)
		if c.IsContainer() && c.Type != "ilst" {
			if err := walk(sr, data, c, depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
