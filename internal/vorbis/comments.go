// Package vorbis reads and writes Vorbis comment blocks.
//
// A block is a vendor string followed by UTF-8 "KEY=VALUE" records, all
// prefixed with little-endian 32-bit lengths. FLAC stores one in its
// VORBIS_COMMENT metadata block. Field names are case-insensitive.
package vorbis

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/fieldmap"
	"github.com/simonhull/audiotag/internal/types"
)

// Comment is one record of a block, kept as stored.
type Comment struct {
	Raw    []byte // "KEY=VALUE"
	Offset int64  // of the length prefix, relative to the block
}

// Key returns the field name, or "" when the record has no '='.
func (c Comment) Key() string {
	i := bytes.IndexByte(c.Raw, '=')
	if i < 0 {
		return ""
	}
	return string(c.Raw[:i])
}

// Value returns the text after the first '='.
func (c Comment) Value() string {
	i := bytes.IndexByte(c.Raw, '=')
	if i < 0 {
		return ""
	}
	return string(c.Raw[i+1:])
}

// Block is a parsed comment block.
type Block struct {
	Vendor   string
	Comments []Comment
}

// New returns an empty block with the given vendor string.
func New(vendor string) *Block {
	return &Block{Vendor: vendor}
}

// Parse decodes a comment block. Records reference data without copying.
func Parse(data []byte) (*Block, error) {
	r := binary.NewReader(binary.NewSafeReader(data, "vorbis comment"), 0)

	vendorLen, err := binary.ReadValueLE[uint32](r, "vendor length")
	if err != nil {
		return nil, err
	}
	vendor, err := r.ReadString(int(vendorLen), "vendor string")
	if err != nil {
		return nil, err
	}
	count, err := binary.ReadValueLE[uint32](r, "comment count")
	if err != nil {
		return nil, err
	}
	// Every record needs at least its 4-byte length.
	if int64(count) > (r.Size()-r.Offset())/4 {
		return nil, fmt.Errorf("comment count %d exceeds block size %d", count, r.Size())
	}

	b := &Block{Vendor: vendor, Comments: make([]Comment, 0, count)}
	for i := range count {
		at := r.Offset()
		n, err := binary.ReadValueLE[uint32](r, "comment length")
		if err != nil {
			return nil, fmt.Errorf("comment %d: %w", i, err)
		}
		raw, err := r.ReadBytes(int64(n), "comment")
		if err != nil {
			return nil, fmt.Errorf("comment %d: %w", i, err)
		}
		b.Comments = append(b.Comments, Comment{Raw: raw, Offset: at})
	}
	return b, nil
}

// Apply loads mapped comments into md. base is the block's offset in
// file.Data, used for warnings.
func (b *Block) Apply(file *types.File, md *types.Metadata, base int64) {
	for _, c := range b.Comments {
		key := c.Key()
		if key == "" {
			file.Warn("tag", base+c.Offset, "comment without '=': %q", truncate(string(c.Raw)))
			continue
		}
		e, ok := fieldmap.Vorbis.Lookup(key)
		if !ok {
			continue
		}
		if v := c.Value(); !e.Decode(md, v) {
			file.Warn("tag", base+c.Offset, "%s: cannot parse %q", strings.ToUpper(key), truncate(v))
		}
	}
}

// Merge returns a block with b's vendor and records merged with the dirty
// fields of md. Records of clean and unknown fields keep their order and
// bytes.
func (b *Block) Merge(md *types.Metadata) *Block {
	keys := make([]string, len(b.Comments))
	for i, c := range b.Comments {
		keys[i] = c.Key()
	}

	out := &Block{Vendor: b.Vendor}
	for _, step := range fieldmap.Vorbis.Plan(keys, md.Dirty()) {
		if step.Entry == nil {
			out.Comments = append(out.Comments, b.Comments[step.Keep])
			continue
		}
		if v, ok := step.Entry.Encode(md); ok {
			out.Comments = append(out.Comments, Comment{Raw: []byte(step.Entry.Key + "=" + v)})
		}
	}
	return out
}

// Bytes serializes the block.
func (b *Block) Bytes() []byte {
	var buf bytes.Buffer
	w := binary.NewSafeWriter(&buf)
	_ = binary.WriteLE(w, uint32(len(b.Vendor)))
	_ = w.WriteString(b.Vendor)
	_ = binary.WriteLE(w, uint32(len(b.Comments)))
	for _, c := range b.Comments {
		_ = binary.WriteLE(w, uint32(len(c.Raw)))
		_ = w.WriteBytes(c.Raw)
	}
	return buf.Bytes()
}

func truncate(s string) string {
	const limit = 40
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
