package types

import (
	"maps"
	"math"
	"slices"
)

// Metadata is the unified, mutable view of a file's tags.
//
// Parsers fill it through the Load methods, which do not touch the dirty
// set. Callers mutate it through the Set and Clear methods, which validate
// first and leave state unchanged on error.
type Metadata struct {
	text     map[TextField]string
	numbers  map[NumberField]int
	bounds   Bounds
	pictures []Picture
	dirty    DirtySet
}

// Bounds gives the smallest and largest value a numeric field can hold in
// a native encoding. A hi of 0 means no limit beyond a signed 32-bit range.
type Bounds func(NumberField) (lo, hi int)

// NewMetadata returns empty metadata whose numeric fields are checked
// against bounds. nil bounds accept any non-negative 32-bit value.
func NewMetadata(bounds Bounds) *Metadata {
	return &Metadata{
		text:    make(map[TextField]string),
		numbers: make(map[NumberField]int),
		bounds:  bounds,
	}
}

// Text returns the value of a text field.
func (m *Metadata) Text(f TextField) (string, bool) {
	v, ok := m.text[f]
	return v, ok
}

// Number returns the value of a numeric field.
func (m *Metadata) Number(f NumberField) (int, bool) {
	v, ok := m.numbers[f]
	return v, ok
}

// Pictures returns copies of the stored pictures in order.
func (m *Metadata) Pictures() []Picture {
	out := make([]Picture, len(m.pictures))
	for i, p := range m.pictures {
		out[i] = p.Clone()
	}
	return out
}

// PictureCount returns the number of stored pictures without copying them.
func (m *Metadata) PictureCount() int { return len(m.pictures) }

// EachPicture calls fn with each stored picture. fn must not retain or
// modify p.Data.
func (m *Metadata) EachPicture(fn func(i int, p Picture)) {
	for i, p := range m.pictures {
		fn(i, p)
	}
}

// LoadText records a parsed value. The first value loaded for a field wins.
func (m *Metadata) LoadText(f TextField, v string) {
	if _, ok := m.text[f]; !ok {
		m.text[f] = v
	}
}

// LoadNumber records a parsed value. The first value loaded for a field wins.
func (m *Metadata) LoadNumber(f NumberField, v int) {
	if v < 0 {
		return
	}
	if _, ok := m.numbers[f]; !ok {
		m.numbers[f] = v
	}
}

// LoadPicture appends a parsed picture. Pictures without data are skipped.
func (m *Metadata) LoadPicture(p Picture) {
	if len(p.Data) == 0 {
		return
	}
	m.pictures = append(m.pictures, p)
}

// SetText stages a new value for f. Any string is accepted.
func (m *Metadata) SetText(f TextField, v string) error {
	if !f.Field().IsText() {
		return &ValidationError{Field: "field", Value: int(f), Reason: "not a text field"}
	}
	m.text[f] = v
	m.dirty.Mark(f.Field())
	return nil
}

// SetNumber stages a new value for f after range-checking it against the
// native encoding.
func (m *Metadata) SetNumber(f NumberField, v int) error {
	if !f.Field().IsNumber() {
		return &ValidationError{Field: "field", Value: int(f), Reason: "not a numeric field"}
	}
	if v < 0 {
		return &ValidationError{Field: f.String(), Value: v, Reason: "must not be negative"}
	}
	if limit := m.Limit(f); v > limit {
		return &ValidationError{Field: f.String(), Value: v, Reason: "exceeds native range"}
	}
	if v < m.Minimum(f) {
		return &ValidationError{Field: f.String(), Value: v, Reason: "below native range"}
	}
	m.numbers[f] = v
	m.dirty.Mark(f.Field())
	return nil
}

// SetPictures replaces the picture list. Every entry is validated before
// anything changes; the data is copied.
func (m *Metadata) SetPictures(ps []Picture) error {
	for _, p := range ps {
		if err := p.Valid(); err != nil {
			return err
		}
	}
	next := make([]Picture, len(ps))
	for i, p := range ps {
		next[i] = p.Clone()
	}
	m.pictures = next
	m.dirty.Mark(FieldPictures)
	return nil
}

// ClearText stages removal of f.
func (m *Metadata) ClearText(f TextField) error {
	if !f.Field().IsText() {
		return &ValidationError{Field: "field", Value: int(f), Reason: "not a text field"}
	}
	delete(m.text, f)
	m.dirty.Mark(f.Field())
	return nil
}

// ClearNumber stages removal of f.
func (m *Metadata) ClearNumber(f NumberField) error {
	if !f.Field().IsNumber() {
		return &ValidationError{Field: "field", Value: int(f), Reason: "not a numeric field"}
	}
	delete(m.numbers, f)
	m.dirty.Mark(f.Field())
	return nil
}

// Limit returns the largest value f can hold.
func (m *Metadata) Limit(f NumberField) int {
	if m.bounds != nil {
		if _, hi := m.bounds(f); hi > 0 {
			return hi
		}
	}
	return math.MaxInt32
}

// Minimum returns the smallest value f can hold.
func (m *Metadata) Minimum(f NumberField) int {
	if m.bounds != nil {
		if lo, _ := m.bounds(f); lo > 0 {
			return lo
		}
	}
	return 0
}

// Dirty returns the set of fields written since parse.
func (m *Metadata) Dirty() DirtySet { return m.dirty }

// IsDirty reports whether f was written since parse.
func (m *Metadata) IsDirty(f Field) bool { return m.dirty.Has(f) }

// Clone returns a deep copy, dirty set included.
func (m *Metadata) Clone() *Metadata {
	c := &Metadata{
		text:    maps.Clone(m.text),
		numbers: maps.Clone(m.numbers),
		bounds:  m.bounds,
		dirty:   m.dirty,
	}
	if m.pictures != nil {
		c.pictures = m.Pictures()
	}
	return c
}

// Equal compares field values and pictures. The dirty set is ignored.
func (m *Metadata) Equal(o *Metadata) bool {
	if m == nil || o == nil {
		return m == o
	}
	return maps.Equal(m.text, o.text) &&
		maps.Equal(m.numbers, o.numbers) &&
		slices.EqualFunc(m.pictures, o.pictures, Picture.Equal)
}
