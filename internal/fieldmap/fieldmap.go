// Package fieldmap translates between native tag keys and unified fields.
//
// Each container vocabulary is a Table of Entries. Parsers call Lookup to
// find where a native record belongs and Decode to load it; writers call
// Plan to merge retained records with dirty fields, then Encode to build
// new record values.
package fieldmap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/simonhull/audiotag/internal/types"
)

// Kind describes how a native value is encoded.
type Kind uint8

const (
	// KindText is a plain string.
	KindText Kind = iota
	// KindNumber is a decimal integer. With two Fields, an "N/M" value also
	// loads the total, but only the first field is written back.
	KindNumber
	// KindYear is a date whose leading four digits are the year. Years
	// below 1000 are written zero-padded.
	KindYear
	// KindPair is an "N/M" value holding a number and its total.
	KindPair
	// KindGenre is a genre name, possibly an ID3v1 "(n)" reference.
	KindGenre
	// KindPicture is an embedded image record.
	KindPicture
)

// Entry is one row of a vocabulary table.
type Entry struct {
	Key     string
	Aliases []string
	Fields  []types.Field
	Kind    Kind
}

// Field returns the primary field of the entry.
func (e *Entry) Field() types.Field { return e.Fields[0] }

// writes reports whether encoding e produces a value for f.
func (e *Entry) writes(f types.Field) bool {
	if e.Kind == KindPair {
		for _, ef := range e.Fields {
			if ef == f {
				return true
			}
		}
		return false
	}
	return e.Fields[0] == f
}

// touches reports whether decoding e can load any field in d.
func (e *Entry) touches(d types.DirtySet) bool {
	for _, f := range e.Fields {
		if d.Has(f) {
			return true
		}
	}
	return false
}

// Decode loads a native value into md. It reports false when the value is
// malformed for the entry's kind.
func (e *Entry) Decode(md *types.Metadata, value string) bool {
	switch e.Kind {
	case KindText:
		md.LoadText(types.TextField(e.Field()), value)
	case KindGenre:
		md.LoadText(types.TextField(e.Field()), ResolveGenre(value))
	case KindYear:
		y, ok := ParseYear(value)
		if !ok {
			return false
		}
		md.LoadNumber(types.NumberField(e.Field()), y)
	case KindNumber, KindPair:
		n, total, hasN, hasTotal := ParsePair(value)
		if !hasN && !hasTotal {
			return false
		}
		if hasN {
			md.LoadNumber(types.NumberField(e.Fields[0]), n)
		}
		if hasTotal && len(e.Fields) > 1 {
			md.LoadNumber(types.NumberField(e.Fields[1]), total)
		}
	case KindPicture:
		return false
	}
	return true
}

// Encode renders the current value of the entry's fields. It reports false
// when there is nothing to write; empty text counts as nothing.
func (e *Entry) Encode(md *types.Metadata) (string, bool) {
	switch e.Kind {
	case KindText, KindGenre:
		v, ok := md.Text(types.TextField(e.Field()))
		return v, ok && v != ""
	case KindYear:
		v, ok := md.Number(types.NumberField(e.Field()))
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%04d", v), true
	case KindNumber:
		v, ok := md.Number(types.NumberField(e.Field()))
		if !ok {
			return "", false
		}
		return strconv.Itoa(v), true
	case KindPair:
		n, hasN := md.Number(types.NumberField(e.Fields[0]))
		total, hasTotal := md.Number(types.NumberField(e.Fields[1]))
		s := FormatPair(n, total, hasN, hasTotal)
		return s, s != ""
	}
	return "", false
}

// Table is a native vocabulary.
type Table struct {
	byKey   map[string]*Entry
	byField map[types.Field]*Entry
	name    string
	entries []Entry
	fold    bool
}

func newTable(name string, fold bool, entries ...Entry) *Table {
	t := &Table{
		name:    name,
		entries: entries,
		fold:    fold,
		byKey:   make(map[string]*Entry),
		byField: make(map[types.Field]*Entry),
	}
	for i := range t.entries {
		e := &t.entries[i]
		for _, k := range append([]string{e.Key}, e.Aliases...) {
			t.byKey[t.norm(k)] = e
		}
	}
	for f := types.FieldTitle; f <= types.FieldPictures; f++ {
		for i := range t.entries {
			if t.entries[i].writes(f) {
				t.byField[f] = &t.entries[i]
				break
			}
		}
	}
	return t
}

func (t *Table) norm(key string) string {
	if t.fold {
		return strings.ToUpper(key)
	}
	return key
}

// Name returns the vocabulary name.
func (t *Table) Name() string { return t.name }

// Lookup maps a native key to its entry.
func (t *Table) Lookup(key string) (*Entry, bool) {
	e, ok := t.byKey[t.norm(key)]
	return e, ok
}

// ForField returns the entry used to write f.
func (t *Table) ForField(f types.Field) (*Entry, bool) {
	e, ok := t.byField[f]
	return e, ok
}

// Supports reports whether the vocabulary can store f.
func (t *Table) Supports(f types.Field) bool {
	_, ok := t.byField[f]
	return ok
}

// Step is one output record of a merge: either an original record kept
// verbatim (Keep >= 0) or an entry to encode from metadata (Entry != nil).
type Step struct {
	Entry *Entry
	Keep  int
}

// Plan merges original records, identified by their native keys, with the
// dirty fields of md.
//
// Records whose entry is untouched by the dirty set, and records with
// unknown keys, are kept in order. Touched records are dropped; each
// affected entry is emitted once, at the position of the first dropped
// record it shares a field with, or appended when there is none. Emitted
// entries may still encode to nothing when their field was cleared.
func (t *Table) Plan(keys []string, dirty types.DirtySet) []Step {
	affected := dirty
	dropped := make([]*Entry, len(keys))
	for i, k := range keys {
		if e, ok := t.Lookup(k); ok && e.touches(dirty) {
			dropped[i] = e
			for _, f := range e.Fields {
				affected.Mark(f)
			}
		}
	}

	var emit []*Entry
	seen := make(map[*Entry]bool)
	for _, f := range affected.Fields() {
		e, ok := t.ForField(f)
		if !ok || seen[e] {
			continue
		}
		seen[e] = true
		emit = append(emit, e)
	}

	placed := make(map[*Entry]bool)
	steps := make([]Step, 0, len(keys)+len(emit))
	for i := range keys {
		if dropped[i] == nil {
			steps = append(steps, Step{Keep: i})
			continue
		}
		for _, e := range emit {
			if !placed[e] && sharesField(e, dropped[i]) {
				placed[e] = true
				steps = append(steps, Step{Keep: -1, Entry: e})
			}
		}
	}
	for _, e := range emit {
		if !placed[e] {
			steps = append(steps, Step{Keep: -1, Entry: e})
		}
	}
	return steps
}

func sharesField(a, b *Entry) bool {
	for _, f := range a.Fields {
		for _, g := range b.Fields {
			if f == g {
				return true
			}
		}
	}
	return false
}
