// Package types provides the data structures shared by every container
// parser and writer: the unified metadata model, pictures, audio
// properties, and the parsed file record.
package types

import (
	"fmt"
	"log/slog"
)

// Span is a byte range within a buffer.
type Span struct {
	Offset int64
	Length int64
}

// End returns the offset one past the last byte.
func (s Span) End() int64 { return s.Offset + s.Length }

// Bytes returns the part of data the span covers.
func (s Span) Bytes(data []byte) []byte { return data[s.Offset:s.End()] }

// Region names one structural unit of a container, e.g. an ID3 frame, a FLAC
// block or an MP4 box. Depth is the nesting level, 0 for top-level units.
type Region struct {
	Name  string
	Depth int
	Span
}

// File is the result of parsing a buffer.
//
// Data is the caller's original buffer and must not be modified. Native
// holds the container-specific record list the matching writer needs to
// re-emit unknown records verbatim; only that writer inspects it.
type File struct {
	Native   any
	Metadata *Metadata
	Data     []byte
	Payload  []Span
	Layout   []Region
	Warnings []Warning
	Audio    AudioProperties
	Format   Format
}

// Warn appends a warning.
func (f *File) Warn(stage string, offset int64, format string, args ...any) {
	f.Warnings = append(f.Warnings, Warning{Stage: stage, Offset: offset, Message: fmt.Sprintf(format, args...)})
}

// AddRegion appends a layout entry.
func (f *File) AddRegion(name string, depth int, offset, length int64) {
	f.Layout = append(f.Layout, Region{Name: name, Depth: depth, Span: Span{Offset: offset, Length: length}})
}

// WriteOptions carries encoder settings from the public options.
type WriteOptions struct {
	Logger     *slog.Logger
	Vendor     string
	Padding    int
	ID3Version uint8
}

// Defaults for WriteOptions fields left at zero.
const (
	DefaultID3Version = 3
	DefaultPadding    = 1024
	DefaultVendor     = "audiotag"
)

// WithDefaults fills zero fields.
func (o WriteOptions) WithDefaults() WriteOptions {
	if o.ID3Version == 0 {
		o.ID3Version = DefaultID3Version
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.Vendor == "" {
		o.Vendor = DefaultVendor
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
