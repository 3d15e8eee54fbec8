// Package registry maps each container format to its parser and writer.
package registry

import (
	"sync"

	"github.com/simonhull/audiotag/internal/types"
)

// FormatParser is the interface all format parsers implement.
type FormatParser interface {
	// Parse walks data and returns the parsed file. data is not copied and
	// must stay unchanged for the lifetime of the result.
	Parse(data []byte) (*types.File, error)
}

// FormatWriter is the interface format writers implement.
type FormatWriter interface {
	// Write re-encodes file with md and returns a new buffer. It must not
	// modify file.Data, and returns no buffer on error.
	Write(file *types.File, md *types.Metadata, opts types.WriteOptions) ([]byte, error)
}

// ParserFunc adapts a function to FormatParser.
type ParserFunc func(data []byte) (*types.File, error)

// Parse calls f(data).
func (f ParserFunc) Parse(data []byte) (*types.File, error) { return f(data) }

// WriterFunc adapts a function to FormatWriter.
type WriterFunc func(file *types.File, md *types.Metadata, opts types.WriteOptions) ([]byte, error)

// Write calls f(file, md, opts).
func (f WriterFunc) Write(file *types.File, md *types.Metadata, opts types.WriteOptions) ([]byte, error) {
	return f(file, md, opts)
}

var (
	mu      sync.RWMutex
	parsers = make(map[types.Format]FormatParser)
	writers = make(map[types.Format]FormatWriter)
)

// Register registers a parser for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, parser FormatParser) {
	mu.Lock()
	defer mu.Unlock()
	parsers[format] = parser
}

// Get returns the parser for a given format.
// Returns nil if no parser is registered for the format.
func Get(format types.Format) FormatParser {
	mu.RLock()
	defer mu.RUnlock()
	return parsers[format]
}

// RegisterWriter registers a writer for a format.
// This is called by format packages during initialization (init functions).
func RegisterWriter(format types.Format, writer FormatWriter) {
	mu.Lock()
	defer mu.Unlock()
	writers[format] = writer
}

// GetWriter returns the writer for a given format.
// Returns nil if no writer is registered for the format.
func GetWriter(format types.Format) FormatWriter {
	mu.RLock()
	defer mu.RUnlock()
	return writers[format]
}
