// Package binary provides type-safe binary reading primitives with bounds checking
package binary

import (
	"encoding/binary"
	"fmt"
)

// OutOfBoundsError is returned when a read would leave the buffer.
type OutOfBoundsError struct {
	Label  string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset < 0 || e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (buffer size: %d) while reading %s",
			e.Label, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed buffer size %d while reading %s",
		e.Label, e.Length, e.Offset, e.Size, e.What)
}

// SafeReader wraps an in-memory buffer with bounds checking and helpful error messages.
type SafeReader struct {
	data  []byte
	label string
}

// NewSafeReader creates a new SafeReader. The label prefixes error messages.
func NewSafeReader(data []byte, label string) *SafeReader {
	return &SafeReader{
		data:  data,
		label: label,
	}
}

// Label returns the label associated with this reader.
func (sr *SafeReader) Label() string {
	return sr.label
}

// Size returns the buffer length.
func (sr *SafeReader) Size() int64 {
	return int64(len(sr.data))
}

// Slice returns a view of n bytes at off without copying.
//
// The returned slice aliases the underlying buffer and must not be modified.
func (sr *SafeReader) Slice(off, n int64, what string) ([]byte, error) {
	size := int64(len(sr.data))
	if off < 0 || n < 0 || off > size || n > size-off {
		return nil, &OutOfBoundsError{Label: sr.label, What: what, Offset: off, Length: int(n), Size: size}
	}
	return sr.data[off : off+n : off+n], nil
}

// ReadAt copies len(b) bytes at the given offset with context for error messages.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	view, err := sr.Slice(off, int64(len(b)), what)
	if err != nil {
		return err
	}
	copy(b, view)
	return nil
}

// Read reads a value of type T from the given offset.
// T must be uint8, uint16, uint32, or uint64.
func Read[T uint8 | uint16 | uint32 | uint64](sr *SafeReader, off int64, what string) (T, error) {
	return ReadEndian[T](sr, off, what, BigEndian)
}

// Reader provides sequential reading with automatic offset tracking.
type Reader struct {
	*SafeReader
	offset int64
}

// NewReader creates a new Reader starting at the given offset.
func NewReader(sr *SafeReader, offset int64) *Reader {
	return &Reader{
		SafeReader: sr,
		offset:     offset,
	}
}

// ReadValue reads a big-endian numeric value and advances the offset.
func ReadValue[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	val, err := Read[T](r.SafeReader, r.offset, what)
	if err != nil {
		var zero T
		return zero, err
	}
	r.offset += int64(sizeOf[T]())
	return val, nil
}

// ReadValueLE reads a little-endian numeric value and advances the offset.
func ReadValueLE[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	val, err := ReadLE[T](r.SafeReader, r.offset, what)
	if err != nil {
		var zero T
		return zero, err
	}
	r.offset += int64(sizeOf[T]())
	return val, nil
}

// ReadBytes returns a view of the next n bytes and advances the offset.
func (r *Reader) ReadBytes(n int64, what string) ([]byte, error) {
	b, err := r.SafeReader.Slice(r.offset, n, what)
	if err != nil {
		return nil, err
	}
	r.offset += n
	return b, nil
}

// ReadString reads a string of the given length and advances the offset.
func (r *Reader) ReadString(length int, what string) (string, error) {
	b, err := r.ReadBytes(int64(length), what)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int64) {
	r.offset += n
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ChainReader allows chaining multiple reads with deferred error checking.
// This avoids repetitive "if err != nil" checks.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// ReadChained reads a big-endian value with deferred error checking.
// If a previous read failed, returns zero value without attempting read.
func ReadChained[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// ReadChainedLE reads a little-endian value with deferred error checking.
func ReadChainedLE[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValueLE[T](cr.Reader, what)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// Bytes reads n bytes, accumulating any error.
func (cr *ChainReader) Bytes(n int64, what string) []byte {
	if cr.err != nil {
		return nil
	}

	b, err := cr.Reader.ReadBytes(n, what)
	if err != nil {
		cr.err = err
		return nil
	}

	return b
}

// String reads a string, accumulating any error.
func (cr *ChainReader) String(length int, what string) string {
	return string(cr.Bytes(int64(length), what))
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}

func sizeOf[T uint8 | uint16 | uint32 | uint64]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

func decode[T uint8 | uint16 | uint32 | uint64](buf []byte, order binary.ByteOrder) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(buf[0])
	case uint16:
		return T(order.Uint16(buf))
	case uint32:
		return T(order.Uint32(buf))
	default:
		return T(order.Uint64(buf))
	}
}
