// Package binary provides type-safe binary writing primitives with offset tracking.
package binary

import (
	"encoding/binary"
	"io"
)

// SafeWriter wraps io.Writer with position tracking.
type SafeWriter struct {
	w      io.Writer
	offset int64
}

// NewSafeWriter creates a new SafeWriter.
func NewSafeWriter(w io.Writer) *SafeWriter {
	return &SafeWriter{
		w:      w,
		offset: 0,
	}
}

// Offset returns the current position (number of bytes written).
func (sw *SafeWriter) Offset() int64 {
	return sw.offset
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	n, err := sw.w.Write(b)
	sw.offset += int64(n)
	return err
}

// WriteString writes a string as bytes to the underlying writer.
func (sw *SafeWriter) WriteString(s string) error {
	return sw.WriteBytes([]byte(s))
}

// WriteZeros writes n zero bytes (padding).
func (sw *SafeWriter) WriteZeros(n int) error {
	if n <= 0 {
		return nil
	}
	return sw.WriteBytes(make([]byte, n))
}

// Write writes a value of type T in big-endian byte order.
// T must be uint8, uint16, uint32, or uint64.
func Write[T uint8 | uint16 | uint32 | uint64](sw *SafeWriter, val T) error {
	return sw.WriteBytes(encode(val, binary.BigEndian))
}

// WriteLE writes a value of type T in little-endian byte order.
// T must be uint8, uint16, uint32, or uint64.
func WriteLE[T uint8 | uint16 | uint32 | uint64](sw *SafeWriter, val T) error {
	return sw.WriteBytes(encode(val, binary.LittleEndian))
}

// WriteUint24 writes the low 24 bits of v in big-endian byte order.
func (sw *SafeWriter) WriteUint24(v uint32) error {
	var buf [3]byte
	PutUint24(buf[:], v)
	return sw.WriteBytes(buf[:])
}

func encode[T uint8 | uint16 | uint32 | uint64](val T, order binary.ByteOrder) []byte {
	buf := make([]byte, sizeOf[T]())
	var zero T
	switch any(zero).(type) {
	case uint8:
		buf[0] = byte(val)
	case uint16:
		order.PutUint16(buf, uint16(val))
	case uint32:
		order.PutUint32(buf, uint32(val))
	case uint64:
		order.PutUint64(buf, uint64(val))
	}
	return buf
}
