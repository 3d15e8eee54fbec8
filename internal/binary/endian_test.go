package binary

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestReadLE(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.LittleEndian, uint16(513))
	binary.Write(buf, binary.LittleEndian, uint32(67305985))
	binary.Write(buf, binary.LittleEndian, uint64(578437695752307201))

	sr := NewSafeReader(buf.Bytes(), "flac")

	v16, err := ReadLE[uint16](sr, 0, "uint16")
	if err != nil || v16 != 513 {
		t.Errorf("uint16: got %d, %v", v16, err)
	}
	v32, err := ReadLE[uint32](sr, 2, "uint32")
	if err != nil || v32 != 67305985 {
		t.Errorf("uint32: got %d, %v", v32, err)
	}
	v64, err := ReadLE[uint64](sr, 6, "uint64")
	if err != nil || v64 != 578437695752307201 {
		t.Errorf("uint64: got %d, %v", v64, err)
	}
}

func TestReadEndian(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	sr := NewSafeReader(data, "wav")

	tests := []struct {
		name   string
		endian Endianness
		want   uint32
	}{
		{"big-endian", BigEndian, 0x01020304},
		{"little-endian", LittleEndian, 0x04030201},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadEndian[uint32](sr, 0, "value", tt.endian)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected 0x%08x, got 0x%08x", tt.want, got)
			}
		})
	}
}

func TestReadBE_OutOfBounds(t *testing.T) {
	sr := NewSafeReader([]byte{0x01}, "m4a")
	if _, err := ReadBE[uint32](sr, 0, "atom size"); err == nil {
		t.Fatal("expected error reading past end")
	}
}

func TestUint24(t *testing.T) {
	buf := make([]byte, 3)
	PutUint24(buf, 0x00ABCDEF)

	if !bytes.Equal(buf, []byte{0xAB, 0xCD, 0xEF}) {
		t.Errorf("unexpected encoding % x", buf)
	}
	if got := Uint24(buf); got != 0xABCDEF {
		t.Errorf("expected 0xABCDEF, got 0x%06x", got)
	}
}
