package binary

import "errors"

// MaxSynchsafe is the largest value a 4-byte synchsafe integer can hold (2^28 - 1).
const MaxSynchsafe = 1<<28 - 1

// ErrSynchsafeOverflow is returned when a value does not fit in 28 bits.
var ErrSynchsafeOverflow = errors.New("value exceeds 28-bit synchsafe range")

// DecodeSynchsafe decodes a synchsafe integer (7 bits per byte).
// ID3v2 uses 7-bit encoding where bit 7 is always 0.
func DecodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// EncodeSynchsafe encodes v as a 4-byte synchsafe integer.
func EncodeSynchsafe(v uint32) ([4]byte, error) {
	if v > MaxSynchsafe {
		return [4]byte{}, ErrSynchsafeOverflow
	}
	return [4]byte{
		byte(v>>21) & 0x7F,
		byte(v>>14) & 0x7F,
		byte(v>>7) & 0x7F,
		byte(v) & 0x7F,
	}, nil
}

// RemoveUnsync reverses ID3v2 unsynchronisation: every 0xFF 0x00 pair
// becomes 0xFF. The input is not modified.
func RemoveUnsync(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xFF && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}
