package audiotag_test

import (
	"bytes"
	"encoding/binary"
)

// flacFile returns a FLAC stream of one second at 44.1 kHz, 16 bit stereo,
// with a STREAMINFO block only. When last is false the block does not carry
// the last-block flag.
func flacFile(last bool) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("fLaC")

	header := uint32(34)
	if last {
		header |= 1 << 31
	}
	binary.Write(buf, binary.BigEndian, header)
	binary.Write(buf, binary.BigEndian, uint16(4096))
	binary.Write(buf, binary.BigEndian, uint16(4096))
	buf.Write(make([]byte, 6)) // min/max frame size
	packed := uint64(44100)<<44 | uint64(1)<<41 | uint64(15)<<36 | 44100
	binary.Write(buf, binary.BigEndian, packed)
	buf.Write(make([]byte, 16)) // MD5

	if last {
		buf.Write(bytes.Repeat([]byte{0xAB}, 5000))
	}
	return buf.Bytes()
}

// mp3File returns untagged MPEG-1 Layer III frames at 128 kbps, 44.1 kHz.
func mp3File() []byte {
	const frameSize = 417
	buf := &bytes.Buffer{}
	for i := range 20 {
		frame := make([]byte, frameSize)
		copy(frame, []byte{0xFF, 0xFB, 0x90, 0x00})
		for j := 4; j < frameSize; j++ {
			frame[j] = byte(i+j) & 0x7F
		}
		buf.Write(frame)
	}
	return buf.Bytes()
}

// wavFile returns 100 ms of 16-bit stereo PCM at 44.1 kHz.
func wavFile() []byte {
	fmtChunk := &bytes.Buffer{}
	binary.Write(fmtChunk, binary.LittleEndian, uint16(1))     // PCM
	binary.Write(fmtChunk, binary.LittleEndian, uint16(2))     // channels
	binary.Write(fmtChunk, binary.LittleEndian, uint32(44100)) // sample rate
	binary.Write(fmtChunk, binary.LittleEndian, uint32(176400))
	binary.Write(fmtChunk, binary.LittleEndian, uint16(4))
	binary.Write(fmtChunk, binary.LittleEndian, uint16(16))

	samples := make([]byte, 17640)
	body := &bytes.Buffer{}
	body.WriteString("WAVE")
	for _, c := range []struct {
		id   string
		data []byte
	}{{"fmt ", fmtChunk.Bytes()}, {"data", samples}} {
		body.WriteString(c.id)
		binary.Write(body, binary.LittleEndian, uint32(len(c.data)))
		body.Write(c.data)
	}

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(body.Len()))
	buf.Write(body.Bytes())
	return buf.Bytes()
}

// m4aFile returns an ftyp, a moov with an AAC sound track of two seconds,
// and an mdat.
func m4aFile() []byte {
	atom := func(typ string, parts ...[]byte) []byte {
		body := bytes.Join(parts, nil)
		out := binary.BigEndian.AppendUint32(nil, uint32(8+len(body)))
		return append(append(out, typ...), body...)
	}
	u32 := func(v uint32) []byte { return binary.BigEndian.AppendUint32(nil, v) }

	ftyp := atom("ftyp", []byte("M4A "), u32(0), []byte("M4A mp42isom"))
	mdat := atom("mdat", bytes.Repeat([]byte{0x21}, 32000))

	moov := func(chunkOffset uint32) []byte {
		mvhd := atom("mvhd", make([]byte, 12), u32(1000), u32(2000), make([]byte, 80))
		mdhd := atom("mdhd", make([]byte, 12), u32(44100), u32(88200), make([]byte, 4))
		hdlr := atom("hdlr", make([]byte, 8), []byte("soun"), make([]byte, 13))
		entry := atom("mp4a", make([]byte, 6), []byte{0, 1}, make([]byte, 8),
			[]byte{0, 2, 0, 16}, make([]byte, 4), u32(44100<<16))
		stbl := atom("stbl",
			atom("stsd", make([]byte, 4), u32(1), entry),
			atom("stco", make([]byte, 4), u32(1), u32(chunkOffset)))
		return atom("moov", mvhd, atom("trak", atom("mdia", mdhd, hdlr, atom("minf", stbl))))
	}
	size := len(moov(0))
	return bytes.Join([][]byte{ftyp, moov(uint32(len(ftyp) + size + 8)), mdat}, nil)
}

var pngData = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n', 1, 2, 3, 4}
