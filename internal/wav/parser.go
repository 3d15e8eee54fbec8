// Package wav reads and writes RIFF/WAVE files with LIST/INFO and ID3v2
// tags.
package wav

import (
	"errors"
	"fmt"
	"time"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/fieldmap"
	"github.com/simonhull/audiotag/internal/id3v2"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// Chunk IDs
const (
	idRIFF = "RIFF"
	idWAVE = "WAVE"
	idFmt  = "fmt "
	idData = "data"
	idFact = "fact"
	idList = "LIST"
	idInfo = "INFO"
)

// Format tags from the fmt chunk.
const (
	formatPCM        = 0x0001
	formatFloat      = 0x0003
	formatALaw       = 0x0006
	formatMuLaw      = 0x0007
	formatMP3        = 0x0055
	formatExtensible = 0xFFFE
)

const headerSize = 12 // "RIFF", size, "WAVE"

// chunk is a top-level chunk as found in the file.
type chunk struct {
	id     string
	body   []byte // without header and pad byte
	offset int64  // of the header
}

func isID3Chunk(id string) bool { return id == "id3 " || id == "ID3 " }

// native is what the writer needs from a parse.
type native struct {
	info   *infoList  // nil without a LIST/INFO chunk
	tag    *id3v2.Tag // nil without a readable id3 chunk
	chunks []chunk
	// trailing holds bytes after the last chunk too short to be one. They
	// are written back after the chunks, outside the RIFF size.
	trailing []byte
}

// format is the decoded fmt chunk.
type format struct {
	tag        uint16
	channels   uint16
	sampleRate uint32
	byteRate   uint32
	blockAlign uint16
	bits       uint16
}

// parser implements registry.FormatParser and registry.FormatWriter for WAV.
type parser struct{}

// Parse walks the RIFF chunks. ID3 fields are loaded before INFO fields so
// they take precedence.
func (p *parser) Parse(data []byte) (*types.File, error) { //nolint:gocyclo // one switch over chunk types
	sr := binary.NewSafeReader(data, "wav")
	hdr, err := sr.Slice(0, headerSize, "RIFF header")
	if err != nil || string(hdr[:4]) != idRIFF || string(hdr[8:12]) != idWAVE {
		return nil, types.Corrupt(types.FormatWAV, 0, "missing RIFF/WAVE header", err)
	}

	md := types.NewMetadata(fieldmap.BoundsFunc(types.FormatWAV))
	file := &types.File{
		Data:     data,
		Format:   types.FormatWAV,
		Metadata: md,
	}
	nat := &native{}
	file.Native = nat
	file.AddRegion("RIFF header", 0, 0, headerSize)

	if riffSize, _ := binary.ReadLE[uint32](sr, 4, "RIFF size"); int64(riffSize)+8 != sr.Size() { //nolint:errcheck // header length checked above
		file.Warn("riff", 4, "RIFF size %d does not match file size %d", riffSize, sr.Size())
	}

	var (
		fmtChunk  *format
		dataChunk *chunk
		factCount uint32
		tagBase   int64
	)
	offset := int64(headerSize)
	for offset+8 <= sr.Size() {
		r := binary.NewReader(sr, offset)
		id, _ := r.ReadString(4, "chunk ID")                   //nolint:errcheck // loop bound covers the header
		size, _ := binary.ReadValueLE[uint32](r, "chunk size") //nolint:errcheck // loop bound covers the header

		length := int64(size)
		if offset+8+length > sr.Size() {
			if id != idData {
				return nil, types.Corrupt(types.FormatWAV, offset,
					fmt.Sprintf("%q chunk of %d bytes overruns file", id, size), nil)
			}
			file.Warn("riff", offset, "data chunk claims %d bytes; %d present", size, sr.Size()-offset-8)
			length = sr.Size() - offset - 8
		}
		body, _ := sr.Slice(offset+8, length, id) //nolint:errcheck // length clamped above
		c := chunk{id: id, body: body, offset: offset}
		file.AddRegion(fmt.Sprintf("%q chunk", id), 0, offset, 8+length)

		switch {
		case id == idFmt:
			if fmtChunk != nil {
				file.Warn("riff", offset, "duplicate fmt chunk ignored")
				break
			}
			f, err := parseFormat(body)
			if err != nil {
				return nil, types.Corrupt(types.FormatWAV, offset, "malformed fmt chunk", err)
			}
			fmtChunk = &f

		case id == idData:
			if dataChunk != nil {
				return nil, types.Corrupt(types.FormatWAV, offset, "duplicate data chunk", nil)
			}
			dataChunk = &c
			file.Payload = []types.Span{{Offset: offset + 8, Length: length}}

		case id == idFact && len(body) >= 4:
			factCount, _ = binary.ReadLE[uint32](binary.NewSafeReader(body, "fact"), 0, "sample count") //nolint:errcheck // length checked

		case id == idList && len(body) >= 4 && string(body[:4]) == idInfo:
			if nat.info != nil {
				return nil, types.Corrupt(types.FormatWAV, offset, "duplicate LIST/INFO chunk", nil)
			}
			info, err := parseInfo(body)
			if err != nil {
				return nil, types.Corrupt(types.FormatWAV, offset, "malformed LIST/INFO chunk", err)
			}
			info.base = offset + 8
			nat.info = info
			for _, it := range info.items {
				file.AddRegion(it.id, 1, info.base+it.offset, int64(len(it.raw)))
			}

		case isID3Chunk(id):
			if nat.tag != nil {
				return nil, types.Corrupt(types.FormatWAV, offset, "duplicate id3 chunk", nil)
			}
			tag, err := id3v2.Parse(body, types.FormatWAV)
			if errors.Is(err, types.ErrUnsupportedFormat) {
				file.Warn("tag", offset, "%v; chunk kept as is", err)
				break
			}
			if err != nil {
				return nil, types.Corrupt(types.FormatWAV, offset, "malformed id3 chunk", err)
			}
			nat.tag = tag
			tagBase = offset + 8
		}

		nat.chunks = append(nat.chunks, c)
		offset += 8 + length + length%2
	}
	if offset < sr.Size() {
		file.Warn("riff", offset, "%d trailing bytes after the last chunk", sr.Size()-offset)
		nat.trailing = data[offset:]
	}
	if fmtChunk == nil {
		return nil, types.Corrupt(types.FormatWAV, headerSize, "missing fmt chunk", nil)
	}

	if nat.tag != nil {
		nat.tag.Apply(file, md, tagBase, 1)
	}
	if nat.info != nil {
		nat.info.apply(file, md)
	}

	var dataLen int64
	if dataChunk == nil {
		file.Warn("riff", offset, "no data chunk")
		file.Payload = []types.Span{{Offset: sr.Size(), Length: 0}}
	} else {
		dataLen = file.Payload[0].Length
	}
	file.Audio = fmtChunk.properties(dataLen, factCount)
	return file, nil
}

// parseFormat decodes a WAVEFORMAT(EX/EXTENSIBLE) structure.
func parseFormat(body []byte) (format, error) {
	cr := binary.NewChainReader(binary.NewReader(binary.NewSafeReader(body, "fmt"), 0))
	f := format{
		tag:        binary.ReadChainedLE[uint16](cr, "format tag"),
		channels:   binary.ReadChainedLE[uint16](cr, "channels"),
		sampleRate: binary.ReadChainedLE[uint32](cr, "sample rate"),
		byteRate:   binary.ReadChainedLE[uint32](cr, "byte rate"),
		blockAlign: binary.ReadChainedLE[uint16](cr, "block align"),
		bits:       binary.ReadChainedLE[uint16](cr, "bits per sample"),
	}
	if err := cr.Error(); err != nil {
		return format{}, err
	}
	// The extensible sub-format GUID starts with the real format tag.
	if f.tag == formatExtensible && len(body) >= 26 {
		sub, _ := binary.ReadLE[uint16](binary.NewSafeReader(body, "fmt"), 24, "sub-format") //nolint:errcheck // length checked
		f.tag = sub
	}
	return f, nil
}

func (f format) codec() string {
	switch f.tag {
	case formatPCM:
		return "PCM"
	case formatFloat:
		return "IEEE float"
	case formatALaw:
		return "A-law"
	case formatMuLaw:
		return "mu-law"
	case formatMP3:
		return "MP3"
	default:
		return fmt.Sprintf("WAV 0x%04X", f.tag)
	}
}

// properties derives audio properties from the format and data length.
// Non-PCM durations come from the fact chunk when present, else the byte
// rate.
func (f format) properties(dataLen int64, factSamples uint32) types.AudioProperties {
	a := types.AudioProperties{
		Codec:      f.codec(),
		SampleRate: int(f.sampleRate),
		Channels:   int(f.channels),
		BitDepth:   int(f.bits),
		BitRate:    int(f.byteRate) * 8 / 1000,
		Lossless:   f.tag == formatPCM || f.tag == formatFloat,
	}

	var seconds float64
	frameBytes := int64(f.channels) * int64(f.bits) / 8
	switch {
	case a.Lossless && frameBytes > 0 && f.sampleRate > 0:
		seconds = float64(dataLen) / float64(frameBytes) / float64(f.sampleRate)
	case factSamples > 0 && f.sampleRate > 0:
		seconds = float64(factSamples) / float64(f.sampleRate)
	case f.byteRate > 0:
		seconds = float64(dataLen) / float64(f.byteRate)
	}
	a.Duration = time.Duration(seconds * float64(time.Second))
	if a.BitRate == 0 {
		a.BitRate = types.BitRateFromPayload(dataLen, a.Duration)
	}
	return a
}

func init() {
	p := &parser{}
	registry.Register(types.FormatWAV, p)
	registry.RegisterWriter(types.FormatWAV, p)
}
