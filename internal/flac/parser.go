// Package flac reads and writes FLAC metadata blocks.
package flac

import (
	"fmt"
	"time"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/fieldmap"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
	"github.com/simonhull/audiotag/internal/vorbis"
)

// Metadata block types
const (
	blockTypeStreamInfo    = 0
	blockTypePadding       = 1
	blockTypeApplication   = 2
	blockTypeSeekTable     = 3
	blockTypeVorbisComment = 4
	blockTypeCueSheet      = 5
	blockTypePicture       = 6
	blockTypeInvalid       = 127
)

const (
	streamInfoLength = 34
	maxBlockLength   = 1<<24 - 1
)

var blockNames = map[uint8]string{
	blockTypeStreamInfo:    "STREAMINFO",
	blockTypePadding:       "PADDING",
	blockTypeApplication:   "APPLICATION",
	blockTypeSeekTable:     "SEEKTABLE",
	blockTypeVorbisComment: "VORBIS_COMMENT",
	blockTypeCueSheet:      "CUESHEET",
	blockTypePicture:       "PICTURE",
}

func blockName(t uint8) string {
	if n, ok := blockNames[t]; ok {
		return n
	}
	return fmt.Sprintf("block type %d", t)
}

// block is a metadata block as found in the file.
type block struct {
	body   []byte // without the 4-byte header
	offset int64  // of the header
	typ    uint8
}

// native is what the writer needs from a parse.
type native struct {
	comments    *vorbis.Block // nil when the file has no VORBIS_COMMENT
	blocks      []block
	audioOffset int64
}

// parser implements registry.FormatParser and registry.FormatWriter for FLAC.
type parser struct{}

// Parse walks the metadata blocks and loads STREAMINFO, VORBIS_COMMENT and
// PICTURE blocks.
func (p *parser) Parse(data []byte) (*types.File, error) { //nolint:gocyclo // one switch over block types
	sr := binary.NewSafeReader(data, "flac")

	magic, err := sr.Slice(0, 4, "FLAC magic bytes")
	if err != nil || string(magic) != "fLaC" {
		return nil, types.Corrupt(types.FormatFLAC, 0, "invalid FLAC magic bytes", err)
	}

	md := types.NewMetadata(fieldmap.BoundsFunc(types.FormatFLAC))
	file := &types.File{
		Data:     data,
		Format:   types.FormatFLAC,
		Metadata: md,
	}
	nat := &native{}
	file.Native = nat
	file.AddRegion("fLaC marker", 0, 0, 4)

	offset := int64(4)
	var last bool
	for !last {
		if offset == sr.Size() {
			file.Warn("metadata", offset, "no block carries the last-block flag")
			break
		}
		header, err := binary.Read[uint32](sr, offset, "metadata block header")
		if err != nil {
			return nil, types.Corrupt(types.FormatFLAC, offset, "truncated metadata block header", err)
		}
		last = header>>31 == 1
		typ := uint8((header >> 24) & 0x7F)
		length := int64(header & 0x00FFFFFF)

		body, err := sr.Slice(offset+4, length, blockName(typ))
		if err != nil {
			return nil, types.Corrupt(types.FormatFLAC, offset,
				fmt.Sprintf("%s block of %d bytes overruns file", blockName(typ), length), err)
		}
		if len(nat.blocks) == 0 && (typ != blockTypeStreamInfo || length != streamInfoLength) {
			return nil, types.Corrupt(types.FormatFLAC, offset, "first block is not a 34-byte STREAMINFO", nil)
		}
		if typ == blockTypeInvalid {
			return nil, types.Corrupt(types.FormatFLAC, offset, "invalid block type 127", nil)
		}
		file.AddRegion(blockName(typ), 0, offset, 4+length)

		switch typ {
		case blockTypeStreamInfo:
			if len(nat.blocks) > 0 {
				return nil, types.Corrupt(types.FormatFLAC, offset, "duplicate STREAMINFO block", nil)
			}
			parseStreamInfo(body, file)

		case blockTypeVorbisComment:
			if nat.comments != nil {
				return nil, types.Corrupt(types.FormatFLAC, offset, "duplicate VORBIS_COMMENT block", nil)
			}
			vc, err := vorbis.Parse(body)
			if err != nil {
				return nil, types.Corrupt(types.FormatFLAC, offset+4, "malformed VORBIS_COMMENT block", err)
			}
			vc.Apply(file, md, offset+4)
			nat.comments = vc

		case blockTypePicture:
			pic, err := parsePicture(body)
			if err != nil {
				file.Warn("picture", offset, "failed to parse PICTURE block: %v", err)
				break
			}
			md.LoadPicture(pic)
			file.Layout[len(file.Layout)-1].Name = pictureRegionName(pic)
		}

		nat.blocks = append(nat.blocks, block{typ: typ, body: body, offset: offset})
		offset += 4 + length
	}

	nat.audioOffset = offset
	payload := sr.Size() - offset
	file.Payload = []types.Span{{Offset: offset, Length: payload}}
	file.AddRegion("audio frames", 0, offset, payload)

	file.Audio.Codec = "FLAC"
	file.Audio.Lossless = true
	file.Audio.BitRate = types.BitRateFromPayload(payload, file.Audio.Duration)
	return file, nil
}

// parseStreamInfo extracts audio properties from the 34-byte STREAMINFO body.
func parseStreamInfo(body []byte, file *types.File) {
	// Bytes 10-17: sample rate (20 bits), channels-1 (3 bits),
	// bits per sample-1 (5 bits), total samples (36 bits)
	sr := binary.NewSafeReader(body, "STREAMINFO")
	packed, _ := binary.Read[uint64](sr, 10, "packed stream parameters") //nolint:errcheck // body length checked by caller

	sampleRate := (packed >> 44) & 0xFFFFF
	channels := ((packed >> 41) & 0x7) + 1
	bitsPerSample := ((packed >> 36) & 0x1F) + 1
	totalSamples := packed & 0xFFFFFFFFF

	if sampleRate > 0 {
		seconds := float64(totalSamples) / float64(sampleRate)
		file.Audio.Duration = time.Duration(seconds * float64(time.Second))
	}
	file.Audio.SampleRate = int(sampleRate)
	file.Audio.Channels = int(channels)
	file.Audio.BitDepth = int(bitsPerSample)
}

func init() {
	p := &parser{}
	registry.Register(types.FormatFLAC, p)
	registry.RegisterWriter(types.FormatFLAC, p)
}
