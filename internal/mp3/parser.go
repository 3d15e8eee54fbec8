// Package mp3 reads and writes MPEG audio files with ID3v2 tags.
package mp3

import (
	"github.com/simonhull/audiotag/internal/fieldmap"
	"github.com/simonhull/audiotag/internal/id3v2"
	"github.com/simonhull/audiotag/internal/registry"
	"github.com/simonhull/audiotag/internal/types"
)

// native is what the writer needs from a parse.
type native struct {
	tag    *id3v2.Tag // nil when the file has no ID3v2 tag
	tagEnd int64      // first byte after the tag
}

// parser implements registry.FormatParser and registry.FormatWriter.
type parser struct{}

// Parse reads the leading ID3v2 tag, if any, and scans the MPEG frames that
// follow it.
func (p *parser) Parse(data []byte) (*types.File, error) {
	md := types.NewMetadata(fieldmap.BoundsFunc(types.FormatMP3))
	file := &types.File{
		Data:     data,
		Format:   types.FormatMP3,
		Metadata: md,
	}
	nat := &native{}
	file.Native = nat

	if id3v2.Present(data) {
		tag, err := id3v2.Parse(data, types.FormatMP3)
		if err != nil {
			return nil, err
		}
		tag.Apply(file, md, 0, 0)
		nat.tag = tag
		nat.tagEnd = tag.Header.TotalSize()
	}

	size := int64(len(data))
	file.Payload = []types.Span{{Offset: nat.tagEnd, Length: size - nat.tagEnd}}

	info, ok := scanStream(data, nat.tagEnd, size)
	if !ok {
		file.Warn("audio", nat.tagEnd, "no MPEG audio frame found")
		return file, nil
	}
	if info.offset > nat.tagEnd {
		file.Warn("audio", nat.tagEnd, "%d bytes of junk before the first frame", info.offset-nat.tagEnd)
	}

	file.AddRegion("MPEG audio", 0, info.offset, size-info.offset)
	if info.summary != "" {
		file.AddRegion(info.summary+" header", 1, info.offset, int64(info.first.size()))
	}

	channels := 2
	if info.first.mono {
		channels = 1
	}
	file.Audio = types.AudioProperties{
		Codec:      layerName(info.first.layer),
		Duration:   info.duration,
		SampleRate: info.first.sampleRate,
		Channels:   channels,
		BitRate:    info.bitrate,
		VBR:        info.vbr,
	}
	if file.Audio.BitRate == 0 {
		file.Audio.BitRate = types.BitRateFromPayload(size-nat.tagEnd, info.duration)
	}
	return file, nil
}

func init() {
	p := &parser{}
	registry.Register(types.FormatMP3, p)
	registry.RegisterWriter(types.FormatMP3, p)
}
