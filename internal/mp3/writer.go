package mp3

import (
	"bytes"
	"fmt"

	"github.com/simonhull/audiotag/internal/id3v2"
	"github.com/simonhull/audiotag/internal/types"
)

// Write re-encodes the ID3v2 tag and appends the untouched audio.
//
// An existing tag keeps its major version and, when the new frames fit, its
// size, so the audio does not move. A file without a tag gets one of
// opts.ID3Version.
func (p *parser) Write(file *types.File, md *types.Metadata, opts types.WriteOptions) ([]byte, error) {
	nat, ok := file.Native.(*native)
	if !ok {
		return nil, fmt.Errorf("mp3: unexpected native record %T", file.Native)
	}
	if md.Dirty().Empty() {
		return bytes.Clone(file.Data), nil
	}

	opts = opts.WithDefaults()
	tag := nat.tag
	if tag == nil {
		tag = id3v2.New(opts.ID3Version, types.FormatMP3)
	}

	encoded, err := tag.Encode(md, id3v2.EncodeOptions{Reuse: nat.tagEnd, Padding: opts.Padding})
	if err != nil {
		return nil, err
	}

	audio := file.Data[nat.tagEnd:]
	out := make([]byte, 0, len(encoded)+len(audio))
	out = append(out, encoded...)
	out = append(out, audio...)

	opts.Logger.Debug("wrote ID3v2 tag",
		"version", tag.Header.Major,
		"old_size", nat.tagEnd,
		"new_size", len(encoded))
	return out, nil
}
