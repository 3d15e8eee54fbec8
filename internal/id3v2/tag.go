package id3v2

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/fieldmap"
	"github.com/simonhull/audiotag/internal/types"
)

// Tag is a parsed ID3v2 tag.
type Tag struct {
	Frames []Frame
	// Warnings found while walking the frames.
	Warnings []types.Warning
	Header   Header
	// Padding is the number of bytes after the last frame.
	Padding int64
	format  types.Format
}

// New returns an empty tag of the given major version (3 or 4).
func New(major uint8, format types.Format) *Tag {
	if major != 4 {
		major = 3
	}
	return &Tag{Header: Header{Major: major}, format: format}
}

// Parse reads the tag at the start of data. Frames reference data (or a
// de-unsynchronised copy of it) without copying.
func Parse(data []byte, format types.Format) (*Tag, error) { //nolint:gocyclo // frame walk handles several header variants
	h, err := ParseHeader(data, format)
	if err != nil {
		return nil, err
	}
	if h.TotalSize() > int64(len(data)) {
		return nil, types.Corrupt(format, 6, fmt.Sprintf("tag size %d overruns buffer of %d bytes", h.TotalSize(), len(data)), nil)
	}

	t := &Tag{Header: h, format: format}
	body := data[HeaderSize : HeaderSize+int64(h.Size)]
	if h.Major == 3 && h.Flags&FlagUnsync != 0 {
		body = binutil.RemoveUnsync(body)
	}

	off := 0
	seenPOPM := false
	if h.Flags&FlagExtended != 0 {
		if len(body) < 4 {
			return nil, types.Corrupt(format, HeaderSize, "truncated extended header", nil)
		}
		if h.Major == 4 {
			off = int(binutil.DecodeSynchsafe(body[:4]))
		} else {
			off = 4 + int(binary.BigEndian.Uint32(body[:4]))
		}
		if off < 4 || off > len(body) {
			return nil, types.Corrupt(format, HeaderSize, "extended header overruns tag", nil)
		}
	}

	for off+HeaderSize <= len(body) {
		hdr := body[off : off+HeaderSize]
		if hdr[0] == 0 {
			break
		}
		if !validFrameID(hdr[:4]) {
			t.warn(int64(HeaderSize+off), "invalid frame ID %q; treating the rest as padding", hdr[:4])
			break
		}

		size := frameSize(hdr[4:8], h.Major)
		end := off + HeaderSize + int(size)
		if int64(size) > int64(len(body)) || end > len(body) {
			return nil, types.Corrupt(format, int64(HeaderSize+off),
				fmt.Sprintf("frame %s of %d bytes overruns tag", hdr[:4], size), nil)
		}

		f := Frame{
			ID:     string(hdr[:4]),
			Raw:    body[off:end:end],
			Offset: int64(HeaderSize + off),
			Flags:  binary.BigEndian.Uint16(hdr[8:10]),
		}
		f.Key = f.ID
		if !f.Opaque(h.Major) {
			f.Key = frameKey(f.ID, f.Body(h.Major))
		}
		if f.ID == frameIDPopularimeter {
			f.Key = popmKey(f.Body(h.Major), seenPOPM)
			seenPOPM = true
		}
		t.Frames = append(t.Frames, f)
		off = end
	}

	t.Padding = int64(len(body) - off)
	return t, nil
}

func (t *Tag) warn(offset int64, format string, args ...any) {
	t.Warnings = append(t.Warnings, types.Warning{Stage: "tag", Offset: offset, Message: fmt.Sprintf(format, args...)})
}

// Apply loads mapped frames into md and records the tag layout in file.
// base is the offset of the tag within file.Data; depth is the nesting level
// of the tag region.
func (t *Tag) Apply(file *types.File, md *types.Metadata, base int64, depth int) {
	major := t.Header.Major
	table := fieldmap.ID3(major)

	for _, w := range t.Warnings {
		w.Offset += base
		file.Warnings = append(file.Warnings, w)
	}
	file.AddRegion(fmt.Sprintf("ID3v2.%d tag", major), depth, base, t.Header.TotalSize())

	for i := range t.Frames {
		f := &t.Frames[i]
		at := base + f.Offset
		file.AddRegion(f.ID, depth+1, at, int64(len(f.Raw)))

		e, ok := table.Lookup(f.Key)
		if !ok {
			continue
		}
		if f.Opaque(major) {
			file.Warn("tag", at, "frame %s is compressed or encrypted; kept as is", f.ID)
			continue
		}

		body := f.Body(major)
		if e.Kind == fieldmap.KindPicture {
			pic, err := parseAPIC(body)
			if err != nil {
				file.Warn("picture", at, "%v", err)
				continue
			}
			md.LoadPicture(pic)
			continue
		}

		if f.ID != frameIDPopularimeter && len(body) > 0 && !Encoding(body[0]).Valid() {
			file.Warn("tag", at, "frame %s has unknown text encoding %d", f.ID, body[0])
		}
		v, ok := valueFor(f, body)
		if !ok {
			file.Warn("tag", at, "frame %s is too short", f.ID)
			continue
		}
		if !e.Decode(md, v) {
			file.Warn("tag", at, "frame %s: cannot parse %q", f.ID, v)
		}
	}
}

// EncodeOptions controls tag sizing.
type EncodeOptions struct {
	// Reuse is the size of the tag being replaced. When the new frames fit,
	// the tag is padded to exactly this size so the audio does not move.
	Reuse int64
	// Padding is appended when the frames do not fit in Reuse.
	Padding int
}

// Encode re-emits the tag with the dirty fields of md merged in. Kept frames
// are copied verbatim; unsynchronisation, the extended header and the footer
// are dropped.
func (t *Tag) Encode(md *types.Metadata, opts EncodeOptions) ([]byte, error) {
	major := t.Header.Major
	table := fieldmap.ID3(major)

	keys := make([]string, len(t.Frames))
	for i := range t.Frames {
		keys[i] = t.Frames[i].Key
	}

	var frames bytes.Buffer
	for _, step := range table.Plan(keys, md.Dirty()) {
		if step.Entry == nil {
			frames.Write(t.Frames[step.Keep].Raw)
			continue
		}
		built, err := t.encodeEntry(step.Entry, md)
		if err != nil {
			if errors.Is(err, binutil.ErrSynchsafeOverflow) {
				return nil, &types.EncodingOverflowError{
					Format: t.format, What: "ID3v2 frame " + step.Entry.Key,
					Size: uint64(frames.Len()), Limit: binutil.MaxSynchsafe,
				}
			}
			return nil, err
		}
		for _, f := range built {
			frames.Write(f.Raw)
		}
	}

	size := int64(frames.Len())
	if avail := opts.Reuse - HeaderSize; avail >= size {
		size = avail
	} else {
		size += int64(max(opts.Padding, 0))
	}
	if size > binutil.MaxSynchsafe {
		return nil, &types.EncodingOverflowError{
			Format: t.format, What: "ID3v2 tag size", Size: uint64(size), Limit: binutil.MaxSynchsafe,
		}
	}

	hdr, err := t.Header.encode(uint32(size))
	if err != nil {
		return nil, err
	}
	out := make([]byte, HeaderSize+size)
	copy(out, hdr)
	copy(out[HeaderSize:], frames.Bytes())
	return out, nil
}

// encodeEntry builds the frames for one vocabulary entry. It returns no
// frames when the field is empty or cleared.
func (t *Tag) encodeEntry(e *fieldmap.Entry, md *types.Metadata) ([]Frame, error) {
	major := t.Header.Major
	if e.Kind == fieldmap.KindPicture {
		var out []Frame
		var err error
		md.EachPicture(func(_ int, p types.Picture) {
			if err != nil {
				return
			}
			var body []byte
			if body, err = apicBody(p, major); err != nil {
				return
			}
			var f Frame
			if f, err = newFrame("APIC", body, major); err == nil {
				out = append(out, f)
			}
		})
		return out, err
	}

	if e.Key == frameIDPopularimeter {
		rating, ok := md.Number(types.Rate)
		if !ok {
			return nil, nil
		}
		if rating > fieldmap.MaxRating {
			return nil, &types.EncodingOverflowError{
				Format: t.format, What: "POPM rating", Size: uint64(rating), Limit: fieldmap.MaxRating,
			}
		}
		f, err := newFrame(frameIDPopularimeter, t.popmBody(rating), major)
		if err != nil {
			return nil, err
		}
		return []Frame{f}, nil
	}

	v, ok := e.Encode(md)
	if !ok {
		return nil, nil
	}

	var (
		id   = e.Key
		body []byte
		err  error
	)
	switch {
	case e.Key == fieldmap.KeyComment || e.Key == fieldmap.KeyLyrics:
		body, err = describedBody("", v, "eng", major)
	case strings.HasPrefix(e.Key, "TXXX:"):
		id = "TXXX"
		body, err = describedBody(txxxDescription(e.Key), v, "", major)
	default:
		body, err = textBody(v, major)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Key, err)
	}

	f, err := newFrame(id, body, major)
	if err != nil {
		return nil, err
	}
	return []Frame{f}, nil
}
