package wav

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/fieldmap"
	"github.com/simonhull/audiotag/internal/types"
)

// infoItem is one LIST/INFO sub-chunk, kept as stored.
type infoItem struct {
	id     string
	raw    []byte // header, value and pad byte
	value  []byte // without header, terminators and pad
	offset int64  // within the LIST body
}

// infoList is a parsed LIST/INFO chunk body.
type infoList struct {
	items []infoItem
	base  int64 // of the LIST body in the file
}

// parseInfo decodes a LIST body whose list type is INFO.
func parseInfo(body []byte) (*infoList, error) {
	sr := binary.NewSafeReader(body, "LIST/INFO")
	l := &infoList{}
	off := int64(4)
	for off+8 <= sr.Size() {
		r := binary.NewReader(sr, off)
		id, _ := r.ReadString(4, "INFO item ID")                   //nolint:errcheck // loop bound covers the header
		size, _ := binary.ReadValueLE[uint32](r, "INFO item size") //nolint:errcheck // loop bound covers the header
		value, err := r.ReadBytes(int64(size), id)
		if err != nil {
			return nil, err
		}
		end := off + 8 + int64(size) + int64(size%2)
		if end > sr.Size() {
			end = sr.Size() // missing final pad byte
		}
		l.items = append(l.items, infoItem{
			id:     id,
			raw:    body[off:end:end],
			value:  bytes.TrimRight(value, "\x00"),
			offset: off,
		})
		off = end
	}
	return l, nil
}

// decodeInfoText reads an INFO value as UTF-8, falling back to Latin-1.
func decodeInfoText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

// apply loads mapped items into md.
func (l *infoList) apply(file *types.File, md *types.Metadata) {
	for _, it := range l.items {
		e, ok := fieldmap.RIFFInfo.Lookup(it.id)
		if !ok {
			continue
		}
		if v := decodeInfoText(it.value); !e.Decode(md, v) {
			file.Warn("tag", l.base+it.offset, "%s: cannot parse %q", it.id, v)
		}
	}
}

// encode returns the LIST body merged with the dirty fields of md, and the
// number of items in it.
func (l *infoList) encode(md *types.Metadata) ([]byte, int) {
	keys := make([]string, len(l.items))
	for i, it := range l.items {
		keys[i] = it.id
	}

	var buf bytes.Buffer
	buf.WriteString(idInfo)
	n := 0
	for _, step := range fieldmap.RIFFInfo.Plan(keys, md.Dirty()) {
		if step.Entry == nil {
			raw := l.items[step.Keep].raw
			buf.Write(raw)
			if len(raw)%2 == 1 {
				buf.WriteByte(0)
			}
			n++
			continue
		}
		v, ok := step.Entry.Encode(md)
		if !ok {
			continue
		}
		writeInfoItem(&buf, step.Entry.Key, v)
		n++
	}
	return buf.Bytes(), n
}

// writeInfoItem appends a NUL-terminated, even-padded sub-chunk.
func writeInfoItem(buf *bytes.Buffer, id, value string) {
	w := binary.NewSafeWriter(buf)
	size := uint32(len(value) + 1)
	_ = w.WriteString(id)
	_ = binary.WriteLE(w, size)
	_ = w.WriteString(value)
	_ = w.WriteZeros(1 + int(size%2))
}
