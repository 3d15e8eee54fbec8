package m4a

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	binutil "github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/fieldmap"
	"github.com/simonhull/audiotag/internal/types"
)

// Well-known data atom type indicators.
const (
	dataTypeImplicit = 0
	dataTypeUTF8     = 1
	dataTypeJPEG     = 13
	dataTypePNG      = 14
	dataTypeBMP      = 27
)

const freeformPrefix = "----:"

// dataValue is the payload of one "data" atom.
type dataValue struct {
	payload []byte
	typ     uint32
}

// item is one ilst entry.
type item struct {
	atom   *Atom
	key    string // atom type, or "----:mean:name" for freeform items
	values []dataValue
}

// parseIlst reads every item in ilst. Malformed items are kept opaque and
// reported as warnings.
func parseIlst(sr *binutil.SafeReader, ilst *Atom, file *types.File, depth int) ([]item, error) {
	atoms, err := readChildren(sr, ilst.DataOffset(), ilst.End())
	if err != nil {
		return nil, err
	}

	items := make([]item, 0, len(atoms))
	for _, a := range atoms {
		it, err := parseItem(sr, a)
		if err != nil {
			file.Warn("metadata", a.Offset, "ilst item %q: %v", a.Type, err)
		}
		items = append(items, it)
		file.AddRegion("ilst item "+printableKey(it.key), depth, a.Offset, a.Size)
	}
	return items, nil
}

func parseItem(sr *binutil.SafeReader, a *Atom) (item, error) {
	it := item{atom: a, key: a.Type}
	children, err := readChildren(sr, a.DataOffset(), a.End())
	if err != nil {
		return it, err
	}

	var mean, name string
	for _, c := range children {
		switch c.Type {
		case "mean", "name":
			// full box: version and flags, then the string
			s, err := sr.Slice(c.DataOffset()+4, c.DataSize()-4, c.Type)
			if err != nil {
				return it, err
			}
			if c.Type == "mean" {
				mean = string(s)
			} else {
				name = string(s)
			}
		case "data":
			cr := binutil.NewChainReader(binutil.NewReader(sr, c.DataOffset()))
			typ := binutil.ReadChained[uint32](cr, "data type") & 0x00FFFFFF
			cr.Skip(4) // locale
			payload := cr.Bytes(c.DataSize()-8, "data payload")
			if err := cr.Error(); err != nil {
				return it, err
			}
			it.values = append(it.values, dataValue{typ: typ, payload: payload})
		}
	}
	if a.Type == "----" {
		it.key = freeformPrefix + mean + ":" + name
	}
	return it, nil
}

// apply loads the item into md.
func (it item) apply(file *types.File, md *types.Metadata) {
	if len(it.values) == 0 {
		return
	}
	first := it.values[0].payload

	switch it.key {
	case "trkn", "disk":
		if len(first) < 6 {
			file.Warn("metadata", it.atom.Offset, "%s: payload of %d bytes", it.key, len(first))
			return
		}
		n := int(binary.BigEndian.Uint16(first[2:4]))
		total := int(binary.BigEndian.Uint16(first[4:6]))
		numField, totalField := types.Track, types.TrackTotal
		if it.key == "disk" {
			numField, totalField = types.Disc, types.DiscTotal
		}
		if n > 0 {
			md.LoadNumber(numField, n)
		}
		if total > 0 {
			md.LoadNumber(totalField, total)
		}

	case "gnre":
		if len(first) < 2 {
			file.Warn("metadata", it.atom.Offset, "gnre: payload of %d bytes", len(first))
			return
		}
		// 1-based ID3v1 index
		if name, ok := fieldmap.GenreByIndex(int(binary.BigEndian.Uint16(first)) - 1); ok {
			md.LoadText(types.Genre, name)
		}

	case "covr":
		for _, v := range it.values {
			md.LoadPicture(types.Picture{
				MIMEType: pictureMIME(v),
				Type:     types.PictureFrontCover,
				Data:     bytes.Clone(v.payload),
			})
		}

	default:
		e, ok := fieldmap.MP4.Lookup(it.key)
		if !ok || e.Kind == fieldmap.KindPicture {
			return
		}
		if !e.Decode(md, string(first)) {
			file.Warn("metadata", it.atom.Offset, "%s: cannot parse %q", printableKey(it.key), string(first))
		}
	}
}

func pictureMIME(v dataValue) string {
	switch v.typ {
	case dataTypeJPEG:
		return "image/jpeg"
	case dataTypePNG:
		return "image/png"
	case dataTypeBMP:
		return "image/bmp"
	}
	if m := types.DetectMIMEType(v.payload); m != "" {
		return m
	}
	return "application/octet-stream"
}

func pictureDataType(mime string) uint32 {
	switch mime {
	case "image/jpeg":
		return dataTypeJPEG
	case "image/png":
		return dataTypePNG
	case "image/bmp":
		return dataTypeBMP
	}
	return dataTypeImplicit
}

// printableKey replaces the leading 0xA9 of Apple's item names with "©".
func printableKey(key string) string {
	if strings.HasPrefix(key, "\xa9") {
		return "©" + key[1:]
	}
	return key
}

// buildIlst returns a complete ilst atom holding the retained items merged
// with the dirty fields of md.
func buildIlst(data []byte, items []item, md *types.Metadata) ([]byte, error) {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.key
	}

	var body bytes.Buffer
	for _, step := range fieldmap.MP4.Plan(keys, md.Dirty()) {
		if step.Entry == nil {
			a := items[step.Keep].atom
			body.Write(data[a.Offset:a.End()])
			continue
		}
		atom, err := encodeItem(step.Entry, md)
		if err != nil {
			return nil, err
		}
		body.Write(atom)
	}
	return box("ilst", body.Bytes())
}

// encodeItem renders the entry as an ilst item, or nil when the fields it
// holds are unset.
func encodeItem(e *fieldmap.Entry, md *types.Metadata) ([]byte, error) {
	switch e.Key {
	case "trkn", "disk":
		n, hasN := md.Number(types.NumberField(e.Fields[0]))
		total, hasTotal := md.Number(types.NumberField(e.Fields[1]))
		if !hasN && !hasTotal {
			return nil, nil
		}
		payload := make([]byte, 8)
		binary.BigEndian.PutUint16(payload[2:], uint16(n))
		binary.BigEndian.PutUint16(payload[4:], uint16(total))
		if e.Key == "disk" {
			payload = payload[:6]
		}
		return itemAtom(e.Key, dataValue{typ: dataTypeImplicit, payload: payload})

	case "covr":
		var values []dataValue
		md.EachPicture(func(_ int, p types.Picture) {
			values = append(values, dataValue{typ: pictureDataType(p.MIMEType), payload: p.Data})
		})
		if len(values) == 0 {
			return nil, nil
		}
		return itemAtom(e.Key, values...)
	}

	v, ok := e.Encode(md)
	if !ok {
		return nil, nil
	}
	value := dataValue{typ: dataTypeUTF8, payload: []byte(v)}
	if !strings.HasPrefix(e.Key, freeformPrefix) {
		return itemAtom(e.Key, value)
	}

	mean, name, _ := strings.Cut(strings.TrimPrefix(e.Key, freeformPrefix), ":")
	var body bytes.Buffer
	for _, part := range []struct{ typ, s string }{{"mean", mean}, {"name", name}} {
		b, err := box(part.typ, append([]byte{0, 0, 0, 0}, part.s...))
		if err != nil {
			return nil, err
		}
		body.Write(b)
	}
	d, err := dataAtom(value)
	if err != nil {
		return nil, err
	}
	body.Write(d)
	return box("----", body.Bytes())
}

func itemAtom(key string, values ...dataValue) ([]byte, error) {
	var body bytes.Buffer
	for _, v := range values {
		d, err := dataAtom(v)
		if err != nil {
			return nil, err
		}
		body.Write(d)
	}
	return box(key, body.Bytes())
}

func dataAtom(v dataValue) ([]byte, error) {
	body := make([]byte, 8, 8+len(v.payload))
	binary.BigEndian.PutUint32(body, v.typ)
	return box("data", append(body, v.payload...))
}

// box prefixes body with a 32-bit atom header.
func box(typ string, body []byte) ([]byte, error) {
	size := uint64(len(body)) + 8
	if size > math.MaxUint32 {
		return nil, &types.EncodingOverflowError{
			Format: types.FormatMP4, What: fmt.Sprintf("%q atom", printableKey(typ)),
			Size: size, Limit: math.MaxUint32,
		}
	}
	out := make([]byte, 8, size)
	binary.BigEndian.PutUint32(out, uint32(size))
	copy(out[4:], typ)
	return append(out, body...), nil
}
