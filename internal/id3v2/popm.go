package id3v2

import (
	"bytes"
	"strconv"

	"github.com/simonhull/audiotag/internal/fieldmap"
)

const frameIDPopularimeter = fieldmap.KeyPopularimeter

// popularimeter is a POPM frame body.
//
//	[email, Latin-1, NUL terminated]
//	[1 byte] rating, 1 worst to 255 best, 0 unknown
//	[0+ bytes] play counter, big-endian
type popularimeter struct {
	email   []byte
	counter []byte
	rating  byte
}

func parsePOPM(body []byte) (popularimeter, bool) {
	i := bytes.IndexByte(body, 0)
	if i < 0 || i+1 >= len(body) {
		return popularimeter{}, false
	}
	return popularimeter{email: body[:i], rating: body[i+1], counter: body[i+2:]}, true
}

func (p popularimeter) bytes() []byte {
	out := make([]byte, 0, len(p.email)+2+len(p.counter))
	out = append(out, p.email...)
	out = append(out, 0, p.rating)
	return append(out, p.counter...)
}

// popmKey gives every POPM frame after the first its own key, so only the
// first one maps to the rating and the rest are kept untouched.
func popmKey(body []byte, seen bool) string {
	if !seen {
		return frameIDPopularimeter
	}
	p, _ := parsePOPM(body)
	return frameIDPopularimeter + ":" + string(p.email)
}

// popmBody renders a POPM body for rating. The email and play counter of
// the tag's first POPM frame are kept.
func (t *Tag) popmBody(rating int) []byte {
	p := popularimeter{}
	for i := range t.Frames {
		f := &t.Frames[i]
		if f.ID != frameIDPopularimeter || f.Opaque(t.Header.Major) {
			continue
		}
		if prev, ok := parsePOPM(f.Body(t.Header.Major)); ok {
			p = prev
		}
		break
	}
	p.rating = byte(rating)
	return p.bytes()
}

func popmValue(body []byte) (string, bool) {
	p, ok := parsePOPM(body)
	if !ok {
		return "", false
	}
	return strconv.Itoa(int(p.rating)), true
}
