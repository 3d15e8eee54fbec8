package m4a

import (
	"bytes"
	"errors"
	"testing"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

func TestReadAtomHeader(t *testing.T) {
	extended := append(be32(1), "mdat"...)
	extended = append(extended, 0, 0, 0, 0, 0, 0, 0, 20)
	extended = append(extended, make([]byte, 4)...)

	tests := []struct {
		name     string
		data     []byte
		wantType string
		wantSize int64
		wantExt  bool
	}{
		{"regular", atom("free", make([]byte, 4)), "free", 12, false},
		{"extended", extended, "mdat", 20, true},
		{"to end of container", append(append(be32(0), "mdat"...), make([]byte, 10)...), "mdat", 18, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := binary.NewSafeReader(tt.data, "test")
			a, err := readAtomHeader(sr, 0, sr.Size())
			if err != nil {
				t.Fatalf("readAtomHeader() error = %v", err)
			}
			if a.Type != tt.wantType || a.Size != tt.wantSize || a.Extended != tt.wantExt {
				t.Errorf("got %+v", a)
			}
			if a.DataOffset() != a.HeaderSize() {
				t.Errorf("DataOffset() = %d, HeaderSize() = %d", a.DataOffset(), a.HeaderSize())
			}
		})
	}
}

func TestReadAtomHeader_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated", []byte{0, 0, 0}},
		{"size below header", append(be32(7), "free"...)},
		{"overrun", append(be32(100), "free"...)},
		{"truncated extended size", append(be32(1), "mdat"...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sr := binary.NewSafeReader(tt.data, "test")
			_, err := readAtomHeader(sr, 0, sr.Size())
			if !errors.Is(err, types.ErrCorruptHeader) {
				t.Errorf("expected ErrCorruptHeader, got %v", err)
			}
		})
	}
}

func TestFindPath(t *testing.T) {
	data := atom("moov", atom("udta", metaWithIlst(textItem("\xa9nam", "x"))))
	sr := binary.NewSafeReader(data, "test")
	moov, err := readAtomHeader(sr, 0, sr.Size())
	if err != nil {
		t.Fatal(err)
	}

	path, err := findPath(sr, data, moov, "udta", "meta", "ilst")
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 3 || path[2].Type != "ilst" {
		t.Fatalf("unexpected path %v", path)
	}

	path, err = findPath(sr, data, moov, "udta", "missing", "ilst")
	if err != nil {
		t.Fatal(err)
	}
	if len(path) != 1 {
		t.Errorf("expected path to stop after udta, got %d atoms", len(path))
	}
}

func TestChildStart_QuickTimeMeta(t *testing.T) {
	hdlr := fullAtom("hdlr", make([]byte, 4), []byte("mdirappl"), make([]byte, 9))
	data := atom("meta", hdlr, atom("ilst"))
	sr := binary.NewSafeReader(data, "test")
	meta, err := readAtomHeader(sr, 0, sr.Size())
	if err != nil {
		t.Fatal(err)
	}
	if got := childStart(data, meta); got != 8 {
		t.Errorf("childStart() = %d, want 8", got)
	}
	ilst, err := findAtom(sr, data, meta, "ilst")
	if err != nil || ilst == nil {
		t.Fatalf("findAtom() = %v, %v", ilst, err)
	}
}

func TestWalk(t *testing.T) {
	data := atom("moov", atom("trak", atom("mdia", atom("mdhd"))), atom("udta"))
	sr := binary.NewSafeReader(data, "test")
	moov, _ := readAtomHeader(sr, 0, sr.Size())

	var got bytes.Buffer
	err := walk(sr, data, moov, 0, func(a *Atom, depth int) {
		got.WriteString(a.Type)
		got.WriteByte(byte('0' + depth))
		got.WriteByte(' ')
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := "trak0 mdia1 mdhd2 udta0 "; got.String() != want {
		t.Errorf("walk order = %q, want %q", got.String(), want)
	}
}
