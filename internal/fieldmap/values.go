package fieldmap

import (
	"strconv"
	"strings"
)

// ParsePair parses "N", "N/M" or "/M". Whitespace around parts is ignored.
func ParsePair(s string) (n, total int, hasN, hasTotal bool) {
	s = strings.TrimSpace(s)
	head, tail, found := strings.Cut(s, "/")
	if v, err := strconv.Atoi(strings.TrimSpace(head)); err == nil && v >= 0 {
		n, hasN = v, true
	}
	if found {
		if v, err := strconv.Atoi(strings.TrimSpace(tail)); err == nil && v >= 0 {
			total, hasTotal = v, true
		}
	}
	return n, total, hasN, hasTotal
}

// FormatPair renders a number and total as "N", "N/M" or "/M".
// It returns "" when neither is present.
func FormatPair(n, total int, hasN, hasTotal bool) string {
	switch {
	case hasN && hasTotal:
		return strconv.Itoa(n) + "/" + strconv.Itoa(total)
	case hasN:
		return strconv.Itoa(n)
	case hasTotal:
		return "/" + strconv.Itoa(total)
	default:
		return ""
	}
}

// ParseYear extracts the year from "2024", "2024-03-01" or
// "2024-03-01T12:00:00Z".
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0, false
	}
	for _, c := range s[:4] {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	if len(s) > 4 && s[4] >= '0' && s[4] <= '9' {
		return 0, false
	}
	y, _ := strconv.Atoi(s[:4])
	return y, true
}

// ResolveGenre turns ID3v1 genre references into names.
//
// "(17)" and "17" become "Rock"; "(17)Heavy Rock" keeps the refinement
// text; "(RX)" and "(CR)" become "Remix" and "Cover". Only the first of
// several NUL-separated values is used. Anything else is returned as is.
func ResolveGenre(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)

	if n, err := strconv.Atoi(s); err == nil {
		if name, ok := GenreByIndex(n); ok {
			return name
		}
		return s
	}

	if strings.HasPrefix(s, "((") {
		return s[1:]
	}
	if !strings.HasPrefix(s, "(") {
		return s
	}

	ref, rest, ok := strings.Cut(s[1:], ")")
	if !ok {
		return s
	}
	if rest != "" {
		return ResolveGenre(rest)
	}
	switch ref {
	case "RX":
		return "Remix"
	case "CR":
		return "Cover"
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if name, ok := GenreByIndex(n); ok {
			return name
		}
	}
	return s
}

// GenreByIndex returns the ID3v1 genre name for a 0-based index.
func GenreByIndex(n int) (string, bool) {
	if n < 0 || n >= len(Genres) {
		return "", false
	}
	return Genres[n], true
}

// GenreIndex returns the 0-based ID3v1 index of a genre name, ignoring case.
func GenreIndex(name string) (int, bool) {
	for i, g := range Genres {
		if strings.EqualFold(g, name) {
			return i, true
		}
	}
	return 0, false
}

// Genres is the ID3v1 genre list including the Winamp extensions.
var Genres = [...]string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge",
	"Hip-Hop", "Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B",
	"Rap", "Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska",
	"Death Metal", "Pranks", "Soundtrack", "Euro-Techno", "Ambient",
	"Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance", "Classical",
	"Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel", "Noise",
	"AlternRock", "Bass", "Soul", "Punk", "Space", "Meditative",
	"Instrumental Pop", "Instrumental Rock", "Ethnic", "Gothic", "Darkwave",
	"Techno-Industrial", "Electronic", "Pop-Folk", "Eurodance", "Dream",
	"Southern Rock", "Comedy", "Cult", "Gangsta", "Top 40", "Christian Rap",
	"Pop/Funk", "Jungle", "Native American", "Cabaret", "New Wave",
	"Psychadelic", "Rave", "Showtunes", "Trailer", "Lo-Fi", "Tribal",
	"Acid Punk", "Acid Jazz", "Polka", "Retro", "Musical", "Rock & Roll",
	"Hard Rock", "Folk", "Folk-Rock", "National Folk", "Swing",
	"Fast Fusion", "Bebob", "Latin", "Revival", "Celtic", "Bluegrass",
	"Avantgarde", "Gothic Rock", "Progressive Rock", "Psychedelic Rock",
	"Symphonic Rock", "Slow Rock", "Big Band", "Chorus", "Easy Listening",
	"Acoustic", "Humour", "Speech", "Chanson", "Opera", "Chamber Music",
	"Sonata", "Symphony", "Booty Bass", "Primus", "Porn Groove", "Satire",
	"Slow Jam", "Club", "Tango", "Samba", "Folklore", "Ballad",
	"Power Ballad", "Rhythmic Soul", "Freestyle", "Duet", "Punk Rock",
	"Drum Solo", "A capella", "Euro-House", "Dance Hall", "Goa",
	"Drum & Bass", "Club-House", "Hardcore", "Terror", "Indie", "BritPop",
	"Negerpunk", "Polsk Punk", "Beat", "Christian Gangsta Rap",
	"Heavy Metal", "Black Metal", "Crossover", "Contemporary Christian",
	"Christian Rock", "Merengue", "Salsa", "Thrash Metal", "Anime", "JPop",
	"Synthpop", "Abstract", "Art Rock", "Baroque", "Bhangra", "Big Beat",
	"Breakbeat", "Chillout", "Downtempo", "Dub", "EBM", "Eclectic",
	"Electro", "Electroclash", "Emo", "Experimental", "Garage", "Global",
	"IDM", "Illbient", "Industro-Goth", "Jam Band", "Krautrock", "Leftfield",
	"Lounge", "Math Rock", "New Romantic", "Nu-Breakz", "Post-Punk",
	"Post-Rock", "Psytrance", "Shoegaze", "Space Rock", "Trop Rock",
	"World Music", "Neoclassical", "Audiobook", "Audio Theatre",
	"Neue Deutsche Welle", "Podcast", "Indie Rock", "G-Funk", "Dubstep",
	"Garage Rock", "Psybient",
}
