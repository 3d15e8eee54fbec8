package m4a

import (
	"time"

	"github.com/simonhull/audiotag/internal/binary"
	"github.com/simonhull/audiotag/internal/types"
)

// trackInfo is what the sound track's sample table says about the audio.
type trackInfo struct {
	codec      string // sample entry FourCC
	channels   int
	bitDepth   int
	sampleRate int
	bitRate    int // kbps, from esds or the ALAC cookie
	profile    string
	duration   time.Duration
}

// parseTechnicalInfo fills file.Audio from mvhd and the first sound track.
// Missing atoms are not errors; malformed ones become warnings.
func parseTechnicalInfo(sr *binary.SafeReader, data []byte, moov *Atom, file *types.File) {
	var duration time.Duration
	if mvhd, err := findAtom(sr, data, moov, "mvhd"); err == nil && mvhd != nil {
		if d, err := parseHeaderDuration(sr, mvhd); err == nil {
			duration = d
		} else {
			file.Warn("technical", mvhd.Offset, "mvhd: %v", err)
		}
	}

	info, err := soundTrack(sr, data, moov)
	if err != nil {
		file.Warn("technical", moov.Offset, "sound track: %v", err)
	}
	if info != nil {
		if info.duration > 0 {
			duration = info.duration
		}
		file.Audio.Codec = mapCodecName(info.codec)
		if info.profile != "" && info.profile != "AAC-LC" {
			file.Audio.Codec = info.profile
		}
		file.Audio.Channels = info.channels
		file.Audio.SampleRate = info.sampleRate
		file.Audio.BitRate = info.bitRate
		file.Audio.Lossless = isLossless(info.codec)
		if file.Audio.Lossless {
			file.Audio.BitDepth = info.bitDepth
		}
	}
	file.Audio.Duration = duration

	if file.Audio.BitRate == 0 {
		var payload int64
		for _, s := range file.Payload {
			payload += s.Length
		}
		file.Audio.BitRate = types.BitRateFromPayload(payload, duration)
	}
}

// soundTrack returns the first trak whose handler is "soun", or nil.
func soundTrack(sr *binary.SafeReader, data []byte, moov *Atom) (*trackInfo, error) {
	traks, err := readChildren(sr, moov.DataOffset(), moov.End())
	if err != nil {
		return nil, err
	}
	for _, trak := range traks {
		if trak.Type != "trak" {
			continue
		}
		mdia, err := findAtom(sr, data, trak, "mdia")
		if err != nil || mdia == nil {
			continue
		}
		hdlr, err := findAtom(sr, data, mdia, "hdlr")
		if err != nil || hdlr == nil {
			continue
		}
		handler, err := sr.Slice(hdlr.DataOffset()+8, 4, "handler type")
		if err != nil || string(handler) != "soun" {
			continue
		}

		info := &trackInfo{}
		if mdhd, err := findAtom(sr, data, mdia, "mdhd"); err == nil && mdhd != nil {
			if d, err := parseHeaderDuration(sr, mdhd); err == nil {
				info.duration = d
			}
		}
		path, err := findPath(sr, data, mdia, "minf", "stbl", "stsd")
		if err != nil {
			return info, err
		}
		if len(path) == 3 {
			if err := parseStsd(sr, path[2], info); err != nil {
				return info, err
			}
		}
		return info, nil
	}
	return nil, nil
}

// parseHeaderDuration reads the timescale and duration of an mvhd or mdhd
// atom. Both share the version 0/1 layout up to the duration.
func parseHeaderDuration(sr *binary.SafeReader, atom *Atom) (time.Duration, error) {
	cr := binary.NewChainReader(binary.NewReader(sr, atom.DataOffset()))
	version := binary.ReadChained[uint8](cr, "version")
	cr.Skip(3) // flags

	var timescale uint32
	var duration uint64
	if version == 1 {
		cr.Skip(16) // creation and modification time
		timescale = binary.ReadChained[uint32](cr, "timescale")
		duration = binary.ReadChained[uint64](cr, "duration")
	} else {
		cr.Skip(8)
		timescale = binary.ReadChained[uint32](cr, "timescale")
		duration = uint64(binary.ReadChained[uint32](cr, "duration"))
	}
	if err := cr.Error(); err != nil {
		return 0, err
	}
	if timescale == 0 {
		return 0, nil
	}
	seconds := float64(duration) / float64(timescale)
	return time.Duration(seconds * float64(time.Second)), nil
}

// parseStsd reads the first sample entry of a sample description atom.
//
//	[4 bytes] version + flags, [4 bytes] entry count
//	entry: [4] size, [4] format, [6] reserved, [2] data reference index,
//	       [8] version/revision/vendor, [2] channels, [2] sample size,
//	       [4] compression ID + packet size, [4] sample rate (16.16),
//	       child atoms (esds, alac, ...)
func parseStsd(sr *binary.SafeReader, stsd *Atom, info *trackInfo) error {
	cr := binary.NewChainReader(binary.NewReader(sr, stsd.DataOffset()+4))
	if binary.ReadChained[uint32](cr, "stsd entry count") == 0 {
		return cr.Error()
	}
	entryStart := cr.Offset()
	entrySize := binary.ReadChained[uint32](cr, "stsd entry size")
	info.codec = cr.String(4, "stsd format")
	cr.Skip(16)
	info.channels = int(binary.ReadChained[uint16](cr, "channels"))
	info.bitDepth = int(binary.ReadChained[uint16](cr, "sample size"))
	cr.Skip(4)
	info.sampleRate = int(binary.ReadChained[uint32](cr, "sample rate") >> 16)
	if err := cr.Error(); err != nil {
		return err
	}

	end := entryStart + int64(entrySize)
	if end > stsd.End() {
		end = stsd.End()
	}
	children, err := readChildren(sr, cr.Offset(), end)
	if err != nil {
		return err
	}
	for _, c := range children {
		switch c.Type {
		case "esds":
			body, err := sr.Slice(c.DataOffset()+4, c.DataSize()-4, "esds")
			if err != nil {
				return err
			}
			es := parseESDescriptors(body)
			if p, ok := aacProfiles[es.objectType]; ok && info.codec == "mp4a" {
				info.profile = p
			}
			if es.avgBitrate > 0 {
				info.bitRate = int(es.avgBitrate / 1000)
			}
		case "alac":
			parseALACCookie(sr, c, info)
		}
	}
	return nil
}

// parseALACCookie reads the ALACSpecificConfig that follows the alac
// atom's version and flags.
//
//	[4] frame length, [1] compatible version, [1] bit depth,
//	[3] tuning, [1] channels, [2] max run, [4] max frame bytes,
//	[4] average bit rate, [4] sample rate
func parseALACCookie(sr *binary.SafeReader, atom *Atom, info *trackInfo) {
	cr := binary.NewChainReader(binary.NewReader(sr, atom.DataOffset()+4))
	cr.Skip(5)
	bitDepth := binary.ReadChained[uint8](cr, "alac bit depth")
	cr.Skip(3)
	channels := binary.ReadChained[uint8](cr, "alac channels")
	cr.Skip(6)
	avgBitrate := binary.ReadChained[uint32](cr, "alac average bit rate")
	sampleRate := binary.ReadChained[uint32](cr, "alac sample rate")
	if cr.Error() != nil {
		return
	}
	info.bitDepth = int(bitDepth)
	info.channels = int(channels)
	info.sampleRate = int(sampleRate)
	if avgBitrate > 0 {
		info.bitRate = int(avgBitrate / 1000)
	}
}
