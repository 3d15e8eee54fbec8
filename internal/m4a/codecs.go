package m4a

// codecNames maps MP4 codec FourCC codes to human-readable names.
var codecNames = map[string]string{
	// AAC Family
	"mp4a": "AAC",
	"mhm1": "xHE-AAC",
	"mhm2": "xHE-AAC v2",

	// Dolby Family
	"ac-3": "AC-3",
	"ec-3": "E-AC-3",
	"ac-4": "AC-4",

	// Lossless
	"alac": "Apple Lossless",
	"fLaC": "FLAC",

	// Other
	"Opus": "Opus",
	"mp3 ": "MP3",
	".mp3": "MP3",
}

// aacProfiles maps AAC Audio Object Types to profile names.
var aacProfiles = map[uint8]string{
	1:  "AAC Main",
	2:  "AAC-LC",
	3:  "AAC-SSR",
	4:  "AAC-LTP",
	5:  "HE-AAC",
	6:  "AAC Scalable",
	29: "HE-AAC v2",
	42: "xHE-AAC",
}

// mapCodecName converts a FourCC codec identifier to a human-readable name.
func mapCodecName(fourCC string) string {
	if name, ok := codecNames[fourCC]; ok {
		return name
	}
	return fourCC
}

func isLossless(fourCC string) bool {
	return fourCC == "alac" || fourCC == "fLaC"
}

// esInfo is what the elementary stream descriptor tells about the stream.
type esInfo struct {
	objectType uint8  // Audio Object Type from the AudioSpecificConfig
	avgBitrate uint32 // bits per second, 0 when unknown
}

// Descriptor tags
const (
	tagESDescriptor        = 0x03
	tagDecoderConfig       = 0x04
	tagDecoderSpecificInfo = 0x05
)

// parseESDescriptors navigates the descriptor hierarchy of an esds atom
// body (after version and flags). Malformed input yields a partial result.
func parseESDescriptors(data []byte) esInfo {
	var info esInfo
	pos := 0

	readSize := func() int {
		size := 0
		for range 4 {
			if pos >= len(data) {
				return -1
			}
			b := data[pos]
			pos++
			size = (size << 7) | int(b&0x7F)
			if b&0x80 == 0 {
				break
			}
		}
		return size
	}

	for pos < len(data) {
		tag := data[pos]
		pos++
		size := readSize()
		if size < 0 {
			return info
		}

		switch tag {
		case tagESDescriptor:
			// ES_ID, then flags selecting optional fields
			if pos+3 > len(data) {
				return info
			}
			flags := data[pos+2]
			pos += 3
			if flags&0x80 != 0 {
				pos += 2 // dependsOn_ES_ID
			}
			if flags&0x40 != 0 && pos < len(data) {
				pos += 1 + int(data[pos]) // URL
			}
			if flags&0x20 != 0 {
				pos += 2 // OCR_ES_ID
			}
		case tagDecoderConfig:
			// objectTypeIndication, streamType, bufferSizeDB(3), maxBitrate, avgBitrate
			if pos+13 > len(data) {
				return info
			}
			b := data[pos+9 : pos+13]
			info.avgBitrate = uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
			pos += 13
		case tagDecoderSpecificInfo:
			if size > 0 && pos < len(data) {
				info.objectType = data[pos] >> 3
				if info.objectType == 31 && pos+1 < len(data) {
					info.objectType = 32 + ((data[pos]&0x07)<<3 | data[pos+1]>>5)
				}
			}
			return info
		default:
			pos += size
		}
	}
	return info
}
