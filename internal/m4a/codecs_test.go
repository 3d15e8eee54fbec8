package m4a

import (
	"testing"
)

func TestMapCodecName(t *testing.T) {
	tests := []struct {
		fourCC   string
		expected string
	}{
		{"mhm1", "xHE-AAC"},
		{"mhm2", "xHE-AAC v2"},
		{"ec-3", "E-AC-3"},
		{"ac-4", "AC-4"},
		{"mp4a", "AAC"},
		{"alac", "Apple Lossless"},
		{"fLaC", "FLAC"},
		{"UNKN", "UNKN"},
	}

	for _, tt := range tests {
		t.Run(tt.fourCC, func(t *testing.T) {
			result := mapCodecName(tt.fourCC)
			if result != tt.expected {
				t.Errorf("mapCodecName(%q) = %q, want %q", tt.fourCC, result, tt.expected)
			}
		})
	}
}

func TestAACProfiles(t *testing.T) {
	tests := []struct {
		audioObjectType uint8
		expected        string
		found           bool
	}{
		{2, "AAC-LC", true},
		{5, "HE-AAC", true},
		{29, "HE-AAC v2", true},
		{42, "xHE-AAC", true},
		{99, "", false},
	}

	for _, tt := range tests {
		result, found := aacProfiles[tt.audioObjectType]
		if found != tt.found {
			t.Errorf("aacProfiles[%d] found = %v, want %v", tt.audioObjectType, found, tt.found)
		}
		if found && result != tt.expected {
			t.Errorf("aacProfiles[%d] = %q, want %q", tt.audioObjectType, result, tt.expected)
		}
	}
}

func TestParseESDescriptors(t *testing.T) {
	tests := []struct {
		name       string
		data       []byte
		objectType uint8
		avgBitrate uint32
	}{
		{
			name: "AAC LC",
			data: []byte{
				0x03, 25, 0x00, 0x01, 0x00,
				0x04, 17, 0x40, 0x15, 0, 0, 0, 0, 0x01, 0xF4, 0x00, 0, 0x01, 0xF4, 0x00,
				0x05, 2, 0x12, 0x10,
			},
			objectType: 2, avgBitrate: 128000,
		},
		{
			name: "multi-byte sizes and HE-AAC",
			data: []byte{
				0x03, 0x80, 0x80, 0x80, 25, 0x00, 0x01, 0x00,
				0x04, 0x80, 0x80, 0x80, 17, 0x40, 0x15, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xFA, 0x00,
				0x05, 0x80, 0x80, 0x80, 2, 0x2B, 0x92,
			},
			objectType: 5, avgBitrate: 64000,
		},
		{
			name: "escaped object type",
			data: []byte{0x05, 2, 0xF9, 0x40},
			objectType: 42,
		},
		{name: "truncated", data: []byte{0x03, 25, 0x00}},
		{name: "empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseESDescriptors(tt.data)
			if got.objectType != tt.objectType || got.avgBitrate != tt.avgBitrate {
				t.Errorf("got %+v, want objectType %d avgBitrate %d", got, tt.objectType, tt.avgBitrate)
			}
		})
	}
}
