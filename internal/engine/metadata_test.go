package engine

import "testing"

func TestParseMetadata(t *testing.T) {
	body := `artist="Neko Case"
title="Hold On, Hold On"
album="Fox Confessor Brings the Flood"
filename="/audio/music/neko.mp3"
rid=17
garbage line without equals
="no key"`

	meta := ParseMetadata(body)

	tests := []struct {
		key  string
		want string
	}{
		{"artist", "Neko Case"},
		{"title", "Hold On, Hold On"},
		{"album", "Fox Confessor Brings the Flood"},
		{"filename", "/audio/music/neko.mp3"},
		{"rid", "17"}, // unquoted values pass through as-is
	}

	for _, tt := range tests {
		if got := meta[tt.key]; got != tt.want {
			t.Errorf("meta[%q] = %q, want %q", tt.key, got, tt.want)
		}
	}

	if _, ok := meta[""]; ok {
		t.Error("Keyless line should have been ignored")
	}
	if len(meta) != 5 {
		t.Errorf("Expected 5 entries, got %d: %v", len(meta), meta)
	}
}

func TestParseMetadata_ValueWithEquals(t *testing.T) {
	meta := ParseMetadata(`comment="bpm=128 key=Am"`)
	if got := meta["comment"]; got != "bpm=128 key=Am" {
		t.Errorf("Split on first equals only; got %q", got)
	}
}
