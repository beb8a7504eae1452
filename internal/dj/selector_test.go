package dj

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clintecker/clanker-radio-sub000/internal/models"
)

// Helper to create a disposable in-memory DB
func setupLibrary(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open in-memory DB: %v", err)
	}
	if err := db.AutoMigrate(&models.Track{}, &models.PlayHistory{}); err != nil {
		t.Fatalf("Migration failed: %v", err)
	}
	return db
}

func intPtr(n int) *int { return &n }

func seedTrack(t *testing.T, db *gorm.DB, id string, energy *int) {
	t.Helper()
	track := models.Track{
		ID:          id,
		Path:        "/audio/music/" + id + ".mp3",
		Kind:        models.KindMusic,
		EnergyLevel: energy,
		AddedAt:     time.Now(),
	}
	if err := db.Create(&track).Error; err != nil {
		t.Fatalf("Failed to seed track %s: %v", id, err)
	}
}

func idSet(tracks []models.Track) map[string]bool {
	set := make(map[string]bool, len(tracks))
	for _, tr := range tracks {
		set[tr.ID] = true
	}
	return set
}

func TestSelectNextTracks_ExclusionInvariant(t *testing.T) {
	db := setupLibrary(t)
	for i := 1; i <= 6; i++ {
		seedTrack(t, db, fmt.Sprintf("t%d", i), intPtr(5))
	}

	s := NewSelector(db)
	got := s.SelectNextTracks(10, []string{"t1", "t2"}, EnergyAny)

	if len(got) > 4 {
		t.Fatalf("Expected at most 4 tracks after exclusion, got %d", len(got))
	}
	set := idSet(got)
	if set["t1"] || set["t2"] {
		t.Errorf("Excluded ids leaked into selection: %v", set)
	}
}

func TestSelectNextTracks_EnergyBands(t *testing.T) {
	db := setupLibrary(t)
	seedTrack(t, db, "low1", intPtr(1))
	seedTrack(t, db, "low2", intPtr(3))
	seedTrack(t, db, "med1", intPtr(4))
	seedTrack(t, db, "med2", intPtr(6))
	seedTrack(t, db, "high1", intPtr(7))
	seedTrack(t, db, "high2", intPtr(10))
	seedTrack(t, db, "nolevel", nil)

	s := NewSelector(db)

	tests := []struct {
		pref    EnergyPreference
		wantIDs map[string]bool
	}{
		{EnergyLow, map[string]bool{"low1": true, "low2": true}},
		{EnergyMedium, map[string]bool{"med1": true, "med2": true}},
		{EnergyHigh, map[string]bool{"high1": true, "high2": true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.pref), func(t *testing.T) {
			got := s.SelectNextTracks(10, nil, tt.pref)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Expected %d tracks, got %d", len(tt.wantIDs), len(got))
			}
			for _, tr := range got {
				if !tt.wantIDs[tr.ID] {
					t.Errorf("Track %s (energy %v) does not belong in band %q", tr.ID, *tr.EnergyLevel, tt.pref)
				}
			}
		})
	}
}

func TestSelectNextTracks_NullEnergyInUnfilteredOnly(t *testing.T) {
	db := setupLibrary(t)
	seedTrack(t, db, "tagged", intPtr(5))
	seedTrack(t, db, "untagged", nil)

	s := NewSelector(db)

	if got := s.SelectNextTracks(10, nil, EnergyAny); len(got) != 2 {
		t.Errorf("Unfiltered selection should include untagged tracks, got %d", len(got))
	}
	for _, pref := range []EnergyPreference{EnergyLow, EnergyMedium, EnergyHigh} {
		for _, tr := range s.SelectNextTracks(10, nil, pref) {
			if tr.ID == "untagged" {
				t.Errorf("Untagged track leaked into %q band", pref)
			}
		}
	}
}

func TestSelectNextTracks_GracefulPartialFill(t *testing.T) {
	db := setupLibrary(t)
	for i := 1; i <= 5; i++ {
		seedTrack(t, db, fmt.Sprintf("t%d", i), intPtr(5))
	}

	s := NewSelector(db)
	got := s.SelectNextTracks(20, nil, EnergyAny)

	if len(got) != 5 {
		t.Fatalf("Expected exactly the 5 available tracks, got %d", len(got))
	}
	if len(idSet(got)) != 5 {
		t.Error("Partial fill must never pad with duplicates")
	}
}

func TestSelectNextTracks_EmptyLibrary(t *testing.T) {
	s := NewSelector(setupLibrary(t))
	if got := s.SelectNextTracks(5, nil, EnergyAny); len(got) != 0 {
		t.Errorf("Empty library should yield empty result, got %d", len(got))
	}
}

func TestSelectNextTracks_IgnoresNonMusic(t *testing.T) {
	db := setupLibrary(t)
	seedTrack(t, db, "song", intPtr(5))
	db.Create(&models.Track{ID: "jingle", Path: "/audio/bumpers/jingle.mp3", Kind: models.KindBumper})

	s := NewSelector(db)
	got := s.SelectNextTracks(10, nil, EnergyAny)
	if len(got) != 1 || got[0].ID != "song" {
		t.Errorf("Bumpers must not enter music rotation: %v", idSet(got))
	}
}

func TestRecentlyPlayed_MostRecentFirst(t *testing.T) {
	db := setupLibrary(t)
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c", "d"} {
		db.Create(&models.PlayHistory{
			TrackID:  id,
			PlayedAt: base.Add(time.Duration(i) * time.Minute),
			Source:   "music",
		})
	}

	s := NewSelector(db)
	got := s.RecentlyPlayed(3)

	want := []string{"d", "c", "b"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d ids, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
