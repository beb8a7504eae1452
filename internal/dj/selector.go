package dj

import (
	"log"

	"gorm.io/gorm"

	"github.com/clintecker/clanker-radio-sub000/internal/models"
)

// EnergyPreference narrows selection to one band of the 0..10 energy
// scale. The empty preference means no energy filter (mixed rotation).
type EnergyPreference string

const (
	EnergyAny    EnergyPreference = ""
	EnergyHigh   EnergyPreference = "high"   // energy_level >= 7
	EnergyMedium EnergyPreference = "medium" // 4 <= energy_level <= 6
	EnergyLow    EnergyPreference = "low"    // energy_level <= 3
)

// Selector picks eligible music tracks, balancing variety against
// availability. It never owns library rows; it only reads them.
type Selector struct {
	db *gorm.DB
}

func NewSelector(db *gorm.DB) *Selector {
	return &Selector{db: db}
}

// SelectNextTracks returns up to count tracks in uniform-random order,
// excluding recently played ids and applying the energy band filter.
//
// Fewer than count results is expected when the library is small: the
// caller accepts a partial fill, never padding. A data-access failure
// degrades to an empty result with a warning; selection must never crash
// the enqueue job.
func (s *Selector) SelectNextTracks(count int, recentlyPlayedIDs []string, energy EnergyPreference) []models.Track {
	if count <= 0 {
		return nil
	}

	q := s.db.Model(&models.Track{}).Where("kind = ?", models.KindMusic)

	switch energy {
	case EnergyHigh:
		q = q.Where("energy_level >= ?", 7)
	case EnergyMedium:
		q = q.Where("energy_level BETWEEN ? AND ?", 4, 6)
	case EnergyLow:
		q = q.Where("energy_level <= ?", 3)
	}

	if len(recentlyPlayedIDs) > 0 {
		q = q.Where("id NOT IN ?", recentlyPlayedIDs)
	}

	var tracks []models.Track
	if err := q.Order("RANDOM()").Limit(count).Find(&tracks).Error; err != nil {
		log.Printf("⚠️ Track selection failed: %v", err)
		return nil
	}

	if len(tracks) < count {
		log.Printf("⚠️ Partial fill: %d of %d requested tracks available (energy=%q, excluded=%d)",
			len(tracks), count, energy, len(recentlyPlayedIDs))
	}
	return tracks
}

// RecentlyPlayed returns the ids of the n most recently played tracks,
// most recent first. Used purely as an exclusion set.
func (s *Selector) RecentlyPlayed(n int) []string {
	if n <= 0 {
		return nil
	}
	var ids []string
	err := s.db.Model(&models.PlayHistory{}).
		Order("played_at DESC").
		Limit(n).
		Pluck("track_id", &ids).Error
	if err != nil {
		log.Printf("⚠️ Play history query failed: %v", err)
		return nil
	}
	return ids
}
