package models

import "time"

// Asset kinds as stored in the library.
const (
	KindMusic  = "music"
	KindBumper = "bumper"
	KindBreak  = "break"
)

// Track represents one audio asset eligible for playback. Rows are owned
// by the ingest pipeline; the scheduling core only reads them.
type Track struct {
	// Content-addressed id, stable across renames. This is the
	// anti-repetition key.
	ID string `gorm:"primaryKey;size:64"`

	// Absolute filesystem location handed to the broadcast engine.
	Path string `gorm:"uniqueIndex;not null"`

	Kind string `gorm:"index;size:20"`

	// Display metadata, nullable for non-catalogued content.
	Title  *string
	Artist *string `gorm:"index"`
	Album  *string

	// 0..10 scale; tracks without a level are excluded from
	// energy-filtered queries but included in unfiltered ones.
	EnergyLevel *int `gorm:"index"`

	// Unknown for bumpers/breaks not registered as assets.
	DurationSec *float64

	AddedAt time.Time
}

// PlayHistory records every asset handed to the broadcast engine.
// Written by the playout reporter (a collaborator); read here only to
// build the recently-played exclusion set.
type PlayHistory struct {
	ID       uint      `gorm:"primaryKey"`
	TrackID  string    `gorm:"index;size:64"`
	PlayedAt time.Time `gorm:"index"`
	Source   string    `gorm:"size:20"` // which engine queue fed playout
}
