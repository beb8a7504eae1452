package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dhowden/tag"

	"github.com/clintecker/clanker-radio-sub000/internal/fslock"
	"github.com/clintecker/clanker-radio-sub000/internal/scheduler"
)

// Snapshot is the now-playing state exported for listener-facing surfaces.
type Snapshot struct {
	Artist    string `json:"artist"`
	Title     string `json:"title"`
	Album     string `json:"album,omitempty"`
	Filename  string `json:"filename,omitempty"`
	Source    string `json:"source"`
	UpdatedAt int64  `json:"updated_at"`
}

// MetadataSource is the slice of the engine gateway the exporter needs.
type MetadataSource interface {
	SourceMetadata(source string) (map[string]string, error)
}

// Exporter queries the engine for current-playing metadata and writes an
// atomic JSON snapshot. Concurrent invocations are serialized with a
// non-blocking advisory lock; a held lock means a peer is in flight and
// this invocation exits successfully without doing work.
type Exporter struct {
	Gateway  MetadataSource
	Clock    scheduler.Clock
	Source   string // engine source to query, e.g. "output"
	OutPath  string
	LockPath string
}

func (e *Exporter) Run() error {
	lock, err := fslock.TryAcquire(e.LockPath)
	if errors.Is(err, fslock.ErrHeld) {
		log.Println("✅ Now-playing export already in flight, skipping")
		return nil
	}
	if err != nil {
		return err
	}
	defer lock.Release()

	meta, err := e.Gateway.SourceMetadata(e.Source)
	if err != nil {
		return fmt.Errorf("query %s metadata: %w", e.Source, err)
	}

	snap := BuildSnapshot(meta, e.Source, e.Clock.Now().Unix())
	if snap.Title == "" && snap.Filename != "" {
		enrichFromTags(&snap)
	}

	return writeAtomic(e.OutPath, snap)
}

// BuildSnapshot maps engine metadata keys onto the export shape.
func BuildSnapshot(meta map[string]string, source string, now int64) Snapshot {
	snap := Snapshot{
		Artist:    meta["artist"],
		Title:     meta["title"],
		Album:     meta["album"],
		Filename:  meta["filename"],
		Source:    source,
		UpdatedAt: now,
	}
	if snap.Filename == "" {
		snap.Filename = meta["initial_uri"]
	}
	return snap
}

// Bumpers and breaks aren't catalogued, so the engine often reports bare
// filenames with no artist/title. Fill the gaps from the file's own tags
// when it is reachable.
func enrichFromTags(snap *Snapshot) {
	f, err := os.Open(snap.Filename)
	if err != nil {
		return
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return
	}
	if snap.Title == "" {
		snap.Title = m.Title()
	}
	if snap.Artist == "" {
		snap.Artist = m.Artist()
	}
	if snap.Album == "" {
		snap.Album = m.Album()
	}
}

func writeAtomic(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
