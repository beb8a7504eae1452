package dj

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/clintecker/clanker-radio-sub000/internal/models"
)

type fakeQueue struct {
	depth    int
	pushed   []string
	failPush bool
}

func (f *fakeQueue) GetQueueLength(queue string) int { return f.depth }

func (f *fakeQueue) PushTrack(queue, path string) bool {
	if f.failPush {
		return false
	}
	f.pushed = append(f.pushed, path)
	return true
}

// seedTrackFile registers a track whose file actually exists on disk, so
// the fill's path validation passes.
func seedTrackFile(t *testing.T, db *gorm.DB, dir, id string, energy int) {
	t.Helper()
	path := filepath.Join(dir, id+".mp3")
	if err := os.WriteFile(path, []byte("mp3"), 0o644); err != nil {
		t.Fatalf("Failed to create audio file: %v", err)
	}
	track := models.Track{
		ID:          id,
		Path:        path,
		Kind:        models.KindMusic,
		EnergyLevel: &energy,
		AddedAt:     time.Now(),
	}
	if err := db.Create(&track).Error; err != nil {
		t.Fatalf("Failed to seed track %s: %v", id, err)
	}
}

func resetDayparts() {
	daypartMu.Lock()
	currentDayparts = nil
	daypartMu.Unlock()
}

func TestFill_NoOpWhenQueueHealthy(t *testing.T) {
	resetDayparts()
	q := &fakeQueue{depth: 5}
	fill := NewFill(NewSelector(setupLibrary(t)), q, 3, 5, 10)

	pushed, needed := fill.Run(time.Now())
	if needed || pushed != 0 {
		t.Errorf("Expected benign no-op, got pushed=%d needed=%v", pushed, needed)
	}
	if len(q.pushed) != 0 {
		t.Errorf("Nothing should have been pushed: %v", q.pushed)
	}
}

func TestFill_NoOpOnSentinelDepth(t *testing.T) {
	// -1 means the engine could not be queried; the fill must do nothing
	// rather than interpret it as an empty queue.
	resetDayparts()
	q := &fakeQueue{depth: -1}
	fill := NewFill(NewSelector(setupLibrary(t)), q, 3, 5, 10)

	pushed, needed := fill.Run(time.Now())
	if needed || pushed != 0 {
		t.Errorf("Expected no-op on sentinel, got pushed=%d needed=%v", pushed, needed)
	}
}

func TestFill_PushesWithoutRepeats(t *testing.T) {
	resetDayparts()
	db := setupLibrary(t)
	dir := t.TempDir()
	for i := 1; i <= 8; i++ {
		seedTrackFile(t, db, dir, fmt.Sprintf("t%d", i), 1+i%10)
	}

	q := &fakeQueue{depth: 0}
	fill := NewFill(NewSelector(db), q, 3, 5, 10)

	pushed, needed := fill.Run(time.Now())
	if !needed {
		t.Fatal("Fill should have been needed at depth 0")
	}
	if pushed != 5 || len(q.pushed) != 5 {
		t.Fatalf("Expected 5 pushes, got %d (%v)", pushed, q.pushed)
	}
	seen := map[string]bool{}
	for _, p := range q.pushed {
		if seen[p] {
			t.Errorf("Track pushed twice in one fill: %s", p)
		}
		seen[p] = true
	}
}

func TestFill_PartialWhenLibrarySmall(t *testing.T) {
	resetDayparts()
	db := setupLibrary(t)
	dir := t.TempDir()
	seedTrackFile(t, db, dir, "only1", 5)
	seedTrackFile(t, db, dir, "only2", 5)

	q := &fakeQueue{depth: 0}
	fill := NewFill(NewSelector(db), q, 3, 5, 10)

	pushed, needed := fill.Run(time.Now())
	if !needed {
		t.Fatal("Fill should have been needed")
	}
	if pushed != 2 {
		t.Errorf("Expected partial fill of 2, got %d", pushed)
	}
}

func TestFill_SkipsMissingFiles(t *testing.T) {
	resetDayparts()
	db := setupLibrary(t)
	dir := t.TempDir()
	seedTrackFile(t, db, dir, "present", 5)

	ghost := models.Track{
		ID:   "ghost",
		Path: filepath.Join(dir, "deleted.mp3"),
		Kind: models.KindMusic,
	}
	if err := db.Create(&ghost).Error; err != nil {
		t.Fatalf("Failed to seed ghost track: %v", err)
	}

	q := &fakeQueue{depth: 0}
	fill := NewFill(NewSelector(db), q, 3, 5, 10)

	fill.Run(time.Now())
	for _, p := range q.pushed {
		if p == ghost.Path {
			t.Errorf("Missing file was pushed to the engine: %s", p)
		}
	}
}

func TestFill_ZeroPushedWhenEngineRejects(t *testing.T) {
	resetDayparts()
	db := setupLibrary(t)
	dir := t.TempDir()
	seedTrackFile(t, db, dir, "t1", 5)

	q := &fakeQueue{depth: 0, failPush: true}
	fill := NewFill(NewSelector(db), q, 3, 2, 10)

	pushed, needed := fill.Run(time.Now())
	if !needed {
		t.Fatal("Fill should have been needed")
	}
	if pushed != 0 {
		t.Errorf("Expected zero pushes when engine rejects, got %d", pushed)
	}
}
