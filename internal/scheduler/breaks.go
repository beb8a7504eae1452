package scheduler

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Generated news/weather breaks are time-sensitive. The freshness gate
// refuses to air hours-old content; staleness is an alerting signal that
// the generation pipeline is failing, never a reason to silently fall
// back.

// DefaultFreshness is the maximum tolerated break age.
const DefaultFreshness = 50 * time.Minute

// StaleBreakError reports that the newest break is older than the
// freshness threshold. Carries diagnostics so alerting can say exactly
// how far behind the generation pipeline is.
type StaleBreakError struct {
	Path      string
	Age       time.Duration
	Threshold time.Duration
}

func (e *StaleBreakError) Error() string {
	return fmt.Sprintf("stale break %s: age %s exceeds threshold %s", e.Path, e.Age.Round(time.Second), e.Threshold)
}

// NoBreaksError reports that no break files exist at all — generation
// never ran, a different remediation than generation failing repeatedly.
type NoBreaksError struct {
	Dir string
}

func (e *NoBreaksError) Error() string {
	return fmt.Sprintf("no break files found in %s", e.Dir)
}

// FreshnessGate finds the most recently produced break and rejects it if
// older than the threshold.
type FreshnessGate struct {
	Clock     Clock
	Pattern   string // glob for timestamp-named break files
	Threshold time.Duration
}

// FreshBreak returns the newest break file by modification time. Age
// exactly equal to the threshold is still fresh.
func (g *FreshnessGate) FreshBreak(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, g.Pattern))
	if err != nil {
		return "", fmt.Errorf("scan breaks in %s: %w", dir, err)
	}

	var newest string
	var newestMod time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = m
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", &NoBreaksError{Dir: dir}
	}

	age := g.Clock.Now().Sub(newestMod)
	if age > g.Threshold {
		return "", &StaleBreakError{Path: newest, Age: age, Threshold: g.Threshold}
	}
	return newest, nil
}

// QueueInspector is the slice of the engine gateway the break scheduler
// needs.
type QueueInspector interface {
	GetQueueLength(queue string) int
	PushTrack(queue, path string) bool
}

// TopOfHour enqueues the designated break shortly after each hour rolls
// over, exactly once.
type TopOfHour struct {
	Clock         Clock
	Gate          *FreshnessGate
	Queue         QueueInspector
	BreaksDir     string
	NextFile      string // stable pointer maintained by the generator
	LastGoodFile  string // fallback pointer
	WindowMinutes int    // act only when minute < this; default 5
	Location      *time.Location
	QueueName     string
}

// Run performs one invocation. Outside the window or with a break already
// queued it is a benign no-op; stale or absent content is a hard failure.
func (t *TopOfHour) Run() error {
	window := t.WindowMinutes
	if window <= 0 {
		window = 5
	}

	now := t.Clock.Now().In(t.Location)
	if now.Minute() >= window {
		log.Printf("✅ Outside top-of-hour window (:%02d), nothing to do", now.Minute())
		return nil
	}

	// Depth read now is a lower bound on depth at push time; the engine
	// only consumes between polls, so >=1 means this hour is covered.
	depth := t.Queue.GetQueueLength(t.QueueName)
	if depth >= 1 {
		log.Printf("✅ Break already queued (%d item(s)), nothing to do", depth)
		return nil
	}

	// Refuse to schedule anything when the newest generated break is
	// stale: airing it would be worse than alerting.
	if _, err := t.Gate.FreshBreak(t.BreaksDir); err != nil {
		return err
	}

	target := filepath.Join(t.BreaksDir, t.NextFile)
	if _, err := os.Stat(target); err != nil {
		fallback := filepath.Join(t.BreaksDir, t.LastGoodFile)
		if _, ferr := os.Stat(fallback); ferr != nil {
			return fmt.Errorf("no break artifact: %s and fallback %s both missing", target, fallback)
		}
		log.Printf("⚠️ Next-break pointer missing, using last known good: %s", fallback)
		target = fallback
	}

	if !t.Queue.PushTrack(t.QueueName, target) {
		return fmt.Errorf("push break %s to %s queue failed", target, t.QueueName)
	}
	log.Printf("📰 Top-of-hour break scheduled: %s", filepath.Base(target))
	return nil
}
