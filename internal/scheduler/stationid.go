package scheduler

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Station IDs air in a short window before :15, :30 and :45. The state
// machine is (current minute, last-scheduled target); persisting the
// target is what keeps two invocations inside one window from
// double-firing.

// WindowMinutes is how long before each target minute the window opens.
const WindowMinutes = 2

var targetMinutes = []int{15, 30, 45}

// Action is the decision for one invocation.
type Action int

const (
	// ActionNone: no window open, state untouched.
	ActionNone Action = iota
	// ActionSchedule: a window is open and not yet satisfied.
	ActionSchedule
	// ActionSuppress: a window is open but already satisfied. Benign no-op.
	ActionSuppress
	// ActionReset: the hour has moved past (or not yet reached) all
	// windows; stale state must be cleared so it cannot suppress the
	// next hour's first window.
	ActionReset
)

// WindowState is the persisted scalar: which target minute was last
// scheduled. The zero value means nothing scheduled.
type WindowState struct {
	Scheduled bool
	Target    int
}

// EvaluateWindow is the pure transition function: (minute, state) ->
// (new state, action). All file and socket I/O stays at the edges.
func EvaluateWindow(minute int, state WindowState) (WindowState, Action) {
	first := targetMinutes[0] - WindowMinutes
	last := targetMinutes[len(targetMinutes)-1]

	if minute >= last || minute < first {
		if state.Scheduled {
			return WindowState{}, ActionReset
		}
		return WindowState{}, ActionNone
	}

	for _, target := range targetMinutes {
		if minute >= target-WindowMinutes && minute < target {
			if state.Scheduled && state.Target == target {
				return state, ActionSuppress
			}
			return WindowState{Scheduled: true, Target: target}, ActionSchedule
		}
	}

	// Between windows: keep whatever was scheduled earlier this hour.
	return state, ActionNone
}

// StateStore persists the last-scheduled target minute as a single small
// text file under the state directory.
type StateStore struct {
	path string
}

func NewStateStore(stateDir string) *StateStore {
	return &StateStore{path: filepath.Join(stateDir, "stationid_last_window")}
}

// Load returns the persisted state; a missing or unreadable file is the
// zero state, never an error.
func (s *StateStore) Load() WindowState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return WindowState{}
	}
	target, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return WindowState{}
	}
	return WindowState{Scheduled: true, Target: target}
}

func (s *StateStore) Save(state WindowState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(strconv.Itoa(state.Target)+"\n"), 0o644)
}

func (s *StateStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// BumperPusher is the slice of the engine gateway station ID needs.
type BumperPusher interface {
	PushTrack(queue, path string) bool
}

// StationID schedules one station-identification bumper per open window.
type StationID struct {
	Clock     Clock
	Store     *StateStore
	Queue     BumperPusher
	BumperDir string
	Pattern   string // glob, e.g. "*.mp3"
	Location  *time.Location
	QueueName string // engine queue bumpers ride on; normally "breaks"
}

// Run performs one invocation. Station identification is a compliance
// function: no bumpers or a failed push is a hard failure, while an
// already-satisfied window is a benign no-op.
func (s *StationID) Run() error {
	now := s.Clock.Now().In(s.Location)
	minute := now.Minute()

	state := s.Store.Load()
	next, action := EvaluateWindow(minute, state)

	switch action {
	case ActionNone:
		log.Printf("✅ No station ID window open at :%02d", minute)
		return nil

	case ActionSuppress:
		log.Printf("✅ Station ID for :%02d already scheduled, nothing to do", state.Target)
		return nil

	case ActionReset:
		if err := s.Store.Clear(); err != nil {
			return fmt.Errorf("clear station ID state: %w", err)
		}
		log.Printf("🔄 Station ID state reset at :%02d (past all windows)", minute)
		return nil

	case ActionSchedule:
		bumper, err := s.pickBumper()
		if err != nil {
			return err
		}
		if !s.Queue.PushTrack(s.QueueName, bumper) {
			return fmt.Errorf("push station ID %s to %s queue failed", bumper, s.QueueName)
		}
		if err := s.Store.Save(next); err != nil {
			return fmt.Errorf("persist station ID state: %w", err)
		}
		log.Printf("📻 Station ID scheduled for :%02d window: %s", next.Target, filepath.Base(bumper))
		return nil
	}

	return nil
}

func (s *StationID) pickBumper() (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.BumperDir, s.Pattern))
	if err != nil {
		return "", fmt.Errorf("scan bumpers in %s: %w", s.BumperDir, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no bumper files matching %s in %s", s.Pattern, s.BumperDir)
	}
	return matches[rand.Intn(len(matches))], nil
}
