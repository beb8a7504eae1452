package dj

import (
	"log"
	"os"
	"time"

	"github.com/clintecker/clanker-radio-sub000/internal/engine"
)

// QueueGateway is the slice of the engine gateway the fill job needs.
type QueueGateway interface {
	GetQueueLength(queue string) int
	PushTrack(queue, path string) bool
}

// Fill tops up the engine's music queue when it runs low, shaped by the
// active daypart's energy flow.
type Fill struct {
	selector *Selector
	queue    QueueGateway

	Floor   int // refill only when queue depth is below this
	Count   int // tracks per fill
	RecentN int // size of the recently-played exclusion set
}

func NewFill(selector *Selector, queue QueueGateway, floor, count, recentN int) *Fill {
	return &Fill{selector: selector, queue: queue, Floor: floor, Count: count, RecentN: recentN}
}

// Run checks queue depth and pushes up to Count tracks. It returns how
// many tracks were pushed and whether a fill was attempted at all.
//
// A partial fill is success: a non-empty queue is useful even if
// imperfect. The caller decides fatality (zero pushed when a fill was
// needed).
func (f *Fill) Run(now time.Time) (pushed int, needed bool) {
	depth := f.queue.GetQueueLength(engine.QueueMusic)
	if depth == -1 {
		// Engine unreachable; nothing useful to do this cycle.
		log.Println("⚠️ Music queue depth unknown, skipping fill")
		return 0, false
	}
	if depth >= f.Floor {
		log.Printf("✅ Music queue healthy (%d queued, floor %d)", depth, f.Floor)
		return 0, false
	}

	daypart := CurrentDaypart(now)
	flow := BuildEnergyFlow(f.Count, daypart.Pattern)
	log.Printf("🔄 Filling music queue (%d queued, floor %d) — daypart %q, pattern %q",
		depth, f.Floor, daypart.Name, daypart.Pattern)

	// Tracks picked this cycle join the exclusion set so one fill never
	// repeats itself.
	exclude := f.selector.RecentlyPlayed(f.RecentN)

	for _, pref := range flow {
		picked := f.selector.SelectNextTracks(1, exclude, pref)
		if len(picked) == 0 {
			// Band exhausted; fall back to the whole library rather
			// than leaving the slot empty.
			picked = f.selector.SelectNextTracks(1, exclude, EnergyAny)
		}
		if len(picked) == 0 {
			log.Println("⚠️ Library exhausted, ending fill early")
			break
		}

		track := picked[0]
		exclude = append(exclude, track.ID)

		if _, err := os.Stat(track.Path); err != nil {
			log.Printf("⚠️ Skipping missing file %s: %v", track.Path, err)
			continue
		}
		if f.queue.PushTrack(engine.QueueMusic, track.Path) {
			pushed++
		}
	}

	log.Printf("✅ Fill complete: %d track(s) pushed", pushed)
	return pushed, true
}
