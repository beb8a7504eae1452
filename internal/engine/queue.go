package engine

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Engine-side queue names. The engine owns these; we only observe depth
// and append.
const (
	QueueMusic    = "music"
	QueueBreaks   = "breaks"
	QueueOverride = "override"
)

// Gateway translates queue intent into protocol commands and protocol
// responses into queue results. Transport errors never escape as raw
// exceptions: length queries degrade to a sentinel, pushes to false.
type Gateway struct {
	client  *Client
	timeout time.Duration
}

func NewGateway(client *Client, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{client: client, timeout: timeout}
}

// queueLength is the internal tagged-result form; GetQueueLength flattens
// it to the -1 sentinel at the boundary so nothing else in the system can
// mistake -1 for a real depth.
func (g *Gateway) queueLength(queue string) (int, error) {
	body, err := g.client.SendCommand(queue+".queue", g.timeout)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, tok := range strings.Fields(body) {
		// Some response shapes have been seen leaking the terminator
		// into the token list; don't count it as a queued request.
		if tok == "END" {
			continue
		}
		count++
	}
	return count, nil
}

// GetQueueLength returns the number of requests in the named queue, or -1
// when the engine could not be queried. A failed poll is not fatal to a
// periodic job; callers compare against thresholds and treat -1 as
// "do nothing this cycle".
func (g *Gateway) GetQueueLength(queue string) int {
	n, err := g.queueLength(queue)
	if err != nil {
		log.Printf("⚠️ Queue length query failed for %s: %v", queue, err)
		return -1
	}
	return n
}

// PushTrack appends an absolute file path to the named queue. The protocol
// has no structured status field, so success is "the response does not
// contain the substring error". Transport failures also report false; the
// caller's recovery is to try again next cycle.
func (g *Gateway) PushTrack(queue, path string) bool {
	body, err := g.client.SendCommand(fmt.Sprintf("%s.push %s", queue, path), g.timeout)
	if err != nil {
		log.Printf("❌ Push to %s failed: %v", queue, err)
		return false
	}
	if strings.Contains(strings.ToLower(body), "error") {
		log.Printf("❌ Engine rejected push to %s: %s", queue, body)
		return false
	}
	return true
}

// SkipCurrent skips the item currently playing from the named queue.
// The protocol gives no reliable signal for skip outcomes, so this is
// optimistic: only a transport failure reports false.
func (g *Gateway) SkipCurrent(queue string) bool {
	if _, err := g.client.SendCommand(queue+".skip", g.timeout); err != nil {
		log.Printf("⚠️ Skip on %s failed: %v", queue, err)
		return false
	}
	return true
}
