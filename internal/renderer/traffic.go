package renderer

import (
	"fmt"
	"sync"
	"time"

	"github.com/dshills/keypad/internal/bridge"
)

// TrafficEntry is one bridge message as seen by the renderer.
type TrafficEntry struct {
	At        time.Time
	Direction bridge.Direction
	Channel   bridge.Channel
	Seq       uint64
	Payload   string
}

// String formats the entry for the developer tools panel.
func (e TrafficEntry) String() string {
	return fmt.Sprintf("%s %s %s #%d %s", e.At.Format("15:04:05.000"), e.Direction, e.Channel, e.Seq, e.Payload)
}

// Traffic is a bounded log of bridge messages. It is safe for concurrent
// use; the bridge observes from its reading goroutine and from senders.
type Traffic struct {
	mu      sync.Mutex
	entries []TrafficEntry
	next    int
	full    bool
	now     func() time.Time
}

// NewTraffic keeps the last size messages.
func NewTraffic(size int) *Traffic {
	return &Traffic{entries: make([]TrafficEntry, max(size, 1)), now: time.Now}
}

// Observe is a bridge.Observer.
func (t *Traffic) Observe(dir bridge.Direction, msg bridge.Message) {
	entry := TrafficEntry{
		Direction: dir,
		Channel:   msg.Channel,
		Seq:       msg.Seq,
		Payload:   string(msg.Payload),
	}
	t.mu.Lock()
	entry.At = t.now()
	t.entries[t.next] = entry
	t.next = (t.next + 1) % len(t.entries)
	if t.next == 0 {
		t.full = true
	}
	t.mu.Unlock()
}

// Last returns up to n entries, oldest first.
func (t *Traffic) Last(n int) []TrafficEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := t.next
	if t.full {
		count = len(t.entries)
	}
	n = min(n, count)
	out := make([]TrafficEntry, 0, n)
	for i := count - n; i < count; i++ {
		idx := i
		if t.full {
			idx = (t.next + i) % len(t.entries)
		}
		out = append(out, t.entries[idx])
	}
	return out
}

// Len returns the number of entries held.
func (t *Traffic) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.full {
		return len(t.entries)
	}
	return t.next
}
