// Package scan implements the key-polling loop: falling-edge detection with
// a software debounce hold, dispatching validated presses to the mode register.
package scan

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/led-keypad/internal/gpio"
	"github.com/sweeney/led-keypad/internal/mode"
)

// Sink receives validated press events. Publish failures must not stop the
// scanner; errors are logged and dropped.
type Sink interface {
	Publish(event mode.Event) error
}

// keyModes maps key index to the mode it selects.
var keyModes = [gpio.NumKeys]mode.Mode{mode.Flow, mode.Binary, mode.Off}

// ModeForKey returns the mode selected by key k.
func ModeForKey(k int) mode.Mode {
	return keyModes[k]
}

// Scanner polls the keypad and writes validated mode selections to the
// shared register. Keys idle released; a released-to-pressed edge that is
// still pressed after the debounce hold is a validated press. Each key is
// evaluated independently in index order, so if several keys validate in
// the same cycle the highest-index key's mode wins.
type Scanner struct {
	keys gpio.Keys
	reg  *mode.Register
	sink Sink

	poll time.Duration
	hold time.Duration

	// Sleep and Now are injectable for tests. They default to time.Sleep
	// and time.Now.
	Sleep func(time.Duration)
	Now   func() time.Time

	// last holds the previous pre-debounce reading per key, for edge
	// detection. A key held down produces exactly one press: after the
	// first edge its last reading is pressed, so no new edge occurs
	// until release and re-press.
	last [gpio.NumKeys]bool
}

// New creates a Scanner. poll is the inter-cycle interval, hold the
// debounce re-check delay. sink may be nil to disable event publishing.
func New(keys gpio.Keys, reg *mode.Register, sink Sink, poll, hold time.Duration) *Scanner {
	return &Scanner{
		keys:  keys,
		reg:   reg,
		sink:  sink,
		poll:  poll,
		hold:  hold,
		Sleep: time.Sleep,
		Now:   time.Now,
	}
}

// Run polls until ctx is cancelled. It never returns an error: a failed
// read only skips that cycle.
func (s *Scanner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		s.Scan()
		s.Sleep(s.poll)
	}
}

// Scan runs a single polling cycle. Exported so tests and the integration
// harness can drive the loop deterministically.
func (s *Scanner) Scan() {
	cur, err := s.keys.Read()
	if err != nil {
		// Leave edge memory untouched; worst case is one skipped cycle.
		log.Printf("key read error: %v", err)
		return
	}

	for k := 0; k < gpio.NumKeys; k++ {
		if !s.last[k] && cur[k] {
			s.debounce(k)
		}
		// Remember the pre-debounce reading regardless of validation
		// outcome.
		s.last[k] = cur[k]
	}
}

// debounce holds for the configured interval and re-reads key k. If the key
// is still pressed the press is validated and dispatched; otherwise it is
// discarded as switch bounce.
func (s *Scanner) debounce(k int) {
	s.Sleep(s.hold)

	held, err := s.keys.ReadKey(k)
	if err != nil {
		log.Printf("key %d re-read error: %v", k, err)
		return
	}
	if !held {
		return
	}

	m := keyModes[k]
	s.reg.Set(m)
	log.Printf("Mode: %s", traceName(m))

	if s.sink != nil {
		event := mode.Event{Timestamp: s.Now(), Mode: m, Key: k}
		if err := s.sink.Publish(event); err != nil {
			log.Printf("publish error: %v", err)
		}
	}
}

// traceName is the human form used in the trace log, distinct from the
// uppercase wire form.
func traceName(m mode.Mode) string {
	switch m {
	case mode.Flow:
		return "Flow"
	case mode.Binary:
		return "Binary"
	default:
		return "Off"
	}
}
