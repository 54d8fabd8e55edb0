// Package mode defines the display modes and the shared mode register.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
package mode

import (
	"sync/atomic"
	"time"
)

// Mode selects the display pattern for the LED panel.
type Mode uint32

const (
	// Off turns all LEDs off.
	Off Mode = iota
	// Flow lights one LED at a time, rotating through the panel.
	Flow
	// Binary displays a 4-bit binary count on the panel.
	Binary
)

// String returns the canonical uppercase name used in logs, events and status.
func (m Mode) String() string {
	switch m {
	case Flow:
		return "FLOW"
	case Binary:
		return "BINARY"
	default:
		return "OFF"
	}
}

// Register is the single shared cell holding the active mode.
// It is written by the input scanner and read by the display renderer.
// A single atomic word is all the synchronization required: there is one
// writer, and readers tolerate seeing a value up to one poll interval stale.
// The zero value is a usable Register holding Off.
type Register struct {
	v atomic.Uint32
}

// Set unconditionally overwrites the active mode.
func (r *Register) Set(m Mode) {
	r.v.Store(uint32(m))
}

// Get returns the most recently set mode, or Off if never set.
func (r *Register) Get() Mode {
	return Mode(r.v.Load())
}

// Event represents a validated key press to be published.
type Event struct {
	Timestamp time.Time
	Mode      Mode // the mode the press selected
	Key       int  // key index 0..2
}

// Counts tracks the number of validated presses per selected mode since startup.
type Counts struct {
	Flow   int
	Binary int
	Off    int
}

// Add increments the counter for the given mode.
func (c *Counts) Add(m Mode) {
	switch m {
	case Flow:
		c.Flow++
	case Binary:
		c.Binary++
	case Off:
		c.Off++
	}
}
