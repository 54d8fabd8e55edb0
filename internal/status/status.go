// Package status provides a thread-safe status tracker for the led-keypad daemon.
// It is read by HTTP handlers and feeds the MQTT status snapshots.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/led-keypad/internal/gpio"
	"github.com/sweeney/led-keypad/internal/mode"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	HoldMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPPort    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Mode          mode.Mode
	LEDs          [gpio.NumLEDs]bool
	Counts        mode.Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// RecordPress registers a validated key press: it bumps the per-mode
// counter and records the newly selected mode.
func (t *Tracker) RecordPress(m mode.Mode) {
	t.mu.Lock()
	t.snap.Mode = m
	t.snap.Counts.Add(m)
	t.mu.Unlock()
}

// ObserveFrame records the mode and LED frame drawn by the renderer.
// Satisfies the renderer's frame observer.
func (t *Tracker) ObserveFrame(m mode.Mode, frame [gpio.NumLEDs]bool) {
	t.mu.Lock()
	t.snap.Mode = m
	t.snap.LEDs = frame
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
