// Package render implements the display loop: each iteration reads the
// shared mode register and draws one step of the selected pattern on the
// LED panel.
package render

import (
	"context"
	"log"
	"time"

	"github.com/sweeney/led-keypad/internal/gpio"
	"github.com/sweeney/led-keypad/internal/mode"
)

// Step delays per mode.
const (
	OffDelay    = 50 * time.Millisecond
	FlowDelay   = 150 * time.Millisecond
	BinaryDelay = 200 * time.Millisecond
)

// FrameObserver is notified with the drawn frame after every step. Used to
// feed the status tracker; may be nil.
type FrameObserver interface {
	ObserveFrame(m mode.Mode, frame [gpio.NumLEDs]bool)
}

// Renderer draws the LED panel. The mode register is re-read on every
// iteration, so a mode switch takes effect on the next step. Pattern
// progress (flow cursor, binary counter) deliberately carries across mode
// switches rather than resetting.
type Renderer struct {
	panel    gpio.Panel
	reg      *mode.Register
	observer FrameObserver

	// Sleep is injectable for tests; defaults to time.Sleep.
	Sleep func(time.Duration)

	cursor  int   // flow mode: index of the next LED to light
	counter uint8 // binary mode: value to display (low 4 bits shown)
}

// New creates a Renderer. observer may be nil.
func New(panel gpio.Panel, reg *mode.Register, observer FrameObserver) *Renderer {
	return &Renderer{
		panel:    panel,
		reg:      reg,
		observer: observer,
		Sleep:    time.Sleep,
	}
}

// Run renders until ctx is cancelled, sleeping the mode-specific delay
// between steps. Pin writes are treated as infallible; failures are logged
// and the loop continues.
func (r *Renderer) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		r.Sleep(r.Step())
	}
}

// Step draws one iteration of the current mode's pattern and returns the
// delay to sleep before the next step. Exported so tests and the
// integration harness can drive the loop deterministically.
func (r *Renderer) Step() time.Duration {
	m := r.reg.Get()

	var frame [gpio.NumLEDs]bool
	var delay time.Duration

	switch m {
	case mode.Flow:
		frame[r.cursor] = true
		r.cursor = (r.cursor + 1) % gpio.NumLEDs
		delay = FlowDelay
	case mode.Binary:
		for i := 0; i < gpio.NumLEDs; i++ {
			frame[i] = r.counter&(1<<uint(i)) != 0
		}
		r.counter++ // wraps at 256
		delay = BinaryDelay
	default:
		// all off
		delay = OffDelay
	}

	r.draw(frame)

	if r.observer != nil {
		r.observer.ObserveFrame(m, frame)
	}
	return delay
}

// draw writes every line explicitly each step so no stale bit persists
// across mode switches.
func (r *Renderer) draw(frame [gpio.NumLEDs]bool) {
	for i, on := range frame {
		if err := r.panel.Set(i, on); err != nil {
			log.Printf("led %d write error: %v", i, err)
		}
	}
}
