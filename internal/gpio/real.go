//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealKeys reads push buttons from actual hardware using the Linux GPIO
// character device.
type RealKeys struct {
	chip  *gpiocdev.Chip
	lines [NumKeys]*gpiocdev.Line
}

// NewRealKeys requests the three key lines as pulled-up inputs.
// The buttons ground the line when pressed, so raw 0 = pressed.
func NewRealKeys(pins [NumKeys]int) (*RealKeys, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	k := &RealKeys{chip: chip}
	for i, pin := range pins {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			k.Close()
			return nil, fmt.Errorf("request key %d pin %d: %w", i, pin, err)
		}
		k.lines[i] = line
	}
	return k, nil
}

// Read returns the logical state of all keys in one scan.
// Inverts raw GPIO: raw 0 (grounded) = pressed, raw 1 (pulled up) = released.
func (k *RealKeys) Read() ([NumKeys]bool, error) {
	var pressed [NumKeys]bool
	for i := range k.lines {
		p, err := k.ReadKey(i)
		if err != nil {
			return pressed, err
		}
		pressed[i] = p
	}
	return pressed, nil
}

// ReadKey re-reads a single key line.
func (k *RealKeys) ReadKey(i int) (bool, error) {
	raw, err := k.lines[i].Value()
	if err != nil {
		return false, fmt.Errorf("read key %d: %w", i, err)
	}
	return raw == 0, nil
}

// Close releases the key lines and the chip.
func (k *RealKeys) Close() error {
	var errs []error
	for i, line := range k.lines {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close key %d: %w", i, err))
		}
	}
	if k.chip != nil {
		if err := k.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealPanel drives LEDs through the Linux GPIO character device.
type RealPanel struct {
	chip  *gpiocdev.Chip
	lines [NumLEDs]*gpiocdev.Line
}

// NewRealPanel requests the four LED lines as outputs, initially low.
func NewRealPanel(pins [NumLEDs]int) (*RealPanel, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	p := &RealPanel{chip: chip}
	for i, pin := range pins {
		line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("request led %d pin %d: %w", i, pin, err)
		}
		p.lines[i] = line
	}
	return p, nil
}

// Set drives LED i high or low.
func (p *RealPanel) Set(i int, on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := p.lines[i].SetValue(v); err != nil {
		return fmt.Errorf("write led %d: %w", i, err)
	}
	return nil
}

// Close turns all LEDs off, then releases the lines and the chip.
// Reconfiguring to input before closing leaves the pins floating low,
// matching Pi boot defaults so a restart never inherits a lit panel.
func (p *RealPanel) Close() error {
	var errs []error
	for i, line := range p.lines {
		if line == nil {
			continue
		}
		if err := line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear led %d: %w", i, err))
		}
		if err := line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure led %d: %w", i, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close led %d: %w", i, err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
