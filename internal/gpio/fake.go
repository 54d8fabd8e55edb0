package gpio

import "errors"

// KeySample is one scripted scan of the keypad (already in logical form,
// true = pressed).
type KeySample struct {
	// Scan is returned by Read().
	Scan [NumKeys]bool

	// Hold is returned by ReadKey() until the next Read(). This lets a
	// test script a key that bounces back up during the debounce hold.
	Hold [NumKeys]bool
}

// Steady returns a sample whose hold re-reads match the scan, i.e. a key
// that stays down (or up) through the debounce hold.
func Steady(scan [NumKeys]bool) KeySample {
	return KeySample{Scan: scan, Hold: scan}
}

// FakeKeys is a test double that returns scripted key states.
type FakeKeys struct {
	// Samples contains scripted scans. Each call to Read() consumes the
	// next sample; when exhausted, the last sample repeats.
	Samples []KeySample

	// index tracks the next sample to return
	index int

	// scanned tracks the sample most recently returned by Read()
	scanned int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read() and ReadKey()
	ReadError error
}

// NewFakeKeys creates a FakeKeys with the given samples.
func NewFakeKeys(samples []KeySample) *FakeKeys {
	return &FakeKeys{Samples: samples}
}

// Read returns the next scripted scan.
func (f *FakeKeys) Read() ([NumKeys]bool, error) {
	if f.ReadError != nil {
		return [NumKeys]bool{}, f.ReadError
	}
	if len(f.Samples) == 0 {
		return [NumKeys]bool{}, errors.New("no samples configured")
	}

	f.scanned = f.index
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return f.Samples[f.scanned].Scan, nil
}

// ReadKey returns the hold value of key k from the most recent scan.
func (f *FakeKeys) ReadKey(k int) (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}
	return f.Samples[f.scanned].Hold[k], nil
}

// Close marks the reader as closed.
func (f *FakeKeys) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeKeys) Reset() {
	f.index = 0
	f.scanned = 0
	f.Closed = false
}

// SetCall records a single Set invocation on a FakePanel.
type SetCall struct {
	LED int
	On  bool
}

// FakePanel records LED writes for test assertions.
type FakePanel struct {
	// Frame is the current state of the four LEDs.
	Frame [NumLEDs]bool

	// Sets contains every Set call in order.
	Sets []SetCall

	// Closed tracks if Close was called.
	Closed bool

	// SetError, if set, will be returned by Set.
	SetError error
}

// NewFakePanel creates a FakePanel with all LEDs off.
func NewFakePanel() *FakePanel {
	return &FakePanel{}
}

// Set records the write and updates the current frame.
func (f *FakePanel) Set(i int, on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Frame[i] = on
	f.Sets = append(f.Sets, SetCall{LED: i, On: on})
	return nil
}

// Close marks the panel as closed.
func (f *FakePanel) Close() error {
	f.Closed = true
	return nil
}

// Lit returns the indices of the LEDs currently on.
func (f *FakePanel) Lit() []int {
	var lit []int
	for i, on := range f.Frame {
		if on {
			lit = append(lit, i)
		}
	}
	return lit
}
