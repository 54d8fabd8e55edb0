//go:build !linux

package gpio

import "errors"

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealKeys is not available on non-Linux platforms.
type RealKeys struct{}

// NewRealKeys returns an error on non-Linux platforms.
func NewRealKeys(pins [NumKeys]int) (*RealKeys, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (k *RealKeys) Read() ([NumKeys]bool, error) {
	return [NumKeys]bool{}, errUnsupported
}

// ReadKey is not implemented on non-Linux platforms.
func (k *RealKeys) ReadKey(i int) (bool, error) {
	return false, errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (k *RealKeys) Close() error {
	return nil
}

// RealPanel is not available on non-Linux platforms.
type RealPanel struct{}

// NewRealPanel returns an error on non-Linux platforms.
func NewRealPanel(pins [NumLEDs]int) (*RealPanel, error) {
	return nil, errUnsupported
}

// Set is not implemented on non-Linux platforms.
func (p *RealPanel) Set(i int, on bool) error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (p *RealPanel) Close() error {
	return nil
}
