// Package gpio provides GPIO access with hardware abstraction.
// The real implementations use the Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

// NumLEDs is the number of output lines on the panel.
const NumLEDs = 4

// NumKeys is the number of push-button input lines.
const NumKeys = 3

// Keys reads the three push-button input lines.
type Keys interface {
	// Read returns the logical state of all keys in one scan.
	// The raw GPIO values are inverted: the buttons idle high (pull-up)
	// and ground the line when pressed, so raw 0 = logical pressed.
	Read() ([NumKeys]bool, error)

	// ReadKey re-reads a single key. Used for the debounce hold re-check.
	ReadKey(k int) (bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Panel drives the four LED output lines.
type Panel interface {
	// Set drives LED i (0..3) high (on) or low (off).
	Set(i int, on bool) error

	// Close releases GPIO resources.
	Close() error
}

// Default pin assignments (BCM numbering).
var (
	DefaultLEDPins = [NumLEDs]int{17, 27, 22, 23}
	DefaultKeyPins = [NumKeys]int{5, 6, 13}
)
