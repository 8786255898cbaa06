package button

import (
	"fmt"
	"sync"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
)

// Button is a push button on a GPIO pin.  A pulled-up button connects the pin to ground
// when pressed, so it reads low while held.
type Button struct {
	pin      gpio.PinIn
	pulledUp bool

	lock      sync.Mutex
	lastLevel gpio.Level
}

func New(pinName string, pulledUp bool) (*Button, error) {
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("unknown button pin %q", pinName)
	}
	pull := gpio.PullDown
	if pulledUp {
		pull = gpio.PullUp
	}
	if err := pin.In(pull, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to configure button pin %s: %w", pinName, err)
	}
	return NewOnPin(pin, pulledUp), nil
}

func NewOnPin(pin gpio.PinIn, pulledUp bool) *Button {
	return &Button{
		pin:       pin,
		pulledUp:  pulledUp,
		lastLevel: pin.Read(),
	}
}

func (b *Button) IsPressed() bool {
	return b.pressedAt(b.pin.Read())
}

// IsChanged reports whether the level has changed since the previous call (or since
// construction).
func (b *Button) IsChanged() bool {
	level := b.pin.Read()

	b.lock.Lock()
	defer b.lock.Unlock()
	changed := level != b.lastLevel
	b.lastLevel = level
	return changed
}

func (b *Button) pressedAt(l gpio.Level) bool {
	if b.pulledUp {
		return l == gpio.Low
	}
	return l == gpio.High
}

// Any is pressed if any of its buttons is.  Used to merge the on-board buttons with
// the remote (joystick) ones.
type Any []interface{ IsPressed() bool }

func (a Any) IsPressed() bool {
	for _, b := range a {
		if b != nil && b.IsPressed() {
			return true
		}
	}
	return false
}
