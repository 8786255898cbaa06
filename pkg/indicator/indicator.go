package indicator

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
)

// LED is a status LED on a GPIO output.  It remembers what it last drove so that Toggle
// doesn't depend on reading back an output pin.
type LED struct {
	log hclog.Logger
	pin gpio.PinOut

	lock sync.Mutex
	on   bool
}

func New(log hclog.Logger, pinName string) (*LED, error) {
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("unknown LED pin %q", pinName)
	}
	l := NewOnPin(log, pin)
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("failed to configure LED pin %s: %w", pinName, err)
	}
	return l, nil
}

func NewOnPin(log hclog.Logger, pin gpio.PinOut) *LED {
	return &LED{
		log: log.Named(pin.Name()),
		pin: pin,
	}
}

func (l *LED) Set(on bool) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.set(on)
}

func (l *LED) Toggle() {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.set(!l.on)
}

func (l *LED) IsOn() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.on
}

func (l *LED) set(on bool) {
	l.on = on
	if err := l.pin.Out(gpio.Level(on)); err != nil {
		l.log.Warn("Failed to drive LED", "on", on, "error", err)
	}
}

// Dummy is an LED that only logs.
type Dummy struct {
	Name string
	On   bool
}

func (d *Dummy) Set(on bool) {
	if on != d.On {
		fmt.Printf("LED %s: %v\n", d.Name, on)
	}
	d.On = on
}

func (d *Dummy) Toggle() {
	d.Set(!d.On)
}
