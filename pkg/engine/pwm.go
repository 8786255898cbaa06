package engine

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
)

// DutySetter is the slice of a PWM controller that a motor needs.
type DutySetter interface {
	SetDuty(channel int, duty uint16) error
}

// PWMMotor is an H-bridge channel: a PWM output for speed plus a pair of direction pins.
// Forward is action high/direction low, backward is the reverse.
type PWMMotor struct {
	log       hclog.Logger
	pwm       DutySetter
	channel   int
	action    gpio.PinOut
	direction gpio.PinOut
}

func NewPWMMotor(log hclog.Logger, pwm DutySetter, channel int, actionPin, directionPin string) (*PWMMotor, error) {
	action := gpioreg.ByName(actionPin)
	if action == nil {
		return nil, fmt.Errorf("unknown motor action pin %q", actionPin)
	}
	direction := gpioreg.ByName(directionPin)
	if direction == nil {
		return nil, fmt.Errorf("unknown motor direction pin %q", directionPin)
	}
	m := newPWMMotor(log, pwm, channel, action, direction)
	m.SetDirection(Forward)
	if err := pwm.SetDuty(channel, 0); err != nil {
		return nil, err
	}
	return m, nil
}

func newPWMMotor(log hclog.Logger, pwm DutySetter, channel int, action, direction gpio.PinOut) *PWMMotor {
	return &PWMMotor{
		log:       log.Named(fmt.Sprintf("motor-%d", channel)),
		pwm:       pwm,
		channel:   channel,
		action:    action,
		direction: direction,
	}
}

func (m *PWMMotor) SetDirection(d Direction) {
	actionLevel, directionLevel := gpio.High, gpio.Low
	if d == Backward {
		actionLevel, directionLevel = gpio.Low, gpio.High
	}
	if err := m.action.Out(actionLevel); err != nil {
		m.log.Warn("Failed to set action pin", "error", err)
	}
	if err := m.direction.Out(directionLevel); err != nil {
		m.log.Warn("Failed to set direction pin", "error", err)
	}
}

func (m *PWMMotor) SetDuty(duty uint16) {
	if err := m.pwm.SetDuty(m.channel, duty); err != nil {
		m.log.Warn("Failed to set duty", "duty", duty, "error", err)
	}
}
