package sim

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/tigerbot-team/linefollower/pkg/battery"
	"github.com/tigerbot-team/linefollower/pkg/encoder"
	"github.com/tigerbot-team/linefollower/pkg/engine"
	"github.com/tigerbot-team/linefollower/pkg/hw"
)

// Clock moves the world forward on every Sleep.  With RealTime set it also waits, so the
// simulation runs at wall clock speed.
type Clock struct {
	World    *World
	RealTime bool
}

func (c *Clock) Now() time.Time {
	return c.World.Now()
}

func (c *Clock) Sleep(d time.Duration) {
	c.World.Advance(d)
	if c.RealTime {
		time.Sleep(d)
	}
}

type Button struct {
	pressed int32
}

func (b *Button) Press() {
	atomic.StoreInt32(&b.pressed, 1)
}

func (b *Button) Release() {
	atomic.StoreInt32(&b.pressed, 0)
}

func (b *Button) IsPressed() bool {
	return atomic.LoadInt32(&b.pressed) == 1
}

type LED struct {
	log hclog.Logger
	on  bool
}

func (l *LED) Set(on bool) {
	if on != l.on {
		l.log.Trace("LED", "on", on)
	}
	l.on = on
}

func (l *LED) Toggle() {
	l.Set(!l.on)
}

func (l *LED) IsOn() bool {
	return l.on
}

type Buzzer struct {
	log hclog.Logger
	hz  float64
}

func (b *Buzzer) TurnOn() {
	b.log.Debug("Buzzer on")
}

func (b *Buzzer) TurnOff() {
	b.log.Debug("Buzzer off")
}

func (b *Buzzer) SetFrequency(hz float64) {
	b.hz = hz
	b.log.Debug("Buzzer tone", "hz", hz)
}

// Robot is a simulated robot with the same capability set as the real one.
type Robot struct {
	World   *World
	Clock   *Clock
	Button1 *Button
	Button2 *Button
	LED1    *LED
	LED2    *LED
	Engine  *engine.Engine
	Battery *battery.Monitor
}

// NewRobot builds a robot in w.  Serial input comes from serial; a nil source never has input.
func NewRobot(log hclog.Logger, w *World, serial hw.SerialSource, realTime bool) (*Robot, *hw.Hardware) {
	root := log
	log = log.Named("sim")
	if serial == nil {
		serial = noInput{}
	}
	r := &Robot{
		World:   w,
		Clock:   &Clock{World: w, RealTime: realTime},
		Button1: &Button{},
		Button2: &Button{},
		LED1:    &LED{log: log.Named("led1")},
		LED2:    &LED{log: log.Named("led2")},
		Engine:  engine.New(w.LeftMotor(), w.RightMotor()),
		Battery: battery.NewMonitor(log.Named("battery"), w),
	}
	r.Battery.LowMillivolts = w.Params().BatteryLowMillivolts
	bits := w.Params().EncoderBits
	h := &hw.Hardware{
		Battery:      r.Battery,
		Button1:      r.Button1,
		Button2:      r.Button2,
		Serial:       serial,
		Light:        w,
		Drive:        r.Engine,
		LED1:         r.LED1,
		LED2:         r.LED2,
		Buzzer:       &Buzzer{log: log.Named("buzzer")},
		LeftEncoder:  encoder.NewTracker(w.LeftCounter(), bits),
		RightEncoder: encoder.NewTracker(w.RightCounter(), bits),
		Clock:        r.Clock,
		Log:          root,
	}
	return r, h
}

type noInput struct{}

func (noInput) TryReadByte() (byte, bool) {
	return 0, false
}
