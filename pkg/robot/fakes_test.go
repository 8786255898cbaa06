package robot

import (
	"errors"
	"sort"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/tigerbot-team/linefollower/pkg/engine"
	"github.com/tigerbot-team/linefollower/pkg/hw"
	"github.com/tigerbot-team/linefollower/pkg/linesensor"
	"github.com/tigerbot-team/linefollower/pkg/serialport"
)

type hook struct {
	at time.Time
	fn func()
}

// fakeClock advances only when slept on, firing any hooks that come due.
type fakeClock struct {
	now   time.Time
	hooks []hook
	slept time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept += d
	var remaining []hook
	var due []hook
	for _, h := range c.hooks {
		if !h.at.After(c.now) {
			due = append(due, h)
		} else {
			remaining = append(remaining, h)
		}
	}
	c.hooks = remaining
	sort.Slice(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, h := range due {
		h.fn()
	}
}

// After schedules fn to run once d has been slept from now.
func (c *fakeClock) After(d time.Duration, fn func()) {
	c.hooks = append(c.hooks, hook{at: c.now.Add(d), fn: fn})
}

type fakeButton struct {
	pressed bool
}

func (b *fakeButton) IsPressed() bool {
	return b.pressed
}

type fakeBattery struct {
	low        bool
	millivolts int
	polls      int
	// recoverAfter, if non-zero, clears low after that many polls.
	recoverAfter int
}

func (b *fakeBattery) IsBatteryLow() bool {
	b.polls++
	if b.recoverAfter > 0 && b.polls >= b.recoverAfter {
		b.low = false
	}
	return b.low
}

func (b *fakeBattery) BatteryMillivolts() int {
	return b.millivolts
}

type fakeLight struct {
	maps  []linesensor.LightMap
	errs  []error
	reads int
	led   bool
	ledOn int
}

func (l *fakeLight) LightMap() (linesensor.LightMap, error) {
	i := l.reads
	l.reads++
	if i < len(l.errs) && l.errs[i] != nil {
		return linesensor.LightMap{}, l.errs[i]
	}
	if len(l.maps) == 0 {
		return linesensor.LightMap{}, nil
	}
	if i >= len(l.maps) {
		i = len(l.maps) - 1
	}
	return l.maps[i], nil
}

func (l *fakeLight) SetLED(on bool) {
	if on {
		l.ledOn++
	}
	l.led = on
}

type recordingDrive struct {
	commands []engine.Command
}

func (d *recordingDrive) Forward(duty uint16) {
	d.commands = append(d.commands, engine.Command{Kind: engine.CommandForward, Duty: duty})
}

func (d *recordingDrive) Left(duty, delta uint16) {
	d.commands = append(d.commands, engine.Command{Kind: engine.CommandLeft, Duty: duty, Delta: delta})
}

func (d *recordingDrive) Right(duty, delta uint16) {
	d.commands = append(d.commands, engine.Command{Kind: engine.CommandRight, Duty: duty, Delta: delta})
}

func (d *recordingDrive) Stop() {
	d.commands = append(d.commands, engine.Command{Kind: engine.CommandStop})
}

func (d *recordingDrive) last() engine.Command {
	if len(d.commands) == 0 {
		return engine.Command{Kind: -1}
	}
	return d.commands[len(d.commands)-1]
}

type fakeLED struct {
	on      bool
	toggles int
}

func (l *fakeLED) Set(on bool) {
	l.on = on
}

func (l *fakeLED) Toggle() {
	l.on = !l.on
	l.toggles++
}

type fakeBuzzer struct {
	on    bool
	tones []float64
	hz    float64
	ons   int

	// Frequency at each TurnOn.
	onHz []float64
}

func (b *fakeBuzzer) TurnOn() {
	b.on = true
	b.ons++
	b.onHz = append(b.onHz, b.hz)
}

func (b *fakeBuzzer) TurnOff() {
	b.on = false
}

func (b *fakeBuzzer) SetFrequency(hz float64) {
	b.hz = hz
	b.tones = append(b.tones, hz)
}

type fakeDisplay struct {
	titles []string
}

func (d *fakeDisplay) Show(title string, lines []string) {
	d.titles = append(d.titles, title)
}

type fakeEncoder struct {
	delta int
	reads int
}

func (e *fakeEncoder) Delta() int {
	e.reads++
	return e.delta
}

var errLightBus = errors.New("spi: transfer failed")

type rig struct {
	clock   *fakeClock
	button1 *fakeButton
	button2 *fakeButton
	battery *fakeBattery
	serial  *serialport.Queue
	light   *fakeLight
	drive   *recordingDrive
	led1    *fakeLED
	led2    *fakeLED
	buzzer  *fakeBuzzer
	display *fakeDisplay
	left    *fakeEncoder
	right   *fakeEncoder
	hw      *hw.Hardware
	params  Params
}

func newRig() *rig {
	r := &rig{
		clock:   newFakeClock(),
		button1: &fakeButton{},
		button2: &fakeButton{},
		battery: &fakeBattery{millivolts: 5200},
		serial:  serialport.NewQueue(16),
		light:   &fakeLight{},
		drive:   &recordingDrive{},
		led1:    &fakeLED{},
		led2:    &fakeLED{},
		buzzer:  &fakeBuzzer{},
		display: &fakeDisplay{},
		left:    &fakeEncoder{delta: 12},
		right:   &fakeEncoder{delta: -3},
		params:  DefaultParams(),
	}
	r.hw = &hw.Hardware{
		Battery:      r.battery,
		Button1:      r.button1,
		Button2:      r.button2,
		Serial:       r.serial,
		Light:        r.light,
		Drive:        r.drive,
		LED1:         r.led1,
		LED2:         r.led2,
		Buzzer:       r.buzzer,
		Display:      r.display,
		LeftEncoder:  r.left,
		RightEncoder: r.right,
		Clock:        r.clock,
		Log:          hclog.NewNullLogger(),
	}
	return r
}

func (r *rig) controller() *Controller {
	return New(r.hw, r.params)
}

func only(idx int, value uint16) linesensor.LightMap {
	var m linesensor.LightMap
	m[idx] = value
	return m
}
