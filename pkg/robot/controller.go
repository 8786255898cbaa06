package robot

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/tigerbot-team/linefollower/pkg/hw"
)

// Controller runs the state machine against a capability set.  Only one goroutine may call
// Run or Loop; State may be called from anywhere.
type Controller struct {
	hw     *hw.Hardware
	params Params
	log    hclog.Logger

	lock  sync.Mutex
	state State
	// OnTransition, if set, is called after every state change.
	OnTransition func(from State, event Event, to State)
}

func New(h *hw.Hardware, params Params) *Controller {
	log := h.Log
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if h.Clock == nil {
		h.Clock = hw.WallClock{}
	}
	return &Controller{
		hw:     h,
		params: params,
		log:    log.Named("robot"),
		state:  Idle,
	}
}

func (c *Controller) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.state = s
}

// Run executes state s until it produces an event.
func (c *Controller) Run(s State) Event {
	switch s {
	case Idle:
		return c.idle()
	case HardwareCheck:
		return c.hardwareCheck()
	case Calibration:
		return c.calibration()
	case LineFollowing:
		return c.lineFollowing()
	case BatteryLow:
		return c.batteryLow()
	}
	c.log.Warn("Unknown state", "state", s)
	return NothingHappened
}

// Step runs the current state once and moves to the next one.
func (c *Controller) Step() (Event, State) {
	from := c.State()
	event := c.Run(from)
	to, ok := Next(from, event)
	if ok {
		c.log.Info("Transition", "from", from, "event", event, "to", to)
	} else {
		c.log.Warn("No transition for event, defaulting to Idle", "from", from, "event", event)
	}
	c.setState(to)
	if c.OnTransition != nil {
		c.OnTransition(from, event, to)
	}
	return event, to
}

// Loop steps the state machine until ctx is done.  The context is only checked between
// states; once stopped, the drive, LEDs and array illumination are switched off.
func (c *Controller) Loop(ctx context.Context) {
	defer c.shutdown()
	for ctx.Err() == nil {
		c.Step()
	}
}

func (c *Controller) shutdown() {
	c.log.Info("Controller stopping")
	c.turnOff()
	c.hw.Buzzer.TurnOff()
}

// turnOff stops the robot: drive stopped, LEDs off, array illumination off.
func (c *Controller) turnOff() {
	c.hw.Drive.Stop()
	c.hw.LED1.Set(false)
	c.hw.LED2.Set(false)
	c.hw.Light.SetLED(false)
}

func (c *Controller) announce(s State, lines ...string) {
	c.log.Info("Entered state", "state", s)
	for _, l := range lines {
		c.log.Info(l)
	}
	if c.hw.Display != nil {
		c.hw.Display.Show(s.String(), lines)
	}
}

func (c *Controller) sleep() {
	c.hw.Clock.Sleep(c.params.PollInterval)
}
