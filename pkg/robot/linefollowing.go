package robot

import (
	"math"

	"github.com/tigerbot-team/linefollower/pkg/engine"
	"github.com/tigerbot-team/linefollower/pkg/linesensor"
)

var waitSkipOrAbort = watch{
	button1: true,
	button2: true,
	battery: true,
	serial:  map[byte]Event{'1': Button1Pressed, '2': Button2Pressed},
}

func (c *Controller) lineFollowing() Event {
	c.announce(LineFollowing)

	c.log.Info("Waiting before starting to move", "ticks", c.params.PreRollTicks)
	for i := 0; i < c.params.PreRollTicks; i++ {
		c.hw.LED1.Toggle()
		c.hw.LED2.Toggle()
		c.hw.Clock.Sleep(c.params.PreRollInterval)
		e, ok := c.poll(waitSkipOrAbort)
		if !ok {
			continue
		}
		if e == Button1Pressed {
			break
		}
		return e
	}

	c.log.Info("Turn on line sensor LED")
	c.hw.Light.SetLED(true)
	for {
		m, err := c.hw.Light.LightMap()
		if err != nil {
			c.log.Debug("Light sensor read failed; skipping tick", "error", err)
		} else {
			pos, found := linesensor.EstimateWithThreshold(m, c.params.Threshold)
			if !found {
				c.log.Info("No line detected")
				c.turnOff()
				return NothingHappened
			}
			c.showPosition(pos)
			steer(pos, c.params.Duty, c.params.Delta).Apply(c.hw.Drive)
		}

		c.hw.Clock.Sleep(c.params.FollowTick)
		if e, ok := c.poll(waitAbort); ok {
			c.turnOff()
			return e
		}
	}
}

// showPosition lights LED2 when the line is to the left and LED1 when it's to the right.
func (c *Controller) showPosition(pos float64) {
	c.hw.LED1.Set(pos >= 0)
	c.hw.LED2.Set(pos <= 0)
}

// steer turns toward the line, harder the further off-centre it is.  A line at either edge
// gets the full delta.
func steer(pos float64, duty, delta uint16) engine.Command {
	if pos == 0 {
		return engine.Command{Kind: engine.CommandForward, Duty: duty}
	}
	amount := uint16(math.Round(float64(delta) * math.Min(math.Abs(pos), 1)))
	if pos < 0 {
		return engine.Command{Kind: engine.CommandLeft, Duty: duty, Delta: amount}
	}
	return engine.Command{Kind: engine.CommandRight, Duty: duty, Delta: amount}
}
