package robot

import (
	"time"

	"github.com/tigerbot-team/linefollower/pkg/hw"
)

func (c *Controller) hardwareCheck() Event {
	c.announce(HardwareCheck)

	c.log.Info("Checking hardware 1")
	c.blink(c.hw.LED1)
	c.log.Info("Checking hardware 2")
	c.blink(c.hw.LED2)

	if c.hw.LeftEncoder != nil && c.hw.RightEncoder != nil {
		c.log.Info("Encoders", "left", c.hw.LeftEncoder.Delta(), "right", c.hw.RightEncoder.Delta())
	}
	c.log.Info("Battery", "millivolts", c.hw.Battery.BatteryMillivolts())

	c.log.Info("Hardware check done")
	c.beepTwice()

	if c.hw.Battery.IsBatteryLow() {
		c.log.Warn("Battery is low")
		return BatteryIsLow
	}
	return NothingHappened
}

func (c *Controller) blink(led hw.Indicator) {
	for i := 0; i < c.params.CheckToggles; i++ {
		led.Toggle()
		c.hw.Clock.Sleep(c.params.CheckToggleInterval)
	}
}

func (c *Controller) beep() {
	c.tone(c.params.BeepHz, c.params.BeepDuration)
}

func (c *Controller) beepTwice() {
	c.beep()
	c.hw.Clock.Sleep(c.params.BeepGap)
	c.beep()
}

func (c *Controller) tone(hz float64, d time.Duration) {
	c.hw.Buzzer.SetFrequency(hz)
	c.hw.Buzzer.TurnOn()
	c.hw.Clock.Sleep(d)
	c.hw.Buzzer.TurnOff()
}
