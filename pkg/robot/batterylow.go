package robot

func (c *Controller) batteryLow() Event {
	c.announce(BatteryLow, "Battery is low, please change the battery")
	c.hw.Drive.Stop()
	for {
		c.hw.LED1.Toggle()
		c.hw.LED2.Toggle()
		c.log.Warn("Battery is low, please change the battery",
			"millivolts", c.hw.Battery.BatteryMillivolts())
		c.alert()
		c.hw.Clock.Sleep(c.params.AlertPause)
		if !c.hw.Battery.IsBatteryLow() {
			c.log.Info("Battery is no longer low")
			return NothingHappened
		}
	}
}

func (c *Controller) alert() {
	c.hw.Buzzer.SetFrequency(c.params.AlertLowHz)
	c.hw.Buzzer.TurnOn()
	c.hw.Clock.Sleep(c.params.AlertNoteDuration)
	c.hw.Buzzer.SetFrequency(c.params.AlertHighHz)
	c.hw.Clock.Sleep(c.params.AlertNoteDuration)
	c.hw.Buzzer.TurnOff()
}
