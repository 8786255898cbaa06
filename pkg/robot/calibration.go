package robot

import (
	"github.com/tigerbot-team/linefollower/pkg/linesensor"
)

func (c *Controller) calibration() Event {
	c.announce(Calibration, "Press button 1 to start calibration")

	// Give the button that got us here time to be released.
	if e, ok := c.waitUpTo(c.params.CalibrationSettle, waitBattery); ok {
		return e
	}

	if e := c.waitFor(waitStartOrAbort); e != Button1Pressed {
		if e == Button2Pressed {
			c.log.Info("Exit calibration")
		}
		return e
	}

	c.log.Info("Calibration started")
	if e, ok := c.calibrationWindow(); ok {
		return e
	}
	c.log.Info("Calibration done")
	c.beepTwice()

	c.log.Info("Press button 1 to start line following")
	c.log.Info("Press button 2 to go back to idle")
	e := c.waitFor(waitStartOrAbort)
	if e == Button2Pressed {
		c.log.Info("Exit calibration")
	}
	return e
}

// calibrationWindow samples the light array for the calibration period and logs what it saw.
// The results aren't kept.
func (c *Controller) calibrationWindow() (Event, bool) {
	c.hw.Light.SetLED(true)
	defer c.hw.Light.SetLED(false)

	var samples []linesensor.LightMap
	deadline := c.hw.Clock.Now().Add(c.params.CalibrationWindow)
	for c.hw.Clock.Now().Before(deadline) {
		if c.hw.Battery.IsBatteryLow() {
			return BatteryIsLow, true
		}
		m, err := c.hw.Light.LightMap()
		if err != nil {
			c.log.Debug("Light sensor read failed", "error", err)
		} else {
			samples = append(samples, m)
		}
		c.sleep()
	}

	cal, err := linesensor.ProcessCalibration(samples)
	if err != nil {
		c.log.Warn("No calibration data", "error", err)
		return NothingHappened, false
	}
	for i := 0; i < linesensor.NumSensors; i++ {
		c.log.Info("Sensor calibration", "sensor", i,
			"min", cal.Min[i], "max", cal.Max[i], "threshold", cal.Threshold[i])
	}
	return NothingHappened, false
}
