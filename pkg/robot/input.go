package robot

import "time"

// watch is the set of inputs that can end a wait.
type watch struct {
	button1 bool
	button2 bool
	battery bool
	// serial maps command bytes to the events they stand for.
	serial map[byte]Event
	// complain logs unrecognised serial bytes at info rather than debug.
	complain bool
}

var (
	waitStartOrAbort = watch{
		button1: true,
		button2: true,
		battery: true,
		serial:  map[byte]Event{'1': Button1Pressed, '2': Button2Pressed},
	}
	waitAbort = watch{
		button2: true,
		battery: true,
		serial:  map[byte]Event{'2': Button2Pressed},
	}
	waitBattery = watch{
		battery: true,
	}
)

// poll checks each watched input once, buttons before the battery before serial.
func (c *Controller) poll(w watch) (Event, bool) {
	if w.button1 && c.hw.Button1.IsPressed() {
		return Button1Pressed, true
	}
	if w.button2 && c.hw.Button2.IsPressed() {
		return Button2Pressed, true
	}
	if w.battery && c.hw.Battery.IsBatteryLow() {
		return BatteryIsLow, true
	}
	if w.serial != nil {
		if b, ok := c.hw.Serial.TryReadByte(); ok {
			if e, ok := w.serial[b]; ok {
				return e, true
			}
			if w.complain {
				c.log.Info("Invalid input", "byte", string(rune(b)))
			} else {
				c.log.Debug("Ignored serial input", "byte", string(rune(b)))
			}
		}
	}
	return NothingHappened, false
}

// waitFor polls until a watched input fires.
func (c *Controller) waitFor(w watch) Event {
	for {
		if e, ok := c.poll(w); ok {
			return e
		}
		c.sleep()
	}
}

// waitUpTo polls for at most d; ok is false if nothing fired.
func (c *Controller) waitUpTo(d time.Duration, w watch) (Event, bool) {
	deadline := c.hw.Clock.Now().Add(d)
	for c.hw.Clock.Now().Before(deadline) {
		if e, ok := c.poll(w); ok {
			return e, true
		}
		c.sleep()
	}
	return NothingHappened, false
}
