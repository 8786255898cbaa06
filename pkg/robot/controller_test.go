package robot

import (
	"context"
	"testing"
	"time"

	"github.com/tigerbot-team/linefollower/pkg/engine"
	"github.com/tigerbot-team/linefollower/pkg/linesensor"
)

func TestIdleButton1(t *testing.T) {
	r := newRig()
	r.button1.pressed = true
	if e := r.controller().Run(Idle); e != Button1Pressed {
		t.Fatalf("Expected Button1Pressed, got %v", e)
	}
	if !r.led1.on || r.led2.on {
		t.Fatal("Idle pattern is LED1 on, LED2 off")
	}
	if len(r.display.titles) != 1 || r.display.titles[0] != "Idle" {
		t.Fatalf("Expected the menu on the display, got %v", r.display.titles)
	}
}

func TestIdleSerialCommands(t *testing.T) {
	for _, tc := range []struct {
		input    string
		expected Event
	}{
		{"1", Button1Pressed},
		{"2", Button2Pressed},
		{"l", BatteryIsLow},
		{"xq2", Button2Pressed},
	} {
		r := newRig()
		r.serial.Push([]byte(tc.input))
		if e := r.controller().Run(Idle); e != tc.expected {
			t.Errorf("Input %q: expected %v, got %v", tc.input, tc.expected, e)
		}
	}
}

func TestIdleWaitsForInput(t *testing.T) {
	r := newRig()
	r.clock.After(time.Second, func() { r.button2.pressed = true })
	if e := r.controller().Run(Idle); e != Button2Pressed {
		t.Fatalf("Expected Button2Pressed, got %v", e)
	}
	if r.clock.slept < time.Second {
		t.Fatalf("Returned before the button was pressed")
	}
}

func TestIdleBatteryLow(t *testing.T) {
	r := newRig()
	r.battery.low = true
	if e := r.controller().Run(Idle); e != BatteryIsLow {
		t.Fatalf("Expected BatteryIsLow, got %v", e)
	}
}

func TestHardwareCheckRoundTrip(t *testing.T) {
	r := newRig()
	c := r.controller()
	var seen []State
	c.OnTransition = func(from State, event Event, to State) {
		seen = append(seen, to)
	}

	r.button1.pressed = true
	if e, s := c.Step(); e != Button1Pressed || s != HardwareCheck {
		t.Fatalf("Idle + button 1: got %v -> %v", e, s)
	}
	r.button1.pressed = false

	if e, s := c.Step(); e != NothingHappened || s != Idle {
		t.Fatalf("Hardware check: got %v -> %v", e, s)
	}
	if c.State() != Idle {
		t.Fatalf("Expected to be back in Idle, in %v", c.State())
	}
	if len(seen) != 2 || seen[0] != HardwareCheck || seen[1] != Idle {
		t.Fatalf("Unexpected transitions %v", seen)
	}

	if r.led1.toggles != 5 || r.led2.toggles != 5 {
		t.Errorf("Expected 5 toggles per LED, got %d/%d", r.led1.toggles, r.led2.toggles)
	}
	if r.buzzer.ons != 2 || r.buzzer.on {
		t.Errorf("Expected two beeps ending silent, got %d (on=%v)", r.buzzer.ons, r.buzzer.on)
	}
	for _, hz := range r.buzzer.tones {
		if hz != r.params.BeepHz {
			t.Errorf("Unexpected beep tone %v", hz)
		}
	}
	for i, hz := range r.buzzer.onHz {
		if hz != r.params.BeepHz {
			t.Errorf("Beep %d started at %vHz; the frequency must be set before turning on", i, hz)
		}
	}
	if r.left.reads != 1 || r.right.reads != 1 {
		t.Errorf("Expected one diagnostic read per encoder")
	}
}

func TestHardwareCheckBatteryLow(t *testing.T) {
	r := newRig()
	r.battery.low = true
	if e := r.controller().Run(HardwareCheck); e != BatteryIsLow {
		t.Fatalf("Expected BatteryIsLow, got %v", e)
	}
	// The self test still runs in full.
	if r.buzzer.ons != 2 {
		t.Fatalf("Expected the beeps before the battery check")
	}
}

func TestHardwareCheckWithoutEncoders(t *testing.T) {
	r := newRig()
	r.hw.LeftEncoder = nil
	r.hw.RightEncoder = nil
	if e := r.controller().Run(HardwareCheck); e != NothingHappened {
		t.Fatalf("Expected NothingHappened, got %v", e)
	}
}

func TestCalibrationStartAndProceed(t *testing.T) {
	r := newRig()
	r.light.maps = []linesensor.LightMap{{100, 200, 300, 3000, 300, 200, 100, 50}}
	r.clock.After(2500*time.Millisecond, func() { r.button1.pressed = true })

	if e := r.controller().Run(Calibration); e != Button1Pressed {
		t.Fatalf("Expected Button1Pressed, got %v", e)
	}
	if r.light.reads == 0 {
		t.Fatal("Expected the light array to be sampled during the window")
	}
	if r.light.ledOn != 1 || r.light.led {
		t.Fatalf("Expected illumination on for the window only (ons=%d, on=%v)", r.light.ledOn, r.light.led)
	}
	if r.buzzer.ons != 2 {
		t.Fatalf("Expected two confirmation beeps, got %d", r.buzzer.ons)
	}
	minimum := r.params.CalibrationWindow + 2500*time.Millisecond
	if r.clock.slept < minimum {
		t.Fatalf("Expected at least %v to pass, only %v", minimum, r.clock.slept)
	}
}

func TestCalibrationSettleIgnoresButtons(t *testing.T) {
	r := newRig()
	// Still held from the Idle menu.
	r.button1.pressed = true
	if e := r.controller().Run(Calibration); e != Button1Pressed {
		t.Fatalf("Expected the held button to start and then proceed, got %v", e)
	}
	if r.clock.slept < r.params.CalibrationSettle {
		t.Fatal("Button was acted on during the settle period")
	}
}

func TestCalibrationAbortViaSerial(t *testing.T) {
	r := newRig()
	r.clock.After(2100*time.Millisecond, func() { r.serial.Push([]byte("2")) })
	if e := r.controller().Run(Calibration); e != Button2Pressed {
		t.Fatalf("Expected Button2Pressed, got %v", e)
	}
	if r.light.reads != 0 {
		t.Fatal("Aborted calibration should not sample")
	}
}

func TestCalibrationBackToIdleAfterWindow(t *testing.T) {
	r := newRig()
	r.serial.Push([]byte("1"))
	r.clock.After(r.params.CalibrationSettle+r.params.CalibrationWindow+time.Second, func() {
		r.serial.Push([]byte("x2"))
	})
	if e := r.controller().Run(Calibration); e != Button2Pressed {
		t.Fatalf("Expected Button2Pressed, got %v", e)
	}
	if r.buzzer.ons != 2 {
		t.Fatal("Calibration should have completed before the abort")
	}
}

func TestCalibrationBatteryLowDuringSettle(t *testing.T) {
	r := newRig()
	r.clock.After(time.Second, func() { r.battery.low = true })
	if e := r.controller().Run(Calibration); e != BatteryIsLow {
		t.Fatalf("Expected BatteryIsLow, got %v", e)
	}
	if r.clock.slept >= r.params.CalibrationSettle {
		t.Fatalf("Battery low should preempt the settle period, took %v", r.clock.slept)
	}
}

func TestCalibrationBatteryLowDuringWindow(t *testing.T) {
	r := newRig()
	r.button1.pressed = true
	r.clock.After(r.params.CalibrationSettle+time.Second, func() { r.battery.low = true })
	if e := r.controller().Run(Calibration); e != BatteryIsLow {
		t.Fatalf("Expected BatteryIsLow, got %v", e)
	}
	if r.light.led {
		t.Fatal("Illumination should be off after an interrupted window")
	}
	if r.buzzer.ons != 0 {
		t.Fatal("No beeps for an interrupted calibration")
	}
}

func TestLineFollowingOnlyLeftmostSensor(t *testing.T) {
	r := newRig()
	r.serial.Push([]byte("12"))
	r.light.maps = []linesensor.LightMap{only(7, 3000)}

	if e := r.controller().Run(LineFollowing); e != Button2Pressed {
		t.Fatalf("Expected Button2Pressed, got %v", e)
	}
	expected := engine.Command{Kind: engine.CommandLeft, Duty: r.params.Duty, Delta: r.params.Delta}
	if len(r.drive.commands) != 2 || r.drive.commands[0] != expected {
		t.Fatalf("Expected %v then stop, got %v", expected, r.drive.commands)
	}
	if r.drive.last().Kind != engine.CommandStop {
		t.Fatal("Abort should stop the drive")
	}
	if r.light.led || r.led1.on || r.led2.on {
		t.Fatal("Abort should turn off illumination and LEDs")
	}
}

func TestLineFollowingSteersUntilLineLost(t *testing.T) {
	r := newRig()
	r.light.maps = []linesensor.LightMap{
		only(1, 2000),
		only(5, 2000),
		only(3, 2000),
		{},
	}
	if e := r.controller().Run(LineFollowing); e != NothingHappened {
		t.Fatalf("Expected NothingHappened, got %v", e)
	}
	if r.led1.toggles != r.params.PreRollTicks || r.led2.toggles != r.params.PreRollTicks {
		t.Errorf("Expected a full pre-roll of toggles, got %d/%d", r.led1.toggles, r.led2.toggles)
	}
	duty := r.params.Duty
	expected := []engine.Command{
		{Kind: engine.CommandRight, Duty: duty, Delta: 1500},
		{Kind: engine.CommandLeft, Duty: duty, Delta: 1000},
		{Kind: engine.CommandForward, Duty: duty},
		{Kind: engine.CommandStop},
	}
	if len(r.drive.commands) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, r.drive.commands)
	}
	for i := range expected {
		if r.drive.commands[i] != expected[i] {
			t.Errorf("Command %d: expected %v, got %v", i, expected[i], r.drive.commands[i])
		}
	}
	if r.light.led {
		t.Error("Illumination should be off once the line is lost")
	}
}

func TestLineFollowingReadFailureSkipsTick(t *testing.T) {
	r := newRig()
	r.serial.Push([]byte("1"))
	r.light.errs = []error{errLightBus}
	r.light.maps = []linesensor.LightMap{{}, only(7, 2000), {}}

	if e := r.controller().Run(LineFollowing); e != NothingHappened {
		t.Fatalf("Expected NothingHappened, got %v", e)
	}
	if len(r.drive.commands) != 2 || r.drive.commands[0].Kind != engine.CommandLeft {
		t.Fatalf("Expected the failed read to be skipped, got %v", r.drive.commands)
	}
}

func TestLineFollowingAbortDuringPreRoll(t *testing.T) {
	r := newRig()
	r.button2.pressed = true
	if e := r.controller().Run(LineFollowing); e != Button2Pressed {
		t.Fatalf("Expected Button2Pressed, got %v", e)
	}
	if len(r.drive.commands) != 0 || r.light.ledOn != 0 {
		t.Fatal("Nothing should move during the pre-roll")
	}
}

func TestLineFollowingBatteryLowStops(t *testing.T) {
	r := newRig()
	r.serial.Push([]byte("1"))
	r.light.maps = []linesensor.LightMap{only(4, 2000)}
	r.clock.After(time.Second, func() { r.battery.low = true })

	if e := r.controller().Run(LineFollowing); e != BatteryIsLow {
		t.Fatalf("Expected BatteryIsLow, got %v", e)
	}
	if r.drive.commands[0].Kind != engine.CommandForward {
		t.Fatalf("Expected to drive forward first, got %v", r.drive.commands[0])
	}
	if r.drive.last().Kind != engine.CommandStop {
		t.Fatal("Battery low should stop the drive")
	}
}

func TestShowPosition(t *testing.T) {
	r := newRig()
	c := r.controller()
	for _, tc := range []struct {
		pos        float64
		led1, led2 bool
	}{
		{0, true, true},
		{-0.5, false, true},
		{1, true, false},
	} {
		c.showPosition(tc.pos)
		if r.led1.on != tc.led1 || r.led2.on != tc.led2 {
			t.Errorf("Position %v: expected LEDs %v/%v, got %v/%v",
				tc.pos, tc.led1, tc.led2, r.led1.on, r.led2.on)
		}
	}
}

func TestSteer(t *testing.T) {
	for _, tc := range []struct {
		pos      float64
		expected engine.Command
	}{
		{0, engine.Command{Kind: engine.CommandForward, Duty: 15000}},
		{-1, engine.Command{Kind: engine.CommandLeft, Duty: 15000, Delta: 2000}},
		{1, engine.Command{Kind: engine.CommandRight, Duty: 15000, Delta: 2000}},
		{-0.75, engine.Command{Kind: engine.CommandLeft, Duty: 15000, Delta: 1500}},
		{0.5, engine.Command{Kind: engine.CommandRight, Duty: 15000, Delta: 1000}},
	} {
		if c := steer(tc.pos, 15000, 2000); c != tc.expected {
			t.Errorf("Position %v: expected %v, got %v", tc.pos, tc.expected, c)
		}
	}
}

func TestBatteryLowRecovers(t *testing.T) {
	r := newRig()
	r.battery.low = true
	r.battery.recoverAfter = 3

	if e := r.controller().Run(BatteryLow); e != NothingHappened {
		t.Fatalf("Expected NothingHappened, got %v", e)
	}
	if r.led1.toggles != 3 || r.led2.toggles != 3 {
		t.Errorf("Expected one toggle per alert, got %d/%d", r.led1.toggles, r.led2.toggles)
	}
	if len(r.buzzer.tones) != 6 {
		t.Fatalf("Expected three two-tone alerts, got %v", r.buzzer.tones)
	}
	for i, hz := range r.buzzer.tones {
		exp := r.params.AlertLowHz
		if i%2 == 1 {
			exp = r.params.AlertHighHz
		}
		if hz != exp {
			t.Errorf("Tone %d: expected %v, got %v", i, exp, hz)
		}
	}
	for i, hz := range r.buzzer.onHz {
		if hz != r.params.AlertLowHz {
			t.Errorf("Alert %d started at %vHz, expected the low note", i, hz)
		}
	}
	if r.buzzer.on {
		t.Error("Buzzer left on")
	}
	perAlert := 2*r.params.AlertNoteDuration + r.params.AlertPause
	if r.clock.slept != 3*perAlert {
		t.Errorf("Expected %v of alerts, got %v", 3*perAlert, r.clock.slept)
	}
}

func TestLoopShutsDownOnCancel(t *testing.T) {
	r := newRig()
	c := r.controller()
	ctx, cancel := context.WithCancel(context.Background())
	c.OnTransition = func(from State, event Event, to State) {
		cancel()
	}
	r.button1.pressed = true

	c.Loop(ctx)

	if c.State() != HardwareCheck {
		t.Fatalf("Expected to stop after the first transition, in %v", c.State())
	}
	if r.drive.last().Kind != engine.CommandStop {
		t.Fatal("Expected the drive to be stopped on shutdown")
	}
	if r.led1.on || r.led2.on || r.light.led {
		t.Fatal("Expected LEDs and illumination off on shutdown")
	}
}
