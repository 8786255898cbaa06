package hardware

import (
	"errors"
	"testing"

	"github.com/tigerbot-team/linefollower/pkg/linesensor"
)

func TestIgnoreMissing(t *testing.T) {
	missing := errors.New("no such file or directory")
	if ignoreMissing("LIGHT", missing) {
		t.Fatal("Missing devices are fatal unless asked otherwise")
	}
	t.Setenv("IGNORE_MISSING_LIGHT", "true")
	if !ignoreMissing("LIGHT", missing) {
		t.Fatal("Expected IGNORE_MISSING_LIGHT to be honoured")
	}
	if ignoreMissing("PWM", missing) {
		t.Fatal("Only the named device should be ignored")
	}
}

func TestDummyLightArraySeesNoLine(t *testing.T) {
	d := &dummyLightArray{}
	d.SetLED(true)
	m, err := d.LightMap()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := linesensor.Estimate(m); ok {
		t.Fatal("The dummy array should never see a line")
	}
}
