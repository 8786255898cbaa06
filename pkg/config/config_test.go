package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMissingFileGivesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linefollower.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Robot != Default().Robot {
		t.Fatalf("Expected default robot params, got %+v", c.Robot)
	}
	if _, err := os.Stat(InUsePath(path)); err != nil {
		t.Fatalf("Expected the in-use config to be written: %v", err)
	}
}

func TestPartialOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linefollower.yaml")
	err := ioutil.WriteFile(path, []byte(`
loglevel: debug
robot:
  duty: 20000
  calibrationwindow: 5s
hardware:
  leftmotor:
    channel: 4
`), 0666)
	if err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	def := Default()
	if c.LogLevel != "debug" {
		t.Errorf("Expected log level override, got %q", c.LogLevel)
	}
	if c.Robot.Duty != 20000 {
		t.Errorf("Expected duty override, got %d", c.Robot.Duty)
	}
	if c.Robot.CalibrationWindow != 5*time.Second {
		t.Errorf("Expected 5s window, got %v", c.Robot.CalibrationWindow)
	}
	if c.Robot.Delta != def.Robot.Delta || c.Robot.PollInterval != def.Robot.PollInterval {
		t.Errorf("Unset robot params should keep defaults: %+v", c.Robot)
	}
	if c.Hardware.LeftMotor.Channel != 4 || c.Hardware.LeftMotor.ActionPin != def.Hardware.LeftMotor.ActionPin {
		t.Errorf("Nested overlay lost defaults: %+v", c.Hardware.LeftMotor)
	}

	inUse, err := ioutil.ReadFile(InUsePath(path))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(inUse), "duty: 20000") {
		t.Errorf("In-use config doesn't reflect the overlay:\n%s", inUse)
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Robot.Delta = c.Robot.Duty + 1
	if err := c.Validate(); err == nil {
		t.Error("Expected delta > duty to be rejected")
	}
	c = Default()
	c.Hardware.EncoderBits = 0
	if err := c.Validate(); err == nil {
		t.Error("Expected zero encoder bits to be rejected")
	}
}

func TestInUsePath(t *testing.T) {
	if p := InUsePath("/cfg/linefollower.yaml"); p != "/cfg/linefollower-in-use.yaml" {
		t.Fatalf("Unexpected path %q", p)
	}
}
