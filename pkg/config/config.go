package config

import (
	"fmt"
	"io/ioutil"
	"strings"

	yaml "gopkg.in/yaml.v2"

	"github.com/tigerbot-team/linefollower/pkg/battery"
	"github.com/tigerbot-team/linefollower/pkg/robot"
	"github.com/tigerbot-team/linefollower/pkg/serialport"
	"github.com/tigerbot-team/linefollower/pkg/sim"
)

const DefaultPath = "/cfg/linefollower.yaml"

type MotorConfig struct {
	Channel      int
	ActionPin    string
	DirectionPin string
}

type EncoderConfig struct {
	PinA string
	PinB string
}

type HardwareConfig struct {
	I2CBus string

	PWMAddr        int
	PWMFrequencyHz float64
	LeftMotor      MotorConfig
	RightMotor     MotorConfig

	BatteryAddr    int
	ShuntOhms      float64
	MaxCurrent     float64
	LowMillivolts  int
	BatterySamples int

	Button1Pin      string
	Button2Pin      string
	ButtonsPulledUp bool

	LED1Pin string
	LED2Pin string

	LightSPI    string
	LightLEDPin string

	// CameraDevice, when not negative, replaces the MCP3008 array with a camera.  Needs a
	// gocv build.
	CameraDevice int

	SerialDevice string
	SerialBaud   int

	Encoders     bool
	EncoderBits  uint
	LeftEncoder  EncoderConfig
	RightEncoder EncoderConfig

	Joystick bool
	Screen   bool
	Buzzer   bool
}

type Config struct {
	LogLevel string
	Hardware HardwareConfig
	Robot    robot.Params
	Sim      sim.Params
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Hardware: HardwareConfig{
			I2CBus:         "/dev/i2c-1",
			PWMAddr:        0x40,
			PWMFrequencyHz: 1000,
			LeftMotor:      MotorConfig{Channel: 0, ActionPin: "GPIO5", DirectionPin: "GPIO6"},
			RightMotor:     MotorConfig{Channel: 1, ActionPin: "GPIO13", DirectionPin: "GPIO19"},
			BatteryAddr:    0x41,
			ShuntOhms:      0.1,
			MaxCurrent:     3.2,
			LowMillivolts:  battery.DefaultLowMillivolts,
			BatterySamples: battery.DefaultSamples,

			Button1Pin:      "GPIO17",
			Button2Pin:      "GPIO27",
			ButtonsPulledUp: true,
			LED1Pin:         "GPIO23",
			LED2Pin:         "GPIO24",
			LightSPI:        "/dev/spidev0.0",
			LightLEDPin:     "GPIO25",
			CameraDevice:    -1,
			SerialDevice:    "/dev/serial0",
			SerialBaud:      serialport.DefaultBaudRate,

			EncoderBits:  16,
			LeftEncoder:  EncoderConfig{PinA: "GPIO20", PinB: "GPIO21"},
			RightEncoder: EncoderConfig{PinA: "GPIO12", PinB: "GPIO16"},

			Screen: true,
			Buzzer: true,
		},
		Robot: robot.DefaultParams(),
		Sim:   sim.DefaultParams(),
	}
}

// Load overlays the YAML file at path on the defaults.  A missing file isn't an error; the
// defaults are used.  The effective config is written next to it as <name>-in-use.yaml.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		fmt.Println("No config file, using defaults:", err)
	} else {
		err = yaml.Unmarshal(raw, &c)
		if err != nil {
			return c, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("bad config in %s: %w", path, err)
	}

	out, err := yaml.Marshal(&c)
	if err != nil {
		fmt.Println("Failed to marshal config in use:", err)
		return c, nil
	}
	err = ioutil.WriteFile(InUsePath(path), out, 0666)
	if err != nil {
		fmt.Println("Failed to write config in use:", err)
	}
	return c, nil
}

func InUsePath(path string) string {
	return strings.TrimSuffix(path, ".yaml") + "-in-use.yaml"
}

func (c Config) Validate() error {
	if c.Hardware.EncoderBits < 1 || c.Hardware.EncoderBits > 32 {
		return fmt.Errorf("encoder bits must be 1-32, not %d", c.Hardware.EncoderBits)
	}
	if c.Robot.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.Robot.Delta > c.Robot.Duty {
		return fmt.Errorf("steering delta %d exceeds duty %d", c.Robot.Delta, c.Robot.Duty)
	}
	return nil
}
