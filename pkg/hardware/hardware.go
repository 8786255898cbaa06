package hardware

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"periph.io/x/periph/host"

	"github.com/tigerbot-team/linefollower/pkg/battery"
	"github.com/tigerbot-team/linefollower/pkg/button"
	"github.com/tigerbot-team/linefollower/pkg/buzzer"
	"github.com/tigerbot-team/linefollower/pkg/config"
	"github.com/tigerbot-team/linefollower/pkg/encoder"
	"github.com/tigerbot-team/linefollower/pkg/engine"
	"github.com/tigerbot-team/linefollower/pkg/hw"
	"github.com/tigerbot-team/linefollower/pkg/indicator"
	"github.com/tigerbot-team/linefollower/pkg/joystick"
	"github.com/tigerbot-team/linefollower/pkg/linesensor"
	"github.com/tigerbot-team/linefollower/pkg/screen"
	"github.com/tigerbot-team/linefollower/pkg/serialport"
)

// Hardware is the real robot.  New opens everything; Start kicks off the background loops
// that own the buses; Shutdown stops the motors.
type Hardware struct {
	log hclog.Logger
	cfg config.HardwareConfig

	i2c      *I2CController
	serial   *serialport.Port
	screen   *screen.Screen
	joystick *joystick.Joystick
	counters []*encoder.QuadratureCounter
	light    interface{ Close() error }
	engine   *engine.Engine

	robot *hw.Hardware
}

func New(log hclog.Logger, cfg config.HardwareConfig) (*Hardware, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise periph: %w", err)
	}

	h := &Hardware{
		log: log,
		cfg: cfg,
		i2c: NewI2CController(log.Named("i2c"), I2CConfig{
			Bus:            cfg.I2CBus,
			PWMAddr:        cfg.PWMAddr,
			PWMFrequencyHz: cfg.PWMFrequencyHz,
			BatteryAddr:    cfg.BatteryAddr,
			ShuntOhms:      cfg.ShuntOhms,
			MaxCurrent:     cfg.MaxCurrent,
			BatterySamples: cfg.BatterySamples,
		}),
		serial: serialport.New(log.Named("serial"), cfg.SerialDevice, cfg.SerialBaud),
	}
	r := &hw.Hardware{
		Serial: h.serial,
		Clock:  hw.WallClock{},
		Log:    log,
	}

	monitor := battery.NewMonitor(log.Named("battery"), h.i2c)
	// The I2C loop already averages over cfg.BatterySamples readings.
	monitor.Samples = 1
	monitor.LowMillivolts = cfg.LowMillivolts
	r.Battery = monitor

	b1, b2, err := h.openButtons()
	if err != nil {
		return nil, err
	}
	r.Button1, r.Button2 = b1, b2

	if r.LED1, err = openLED(log, "LED1", cfg.LED1Pin); err != nil {
		return nil, err
	}
	if r.LED2, err = openLED(log, "LED2", cfg.LED2Pin); err != nil {
		return nil, err
	}

	light, err := h.openLight()
	if err != nil {
		if !ignoreMissing("LIGHT", err) {
			return nil, err
		}
		r.Light = &dummyLightArray{}
	} else {
		h.light = light
		r.Light = light
	}

	left, err := engine.NewPWMMotor(log.Named("left"), h.i2c, cfg.LeftMotor.Channel,
		cfg.LeftMotor.ActionPin, cfg.LeftMotor.DirectionPin)
	if err != nil {
		return nil, err
	}
	right, err := engine.NewPWMMotor(log.Named("right"), h.i2c, cfg.RightMotor.Channel,
		cfg.RightMotor.ActionPin, cfg.RightMotor.DirectionPin)
	if err != nil {
		return nil, err
	}
	h.engine = engine.New(left, right)
	r.Drive = h.engine

	r.Buzzer = &buzzer.Dummy{}
	if cfg.Buzzer {
		bz, err := buzzer.New(log.Named("buzzer"))
		if err != nil {
			log.Warn("No buzzer, beeps will be printed", "error", err)
		} else {
			r.Buzzer = bz
		}
	}

	if cfg.Screen {
		h.screen = screen.New(log.Named("screen"), monitor.BatteryMillivolts)
		r.Display = h.screen
	}

	if cfg.Encoders {
		l, err := h.openEncoder(cfg.LeftEncoder)
		if err != nil {
			return nil, err
		}
		rt, err := h.openEncoder(cfg.RightEncoder)
		if err != nil {
			return nil, err
		}
		r.LeftEncoder, r.RightEncoder = l, rt
	}

	h.robot = r
	return h, nil
}

func (h *Hardware) openButtons() (hw.Button, hw.Button, error) {
	b1, err := button.New(h.cfg.Button1Pin, h.cfg.ButtonsPulledUp)
	if err != nil {
		return nil, nil, err
	}
	b2, err := button.New(h.cfg.Button2Pin, h.cfg.ButtonsPulledUp)
	if err != nil {
		return nil, nil, err
	}
	if !h.cfg.Joystick {
		return b1, b2, nil
	}

	jDev := os.Getenv("JOYSTICK_DEVICE")
	if jDev == "" {
		jDev = joystick.DefaultDevice
	}
	j, err := joystick.Open(h.log.Named("joystick"), jDev)
	if err != nil {
		h.log.Warn("Failed to open joystick, using the robot's buttons only", "error", err)
		return b1, b2, nil
	}
	h.joystick = j
	return button.Any{b1, j.Button(joystick.ButtonCross)},
		button.Any{b2, j.Button(joystick.ButtonCircle)},
		nil
}

type lightArray interface {
	hw.LightSensorArray
	Close() error
}

func (h *Hardware) openLight() (lightArray, error) {
	if h.cfg.CameraDevice >= 0 {
		return openCamera(h.log.Named("camera"), h.cfg.CameraDevice, h.cfg.LightLEDPin)
	}
	return linesensor.NewMCP3008(h.log.Named("light"), h.cfg.LightSPI, h.cfg.LightLEDPin)
}

func openLED(log hclog.Logger, name, pin string) (hw.Indicator, error) {
	led, err := indicator.New(log.Named(name), pin)
	if err != nil {
		if !ignoreMissing(name, err) {
			return nil, err
		}
		return &indicator.Dummy{Name: name}, nil
	}
	return led, nil
}

func (h *Hardware) openEncoder(cfg config.EncoderConfig) (*encoder.Tracker, error) {
	c, err := encoder.NewQuadratureCounter(cfg.PinA, cfg.PinB, h.cfg.EncoderBits)
	if err != nil {
		return nil, err
	}
	h.counters = append(h.counters, c)
	return encoder.NewTracker(c, h.cfg.EncoderBits), nil
}

// Robot is the view of the hardware handed to the controller.
func (h *Hardware) Robot() *hw.Hardware {
	return h.robot
}

// Serial is the command port; log output can be copied to it.
func (h *Hardware) Serial() *serialport.Port {
	return h.serial
}

// Start runs the background loops until ctx is done.  It returns once the I2C devices have
// been initialised (or failed to).
func (h *Hardware) Start(ctx context.Context) {
	var initDone sync.WaitGroup
	initDone.Add(1)
	go h.i2c.Loop(ctx, &initDone)
	go h.serial.Loop(ctx)
	if h.screen != nil {
		go h.screen.Loop(ctx, screen.DefaultDevice)
	}
	if h.joystick != nil {
		go func() {
			err := h.joystick.Loop(ctx)
			if err != nil {
				h.log.Error("Joystick failed", "error", err)
			}
		}()
	}
	for _, c := range h.counters {
		go c.Loop(ctx)
	}
	initDone.Wait()
}

// Shutdown stops the motors and gives the I2C loop a moment to write the change out.
func (h *Hardware) Shutdown() {
	fmt.Println("HW: Stopping motors")
	h.engine.Stop()
	time.Sleep(30 * time.Millisecond)
	if h.light != nil {
		_ = h.light.Close()
	}
	if h.joystick != nil {
		_ = h.joystick.Close()
	}
}
