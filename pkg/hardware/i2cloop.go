package hardware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/tigerbot-team/linefollower/pkg/battery"
	"github.com/tigerbot-team/linefollower/pkg/ina219"
	"github.com/tigerbot-team/linefollower/pkg/pca9685"
)

const (
	motorUpdateInterval   = 10 * time.Millisecond
	batteryUpdateInterval = 100 * time.Millisecond
)

// I2CController owns the I2C bus: the motor PWM controller and the battery monitor.  The
// control loop sets desired duties and reads the latest battery average without touching
// the bus itself.
type I2CController struct {
	log hclog.Logger

	openPWM     func() (pca9685.Interface, error)
	openMonitor func() (ina219.Interface, error)
	pwmHz       float64
	shuntOhms   float64
	maxCurrent  float64

	lock sync.Mutex
	// Desired values.  Stored off in case we need to re-initialise the hardware.
	duties      [pca9685.NumChannels]uint16
	dutyUpdates map[int]bool
	battery     *battery.Window
}

func NewI2CController(log hclog.Logger, cfg I2CConfig) *I2CController {
	samples := cfg.BatterySamples
	if samples < 1 {
		samples = battery.DefaultSamples
	}
	return &I2CController{
		log: log,
		openPWM: func() (pca9685.Interface, error) {
			p, err := pca9685.New(cfg.Bus, cfg.PWMAddr)
			if err != nil {
				if ignoreMissing("PWM", err) {
					return pca9685.Dummy(), nil
				}
				return nil, err
			}
			return p, nil
		},
		openMonitor: func() (ina219.Interface, error) {
			m, err := ina219.NewI2C(cfg.Bus, cfg.BatteryAddr)
			if err != nil {
				if ignoreMissing("BATTERY", err) {
					return ina219.Dummy(battery.DefaultLowMillivolts + 500), nil
				}
				return nil, err
			}
			return m, nil
		},
		pwmHz:       cfg.PWMFrequencyHz,
		shuntOhms:   cfg.ShuntOhms,
		maxCurrent:  cfg.MaxCurrent,
		dutyUpdates: map[int]bool{},
		battery:     battery.NewWindow(samples),
	}
}

type I2CConfig struct {
	Bus            string
	PWMAddr        int
	PWMFrequencyHz float64
	BatteryAddr    int
	ShuntOhms      float64
	MaxCurrent     float64
	// BatterySamples is the length of the rolling battery average.
	BatterySamples int
}

// SetDuty records the desired duty for a PWM channel; the loop writes it out.
func (c *I2CController) SetDuty(channel int, duty uint16) error {
	if channel < 0 || channel >= pca9685.NumChannels {
		return fmt.Errorf("PWM channel out of range: %d", channel)
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.duties[channel] != duty {
		c.duties[channel] = duty
		c.dutyUpdates[channel] = true
	}
	return nil
}

// BusMillivolts is the rolling average of recent battery readings.
func (c *I2CController) BusMillivolts() (int, error) {
	return c.battery.BusMillivolts()
}

func (c *I2CController) Loop(ctx context.Context, initDone *sync.WaitGroup) {
	c.log.Info("I2C loop started")
	for {
		c.loopUntilSomethingBadHappens(ctx, initDone)
		if ctx.Err() != nil {
			return
		}
		c.log.Error("I2C failure; trying to recover")
		initDone = nil
		time.Sleep(100 * time.Millisecond)
	}
}

func (c *I2CController) loopUntilSomethingBadHappens(ctx context.Context, initDone *sync.WaitGroup) {
	defer func() {
		if initDone != nil {
			initDone.Done()
		}
	}()

	pwm, err := c.openPWM()
	if err != nil {
		c.log.Error("Failed to open PWM controller", "error", err)
		return
	}
	defer pwm.Close()
	err = pwm.Configure(c.pwmHz)
	if err != nil {
		c.log.Error("Failed to configure PWM controller", "error", err)
		return
	}
	defer c.stopMotors(pwm)

	monitor, err := c.openMonitor()
	if err != nil {
		c.log.Warn("Failed to open battery monitor; ignoring!", "error", err)
		monitor = nil
	} else if err = monitor.Configure(c.shuntOhms, c.maxCurrent); err != nil {
		c.log.Warn("Failed to configure battery monitor; ignoring!", "error", err)
		monitor = nil
	}

	// Everything has to be rewritten after a re-initialisation.
	c.lock.Lock()
	for ch := range c.duties {
		c.dutyUpdates[ch] = true
	}
	c.lock.Unlock()

	if initDone != nil {
		initDone.Done()
		initDone = nil
	}

	ticker := time.NewTicker(motorUpdateInterval)
	defer ticker.Stop()
	var lastBatteryReading time.Time
	for ctx.Err() == nil {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := c.flushDuties(pwm); err != nil {
			c.log.Error("Failed to update motor duty", "error", err)
			return
		}

		if monitor != nil && time.Since(lastBatteryReading) >= batteryUpdateInterval {
			mv, err := monitor.BusMillivolts()
			if err != nil {
				c.log.Debug("Failed to read battery", "error", err)
			} else {
				c.battery.Add(mv)
			}
			lastBatteryReading = time.Now()
		}
	}
}

func (c *I2CController) flushDuties(pwm pca9685.Interface) error {
	c.lock.Lock()
	updates := map[int]uint16{}
	for ch := range c.dutyUpdates {
		updates[ch] = c.duties[ch]
		delete(c.dutyUpdates, ch)
	}
	c.lock.Unlock()

	for ch, duty := range updates {
		if err := pwm.SetDuty(ch, duty); err != nil {
			// Retry after re-initialisation.
			c.lock.Lock()
			c.dutyUpdates[ch] = true
			c.lock.Unlock()
			return err
		}
	}
	return nil
}

func (c *I2CController) stopMotors(pwm pca9685.Interface) {
	for ch := 0; ch < pca9685.NumChannels; ch++ {
		_ = pwm.SetDuty(ch, 0)
	}
}
