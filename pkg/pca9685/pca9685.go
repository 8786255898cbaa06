package pca9685

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/io/i2c"
)

const (
	DefaultAddr = 0x40

	RegMode1 = 0x00
	RegMode2 = 0x01

	// Each PWM output has two 16-bit (low byte first) registers.
	// First register is the on time, second is the off time.
	RegLEDBase = 0x06

	RegPreScale = 0xfe // Pre-scaler for PWM frequency.

	NumChannels = 16

	PWMMax = 4095

	// Bit 4 of the high byte of the on/off registers forces the output fully on/off.
	fullBit = 0x10

	oscillatorHz = 25e6
)

type Interface interface {
	Configure(frequencyHz float64) error
	// SetDuty sets a channel's duty cycle, 0 (off) to 65535 (fully on).
	SetDuty(channel int, duty uint16) error
	Close() error
}

type port interface {
	WriteReg(reg byte, buf []byte) (err error)
	Close() error
}

type PCA9685 struct {
	dev port
}

func New(deviceFile string, addr int) (*PCA9685, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: deviceFile}, addr)
	if err != nil {
		return nil, err
	}
	return &PCA9685{
		dev: dev,
	}, nil
}

var _ Interface = (*PCA9685)(nil)

// PreScale returns the prescaler register value for the requested output frequency.
func PreScale(frequencyHz float64) byte {
	v := math.Round(oscillatorHz/(4096*frequencyHz)) - 1
	if v < 3 {
		v = 3
	} else if v > 255 {
		v = 255
	}
	return byte(v)
}

func (p *PCA9685) Configure(frequencyHz float64) (err error) {
	// Put device to sleep; the prescaler can only be written while asleep.
	err = p.dev.WriteReg(RegMode1, []byte{0x11})
	if err != nil {
		return
	}
	err = p.dev.WriteReg(RegPreScale, []byte{PreScale(frequencyHz)})
	if err != nil {
		return
	}
	// Trigger a reset
	err = p.dev.WriteReg(RegMode1, []byte{0x01})
	if err != nil {
		return
	}
	// Required delay after reset.
	time.Sleep(1 * time.Millisecond)
	// Enable, with register auto-increment.
	err = p.dev.WriteReg(RegMode1, []byte{0xa1})
	return
}

func (p *PCA9685) SetDuty(channel int, duty uint16) error {
	if channel < 0 || channel >= NumChannels {
		return fmt.Errorf("PWM channel out of range: %d", channel)
	}
	addr := RegLEDBase + channel*4
	return p.dev.WriteReg(byte(addr), channelRegisters(duty))
}

// channelRegisters returns the ON_L, ON_H, OFF_L, OFF_H values for a 16-bit duty cycle.
func channelRegisters(duty uint16) []byte {
	switch duty {
	case 0:
		return []byte{0, 0, 0, fullBit}
	case math.MaxUint16:
		return []byte{0, fullBit, 0, 0}
	}
	off := duty >> 4
	return []byte{0, 0, byte(off & 0xff), byte(off >> 8)}
}

func (p *PCA9685) Close() error {
	return p.dev.Close()
}

func Dummy() Interface {
	return &dummyPWM{}
}

type dummyPWM struct {
}

func (*dummyPWM) Configure(frequencyHz float64) error {
	fmt.Printf("Dummy PCA9685 configured for %.0fHz\n", frequencyHz)
	return nil
}

func (*dummyPWM) SetDuty(channel int, duty uint16) error {
	return nil
}

func (*dummyPWM) Close() error {
	return nil
}
