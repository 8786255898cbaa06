package ina219

import (
	"fmt"

	"golang.org/x/exp/io/i2c"
)

const (
	DefaultAddr = 0x40

	RegConfig      = 0
	RegShuntV      = 1
	RegBusV        = 2
	RegPower       = 3
	RegCurrent     = 4
	RegCalibration = 5

	// Bus voltage register LSB, in millivolts.
	BusVoltageLSBMillivolts = 4

	// Conversion ready flag in the bus voltage register.
	busVoltageCNVR = 0x2
	// Math overflow flag in the bus voltage register.
	busVoltageOVF = 0x1
)

type Interface interface {
	Configure(shuntOhms float64, maxCurrent float64) error
	// BusMillivolts returns the voltage on the supply side of the shunt.
	BusMillivolts() (int, error)
	// ReadCurrent returns the current through the shunt in amps; negative when charging.
	ReadCurrent() (float64, error)
}

type port interface {
	// Read reads len(buf) bytes from the device.
	ReadReg(reg byte, buf []byte) error
	WriteReg(reg byte, buf []byte) (err error)
}

type INA219 struct {
	currentLSB float64
	dev        port
}

func NewI2C(deviceFile string, addr int) (*INA219, error) {
	dev, err := i2c.Open(&i2c.Devfs{Dev: deviceFile}, addr)
	if err != nil {
		return nil, err
	}
	return &INA219{
		dev: dev,
	}, nil
}

var _ Interface = (*INA219)(nil)

func (m *INA219) Configure(shuntOhms float64, maxCurrent float64) error {
	m.currentLSB = maxCurrent / (1 << 15)
	cval := CalibrationValue(m.currentLSB, shuntOhms)
	return m.dev.WriteReg(RegCalibration, []byte{byte(cval >> 8), byte(cval)})
}

func (m *INA219) BusMillivolts() (int, error) {
	raw, err := m.read16(RegBusV)
	if err != nil {
		return 0, err
	}
	if raw&busVoltageOVF != 0 {
		return 0, fmt.Errorf("INA219 math overflow (raw bus voltage %#04x)", raw)
	}
	return int(raw>>3) * BusVoltageLSBMillivolts, nil
}

func (m *INA219) ReadCurrent() (float64, error) {
	raw, err := m.read16(RegCurrent)
	return float64(int16(raw)) * m.currentLSB, err
}

func (m *INA219) read16(reg byte) (uint16, error) {
	var buf [2]byte
	err := m.dev.ReadReg(reg, buf[:])
	return uint16(buf[0])<<8 | uint16(buf[1]), err
}

func CalibrationValue(currentLSB float64, shuntOhms float64) uint16 {
	return uint16(0.04096 / (currentLSB * shuntOhms))
}

// Dummy returns a monitor that always reports the given bus voltage.
func Dummy(millivolts int) Interface {
	return &dummyMonitor{millivolts: millivolts}
}

type dummyMonitor struct {
	millivolts int
}

func (d *dummyMonitor) Configure(shuntOhms float64, maxCurrent float64) error {
	fmt.Printf("Dummy INA219 configured: shunt=%vΩ max=%vA\n", shuntOhms, maxCurrent)
	return nil
}

func (d *dummyMonitor) BusMillivolts() (int, error) {
	return d.millivolts, nil
}

func (d *dummyMonitor) ReadCurrent() (float64, error) {
	return 0, nil
}
