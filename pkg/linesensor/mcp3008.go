package linesensor

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"
)

// MCP3008 reads the array through an 8-channel 10-bit SPI ADC, one channel per sensor, channel 0
// wired to the rightmost sensor.  Readings are scaled to 12 bits to match the thresholds used
// elsewhere.
type MCP3008 struct {
	log  hclog.Logger
	port spi.PortCloser
	conn spi.Conn
	led  gpio.PinOut

	w, r [3]byte
}

func NewMCP3008(log hclog.Logger, spiDevice, ledPin string) (*MCP3008, error) {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		return nil, err
	}

	p, err := spireg.Open(spiDevice)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %s: %w", spiDevice, err)
	}

	// The MCP3008 is good to ~1.35MHz at 3.3V.
	c, err := p.Connect(physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to connect to MCP3008: %w", err)
	}

	led := gpioreg.ByName(ledPin)
	if led == nil {
		_ = p.Close()
		return nil, fmt.Errorf("no such pin %q for the array LED", ledPin)
	}
	if err := led.Out(gpio.Low); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to configure array LED pin: %w", err)
	}

	return &MCP3008{
		log:  log,
		port: p,
		conn: c,
		led:  led,
	}, nil
}

func (m *MCP3008) LightMap() (LightMap, error) {
	var lm LightMap
	for ch := range lm {
		v, err := m.readChannel(ch)
		if err != nil {
			return LightMap{}, err
		}
		lm[ch] = v << 2
	}
	return lm, nil
}

func (m *MCP3008) readChannel(ch int) (uint16, error) {
	// Start bit, then single-ended mode + channel number in the top nibble of the second byte.
	// The 10-bit result comes back in the low bits of the last two bytes.
	m.w = [3]byte{0x01, byte(0x08|ch) << 4, 0x00}
	if err := m.conn.Tx(m.w[:], m.r[:]); err != nil {
		return 0, fmt.Errorf("MCP3008 channel %d: %w", ch, err)
	}
	return uint16(m.r[1]&0x03)<<8 | uint16(m.r[2]), nil
}

func (m *MCP3008) SetLED(on bool) {
	if err := m.led.Out(gpio.Level(on)); err != nil {
		m.log.Warn("failed to set array LED", "on", on, "error", err)
	}
}

func (m *MCP3008) Close() error {
	m.SetLED(false)
	return m.port.Close()
}
