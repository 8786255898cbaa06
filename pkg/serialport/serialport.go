package serialport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"go.bug.st/serial"
)

const DefaultBaudRate = 115200

// Port is the robot's command UART.  Received bytes go into a queue for the controller to poll;
// writes (log lines) go straight out while the port is open and are dropped otherwise.
type Port struct {
	*Queue

	log      hclog.Logger
	device   string
	baudRate int

	lock sync.Mutex
	port serial.Port
}

func New(log hclog.Logger, device string, baudRate int) *Port {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	return &Port{
		Queue:    NewQueue(DefaultQueueLen),
		log:      log,
		device:   device,
		baudRate: baudRate,
	}
}

// Loop keeps the port open and pumps received bytes into the queue, reopening on error
// until ctx is done.
func (p *Port) Loop(ctx context.Context) {
	for ctx.Err() == nil {
		err := p.openAndLoop(ctx)
		if ctx.Err() != nil {
			return
		}
		p.log.Warn("Serial loop stopped; will retry", "device", p.device, "error", err)
		time.Sleep(500 * time.Millisecond)
	}
}

func (p *Port) openAndLoop(ctx context.Context) error {
	s, err := serial.Open(p.device, &serial.Mode{
		BaudRate: p.baudRate,
	})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", p.device, err)
	}
	if err := s.SetReadTimeout(100 * time.Millisecond); err != nil {
		s.Close()
		return fmt.Errorf("failed to set read timeout: %w", err)
	}
	p.setPort(s)
	defer func() {
		p.setPort(nil)
		s.Close()
	}()
	p.log.Info("Serial port open", "device", p.device, "baud", p.baudRate)

	err = p.Pump(ctx, s)
	if err != nil {
		return fmt.Errorf("failed to read from serial: %w", err)
	}
	return nil
}

func (p *Port) setPort(s serial.Port) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.port = s
}

// Write implements io.Writer so the port can be a log sink.
func (p *Port) Write(data []byte) (int, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.port == nil {
		return len(data), nil
	}
	return p.port.Write(data)
}
