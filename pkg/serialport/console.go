package serialport

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/kr/pty"
)

// Console is a pseudo-terminal standing in for the UART when running in simulation.
// Attach a terminal program to TTYName() to talk to the controller.
type Console struct {
	*Queue

	lock sync.Mutex
	pty  *os.File
	tty  *os.File
}

func OpenConsole() (*Console, error) {
	p, t, err := pty.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open pty: %w", err)
	}
	return &Console{
		Queue: NewQueue(DefaultQueueLen),
		pty:   p,
		tty:   t,
	}, nil
}

func (c *Console) TTYName() string {
	return c.tty.Name()
}

// Loop pumps typed bytes into the queue until ctx is done.
func (c *Console) Loop(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		c.Close()
	}()
	err := c.Pump(ctx, c.pty)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (c *Console) Write(data []byte) (int, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.pty.Write(data)
}

func (c *Console) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.tty.Close()
	return c.pty.Close()
}
