package encoder

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
)

// QuadratureCounter counts edges on the A channel of a quadrature encoder, using the B channel
// for direction.  It behaves like a free-running hardware counter of the given width.
type QuadratureCounter struct {
	a, b gpio.PinIn
	mask uint32

	count uint32
}

var _ Source = (*QuadratureCounter)(nil)

func NewQuadratureCounter(pinA, pinB string, bits uint) (*QuadratureCounter, error) {
	a := gpioreg.ByName(pinA)
	if a == nil {
		return nil, fmt.Errorf("encoder: no such pin %q", pinA)
	}
	b := gpioreg.ByName(pinB)
	if b == nil {
		return nil, fmt.Errorf("encoder: no such pin %q", pinB)
	}
	if err := a.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("encoder: failed to configure %s: %w", pinA, err)
	}
	if err := b.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("encoder: failed to configure %s: %w", pinB, err)
	}
	return newQuadratureCounter(a, b, bits), nil
}

func newQuadratureCounter(a, b gpio.PinIn, bits uint) *QuadratureCounter {
	return &QuadratureCounter{
		a:    a,
		b:    b,
		mask: uint32((uint64(1) << bits) - 1),
	}
}

func (q *QuadratureCounter) Steps() uint32 {
	return atomic.LoadUint32(&q.count) & q.mask
}

// Loop waits for edges until the context is cancelled.
func (q *QuadratureCounter) Loop(ctx context.Context) {
	for ctx.Err() == nil {
		if !q.a.WaitForEdge(100 * time.Millisecond) {
			continue
		}
		q.onEdge(q.a.Read(), q.b.Read())
	}
}

func (q *QuadratureCounter) onEdge(a, b gpio.Level) {
	if a == b {
		atomic.AddUint32(&q.count, ^uint32(0))
	} else {
		atomic.AddUint32(&q.count, 1)
	}
}
