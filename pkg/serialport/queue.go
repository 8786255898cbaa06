package serialport

import (
	"context"
	"io"
	"sync"
)

// DefaultQueueLen bounds the bytes held for the controller; a flood of input drops the oldest.
const DefaultQueueLen = 64

// Queue holds received bytes until the control loop polls for them.
type Queue struct {
	lock    sync.Mutex
	buf     []byte
	max     int
	dropped int
}

func NewQueue(max int) *Queue {
	if max < 1 {
		max = DefaultQueueLen
	}
	return &Queue{max: max}
}

func (q *Queue) Push(data []byte) {
	q.lock.Lock()
	defer q.lock.Unlock()
	q.buf = append(q.buf, data...)
	if over := len(q.buf) - q.max; over > 0 {
		q.buf = q.buf[over:]
		q.dropped += over
	}
}

// TryReadByte never blocks; ok is false when nothing is waiting.
func (q *Queue) TryReadByte() (b byte, ok bool) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if len(q.buf) == 0 {
		return 0, false
	}
	b = q.buf[0]
	q.buf = q.buf[1:]
	return b, true
}

func (q *Queue) Dropped() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return q.dropped
}

// Pump copies r into the queue until r fails or ctx is done.  Reads that return no data
// (a read timeout) just go round again.
func (q *Queue) Pump(ctx context.Context, r io.Reader) error {
	buf := make([]byte, 32)
	for ctx.Err() == nil {
		n, err := r.Read(buf)
		if n > 0 {
			q.Push(buf[:n])
		}
		if err != nil {
			return err
		}
	}
	return ctx.Err()
}
