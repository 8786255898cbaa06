package encoder

import "fmt"

// Source is a free-running step counter, for example a timer in encoder mode.  Only the low
// Bits of the returned value are significant.
type Source interface {
	Steps() uint32
}

// Tracker turns a wrapping counter into signed deltas.  The counter is Bits wide and wraps
// modulo 2^Bits.  Deltas are only unambiguous if the wheel moves less than half the counter's
// range (2^(Bits-1) steps) between calls to Delta; poll often enough to guarantee that.
type Tracker struct {
	src  Source
	bits uint
	mask uint32

	lastSteps uint32
}

func NewTracker(src Source, bits uint) *Tracker {
	if bits == 0 || bits > 32 {
		panic(fmt.Sprintf("encoder: unsupported counter width %d", bits))
	}
	return &Tracker{
		src:  src,
		bits: bits,
		mask: uint32((uint64(1) << bits) - 1),
	}
}

func (t *Tracker) Bits() uint {
	return t.bits
}

// Delta returns the number of steps moved since the previous call, negative for backwards
// motion.
func (t *Tracker) Delta() int {
	steps := t.src.Steps() & t.mask
	delta := deltaSteps(steps, t.lastSteps, t.bits)
	t.lastSteps = steps
	return int(delta)
}

// Reset discards any motion since the last call to Delta.
func (t *Tracker) Reset() {
	t.lastSteps = t.src.Steps() & t.mask
}

func deltaSteps(steps, last uint32, bits uint) int64 {
	delta := int64(steps) - int64(last)

	// Differing top bits mean the counter may have wrapped.  It only actually wrapped if the
	// naive delta is at least half the range; otherwise we just crossed the midpoint.
	msb := uint32(1) << (bits - 1)
	half := int64(msb)
	if steps&msb != last&msb && (delta >= half || delta <= -half) {
		if steps > last {
			// Apparent forward jump was really backwards past zero.
			delta -= int64(1) << bits
		} else {
			// Apparent backward jump was really forwards past the max.
			delta += int64(1) << bits
		}
	}
	return delta
}
