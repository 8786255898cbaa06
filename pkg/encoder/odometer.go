package encoder

// Odometer accumulates deltas from a pair of wheel trackers.
type Odometer struct {
	Left, Right *Tracker

	doneFirstPoll bool
	accumulator   [2]int64
}

func NewOdometer(left, right *Tracker) *Odometer {
	return &Odometer{
		Left:  left,
		Right: right,
	}
}

// Poll reads both trackers.  The first poll only syncs the trackers to the counters.
func (o *Odometer) Poll() (left, right int) {
	if !o.doneFirstPoll {
		o.Left.Reset()
		o.Right.Reset()
		o.doneFirstPoll = true
		return 0, 0
	}
	left = o.Left.Delta()
	right = o.Right.Delta()
	o.accumulator[0] += int64(left)
	o.accumulator[1] += int64(right)
	return
}

// AccumulatedSteps returns the total motion of each wheel since the last Zero.
func (o *Odometer) AccumulatedSteps() (left, right int64) {
	return o.accumulator[0], o.accumulator[1]
}

func (o *Odometer) Zero() {
	o.accumulator = [2]int64{}
}
