package engine

// DutyMax is full speed.
const DutyMax = 65535

type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Motor is one wheel.
type Motor interface {
	SetDirection(d Direction)
	SetDuty(duty uint16)
}

// Engine drives a pair of wheels differentially.  Every call sets direction then duty on both
// wheels, so it is safe to call on every control tick whatever the previous command was.
type Engine struct {
	left, right Motor
}

func New(left, right Motor) *Engine {
	return &Engine{left: left, right: right}
}

func (e *Engine) Forward(duty uint16) {
	e.set(Forward, duty, Forward, duty)
}

func (e *Engine) Backward(duty uint16) {
	e.set(Backward, duty, Backward, duty)
}

// Left turns left by slowing the left wheel by delta.
func (e *Engine) Left(duty, delta uint16) {
	e.set(Forward, slowed(duty, delta), Forward, duty)
}

// Right turns right by slowing the right wheel by delta.
func (e *Engine) Right(duty, delta uint16) {
	e.set(Forward, duty, Forward, slowed(duty, delta))
}

func (e *Engine) Stop() {
	e.left.SetDuty(0)
	e.right.SetDuty(0)
}

func (e *Engine) set(leftDir Direction, leftDuty uint16, rightDir Direction, rightDuty uint16) {
	e.left.SetDirection(leftDir)
	e.left.SetDuty(leftDuty)
	e.right.SetDirection(rightDir)
	e.right.SetDuty(rightDuty)
}

// slowed clamps at zero rather than wrapping when delta > duty.
func slowed(duty, delta uint16) uint16 {
	if delta > duty {
		return 0
	}
	return duty - delta
}
