package sim

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/tigerbot-team/linefollower/pkg/engine"
	"github.com/tigerbot-team/linefollower/pkg/linesensor"
)

type wheel struct {
	dir  engine.Direction
	duty uint16
	// steps is the unwrapped encoder count.
	steps float64
}

func (w *wheel) speed(maxSpeed float64) float64 {
	v := float64(w.duty) / engine.DutyMax * maxSpeed
	if w.dir == engine.Backward {
		return -v
	}
	return v
}

// World is a robot on a sinusoidal track.  Time only moves when Advance is called.
type World struct {
	lock   sync.Mutex
	params Params
	rng    *rand.Rand

	start   time.Time
	elapsed time.Duration

	x         float64
	travelled float64
	left      wheel
	right     wheel
	ledOn     bool

	millivolts float64
	lowFor     time.Duration
	swaps      int
}

type Snapshot struct {
	Elapsed    time.Duration
	X          float64
	LineX      float64
	Travelled  float64
	LeftDuty   uint16
	RightDuty  uint16
	Millivolts int
	LEDOn      bool
	Swaps      int
}

func NewWorld(p Params) *World {
	return &World{
		params:     p,
		rng:        rand.New(rand.NewSource(p.Seed)),
		start:      time.Now(),
		millivolts: float64(p.BatteryStartMillivolts),
	}
}

func (w *World) Params() Params {
	return w.params
}

// LineX is the line's sideways position after travelling s units.
func (w *World) LineX(s float64) float64 {
	return w.params.TrackAmplitude * math.Sin(2*math.Pi*s/w.params.TrackWavelength)
}

func (w *World) Now() time.Time {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.start.Add(w.elapsed)
}

func (w *World) Advance(dt time.Duration) {
	w.lock.Lock()
	defer w.lock.Unlock()

	secs := dt.Seconds()
	vl := w.left.speed(w.params.MaxSpeed)
	vr := w.right.speed(w.params.MaxSpeed)

	w.travelled += (vl + vr) / 2 * secs
	// Left wheel faster moves the robot right.
	w.x += w.params.TurnGain * (vl - vr) * secs
	w.left.steps += vl * secs * w.params.StepsPerUnit
	w.right.steps += vr * secs * w.params.StepsPerUnit

	load := (math.Abs(vl) + math.Abs(vr)) / (2 * w.params.MaxSpeed)
	w.millivolts -= w.params.BatteryDrain * load * secs
	if w.millivolts < float64(w.params.BatteryLowMillivolts) {
		w.lowFor += dt
		if w.params.BatterySwapAfter > 0 && w.lowFor >= w.params.BatterySwapAfter {
			w.millivolts = float64(w.params.BatteryStartMillivolts)
			w.lowFor = 0
			w.swaps++
		}
	} else {
		w.lowFor = 0
	}

	w.elapsed += dt
}

func (w *World) LightMap() (linesensor.LightMap, error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	visible := w.travelled < w.params.TrackLength
	return Readings(w.params, w.rng, w.x, w.LineX(w.travelled), visible, w.ledOn), nil
}

func (w *World) SetLED(on bool) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.ledOn = on
}

// BusMillivolts is the battery voltage, with a little noise.
func (w *World) BusMillivolts() (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	return int(math.Round(w.millivolts)) + w.rng.Intn(9) - 4, nil
}

// SetBatteryMillivolts replaces the battery.
func (w *World) SetBatteryMillivolts(mv int) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.millivolts = float64(mv)
	w.lowFor = 0
}

// MoveTo puts the robot sideways at x, for setting up tests.
func (w *World) MoveTo(x float64) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.x = x
}

func (w *World) Snapshot() Snapshot {
	w.lock.Lock()
	defer w.lock.Unlock()
	return Snapshot{
		Elapsed:    w.elapsed,
		X:          w.x,
		LineX:      w.LineX(w.travelled),
		Travelled:  w.travelled,
		LeftDuty:   w.left.duty,
		RightDuty:  w.right.duty,
		Millivolts: int(math.Round(w.millivolts)),
		LEDOn:      w.ledOn,
		Swaps:      w.swaps,
	}
}

func (w *World) LeftMotor() engine.Motor {
	return &motor{w: w, wheel: &w.left}
}

func (w *World) RightMotor() engine.Motor {
	return &motor{w: w, wheel: &w.right}
}

func (w *World) LeftCounter() *Counter {
	return &Counter{w: w, wheel: &w.left}
}

func (w *World) RightCounter() *Counter {
	return &Counter{w: w, wheel: &w.right}
}

type motor struct {
	w     *World
	wheel *wheel
}

func (m *motor) SetDirection(d engine.Direction) {
	m.w.lock.Lock()
	defer m.w.lock.Unlock()
	m.wheel.dir = d
}

func (m *motor) SetDuty(duty uint16) {
	m.w.lock.Lock()
	defer m.w.lock.Unlock()
	m.wheel.duty = duty
}

// Counter is a wheel's free-running encoder counter.
type Counter struct {
	w     *World
	wheel *wheel
}

func (c *Counter) Steps() uint32 {
	c.w.lock.Lock()
	defer c.w.lock.Unlock()
	return uint32(int64(math.Round(c.wheel.steps)))
}
