package battery

import (
	"errors"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var ErrNoReadings = errors.New("no battery readings yet")

const (
	DefaultSamples       = 10
	DefaultLowMillivolts = 4900
)

// Voltmeter is a single bus voltage reading; the INA219 is the one on the robot.
type Voltmeter interface {
	BusMillivolts() (int, error)
}

// Monitor smooths voltmeter readings and decides whether the battery needs charging.
type Monitor struct {
	log           hclog.Logger
	meter         Voltmeter
	Samples       int
	LowMillivolts int

	lock    sync.Mutex
	failing bool
}

func NewMonitor(log hclog.Logger, meter Voltmeter) *Monitor {
	return &Monitor{
		log:           log,
		meter:         meter,
		Samples:       DefaultSamples,
		LowMillivolts: DefaultLowMillivolts,
	}
}

// BatteryMillivolts averages Samples readings.  Failed readings are skipped; if every reading
// fails the result is 0.
func (m *Monitor) BatteryMillivolts() int {
	n := m.Samples
	if n < 1 {
		n = 1
	}
	var total, good int
	var lastErr error
	for i := 0; i < n; i++ {
		mv, err := m.meter.BusMillivolts()
		if err != nil {
			lastErr = err
			continue
		}
		total += mv
		good++
	}
	if good == 0 {
		m.noteFailure(lastErr)
		return 0
	}
	m.noteRecovery()
	if lastErr != nil {
		m.log.Debug("Some battery readings failed", "good", good, "of", n, "error", lastErr)
	}
	return total / good
}

// noteFailure warns when the battery first becomes unreadable; the controller polls every few
// milliseconds, so repeats go to debug.
func (m *Monitor) noteFailure(err error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.failing {
		m.log.Debug("Battery still unreadable", "error", err)
		return
	}
	m.failing = true
	m.log.Warn("All battery readings failed", "error", err)
}

func (m *Monitor) noteRecovery() {
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.failing {
		m.failing = false
		m.log.Info("Battery readings recovered")
	}
}

// IsBatteryLow reports false when the battery can't be read at all, so that a flaky
// monitor doesn't park the robot in the low battery state.
func (m *Monitor) IsBatteryLow() bool {
	mv := m.BatteryMillivolts()
	if mv == 0 {
		return false
	}
	return mv < m.LowMillivolts
}

// Window is a rolling average of the last N readings, for callers that sample the battery in
// the background.
type Window struct {
	lock     sync.Mutex
	readings []int
	next     int
	full     bool
}

func NewWindow(n int) *Window {
	if n < 1 {
		n = 1
	}
	return &Window{readings: make([]int, n)}
}

func (w *Window) Add(millivolts int) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.readings[w.next] = millivolts
	w.next++
	if w.next == len(w.readings) {
		w.next = 0
		w.full = true
	}
}

// BusMillivolts returns the average so far; an error until the first reading arrives.
func (w *Window) BusMillivolts() (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	n := w.next
	if w.full {
		n = len(w.readings)
	}
	if n == 0 {
		return 0, ErrNoReadings
	}
	total := 0
	for _, r := range w.readings[:n] {
		total += r
	}
	return total / n, nil
}
