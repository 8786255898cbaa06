package robot

import (
	"time"

	"github.com/tigerbot-team/linefollower/pkg/buzzer"
	"github.com/tigerbot-team/linefollower/pkg/linesensor"
)

// Params are the controller's tunables.  The defaults suit the standard chassis and sensor array.
type Params struct {
	// PollInterval is the delay between polls while waiting for input.
	PollInterval time.Duration

	Duty      uint16
	Delta     uint16
	Threshold uint16
	// FollowTick is the line following control period.
	FollowTick time.Duration

	PreRollTicks    int
	PreRollInterval time.Duration

	CheckToggles        int
	CheckToggleInterval time.Duration

	BeepHz       float64
	BeepDuration time.Duration
	BeepGap      time.Duration

	CalibrationSettle time.Duration
	CalibrationWindow time.Duration

	AlertLowHz        float64
	AlertHighHz       float64
	AlertNoteDuration time.Duration
	AlertPause        time.Duration
}

func DefaultParams() Params {
	return Params{
		PollInterval: 5 * time.Millisecond,

		Duty:       15000,
		Delta:      2000,
		Threshold:  linesensor.DefaultThreshold,
		FollowTick: 50 * time.Millisecond,

		PreRollTicks:    90,
		PreRollInterval: 50 * time.Millisecond,

		CheckToggles:        5,
		CheckToggleInterval: 100 * time.Millisecond,

		BeepHz:       buzzer.BeepHz,
		BeepDuration: 100 * time.Millisecond,
		BeepGap:      50 * time.Millisecond,

		CalibrationSettle: 2 * time.Second,
		CalibrationWindow: 3 * time.Second,

		AlertLowHz:        buzzer.NoteD,
		AlertHighHz:       buzzer.NoteF,
		AlertNoteDuration: 2 * time.Second,
		AlertPause:        1500 * time.Millisecond,
	}
}
