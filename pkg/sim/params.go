package sim

import (
	"time"

	"github.com/tigerbot-team/linefollower/pkg/battery"
)

type Params struct {
	// Sensor readings over the line, near its edge, and over bare floor, with the array lit.
	LineValue  uint16
	EdgeValue  uint16
	FloorValue uint16
	// Readings are perturbed by up to ±Noise.
	Noise int
	// UnlitFraction scales readings when the array's LED is off.
	UnlitFraction float64

	// Distances are in arbitrary track units.
	SensorSpacing float64
	LineHalfWidth float64
	EdgeHalfWidth float64

	// MaxSpeed is wheel speed at full duty, in units/s.
	MaxSpeed float64
	// TurnGain converts the wheel speed difference into sideways speed.
	TurnGain float64

	TrackAmplitude  float64
	TrackWavelength float64
	// The line ends after TrackLength units.
	TrackLength float64

	StepsPerUnit float64
	EncoderBits  uint

	BatteryStartMillivolts int
	// BatteryDrain is mV/s with both wheels at full duty.
	BatteryDrain         float64
	BatteryLowMillivolts int
	// BatterySwapAfter is how long the battery stays low before someone changes it.  Zero
	// means never.
	BatterySwapAfter time.Duration

	Seed int64
}

func DefaultParams() Params {
	return Params{
		LineValue:     2800,
		EdgeValue:     1500,
		FloorValue:    200,
		Noise:         50,
		UnlitFraction: 0.1,

		SensorSpacing: 2,
		LineHalfWidth: 2,
		EdgeHalfWidth: 4,

		MaxSpeed: 100,
		TurnGain: 4,

		TrackAmplitude:  6,
		TrackWavelength: 200,
		TrackLength:     600,

		StepsPerUnit: 10,
		EncoderBits:  16,

		BatteryStartMillivolts: 5400,
		BatteryDrain:           1,
		BatteryLowMillivolts:   battery.DefaultLowMillivolts,
		BatterySwapAfter:       10 * time.Second,

		Seed: 1,
	}
}
