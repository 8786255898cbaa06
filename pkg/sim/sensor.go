package sim

import (
	"math"
	"math/rand"

	"github.com/tigerbot-team/linefollower/pkg/linesensor"
)

const maxReading = 4095

// Readings simulates the light array with the robot at x and the line centred at lineX.
// Sensor 0 is on the robot's right, so a line under sensor 0 is to the robot's right.
func Readings(p Params, rng *rand.Rand, x, lineX float64, lineVisible, lit bool) linesensor.LightMap {
	var m linesensor.LightMap
	for i := range m {
		sensorX := x + (float64(linesensor.NumSensors-1)/2-float64(i))*p.SensorSpacing
		distance := math.Abs(sensorX - lineX)

		raw := float64(p.FloorValue)
		if lineVisible {
			if distance < p.LineHalfWidth {
				raw = float64(p.LineValue)
			} else if distance < p.EdgeHalfWidth {
				raw = float64(p.EdgeValue)
			}
		}
		if !lit {
			raw *= p.UnlitFraction
		}
		if p.Noise > 0 {
			raw += float64(rng.Intn(2*p.Noise+1) - p.Noise)
		}
		m[i] = uint16(math.Max(0, math.Min(maxReading, math.Round(raw))))
	}
	return m
}
