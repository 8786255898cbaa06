package linesensor

import (
	"fmt"
)

// NumSensors is the number of light sensors across the array.
const NumSensors = 8

// DefaultThreshold is the minimum reading that counts as "line detected".
const DefaultThreshold = 1000

// LightMap holds one sample from each sensor.  Index 0 is the sensor on the robot's right, index
// 7 the one on its left, so a positive position means the line is to the right.  Higher values
// mean less reflected light, i.e. the (dark) line.
type LightMap [NumSensors]uint16

func (m LightMap) String() string {
	return fmt.Sprintf("%v", [NumSensors]uint16(m))
}

// positions is deliberately coarse; the two centre sensors both mean straight ahead.
var positions = [NumSensors]float64{1.0, 0.75, 0.5, 0.0, 0.0, -0.5, -0.75, -1.0}

// Estimate returns the line position in [-1, 1], or false if no sensor sees the line.
func Estimate(m LightMap) (float64, bool) {
	return EstimateWithThreshold(m, DefaultThreshold)
}

func EstimateWithThreshold(m LightMap, threshold uint16) (float64, bool) {
	idx := StrongestSensor(m)
	if m[idx] < threshold {
		return 0, false
	}
	return positions[idx], true
}

// StrongestSensor returns the index of the maximum reading.  On ties the lowest index wins.
func StrongestSensor(m LightMap) int {
	maxIdx := 0
	for i := 1; i < NumSensors; i++ {
		if m[i] > m[maxIdx] {
			maxIdx = i
		}
	}
	return maxIdx
}
