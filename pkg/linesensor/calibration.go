package linesensor

import "errors"

var ErrNoSamples = errors.New("no calibration samples")

// Calibration is the per-sensor spread seen while sweeping the array over the line.
type Calibration struct {
	Min       LightMap
	Max       LightMap
	Threshold LightMap
}

// ProcessCalibration computes the min and max of each sensor across the samples, and a
// threshold half way between them.
func ProcessCalibration(samples []LightMap) (Calibration, error) {
	var c Calibration
	if len(samples) == 0 {
		return c, ErrNoSamples
	}

	c.Min = samples[0]
	c.Max = samples[0]
	for _, s := range samples[1:] {
		for i, v := range s {
			if v < c.Min[i] {
				c.Min[i] = v
			}
			if v > c.Max[i] {
				c.Max[i] = v
			}
		}
	}
	for i := range c.Threshold {
		c.Threshold[i] = uint16((uint32(c.Min[i]) + uint32(c.Max[i])) / 2)
	}
	return c, nil
}
