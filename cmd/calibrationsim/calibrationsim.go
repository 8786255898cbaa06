package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/tigerbot-team/linefollower/pkg/linesensor"
	"github.com/tigerbot-team/linefollower/pkg/robot"
	"github.com/tigerbot-team/linefollower/pkg/sim"
)

// Sweeps the simulated array back and forth across the line for ten seconds and prints what
// calibration would make of it.
func main() {
	p := sim.DefaultParams()
	params := robot.DefaultParams()
	rng := rand.New(rand.NewSource(p.Seed))

	// The array is 7 sensor spacings wide; sweep a little beyond each end.
	amplitude := 4.5 * p.SensorSpacing

	var samples []linesensor.LightMap
	for t := time.Duration(0); t < 10*time.Second; t += params.PollInterval {
		x := amplitude * math.Sin(2*t.Seconds())
		samples = append(samples, sim.Readings(p, rng, x, 0, true, true))
	}

	cal, err := linesensor.ProcessCalibration(samples)
	if err != nil {
		fmt.Println("Calibration failed:", err)
		return
	}
	fmt.Printf("Samples:   %d\n", len(samples))
	fmt.Printf("Min:       %v\n", cal.Min)
	fmt.Printf("Max:       %v\n", cal.Max)
	fmt.Printf("Threshold: %v\n", cal.Threshold)
	fmt.Printf("Default threshold %d\n", linesensor.DefaultThreshold)
}
