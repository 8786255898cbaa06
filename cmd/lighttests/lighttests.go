package main

import (
	"fmt"
	"time"

	"github.com/tigerbot-team/linefollower/pkg/config"
	"github.com/tigerbot-team/linefollower/pkg/linesensor"
	"github.com/tigerbot-team/linefollower/pkg/logging"
)

// Prints the light map and the line position; slide the robot across a line.
func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Println("Bad config", err)
		return
	}
	log := logging.New("light", cfg.LogLevel)

	array, err := linesensor.NewMCP3008(log, cfg.Hardware.LightSPI, cfg.Hardware.LightLEDPin)
	if err != nil {
		fmt.Println("Failed to open light sensor array", err)
		return
	}
	defer array.Close()
	array.SetLED(true)
	defer array.SetLED(false)

	for range time.NewTicker(100 * time.Millisecond).C {
		m, err := array.LightMap()
		if err != nil {
			fmt.Println("Read failed", err)
			continue
		}
		pos, ok := linesensor.EstimateWithThreshold(m, cfg.Robot.Threshold)
		if !ok {
			fmt.Printf("%v  no line\n", m)
			continue
		}
		fmt.Printf("%v  position=%+.2f strongest=%d\n", m, pos, linesensor.StrongestSensor(m))
	}
}
