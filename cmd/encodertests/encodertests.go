package main

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/periph/host"

	"github.com/tigerbot-team/linefollower/pkg/config"
	"github.com/tigerbot-team/linefollower/pkg/encoder"
)

// Prints wheel movement; turn the wheels by hand.
func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Println("Bad config", err)
		return
	}
	if _, err := host.Init(); err != nil {
		fmt.Println("Failed to init periph", err)
		return
	}

	bits := cfg.Hardware.EncoderBits
	left, err := encoder.NewQuadratureCounter(cfg.Hardware.LeftEncoder.PinA, cfg.Hardware.LeftEncoder.PinB, bits)
	if err != nil {
		fmt.Println("Failed to open left encoder", err)
		return
	}
	right, err := encoder.NewQuadratureCounter(cfg.Hardware.RightEncoder.PinA, cfg.Hardware.RightEncoder.PinB, bits)
	if err != nil {
		fmt.Println("Failed to open right encoder", err)
		return
	}
	ctx := context.Background()
	go left.Loop(ctx)
	go right.Loop(ctx)

	odo := encoder.NewOdometer(encoder.NewTracker(left, bits), encoder.NewTracker(right, bits))
	for range time.NewTicker(200 * time.Millisecond).C {
		l, r := odo.Poll()
		totalL, totalR := odo.AccumulatedSteps()
		fmt.Printf("Delta L=%5d R=%5d  Total L=%8d R=%8d  Raw L=%#x R=%#x\n",
			l, r, totalL, totalR, left.Steps(), right.Steps())
	}
}
