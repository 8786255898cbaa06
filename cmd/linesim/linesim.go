package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/fogleman/gg"
	"github.com/urfave/cli"

	"github.com/tigerbot-team/linefollower/pkg/hw"
	"github.com/tigerbot-team/linefollower/pkg/logging"
	"github.com/tigerbot-team/linefollower/pkg/robot"
	"github.com/tigerbot-team/linefollower/pkg/serialport"
	"github.com/tigerbot-team/linefollower/pkg/sim"
)

// Runs one lap of the simulated track, as fast as possible, and reports how closely the
// controller tracked the line.

func main() {
	app := cli.NewApp()
	app.Name = "linesim"
	app.Usage = "follow the simulated line once and report"
	app.Flags = []cli.Flag{
		cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "sensor noise seed",
		},
		cli.StringFlag{
			Name:  "png",
			Usage: "write the path taken to this file",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "warn",
		},
	}
	app.Action = func(c *cli.Context) error {
		return lap(c.Int64("seed"), c.String("png"), c.String("log-level"))
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type sample struct {
	s, x, lineX float64
}

type sampler struct {
	hw.Clock
	world   *sim.World
	samples []sample
	next    time.Duration
}

func (s *sampler) Sleep(d time.Duration) {
	s.Clock.Sleep(d)
	snap := s.world.Snapshot()
	if snap.Elapsed < s.next {
		return
	}
	s.next = snap.Elapsed + 100*time.Millisecond
	s.samples = append(s.samples, sample{snap.Travelled, snap.X, snap.LineX})
}

func lap(seed int64, pngFile, level string) error {
	p := sim.DefaultParams()
	p.Seed = seed
	w := sim.NewWorld(p)
	serial := serialport.NewQueue(serialport.DefaultQueueLen)
	r, h := sim.NewRobot(logging.New("linesim", level), w, serial, false)
	smp := &sampler{Clock: r.Clock, world: w}
	h.Clock = smp

	// Skip the pre-roll.
	serial.Push([]byte("1"))
	e := robot.New(h, robot.DefaultParams()).Run(robot.LineFollowing)

	worst := 0.0
	for i, s := range smp.samples {
		if s.s >= p.TrackLength {
			break
		}
		errX := s.x - s.lineX
		worst = math.Max(worst, math.Abs(errX))
		if i%10 == 0 {
			fmt.Printf("s=%6.1f x=%6.2f line=%6.2f error=%+5.2f\n", s.s, s.x, s.lineX, errX)
		}
	}
	snap := w.Snapshot()
	fmt.Printf("Finished with %v after %v: travelled %.1f of %.1f, worst error %.2f, battery %dmV\n",
		e, snap.Elapsed, snap.Travelled, p.TrackLength, worst, snap.Millivolts)

	if pngFile != "" {
		return draw(pngFile, p, smp.samples)
	}
	return nil
}

func draw(file string, p sim.Params, samples []sample) error {
	const (
		width  = 1200
		height = 300
	)
	scaleS := width / p.TrackLength
	scaleX := height / (4 * p.TrackAmplitude)
	toY := func(x float64) float64 {
		return height/2 - x*scaleX
	}

	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2 * p.LineHalfWidth * scaleX)
	for i, s := range samples {
		if i == 0 {
			dc.MoveTo(s.s*scaleS, toY(s.lineX))
		} else {
			dc.LineTo(s.s*scaleS, toY(s.lineX))
		}
	}
	dc.Stroke()

	dc.SetRGB(1, 0, 0)
	dc.SetLineWidth(1)
	for i, s := range samples {
		if i == 0 {
			dc.MoveTo(s.s*scaleS, toY(s.x))
		} else {
			dc.LineTo(s.s*scaleS, toY(s.x))
		}
	}
	dc.Stroke()

	return dc.SavePNG(file)
}
