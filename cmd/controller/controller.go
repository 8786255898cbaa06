package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/urfave/cli"

	"github.com/tigerbot-team/linefollower/pkg/config"
	"github.com/tigerbot-team/linefollower/pkg/hardware"
	"github.com/tigerbot-team/linefollower/pkg/hw"
	"github.com/tigerbot-team/linefollower/pkg/logging"
	"github.com/tigerbot-team/linefollower/pkg/robot"
	"github.com/tigerbot-team/linefollower/pkg/serialport"
	"github.com/tigerbot-team/linefollower/pkg/sim"
)

func main() {
	app := cli.NewApp()
	app.Name = "controller"
	app.Usage = "follow a line"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "config",
			Value:  config.DefaultPath,
			Usage:  "YAML config file, overlaid on the defaults",
			EnvVar: "LINEFOLLOWER_CONFIG",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "trace, debug, info, warn or error; overrides the config file",
			EnvVar: "LOG_LEVEL",
		},
		cli.BoolFlag{
			Name:   "sim",
			Usage:  "drive a simulated robot; commands are read from a pseudo-terminal",
			EnvVar: "LINEFOLLOWER_SIM",
		},
	}
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	fmt.Println("---- Line follower ----")
	fmt.Println("GOMAXPROCS", runtime.GOMAXPROCS(0))

	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return err
	}
	if lvl := c.GlobalString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	// Our global context, we cancel it to trigger shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var robotHW *hw.Hardware
	if c.GlobalBool("sim") {
		console, err := serialport.OpenConsole()
		if err != nil {
			return err
		}
		defer console.Close()
		fmt.Println("Serial console:", console.TTYName())
		go func() {
			if err := console.Loop(ctx); err != nil {
				fmt.Println("Console failed:", err)
			}
		}()

		logger := logging.New("controller", cfg.LogLevel, console)
		_, robotHW = sim.NewRobot(logger, sim.NewWorld(cfg.Sim), console, true)
		registerSignalHandlers(cancel, robotHW.Drive)
	} else {
		port := &lateWriter{}
		logger := logging.New("controller", cfg.LogLevel, port)
		h, err := hardware.New(logger, cfg.Hardware)
		if err != nil {
			return err
		}
		port.w = h.Serial()
		defer func() {
			fmt.Println("Zeroing motors for shut down")
			h.Shutdown()
			time.Sleep(100 * time.Millisecond)
		}()
		h.Start(ctx)
		robotHW = h.Robot()
		registerSignalHandlers(cancel, robotHW.Drive)
	}

	robot.New(robotHW, cfg.Robot).Loop(ctx)
	return nil
}

// lateWriter lets the logger be created before the port it copies to.
type lateWriter struct {
	w io.Writer
}

func (l *lateWriter) Write(data []byte) (int, error) {
	if l.w == nil {
		return len(data), nil
	}
	return l.w.Write(data)
}

func registerSignalHandlers(cancelFunc context.CancelFunc, drive hw.Drive) {
	// Hook Ctrl-C to cause shut down.  The controller only notices between states, so stop
	// the wheels here too.
	signals := make(chan os.Signal, 2)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		s := <-signals
		log.Println("Signal: ", s)
		cancelFunc()
		drive.Stop()
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}()
}
