package main

import (
	"fmt"
	"time"

	"github.com/tigerbot-team/linefollower/pkg/battery"
	"github.com/tigerbot-team/linefollower/pkg/config"
	"github.com/tigerbot-team/linefollower/pkg/ina219"
	"github.com/tigerbot-team/linefollower/pkg/logging"
)

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Println("Bad config", err)
		return
	}
	hwCfg := cfg.Hardware

	monitor, err := ina219.NewI2C(hwCfg.I2CBus, hwCfg.BatteryAddr)
	if err != nil {
		fmt.Println("Failed to open INA219", err)
		return
	}
	err = monitor.Configure(hwCfg.ShuntOhms, hwCfg.MaxCurrent)
	if err != nil {
		fmt.Println("Failed to configure INA219", err)
		return
	}

	m := battery.NewMonitor(logging.New("battery", cfg.LogLevel), monitor)
	m.Samples = hwCfg.BatterySamples
	m.LowMillivolts = hwCfg.LowMillivolts

	for range time.NewTicker(500 * time.Millisecond).C {
		mv, err := monitor.BusMillivolts()
		fmt.Printf("Bus: %dmV %v ", mv, err)
		current, err := monitor.ReadCurrent()
		fmt.Printf("%.3fA %v ", current, err)
		fmt.Printf("Average: %dmV low=%v\n", m.BatteryMillivolts(), m.IsBatteryLow())
	}
}
