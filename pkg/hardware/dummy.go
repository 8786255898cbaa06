package hardware

import (
	"fmt"
	"os"

	"github.com/tigerbot-team/linefollower/pkg/linesensor"
)

// ignoreMissing reports whether IGNORE_MISSING_<name>=true is set, in which case the caller
// substitutes a dummy for the device that failed to open.
func ignoreMissing(name string, err error) bool {
	fmt.Printf("Failed to open %s: %v.\n", name, err)
	if os.Getenv("IGNORE_MISSING_"+name) != "true" {
		return false
	}
	fmt.Printf("Using dummy %s\n", name)
	return true
}

// dummyLightArray never sees a line, so the robot stays put.
type dummyLightArray struct {
	led bool
}

func (d *dummyLightArray) LightMap() (linesensor.LightMap, error) {
	return linesensor.LightMap{}, nil
}

func (d *dummyLightArray) SetLED(on bool) {
	if on != d.led {
		fmt.Printf("DHW: Light array LED %v\n", on)
	}
	d.led = on
}
