//go:build gocv

package hardware

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"

	"github.com/tigerbot-team/linefollower/pkg/camerasensor"
)

func openCamera(log hclog.Logger, device int, ledPin string) (lightArray, error) {
	var led gpio.PinOut
	if ledPin != "" {
		p := gpioreg.ByName(ledPin)
		if p == nil {
			return nil, fmt.Errorf("no such pin %q for the camera LED", ledPin)
		}
		led = p
	}
	return camerasensor.New(log, device, led)
}
