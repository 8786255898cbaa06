//go:build !gocv

package hardware

import (
	"errors"

	"github.com/hashicorp/go-hclog"
)

func openCamera(log hclog.Logger, device int, ledPin string) (lightArray, error) {
	return nil, errors.New("camera light array needs a build with -tags gocv")
}
