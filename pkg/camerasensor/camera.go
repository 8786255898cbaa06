//go:build gocv

package camerasensor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	"gocv.io/x/gocv"
	"periph.io/x/periph/conn/gpio"

	"github.com/tigerbot-team/linefollower/pkg/linesensor"
)

var ErrNoFrame = errors.New("no frame from camera")

// Array reads a camera frame per LightMap call.  The optional LED pin lights the floor.
type Array struct {
	log  hclog.Logger
	band Band
	led  gpio.PinOut

	lock   sync.Mutex
	webcam *gocv.VideoCapture
	img    gocv.Mat
	grey   gocv.Mat
}

func New(log hclog.Logger, device int, led gpio.PinOut) (*Array, error) {
	webcam, err := gocv.VideoCaptureDevice(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open video capture device %d: %w", device, err)
	}
	webcam.Set(gocv.VideoCaptureFrameWidth, 320)
	webcam.Set(gocv.VideoCaptureFrameHeight, 240)
	return &Array{
		log:    log,
		band:   DefaultBand,
		led:    led,
		webcam: webcam,
		img:    gocv.NewMat(),
		grey:   gocv.NewMat(),
	}, nil
}

func (a *Array) LightMap() (linesensor.LightMap, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if ok := a.webcam.Read(&a.img); !ok || a.img.Empty() {
		return linesensor.LightMap{}, ErrNoFrame
	}
	gocv.CvtColor(a.img, &a.grey, gocv.ColorBGRToGray)

	rects := StripRects(a.grey.Cols(), a.grey.Rows(), a.band)
	means := make([]float64, len(rects))
	for i, r := range rects {
		region := a.grey.Region(r)
		means[i] = region.Mean().Val1
		region.Close()
	}
	return LightMapFromMeans(means), nil
}

func (a *Array) SetLED(on bool) {
	if a.led == nil {
		return
	}
	if err := a.led.Out(gpio.Level(on)); err != nil {
		a.log.Warn("Failed to set camera LED", "error", err)
	}
}

func (a *Array) Close() error {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.img.Close()
	a.grey.Close()
	return a.webcam.Close()
}
