// Package camerasensor stands a downward-looking camera in for the light sensor array.  The
// camera driver needs OpenCV and is only built with the gocv tag.
package camerasensor

import (
	"image"

	"github.com/tigerbot-team/linefollower/pkg/linesensor"
)

// Band is the horizontal strip of the frame that is sampled, as fractions of the height.
type Band struct {
	Top, Bottom float64
}

var DefaultBand = Band{Top: 0.6, Bottom: 0.8}

// StripRects splits the band of a w x h frame into one rectangle per sensor, left to right
// in the image.
func StripRects(w, h int, band Band) []image.Rectangle {
	top := int(band.Top * float64(h))
	bottom := int(band.Bottom * float64(h))
	if bottom <= top {
		bottom = top + 1
	}
	rects := make([]image.Rectangle, linesensor.NumSensors)
	for i := range rects {
		x0 := i * w / linesensor.NumSensors
		x1 := (i + 1) * w / linesensor.NumSensors
		rects[i] = image.Rect(x0, top, x1, bottom)
	}
	return rects
}

// LightMapFromMeans converts mean grey levels (0-255) of the strips, image left to right,
// into sensor readings.  A dark line reads high, like the reflectance sensors.  The image's
// left is the robot's left, which is the high end of the sensor array.
func LightMapFromMeans(means []float64) linesensor.LightMap {
	var m linesensor.LightMap
	for i := 0; i < linesensor.NumSensors && i < len(means); i++ {
		v := means[i]
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		m[linesensor.NumSensors-1-i] = uint16((255 - v) * 4095 / 255)
	}
	return m
}
