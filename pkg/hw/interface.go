package hw

import (
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/tigerbot-team/linefollower/pkg/linesensor"
)

// Hardware is everything a state handler may touch.  Display and the encoders are optional
// and may be nil.
type Hardware struct {
	Battery Battery
	Button1 Button
	Button2 Button
	Serial  SerialSource
	Light   LightSensorArray
	Drive   Drive
	LED1    Indicator
	LED2    Indicator
	Buzzer  Buzzer

	Display      Display
	LeftEncoder  Encoder
	RightEncoder Encoder

	Clock Clock
	Log   hclog.Logger
}

type Battery interface {
	IsBatteryLow() bool
	BatteryMillivolts() int
}

type Button interface {
	IsPressed() bool
}

type SerialSource interface {
	// TryReadByte must not block.
	TryReadByte() (byte, bool)
}

type LightSensorArray interface {
	LightMap() (linesensor.LightMap, error)
	// SetLED switches the array's illumination.
	SetLED(on bool)
}

type Drive interface {
	Forward(duty uint16)
	Left(duty, delta uint16)
	Right(duty, delta uint16)
	Stop()
}

type Indicator interface {
	Set(on bool)
	Toggle()
}

type Buzzer interface {
	TurnOn()
	TurnOff()
	SetFrequency(hz float64)
}

type Display interface {
	Show(title string, lines []string)
}

type Encoder interface {
	Delta() int
}

type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// WallClock is the real clock.
type WallClock struct{}

func (WallClock) Now() time.Time {
	return time.Now()
}

func (WallClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
