package joystick

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Reads the Linux joystick API (/dev/input/jsN).  The gamepad acts as a remote for the
// robot's two buttons.

type EventType uint8

const (
	EventTypeButton = 1
	EventTypeAxis   = 2
	// Set on the synthetic events sent when the device is opened.
	eventTypeInit = 0x80
)

const (
	ButtonCross    = 0
	ButtonCircle   = 1
	ButtonTriangle = 2
	ButtonSquare   = 3

	DefaultDevice = "/dev/input/js0"

	maxButtons = 16
)

func (e EventType) String() string {
	switch e {
	case EventTypeAxis:
		return "axis"
	case EventTypeButton:
		return "button"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

type rawEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

type Event struct {
	Time   time.Time
	Value  int16
	Type   EventType
	Number uint8
}

func (e *Event) String() string {
	return fmt.Sprintf("%v(%v)=%v", e.Type, e.Number, e.Value)
}

type Joystick struct {
	log    hclog.Logger
	device io.ReadCloser

	deviceEpoch    uint32
	wallclockEpoch time.Time

	lock    sync.Mutex
	pressed [maxButtons]bool
}

func Open(log hclog.Logger, device string) (*Joystick, error) {
	f, err := os.Open(device)
	if err != nil {
		return nil, err
	}
	return New(log, f), nil
}

func New(log hclog.Logger, device io.ReadCloser) *Joystick {
	return &Joystick{
		log:    log,
		device: device,
	}
}

func (j *Joystick) ReadEvent() (*Event, error) {
	var raw rawEvent
	err := binary.Read(j.device, binary.LittleEndian, &raw)
	if err != nil {
		return nil, err
	}

	if j.deviceEpoch == 0 {
		j.deviceEpoch = raw.Time
		j.wallclockEpoch = time.Now()
	}

	return &Event{
		Time:   j.wallclockEpoch.Add(time.Duration(raw.Time-j.deviceEpoch) * time.Millisecond),
		Value:  raw.Value,
		Type:   EventType(raw.Type &^ eventTypeInit),
		Number: raw.Number,
	}, nil
}

// Loop tracks button state until the device fails or ctx is done.
func (j *Joystick) Loop(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		j.device.Close()
	}()
	for {
		e, err := j.ReadEvent()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		j.apply(e)
	}
}

func (j *Joystick) apply(e *Event) {
	if e.Type != EventTypeButton || int(e.Number) >= maxButtons {
		return
	}
	j.lock.Lock()
	defer j.lock.Unlock()
	j.pressed[e.Number] = e.Value != 0
	j.log.Trace("Joystick button", "number", e.Number, "pressed", e.Value != 0)
}

func (j *Joystick) IsPressed(number int) bool {
	j.lock.Lock()
	defer j.lock.Unlock()
	if number < 0 || number >= maxButtons {
		return false
	}
	return j.pressed[number]
}

// Button is one gamepad button as a robot button.
func (j *Joystick) Button(number int) *Button {
	return &Button{j: j, number: number}
}

func (j *Joystick) Close() error {
	return j.device.Close()
}

type Button struct {
	j      *Joystick
	number int
}

func (b *Button) IsPressed() bool {
	return b.j.IsPressed(b.number)
}
