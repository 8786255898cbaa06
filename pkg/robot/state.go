package robot

import "fmt"

type State int

const (
	Idle State = iota
	HardwareCheck
	Calibration
	LineFollowing
	BatteryLow
)

var AllStates = []State{Idle, HardwareCheck, Calibration, LineFollowing, BatteryLow}

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case HardwareCheck:
		return "HardwareCheck"
	case Calibration:
		return "Calibration"
	case LineFollowing:
		return "LineFollowing"
	case BatteryLow:
		return "BatteryLow"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Event int

const (
	NothingHappened Event = iota
	Button1Pressed
	Button2Pressed
	BatteryIsLow
)

var AllEvents = []Event{NothingHappened, Button1Pressed, Button2Pressed, BatteryIsLow}

func (e Event) String() string {
	switch e {
	case NothingHappened:
		return "NothingHappened"
	case Button1Pressed:
		return "Button1Pressed"
	case Button2Pressed:
		return "Button2Pressed"
	case BatteryIsLow:
		return "BatteryIsLow"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

type transition struct {
	from  State
	event Event
}

var transitions = map[transition]State{
	{Idle, Button1Pressed}: HardwareCheck,
	{Idle, Button2Pressed}: Calibration,
	{Idle, BatteryIsLow}:   BatteryLow,

	{HardwareCheck, NothingHappened}: Idle,
	{HardwareCheck, BatteryIsLow}:    BatteryLow,

	{Calibration, Button1Pressed}: LineFollowing,
	{Calibration, Button2Pressed}: Idle,
	{Calibration, BatteryIsLow}:   BatteryLow,

	{LineFollowing, Button2Pressed}:  Idle,
	{LineFollowing, BatteryIsLow}:    BatteryLow,
	{LineFollowing, NothingHappened}: Idle,

	{BatteryLow, NothingHappened}: Idle,
}

// Next returns the state that follows s on event e.  Pairs with no transition go back to
// Idle with ok false; the caller logs those.
func Next(s State, e Event) (next State, ok bool) {
	next, ok = transitions[transition{s, e}]
	if !ok {
		return Idle, false
	}
	return next, true
}
