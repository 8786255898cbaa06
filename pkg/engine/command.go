package engine

import "fmt"

type CommandKind int

const (
	CommandStop CommandKind = iota
	CommandForward
	CommandLeft
	CommandRight
)

// Command is a single drive instruction, as decided by the controller on one tick.
type Command struct {
	Kind  CommandKind
	Duty  uint16
	Delta uint16
}

// Driver is anything that can carry out a Command; *Engine is the usual one.
type Driver interface {
	Forward(duty uint16)
	Left(duty, delta uint16)
	Right(duty, delta uint16)
	Stop()
}

func (c Command) Apply(d Driver) {
	switch c.Kind {
	case CommandForward:
		d.Forward(c.Duty)
	case CommandLeft:
		d.Left(c.Duty, c.Delta)
	case CommandRight:
		d.Right(c.Duty, c.Delta)
	default:
		d.Stop()
	}
}

func (c Command) String() string {
	switch c.Kind {
	case CommandForward:
		return fmt.Sprintf("forward(%d)", c.Duty)
	case CommandLeft:
		return fmt.Sprintf("left(%d, %d)", c.Duty, c.Delta)
	case CommandRight:
		return fmt.Sprintf("right(%d, %d)", c.Duty, c.Delta)
	default:
		return "stop"
	}
}
