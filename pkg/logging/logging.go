package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// New returns the root logger.  Output always goes to stdout; extra writers (the serial
// UART, the simulator console) get a copy of every line.  An unknown level means info.
func New(name, level string, extra ...io.Writer) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	writers := []io.Writer{os.Stdout}
	for _, w := range extra {
		if w != nil {
			writers = append(writers, w)
		}
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   name,
		Level:  lvl,
		Output: io.MultiWriter(writers...),
	})
}
