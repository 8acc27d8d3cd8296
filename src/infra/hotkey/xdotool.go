package hotkey

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"

	"github.com/contre95/beebridge/src/music"
)

// Runner runs an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Dispatcher sends key presses to the MusicBee window through xdotool.
type Dispatcher struct {
	runner     Runner
	windowName string
}

// NewDispatcher creates a dispatcher. windowName is searched for when the
// track title is unknown; MusicBee titles its window after the playing track.
func NewDispatcher(runner Runner, windowName string) *Dispatcher {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Dispatcher{runner: runner, windowName: windowName}
}

// Send presses key in the window matching title. An empty key does nothing.
func (d *Dispatcher) Send(ctx context.Context, key, title string) error {
	if key == "" {
		return nil
	}

	search := title
	if strings.TrimSpace(search) == "" || search == music.Unknown {
		search = d.windowName
	}

	// xdotool treats --name as a regular expression.
	args := []string{"search", "--name", regexp.QuoteMeta(search), "key", key}
	slog.Debug("Sending hotkey", "key", key, "window", search)
	out, err := d.runner.Run(ctx, "xdotool", args...)
	if err != nil {
		return fmt.Errorf("xdotool key %s to %q failed: %w: %s", key, search, err, strings.TrimSpace(string(out)))
	}
	return nil
}
