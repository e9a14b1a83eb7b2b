// Package notify delivers user-facing status messages.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Level sets how a notice is presented.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a message for a user. An empty To broadcasts it.
type Notice struct {
	Level Level
	To    string
	Text  string
}

// Notifier receives notices.
type Notifier interface {
	Notify(n Notice)
}

// Console prints notices as colored lines.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	colors map[Level]*color.Color
}

// NewConsole writes to w. Color is used only when enabled is true.
func NewConsole(w io.Writer, enabled bool) *Console {
	colors := map[Level]*color.Color{
		LevelInfo:    color.New(color.FgWhite),
		LevelSuccess: color.New(color.FgGreen, color.Bold),
		LevelWarn:    color.New(color.FgYellow),
		LevelError:   color.New(color.FgRed, color.Bold),
	}
	for _, c := range colors {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return &Console{out: w, colors: colors}
}

// NewTerminal returns a console on w, colored when w is a terminal.
func NewTerminal(w io.Writer) *Console {
	f, ok := w.(*os.File)
	return NewConsole(w, ok && term.IsTerminal(int(f.Fd())))
}

func (c *Console) Notify(n Notice) {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := n.Text
	if n.To != "" {
		text = fmt.Sprintf("[%s] %s", n.To, n.Text)
	}
	col, ok := c.colors[n.Level]
	if !ok {
		col = c.colors[LevelInfo]
	}
	_, _ = col.Fprintln(c.out, text)
}

// Recorder keeps notices in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Texts returns the recorded notice texts.
func (r *Recorder) Texts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Text)
	}
	return out
}

// Discard drops every notice.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(Notice) {}
