package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier presents a short message to the user. Calls are fire-and-forget.
type Notifier interface {
	Notify(level Level, message string)
}

type Func func(level Level, message string)

func (f Func) Notify(level Level, message string) { f(level, message) }

type Multi []Notifier

func (m Multi) Notify(level Level, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(level, message)
		}
	}
}

type Discard struct{}

func (Discard) Notify(Level, string) {}

// Log records notifications in the structured log.
type Log struct {
	Logger logrus.FieldLogger
}

func (l Log) Notify(level Level, message string) {
	entry := l.Logger.WithField("notification", string(level))
	if level == LevelError {
		entry.Error(message)
		return
	}
	entry.Info(message)
}

// Console prints coloured notifications, one per line.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Notify(level Level, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	badge := color.New(color.BgGreen, color.FgBlack).Sprint(" ✓ ")
	if level == LevelError {
		badge = color.New(color.BgRed, color.FgWhite).Sprint(" ✗ ")
	}
	fmt.Fprintf(c.out, "%s %s\n", badge, message)
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

type Entry struct {
	Level   Level
	Message string
}

func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: message})
}

func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}
