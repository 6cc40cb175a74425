package dimension

import (
	"math"
	"strconv"
	"strings"
)

type Phase string

const (
	PhaseUninitialized Phase = "uninitialized"
	PhaseReady         Phase = "ready"
	PhaseEditing       Phase = "editing"
	PhaseExporting     Phase = "exporting"
)

// State is the width/height/lock/quality state of a single resize session.
// AspectRatio is zero until an image has been loaded.
type State struct {
	Phase         Phase
	Width         int
	Height        int
	RatioLocked   bool
	ReduceQuality bool
	AspectRatio   float64
}

func New() State {
	return State{
		Phase:       PhaseUninitialized,
		RatioLocked: true,
	}
}

func (s State) Loaded() bool {
	return s.AspectRatio > 0
}

type Event interface {
	event()
}

type ImageLoaded struct {
	Width  int
	Height int
}

type WidthChanged struct{ Width int }
type HeightChanged struct{ Height int }
type RatioLockToggled struct{ Locked bool }
type QualityToggled struct{ Reduce bool }
type ExportRequested struct{}
type ExportFinished struct{}

func (ImageLoaded) event()      {}
func (WidthChanged) event()     {}
func (HeightChanged) event()    {}
func (RatioLockToggled) event() {}
func (QualityToggled) event()   {}
func (ExportRequested) event()  {}
func (ExportFinished) event()   {}

// Reduce applies ev to s. The second return value reports whether an
// ExportRequested event was accepted, in which case the caller is expected to
// snapshot the returned state into an export job.
func Reduce(s State, ev Event) (State, bool) {
	switch ev := ev.(type) {
	case ImageLoaded:
		if ev.Width <= 0 || ev.Height <= 0 {
			return s, false
		}
		s.Width = ev.Width
		s.Height = ev.Height
		s.AspectRatio = float64(ev.Width) / float64(ev.Height)
		if s.Phase != PhaseExporting {
			s.Phase = PhaseReady
		}
		return s, false

	case WidthChanged:
		if !s.Loaded() {
			return s, false
		}
		s.Width = ev.Width
		if s.RatioLocked {
			s.Height = HeightFor(ev.Width, s.AspectRatio)
		}
		s.markEditing()
		return s, false

	case HeightChanged:
		if !s.Loaded() {
			return s, false
		}
		s.Height = ev.Height
		if s.RatioLocked {
			s.Width = WidthFor(ev.Height, s.AspectRatio)
		}
		s.markEditing()
		return s, false

	// Toggles never re-sync the dimensions; the next edit does.
	case RatioLockToggled:
		s.RatioLocked = ev.Locked
		return s, false

	case QualityToggled:
		s.ReduceQuality = ev.Reduce
		return s, false

	case ExportRequested:
		if !s.Loaded() || s.Phase == PhaseExporting {
			return s, false
		}
		s.Phase = PhaseExporting
		return s, true

	case ExportFinished:
		if s.Phase == PhaseExporting {
			s.Phase = PhaseReady
		}
		return s, false
	}

	return s, false
}

func (s *State) markEditing() {
	if s.Phase != PhaseExporting {
		s.Phase = PhaseEditing
	}
}

// HeightFor returns floor(width / ratio).
func HeightFor(width int, ratio float64) int {
	if ratio <= 0 {
		return 0
	}
	return int(math.Floor(float64(width) / ratio))
}

// WidthFor returns floor(height * ratio).
func WidthFor(height int, ratio float64) int {
	if ratio <= 0 {
		return 0
	}
	return int(math.Floor(float64(height) * ratio))
}

// ParseInput converts the raw text of a width or height field into a
// dimension. Empty, non-numeric and negative input yields 0; fractional values
// are truncated.
func ParseInput(raw string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(v))
}
