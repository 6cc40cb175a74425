package dimension

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loaded(t *testing.T, w, h int) State {
	t.Helper()
	s, _ := Reduce(New(), ImageLoaded{Width: w, Height: h})
	require.Equal(t, PhaseReady, s.Phase)
	return s
}

func TestNew(t *testing.T) {
	s := New()
	assert.Equal(t, PhaseUninitialized, s.Phase)
	assert.True(t, s.RatioLocked)
	assert.False(t, s.ReduceQuality)
	assert.False(t, s.Loaded())
}

func TestReduce_ImageLoaded(t *testing.T) {
	s := loaded(t, 800, 400)
	assert.Equal(t, 800, s.Width)
	assert.Equal(t, 400, s.Height)
	assert.Equal(t, 2.0, s.AspectRatio)
	assert.True(t, s.RatioLocked)

	s, _ = Reduce(s, RatioLockToggled{Locked: false})
	s, _ = Reduce(s, ImageLoaded{Width: 300, Height: 600})
	assert.Equal(t, 300, s.Width)
	assert.Equal(t, 600, s.Height)
	assert.Equal(t, 0.5, s.AspectRatio)
	assert.False(t, s.RatioLocked, "lock keeps its current value across loads")
}

func TestReduce_ImageLoadedIgnoresZeroSize(t *testing.T) {
	s, _ := Reduce(New(), ImageLoaded{Width: 0, Height: 10})
	assert.Equal(t, New(), s)
}

func TestReduce_WidthChanged(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		locked bool
		width  int
		want   int
	}{
		{name: "locked 2:1", w: 800, h: 400, locked: true, width: 400, want: 200},
		{name: "locked floors", w: 3, h: 2, locked: true, width: 100, want: 66},
		{name: "locked 4:3", w: 4, h: 3, locked: true, width: 400, want: 300},
		{name: "unlocked keeps height", w: 800, h: 400, locked: false, width: 123, want: 400},
		{name: "locked zero", w: 800, h: 400, locked: true, width: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loaded(t, tt.w, tt.h)
			s, _ = Reduce(s, RatioLockToggled{Locked: tt.locked})
			s, _ = Reduce(s, WidthChanged{Width: tt.width})
			assert.Equal(t, tt.width, s.Width)
			assert.Equal(t, tt.want, s.Height)
			assert.Equal(t, PhaseEditing, s.Phase)
		})
	}
}

func TestReduce_HeightChanged(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		locked bool
		height int
		want   int
	}{
		{name: "locked 2:1", w: 800, h: 400, locked: true, height: 100, want: 200},
		{name: "locked floors", w: 2, h: 3, locked: true, height: 100, want: 66},
		{name: "unlocked keeps width", w: 800, h: 400, locked: false, height: 5, want: 800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loaded(t, tt.w, tt.h)
			s, _ = Reduce(s, RatioLockToggled{Locked: tt.locked})
			s, _ = Reduce(s, HeightChanged{Height: tt.height})
			assert.Equal(t, tt.height, s.Height)
			assert.Equal(t, tt.want, s.Width)
		})
	}
}

func TestReduce_SequentialEdits(t *testing.T) {
	ratios := [][2]int{{800, 400}, {1920, 1080}, {3, 7}, {1000, 999}, {17, 5}}
	values := []int{1, 7, 99, 400, 1234, 4096}

	for _, r := range ratios {
		ratio := float64(r[0]) / float64(r[1])
		for _, w := range values {
			for _, h := range values {
				// width then height
				s := loaded(t, r[0], r[1])
				s, _ = Reduce(s, WidthChanged{Width: w})
				require.Equal(t, int(math.Floor(float64(w)/ratio)), s.Height)
				s, _ = Reduce(s, HeightChanged{Height: h})
				require.Equal(t, int(math.Floor(float64(h)*ratio)), s.Width)
				require.Equal(t, h, s.Height)

				// height then width
				s = loaded(t, r[0], r[1])
				s, _ = Reduce(s, HeightChanged{Height: h})
				require.Equal(t, int(math.Floor(float64(h)*ratio)), s.Width)
				s, _ = Reduce(s, WidthChanged{Width: w})
				require.Equal(t, int(math.Floor(float64(w)/ratio)), s.Height)
				require.Equal(t, w, s.Width)
			}
		}
	}
}

func TestReduce_WidthChangedIdempotent(t *testing.T) {
	s := loaded(t, 1920, 1080)
	first, _ := Reduce(s, WidthChanged{Width: 1000})
	second, _ := Reduce(first, WidthChanged{Width: 1000})
	assert.Equal(t, first.Height, second.Height)
	assert.Equal(t, 562, second.Height)
}

func TestReduce_ToggleDoesNotResync(t *testing.T) {
	s := loaded(t, 800, 400)
	s, _ = Reduce(s, RatioLockToggled{Locked: false})
	s, _ = Reduce(s, WidthChanged{Width: 100})
	require.Equal(t, 400, s.Height)

	s, _ = Reduce(s, RatioLockToggled{Locked: true})
	assert.Equal(t, 100, s.Width)
	assert.Equal(t, 400, s.Height)

	s, _ = Reduce(s, WidthChanged{Width: 100})
	assert.Equal(t, 50, s.Height)
}

func TestReduce_EditsBeforeLoadAreNoops(t *testing.T) {
	s := New()
	for _, ev := range []Event{WidthChanged{Width: 10}, HeightChanged{Height: 10}, ExportRequested{}, ExportFinished{}} {
		next, accepted := Reduce(s, ev)
		assert.False(t, accepted)
		assert.Equal(t, s, next)
	}

	s, _ = Reduce(s, QualityToggled{Reduce: true})
	assert.True(t, s.ReduceQuality)
	assert.Equal(t, PhaseUninitialized, s.Phase)
}

func TestReduce_Export(t *testing.T) {
	s := loaded(t, 800, 400)

	s, accepted := Reduce(s, ExportRequested{})
	require.True(t, accepted)
	assert.Equal(t, PhaseExporting, s.Phase)

	_, accepted = Reduce(s, ExportRequested{})
	assert.False(t, accepted, "second request while exporting")

	s, _ = Reduce(s, WidthChanged{Width: 10})
	assert.Equal(t, PhaseExporting, s.Phase)

	s, _ = Reduce(s, ImageLoaded{Width: 50, Height: 50})
	assert.Equal(t, PhaseExporting, s.Phase)

	s, _ = Reduce(s, ExportFinished{})
	assert.Equal(t, PhaseReady, s.Phase)
}

func TestParseInput(t *testing.T) {
	tests := map[string]int{
		"400":    400,
		" 12 ":   12,
		"":       0,
		"abc":    0,
		"-5":     0,
		"12.9":   12,
		"1e3":    1000,
		"NaN":    0,
		"+Inf":   0,
		"1e20":   math.MaxInt32,
		"0":      0,
		"12px":   0,
		"007":    7,
		"  3.0 ": 3,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseInput(in), "input %q", in)
	}
}

func TestHeightWidthForUndefinedRatio(t *testing.T) {
	assert.Equal(t, 0, HeightFor(100, 0))
	assert.Equal(t, 0, WidthFor(100, 0))
}
