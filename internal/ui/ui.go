package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"unicode"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/koki-develop/resizer/internal/ascii"
	"github.com/koki-develop/resizer/internal/config"
	"github.com/koki-develop/resizer/internal/dimension"
	"github.com/koki-develop/resizer/internal/export"
	"github.com/koki-develop/resizer/internal/loader"
	"github.com/koki-develop/resizer/internal/notify"
	"github.com/koki-develop/resizer/internal/resize"
)

type Option struct {
	Path     string
	Config   *config.Config
	Logger   logrus.FieldLogger
	Loader   *loader.Loader
	Exporter *export.Exporter
	Saver    export.Saver
}

func Start(opt *Option) error {
	m := newModel(opt)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

var _ tea.Model = &model{}

type model struct {
	loader    *loader.Loader
	pipeline  *export.Pipeline
	qualities export.Qualities
	resizer   *resize.Resizer
	converter *ascii.Converter
	logger    logrus.FieldLogger
	notifier  notify.Notifier
	notes     chan notify.Entry

	path   string
	state  dimension.State
	source *loader.SourceImage

	screen  screen
	focus   field
	picker  filepicker.Model
	width   textinput.Model
	height  textinput.Model
	spinner spinner.Model
	toast   *notify.Entry
	saved   string
	preview []string

	windowHeight int
	windowWidth  int
}

type screen string

const (
	screenForm   screen = "form"
	screenPicker screen = "picker"
)

type field int

const (
	fieldWidth field = iota
	fieldHeight
	fieldLock
	fieldQuality
	fieldDownload
	fieldCount
)

func newModel(opt *Option) *model {
	cfg := opt.Config
	notes := make(chan notify.Entry, 16)

	m := &model{
		loader:    opt.Loader,
		qualities: export.Qualities{Full: cfg.Export.FullQuality, Reduced: cfg.Export.ReducedQuality},
		resizer:   resize.NewResizer(),
		converter: ascii.NewConverter(true),
		logger:    opt.Logger,
		notes:     notes,
		path:      opt.Path,
		state:     dimension.New(),
		screen:    screenForm,
	}
	m.notifier = notify.Multi{
		notify.Log{Logger: opt.Logger},
		notify.Func(func(level notify.Level, message string) {
			select {
			case notes <- notify.Entry{Level: level, Message: message}:
			default:
			}
		}),
	}
	m.pipeline = export.NewPipeline(opt.Exporter, opt.Saver, m.notifier, opt.Logger, export.PipelineOptions{
		ProgressDelay: cfg.Export.ProgressDelay(),
	})

	m.state.RatioLocked = cfg.Resize.LockRatio
	m.state.ReduceQuality = cfg.Resize.ReduceQuality

	m.picker = filepicker.New()
	m.picker.AllowedTypes = loader.Extensions
	m.picker.ShowHidden = cfg.UI.ShowHidden
	m.picker.Height = cfg.UI.PickerHeight
	m.picker.CurrentDirectory = startDir(opt.Path)

	m.width = newDimensionInput("width")
	m.height = newDimensionInput("height")
	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot

	return m
}

func newDimensionInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.CharLimit = 6
	ti.Width = 8
	return ti
}

func startDir(path string) string {
	if path != "" {
		if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
			return abs
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func (m *model) Init() tea.Cmd {
	if m.path != "" {
		return tea.Batch(m.listen(), m.load(m.path))
	}
	return tea.Batch(m.listen(), m.openPicker())
}

type loadedMsg struct{ source *loader.SourceImage }
type loadFailedMsg struct {
	path string
	err  error
}
type exportedMsg struct {
	result *export.Result
	err    error
}
type notifyMsg notify.Entry

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.screen == screenPicker {
			return m, m.updatePicker(msg)
		}
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.windowHeight = msg.Height
		m.windowWidth = msg.Width
		m.renderPreview()
		if m.screen == screenPicker {
			return m, m.updatePicker(msg)
		}
		return m, nil

	case loadedMsg:
		m.source = msg.source
		m.toast = nil
		cmd := m.dispatch(dimension.ImageLoaded{Width: msg.source.NaturalWidth, Height: msg.source.NaturalHeight})
		m.renderPreview()
		return m, tea.Batch(cmd, m.setFocus(fieldWidth))

	case loadFailedMsg:
		if errors.Is(msg.err, loader.ErrNoFile) {
			return m, nil
		}
		m.logger.WithError(msg.err).WithField("path", msg.path).Warn("load failed")
		m.notifier.Notify(notify.LevelError, fmt.Sprintf("Could not load %s: %v", filepath.Base(msg.path), msg.err))
		return m, nil

	case exportedMsg:
		if msg.result != nil {
			m.saved = msg.result.Path
		}
		return m, m.dispatch(dimension.ExportFinished{})

	case notifyMsg:
		entry := notify.Entry(msg)
		m.toast = &entry
		return m, m.listen()

	case spinner.TickMsg:
		if m.state.Phase != dimension.PhaseExporting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.screen == screenPicker {
		return m, m.updatePicker(msg)
	}
	return m, m.updateInputs(msg)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return tea.Quit
	case "ctrl+o":
		return m.openPicker()
	case "tab", "down":
		return m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	}

	switch m.focus {
	case fieldWidth, fieldHeight:
		if msg.String() == "enter" {
			return m.setFocus(m.focus + 1)
		}
		return m.handleInputKey(msg)

	case fieldLock:
		switch msg.String() {
		case " ", "enter", "x":
			return m.dispatch(dimension.RatioLockToggled{Locked: !m.state.RatioLocked})
		case "o":
			return m.openPicker()
		}

	case fieldQuality:
		switch msg.String() {
		case " ", "enter", "x":
			return m.dispatch(dimension.QualityToggled{Reduce: !m.state.ReduceQuality})
		case "o":
			return m.openPicker()
		}

	case fieldDownload:
		switch msg.String() {
		case " ", "enter":
			return m.dispatch(dimension.ExportRequested{})
		case "o":
			return m.openPicker()
		}
	}
	return nil
}

// handleInputKey forwards a key to the focused dimension field and, when the
// text changed, feeds the new value through the reducer.
func (m *model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	if !m.state.Loaded() {
		return nil
	}
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if !unicode.IsDigit(r) {
				return nil
			}
		}
	}

	input := &m.width
	if m.focus == fieldHeight {
		input = &m.height
	}
	before := input.Value()

	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	if input.Value() == before {
		return cmd
	}

	value := dimension.ParseInput(input.Value())
	if m.focus == fieldWidth {
		return tea.Batch(cmd, m.dispatch(dimension.WidthChanged{Width: value}))
	}
	return tea.Batch(cmd, m.dispatch(dimension.HeightChanged{Height: value}))
}

func (m *model) updateInputs(msg tea.Msg) tea.Cmd {
	var wcmd, hcmd tea.Cmd
	m.width, wcmd = m.width.Update(msg)
	m.height, hcmd = m.height.Update(msg)
	return tea.Batch(wcmd, hcmd)
}

// dispatch runs ev through the reducer and mirrors the result into the
// dimension fields. The field the user is editing is never rewritten.
func (m *model) dispatch(ev dimension.Event) tea.Cmd {
	next, accepted := dimension.Reduce(m.state, ev)
	m.state = next

	switch ev.(type) {
	case dimension.ImageLoaded:
		m.width.SetValue(strconv.Itoa(m.state.Width))
		m.height.SetValue(strconv.Itoa(m.state.Height))
	case dimension.WidthChanged:
		m.height.SetValue(strconv.Itoa(m.state.Height))
	case dimension.HeightChanged:
		m.width.SetValue(strconv.Itoa(m.state.Width))
	}

	if accepted {
		return m.startExport()
	}
	return nil
}

// startExport captures the current bitmap and dimensions; loading another
// image while the export runs does not affect it.
func (m *model) startExport() tea.Cmd {
	job := export.NewJob(m.state, m.qualities)
	img := m.source.Image
	pipeline := m.pipeline
	m.saved = ""

	m.logger.WithFields(logrus.Fields{
		"job":    job.ID.String(),
		"width":  job.Width,
		"height": job.Height,
	}).Debug("export requested")

	run := func() tea.Msg {
		res, err := pipeline.Run(context.Background(), img, job)
		return exportedMsg{result: res, err: err}
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *model) setFocus(f field) tea.Cmd {
	m.focus = f
	m.width.Blur()
	m.height.Blur()
	switch f {
	case fieldWidth:
		return m.width.Focus()
	case fieldHeight:
		return m.height.Focus()
	}
	return nil
}

func (m *model) openPicker() tea.Cmd {
	m.screen = screenPicker
	return m.picker.Init()
}

func (m *model) updatePicker(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && (key.String() == "esc" || key.String() == "q") {
		m.screen = screenForm
		if m.source == nil {
			return m.load("")
		}
		return nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.screen = screenForm
		return tea.Batch(cmd, m.load(path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.notifier.Notify(notify.LevelError, fmt.Sprintf("%s is not a supported image", filepath.Base(path)))
	}
	return cmd
}

func (m *model) load(path string) tea.Cmd {
	l := m.loader
	return func() tea.Msg {
		src, err := l.Load(context.Background(), path)
		if err != nil {
			return loadFailedMsg{path: path, err: err}
		}
		return loadedMsg{source: src}
	}
}

func (m *model) listen() tea.Cmd {
	notes := m.notes
	return func() tea.Msg {
		return notifyMsg(<-notes)
	}
}
