package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/koki-develop/resizer/internal/dimension"
	"github.com/koki-develop/resizer/internal/notify"
)

const (
	labelIdle      = "Download Image"
	labelExporting = "Downloading..."

	defaultPreviewWidth  = 48
	defaultPreviewHeight = 12
	formHeight           = 14
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	previewStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
	buttonStyle  = lipgloss.NewStyle().Padding(0, 2).Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func (m *model) View() string {
	switch m.screen {
	case screenPicker:
		return m.pickerView()
	case screenForm:
		return m.formView()
	}
	return ""
}

func (m *model) pickerView() string {
	b := new(strings.Builder)
	b.WriteString(titleStyle.Render("Browse File to Upload"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")
	b.WriteString(m.toastView())
	return b.String()
}

func (m *model) formView() string {
	b := new(strings.Builder)
	b.WriteString(titleStyle.Render("Image Resizer"))
	b.WriteString("\n")

	if m.source == nil {
		b.WriteString(previewStyle.Render(mutedStyle.Render("No image loaded. Press ctrl+o to browse.")))
	} else {
		b.WriteString(previewStyle.Render(strings.Join(m.preview, "\n")))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%s  %d×%d  %s  %s",
			filepath.Base(m.source.Path),
			m.source.NaturalWidth, m.source.NaturalHeight,
			m.source.Format,
			humanize.Bytes(uint64(m.source.Size)),
		)))
	}
	b.WriteString("\n\n")

	b.WriteString(m.row(fieldWidth, "Width  ", m.width.View()))
	b.WriteString(m.row(fieldHeight, "Height ", m.height.View()))
	b.WriteString(m.row(fieldLock, checkbox(m.state.RatioLocked), "Lock aspect ratio"))
	b.WriteString(m.row(fieldQuality, checkbox(m.state.ReduceQuality), "Reduce quality"))
	b.WriteString("\n")
	b.WriteString(m.downloadView())
	b.WriteString("\n\n")
	b.WriteString(m.toastView())
	b.WriteString("\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m *model) row(f field, label, value string) string {
	cursor := "  "
	if m.focus == f {
		cursor = focusStyle.Render("> ")
		label = focusStyle.Render(label)
	}
	return cursor + label + " " + value + "\n"
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m *model) downloadLabel() string {
	if m.state.Phase == dimension.PhaseExporting {
		return labelExporting
	}
	return labelIdle
}

func (m *model) downloadView() string {
	label := m.downloadLabel()
	if m.state.Phase == dimension.PhaseExporting {
		label = m.spinner.View() + label
	}
	cursor := "  "
	if m.focus == fieldDownload {
		cursor = focusStyle.Render("> ")
	}
	out := cursor + buttonStyle.Render(label)
	if m.saved != "" {
		out += "  " + mutedStyle.Render(m.saved)
	}
	return out
}

func (m *model) toastView() string {
	if m.toast == nil {
		return ""
	}
	if m.toast.Level == notify.LevelError {
		return errorStyle.Render("✗ " + m.toast.Message)
	}
	return successStyle.Render("✓ " + m.toast.Message)
}

func (m *model) helpView() string {
	b := new(strings.Builder)
	key := color.New(color.BgHiBlack, color.FgWhite)
	for i, h := range [][2]string{
		{"tab", "move"},
		{"space", "toggle"},
		{"enter", "download"},
		{"ctrl+o", "open"},
		{"esc", "quit"},
	} {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(key.Sprintf(" %s ", h[0]))
		b.WriteString(" " + h[1])
	}
	return b.String()
}

// renderPreview refreshes the cached ASCII preview for the current image and
// window size.
func (m *model) renderPreview() {
	if m.source == nil {
		m.preview = nil
		return
	}
	w, h := defaultPreviewWidth, defaultPreviewHeight
	if m.windowWidth > 0 && m.windowHeight > 0 {
		w = max(0, m.windowWidth-4)
		h = max(0, m.windowHeight-formHeight)
	}
	img := m.resizer.Fit(m.source.Image, w, h)
	m.preview = m.converter.Lines(img)
}
