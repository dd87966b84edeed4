// Package console is a terminal operator panel for a visualization session.
// It drives the same named calls a remote client would and shows the
// resulting dataset and filter state.
package console

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/lightviz/internal/catalog"
	"github.com/san-kum/lightviz/internal/pipeline"
	"github.com/san-kum/lightviz/internal/rpc"
)

// Caller runs a named call in process. *rpc.Dispatcher implements it.
type Caller interface {
	Invoke(method string, args ...any) (any, error)
}

// filterKeys maps a key to the filter group it toggles.
var filterKeys = map[string]string{
	"1": "clip",
	"2": "contour",
	"3": "slice",
	"4": "mslice",
}

type Model struct {
	calls    Caller
	st       styles
	datasets []*catalog.Descriptor
	cursor   int
	active   *catalog.Descriptor
	timeIdx  int

	dataset    pipeline.DatasetState
	clip       pipeline.ClipState
	contour    pipeline.ContourState
	slice      pipeline.SliceState
	multiSlice pipeline.MultiSliceState

	status string
	err    error
	width  int
}

func New(calls Caller, theme Theme) (Model, error) {
	m := Model{calls: calls, st: newStyles(theme), width: 80}
	v, err := calls.Invoke(rpc.Prefix + "dataset.list")
	if err != nil {
		return m, err
	}
	m.datasets, _ = v.([]*catalog.Descriptor)
	m.refresh()
	return m, m.err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m *Model) call(method string, args ...any) any {
	v, err := m.calls.Invoke(rpc.Prefix+method, args...)
	if err != nil {
		m.err = err
		return nil
	}
	return v
}

func (m *Model) refresh() {
	if v, ok := m.call("dataset.getstate").(pipeline.DatasetState); ok {
		m.dataset = v
	}
	if v, ok := m.call("clip.getstate").(pipeline.ClipState); ok {
		m.clip = v
	}
	if v, ok := m.call("contour.getstate").(pipeline.ContourState); ok {
		m.contour = v
	}
	if v, ok := m.call("slice.getstate").(pipeline.SliceState); ok {
		m.slice = v
	}
	if v, ok := m.call("mslice.getstate").(pipeline.MultiSliceState); ok {
		m.multiSlice = v
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.err, m.status = nil, ""
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.datasets)-1 {
			m.cursor++
		}
		return m, nil
	case "enter":
		m.load()
	case "d":
		m.call("dataset.enable", !m.dataset.Enabled)
	case "r":
		m.call("dataset.representation", next(pipeline.RepresentationModes, m.dataset.Representation))
	case "c":
		m.call("dataset.color", next(m.colorModes(), m.dataset.Color))
	case "+", "-":
		step := 0.1
		if key == "-" {
			step = -step
		}
		opacity := math.Round((m.dataset.Opacity+step)*10) / 10
		m.call("dataset.opacity", math.Max(0, math.Min(1, opacity)))
	case "t":
		m.stepTime()
	default:
		group, ok := filterKeys[key]
		if !ok {
			return m, nil
		}
		m.call(group+".enable", !m.enabled(group))
	}
	m.refresh()
	return m, nil
}

func (m *Model) load() {
	if len(m.datasets) == 0 {
		return
	}
	name := m.datasets[m.cursor].Name
	if meta, ok := m.call("dataset.load", name).(*catalog.Descriptor); ok {
		m.active = meta
		m.timeIdx = 0
		m.status = "loaded " + meta.Name
	}
}

func (m *Model) stepTime() {
	if m.active == nil || len(m.active.Data.Time) == 0 {
		m.status = "no timesteps"
		return
	}
	idx := (m.timeIdx + 1) % len(m.active.Data.Time)
	if t, ok := m.call("dataset.time", idx).(float64); ok {
		m.timeIdx = idx
		m.status = fmt.Sprintf("time %g", t)
	}
}

func (m Model) enabled(group string) bool {
	switch group {
	case "clip":
		return m.clip.Enabled
	case "contour":
		return m.contour.Enabled
	case "slice":
		return m.slice.Enabled
	case "mslice":
		return m.multiSlice.Enabled
	}
	return false
}

func (m Model) colorModes() []string {
	modes := []string{pipeline.Solid}
	if m.active != nil {
		for _, a := range m.active.Data.Arrays {
			modes = append(modes, a.Name)
		}
	}
	return modes
}

// next returns the entry after cur, wrapping around.
func next(options []string, cur string) string {
	for i, o := range options {
		if o == cur {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func colorLabel(c string) string {
	if c == pipeline.Solid {
		return "solid"
	}
	return c
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.st.title.Render("lightviz console"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		m.st.panel.Render(m.datasetList()),
		m.st.panel.Render(m.statePanel()),
	))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(m.st.err.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(m.st.value.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.st.hint.Render("↑/↓ select  enter load  d visible  r repr  c color  +/- opacity  t time  1-4 filters  q quit"))
	return b.String()
}

func (m Model) datasetList() string {
	var b strings.Builder
	b.WriteString(m.st.header.Render("datasets"))
	b.WriteString("\n")
	if len(m.datasets) == 0 {
		b.WriteString(m.st.label.Render("none found"))
		return b.String()
	}
	for i, d := range m.datasets {
		line := "  " + d.Name
		if m.active != nil && d.Name == m.active.Name {
			line += " *"
		}
		if i == m.cursor {
			line = m.st.selected.Render("> " + strings.TrimPrefix(line, "  "))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) statePanel() string {
	var b strings.Builder
	b.WriteString(m.st.header.Render("state"))
	b.WriteString("\n")
	if m.active == nil {
		b.WriteString(m.st.label.Render("no dataset loaded"))
		return b.String()
	}

	ds := m.dataset
	b.WriteString(m.st.row("dataset", m.active.Name) + " " + m.st.flag(ds.Enabled) + "\n")
	b.WriteString(m.st.row("repr", ds.Representation) + "\n")
	b.WriteString(m.st.row("color", colorLabel(ds.Color)) + "\n")
	b.WriteString(m.st.row("opacity", fmt.Sprintf("%s %.1f", opacityBar(ds.Opacity, 10), ds.Opacity)) + "\n")
	if n := len(m.active.Data.Time); n > 0 {
		b.WriteString(m.st.row("timestep", fmt.Sprintf("%d/%d", m.timeIdx+1, n)) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(m.st.label.Render("1 clip    ") + m.st.flag(m.clip.Enabled) +
		m.st.label.Render(fmt.Sprintf("  at %g, %g, %g", m.clip.XPosition, m.clip.YPosition, m.clip.ZPosition)) + "\n")
	b.WriteString(m.st.label.Render("2 contour ") + m.st.flag(m.contour.Enabled) +
		m.st.label.Render(fmt.Sprintf("  %d values", len(m.contour.Values))) + "\n")
	b.WriteString(m.st.label.Render("3 slice   ") + m.st.flag(m.slice.Enabled) +
		m.st.label.Render(fmt.Sprintf("  at %g, %g, %g", m.slice.XPosition, m.slice.YPosition, m.slice.ZPosition)) + "\n")
	b.WriteString(m.st.label.Render("4 mslice  ") + m.st.flag(m.multiSlice.Enabled) +
		m.st.label.Render(fmt.Sprintf("  axis %s, %d planes", m.multiSlice.Normal, len(m.multiSlice.Positions))))
	return b.String()
}

// Run starts the console on the terminal.
func Run(calls Caller, theme Theme) error {
	m, err := New(calls, theme)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m).Run()
	return err
}
