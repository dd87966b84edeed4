package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/san-kum/lightviz/internal/catalog"
	"github.com/san-kum/lightviz/internal/engine"
)

// DatasetState is the reported appearance of the active dataset.
type DatasetState struct {
	Opacity        float64 `json:"opacity"`
	Representation string  `json:"representation"`
	Color          string  `json:"color"`
	Enabled        bool    `json:"enabled"`
}

// Manager owns the active dataset and notifies listeners when it changes.
type Manager struct {
	eng       engine.Engine
	cat       *catalog.Catalog
	log       *slog.Logger
	colormap  string
	active    *catalog.Descriptor
	dataset   engine.ObjectID
	rep       engine.ObjectID
	listeners []Listener
}

func NewManager(eng engine.Engine, cat *catalog.Catalog, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{eng: eng, cat: cat, log: logger}
}

// SetDefaultColormap sets a preset applied to every array after each load.
// An empty name disables it.
func (m *Manager) SetDefaultColormap(preset string) { m.colormap = preset }

// AddListener registers l for future dataset switches. It is not called for
// the dataset that is already active.
func (m *Manager) AddListener(l Listener) {
	m.listeners = append(m.listeners, l)
}

// Input returns the active dataset object, or zero if none is loaded.
func (m *Manager) Input() engine.ObjectID { return m.dataset }

// Active returns the active descriptor, or nil.
func (m *Manager) Active() *catalog.Descriptor { return m.active }

func (m *Manager) Engine() engine.Engine { return m.eng }

func (m *Manager) List() []*catalog.Descriptor { return m.cat.List() }

func (m *Manager) Thumbnails(name string) ([]string, error) {
	thumbs, err := m.cat.Thumbnails(name)
	if errors.Is(err, catalog.ErrUnknownDataset) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return thumbs, err
}

// Load makes name the active dataset. Loading the dataset that is already
// active returns its descriptor without touching the scene.
func (m *Manager) Load(name string) (*catalog.Descriptor, error) {
	meta, err := m.cat.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if m.dataset != 0 && m.active == meta {
		return meta, nil
	}
	path, err := m.cat.DataPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	if m.dataset != 0 {
		if err := m.eng.Delete(m.dataset); err != nil {
			return nil, err
		}
		m.log.Debug("dataset released", "name", m.active.Name)
		m.active, m.dataset, m.rep = nil, 0, 0
	}

	ds, err := m.eng.OpenFile(path)
	if err != nil {
		return nil, err
	}
	rep, err := m.eng.Show(ds)
	if err != nil {
		return nil, err
	}
	m.active, m.dataset, m.rep = meta, ds, rep

	if err := m.eng.Render(); err != nil {
		return nil, err
	}
	if err := m.eng.ResetCamera(); err != nil {
		return nil, err
	}
	if err := m.eng.SetCenterOfRotation(m.eng.FocalPoint()); err != nil {
		return nil, err
	}
	if err := m.eng.Render(); err != nil {
		return nil, err
	}
	if m.colormap != "" {
		if err := m.SetGlobalColormap(m.colormap); err != nil {
			return nil, err
		}
	}

	for _, l := range m.listeners {
		if err := l.DataChanged(); err != nil {
			return nil, err
		}
	}

	m.log.Info("dataset loaded", "name", meta.Name, "file", path, "listeners", len(m.listeners))
	return meta, nil
}

// SetGlobalColormap applies preset to the transfer function of every array
// of the active dataset.
func (m *Manager) SetGlobalColormap(preset string) error {
	if m.active == nil {
		return nil
	}
	for _, a := range m.active.Data.Arrays {
		if err := m.eng.ApplyPreset(a.Name, preset); err != nil {
			return err
		}
	}
	return m.eng.Render()
}

func (m *Manager) State() (DatasetState, error) {
	st := DatasetState{Opacity: 1, Representation: Surface, Color: Solid}
	if m.rep == 0 {
		return st, nil
	}

	opacity, err := m.eng.Property(m.rep, engine.PropOpacity)
	if err != nil {
		return st, err
	}
	mode, err := m.eng.Property(m.rep, engine.PropRepresentation)
	if err != nil {
		return st, err
	}
	color, err := m.eng.Property(m.rep, engine.PropColorArrayName)
	if err != nil {
		return st, err
	}
	visible, err := m.eng.Property(m.rep, engine.PropVisibility)
	if err != nil {
		return st, err
	}

	st.Opacity = engine.Float(opacity)
	st.Representation = engine.Text(mode)
	st.Color = colorMode(color)
	st.Enabled = engine.Truthy(visible)
	return st, nil
}

// UpdateOpacity sets the dataset opacity and echoes the value back.
func (m *Manager) UpdateOpacity(opacity float64) (float64, error) {
	if m.rep != 0 {
		if err := m.eng.SetOpacity(m.rep, opacity); err != nil {
			return opacity, err
		}
	}
	return opacity, nil
}

// UpdateTime moves the time keeper to the timestep at idx and returns the
// resolved time value. The engine's timesteps take precedence over the ones
// declared by the descriptor.
func (m *Manager) UpdateTime(idx int) (float64, error) {
	if m.active == nil {
		return 0, ErrNoActiveDataset
	}
	steps := m.eng.TimestepValues()
	if len(steps) == 0 {
		steps = m.active.Data.Time
	}
	if idx < 0 || idx >= len(steps) {
		return 0, fmt.Errorf("%w: timestep %d out of range [0,%d)", ErrInvalidArgument, idx, len(steps))
	}
	if err := m.eng.SetTime(steps[idx]); err != nil {
		return 0, err
	}
	if err := m.eng.Render(); err != nil {
		return 0, err
	}
	return m.eng.Time(), nil
}

func (m *Manager) UpdateRepresentation(mode string) error {
	if m.rep == 0 {
		return nil
	}
	return m.eng.SetRepresentation(m.rep, mode)
}

func (m *Manager) UpdateColorBy(field string) error {
	if m.rep == 0 {
		return nil
	}
	return m.applyColor(field, m.rep)
}

func (m *Manager) Enable(enable bool) error {
	if m.rep == 0 {
		return nil
	}
	if err := m.eng.SetVisibility(m.rep, enable); err != nil {
		return err
	}
	return m.eng.Render()
}

// applyColor colors reps by field, or clears their coloring for Solid. The
// field's transfer function is rescaled to the range declared by the active
// descriptor rather than to the computed data range.
func (m *Manager) applyColor(field string, reps ...engine.ObjectID) error {
	for _, rep := range reps {
		var err error
		if field == Solid {
			err = m.eng.ClearColoring(rep)
		} else {
			err = m.eng.SetScalarColoring(rep, field)
		}
		if err != nil {
			return err
		}
	}
	if field != Solid && m.active != nil {
		if a, ok := m.active.Array(field); ok {
			if err := m.eng.RescaleTransferFunction(field, a.Range[0], a.Range[1]); err != nil {
				return err
			}
		}
	}
	return m.eng.Render()
}

func colorMode(v any) string {
	if name := engine.Text(v); name != "" {
		return name
	}
	return Solid
}
