package pipeline

import (
	"fmt"
	"strconv"

	"github.com/san-kum/lightviz/internal/engine"
)

type MultiSliceState struct {
	Enabled        bool      `json:"enabled"`
	Representation string    `json:"representation"`
	Color          string    `json:"color"`
	Positions      []float64 `json:"positions"`
	Normal         string    `json:"normal"`
	UseClipped     bool      `json:"use_clipped"`
}

// MultiSlice cuts the input with a stack of parallel planes along one axis,
// placed at the given offsets.
type MultiSlice struct {
	ds         *Manager
	clip       *Clip
	stage      stage
	slice      engine.ObjectID
	rep        engine.ObjectID
	normal     int
	positions  []float64
	reprMode   string
	colorBy    string
	useClipped bool
}

func NewMultiSlice(ds *Manager, clip *Clip) *MultiSlice {
	m := &MultiSlice{ds: ds, clip: clip, positions: []float64{}, reprMode: Surface, colorBy: Solid}
	ds.AddListener(m)
	return m
}

func (m *MultiSlice) Stage() string { return m.stage.String() }

func (m *MultiSlice) input() (engine.ObjectID, error) {
	if m.useClipped {
		return m.clip.Output()
	}
	return m.ds.Input(), nil
}

func (m *MultiSlice) SetUseClipped(useClipped bool) error {
	defer func() { m.useClipped = useClipped }()
	if m.stage == uninitialized || m.useClipped == useClipped {
		return nil
	}
	input := m.ds.Input()
	if useClipped {
		out, err := m.clip.Output()
		if err != nil {
			return err
		}
		input = out
	}
	return m.ds.eng.SetInput(m.slice, input)
}

func (m *MultiSlice) Enable(enable bool) error {
	eng := m.ds.eng
	if enable && m.ds.Input() != 0 {
		input, err := m.input()
		if err != nil {
			return err
		}
		if m.stage == uninitialized {
			id, err := eng.Slice(input)
			if err != nil {
				return err
			}
			m.slice, m.stage = id, bound
			if err := eng.SetNormal(id, axisNormal(m.normal)); err != nil {
				return err
			}
			if err := eng.SetSliceOffsets(id, m.positions); err != nil {
				return err
			}
			rep, err := eng.Show(id)
			if err != nil {
				return err
			}
			m.rep = rep
			if err := eng.SetRepresentation(rep, m.reprMode); err != nil {
				return err
			}
			if err := m.ds.applyColor(m.colorBy, rep); err != nil {
				return err
			}
		} else if err := eng.SetInput(m.slice, input); err != nil {
			return err
		}
		if err := eng.SetVisibility(m.rep, true); err != nil {
			return err
		}
	}
	if !enable && m.rep != 0 {
		if err := eng.SetVisibility(m.rep, false); err != nil {
			return err
		}
	}
	return eng.Render()
}

// UpdateNormal selects the slicing axis: 0, 1 or 2.
func (m *MultiSlice) UpdateNormal(axis int) error {
	if axis < 0 || axis > 2 {
		return fmt.Errorf("%w: normal axis %d", ErrInvalidArgument, axis)
	}
	m.normal = axis
	if m.stage == uninitialized {
		return nil
	}
	return m.ds.eng.SetNormal(m.slice, axisNormal(axis))
}

func (m *MultiSlice) UpdateSlicePositions(positions []float64) error {
	m.positions = append([]float64{}, positions...)
	if m.stage == uninitialized {
		return nil
	}
	return m.ds.eng.SetSliceOffsets(m.slice, m.positions)
}

func (m *MultiSlice) UpdateRepresentation(mode string) error {
	m.reprMode = mode
	if m.rep == 0 {
		return nil
	}
	return m.ds.eng.SetRepresentation(m.rep, mode)
}

func (m *MultiSlice) UpdateColorBy(field string) error {
	m.colorBy = field
	if m.rep == 0 {
		return nil
	}
	return m.ds.applyColor(field, m.rep)
}

func (m *MultiSlice) State() (MultiSliceState, error) {
	st := MultiSliceState{
		Representation: m.reprMode,
		Color:          m.colorBy,
		Positions:      append([]float64{}, m.positions...),
		Normal:         strconv.Itoa(m.normal),
		UseClipped:     m.useClipped,
	}
	if m.rep != 0 {
		v, err := m.ds.eng.Property(m.rep, engine.PropVisibility)
		if err != nil {
			return st, err
		}
		st.Enabled = engine.Truthy(v)
	}
	return st, nil
}

// DataChanged hides the slices and clears their offsets, which only make
// sense relative to the previous dataset's bounds. Offsets cached before the
// slices exist are kept for the next Enable.
func (m *MultiSlice) DataChanged() error {
	if err := m.UpdateRepresentation(Surface); err != nil {
		return err
	}
	if err := m.UpdateColorBy(Solid); err != nil {
		return err
	}
	if m.stage == uninitialized {
		return nil
	}
	if err := m.UpdateSlicePositions(nil); err != nil {
		return err
	}
	if err := m.ds.eng.SetInput(m.slice, m.ds.Input()); err != nil {
		return err
	}
	return m.ds.eng.SetVisibility(m.rep, false)
}
