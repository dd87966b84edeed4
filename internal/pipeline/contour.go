package pipeline

import "github.com/san-kum/lightviz/internal/engine"

type ContourState struct {
	Representation string    `json:"representation"`
	Color          string    `json:"color"`
	Enabled        bool      `json:"enabled"`
	Field          string    `json:"field"`
	UseClipped     bool      `json:"use_clipped"`
	Values         []float64 `json:"values"`
}

// Contour extracts iso-surfaces of one field.
type Contour struct {
	ds         *Manager
	clip       *Clip
	stage      stage
	contour    engine.ObjectID
	rep        engine.ObjectID
	reprMode   string
	colorBy    string
	useClipped bool
}

func NewContour(ds *Manager, clip *Clip) *Contour {
	c := &Contour{ds: ds, clip: clip, reprMode: Surface, colorBy: Solid}
	ds.AddListener(c)
	return c
}

func (c *Contour) Stage() string { return c.stage.String() }

func (c *Contour) input() (engine.ObjectID, error) {
	if c.useClipped {
		return c.clip.Output()
	}
	return c.ds.Input(), nil
}

// SetUseClipped switches the input between the dataset and the clip output.
// The flag is always recorded; existing filters are rebound only when it
// actually changes.
func (c *Contour) SetUseClipped(useClipped bool) error {
	defer func() { c.useClipped = useClipped }()
	if c.stage == uninitialized || c.useClipped == useClipped {
		return nil
	}
	input := c.ds.Input()
	if useClipped {
		out, err := c.clip.Output()
		if err != nil {
			return err
		}
		input = out
	}
	return c.ds.eng.SetInput(c.contour, input)
}

func (c *Contour) Enable(enable bool) error {
	eng := c.ds.eng
	if enable && c.ds.Input() != 0 {
		input, err := c.input()
		if err != nil {
			return err
		}
		if c.stage == uninitialized {
			id, err := eng.Contour(input)
			if err != nil {
				return err
			}
			c.contour, c.stage = id, bound
			rep, err := eng.Show(id)
			if err != nil {
				return err
			}
			c.rep = rep
			if err := eng.SetRepresentation(rep, c.reprMode); err != nil {
				return err
			}
			if err := c.ds.applyColor(c.colorBy, rep); err != nil {
				return err
			}
		} else if err := eng.SetInput(c.contour, input); err != nil {
			return err
		}
		if err := eng.SetVisibility(c.rep, true); err != nil {
			return err
		}
	}
	if !enable && c.rep != 0 {
		if err := eng.SetVisibility(c.rep, false); err != nil {
			return err
		}
	}
	return eng.Render()
}

func (c *Contour) UpdateValues(values []float64) error {
	if c.stage == uninitialized {
		return nil
	}
	return c.ds.eng.SetIsosurfaces(c.contour, values)
}

func (c *Contour) UpdateContourBy(field string) error {
	if c.stage == uninitialized {
		return nil
	}
	return c.ds.eng.SetContourBy(c.contour, field)
}

func (c *Contour) UpdateRepresentation(mode string) error {
	c.reprMode = mode
	if c.rep == 0 {
		return nil
	}
	return c.ds.eng.SetRepresentation(c.rep, mode)
}

func (c *Contour) UpdateColorBy(field string) error {
	c.colorBy = field
	if c.rep == 0 {
		return nil
	}
	return c.ds.applyColor(field, c.rep)
}

func (c *Contour) State() (ContourState, error) {
	st := ContourState{
		Representation: c.reprMode,
		Color:          c.colorBy,
		UseClipped:     c.useClipped,
		Values:         []float64{},
	}
	if c.stage == uninitialized {
		return st, nil
	}

	eng := c.ds.eng
	mode, err := eng.Property(c.rep, engine.PropRepresentation)
	if err != nil {
		return st, err
	}
	color, err := eng.Property(c.rep, engine.PropColorArrayName)
	if err != nil {
		return st, err
	}
	visible, err := eng.Property(c.rep, engine.PropVisibility)
	if err != nil {
		return st, err
	}
	by, err := eng.Property(c.contour, engine.PropContourBy)
	if err != nil {
		return st, err
	}
	values, err := eng.Property(c.contour, engine.PropIsosurfaces)
	if err != nil {
		return st, err
	}

	st.Representation = engine.Text(mode)
	st.Color = colorMode(color)
	st.Enabled = engine.Truthy(visible)
	st.Field = engine.Text(by)
	st.Values = engine.Floats(values)
	return st, nil
}

// DataChanged resets the contour to a hidden, solid-colored surface with no
// iso-values on the new dataset.
func (c *Contour) DataChanged() error {
	if err := c.UpdateRepresentation(Surface); err != nil {
		return err
	}
	if err := c.UpdateColorBy(Solid); err != nil {
		return err
	}
	if c.stage == uninitialized {
		return nil
	}
	eng := c.ds.eng
	if err := eng.SetInput(c.contour, c.ds.Input()); err != nil {
		return err
	}
	if err := eng.SetIsosurfaces(c.contour, nil); err != nil {
		return err
	}
	if err := eng.SetContourBy(c.contour, ""); err != nil {
		return err
	}
	return eng.SetVisibility(c.rep, false)
}
