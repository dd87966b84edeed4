package pipeline

import "github.com/san-kum/lightviz/internal/engine"

type ClipState struct {
	Representation string  `json:"representation"`
	Color          string  `json:"color"`
	Enabled        bool    `json:"enabled"`
	XPosition      float64 `json:"xPosition"`
	YPosition      float64 `json:"yPosition"`
	ZPosition      float64 `json:"zPosition"`
	XInsideOut     bool    `json:"xInsideOut"`
	YInsideOut     bool    `json:"yInsideOut"`
	ZInsideOut     bool    `json:"zInsideOut"`
}

// Clip cuts the dataset with three axis-aligned planes chained X, Y, Z. Its
// output feeds the other wrappers when they use clipped input.
type Clip struct {
	ds       *Manager
	stage    stage
	planes   [3]engine.ObjectID
	rep      engine.ObjectID
	reprMode string
	colorBy  string
}

func NewClip(ds *Manager) *Clip {
	c := &Clip{ds: ds, reprMode: Surface, colorBy: Solid}
	ds.AddListener(c)
	return c
}

func (c *Clip) Stage() string { return c.stage.String() }

func (c *Clip) build() error {
	eng := c.ds.eng
	center := c.ds.active.Center()
	input := c.ds.Input()
	for axis := range c.planes {
		id, err := eng.Clip(input)
		if err != nil {
			return err
		}
		if err := eng.SetOrigin(id, center); err != nil {
			return err
		}
		if err := eng.SetNormal(id, axisNormal(axis)); err != nil {
			return err
		}
		c.planes[axis] = id
		input = id
	}
	c.stage = bound
	return nil
}

// Output returns the last clip filter, creating the chain if needed. The
// chain is created without a representation so downstream filters can use
// the clipped geometry while the clip itself stays hidden.
func (c *Clip) Output() (engine.ObjectID, error) {
	if c.stage == uninitialized {
		if c.ds.Input() == 0 {
			return 0, ErrNoActiveDataset
		}
		if err := c.build(); err != nil {
			return 0, err
		}
	}
	return c.planes[2], nil
}

func (c *Clip) Enable(enable bool) error {
	eng := c.ds.eng
	if enable && c.ds.Input() != 0 {
		if c.stage == uninitialized {
			if err := c.build(); err != nil {
				return err
			}
		} else if err := eng.SetInput(c.planes[0], c.ds.Input()); err != nil {
			return err
		}

		if c.rep == 0 {
			rep, err := eng.Show(c.planes[2])
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

func (c *Clip) UpdatePosition(x, y, z float64) error {
	if c.stage == uninitialized {
		return nil
	}
	origins := [3][3]float64{{x, 0, 0}, {0, y, 0}, {0, 0, z}}
	for axis, id := range c.planes {
		if err := c.ds.eng.SetOrigin(id, origins[axis]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Clip) UpdateInsideOut(x, y, z bool) error {
	if c.stage == uninitialized {
		return nil
	}
	flags := [3]bool{x, y, z}
	for axis, id := range c.planes {
		if err := c.ds.eng.SetInsideOut(id, flags[axis]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Clip) UpdateRepresentation(mode string) error {
	c.reprMode = mode
	if c.rep == 0 {
		return nil
	}
	return c.ds.eng.SetRepresentation(c.rep, mode)
}

func (c *Clip) UpdateColorBy(field string) error {
	c.colorBy = field
	if c.rep == 0 {
		return nil
	}
	return c.ds.applyColor(field, c.rep)
}

func (c *Clip) State() (ClipState, error) {
	st := ClipState{Representation: c.reprMode, Color: c.colorBy}
	eng := c.ds.eng
	if c.rep != 0 {
		v, err := eng.Property(c.rep, engine.PropVisibility)
		if err != nil {
			return st, err
		}
		st.Enabled = engine.Truthy(v)
	}
	if c.stage == bound {
		var pos [3]float64
		var inside [3]bool
		for axis, id := range c.planes {
			origin, err := eng.Property(id, engine.PropOrigin)
			if err != nil {
				return st, err
			}
			flag, err := eng.Property(id, engine.PropInsideOut)
			if err != nil {
				return st, err
			}
			pos[axis] = engine.Vec3(origin)[axis]
			inside[axis] = engine.Truthy(flag)
		}
		st.XPosition, st.YPosition, st.ZPosition = pos[0], pos[1], pos[2]
		st.XInsideOut, st.YInsideOut, st.ZInsideOut = inside[0], inside[1], inside[2]
	}
	return st, nil
}

func (c *Clip) DataChanged() error {
	if err := c.UpdateRepresentation(Surface); err != nil {
		return err
	}
	if err := c.UpdateColorBy(Solid); err != nil {
		return err
	}
	if c.stage == bound {
		if err := c.ds.eng.SetInput(c.planes[0], c.ds.Input()); err != nil {
			return err
		}
		if err := c.UpdatePosition(ResetPosition, ResetPosition, ResetPosition); err != nil {
			return err
		}
		if err := c.UpdateInsideOut(false, false, false); err != nil {
			return err
		}
	}
	if c.rep != 0 {
		return c.ds.eng.SetVisibility(c.rep, false)
	}
	return nil
}
