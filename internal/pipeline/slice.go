package pipeline

import "github.com/san-kum/lightviz/internal/engine"

type SliceState struct {
	Representation string  `json:"representation"`
	Color          string  `json:"color"`
	Enabled        bool    `json:"enabled"`
	XPosition      float64 `json:"xPosition"`
	YPosition      float64 `json:"yPosition"`
	ZPosition      float64 `json:"zPosition"`
	XVisible       bool    `json:"xVisible"`
	YVisible       bool    `json:"yVisible"`
	ZVisible       bool    `json:"zVisible"`
	UseClipped     bool    `json:"use_clipped"`
}

// Slice cuts the input with three orthogonal planes through a shared
// center, each with its own representation and per-axis visibility.
type Slice struct {
	ds         *Manager
	clip       *Clip
	stage      stage
	planes     [3]engine.ObjectID
	reps       [3]engine.ObjectID
	center     [3]float64
	hasCenter  bool
	visible    [3]bool
	enabled    bool
	reprMode   string
	colorBy    string
	useClipped bool
}

func NewSlice(ds *Manager, clip *Clip) *Slice {
	s := &Slice{
		ds:       ds,
		clip:     clip,
		visible:  [3]bool{true, true, true},
		reprMode: Surface,
		colorBy:  Solid,
	}
	ds.AddListener(s)
	return s
}

func (s *Slice) Stage() string { return s.stage.String() }

func (s *Slice) input() (engine.ObjectID, error) {
	if s.useClipped {
		return s.clip.Output()
	}
	return s.ds.Input(), nil
}

func (s *Slice) rebind(input engine.ObjectID) error {
	for _, id := range s.planes {
		if err := s.ds.eng.SetInput(id, input); err != nil {
			return err
		}
	}
	return nil
}

func (s *Slice) SetUseClipped(useClipped bool) error {
	defer func() { s.useClipped = useClipped }()
	if s.stage == uninitialized || s.useClipped == useClipped {
		return nil
	}
	input := s.ds.Input()
	if useClipped {
		out, err := s.clip.Output()
		if err != nil {
			return err
		}
		input = out
	}
	return s.rebind(input)
}

func (s *Slice) build(input engine.ObjectID) error {
	eng := s.ds.eng
	if !s.hasCenter {
		s.center, s.hasCenter = s.ds.active.Center(), true
	}
	for axis := range s.planes {
		id, err := eng.Slice(input)
		if err != nil {
			return err
		}
		if err := eng.SetOrigin(id, s.center); err != nil {
			return err
		}
		if err := eng.SetNormal(id, axisNormal(axis)); err != nil {
			return err
		}
		s.planes[axis] = id
	}
	s.stage = bound
	for axis, id := range s.planes {
		rep, err := eng.Show(id)
		if err != nil {
			return err
		}
		s.reps[axis] = rep
	}
	if err := s.UpdateRepresentation(s.reprMode); err != nil {
		return err
	}
	return s.UpdateColorBy(s.colorBy)
}

func (s *Slice) showAxes(enabled bool) error {
	for axis, rep := range s.reps {
		if err := s.ds.eng.SetVisibility(rep, enabled && s.visible[axis]); err != nil {
			return err
		}
	}
	return nil
}

// Enable shows the slice planes selected by UpdateVisibility.
func (s *Slice) Enable(enable bool) error {
	eng := s.ds.eng
	if enable {
		if s.ds.Input() == 0 {
			return eng.Render()
		}
		input, err := s.input()
		if err != nil {
			return err
		}
		if s.stage == uninitialized {
			if err := s.build(input); err != nil {
				return err
			}
		} else if err := s.rebind(input); err != nil {
			return err
		}
		if err := s.showAxes(true); err != nil {
			return err
		}
	} else if s.stage == bound {
		if err := s.showAxes(false); err != nil {
			return err
		}
	}
	s.enabled = enable
	return eng.Render()
}

// UpdatePosition moves the shared center. The value is remembered and used
// when the planes are first created.
func (s *Slice) UpdatePosition(x, y, z float64) error {
	s.center, s.hasCenter = [3]float64{x, y, z}, true
	if s.stage == uninitialized {
		return nil
	}
	for _, id := range s.planes {
		if err := s.ds.eng.SetOrigin(id, s.center); err != nil {
			return err
		}
	}
	return nil
}

// UpdateVisibility selects which axis planes are shown while enabled.
func (s *Slice) UpdateVisibility(x, y, z bool) error {
	s.visible = [3]bool{x, y, z}
	if s.stage == uninitialized {
		return nil
	}
	return s.showAxes(s.enabled)
}

func (s *Slice) UpdateRepresentation(mode string) error {
	s.reprMode = mode
	if s.stage == uninitialized {
		return nil
	}
	for _, rep := range s.reps {
		if err := s.ds.eng.SetRepresentation(rep, mode); err != nil {
			return err
		}
	}
	return nil
}

func (s *Slice) UpdateColorBy(field string) error {
	s.colorBy = field
	if s.stage == uninitialized {
		return nil
	}
	return s.ds.applyColor(field, s.reps[:]...)
}

func (s *Slice) State() (SliceState, error) {
	st := SliceState{
		Representation: s.reprMode,
		Color:          s.colorBy,
		Enabled:        s.enabled,
		XVisible:       s.visible[0],
		YVisible:       s.visible[1],
		ZVisible:       s.visible[2],
		UseClipped:     s.useClipped,
	}
	center := s.center
	if s.stage == bound {
		origin, err := s.ds.eng.Property(s.planes[0], engine.PropOrigin)
		if err != nil {
			return st, err
		}
		center = engine.Vec3(origin)
	} else if !s.hasCenter {
		center = [3]float64{}
	}
	st.XPosition, st.YPosition, st.ZPosition = center[0], center[1], center[2]
	return st, nil
}

// DataChanged hides the planes and moves them back to the reset position on
// the new dataset. Without planes a center cached by UpdatePosition is kept
// for the next Enable.
func (s *Slice) DataChanged() error {
	if err := s.UpdateRepresentation(Surface); err != nil {
		return err
	}
	if err := s.UpdateColorBy(Solid); err != nil {
		return err
	}
	s.enabled = false
	if s.stage == uninitialized {
		return nil
	}
	if err := s.rebind(s.ds.Input()); err != nil {
		return err
	}
	if err := s.UpdatePosition(ResetPosition, ResetPosition, ResetPosition); err != nil {
		return err
	}
	return s.showAxes(false)
}
