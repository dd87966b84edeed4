package rpc

import "github.com/san-kum/lightviz/internal/pipeline"

// Prefix is prepended to every method name.
const Prefix = "light.viz."

// filter is the capability set shared by the wrappers.
type filter interface {
	Enable(bool) error
	UpdateRepresentation(string) error
	UpdateColorBy(string) error
}

type clippable interface {
	SetUseClipped(bool) error
}

func none(err error) (any, error) { return nil, err }

func result[T any](v T, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return v, nil
}

func registerCommon(r *Registry, group string, f filter) {
	r.Register(Prefix+group+".representation", func(a Args) (any, error) {
		mode, err := a.String(0)
		if err != nil {
			return nil, err
		}
		return none(f.UpdateRepresentation(mode))
	})
	r.Register(Prefix+group+".color", func(a Args) (any, error) {
		field, err := a.String(0)
		if err != nil {
			return nil, err
		}
		return none(f.UpdateColorBy(field))
	})
	r.Register(Prefix+group+".enable", func(a Args) (any, error) {
		enable, err := a.Bool(0)
		if err != nil {
			return nil, err
		}
		return none(f.Enable(enable))
	})
	if c, ok := f.(clippable); ok {
		r.Register(Prefix+group+".useclipped", func(a Args) (any, error) {
			use, err := a.Bool(0)
			if err != nil {
				return nil, err
			}
			return none(c.SetUseClipped(use))
		})
	}
}

// RegisterPipeline exposes every pipeline operation on r.
func RegisterPipeline(r *Registry, p *pipeline.Pipeline) {
	registerDatasets(r, p.Datasets)
	registerClip(r, p.Clip)
	registerContour(r, p.Contour)
	registerSlice(r, p.Slice)
	registerMultiSlice(r, p.MultiSlice)
}

func registerDatasets(r *Registry, ds *pipeline.Manager) {
	r.Register(Prefix+"dataset.list", func(Args) (any, error) {
		return ds.List(), nil
	})
	r.Register(Prefix+"dataset.thumbnail", func(a Args) (any, error) {
		name, err := a.String(0)
		if err != nil {
			return nil, err
		}
		return result(ds.Thumbnails(name))
	})
	r.Register(Prefix+"dataset.load", func(a Args) (any, error) {
		name, err := a.String(0)
		if err != nil {
			return nil, err
		}
		return result(ds.Load(name))
	})
	r.Register(Prefix+"dataset.colormap.set", func(a Args) (any, error) {
		preset, err := a.String(0)
		if err != nil {
			return nil, err
		}
		return none(ds.SetGlobalColormap(preset))
	})
	r.Register(Prefix+"dataset.getstate", func(Args) (any, error) {
		return result(ds.State())
	})
	r.Register(Prefix+"dataset.opacity", func(a Args) (any, error) {
		opacity, err := a.Float(0)
		if err != nil {
			return nil, err
		}
		return result(ds.UpdateOpacity(opacity))
	})
	r.Register(Prefix+"dataset.time", func(a Args) (any, error) {
		idx, err := a.Int(0)
		if err != nil {
			return nil, err
		}
		return result(ds.UpdateTime(idx))
	})
	r.Register(Prefix+"dataset.representation", func(a Args) (any, error) {
		mode, err := a.String(0)
		if err != nil {
			return nil, err
		}
		return none(ds.UpdateRepresentation(mode))
	})
	r.Register(Prefix+"dataset.color", func(a Args) (any, error) {
		field, err := a.String(0)
		if err != nil {
			return nil, err
		}
		return none(ds.UpdateColorBy(field))
	})
	r.Register(Prefix+"dataset.enable", func(a Args) (any, error) {
		enable, err := a.Bool(0)
		if err != nil {
			return nil, err
		}
		return none(ds.Enable(enable))
	})
}

func registerClip(r *Registry, c *pipeline.Clip) {
	registerCommon(r, "clip", c)
	r.Register(Prefix+"clip.getstate", func(Args) (any, error) {
		return result(c.State())
	})
	r.Register(Prefix+"clip.position", func(a Args) (any, error) {
		v, err := a.Vec3(0)
		if err != nil {
			return nil, err
		}
		return none(c.UpdatePosition(v[0], v[1], v[2]))
	})
	r.Register(Prefix+"clip.insideout", func(a Args) (any, error) {
		v, err := a.Flags3(0)
		if err != nil {
			return nil, err
		}
		return none(c.UpdateInsideOut(v[0], v[1], v[2]))
	})
}

func registerContour(r *Registry, c *pipeline.Contour) {
	registerCommon(r, "contour", c)
	r.Register(Prefix+"contour.getstate", func(Args) (any, error) {
		return result(c.State())
	})
	r.Register(Prefix+"contour.values", func(a Args) (any, error) {
		values, err := a.Floats(0)
		if err != nil {
			return nil, err
		}
		return none(c.UpdateValues(values))
	})
	r.Register(Prefix+"contour.by", func(a Args) (any, error) {
		field, err := a.String(0)
		if err != nil {
			return nil, err
		}
		return none(c.UpdateContourBy(field))
	})
}

func registerSlice(r *Registry, s *pipeline.Slice) {
	registerCommon(r, "slice", s)
	r.Register(Prefix+"slice.getstate", func(Args) (any, error) {
		return result(s.State())
	})
	r.Register(Prefix+"slice.position", func(a Args) (any, error) {
		v, err := a.Vec3(0)
		if err != nil {
			return nil, err
		}
		return none(s.UpdatePosition(v[0], v[1], v[2]))
	})
	r.Register(Prefix+"slice.visibility", func(a Args) (any, error) {
		v, err := a.Flags3(0)
		if err != nil {
			return nil, err
		}
		return none(s.UpdateVisibility(v[0], v[1], v[2]))
	})
}

func registerMultiSlice(r *Registry, m *pipeline.MultiSlice) {
	registerCommon(r, "mslice", m)
	r.Register(Prefix+"mslice.getstate", func(Args) (any, error) {
		return result(m.State())
	})
	r.Register(Prefix+"mslice.normal", func(a Args) (any, error) {
		axis, err := a.Int(0)
		if err != nil {
			return nil, err
		}
		return none(m.UpdateNormal(axis))
	})
	r.Register(Prefix+"mslice.positions", func(a Args) (any, error) {
		positions, err := a.Floats(0)
		if err != nil {
			return nil, err
		}
		return none(m.UpdateSlicePositions(positions))
	})
}
