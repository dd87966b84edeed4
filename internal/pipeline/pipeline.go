// Package pipeline keeps the bookkeeping for a remote visualization session:
// the active dataset, the filter wrappers chained off it, and the
// dataset-changed notifications between them. All geometry and rendering is
// delegated to an engine.Engine.
//
// Nothing in this package is safe for concurrent use; callers serialize
// access (the rpc package does so with a single lock).
package pipeline

import (
	"log/slog"

	"github.com/san-kum/lightviz/internal/catalog"
	"github.com/san-kum/lightviz/internal/engine"
)

const (
	// Solid is the color mode sentinel for "no scalar coloring".
	Solid = "__SOLID__"

	// Surface is the default representation mode.
	Surface = "Surface"

	// ResetPosition is the plane coordinate wrappers return to on a dataset change.
	ResetPosition = 50.0
)

// Representation modes understood by the engine.
var RepresentationModes = []string{"Surface", "Surface With Edges", "Wireframe", "Points", "Outline", "Volume"}

// Listener is notified after every dataset switch.
type Listener interface {
	DataChanged() error
}

// stage tags whether a wrapper's engine objects exist.
type stage int

const (
	uninitialized stage = iota
	bound
)

func (s stage) String() string {
	if s == bound {
		return "bound"
	}
	return "uninitialized"
}

// Pipeline wires a dataset manager and the four filter wrappers together.
// Listeners are registered in the order clip, contour, slice, multi-slice.
type Pipeline struct {
	Datasets   *Manager
	Clip       *Clip
	Contour    *Contour
	Slice      *Slice
	MultiSlice *MultiSlice
}

func New(eng engine.Engine, cat *catalog.Catalog, logger *slog.Logger) *Pipeline {
	ds := NewManager(eng, cat, logger)
	clip := NewClip(ds)
	return &Pipeline{
		Datasets:   ds,
		Clip:       clip,
		Contour:    NewContour(ds, clip),
		Slice:      NewSlice(ds, clip),
		MultiSlice: NewMultiSlice(ds, clip),
	}
}

// axisNormal returns the unit normal for axis 0, 1 or 2.
func axisNormal(axis int) [3]float64 {
	var n [3]float64
	n[axis] = 1
	return n
}
