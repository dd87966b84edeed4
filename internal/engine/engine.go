// Package engine defines the narrow render-engine surface the pipeline
// depends on, plus a headless in-memory implementation of it.
//
// The engine owns every scene object (readers, filters, representations,
// transfer functions, the camera and the time keeper). Callers only hold
// ObjectIDs and never touch engine state directly.
package engine

import "errors"

// ObjectID identifies a scene object owned by an Engine. The zero value
// means "no object".
type ObjectID uint64

// Kind is the type of a scene object.
type Kind string

const (
	KindReader         Kind = "reader"
	KindClip           Kind = "clip"
	KindContour        Kind = "contour"
	KindSlice          Kind = "slice"
	KindRepresentation Kind = "representation"
)

// Property names understood by Engine.Property.
const (
	PropInput          = "Input"
	PropFileName       = "FileName"
	PropVisibility     = "Visibility"
	PropRepresentation = "Representation"
	PropOpacity        = "Opacity"
	PropColorArrayName = "ColorArrayName"
	PropOrigin         = "Origin"
	PropNormal         = "Normal"
	PropInsideOut      = "InsideOut"
	PropIsosurfaces    = "Isosurfaces"
	PropContourBy      = "ContourBy"
	PropComputeScalars = "ComputeScalars"
	PropComputeNormals = "ComputeNormals"
	PropSliceOffsets   = "SliceOffsetValues"
)

// PointData is the association reported in ColorArrayName when a
// representation is colored by a point field.
const PointData = "POINTS"

var (
	ErrUnknownObject = errors.New("engine: unknown object")
	ErrWrongKind     = errors.New("engine: operation not supported by object kind")
	ErrUnknownProp   = errors.New("engine: unknown property")
)

// Engine is the render engine the pipeline drives. Mutators take typed
// values; Property reads return whatever the engine reports, which may be a
// scalar or a one-element tuple. Use the helpers in this package to
// normalize them.
type Engine interface {
	OpenFile(path string) (ObjectID, error)
	Clip(input ObjectID) (ObjectID, error)
	Contour(input ObjectID) (ObjectID, error)
	Slice(input ObjectID) (ObjectID, error)
	SetInput(filter, input ObjectID) error
	Show(source ObjectID) (ObjectID, error)
	Delete(obj ObjectID) error

	SetVisibility(rep ObjectID, visible bool) error
	SetRepresentation(rep ObjectID, mode string) error
	SetOpacity(rep ObjectID, opacity float64) error
	SetScalarColoring(rep ObjectID, field string) error
	ClearColoring(rep ObjectID) error

	SetOrigin(filter ObjectID, origin [3]float64) error
	SetNormal(filter ObjectID, normal [3]float64) error
	SetInsideOut(filter ObjectID, insideOut bool) error
	SetIsosurfaces(filter ObjectID, values []float64) error
	SetContourBy(filter ObjectID, field string) error
	SetSliceOffsets(filter ObjectID, offsets []float64) error

	Property(obj ObjectID, name string) (any, error)

	RescaleTransferFunction(field string, min, max float64) error
	ApplyPreset(field, preset string) error

	ResetCamera() error
	FocalPoint() [3]float64
	SetCenterOfRotation(center [3]float64) error

	TimestepValues() []float64
	SetTime(t float64) error
	Time() float64

	Render() error
}
