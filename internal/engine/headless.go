package engine

import (
	"fmt"
	"os"
	"sort"

	"github.com/jinzhu/copier"
)

// Object is a snapshot of a scene object held by a Headless engine.
type Object struct {
	ID    ObjectID
	Kind  Kind
	Input ObjectID
	Props map[string]any
}

// TransferFunction is the per-field color mapping state.
type TransferFunction struct {
	Field  string
	Min    float64
	Max    float64
	Preset string
}

// Stats summarizes engine activity.
type Stats struct {
	Objects      int
	Deleted      int
	Renders      int
	CameraResets int
}

// Headless is an in-memory Engine. It keeps the scene graph bookkeeping of a
// real engine without doing any geometry work, so the pipeline can run (and
// be tested) without a rendering host. It is not safe for concurrent use.
type Headless struct {
	// TupleBooleans makes flag properties read back as one-element tuples,
	// the way some host engines report them.
	TupleBooleans bool

	nextID    ObjectID
	objects   map[ObjectID]*Object
	deleted   int
	luts      map[string]*TransferFunction
	focal     [3]float64
	center    [3]float64
	resets    int
	renders   int
	timesteps []float64
	time      float64
}

func NewHeadless() *Headless {
	return &Headless{
		objects: make(map[ObjectID]*Object),
		luts:    make(map[string]*TransferFunction),
	}
}

// SetTimesteps configures the time keeper's timestep values.
func (h *Headless) SetTimesteps(values []float64) {
	h.timesteps = append([]float64(nil), values...)
	if len(h.timesteps) > 0 {
		h.time = h.timesteps[0]
	}
}

// SetFocalPoint sets the point the camera frames on the next reset.
func (h *Headless) SetFocalPoint(p [3]float64) { h.focal = p }

func (h *Headless) add(kind Kind, input ObjectID, props map[string]any) ObjectID {
	h.nextID++
	h.objects[h.nextID] = &Object{ID: h.nextID, Kind: kind, Input: input, Props: props}
	return h.nextID
}

func (h *Headless) get(id ObjectID, kinds ...Kind) (*Object, error) {
	obj, ok := h.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownObject, id)
	}
	if len(kinds) == 0 {
		return obj, nil
	}
	for _, k := range kinds {
		if obj.Kind == k {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("%w: %s on %s %d", ErrWrongKind, kinds[0], obj.Kind, id)
}

func (h *Headless) OpenFile(path string) (ObjectID, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("engine: open %s: %w", path, err)
	}
	return h.add(KindReader, 0, map[string]any{PropFileName: path}), nil
}

func (h *Headless) filter(kind Kind, input ObjectID, props map[string]any) (ObjectID, error) {
	if _, err := h.get(input); err != nil {
		return 0, err
	}
	return h.add(kind, input, props), nil
}

func (h *Headless) Clip(input ObjectID) (ObjectID, error) {
	return h.filter(KindClip, input, map[string]any{
		PropOrigin:    [3]float64{},
		PropNormal:    [3]float64{1, 0, 0},
		PropInsideOut: 0,
	})
}

func (h *Headless) Contour(input ObjectID) (ObjectID, error) {
	return h.filter(KindContour, input, map[string]any{
		PropIsosurfaces:    []float64{},
		PropContourBy:      []string{PointData, ""},
		PropComputeScalars: 1,
		PropComputeNormals: 1,
	})
}

func (h *Headless) Slice(input ObjectID) (ObjectID, error) {
	return h.filter(KindSlice, input, map[string]any{
		PropOrigin:       [3]float64{},
		PropNormal:       [3]float64{1, 0, 0},
		PropSliceOffsets: []float64{},
	})
}

func (h *Headless) SetInput(filter, input ObjectID) error {
	obj, err := h.get(filter, KindClip, KindContour, KindSlice)
	if err != nil {
		return err
	}
	if _, err := h.get(input); err != nil {
		return err
	}
	obj.Input = input
	return nil
}

func (h *Headless) Show(source ObjectID) (ObjectID, error) {
	if _, err := h.get(source, KindReader, KindClip, KindContour, KindSlice); err != nil {
		return 0, err
	}
	return h.add(KindRepresentation, source, map[string]any{
		PropVisibility:     1,
		PropRepresentation: "Surface",
		PropOpacity:        1.0,
		PropColorArrayName: []string{PointData, ""},
	}), nil
}

// Delete removes an object and every representation showing it.
func (h *Headless) Delete(id ObjectID) error {
	if _, err := h.get(id); err != nil {
		return err
	}
	for oid, obj := range h.objects {
		if obj.Kind == KindRepresentation && obj.Input == id {
			delete(h.objects, oid)
			h.deleted++
		}
	}
	delete(h.objects, id)
	h.deleted++
	return nil
}

func (h *Headless) setProp(id ObjectID, name string, v any, kinds ...Kind) error {
	obj, err := h.get(id, kinds...)
	if err != nil {
		return err
	}
	obj.Props[name] = v
	return nil
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (h *Headless) SetVisibility(rep ObjectID, visible bool) error {
	return h.setProp(rep, PropVisibility, flag(visible), KindRepresentation)
}

func (h *Headless) SetRepresentation(rep ObjectID, mode string) error {
	return h.setProp(rep, PropRepresentation, mode, KindRepresentation)
}

func (h *Headless) SetOpacity(rep ObjectID, opacity float64) error {
	return h.setProp(rep, PropOpacity, opacity, KindRepresentation)
}

func (h *Headless) SetScalarColoring(rep ObjectID, field string) error {
	if err := h.setProp(rep, PropColorArrayName, []string{PointData, field}, KindRepresentation); err != nil {
		return err
	}
	h.lut(field)
	return nil
}

func (h *Headless) ClearColoring(rep ObjectID) error {
	return h.setProp(rep, PropColorArrayName, []string{PointData, ""}, KindRepresentation)
}

func (h *Headless) SetOrigin(filter ObjectID, origin [3]float64) error {
	return h.setProp(filter, PropOrigin, origin, KindClip, KindSlice)
}

func (h *Headless) SetNormal(filter ObjectID, normal [3]float64) error {
	return h.setProp(filter, PropNormal, normal, KindClip, KindSlice)
}

func (h *Headless) SetInsideOut(filter ObjectID, insideOut bool) error {
	return h.setProp(filter, PropInsideOut, flag(insideOut), KindClip)
}

func (h *Headless) SetIsosurfaces(filter ObjectID, values []float64) error {
	return h.setProp(filter, PropIsosurfaces, append([]float64{}, values...), KindContour)
}

func (h *Headless) SetContourBy(filter ObjectID, field string) error {
	return h.setProp(filter, PropContourBy, []string{PointData, field}, KindContour)
}

func (h *Headless) SetSliceOffsets(filter ObjectID, offsets []float64) error {
	return h.setProp(filter, PropSliceOffsets, append([]float64{}, offsets...), KindSlice)
}

func (h *Headless) Property(id ObjectID, name string) (any, error) {
	obj, err := h.get(id)
	if err != nil {
		return nil, err
	}
	if name == PropInput {
		return obj.Input, nil
	}
	v, ok := obj.Props[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnknownProp, name, obj.Kind)
	}
	if h.TupleBooleans && (name == PropVisibility || name == PropInsideOut) {
		return []int{v.(int)}, nil
	}
	return v, nil
}

func (h *Headless) lut(field string) *TransferFunction {
	tf, ok := h.luts[field]
	if !ok {
		tf = &TransferFunction{Field: field, Max: 1}
		h.luts[field] = tf
	}
	return tf
}

func (h *Headless) RescaleTransferFunction(field string, min, max float64) error {
	tf := h.lut(field)
	tf.Min, tf.Max = min, max
	return nil
}

func (h *Headless) ApplyPreset(field, preset string) error {
	h.lut(field).Preset = preset
	return nil
}

// TransferFunction returns a copy of the color mapping for field.
func (h *Headless) TransferFunction(field string) (TransferFunction, bool) {
	tf, ok := h.luts[field]
	if !ok {
		return TransferFunction{}, false
	}
	return *tf, true
}

func (h *Headless) ResetCamera() error {
	h.resets++
	return nil
}

func (h *Headless) FocalPoint() [3]float64 { return h.focal }

func (h *Headless) SetCenterOfRotation(center [3]float64) error {
	h.center = center
	return nil
}

// CenterOfRotation returns the last center set on the camera.
func (h *Headless) CenterOfRotation() [3]float64 { return h.center }

func (h *Headless) TimestepValues() []float64 {
	return append([]float64(nil), h.timesteps...)
}

func (h *Headless) SetTime(t float64) error {
	h.time = t
	return nil
}

func (h *Headless) Time() float64 { return h.time }

func (h *Headless) Render() error {
	h.renders++
	return nil
}

// Snapshot returns a deep copy of a live object.
func (h *Headless) Snapshot(id ObjectID) (Object, bool) {
	obj, ok := h.objects[id]
	if !ok {
		return Object{}, false
	}
	var out Object
	if err := copier.CopyWithOption(&out, obj, copier.Option{DeepCopy: true}); err != nil {
		return Object{}, false
	}
	return out, true
}

// Objects returns snapshots of every live object, ordered by ID.
func (h *Headless) Objects() []Object {
	ids := make([]ObjectID, 0, len(h.objects))
	for id := range h.objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]Object, 0, len(ids))
	for _, id := range ids {
		if obj, ok := h.Snapshot(id); ok {
			out = append(out, obj)
		}
	}
	return out
}

func (h *Headless) Stats() Stats {
	return Stats{
		Objects:      len(h.objects),
		Deleted:      h.deleted,
		Renders:      h.renders,
		CameraResets: h.resets,
	}
}
