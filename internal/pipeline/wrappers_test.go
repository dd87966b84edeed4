package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lightviz/internal/engine"
	"github.com/san-kum/lightviz/internal/pipeline"
)

type wrapper interface {
	Enable(bool) error
	UpdateRepresentation(string) error
	UpdateColorBy(string) error
	DataChanged() error
	Stage() string
}

type appearance struct {
	Representation string
	Color          string
	Enabled        bool
}

type clippable interface {
	SetUseClipped(bool) error
}

type kind struct {
	get   func(*pipeline.Pipeline) wrapper
	state func(*pipeline.Pipeline) (appearance, any)
}

var kinds = map[string]kind{
	"clip": {
		get: func(p *pipeline.Pipeline) wrapper { return p.Clip },
		state: func(p *pipeline.Pipeline) (appearance, any) {
			st, err := p.Clip.State()
			Expect(err).NotTo(HaveOccurred())
			return appearance{st.Representation, st.Color, st.Enabled}, st
		},
	},
	"contour": {
		get: func(p *pipeline.Pipeline) wrapper { return p.Contour },
		state: func(p *pipeline.Pipeline) (appearance, any) {
			st, err := p.Contour.State()
			Expect(err).NotTo(HaveOccurred())
			return appearance{st.Representation, st.Color, st.Enabled}, st
		},
	},
	"slice": {
		get: func(p *pipeline.Pipeline) wrapper { return p.Slice },
		state: func(p *pipeline.Pipeline) (appearance, any) {
			st, err := p.Slice.State()
			Expect(err).NotTo(HaveOccurred())
			return appearance{st.Representation, st.Color, st.Enabled}, st
		},
	},
	"mslice": {
		get: func(p *pipeline.Pipeline) wrapper { return p.MultiSlice },
		state: func(p *pipeline.Pipeline) (appearance, any) {
			st, err := p.MultiSlice.State()
			Expect(err).NotTo(HaveOccurred())
			return appearance{st.Representation, st.Color, st.Enabled}, st
		},
	},
}

var allKinds = []TableEntry{
	Entry("clip", "clip"),
	Entry("contour", "contour"),
	Entry("slice", "slice"),
	Entry("mslice", "mslice"),
}

var _ = Describe("Filter wrappers", func() {
	var f *fixture

	BeforeEach(func() {
		f = newFixture(false)
	})

	DescribeTable("enable without a dataset is a no-op",
		func(name string) {
			k := kinds[name]
			_, before := k.state(f.p)

			Expect(k.get(f.p).Enable(true)).To(Succeed())

			_, after := k.state(f.p)
			Expect(after).To(Equal(before))
			Expect(k.get(f.p).Stage()).To(Equal("uninitialized"))
			Expect(f.eng.Stats().Objects).To(BeZero())
		},
		allKinds,
	)

	DescribeTable("visibility toggles keep representation and color",
		func(name string) {
			k := kinds[name]
			w := k.get(f.p)
			f.load("A")

			Expect(w.UpdateRepresentation("Wireframe")).To(Succeed())
			Expect(w.UpdateColorBy("temperature")).To(Succeed())
			Expect(w.Enable(true)).To(Succeed())
			Expect(w.Stage()).To(Equal("bound"))

			Expect(w.Enable(false)).To(Succeed())
			off, _ := k.state(f.p)
			Expect(off.Enabled).To(BeFalse())

			objects := f.eng.Stats().Objects
			Expect(w.Enable(true)).To(Succeed())
			on, _ := k.state(f.p)
			Expect(on).To(Equal(appearance{"Wireframe", "temperature", true}))
			Expect(f.eng.Stats().Objects).To(Equal(objects))
		},
		allKinds,
	)

	DescribeTable("dataset changes hard-reset the wrapper",
		func(name string) {
			k := kinds[name]
			w := k.get(f.p)
			f.load("A")
			Expect(w.UpdateRepresentation("Points")).To(Succeed())
			Expect(w.UpdateColorBy("pressure")).To(Succeed())
			Expect(w.Enable(true)).To(Succeed())
			objects := f.eng.Stats().Objects

			f.load("B")

			st, _ := k.state(f.p)
			Expect(st).To(Equal(appearance{pipeline.Surface, pipeline.Solid, false}))
			Expect(w.Stage()).To(Equal("bound"))
			Expect(f.eng.Stats().Objects).To(Equal(objects))
		},
		allKinds,
	)

	DescribeTable("dataset changes rebind every filter to the new dataset",
		func(name string, useClipped bool) {
			w := kinds[name].get(f.p)
			f.load("A")
			if useClipped {
				Expect(w.(clippable).SetUseClipped(true)).To(Succeed())
			}
			Expect(w.Enable(true)).To(Succeed())
			oldInput := f.p.Datasets.Input()
			if useClipped {
				clipOut, _ := f.p.Clip.Output()
				for _, id := range f.filterInputs(name) {
					Expect(id).To(Equal(clipOut))
				}
			}

			f.load("B")

			inputs := f.filterInputs(name)
			Expect(inputs).NotTo(BeEmpty())
			for _, id := range inputs {
				Expect(id).To(Equal(f.p.Datasets.Input()))
				Expect(id).NotTo(Equal(oldInput))
			}

			if useClipped {
				Expect(w.Enable(true)).To(Succeed())
				clipOut, _ := f.p.Clip.Output()
				Expect(f.objectsOf(engine.KindClip)[0].Input).To(Equal(f.p.Datasets.Input()))
				for _, id := range f.filterInputs(name) {
					Expect(id).To(Equal(clipOut))
				}
			}
		},
		Entry("clip", "clip", false),
		Entry("contour", "contour", false),
		Entry("slice", "slice", false),
		Entry("mslice", "mslice", false),
		Entry("contour on clipped input", "contour", true),
		Entry("slice on clipped input", "slice", true),
		Entry("mslice on clipped input", "mslice", true),
	)

	DescribeTable("dataset changes reset wrappers that were never enabled",
		func(name string) {
			k := kinds[name]
			w := k.get(f.p)
			Expect(w.UpdateRepresentation("Points")).To(Succeed())
			Expect(w.UpdateColorBy("pressure")).To(Succeed())

			f.load("A")

			st, _ := k.state(f.p)
			Expect(st).To(Equal(appearance{pipeline.Surface, pipeline.Solid, false}))
			Expect(w.Stage()).To(Equal("uninitialized"))
		},
		allKinds,
	)

	DescribeTable("state booleans are normalized from tuple properties",
		func(name string) {
			f = newFixture(true)
			k := kinds[name]
			f.load("A")
			Expect(k.get(f.p).Enable(true)).To(Succeed())
			st, _ := k.state(f.p)
			Expect(st.Enabled).To(BeTrue())

			Expect(k.get(f.p).Enable(false)).To(Succeed())
			st, _ = k.state(f.p)
			Expect(st.Enabled).To(BeFalse())
		},
		allKinds,
	)

	DescribeTable("use-clipped flag is recorded without filters",
		func(name string) {
			w := kinds[name].get(f.p).(clippable)
			Expect(w.SetUseClipped(true)).To(Succeed())
			Expect(w.SetUseClipped(false)).To(Succeed())
			Expect(usesClipped(f.p, name)).To(BeFalse())

			Expect(w.SetUseClipped(true)).To(Succeed())
			Expect(usesClipped(f.p, name)).To(BeTrue())
			Expect(f.eng.Stats().Objects).To(BeZero())
		},
		Entry("contour", "contour"),
		Entry("slice", "slice"),
		Entry("mslice", "mslice"),
	)
})

// filterInputs returns the inputs of the filters owned by the named wrapper.
// For clip that is the head of the chain.
func (f *fixture) filterInputs(name string) []engine.ObjectID {
	kind := map[string]engine.Kind{
		"clip":    engine.KindClip,
		"contour": engine.KindContour,
		"slice":   engine.KindSlice,
		"mslice":  engine.KindSlice,
	}[name]
	var inputs []engine.ObjectID
	for _, obj := range f.objectsOf(kind) {
		inputs = append(inputs, obj.Input)
		if name == "clip" {
			break
		}
	}
	return inputs
}

func usesClipped(p *pipeline.Pipeline, name string) bool {
	switch name {
	case "contour":
		st, _ := p.Contour.State()
		return st.UseClipped
	case "slice":
		st, _ := p.Slice.State()
		return st.UseClipped
	case "mslice":
		st, _ := p.MultiSlice.State()
		return st.UseClipped
	}
	return false
}

var _ = Describe("Clip", func() {
	var f *fixture

	BeforeEach(func() {
		f = newFixture(false)
	})

	It("stays uninitialized when enabled before any dataset", func() {
		Expect(f.p.Clip.Enable(true)).To(Succeed())
		Expect(f.p.Clip.Stage()).To(Equal("uninitialized"))

		f.load("A")
		Expect(f.p.Clip.Enable(true)).To(Succeed())
		st, err := f.p.Clip.State()
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Enabled).To(BeTrue())
	})

	It("chains three clips centered on the dataset bounds", func() {
		f.load("A")
		Expect(f.p.Clip.Enable(true)).To(Succeed())

		clips := f.objectsOf(engine.KindClip)
		Expect(clips).To(HaveLen(3))
		Expect(clips[0].Input).To(Equal(f.p.Datasets.Input()))
		Expect(clips[1].Input).To(Equal(clips[0].ID))
		Expect(clips[2].Input).To(Equal(clips[1].ID))
		Expect(clips[2].Props[engine.PropNormal]).To(Equal([3]float64{0, 0, 1}))

		st, _ := f.p.Clip.State()
		Expect([]float64{st.XPosition, st.YPosition, st.ZPosition}).To(Equal([]float64{5, 10, 15}))
	})

	It("updates positions and inside-out flags on live filters", func() {
		Expect(f.p.Clip.UpdatePosition(1, 2, 3)).To(Succeed())
		f.load("A")
		Expect(f.p.Clip.Enable(true)).To(Succeed())
		Expect(f.p.Clip.UpdatePosition(1, 2, 3)).To(Succeed())
		Expect(f.p.Clip.UpdateInsideOut(true, false, true)).To(Succeed())

		st, _ := f.p.Clip.State()
		Expect(st.XPosition).To(Equal(1.0))
		Expect(st.YPosition).To(Equal(2.0))
		Expect(st.ZPosition).To(Equal(3.0))
		Expect(st.XInsideOut).To(BeTrue())
		Expect(st.YInsideOut).To(BeFalse())
		Expect(st.ZInsideOut).To(BeTrue())
	})

	It("creates its output without a representation", func() {
		f.load("A")
		out, err := f.p.Clip.Output()
		Expect(err).NotTo(HaveOccurred())
		Expect(out).NotTo(BeZero())
		Expect(f.p.Clip.Stage()).To(Equal("bound"))

		st, _ := f.p.Clip.State()
		Expect(st.Enabled).To(BeFalse())
		Expect(f.objectsOf(engine.KindRepresentation)).To(HaveLen(1))
	})

	It("needs a dataset for its output", func() {
		_, err := f.p.Clip.Output()
		Expect(err).To(MatchError(pipeline.ErrNoActiveDataset))
	})

	It("resets geometry and rebinds on dataset change", func() {
		f.load("A")
		Expect(f.p.Clip.Enable(true)).To(Succeed())
		Expect(f.p.Clip.UpdateInsideOut(true, true, true)).To(Succeed())

		f.load("B")
		st, _ := f.p.Clip.State()
		Expect([]float64{st.XPosition, st.YPosition, st.ZPosition}).To(Equal([]float64{50, 50, 50}))
		Expect(st.XInsideOut || st.YInsideOut || st.ZInsideOut).To(BeFalse())
		Expect(f.objectsOf(engine.KindClip)[0].Input).To(Equal(f.p.Datasets.Input()))
	})
})

var _ = Describe("Contour", func() {
	var f *fixture

	BeforeEach(func() {
		f = newFixture(false)
	})

	It("applies a pending color with the declared range on first enable", func() {
		f.load("A")
		Expect(f.p.Contour.UpdateColorBy("temperature")).To(Succeed())
		_, ok := f.eng.TransferFunction("temperature")
		Expect(ok).To(BeFalse())

		Expect(f.p.Contour.Enable(true)).To(Succeed())

		st, err := f.p.Contour.State()
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Color).To(Equal("temperature"))
		tf, ok := f.eng.TransferFunction("temperature")
		Expect(ok).To(BeTrue())
		Expect([]float64{tf.Min, tf.Max}).To(Equal([]float64{250, 310}))
	})

	It("creates the contour with scalars and normals", func() {
		f.load("A")
		Expect(f.p.Contour.Enable(true)).To(Succeed())
		c := f.objectsOf(engine.KindContour)
		Expect(c).To(HaveLen(1))
		Expect(c[0].Props[engine.PropComputeScalars]).To(Equal(1))
		Expect(c[0].Props[engine.PropComputeNormals]).To(Equal(1))
	})

	It("ignores values until the filter exists", func() {
		Expect(f.p.Contour.UpdateValues([]float64{1})).To(Succeed())
		Expect(f.p.Contour.UpdateContourBy("temperature")).To(Succeed())
		f.load("A")
		Expect(f.p.Contour.Enable(true)).To(Succeed())
		st, _ := f.p.Contour.State()
		Expect(st.Values).To(BeEmpty())
		Expect(st.Field).To(BeEmpty())

		Expect(f.p.Contour.UpdateValues([]float64{260, 280})).To(Succeed())
		Expect(f.p.Contour.UpdateContourBy("temperature")).To(Succeed())
		st, _ = f.p.Contour.State()
		Expect(st.Values).To(Equal([]float64{260, 280}))
		Expect(st.Field).To(Equal("temperature"))
	})

	It("switches between raw and clipped input", func() {
		f.load("A")
		Expect(f.p.Contour.Enable(true)).To(Succeed())
		contour := f.objectsOf(engine.KindContour)[0].ID
		Expect(f.input(contour)).To(Equal(f.p.Datasets.Input()))

		Expect(f.p.Contour.SetUseClipped(true)).To(Succeed())
		clipOut, _ := f.p.Clip.Output()
		Expect(f.input(contour)).To(Equal(clipOut))
		Expect(f.p.Clip.Stage()).To(Equal("bound"))

		Expect(f.p.Contour.SetUseClipped(false)).To(Succeed())
		Expect(f.input(contour)).To(Equal(f.p.Datasets.Input()))
	})

	It("uses clipped input when enabled after selecting it", func() {
		Expect(f.p.Contour.SetUseClipped(true)).To(Succeed())
		f.load("A")
		Expect(f.p.Contour.Enable(true)).To(Succeed())
		clipOut, _ := f.p.Clip.Output()
		Expect(f.objectsOf(engine.KindContour)[0].Input).To(Equal(clipOut))
	})

	It("clears iso-values on dataset change", func() {
		f.load("A")
		Expect(f.p.Contour.Enable(true)).To(Succeed())
		Expect(f.p.Contour.UpdateValues([]float64{260})).To(Succeed())
		f.load("B")
		st, _ := f.p.Contour.State()
		Expect(st.Values).To(BeEmpty())
		Expect(st.Enabled).To(BeFalse())
	})
})

var _ = Describe("Slice", func() {
	var f *fixture

	BeforeEach(func() {
		f = newFixture(false)
	})

	It("remembers a position set before creation", func() {
		Expect(f.p.Slice.UpdatePosition(1, 2, 3)).To(Succeed())
		f.load("A")
		Expect(f.p.Slice.Enable(true)).To(Succeed())

		slices := f.objectsOf(engine.KindSlice)
		Expect(slices).To(HaveLen(3))
		for _, s := range slices {
			Expect(s.Props[engine.PropOrigin]).To(Equal([3]float64{1, 2, 3}))
		}
		st, _ := f.p.Slice.State()
		Expect([]float64{st.XPosition, st.YPosition, st.ZPosition}).To(Equal([]float64{1, 2, 3}))
	})

	It("centers on the dataset bounds by default", func() {
		f.load("A")
		Expect(f.p.Slice.Enable(true)).To(Succeed())
		st, _ := f.p.Slice.State()
		Expect([]float64{st.XPosition, st.YPosition, st.ZPosition}).To(Equal([]float64{5, 10, 15}))
	})

	It("shows only the selected axes while enabled", func() {
		f.load("A")
		Expect(f.p.Slice.UpdateVisibility(true, false, true)).To(Succeed())
		Expect(f.p.Slice.Enable(true)).To(Succeed())

		visible := 0
		for _, rep := range f.objectsOf(engine.KindRepresentation) {
			if rep.Input != f.p.Datasets.Input() && engine.Truthy(rep.Props[engine.PropVisibility]) {
				visible++
			}
		}
		Expect(visible).To(Equal(2))

		Expect(f.p.Slice.Enable(false)).To(Succeed())
		Expect(f.p.Slice.UpdateVisibility(true, true, true)).To(Succeed())
		for _, rep := range f.objectsOf(engine.KindRepresentation) {
			if rep.Input != f.p.Datasets.Input() {
				Expect(engine.Truthy(rep.Props[engine.PropVisibility])).To(BeFalse())
			}
		}
		st, _ := f.p.Slice.State()
		Expect(st.XVisible && st.YVisible && st.ZVisible).To(BeTrue())
	})

	It("rebinds all planes when switching to clipped input", func() {
		f.load("A")
		Expect(f.p.Slice.Enable(true)).To(Succeed())
		Expect(f.p.Slice.SetUseClipped(true)).To(Succeed())
		clipOut, _ := f.p.Clip.Output()
		for _, s := range f.objectsOf(engine.KindSlice) {
			Expect(s.Input).To(Equal(clipOut))
		}
	})

	It("moves planes to the reset position on dataset change", func() {
		f.load("A")
		Expect(f.p.Slice.Enable(true)).To(Succeed())
		f.load("B")
		st, _ := f.p.Slice.State()
		Expect([]float64{st.XPosition, st.YPosition, st.ZPosition}).To(Equal([]float64{50, 50, 50}))
		Expect(st.Enabled).To(BeFalse())
	})

	It("keeps a cached center across dataset changes before creation", func() {
		Expect(f.p.Slice.UpdatePosition(7, 8, 9)).To(Succeed())
		f.load("A")
		f.load("B")
		st, _ := f.p.Slice.State()
		Expect([]float64{st.XPosition, st.YPosition, st.ZPosition}).To(Equal([]float64{7, 8, 9}))

		Expect(f.p.Slice.Enable(true)).To(Succeed())
		for _, s := range f.objectsOf(engine.KindSlice) {
			Expect(s.Props[engine.PropOrigin]).To(Equal([3]float64{7, 8, 9}))
		}
	})
})

var _ = Describe("MultiSlice", func() {
	var f *fixture

	BeforeEach(func() {
		f = newFixture(false)
	})

	It("applies cached normal and positions on first enable", func() {
		Expect(f.p.MultiSlice.UpdateNormal(2)).To(Succeed())
		Expect(f.p.MultiSlice.UpdateSlicePositions([]float64{1, 2, 3})).To(Succeed())
		f.load("A")
		Expect(f.p.MultiSlice.Enable(true)).To(Succeed())

		s := f.objectsOf(engine.KindSlice)
		Expect(s).To(HaveLen(1))
		Expect(s[0].Props[engine.PropNormal]).To(Equal([3]float64{0, 0, 1}))
		Expect(s[0].Props[engine.PropSliceOffsets]).To(Equal([]float64{1, 2, 3}))

		st, _ := f.p.MultiSlice.State()
		Expect(st.Normal).To(Equal("2"))
		Expect(st.Positions).To(Equal([]float64{1, 2, 3}))
	})

	It("keeps cached positions across dataset changes before creation", func() {
		Expect(f.p.MultiSlice.UpdateSlicePositions([]float64{1, 2, 3})).To(Succeed())
		f.load("A")
		st, _ := f.p.MultiSlice.State()
		Expect(st.Positions).To(Equal([]float64{1, 2, 3}))

		f.load("B")
		Expect(f.p.MultiSlice.Enable(true)).To(Succeed())
		s := f.objectsOf(engine.KindSlice)
		Expect(s).To(HaveLen(1))
		Expect(s[0].Props[engine.PropSliceOffsets]).To(Equal([]float64{1, 2, 3}))
	})

	It("rejects axes other than 0, 1 and 2", func() {
		Expect(f.p.MultiSlice.UpdateNormal(3)).To(MatchError(pipeline.ErrInvalidArgument))
		st, _ := f.p.MultiSlice.State()
		Expect(st.Normal).To(Equal("0"))
	})

	It("clears offsets on dataset change", func() {
		f.load("A")
		Expect(f.p.MultiSlice.Enable(true)).To(Succeed())
		Expect(f.p.MultiSlice.UpdateSlicePositions([]float64{4})).To(Succeed())
		f.load("B")
		st, _ := f.p.MultiSlice.State()
		Expect(st.Positions).To(BeEmpty())
		Expect(st.Enabled).To(BeFalse())
	})
})
