package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lightviz/internal/catalog"
	"github.com/san-kum/lightviz/internal/engine"
	"github.com/san-kum/lightviz/internal/pipeline"
)

var _ = Describe("Manager", func() {
	var f *fixture

	BeforeEach(func() {
		f = newFixture(false)
	})

	It("lists datasets in scan order", func() {
		list := f.p.Datasets.List()
		Expect(list).To(HaveLen(2))
		Expect(list[0].Name).To(Equal("A"))
		Expect(list[1].Name).To(Equal("B"))
	})

	It("rejects unknown datasets", func() {
		_, err := f.p.Datasets.Load("missing")
		Expect(err).To(MatchError(pipeline.ErrNotFound))

		_, err = f.p.Datasets.Thumbnails("missing")
		Expect(err).To(MatchError(pipeline.ErrNotFound))
		Expect(f.p.Datasets.Active()).To(BeNil())
	})

	It("returns no thumbnails when the descriptor lists none", func() {
		thumbs, err := f.p.Datasets.Thumbnails("A")
		Expect(err).NotTo(HaveOccurred())
		Expect(thumbs).To(BeEmpty())
	})

	It("shows the dataset and frames the camera on load", func() {
		f.eng.SetFocalPoint([3]float64{1, 2, 3})
		meta := f.load("A")

		Expect(meta.Name).To(Equal("A"))
		Expect(f.p.Datasets.Active()).To(BeIdenticalTo(meta))
		Expect(f.p.Datasets.Input()).NotTo(BeZero())
		Expect(f.eng.Stats().CameraResets).To(Equal(1))
		Expect(f.eng.CenterOfRotation()).To(Equal([3]float64{1, 2, 3}))

		st, err := f.p.Datasets.State()
		Expect(err).NotTo(HaveOccurred())
		Expect(st).To(Equal(pipeline.DatasetState{
			Opacity: 1, Representation: "Surface", Color: pipeline.Solid, Enabled: true,
		}))
	})

	Describe("listeners", func() {
		var calls []string

		BeforeEach(func() {
			calls = nil
			f.p.Datasets.AddListener(recorder{name: "first", calls: &calls})
			f.p.Datasets.AddListener(recorder{name: "second", calls: &calls})
		})

		It("treats reloading the active dataset as a no-op", func() {
			first := f.load("A")
			input := f.p.Datasets.Input()
			stats := f.eng.Stats()

			second := f.load("A")
			Expect(second).To(BeIdenticalTo(first))
			Expect(f.p.Datasets.Input()).To(Equal(input))
			Expect(calls).To(Equal([]string{"first", "second"}))
			Expect(f.eng.Stats()).To(Equal(stats))
		})

		It("tears down the old dataset and notifies each listener once", func() {
			f.load("A")
			oldInput := f.p.Datasets.Input()
			calls = nil

			f.load("B")
			Expect(calls).To(Equal([]string{"first", "second"}))
			Expect(f.p.Datasets.Input()).NotTo(Equal(oldInput))
			_, alive := f.eng.Snapshot(oldInput)
			Expect(alive).To(BeFalse())
			Expect(f.objectsOf(engine.KindReader)).To(HaveLen(1))
		})

		It("does not notify retroactively", func() {
			f.load("A")
			calls = nil
			var late []string
			f.p.Datasets.AddListener(recorder{name: "late", calls: &late})
			Expect(late).To(BeEmpty())

			f.load("B")
			Expect(late).To(Equal([]string{"late"}))
		})
	})

	It("propagates engine errors from a missing data file", func() {
		base := GinkgoT().TempDir()
		writeDataset(base, "a", indexA, "other.vti")
		cat, err := catalog.Scan(base, nil)
		Expect(err).NotTo(HaveOccurred())

		p := pipeline.New(f.eng, cat, nil)
		_, err = p.Datasets.Load("A")
		Expect(err).To(HaveOccurred())
		Expect(p.Datasets.Active()).To(BeNil())
	})

	Describe("global colormap", func() {
		It("is a no-op without a dataset", func() {
			Expect(f.p.Datasets.SetGlobalColormap("Jet")).To(Succeed())
			_, ok := f.eng.TransferFunction("temperature")
			Expect(ok).To(BeFalse())
		})

		It("applies the preset to every declared array", func() {
			f.load("A")
			Expect(f.p.Datasets.SetGlobalColormap("Jet")).To(Succeed())
			for _, field := range []string{"temperature", "pressure"} {
				tf, ok := f.eng.TransferFunction(field)
				Expect(ok).To(BeTrue())
				Expect(tf.Preset).To(Equal("Jet"))
			}
		})

		It("applies the default preset after each load", func() {
			f.p.Datasets.SetDefaultColormap("Viridis")
			f.load("B")
			tf, ok := f.eng.TransferFunction("density")
			Expect(ok).To(BeTrue())
			Expect(tf.Preset).To(Equal("Viridis"))
		})
	})

	Describe("appearance", func() {
		BeforeEach(func() {
			f.load("A")
		})

		It("echoes opacity", func() {
			v, err := f.p.Datasets.UpdateOpacity(0.4)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(0.4))
			st, _ := f.p.Datasets.State()
			Expect(st.Opacity).To(Equal(0.4))
		})

		It("colors by a field using the declared range", func() {
			Expect(f.p.Datasets.UpdateColorBy("pressure")).To(Succeed())
			st, _ := f.p.Datasets.State()
			Expect(st.Color).To(Equal("pressure"))
			tf, _ := f.eng.TransferFunction("pressure")
			Expect([]float64{tf.Min, tf.Max}).To(Equal([]float64{0, 2}))

			Expect(f.p.Datasets.UpdateColorBy(pipeline.Solid)).To(Succeed())
			st, _ = f.p.Datasets.State()
			Expect(st.Color).To(Equal(pipeline.Solid))
		})

		It("toggles visibility and representation", func() {
			Expect(f.p.Datasets.UpdateRepresentation("Wireframe")).To(Succeed())
			Expect(f.p.Datasets.Enable(false)).To(Succeed())
			st, _ := f.p.Datasets.State()
			Expect(st.Representation).To(Equal("Wireframe"))
			Expect(st.Enabled).To(BeFalse())
		})
	})

	Describe("time", func() {
		It("needs an active dataset", func() {
			_, err := f.p.Datasets.UpdateTime(0)
			Expect(err).To(MatchError(pipeline.ErrNoActiveDataset))
		})

		It("falls back to the declared timesteps", func() {
			f.load("A")
			t, err := f.p.Datasets.UpdateTime(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(t).To(Equal(0.5))

			_, err = f.p.Datasets.UpdateTime(3)
			Expect(err).To(MatchError(pipeline.ErrInvalidArgument))
		})

		It("prefers the engine's timesteps", func() {
			f.eng.SetTimesteps([]float64{10, 20})
			f.load("B")
			t, err := f.p.Datasets.UpdateTime(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(t).To(Equal(20.0))
		})
	})

	It("normalizes tuple booleans in state", func() {
		f = newFixture(true)
		f.load("A")
		st, err := f.p.Datasets.State()
		Expect(err).NotTo(HaveOccurred())
		Expect(st.Enabled).To(BeTrue())
	})
})
