package physics_test

import (
	"errors"
	"math"
	"math/rand"

	"github.com/Phwatang/basic-n-body-simulation/internal/dynamo"
	"github.com/Phwatang/basic-n-body-simulation/internal/physics"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func cluster(seed int64, n int) []physics.Body[[3]float64] {
	r := rand.New(rand.NewSource(seed))
	bodies := make([]physics.Body[[3]float64], n)
	for i := range bodies {
		b, err := physics.NewBody(
			0.5+r.Float64(),
			[3]float64{r.NormFloat64() * 5, r.NormFloat64() * 5, r.NormFloat64() * 5},
			[3]float64{r.NormFloat64(), r.NormFloat64(), r.NormFloat64()},
		)
		Expect(err).NotTo(HaveOccurred())
		bodies[i] = b
	}
	return bodies
}

var _ = Describe("Gravity step", func() {
	var g *physics.Gravity[[3]float64]

	BeforeEach(func() {
		g = physics.NewGravity[[3]float64]()
		g.G = 1
	})

	Describe("momentum", func() {
		DescribeTable("is conserved by pairwise impulses",
			func(n, workers int) {
				g.Workers = workers
				bodies := cluster(int64(n), n)
				p0 := physics.Momentum(bodies)

				var err error
				for i := 0; i < 50; i++ {
					bodies, err = g.Step(bodies, 1e-3)
					Expect(err).NotTo(HaveOccurred())
				}

				Expect(physics.Momentum(bodies).Dist(p0)).To(BeNumerically("<", 1e-10))
			},
			Entry("two bodies", 2, 1),
			Entry("ten bodies", 10, 1),
			Entry("ten bodies on four workers", 10, 4),
		)
	})

	Describe("two-body symmetry", func() {
		It("applies equal and opposite momentum changes", func() {
			a, _ := physics.NewBody(2, [3]float64{0, 0, 0}, [3]float64{0, 0, 0})
			b, _ := physics.NewBody(5, [3]float64{3, 4, 0}, [3]float64{0, 0, 0})

			bodies, err := g.Step([]physics.Body[[3]float64]{a, b}, 0.01)
			Expect(err).NotTo(HaveOccurred())

			dpa := bodies[0].Velocity.Scale(a.Mass)
			dpb := bodies[1].Velocity.Scale(b.Mass)
			Expect(dpa.Norm()).To(BeNumerically("~", dpb.Norm(), 1e-15))
			Expect(dpa.Add(dpb).Norm()).To(BeNumerically("<", 1e-15))

			// |dp| = G*m1*m2/r^2 * dt, pointing from a toward b
			Expect(dpa.Norm()).To(BeNumerically("~", 2*5/25.0*0.01, 1e-15))
			Expect(dpa.At(0)).To(BeNumerically(">", 0))
			Expect(dpa.At(1)).To(BeNumerically(">", 0))
		})
	})

	Describe("inverse-square law", func() {
		It("weakens monotonically with distance", func() {
			a := physics.Body[[3]float64]{Mass: 1}
			prev := math.Inf(1)
			for _, d := range []float64{0.5, 1, 2, 4, 1e3, 1e9} {
				b := physics.Body[[3]float64]{Mass: 1, Position: dynamo.New([3]float64{d, 0, 0})}
				f, err := g.Force(a, b)
				Expect(err).NotTo(HaveOccurred())
				Expect(f.Norm()).To(BeNumerically("<", prev))
				prev = f.Norm()
			}
			Expect(prev).To(BeNumerically("<", 1e-17))
		})

		It("quadruples when the distance halves", func() {
			a := physics.Body[[3]float64]{Mass: 7}
			far := physics.Body[[3]float64]{Mass: 3, Position: dynamo.New([3]float64{0, 0, 6})}
			near := physics.Body[[3]float64]{Mass: 3, Position: dynamo.New([3]float64{0, 0, 3})}

			ff, err := g.Force(a, far)
			Expect(err).NotTo(HaveOccurred())
			fn, err := g.Force(a, near)
			Expect(err).NotTo(HaveOccurred())
			Expect(fn.Norm() / ff.Norm()).To(BeNumerically("~", 4, 1e-12))
		})
	})

	Describe("a single body", func() {
		It("drifts by velocity*dt without any force", func() {
			b, _ := physics.NewBody(3, [3]float64{1, 1, 1}, [3]float64{0.5, 0, -2})
			bodies, err := g.Step([]physics.Body[[3]float64]{b}, 0.25)
			Expect(err).NotTo(HaveOccurred())
			Expect(bodies[0].Velocity).To(Equal(b.Velocity))
			Expect(bodies[0].Position.Components()).To(Equal([3]float64{1.125, 1, 0.5}))
		})
	})

	Describe("determinism", func() {
		It("produces bit-identical results for identical input", func() {
			a := cluster(42, 12)
			b := physics.Clone(a)

			var err error
			for i := 0; i < 25; i++ {
				a, err = physics.NewGravity[[3]float64]().Step(a, 1e-2)
				Expect(err).NotTo(HaveOccurred())
				b, err = physics.NewGravity[[3]float64]().Step(b, 1e-2)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(a).To(Equal(b))
		})
	})

	Describe("coincident bodies", func() {
		It("fails with a defined error instead of producing NaN", func() {
			a, _ := physics.NewBody(1, [3]float64{1, 2, 3}, [3]float64{})
			b, _ := physics.NewBody(1, [3]float64{1, 2, 3}, [3]float64{})
			bodies := []physics.Body[[3]float64]{a, b}

			out, err := g.Step(bodies, 0.1)
			Expect(err).To(MatchError(dynamo.ErrCoincidentBodies))
			Expect(err).To(MatchError(dynamo.ErrDegenerateVector))

			var pe *dynamo.PairError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect([]int{pe.I, pe.J}).To(Equal([]int{0, 1}))
			Expect(physics.Finite(out)).To(BeTrue())
			Expect(out[0]).To(Equal(a))
		})

		It("treats a separation whose square underflows as coincident", func() {
			a, _ := physics.NewBody(1, [3]float64{0, 0, 0}, [3]float64{})
			b, _ := physics.NewBody(1, [3]float64{1e-160, 0, 0}, [3]float64{})

			out, err := g.Step([]physics.Body[[3]float64]{a, b}, 0.1)
			Expect(err).To(MatchError(dynamo.ErrCoincidentBodies))
			Expect(physics.Finite(out)).To(BeTrue())
			Expect(out[1]).To(Equal(b))
		})
	})

	Describe("force overflow", func() {
		It("fails with ErrInvalidState instead of producing NaN", func() {
			a, _ := physics.NewBody(1e200, [3]float64{0, 0, 0}, [3]float64{})
			b, _ := physics.NewBody(1e200, [3]float64{1, 0, 0}, [3]float64{})

			out, err := g.Step([]physics.Body[[3]float64]{a, b}, 0.1)
			Expect(err).To(MatchError(dynamo.ErrInvalidState))
			Expect(physics.Finite(out)).To(BeTrue())
		})
	})

	Describe("energy", func() {
		It("stays bounded for a circular binary", func() {
			// equal masses on a circular orbit: v^2 = G*m/(4r)
			v := math.Sqrt(1.0 / 4.0)
			a, _ := physics.NewBody(1, [3]float64{-1, 0, 0}, [3]float64{0, -v, 0})
			b, _ := physics.NewBody(1, [3]float64{1, 0, 0}, [3]float64{0, v, 0})
			bodies := []physics.Body[[3]float64]{a, b}
			e0 := physics.TotalEnergy(bodies, g.G)

			var err error
			for i := 0; i < 10000; i++ {
				bodies, err = g.Step(bodies, 1e-3)
				Expect(err).NotTo(HaveOccurred())
			}

			e := physics.TotalEnergy(bodies, g.G)
			Expect(math.Abs((e - e0) / e0)).To(BeNumerically("<", 1e-2))
		})
	})
})
