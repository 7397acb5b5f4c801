// Package workload draws the query pairs issued by owlgo bench and the
// benchmarks. Draws are reproducible from a seed.
package workload

import (
	"math"
	"math/rand"

	"github.com/hupe1980/owlgo/model"
)

// Pair is one (subject, object) query.
type Pair struct {
	A, B model.EntityID
}

// Zipf samples ids in [0, n) with P(k) ∝ 1/(k+1)^s over a precomputed CDF.
// Unlike rand.Zipf it accepts any s > 0.
type Zipf struct {
	cdf []float64
	sum float64
}

// NewZipf builds a sampler over [0, n). It returns nil when n is zero or s
// is not positive.
func NewZipf(n uint32, s float64) *Zipf {
	if n == 0 || s <= 0 {
		return nil
	}
	z := &Zipf{cdf: make([]float64, n)}
	for k := range z.cdf {
		z.sum += 1.0 / math.Pow(float64(k+1), s)
		z.cdf[k] = z.sum
	}
	return z
}

// Draw returns the next id.
func (z *Zipf) Draw(rng *rand.Rand) model.EntityID {
	u := rng.Float64() * z.sum
	lo, hi := 0, len(z.cdf)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if z.cdf[mid] < u {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return model.EntityID(lo)
}

// Pairs draws n pairs over [0, capacity) from rng. With skew > 0 ids are
// Zipf distributed so a few hot classes dominate; skew 0 draws uniformly.
func Pairs(rng *rand.Rand, n int, capacity uint32, skew float64) []Pair {
	if n <= 0 || capacity == 0 {
		return nil
	}
	draw := func() model.EntityID {
		return model.EntityID(rng.Intn(int(capacity)))
	}
	if z := NewZipf(capacity, skew); z != nil {
		draw = func() model.EntityID { return z.Draw(rng) }
	}

	pairs := make([]Pair, n)
	for i := range pairs {
		pairs[i] = Pair{A: draw(), B: draw()}
	}
	return pairs
}

// Seeded is Pairs with a fresh generator for seed.
func Seeded(seed int64, n int, capacity uint32, skew float64) []Pair {
	return Pairs(rand.New(rand.NewSource(seed)), n, capacity, skew)
}
