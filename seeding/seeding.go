// Package seeding provides starting-centroid strategies for the
// clustering loop.
//
// Strategies are deterministic for a fixed seed: the fitter hands each
// strategy a seeded RNG, so equal data, k and seed always produce the
// same starting centroids.
package seeding

import (
	"math"
	"slices"

	"github.com/ARULJ/clust4go/internal/matutil"
	"github.com/ARULJ/clust4go/util"
)

// Strategy generates k starting centroids from the data matrix.
// Implementations must not mutate X and must return copies, never row
// aliases, since the loop replaces centroids in place.
type Strategy interface {
	Seed(X [][]float64, k int, rng *util.RNG) [][]float64
}

// Random picks k distinct observations as starting centroids.
type Random struct{}

// Seed implements Strategy.
func (Random) Seed(X [][]float64, k int, rng *util.RNG) [][]float64 {
	perm := rng.Perm(len(X))

	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = slices.Clone(X[perm[i]])
	}

	return centroids
}

// PlusPlus implements k-means++ seeding: after a random first centroid,
// each subsequent centroid is sampled with probability proportional to
// the squared distance from the nearest centroid chosen so far. Spreads
// the seeds and tends to cut the iterations to convergence.
type PlusPlus struct{}

// Seed implements Strategy.
func (PlusPlus) Seed(X [][]float64, k int, rng *util.RNG) [][]float64 {
	m := len(X)

	centroids := make([][]float64, 0, k)
	centroids = append(centroids, slices.Clone(X[rng.Intn(m)]))

	d2 := make([]float64, m)
	for len(centroids) < k {
		total := 0.0
		for i, row := range X {
			best := math.Inf(1)
			for _, centroid := range centroids {
				if d := matutil.SquaredDistance(row, centroid); d < best {
					best = d
				}
			}

			d2[i] = best
			total += best
		}

		// All remaining mass sits on already-chosen points; fall back
		// to a uniform draw.
		next := rng.Intn(m)
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, w := range d2 {
				acc += w
				if acc >= target {
					next = i
					break
				}
			}
		}

		centroids = append(centroids, slices.Clone(X[next]))
	}

	return centroids
}
