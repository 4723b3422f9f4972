package util

import "math/rand"

// RNG struct encapsulates the random number generator and seed.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), // nolint gosec
		seed: seed,
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Perm returns a deterministic pseudo-random permutation of [0, n).
func (r *RNG) Perm(n int) []int {
	return r.rand.Perm(n)
}

// Intn returns a deterministic pseudo-random int in [0, n).
func (r *RNG) Intn(n int) int {
	return r.rand.Intn(n)
}

// Float64 returns a deterministic pseudo-random float64 in [0, 1).
func (r *RNG) Float64() float64 {
	return r.rand.Float64()
}

// GenerateRandomRows generates random observation rows using the given RNG.
func (r *RNG) GenerateRandomRows(num int, dimensions int) [][]float64 {
	rows := make([][]float64, num)
	for i := range rows {
		rows[i] = make([]float64, dimensions)
		for j := range rows[i] {
			rows[i][j] = r.rand.Float64()
		}
	}

	return rows
}
