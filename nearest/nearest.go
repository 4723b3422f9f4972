package nearest

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/ARULJ/clust4go/distance"
	"github.com/ARULJ/clust4go/internal/matutil"
)

// ErrNonFiniteDistance is returned by Predict when the distance matrix
// between observations and centroids has no finite entry for one or
// more centroids, or for one or more observations, so that at least one
// assignment is ill-defined. Callers may treat this as a recoverable
// condition and branch with errors.Is.
var ErrNonFiniteDistance = errors.New("nearest: distance matrix is entirely non-finite for at least one centroid")

type options struct {
	metric   distance.Metric
	distFunc distance.Func
	seed     int64
	workers  int
}

// Option configures classifier construction.
type Option func(*options)

// WithMetric sets the distance metric used for assignment.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithFunc sets a custom distance function, overriding WithMetric.
func WithFunc(fn distance.Func) Option {
	return func(o *options) {
		o.distFunc = fn
	}
}

// WithSeed pins the seed used by any randomized internals. Assignment
// currently breaks ties toward the lowest centroid index, so results
// are deterministic for every seed; the value is recorded so callers
// can reproduce a fit from the classifier alone.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithWorkers caps the number of goroutines used to fan out rows
// during Predict. Values below 1 fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// Classifier assigns observations to their nearest centroid.
type Classifier struct {
	centroids [][]float64
	labels    []int
	distFunc  distance.Func
	seed      int64
	workers   int
}

// New builds a classifier from a centroid matrix. labels[i] is the
// label reported for rows closest to centroid row i; pass nil to use
// 0..k-1.
func New(centroids mat.Matrix, labels []int, optFns ...Option) (*Classifier, error) {
	o := options{
		metric:  distance.MetricEuclidean,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, fn := range optFns {
		fn(&o)
	}

	k, _ := centroids.Dims()
	if k < 1 {
		return nil, fmt.Errorf("nearest: centroid matrix must have at least one row")
	}

	if labels == nil {
		labels = matutil.Arange(k)
	}
	if len(labels) != k {
		return nil, fmt.Errorf("nearest: got %d labels for %d centroids", len(labels), k)
	}

	distFunc := o.distFunc
	if distFunc == nil {
		var err error
		distFunc, err = distance.Provider(o.metric)
		if err != nil {
			return nil, err
		}
	}

	if o.workers < 1 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	return &Classifier{
		centroids: matutil.DenseToRows(centroids),
		labels:    labels,
		distFunc:  distFunc,
		seed:      o.seed,
		workers:   o.workers,
	}, nil
}

// Seed returns the seed the classifier was built with.
func (c *Classifier) Seed() int64 {
	return c.seed
}

// Classify returns the label of the centroid nearest to x and the
// distance to it.
func (c *Classifier) Classify(x []float64) (int, float64, error) {
	best, bestDist := c.nearest(x, nil)
	if best < 0 {
		return 0, 0, ErrNonFiniteDistance
	}

	return c.labels[best], bestDist, nil
}

// Predict returns, for every row of X, the label of its nearest
// centroid and the distance to it. Ties break toward the lowest
// centroid index, so the result is deterministic for a fixed input
// order. Rows are fanned out across workers; rows are independent, so
// parallel execution yields the sequential result.
func (c *Classifier) Predict(X [][]float64) ([]int, []float64, error) {
	m := len(X)
	if m == 0 {
		return nil, nil, nil
	}

	labels := make([]int, m)
	dists := make([]float64, m)

	workers := c.workers
	if workers > m {
		workers = m
	}

	// Per-worker record of which centroids produced at least one
	// finite distance, merged after the join.
	finite := make([][]bool, workers)

	var g errgroup.Group

	chunk := (m + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, m)
		if lo >= hi {
			continue
		}

		seen := make([]bool, len(c.centroids))
		finite[w] = seen

		g.Go(func() error {
			for row := lo; row < hi; row++ {
				best, bestDist := c.nearest(X[row], seen)
				if best < 0 {
					// No centroid is a finite distance from this row.
					return ErrNonFiniteDistance
				}

				labels[row] = c.labels[best]
				dists[row] = bestDist
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	for j := range c.centroids {
		reachable := false
		for _, seen := range finite {
			if seen != nil && seen[j] {
				reachable = true
				break
			}
		}

		if !reachable {
			return nil, nil, ErrNonFiniteDistance
		}
	}

	return labels, dists, nil
}

// nearest returns the index of the centroid with the minimal finite
// distance to x, or -1 when no distance is finite. When seen is
// non-nil, seen[j] is set for every centroid j at a finite distance.
func (c *Classifier) nearest(x []float64, seen []bool) (int, float64) {
	best := -1
	bestDist := math.Inf(1)

	for j, centroid := range c.centroids {
		d := c.distFunc(x, centroid)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			continue
		}

		if seen != nil {
			seen[j] = true
		}

		if d < bestDist {
			best = j
			bestDist = d
		}
	}

	return best, bestDist
}
