package clust4go

import (
	"github.com/ARULJ/clust4go/distance"
	"github.com/ARULJ/clust4go/seeding"
)

const (
	// DefaultMaxIter bounds the assign/update loop.
	DefaultMaxIter = 100

	// DefaultTolerance is the minimum TSS improvement between two
	// iterations still treated as progress.
	DefaultTolerance = 1e-4

	// DefaultSeed seeds centroid initialization and any randomized
	// tie-breaking.
	DefaultSeed int64 = 42
)

type options struct {
	tolerance float64
	maxIter   int
	metric    distance.Metric
	distFunc  distance.Func
	seed      int64
	workers   int
	logger    *Logger
	initial   [][]float64
	seeding   seeding.Strategy
}

func defaultOptions() options {
	return options{
		tolerance: DefaultTolerance,
		maxIter:   DefaultMaxIter,
		metric:    distance.MetricEuclidean,
		seed:      DefaultSeed,
		seeding:   seeding.PlusPlus{},
	}
}

// Option configures KMeans construction.
type Option func(*options)

// WithTolerance sets the convergence tolerance: the fit stops once the
// absolute TSS change between iterations drops below it. An infinite
// tolerance accepts any change, so the fit converges after a single
// iteration.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		o.tolerance = tol
	}
}

// WithMaxIter caps the number of assign/update iterations. Exhausting
// the cap is reported via Converged() == false, not an error.
func WithMaxIter(maxIter int) Option {
	return func(o *options) {
		o.maxIter = maxIter
	}
}

// WithMetric sets the (dis)similarity metric used for assignment.
// Cost bookkeeping (TSS/WSS/BSS) always uses squared Euclidean
// distance, whatever metric drives the assignment.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithDistanceFunc sets a custom assignment distance function,
// overriding WithMetric.
func WithDistanceFunc(fn distance.Func) Option {
	return func(o *options) {
		o.distFunc = fn
	}
}

// WithSeed pins the seed for centroid initialization and tie-breaking,
// making fits reproducible.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithWorkers caps the parallelism of the assignment step.
// Values below 1 fall back to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger configures the sink for warnings and fit summaries.
//
// If nil is passed, a text logger to stderr is used.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithInitialCentroids supplies an explicit starting centroid set,
// overriding WithSeeding. The slice is copied at construction; len must
// equal k and every centroid must match the data width.
func WithInitialCentroids(centroids [][]float64) Option {
	return func(o *options) {
		o.initial = centroids
	}
}

// WithSeeding sets the strategy used to generate starting centroids
// when none are supplied explicitly. Defaults to seeding.PlusPlus.
func WithSeeding(s seeding.Strategy) Option {
	return func(o *options) {
		if s == nil {
			s = seeding.PlusPlus{}
		}
		o.seeding = s
	}
}
