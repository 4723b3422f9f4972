package clust4go

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/ARULJ/clust4go/distance"
	"github.com/ARULJ/clust4go/internal/labelset"
	"github.com/ARULJ/clust4go/internal/matutil"
	"github.com/ARULJ/clust4go/nearest"
	"github.com/ARULJ/clust4go/util"
)

// KMeans partitions m observations into k clusters with Lloyd's
// algorithm: every iteration assigns each observation to its nearest
// centroid, then replaces each centroid with the mean of its members,
// until the total within-cluster cost stabilizes or the iteration
// budget runs out.
//
// The model is exclusively owned by the fitting goroutine while Fit
// runs; concurrent Fit calls on the same instance serialize and the
// second caller observes the completed result.
type KMeans struct {
	mu sync.Mutex

	data [][]float64 // read-only, shared with the caller
	m, n int
	k    int

	opts options

	// populated by Fit
	labels    []int
	centroids [][]float64
	iter      int
	converged bool
	tss       float64
	maxCost   float64
	wss       []float64
	bss       float64
	summary   FitSummary
}

// NewKMeans validates the input and builds an unfitted model. X rows
// are shared, not copied; callers must not mutate them while a fit is
// in flight.
func NewKMeans(X [][]float64, k int, optFns ...Option) (*KMeans, error) {
	if len(X) == 0 {
		return nil, ErrEmptyMatrix
	}

	n := len(X[0])
	for _, row := range X {
		if len(row) != n {
			return nil, &ErrDimensionMismatch{Expected: n, Actual: len(row)}
		}
	}

	if k < 1 {
		return nil, ErrInvalidK
	}
	if k > len(X) {
		return nil, ErrTooManyClusters
	}

	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	if o.maxIter < 1 {
		return nil, fmt.Errorf("max iterations must be positive, got %d", o.maxIter)
	}
	if o.logger == nil {
		o.logger = NewLogger(nil)
	}

	if o.distFunc == nil {
		if _, err := distance.Provider(o.metric); err != nil {
			return nil, err
		}
	}

	if o.initial != nil {
		if len(o.initial) != k {
			return nil, fmt.Errorf("got %d initial centroids for k=%d", len(o.initial), k)
		}
		for _, c := range o.initial {
			if len(c) != n {
				return nil, &ErrDimensionMismatch{Expected: n, Actual: len(c)}
			}
		}
		o.initial = matutil.CloneRows(o.initial)
	}

	return &KMeans{
		data: X,
		m:    len(X),
		n:    n,
		k:    k,
		opts: o,
	}, nil
}

// iterState is one immutable snapshot of the loop: the centroids the
// next assignment runs against, the labels that produced them, and the
// cost bookkeeping so far. Each iteration builds a fresh snapshot
// instead of mutating the previous one, so centroid replacement and
// the degenerate k=1 transition never alias stale state.
type iterState struct {
	centroids [][]float64
	labels    []int
	tss       float64
	maxCost   float64
}

// Fit runs the clustering loop. It is idempotent: once a fit has
// completed, further calls return the fitted model unchanged. The only
// error paths are programming-contract violations surfaced by the
// classifier; a metric that floods the distance matrix with Infs is
// handled by degrading to a single cluster, and an exhausted iteration
// budget is reported through Converged, neither is an error.
func (km *KMeans) Fit() (*KMeans, error) {
	km.mu.Lock()
	defer km.mu.Unlock()

	if km.labels != nil { // already fit
		return km, nil
	}

	start := time.Now()
	logger := km.opts.logger.WithK(km.k)

	if km.k == 1 {
		km.labelFromSingularK(start, logger)
		return km, nil
	}

	rng := util.NewRNG(km.opts.seed)

	centroids := km.opts.initial
	if centroids == nil {
		centroids = km.opts.seeding.Seed(km.data, km.k, rng)
	}

	state := iterState{
		centroids: centroids,
		tss:       math.Inf(1),
		maxCost:   math.Inf(-1),
	}

	converged := false

	iter := 0
	for ; iter < km.opts.maxIter; iter++ {
		clf, err := nearest.New(matutil.RowsToDense(state.centroids), matutil.Arange(km.k),
			nearest.WithMetric(km.opts.metric),
			nearest.WithFunc(km.opts.distFunc),
			nearest.WithSeed(km.opts.seed),
			nearest.WithWorkers(km.opts.workers),
		)
		if err != nil {
			return nil, err
		}

		labels, _, err := clf.Predict(km.data)
		if err != nil {
			if !errors.Is(err, nearest.ErrNonFiniteDistance) {
				return nil, err
			}

			// The metric cannot partition the input space without
			// propagating Infs. Degrade to one cluster for good.
			km.k = 1
			logger.Warn("(dis)similarity metric cannot partition space without propagating Infs, returning one cluster",
				"metric", km.opts.metric.String(),
				"iteration", iter,
			)

			km.labelFromSingularK(start, logger)
			return km, nil
		}

		next, diff := km.step(state, labels)

		km.summary.add(SummaryRow{
			Iter:      iter,
			Converged: converged,
			MaxTSS:    state.maxCost,
			MinTSS:    state.tss,
			WSSSum:    math.NaN(),
			BSS:       math.NaN(),
			Wall:      time.Since(start),
		})

		state = next

		// An infinite tolerance admits any change, including the
		// infinite first-pass diff.
		if math.Abs(diff) < km.opts.tolerance || math.IsInf(km.opts.tolerance, 1) {
			converged = true
			iter++
			break
		}
	}

	km.iter = iter
	km.converged = converged

	km.relabel(state)
	km.tss = state.tss
	km.maxCost = state.maxCost
	km.wss = km.computeWSS()
	wssSum := floats.Sum(km.wss)
	km.bss = km.tss - wssSum

	km.summary.add(SummaryRow{
		Iter:      km.iter,
		Converged: km.converged,
		MaxTSS:    km.maxCost,
		MinTSS:    km.tss,
		WSSSum:    wssSum,
		BSS:       km.bss,
		Wall:      time.Since(start),
	})

	if !km.converged {
		logger.Warn("algorithm did not converge", "iterations", km.iter)
	}
	logger.LogFit(km.iter, km.converged, km.tss, km.bss, time.Since(start))

	return km, nil
}

// step recomputes centroids and cost from one assignment, returning
// the next snapshot and the TSS improvement over the previous one.
// Cluster cost is measured against the snapshot's (previous) centroids
// with squared Euclidean distance, whatever metric produced the
// assignment. A cluster with no members keeps its previous centroid
// and contributes zero cost.
func (km *KMeans) step(prev iterState, labels []int) (next iterState, diff float64) {
	systemCost := 0.0
	newCentroids := make([][]float64, km.k)

	for i, group := range labelset.Group(labels, km.k) {
		centroid := prev.centroids[i]

		if group.IsEmpty() {
			newCentroids[i] = slices.Clone(centroid)
			continue
		}

		sum := make([]float64, km.n)
		clustCost := 0.0

		it := group.Iterator()
		for it.HasNext() {
			row := km.data[it.Next()]
			floats.Add(sum, row)
			clustCost += matutil.SquaredDistance(row, centroid)
		}

		floats.Scale(1/float64(group.GetCardinality()), sum)
		newCentroids[i] = sum

		systemCost += clustCost
	}

	diff = prev.tss - systemCost // infinite on the first pass

	next = iterState{
		centroids: newCentroids,
		labels:    labels,
		tss:       systemCost,
		maxCost:   prev.maxCost,
	}

	// The first pass fixes the historical maximum; it never moves again.
	if math.IsInf(diff, 0) {
		next.maxCost = systemCost
	}

	return next, diff
}

// labelFromSingularK finalizes the k == 1 case: every row joins
// cluster 0, the centroid is the global mean, and the only iteration
// is the converged one. The non-finite-distance fallback funnels
// through here too, so WSS and BSS stay NaN on this path.
func (km *KMeans) labelFromSingularK(start time.Time, logger *Logger) {
	mean := matutil.MeanRecord(km.data)

	tss := 0.0
	for _, row := range km.data {
		tss += matutil.SquaredDistance(row, mean)
	}

	km.labels = make([]int, km.m)
	km.centroids = [][]float64{mean}
	km.tss = tss
	km.maxCost = tss
	km.wss = []float64{math.NaN()}
	km.bss = math.NaN()
	km.iter = 1
	km.converged = true

	km.summary.add(SummaryRow{
		Iter:      km.iter,
		Converged: true,
		MaxTSS:    tss,
		MinTSS:    tss,
		WSSSum:    math.NaN(),
		BSS:       math.NaN(),
		Wall:      time.Since(start),
	})

	logger.LogFit(km.iter, km.converged, km.tss, km.bss, time.Since(start))
}

// relabel renumbers clusters by order of first appearance in row order
// and reorders centroids to match, so repeated fits of equivalent data
// always report the same numbering. Empty clusters keep their relative
// order at the tail.
func (km *KMeans) relabel(st iterState) {
	remap := make([]int, km.k)
	for i := range remap {
		remap[i] = -1
	}

	next := 0
	labels := make([]int, len(st.labels))
	for row, old := range st.labels {
		if remap[old] < 0 {
			remap[old] = next
			next++
		}
		labels[row] = remap[old]
	}

	for old := range remap {
		if remap[old] < 0 {
			remap[old] = next
			next++
		}
	}

	centroids := make([][]float64, km.k)
	for old, idx := range remap {
		centroids[idx] = st.centroids[old]
	}

	km.labels = labels
	km.centroids = centroids
}

// computeWSS sums, per cluster, the squared distances of member rows
// to their final centroid.
func (km *KMeans) computeWSS() []float64 {
	wss := make([]float64, km.k)

	for i, group := range labelset.Group(km.labels, km.k) {
		it := group.Iterator()
		for it.HasNext() {
			wss[i] += matutil.SquaredDistance(km.data[it.Next()], km.centroids[i])
		}
	}

	return wss
}

// Predict assigns previously unseen rows to the fitted clusters.
func (km *KMeans) Predict(rows [][]float64) ([]int, error) {
	km.mu.Lock()
	defer km.mu.Unlock()

	if km.labels == nil {
		return nil, ErrNotFitted
	}

	clf, err := nearest.New(matutil.RowsToDense(km.centroids), matutil.Arange(km.k),
		nearest.WithMetric(km.opts.metric),
		nearest.WithFunc(km.opts.distFunc),
		nearest.WithSeed(km.opts.seed),
		nearest.WithWorkers(km.opts.workers),
	)
	if err != nil {
		return nil, err
	}

	labels, _, err := clf.Predict(rows)
	if err != nil {
		return nil, err
	}

	return labels, nil
}

// K returns the cluster count. It drops to 1 when a fit degraded to a
// single cluster.
func (km *KMeans) K() int {
	km.mu.Lock()
	defer km.mu.Unlock()

	return km.k
}

// Labels returns a copy of the fitted assignment, one cluster index in
// [0, k) per observation, or nil before Fit.
func (km *KMeans) Labels() []int {
	km.mu.Lock()
	defer km.mu.Unlock()

	return slices.Clone(km.labels)
}

// Centroids returns a copy of the final cluster prototypes.
func (km *KMeans) Centroids() [][]float64 {
	km.mu.Lock()
	defer km.mu.Unlock()

	if km.centroids == nil {
		return nil
	}

	return matutil.CloneRows(km.centroids)
}

// CentroidsMatrix returns the final centroids as a k×n dense matrix,
// or nil before Fit.
func (km *KMeans) CentroidsMatrix() *mat.Dense {
	km.mu.Lock()
	defer km.mu.Unlock()

	if km.centroids == nil {
		return nil
	}

	return matutil.RowsToDense(km.centroids)
}

// TSS returns the total within-cluster cost of the last iteration,
// measured against that iteration's starting centroids.
func (km *KMeans) TSS() float64 {
	km.mu.Lock()
	defer km.mu.Unlock()

	return km.tss
}

// MaxCost returns the cost of the first iteration, the historical
// maximum of the fit.
func (km *KMeans) MaxCost() float64 {
	km.mu.Lock()
	defer km.mu.Unlock()

	return km.maxCost
}

// WSS returns a copy of the per-cluster within-cluster sum of squares
// against the final centroids. NaN-valued on the singular/degenerate
// path.
func (km *KMeans) WSS() []float64 {
	km.mu.Lock()
	defer km.mu.Unlock()

	return slices.Clone(km.wss)
}

// BSS returns the between-cluster sum of squares, TSS minus the WSS
// total. NaN on the singular/degenerate path.
func (km *KMeans) BSS() float64 {
	km.mu.Lock()
	defer km.mu.Unlock()

	return km.bss
}

// Converged reports whether the fit stopped on tolerance rather than
// on the iteration budget.
func (km *KMeans) Converged() bool {
	km.mu.Lock()
	defer km.mu.Unlock()

	return km.converged
}

// Iterations returns the number of iterations the fit consumed.
func (km *KMeans) Iterations() int {
	km.mu.Lock()
	defer km.mu.Unlock()

	return km.iter
}

// Summary returns the per-iteration fit log.
func (km *KMeans) Summary() *FitSummary {
	km.mu.Lock()
	defer km.mu.Unlock()

	return &km.summary
}
