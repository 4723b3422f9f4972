package clust4go

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ARULJ/clust4go/distance"
	"github.com/ARULJ/clust4go/seeding"
	"github.com/ARULJ/clust4go/util"
)

// Two obvious clusters around (0, 0.5) and (10, 0.5).
var twoClusters = [][]float64{
	{0, 0},
	{0, 1},
	{10, 0},
	{10, 1},
}

func newTwoClusterModel(t *testing.T, optFns ...Option) *KMeans {
	t.Helper()

	optFns = append([]Option{
		WithInitialCentroids([][]float64{{0, 0}, {10, 0}}),
		WithLogger(NoopLogger()),
	}, optFns...)

	km, err := NewKMeans(twoClusters, 2, optFns...)
	require.NoError(t, err)

	return km
}

func TestKMeans_TwoClusters(t *testing.T) {
	km := newTwoClusterModel(t)

	_, err := km.Fit()
	require.NoError(t, err)

	assert.True(t, km.Converged())
	// Two shrinking passes plus the zero-diff pass that confirms
	// convergence under the default tolerance.
	assert.Equal(t, 3, km.Iterations())

	assert.Equal(t, []int{0, 0, 1, 1}, km.Labels())
	require.Len(t, km.Centroids(), 2)
	assert.InDeltaSlice(t, []float64{0, 0.5}, km.Centroids()[0], 1e-12)
	assert.InDeltaSlice(t, []float64{10, 0.5}, km.Centroids()[1], 1e-12)

	// Each cluster holds two points 0.5 away from its centroid.
	assert.InDelta(t, 1.0, km.TSS(), 1e-12)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, km.WSS(), 1e-12)
	assert.InDelta(t, 0.0, km.BSS(), 1e-12)
	// The first pass measured against the original seeds is the max.
	assert.InDelta(t, 2.0, km.MaxCost(), 1e-12)
}

func TestKMeans_LabelsInRange(t *testing.T) {
	rng := util.NewRNG(4711)
	X := rng.GenerateRandomRows(200, 8)

	km, err := NewKMeans(X, 4, WithLogger(NoopLogger()))
	require.NoError(t, err)

	_, err = km.Fit()
	require.NoError(t, err)

	labels := km.Labels()
	require.Len(t, labels, 200)
	for _, l := range labels {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, 4)
	}

	assert.Len(t, km.Centroids(), 4)
}

func TestKMeans_SingularK(t *testing.T) {
	km, err := NewKMeans(twoClusters, 1, WithLogger(NoopLogger()))
	require.NoError(t, err)

	_, err = km.Fit()
	require.NoError(t, err)

	assert.True(t, km.Converged())
	assert.Equal(t, 1, km.Iterations())
	assert.Equal(t, []int{0, 0, 0, 0}, km.Labels())

	require.Len(t, km.Centroids(), 1)
	assert.InDeltaSlice(t, []float64{5, 0.5}, km.Centroids()[0], 1e-12)

	// Sum of squared distances to the global mean:
	// 4 * (5^2 + 0.5^2) = 101.
	assert.InDelta(t, 101.0, km.TSS(), 1e-12)
	assert.True(t, math.IsNaN(km.WSS()[0]))
	assert.True(t, math.IsNaN(km.BSS()))
	assert.Equal(t, 1, km.Summary().Len())
}

func TestKMeans_InfiniteTolerance(t *testing.T) {
	km := newTwoClusterModel(t, WithTolerance(math.Inf(1)))

	_, err := km.Fit()
	require.NoError(t, err)

	assert.True(t, km.Converged())
	assert.Equal(t, 1, km.Iterations())
}

func TestKMeans_MaxIterReached(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, nil))

	km := newTwoClusterModel(t, WithMaxIter(2), WithLogger(logger))

	_, err := km.Fit()
	require.NoError(t, err)

	assert.False(t, km.Converged())
	assert.Equal(t, 2, km.Iterations())
	assert.Contains(t, buf.String(), "did not converge")

	// The fit still finalizes labels and statistics.
	assert.Equal(t, []int{0, 0, 1, 1}, km.Labels())
	assert.InDelta(t, km.TSS(), floatsSum(km.WSS())+km.BSS(), 1e-9)
}

func TestKMeans_NonFiniteDistanceFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, nil))

	km := newTwoClusterModel(t,
		WithLogger(logger),
		WithDistanceFunc(func(a, b []float64) float64 {
			return math.Inf(1)
		}),
	)

	_, err := km.Fit()
	require.NoError(t, err)

	// One-way degradation to a single cluster.
	assert.Equal(t, 1, km.K())
	assert.True(t, km.Converged())
	assert.Equal(t, 1, km.Iterations())
	assert.Equal(t, []int{0, 0, 0, 0}, km.Labels())
	assert.InDelta(t, 101.0, km.TSS(), 1e-12)
	assert.True(t, math.IsNaN(km.BSS()))
	assert.Contains(t, buf.String(), "cannot partition space")
}

func TestKMeans_EmptyClusterKeepsCentroid(t *testing.T) {
	X := [][]float64{{0, 0}, {1, 0}}

	km, err := NewKMeans(X, 2,
		WithInitialCentroids([][]float64{{0, 0}, {100, 0}}),
		WithLogger(NoopLogger()),
	)
	require.NoError(t, err)

	_, err = km.Fit()
	require.NoError(t, err)

	assert.True(t, km.Converged())
	assert.Equal(t, []int{0, 0}, km.Labels())

	// The memberless cluster keeps its seed centroid.
	require.Len(t, km.Centroids(), 2)
	assert.InDeltaSlice(t, []float64{0.5, 0}, km.Centroids()[0], 1e-12)
	assert.InDeltaSlice(t, []float64{100, 0}, km.Centroids()[1], 1e-12)
	assert.InDeltaSlice(t, []float64{0.5, 0}, km.WSS(), 1e-12)
}

func TestKMeans_Idempotent(t *testing.T) {
	km := newTwoClusterModel(t)

	_, err := km.Fit()
	require.NoError(t, err)

	labels := km.Labels()
	iterations := km.Iterations()
	rows := km.Summary().Len()

	again, err := km.Fit()
	require.NoError(t, err)

	assert.Same(t, km, again)
	assert.Equal(t, labels, km.Labels())
	assert.Equal(t, iterations, km.Iterations())
	assert.Equal(t, rows, km.Summary().Len())
}

func TestKMeans_Determinism(t *testing.T) {
	rng := util.NewRNG(99)
	X := rng.GenerateRandomRows(120, 5)

	fit := func() *KMeans {
		km, err := NewKMeans(X, 3,
			WithSeed(7),
			WithSeeding(seeding.PlusPlus{}),
			WithLogger(NoopLogger()),
		)
		require.NoError(t, err)

		_, err = km.Fit()
		require.NoError(t, err)

		return km
	}

	a := fit()
	b := fit()

	assert.Equal(t, a.Labels(), b.Labels())
	assert.Equal(t, a.Centroids(), b.Centroids())
	assert.Equal(t, a.Iterations(), b.Iterations())
	assert.Equal(t, a.TSS(), b.TSS())
}

func TestKMeans_TSSMonotonic(t *testing.T) {
	rng := util.NewRNG(1234)
	X := rng.GenerateRandomRows(300, 6)

	km, err := NewKMeans(X, 5, WithLogger(NoopLogger()))
	require.NoError(t, err)

	_, err = km.Fit()
	require.NoError(t, err)

	rows := km.Summary().Rows()
	require.Greater(t, len(rows), 1)

	// Skip the first row, which starts from +Inf.
	for i := 2; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i].MinTSS, rows[i-1].MinTSS+1e-9,
			"tss must not increase between iterations")
	}

	// bss + sum(wss) == tss within floating-point tolerance.
	assert.InDelta(t, km.TSS(), floatsSum(km.WSS())+km.BSS(), 1e-9)
}

func TestKMeans_ManhattanAssignment(t *testing.T) {
	km := newTwoClusterModel(t, WithMetric(distance.MetricManhattan))

	_, err := km.Fit()
	require.NoError(t, err)

	assert.True(t, km.Converged())
	assert.Equal(t, []int{0, 0, 1, 1}, km.Labels())
	// Cost bookkeeping stays squared-Euclidean under any metric.
	assert.InDelta(t, 1.0, km.TSS(), 1e-12)
}

func TestKMeans_Predict(t *testing.T) {
	km := newTwoClusterModel(t)

	_, err := km.Predict([][]float64{{1, 1}})
	assert.ErrorIs(t, err, ErrNotFitted)

	_, err = km.Fit()
	require.NoError(t, err)

	labels, err := km.Predict([][]float64{{1, 1}, {9, 0}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, labels)
}

func TestNewKMeans_Validation(t *testing.T) {
	_, err := NewKMeans(nil, 2)
	assert.ErrorIs(t, err, ErrEmptyMatrix)

	_, err = NewKMeans(twoClusters, 0)
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = NewKMeans(twoClusters, 5)
	assert.ErrorIs(t, err, ErrTooManyClusters)

	_, err = NewKMeans([][]float64{{1, 2}, {3}}, 1)
	var dim *ErrDimensionMismatch
	assert.ErrorAs(t, err, &dim)

	_, err = NewKMeans(twoClusters, 2, WithMetric(distance.Metric(999)))
	assert.Error(t, err)

	_, err = NewKMeans(twoClusters, 2, WithMaxIter(0))
	assert.Error(t, err)

	_, err = NewKMeans(twoClusters, 2, WithInitialCentroids([][]float64{{0, 0}}))
	assert.Error(t, err)

	_, err = NewKMeans(twoClusters, 2, WithInitialCentroids([][]float64{{0, 0}, {1}}))
	assert.ErrorAs(t, err, &dim)
}

func TestKMeans_InitialCentroidsCopied(t *testing.T) {
	initial := [][]float64{{0, 0}, {10, 0}}

	km, err := NewKMeans(twoClusters, 2,
		WithInitialCentroids(initial),
		WithLogger(NoopLogger()),
	)
	require.NoError(t, err)

	initial[0][0] = 999

	_, err = km.Fit()
	require.NoError(t, err)

	assert.Equal(t, []int{0, 0, 1, 1}, km.Labels())
}

func floatsSum(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}

	return sum
}
