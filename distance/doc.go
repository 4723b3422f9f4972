// Package distance provides pluggable distance metrics for clustering.
//
// # Supported Metrics
//
//   - MetricEuclidean: L2 distance (default)
//   - MetricSquaredEuclidean: squared L2 distance
//   - MetricManhattan: L1 distance
//   - MetricCosine: 1 - cosine similarity (normalizing; NaN on zero vectors)
//
// # Usage
//
//	dist := distance.Euclidean(a, b)
//	fn, err := distance.Provider(distance.MetricManhattan)
package distance
