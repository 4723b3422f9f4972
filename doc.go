// Package clust4go implements partition-based clustering for Go.
//
// KMeans partitions m observations in n-dimensional space into k
// clusters with Lloyd's algorithm: assign every observation to its
// nearest centroid, replace each centroid with the mean of its
// members, and repeat until the total within-cluster cost stabilizes
// or the iteration budget runs out.
//
// # Quick Start
//
//	X := [][]float64{
//	    {0, 0}, {0, 1},
//	    {10, 0}, {10, 1},
//	}
//
//	km, err := clust4go.NewKMeans(X, 2, clust4go.WithSeed(42))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if _, err := km.Fit(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println(km.Labels(), km.Centroids(), km.Converged())
//
// # Degenerate Inputs
//
// With k = 1 the loop is skipped entirely: every observation joins the
// single cluster around the global mean. A (dis)similarity metric that
// floods the distance matrix with Infs makes assignment ill-defined;
// the fit then degrades to one cluster permanently, warns through its
// Logger, and finishes instead of failing.
//
// # Quality Statistics
//
// After a fit, TSS reports the last iteration's total within-cluster
// cost, WSS the per-cluster sum of squares against the final
// centroids, and BSS the difference TSS - sum(WSS). Per-iteration
// snapshots accumulate in a FitSummary renderable as a fixed-column
// table.
package clust4go
