package clust4go_test

import (
	"fmt"
	"log"

	"github.com/ARULJ/clust4go"
)

// Example demonstrates fitting two obvious clusters with seeded
// starting centroids.
func Example() {
	X := [][]float64{
		{0, 0}, {0, 1},
		{10, 0}, {10, 1},
	}

	km, err := clust4go.NewKMeans(X, 2,
		clust4go.WithInitialCentroids([][]float64{{0, 0}, {10, 0}}),
		clust4go.WithLogger(clust4go.NoopLogger()),
	)
	if err != nil {
		log.Fatal(err)
	}

	if _, err := km.Fit(); err != nil {
		log.Fatal(err)
	}

	fmt.Println("labels:", km.Labels())
	fmt.Println("centroids:", km.Centroids())
	fmt.Println("converged:", km.Converged())
	// Output:
	// labels: [0 0 1 1]
	// centroids: [[0 0.5] [10 0.5]]
	// converged: true
}

// Example_singleCluster shows the k = 1 short-circuit: the loop is
// never entered and every observation joins the cluster around the
// global mean.
func Example_singleCluster() {
	X := [][]float64{
		{0, 0}, {0, 1},
		{10, 0}, {10, 1},
	}

	km, err := clust4go.NewKMeans(X, 1, clust4go.WithLogger(clust4go.NoopLogger()))
	if err != nil {
		log.Fatal(err)
	}

	if _, err := km.Fit(); err != nil {
		log.Fatal(err)
	}

	fmt.Println("labels:", km.Labels())
	fmt.Println("tss:", km.TSS())
	fmt.Println("iterations:", km.Iterations())
	// Output:
	// labels: [0 0 0 0]
	// tss: 101
	// iterations: 1
}
