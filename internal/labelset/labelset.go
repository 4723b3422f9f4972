// Package labelset tracks cluster membership as roaring bitmaps.
//
// Grouping rows by their assigned label is the reduction backbone of
// the centroid update and the within-cluster cost computation.
package labelset

import "github.com/RoaringBitmap/roaring/v2"

// Group partitions row indices by cluster label.
// Every entry of labels must be in [0, k).
func Group(labels []int, k int) []*roaring.Bitmap {
	groups := make([]*roaring.Bitmap, k)
	for i := range groups {
		groups[i] = roaring.New()
	}

	for row, label := range labels {
		groups[label].Add(uint32(row))
	}

	return groups
}

// Sizes returns the cardinality of each group.
func Sizes(groups []*roaring.Bitmap) []int {
	sizes := make([]int, len(groups))
	for i, g := range groups {
		sizes[i] = int(g.GetCardinality())
	}

	return sizes
}
