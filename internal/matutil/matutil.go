// Package matutil provides row-major matrix and vector helpers shared
// by the clustering packages.
package matutil

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MeanRecord returns the column-wise mean of X.
// X must be non-empty with rows of equal length.
func MeanRecord(X [][]float64) []float64 {
	mean := make([]float64, len(X[0]))
	for _, row := range X {
		floats.Add(mean, row)
	}

	floats.Scale(1/float64(len(X)), mean)

	return mean
}

// Arange returns the indices [0, 1, ..., n-1].
func Arange(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	return idx
}

// SquaredDistance returns the squared Euclidean distance between a and b.
func SquaredDistance(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

// CloneRows returns a deep copy of rows.
func CloneRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}

	return out
}

// RowsToDense packs rows into a dense matrix.
// rows must be non-empty with rows of equal length.
func RowsToDense(rows [][]float64) *mat.Dense {
	d := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, row := range rows {
		d.SetRow(i, row)
	}

	return d
}

// DenseToRows returns a row-slice copy of m.
func DenseToRows(m mat.Matrix) [][]float64 {
	r, c := m.Dims()

	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			rows[i][j] = m.At(i, j)
		}
	}

	return rows
}
