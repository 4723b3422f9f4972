// Package nearest implements the nearest-centroid classifier used by
// the clustering loop to label observations.
//
// A Classifier is built from a centroid matrix and a label set. Predict
// maps every row of a data matrix to the label of its nearest centroid
// under the configured metric, returning the per-row distance alongside.
//
// When a normalizing metric floods the distance matrix with Infs or
// NaNs, assignment becomes ill-defined and Predict reports
// ErrNonFiniteDistance instead of guessing.
package nearest
