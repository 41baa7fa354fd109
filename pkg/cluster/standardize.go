// pkg/cluster/standardize.go
package cluster

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Standardize scales each feature column to zero mean and unit variance
// using population statistics. A zero-variance column maps to constant 0
// so it cannot produce a division by zero. The input is not modified.
func Standardize(features [][]float64) [][]float64 {
	if len(features) == 0 {
		return nil
	}

	n := len(features)
	width := len(features[0])

	standardized := make([][]float64, n)
	for i := range standardized {
		standardized[i] = make([]float64, width)
	}

	column := make([]float64, n)
	for j := 0; j < width; j++ {
		for i := range features {
			column[i] = features[i][j]
		}

		mean := stat.Mean(column, nil)

		var sumSq float64
		for _, v := range column {
			d := v - mean
			sumSq += d * d
		}
		std := math.Sqrt(sumSq / float64(n))

		for i := range features {
			if std == 0 {
				standardized[i][j] = 0
				continue
			}
			standardized[i][j] = (features[i][j] - mean) / std
		}
	}

	return standardized
}
