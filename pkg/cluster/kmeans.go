// pkg/cluster/kmeans.go
package cluster

import (
	"context"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// kMeans partitions points into k clusters with Lloyd iterations. The
// provided seed makes initialization and therefore the whole run
// deterministic: identical input yields identical assignments. Points
// equidistant to several centroids go to the lowest cluster index.
func kMeans(ctx context.Context, points [][]float64, k, maxIterations int, seed int64) ([]int, error) {
	n := len(points)
	rng := rand.New(rand.NewSource(seed))

	centroids := seedCentroids(points, k, rng)
	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}

	for iteration := 0; iteration < maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("clustering aborted after %d iterations: %w", iteration, err)
		}

		changed := false
		for i, point := range points {
			nearest := nearestCentroid(point, centroids)
			if nearest != assignments[i] {
				assignments[i] = nearest
				changed = true
			}
		}

		if !changed {
			break
		}

		recomputeCentroids(points, assignments, centroids)
	}

	return assignments, nil
}

// seedCentroids picks k initial centroids k-means++ style: the first
// uniformly, the rest weighted by squared distance to the nearest
// already-chosen centroid.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	width := len(points[0])
	centroids := make([][]float64, 0, k)

	first := make([]float64, width)
	copy(first, points[rng.Intn(len(points))])
	centroids = append(centroids, first)

	distances := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, point := range points {
			d := floats.Distance(point, centroids[nearestCentroid(point, centroids)], 2)
			distances[i] = d * d
			total += distances[i]
		}

		// All remaining points coincide with a centroid; fall back to a
		// uniform pick so seeding always terminates.
		idx := 0
		if total > 0 {
			target := rng.Float64() * total
			for i, w := range distances {
				target -= w
				if target <= 0 {
					idx = i
					break
				}
			}
		} else {
			idx = rng.Intn(len(points))
		}

		next := make([]float64, width)
		copy(next, points[idx])
		centroids = append(centroids, next)
	}

	return centroids
}

// nearestCentroid returns the index of the closest centroid; strict
// comparison keeps the lowest index on ties.
func nearestCentroid(point []float64, centroids [][]float64) int {
	best := 0
	bestDistance := floats.Distance(point, centroids[0], 2)
	for c := 1; c < len(centroids); c++ {
		if d := floats.Distance(point, centroids[c], 2); d < bestDistance {
			best = c
			bestDistance = d
		}
	}
	return best
}

// recomputeCentroids moves each centroid to the mean of its members. A
// cluster left empty steals the point farthest from its current centroid
// (lowest point index on ties) so k clusters always survive.
func recomputeCentroids(points [][]float64, assignments []int, centroids [][]float64) {
	width := len(points[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, width)
	}

	for i, point := range points {
		c := assignments[i]
		counts[c]++
		floats.Add(sums[c], point)
	}

	for c := range centroids {
		if counts[c] > 0 {
			for j := 0; j < width; j++ {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
			continue
		}

		farthest := farthestPoint(points, assignments, centroids)
		donor := assignments[farthest]
		if counts[donor] > 1 {
			counts[donor]--
			floats.Sub(sums[donor], points[farthest])
			assignments[farthest] = c
			counts[c] = 1

			// The donor's mean must exclude the stolen point whether the
			// donor was processed before this cluster or comes after.
			for j := 0; j < width; j++ {
				centroids[donor][j] = sums[donor][j] / float64(counts[donor])
			}
		}
		copy(centroids[c], points[farthest])
	}
}

// farthestPoint finds the point with the greatest distance to its own
// centroid, preferring the lowest index on ties.
func farthestPoint(points [][]float64, assignments []int, centroids [][]float64) int {
	best := 0
	bestDistance := -1.0
	for i, point := range points {
		if d := floats.Distance(point, centroids[assignments[i]], 2); d > bestDistance {
			best = i
			bestDistance = d
		}
	}
	return best
}
