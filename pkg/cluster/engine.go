// pkg/cluster/engine.go
package cluster

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/retail-pipeline/pkg/model"
)

const (
	// ClusterCount is the fixed number of product performance clusters.
	ClusterCount = 4

	// maxIterations caps the k-means convergence loop.
	maxIterations = 300

	// seed fixes initialization so repeated runs on identical input
	// produce identical cluster indices.
	seed = 42
)

// ErrInsufficientData indicates fewer products than clusters.
var ErrInsufficientData = errors.New("not enough products to cluster")

// ClusterEngine standardizes per-product feature vectors and partitions
// products into ClusterCount clusters.
type ClusterEngine struct {
	logger *zap.Logger
}

// NewClusterEngine creates a new ClusterEngine instance
func NewClusterEngine(logger *zap.Logger) (*ClusterEngine, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &ClusterEngine{logger: logger}, nil
}

// Assign maps every product id to a cluster index in [0, ClusterCount).
// Features are [sales, profit, quantity, discount], standardized to zero
// mean and unit variance before clustering. The context bounds the
// convergence loop.
func (e *ClusterEngine) Assign(ctx context.Context, metrics []model.ProductMetric) (map[string]int, error) {
	if len(metrics) < ClusterCount {
		return nil, fmt.Errorf("%w: need at least %d products, have %d",
			ErrInsufficientData, ClusterCount, len(metrics))
	}

	features := make([][]float64, len(metrics))
	for i, m := range metrics {
		features[i] = []float64{m.Sales, m.Profit, m.Quantity, m.Discount}
	}

	assignments, err := kMeans(ctx, Standardize(features), ClusterCount, maxIterations, seed)
	if err != nil {
		return nil, err
	}

	clusters := make(map[string]int, len(metrics))
	sizes := make([]int, ClusterCount)
	for i, m := range metrics {
		clusters[m.ProductID] = assignments[i]
		sizes[assignments[i]]++
	}

	e.logger.Info("Clustered products",
		zap.Int("products", len(metrics)),
		zap.Ints("clusterSizes", sizes))

	return clusters, nil
}
