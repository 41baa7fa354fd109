// pkg/pipeline/pipeline.go
package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/retail-pipeline/pkg/analytics"
	"github.com/David-Botos/retail-pipeline/pkg/cleaner"
	"github.com/David-Botos/retail-pipeline/pkg/cluster"
	"github.com/David-Botos/retail-pipeline/pkg/config"
	"github.com/David-Botos/retail-pipeline/pkg/layout"
	"github.com/David-Botos/retail-pipeline/pkg/model"
	"github.com/David-Botos/retail-pipeline/pkg/reader"
	"github.com/David-Botos/retail-pipeline/pkg/store"
)

// Pipeline orchestrates one dataset through reading, cleaning,
// persistence, analysis and layout planning, tracking per-stage status
// in the upload audit log.
type Pipeline struct {
	reader     *reader.FileReader
	cleaner    *cleaner.DataCleaner
	aggregator *analytics.MetricsAggregator
	clusters   *cluster.ClusterEngine
	planner    *layout.LayoutPlanner
	repo       store.Repository
	cfg        *config.PipelineConfig
	logger     *zap.Logger

	// runMu serializes runs: the clear-previous-data plus write sequence
	// must not interleave across concurrent uploads.
	runMu sync.Mutex
}

// NewPipeline creates a new Pipeline instance wired to a repository
func NewPipeline(repo store.Repository, cfg *config.PipelineConfig, logger *zap.Logger) (*Pipeline, error) {
	if repo == nil {
		return nil, errors.New("repository cannot be nil")
	}
	if cfg == nil {
		return nil, errors.New("pipeline configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	fileReader, err := reader.NewFileReader(logger.Named("reader"))
	if err != nil {
		return nil, err
	}

	dataCleaner, err := cleaner.NewDataCleaner(logger.Named("cleaner"))
	if err != nil {
		return nil, err
	}

	aggregator, err := analytics.NewMetricsAggregator(logger.Named("analytics"))
	if err != nil {
		return nil, err
	}

	clusterEngine, err := cluster.NewClusterEngine(logger.Named("cluster"))
	if err != nil {
		return nil, err
	}

	planner, err := layout.NewLayoutPlanner(logger.Named("layout"))
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		reader:     fileReader,
		cleaner:    dataCleaner,
		aggregator: aggregator,
		clusters:   clusterEngine,
		planner:    planner,
		repo:       repo,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Run processes one uploaded dataset to completion. Runs are serialized;
// a failure at any stage records the stage-failed tag plus the terminal
// Failed tag and aborts remaining stages. Derived state from prior runs
// is cleared before this run's clean stage, never interleaved with
// analysis. The caller owns the uploaded file's lifetime.
func (p *Pipeline) Run(ctx context.Context, path string) (*RunResult, error) {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	filename := filepath.Base(path)
	result := NewRunResult(filename)

	logger := p.logger.With(
		zap.String("runID", result.RunID),
		zap.String("file", filename))
	logger.Info("Starting pipeline run")

	if err := p.repo.AddFileHistory(ctx, filename); err != nil {
		return nil, err
	}

	// Reading
	stageStart := time.Now()
	table, err := p.reader.Read(path)
	if err != nil {
		p.recordFailure(ctx, filename, model.StatusReadingFailed, err)
		return nil, err
	}
	p.setStatus(ctx, filename, model.StatusReadingSuccess, "")
	result.AddStage("reading", stageStart)

	// Prior derived state goes away before this run writes anything.
	if err := p.repo.ClearPreviousData(ctx); err != nil {
		p.recordFailure(ctx, filename, model.StatusProcessingFailed, err)
		return nil, err
	}

	// Cleaning
	stageStart = time.Now()
	rows, stats, err := p.cleaner.Clean(table)
	if err != nil {
		p.recordFailure(ctx, filename, model.StatusCleaningFailed, err)
		return nil, err
	}
	result.CleanStats = stats
	p.setStatus(ctx, filename, model.StatusCleaningSuccess, "")
	result.AddStage("cleaning", stageStart)

	// Processing: persist customers, products, sales, normalized rows.
	// From here on a failure must also discard whatever this run already
	// wrote; a failed run leaves no derived data behind.
	stageStart = time.Now()
	persisted, err := p.persistCleanedData(ctx, rows)
	if err != nil {
		p.discardPartialWrites(ctx)
		p.recordFailure(ctx, filename, model.StatusProcessingFailed, err)
		return nil, err
	}
	result.RowsPersisted = persisted
	p.setStatus(ctx, filename, model.StatusProcessingSuccess, "")
	result.AddStage("processing", stageStart)

	// Analysis
	stageStart = time.Now()
	analysis, err := p.aggregator.Analyze(rows)
	if err != nil {
		p.discardPartialWrites(ctx)
		p.recordFailure(ctx, filename, model.StatusAnalysisFailed, err)
		return nil, err
	}
	if err := p.repo.StoreAnalysisResult(ctx, analysis); err != nil {
		p.discardPartialWrites(ctx)
		p.recordFailure(ctx, filename, model.StatusAnalysisFailed, err)
		return nil, err
	}
	result.Analysis = analysis
	result.AddStage("analysis", stageStart)

	// Layout recommendation
	stageStart = time.Now()
	storeLayout, err := p.planLayout(ctx, rows)
	if err != nil {
		p.discardPartialWrites(ctx)
		p.recordFailure(ctx, filename, model.StatusLayoutFailed, err)
		return nil, err
	}
	if err := p.repo.StoreLayoutRecommendations(ctx, storeLayout); err != nil {
		p.discardPartialWrites(ctx)
		p.recordFailure(ctx, filename, model.StatusLayoutFailed, err)
		return nil, err
	}
	result.Layout = storeLayout
	result.AddStage("layout", stageStart)

	p.setStatus(ctx, filename, model.StatusCompleted, "")
	result.Complete()

	logger.Info("Pipeline run completed",
		zap.Int("rowsIn", stats.RowsIn),
		zap.Int("rowsCleaned", stats.RowsSurvived),
		zap.Int("rowsPersisted", persisted),
		zap.Int("productsPlaced", len(storeLayout)),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// persistCleanedData stores the extracted customer, product, sale and
// normalized rows, returning the total row count written.
func (p *Pipeline) persistCleanedData(ctx context.Context, rows []model.CleanedRow) (int, error) {
	persisted := 0

	for _, customer := range extractCustomers(rows) {
		if err := p.repo.AddCustomer(ctx, customer); err != nil {
			return persisted, err
		}
		persisted++
	}

	for _, product := range extractProducts(rows) {
		if err := p.repo.AddProduct(ctx, product); err != nil {
			return persisted, err
		}
		persisted++
	}

	for _, sale := range extractSales(rows) {
		if err := p.repo.AddSale(ctx, sale); err != nil {
			return persisted, err
		}
		persisted++
	}

	for _, row := range extractNormalizedRows(rows) {
		if err := p.repo.StoreNormalizedRow(ctx, row); err != nil {
			return persisted, err
		}
		persisted++
	}

	return persisted, nil
}

// planLayout rolls rows up per product, clusters them under a wall-clock
// bound and converts cluster membership into shelf placements.
func (p *Pipeline) planLayout(ctx context.Context, rows []model.CleanedRow) (model.StoreLayout, error) {
	metrics := analytics.ProductMetrics(rows)

	clusterCtx, cancel := context.WithTimeout(ctx, p.cfg.ClusterTimeout)
	defer cancel()

	assignments, err := p.clusters.Assign(clusterCtx, metrics)
	if err != nil {
		return nil, err
	}

	return p.planner.Plan(metrics, assignments)
}

// discardPartialWrites clears derived state written by a run that is
// about to fail, so a failed run never leaves a partial commit behind.
// The audit log is exempt, as with every clear.
func (p *Pipeline) discardPartialWrites(ctx context.Context) {
	if err := p.repo.ClearPreviousData(ctx); err != nil {
		p.logger.Warn("Failed to discard partial writes", zap.Error(err))
	}
}

// setStatus updates the audit log, logging rather than failing the run
// when the update itself cannot be recorded.
func (p *Pipeline) setStatus(ctx context.Context, filename string, status model.FileStatus, message string) {
	if err := p.repo.UpdateFileStatus(ctx, filename, status, message); err != nil {
		p.logger.Warn("Failed to update file status",
			zap.String("file", filename),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}

// recordFailure records the stage-failed tag with the triggering error's
// message, then the terminal Failed tag.
func (p *Pipeline) recordFailure(ctx context.Context, filename string, stage model.FileStatus, cause error) {
	p.setStatus(ctx, filename, stage, cause.Error())
	p.setStatus(ctx, filename, model.StatusFailed, cause.Error())

	p.logger.Error("Pipeline run failed",
		zap.String("file", filename),
		zap.String("stage", string(stage)),
		zap.Error(cause))
}
