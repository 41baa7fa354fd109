// pkg/pipeline/result.go
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/David-Botos/retail-pipeline/pkg/cleaner"
	"github.com/David-Botos/retail-pipeline/pkg/model"
)

// StageTiming records how long one pipeline stage took.
type StageTiming struct {
	Stage    string
	Duration time.Duration
}

// RunResult captures the outcome of one pipeline run.
type RunResult struct {
	RunID    string
	Filename string

	Analysis *model.AnalysisResult
	Layout   model.StoreLayout

	CleanStats    cleaner.CleanStats
	RowsPersisted int

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Stages    []StageTiming
}

// NewRunResult initializes a run result for an uploaded file
func NewRunResult(filename string) *RunResult {
	return &RunResult{
		RunID:     uuid.New().String(),
		Filename:  filename,
		StartTime: time.Now(),
	}
}

// AddStage records a completed stage's duration
func (r *RunResult) AddStage(stage string, started time.Time) {
	r.Stages = append(r.Stages, StageTiming{Stage: stage, Duration: time.Since(started)})
}

// Complete marks the run as finished and calculates the total duration
func (r *RunResult) Complete() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}
