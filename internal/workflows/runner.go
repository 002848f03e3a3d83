package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"
)

// AnalysisWorkflowID is the workflow ID of an analysis; starting the same
// analysis twice is rejected by the server.
func AnalysisWorkflowID(analysisID int64) string {
	return fmt.Sprintf("analysis-%d", analysisID)
}

// TemporalRunner starts analyses as Temporal workflows.
type TemporalRunner struct {
	client    client.Client
	taskQueue string
}

// NewTemporalRunner creates a runner that schedules on taskQueue.
func NewTemporalRunner(c client.Client, taskQueue string) *TemporalRunner {
	return &TemporalRunner{client: c, taskQueue: taskQueue}
}

// StartAnalysis schedules the workflow and returns once the server accepted it.
func (r *TemporalRunner) StartAnalysis(ctx context.Context, analysisID int64) error {
	opts := client.StartWorkflowOptions{
		ID:        AnalysisWorkflowID(analysisID),
		TaskQueue: r.taskQueue,
	}
	if _, err := r.client.ExecuteWorkflow(ctx, opts, AnalysisWorkflow, AnalysisInput{AnalysisID: analysisID}); err != nil {
		return fmt.Errorf("start analysis workflow: %w", err)
	}
	return nil
}
