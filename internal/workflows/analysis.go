package workflows

import (
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/usecases"
)

// AnalysisInput is the input for the analysis workflow.
type AnalysisInput struct {
	AnalysisID int64
}

// ErrNoPairs is the failure of an analysis whose recons share no capture
// number with uploaded content on both sides.
var ErrNoPairs = errors.New("no resource pairs with content to compare")

// AnalysisWorkflow compares every resource pair of two recons. Progress is
// reported after each pair; the analysis finishes SUCCESS with the mean
// changed-pixel ratio, or FAILURE with the error message.
func AnalysisWorkflow(ctx workflow.Context, input AnalysisInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting analysis workflow", "analysisID", input.AnalysisID)

	// Bookkeeping steps retry until the database is back.
	reportCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 10,
		},
	})
	compareCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})

	report := func(state domain.AnalysisState, total, current int, message string, result *float64) error {
		in := ProgressInput{
			AnalysisID: input.AnalysisID,
			State:      state,
			Total:      total,
			Current:    current,
			Message:    message,
			Result:     result,
		}
		return workflow.ExecuteActivity(reportCtx, "ReportProgress", in).Get(ctx, nil)
	}

	fail := func(total, current int, cause error) error {
		logger.Warn("analysis failed", "analysisID", input.AnalysisID, "error", cause)
		if err := report(domain.AnalysisFailure, total, current, cause.Error(), nil); err != nil {
			logger.Error("could not record failure", "error", err)
		}
		return cause
	}

	// Step 1: pair resources by capture number
	var pairs []usecases.ResourcePair
	if err := workflow.ExecuteActivity(reportCtx, "ListPairs", input.AnalysisID).Get(ctx, &pairs); err != nil {
		return fail(0, 0, err)
	}
	if len(pairs) == 0 {
		return fail(0, 0, ErrNoPairs)
	}

	total := len(pairs)
	if err := report(domain.AnalysisProgress, total, 0, "", nil); err != nil {
		return err
	}

	// Step 2: compare each pair
	var sum float64
	for i, pair := range pairs {
		var ratio float64
		if err := workflow.ExecuteActivity(compareCtx, "ComparePair", input.AnalysisID, pair).Get(ctx, &ratio); err != nil {
			return fail(total, i, fmt.Errorf("pair %d: %w", pair.Number, err))
		}
		sum += ratio
		if err := report(domain.AnalysisProgress, total, i+1, "", nil); err != nil {
			return err
		}
	}

	// Step 3: finish with the mean ratio
	mean := sum / float64(total)
	if err := report(domain.AnalysisSuccess, total, total, "", &mean); err != nil {
		return err
	}

	logger.Info("Analysis finished", "analysisID", input.AnalysisID, "pairs", total, "result", mean)
	return nil
}
