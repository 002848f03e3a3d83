package workflows

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/usecases"
)

// AnalysisSteps is the part of the analysis service the activities drive.
// *usecases.AnalysisService implements it.
type AnalysisSteps interface {
	Pairs(ctx context.Context, analysisID int64) ([]usecases.ResourcePair, error)
	ComparePair(ctx context.Context, analysisID int64, pair usecases.ResourcePair) (*domain.AnalysisResult, error)
	Progress(ctx context.Context, id int64, state domain.AnalysisState, total, current int, message string, result *float64) error
}

// ProgressInput is the argument of the ReportProgress activity.
type ProgressInput struct {
	AnalysisID int64
	State      domain.AnalysisState
	Total      int
	Current    int
	Message    string
	Result     *float64
}

// AnalysisActivities holds the activity implementations for the analysis workflow.
type AnalysisActivities struct {
	Steps AnalysisSteps
}

// ListPairs returns the resource pairs of an analysis, ordered by capture number.
func (a *AnalysisActivities) ListPairs(ctx context.Context, analysisID int64) ([]usecases.ResourcePair, error) {
	pairs, err := a.Steps.Pairs(ctx, analysisID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "NotFound", err)
	}
	if err != nil {
		return nil, fmt.Errorf("pairs of analysis %d: %w", analysisID, err)
	}
	activity.GetLogger(ctx).Info("analysis pairs listed", "analysis_id", analysisID, "pairs", len(pairs))
	return pairs, nil
}

// ComparePair compares one pair and returns its changed-pixel ratio.
func (a *AnalysisActivities) ComparePair(ctx context.Context, analysisID int64, pair usecases.ResourcePair) (float64, error) {
	res, err := a.Steps.ComparePair(ctx, analysisID, pair)
	if err != nil {
		return 0, err
	}
	activity.GetLogger(ctx).Debug("pair compared", "analysis_id", analysisID, "number", pair.Number, "ratio", res.Result)
	return res.Result, nil
}

// ReportProgress persists and broadcasts the analysis state.
func (a *AnalysisActivities) ReportProgress(ctx context.Context, in ProgressInput) error {
	return a.Steps.Progress(ctx, in.AnalysisID, in.State, in.Total, in.Current, in.Message, in.Result)
}
