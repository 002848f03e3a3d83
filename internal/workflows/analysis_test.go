package workflows_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.temporal.io/sdk/testsuite"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/usecases"
	"github.com/samirrijal/dronesurvey/internal/workflows"
)

// fakeSteps records progress and serves canned pairs and ratios.
type fakeSteps struct {
	mu       sync.Mutex
	pairs    []usecases.ResourcePair
	pairsErr error
	ratios   map[int]float64
	failures map[int]int // pair number -> remaining failures
	compares int
	progress []workflows.ProgressInput
}

func (f *fakeSteps) Pairs(ctx context.Context, analysisID int64) ([]usecases.ResourcePair, error) {
	return f.pairs, f.pairsErr
}

func (f *fakeSteps) ComparePair(ctx context.Context, analysisID int64, pair usecases.ResourcePair) (*domain.AnalysisResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compares++
	if f.failures[pair.Number] > 0 {
		f.failures[pair.Number]--
		return nil, errors.New("decode image: unexpected EOF")
	}
	return &domain.AnalysisResult{AnalysisID: analysisID, Result: f.ratios[pair.Number]}, nil
}

func (f *fakeSteps) Progress(ctx context.Context, id int64, state domain.AnalysisState, total, current int, message string, result *float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress = append(f.progress, workflows.ProgressInput{
		AnalysisID: id, State: state, Total: total, Current: current, Message: message, Result: result,
	})
	return nil
}

func (f *fakeSteps) last() workflows.ProgressInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.progress[len(f.progress)-1]
}

func pairs(numbers ...int) []usecases.ResourcePair {
	out := make([]usecases.ResourcePair, len(numbers))
	for i, n := range numbers {
		out[i] = usecases.ResourcePair{Number: n}
	}
	return out
}

func run(t *testing.T, steps *fakeSteps) error {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(workflows.AnalysisWorkflow)
	env.RegisterActivity(&workflows.AnalysisActivities{Steps: steps})

	env.ExecuteWorkflow(workflows.AnalysisWorkflow, workflows.AnalysisInput{AnalysisID: 4})
	if !env.IsWorkflowCompleted() {
		t.Fatal("workflow did not complete")
	}
	return env.GetWorkflowError()
}

func TestAnalysisWorkflow_Success(t *testing.T) {
	steps := &fakeSteps{
		pairs:  pairs(0, 1, 2),
		ratios: map[int]float64{0: 0.1, 1: 0.2, 2: 0.6},
	}
	if err := run(t, steps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// PROGRESS 0/3, three per-pair updates, SUCCESS
	if len(steps.progress) != 5 {
		t.Fatalf("expected 5 progress reports, got %d", len(steps.progress))
	}
	for i, p := range steps.progress[:4] {
		if p.State != domain.AnalysisProgress || p.Current != i || p.Total != 3 {
			t.Errorf("report %d: unexpected %+v", i, p)
		}
	}
	final := steps.last()
	if final.State != domain.AnalysisSuccess {
		t.Fatalf("expected SUCCESS, got %s", final.State)
	}
	if final.Result == nil || *final.Result < 0.2999 || *final.Result > 0.3001 {
		t.Errorf("expected mean 0.3, got %v", final.Result)
	}
}

func TestAnalysisWorkflow_NoPairs(t *testing.T) {
	steps := &fakeSteps{}
	if err := run(t, steps); err == nil {
		t.Fatal("expected workflow error")
	}
	final := steps.last()
	if final.State != domain.AnalysisFailure {
		t.Fatalf("expected FAILURE, got %s", final.State)
	}
	if final.Message != workflows.ErrNoPairs.Error() {
		t.Errorf("unexpected message %q", final.Message)
	}
}

func TestAnalysisWorkflow_CompareRetried(t *testing.T) {
	steps := &fakeSteps{
		pairs:    pairs(0),
		ratios:   map[int]float64{0: 0.5},
		failures: map[int]int{0: 2},
	}
	if err := run(t, steps); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if steps.compares != 3 {
		t.Errorf("expected 3 compare attempts, got %d", steps.compares)
	}
	if steps.last().State != domain.AnalysisSuccess {
		t.Errorf("expected SUCCESS, got %s", steps.last().State)
	}
}

func TestAnalysisWorkflow_CompareExhausted(t *testing.T) {
	steps := &fakeSteps{
		pairs:    pairs(0, 1),
		ratios:   map[int]float64{0: 0.5},
		failures: map[int]int{1: 5},
	}
	if err := run(t, steps); err == nil {
		t.Fatal("expected workflow error")
	}
	if steps.compares != 4 {
		t.Errorf("expected 1 + 3 compare attempts, got %d", steps.compares)
	}
	final := steps.last()
	if final.State != domain.AnalysisFailure || final.Current != 1 {
		t.Errorf("expected FAILURE at 1/2, got %+v", final)
	}
}

func TestAnalysisWorkflow_PairsError(t *testing.T) {
	steps := &fakeSteps{pairsErr: domain.ErrNotFound}
	if err := run(t, steps); err == nil {
		t.Fatal("expected workflow error")
	}
	if steps.last().State != domain.AnalysisFailure {
		t.Errorf("expected FAILURE, got %s", steps.last().State)
	}
}

func TestAnalysisWorkflowID(t *testing.T) {
	if got := workflows.AnalysisWorkflowID(12); got != "analysis-12" {
		t.Errorf("got %q", got)
	}
}
