package usecases

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/ports"
	"github.com/samirrijal/dronesurvey/internal/pkg/imaging"
	"github.com/samirrijal/dronesurvey/internal/pkg/logging"
	"github.com/samirrijal/dronesurvey/internal/pkg/metrics"
)

// ResourcePair is a minuend/subtrahend couple sharing a capture number.
type ResourcePair struct {
	Number     int             `json:"number"`
	Minuend    domain.Resource `json:"minuend"`
	Subtrahend domain.Resource `json:"subtrahend"`
}

// AnalysisService handles change analyses between two recons.
type AnalysisService struct {
	analyses   ports.AnalysisRepository
	recons     ports.ReconRepository
	resources  ports.ResourceRepository
	content    ports.ContentStore
	runner     ports.AnalysisRunner
	events     ports.EventPublisher
	comparator imaging.Comparator
	info       ports.AppInfoRepository
}

// NewAnalysisService creates a new AnalysisService. runner may be nil in
// processes that only execute analyses; events and info may be nil.
func NewAnalysisService(
	analyses ports.AnalysisRepository,
	recons ports.ReconRepository,
	resources ports.ResourceRepository,
	content ports.ContentStore,
	runner ports.AnalysisRunner,
	events ports.EventPublisher,
	comparator imaging.Comparator,
	info ports.AppInfoRepository,
) *AnalysisService {
	return &AnalysisService{
		analyses:   analyses,
		recons:     recons,
		resources:  resources,
		content:    content,
		runner:     runner,
		events:     events,
		comparator: comparator,
		info:       info,
	}
}

// List returns all analyses without results.
func (s *AnalysisService) List(ctx context.Context) ([]domain.Analysis, error) {
	return s.analyses.List(ctx)
}

// Get returns an analysis with its results.
func (s *AnalysisService) Get(ctx context.Context, id int64) (*domain.Analysis, error) {
	return s.analyses.GetByID(ctx, id)
}

// Create records a PENDING analysis and hands it to the runner.
func (s *AnalysisService) Create(ctx context.Context, minuendReconID, subtrahendReconID int64) (*domain.Analysis, error) {
	if minuendReconID == subtrahendReconID {
		return nil, invalid("minuend and subtrahend recons must differ")
	}
	if _, err := s.recons.GetByID(ctx, minuendReconID); err != nil {
		return nil, fmt.Errorf("minuend recon %d: %w", minuendReconID, err)
	}
	if _, err := s.recons.GetByID(ctx, subtrahendReconID); err != nil {
		return nil, fmt.Errorf("subtrahend recon %d: %w", subtrahendReconID, err)
	}

	a := &domain.Analysis{
		MinuendReconID:    minuendReconID,
		SubtrahendReconID: subtrahendReconID,
		State:             domain.AnalysisPending,
	}
	if err := s.analyses.Create(ctx, a); err != nil {
		return nil, err
	}
	metrics.AnalysesStarted.Inc()
	touch(ctx, s.info)

	if s.runner == nil {
		return a, nil
	}
	if err := s.runner.StartAnalysis(ctx, a.ID); err != nil {
		msg := fmt.Sprintf("could not start analysis: %v", err)
		if perr := s.Progress(ctx, a.ID, domain.AnalysisFailure, 0, 0, msg, nil); perr != nil {
			logging.FromContext(ctx).Error("mark analysis failed", "id", a.ID, "error", perr)
		}
		return nil, fmt.Errorf("start analysis %d: %w", a.ID, err)
	}
	return a, nil
}

// Delete removes an analysis and its result images.
func (s *AnalysisService) Delete(ctx context.Context, id int64) error {
	a, err := s.analyses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	for _, r := range a.Results {
		if err := s.content.Delete(ctx, ResultPrefix+r.Filename); err != nil {
			return fmt.Errorf("delete result %d: %w", r.ID, err)
		}
	}
	if err := s.analyses.Delete(ctx, id); err != nil {
		return err
	}
	touch(ctx, s.info)
	return nil
}

// GetResult returns one pair result.
func (s *AnalysisService) GetResult(ctx context.Context, id int64) (*domain.AnalysisResult, error) {
	return s.analyses.GetResult(ctx, id)
}

// OpenResultContent returns the change mask of a pair result.
func (s *AnalysisService) OpenResultContent(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	r, err := s.analyses.GetResult(ctx, id)
	if err != nil {
		return nil, "", err
	}
	rc, err := s.content.OpenRead(ctx, ResultPrefix+r.Filename)
	if err != nil {
		return nil, "", err
	}
	return rc, r.Filename, nil
}

// Pairs matches the resources of both recons by capture number. Resources
// without content, or without a counterpart, are skipped.
func (s *AnalysisService) Pairs(ctx context.Context, analysisID int64) ([]ResourcePair, error) {
	a, err := s.analyses.GetByID(ctx, analysisID)
	if err != nil {
		return nil, err
	}

	minuends, err := s.resources.List(ctx, &a.MinuendReconID)
	if err != nil {
		return nil, err
	}
	subtrahends, err := s.resources.List(ctx, &a.SubtrahendReconID)
	if err != nil {
		return nil, err
	}

	byNumber := make(map[int]domain.Resource, len(subtrahends))
	for _, r := range subtrahends {
		if r.HasContent() {
			byNumber[r.Number] = r
		}
	}

	var pairs []ResourcePair
	for _, m := range minuends {
		if !m.HasContent() {
			continue
		}
		if sub, ok := byNumber[m.Number]; ok {
			pairs = append(pairs, ResourcePair{Number: m.Number, Minuend: m, Subtrahend: sub})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Number < pairs[j].Number })
	return pairs, nil
}

// ResultFilename names the change mask of a pair.
func ResultFilename(minuend, subtrahend string) string {
	name := strings.TrimSuffix(minuend, path.Ext(minuend)) + "_SUB_" + strings.TrimSuffix(subtrahend, path.Ext(subtrahend))
	return strings.ToUpper(name) + ".jpg"
}

// ComparePair runs change detection on one pair, stores the mask and
// records the result.
func (s *AnalysisService) ComparePair(ctx context.Context, analysisID int64, pair ResourcePair) (*domain.AnalysisResult, error) {
	start := time.Now()
	defer func() { metrics.AnalysisPairDuration.Observe(time.Since(start).Seconds()) }()

	minuend, err := s.decode(ctx, &pair.Minuend)
	if err != nil {
		return nil, err
	}
	subtrahend, err := s.decode(ctx, &pair.Subtrahend)
	if err != nil {
		return nil, err
	}

	cmp, err := s.comparator.Compare(minuend, subtrahend)
	if err != nil {
		return nil, fmt.Errorf("compare pair %d: %w", pair.Number, err)
	}

	filename := ResultFilename(*pair.Minuend.Filename, *pair.Subtrahend.Filename)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cmp.Mask, filename); err != nil {
		return nil, err
	}
	if _, err := s.content.Store(ctx, ResultPrefix+filename, &buf); err != nil {
		return nil, fmt.Errorf("store result %s: %w", filename, err)
	}

	res := &domain.AnalysisResult{
		AnalysisID:           analysisID,
		Filename:             filename,
		Result:               cmp.Ratio,
		MinuendResourceID:    pair.Minuend.ID,
		SubtrahendResourceID: pair.Subtrahend.ID,
	}
	if err := s.analyses.AddResult(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AnalysisService) decode(ctx context.Context, res *domain.Resource) (image.Image, error) {
	if !res.HasContent() {
		return nil, fmt.Errorf("resource %d: %w", res.ID, domain.ErrNoContent)
	}
	rc, err := s.content.OpenRead(ctx, ResourcePrefix+*res.Filename)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return imaging.Decode(rc)
}

// Progress persists and broadcasts the state of an analysis.
func (s *AnalysisService) Progress(ctx context.Context, id int64, state domain.AnalysisState, total, current int, message string, result *float64) error {
	a := &domain.Analysis{
		ID:      id,
		State:   state,
		Total:   total,
		Current: current,
		Message: message,
		Result:  result,
	}
	if err := s.analyses.UpdateProgress(ctx, a); err != nil {
		return err
	}
	if state.Terminal() {
		metrics.AnalysesFinished.WithLabelValues(string(state)).Inc()
		touch(ctx, s.info)
	}

	if s.events != nil {
		evt := &domain.AnalysisProgressEvent{AnalysisID: id, State: state, Total: total, Current: current, Message: message}
		if err := s.events.PublishAnalysisProgress(ctx, evt); err != nil {
			logging.FromContext(ctx).Warn("publish analysis progress", "id", id, "error", err)
		}
	}
	return nil
}
