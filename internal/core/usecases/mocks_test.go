package usecases_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// --- Mock FlightPlanRepository ---

type mockPlanRepo struct {
	listFn             func(ctx context.Context) ([]domain.FlightPlan, error)
	getByIDFn          func(ctx context.Context, id int64) (*domain.FlightPlan, error)
	createFn           func(ctx context.Context, fp *domain.FlightPlan) error
	renameFn           func(ctx context.Context, id int64, name string) error
	replaceWaypointsFn func(ctx context.Context, id int64, name string, wps []domain.Waypoint, distance float64, b *domain.BuilderOptions) error
	updateSummaryFn    func(ctx context.Context, id int64, distance float64, b *domain.BuilderOptions) error
	deleteFn           func(ctx context.Context, id int64) error
}

func (m *mockPlanRepo) List(ctx context.Context) ([]domain.FlightPlan, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockPlanRepo) GetByID(ctx context.Context, id int64) (*domain.FlightPlan, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockPlanRepo) Create(ctx context.Context, fp *domain.FlightPlan) error {
	if m.createFn != nil {
		return m.createFn(ctx, fp)
	}
	fp.ID = 1
	return nil
}

func (m *mockPlanRepo) Rename(ctx context.Context, id int64, name string) error {
	if m.renameFn != nil {
		return m.renameFn(ctx, id, name)
	}
	return nil
}

func (m *mockPlanRepo) ReplaceWaypoints(ctx context.Context, id int64, name string, wps []domain.Waypoint, distance float64, b *domain.BuilderOptions) error {
	if m.replaceWaypointsFn != nil {
		return m.replaceWaypointsFn(ctx, id, name, wps, distance, b)
	}
	return nil
}

func (m *mockPlanRepo) UpdateSummary(ctx context.Context, id int64, distance float64, b *domain.BuilderOptions) error {
	if m.updateSummaryFn != nil {
		return m.updateSummaryFn(ctx, id, distance, b)
	}
	return nil
}

func (m *mockPlanRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock WaypointRepository ---

type mockWaypointRepo struct {
	getByIDFn func(ctx context.Context, id int64) (*domain.Waypoint, error)
	createFn  func(ctx context.Context, wp *domain.Waypoint) error
	updateFn  func(ctx context.Context, wp *domain.Waypoint) error
	deleteFn  func(ctx context.Context, id int64) error
}

func (m *mockWaypointRepo) List(ctx context.Context, fpID *int64) ([]domain.Waypoint, error) {
	return nil, nil
}

func (m *mockWaypointRepo) GetByID(ctx context.Context, id int64) (*domain.Waypoint, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockWaypointRepo) Create(ctx context.Context, wp *domain.Waypoint) error {
	if m.createFn != nil {
		return m.createFn(ctx, wp)
	}
	return nil
}

func (m *mockWaypointRepo) Update(ctx context.Context, wp *domain.Waypoint) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, wp)
	}
	return nil
}

func (m *mockWaypointRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock ReconRepository ---

type mockReconRepo struct {
	recons   map[int64]domain.Recon
	deleted  []int64
	createFn func(ctx context.Context, r *domain.Recon) error
}

func (m *mockReconRepo) List(ctx context.Context, fpID *int64) ([]domain.Recon, error) {
	var out []domain.Recon
	for _, r := range m.recons {
		if fpID == nil || r.FlightPlanID == *fpID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockReconRepo) GetByID(ctx context.Context, id int64) (*domain.Recon, error) {
	if r, ok := m.recons[id]; ok {
		return &r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockReconRepo) Create(ctx context.Context, r *domain.Recon) error {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	r.ID = int64(len(m.recons) + 1)
	return nil
}

func (m *mockReconRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

// --- Mock ResourceRepository ---

type mockResourceRepo struct {
	resources     map[int64]domain.Resource
	setFilenameFn func(ctx context.Context, id int64, filename *string) error
}

func (m *mockResourceRepo) List(ctx context.Context, reconID *int64) ([]domain.Resource, error) {
	var out []domain.Resource
	for _, r := range m.resources {
		if reconID == nil || r.ReconID == *reconID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockResourceRepo) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	if r, ok := m.resources[id]; ok {
		return &r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockResourceRepo) Create(ctx context.Context, r *domain.Resource) error {
	r.ID = int64(len(m.resources) + 1)
	m.resources[r.ID] = *r
	return nil
}

func (m *mockResourceRepo) Update(ctx context.Context, r *domain.Resource) error {
	m.resources[r.ID] = *r
	return nil
}

func (m *mockResourceRepo) SetFilename(ctx context.Context, id int64, filename *string) error {
	if m.setFilenameFn != nil {
		return m.setFilenameFn(ctx, id, filename)
	}
	r := m.resources[id]
	r.Filename = filename
	m.resources[id] = r
	return nil
}

func (m *mockResourceRepo) Delete(ctx context.Context, id int64) error {
	delete(m.resources, id)
	return nil
}

// --- Mock AnalysisRepository ---

type mockAnalysisRepo struct {
	analyses map[int64]domain.Analysis
	results  []domain.AnalysisResult
	updates  []domain.Analysis
}

func (m *mockAnalysisRepo) List(ctx context.Context) ([]domain.Analysis, error) {
	var out []domain.Analysis
	for _, a := range m.analyses {
		out = append(out, a)
	}
	return out, nil
}

func (m *mockAnalysisRepo) GetByID(ctx context.Context, id int64) (*domain.Analysis, error) {
	if a, ok := m.analyses[id]; ok {
		return &a, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockAnalysisRepo) Create(ctx context.Context, a *domain.Analysis) error {
	a.ID = int64(len(m.analyses) + 1)
	m.analyses[a.ID] = *a
	return nil
}

func (m *mockAnalysisRepo) UpdateProgress(ctx context.Context, a *domain.Analysis) error {
	m.updates = append(m.updates, *a)
	return nil
}

func (m *mockAnalysisRepo) AddResult(ctx context.Context, r *domain.AnalysisResult) error {
	r.ID = int64(len(m.results) + 1)
	m.results = append(m.results, *r)
	return nil
}

func (m *mockAnalysisRepo) GetResult(ctx context.Context, id int64) (*domain.AnalysisResult, error) {
	for _, r := range m.results {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockAnalysisRepo) Delete(ctx context.Context, id int64) error {
	delete(m.analyses, id)
	return nil
}

// --- Mock AppInfoRepository ---

type mockInfoRepo struct {
	touches int
}

func (m *mockInfoRepo) Get(ctx context.Context) (*domain.AppInformations, error) {
	return &domain.AppInformations{}, nil
}

func (m *mockInfoRepo) Touch(ctx context.Context) error {
	m.touches++
	return nil
}

// --- In-memory ContentStore ---

type memContent struct {
	mu      sync.Mutex
	objects map[string][]byte
	values  map[string]any
}

func newMemContent() *memContent {
	return &memContent{objects: map[string][]byte{}, values: map[string]any{}}
}

func (m *memContent) Store(ctx context.Context, path string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = data
	return int64(len(data)), nil
}

func (m *memContent) StoreObject(ctx context.Context, path string, v any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[path] = v
	return 1, nil
}

func (m *memContent) OpenRead(ctx context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memContent) List(ctx context.Context, prefix string) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]int64{}
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			out[k] = int64(len(v))
		}
	}
	return out, nil
}

func (m *memContent) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

// --- Mock CacheService ---

type mockCache struct {
	data    map[string][]byte
	deleted []string
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	uploaded []domain.ResourceUploadedEvent
	progress []domain.AnalysisProgressEvent
}

func (m *mockPublisher) PublishResourceUploaded(ctx context.Context, evt *domain.ResourceUploadedEvent) error {
	m.uploaded = append(m.uploaded, *evt)
	return nil
}

func (m *mockPublisher) PublishAnalysisProgress(ctx context.Context, evt *domain.AnalysisProgressEvent) error {
	m.progress = append(m.progress, *evt)
	return nil
}

// --- Mock AnalysisRunner ---

type mockRunner struct {
	started []int64
	err     error
}

func (m *mockRunner) StartAnalysis(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	m.started = append(m.started, id)
	return nil
}
