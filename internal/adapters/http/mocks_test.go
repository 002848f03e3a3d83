package http_test

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// ---- Mock repositories ----

type mockPlanRepo struct {
	listFn    func(ctx context.Context) ([]domain.FlightPlan, error)
	getByIDFn func(ctx context.Context, id int64) (*domain.FlightPlan, error)
	createFn  func(ctx context.Context, fp *domain.FlightPlan) error
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
func (m *mockPlanRepo) Rename(ctx context.Context, id int64, name string) error { return nil }
func (m *mockPlanRepo) ReplaceWaypoints(ctx context.Context, id int64, name string, wps []domain.Waypoint, distance float64, b *domain.BuilderOptions) error {
	return nil
}
func (m *mockPlanRepo) UpdateSummary(ctx context.Context, id int64, distance float64, b *domain.BuilderOptions) error {
	return nil
}
func (m *mockPlanRepo) Delete(ctx context.Context, id int64) error { return nil }

type mockWaypointRepo struct{}

func (m *mockWaypointRepo) List(ctx context.Context, flightPlanID *int64) ([]domain.Waypoint, error) {
	return nil, nil
}
func (m *mockWaypointRepo) GetByID(ctx context.Context, id int64) (*domain.Waypoint, error) {
	return nil, domain.ErrNotFound
}
func (m *mockWaypointRepo) Create(ctx context.Context, wp *domain.Waypoint) error { return nil }
func (m *mockWaypointRepo) Update(ctx context.Context, wp *domain.Waypoint) error { return nil }
func (m *mockWaypointRepo) Delete(ctx context.Context, id int64) error            { return nil }

type mockReconRepo struct {
	listFn    func(ctx context.Context, flightPlanID *int64) ([]domain.Recon, error)
	getByIDFn func(ctx context.Context, id int64) (*domain.Recon, error)
}

func (m *mockReconRepo) List(ctx context.Context, flightPlanID *int64) ([]domain.Recon, error) {
	if m.listFn != nil {
		return m.listFn(ctx, flightPlanID)
	}
	return nil, nil
}
func (m *mockReconRepo) GetByID(ctx context.Context, id int64) (*domain.Recon, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}
func (m *mockReconRepo) Create(ctx context.Context, r *domain.Recon) error {
	r.ID = 1
	return nil
}
func (m *mockReconRepo) Delete(ctx context.Context, id int64) error { return nil }

type mockResourceRepo struct {
	mu        sync.Mutex
	getByIDFn func(ctx context.Context, id int64) (*domain.Resource, error)
	filenames map[int64]*string
}

func (m *mockResourceRepo) List(ctx context.Context, reconID *int64) ([]domain.Resource, error) {
	return nil, nil
}
func (m *mockResourceRepo) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}
func (m *mockResourceRepo) Create(ctx context.Context, r *domain.Resource) error { return nil }
func (m *mockResourceRepo) Update(ctx context.Context, r *domain.Resource) error { return nil }
func (m *mockResourceRepo) SetFilename(ctx context.Context, id int64, filename *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.filenames == nil {
		m.filenames = make(map[int64]*string)
	}
	m.filenames[id] = filename
	return nil
}
func (m *mockResourceRepo) Delete(ctx context.Context, id int64) error { return nil }

type mockAnalysisRepo struct {
	listFn func(ctx context.Context) ([]domain.Analysis, error)
}

func (m *mockAnalysisRepo) List(ctx context.Context) ([]domain.Analysis, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}
func (m *mockAnalysisRepo) GetByID(ctx context.Context, id int64) (*domain.Analysis, error) {
	return nil, domain.ErrNotFound
}
func (m *mockAnalysisRepo) Create(ctx context.Context, a *domain.Analysis) error {
	a.ID = 1
	return nil
}
func (m *mockAnalysisRepo) UpdateProgress(ctx context.Context, a *domain.Analysis) error { return nil }
func (m *mockAnalysisRepo) AddResult(ctx context.Context, r *domain.AnalysisResult) error {
	return nil
}
func (m *mockAnalysisRepo) GetResult(ctx context.Context, id int64) (*domain.AnalysisResult, error) {
	return nil, domain.ErrNotFound
}
func (m *mockAnalysisRepo) Delete(ctx context.Context, id int64) error { return nil }

type mockInfoRepo struct{}

func (m *mockInfoRepo) Get(ctx context.Context) (*domain.AppInformations, error) {
	return &domain.AppInformations{}, nil
}
func (m *mockInfoRepo) Touch(ctx context.Context) error { return nil }

// ---- In-memory content store ----

type memContent struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemContent() *memContent {
	return &memContent{files: make(map[string][]byte)}
}

func (m *memContent) Store(ctx context.Context, path string, r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return int64(len(data)), nil
}
func (m *memContent) StoreObject(ctx context.Context, path string, v any) (int64, error) {
	return 0, nil
}
func (m *memContent) OpenRead(ctx context.Context, path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
func (m *memContent) List(ctx context.Context, prefix string) (map[string]int64, error) {
	return nil, nil
}
func (m *memContent) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}
