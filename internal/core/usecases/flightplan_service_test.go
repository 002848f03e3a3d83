package usecases_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/flightpath"
	"github.com/samirrijal/dronesurvey/internal/core/usecases"
	"github.com/samirrijal/dronesurvey/internal/pkg/geospatial"
)

func builderOptions() domain.BuilderOptions {
	return domain.BuilderOptions{
		Coord1:     domain.GeoPoint{Lat: 43.3, Lon: -2.9},
		Coord2:     domain.GeoPoint{Lat: 43.3, Lon: -2.899},
		AltStart:   10,
		AltEnd:     30,
		HIncrement: 20,
		VIncrement: 10,
	}
}

func newPlanService(plans *mockPlanRepo, content *memContent, cache *mockCache, info *mockInfoRepo) *usecases.FlightPlanService {
	recons := &mockReconRepo{recons: map[int64]domain.Recon{}}
	resources := &mockResourceRepo{resources: map[int64]domain.Resource{}}
	return usecases.NewFlightPlanService(plans, recons, resources, content, cache, info,
		flightpath.NewBuilder(geospatial.FlatEarth, 99))
}

func TestFlightPlanService_Build_Preview(t *testing.T) {
	created := false
	plans := &mockPlanRepo{
		createFn: func(ctx context.Context, fp *domain.FlightPlan) error {
			created = true
			return nil
		},
	}
	svc := newPlanService(plans, nil, nil, nil)

	out, err := svc.Build(context.Background(), usecases.BuildInput{Name: "Cliff north", Options: builderOptions()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("preview build should not persist")
	}
	if out.Plan != nil {
		t.Error("preview build should not return a plan")
	}
	// 71.5 m at 20 m steps: 4 points per layer, 3 layers.
	if len(out.Result.Waypoints) != 12 || out.Result.Layers != 3 {
		t.Errorf("got %d waypoints over %d layers", len(out.Result.Waypoints), out.Result.Layers)
	}
}

func TestFlightPlanService_Build_Save(t *testing.T) {
	var stored *domain.FlightPlan
	plans := &mockPlanRepo{
		createFn: func(ctx context.Context, fp *domain.FlightPlan) error {
			fp.ID = 42
			stored = fp
			return nil
		},
	}
	info := &mockInfoRepo{}
	svc := newPlanService(plans, nil, nil, info)

	out, err := svc.Build(context.Background(), usecases.BuildInput{Name: "  Cliff north ", Save: true, Options: builderOptions()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil || out.Plan == nil || out.Plan.ID != 42 {
		t.Fatal("expected the plan to be stored")
	}
	if stored.Name != "Cliff north" {
		t.Errorf("name = %q, want trimmed", stored.Name)
	}
	if stored.Builder == nil || *stored.Builder != builderOptions() {
		t.Error("builder options should be stored with the plan")
	}
	if math.Abs(stored.Distance-out.Result.TotalLength) > 1e-9 {
		t.Errorf("distance = %f, want %f", stored.Distance, out.Result.TotalLength)
	}
	if info.touches != 1 {
		t.Errorf("expected app informations touched once, got %d", info.touches)
	}
}

func TestFlightPlanService_Build_Errors(t *testing.T) {
	svc := newPlanService(&mockPlanRepo{}, nil, nil, nil)
	ctx := context.Background()

	if _, err := svc.Build(ctx, usecases.BuildInput{Name: "ab", Options: builderOptions()}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("short name: expected ErrInvalidInput, got %v", err)
	}

	opts := builderOptions()
	opts.Coord2 = opts.Coord1
	if _, err := svc.Build(ctx, usecases.BuildInput{Name: "same point", Options: opts}); !errors.Is(err, flightpath.ErrDegenerateInput) {
		t.Errorf("degenerate: expected ErrDegenerateInput, got %v", err)
	}

	opts = builderOptions()
	opts.HIncrement = 0
	_, err := svc.Build(ctx, usecases.BuildInput{Name: "bad step", Options: opts})
	var verr *flightpath.ValidationError
	if !errors.As(err, &verr) || verr.Field != "h_increment" {
		t.Errorf("expected h_increment ValidationError, got %v", err)
	}
}

func TestFlightPlanService_Build_DuplicateName(t *testing.T) {
	plans := &mockPlanRepo{
		createFn: func(ctx context.Context, fp *domain.FlightPlan) error {
			return domain.ErrAlreadyExists
		},
	}
	svc := newPlanService(plans, nil, nil, nil)

	_, err := svc.Build(context.Background(), usecases.BuildInput{Name: "taken", Save: true, Options: builderOptions()})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestFlightPlanService_Create(t *testing.T) {
	var stored *domain.FlightPlan
	plans := &mockPlanRepo{
		createFn: func(ctx context.Context, fp *domain.FlightPlan) error {
			stored = fp
			return nil
		},
	}
	svc := newPlanService(plans, nil, nil, nil)

	in := usecases.CreateFlightPlanInput{
		Name: "manual",
		Waypoints: []domain.Waypoint{
			{Number: 1, Parameters: domain.DronePose{Coord: domain.GeoPosition{Lat: 0, Lon: 0.001, Alt: 10}}},
			{Number: 0, Parameters: domain.DronePose{Coord: domain.GeoPosition{Lat: 0, Lon: 0, Alt: 10}}},
		},
	}
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Waypoints[0].Number != 0 || stored.Waypoints[1].Number != 1 {
		t.Error("waypoints should be ordered by number")
	}
	if math.Abs(stored.Distance-71.5) > 1e-9 {
		t.Errorf("distance = %f, want 71.5", stored.Distance)
	}
}

func TestFlightPlanService_Create_Validation(t *testing.T) {
	svc := newPlanService(&mockPlanRepo{}, nil, nil, nil)
	ctx := context.Background()

	dup := usecases.CreateFlightPlanInput{Name: "dups", Waypoints: []domain.Waypoint{{Number: 3}, {Number: 3}}}
	if _, err := svc.Create(ctx, dup); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("duplicate numbers: expected ErrAlreadyExists, got %v", err)
	}

	high := usecases.CreateFlightPlanInput{Name: "high", Waypoints: []domain.Waypoint{{Number: 99}}}
	if _, err := svc.Create(ctx, high); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("number 99: expected ErrInvalidInput, got %v", err)
	}

	gimbal := usecases.CreateFlightPlanInput{Name: "gimbal", Waypoints: []domain.Waypoint{
		{Number: 0, Parameters: domain.DronePose{Gimbal: domain.Gimbal{Pitch: 270}}},
	}}
	if _, err := svc.Create(ctx, gimbal); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("bad gimbal: expected ErrInvalidInput, got %v", err)
	}
}

func TestFlightPlanService_Get_Cached(t *testing.T) {
	calls := 0
	plans := &mockPlanRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.FlightPlan, error) {
			calls++
			return &domain.FlightPlan{ID: id, Name: "cached"}, nil
		},
	}
	cache := newMockCache()
	svc := newPlanService(plans, nil, cache, nil)

	for i := 0; i < 3; i++ {
		fp, err := svc.Get(context.Background(), 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fp.Name != "cached" {
			t.Errorf("name = %q", fp.Name)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 repository call, got %d", calls)
	}
	if _, ok := cache.data["flightplans:id:5"]; !ok {
		t.Error("expected cache entry")
	}
}

func TestFlightPlanService_Update_Rebuild(t *testing.T) {
	old := &domain.FlightPlan{ID: 9, Name: "facade", Waypoints: []domain.Waypoint{{Number: 0}}}
	var replaced []domain.Waypoint
	var replacedOpts *domain.BuilderOptions
	plans := &mockPlanRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.FlightPlan, error) {
			return old, nil
		},
		replaceWaypointsFn: func(ctx context.Context, id int64, name string, wps []domain.Waypoint, distance float64, b *domain.BuilderOptions) error {
			replaced = wps
			replacedOpts = b
			return nil
		},
	}
	content := newMemContent()
	cache := newMockCache()
	data, _ := json.Marshal(old)
	cache.data["flightplans:id:9"] = data
	svc := newPlanService(plans, content, cache, nil)

	opts := builderOptions()
	if _, err := svc.Update(context.Background(), 9, usecases.UpdateFlightPlanInput{Builder: &opts}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(replaced) != 12 {
		t.Errorf("expected 12 rebuilt waypoints, got %d", len(replaced))
	}
	if replacedOpts == nil || *replacedOpts != opts {
		t.Error("builder options should be stored on rebuild")
	}
	if len(content.values) != 1 {
		t.Errorf("expected one archived snapshot, got %d", len(content.values))
	}
	if _, ok := cache.data["flightplans:id:9"]; ok {
		t.Error("cache entry should be invalidated")
	}
}

func TestFlightPlanService_Update_Rename(t *testing.T) {
	renamed := ""
	plans := &mockPlanRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.FlightPlan, error) {
			return &domain.FlightPlan{ID: id, Name: "old name"}, nil
		},
		renameFn: func(ctx context.Context, id int64, name string) error {
			renamed = name
			return nil
		},
	}
	svc := newPlanService(plans, nil, nil, nil)

	name := "new name"
	if _, err := svc.Update(context.Background(), 1, usecases.UpdateFlightPlanInput{Name: &name}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if renamed != "new name" {
		t.Errorf("renamed to %q", renamed)
	}
}

func TestFlightPlanService_Update_InvalidOptionsWriteNothing(t *testing.T) {
	wrote := false
	plans := &mockPlanRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.FlightPlan, error) {
			return &domain.FlightPlan{ID: id, Name: "old name"}, nil
		},
		renameFn: func(ctx context.Context, id int64, name string) error {
			wrote = true
			return nil
		},
		replaceWaypointsFn: func(ctx context.Context, id int64, name string, wps []domain.Waypoint, distance float64, b *domain.BuilderOptions) error {
			wrote = true
			return nil
		},
	}
	svc := newPlanService(plans, newMemContent(), newMockCache(), nil)

	name := "New name"
	opts := builderOptions()
	opts.HIncrement = 0
	_, err := svc.Update(context.Background(), 4, usecases.UpdateFlightPlanInput{Name: &name, Builder: &opts})

	var verr *flightpath.ValidationError
	if !errors.As(err, &verr) || verr.Field != "h_increment" {
		t.Fatalf("expected h_increment validation error, got %v", err)
	}
	if wrote {
		t.Error("nothing should be written when the options are invalid")
	}
}

func TestFlightPlanService_Update_RenameWithRebuildIsAtomic(t *testing.T) {
	renameCalls := 0
	var storedName string
	plans := &mockPlanRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.FlightPlan, error) {
			return &domain.FlightPlan{ID: id, Name: "old name"}, nil
		},
		renameFn: func(ctx context.Context, id int64, name string) error {
			renameCalls++
			return nil
		},
		replaceWaypointsFn: func(ctx context.Context, id int64, name string, wps []domain.Waypoint, distance float64, b *domain.BuilderOptions) error {
			storedName = name
			return nil
		},
	}
	svc := newPlanService(plans, nil, nil, nil)

	name := "new name"
	opts := builderOptions()
	if _, err := svc.Update(context.Background(), 4, usecases.UpdateFlightPlanInput{Name: &name, Builder: &opts}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if storedName != "new name" || renameCalls != 0 {
		t.Errorf("rename should ride along the rebuild, got name %q and %d separate renames", storedName, renameCalls)
	}
}

func TestFlightPlanService_Update_FailedWriteInvalidatesCache(t *testing.T) {
	plans := &mockPlanRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.FlightPlan, error) {
			return &domain.FlightPlan{ID: id, Name: "old name"}, nil
		},
		replaceWaypointsFn: func(ctx context.Context, id int64, name string, wps []domain.Waypoint, distance float64, b *domain.BuilderOptions) error {
			return domain.ErrAlreadyExists
		},
	}
	cache := newMockCache()
	cache.data["flightplans:id:4"] = []byte(`{"id":4,"name":"old name"}`)
	svc := newPlanService(plans, nil, cache, nil)

	name := "taken name"
	opts := builderOptions()
	if _, err := svc.Update(context.Background(), 4, usecases.UpdateFlightPlanInput{Name: &name, Builder: &opts}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if _, ok := cache.data["flightplans:id:4"]; ok {
		t.Error("cache entry should be invalidated after a write attempt")
	}
}

func TestFlightPlanService_Delete_KeepsContentWhenRowsRemain(t *testing.T) {
	plans := &mockPlanRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.FlightPlan, error) {
			return &domain.FlightPlan{ID: id}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			return errors.New("connection reset")
		},
	}
	fn := "FP1_R2_S0.png"
	recons := &mockReconRepo{recons: map[int64]domain.Recon{2: {ID: 2, FlightPlanID: 1}}}
	resources := &mockResourceRepo{resources: map[int64]domain.Resource{3: {ID: 3, ReconID: 2, Filename: &fn}}}
	content := newMemContent()
	content.objects["resources/"+fn] = []byte("img")

	svc := usecases.NewFlightPlanService(plans, recons, resources, content, nil, nil, flightpath.NewBuilder(nil, 99))
	if err := svc.Delete(context.Background(), 1); err == nil {
		t.Fatal("expected the repository error")
	}
	if _, ok := content.objects["resources/"+fn]; !ok {
		t.Error("content must survive a failed delete")
	}
}

func TestFlightPlanService_Delete_PurgesContent(t *testing.T) {
	deleted := false
	plans := &mockPlanRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.FlightPlan, error) {
			return &domain.FlightPlan{ID: id}, nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	fn := "FP1_R2_S0.png"
	recons := &mockReconRepo{recons: map[int64]domain.Recon{2: {ID: 2, FlightPlanID: 1}}}
	resources := &mockResourceRepo{resources: map[int64]domain.Resource{3: {ID: 3, ReconID: 2, Filename: &fn}}}
	content := newMemContent()
	content.objects["resources/"+fn] = []byte("img")
	content.objects["thumbnails/"+fn] = []byte("thumb")

	svc := usecases.NewFlightPlanService(plans, recons, resources, content, nil, nil, flightpath.NewBuilder(nil, 99))
	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("plan should be deleted")
	}
	if len(content.objects) != 0 {
		t.Errorf("content left behind: %v", content.objects)
	}
}

func TestFlightPlanService_Delete_NotFound(t *testing.T) {
	svc := newPlanService(&mockPlanRepo{}, nil, nil, nil)
	if err := svc.Delete(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
