package usecases

import (
	"context"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/ports"
)

// ReconService handles recon passes.
type ReconService struct {
	recons    ports.ReconRepository
	plans     ports.FlightPlanRepository
	resources ports.ResourceRepository
	content   ports.ContentStore
	info      ports.AppInfoRepository
}

// NewReconService creates a new ReconService.
func NewReconService(recons ports.ReconRepository, plans ports.FlightPlanRepository, resources ports.ResourceRepository, content ports.ContentStore, info ports.AppInfoRepository) *ReconService {
	return &ReconService{recons: recons, plans: plans, resources: resources, content: content, info: info}
}

// List returns recons, optionally restricted to one flight plan.
func (s *ReconService) List(ctx context.Context, flightPlanID *int64) ([]domain.Recon, error) {
	return s.recons.List(ctx, flightPlanID)
}

// Get returns a single recon.
func (s *ReconService) Get(ctx context.Context, id int64) (*domain.Recon, error) {
	return s.recons.GetByID(ctx, id)
}

// Create starts a new recon of an existing flight plan.
func (s *ReconService) Create(ctx context.Context, flightPlanID int64) (*domain.Recon, error) {
	if _, err := s.plans.GetByID(ctx, flightPlanID); err != nil {
		return nil, err
	}
	r := &domain.Recon{FlightPlanID: flightPlanID}
	if err := s.recons.Create(ctx, r); err != nil {
		return nil, err
	}
	touch(ctx, s.info)
	return r, nil
}

// Delete removes a recon, its resources and their content.
func (s *ReconService) Delete(ctx context.Context, id int64) error {
	if _, err := s.recons.GetByID(ctx, id); err != nil {
		return err
	}
	resources, err := s.resources.List(ctx, &id)
	if err != nil {
		return err
	}
	if err := s.recons.Delete(ctx, id); err != nil {
		return err
	}
	purgeAfterDelete(ctx, s.content, resources)
	touch(ctx, s.info)
	return nil
}
