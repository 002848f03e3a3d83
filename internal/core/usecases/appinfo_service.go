package usecases

import (
	"context"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/ports"
)

// AppInfoService exposes the global last-modified timestamp.
type AppInfoService struct {
	info ports.AppInfoRepository
}

// NewAppInfoService creates a new AppInfoService.
func NewAppInfoService(info ports.AppInfoRepository) *AppInfoService {
	return &AppInfoService{info: info}
}

// Get returns the current app informations.
func (s *AppInfoService) Get(ctx context.Context) (*domain.AppInformations, error) {
	return s.info.Get(ctx)
}
