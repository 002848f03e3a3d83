package usecases

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/ports"
	"github.com/samirrijal/dronesurvey/internal/pkg/imaging"
	"github.com/samirrijal/dronesurvey/internal/pkg/logging"
	"github.com/samirrijal/dronesurvey/internal/pkg/metrics"
)

// ResourceService handles captured images and their thumbnails.
type ResourceService struct {
	resources ports.ResourceRepository
	recons    ports.ReconRepository
	content   ports.ContentStore
	events    ports.EventPublisher
	info      ports.AppInfoRepository
}

// NewResourceService creates a new ResourceService. events and info may be nil.
func NewResourceService(resources ports.ResourceRepository, recons ports.ReconRepository, content ports.ContentStore, events ports.EventPublisher, info ports.AppInfoRepository) *ResourceService {
	return &ResourceService{resources: resources, recons: recons, content: content, events: events, info: info}
}

// ResourceFilename is the stored name of a resource's image.
func ResourceFilename(flightPlanID, reconID int64, number int, ext string) string {
	return fmt.Sprintf("FP%d_R%d_S%d.%s", flightPlanID, reconID, number, ext)
}

func validateResource(res *domain.Resource) error {
	if res.Number < 0 || res.Number > domain.MaxResourceNumber {
		return invalid("resource number must be 0-%d, got %d", domain.MaxResourceNumber, res.Number)
	}
	if err := res.Parameters.Validate(); err != nil {
		return invalid("resource %d: %v", res.Number, err)
	}
	return nil
}

// List returns resources, optionally restricted to one recon.
func (s *ResourceService) List(ctx context.Context, reconID *int64) ([]domain.Resource, error) {
	return s.resources.List(ctx, reconID)
}

// Get returns a single resource.
func (s *ResourceService) Get(ctx context.Context, id int64) (*domain.Resource, error) {
	return s.resources.GetByID(ctx, id)
}

// Create registers a resource of an existing recon. Content is uploaded separately.
func (s *ResourceService) Create(ctx context.Context, res *domain.Resource) error {
	if err := validateResource(res); err != nil {
		return err
	}
	if _, err := s.recons.GetByID(ctx, res.ReconID); err != nil {
		return err
	}
	res.Filename = nil
	if err := s.resources.Create(ctx, res); err != nil {
		return err
	}
	touch(ctx, s.info)
	return nil
}

// Update replaces a resource's number and parameters.
func (s *ResourceService) Update(ctx context.Context, res *domain.Resource) error {
	if err := validateResource(res); err != nil {
		return err
	}
	current, err := s.resources.GetByID(ctx, res.ID)
	if err != nil {
		return err
	}
	res.ReconID = current.ReconID
	res.Filename = current.Filename
	res.CreatedAt = current.CreatedAt
	if err := s.resources.Update(ctx, res); err != nil {
		return err
	}
	touch(ctx, s.info)
	return nil
}

// Delete removes a resource and its content.
func (s *ResourceService) Delete(ctx context.Context, id int64) error {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.resources.Delete(ctx, id); err != nil {
		return err
	}
	purgeAfterDelete(ctx, s.content, []domain.Resource{*res})
	touch(ctx, s.info)
	return nil
}

// UploadContent stores the image of a resource. A resource holds at most
// one image; uploading over existing content returns domain.ErrAlreadyExists.
func (s *ResourceService) UploadContent(ctx context.Context, id int64, ext string, r io.Reader) (*domain.Resource, error) {
	ext, ok := imaging.NormalizeExtension(ext)
	if !ok {
		return nil, invalid("file extension %q not allowed, expected one of %v", ext, imaging.AllowedExtensions)
	}

	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.HasContent() {
		return nil, fmt.Errorf("resource %d content: %w", id, domain.ErrAlreadyExists)
	}
	recon, err := s.recons.GetByID(ctx, res.ReconID)
	if err != nil {
		return nil, err
	}

	filename := ResourceFilename(recon.FlightPlanID, recon.ID, res.Number, ext)
	if _, err := s.content.Store(ctx, ResourcePrefix+filename, r); err != nil {
		return nil, fmt.Errorf("store content: %w", err)
	}
	if err := s.resources.SetFilename(ctx, id, &filename); err != nil {
		_ = s.content.Delete(ctx, ResourcePrefix+filename)
		return nil, err
	}
	res.Filename = &filename
	metrics.ResourcesUploaded.Inc()

	if s.events != nil {
		evt := &domain.ResourceUploadedEvent{ResourceID: id, ReconID: res.ReconID, Filename: filename}
		if err := s.events.PublishResourceUploaded(ctx, evt); err != nil {
			logging.FromContext(ctx).Warn("publish resource uploaded", "resource_id", id, "error", err)
		}
	}

	touch(ctx, s.info)
	return res, nil
}

// OpenContent returns the resource image and its filename.
func (s *ResourceService) OpenContent(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	return s.open(ctx, id, ResourcePrefix)
}

// OpenThumbnail returns the resource thumbnail and its filename.
// domain.ErrNotFound means the thumbnail has not been generated yet.
func (s *ResourceService) OpenThumbnail(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	return s.open(ctx, id, ThumbnailPrefix)
}

func (s *ResourceService) open(ctx context.Context, id int64, prefix string) (io.ReadCloser, string, error) {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !res.HasContent() {
		return nil, "", fmt.Errorf("resource %d: %w", id, domain.ErrNoContent)
	}
	rc, err := s.content.OpenRead(ctx, prefix+*res.Filename)
	if err != nil {
		return nil, "", err
	}
	return rc, *res.Filename, nil
}

// DeleteContent removes the image and thumbnail but keeps the resource.
func (s *ResourceService) DeleteContent(ctx context.Context, id int64) error {
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !res.HasContent() {
		return fmt.Errorf("resource %d: %w", id, domain.ErrNoContent)
	}
	if err := s.resources.SetFilename(ctx, id, nil); err != nil {
		return err
	}
	purgeAfterDelete(ctx, s.content, []domain.Resource{*res})
	touch(ctx, s.info)
	return nil
}

// GenerateThumbnail writes the thumbnail of an uploaded image.
func (s *ResourceService) GenerateThumbnail(ctx context.Context, filename string) error {
	src, err := s.content.OpenRead(ctx, ResourcePrefix+filename)
	if err != nil {
		metrics.ThumbnailsGenerated.WithLabelValues("error").Inc()
		return err
	}
	defer src.Close()

	var buf bytes.Buffer
	if err := imaging.Thumbnail(&buf, src, filename); err != nil {
		metrics.ThumbnailsGenerated.WithLabelValues("error").Inc()
		return fmt.Errorf("thumbnail %s: %w", filename, err)
	}
	if _, err := s.content.Store(ctx, ThumbnailPrefix+filename, &buf); err != nil {
		metrics.ThumbnailsGenerated.WithLabelValues("error").Inc()
		return fmt.Errorf("store thumbnail %s: %w", filename, err)
	}

	metrics.ThumbnailsGenerated.WithLabelValues("ok").Inc()
	return nil
}
