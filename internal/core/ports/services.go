package ports

import (
	"context"
	"io"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishResourceUploaded(ctx context.Context, evt *domain.ResourceUploadedEvent) error
	PublishAnalysisProgress(ctx context.Context, evt *domain.AnalysisProgressEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeResourceUploaded(ctx context.Context, handler func(ctx context.Context, evt *domain.ResourceUploadedEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// ContentStore holds binary content: images, thumbnails, analysis masks and
// plan archives. Paths are slash separated and relative to the store root.
type ContentStore interface {
	Store(ctx context.Context, path string, r io.Reader) (int64, error)
	// StoreObject writes v as zstd-compressed msgpack.
	StoreObject(ctx context.Context, path string, v any) (int64, error)
	// OpenRead returns domain.ErrNotFound for a missing path.
	OpenRead(ctx context.Context, path string) (io.ReadCloser, error)
	// List returns object sizes keyed by path under prefix.
	List(ctx context.Context, prefix string) (map[string]int64, error)
	// Delete is a no-op for a missing path.
	Delete(ctx context.Context, path string) error
}

// AnalysisRunner starts the asynchronous comparison of an analysis.
type AnalysisRunner interface {
	StartAnalysis(ctx context.Context, analysisID int64) error
}
