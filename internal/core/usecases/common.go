package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
	"github.com/samirrijal/dronesurvey/internal/core/ports"
	"github.com/samirrijal/dronesurvey/internal/pkg/logging"
	"github.com/samirrijal/dronesurvey/internal/pkg/metrics"
)

// Content path prefixes inside the ContentStore.
const (
	ResourcePrefix  = "resources/"
	ThumbnailPrefix = "thumbnails/"
	ResultPrefix    = "results/"
	ArchivePrefix   = "archive/"
)

const (
	flightPlanNameMin = 3
	flightPlanNameMax = 64
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func validateFlightPlanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < flightPlanNameMin || n > flightPlanNameMax {
		return "", invalid("name must be %d-%d characters", flightPlanNameMin, flightPlanNameMax)
	}
	return name, nil
}

func validateWaypoint(wp *domain.Waypoint) error {
	if wp.Number < 0 || wp.Number > domain.MaxWaypointNumber {
		return invalid("waypoint number must be 0-%d, got %d", domain.MaxWaypointNumber, wp.Number)
	}
	if err := wp.Parameters.Validate(); err != nil {
		return invalid("waypoint %d: %v", wp.Number, err)
	}
	return nil
}

// cacheGet decodes a cached JSON value into v and reports a hit.
func cacheGet(ctx context.Context, cache ports.CacheService, op, key string, v any) bool {
	if cache == nil {
		return false
	}
	data, err := cache.Get(ctx, key)
	if err == nil && json.Unmarshal(data, v) == nil {
		metrics.CacheHits.WithLabelValues(op).Inc()
		return true
	}
	metrics.CacheMisses.WithLabelValues(op).Inc()
	return false
}

func cacheSet(ctx context.Context, cache ports.CacheService, key string, v any, ttlSeconds int) {
	if cache == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = cache.Set(ctx, key, data, ttlSeconds)
	}
}

func cacheDelete(ctx context.Context, cache ports.CacheService, keys ...string) {
	if cache == nil {
		return
	}
	for _, k := range keys {
		if err := cache.Delete(ctx, k); err != nil {
			logging.FromContext(ctx).Warn("cache delete failed", "key", k, "error", err)
		}
	}
}

// touch records that survey data changed.
func touch(ctx context.Context, info ports.AppInfoRepository) {
	if info == nil {
		return
	}
	if err := info.Touch(ctx); err != nil {
		logging.FromContext(ctx).Warn("app informations update failed", "error", err)
	}
}

// purgeResourceContent removes an image and its thumbnail.
func purgeResourceContent(ctx context.Context, content ports.ContentStore, res *domain.Resource) error {
	if content == nil || !res.HasContent() {
		return nil
	}
	if err := content.Delete(ctx, ResourcePrefix+*res.Filename); err != nil {
		return fmt.Errorf("delete content of resource %d: %w", res.ID, err)
	}
	if err := content.Delete(ctx, ThumbnailPrefix+*res.Filename); err != nil {
		return fmt.Errorf("delete thumbnail of resource %d: %w", res.ID, err)
	}
	return nil
}

// purgeAfterDelete removes the content of resources whose rows are already
// gone. Failures leave orphaned files only, so they are logged.
func purgeAfterDelete(ctx context.Context, content ports.ContentStore, resources []domain.Resource) {
	for i := range resources {
		if err := purgeResourceContent(ctx, content, &resources[i]); err != nil {
			logging.FromContext(ctx).Warn("orphaned resource content", "resource_id", resources[i].ID, "error", err)
		}
	}
}

func flightPlanKey(id int64) string {
	return fmt.Sprintf("flightplans:id:%d", id)
}
