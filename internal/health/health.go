package health

import (
	"context"
	"time"

	"tailor-backend/internal/store"
)

// CacheProbe reports whether the read cache is reachable.
type CacheProbe interface {
	IsHealthy(ctx context.Context) bool
}

type HealthChecker struct {
	db    store.Store
	cache CacheProbe
}

type HealthStatus struct {
	Status   string          `json:"status"`
	Database ComponentHealth `json:"database"`
	Cache    *CacheHealth    `json:"cache,omitempty"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

type CacheHealth struct {
	Status string `json:"status"`
}

// NewHealthChecker checks db and, when cache is non-nil, the cache. An
// unreachable cache only degrades the status since reads fall through to db.
func NewHealthChecker(db store.Store, cache CacheProbe) *HealthChecker {
	return &HealthChecker{db: db, cache: cache}
}

func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	result := HealthStatus{
		Status:   status,
		Database: dbHealth,
	}

	if h.cache != nil {
		result.Cache = &CacheHealth{Status: "healthy"}
		if !h.cache.IsHealthy(ctx) {
			result.Cache.Status = "unhealthy"
			if status == "healthy" {
				result.Status = "degraded"
			}
		}
	}
	return result
}

func (h *HealthChecker) checkDatabase(ctx context.Context) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	var err error
	if p, ok := h.db.(store.Pinger); ok {
		err = p.Ping(ctx)
	}
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return ComponentHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
