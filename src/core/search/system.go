package search

import (
	"context"

	"nextdocs/src/log"
)

// Pinger reports reachability of an external collaborator.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health is the portal health report. The cache store degrades the service
// rather than failing it, so an unreachable cache yields "degraded".
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// SystemService reports operational health of the search subsystem.
type SystemService interface {
	CheckHealth(ctx context.Context) Health
}

type systemService struct {
	db    Pinger
	cache Pinger
}

func NewSystemService(db, cache Pinger) SystemService {
	return &systemService{db: db, cache: cache}
}

func (s *systemService) CheckHealth(ctx context.Context) Health {
	h := Health{Status: "ok", Database: "ok", Cache: "ok"}

	if err := s.db.Ping(ctx); err != nil {
		log.Error(err, "database health check failed")
		h.Database = "unreachable"
		h.Status = "unhealthy"
	}

	if err := s.cache.Ping(ctx); err != nil {
		log.Error(err, "cache health check failed")
		h.Cache = "unreachable"
		if h.Status == "ok" {
			h.Status = "degraded"
		}
	}

	return h
}
