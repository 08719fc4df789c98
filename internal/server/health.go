package server

import (
	"context"
)

// HealthService defines behaviour for readiness probes.
type HealthService interface {
	Probe(ctx context.Context) error
}

// CatalogHealthService verifies the star catalog as part of health checks.
type CatalogHealthService struct {
	Catalog interface {
		Probe(ctx context.Context) error
	}
}

// Probe implements the HealthService interface.
func (s CatalogHealthService) Probe(ctx context.Context) error {
	if s.Catalog == nil {
		return nil
	}
	return s.Catalog.Probe(ctx)
}
