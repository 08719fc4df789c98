package service

import (
	"context"

	"github.com/vanshika/starroute/internal/domain"
)

// StarSource supplies the star list a query runs over.
type StarSource interface {
	ListStars(ctx context.Context, dataset string) ([]domain.StarNode, error)
	FindStar(ctx context.Context, dataset, name string) (domain.StarNode, error)
}
