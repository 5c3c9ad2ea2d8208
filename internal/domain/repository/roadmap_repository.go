package repository

import (
	"context"

	"github.com/careerpath/careerpath-api/internal/domain/entity"
)

// RoadmapRepository defines roadmap persistence. Roadmaps are immutable:
// create once, then list or fetch.
type RoadmapRepository interface {
	Create(ctx context.Context, r *entity.Roadmap) error
	GetByID(ctx context.Context, id string) (*entity.Roadmap, error)
	// ListByOwner returns the owner's roadmaps newest-first.
	ListByOwner(ctx context.Context, userID string) ([]entity.Roadmap, error)
}
