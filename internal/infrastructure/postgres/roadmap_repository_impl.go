package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careerpath/careerpath-api/internal/domain/entity"
	"github.com/careerpath/careerpath-api/internal/domain/repository"
)

type RoadmapRepository struct {
	pool *pgxpool.Pool
}

func NewRoadmapRepository(pool *pgxpool.Pool) *RoadmapRepository {
	return &RoadmapRepository{pool: pool}
}

// Create inserts the roadmap and fills in the generated id and timestamp.
func (r *RoadmapRepository) Create(ctx context.Context, rm *entity.Roadmap) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO roadmaps (user_id, title, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, rm.UserID, rm.Title, rm.Content)

	return row.Scan(&rm.ID, &rm.CreatedAt)
}

func (r *RoadmapRepository) GetByID(ctx context.Context, id string) (*entity.Roadmap, error) {
	rm := &entity.Roadmap{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, title, content, created_at
		FROM roadmaps
		WHERE id = $1
	`, id)

	if err := row.Scan(&rm.ID, &rm.UserID, &rm.Title, &rm.Content, &rm.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return rm, nil
}

// ListByOwner returns the owner's roadmaps newest-first.
func (r *RoadmapRepository) ListByOwner(ctx context.Context, userID string) ([]entity.Roadmap, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, content, created_at
		FROM roadmaps
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Roadmap, 0)
	for rows.Next() {
		var rm entity.Roadmap
		if err := rows.Scan(&rm.ID, &rm.UserID, &rm.Title, &rm.Content, &rm.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

var _ repository.RoadmapRepository = (*RoadmapRepository)(nil)
