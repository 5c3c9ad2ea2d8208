package application

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath/careerpath-api/internal/domain/entity"
	"github.com/careerpath/careerpath-api/internal/domain/repository"
)

type fakeRoadmapRepo struct {
	items []entity.Roadmap
	clock time.Time
}

func newFakeRoadmapRepo() *fakeRoadmapRepo {
	return &fakeRoadmapRepo{clock: time.Now()}
}

func (r *fakeRoadmapRepo) Create(_ context.Context, rm *entity.Roadmap) error {
	rm.ID = uuid.NewString()
	r.clock = r.clock.Add(time.Second) // distinct, increasing timestamps
	rm.CreatedAt = r.clock
	r.items = append(r.items, *rm)
	return nil
}

func (r *fakeRoadmapRepo) GetByID(_ context.Context, id string) (*entity.Roadmap, error) {
	for _, it := range r.items {
		if it.ID == id {
			cp := it
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRoadmapRepo) ListByOwner(_ context.Context, userID string) ([]entity.Roadmap, error) {
	out := make([]entity.Roadmap, 0)
	for _, it := range r.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func newRoadmapService() *RoadmapService {
	return NewRoadmapService(newFakeRoadmapRepo(), nil, nil, nil, "")
}

var sampleContent = json.RawMessage(`{"title":"Dev Roadmap","stages":[{"id":1,"name":"Basics","duration":"2 months","description":"Start here","skills":["Go"],"resources":["tour"]}]}`)

func TestCreateGetRoundTrip(t *testing.T) {
	svc := newRoadmapService()
	ctx := context.Background()
	owner := uuid.NewString()

	created, err := svc.Create(ctx, owner, "Dev", sampleContent)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dev", got.Title)
	assert.JSONEq(t, string(sampleContent), string(got.Content))
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc := newRoadmapService()
	ctx := context.Background()
	owner := uuid.NewString()
	other := uuid.NewString()

	created, err := svc.Create(ctx, owner, "Dev", sampleContent)
	require.NoError(t, err)

	// The record exists, but another identity must see a 403, not the data.
	_, err = svc.Get(ctx, other, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetAbsent(t *testing.T) {
	svc := newRoadmapService()

	_, err := svc.Get(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListHistoryNewestFirstPerOwner(t *testing.T) {
	svc := newRoadmapService()
	ctx := context.Background()
	ann := uuid.NewString()
	bob := uuid.NewString()

	first, err := svc.Create(ctx, ann, "First", sampleContent)
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, "Bob's", sampleContent)
	require.NoError(t, err)
	second, err := svc.Create(ctx, ann, "Second", sampleContent)
	require.NoError(t, err)

	list, err := svc.ListHistory(ctx, ann)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	for _, rm := range list {
		assert.Equal(t, ann, rm.UserID)
	}
}

func TestSearchWithoutElasticsearch(t *testing.T) {
	svc := newRoadmapService()

	hits, err := svc.Search(context.Background(), uuid.NewString(), "backend", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStageNames(t *testing.T) {
	rm := &entity.Roadmap{Content: sampleContent}
	assert.Equal(t, []string{"Basics"}, rm.StageNames())

	rm = &entity.Roadmap{Content: json.RawMessage(`"not an object"`)}
	assert.Empty(t, rm.StageNames())
}
