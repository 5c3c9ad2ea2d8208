package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/careerpath/careerpath-api/internal/domain/entity"
	"github.com/careerpath/careerpath-api/internal/domain/repository"
	"github.com/careerpath/careerpath-api/pkg/helpers"
)

const roadmapCacheTTL = 10 * time.Minute

// RoadmapService owns saved roadmaps. Every read that returns a single
// record goes through authorize, which is the one place the ownership
// rule lives.
type RoadmapService struct {
	Repo    repository.RoadmapRepository
	Redis   *redis.Client
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewRoadmapService(repo repository.RoadmapRepository, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *RoadmapService {
	return &RoadmapService{Repo: repo, Redis: rdb, Logger: logger, ES: es, ESIndex: esIndex}
}

func cacheKey(id string) string { return "roadmap:" + id }

// Create stores the roadmap for the given owner. Cache and search index
// are populated best-effort; their failures never surface to the client.
func (s *RoadmapService) Create(ctx context.Context, ownerID, title string, content json.RawMessage) (*entity.Roadmap, error) {
	rm := &entity.Roadmap{
		UserID:  ownerID,
		Title:   title,
		Content: content,
	}
	if err := s.Repo.Create(ctx, rm); err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, cacheKey(rm.ID), rm, roadmapCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("roadmap_id", rm.ID).Warn("roadmap cache write failed")
		}
	}
	_ = s.indexRoadmap(ctx, rm)

	return rm, nil
}

// ListHistory returns the owner's roadmaps newest-first.
func (s *RoadmapService) ListHistory(ctx context.Context, ownerID string) ([]entity.Roadmap, error) {
	return s.Repo.ListByOwner(ctx, ownerID)
}

// Get fetches a roadmap by id on behalf of requesterID. The ownership
// check runs on every path, cache hit included: a record that exists but
// belongs to someone else is ErrForbidden, never disclosed.
func (s *RoadmapService) Get(ctx context.Context, requesterID, id string) (*entity.Roadmap, error) {
	if s.Redis != nil {
		var cached entity.Roadmap
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, cacheKey(id), &cached); err == nil && ok {
			return s.authorize(requesterID, &cached)
		}
	}

	rm, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if s.Redis != nil {
		_ = helpers.RedisSetJSON(ctx, s.Redis, cacheKey(id), rm, roadmapCacheTTL)
	}
	return s.authorize(requesterID, rm)
}

func (s *RoadmapService) authorize(requesterID string, rm *entity.Roadmap) (*entity.Roadmap, error) {
	if rm.UserID != requesterID {
		return nil, ErrForbidden
	}
	return rm, nil
}

func (s *RoadmapService) indexRoadmap(ctx context.Context, rm *entity.Roadmap) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         rm.ID,
		"user_id":    rm.UserID,
		"title":      rm.Title,
		"stages":     rm.StageNames(),
		"created_at": rm.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: rm.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("roadmap_id", rm.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("roadmap_id", rm.ID).Warn("es index response error")
	}
	return nil
}

// Search runs a multi_match over the requester's own roadmaps. Without a
// configured Elasticsearch it degrades to an empty result.
func (s *RoadmapService) Search(ctx context.Context, requesterID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "stages"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": requesterID},
				},
			},
		},
		"size": size,
		"sort": []map[string]any{{"created_at": map[string]any{"order": "desc"}}},
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
