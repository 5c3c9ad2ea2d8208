package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerpath/careerpath-api/internal/application"
	"github.com/careerpath/careerpath-api/internal/domain/entity"
	"github.com/careerpath/careerpath-api/internal/domain/repository"
	"github.com/careerpath/careerpath-api/internal/interface/middleware"
	"github.com/careerpath/careerpath-api/pkg/helpers"
	"github.com/careerpath/careerpath-api/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

// In-memory repositories

type memUserRepo struct {
	users    map[string]*entity.User // by email
	failWith error                   // when set, every read fails with it
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	if _, ok := r.users[u.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	u, ok := r.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

type memRoadmapRepo struct {
	items []entity.Roadmap
	clock time.Time
}

func (r *memRoadmapRepo) Create(_ context.Context, rm *entity.Roadmap) error {
	rm.ID = uuid.NewString()
	r.clock = r.clock.Add(time.Second)
	rm.CreatedAt = r.clock
	r.items = append(r.items, *rm)
	return nil
}

func (r *memRoadmapRepo) GetByID(_ context.Context, id string) (*entity.Roadmap, error) {
	for _, it := range r.items {
		if it.ID == id {
			cp := it
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRoadmapRepo) ListByOwner(_ context.Context, userID string) ([]entity.Roadmap, error) {
	out := make([]entity.Roadmap, 0)
	for _, it := range r.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func newTestAPI() *gin.Engine {
	r, _ := newTestAPIWithUsers()
	return r
}

func newTestAPIWithUsers() (*gin.Engine, *memUserRepo) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	userRepo := &memUserRepo{users: map[string]*entity.User{}}
	jwtMgr := helpers.NewJWTManager("test-secret", time.Hour)
	authSvc := application.NewAuthService(userRepo, jwtMgr, nil, logger)
	roadmapSvc := application.NewRoadmapService(&memRoadmapRepo{clock: time.Now()}, nil, logger, nil, "")

	authHandler := NewAuthHandler(authSvc, logger)
	roadmapHandler := NewRoadmapHandler(roadmapSvc, nil, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("/roadmap")
	protected.Use(middleware.Auth(jwtMgr))
	protected.POST("", roadmapHandler.Create)
	protected.GET("/history", roadmapHandler.History)
	protected.GET("/search", roadmapHandler.Search)
	protected.GET("/:id", roadmapHandler.Get)
	protected.POST("/generate", roadmapHandler.Generate)

	me := api.Group("/auth")
	me.Use(middleware.Auth(jwtMgr))
	me.GET("/me", authHandler.Profile)

	return r, userRepo
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

type authPayload struct {
	User struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	Token string `json:"token"`
}

func register(t *testing.T, r *gin.Engine, name, email, password string) authPayload {
	t.Helper()
	w, env := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var p authPayload
	require.NoError(t, json.Unmarshal(env.Data, &p))
	require.NotEmpty(t, p.User.ID)
	require.NotEmpty(t, p.Token)
	return p
}

func TestRegisterSuccess(t *testing.T) {
	r := newTestAPI()
	p := register(t, r, "Ann", "ann@x.com", "secret1")

	assert.Equal(t, "Ann", p.User.Name)
	assert.Equal(t, "ann@x.com", p.User.Email)
}

func TestRegisterNeverEchoesPassword(t *testing.T) {
	r := newTestAPI()
	w, _ := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ann", "email": "ann@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "secret1")
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegisterValidation(t *testing.T) {
	r := newTestAPI()

	tests := []struct {
		name string
		body gin.H
	}{
		{name: "missing name", body: gin.H{"email": "ann@x.com", "password": "secret1"}},
		{name: "missing email", body: gin.H{"name": "Ann", "password": "secret1"}},
		{name: "missing password", body: gin.H{"name": "Ann", "email": "ann@x.com"}},
		{name: "bad email", body: gin.H{"name": "Ann", "email": "not-an-email", "password": "secret1"}},
		{name: "short password", body: gin.H{"name": "Ann", "email": "ann@x.com", "password": "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := doJSON(r, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r := newTestAPI()
	register(t, r, "Ann", "ann@x.com", "secret1")

	w, env := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ann Again", "email": "ANN@X.COM", "password": "another1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email already registered", env.Message)
}

func TestLoginUniformUnauthorized(t *testing.T) {
	r := newTestAPI()
	register(t, r, "Ann", "ann@x.com", "secret1")

	wUnknown, envUnknown := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "nobody@x.com", "password": "secret1",
	})
	wWrong, envWrong := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ann@x.com", "password": "wrong-pass",
	})

	assert.Equal(t, http.StatusUnauthorized, wUnknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wWrong.Code)
	// enumeration resistance: byte-identical message
	assert.Equal(t, envUnknown.Message, envWrong.Message)
}

// A store outage must answer 500, not 401: a 401 would tell the client
// its credentials are bad when they are not.
func TestLoginStoreFailureIsInternalError(t *testing.T) {
	r, userRepo := newTestAPIWithUsers()
	register(t, r, "Ann", "ann@x.com", "secret1")

	userRepo.failWith = errors.New("connection refused")

	w, env := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ann@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEqual(t, "invalid email or password", env.Message)
}

func TestProfileStoreFailureIsInternalError(t *testing.T) {
	r, userRepo := newTestAPIWithUsers()
	ann := register(t, r, "Ann", "ann@x.com", "secret1")

	userRepo.failWith = errors.New("connection refused")

	w, _ := doJSON(r, http.MethodGet, "/api/auth/me", ann.Token, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRoadmapRequiresAuth(t *testing.T) {
	r := newTestAPI()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/roadmap"},
		{http.MethodGet, "/api/roadmap/history"},
		{http.MethodGet, "/api/roadmap/" + uuid.NewString()},
		{http.MethodPost, "/api/roadmap/generate"},
	}
	for _, p := range paths {
		w, _ := doJSON(r, p.method, p.path, "", gin.H{})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", p.method, p.path)

		w, _ = doJSON(r, p.method, p.path, "not-a-valid-token", gin.H{})
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s with bad token", p.method, p.path)
	}
}

func TestRoadmapOwnershipForbidden(t *testing.T) {
	r := newTestAPI()
	ann := register(t, r, "Ann", "ann@x.com", "secret1")
	bob := register(t, r, "Bob", "bob@x.com", "secret2")

	w, env := doJSON(r, http.MethodPost, "/api/roadmap", ann.Token, gin.H{
		"title":   "Dev",
		"content": gin.H{"title": "Dev Roadmap", "stages": []gin.H{}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created entity.Roadmap
	require.NoError(t, json.Unmarshal(env.Data, &created))

	// Bob sees a 403, not Ann's data, even though the record exists.
	w, _ = doJSON(r, http.MethodGet, "/api/roadmap/"+created.ID, bob.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(r, http.MethodGet, "/api/roadmap/"+created.ID, ann.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoadmapGetNotFoundAndBadID(t *testing.T) {
	r := newTestAPI()
	ann := register(t, r, "Ann", "ann@x.com", "secret1")

	w, _ := doJSON(r, http.MethodGet, "/api/roadmap/"+uuid.NewString(), ann.Token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doJSON(r, http.MethodGet, "/api/roadmap/not-a-uuid", ann.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateUnconfigured(t *testing.T) {
	r := newTestAPI()
	ann := register(t, r, "Ann", "ann@x.com", "secret1")

	w, _ := doJSON(r, http.MethodPost, "/api/roadmap/generate", ann.Token, gin.H{"role": "Backend Developer"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// The full journey: register, login again, save a roadmap with the second
// token, and find exactly that roadmap in history.
func TestRegisterLoginSaveHistoryScenario(t *testing.T) {
	r := newTestAPI()

	register(t, r, "Ann", "ann@x.com", "secret1")

	w, env := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ann@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var login authPayload
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	content := gin.H{
		"title": "Dev Roadmap",
		"stages": []gin.H{{
			"id": 1, "name": "Basics", "duration": "2 months",
			"description": "Start here", "skills": []string{"Go"}, "resources": []string{"tour"},
		}},
	}
	w, env = doJSON(r, http.MethodPost, "/api/roadmap", login.Token, gin.H{"title": "Dev", "content": content})
	require.Equal(t, http.StatusCreated, w.Code)
	var created entity.Roadmap
	require.NoError(t, json.Unmarshal(env.Data, &created))

	w, env = doJSON(r, http.MethodGet, "/api/roadmap/history", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []entity.Roadmap
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 1)
	assert.Equal(t, created.ID, history[0].ID)
	assert.Equal(t, "Dev", history[0].Title)

	wantContent, _ := json.Marshal(content)
	assert.JSONEq(t, string(wantContent), string(history[0].Content))
}

func TestHistoryNewestFirst(t *testing.T) {
	r := newTestAPI()
	ann := register(t, r, "Ann", "ann@x.com", "secret1")

	for _, title := range []string{"First", "Second", "Third"} {
		w, _ := doJSON(r, http.MethodPost, "/api/roadmap", ann.Token, gin.H{
			"title": title, "content": gin.H{"stages": []gin.H{}},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, env := doJSON(r, http.MethodGet, "/api/roadmap/history", ann.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history []entity.Roadmap
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.Len(t, history, 3)
	assert.Equal(t, "Third", history[0].Title)
	assert.Equal(t, "Second", history[1].Title)
	assert.Equal(t, "First", history[2].Title)
}

func TestProfile(t *testing.T) {
	r := newTestAPI()
	ann := register(t, r, "Ann", "ann@x.com", "secret1")

	w, env := doJSON(r, http.MethodGet, "/api/auth/me", ann.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, ann.User.ID, got.ID)
	assert.Equal(t, "ann@x.com", got.Email)
}
