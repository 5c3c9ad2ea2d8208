package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/careerpath/careerpath-api/internal/domain/entity"
	"github.com/careerpath/careerpath-api/internal/domain/repository"
	"github.com/careerpath/careerpath-api/pkg/helpers"
	"github.com/careerpath/careerpath-api/pkg/mailer"
)

// AuthService owns registration and login. It is the only writer of user
// records; users are never updated or deleted afterwards.
type AuthService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Pub    *mailer.Publisher
	Logger *logrus.Logger
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, pub *mailer.Publisher, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Pub: pub, Logger: logger}
}

// AuthResult is what both register and login hand back: the public user
// fields plus a fresh token.
type AuthResult struct {
	User        *entity.User
	Token       string
	TokenExpiry time.Time
}

// NormalizeEmail is applied before every credential store call, which is
// what makes email uniqueness and login lookups case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account, issues a token, and enqueues a welcome
// email. The email job is best-effort: a dead broker never fails a
// registration.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:    NormalizeEmail(email),
		Password: hash,
		Name:     name,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, err
	}

	s.sendWelcomeEmail(ctx, u)

	return &AuthResult{User: u, Token: token, TokenExpiry: exp}, nil
}

// Login authenticates the credentials and issues a token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		// Only an absent record counts as bad credentials; a store
		// failure must surface as such so the caller returns 500.
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token, TokenExpiry: exp}, nil
}

// GetProfile returns the user behind an authenticated identity.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) sendWelcomeEmail(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: mailer.TemplateWelcome,
		Data:     map[string]any{"Name": u.Name, "Email": u.Email},
	}
	if err := s.Pub.Enqueue(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue welcome email failed")
	}
}
