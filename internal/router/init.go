package router

import (
	"github.com/careerpath/careerpath-api/internal/application"
	"github.com/careerpath/careerpath-api/internal/container"
	pginfra "github.com/careerpath/careerpath-api/internal/infrastructure/postgres"
	handlers "github.com/careerpath/careerpath-api/internal/interface/http"
	"github.com/careerpath/careerpath-api/internal/router/modules"
)

// InitModules builds all feature modules from the container singletons and
// registers them with the router registry. Called once during startup.
func InitModules(r *Registry) {
	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	roadmapRepo := pginfra.NewRoadmapRepository(container.GetPGPool())

	authSvc := application.NewAuthService(
		userRepo,
		container.GetJWT(),
		container.GetMailPub(),
		container.GetLogger(),
	)
	roadmapSvc := application.NewRoadmapService(
		roadmapRepo,
		container.GetRedis(),
		container.GetLogger(),
		container.GetES(),
		container.GetConfig().ESRoadmapsIndex,
	)

	authHandler := handlers.NewAuthHandler(authSvc, container.GetLogger())
	roadmapHandler := handlers.NewRoadmapHandler(roadmapSvc, container.GetGenerator(), container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler, container.GetJWT()))
	r.Add(modules.NewRoadmapModule(roadmapHandler, container.GetJWT()))
}
