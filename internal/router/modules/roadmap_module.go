package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careerpath/careerpath-api/internal/container"
	handlers "github.com/careerpath/careerpath-api/internal/interface/http"
	"github.com/careerpath/careerpath-api/internal/interface/middleware"
	"github.com/careerpath/careerpath-api/pkg/helpers"
)

// RoadmapModule wires the roadmap gateway routes. Everything here sits
// behind the auth middleware; there are no public roadmap endpoints.

type RoadmapModule struct {
	Handler *handlers.RoadmapHandler
	JWT     *helpers.JWTManager
}

func NewRoadmapModule(h *handlers.RoadmapHandler, jwt *helpers.JWTManager) *RoadmapModule {
	return &RoadmapModule{Handler: h, JWT: jwt}
}

func (m *RoadmapModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/roadmap")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID()))
	{
		auth.POST("", m.Handler.Create)
		auth.GET("/history", m.Handler.History)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)

		// Generation is slower and costs upstream quota; keep its own limit.
		generateLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath())
		auth.POST("/generate", generateLimiter, m.Handler.Generate)
	}
}
