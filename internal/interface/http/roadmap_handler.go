package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/careerpath/careerpath-api/internal/application"
	"github.com/careerpath/careerpath-api/internal/interface/middleware"
	"github.com/careerpath/careerpath-api/pkg/generator"
	"github.com/careerpath/careerpath-api/pkg/response"
	"github.com/careerpath/careerpath-api/pkg/validation"
)

// RoadmapHandler serves the saved-roadmap routes. All of them sit behind
// the auth middleware; the owner identity comes from the request context,
// never from the body.
type RoadmapHandler struct {
	Svc    *application.RoadmapService
	Gen    *generator.Client
	Logger *logrus.Logger
}

func NewRoadmapHandler(svc *application.RoadmapService, gen *generator.Client, logger *logrus.Logger) *RoadmapHandler {
	return &RoadmapHandler{Svc: svc, Gen: gen, Logger: logger}
}

type createRoadmapRequest struct {
	Title   string          `json:"title" binding:"required"`
	Content json.RawMessage `json:"content" binding:"required"`
}

type generateRequest struct {
	Role string `json:"role" binding:"required"`
}

// Create POST /api/roadmap
func (h *RoadmapHandler) Create(c *gin.Context) {
	var req createRoadmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	rm, err := h.Svc.Create(c.Request.Context(), uid, req.Title, req.Content)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("create roadmap failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}

	response.Success(c, http.StatusCreated, rm, "roadmap saved")
}

// History GET /api/roadmap/history
func (h *RoadmapHandler) History(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	list, err := h.Svc.ListHistory(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("list history failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, list, "roadmap history")
}

// Get GET /api/roadmap/:id
func (h *RoadmapHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if uuid.Validate(id) != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid roadmap id", nil)
		return
	}

	uid := c.GetString(middleware.CtxUserIDKey)
	rm, err := h.Svc.Get(c.Request.Context(), uid, id)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotFound):
			response.Error[any](c, http.StatusNotFound, "roadmap not found", nil)
		case errors.Is(err, application.ErrForbidden):
			response.Error[any](c, http.StatusForbidden, "access denied", nil)
		default:
			h.Logger.WithError(err).WithField("roadmap_id", id).Error("get roadmap failed")
			response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, rm, "roadmap")
}

// Search GET /api/roadmap/search?q=
func (h *RoadmapHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)
	hits, err := h.Svc.Search(c.Request.Context(), uid, q, 10)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", uid).Error("roadmap search failed")
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results")
}

// Generate POST /api/roadmap/generate
// Proxies the generation collaborator. The document is returned to the
// client unsaved; saving is a separate, explicit POST /api/roadmap.
func (h *RoadmapHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if !h.Gen.Configured() {
		response.Error[any](c, http.StatusServiceUnavailable, "generation unavailable", nil)
		return
	}

	doc, err := h.Gen.GenerateRoadmap(c.Request.Context(), req.Role)
	if err != nil {
		h.Logger.WithError(err).WithField("role", req.Role).Warn("roadmap generation failed")
		response.Error[any](c, http.StatusBadGateway, "generation failed", nil)
		return
	}

	response.Success(c, http.StatusOK, doc, "roadmap generated")
}
