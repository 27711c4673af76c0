package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nextdocs/src/core/search"
)

type Handler struct {
	searchService search.Service
	sysService    search.SystemService
}

func NewHandler(searchService search.Service, sysService search.SystemService) *Handler {
	return &Handler{
		searchService: searchService,
		sysService:    sysService,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	// Search routes
	api.GET("/search", h.Search)
	api.GET("/search/suggestions", h.Suggestions)

	// System routes
	api.GET("/health", h.CheckHealth)
}

// Common error response structure
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func sendError(c *gin.Context, status int, err error) {
	code := "INTERNAL_ERROR"
	switch {
	case errors.Is(err, search.ErrUnknownContentType):
		code = "INVALID_TYPE"
		status = http.StatusBadRequest
	case status == http.StatusBadRequest:
		code = "BAD_REQUEST"
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func sendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
