package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/informedchoice/backend/internal/domain"
	"github.com/informedchoice/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search       *usecase.SearchService
	autocomplete *usecase.AutocompleteService
	logger       *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	search *usecase.SearchService,
	autocomplete *usecase.AutocompleteService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		search:       search,
		autocomplete: autocomplete,
		logger:       logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "informedchoice-backend",
		"version":   "0.1.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Autocomplete serves ranked typeahead suggestions for the q parameter.
func (h *Handler) Autocomplete(c *gin.Context) {
	suggestions, err := h.autocomplete.Suggest(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, suggestions)
}

// SearchProducts resolves a product request to one scored, annotated product.
func (h *Handler) SearchProducts(c *gin.Context) {
	var req domain.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "malformed request body"})
		return
	}

	response, err := h.search.Search(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// respondError maps a pipeline error onto the response contract. Clients get
// one human-readable message; detail stays in the logs.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}

	c.JSON(status, gin.H{"error": publicMessage(err)})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func publicMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrInvalidRequest,
		domain.ErrProductNotFound,
		domain.ErrCatalogUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return domain.ErrInternal.Error()
}
