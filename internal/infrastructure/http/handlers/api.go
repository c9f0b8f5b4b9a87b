// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/ports/inbound"
	apperrors "github.com/alchemorsel/pantry/pkg/errors"
)

const maxBodyBytes = 1 << 16

// APIHandlers handles REST API requests
type APIHandlers struct {
	catalog inbound.CatalogService
	videos  inbound.VideoService
	logger  *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(
	catalog inbound.CatalogService,
	videos inbound.VideoService,
	logger *zap.Logger,
) *APIHandlers {
	return &APIHandlers{
		catalog: catalog,
		videos:  videos,
		logger:  logger.Named("api"),
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Message   string      `json:"message,omitempty"`
	Details   string      `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// RateRequest is the body of POST /recipes/{id}/rating
type RateRequest struct {
	Rating int `json:"rating"`
}

// Routes mounts the recipe endpoints
func (h *APIHandlers) Routes(r chi.Router) {
	r.Get("/", h.ListRecipes)
	r.Get("/{id}", h.GetRecipe)
	r.Post("/{id}/video", h.GenerateVideo)
	r.Post("/{id}/rating", h.RateRecipe)
	r.Get("/{id}/rating", h.GetRating)
}

// ListRecipes handles GET /api/v1/recipes. Ingredients come from a
// comma-separated "ingredients" parameter, repeated "ingredient"
// parameters, or both.
func (h *APIHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	ingredients := ingredientQuery(r)

	recipes, err := h.catalog.SearchRecipes(r.Context(), ingredients)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    recipes,
		Message: "Recipes retrieved successfully",
	})
}

// GetRecipe handles GET /api/v1/recipes/{id}
func (h *APIHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, ok, err := h.catalog.GetRecipeByID(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if !ok {
		h.writeError(w, r, apperrors.NewRecipeNotFoundError(id))
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    found,
		Message: "Recipe retrieved successfully",
	})
}

// GenerateVideo handles POST /api/v1/recipes/{id}/video
func (h *APIHandlers) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.videos.GenerateVideo(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
		Message: videoMessage(result),
	})
}

// RateRecipe handles POST /api/v1/recipes/{id}/rating
func (h *APIHandlers) RateRecipe(w http.ResponseWriter, r *http.Request) {
	var req RateRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.writeError(w, r, apperrors.NewBadRequestError("Invalid JSON body").WithCause(err))
		return
	}

	rating, err := h.catalog.RateRecipe(r.Context(), inbound.RateRecipeCommand{
		RecipeID: chi.URLParam(r, "id"),
		Rating:   req.Rating,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    rating,
		Message: "Rating recorded",
	})
}

// GetRating handles GET /api/v1/recipes/{id}/rating
func (h *APIHandlers) GetRating(w http.ResponseWriter, r *http.Request) {
	summary, err := h.catalog.RatingSummary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    summary,
	})
}

func ingredientQuery(r *http.Request) []string {
	query := r.URL.Query()
	var terms []string
	for _, raw := range query["ingredients"] {
		terms = append(terms, strings.Split(raw, ",")...)
	}
	terms = append(terms, query["ingredient"]...)
	return terms
}

func videoMessage(result *inbound.VideoResult) string {
	switch result.Outcome {
	case inbound.VideoOutcomeCacheHit:
		return "Video loaded from cache"
	case inbound.VideoOutcomeFallback:
		return "Video generation failed, showing a sample video instead"
	default:
		return "Video generated successfully"
	}
}

// writeError renders err with the status its code maps to. Errors that
// are not AppErrors become 500s and are logged.
func (h *APIHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.Wrap(err, "An unexpected error occurred")
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.String("code", string(appErr.Code)),
			zap.Error(err),
		)
	}

	h.writeJSON(w, status, APIResponse{
		Success:   false,
		Error:     string(appErr.Code),
		Message:   appErr.Message,
		Details:   appErr.Details,
		RequestID: chimiddleware.GetReqID(r.Context()),
	})
}

// writeJSON writes a JSON response
func (h *APIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}
