package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/carefinder/internal/domain/entities"
)

// CategoriesCacheControl lets browsers and CDNs keep the listing for an hour
// and serve it stale for a day while revalidating
const CategoriesCacheControl = "public, max-age=3600, stale-while-revalidate=86400"

// CategoryLister lists provider categories
type CategoryLister interface {
	List(ctx context.Context) ([]entities.CategorySummary, error)
}

// CategoryHandler handles category listing
type CategoryHandler struct {
	lister CategoryLister
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(lister CategoryLister) *CategoryHandler {
	return &CategoryHandler{lister: lister}
}

// ListCategories handles GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.lister.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", CategoriesCacheControl)
	respondWithJSON(w, http.StatusOK, categories)
}
