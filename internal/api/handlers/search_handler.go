package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/carefinder/internal/application/services"
	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/internal/domain/search"
	apperrors "github.com/zatekoja/carefinder/pkg/errors"
	"github.com/zatekoja/carefinder/pkg/geo"
)

// DefaultRadiusKm applies when a request names no radius
const DefaultRadiusKm = 10.0

// ProviderSearcher runs nearby provider searches
type ProviderSearcher interface {
	Search(ctx context.Context, req services.SearchRequest) ([]entities.ProviderSearchResult, error)
}

// SearchHandler handles provider search requests
type SearchHandler struct {
	searcher      ProviderSearcher
	defaultRadius float64
}

// NewSearchHandler creates a new search handler. A non-positive defaultRadiusKm
// falls back to DefaultRadiusKm.
func NewSearchHandler(searcher ProviderSearcher, defaultRadiusKm float64) *SearchHandler {
	if defaultRadiusKm <= 0 {
		defaultRadiusKm = DefaultRadiusKm
	}
	return &SearchHandler{searcher: searcher, defaultRadius: defaultRadiusKm}
}

// Search handles GET /api/search and GET /api/nearby
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(r)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	results, err := h.searcher.Search(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if results == nil {
		results = []entities.ProviderSearchResult{}
	}
	respondWithJSON(w, http.StatusOK, results)
}

func (h *SearchHandler) parseRequest(r *http.Request) (services.SearchRequest, error) {
	q := r.URL.Query()

	latStr := strings.TrimSpace(q.Get("lat"))
	lngStr := strings.TrimSpace(q.Get("lng"))
	if latStr == "" || lngStr == "" {
		return services.SearchRequest{}, apperrors.NewValidationError("missing required parameters: lat and lng")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return services.SearchRequest{}, apperrors.NewValidationError("invalid lat parameter")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return services.SearchRequest{}, apperrors.NewValidationError("invalid lng parameter")
	}

	radius := h.defaultRadius
	radiusStr := firstNonEmpty(q.Get("radiusKm"), q.Get("km"))
	if radiusStr != "" {
		radius, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil {
			return services.SearchRequest{}, apperrors.NewValidationError("invalid radius parameter")
		}
	}

	insurance, err := search.ParseInsuranceType(q.Get("insuranceType"))
	if err != nil {
		return services.SearchRequest{}, err
	}

	filters := search.Filters{
		Category:      firstNonEmpty(q.Get("category"), q.Get("service")),
		InsuranceType: insurance,
		SearchText:    q.Get("searchText"),
	}
	flags := []struct {
		name string
		dst  *bool
	}{
		{"freeServicesOnly", &filters.FreeServicesOnly},
		{"acceptsUninsured", &filters.AcceptsUninsured},
		{"noDocumentsRequired", &filters.NoDocumentsRequired},
		{"telehealth", &filters.Telehealth},
		{"walkInsAccepted", &filters.WalkInsAccepted},
		{"slidingScale", &filters.SlidingScale},
	}
	for _, f := range flags {
		v := strings.TrimSpace(q.Get(f.name))
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return services.SearchRequest{}, apperrors.NewValidationError(fmt.Sprintf("invalid %s parameter", f.name))
		}
		*f.dst = b
	}

	return services.SearchRequest{
		Center:   geo.Point{Latitude: lat, Longitude: lng},
		RadiusKm: radius,
		Filters:  filters,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
