package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/zatekoja/carefinder/internal/application/services"
	apperrors "github.com/zatekoja/carefinder/pkg/errors"
)

// Geocoder resolves an address to its best candidate
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*services.GeocodeResult, error)
}

// GeocodeResponse is the body of every geocode response
type GeocodeResponse struct {
	Success      bool           `json:"success"`
	Query        string         `json:"query"`
	Result       *GeocodeResult `json:"result,omitempty"`
	Error        string         `json:"error,omitempty"`
	TotalResults int            `json:"totalResults"`
}

// GeocodeResult is the best candidate for the query
type GeocodeResult struct {
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Address    string  `json:"address"`
	Confidence string  `json:"confidence,omitempty"`
	Type       string  `json:"type,omitempty"`
}

// GeolocationHandler handles geolocation endpoints.
type GeolocationHandler struct {
	geocoder Geocoder
}

// NewGeolocationHandler creates a new geolocation handler.
func NewGeolocationHandler(geocoder Geocoder) *GeolocationHandler {
	return &GeolocationHandler{geocoder: geocoder}
}

// Geocode handles GET /api/geocode?address=...
func (h *GeolocationHandler) Geocode(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if strings.TrimSpace(address) == "" {
		respondWithJSON(w, http.StatusBadRequest, GeocodeResponse{Error: "address parameter is required"})
		return
	}
	h.geocode(w, r, address)
}

// TestGeocode handles GET /api/test-geocode, geocoding a fixed address when none is given
func (h *GeolocationHandler) TestGeocode(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if strings.TrimSpace(address) == "" {
		address = services.DefaultTestAddress
	}
	h.geocode(w, r, address)
}

func (h *GeolocationHandler) geocode(w http.ResponseWriter, r *http.Request, address string) {
	query := services.CleanAddress(address)

	res, err := h.geocoder.Geocode(r.Context(), address)
	switch {
	case err == nil:
		respondWithJSON(w, http.StatusOK, GeocodeResponse{
			Success: true,
			Query:   res.Query,
			Result: &GeocodeResult{
				Lat:        res.Best.Latitude,
				Lng:        res.Best.Longitude,
				Address:    res.Best.FormattedAddress,
				Confidence: res.Best.Confidence,
				Type:       res.Best.Type,
			},
			TotalResults: res.TotalResults,
		})
	case apperrors.IsType(err, apperrors.ErrorTypeNotFound):
		respondWithJSON(w, http.StatusOK, GeocodeResponse{
			Query: query,
			Error: "No results found",
		})
	default:
		status := http.StatusBadGateway
		logger := loggerFor(r)
		switch {
		case apperrors.IsType(err, apperrors.ErrorTypeValidation):
			status = http.StatusBadRequest
			logger.Warn().Err(err).Str("query", query).Msg("Geocoding request rejected")
		case apperrors.IsType(err, apperrors.ErrorTypeUnavailable):
			status = http.StatusServiceUnavailable
			logger.Error().Err(err).Str("query", query).Msg("Geocoding service unreachable")
		case apperrors.IsType(err, apperrors.ErrorTypeUnauthorized):
			// A rejected API key is a server misconfiguration, not a caller error.
			logger.Error().Err(err).Str("query", query).Bool("misconfigured", true).
				Msg("Geocoding service rejected credentials, check the geocoding API key")
		default:
			logger.Error().Err(err).Str("query", query).Msg("Geocoding failed")
		}
		respondWithJSON(w, status, GeocodeResponse{
			Query: query,
			Error: apperrors.PublicMessage(err),
		})
	}
}
