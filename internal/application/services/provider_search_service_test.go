package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/carefinder/internal/application/services"
	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/internal/domain/search"
	apperrors "github.com/zatekoja/carefinder/pkg/errors"
	"github.com/zatekoja/carefinder/pkg/geo"
)

func fixtureProviders() []*entities.Provider {
	medicaid := provider("medicaid", 39.10, -77.16)
	medicaid.InsuranceAccepted = &entities.InsuranceAccepted{Medicaid: entities.Bool(true)}

	medicare := provider("medicare", 39.05, -77.12)
	medicare.InsuranceAccepted = &entities.InsuranceAccepted{Medicaid: entities.Bool(false), Medicare: entities.Bool(true)}

	unknown := provider("unknown", 39.20, -77.25)

	noDocs := provider("nodocs", 39.30, -77.00)
	noDocs.InsuranceAccepted = &entities.InsuranceAccepted{Medicaid: entities.Bool(true)}
	noDocs.DocumentationRequirements = &entities.DocumentationRequirements{
		SSNRequired: entities.Bool(false),
		IDRequired:  entities.Bool(false),
	}

	partialDocs := provider("partialdocs", 39.00, -77.30)
	partialDocs.DocumentationRequirements = &entities.DocumentationRequirements{SSNRequired: entities.Bool(false)}

	unprocessed := provider("unprocessed", 39.084, -77.1528)
	unprocessed.Processed = false

	far := provider("baltimore", 39.2904, -76.6122)
	nyc := provider("nyc", 40.7128, -74.0060)

	return []*entities.Provider{medicaid, medicare, unknown, noDocs, partialDocs, unprocessed, far, nyc}
}

func newSearchService(repo *memoryRepository) *services.ProviderSearchService {
	return services.NewProviderSearchService(repo, services.NewResultProcessor(0), 50, nil)
}

func ids(results []entities.ProviderSearchResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func TestSearch_RadiusNoFilters(t *testing.T) {
	svc := newSearchService(&memoryRepository{docs: fixtureProviders()})

	results, err := svc.Search(context.Background(), services.SearchRequest{Center: rockville, RadiusKm: 50})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.NotContains(t, ids(results), "unprocessed")
	assert.NotContains(t, ids(results), "nyc")
	for i, r := range results {
		assert.True(t, r.Processed)
		assert.LessOrEqual(t, r.Distance, 50.0)
		independent := geo.Haversine(rockville, geo.Point{Latitude: r.Location.Lat(), Longitude: r.Location.Lng()})
		assert.InDelta(t, independent, r.Distance, 0.051)
		if i > 0 {
			assert.LessOrEqual(t, results[i-1].Distance, r.Distance)
		}
	}
}

func TestSearch_MedicaidIsSubset(t *testing.T) {
	svc := newSearchService(&memoryRepository{docs: fixtureProviders()})
	ctx := context.Background()

	all, err := svc.Search(ctx, services.SearchRequest{Center: rockville, RadiusKm: 50})
	require.NoError(t, err)
	filtered, err := svc.Search(ctx, services.SearchRequest{
		Center:   rockville,
		RadiusKm: 50,
		Filters:  search.Filters{InsuranceType: search.InsuranceMedicaid},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"medicaid", "nodocs"}, ids(filtered))
	assert.Subset(t, ids(all), ids(filtered))
	for _, r := range filtered {
		require.NotNil(t, r.InsuranceAccepted)
		assert.True(t, entities.IsTrue(r.InsuranceAccepted.Medicaid))
	}
}

func TestSearch_NoDocumentsRequiredIsStrict(t *testing.T) {
	svc := newSearchService(&memoryRepository{docs: fixtureProviders()})

	results, err := svc.Search(context.Background(), services.SearchRequest{
		Center:   rockville,
		RadiusKm: 50,
		Filters:  search.Filters{NoDocumentsRequired: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"nodocs"}, ids(results))
}

func TestSearch_FreeServicesOnlyAgreesWithExtraction(t *testing.T) {
	diagnostic := provider("diagnostic", 39.085, -77.153)
	diagnostic.ServicesOffered = &entities.ServicesOffered{
		DiagnosticServices: []entities.ServiceEntry{service("Blood Test", entities.Bool(true), nil)},
	}
	none := provider("none", 39.086, -77.153)
	none.ServicesOffered = &entities.ServicesOffered{
		GeneralServices: []entities.ServiceEntry{service("Checkup", entities.Bool(false), entities.Bool(false))},
	}
	svc := newSearchService(&memoryRepository{docs: []*entities.Provider{diagnostic, none}})

	results, err := svc.Search(context.Background(), services.SearchRequest{
		Center:   rockville,
		RadiusKm: 10,
		Filters:  search.Filters{FreeServicesOnly: true},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"diagnostic"}, ids(results))
	assert.Equal(t, 1, results[0].FreeServicesCount)
	assert.Equal(t, entities.SourceDiagnosticServices, results[0].ExtractedFreeServices[0].Source)
}

func TestSearch_Idempotent(t *testing.T) {
	svc := newSearchService(&memoryRepository{docs: fixtureProviders()})
	req := services.SearchRequest{Center: rockville, RadiusKm: 50}

	first, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSearch_ValidationHappensBeforeStore(t *testing.T) {
	repo := &memoryRepository{docs: fixtureProviders()}
	svc := newSearchService(repo)

	_, err := svc.Search(context.Background(), services.SearchRequest{Center: geo.Point{Latitude: 120}, RadiusKm: 10})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	_, err = svc.Search(context.Background(), services.SearchRequest{Center: rockville, RadiusKm: 0})
	require.Error(t, err)
	assert.Equal(t, 0, repo.calls)
}

func TestSearch_StoreErrorPropagates(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProviderRepository)
	storeErr := apperrors.NewUnavailableError("document store unreachable", assert.AnError)
	repo.On("Search", mock.Anything, mock.AnythingOfType("*search.Query"), 25).Return(nil, storeErr)

	svc := services.NewProviderSearchService(repo, nil, 25, nil)
	_, err := svc.Search(ctx, services.SearchRequest{Center: rockville, RadiusKm: 10})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))
	repo.AssertExpectations(t)
}
