package services

import (
	"sort"

	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/pkg/geo"
)

// DefaultResultLimit caps the number of results returned per search
const DefaultResultLimit = 30

// ResultProcessor turns raw store documents into ranked search results
type ResultProcessor struct {
	limit int
}

// NewResultProcessor creates a processor that keeps at most limit results.
// A non-positive limit falls back to DefaultResultLimit.
func NewResultProcessor(limit int) *ResultProcessor {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	return &ResultProcessor{limit: limit}
}

// Process annotates each searchable document with its distance from center and
// its free or discounted services, sorts nearest first and truncates.
// Ties keep store order. Inputs are not modified.
func (p *ResultProcessor) Process(center geo.Point, docs []*entities.Provider) []entities.ProviderSearchResult {
	results := make([]entities.ProviderSearchResult, 0, len(docs))
	for _, doc := range docs {
		if !doc.Searchable() {
			continue
		}
		at := geo.Point{Latitude: doc.Location.Lat(), Longitude: doc.Location.Lng()}
		free := ExtractFreeServices(doc)
		results = append(results, entities.ProviderSearchResult{
			Provider:              *doc,
			Distance:              geo.Round1(geo.Haversine(center, at)),
			ExtractedFreeServices: free,
			FreeServicesCount:     len(free),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if len(results) > p.limit {
		results = results[:p.limit]
	}
	return results
}

// ExtractFreeServices lists the free or discounted entries of general,
// specialized and diagnostic services in that order, tagged with their source list.
func ExtractFreeServices(doc *entities.Provider) []entities.ExtractedService {
	out := []entities.ExtractedService{}
	if doc == nil || doc.ServicesOffered == nil {
		return out
	}
	lists := []struct {
		source  string
		entries []entities.ServiceEntry
	}{
		{entities.SourceGeneralServices, doc.ServicesOffered.GeneralServices},
		{entities.SourceSpecializedServices, doc.ServicesOffered.SpecializedServices},
		{entities.SourceDiagnosticServices, doc.ServicesOffered.DiagnosticServices},
	}
	for _, list := range lists {
		for _, entry := range list.entries {
			if entry.FreeOrDiscounted() {
				out = append(out, entities.ExtractedService{ServiceEntry: entry, Source: list.source})
			}
		}
	}
	return out
}
