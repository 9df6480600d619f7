package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/internal/domain/repositories"
	domainsearch "github.com/zatekoja/carefinder/internal/domain/search"
	tsclient "github.com/zatekoja/carefinder/internal/infrastructure/clients/typesense"
	apperrors "github.com/zatekoja/carefinder/pkg/errors"
)

// maxPerPage is the largest page Typesense serves
const maxPerPage = 250

// TypesenseAdapter implements provider search on a Typesense collection
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements ProviderIndexRepository
var _ repositories.ProviderIndexRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

func (a *TypesenseAdapter) schema() *api.CollectionSchema {
	optionalBool := func(name string) api.Field {
		return api.Field{Name: name, Type: "bool", Optional: pointer.True()}
	}
	optionalBools := func(name string) api.Field {
		return api.Field{Name: name, Type: "bool[]", Optional: pointer.True()}
	}
	return &api.CollectionSchema{
		Name: a.client.CollectionName(),
		Fields: []api.Field{
			{Name: fieldName, Type: "string"},
			{Name: fieldCategory, Type: "string", Facet: pointer.True()},
			{Name: fieldLocation, Type: "geopoint"},
			{Name: fieldProcessed, Type: "bool"},
			optionalBools(fieldGeneralFree),
			optionalBools(fieldGeneralDiscounted),
			optionalBools(fieldSpecializedFree),
			optionalBools(fieldSpecializedDiscounted),
			optionalBools(fieldDiagnosticFree),
			optionalBools(fieldDiagnosticDiscounted),
			{Name: fieldServiceNames, Type: "string[]", Optional: pointer.True()},
			{Name: fieldConditions, Type: "string[]", Optional: pointer.True()},
			optionalBool(fieldMedicaid),
			optionalBool(fieldMedicare),
			optionalBool(fieldSelfPay),
			optionalBool(fieldAcceptsUninsured),
			optionalBool(fieldSlidingScale),
			optionalBool(fieldSSNRequired),
			optionalBool(fieldIDRequired),
			optionalBool(fieldTelehealth),
			optionalBool(fieldWalkIns),
			{Name: fieldSource, Type: "string", Index: pointer.False(), Optional: pointer.True()},
		},
	}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	if _, err := a.client.Client().Collection(a.client.CollectionName()).Retrieve(ctx); err == nil {
		return nil
	}
	if _, err := a.client.Client().Collections().Create(ctx, a.schema()); err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}
	log.Info().Str("collection", a.client.CollectionName()).Msg("Created Typesense collection")
	return nil
}

// Reset drops and recreates the collection
func (a *TypesenseAdapter) Reset(ctx context.Context) error {
	if _, err := a.client.Client().Collection(a.client.CollectionName()).Delete(ctx); err != nil {
		log.Debug().Err(err).Msg("Typesense collection did not exist before reset")
	}
	return a.InitSchema(ctx)
}

// Index upserts providers into the collection. Records that are not searchable are skipped.
func (a *TypesenseAdapter) Index(ctx context.Context, providers []*entities.Provider) error {
	documents := a.client.Client().Collection(a.client.CollectionName()).Documents()
	for _, p := range providers {
		doc, err := BuildDocument(p)
		if err != nil {
			log.Debug().Err(err).Msg("Skipping provider")
			continue
		}
		if _, err := documents.Upsert(ctx, doc); err != nil {
			return classifyError(fmt.Sprintf("failed to index provider %s", p.ID), err)
		}
	}
	return nil
}

// Search runs q against the collection and returns at most limit providers, nearest first
func (a *TypesenseAdapter) Search(ctx context.Context, q *domainsearch.Query, limit int) ([]*entities.Provider, error) {
	params, residual := CompileSearch(q, limit)
	if len(residual) > 0 {
		params.PerPage = pointer.Int(maxPerPage)
	}

	result, err := a.client.Client().Collection(a.client.CollectionName()).Documents().Search(ctx, params)
	if err != nil {
		return nil, classifyError("failed to search providers", err)
	}
	if result.Hits == nil {
		return []*entities.Provider{}, nil
	}

	providers := make([]*entities.Provider, 0, limit)
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		p, err := decodeDocument(*hit.Document)
		if err != nil {
			log.Warn().Err(err).Msg("Skipping undecodable search hit")
			continue
		}
		if !domainsearch.MatchClauses(residual, p) {
			continue
		}
		providers = append(providers, p)
		if len(providers) == limit {
			break
		}
	}
	return providers, nil
}

// CategoryCounts reads the category facet of processed providers
func (a *TypesenseAdapter) CategoryCounts(ctx context.Context) ([]repositories.CategoryCount, error) {
	params := &api.SearchCollectionParams{
		Q:              pointer.String("*"),
		QueryBy:        pointer.String(fieldName),
		FilterBy:       pointer.String(fieldProcessed + ":=true"),
		FacetBy:        pointer.String(fieldCategory),
		MaxFacetValues: pointer.Int(1000),
		PerPage:        pointer.Int(0),
	}
	result, err := a.client.Client().Collection(a.client.CollectionName()).Documents().Search(ctx, params)
	if err != nil {
		return nil, classifyError("failed to aggregate categories", err)
	}

	var counts []repositories.CategoryCount
	if result.FacetCounts == nil {
		return counts, nil
	}
	for _, facet := range *result.FacetCounts {
		if facet.FieldName == nil || *facet.FieldName != fieldCategory || facet.Counts == nil {
			continue
		}
		for _, c := range *facet.Counts {
			if c.Value == nil || c.Count == nil {
				continue
			}
			counts = append(counts, repositories.CategoryCount{Name: *c.Value, Count: *c.Count})
		}
	}
	return counts, nil
}

// Ping checks server health
func (a *TypesenseAdapter) Ping(ctx context.Context) error {
	if err := a.client.Ping(ctx); err != nil {
		return classifyError("search index ping failed", err)
	}
	return nil
}

func classifyError(message string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "status: 401"), strings.Contains(msg, "status: 403"), strings.Contains(msg, "forbidden"):
		return apperrors.NewUnauthorizedError("search index rejected the api key", err)
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"), strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "circuit breaker"):
		return apperrors.NewUnavailableError("search index unavailable", err)
	default:
		return apperrors.NewInternalError(message, err)
	}
}
