package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/zatekoja/carefinder/internal/adapters/database"
	"github.com/zatekoja/carefinder/internal/domain/search"
	"github.com/zatekoja/carefinder/pkg/geo"
)

var rockville = geo.Point{Latitude: 39.084, Longitude: -77.1528}

func build(t *testing.T, radiusKm float64, f search.Filters) *search.Query {
	t.Helper()
	q, err := search.Build(rockville, radiusKm, f)
	require.NoError(t, err)
	return q
}

func TestCompileFilter_NearWithoutText(t *testing.T) {
	filter := database.CompileFilter(build(t, 5, search.Filters{}))

	expected := bson.D{
		{Key: "location", Value: bson.D{
			{Key: "$near", Value: bson.D{
				{Key: "$geometry", Value: bson.D{
					{Key: "type", Value: "Point"},
					{Key: "coordinates", Value: bson.A{-77.1528, 39.084}},
				}},
				{Key: "$maxDistance", Value: 5000.0},
			}},
		}},
		{Key: "jina_scraped", Value: true},
	}
	assert.Equal(t, expected, filter)
}

func TestCompileFilter_AllFilters(t *testing.T) {
	filter := database.CompileFilter(build(t, 10, search.Filters{
		Category:            "dental (pediatric)",
		InsuranceType:       search.InsuranceSelfPay,
		FreeServicesOnly:    true,
		AcceptsUninsured:    true,
		NoDocumentsRequired: true,
		Telehealth:          true,
		WalkInsAccepted:     true,
		SlidingScale:        true,
	}))

	m := filter.Map()
	assert.Equal(t, true, m["jina_scraped"])
	assert.Equal(t, bson.D{
		{Key: "$regex", Value: `dental \(pediatric\)`},
		{Key: "$options", Value: "i"},
	}, m["Category"])
	assert.Equal(t, bson.A{
		bson.D{{Key: "services_offered.general_services.is_free", Value: true}},
		bson.D{{Key: "services_offered.general_services.is_discounted", Value: true}},
		bson.D{{Key: "services_offered.specialized_services.is_free", Value: true}},
		bson.D{{Key: "services_offered.specialized_services.is_discounted", Value: true}},
		bson.D{{Key: "services_offered.diagnostic_services.is_free", Value: true}},
		bson.D{{Key: "services_offered.diagnostic_services.is_discounted", Value: true}},
	}, m["$or"])
	assert.Equal(t, true, m["insurance_accepted.self_pay_options"])
	assert.Equal(t, true, m["financial_assistance.accepts_uninsured"])
	assert.Equal(t, false, m["documentation_requirements.ssn_required"])
	assert.Equal(t, false, m["documentation_requirements.id_required"])
	assert.Equal(t, true, m["telehealth_info.telehealth_available"])
	assert.Equal(t, true, m["accessibility_info.walk_ins_accepted"])
	assert.Equal(t, true, m["financial_assistance.sliding_scale_available"])
	assert.Len(t, filter, 11)
	assert.Equal(t, "location", filter[0].Key)
}

func TestCompileFilter_TextUsesGeoWithin(t *testing.T) {
	q := build(t, 50, search.Filters{SearchText: "diabetes care"})
	filter := database.CompileFilter(q)

	m := filter.Map()
	assert.Equal(t, bson.D{{Key: "$search", Value: "diabetes care"}}, m["$text"])

	location, ok := m["location"].(bson.D)
	require.True(t, ok)
	require.Len(t, location, 1)
	assert.Equal(t, "$geoWithin", location[0].Key)

	within := location[0].Value.(bson.D)
	sphere := within[0].Value.(bson.A)
	assert.Equal(t, "$centerSphere", within[0].Key)
	assert.Equal(t, bson.A{-77.1528, 39.084}, sphere[0])
	assert.InDelta(t, 50/geo.EarthRadiusKm, sphere[1].(float64), 1e-12)
}

func TestCompileFilter_DuplicateKeysFallBackToAnd(t *testing.T) {
	q := build(t, 10, search.Filters{})
	q.Clauses = append(q.Clauses,
		search.AnyOf{Clauses: []search.Clause{search.Equals{Field: search.FieldMedicaid, Value: true}}},
		search.AnyOf{Clauses: []search.Clause{search.Equals{Field: search.FieldMedicare, Value: true}}},
	)

	filter := database.CompileFilter(q)
	require.Len(t, filter, 1)
	assert.Equal(t, "$and", filter[0].Key)
	assert.Len(t, filter[0].Value.(bson.A), 4)
}

func TestFindOptions(t *testing.T) {
	plain := database.FindOptions(build(t, 10, search.Filters{}), 50)
	require.NotNil(t, plain.Limit)
	assert.Equal(t, int64(50), *plain.Limit)
	assert.Nil(t, plain.Sort)

	text := database.FindOptions(build(t, 10, search.Filters{SearchText: "flu"}), 50)
	assert.Equal(t, bson.D{{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}}}, text.Sort)
	assert.NotNil(t, text.Projection)
	require.NotNil(t, text.Limit)
	assert.Equal(t, int64(50*database.TextCandidateFactor), *text.Limit)
}
