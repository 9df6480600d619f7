package search_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/internal/domain/search"
)

func nearbyProvider() *entities.Provider {
	return &entities.Provider{
		ID:        "p1",
		Name:      "Rockville Community Clinic",
		Category:  "Primary Care Clinic",
		Processed: true,
		Location:  entities.NewGeoPoint(39.09, -77.15),
	}
}

func mustBuild(t *testing.T, f search.Filters) *search.Query {
	t.Helper()
	q, err := search.Build(rockville, 10, f)
	require.NoError(t, err)
	return q
}

func TestMatches_RadiusAndProcessed(t *testing.T) {
	q := mustBuild(t, search.Filters{})

	p := nearbyProvider()
	assert.True(t, q.Matches(p))

	far := nearbyProvider()
	far.Location = entities.NewGeoPoint(38.9072, -77.0369) // ~22 km away
	assert.False(t, q.Matches(far))

	unprocessed := nearbyProvider()
	unprocessed.Processed = false
	assert.False(t, q.Matches(unprocessed))

	noLocation := nearbyProvider()
	noLocation.Location = nil
	assert.False(t, q.Matches(noLocation))
	assert.False(t, q.Matches(nil))
}

func TestMatches_CategoryIsCaseInsensitiveSubstring(t *testing.T) {
	p := nearbyProvider()
	assert.True(t, mustBuild(t, search.Filters{Category: "primary"}).Matches(p))
	assert.True(t, mustBuild(t, search.Filters{Category: "CARE CLI"}).Matches(p))
	assert.False(t, mustBuild(t, search.Filters{Category: "dental"}).Matches(p))
}

func TestMatches_FreeServicesOnly(t *testing.T) {
	q := mustBuild(t, search.Filters{FreeServicesOnly: true})

	p := nearbyProvider()
	assert.False(t, q.Matches(p))

	p.ServicesOffered = &entities.ServicesOffered{
		GeneralServices: []entities.ServiceEntry{
			{Name: "Checkup", IsFree: entities.Bool(false)},
		},
		DiagnosticServices: []entities.ServiceEntry{
			{Name: "X-Ray", IsFree: entities.Bool(true)},
		},
	}
	assert.True(t, q.Matches(p), "a free diagnostic entry satisfies the free filter")

	p.ServicesOffered.DiagnosticServices = []entities.ServiceEntry{
		{Name: "X-Ray", IsFree: entities.Bool(false), IsDiscounted: entities.Bool(true)},
	}
	assert.True(t, q.Matches(p))

	p.ServicesOffered.DiagnosticServices = nil
	assert.False(t, q.Matches(p))

	p.ServicesOffered.SpecializedServices = []entities.ServiceEntry{
		{Name: "Cleaning", IsDiscounted: entities.Bool(true)},
	}
	assert.True(t, q.Matches(p))
}

func TestMatches_NoDocumentsRequiredNeedsExplicitFalse(t *testing.T) {
	q := mustBuild(t, search.Filters{NoDocumentsRequired: true})

	tests := []struct {
		name string
		docs *entities.DocumentationRequirements
		want bool
	}{
		{"missing group", nil, false},
		{"both unknown", &entities.DocumentationRequirements{}, false},
		{"ssn only", &entities.DocumentationRequirements{SSNRequired: entities.Bool(false)}, false},
		{"id required", &entities.DocumentationRequirements{SSNRequired: entities.Bool(false), IDRequired: entities.Bool(true)}, false},
		{"both false", &entities.DocumentationRequirements{SSNRequired: entities.Bool(false), IDRequired: entities.Bool(false)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := nearbyProvider()
			p.DocumentationRequirements = tt.docs
			assert.Equal(t, tt.want, q.Matches(p))
		})
	}
}

func TestMatches_InsuranceAndFlags(t *testing.T) {
	p := nearbyProvider()
	p.InsuranceAccepted = &entities.InsuranceAccepted{Medicaid: entities.Bool(true), Medicare: entities.Bool(false)}
	p.FinancialAssistance = &entities.FinancialAssistance{AcceptsUninsured: entities.Bool(true)}
	p.TelehealthInfo = &entities.TelehealthInfo{TelehealthAvailable: entities.Bool(true)}

	assert.True(t, mustBuild(t, search.Filters{InsuranceType: search.InsuranceMedicaid}).Matches(p))
	assert.False(t, mustBuild(t, search.Filters{InsuranceType: search.InsuranceMedicare}).Matches(p))
	assert.False(t, mustBuild(t, search.Filters{InsuranceType: search.InsuranceSelfPay}).Matches(p))
	assert.True(t, mustBuild(t, search.Filters{AcceptsUninsured: true, Telehealth: true}).Matches(p))
	assert.False(t, mustBuild(t, search.Filters{SlidingScale: true}).Matches(p))
	assert.False(t, mustBuild(t, search.Filters{WalkInsAccepted: true}).Matches(p))
}

func TestMatches_Text(t *testing.T) {
	p := nearbyProvider()
	p.HealthConditionsFocus = &entities.HealthConditionsFocus{ConditionsTreated: []string{"Diabetes", "Hypertension"}}
	p.ServicesOffered = &entities.ServicesOffered{
		GeneralServices: []entities.ServiceEntry{{Name: "Flu Shots"}},
	}

	assert.True(t, mustBuild(t, search.Filters{SearchText: "diabetes"}).Matches(p))
	assert.True(t, mustBuild(t, search.Filters{SearchText: "flu vaccine"}).Matches(p))
	assert.True(t, mustBuild(t, search.Filters{SearchText: "COMMUNITY"}).Matches(p))
	assert.False(t, mustBuild(t, search.Filters{SearchText: "orthodontics"}).Matches(p))
}

func TestMatchesAttributes_IgnoresRadius(t *testing.T) {
	q := mustBuild(t, search.Filters{})
	far := nearbyProvider()
	far.Location = entities.NewGeoPoint(40.7128, -74.0060)

	assert.False(t, q.Matches(far))
	assert.True(t, q.MatchesAttributes(far))
}
