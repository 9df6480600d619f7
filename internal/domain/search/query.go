// Package search turns a point, a radius and typed filters into a backend-neutral
// query expression. Adapters compile the expression to their own dialect.
package search

import (
	"github.com/zatekoja/carefinder/pkg/geo"
)

// Field is a document path a clause can reference.
type Field string

const (
	FieldProcessed = Field("jina_scraped")
	FieldLocation  = Field("location")
	FieldName      = Field("Name")
	FieldCategory  = Field("Category")

	FieldGeneralIsFree           = Field("services_offered.general_services.is_free")
	FieldGeneralIsDiscounted     = Field("services_offered.general_services.is_discounted")
	FieldSpecializedIsFree       = Field("services_offered.specialized_services.is_free")
	FieldSpecializedIsDiscounted = Field("services_offered.specialized_services.is_discounted")
	FieldDiagnosticIsFree        = Field("services_offered.diagnostic_services.is_free")
	FieldDiagnosticIsDiscounted  = Field("services_offered.diagnostic_services.is_discounted")
	FieldGeneralServiceName      = Field("services_offered.general_services.name")
	FieldSpecializedServiceName  = Field("services_offered.specialized_services.name")
	FieldConditionsTreated       = Field("health_conditions_focus.conditions_treated")
	FieldMedicaid                = Field("insurance_accepted.medicaid")
	FieldMedicare                = Field("insurance_accepted.medicare")
	FieldSelfPay                 = Field("insurance_accepted.self_pay_options")
	FieldAcceptsUninsured        = Field("financial_assistance.accepts_uninsured")
	FieldSlidingScale            = Field("financial_assistance.sliding_scale_available")
	FieldSSNRequired             = Field("documentation_requirements.ssn_required")
	FieldIDRequired              = Field("documentation_requirements.id_required")
	FieldTelehealthAvailable     = Field("telehealth_info.telehealth_available")
	FieldWalkInsAccepted         = Field("accessibility_info.walk_ins_accepted")
)

// TextFields are the paths covered by the full-text index.
var TextFields = []Field{
	FieldName,
	FieldCategory,
	FieldGeneralServiceName,
	FieldSpecializedServiceName,
	FieldConditionsTreated,
}

// Clause is one condition of a query. The set of clause kinds is closed.
type Clause interface {
	isClause()
}

// Equals requires a boolean field to be explicitly set to Value.
// On list paths it matches when any element satisfies it.
type Equals struct {
	Field Field
	Value bool
}

// Contains requires a string field to contain Substring, ignoring case.
type Contains struct {
	Field     Field
	Substring string
}

// AnyOf matches when at least one of Clauses matches.
type AnyOf struct {
	Clauses []Clause
}

// Text is a full-text search over TextFields.
type Text struct {
	Search string
}

func (Equals) isClause()   {}
func (Contains) isClause() {}
func (AnyOf) isClause()    {}
func (Text) isClause()     {}

// Near restricts results to a radius around a point and orders them nearest first.
type Near struct {
	Field             Field
	Center            geo.Point
	MaxDistanceMeters float64
}

// RadiusKm returns the radius in kilometers.
func (n Near) RadiusKm() float64 {
	return n.MaxDistanceMeters / 1000
}

// Query is the full search expression: a geo restriction ANDed with every clause.
type Query struct {
	Near    Near
	Clauses []Clause
}

// Text returns the text clause if the query has one.
func (q *Query) Text() (Text, bool) {
	for _, c := range q.Clauses {
		if t, ok := c.(Text); ok {
			return t, true
		}
	}
	return Text{}, false
}
