package search

import (
	"fmt"
	"math"
	"strings"

	apperrors "github.com/zatekoja/carefinder/pkg/errors"
	"github.com/zatekoja/carefinder/pkg/geo"
)

// InsuranceType selects a single insurance flag. The zero value means no preference.
type InsuranceType string

const (
	InsuranceAny      InsuranceType = ""
	InsuranceMedicaid InsuranceType = "medicaid"
	InsuranceMedicare InsuranceType = "medicare"
	InsuranceSelfPay  InsuranceType = "self-pay"
)

// ParseInsuranceType parses the insuranceType request value. "any" and "" mean unset.
func ParseInsuranceType(value string) (InsuranceType, error) {
	switch InsuranceType(strings.ToLower(strings.TrimSpace(value))) {
	case InsuranceAny, "any":
		return InsuranceAny, nil
	case InsuranceMedicaid:
		return InsuranceMedicaid, nil
	case InsuranceMedicare:
		return InsuranceMedicare, nil
	case InsuranceSelfPay:
		return InsuranceSelfPay, nil
	default:
		return InsuranceAny, apperrors.NewValidationError(
			fmt.Sprintf("invalid insuranceType %q: expected medicaid, medicare or self-pay", value))
	}
}

// Filters are the optional narrowing criteria of a search.
type Filters struct {
	Category            string
	InsuranceType       InsuranceType
	FreeServicesOnly    bool
	AcceptsUninsured    bool
	NoDocumentsRequired bool
	Telehealth          bool
	WalkInsAccepted     bool
	SlidingScale        bool
	SearchText          string
}

var insuranceFields = map[InsuranceType]Field{
	InsuranceMedicaid: FieldMedicaid,
	InsuranceMedicare: FieldMedicare,
	InsuranceSelfPay:  FieldSelfPay,
}

// Build produces the query for a radius search around center.
func Build(center geo.Point, radiusKm float64, f Filters) (*Query, error) {
	if err := center.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm <= 0 {
		return nil, apperrors.NewValidationError(fmt.Sprintf("radius %v must be a positive number of kilometers", radiusKm))
	}

	q := &Query{
		Near: Near{
			Field:             FieldLocation,
			Center:            center,
			MaxDistanceMeters: radiusKm * 1000,
		},
		Clauses: []Clause{Equals{Field: FieldProcessed, Value: true}},
	}

	if category := strings.TrimSpace(f.Category); category != "" {
		q.Clauses = append(q.Clauses, Contains{Field: FieldCategory, Substring: category})
	}

	if f.FreeServicesOnly {
		q.Clauses = append(q.Clauses, AnyOf{Clauses: []Clause{
			Equals{Field: FieldGeneralIsFree, Value: true},
			Equals{Field: FieldGeneralIsDiscounted, Value: true},
			Equals{Field: FieldSpecializedIsFree, Value: true},
			Equals{Field: FieldSpecializedIsDiscounted, Value: true},
			Equals{Field: FieldDiagnosticIsFree, Value: true},
			Equals{Field: FieldDiagnosticIsDiscounted, Value: true},
		}})
	}

	if f.InsuranceType != InsuranceAny {
		field, ok := insuranceFields[f.InsuranceType]
		if !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid insuranceType %q", f.InsuranceType))
		}
		q.Clauses = append(q.Clauses, Equals{Field: field, Value: true})
	}

	if f.AcceptsUninsured {
		q.Clauses = append(q.Clauses, Equals{Field: FieldAcceptsUninsured, Value: true})
	}

	if f.NoDocumentsRequired {
		q.Clauses = append(q.Clauses,
			Equals{Field: FieldSSNRequired, Value: false},
			Equals{Field: FieldIDRequired, Value: false},
		)
	}

	if f.Telehealth {
		q.Clauses = append(q.Clauses, Equals{Field: FieldTelehealthAvailable, Value: true})
	}

	if f.WalkInsAccepted {
		q.Clauses = append(q.Clauses, Equals{Field: FieldWalkInsAccepted, Value: true})
	}

	if f.SlidingScale {
		q.Clauses = append(q.Clauses, Equals{Field: FieldSlidingScale, Value: true})
	}

	if text := strings.TrimSpace(f.SearchText); text != "" {
		q.Clauses = append(q.Clauses, Text{Search: text})
	}

	return q, nil
}
