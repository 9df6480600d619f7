package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	domainsearch "github.com/zatekoja/carefinder/internal/domain/search"
)

// boolFields maps query paths onto flattened document fields
var boolFields = map[domainsearch.Field]string{
	domainsearch.FieldProcessed:               fieldProcessed,
	domainsearch.FieldGeneralIsFree:           fieldGeneralFree,
	domainsearch.FieldGeneralIsDiscounted:     fieldGeneralDiscounted,
	domainsearch.FieldSpecializedIsFree:       fieldSpecializedFree,
	domainsearch.FieldSpecializedIsDiscounted: fieldSpecializedDiscounted,
	domainsearch.FieldDiagnosticIsFree:        fieldDiagnosticFree,
	domainsearch.FieldDiagnosticIsDiscounted:  fieldDiagnosticDiscounted,
	domainsearch.FieldMedicaid:                fieldMedicaid,
	domainsearch.FieldMedicare:                fieldMedicare,
	domainsearch.FieldSelfPay:                 fieldSelfPay,
	domainsearch.FieldAcceptsUninsured:        fieldAcceptsUninsured,
	domainsearch.FieldSlidingScale:            fieldSlidingScale,
	domainsearch.FieldSSNRequired:             fieldSSNRequired,
	domainsearch.FieldIDRequired:              fieldIDRequired,
	domainsearch.FieldTelehealthAvailable:     fieldTelehealth,
	domainsearch.FieldWalkInsAccepted:         fieldWalkIns,
}

// CompileSearch translates q into Typesense search parameters.
// Clauses filter_by cannot express (substring matches) are returned as residual
// and must be checked against each hit.
func CompileSearch(q *domainsearch.Query, limit int) (*api.SearchCollectionParams, []domainsearch.Clause) {
	center := q.Near.Center
	lat := formatFloat(center.Latitude)
	lng := formatFloat(center.Longitude)

	filters := []string{fmt.Sprintf("%s:(%s, %s, %s km)", fieldLocation, lat, lng, formatFloat(q.Near.RadiusKm()))}
	var residual []domainsearch.Clause
	for _, c := range q.Clauses {
		if _, ok := c.(domainsearch.Text); ok {
			continue
		}
		expr, ok := compileExpr(c)
		if !ok {
			residual = append(residual, c)
			continue
		}
		filters = append(filters, expr)
	}

	geoSort := fmt.Sprintf("%s(%s, %s):asc", fieldLocation, lat, lng)
	params := &api.SearchCollectionParams{
		Q:        pointer.String("*"),
		QueryBy:  pointer.String(fieldName),
		FilterBy: pointer.String(strings.Join(filters, " && ")),
		SortBy:   pointer.String(geoSort),
		PerPage:  pointer.Int(limit),
		Page:     pointer.Int(1),
	}
	if text, ok := q.Text(); ok {
		params.Q = pointer.String(text.Search)
		params.QueryBy = pointer.String(queryBy)
		params.SortBy = pointer.String("_text_match:desc," + geoSort)
	}
	return params, residual
}

func compileExpr(c domainsearch.Clause) (string, bool) {
	switch c := c.(type) {
	case domainsearch.Equals:
		field, ok := boolFields[c.Field]
		if !ok {
			return "", false
		}
		return fmt.Sprintf("%s:=%t", field, c.Value), true
	case domainsearch.AnyOf:
		parts := make([]string, 0, len(c.Clauses))
		for _, sub := range c.Clauses {
			expr, ok := compileExpr(sub)
			if !ok {
				return "", false
			}
			parts = append(parts, expr)
		}
		if len(parts) == 0 {
			return "", false
		}
		return "(" + strings.Join(parts, " || ") + ")", true
	default:
		return "", false
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
