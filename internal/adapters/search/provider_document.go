package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/zatekoja/carefinder/internal/domain/entities"
)

// MaxIndexedTerms caps the number of terms stored per list field
const MaxIndexedTerms = 100

// Document field names of the provider collection
const (
	fieldID                    = "id"
	fieldName                  = "name"
	fieldCategory              = "category"
	fieldLocation              = "location"
	fieldProcessed             = "processed"
	fieldGeneralFree           = "general_services_free"
	fieldGeneralDiscounted     = "general_services_discounted"
	fieldSpecializedFree       = "specialized_services_free"
	fieldSpecializedDiscounted = "specialized_services_discounted"
	fieldDiagnosticFree        = "diagnostic_services_free"
	fieldDiagnosticDiscounted  = "diagnostic_services_discounted"
	fieldServiceNames          = "service_names"
	fieldConditions            = "conditions"
	fieldMedicaid              = "insurance_medicaid"
	fieldMedicare              = "insurance_medicare"
	fieldSelfPay               = "insurance_self_pay"
	fieldAcceptsUninsured      = "accepts_uninsured"
	fieldSlidingScale          = "sliding_scale"
	fieldSSNRequired           = "ssn_required"
	fieldIDRequired            = "id_required"
	fieldTelehealth            = "telehealth"
	fieldWalkIns               = "walk_ins"
	fieldSource                = "doc"
)

// queryBy lists the fields covered by text queries
var queryBy = strings.Join([]string{fieldName, fieldCategory, fieldServiceNames, fieldConditions}, ",")

// BuildDocument flattens a provider into an index document.
// Unknown booleans are left out so that only explicit values match filters.
// The full record travels in an unindexed field so hits decode without a store round trip.
func BuildDocument(p *entities.Provider) (map[string]interface{}, error) {
	if !p.Searchable() {
		return nil, fmt.Errorf("provider %q is not searchable", p.ID)
	}
	source, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode provider %q: %w", p.ID, err)
	}

	doc := map[string]interface{}{
		fieldID:        p.ID,
		fieldName:      strings.TrimSpace(p.Name),
		fieldCategory:  strings.TrimSpace(p.Category),
		fieldLocation:  []float64{p.Location.Lat(), p.Location.Lng()},
		fieldProcessed: p.Processed,
		fieldSource:    string(source),
	}

	if s := p.ServicesOffered; s != nil {
		putFlags(doc, fieldGeneralFree, s.GeneralServices, func(e entities.ServiceEntry) *bool { return e.IsFree })
		putFlags(doc, fieldGeneralDiscounted, s.GeneralServices, func(e entities.ServiceEntry) *bool { return e.IsDiscounted })
		putFlags(doc, fieldSpecializedFree, s.SpecializedServices, func(e entities.ServiceEntry) *bool { return e.IsFree })
		putFlags(doc, fieldSpecializedDiscounted, s.SpecializedServices, func(e entities.ServiceEntry) *bool { return e.IsDiscounted })
		putFlags(doc, fieldDiagnosticFree, s.DiagnosticServices, func(e entities.ServiceEntry) *bool { return e.IsFree })
		putFlags(doc, fieldDiagnosticDiscounted, s.DiagnosticServices, func(e entities.ServiceEntry) *bool { return e.IsDiscounted })

		names := make([]string, 0, len(s.GeneralServices)+len(s.SpecializedServices))
		for _, e := range s.GeneralServices {
			names = append(names, e.Name)
		}
		for _, e := range s.SpecializedServices {
			names = append(names, e.Name)
		}
		if terms := buildTerms(names); len(terms) > 0 {
			doc[fieldServiceNames] = terms
		}
	}
	if h := p.HealthConditionsFocus; h != nil {
		if terms := buildTerms(h.ConditionsTreated); len(terms) > 0 {
			doc[fieldConditions] = terms
		}
	}
	if ins := p.InsuranceAccepted; ins != nil {
		putBool(doc, fieldMedicaid, ins.Medicaid)
		putBool(doc, fieldMedicare, ins.Medicare)
		putBool(doc, fieldSelfPay, ins.SelfPayOptions)
	}
	if fin := p.FinancialAssistance; fin != nil {
		putBool(doc, fieldAcceptsUninsured, fin.AcceptsUninsured)
		putBool(doc, fieldSlidingScale, fin.SlidingScaleAvailable)
	}
	if docs := p.DocumentationRequirements; docs != nil {
		putBool(doc, fieldSSNRequired, docs.SSNRequired)
		putBool(doc, fieldIDRequired, docs.IDRequired)
	}
	if p.TelehealthInfo != nil {
		putBool(doc, fieldTelehealth, p.TelehealthInfo.TelehealthAvailable)
	}
	if p.AccessibilityInfo != nil {
		putBool(doc, fieldWalkIns, p.AccessibilityInfo.WalkInsAccepted)
	}
	return doc, nil
}

// decodeDocument restores the provider carried by a hit
func decodeDocument(doc map[string]interface{}) (*entities.Provider, error) {
	source, ok := doc[fieldSource].(string)
	if !ok {
		return nil, fmt.Errorf("document %v has no source", doc[fieldID])
	}
	var p entities.Provider
	if err := json.Unmarshal([]byte(source), &p); err != nil {
		return nil, fmt.Errorf("failed to decode document %v: %w", doc[fieldID], err)
	}
	return &p, nil
}

func putBool(doc map[string]interface{}, field string, v *bool) {
	if v != nil {
		doc[field] = *v
	}
}

func putFlags(doc map[string]interface{}, field string, entries []entities.ServiceEntry, flag func(entities.ServiceEntry) *bool) {
	var values []bool
	for _, e := range entries {
		if v := flag(e); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) > 0 {
		doc[field] = values
	}
}

// buildTerms lower-cases, trims and de-duplicates terms, keeping first-seen order
func buildTerms(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		term := strings.ToLower(strings.TrimSpace(v))
		if term == "" {
			continue
		}
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
		if len(out) == MaxIndexedTerms {
			break
		}
	}
	return out
}
