package search

import (
	"strings"

	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/pkg/geo"
)

// Matches evaluates the query against a single record in memory, radius included.
// Text clauses use case-insensitive term matching, a close approximation of a
// stemmed full-text index.
func (q *Query) Matches(p *entities.Provider) bool {
	if p == nil || !p.Location.Valid() {
		return false
	}
	at := geo.Point{Latitude: p.Location.Lat(), Longitude: p.Location.Lng()}
	if geo.Haversine(q.Near.Center, at)*1000 > q.Near.MaxDistanceMeters {
		return false
	}
	return q.MatchesAttributes(p)
}

// MatchesAttributes evaluates every clause except the geo restriction.
func (q *Query) MatchesAttributes(p *entities.Provider) bool {
	return MatchClauses(q.Clauses, p)
}

// MatchClauses reports whether p satisfies every clause.
func MatchClauses(clauses []Clause, p *entities.Provider) bool {
	if p == nil {
		return false
	}
	for _, c := range clauses {
		if !matchClause(c, p) {
			return false
		}
	}
	return true
}

func matchClause(c Clause, p *entities.Provider) bool {
	switch c := c.(type) {
	case Equals:
		for _, v := range boolValues(c.Field, p) {
			if c.Value && entities.IsTrue(v) {
				return true
			}
			if !c.Value && entities.IsFalse(v) {
				return true
			}
		}
		return false
	case Contains:
		needle := strings.ToLower(c.Substring)
		for _, s := range stringValues(c.Field, p) {
			if strings.Contains(strings.ToLower(s), needle) {
				return true
			}
		}
		return false
	case AnyOf:
		for _, sub := range c.Clauses {
			if matchClause(sub, p) {
				return true
			}
		}
		return false
	case Text:
		return matchText(c.Search, p)
	default:
		return false
	}
}

func matchText(search string, p *entities.Provider) bool {
	terms := strings.Fields(strings.ToLower(search))
	if len(terms) == 0 {
		return true
	}
	var haystack []string
	for _, f := range TextFields {
		for _, s := range stringValues(f, p) {
			haystack = append(haystack, strings.ToLower(s))
		}
	}
	for _, term := range terms {
		for _, s := range haystack {
			if strings.Contains(s, term) {
				return true
			}
		}
	}
	return false
}

func boolValues(f Field, p *entities.Provider) []*bool {
	switch f {
	case FieldProcessed:
		return []*bool{entities.Bool(p.Processed)}
	case FieldGeneralIsFree, FieldGeneralIsDiscounted:
		if p.ServicesOffered == nil {
			return nil
		}
		return serviceFlags(p.ServicesOffered.GeneralServices, f == FieldGeneralIsFree)
	case FieldSpecializedIsFree, FieldSpecializedIsDiscounted:
		if p.ServicesOffered == nil {
			return nil
		}
		return serviceFlags(p.ServicesOffered.SpecializedServices, f == FieldSpecializedIsFree)
	case FieldDiagnosticIsFree, FieldDiagnosticIsDiscounted:
		if p.ServicesOffered == nil {
			return nil
		}
		return serviceFlags(p.ServicesOffered.DiagnosticServices, f == FieldDiagnosticIsFree)
	case FieldMedicaid, FieldMedicare, FieldSelfPay:
		ins := p.InsuranceAccepted
		if ins == nil {
			return nil
		}
		switch f {
		case FieldMedicaid:
			return []*bool{ins.Medicaid}
		case FieldMedicare:
			return []*bool{ins.Medicare}
		default:
			return []*bool{ins.SelfPayOptions}
		}
	case FieldAcceptsUninsured, FieldSlidingScale:
		fin := p.FinancialAssistance
		if fin == nil {
			return nil
		}
		if f == FieldAcceptsUninsured {
			return []*bool{fin.AcceptsUninsured}
		}
		return []*bool{fin.SlidingScaleAvailable}
	case FieldSSNRequired, FieldIDRequired:
		docs := p.DocumentationRequirements
		if docs == nil {
			return nil
		}
		if f == FieldSSNRequired {
			return []*bool{docs.SSNRequired}
		}
		return []*bool{docs.IDRequired}
	case FieldTelehealthAvailable:
		if p.TelehealthInfo == nil {
			return nil
		}
		return []*bool{p.TelehealthInfo.TelehealthAvailable}
	case FieldWalkInsAccepted:
		if p.AccessibilityInfo == nil {
			return nil
		}
		return []*bool{p.AccessibilityInfo.WalkInsAccepted}
	}
	return nil
}

func serviceFlags(entries []entities.ServiceEntry, free bool) []*bool {
	out := make([]*bool, 0, len(entries))
	for _, e := range entries {
		if free {
			out = append(out, e.IsFree)
		} else {
			out = append(out, e.IsDiscounted)
		}
	}
	return out
}

func stringValues(f Field, p *entities.Provider) []string {
	switch f {
	case FieldName:
		return []string{p.Name}
	case FieldCategory:
		return []string{p.Category}
	case FieldGeneralServiceName, FieldSpecializedServiceName:
		if p.ServicesOffered == nil {
			return nil
		}
		entries := p.ServicesOffered.GeneralServices
		if f == FieldSpecializedServiceName {
			entries = p.ServicesOffered.SpecializedServices
		}
		out := make([]string, 0, len(entries))
		for _, e := range entries {
			out = append(out, e.Name)
		}
		return out
	case FieldConditionsTreated:
		if p.HealthConditionsFocus == nil {
			return nil
		}
		return p.HealthConditionsFocus.ConditionsTreated
	}
	return nil
}
