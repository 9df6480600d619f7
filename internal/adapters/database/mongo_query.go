package database

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zatekoja/carefinder/internal/domain/search"
	"github.com/zatekoja/carefinder/pkg/geo"
)

// CompileFilter translates a search query into a MongoDB filter document.
//
// MongoDB rejects $text combined with $near, so a query carrying a text clause
// restricts the radius with $geoWithin/$centerSphere instead. Ordering by
// distance is then left to the caller, and the candidates read are the best
// text matches in the radius rather than the nearest ones (see FindOptions).
func CompileFilter(q *search.Query) bson.D {
	_, hasText := q.Text()

	elems := make([]bson.E, 0, len(q.Clauses)+1)
	elems = append(elems, compileNear(q.Near, hasText))
	for _, c := range q.Clauses {
		elems = append(elems, compileClause(c))
	}

	if hasDuplicateKeys(elems) {
		and := make(bson.A, 0, len(elems))
		for _, e := range elems {
			and = append(and, bson.D{e})
		}
		return bson.D{{Key: "$and", Value: and}}
	}
	return bson.D(elems)
}

// TextCandidateFactor widens the candidate limit of text queries. They are capped
// in textScore order, so a wider read leaves more of the nearby matches for the
// distance sort to rank.
const TextCandidateFactor = 4

// FindOptions returns the find options for q capped at limit documents, or at
// limit*TextCandidateFactor when q carries a text clause
func FindOptions(q *search.Query, limit int) *options.FindOptions {
	opts := options.Find().SetLimit(int64(limit))
	if _, ok := q.Text(); ok {
		opts.SetLimit(int64(limit * TextCandidateFactor))
		score := bson.D{{Key: "score", Value: bson.D{{Key: "$meta", Value: "textScore"}}}}
		opts.SetProjection(score).SetSort(score)
	}
	return opts
}

func compileNear(n search.Near, withinOnly bool) bson.E {
	coords := bson.A{n.Center.Longitude, n.Center.Latitude}
	if withinOnly {
		return bson.E{Key: string(n.Field), Value: bson.D{
			{Key: "$geoWithin", Value: bson.D{
				{Key: "$centerSphere", Value: bson.A{coords, geo.KmToRadians(n.RadiusKm())}},
			}},
		}}
	}
	return bson.E{Key: string(n.Field), Value: bson.D{
		{Key: "$near", Value: bson.D{
			{Key: "$geometry", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: coords},
			}},
			{Key: "$maxDistance", Value: n.MaxDistanceMeters},
		}},
	}}
}

func compileClause(c search.Clause) bson.E {
	switch c := c.(type) {
	case search.Equals:
		return bson.E{Key: string(c.Field), Value: c.Value}
	case search.Contains:
		return bson.E{Key: string(c.Field), Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(c.Substring)},
			{Key: "$options", Value: "i"},
		}}
	case search.AnyOf:
		or := make(bson.A, 0, len(c.Clauses))
		for _, sub := range c.Clauses {
			or = append(or, bson.D{compileClause(sub)})
		}
		return bson.E{Key: "$or", Value: or}
	case search.Text:
		return bson.E{Key: "$text", Value: bson.D{{Key: "$search", Value: c.Search}}}
	default:
		panic("database: unknown search clause")
	}
}

func hasDuplicateKeys(elems []bson.E) bool {
	seen := make(map[string]struct{}, len(elems))
	for _, e := range elems {
		if _, ok := seen[e.Key]; ok {
			return true
		}
		seen[e.Key] = struct{}{}
	}
	return false
}
