package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zatekoja/carefinder/internal/domain/search"
)

// LocationIndexName is the name MongoDB gives the 2dsphere index on location
const LocationIndexName = "location_2dsphere"

func ascending(fields ...search.Field) bson.D {
	keys := make(bson.D, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, bson.E{Key: string(f), Value: 1})
	}
	return keys
}

// ProviderIndexModels lists every index the search path relies on
func ProviderIndexModels() []mongo.IndexModel {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: string(search.FieldLocation), Value: "2dsphere"}}},
		{Keys: ascending(search.FieldProcessed)},
		{Keys: ascending(search.FieldCategory)},
		// One compound index per service list: MongoDB cannot index two parallel arrays together.
		{Keys: ascending(search.FieldGeneralIsFree, search.FieldGeneralIsDiscounted)},
		{Keys: ascending(search.FieldSpecializedIsFree, search.FieldSpecializedIsDiscounted)},
		{Keys: ascending(search.FieldDiagnosticIsFree, search.FieldDiagnosticIsDiscounted)},
	}
	for _, f := range []search.Field{
		search.FieldMedicaid,
		search.FieldMedicare,
		search.FieldSelfPay,
		search.FieldSlidingScale,
		search.FieldAcceptsUninsured,
		search.FieldSSNRequired,
		search.FieldIDRequired,
		search.FieldTelehealthAvailable,
		search.FieldWalkInsAccepted,
	} {
		models = append(models, mongo.IndexModel{Keys: ascending(f)})
	}

	text := make(bson.D, 0, len(search.TextFields))
	for _, f := range search.TextFields {
		text = append(text, bson.E{Key: string(f), Value: "text"})
	}
	return append(models, mongo.IndexModel{Keys: text})
}

// EnsureIndexes creates the provider indexes on coll one at a time, so a rejected index
// does not keep the others from being built. Existing identical indexes are left alone.
// It returns the names of the indexes that exist afterwards and an error naming every failure.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) ([]string, error) {
	var names []string
	var failed []string
	var lastErr error
	for _, model := range ProviderIndexModels() {
		name, err := coll.Indexes().CreateOne(ctx, model)
		if err != nil {
			keys := indexKeyNames(model.Keys)
			log.Warn().Err(err).Str("collection", coll.Name()).Str("keys", keys).Msg("Failed to create index")
			failed = append(failed, keys)
			lastErr = err
			continue
		}
		names = append(names, name)
	}
	if len(failed) > 0 {
		return names, classifyError(
			fmt.Sprintf("failed to create %d of %d indexes on %s (%s)",
				len(failed), len(failed)+len(names), coll.Name(), strings.Join(failed, "; ")),
			lastErr)
	}
	return names, nil
}

func indexKeyNames(keys interface{}) string {
	d, ok := keys.(bson.D)
	if !ok {
		return fmt.Sprint(keys)
	}
	parts := make([]string, 0, len(d))
	for _, e := range d {
		parts = append(parts, fmt.Sprintf("%s:%v", e.Key, e.Value))
	}
	return strings.Join(parts, ",")
}

// CollectionStats summarizes how much of a collection is searchable
type CollectionStats struct {
	Name             string
	Total            int64
	Processed        int64
	Located          int64
	ProcessedLocated int64
}

var locatedFilter = bson.D{{Key: string(search.FieldLocation), Value: bson.D{
	{Key: "$exists", Value: true},
	{Key: "$ne", Value: nil},
}}}

// ReindexLocations drops and recreates the 2dsphere index of a collection that
// holds located documents, then reports its counts. Collections without any
// location are reported with zero counts and left untouched.
func ReindexLocations(ctx context.Context, coll *mongo.Collection) (*CollectionStats, error) {
	stats := &CollectionStats{Name: coll.Name()}

	located, err := coll.CountDocuments(ctx, locatedFilter)
	if err != nil {
		return nil, classifyError("failed to count located documents", err)
	}
	if located == 0 {
		return stats, nil
	}
	stats.Located = located

	// A missing index is fine; the recreate below is what matters.
	_, _ = coll.Indexes().DropOne(ctx, LocationIndexName)
	if _, err := coll.Indexes().CreateOne(ctx, ProviderIndexModels()[0]); err != nil {
		return nil, classifyError("failed to create location index", err)
	}

	if stats.Total, err = coll.CountDocuments(ctx, bson.D{}); err != nil {
		return nil, classifyError("failed to count documents", err)
	}
	processed := bson.D{{Key: string(search.FieldProcessed), Value: true}}
	if stats.Processed, err = coll.CountDocuments(ctx, processed); err != nil {
		return nil, classifyError("failed to count processed documents", err)
	}
	if stats.ProcessedLocated, err = coll.CountDocuments(ctx, append(processed, locatedFilter...)); err != nil {
		return nil, classifyError("failed to count processed located documents", err)
	}
	return stats, nil
}

// ListProviderCollections returns the non-system collection names of db
func ListProviderCollections(ctx context.Context, db *mongo.Database) ([]string, error) {
	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, classifyError("failed to list collections", err)
	}
	out := names[:0]
	for _, name := range names {
		if !strings.HasPrefix(name, "system.") {
			out = append(out, name)
		}
	}
	return out, nil
}
