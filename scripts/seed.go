package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zatekoja/carefinder/internal/adapters/database"
	"github.com/zatekoja/carefinder/internal/domain/entities"
	"github.com/zatekoja/carefinder/internal/infrastructure/clients/mongodb"
	"github.com/zatekoja/carefinder/internal/infrastructure/observability"
	"github.com/zatekoja/carefinder/pkg/config"
)

// seedID derives a stable id so reseeding upserts instead of duplicating
func seedID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("carefinder:seed:"+name)).String()
}

func sampleProviders() []*entities.Provider {
	t, f := entities.Bool(true), entities.Bool(false)
	return []*entities.Provider{
		{
			Name:      "Rockville Community Health Center",
			Category:  "Community Health Center",
			Address:   "1101 Wootton Pkwy suite 540, Rockville, MD 20852",
			Phone:     "(301) 555-0100",
			Location:  entities.NewGeoPoint(39.0840, -77.1528),
			Processed: true,
			ServicesOffered: &entities.ServicesOffered{
				GeneralServices: []entities.ServiceEntry{
					{Name: "Primary care visits", IsDiscounted: t},
					{Name: "Flu shots", IsFree: t},
				},
				DiagnosticServices: []entities.ServiceEntry{{Name: "Blood pressure screening", IsFree: t}},
			},
			InsuranceAccepted:         &entities.InsuranceAccepted{Medicaid: t, Medicare: t, SelfPayOptions: t},
			FinancialAssistance:       &entities.FinancialAssistance{SlidingScaleAvailable: t, AcceptsUninsured: t},
			DocumentationRequirements: &entities.DocumentationRequirements{SSNRequired: f, IDRequired: f},
			TelehealthInfo:            &entities.TelehealthInfo{TelehealthAvailable: t},
			AccessibilityInfo:         &entities.AccessibilityInfo{WalkInsAccepted: t},
			HealthConditionsFocus:     &entities.HealthConditionsFocus{ConditionsTreated: []string{"Diabetes", "Hypertension"}},
		},
		{
			Name:      "Bethesda Family Dental",
			Category:  "Dental Clinic",
			Address:   "7500 Old Georgetown Rd, Bethesda, MD 20814",
			Location:  entities.NewGeoPoint(38.9847, -77.0947),
			Processed: true,
			ServicesOffered: &entities.ServicesOffered{
				SpecializedServices: []entities.ServiceEntry{{Name: "Cleanings", IsDiscounted: t}},
			},
			InsuranceAccepted:         &entities.InsuranceAccepted{Medicaid: t, Medicare: f},
			DocumentationRequirements: &entities.DocumentationRequirements{SSNRequired: f, IDRequired: t},
		},
		{
			Name:              "Silver Spring Mental Health Services",
			Category:          "Mental Health",
			Location:          entities.NewGeoPoint(38.9907, -77.0261),
			Processed:         true,
			TelehealthInfo:    &entities.TelehealthInfo{TelehealthAvailable: t},
			InsuranceAccepted: &entities.InsuranceAccepted{Medicare: t},
		},
		{
			Name:              "Gaithersburg Urgent Care",
			Category:          "Urgent Care",
			Location:          entities.NewGeoPoint(39.1434, -77.2014),
			Processed:         true,
			AccessibilityInfo: &entities.AccessibilityInfo{WalkInsAccepted: t, SameDayAppointments: t},
		},
		{
			// Not yet enriched, never searchable.
			Name:     "Wheaton Pharmacy",
			Category: "Pharmacy",
			Location: entities.NewGeoPoint(39.0398, -77.0552),
		},
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger("carefinder-seed", cfg.App.Env)

	client, err := mongodb.NewClient(&cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	defer func() { _ = client.Close(context.Background()) }()

	coll := client.Providers()
	if os.Getenv("RESET_DB") == "true" {
		log.Info().Str("collection", coll.Name()).Msg("RESET_DB=true detected, dropping collection before seeding")
		if err := coll.Drop(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to drop collection")
		}
	}

	models := make([]mongo.WriteModel, 0, len(sampleProviders()))
	for _, p := range sampleProviders() {
		p.ID = seedID(p.Name)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: p.ID}}).
			SetReplacement(p).
			SetUpsert(true))
	}
	res, err := coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed providers")
	}
	log.Info().Int64("upserted", res.UpsertedCount).Int64("modified", res.ModifiedCount).Msg("Seeded providers")

	if _, err := database.EnsureIndexes(ctx, coll); err != nil {
		log.Error().Err(err).Msg("Some indexes could not be created")
	}
	log.Info().Msg("Seeding complete")
}
