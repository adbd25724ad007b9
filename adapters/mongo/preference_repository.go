package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/wicaksana/swara/domain/entities"
	"github.com/wicaksana/swara/domain/repositories"
)

// PreferenceRepository implements the preference store on MongoDB.
// Records are keyed by user id; every write is an upsert so a missing
// record is created with defaults on first touch.
type PreferenceRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

var _ repositories.PreferenceRepository = (*PreferenceRepository)(nil)

// NewPreferenceRepository creates the MongoDB preference repository.
func NewPreferenceRepository(db *mongo.Database, logger *zap.Logger) *PreferenceRepository {
	collection := db.Collection("preferences")

	// Index creation is advisory; reads and writes work without it.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		lastActiveIndex := mongo.IndexModel{
			Keys: bson.D{{Key: "last_active_at", Value: -1}},
		}

		if _, err := collection.Indexes().CreateOne(ctx, lastActiveIndex); err != nil {
			logger.Error("Failed to create preference indexes", zap.Error(err))
		}
	}()

	return &PreferenceRepository{
		collection: collection,
		logger:     logger,
	}
}

// Get returns the stored preferences, or the documented defaults when
// no record exists. A missing record is not an error.
func (r *PreferenceRepository) Get(ctx context.Context, userID int64) (*entities.UserPreference, error) {
	var pref entities.UserPreference
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&pref)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entities.NewUserPreference(userID), nil
		}
		r.logger.Error("Failed to get preferences", zap.Error(err), zap.Int64("user_id", userID))
		return nil, err
	}
	return &pref, nil
}

// SetVoice stores the selected voice id.
func (r *PreferenceRepository) SetVoice(ctx context.Context, userID int64, voiceID string) error {
	return r.setField(ctx, userID, bson.M{"voice_id": voiceID}, []string{"pitch", "rate", "language", "conversion_count"})
}

// SetPitch stores a validated pitch offset.
func (r *PreferenceRepository) SetPitch(ctx context.Context, userID int64, pitch int) error {
	if err := entities.ValidateDelta(pitch); err != nil {
		return err
	}
	return r.setField(ctx, userID, bson.M{"pitch": pitch}, []string{"voice_id", "rate", "language", "conversion_count"})
}

// SetRate stores a validated rate offset.
func (r *PreferenceRepository) SetRate(ctx context.Context, userID int64, rate int) error {
	if err := entities.ValidateDelta(rate); err != nil {
		return err
	}
	return r.setField(ctx, userID, bson.M{"rate": rate}, []string{"voice_id", "pitch", "language", "conversion_count"})
}

// SetLanguage stores the transcription language code.
func (r *PreferenceRepository) SetLanguage(ctx context.Context, userID int64, code string) error {
	return r.setField(ctx, userID, bson.M{"language": code}, []string{"voice_id", "pitch", "rate", "conversion_count"})
}

// RecordConversion bumps the usage counter and activity timestamp.
func (r *PreferenceRepository) RecordConversion(ctx context.Context, userID int64) error {
	update := bson.M{
		"$inc":         bson.M{"conversion_count": 1},
		"$set":         bson.M{"last_active_at": time.Now()},
		"$setOnInsert": defaultsExcept("conversion_count"),
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		r.logger.Error("Failed to record conversion", zap.Error(err), zap.Int64("user_id", userID))
	}
	return err
}

// Stats aggregates user and conversion totals for the admin API.
func (r *PreferenceRepository) Stats(ctx context.Context) (*repositories.PreferenceStats, error) {
	users, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$conversion_count"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := &repositories.PreferenceStats{Users: users}
	if cursor.Next(ctx) {
		var row struct {
			Total int64 `bson:"total"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		stats.Conversions = row.Total
	}
	return stats, cursor.Err()
}

// setField upserts one field together with the activity timestamp,
// filling the remaining fields with defaults on insert.
func (r *PreferenceRepository) setField(ctx context.Context, userID int64, set bson.M, defaultFields []string) error {
	set["last_active_at"] = time.Now()
	update := bson.M{
		"$set":         set,
		"$setOnInsert": pickDefaults(defaultFields),
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		r.logger.Error("Failed to update preferences", zap.Error(err), zap.Int64("user_id", userID))
	}
	return err
}

func allDefaults() bson.M {
	return bson.M{
		"voice_id":         entities.DefaultVoiceID,
		"pitch":            0,
		"rate":             0,
		"language":         entities.DefaultLanguage,
		"conversion_count": int64(0),
	}
}

func pickDefaults(fields []string) bson.M {
	defaults := allDefaults()
	out := bson.M{}
	for _, f := range fields {
		out[f] = defaults[f]
	}
	return out
}

func defaultsExcept(field string) bson.M {
	defaults := allDefaults()
	delete(defaults, field)
	return defaults
}
