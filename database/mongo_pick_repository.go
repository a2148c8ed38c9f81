package database

import (
	"context"
	"time"

	"no-homers/logging"
	"no-homers/models"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPickRepository implements PickRepository for MongoDB
type MongoPickRepository struct {
	db         *MongoDB
	collection *mongo.Collection
	logger     *logging.Logger
}

var _ PickRepository = (*MongoPickRepository)(nil)

// NewMongoPickRepository creates a new MongoDB pick repository
func NewMongoPickRepository(db *MongoDB) *MongoPickRepository {
	collection := db.GetCollection("picks")
	logger := logging.WithPrefix("mongo_pick_repo")

	// Create indexes for efficient querying
	ctx, cancel := WithMediumTimeout()
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "season", Value: 1},
				{Key: "week", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "picker", Value: 1},
				{Key: "season", Value: 1},
				{Key: "week", Value: 1},
			},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logger.Warnf("Could not create pick indexes: %v", err)
	}

	return &MongoPickRepository{
		db:         db,
		collection: collection,
		logger:     logger,
	}
}

func (r *MongoPickRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.Pick, error) {
	ctx, cancel := ContextWithTimeout(ctx, MediumTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	picks := []models.Pick{}
	for cursor.Next(ctx) {
		var pick models.Pick
		if err := cursor.Decode(&pick); err != nil {
			return nil, errors.Wrap(err, "failed to decode pick")
		}
		picks = append(picks, pick)
	}
	return picks, cursor.Err()
}

// FindByPickerAndWeek returns a picker's week in the order it was saved
func (r *MongoPickRepository) FindByPickerAndWeek(ctx context.Context, picker string, season, week int) ([]models.Pick, error) {
	filter := bson.M{
		"picker": picker,
		"season": season,
		"week":   week,
	}
	picks, err := r.find(ctx, filter, bson.D{{Key: "_id", Value: 1}})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find picks by picker and week")
	}
	return picks, nil
}

// FindByWeek retrieves all picks for a specific season/week
func (r *MongoPickRepository) FindByWeek(ctx context.Context, season, week int) ([]models.Pick, error) {
	filter := bson.M{
		"season": season,
		"week":   week,
	}
	picks, err := r.find(ctx, filter, bson.D{
		{Key: "picker", Value: 1},
		{Key: "game_id", Value: 1},
		{Key: "_id", Value: 1},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find picks by week")
	}
	return picks, nil
}

// FindByPickerAndSeason retrieves all picks for a picker in a specific season
func (r *MongoPickRepository) FindByPickerAndSeason(ctx context.Context, picker string, season int) ([]models.Pick, error) {
	filter := bson.M{
		"picker": picker,
		"season": season,
	}
	// Sort by week, then by game_id for consistent ordering
	picks, err := r.find(ctx, filter, bson.D{
		{Key: "week", Value: 1},
		{Key: "game_id", Value: 1},
		{Key: "_id", Value: 1},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find picks by picker and season")
	}
	return picks, nil
}

// ReplacePicks deletes and re-inserts the picker's week inside one session
// transaction
func (r *MongoPickRepository) ReplacePicks(ctx context.Context, picker string, season, week int, picks []models.Pick) error {
	ctx, cancel := ContextWithTimeout(ctx, LongTimeout)
	defer cancel()

	filter := bson.M{
		"picker": picker,
		"season": season,
		"week":   week,
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(picks))
	for i, p := range picks {
		p.Picker, p.Season, p.Week, p.CreatedAt = picker, season, week, now
		docs[i] = p
	}

	err := r.db.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.collection.DeleteMany(sc, filter); err != nil {
			return errors.Wrap(err, "failed to delete existing picks")
		}
		if len(docs) == 0 {
			return nil
		}
		if _, err := r.collection.InsertMany(sc, docs, options.InsertMany().SetOrdered(true)); err != nil {
			return errors.Wrap(err, "failed to insert picks")
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Debugf("Replaced picks for %s season %d week %d (%d rows)", picker, season, week, len(docs))
	return nil
}

// DeletePicks removes all picks for a picker in a specific season/week
func (r *MongoPickRepository) DeletePicks(ctx context.Context, picker string, season, week int) (int, error) {
	ctx, cancel := ContextWithTimeout(ctx, ShortTimeout)
	defer cancel()

	filter := bson.M{
		"picker": picker,
		"season": season,
		"week":   week,
	}

	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete picks by picker and week")
	}

	r.logger.Infof("Deleted %d picks for %s, season %d, week %d", result.DeletedCount, picker, season, week)
	return int(result.DeletedCount), nil
}

// Stats aggregates counts and ranges over the whole collection
func (r *MongoPickRepository) Stats(ctx context.Context) (models.DatabaseStats, error) {
	ctx, cancel := ContextWithTimeout(ctx, LongTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_picks", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "pickers", Value: bson.D{{Key: "$addToSet", Value: "$picker"}}},
			{Key: "min_season", Value: bson.D{{Key: "$min", Value: "$season"}}},
			{Key: "max_season", Value: bson.D{{Key: "$max", Value: "$season"}}},
			{Key: "min_week", Value: bson.D{{Key: "$min", Value: "$week"}}},
			{Key: "max_week", Value: bson.D{{Key: "$max", Value: "$week"}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.DatabaseStats{}, errors.Wrap(err, "failed to aggregate pick stats")
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TotalPicks int      `bson:"total_picks"`
		Pickers    []string `bson:"pickers"`
		MinSeason  int      `bson:"min_season"`
		MaxSeason  int      `bson:"max_season"`
		MinWeek    int      `bson:"min_week"`
		MaxWeek    int      `bson:"max_week"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return models.DatabaseStats{}, errors.Wrap(err, "failed to decode pick stats")
	}
	if len(rows) == 0 {
		return models.DatabaseStats{}, nil
	}

	row := rows[0]
	return models.DatabaseStats{
		TotalPicks:    row.TotalPicks,
		UniquePickers: len(row.Pickers),
		MinSeason:     &row.MinSeason,
		MaxSeason:     &row.MaxSeason,
		MinWeek:       &row.MinWeek,
		MaxWeek:       &row.MaxWeek,
	}, nil
}
