package database

import (
	"context"
	"sort"
	"time"

	"no-homers/logging"
	"no-homers/models"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLinesRepository implements LinesRepository for MongoDB. Market lines,
// pool spreads and results each live in their own collection.
type MongoLinesRepository struct {
	db      *MongoDB
	market  *mongo.Collection
	pool    *mongo.Collection
	results *mongo.Collection
	logger  *logging.Logger
}

var _ LinesRepository = (*MongoLinesRepository)(nil)

func NewMongoLinesRepository(db *MongoDB) *MongoLinesRepository {
	r := &MongoLinesRepository{
		db:      db,
		market:  db.GetCollection("market_lines"),
		pool:    db.GetCollection("pool_spreads"),
		results: db.GetCollection("game_results"),
		logger:  logging.WithPrefix("mongo_lines_repo"),
	}

	ctx, cancel := WithMediumTimeout()
	defer cancel()

	weekGame := mongo.IndexModel{
		Keys: bson.D{
			{Key: "season", Value: 1},
			{Key: "week", Value: 1},
			{Key: "game_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	for _, c := range []*mongo.Collection{r.market, r.pool} {
		if _, err := c.Indexes().CreateOne(ctx, weekGame); err != nil {
			r.logger.Errorf("Failed to create index on %s: %v", c.Name(), err)
		}
	}
	resultIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "game_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.results.Indexes().CreateOne(ctx, resultIndex); err != nil {
		r.logger.Errorf("Failed to create index on game_results: %v", err)
	}

	return r
}

// replaceWeek swaps every document of a season/week in one transaction
func (r *MongoLinesRepository) replaceWeek(ctx context.Context, c *mongo.Collection, season, week int, docs []interface{}) error {
	ctx, cancel := ContextWithTimeout(ctx, LongTimeout)
	defer cancel()

	return r.db.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := c.DeleteMany(sc, bson.M{"season": season, "week": week}); err != nil {
			return errors.Wrapf(err, "failed to clear %s", c.Name())
		}
		if len(docs) == 0 {
			return nil
		}
		if _, err := c.InsertMany(sc, docs); err != nil {
			return errors.Wrapf(err, "failed to insert %s", c.Name())
		}
		return nil
	})
}

func (r *MongoLinesRepository) SaveMarketLines(ctx context.Context, season, week int, lines []models.MarketLine) error {
	now := time.Now().UTC()
	docs := make([]interface{}, len(lines))
	for i, l := range lines {
		l.Season, l.Week, l.UpdatedAt = season, week, now
		docs[i] = l
	}
	return r.replaceWeek(ctx, r.market, season, week, docs)
}

func (r *MongoLinesRepository) GetMarketLines(ctx context.Context, season, week int) ([]models.MarketLine, error) {
	ctx, cancel := ContextWithTimeout(ctx, MediumTimeout)
	defer cancel()

	cursor, err := r.market.Find(ctx, bson.M{"season": season, "week": week})
	if err != nil {
		return nil, errors.Wrap(err, "failed to find market lines")
	}
	defer cursor.Close(ctx)

	lines := []models.MarketLine{}
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, errors.Wrap(err, "failed to decode market lines")
	}
	models.SortMarketLines(lines)
	return lines, nil
}

func (r *MongoLinesRepository) AvailableWeeks(ctx context.Context, season int) ([]int, error) {
	ctx, cancel := ContextWithTimeout(ctx, MediumTimeout)
	defer cancel()

	values, err := r.market.Distinct(ctx, "week", bson.M{"season": season})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list weeks")
	}

	weeks := make([]int, 0, len(values))
	for _, v := range values {
		switch w := v.(type) {
		case int32:
			weeks = append(weeks, int(w))
		case int64:
			weeks = append(weeks, int(w))
		case float64:
			weeks = append(weeks, int(w))
		}
	}
	sort.Ints(weeks)
	return weeks, nil
}

func (r *MongoLinesRepository) MaxWeek(ctx context.Context, season int) (int, bool, error) {
	ctx, cancel := ContextWithTimeout(ctx, ShortTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "week", Value: -1}})
	var line models.MarketLine
	err := r.market.FindOne(ctx, bson.M{"season": season}, opts).Decode(&line)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, "failed to find max week")
	}
	return line.Week, true, nil
}

func (r *MongoLinesRepository) SavePoolSpreads(ctx context.Context, season, week int, spreads []models.PoolSpread) error {
	now := time.Now().UTC()
	docs := make([]interface{}, len(spreads))
	for i, s := range spreads {
		s.Season, s.Week, s.UpdatedAt = season, week, now
		docs[i] = s
	}
	return r.replaceWeek(ctx, r.pool, season, week, docs)
}

func (r *MongoLinesRepository) UpdatePoolSpread(ctx context.Context, spread models.PoolSpread) error {
	ctx, cancel := ContextWithTimeout(ctx, ShortTimeout)
	defer cancel()

	spread.UpdatedAt = time.Now().UTC()
	filter := bson.M{"season": spread.Season, "week": spread.Week, "game_id": spread.GameID}

	// Use ReplaceOne with upsert option
	_, err := r.pool.ReplaceOne(ctx, filter, spread, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrapf(err, "failed to upsert pool spread %s", spread.GameID)
	}
	return nil
}

func (r *MongoLinesRepository) GetPoolSpreads(ctx context.Context, season, week int) ([]models.PoolSpread, error) {
	ctx, cancel := ContextWithTimeout(ctx, MediumTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "game_id", Value: 1}})
	cursor, err := r.pool.Find(ctx, bson.M{"season": season, "week": week}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find pool spreads")
	}
	defer cursor.Close(ctx)

	spreads := []models.PoolSpread{}
	if err := cursor.All(ctx, &spreads); err != nil {
		return nil, errors.Wrap(err, "failed to decode pool spreads")
	}
	return spreads, nil
}

func (r *MongoLinesRepository) SaveResults(ctx context.Context, results []models.GameResult) error {
	ctx, cancel := ContextWithTimeout(ctx, LongTimeout)
	defer cancel()

	now := time.Now().UTC()
	for _, res := range results {
		res.UpdatedAt = now
		_, err := r.results.ReplaceOne(ctx, bson.M{"game_id": res.GameID}, res, options.Replace().SetUpsert(true))
		if err != nil {
			return errors.Wrapf(err, "failed to upsert result %s", res.GameID)
		}
	}
	return nil
}

func (r *MongoLinesRepository) GetResults(ctx context.Context, season, week int) ([]models.GameResult, error) {
	ctx, cancel := ContextWithTimeout(ctx, MediumTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "game_id", Value: 1}})
	cursor, err := r.results.Find(ctx, bson.M{"season": season, "week": week}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find results")
	}
	defer cursor.Close(ctx)

	results := []models.GameResult{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, errors.Wrap(err, "failed to decode results")
	}
	return results, nil
}
