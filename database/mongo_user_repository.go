package database

import (
	"context"
	"regexp"
	"time"

	"no-homers/models"

	"github.com/cockroachdb/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

var _ UserRepository = (*MongoUserRepository)(nil)

// NewMongoUserRepository creates a new MongoDB user repository
func NewMongoUserRepository(db *MongoDB) *MongoUserRepository {
	return &MongoUserRepository{
		collection: db.database.Collection("users"),
	}
}

func (r *MongoUserRepository) findOne(filter bson.M) (*models.User, error) {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "failed to find user")
	}
	return &user, nil
}

func caseInsensitive(value string) bson.M {
	return bson.M{"$regex": "^" + regexp.QuoteMeta(value) + "$", "$options": "i"}
}

// GetUserByEmail retrieves a user by their email address (case-insensitive)
func (r *MongoUserRepository) GetUserByEmail(email string) (*models.User, error) {
	return r.findOne(bson.M{"email": caseInsensitive(email)})
}

// GetUserByID retrieves a user by their ID
func (r *MongoUserRepository) GetUserByID(id int) (*models.User, error) {
	return r.findOne(bson.M{"_id": id})
}

// GetUserByName retrieves a user by picker name (case-insensitive)
func (r *MongoUserRepository) GetUserByName(name string) (*models.User, error) {
	return r.findOne(bson.M{"name": caseInsensitive(name)})
}

// CreateUser creates a new user in the database. Users without an ID get the
// next free one.
func (r *MongoUserRepository) CreateUser(user *models.User) error {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	if user.ID == 0 {
		next, err := r.nextID(ctx)
		if err != nil {
			return err
		}
		user.ID = next
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.Newf("user %s already exists", user.Email)
		}
		return errors.Wrap(err, "failed to create user")
	}
	return nil
}

func (r *MongoUserRepository) nextID(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	var last models.User
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 1, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "failed to find last user id")
	}
	return last.ID + 1, nil
}

// UpdateUser updates an existing user in the database
func (r *MongoUserRepository) UpdateUser(user *models.User) error {
	ctx, cancel := WithShortTimeout()
	defer cancel()

	user.UpdatedAt = time.Now()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return errors.Wrap(err, "failed to update user")
	}
	if result.MatchedCount == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// GetAllUsers retrieves all users from the database
func (r *MongoUserRepository) GetAllUsers() ([]models.User, error) {
	ctx, cancel := WithMediumTimeout()
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err = cursor.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "failed to decode users")
	}
	return users, nil
}

// EnsureIndexes creates necessary indexes for the users collection
func (r *MongoUserRepository) EnsureIndexes() error {
	ctx, cancel := WithMediumTimeout()
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
