package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/notifier/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityRepository defines the interface for activity data operations
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity *models.Activity) error
	GetActivitiesByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Activity, error)
}

// MongoActivityRepository implements ActivityRepository for MongoDB
type MongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new MongoActivityRepository
func NewMongoActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{collection: db.Collection("activities")}
}

// CreateActivity creates a new activity in MongoDB
func (r *MongoActivityRepository) CreateActivity(ctx context.Context, activity *models.Activity) error {
	activity.ID = primitive.NewObjectID()
	activity.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, activity)
	return err
}

// GetActivitiesByUserID retrieves a user's activities, newest first
func (r *MongoActivityRepository) GetActivitiesByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Activity, error) {
	activities := []models.Activity{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// EnsureIndexes creates the index backing GetActivitiesByUserID
func (r *MongoActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
