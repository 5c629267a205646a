package repositories

import (
	"context"
	"time"

	"github.com/anonto42/nano-midea/notifier/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EventRepository is the append-only log of accepted events
type EventRepository interface {
	AppendEvent(ctx context.Context, event *models.Event) error
}

// MongoEventRepository implements EventRepository for MongoDB
type MongoEventRepository struct {
	collection *mongo.Collection
}

// NewMongoEventRepository creates a new MongoEventRepository
func NewMongoEventRepository(db *mongo.Database) *MongoEventRepository {
	return &MongoEventRepository{collection: db.Collection("events")}
}

// AppendEvent assigns the id and server timestamp and inserts the event
func (r *MongoEventRepository) AppendEvent(ctx context.Context, event *models.Event) error {
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now().UTC()
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

// EnsureIndexes creates the producer lookup index
func (r *MongoEventRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "producer_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
