package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/discgolf/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RoundRepository defines the interface for round data operations
type RoundRepository interface {
	CreateRound(ctx context.Context, round *models.Round) error
	GetRoundByID(ctx context.Context, id string) (*models.Round, error)
	GetRoundsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Round, error)
	CountCompletedRounds(ctx context.Context, userID uint) (int64, error)
	CountDistinctCourses(ctx context.Context, userID uint) (int64, error)
	DeleteByUserID(ctx context.Context, userID uint) error
}

// MongoRoundRepository implements RoundRepository for MongoDB
type MongoRoundRepository struct {
	collection *mongo.Collection
}

// NewMongoRoundRepository creates a new MongoRoundRepository
func NewMongoRoundRepository(db *mongo.Database) *MongoRoundRepository {
	return &MongoRoundRepository{collection: db.Collection("rounds")}
}

// EnsureIndexes creates the indexes the per-user count queries rely on
func (r *MongoRoundRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "played_at", Value: -1}}},
	})
	return err
}

func (r *MongoRoundRepository) CreateRound(ctx context.Context, round *models.Round) error {
	round.ID = primitive.NewObjectID()
	round.CreatedAt = time.Now()
	if round.PlayedAt.IsZero() {
		round.PlayedAt = round.CreatedAt
	}
	_, err := r.collection.InsertOne(ctx, round)
	return err
}

func (r *MongoRoundRepository) GetRoundByID(ctx context.Context, id string) (*models.Round, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// a malformed ID cannot match any round
		return nil, ErrRoundNotFound
	}

	var round models.Round
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&round)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return &round, nil
}

// GetRoundsByUserID lists a user's rounds, most recently played first
func (r *MongoRoundRepository) GetRoundsByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Round, error) {
	rounds := []models.Round{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "played_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &rounds); err != nil {
		return nil, err
	}
	return rounds, nil
}

func (r *MongoRoundRepository) CountCompletedRounds(ctx context.Context, userID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, completedBy(userID))
}

// CountDistinctCourses counts the distinct courses among the user's completed rounds
func (r *MongoRoundRepository) CountDistinctCourses(ctx context.Context, userID uint) (int64, error) {
	courseIDs, err := r.collection.Distinct(ctx, "course_id", completedBy(userID))
	if err != nil {
		return 0, err
	}
	return int64(len(courseIDs)), nil
}

func (r *MongoRoundRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

func completedBy(userID uint) bson.M {
	return bson.M{"user_id": userID, "status": models.RoundStatusCompleted}
}
