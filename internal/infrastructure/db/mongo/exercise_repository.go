package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/exercise-tracker/internal/core/domain"
	"github.com/99minutos/exercise-tracker/internal/core/ports"
)

const collectionExercises = "exercises"

type ExerciseRepository struct {
	col *mongo.Collection
}

func NewExerciseRepository(db *mongo.Database) *ExerciseRepository {
	return &ExerciseRepository{col: db.Collection(collectionExercises)}
}

type mongoExercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	Description string             `bson:"description"`
	Duration    int                `bson:"duration"`
	Date        time.Time          `bson:"date"`
	CreatedAt   time.Time          `bson:"created_at"`
}

// Create inserts a new exercise document and sets e.ID.
func (r *ExerciseRepository) Create(ctx context.Context, e *domain.Exercise) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoExercise{
		ID:          primitive.NewObjectID(),
		UserID:      e.UserID,
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.Date.UTC(),
		CreatedAt:   e.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert exercise: %w", err)
	}

	e.ID = doc.ID.Hex()
	return nil
}

// Find returns a user's exercises ordered by date then insertion order. From and
// To are inclusive; a positive Limit caps the result.
func (r *ExerciseRepository) Find(ctx context.Context, f ports.ExerciseFilter) ([]*domain.Exercise, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, exerciseQuery(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find exercises: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoExercise
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode exercises: %w", err)
	}

	out := make([]*domain.Exercise, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Exercise{
			ID:          d.ID.Hex(),
			UserID:      d.UserID,
			Description: d.Description,
			Duration:    d.Duration,
			Date:        d.Date.UTC(),
			CreatedAt:   d.CreatedAt.UTC(),
		})
	}
	return out, nil
}

// exerciseQuery builds the filter document for Find.
func exerciseQuery(f ports.ExerciseFilter) bson.M {
	filter := bson.M{"user_id": f.UserID}

	dateRange := bson.M{}
	if !f.From.IsZero() {
		dateRange["$gte"] = f.From.UTC()
	}
	if !f.To.IsZero() {
		dateRange["$lte"] = f.To.UTC()
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}
	return filter
}

// EnsureIndexes creates the indexes the log query relies on.
func (r *ExerciseRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
