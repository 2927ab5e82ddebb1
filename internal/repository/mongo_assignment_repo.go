package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/noah-isme/assignment-champs-api/internal/models"
)

type mongoAssignmentRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
	now        func() time.Time
}

// NewMongoAssignmentRepository instantiates a repository over the published collection.
func NewMongoAssignmentRepository(collection *mongo.Collection, logger zerolog.Logger) AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: collection,
		logger:     logger.With().Str("component", "mongo_assignment_repository").Logger(),
		now:        time.Now,
	}
}

func (r *mongoAssignmentRepository) List(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, error) {
	query := bson.M{}
	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetSkip(int64(filter.Skip())).SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	assignments := make([]models.Assignment, 0)
	for cursor.Next(ctx) {
		var doc assignmentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		r.warnUnparsed(cursor.Current, doc.ID)
		assignments = append(assignments, doc.model())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *mongoAssignmentRepository) EstimatedCount(ctx context.Context) (int64, error) {
	return r.collection.EstimatedDocumentCount(ctx)
}

func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id string) (models.Assignment, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return models.Assignment{}, err
	}

	raw, err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Assignment{}, ErrNotFound
		}
		return models.Assignment{}, err
	}

	var doc assignmentDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return models.Assignment{}, err
	}
	r.warnUnparsed(raw, doc.ID)

	return doc.model(), nil
}

func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	now := r.now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	doc := newAssignmentDocument(*assignment)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}

	assignment.ID = doc.ID.Hex()
	return nil
}

func (r *mongoAssignmentRepository) Update(ctx context.Context, id string, changes models.AssignmentChanges, upsert bool) (UpdateOutcome, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return UpdateOutcome{}, err
	}

	now := r.now().UTC()
	set := assignmentSetFields(changes)
	set["updatedAt"] = now

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return UpdateOutcome{}, err
	}

	outcome := UpdateOutcome{MatchedCount: result.MatchedCount, ModifiedCount: result.ModifiedCount}
	if result.MatchedCount > 0 || !upsert {
		return outcome, nil
	}

	// No match: the replacement document gets a fresh identifier.
	assignment := models.Assignment{}
	changes.Apply(&assignment)
	if err := r.Create(ctx, &assignment); err != nil {
		return UpdateOutcome{}, err
	}
	outcome.UpsertedID = assignment.ID
	return outcome, nil
}

func (r *mongoAssignmentRepository) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return 0, err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *mongoAssignmentRepository) warnUnparsed(raw bson.Raw, id primitive.ObjectID) {
	if fields := unparsedNumbers(raw, "marks"); len(fields) > 0 {
		r.logger.Warn().Str("assignment_id", id.Hex()).Strs("fields", fields).Msg("non-numeric values read as zero")
	}
}
