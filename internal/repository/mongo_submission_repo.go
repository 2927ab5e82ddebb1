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

type mongoSubmissionRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
	now        func() time.Time
}

// NewMongoSubmissionRepository instantiates a repository over the submitted collection.
func NewMongoSubmissionRepository(collection *mongo.Collection, logger zerolog.Logger) SubmissionRepository {
	return &mongoSubmissionRepository{
		collection: collection,
		logger:     logger.With().Str("component", "mongo_submission_repository").Logger(),
		now:        time.Now,
	}
}

func (r *mongoSubmissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.SubmitBy != nil {
		query["submitBy"] = *filter.SubmitBy
	}

	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	submissions := make([]models.Submission, 0)
	for cursor.Next(ctx) {
		var doc submissionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		r.warnUnparsed(cursor.Current, doc.ID)
		submissions = append(submissions, doc.model())
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *mongoSubmissionRepository) GetByID(ctx context.Context, id string) (models.Submission, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return models.Submission{}, err
	}

	raw, err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Raw()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Submission{}, ErrNotFound
		}
		return models.Submission{}, err
	}

	var doc submissionDocument
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return models.Submission{}, err
	}
	r.warnUnparsed(raw, doc.ID)

	return doc.model(), nil
}

func (r *mongoSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	now := r.now().UTC()
	submission.CreatedAt = now
	submission.UpdatedAt = now

	doc := newSubmissionDocument(*submission)
	doc.ID = primitive.NewObjectID()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return err
	}

	submission.ID = doc.ID.Hex()
	return nil
}

func (r *mongoSubmissionRepository) Grade(ctx context.Context, id string, grade models.Grade, upsert bool) (UpdateOutcome, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return UpdateOutcome{}, err
	}

	update := bson.M{"$set": bson.M{
		"givenMark": grade.GivenMark,
		"feedback":  grade.Feedback,
		"markBy":    grade.MarkBy,
		"status":    grade.Status,
		"updatedAt": r.now().UTC(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return UpdateOutcome{}, err
	}

	outcome := UpdateOutcome{MatchedCount: result.MatchedCount, ModifiedCount: result.ModifiedCount}
	if result.MatchedCount > 0 || !upsert {
		return outcome, nil
	}

	mark := grade.GivenMark
	submission := models.Submission{
		GivenMark: &mark,
		Feedback:  grade.Feedback,
		MarkBy:    grade.MarkBy,
		Status:    grade.Status,
	}
	if err := r.Create(ctx, &submission); err != nil {
		return UpdateOutcome{}, err
	}
	outcome.UpsertedID = submission.ID
	return outcome, nil
}

func (r *mongoSubmissionRepository) warnUnparsed(raw bson.Raw, id primitive.ObjectID) {
	if fields := unparsedNumbers(raw, "marks", "givenMark"); len(fields) > 0 {
		r.logger.Warn().Str("submission_id", id.Hex()).Strs("fields", fields).Msg("non-numeric values read as zero")
	}
}
