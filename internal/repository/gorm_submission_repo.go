package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"

	"github.com/noah-isme/assignment-champs-api/internal/models"
)

type gormSubmissionRepository struct {
	db *gorm.DB
}

// NewGormSubmissionRepository instantiates a SQL-backed repository.
func NewGormSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &gormSubmissionRepository{db: db}
}

func (r *gormSubmissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.SubmitBy != nil {
		query = query.Where("submit_by = ?", *filter.SubmitBy)
	}

	var submissions []models.Submission
	if err := query.Order("id ASC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *gormSubmissionRepository) GetByID(ctx context.Context, id string) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrNotFound
		}
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *gormSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	submission.ID = primitive.NewObjectID().Hex()
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *gormSubmissionRepository) Grade(ctx context.Context, id string, grade models.Grade, upsert bool) (UpdateOutcome, error) {
	result := r.db.WithContext(ctx).Model(&models.Submission{}).Where("id = ?", id).Updates(map[string]interface{}{
		"given_mark": grade.GivenMark,
		"feedback":   grade.Feedback,
		"mark_by":    grade.MarkBy,
		"status":     grade.Status,
	})
	if result.Error != nil {
		return UpdateOutcome{}, result.Error
	}

	outcome := UpdateOutcome{MatchedCount: result.RowsAffected, ModifiedCount: result.RowsAffected}
	if result.RowsAffected > 0 || !upsert {
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
