package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"

	"github.com/noah-isme/assignment-champs-api/internal/models"
)

type gormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository instantiates a SQL-backed repository.
func NewGormAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &gormAssignmentRepository{db: db}
}

func (r *gormAssignmentRepository) List(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, error) {
	query := r.db.WithContext(ctx).Model(&models.Assignment{})

	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}

	query = query.Order("id ASC")
	if filter.Limit > 0 {
		query = query.Offset(filter.Skip()).Limit(filter.Limit)
	}

	var assignments []models.Assignment
	if err := query.Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *gormAssignmentRepository) EstimatedCount(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Assignment{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *gormAssignmentRepository) GetByID(ctx context.Context, id string) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrNotFound
		}
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *gormAssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	// ObjectID-shaped keys keep identifiers interchangeable with the document store.
	assignment.ID = primitive.NewObjectID().Hex()
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *gormAssignmentRepository) Update(ctx context.Context, id string, changes models.AssignmentChanges, upsert bool) (UpdateOutcome, error) {
	columns := assignmentColumns(changes)

	result := r.db.WithContext(ctx).Model(&models.Assignment{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return UpdateOutcome{}, result.Error
	}

	outcome := UpdateOutcome{MatchedCount: result.RowsAffected, ModifiedCount: result.RowsAffected}
	if result.RowsAffected > 0 || !upsert {
		return outcome, nil
	}

	assignment := models.Assignment{}
	changes.Apply(&assignment)
	if err := r.Create(ctx, &assignment); err != nil {
		return UpdateOutcome{}, err
	}
	outcome.UpsertedID = assignment.ID
	return outcome, nil
}

func (r *gormAssignmentRepository) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Assignment{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func assignmentColumns(changes models.AssignmentChanges) map[string]interface{} {
	columns := map[string]interface{}{}
	if changes.Title != nil {
		columns["title"] = *changes.Title
	}
	if changes.Description != nil {
		columns["description"] = *changes.Description
	}
	if changes.Marks != nil {
		columns["marks"] = *changes.Marks
	}
	if changes.Difficulty != nil {
		columns["difficulty"] = *changes.Difficulty
	}
	if changes.DueDate != nil {
		columns["due_date"] = *changes.DueDate
	}
	if changes.Thumbnail != nil {
		columns["thumbnail"] = *changes.Thumbnail
	}
	return columns
}
