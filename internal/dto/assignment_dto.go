package dto

import (
	"github.com/noah-isme/assignment-champs-api/internal/models"
)

// AssignmentCreateRequest describes the payload for publishing an assignment.
type AssignmentCreateRequest struct {
	Title        string  `json:"assignment_title" validate:"required,min=1,max=255"`
	Description  string  `json:"description" validate:"omitempty,max=5000"`
	Marks        float64 `json:"marks" validate:"gte=0"`
	Difficulty   string  `json:"difficulty" validate:"required,oneof=easy medium hard"`
	DueDate      string  `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Thumbnail    string  `json:"thumbnail" validate:"omitempty,url"`
	CreatorEmail string  `json:"creatorEmail" validate:"omitempty,email"`
}

// AssignmentUpdateRequest describes the replaceable fields of an assignment.
// UpdateDueDate is the key older clients send for the due date.
type AssignmentUpdateRequest struct {
	Title         *string  `json:"assignment_title" validate:"omitempty,min=1,max=255"`
	Description   *string  `json:"description" validate:"omitempty,max=5000"`
	Marks         *float64 `json:"marks" validate:"omitempty,gte=0"`
	Difficulty    *string  `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	DueDate       *string  `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	UpdateDueDate *string  `json:"updateDueDate" validate:"omitempty,datetime=2006-01-02"`
	Thumbnail     *string  `json:"thumbnail" validate:"omitempty,url"`
}

// Changes converts the request into the model change set.
func (r AssignmentUpdateRequest) Changes() models.AssignmentChanges {
	due := r.DueDate
	if due == nil {
		due = r.UpdateDueDate
	}
	return models.AssignmentChanges{
		Title:       r.Title,
		Description: r.Description,
		Marks:       r.Marks,
		Difficulty:  r.Difficulty,
		DueDate:     due,
		Thumbnail:   r.Thumbnail,
	}
}

// AssignmentListRequest holds the query parameters of the list endpoint.
type AssignmentListRequest struct {
	Page       int    `query:"page" validate:"gte=0"`
	Limit      int    `query:"limit" validate:"gte=0"`
	Difficulty string `query:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse = models.Assignment

// AssignmentCountResponse is returned by the count endpoint.
type AssignmentCountResponse struct {
	Total int64 `json:"total"`
}
