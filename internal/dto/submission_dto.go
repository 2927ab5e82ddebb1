package dto

import (
	"github.com/noah-isme/assignment-champs-api/internal/models"
)

// SubmissionCreateRequest describes the payload for submitting an assignment.
type SubmissionCreateRequest struct {
	AssignmentID    string  `json:"assignmentId" validate:"required"`
	AssignmentTitle string  `json:"assignment_title" validate:"omitempty,max=255"`
	Marks           float64 `json:"marks" validate:"gte=0"`
	SubmitBy        string  `json:"submitBy" validate:"required,email"`
	SubmitterName   string  `json:"submitterName" validate:"omitempty,max=255"`
	Content         string  `json:"content" validate:"required"`
	Note            string  `json:"note" validate:"omitempty,max=5000"`
	Status          string  `json:"status" validate:"omitempty,oneof=pending completed"`
}

// SubmissionGradeRequest is used to mark a submission.
type SubmissionGradeRequest struct {
	GivenMark *float64 `json:"givenMark" validate:"required,gte=0"`
	Feedback  string   `json:"feedback" validate:"omitempty,max=5000"`
	MarkBy    string   `json:"markBy" validate:"required,email"`
	Status    string   `json:"status" validate:"omitempty,oneof=pending completed"`
}

// SubmissionFilter describes query string filters for listing submissions.
type SubmissionFilter struct {
	Status   *string `query:"status" validate:"omitempty,oneof=pending completed"`
	SubmitBy *string `query:"submitBy" validate:"omitempty,email"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse = models.Submission
