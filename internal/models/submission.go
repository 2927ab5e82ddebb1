package models

import "time"

const (
	// SubmissionStatusPending indicates the submission is waiting for a grader.
	SubmissionStatusPending = "pending"
	// SubmissionStatusCompleted indicates the submission has been marked.
	SubmissionStatusCompleted = "completed"
)

// Submission is a solution submitted against an assignment.
type Submission struct {
	ID              string    `gorm:"primaryKey;size:24" json:"_id"`
	AssignmentID    string    `gorm:"size:64;index" json:"assignmentId"`
	AssignmentTitle string    `gorm:"size:255" json:"assignment_title,omitempty"`
	Marks           float64   `json:"marks,omitempty"`
	SubmitBy        string    `gorm:"size:255;index" json:"submitBy"`
	SubmitterName   string    `gorm:"size:255" json:"submitterName,omitempty"`
	Content         string    `gorm:"type:text" json:"content"`
	Note            string    `gorm:"type:text" json:"note,omitempty"`
	Status          string    `gorm:"size:16;index" json:"status"`
	GivenMark       *float64  `json:"givenMark,omitempty"`
	Feedback        string    `gorm:"type:text" json:"feedback,omitempty"`
	MarkBy          string    `gorm:"size:255" json:"markBy,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName keeps the SQL table aligned with the document collection name.
func (Submission) TableName() string {
	return "submitted"
}

// IsCompleted reports whether the submission has been marked.
func (s Submission) IsCompleted() bool {
	return s.Status == SubmissionStatusCompleted
}

// Grade holds the fields written when a submission is marked.
type Grade struct {
	GivenMark float64
	Feedback  string
	MarkBy    string
	Status    string
}
