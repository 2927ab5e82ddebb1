package models

import "time"

// Difficulty labels accepted for assignments.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Assignment is a published assignment.
type Assignment struct {
	ID           string    `gorm:"primaryKey;size:24" json:"_id"`
	Title        string    `gorm:"size:255;not null" json:"assignment_title"`
	Description  string    `gorm:"type:text" json:"description"`
	Marks        float64   `json:"marks"`
	Difficulty   string    `gorm:"size:16;index" json:"difficulty"`
	DueDate      string    `gorm:"size:32" json:"dueDate"`
	Thumbnail    string    `gorm:"size:512" json:"thumbnail"`
	CreatorEmail string    `gorm:"size:255" json:"creatorEmail,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName keeps the SQL table aligned with the document collection name.
func (Assignment) TableName() string {
	return "published"
}

// AssignmentChanges lists the fields an update may replace. Nil pointers are left untouched.
type AssignmentChanges struct {
	Title       *string
	Description *string
	Marks       *float64
	Difficulty  *string
	DueDate     *string
	Thumbnail   *string
}

// IsEmpty reports whether no field would be changed.
func (c AssignmentChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Marks == nil &&
		c.Difficulty == nil && c.DueDate == nil && c.Thumbnail == nil
}

// Apply copies the set fields onto the assignment.
func (c AssignmentChanges) Apply(a *Assignment) {
	if c.Title != nil {
		a.Title = *c.Title
	}
	if c.Description != nil {
		a.Description = *c.Description
	}
	if c.Marks != nil {
		a.Marks = *c.Marks
	}
	if c.Difficulty != nil {
		a.Difficulty = *c.Difficulty
	}
	if c.DueDate != nil {
		a.DueDate = *c.DueDate
	}
	if c.Thumbnail != nil {
		a.Thumbnail = *c.Thumbnail
	}
}
