package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/noah-isme/assignment-champs-api/internal/models"
)

// flexNumber decodes numbers that older clients stored as strings. Text that
// is not a number decodes to zero; see unparsedNumbers.
type flexNumber float64

// UnmarshalBSONValue implements bson.ValueUnmarshaler.
func (n *flexNumber) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeDouble:
		*n = flexNumber(raw.Double())
	case bson.TypeInt32:
		*n = flexNumber(raw.Int32())
	case bson.TypeInt64:
		*n = flexNumber(raw.Int64())
	case bson.TypeString:
		value := strings.TrimSpace(raw.StringValue())
		if value == "" {
			*n = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = flexNumber(parsed)
	case bson.TypeNull, bson.TypeUndefined:
		*n = 0
	default:
		return fmt.Errorf("cannot decode %s into number", t)
	}
	return nil
}

// unparsedNumbers lists the keys of raw that hold non-empty text which
// flexNumber could not read as a number.
func unparsedNumbers(raw bson.Raw, keys ...string) []string {
	var unparsed []string
	for _, key := range keys {
		value, err := raw.LookupErr(key)
		if err != nil || value.Type != bson.TypeString {
			continue
		}
		text := strings.TrimSpace(value.StringValue())
		if text == "" {
			continue
		}
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			unparsed = append(unparsed, key)
		}
	}
	return unparsed
}

type assignmentDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"assignment_title"`
	Description  string             `bson:"description"`
	Marks        flexNumber         `bson:"marks"`
	Difficulty   string             `bson:"difficulty"`
	DueDate      string             `bson:"dueDate"`
	Thumbnail    string             `bson:"thumbnail"`
	CreatorEmail string             `bson:"creatorEmail,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt,omitempty"`
	UpdatedAt    time.Time          `bson:"updatedAt,omitempty"`
}

func newAssignmentDocument(a models.Assignment) assignmentDocument {
	return assignmentDocument{
		Title:        a.Title,
		Description:  a.Description,
		Marks:        flexNumber(a.Marks),
		Difficulty:   a.Difficulty,
		DueDate:      a.DueDate,
		Thumbnail:    a.Thumbnail,
		CreatorEmail: a.CreatorEmail,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (d assignmentDocument) model() models.Assignment {
	return models.Assignment{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Description:  d.Description,
		Marks:        float64(d.Marks),
		Difficulty:   d.Difficulty,
		DueDate:      d.DueDate,
		Thumbnail:    d.Thumbnail,
		CreatorEmail: d.CreatorEmail,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func assignmentSetFields(changes models.AssignmentChanges) bson.M {
	set := bson.M{}
	if changes.Title != nil {
		set["assignment_title"] = *changes.Title
	}
	if changes.Description != nil {
		set["description"] = *changes.Description
	}
	if changes.Marks != nil {
		set["marks"] = *changes.Marks
	}
	if changes.Difficulty != nil {
		set["difficulty"] = *changes.Difficulty
	}
	if changes.DueDate != nil {
		set["dueDate"] = *changes.DueDate
	}
	if changes.Thumbnail != nil {
		set["thumbnail"] = *changes.Thumbnail
	}
	return set
}

type submissionDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	AssignmentID    string             `bson:"assignmentId"`
	AssignmentTitle string             `bson:"assignment_title,omitempty"`
	Marks           flexNumber         `bson:"marks,omitempty"`
	SubmitBy        string             `bson:"submitBy"`
	SubmitterName   string             `bson:"submitterName,omitempty"`
	Content         string             `bson:"content"`
	Note            string             `bson:"note,omitempty"`
	Status          string             `bson:"status"`
	GivenMark       *flexNumber        `bson:"givenMark,omitempty"`
	Feedback        string             `bson:"feedback,omitempty"`
	MarkBy          string             `bson:"markBy,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt,omitempty"`
	UpdatedAt       time.Time          `bson:"updatedAt,omitempty"`
}

func newSubmissionDocument(s models.Submission) submissionDocument {
	doc := submissionDocument{
		AssignmentID:    s.AssignmentID,
		AssignmentTitle: s.AssignmentTitle,
		Marks:           flexNumber(s.Marks),
		SubmitBy:        s.SubmitBy,
		SubmitterName:   s.SubmitterName,
		Content:         s.Content,
		Note:            s.Note,
		Status:          s.Status,
		Feedback:        s.Feedback,
		MarkBy:          s.MarkBy,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.GivenMark != nil {
		mark := flexNumber(*s.GivenMark)
		doc.GivenMark = &mark
	}
	return doc
}

func (d submissionDocument) model() models.Submission {
	submission := models.Submission{
		ID:              d.ID.Hex(),
		AssignmentID:    d.AssignmentID,
		AssignmentTitle: d.AssignmentTitle,
		Marks:           float64(d.Marks),
		SubmitBy:        d.SubmitBy,
		SubmitterName:   d.SubmitterName,
		Content:         d.Content,
		Note:            d.Note,
		Status:          d.Status,
		Feedback:        d.Feedback,
		MarkBy:          d.MarkBy,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.GivenMark != nil {
		mark := float64(*d.GivenMark)
		submission.GivenMark = &mark
	}
	return submission
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid object id %q: %w", id, err)
	}
	return oid, nil
}
