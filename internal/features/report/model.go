package report

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is a student's problem report. Field names match the stored documents.
type Report struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ReferenceID string             `json:"referenceId" bson:"referenceId"`
	Name        string             `json:"name" bson:"name"`
	College     string             `json:"college" bson:"college"`
	Email       string             `json:"email,omitempty" bson:"email,omitempty"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"` // Academic, Administration, ...
	Details     string             `json:"details" bson:"details"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateReportRequest is the POST /api/reports body.
type CreateReportRequest struct {
	Name     string `json:"name" validate:"notblank"`
	College  string `json:"college" validate:"notblank"`
	Email    string `json:"email"`
	Category string `json:"category"`
	Details  string `json:"details" validate:"notblank"`
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)
