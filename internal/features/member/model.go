package member

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusActive      = "Active Member"
	StatusPendingSync = "Pending Sync"
)

// Member is a community registration. Photo is a base64 data URL.
type Member struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	MemberID  string             `json:"memberId" bson:"memberId"`
	Name      string             `json:"name" bson:"name"`
	College   string             `json:"college" bson:"college"`
	Email     string             `json:"email" bson:"email"`
	WhatsApp  string             `json:"whatsapp" bson:"whatsapp"`
	Photo     string             `json:"photo,omitempty" bson:"photo,omitempty"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateMemberRequest is the POST /api/members body.
type CreateMemberRequest struct {
	Name     string `json:"name" validate:"notblank"`
	College  string `json:"college" validate:"notblank"`
	Email    string `json:"email" validate:"notblank"`
	WhatsApp string `json:"whatsapp" validate:"notblank"`
	Photo    string `json:"photo"`
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)
