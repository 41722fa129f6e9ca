package models

import (
	"time"
)

// Log is a persisted server log line written by the logger's DB writer.
type Log struct {
	Level        string    `bson:"level" json:"level"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	Message      string    `bson:"message" json:"message"`
	RequestID    string    `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Path         string    `bson:"path,omitempty" json:"path,omitempty"`
	IpAddress    string    `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	Error        string    `bson:"error,omitempty" json:"error,omitempty"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	AppId        string    `bson:"app_id" json:"app_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}

// FeedEvent is broadcast to feed subscribers after a record is stored.
// It carries identifiers only.
type FeedEvent struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	FeedReportCreated = "report.created"
	FeedMemberCreated = "member.created"
)
