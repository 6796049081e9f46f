package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Submission review states. Status is the only field an owner may mutate
// after a submission is created.
const (
	SubmissionStatusNew       = "new"
	SubmissionStatusReviewed  = "reviewed"
	SubmissionStatusProcessed = "processed"
	SubmissionStatusArchived  = "archived"
)

type Submission struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FormID primitive.ObjectID `bson:"formId" json:"formId"`
	// formOwnerId is denormalized so dashboard queries stay single-collection.
	FormOwnerID primitive.ObjectID `bson:"formOwnerId" json:"formOwnerId"`

	Responses []ResponseItem `bson:"responses" json:"responses"`

	SubmitterInfo SubmitterInfo      `bson:"submitterInfo" json:"submitterInfo"`
	Metadata      SubmissionMetadata `bson:"metadata" json:"metadata"`

	Status      string    `bson:"status" json:"status"`
	SubmittedAt time.Time `bson:"submittedAt" json:"submittedAt"`
}

// ResponseItem snapshots the question text and type alongside the answer so
// submissions keep their meaning after the form is edited.
type ResponseItem struct {
	QuestionID   string      `bson:"questionId" json:"questionId"`
	Question     string      `bson:"question" json:"question"`
	Answer       interface{} `bson:"answer" json:"answer"` // scalar or list
	QuestionType string      `bson:"questionType" json:"questionType"`
}

type SubmitterInfo struct {
	Name      string             `bson:"name,omitempty" json:"name,omitempty"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	IPAddress string             `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent string             `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	Location  *SubmitterLocation `bson:"location,omitempty" json:"location,omitempty"`
}

type SubmitterLocation struct {
	Country string `bson:"country,omitempty" json:"country,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
}

type SubmissionMetadata struct {
	TimeSpent  int    `bson:"timeSpent,omitempty" json:"timeSpent,omitempty"` // seconds
	DeviceType string `bson:"deviceType,omitempty" json:"deviceType,omitempty"`
	Browser    string `bson:"browser,omitempty" json:"browser,omitempty"`
	Referrer   string `bson:"referrer,omitempty" json:"referrer,omitempty"`
}

// ValidSubmissionStatus reports whether s is one of the review states.
func ValidSubmissionStatus(s string) bool {
	switch s {
	case SubmissionStatusNew, SubmissionStatusReviewed, SubmissionStatusProcessed, SubmissionStatusArchived:
		return true
	}
	return false
}
