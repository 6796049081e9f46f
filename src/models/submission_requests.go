package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmitFormRequest is the public submit payload.
type SubmitFormRequest struct {
	Responses     []ResponseItem      `json:"responses" validate:"required,min=1"`
	SubmitterInfo *SubmitterInfo      `json:"submitterInfo,omitempty"`
	Metadata      *SubmissionMetadata `json:"metadata,omitempty"`
}

// UpdateSubmissionStatusRequest changes the review state of a submission.
type UpdateSubmissionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new reviewed processed archived"`
}

// SubmissionSummary is the list row used by the dashboard and the
// cross-forms submissions view.
type SubmissionSummary struct {
	ID            primitive.ObjectID `json:"id"`
	FormName      string             `json:"formName"`
	SubmittedBy   string             `json:"submittedBy"`
	SubmittedAt   time.Time          `json:"submittedAt"`
	Status        string             `json:"status"`
	ResponseCount int                `json:"responseCount"`
	SubmitterInfo SubmitterInfo      `json:"submitterInfo"`
}

// DisplayName resolves who submitted: name, then email, then the anonymous
// placeholder.
func (s SubmitterInfo) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Email != "" {
		return s.Email
	}
	return "Anonymous User"
}
