package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TypeGenerateSummary = "analytics:summary"

type SummaryPayload struct {
	FormID string `json:"form_id"`
	UserID string `json:"user_id"`
}

// NewGenerateSummaryTask queues a refresh of the AI analytics summary for a
// form. Enqueued after every submission and on explicit owner request.
func NewGenerateSummaryTask(formID, userID string) (*asynq.Task, error) {
	payload, err := json.Marshal(SummaryPayload{FormID: formID, UserID: userID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeGenerateSummary, payload), nil
}
