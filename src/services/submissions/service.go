package submissions

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"time"

	"Backend-AirForm/src/jobs"
	"Backend-AirForm/src/models"
	"Backend-AirForm/src/realtime"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrFormNotFound       = errors.New("form not found or not accepting submissions")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrInvalidStatus      = errors.New("invalid submission status")
	ErrMissingRequired    = errors.New("required question not answered")
)

// NetworkInfo is what the HTTP layer captured about the submitter.
type NetworkInfo struct {
	IPAddress string
	UserAgent string
	Referrer  string
}

// Service owns the submissions collection plus the best-effort side channels
// of a submit: the SSE push and the AI summary refresh task.
type Service struct {
	submissions *mongo.Collection
	forms       *mongo.Collection
	hub         *realtime.Hub
	tasks       *asynq.Client // nil when Redis is absent
}

func NewService(db *mongo.Database, hub *realtime.Hub, tasks *asynq.Client) *Service {
	return &Service{
		submissions: db.Collection("submissions"),
		forms:       db.Collection("forms"),
		hub:         hub,
		tasks:       tasks,
	}
}

// SubmitForm records a public submission against the form behind link.
// Question text and type are snapshotted from the form so the submission
// keeps its meaning if the form is edited later. The counter updates are
// deliberately separate writes; concurrent submissions can interleave them
// and the stored completionRate converges on the next write.
func (s *Service) SubmitForm(ctx context.Context, link string, req *models.SubmitFormRequest, net NetworkInfo) (*models.Submission, error) {
	var form models.Form
	err := s.forms.FindOne(ctx, bson.M{
		"$or": []bson.M{
			{"customUrl": link},
			{"shareableLink": link},
		},
		"status": models.FormStatusPublished,
	}).Decode(&form)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	responses, err := snapshotResponses(req.Responses, form.Questions)
	if err != nil {
		return nil, err
	}

	info := models.SubmitterInfo{}
	if req.SubmitterInfo != nil {
		info = *req.SubmitterInfo
	}
	info.IPAddress = net.IPAddress
	info.UserAgent = net.UserAgent

	meta := models.SubmissionMetadata{}
	if req.Metadata != nil {
		meta = *req.Metadata
	}
	meta.DeviceType = DetectDeviceType(net.UserAgent)
	meta.Browser = DetectBrowser(net.UserAgent)
	meta.Referrer = net.Referrer

	submission := &models.Submission{
		ID:            primitive.NewObjectID(),
		FormID:        form.ID,
		FormOwnerID:   form.UserID,
		Responses:     responses,
		SubmitterInfo: info,
		Metadata:      meta,
		Status:        models.SubmissionStatusNew,
		SubmittedAt:   time.Now(),
	}

	if _, err := s.submissions.InsertOne(ctx, submission); err != nil {
		return nil, err
	}

	if _, err := s.forms.UpdateByID(ctx, form.ID, bson.M{"$inc": bson.M{"analytics.submissions": 1}}); err != nil {
		return nil, err
	}

	// +1 on both counters: the current view and the submission just recorded
	// are not yet reflected in the values read above.
	rate := CompletionRate(form.Analytics.Views+1, form.Analytics.Submissions+1)
	if _, err := s.forms.UpdateByID(ctx, form.ID, bson.M{"$set": bson.M{"analytics.completionRate": rate}}); err != nil {
		return nil, err
	}

	log.Printf("[submission] inserted id=%s form=%s responses=%d",
		submission.ID.Hex(), form.ID.Hex(), len(submission.Responses))

	s.notifyOwner(&form, submission)
	s.enqueueSummaryRefresh(&form)

	return submission, nil
}

// snapshotResponses resolves each answer against the form's current
// questions and copies the prompt text and type onto the stored response.
// Answers to unknown questions are rejected, as are missing required ones.
func snapshotResponses(answers []models.ResponseItem, questions []models.Question) ([]models.ResponseItem, error) {
	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	answered := make(map[string]bool, len(answers))
	out := make([]models.ResponseItem, 0, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return nil, fmt.Errorf("invalid question ID in response: %s", a.QuestionID)
		}
		answered[q.ID] = true
		out = append(out, models.ResponseItem{
			QuestionID:   q.ID,
			Question:     q.Question,
			Answer:       a.Answer,
			QuestionType: q.Type,
		})
	}

	for _, q := range questions {
		if q.Required && !answered[q.ID] {
			return nil, fmt.Errorf("%w: %s", ErrMissingRequired, q.Question)
		}
	}

	return out, nil
}

// notifyOwner pushes a new_submission event to the form owner's SSE channel
// if one is open. Nothing depends on delivery succeeding.
func (s *Service) notifyOwner(form *models.Form, submission *models.Submission) {
	if s.hub == nil {
		return
	}
	s.hub.PushIfPresent(form.UserID.Hex(), realtime.Event{
		Type: "new_submission",
		Data: map[string]interface{}{
			"formId":        form.ID.Hex(),
			"formTitle":     form.Title,
			"submissionId":  submission.ID.Hex(),
			"submittedBy":   submission.SubmitterInfo.DisplayName(),
			"submittedAt":   submission.SubmittedAt,
			"responseCount": len(submission.Responses),
		},
	})
}

func (s *Service) enqueueSummaryRefresh(form *models.Form) {
	if s.tasks == nil {
		return
	}
	task, err := jobs.NewGenerateSummaryTask(form.ID.Hex(), form.UserID.Hex())
	if err != nil {
		return
	}
	if _, err := s.tasks.Enqueue(task); err != nil {
		log.Printf("[submission] enqueue summary task failed: %v", err)
	}
}

// GetFormSubmissions lists a form's submissions to its owner, newest first.
func (s *Service) GetFormSubmissions(ctx context.Context, formID, userID primitive.ObjectID, params models.PaginationParams) (*models.PaginatedResponse, error) {
	if err := s.checkOwnership(ctx, formID, userID); err != nil {
		return nil, err
	}
	params.Normalize()

	filter := bson.M{"formId": formID}
	if params.Status != "" {
		filter["status"] = params.Status
	}

	total, err := s.submissions.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit)).
		SetSort(bson.D{{Key: "submittedAt", Value: -1}})

	cursor, err := s.submissions.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subs := []models.Submission{}
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}

	return models.NewPaginatedResponse(subs, total, params), nil
}

// GetUserSubmissions lists submissions across all of the caller's forms,
// each row annotated with its form title.
func (s *Service) GetUserSubmissions(ctx context.Context, userID primitive.ObjectID, params models.PaginationParams) (*models.PaginatedResponse, error) {
	params.Normalize()

	filter := bson.M{"formOwnerId": userID}
	if params.Status != "" {
		filter["status"] = params.Status
	}

	total, err := s.submissions.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit)).
		SetSort(bson.D{{Key: "submittedAt", Value: -1}})

	cursor, err := s.submissions.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	subs := []models.Submission{}
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, err
	}

	titles, err := s.formTitles(ctx, subs)
	if err != nil {
		return nil, err
	}

	rows := make([]models.SubmissionSummary, 0, len(subs))
	for _, sub := range subs {
		name, ok := titles[sub.FormID]
		if !ok {
			name = "Unknown Form"
		}
		rows = append(rows, models.SubmissionSummary{
			ID:            sub.ID,
			FormName:      name,
			SubmittedBy:   sub.SubmitterInfo.DisplayName(),
			SubmittedAt:   sub.SubmittedAt,
			Status:        sub.Status,
			ResponseCount: len(sub.Responses),
			SubmitterInfo: sub.SubmitterInfo,
		})
	}

	return models.NewPaginatedResponse(rows, total, params), nil
}

func (s *Service) formTitles(ctx context.Context, subs []models.Submission) (map[primitive.ObjectID]string, error) {
	ids := make([]primitive.ObjectID, 0, len(subs))
	seen := make(map[primitive.ObjectID]bool, len(subs))
	for _, sub := range subs {
		if !seen[sub.FormID] {
			seen[sub.FormID] = true
			ids = append(ids, sub.FormID)
		}
	}
	if len(ids) == 0 {
		return map[primitive.ObjectID]string{}, nil
	}

	opts := options.Find().SetProjection(bson.M{"title": 1})
	cursor, err := s.forms.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var forms []models.Form
	if err = cursor.All(ctx, &forms); err != nil {
		return nil, err
	}

	titles := make(map[primitive.ObjectID]string, len(forms))
	for _, f := range forms {
		titles[f.ID] = f.Title
	}
	return titles, nil
}

// SubmissionDetails pairs a submission with its form's title and questions
// for the detail view.
type SubmissionDetails struct {
	Submission    models.Submission `json:"submission"`
	FormTitle     string            `json:"formTitle"`
	FormQuestions []models.Question `json:"formQuestions,omitempty"`
}

func (s *Service) GetSubmissionDetails(ctx context.Context, submissionID, userID primitive.ObjectID) (*SubmissionDetails, error) {
	var sub models.Submission
	err := s.submissions.FindOne(ctx, bson.M{"_id": submissionID, "formOwnerId": userID}).Decode(&sub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}

	details := &SubmissionDetails{Submission: sub}

	var form models.Form
	err = s.forms.FindOne(ctx, bson.M{"_id": sub.FormID},
		options.FindOne().SetProjection(bson.M{"title": 1, "questions": 1})).Decode(&form)
	if err == nil {
		details.FormTitle = form.Title
		details.FormQuestions = form.Questions
	}

	return details, nil
}

// UpdateSubmissionStatus moves a submission through its review states.
// Status is the only mutable field after creation.
func (s *Service) UpdateSubmissionStatus(ctx context.Context, submissionID, userID primitive.ObjectID, status string) (*models.Submission, error) {
	if !models.ValidSubmissionStatus(status) {
		return nil, ErrInvalidStatus
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var sub models.Submission
	err := s.submissions.FindOneAndUpdate(ctx,
		bson.M{"_id": submissionID, "formOwnerId": userID},
		bson.M{"$set": bson.M{"status": status}},
		opts,
	).Decode(&sub)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// ExportCSV renders every submission of a form as CSV, one column per
// current form question plus the submitter columns.
func (s *Service) ExportCSV(ctx context.Context, formID, userID primitive.ObjectID) ([]byte, string, error) {
	var form models.Form
	err := s.forms.FindOne(ctx, bson.M{"_id": formID, "userId": userID}).Decode(&form)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, "", ErrFormNotFound
		}
		return nil, "", err
	}

	opts := options.Find().SetSort(bson.D{{Key: "submittedAt", Value: 1}})
	cursor, err := s.submissions.Find(ctx, bson.M{"formId": formID}, opts)
	if err != nil {
		return nil, "", err
	}
	defer cursor.Close(ctx)

	var subs []models.Submission
	if err = cursor.All(ctx, &subs); err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Submitted At", "Status", "Name", "Email"}
	for _, q := range form.Questions {
		header = append(header, q.Question)
	}
	if err := w.Write(header); err != nil {
		return nil, "", err
	}

	for _, sub := range subs {
		byQuestion := make(map[string]interface{}, len(sub.Responses))
		for _, r := range sub.Responses {
			byQuestion[r.QuestionID] = r.Answer
		}

		row := []string{
			sub.SubmittedAt.Format(time.RFC3339),
			sub.Status,
			sub.SubmitterInfo.Name,
			sub.SubmitterInfo.Email,
		}
		for _, q := range form.Questions {
			row = append(row, formatAnswer(byQuestion[q.ID]))
		}
		if err := w.Write(row); err != nil {
			return nil, "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s-submissions.csv", formID.Hex())
	return buf.Bytes(), filename, nil
}

func (s *Service) checkOwnership(ctx context.Context, formID, userID primitive.ObjectID) error {
	err := s.forms.FindOne(ctx, bson.M{"_id": formID, "userId": userID},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrFormNotFound
		}
		return err
	}
	return nil
}
