// Package analytics computes the read-only rollups behind the single-form
// analytics view and the dashboard. Totals come from the counters stored on
// the form; only the time series are aggregated from submissions. The two
// reads per view are not wrapped in a transaction; a small inconsistency
// window is acceptable here.
package analytics

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"Backend-AirForm/src/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrFormNotFound = errors.New("form not found")

const (
	defaultDashboardDays = 14
	recentFormLimit      = 10
	recentDashboardLimit = 5
)

type Service struct {
	forms       *mongo.Collection
	submissions *mongo.Collection
}

func NewService(db *mongo.Database) *Service {
	return &Service{
		forms:       db.Collection("forms"),
		submissions: db.Collection("submissions"),
	}
}

// DayBucket is one day of the single-form time series, keyed YYYY-MM-DD.
type DayBucket struct {
	Date  string `bson:"_id" json:"date"`
	Count int64  `bson:"count" json:"count"`
}

// TrendBucket is one day of the dashboard series, keyed by a short month-day
// label. EstimatedViews is synthesized from a random factor per submission
// and must be read as an estimate, not telemetry.
type TrendBucket struct {
	Label          string  `bson:"_id" json:"date"`
	Responses      int64   `bson:"responses" json:"responses"`
	EstimatedViews float64 `bson:"views" json:"estimatedViews"`
}

// RecentSubmission is a reduced submission row for the analytics panels.
type RecentSubmission struct {
	ID            primitive.ObjectID    `bson:"_id" json:"id"`
	FormID        primitive.ObjectID    `bson:"formId" json:"formId"`
	FormTitle     string                `bson:"formTitle,omitempty" json:"formName,omitempty"`
	SubmitterInfo models.SubmitterInfo  `bson:"submitterInfo" json:"submitterInfo"`
	SubmittedBy   string                `bson:"-" json:"submittedBy"`
	SubmittedAt   time.Time             `bson:"submittedAt" json:"submittedAt"`
	Status        string                `bson:"status" json:"status"`
	Responses     []models.ResponseItem `bson:"responses,omitempty" json:"responses,omitempty"`
}

// FormAnalytics is the single-form analytics result.
type FormAnalytics struct {
	TotalViews          int64              `json:"totalViews"`
	TotalSubmissions    int64              `json:"totalSubmissions"`
	CompletionRate      int                `json:"completionRate"`
	SubmissionsOverTime []DayBucket        `json:"submissionsOverTime"`
	RecentSubmissions   []RecentSubmission `json:"recentSubmissions"`
}

// DashboardAnalytics is the cross-forms analytics result.
type DashboardAnalytics struct {
	TotalForms            int                `json:"totalForms"`
	TotalViews            int64              `json:"totalViews"`
	TotalSubmissions      int64              `json:"totalSubmissions"`
	AverageCompletionRate float64            `json:"averageCompletionRate"`
	SubmissionsOverTime   []TrendBucket      `json:"submissionsOverTime"`
	RecentSubmissions     []RecentSubmission `json:"recentSubmissions"`
}

// VerifyFormOwner confirms formID belongs to userID without loading the
// rollup. The summary cache read goes through here so one owner cannot read
// another owner's cached summary by form id.
func (s *Service) VerifyFormOwner(ctx context.Context, formID, userID primitive.ObjectID) error {
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := s.forms.FindOne(ctx, bson.M{"_id": formID, "userId": userID}, opts).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrFormNotFound
		}
		return err
	}
	return nil
}

// GetFormAnalytics returns the rollup for one form owned by userID. Period is
// one of 7d/30d/90d; any other value leaves the series window unbounded.
// Totals are read from the form's stored counters, not recomputed.
func (s *Service) GetFormAnalytics(ctx context.Context, formID, userID primitive.ObjectID, period string) (*FormAnalytics, error) {
	var form models.Form
	err := s.forms.FindOne(ctx, bson.M{"_id": formID, "userId": userID}).Decode(&form)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFormNotFound
		}
		return nil, err
	}

	var since *time.Time
	if start, ok := resolvePeriodStart(period, time.Now()); ok {
		since = &start
	}

	cursor, err := s.submissions.Aggregate(ctx, formSubmissionsOverTimePipeline(formID, since))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	series := []DayBucket{}
	if err = cursor.All(ctx, &series); err != nil {
		return nil, err
	}

	// recent submissions are all-time, unfiltered by period
	recent, err := s.recentFormSubmissions(ctx, formID)
	if err != nil {
		return nil, err
	}

	return &FormAnalytics{
		TotalViews:          form.Analytics.Views,
		TotalSubmissions:    form.Analytics.Submissions,
		CompletionRate:      form.Analytics.CompletionRate,
		SubmissionsOverTime: series,
		RecentSubmissions:   recent,
	}, nil
}

func (s *Service) recentFormSubmissions(ctx context.Context, formID primitive.ObjectID) ([]RecentSubmission, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetLimit(recentFormLimit).
		SetProjection(bson.M{"formId": 1, "submitterInfo": 1, "submittedAt": 1, "status": 1, "responses": 1})

	cursor, err := s.submissions.Find(ctx, bson.M{"formId": formID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recent := []RecentSubmission{}
	if err = cursor.All(ctx, &recent); err != nil {
		return nil, err
	}
	for i := range recent {
		recent[i].SubmittedBy = recent[i].SubmitterInfo.DisplayName()
	}
	return recent, nil
}

// GetDashboardAnalytics aggregates across every form the user owns. Period
// is a day count suffixed "d" (for example "14d").
func (s *Service) GetDashboardAnalytics(ctx context.Context, userID primitive.ObjectID, period string) (*DashboardAnalytics, error) {
	since := time.Now().AddDate(0, 0, -parsePeriodDays(period, defaultDashboardDays))

	opts := options.Find().SetProjection(bson.M{"_id": 1, "analytics": 1})
	cursor, err := s.forms.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var forms []models.Form
	if err = cursor.All(ctx, &forms); err != nil {
		return nil, err
	}

	totalViews, totalSubmissions := sumFormTotals(forms)

	trendCursor, err := s.submissions.Aggregate(ctx, dashboardSubmissionsOverTimePipeline(userID, since))
	if err != nil {
		return nil, err
	}
	defer trendCursor.Close(ctx)

	trend := []TrendBucket{}
	if err = trendCursor.All(ctx, &trend); err != nil {
		return nil, err
	}

	recentCursor, err := s.submissions.Aggregate(ctx, recentSubmissionsWithFormPipeline(userID, recentDashboardLimit))
	if err != nil {
		return nil, err
	}
	defer recentCursor.Close(ctx)

	recent := []RecentSubmission{}
	if err = recentCursor.All(ctx, &recent); err != nil {
		return nil, err
	}
	for i := range recent {
		recent[i].SubmittedBy = recent[i].SubmitterInfo.DisplayName()
		if recent[i].FormTitle == "" {
			recent[i].FormTitle = "Unknown Form"
		}
		recent[i].Responses = nil
	}

	return &DashboardAnalytics{
		TotalForms:            len(forms),
		TotalViews:            totalViews,
		TotalSubmissions:      totalSubmissions,
		AverageCompletionRate: averageCompletionRate(forms),
		SubmissionsOverTime:   trend,
		RecentSubmissions:     recent,
	}, nil
}

// resolvePeriodStart maps the single-form period values to a window start.
// Unrecognized values report ok=false, which callers treat as "no filter".
func resolvePeriodStart(period string, now time.Time) (time.Time, bool) {
	switch period {
	case "7d":
		return now.AddDate(0, 0, -7), true
	case "30d":
		return now.AddDate(0, 0, -30), true
	case "90d":
		return now.AddDate(0, 0, -90), true
	}
	return time.Time{}, false
}

// parsePeriodDays strips the "d" suffix and parses the day count, falling
// back to def on anything unparseable or non-positive.
func parsePeriodDays(period string, def int) int {
	n, err := strconv.Atoi(strings.TrimSuffix(period, "d"))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func sumFormTotals(forms []models.Form) (views, submissions int64) {
	for _, f := range forms {
		views += f.Analytics.Views
		submissions += f.Analytics.Submissions
	}
	return views, submissions
}

// averageCompletionRate is the mean of the stored per-form rates, 0 when the
// user has no forms.
func averageCompletionRate(forms []models.Form) float64 {
	if len(forms) == 0 {
		return 0
	}
	var sum float64
	for _, f := range forms {
		sum += float64(f.Analytics.CompletionRate)
	}
	return sum / float64(len(forms))
}
