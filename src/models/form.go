package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Form lifecycle states
const (
	FormStatusDraft     = "draft"
	FormStatusPublished = "published"
	FormStatusArchived  = "archived"
)

// --- Form ---
type Form struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`

	Questions []Question `bson:"questions" json:"questions"`

	BackgroundMedia *BackgroundMedia `bson:"backgroundMedia,omitempty" json:"backgroundMedia,omitempty"`
	Settings        FormSettings     `bson:"settings" json:"settings"`

	// Denormalized counters. completionRate is always derived as
	// round(submissions/views*100) at submit time, never set directly.
	Analytics FormAnalytics `bson:"analytics" json:"analytics"`

	Status string `bson:"status" json:"status"`

	// Both are assigned once at creation and never regenerated.
	ShareableLink string `bson:"shareableLink" json:"shareableLink"`
	CustomURL     string `bson:"customUrl,omitempty" json:"customUrl,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// --- Question ---
type Question struct {
	ID          string   `bson:"id" json:"id"`
	Question    string   `bson:"question" json:"question" validate:"required"`
	Type        string   `bson:"type" json:"type" validate:"required,oneof=text email number textarea select radio checkbox date file tel url password"`
	Placeholder string   `bson:"placeholder" json:"placeholder"`
	Options     []string `bson:"options,omitempty" json:"options,omitempty"`
	Required    bool     `bson:"required" json:"required"`

	Validation *QuestionValidation `bson:"validation,omitempty" json:"validation,omitempty"`
}

type QuestionValidation struct {
	MinLength *int   `bson:"minLength,omitempty" json:"minLength,omitempty"`
	MaxLength *int   `bson:"maxLength,omitempty" json:"maxLength,omitempty"`
	Pattern   string `bson:"pattern,omitempty" json:"pattern,omitempty"`
}

type BackgroundMedia struct {
	Type string `bson:"type,omitempty" json:"type,omitempty" validate:"omitempty,oneof=image video"`
	URL  string `bson:"url,omitempty" json:"url,omitempty"`
	Name string `bson:"name,omitempty" json:"name,omitempty"`
}

type FormSettings struct {
	IsPublic                 bool        `bson:"isPublic" json:"isPublic"`
	AllowMultipleSubmissions bool        `bson:"allowMultipleSubmissions" json:"allowMultipleSubmissions"`
	ShowProgressBar          bool        `bson:"showProgressBar" json:"showProgressBar"`
	RequireName              bool        `bson:"requireName" json:"requireName"`
	RequireEmail             bool        `bson:"requireEmail" json:"requireEmail"`
	ShowTitle                bool        `bson:"showTitle" json:"showTitle"`
	ShowDescription          bool        `bson:"showDescription" json:"showDescription"`
	CustomTheme              CustomTheme `bson:"customTheme" json:"customTheme"`
}

type CustomTheme struct {
	PrimaryColor    string `bson:"primaryColor" json:"primaryColor"`
	BackgroundColor string `bson:"backgroundColor" json:"backgroundColor"`
}

type FormAnalytics struct {
	Views          int64 `bson:"views" json:"views"`
	Submissions    int64 `bson:"submissions" json:"submissions"`
	CompletionRate int   `bson:"completionRate" json:"completionRate"`
}

// DefaultFormSettings are applied when the builder sends no settings block.
func DefaultFormSettings() FormSettings {
	return FormSettings{
		IsPublic:                 true,
		AllowMultipleSubmissions: true,
		ShowProgressBar:          true,
		RequireName:              true,
		RequireEmail:             false,
		ShowTitle:                true,
		ShowDescription:          true,
		CustomTheme: CustomTheme{
			PrimaryColor:    "#3b82f6",
			BackgroundColor: "#ffffff",
		},
	}
}
