package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CreateFormRequest is the builder's payload for a new form.
type CreateFormRequest struct {
	Title           string           `json:"title" validate:"required"`
	Description     string           `json:"description"`
	Questions       []Question       `json:"questions" validate:"dive"`
	BackgroundMedia *BackgroundMedia `json:"backgroundMedia,omitempty"`
	Settings        *FormSettings    `json:"settings,omitempty"`
}

// UpdateFormRequest carries partial form edits. shareableLink, customUrl and
// analytics are not updatable through this path.
type UpdateFormRequest struct {
	Title           *string          `json:"title,omitempty"`
	Description     *string          `json:"description,omitempty"`
	Questions       *[]Question      `json:"questions,omitempty" validate:"omitempty,dive"`
	BackgroundMedia *BackgroundMedia `json:"backgroundMedia,omitempty"`
	Settings        *FormSettings    `json:"settings,omitempty"`
	Status          *string          `json:"status,omitempty" validate:"omitempty,oneof=draft published archived"`
}

// PublicForm is the reduced view served to anonymous visitors of a shareable
// link.
type PublicForm struct {
	ID              primitive.ObjectID `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Questions       []Question         `json:"questions"`
	BackgroundMedia *BackgroundMedia   `json:"backgroundMedia,omitempty"`
	Settings        FormSettings       `json:"settings"`
	CreatedBy       string             `json:"createdBy"`
}
