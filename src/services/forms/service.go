package forms

import (
	"context"
	"errors"
	"log"
	"time"

	"Backend-AirForm/src/models"
	"Backend-AirForm/src/services/slug"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrFormNotFound = errors.New("form not found")
	ErrSlugTaken    = errors.New("custom url already taken")
)

// Service owns the forms collection. Submissions are touched only on the
// cascading delete path.
type Service struct {
	forms       *mongo.Collection
	submissions *mongo.Collection
	users       *mongo.Collection
	slugs       *slug.Generator
}

func NewService(db *mongo.Database, tokens slug.TokenSource) *Service {
	s := &Service{
		forms:       db.Collection("forms"),
		submissions: db.Collection("submissions"),
		users:       db.Collection("users"),
	}
	s.slugs = slug.NewGenerator(tokens, s.customURLExists)
	return s
}

func (s *Service) customURLExists(ctx context.Context, customURL string) (bool, error) {
	count, err := s.forms.CountDocuments(ctx, bson.M{"customUrl": customURL})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateForm persists a new form. Forms created from the builder are
// published immediately. The shareable link and custom URL are assigned here,
// exactly once; a duplicate-key rejection from the unique slug index is the
// final arbiter when the optimistic uniqueness check raced another creation.
func (s *Service) CreateForm(ctx context.Context, userID primitive.ObjectID, req *models.CreateFormRequest) (*models.Form, error) {
	now := time.Now()

	settings := models.DefaultFormSettings()
	if req.Settings != nil {
		settings = *req.Settings
	}

	questions := make([]models.Question, len(req.Questions))
	for i, q := range req.Questions {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		questions[i] = q
	}

	form := &models.Form{
		ID:              primitive.NewObjectID(),
		Title:           req.Title,
		Description:     req.Description,
		UserID:          userID,
		Questions:       questions,
		BackgroundMedia: req.BackgroundMedia,
		Settings:        settings,
		Status:          models.FormStatusPublished,
		ShareableLink:   s.slugs.ShareableLink(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if form.Title != "" {
		form.CustomURL = s.slugs.CustomURL(ctx, form.Title, s.ownerName(ctx, userID))
	}

	if _, err := s.forms.InsertOne(ctx, form); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	log.Printf("[form] created id=%s customUrl=%q link=%s", form.ID.Hex(), form.CustomURL, form.ShareableLink)
	return form, nil
}

func (s *Service) ownerName(ctx context.Context, userID primitive.ObjectID) string {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return ""
	}
	return user.Name
}

// GetUserForms lists the caller's forms, most recently updated first.
func (s *Service) GetUserForms(ctx context.Context, userID primitive.ObjectID, params models.PaginationParams) (*models.PaginatedResponse, error) {
	params.Normalize()

	filter := bson.M{"userId": userID}
	if params.Status != "" {
		filter["status"] = params.Status
	}

	total, err := s.forms.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSkip(params.GetSkip()).
		SetLimit(int64(params.Limit)).
		SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	cursor, err := s.forms.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	forms := []models.Form{}
	if err = cursor.All(ctx, &forms); err != nil {
		return nil, err
	}

	return models.NewPaginatedResponse(forms, total, params), nil
}

// GetFormByID returns a form only to its owner.
func (s *Service) GetFormByID(ctx context.Context, formID, userID primitive.ObjectID) (*models.Form, error) {
	var form models.Form
	err := s.forms.FindOne(ctx, bson.M{"_id": formID, "userId": userID}).Decode(&form)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	return &form, nil
}

// GetFormByLink resolves a published form by custom URL or shareable link and
// counts the view. The visitor-facing fields are returned along with the
// owner's display name.
func (s *Service) GetFormByLink(ctx context.Context, link string) (*models.PublicForm, error) {
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

	_, err = s.forms.UpdateByID(ctx, form.ID, bson.M{"$inc": bson.M{"analytics.views": 1}})
	if err != nil {
		return nil, err
	}

	return &models.PublicForm{
		ID:              form.ID,
		Title:           form.Title,
		Description:     form.Description,
		Questions:       form.Questions,
		BackgroundMedia: form.BackgroundMedia,
		Settings:        form.Settings,
		CreatedBy:       s.ownerName(ctx, form.UserID),
	}, nil
}

// UpdateForm applies a partial edit for the owner and bumps updatedAt. The
// link, slug and analytics counters are immutable through this path.
func (s *Service) UpdateForm(ctx context.Context, formID, userID primitive.ObjectID, req *models.UpdateFormRequest) (*models.Form, error) {
	set := bson.M{"updatedAt": time.Now()}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Questions != nil {
		questions := *req.Questions
		for i := range questions {
			if questions[i].ID == "" {
				questions[i].ID = uuid.NewString()
			}
		}
		set["questions"] = questions
	}
	if req.BackgroundMedia != nil {
		set["backgroundMedia"] = req.BackgroundMedia
	}
	if req.Settings != nil {
		set["settings"] = req.Settings
	}
	if req.Status != nil {
		set["status"] = *req.Status
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var form models.Form
	err := s.forms.FindOneAndUpdate(ctx,
		bson.M{"_id": formID, "userId": userID},
		bson.M{"$set": set},
		opts,
	).Decode(&form)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrFormNotFound
		}
		return nil, err
	}
	return &form, nil
}

// DeleteForm removes an owner's form and cascades to all of its submissions.
// This is the only path that may leave submissions without a form, and it
// removes them in the same call.
func (s *Service) DeleteForm(ctx context.Context, formID, userID primitive.ObjectID) error {
	err := s.forms.FindOneAndDelete(ctx, bson.M{"_id": formID, "userId": userID}).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrFormNotFound
		}
		return err
	}

	res, err := s.submissions.DeleteMany(ctx, bson.M{"formId": formID})
	if err != nil {
		return err
	}

	log.Printf("[form] deleted id=%s cascadedSubmissions=%d", formID.Hex(), res.DeletedCount)
	return nil
}
