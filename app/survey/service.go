// Package survey records visitor feedback about the catalog.
package survey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lysyi3m/astrolearn/app/database"
)

const MaxPreferenceLength = 2000

var ErrUnknownObject = errors.New("object does not exist")

// Submission is one visitor answer. ObjectID optionally ties the answer to a
// catalog object.
type Submission struct {
	Email      string `json:"email" validate:"required,email,max=254"`
	Preference string `json:"preference" validate:"required,max=2000"`
	ObjectID   *int64 `json:"object_id" validate:"omitempty,gt=0"`
}

// ValidationError lists the submission fields that failed validation
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, rule := range e.Fields {
		parts = append(parts, field+" ("+rule+")")
	}
	return "invalid submission: " + strings.Join(parts, ", ")
}

type Service struct {
	feedback database.SurveyRepository
	objects  database.ObjectRepository
	validate *validator.Validate
	formURL  string
	now      func() time.Time
}

func NewService(feedback database.SurveyRepository, objects database.ObjectRepository, formURL string) *Service {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		feedback: feedback,
		objects:  objects,
		validate: validate,
		formURL:  formURL,
		now:      time.Now,
	}
}

// ExternalFormURL is the link to the hosted survey form, empty when none is configured
func (s *Service) ExternalFormURL() string {
	return s.formURL
}

// Submit validates and stores a submission, returning the feedback id
func (s *Service) Submit(ctx context.Context, submission Submission) (int64, error) {
	submission.Email = strings.TrimSpace(submission.Email)
	submission.Preference = strings.TrimSpace(submission.Preference)

	if err := s.validate.Struct(submission); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return 0, fmt.Errorf("failed to validate submission: %w", err)
		}

		fields := make(map[string]string, len(ve))
		for _, e := range ve {
			fields[e.Field()] = e.Tag()
		}
		return 0, &ValidationError{Fields: fields}
	}

	if submission.ObjectID != nil {
		obj, err := s.objects.GetObjectByID(ctx, *submission.ObjectID)
		if err != nil {
			return 0, err
		}
		if obj == nil {
			return 0, ErrUnknownObject
		}
	}

	id, err := s.feedback.InsertFeedback(ctx, database.SurveyFeedback{
		Email:       submission.Email,
		Preference:  submission.Preference,
		SubmittedAt: s.now(),
		ObjectID:    submission.ObjectID,
	})
	if err != nil {
		return 0, err
	}

	slog.Debug("Survey feedback stored", "id", id)
	return id, nil
}
