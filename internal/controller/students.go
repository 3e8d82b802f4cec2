package controller

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursedesk/coursedesk/internal/models"
	"github.com/coursedesk/coursedesk/internal/notify"
	appErrors "github.com/coursedesk/coursedesk/pkg/errors"
)

type studentGateway interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	CreateStudent(ctx context.Context, input models.StudentInput) (*models.Student, error)
	UpdateStudent(ctx context.Context, id int64, input models.StudentInput) (*models.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

// Students manages the student list screen's state.
type Students struct {
	*Controller[models.Student]
	gw       studentGateway
	validate *validator.Validate
}

// NewStudents constructs the student resource controller.
func NewStudents(gw studentGateway, notifier *notify.Scheduler, validate *validator.Validate, logger *zap.Logger) *Students {
	if validate == nil {
		validate = validator.New()
	}
	s := &Students{gw: gw, validate: validate}
	s.Controller = New("students", gw.ListStudents, notifier, logger)
	return s
}

// Create validates the form input and registers a new student.
func (s *Students) Create(ctx context.Context, input models.StudentInput) (*models.Student, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	return s.Controller.Create(ctx, func(ctx context.Context) (*models.Student, error) {
		return s.gw.CreateStudent(ctx, input)
	})
}

// Update validates the form input and patches the student in place.
func (s *Students) Update(ctx context.Context, id int64, input models.StudentInput) error {
	if err := s.validate.Struct(input); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	return s.Controller.Update(ctx, id, func(ctx context.Context) (*models.Student, error) {
		return s.gw.UpdateStudent(ctx, id, input)
	}, "Student updated successfully!")
}

// Delete removes a student. There is no client-side precondition; the action
// is an explicit operator decision.
func (s *Students) Delete(ctx context.Context, id int64) error {
	return s.Controller.Delete(ctx, id, nil, func(ctx context.Context) error {
		return s.gw.DeleteStudent(ctx, id)
	})
}
