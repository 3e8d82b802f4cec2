package controller

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursedesk/coursedesk/internal/models"
	"github.com/coursedesk/coursedesk/internal/notify"
	appErrors "github.com/coursedesk/coursedesk/pkg/errors"
)

type courseGateway interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	CreateCourse(ctx context.Context, input models.CourseInput) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, input models.CourseInput) (*models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
}

// Courses manages the course list screen's state.
type Courses struct {
	*Controller[models.Course]
	gw       courseGateway
	validate *validator.Validate
}

// NewCourses constructs the course resource controller.
func NewCourses(gw courseGateway, notifier *notify.Scheduler, validate *validator.Validate, logger *zap.Logger) *Courses {
	if validate == nil {
		validate = validator.New()
	}
	c := &Courses{gw: gw, validate: validate}
	c.Controller = New("courses", gw.ListCourses, notifier, logger)
	return c
}

// Create validates the form input and registers a new course.
func (c *Courses) Create(ctx context.Context, input models.CourseInput) (*models.Course, error) {
	if err := c.validate.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	return c.Controller.Create(ctx, func(ctx context.Context) (*models.Course, error) {
		return c.gw.CreateCourse(ctx, input)
	})
}

// Update validates the form input and patches the course in place.
func (c *Courses) Update(ctx context.Context, id int64, input models.CourseInput) error {
	if err := c.validate.Struct(input); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	return c.Controller.Update(ctx, id, func(ctx context.Context) (*models.Course, error) {
		return c.gw.UpdateCourse(ctx, id, input)
	}, "Course updated successfully!")
}

// Delete removes a course. A course with enrolled students cannot be deleted:
// the guard denies the action before the gateway is called, and a 400-class
// rejection from the server is mapped to the same dependent-records error.
// The server stays the authority; the guard is UX only.
func (c *Courses) Delete(ctx context.Context, id int64) error {
	guard := func(course models.Course) error {
		if course.HasEnrollments() {
			return appErrors.ErrHasEnrollments
		}
		return nil
	}
	return c.Controller.Delete(ctx, id, guard, func(ctx context.Context) error {
		err := c.gw.DeleteCourse(ctx, id)
		if err == nil {
			return nil
		}
		var apiErr *appErrors.Error
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 && apiErr.Status != 404 {
			return appErrors.ErrHasEnrollments
		}
		return err
	})
}
