package controller

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursedesk/coursedesk/internal/models"
	"github.com/coursedesk/coursedesk/internal/notify"
	appErrors "github.com/coursedesk/coursedesk/pkg/errors"
)

type enrollmentGateway interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	Enroll(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error)
	SetGrade(ctx context.Context, enrollmentID int64, grade float64) (*models.Enrollment, error)
}

// Enrollments manages the enrollment list screen's state. The backend has no
// list-enrollments endpoint; the collection is flattened out of the student
// list, whose enrollments come pre-joined with course display fields.
type Enrollments struct {
	*Controller[models.Enrollment]
	gw       enrollmentGateway
	validate *validator.Validate
}

// NewEnrollments constructs the enrollment resource controller.
func NewEnrollments(gw enrollmentGateway, notifier *notify.Scheduler, validate *validator.Validate, logger *zap.Logger) *Enrollments {
	if validate == nil {
		validate = validator.New()
	}
	e := &Enrollments{gw: gw, validate: validate}
	e.Controller = New("enrollments", e.loadAll, notifier, logger)
	return e
}

func (e *Enrollments) loadAll(ctx context.Context) ([]models.Enrollment, error) {
	students, err := e.gw.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	var enrollments []models.Enrollment
	for _, student := range students {
		for _, enr := range student.Enrollments {
			if enr.StudentName == "" {
				enr.StudentName = student.FullName()
			}
			enrollments = append(enrollments, enr)
		}
	}
	return enrollments, nil
}

// Enroll registers a student in a course. Enrolling touches the rosters of
// both sibling resources, so the collection is reloaded rather than patched.
func (e *Enrollments) Enroll(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	input := models.EnrollmentInput{StudentID: studentID, CourseID: courseID}
	if err := e.validate.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	enrollment, err := e.gw.Enroll(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if err := e.Load(ctx); err != nil {
		return enrollment, err
	}
	return enrollment, nil
}

// SetGrade records a grade for one enrollment. A grade affects only its own
// record, so the returned entity is patched in place.
func (e *Enrollments) SetGrade(ctx context.Context, enrollmentID int64, grade float64) error {
	input := models.GradeInput{Grade: grade}
	if err := e.validate.Struct(input); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "grade must be between 0 and 100")
	}
	return e.Update(ctx, enrollmentID, func(ctx context.Context) (*models.Enrollment, error) {
		return e.gw.SetGrade(ctx, enrollmentID, grade)
	}, fmt.Sprintf("Grade %.1f saved successfully!", grade))
}
