package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursedesk/coursedesk/internal/models"
	"github.com/coursedesk/coursedesk/internal/notify"
	appErrors "github.com/coursedesk/coursedesk/pkg/errors"
)

type fakeEnrollmentGateway struct {
	students   []models.Student
	gradeCalls []float64
	gradeErr   error
}

func (f *fakeEnrollmentGateway) ListStudents(ctx context.Context) ([]models.Student, error) {
	return f.students, nil
}

func (f *fakeEnrollmentGateway) Enroll(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	enrollment := models.Enrollment{ID: 100, StudentID: studentID, CourseID: courseID, Status: models.EnrollmentStatusEnrolled}
	for i := range f.students {
		if f.students[i].ID == studentID {
			f.students[i].Enrollments = append(f.students[i].Enrollments, enrollment)
		}
	}
	return &enrollment, nil
}

func (f *fakeEnrollmentGateway) SetGrade(ctx context.Context, enrollmentID int64, grade float64) (*models.Enrollment, error) {
	if f.gradeErr != nil {
		return nil, f.gradeErr
	}
	f.gradeCalls = append(f.gradeCalls, grade)
	return &models.Enrollment{ID: enrollmentID, StudentID: 1, CourseID: 1, StudentName: "Alice Nguyen",
		Status: models.EnrollmentStatusEnrolled, Grade: &grade, GradeLetter: "B"}, nil
}

func enrollmentFixture() []models.Student {
	return []models.Student{
		{ID: 1, FirstName: "Alice", LastName: "Nguyen", Email: "alice@example.com",
			Enrollments: []models.Enrollment{{ID: 10, StudentID: 1, CourseID: 1, CourseName: "Algorithms", CourseCode: "CS201", Status: models.EnrollmentStatusEnrolled}}},
		{ID: 2, FirstName: "Bob", LastName: "Okafor", Email: "bob@example.com"},
	}
}

func TestEnrollmentsLoadFlattensStudents(t *testing.T) {
	gw := &fakeEnrollmentGateway{students: enrollmentFixture()}
	ctl := NewEnrollments(gw, newNotifier(), nil, nil)

	require.NoError(t, ctl.Load(context.Background()))

	collection := ctl.Collection()
	require.Len(t, collection, 1)
	// The student name is joined in for display and filtering.
	assert.Equal(t, "Alice Nguyen", collection[0].StudentName)

	ctl.SetFilter("algor")
	assert.Len(t, ctl.Visible(), 1)
	ctl.SetFilter("bob")
	assert.Empty(t, ctl.Visible())
}

func TestSetGradePatchesEnrollment(t *testing.T) {
	gw := &fakeEnrollmentGateway{students: enrollmentFixture()}
	notifier := newNotifier()
	ctl := NewEnrollments(gw, notifier, nil, nil)
	require.NoError(t, ctl.Load(context.Background()))

	require.NoError(t, ctl.SetGrade(context.Background(), 10, 85.5))

	require.Equal(t, []float64{85.5}, gw.gradeCalls)
	updated, ok := ctl.Get(10)
	require.True(t, ok)
	require.NotNil(t, updated.Grade)
	assert.Equal(t, 85.5, *updated.Grade)
	// The letter grade reflects the backend-returned value.
	assert.Equal(t, "B", updated.GradeLetter)

	msg, visible := notifier.Message(ctl.Key(10))
	require.True(t, visible)
	assert.Equal(t, notify.KindSuccess, msg.Kind)
	assert.Equal(t, "Grade 85.5 saved successfully!", msg.Text)
}

func TestSetGradeRejectsOutOfRange(t *testing.T) {
	gw := &fakeEnrollmentGateway{students: enrollmentFixture()}
	ctl := NewEnrollments(gw, newNotifier(), nil, nil)
	require.NoError(t, ctl.Load(context.Background()))

	err := ctl.SetGrade(context.Background(), 10, 101)

	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
	assert.Empty(t, gw.gradeCalls)
}

func TestEnrollReloadsCollection(t *testing.T) {
	gw := &fakeEnrollmentGateway{students: enrollmentFixture()}
	ctl := NewEnrollments(gw, newNotifier(), nil, nil)
	require.NoError(t, ctl.Load(context.Background()))
	require.Len(t, ctl.Collection(), 1)

	enrollment, err := ctl.Enroll(context.Background(), 2, 1)

	require.NoError(t, err)
	assert.Equal(t, int64(100), enrollment.ID)
	// Enrolling affects sibling rosters, so the collection is reloaded.
	assert.Len(t, ctl.Collection(), 2)
}
