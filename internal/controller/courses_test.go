package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursedesk/coursedesk/internal/models"
	appErrors "github.com/coursedesk/coursedesk/pkg/errors"
)

type fakeCourseGateway struct {
	courses     []models.Course
	deleteCalls int
	deleteErr   error
}

func (f *fakeCourseGateway) ListCourses(ctx context.Context) ([]models.Course, error) {
	return f.courses, nil
}

func (f *fakeCourseGateway) CreateCourse(ctx context.Context, input models.CourseInput) (*models.Course, error) {
	course := models.Course{ID: int64(len(f.courses) + 1), CourseCode: input.CourseCode, CourseName: input.CourseName, Credits: input.Credits, Instructor: input.Instructor, Status: models.CourseStatusActive}
	f.courses = append(f.courses, course)
	return &course, nil
}

func (f *fakeCourseGateway) UpdateCourse(ctx context.Context, id int64, input models.CourseInput) (*models.Course, error) {
	return &models.Course{ID: id, CourseCode: input.CourseCode, CourseName: input.CourseName, Credits: input.Credits, Instructor: input.Instructor}, nil
}

func (f *fakeCourseGateway) DeleteCourse(ctx context.Context, id int64) error {
	f.deleteCalls++
	return f.deleteErr
}

func fixtureCourses() []models.Course {
	return []models.Course{
		{ID: 1, CourseCode: "CS201", CourseName: "Algorithms", Credits: 4, Instructor: "Dana", Status: models.CourseStatusActive,
			Enrollments: []models.Enrollment{{ID: 10, StudentID: 1, CourseID: 1, Status: models.EnrollmentStatusEnrolled}}},
		{ID: 2, CourseCode: "CS305", CourseName: "Database Systems", Credits: 3, Instructor: "Priya", Status: models.CourseStatusActive},
	}
}

func TestCourseDeleteGuardDeniesBeforeGatewayCall(t *testing.T) {
	gw := &fakeCourseGateway{courses: fixtureCourses()}
	ctl := NewCourses(gw, newNotifier(), nil, nil)
	require.NoError(t, ctl.Load(context.Background()))

	err := ctl.Delete(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrHasEnrollments.Code))
	// The guard runs first: no gateway call for a course with enrollments.
	assert.Zero(t, gw.deleteCalls)
	assert.Len(t, ctl.Collection(), 2)
}

func TestCourseDeleteMapsServer400ToDependentRecords(t *testing.T) {
	gw := &fakeCourseGateway{courses: fixtureCourses()}
	// The client's view is stale: course 2 looks empty but the server knows
	// better and answers 400.
	gw.deleteErr = appErrors.Clone(appErrors.ErrValidation, "Cannot delete course with enrolled students")
	ctl := NewCourses(gw, newNotifier(), nil, nil)
	require.NoError(t, ctl.Load(context.Background()))

	err := ctl.Delete(context.Background(), 2)

	require.Error(t, err)
	assert.Equal(t, 1, gw.deleteCalls)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrHasEnrollments.Code))
}

func TestCourseDeleteWithoutEnrollmentsSucceeds(t *testing.T) {
	gw := &fakeCourseGateway{courses: fixtureCourses()}
	ctl := NewCourses(gw, newNotifier(), nil, nil)
	require.NoError(t, ctl.Load(context.Background()))

	require.NoError(t, ctl.Delete(context.Background(), 2))

	assert.Equal(t, 1, gw.deleteCalls)
	assert.Len(t, ctl.Collection(), 1)
}

func TestCourseCreateValidatesInput(t *testing.T) {
	gw := &fakeCourseGateway{}
	ctl := NewCourses(gw, newNotifier(), nil, nil)

	_, err := ctl.Create(context.Background(), models.CourseInput{CourseName: "No Code", Credits: -1})

	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
}
