package detail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursedesk/coursedesk/internal/models"
	appErrors "github.com/coursedesk/coursedesk/pkg/errors"
)

type fakeDetailGateway struct {
	student *models.Student
	course  *models.Course
}

func (f *fakeDetailGateway) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	if f.student == nil || f.student.ID != id {
		return nil, appErrors.ErrNotFound
	}
	return f.student, nil
}

func (f *fakeDetailGateway) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	if f.course == nil || f.course.ID != id {
		return nil, appErrors.ErrNotFound
	}
	return f.course, nil
}

func grade(v float64) *float64 { return &v }

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name        string
		enrollments []models.Enrollment
		want        Stats
	}{
		{
			name: "counts and one-decimal average",
			enrollments: []models.Enrollment{
				{Status: models.EnrollmentStatusCompleted, Grade: grade(91.5)},
				{Status: models.EnrollmentStatusCompleted, Grade: grade(78)},
				{Status: models.EnrollmentStatusEnrolled},
			},
			want: Stats{CompletedCount: 2, ActiveCount: 1, AverageGrade: 84.8},
		},
		{
			// Absence of grades is "no grade yet", not zero: the average is
			// a defined 0, never NaN.
			name: "no grades yields zero average",
			enrollments: []models.Enrollment{
				{Status: models.EnrollmentStatusEnrolled},
				{Status: models.EnrollmentStatusEnrolled},
			},
			want: Stats{ActiveCount: 2, AverageGrade: 0},
		},
		{
			name: "empty set",
			want: Stats{},
		},
		{
			name: "ungraded enrollments excluded from the mean",
			enrollments: []models.Enrollment{
				{Status: models.EnrollmentStatusCompleted, Grade: grade(60)},
				{Status: models.EnrollmentStatusEnrolled},
				{Status: models.EnrollmentStatusDropped},
			},
			want: Stats{CompletedCount: 1, ActiveCount: 1, AverageGrade: 60},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStats(tt.enrollments)
			assert.Equal(t, tt.want, got)
			assert.False(t, got.AverageGrade != got.AverageGrade, "average must never be NaN")
		})
	}
}

func TestStudentProfile(t *testing.T) {
	gw := &fakeDetailGateway{student: &models.Student{
		ID: 1, FirstName: "Alice", LastName: "Nguyen",
		Enrollments: []models.Enrollment{
			{ID: 10, Status: models.EnrollmentStatusCompleted, Grade: grade(91.5)},
			{ID: 11, Status: models.EnrollmentStatusEnrolled},
		},
	}}
	agg := NewAggregator(gw, nil)

	profile, err := agg.StudentProfile(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Alice Nguyen", profile.Student.FullName())
	assert.Equal(t, Stats{CompletedCount: 1, ActiveCount: 1, AverageGrade: 91.5}, profile.Stats)
}

func TestCourseDetailNotFound(t *testing.T) {
	agg := NewAggregator(&fakeDetailGateway{}, nil)

	_, err := agg.CourseDetail(context.Background(), 42)

	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))
}
