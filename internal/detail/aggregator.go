// Package detail composes a primary entity with its related enrollments and
// derived statistics for single-entity views.
package detail

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/coursedesk/coursedesk/internal/models"
)

type detailGateway interface {
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
}

// Stats are the derived figures shown on detail screens.
type Stats struct {
	CompletedCount int
	ActiveCount    int
	// AverageGrade is the mean of the non-nil grades rounded to one decimal.
	// It is 0 when no grades exist, never NaN.
	AverageGrade float64
}

// StudentProfile is a student with derived statistics, computed from a single
// fetch so the derived values can never be stale against the raw data.
type StudentProfile struct {
	Student models.Student
	Stats   Stats
}

// CourseDetail is a course with derived statistics.
type CourseDetail struct {
	Course models.Course
	Stats  Stats
}

// Aggregator builds detail views. There is no caching: every call is a fresh
// fetch, and calling again is the refresh operation.
type Aggregator struct {
	gw     detailGateway
	logger *zap.Logger
}

// NewAggregator constructs an Aggregator.
func NewAggregator(gw detailGateway, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{gw: gw, logger: logger}
}

// StudentProfile fetches a student pre-joined with enrollments and derives
// statistics. Not-found surfaces as a typed error for the empty state.
func (a *Aggregator) StudentProfile(ctx context.Context, id int64) (*StudentProfile, error) {
	student, err := a.gw.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	return &StudentProfile{Student: *student, Stats: ComputeStats(student.Enrollments)}, nil
}

// CourseDetail fetches a course pre-joined with its roster and derives
// statistics.
func (a *Aggregator) CourseDetail(ctx context.Context, id int64) (*CourseDetail, error) {
	course, err := a.gw.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CourseDetail{Course: *course, Stats: ComputeStats(course.Enrollments)}, nil
}

// ComputeStats derives counts and the average grade from an enrollment set.
func ComputeStats(enrollments []models.Enrollment) Stats {
	var stats Stats
	var sum float64
	var graded int
	for _, enr := range enrollments {
		switch enr.Status {
		case models.EnrollmentStatusCompleted:
			stats.CompletedCount++
		case models.EnrollmentStatusEnrolled:
			stats.ActiveCount++
		}
		if enr.Grade != nil {
			sum += *enr.Grade
			graded++
		}
	}
	if graded > 0 {
		stats.AverageGrade = math.Round(sum/float64(graded)*10) / 10
	}
	return stats
}
