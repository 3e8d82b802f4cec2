package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses. The backend may emit other values; the
// client treats anything unknown as an opaque display string.
const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "ENROLLED"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentStatusDropped   EnrollmentStatus = "DROPPED"
)

// Enrollment joins a student to a course. The backend returns it pre-joined
// with student and course display fields. Grade is nil until a lecturer sets
// one; nil must render as "no grade yet", never as zero.
type Enrollment struct {
	ID             int64            `json:"id"`
	StudentID      int64            `json:"studentId"`
	StudentName    string           `json:"studentName,omitempty"`
	CourseID       int64            `json:"courseId"`
	CourseName     string           `json:"courseName,omitempty"`
	CourseCode     string           `json:"courseCode,omitempty"`
	EnrollmentDate time.Time        `json:"enrollmentDate"`
	Status         EnrollmentStatus `json:"status"`
	Grade          *float64         `json:"grade"`
	GradeLetter    string           `json:"gradeLetter,omitempty"`
	Comments       string           `json:"comments,omitempty"`
}

// EnrollmentInput is the payload for enrolling a student in a course.
type EnrollmentInput struct {
	StudentID int64 `json:"studentId" validate:"required"`
	CourseID  int64 `json:"courseId" validate:"required"`
}

// GradeInput is the payload for setting an enrollment grade.
type GradeInput struct {
	Grade float64 `json:"grade" validate:"gte=0,lte=100"`
}

// HasGrade reports whether a grade has been recorded.
func (e Enrollment) HasGrade() bool { return e.Grade != nil }

// ResourceID implements controller.Resource.
func (e Enrollment) ResourceID() int64 { return e.ID }

// MatchesFilter reports whether the enrollment matches a case-insensitive
// substring search over student name, course name and course code.
func (e Enrollment) MatchesFilter(filter string) bool {
	return containsFold(filter, e.StudentName, e.CourseName, e.CourseCode)
}
