package models

// CourseStatus represents the lifecycle of a course offering.
type CourseStatus string

const (
	CourseStatusActive   CourseStatus = "ACTIVE"
	CourseStatusInactive CourseStatus = "INACTIVE"
)

// Course represents a course offering with its enrollment roster embedded.
type Course struct {
	ID          int64        `json:"id"`
	CourseCode  string       `json:"courseCode"`
	CourseName  string       `json:"courseName"`
	Description string       `json:"description"`
	Credits     int          `json:"credits"`
	Instructor  string       `json:"instructor"`
	MaxStudents int          `json:"maxStudents,omitempty"`
	Status      CourseStatus `json:"status"`
	Enrollments []Enrollment `json:"enrollments"`
}

// CourseInput is the payload for creating or updating a course.
type CourseInput struct {
	CourseCode  string       `json:"courseCode" validate:"required"`
	CourseName  string       `json:"courseName" validate:"required"`
	Description string       `json:"description"`
	Credits     int          `json:"credits" validate:"gte=0"`
	Instructor  string       `json:"instructor" validate:"required"`
	MaxStudents int          `json:"maxStudents,omitempty" validate:"gte=0"`
	Status      CourseStatus `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// HasEnrollments reports whether any student is enrolled. A course with
// enrollments cannot be deleted; the check mirrors the backend rule.
func (c Course) HasEnrollments() bool {
	return len(c.Enrollments) > 0
}

// ResourceID implements controller.Resource.
func (c Course) ResourceID() int64 { return c.ID }

// MatchesFilter reports whether the course matches a case-insensitive
// substring search over name, code and description.
func (c Course) MatchesFilter(filter string) bool {
	return containsFold(filter, c.CourseName, c.CourseCode, c.Description)
}
