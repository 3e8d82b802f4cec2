package models

import "strings"

// Student represents a learner registered in the institution. The backend
// embeds the student's enrollment summaries on every read.
type Student struct {
	ID          int64        `json:"id"`
	StudentID   string       `json:"studentId"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	Email       string       `json:"email"`
	PhoneNumber string       `json:"phoneNumber,omitempty"`
	Enrollments []Enrollment `json:"enrollments"`
}

// StudentInput is the payload for creating or updating a student.
type StudentInput struct {
	StudentID   string `json:"studentId" validate:"required"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"omitempty,e164|numeric"`
}

// FullName joins first and last name for display.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// ResourceID implements controller.Resource.
func (s Student) ResourceID() int64 { return s.ID }

// MatchesFilter reports whether the student matches a case-insensitive
// substring search over first name, last name and email.
func (s Student) MatchesFilter(filter string) bool {
	return containsFold(filter, s.FirstName, s.LastName, s.Email)
}

func containsFold(filter string, fields ...string) bool {
	if filter == "" {
		return true
	}
	needle := strings.ToLower(filter)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
