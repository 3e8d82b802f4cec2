package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coursedesk/coursedesk/internal/models"
)

// Enroll registers a student in a course.
func (c *Client) Enroll(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	input := models.EnrollmentInput{StudentID: studentID, CourseID: courseID}
	var enrollment models.Enrollment
	if err := c.do(ctx, http.MethodPost, "/enrollments", input, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// SetGrade records a grade for an enrollment and returns the updated record,
// including the backend-derived letter grade.
func (c *Client) SetGrade(ctx context.Context, enrollmentID int64, grade float64) (*models.Enrollment, error) {
	path := fmt.Sprintf("/enrollments/%d/grade", enrollmentID)
	var enrollment models.Enrollment
	if err := c.do(ctx, http.MethodPut, path, models.GradeInput{Grade: grade}, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}
