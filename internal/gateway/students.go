package gateway

import (
	"context"
	"net/http"

	"github.com/coursedesk/coursedesk/internal/models"
)

// ListStudents returns every student with embedded enrollment summaries.
func (c *Client) ListStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := c.do(ctx, http.MethodGet, "/students", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// GetStudent returns one student by id.
func (c *Client) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodGet, itemPath("students", id), nil, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// CreateStudent registers a new student.
func (c *Client) CreateStudent(ctx context.Context, input models.StudentInput) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodPost, "/students", input, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateStudent applies a partial update to a student.
func (c *Client) UpdateStudent(ctx context.Context, id int64, input models.StudentInput) (*models.Student, error) {
	var student models.Student
	if err := c.do(ctx, http.MethodPut, itemPath("students", id), input, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// DeleteStudent removes a student.
func (c *Client) DeleteStudent(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath("students", id), nil, nil)
}
