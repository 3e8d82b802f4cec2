package gateway

import (
	"context"
	"net/http"

	"github.com/coursedesk/coursedesk/internal/models"
)

// ListCourses returns every course with embedded enrollment rosters.
func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := c.do(ctx, http.MethodGet, "/courses", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourse returns one course by id.
func (c *Client) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodGet, itemPath("courses", id), nil, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateCourse registers a new course offering.
func (c *Client) CreateCourse(ctx context.Context, input models.CourseInput) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodPost, "/courses", input, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateCourse applies a partial update to a course.
func (c *Client) UpdateCourse(ctx context.Context, id int64, input models.CourseInput) (*models.Course, error) {
	var course models.Course
	if err := c.do(ctx, http.MethodPut, itemPath("courses", id), input, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// DeleteCourse removes a course. The backend answers 400 when students are
// still enrolled; callers map that to the dependent-records message.
func (c *Client) DeleteCourse(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath("courses", id), nil, nil)
}
