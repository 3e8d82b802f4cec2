package stubserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursedesk/coursedesk/internal/models"
	"github.com/coursedesk/coursedesk/pkg/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvDevelopment, Stub: config.StubConfig{Seed: true}}
	return New(cfg, zap.NewNop())
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.engine.ServeHTTP(rec, req)
	return rec
}

func TestGradeLetterFor(t *testing.T) {
	tests := []struct {
		grade float64
		want  string
	}{
		{95, "A"}, {90, "A"}, {89.9, "B"}, {80, "B"}, {79.9, "C"}, {70, "C"}, {60, "D"}, {59.9, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, gradeLetterFor(tt.grade), "grade %v", tt.grade)
	}
}

func TestCreateStudentValidation(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/students", models.StudentInput{
		StudentID: "S9", FirstName: "No", LastName: "Email", Email: "not-an-email",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["message"])
}

func TestCreateCourseRejectsDuplicateCode(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/courses", models.CourseInput{
		CourseCode: "CS201", CourseName: "Algorithms Again", Credits: 4, Instructor: "Dana",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteStudentCascadesEnrollments(t *testing.T) {
	srv := newTestServer(t)

	// Seeded Alice (id 1) holds the completed enrollment on course 3.
	rec := doJSON(t, srv, http.MethodDelete, "/api/students/1", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/courses/3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var course models.Course
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &course))
	require.Len(t, course.Enrollments, 1)
	assert.NotEqual(t, int64(1), course.Enrollments[0].StudentID)
}

func TestSetGradeOutOfRange(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/enrollments/6/grade", models.GradeInput{Grade: 120})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Grade must be between 0 and 100", body["message"])
}

func TestMetricsEndpointServes(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodGet, "/api/students", nil)
	rec := doJSON(t, srv, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
