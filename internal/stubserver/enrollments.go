package stubserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/coursedesk/coursedesk/internal/models"
)

func (s *Server) createEnrollment(c *gin.Context) {
	var input models.EnrollmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid enrollment payload"})
		return
	}
	if err := s.validate.Struct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, found := s.store.students[input.StudentID]; !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
		return
	}
	if _, found := s.store.courses[input.CourseID]; !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
		return
	}
	if s.store.hasEnrollment(input.StudentID, input.CourseID) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Already enrolled"})
		return
	}

	rec := &enrollmentRecord{
		ID:             s.store.allocID(),
		StudentID:      input.StudentID,
		CourseID:       input.CourseID,
		EnrollmentDate: time.Now(),
		Status:         models.EnrollmentStatusEnrolled,
	}
	s.store.enrollments[rec.ID] = rec
	c.JSON(http.StatusCreated, s.store.enrollmentView(rec))
}

func (s *Server) setGrade(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var input models.GradeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid grade payload"})
		return
	}
	if err := s.validate.Struct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Grade must be between 0 and 100"})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	rec, found := s.store.enrollments[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Enrollment not found"})
		return
	}
	grade := input.Grade
	rec.Grade = &grade
	rec.GradeLetter = gradeLetterFor(grade)
	c.JSON(http.StatusOK, s.store.enrollmentView(rec))
}
