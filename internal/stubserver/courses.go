package stubserver

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/coursedesk/coursedesk/internal/models"
)

func (s *Server) listCourses(c *gin.Context) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	courses := make([]models.Course, 0, len(s.store.courses))
	for id := range s.store.courses {
		view, _ := s.store.courseView(id)
		courses = append(courses, view)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	c.JSON(http.StatusOK, courses)
}

func (s *Server) getCourse(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	view, found := s.store.courseView(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) createCourse(c *gin.Context) {
	var input models.CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid course payload"})
		return
	}
	if err := s.validate.Struct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, existing := range s.store.courses {
		if existing.CourseCode == input.CourseCode {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Course code already in use"})
			return
		}
	}

	status := input.Status
	if status == "" {
		status = models.CourseStatusActive
	}
	course := models.Course{
		ID:          s.store.allocID(),
		CourseCode:  input.CourseCode,
		CourseName:  input.CourseName,
		Description: input.Description,
		Credits:     input.Credits,
		Instructor:  input.Instructor,
		MaxStudents: input.MaxStudents,
		Status:      status,
		Enrollments: []models.Enrollment{},
	}
	s.store.courses[course.ID] = course
	c.JSON(http.StatusCreated, course)
}

func (s *Server) updateCourse(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var input models.CourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid course payload"})
		return
	}
	if err := s.validate.Struct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	course, found := s.store.courses[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
		return
	}
	course.CourseCode = input.CourseCode
	course.CourseName = input.CourseName
	course.Description = input.Description
	course.Credits = input.Credits
	course.Instructor = input.Instructor
	course.MaxStudents = input.MaxStudents
	if input.Status != "" {
		course.Status = input.Status
	}
	s.store.courses[id] = course

	view, _ := s.store.courseView(id)
	c.JSON(http.StatusOK, view)
}

func (s *Server) deleteCourse(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, found := s.store.courses[id]; !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Course not found"})
		return
	}
	if s.store.courseHasEnrollments(id) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete course with enrolled students"})
		return
	}
	delete(s.store.courses, id)
	c.Status(http.StatusNoContent)
}
