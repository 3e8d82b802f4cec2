package stubserver

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coursedesk/coursedesk/internal/models"
)

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

func (s *Server) listStudents(c *gin.Context) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	students := make([]models.Student, 0, len(s.store.students))
	for id := range s.store.students {
		view, _ := s.store.studentView(id)
		students = append(students, view)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	c.JSON(http.StatusOK, students)
}

func (s *Server) getStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	view, found := s.store.studentView(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) createStudent(c *gin.Context) {
	var input models.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid student payload"})
		return
	}
	if err := s.validate.Struct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for _, existing := range s.store.students {
		if existing.Email == input.Email {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use"})
			return
		}
	}

	student := models.Student{
		ID:          s.store.allocID(),
		StudentID:   input.StudentID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Enrollments: []models.Enrollment{},
	}
	s.store.students[student.ID] = student
	// New students get a passwordless account so the first-time login flow
	// applies to them.
	s.store.users[student.Email] = &userRecord{Email: student.Email, Role: models.RoleStudent, Name: student.FullName()}
	c.JSON(http.StatusCreated, student)
}

func (s *Server) updateStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var input models.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid student payload"})
		return
	}
	if err := s.validate.Struct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	student, found := s.store.students[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
		return
	}
	student.StudentID = input.StudentID
	student.FirstName = input.FirstName
	student.LastName = input.LastName
	student.Email = input.Email
	student.PhoneNumber = input.PhoneNumber
	s.store.students[id] = student

	view, _ := s.store.studentView(id)
	c.JSON(http.StatusOK, view)
}

func (s *Server) deleteStudent(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	student, found := s.store.students[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Student not found"})
		return
	}
	for enrID, rec := range s.store.enrollments {
		if rec.StudentID == id {
			delete(s.store.enrollments, enrID)
		}
	}
	delete(s.store.users, student.Email)
	delete(s.store.students, id)
	c.Status(http.StatusNoContent)
}
