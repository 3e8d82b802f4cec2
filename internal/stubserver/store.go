package stubserver

import (
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/coursedesk/coursedesk/internal/models"
)

// enrollmentRecord is the stored join row; display fields are joined at read
// time, the way the real backend pre-joins its DTOs.
type enrollmentRecord struct {
	ID             int64
	StudentID      int64
	CourseID       int64
	EnrollmentDate time.Time
	Status         models.EnrollmentStatus
	Grade          *float64
	GradeLetter    string
	Comments       string
}

type userRecord struct {
	Email        string
	PasswordHash []byte // nil until the first-time flow completes
	Role         models.Role
	Name         string
}

// store is the in-memory dataset behind the stub API.
type store struct {
	mu          sync.RWMutex
	nextID      int64
	students    map[int64]models.Student
	courses     map[int64]models.Course
	enrollments map[int64]*enrollmentRecord
	users       map[string]*userRecord
}

func newStore() *store {
	return &store{
		students:    make(map[int64]models.Student),
		courses:     make(map[int64]models.Course),
		enrollments: make(map[int64]*enrollmentRecord),
		users:       make(map[string]*userRecord),
	}
}

func (s *store) allocID() int64 {
	s.nextID++
	return s.nextID
}

// gradeLetterFor derives the letter grade the backend attaches to a graded
// enrollment.
func gradeLetterFor(grade float64) string {
	switch {
	case grade >= 90:
		return "A"
	case grade >= 80:
		return "B"
	case grade >= 70:
		return "C"
	case grade >= 60:
		return "D"
	default:
		return "F"
	}
}

// enrollmentView joins student and course display fields onto a record.
// callers hold s.mu.
func (s *store) enrollmentView(rec *enrollmentRecord) models.Enrollment {
	view := models.Enrollment{
		ID:             rec.ID,
		StudentID:      rec.StudentID,
		CourseID:       rec.CourseID,
		EnrollmentDate: rec.EnrollmentDate,
		Status:         rec.Status,
		Grade:          rec.Grade,
		GradeLetter:    rec.GradeLetter,
		Comments:       rec.Comments,
	}
	if student, ok := s.students[rec.StudentID]; ok {
		view.StudentName = student.FullName()
	}
	if course, ok := s.courses[rec.CourseID]; ok {
		view.CourseName = course.CourseName
		view.CourseCode = course.CourseCode
	}
	return view
}

// studentView returns a student with enrollments embedded. callers hold s.mu.
func (s *store) studentView(id int64) (models.Student, bool) {
	student, ok := s.students[id]
	if !ok {
		return models.Student{}, false
	}
	student.Enrollments = s.enrollmentsWhere(func(rec *enrollmentRecord) bool {
		return rec.StudentID == id
	})
	return student, true
}

// courseView returns a course with its roster embedded. callers hold s.mu.
func (s *store) courseView(id int64) (models.Course, bool) {
	course, ok := s.courses[id]
	if !ok {
		return models.Course{}, false
	}
	course.Enrollments = s.enrollmentsWhere(func(rec *enrollmentRecord) bool {
		return rec.CourseID == id
	})
	return course, true
}

func (s *store) enrollmentsWhere(match func(*enrollmentRecord) bool) []models.Enrollment {
	views := make([]models.Enrollment, 0)
	for _, rec := range s.enrollments {
		if match(rec) {
			views = append(views, s.enrollmentView(rec))
		}
	}
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })
	return views
}

func (s *store) hasEnrollment(studentID, courseID int64) bool {
	for _, rec := range s.enrollments {
		if rec.StudentID == studentID && rec.CourseID == courseID {
			return true
		}
	}
	return false
}

func (s *store) courseHasEnrollments(courseID int64) bool {
	for _, rec := range s.enrollments {
		if rec.CourseID == courseID {
			return true
		}
	}
	return false
}

// seed loads a small fixture dataset for local development.
func (s *store) seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	lecturerHash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	s.users["lecturer@example.com"] = &userRecord{
		Email:        "lecturer@example.com",
		PasswordHash: lecturerHash,
		Role:         models.RoleLecturer,
		Name:         "Dana Whitfield",
	}

	alice := models.Student{ID: s.allocID(), StudentID: "S1001", FirstName: "Alice", LastName: "Nguyen", Email: "alice@example.com", PhoneNumber: "5550101"}
	bob := models.Student{ID: s.allocID(), StudentID: "S1002", FirstName: "Bob", LastName: "Okafor", Email: "bob@example.com"}
	s.students[alice.ID] = alice
	s.students[bob.ID] = bob

	// Students get accounts without passwords so the first-time flow is
	// reachable out of the box.
	for _, st := range []models.Student{alice, bob} {
		s.users[st.Email] = &userRecord{Email: st.Email, Role: models.RoleStudent, Name: st.FullName()}
	}

	algorithms := models.Course{ID: s.allocID(), CourseCode: "CS201", CourseName: "Algorithms", Description: "Design and analysis of algorithms", Credits: 4, Instructor: "Dana Whitfield", MaxStudents: 40, Status: models.CourseStatusActive}
	databases := models.Course{ID: s.allocID(), CourseCode: "CS305", CourseName: "Database Systems", Description: "Relational models and query processing", Credits: 3, Instructor: "Priya Raman", MaxStudents: 30, Status: models.CourseStatusActive}
	s.courses[algorithms.ID] = algorithms
	s.courses[databases.ID] = databases

	grade := 91.5
	completedID := s.allocID()
	s.enrollments[completedID] = &enrollmentRecord{
		ID:             completedID,
		StudentID:      alice.ID,
		CourseID:       algorithms.ID,
		EnrollmentDate: time.Now().AddDate(0, -2, 0),
		Status:         models.EnrollmentStatusCompleted,
		Grade:          &grade,
		GradeLetter:    gradeLetterFor(grade),
	}
	activeID := s.allocID()
	s.enrollments[activeID] = &enrollmentRecord{
		ID:             activeID,
		StudentID:      bob.ID,
		CourseID:       algorithms.ID,
		EnrollmentDate: time.Now().AddDate(0, -1, 0),
		Status:         models.EnrollmentStatusEnrolled,
	}
}
