// Command coursedesk is a terminal client for the course-management API:
// list, create, edit and delete students, courses and enrollments, set
// grades, and exercise the login flows against a running backend (or the
// bundled stub).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursedesk/coursedesk/internal/controller"
	"github.com/coursedesk/coursedesk/internal/detail"
	"github.com/coursedesk/coursedesk/internal/gateway"
	"github.com/coursedesk/coursedesk/internal/models"
	"github.com/coursedesk/coursedesk/internal/notify"
	"github.com/coursedesk/coursedesk/internal/session"
	"github.com/coursedesk/coursedesk/pkg/config"
	"github.com/coursedesk/coursedesk/pkg/logger"
)

const usage = `usage: coursedesk <command> [flags]

commands:
  students   list|get|create|update|delete
  courses    list|get|create|update|delete
  enrollments list
  enroll     -student <id> -course <id>
  grade      -enrollment <id> -grade <0-100>
  login      -email <email> -password <password>
  setup-password -email <email> -password <password>
  register   -email <email> -password <password>
  dashboard
`

type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	gw       *gateway.Client
	notifier *notify.Scheduler
	validate *validator.Validate
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	a := &app{
		cfg:      cfg,
		logger:   logr,
		gw:       gateway.New(cfg.API, logr),
		notifier: notify.NewScheduler(cfg.Notify, logr),
		validate: validator.New(),
	}
	defer a.notifier.Stop()

	if err := a.run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}
	ctx := context.Background()

	switch args[0] {
	case "students":
		return a.students(ctx, args[1:])
	case "courses":
		return a.courses(ctx, args[1:])
	case "enrollments":
		return a.enrollments(ctx, args[1:])
	case "enroll":
		return a.enroll(ctx, args[1:])
	case "grade":
		return a.grade(ctx, args[1:])
	case "login":
		return a.login(ctx, args[1:])
	case "setup-password":
		return a.setupPassword(ctx, args[1:])
	case "register":
		return a.register(ctx, args[1:])
	case "dashboard":
		return a.dashboard(ctx)
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) students(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("students: missing subcommand")
	}
	ctl := controller.NewStudents(a.gw, a.notifier, a.validate, a.logger)
	defer ctl.Close()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("students list", flag.ContinueOnError)
		filter := fs.String("filter", "", "substring filter over name and email")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := ctl.Load(ctx); err != nil {
			return err
		}
		ctl.SetFilter(*filter)
		renderStudents(ctl.Visible())
		return nil

	case "get":
		fs := flag.NewFlagSet("students get", flag.ContinueOnError)
		id := fs.Int64("id", 0, "student id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		agg := detail.NewAggregator(a.gw, a.logger)
		profile, err := agg.StudentProfile(ctx, *id)
		if err != nil {
			return err
		}
		renderStudents([]models.Student{profile.Student})
		renderStats(profile.Stats)
		renderEnrollments(profile.Student.Enrollments)
		return nil

	case "create", "update":
		fs := flag.NewFlagSet("students "+args[0], flag.ContinueOnError)
		id := fs.Int64("id", 0, "student id (update only)")
		input := models.StudentInput{}
		fs.StringVar(&input.StudentID, "student-id", "", "business student code")
		fs.StringVar(&input.FirstName, "first", "", "first name")
		fs.StringVar(&input.LastName, "last", "", "last name")
		fs.StringVar(&input.Email, "email", "", "email address")
		fs.StringVar(&input.PhoneNumber, "phone", "", "phone number")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if args[0] == "create" {
			student, err := ctl.Create(ctx, input)
			if err != nil {
				return err
			}
			fmt.Printf("created student %d\n", student.ID)
			return nil
		}
		if err := ctl.Load(ctx); err != nil {
			return err
		}
		if err := ctl.Update(ctx, *id, input); err != nil {
			return err
		}
		a.printNotifications()
		return nil

	case "delete":
		fs := flag.NewFlagSet("students delete", flag.ContinueOnError)
		id := fs.Int64("id", 0, "student id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := ctl.Load(ctx); err != nil {
			return err
		}
		if err := ctl.Delete(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("deleted student %d\n", *id)
		return nil

	default:
		return fmt.Errorf("students: unknown subcommand %q", args[0])
	}
}

func (a *app) courses(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("courses: missing subcommand")
	}
	ctl := controller.NewCourses(a.gw, a.notifier, a.validate, a.logger)
	defer ctl.Close()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("courses list", flag.ContinueOnError)
		filter := fs.String("filter", "", "substring filter over name, code and description")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := ctl.Load(ctx); err != nil {
			return err
		}
		ctl.SetFilter(*filter)
		renderCourses(ctl.Visible())
		return nil

	case "get":
		fs := flag.NewFlagSet("courses get", flag.ContinueOnError)
		id := fs.Int64("id", 0, "course id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		agg := detail.NewAggregator(a.gw, a.logger)
		cd, err := agg.CourseDetail(ctx, *id)
		if err != nil {
			return err
		}
		renderCourses([]models.Course{cd.Course})
		renderStats(cd.Stats)
		renderEnrollments(cd.Course.Enrollments)
		return nil

	case "create", "update":
		fs := flag.NewFlagSet("courses "+args[0], flag.ContinueOnError)
		id := fs.Int64("id", 0, "course id (update only)")
		input := models.CourseInput{}
		var status string
		fs.StringVar(&input.CourseCode, "code", "", "course code")
		fs.StringVar(&input.CourseName, "name", "", "course name")
		fs.StringVar(&input.Description, "description", "", "description")
		fs.IntVar(&input.Credits, "credits", 0, "credits")
		fs.StringVar(&input.Instructor, "instructor", "", "instructor name")
		fs.IntVar(&input.MaxStudents, "max-students", 0, "maximum students")
		fs.StringVar(&status, "status", "", "ACTIVE or INACTIVE")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		input.Status = models.CourseStatus(status)
		if args[0] == "create" {
			course, err := ctl.Create(ctx, input)
			if err != nil {
				return err
			}
			fmt.Printf("created course %d\n", course.ID)
			return nil
		}
		if err := ctl.Load(ctx); err != nil {
			return err
		}
		if err := ctl.Update(ctx, *id, input); err != nil {
			return err
		}
		a.printNotifications()
		return nil

	case "delete":
		fs := flag.NewFlagSet("courses delete", flag.ContinueOnError)
		id := fs.Int64("id", 0, "course id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if err := ctl.Load(ctx); err != nil {
			return err
		}
		if err := ctl.Delete(ctx, *id); err != nil {
			a.printNotifications()
			return err
		}
		fmt.Printf("deleted course %d\n", *id)
		return nil

	default:
		return fmt.Errorf("courses: unknown subcommand %q", args[0])
	}
}

func (a *app) enrollments(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return fmt.Errorf("enrollments: only the list subcommand exists; use enroll and grade for mutations")
	}
	fs := flag.NewFlagSet("enrollments list", flag.ContinueOnError)
	filter := fs.String("filter", "", "substring filter over student and course")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	ctl := controller.NewEnrollments(a.gw, a.notifier, a.validate, a.logger)
	defer ctl.Close()
	if err := ctl.Load(ctx); err != nil {
		return err
	}
	ctl.SetFilter(*filter)
	renderEnrollments(ctl.Visible())
	return nil
}

func (a *app) enroll(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("enroll", flag.ContinueOnError)
	studentID := fs.Int64("student", 0, "student id")
	courseID := fs.Int64("course", 0, "course id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctl := controller.NewEnrollments(a.gw, a.notifier, a.validate, a.logger)
	defer ctl.Close()
	enrollment, err := ctl.Enroll(ctx, *studentID, *courseID)
	if err != nil {
		return err
	}
	fmt.Printf("enrolled %s in %s (enrollment %d)\n", enrollment.StudentName, enrollment.CourseName, enrollment.ID)
	return nil
}

func (a *app) grade(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("grade", flag.ContinueOnError)
	enrollmentID := fs.Int64("enrollment", 0, "enrollment id")
	grade := fs.Float64("grade", 0, "grade between 0 and 100")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctl := controller.NewEnrollments(a.gw, a.notifier, a.validate, a.logger)
	defer ctl.Close()
	if err := ctl.Load(ctx); err != nil {
		return err
	}
	if err := ctl.SetGrade(ctx, *enrollmentID, *grade); err != nil {
		a.printNotifications()
		return err
	}
	a.printNotifications()
	if updated, ok := ctl.Get(*enrollmentID); ok {
		renderEnrollments([]models.Enrollment{updated})
	}
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	gate := session.NewGate(a.gw, a.logger)
	firstTime, err := gate.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if firstTime {
		fmt.Printf("first-time login for %s: run setup-password -email %s -password <new password>\n", *email, *email)
		return nil
	}
	current := gate.Current()
	fmt.Printf("logged in as %s (%s), landing route %s\n", current.Email, current.Role, gate.DefaultRoute())
	fmt.Printf("lecturer screens allowed: %v\n", gate.Allowed(session.Requirement{Roles: []models.Role{models.RoleLecturer}}))
	return nil
}

func (a *app) setupPassword(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("setup-password", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	gate := session.NewGate(a.gw, a.logger)
	if err := gate.SetupPassword(ctx, *email, *password); err != nil {
		return err
	}
	fmt.Printf("password set; logged in as %s, landing route %s\n", *email, gate.DefaultRoute())
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	gate := session.NewGate(a.gw, a.logger)
	if err := gate.Register(ctx, *email, *password); err != nil {
		return err
	}
	fmt.Printf("registered %s\n", *email)
	return nil
}

// dashboard mirrors the landing screen: headline counts across resources.
func (a *app) dashboard(ctx context.Context) error {
	students, err := a.gw.ListStudents(ctx)
	if err != nil {
		return err
	}
	courses, err := a.gw.ListCourses(ctx)
	if err != nil {
		return err
	}
	enrollmentCount := 0
	for _, s := range students {
		enrollmentCount += len(s.Enrollments)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STUDENTS\tCOURSES\tENROLLMENTS")
	fmt.Fprintf(w, "%d\t%d\t%d\n", len(students), len(courses), enrollmentCount)
	return w.Flush()
}

func (a *app) printNotifications() {
	for _, msg := range a.notifier.Active() {
		fmt.Printf("[%s] %s\n", msg.Kind, msg.Text)
	}
}

func renderStudents(students []models.Student) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCODE\tNAME\tEMAIL\tPHONE\tENROLLMENTS")
	for _, s := range students {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n", s.ID, s.StudentID, s.FullName(), s.Email, s.PhoneNumber, len(s.Enrollments))
	}
	w.Flush() //nolint:errcheck
}

func renderCourses(courses []models.Course) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCODE\tNAME\tCREDITS\tINSTRUCTOR\tSTATUS\tENROLLED")
	for _, c := range courses {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%d\n", c.ID, c.CourseCode, c.CourseName, c.Credits, c.Instructor, c.Status, len(c.Enrollments))
	}
	w.Flush() //nolint:errcheck
}

func renderEnrollments(enrollments []models.Enrollment) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTUDENT\tCOURSE\tDATE\tSTATUS\tGRADE\tLETTER")
	for _, e := range enrollments {
		grade := "no grade yet"
		if e.Grade != nil {
			grade = fmt.Sprintf("%.1f", *e.Grade)
		}
		fmt.Fprintf(w, "%d\t%s\t%s (%s)\t%s\t%s\t%s\t%s\n",
			e.ID, e.StudentName, e.CourseName, e.CourseCode,
			e.EnrollmentDate.Format("2006-01-02"), e.Status, grade, e.GradeLetter)
	}
	w.Flush() //nolint:errcheck
}

func renderStats(stats detail.Stats) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACTIVE\tCOMPLETED\tAVG GRADE")
	fmt.Fprintf(w, "%d\t%d\t%.1f\n", stats.ActiveCount, stats.CompletedCount, stats.AverageGrade)
	w.Flush() //nolint:errcheck
}
