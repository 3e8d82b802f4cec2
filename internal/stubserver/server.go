// Package stubserver is an in-memory rendition of the course-management
// backend, bit-exact on the wire shapes the client consumes. It exists for
// local development and integration tests; nothing here persists.
package stubserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursedesk/coursedesk/pkg/config"
	"github.com/coursedesk/coursedesk/pkg/logger"
	corsmiddleware "github.com/coursedesk/coursedesk/pkg/middleware/cors"
	reqidmiddleware "github.com/coursedesk/coursedesk/pkg/middleware/requestid"
)

// Server wraps the Gin engine and its dataset.
type Server struct {
	engine   *gin.Engine
	store    *store
	validate *validator.Validate
	logger   *zap.Logger
	port     int
}

// New builds the stub server. Seeding is controlled by cfg.Stub.Seed.
func New(cfg *config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		store:    newStore(),
		validate: validator.New(),
		logger:   log,
		port:     cfg.Stub.Port,
	}
	if cfg.Stub.Seed {
		s.store.seed()
	}

	m := newMetrics()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.Stub.AllowedOrigins))
	r.Use(m.middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.handler()))

	api := r.Group("/api")
	{
		api.GET("/students", s.listStudents)
		api.GET("/students/:id", s.getStudent)
		api.POST("/students", s.createStudent)
		api.PUT("/students/:id", s.updateStudent)
		api.DELETE("/students/:id", s.deleteStudent)

		api.GET("/courses", s.listCourses)
		api.GET("/courses/:id", s.getCourse)
		api.POST("/courses", s.createCourse)
		api.PUT("/courses/:id", s.updateCourse)
		api.DELETE("/courses/:id", s.deleteCourse)

		api.POST("/enrollments", s.createEnrollment)
		api.PUT("/enrollments/:id/grade", s.setGrade)

		api.POST("/users/login", s.login)
		api.POST("/users/setup-password", s.setupPassword)
		api.POST("/users/register", s.register)
	}

	s.engine = r
	return s
}

// Handler exposes the router for httptest in integration tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Sugar().Infow("stub api starting", "addr", addr)
	return s.engine.Run(addr)
}
