// Package session holds the client-side identity record and the advisory
// role gate derived from it. This is routing convenience, not a security
// boundary: gateway calls stay unauthenticated.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/coursedesk/coursedesk/internal/models"
)

// Route targets the gate can redirect to.
const (
	RouteLogin       = "/login"
	RouteDashboard   = "/dashboard"
	RouteStudentHome = "/student"
)

// Requirement describes who may access a route. Public routes skip the gate;
// an empty Roles list admits any authenticated role.
type Requirement struct {
	Public bool
	Roles  []models.Role
}

type userGateway interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	SetupPassword(ctx context.Context, email, password string) (*models.LoginResult, error)
	Register(ctx context.Context, email, password string) error
}

// Gate owns the session for its lifetime: empty at init, set on login or
// password setup, cleared on logout. Memory only; a process restart loses it.
type Gate struct {
	mu      sync.Mutex
	current *models.Session

	gw     userGateway
	logger *zap.Logger
}

// NewGate constructs an empty Gate.
func NewGate(gw userGateway, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{gw: gw, logger: logger}
}

// Login authenticates. Three outcomes: a first-time student login returns
// firstTime=true and leaves the gate empty (the caller routes to password
// setup, carrying the email); success sets the session; failure leaves the
// gate empty and returns the error.
func (g *Gate) Login(ctx context.Context, email, password string) (firstTime bool, err error) {
	result, err := g.gw.Login(ctx, email, password)
	if err != nil {
		return false, err
	}
	if result.FirstTimeLogin {
		return true, nil
	}
	g.set(result)
	return false, nil
}

// SetupPassword completes the first-time flow and sets the session.
func (g *Gate) SetupPassword(ctx context.Context, email, password string) error {
	result, err := g.gw.SetupPassword(ctx, email, password)
	if err != nil {
		return err
	}
	g.set(result)
	return nil
}

// Register creates an account. It does not log in.
func (g *Gate) Register(ctx context.Context, email, password string) error {
	return g.gw.Register(ctx, email, password)
}

func (g *Gate) set(result *models.LoginResult) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = &models.Session{Email: result.Email, Role: result.Role, Name: result.Name}
	g.logger.Info("session established",
		zap.String("email", result.Email),
		zap.String("role", string(result.Role)))
}

// Current returns a copy of the session, or nil when logged out.
func (g *Gate) Current() *models.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return nil
	}
	session := *g.current
	return &session
}

// Logout clears the session.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.current = nil
}

// Allowed is a pure function of the current session. No session denies every
// protected route; a role mismatch denies role-restricted routes.
func (g *Gate) Allowed(req Requirement) bool {
	if req.Public {
		return true
	}
	session := g.Current()
	if session == nil {
		return false
	}
	if len(req.Roles) == 0 {
		return true
	}
	for _, role := range req.Roles {
		if session.Role == role {
			return true
		}
	}
	return false
}

// DefaultRoute picks the landing route for the current session: lecturers go
// to the dashboard, students to their home, everyone else to login.
func (g *Gate) DefaultRoute() string {
	session := g.Current()
	switch {
	case session == nil:
		return RouteLogin
	case session.Role == models.RoleLecturer:
		return RouteDashboard
	case session.Role == models.RoleStudent:
		return RouteStudentHome
	default:
		return RouteLogin
	}
}
