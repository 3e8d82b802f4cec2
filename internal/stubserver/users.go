package stubserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/coursedesk/coursedesk/internal/models"
)

func (s *Server) login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid credentials payload"})
		return
	}

	s.store.mu.RLock()
	user, found := s.store.users[creds.Email]
	s.store.mu.RUnlock()

	if !found {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}
	// An account that never set a password gets routed to the first-time
	// setup flow instead of an auth failure.
	if user.PasswordHash == nil {
		c.JSON(http.StatusOK, gin.H{"firstTimeLogin": true})
		return
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResult{Email: user.Email, Role: user.Role, Name: user.Name})
}

func (s *Server) setupPassword(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid credentials payload"})
		return
	}
	if err := s.validate.Struct(creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	user, found := s.store.users[creds.Email]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if user.PasswordHash != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password already set"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to set password"})
		return
	}
	user.PasswordHash = hash

	c.JSON(http.StatusOK, gin.H{"user": models.LoginResult{Email: user.Email, Role: user.Role, Name: user.Name}})
}

func (s *Server) register(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid credentials payload"})
		return
	}
	if err := s.validate.Struct(creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	if _, exists := s.store.users[creds.Email]; exists {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to register"})
		return
	}
	s.store.users[creds.Email] = &userRecord{Email: creds.Email, PasswordHash: hash, Role: models.RoleLecturer}
	c.JSON(http.StatusCreated, gin.H{"message": "registered"})
}
