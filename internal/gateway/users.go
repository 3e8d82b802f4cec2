package gateway

import (
	"context"
	"net/http"

	"github.com/coursedesk/coursedesk/internal/models"
)

// Login authenticates a user. A student who has never set a password gets
// {firstTimeLogin: true} back instead of session fields.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	creds := models.Credentials{Email: email, Password: password}
	var result models.LoginResult
	if err := c.do(ctx, http.MethodPost, "/users/login", creds, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetupPassword completes the first-time login flow.
func (c *Client) SetupPassword(ctx context.Context, email, password string) (*models.LoginResult, error) {
	creds := models.Credentials{Email: email, Password: password}
	var envelope struct {
		User models.LoginResult `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/users/setup-password", creds, &envelope); err != nil {
		return nil, err
	}
	return &envelope.User, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	creds := models.Credentials{Email: email, Password: password}
	return c.do(ctx, http.MethodPost, "/users/register", creds, nil)
}
