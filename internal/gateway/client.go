package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coursedesk/coursedesk/pkg/config"
	appErrors "github.com/coursedesk/coursedesk/pkg/errors"
)

// Client is a thin typed wrapper over the course-management REST API. It does
// request/response mapping only; all business rules live with the callers.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New constructs a Client against the configured base URL (".../api").
func New(cfg config.APIConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// do performs one API call. body is marshalled as JSON when non-nil; the
// response body is decoded into out when out is non-nil and the status is 2xx.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, 0, "failed to encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, 0, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, 0, appErrors.ErrTransport.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, resp.StatusCode, "failed to decode response")
	}
	return nil
}

// statusError maps a non-2xx response to a typed error, surfacing the body's
// message verbatim when one is present.
func statusError(resp *http.Response) *appErrors.Error {
	message := readMessage(resp.Body)

	var base *appErrors.Error
	switch {
	case resp.StatusCode == http.StatusNotFound:
		base = appErrors.ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		base = appErrors.ErrInvalidCredentials
	case resp.StatusCode == http.StatusConflict:
		base = appErrors.ErrConflict
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		base = appErrors.ErrValidation
	default:
		base = appErrors.ErrInternal
	}

	err := appErrors.Clone(base, message)
	err.Status = resp.StatusCode
	return err
}

// readMessage extracts a human-readable message from an error body. The
// backend answers with either a bare string or a {"message": ...} object.
func readMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}

	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return ""
	}
	return trimmed
}

func itemPath(collection string, id int64) string {
	return fmt.Sprintf("/%s/%d", collection, id)
}
