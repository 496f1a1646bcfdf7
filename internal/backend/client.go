package backend

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"talent-workers/internal/common/errors"
	httpclient "talent-workers/internal/common/http"
	"talent-workers/internal/models"
)

// Client talks to the application-tracking service that owns application and
// profile records. It never retries; the job runtime does.
type Client struct {
	baseURL string
	http    *httpclient.Client
}

func NewClient(baseURL string, timeout time.Duration, token string) *Client {
	hc := httpclient.NewClient(timeout)
	if token != "" {
		hc = hc.WithHeader("Authorization", "Bearer "+token)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

func (c *Client) GetApplication(ctx context.Context, applicationID string) (*models.Application, error) {
	id := strings.TrimSpace(applicationID)
	var app models.Application
	if err := c.http.DoJSON(ctx, http.MethodGet, c.applicationURL(id), nil, &app); err != nil {
		return nil, c.classify("GET /applications/{id}", "application", id, err)
	}
	if app.ID == "" {
		app.ID = id
	}
	return &app, nil
}

// UpdateStatus issues PATCH /applications/{id}/status.
func (c *Client) UpdateStatus(ctx context.Context, applicationID string, update models.StatusUpdate) error {
	id := strings.TrimSpace(applicationID)
	if err := c.http.DoJSON(ctx, http.MethodPatch, c.applicationURL(id)+"/status", update, nil); err != nil {
		return c.classify("PATCH /applications/{id}/status", "application", id, err)
	}
	return nil
}

// GetProfileDetails fetches the caller's profile. userID is forwarded for
// service-to-service calls made on a user's behalf.
func (c *Client) GetProfileDetails(ctx context.Context, userID string) (*models.ProfileRecord, error) {
	u := c.baseURL + "/profile/details"
	if userID != "" {
		u += "?" + url.Values{"userId": {userID}}.Encode()
	}

	var rec models.ProfileRecord
	if err := c.http.DoJSON(ctx, http.MethodGet, u, nil, &rec); err != nil {
		return nil, c.classify("GET /profile/details", "profile", userID, err)
	}
	return &rec, nil
}

func (c *Client) applicationURL(id string) string {
	return fmt.Sprintf("%s/applications/%s", c.baseURL, url.PathEscape(id))
}

func (c *Client) classify(op, resource, id string, err error) error {
	var se *httpclient.StatusError
	if stderrors.As(err, &se) && se.StatusCode == http.StatusNotFound {
		return errors.NewNotFoundError(resource, id)
	}
	return errors.NewUpstreamError(op, err)
}
