package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PharmInc/media-gateway/internal/config"
)

// restClient issues single-shot JSON GETs against one upstream service.
type restClient struct {
	baseURL string
	http    *http.Client
}

func newRESTClient(baseURL string, timeout time.Duration) *restClient {
	return &restClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *restClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("call %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// Clients bundles the typed upstream service clients the caches fetch through.
type Clients struct {
	user      *restClient
	institute *restClient
	job       *restClient
	content   *restClient
}

// NewClients constructs clients from the configured base URLs.
func NewClients(cfg config.ServicesConfig) *Clients {
	return &Clients{
		user:      newRESTClient(cfg.UserBaseURL, cfg.RequestTimeout),
		institute: newRESTClient(cfg.InstituteBaseURL, cfg.RequestTimeout),
		job:       newRESTClient(cfg.JobBaseURL, cfg.RequestTimeout),
		content:   newRESTClient(cfg.ContentBaseURL, cfg.RequestTimeout),
	}
}

// GetUser fetches one user record.
func (c *Clients) GetUser(ctx context.Context, id string) (User, error) {
	var u User
	err := c.user.getJSON(ctx, "/users/"+url.PathEscape(id), &u)
	return u, err
}

// GetInstitution fetches one institution record.
func (c *Clients) GetInstitution(ctx context.Context, id string) (Institution, error) {
	var inst Institution
	err := c.institute.getJSON(ctx, "/institutions/"+url.PathEscape(id), &inst)
	return inst, err
}

// ListJobs fetches the job listings of one institution.
func (c *Clients) ListJobs(ctx context.Context, institutionID string) ([]Job, error) {
	var jobs []Job
	err := c.job.getJSON(ctx, "/institutions/"+url.PathEscape(institutionID)+"/jobs", &jobs)
	return jobs, err
}

// ListNotifications fetches one user's notification feed.
func (c *Clients) ListNotifications(ctx context.Context, userID string) ([]Notification, error) {
	var notes []Notification
	err := c.content.getJSON(ctx, "/users/"+url.PathEscape(userID)+"/notifications", &notes)
	return notes, err
}
