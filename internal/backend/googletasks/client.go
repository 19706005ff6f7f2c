// Package googletasks implements the service.Service interface using Google Tasks API.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"forgiveness/internal/config"
	"forgiveness/internal/service"
)

const (
	// PageSize is the number of items requested per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	// dueSuffix turns a calendar date into the RFC 3339 timestamp the API
	// expects. The API ignores the time part of due dates.
	dueSuffix = "T00:00:00.000Z"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc *tasks.Service
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes automatically
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc}, nil
}

// ListLists returns all task lists in API order.
func (c *Client) ListLists(ctx context.Context) ([]service.TaskList, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var result []service.TaskList
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			result = append(result, service.TaskList{ID: list.Id, Title: list.Title})
		}
		return nil
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return result, nil
}

// ListTasks returns the open tasks of a list, all pages, in API order.
func (c *Client) ListTasks(ctx context.Context, listID string) ([]service.Task, error) {
	var result []service.Task
	err := c.eachOpenTask(ctx, listID, func(t *tasks.Task) {
		result = append(result, service.Task{
			ID:     t.Id,
			ListID: listID,
			Title:  t.Title,
			ETag:   t.Etag,
			Due:    dueDate(t.Due),
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListNotes returns the notes of the open tasks in a list. Google Tasks
// stores the note on the task itself; tasks with an empty note are skipped.
func (c *Client) ListNotes(ctx context.Context, listID string) ([]service.Note, error) {
	var result []service.Note
	err := c.eachOpenTask(ctx, listID, func(t *tasks.Task) {
		if t.Notes != "" {
			result = append(result, service.Note{TaskID: t.Id, Content: t.Notes})
		}
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) eachOpenTask(ctx context.Context, listID string, fn func(*tasks.Task)) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				fn(t)
			}
			return nil
		})
	return wrapError(err)
}

// UpdateDueDate patches the task's due date. When the task carries an etag
// the patch is sent with If-Match so a concurrently modified task is rejected.
func (c *Client) UpdateDueDate(ctx context.Context, task service.Task, due string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	call := c.svc.Tasks.Patch(task.ListID, task.ID, &tasks.Task{Due: due + dueSuffix})
	if task.ETag != "" {
		call.Header().Set("If-Match", task.ETag)
	}
	_, err := call.Context(ctx).Do()
	return wrapError(err)
}

// dueDate extracts the calendar date from an RFC 3339 due timestamp.
// Values too short to hold a date are returned as is.
func dueDate(due string) string {
	if len(due) < len("2006-01-02") {
		return due
	}
	return due[:len("2006-01-02")]
}

// wrapError maps API errors to service.StatusError and shortens timeouts.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &service.StatusError{Code: gerr.Code, Body: gerr.Message}
	}

	return err
}
