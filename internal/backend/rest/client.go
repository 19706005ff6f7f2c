// Package rest implements service.Service against a Wunderlist-style REST API
// authenticated with X-Client-ID and X-Access-Token headers.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"forgiveness/internal/service"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 30 * time.Second

	headerClientID    = "X-Client-ID"
	headerAccessToken = "X-Access-Token"

	// maxErrorBody caps how much of an error response is kept in StatusError.
	maxErrorBody = 512
)

// Logger receives raw payload dumps.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
}

// Options configures a Client.
type Options struct {
	APIRoot     string
	ClientID    string
	AccessToken string

	// HTTPClient defaults to a client without extra settings.
	HTTPClient *http.Client

	// Logger is optional.
	Logger Logger
}

// Client implements service.Service over HTTP.
type Client struct {
	root        *url.URL
	clientID    string
	accessToken string
	http        *http.Client
	log         Logger
}

// New creates a REST client. APIRoot must be an absolute URL.
func New(opts Options) (*Client, error) {
	root := opts.APIRoot
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	u, err := url.Parse(root)
	if err != nil {
		return nil, fmt.Errorf("invalid API root: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("invalid API root: %s is not absolute", opts.APIRoot)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}

	return &Client{
		root:        u,
		clientID:    opts.ClientID,
		accessToken: opts.AccessToken,
		http:        httpClient,
		log:         log,
	}, nil
}

type nopLogger struct{}

func (nopLogger) Debug(interface{}, ...interface{}) {}

// id accepts both JSON numbers and strings.
type id string

func (i *id) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = id(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*i = id(n.String())
	return nil
}

type listJSON struct {
	ID    id     `json:"id"`
	Title string `json:"title"`
}

type taskJSON struct {
	ID       id     `json:"id"`
	Title    string `json:"title"`
	Revision int    `json:"revision"`
	DueDate  string `json:"due_date"`
}

type noteJSON struct {
	TaskID  id     `json:"task_id"`
	Content string `json:"content"`
}

type patchJSON struct {
	DueDate  string `json:"due_date"`
	Revision int    `json:"revision"`
}

// ListLists implements service.Service.
func (c *Client) ListLists(ctx context.Context) ([]service.TaskList, error) {
	var raw []listJSON
	if err := c.do(ctx, http.MethodGet, "lists", nil, nil, &raw); err != nil {
		return nil, err
	}

	result := make([]service.TaskList, 0, len(raw))
	for _, l := range raw {
		result = append(result, service.TaskList{ID: string(l.ID), Title: l.Title})
	}
	return result, nil
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context, listID string) ([]service.Task, error) {
	var raw []taskJSON
	if err := c.do(ctx, http.MethodGet, "tasks", url.Values{"list_id": {listID}}, nil, &raw); err != nil {
		return nil, err
	}

	result := make([]service.Task, 0, len(raw))
	for _, t := range raw {
		result = append(result, service.Task{
			ID:       string(t.ID),
			ListID:   listID,
			Title:    t.Title,
			Revision: t.Revision,
			Due:      t.DueDate,
		})
	}
	return result, nil
}

// ListNotes implements service.Service.
func (c *Client) ListNotes(ctx context.Context, listID string) ([]service.Note, error) {
	var raw []noteJSON
	if err := c.do(ctx, http.MethodGet, "notes", url.Values{"list_id": {listID}}, nil, &raw); err != nil {
		return nil, err
	}

	result := make([]service.Note, 0, len(raw))
	for _, n := range raw {
		result = append(result, service.Note{TaskID: string(n.TaskID), Content: n.Content})
	}
	return result, nil
}

// UpdateDueDate implements service.Service. The server rejects the patch
// unless task.Revision matches its stored revision.
func (c *Client) UpdateDueDate(ctx context.Context, task service.Task, due string) error {
	body := patchJSON{DueDate: due, Revision: task.Revision}
	return c.do(ctx, http.MethodPatch, "tasks/"+url.PathEscape(task.ID), nil, body, nil)
}

// do sends one request relative to the API root and decodes a JSON response into out.
// path is in escaped form.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	u := c.root.ResolveReference(ref)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return err
	}
	req.Header.Set(headerClientID, c.clientID)
	req.Header.Set(headerAccessToken, c.accessToken)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapError(err)
	}
	c.log.Debug("response", "method", method, "path", path, "status", resp.StatusCode, "content", string(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body := string(data)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &service.StatusError{Code: resp.StatusCode, Body: body}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// wrapError turns transport errors into short messages.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", err)
	}
	return err
}
