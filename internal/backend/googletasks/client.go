// Package googletasks implements kv.Store on top of the Google Tasks API.
//
// Each key maps to a task with that title inside a dedicated task list; the
// value is kept in the task's notes.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"tasker/internal/config"
	"tasker/internal/kv"
)

const (
	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	// PageSize is the number of items requested per page.
	PageSize = 100

	// APITimeout is the timeout for each store operation.
	APITimeout = 5 * time.Second

	// MaxNotesSize is the largest value the API accepts in task notes.
	MaxNotesSize = 8192
)

// Client implements kv.Store using Google Tasks API.
type Client struct {
	svc      *tasks.Service
	listName string
	listID   string // resolved lazily
	log      *slog.Logger
}

// OAuthConfig loads the OAuth client credentials from the config directory.
func OAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Client, error) {
	if !cfg.HasOAuthClient() {
		return nil, fmt.Errorf("%w: oauth_client.json not found in %s", kv.ErrUnauthenticated, cfg.Dir)
	}
	if !cfg.HasToken() {
		return nil, fmt.Errorf("%w (run: tasker login)", kv.ErrUnauthenticated)
	}

	oauthConfig, err := OAuthConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kv.ErrUnauthenticated, err)
	}

	token, err := LoadToken(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kv.ErrUnauthenticated, err)
	}

	// Create token source that auto-refreshes
	tokenSource := oauthConfig.TokenSource(ctx, token)
	httpClient := oauth2.NewClient(ctx, tokenSource)

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}

	return &Client{svc: svc, listName: cfg.RemoteList, log: log}, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client and endpoint
// (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint, listName string, log *slog.Logger) (*Client, error) {
	svc, err := tasks.NewService(ctx,
		option.WithHTTPClient(httpClient),
		option.WithEndpoint(endpoint),
	)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, listName: listName, log: log}, nil
}

// Read implements kv.Store.
func (c *Client) Read(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	listID, ok, err := c.findList(ctx)
	if err != nil || !ok {
		return "", false, err
	}

	task, err := c.findTask(ctx, listID, key)
	if err != nil || task == nil {
		return "", false, err
	}
	c.log.Debug("remote value read", "list", c.listName, "key", key, "bytes", len(task.Notes))
	return task.Notes, true, nil
}

// Write implements kv.Store.
func (c *Client) Write(ctx context.Context, key, value string) error {
	if len(value) > MaxNotesSize {
		return fmt.Errorf("%w: %d bytes (max %d)", kv.ErrTooLarge, len(value), MaxNotesSize)
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	listID, err := c.ensureList(ctx)
	if err != nil {
		return err
	}

	task, err := c.findTask(ctx, listID, key)
	if err != nil {
		return err
	}

	if task == nil {
		_, err = c.svc.Tasks.Insert(listID, &tasks.Task{Title: key, Notes: value}).Context(ctx).Do()
	} else {
		_, err = c.svc.Tasks.Patch(listID, task.Id, &tasks.Task{Notes: value}).Context(ctx).Do()
	}
	if err != nil {
		return wrapError(err)
	}

	c.log.Debug("remote value written", "list", c.listName, "key", key, "bytes", len(value))
	return nil
}

// Close implements kv.Store.
func (c *Client) Close() error { return nil }

// findList resolves the storage list by title (case-insensitive, trimmed).
func (c *Client) findList(ctx context.Context) (string, bool, error) {
	if c.listID != "" {
		return c.listID, true, nil
	}

	want := strings.ToLower(strings.TrimSpace(c.listName))
	err := c.svc.Tasklists.List().MaxResults(PageSize).Pages(ctx, func(resp *tasks.TaskLists) error {
		for _, list := range resp.Items {
			if c.listID == "" && strings.ToLower(strings.TrimSpace(list.Title)) == want {
				c.listID = list.Id
			}
		}
		return nil
	})
	if err != nil {
		return "", false, wrapError(err)
	}
	return c.listID, c.listID != "", nil
}

// ensureList returns the storage list ID, creating the list if needed.
func (c *Client) ensureList(ctx context.Context) (string, error) {
	listID, ok, err := c.findList(ctx)
	if err != nil {
		return "", err
	}
	if ok {
		return listID, nil
	}

	list, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: c.listName}).Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	c.log.Debug("remote list created", "list", c.listName, "id", list.Id)
	c.listID = list.Id
	return list.Id, nil
}

// findTask returns the task titled key, or nil if there is none.
func (c *Client) findTask(ctx context.Context, listID, key string) (*tasks.Task, error) {
	var found *tasks.Task
	err := c.svc.Tasks.List(listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, task := range resp.Items {
				if found == nil && task.Title == key {
					found = task
				}
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return found, nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: token expired or revoked (run: tasker login)", kv.ErrUnauthenticated)
		case http.StatusNotFound:
			return fmt.Errorf("not found")
		}
	}

	return err
}

var _ kv.Store = (*Client)(nil)
