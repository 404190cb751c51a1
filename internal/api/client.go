package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kutbudev/todolists/internal/config"
	"github.com/kutbudev/todolists/internal/models"
	"github.com/kutbudev/todolists/internal/remote"
)

// SessionHeader identifies one running client to the server.
const SessionHeader = "X-Client-Session"

// Client talks to the todolists HTTP API and implements remote.Remote.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	APIKey     string
	Session    string
}

// NewClient creates a new API client from the saved configuration
func NewClient() *Client {
	cfg, err := config.LoadConfig()
	if err != nil || cfg == nil {
		cfg = &config.Config{}
	}
	return NewClientFromConfig(cfg)
}

func NewClientFromConfig(cfg *config.Config) *Client {
	return &Client{
		BaseURL: cfg.BaseURL(),
		APIKey:  cfg.Key(),
		Session: uuid.NewString(),
		HTTPClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// errorBody covers both error shapes the server sends.
type errorBody struct {
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors"`
}

// makeRequest makes an HTTP request and returns the response body. Failures
// come back as *remote.Error.
func (c *Client) makeRequest(ctx context.Context, op, method, endpoint string, body interface{}) ([]byte, error) {
	url := c.BaseURL + endpoint

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	if c.Session != "" {
		req.Header.Set(SessionHeader, c.Session)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, &remote.Error{Kind: remote.TransientNetworkFailure, Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &remote.Error{Kind: remote.TransientNetworkFailure, Op: op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return nil, statusError(op, resp.StatusCode, respBody)
	}

	return respBody, nil
}

func statusError(op string, status int, body []byte) *remote.Error {
	e := &remote.Error{Op: op}
	switch status {
	case http.StatusNotFound:
		e.Kind = remote.NotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		e.Kind = remote.ValidationFailed
	default:
		e.Kind = remote.TransientNetworkFailure
	}

	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		if len(eb.Errors) > 0 {
			fields := make([]string, 0, len(eb.Errors))
			for f := range eb.Errors {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			e.Field = fields[0]
			e.Message = strings.Join(eb.Errors[e.Field], " ")
		} else if eb.Error != "" {
			e.Message = eb.Error
		}
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("API request failed with status %d: %s", status, strings.TrimSpace(string(body)))
	}
	return e
}

// createdID reads the id a create endpoint answers with: either a bare
// number or {"id": n}.
func createdID(op string, body []byte) (int, error) {
	var id int
	if err := json.Unmarshal(body, &id); err == nil {
		return id, nil
	}
	var obj struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return 0, &remote.Error{Kind: remote.TransientNetworkFailure, Op: op, Err: fmt.Errorf("failed to unmarshal id: %w", err)}
	}
	if obj.ID == 0 {
		return 0, &remote.Error{Kind: remote.TransientNetworkFailure, Op: op, Err: errors.New("response carried no id")}
	}
	return obj.ID, nil
}

// LoadAll fetches every list with its items plus the lookup tables.
func (c *Client) LoadAll(ctx context.Context) (*models.Snapshot, error) {
	respBody, err := c.makeRequest(ctx, "load", "GET", "/TodoLists", nil)
	if err != nil {
		return nil, err
	}
	var snap models.Snapshot
	if err := json.Unmarshal(respBody, &snap); err != nil {
		return nil, &remote.Error{Kind: remote.TransientNetworkFailure, Op: "load", Err: fmt.Errorf("failed to unmarshal lists: %w", err)}
	}
	for _, l := range snap.Lists {
		for _, it := range l.Items {
			if it.ListID == 0 {
				it.ListID = l.ID
			}
		}
	}
	return &snap, nil
}

// List API methods
func (c *Client) CreateList(ctx context.Context, title string) (int, error) {
	respBody, err := c.makeRequest(ctx, "create list", "POST", "/TodoLists", map[string]string{"title": title})
	if err != nil {
		return 0, err
	}
	return createdID("create list", respBody)
}

func (c *Client) UpdateList(ctx context.Context, id int, title string) error {
	reqBody := map[string]interface{}{"id": id, "title": title}
	_, err := c.makeRequest(ctx, "update list", "PUT", fmt.Sprintf("/TodoLists/%d", id), reqBody)
	return err
}

func (c *Client) DeleteList(ctx context.Context, id int) error {
	_, err := c.makeRequest(ctx, "delete list", "DELETE", fmt.Sprintf("/TodoLists/%d", id), nil)
	return err
}

// Item API methods
func (c *Client) CreateItem(ctx context.Context, listID int, title string, priority models.Priority, color models.Color) (int, error) {
	reqBody := map[string]interface{}{
		"listId":   listID,
		"title":    title,
		"priority": priority,
		"color":    color,
	}
	respBody, err := c.makeRequest(ctx, "create item", "POST", "/TodoItems", reqBody)
	if err != nil {
		return 0, err
	}
	return createdID("create item", respBody)
}

func (c *Client) UpdateItem(ctx context.Context, id int, title string, done bool) error {
	reqBody := map[string]interface{}{"id": id, "title": title, "done": done}
	_, err := c.makeRequest(ctx, "update item", "PUT", fmt.Sprintf("/TodoItems/%d", id), reqBody)
	return err
}

func (c *Client) UpdateItemDetails(ctx context.Context, id int, d models.ItemDetails) error {
	reqBody := map[string]interface{}{
		"id":       id,
		"listId":   d.ListID,
		"priority": d.Priority,
		"color":    d.Color,
		"tags":     d.Tags,
		"note":     d.Note,
	}
	_, err := c.makeRequest(ctx, "update item details", "PUT", fmt.Sprintf("/TodoItems/%d/details", id), reqBody)
	return err
}

func (c *Client) SoftDeleteItem(ctx context.Context, id int) error {
	_, err := c.makeRequest(ctx, "soft delete item", "PUT", fmt.Sprintf("/TodoItems/%d/soft-delete", id), nil)
	return err
}

func (c *Client) DeleteItem(ctx context.Context, id int) error {
	_, err := c.makeRequest(ctx, "delete item", "DELETE", fmt.Sprintf("/TodoItems/%d", id), nil)
	return err
}

var _ remote.Remote = (*Client)(nil)
