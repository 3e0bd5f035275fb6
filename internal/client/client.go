// Package client is a typed REST client for the sneaker engine API. Every call
// takes a context so in-flight requests can be cancelled, and non-success
// responses are mapped to the error types in errors.go.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SanderWeide/sneaker-engine/internal/model"
)

// Client talks to a sneaker engine server.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// TokenFunc supplies the bearer token for authenticated calls. A nil
	// func or empty token sends the request unauthenticated.
	TokenFunc func() string
}

// New creates a client for the API at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// RegisterDraft is the signup payload.
type RegisterDraft struct {
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name"`
}

// ListFilter narrows ListSneakers server-side. Zero values are omitted.
type ListFilter struct {
	UserID int64
	SKU    string
	Brand  string
	Model  string
	Skip   int
	Limit  int
}

// Login exchanges credentials for an access token. The server expects an
// OAuth2-style form body with the email in the username field.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{"username": {email}, "password": {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", &AuthError{Status: http.StatusOK, Message: "no token in login response"}
	}
	return resp.AccessToken, nil
}

// Register creates a new account. It does not log in.
func (c *Client) Register(ctx context.Context, draft RegisterDraft) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", draft, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout revokes the current token server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Me fetches the profile for the current token.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListSneakers fetches sneakers matching the filter.
func (c *Client) ListSneakers(ctx context.Context, filter ListFilter) ([]model.Sneaker, error) {
	q := url.Values{}
	if filter.UserID != 0 {
		q.Set("user_id", strconv.FormatInt(filter.UserID, 10))
	}
	if filter.SKU != "" {
		q.Set("sku", filter.SKU)
	}
	if filter.Brand != "" {
		q.Set("brand", filter.Brand)
	}
	if filter.Model != "" {
		q.Set("model", filter.Model)
	}
	if filter.Skip > 0 {
		q.Set("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	path := "/api/sneakers"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var sneakers []model.Sneaker
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &sneakers); err != nil {
		return nil, err
	}
	return sneakers, nil
}

// CreateSneaker creates a sneaker owned by the current user. Ownership comes
// from the token, never from the payload.
func (c *Client) CreateSneaker(ctx context.Context, draft model.SneakerDraft) (*model.Sneaker, error) {
	var sneaker model.Sneaker
	if err := c.doJSON(ctx, http.MethodPost, "/api/sneakers", draft, &sneaker); err != nil {
		return nil, err
	}
	return &sneaker, nil
}

// GetSneaker fetches a single sneaker.
func (c *Client) GetSneaker(ctx context.Context, id int64) (*model.Sneaker, error) {
	var sneaker model.Sneaker
	path := fmt.Sprintf("/api/sneakers/%d", id)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &sneaker); err != nil {
		return nil, err
	}
	return &sneaker, nil
}

// UpdateSneaker applies a partial update and returns the full updated record.
func (c *Client) UpdateSneaker(ctx context.Context, id int64, patch model.SneakerPatch) (*model.Sneaker, error) {
	var sneaker model.Sneaker
	path := fmt.Sprintf("/api/sneakers/%d", id)
	if err := c.doJSON(ctx, http.MethodPut, path, patch, &sneaker); err != nil {
		return nil, err
	}
	return &sneaker, nil
}

// DeleteSneaker removes a sneaker.
func (c *Client) DeleteSneaker(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/sneakers/%d", id), nil, nil)
}

// CreateProposition creates a sale proposition.
func (c *Client) CreateProposition(ctx context.Context, draft model.PropositionDraft) (*model.Proposition, error) {
	var prop model.Proposition
	if err := c.doJSON(ctx, http.MethodPost, "/api/propositions", draft, &prop); err != nil {
		return nil, err
	}
	return &prop, nil
}

// MyPropositions fetches propositions where the current user is a party.
func (c *Client) MyPropositions(ctx context.Context) ([]model.Proposition, error) {
	var props []model.Proposition
	if err := c.doJSON(ctx, http.MethodGet, "/api/propositions/mine", nil, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// doJSON builds a request with an optional JSON body and decodes the JSON
// response into target when target is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body, target any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, target)
}

func (c *Client) do(req *http.Request, target any) error {
	if c.TokenFunc != nil {
		if token := c.TokenFunc(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.responseError(resp)
	}

	if target == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &NetworkError{Status: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// responseError maps a non-success response to the error taxonomy.
func (c *Client) responseError(resp *http.Response) error {
	message := resp.Status
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		message = body.Error
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Status: resp.StatusCode, Message: message}
	case resp.StatusCode == http.StatusNotFound:
		return &NotFoundError{Message: message}
	case resp.StatusCode >= 500:
		return &NetworkError{Status: resp.StatusCode, Err: fmt.Errorf("%s", message)}
	default:
		return &ValidationError{Status: resp.StatusCode, Message: message}
	}
}
