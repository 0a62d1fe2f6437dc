// Package recordstore is an HTTP client for a json-server style record store
// exposing /meals and /users collections.
package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"mealmate/internal/domain"
)

// StatusError reports an unexpected HTTP status from the record store.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client implements the meal and user repositories over HTTP.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
}

// Ensure interfaces are met.
var _ domain.MealRepository = (*Client)(nil)
var _ domain.UserRepository = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRateLimit caps outgoing requests per second. A non-positive rps
// disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New creates a client for the record store at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse record store url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("record store url must be absolute, got %q", baseURL)
	}
	c := &Client{
		base:    u,
		http:    &http.Client{Timeout: 5 * time.Second},
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do sends one JSON request. A 404 is reported as notFound; out may be nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, notFound error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound && notFound != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return notFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func mealPath(id domain.ID) string { return "meals/" + url.PathEscape(string(id)) }

func mealNotFound(id domain.ID) error { return fmt.Errorf("meal %s: %w", id, domain.ErrMealNotFound) }

// --- MealRepository ---

// ListMeals fetches the whole meals collection.
func (c *Client) ListMeals(ctx context.Context) ([]domain.Meal, error) {
	var meals []domain.Meal
	if err := c.do(ctx, http.MethodGet, "meals", nil, nil, &meals, nil); err != nil {
		return nil, err
	}
	if meals == nil {
		meals = []domain.Meal{}
	}
	return meals, nil
}

// GetMeal fetches one meal.
func (c *Client) GetMeal(ctx context.Context, id domain.ID) (domain.Meal, error) {
	var m domain.Meal
	err := c.do(ctx, http.MethodGet, mealPath(id), nil, nil, &m, mealNotFound(id))
	return m, err
}

// CreateMeal posts m without an id; the store assigns one.
func (c *Client) CreateMeal(ctx context.Context, m domain.Meal) (domain.Meal, error) {
	m.ID = ""
	var out domain.Meal
	if err := c.do(ctx, http.MethodPost, "meals", nil, m, &out, nil); err != nil {
		return domain.Meal{}, err
	}
	if out.ID == "" {
		return domain.Meal{}, fmt.Errorf("record store returned a meal without an id")
	}
	return out, nil
}

// ReplaceMeal puts the full record.
func (c *Client) ReplaceMeal(ctx context.Context, id domain.ID, m domain.Meal) (domain.Meal, error) {
	m.ID = id
	var out domain.Meal
	err := c.do(ctx, http.MethodPut, mealPath(id), nil, m, &out, mealNotFound(id))
	return out, err
}

// PatchMeal sends only the fields present in p.
func (c *Client) PatchMeal(ctx context.Context, id domain.ID, p domain.MealPatch) (domain.Meal, error) {
	var out domain.Meal
	err := c.do(ctx, http.MethodPatch, mealPath(id), nil, p, &out, mealNotFound(id))
	return out, err
}

// DeleteMeal deletes one meal.
func (c *Client) DeleteMeal(ctx context.Context, id domain.ID) error {
	return c.do(ctx, http.MethodDelete, mealPath(id), nil, nil, nil, mealNotFound(id))
}

// --- UserRepository ---

// FindUsers queries /users by exact field match.
func (c *Client) FindUsers(ctx context.Context, q domain.UserQuery) ([]domain.User, error) {
	query := url.Values{}
	if q.Username != "" {
		query.Set("username", q.Username)
	}
	if q.Password != "" {
		query.Set("password", q.Password)
	}
	var users []domain.User
	if err := c.do(ctx, http.MethodGet, "users", query, nil, &users, nil); err != nil {
		return nil, err
	}
	// Some stores ignore unknown filters; apply them again locally.
	out := []domain.User{}
	for _, u := range users {
		if q.Matches(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

// GetUser fetches one user.
func (c *Client) GetUser(ctx context.Context, id domain.ID) (domain.User, error) {
	var u domain.User
	err := c.do(ctx, http.MethodGet, "users/"+url.PathEscape(string(id)), nil, nil, &u,
		fmt.Errorf("user %s: %w", id, domain.ErrUserNotFound))
	return u, err
}

// CreateUser posts a new user record.
func (c *Client) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	u.ID = ""
	var out domain.User
	if err := c.do(ctx, http.MethodPost, "users", nil, u, &out, nil); err != nil {
		return domain.User{}, err
	}
	return out, nil
}
