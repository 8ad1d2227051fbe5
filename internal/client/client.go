// Package client talks to the cinebook HTTP API and keeps the signed-in
// session on disk for the terminal client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/payment"
)

// DefaultBaseURL is used when CINEBOOK_API is unset.
const DefaultBaseURL = "http://localhost:8080"

// Client is a thin JSON client for the API.  Failed requests are not
// retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Message
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// New creates a client for baseURL.  A nil httpClient uses one with a 15s
// timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) { c.token = token }

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	User    model.Profile `json:"user"`
	Token   string        `json:"token"`
	Refresh struct {
		Token   string    `json:"token"`
		Expires time.Time `json:"expires"`
	} `json:"refresh"`
}

// RegisterRequest is the sign-up form.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/register", req, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", map[string]string{"email": email, "password": password}, &out)
	return out, err
}

// Logout revokes refreshToken, or every session of the bearer when it is
// empty.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	var body any
	if refreshToken != "" {
		body = map[string]string{"refresh_token": refreshToken}
	}
	return c.do(ctx, http.MethodPost, "/v1/auth/logout", body, nil)
}

func (c *Client) Me(ctx context.Context) (model.Profile, error) {
	var out model.Profile
	err := c.do(ctx, http.MethodGet, "/v1/me", nil, &out)
	return out, err
}

// Movies fetches one of the lists: "all", "popular" or "now".  limit is
// ignored for "all"; zero uses the server default.
func (c *Client) Movies(ctx context.Context, list string, limit int) ([]model.Movie, error) {
	path := "/v1/movies"
	switch list {
	case "popular":
		path += "/popular"
	case "now", "now-showing":
		path += "/now-showing"
	}
	if limit > 0 && path != "/v1/movies" {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []model.Movie
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

// Movie returns nil without error when the movie does not exist.
func (c *Client) Movie(ctx context.Context, id string) (*model.Movie, error) {
	var out model.Movie
	err := c.do(ctx, http.MethodGet, "/v1/movies/"+url.PathEscape(id), nil, &out)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Search(ctx context.Context, text string) ([]model.Movie, error) {
	var out []model.Movie
	err := c.do(ctx, http.MethodGet, "/v1/search/movies?q="+url.QueryEscape(text), nil, &out)
	return out, err
}

// BookingRequest is the checkout payload.  Card fields are sent only for
// credit card payments.
type BookingRequest struct {
	MovieID       string              `json:"movie_id"`
	SeatIDs       []string            `json:"seat_ids"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	payment.Input
}

func (c *Client) CreateBooking(ctx context.Context, req BookingRequest) (model.Booking, error) {
	var out model.Booking
	err := c.do(ctx, http.MethodPost, "/v1/bookings", req, &out)
	return out, err
}

func (c *Client) Bookings(ctx context.Context) ([]model.Booking, error) {
	var out []model.Booking
	err := c.do(ctx, http.MethodGet, "/v1/bookings", nil, &out)
	return out, err
}

func (c *Client) CancelBooking(ctx context.Context, id string) (model.Booking, error) {
	var out model.Booking
	err := c.do(ctx, http.MethodPost, "/v1/bookings/"+url.PathEscape(id)+"/cancel", nil, &out)
	return out, err
}

// Ticket downloads the PDF e-ticket.
func (c *Client) Ticket(ctx context.Context, id string) ([]byte, error) {
	res, err := c.send(ctx, http.MethodGet, "/v1/bookings/"+url.PathEscape(id)+"/ticket.pdf", nil)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return io.ReadAll(res.Body)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	res, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// send performs the request and turns non-2xx responses into *APIError.
func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var rd io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if res.StatusCode >= http.StatusOK && res.StatusCode < http.StatusMultipleChoices {
		return res, nil
	}
	defer res.Body.Close()
	var payload struct {
		Error  string            `json:"error"`
		Errors map[string]string `json:"errors"`
	}
	_ = json.NewDecoder(io.LimitReader(res.Body, 8<<10)).Decode(&payload)
	return nil, &APIError{StatusCode: res.StatusCode, Message: payload.Error, Fields: payload.Errors}
}
