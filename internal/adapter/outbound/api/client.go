// Package api is the OJT management API client. It owns the authenticated
// request pipeline (bearer token injection, request IDs, centralized 401
// handling) and maps HTTP failures onto the session error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ojtrack/ojtrack/internal/domain/report"
	"github.com/ojtrack/ojtrack/internal/domain/session"
)

// Client talks to the OJT management REST API. All endpoints live under the
// server's /api prefix, which the client appends itself.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	cache      *responseCache
	cacheTTL   time.Duration

	tokens         TokenSource
	onUnauthorized func()
}

// NewClient creates a client for the API at baseURL (scheme://host, no /api).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeout:  8 * time.Second,
		cacheTTL: 5 * time.Second,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout:   c.timeout,
			Transport: &Transport{Tokens: tokenSourceFunc(c.currentToken)},
		}
	}
	c.cache = newResponseCache(c.cacheTTL)

	return c
}

// tokenSourceFunc adapts a func to the TokenSource interface, so the
// transport can read a token source that is attached after construction.
type tokenSourceFunc func() string

func (f tokenSourceFunc) Token() string { return f() }

func (c *Client) currentToken() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

// AttachSession wires the client to the session manager: tokens supplies the
// bearer token for outgoing requests, onUnauthorized is invoked once per
// authenticated request that comes back 401, so expired sessions are torn
// down centrally instead of per command.
//
// The client and the manager reference each other, so this runs after both
// are constructed.
func (c *Client) AttachSession(tokens TokenSource, onUnauthorized func()) {
	c.tokens = tokens
	c.onUnauthorized = onUnauthorized
}

// doFlags control per-request behavior in doRequest.
type doFlags struct {
	// hookOn401 invokes the onUnauthorized callback when the server
	// rejects the token. Off for login (401 means bad credentials, there
	// is no session to tear down) and for logout (the session is being
	// torn down already).
	hookOn401 bool
	// cacheable serves GET responses from the short-TTL cache.
	cacheable bool
}

// doRequest performs one HTTP request and classifies any failure.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any, flags doFlags) error {
	token := c.currentToken()

	if flags.cacheable && method == http.MethodGet {
		if cached, ok := c.cache.get(path, token); ok {
			c.logger.Debug("served from cache", "path", path)
			return json.Unmarshal(cached, result)
		}
	}

	reqURL := c.baseURL + "/api" + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// No HTTP response reached us: DNS, refused, timeout.
		return &session.ConnectivityError{Cause: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return &session.ConnectivityError{Cause: err}
	}

	if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		if method != http.MethodGet {
			c.cache.flush()
		}
		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				return &session.UnexpectedError{
					Status:  httpResp.StatusCode,
					Message: "malformed response body",
				}
			}
			if flags.cacheable && method == http.MethodGet {
				c.cache.put(path, token, respBody)
			}
		}
		return nil
	}

	return c.classifyHTTPError(httpResp.StatusCode, respBody, flags)
}

// classifyHTTPError maps a non-2xx response onto the session error taxonomy.
func (c *Client) classifyHTTPError(status int, body []byte, flags doFlags) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb) // best effort; an empty envelope is fine

	switch status {
	case http.StatusUnprocessableEntity:
		return &session.ValidationError{Fields: eb.Errors}
	case http.StatusUnauthorized:
		if flags.hookOn401 && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return session.ErrInvalidCredentials
	default:
		return &session.UnexpectedError{Status: status, Message: eb.Message}
	}
}

// ---------------------------------------------------------------------------
// Authentication (session.Authenticator)
// ---------------------------------------------------------------------------

// Login authenticates with the server and returns the user and bearer token.
// It never mutates client or session state; the session manager owns that.
func (c *Client) Login(ctx context.Context, email, password string) (*session.User, string, error) {
	var resp struct {
		User  *session.User `json:"user"`
		Token string        `json:"token"`
	}
	err := c.doRequest(ctx, http.MethodPost, "/login",
		loginRequest{Email: email, Password: password}, &resp, doFlags{})
	if err != nil {
		return nil, "", err
	}
	c.cache.flush()
	return resp.User, resp.Token, nil
}

// Logout notifies the server that the current token should be invalidated.
// The response body is ignored. A 401 surfaces as ErrInvalidCredentials,
// which the session manager treats as "already logged out".
func (c *Client) Logout(ctx context.Context) error {
	err := c.doRequest(ctx, http.MethodPost, "/logout", nil, nil, doFlags{})
	c.cache.flush()
	return err
}

// ---------------------------------------------------------------------------
// Profile (both roles)
// ---------------------------------------------------------------------------

// Profile fetches the authenticated account's profile.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := c.doRequest(ctx, http.MethodGet, "/profile", nil, &p, doFlags{hookOn401: true}); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile updates name and email.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) error {
	return c.doRequest(ctx, http.MethodPatch, "/update/profile", req, nil, doFlags{hookOn401: true})
}

// ChangePassword changes the account password.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	return c.doRequest(ctx, http.MethodPut, "/update/password", req, nil, doFlags{hookOn401: true})
}

// DeleteProfile deletes the account after password confirmation.
func (c *Client) DeleteProfile(ctx context.Context, password string) error {
	return c.doRequest(ctx, http.MethodDelete, "/delete/profile",
		DeleteProfileRequest{Password: password}, nil, doFlags{hookOn401: true})
}

// ---------------------------------------------------------------------------
// Admin resources
// ---------------------------------------------------------------------------

// ListStudents returns all students.
func (c *Client) ListStudents(ctx context.Context) ([]Student, error) {
	var out []Student
	err := c.doRequest(ctx, http.MethodGet, "/admin/students", nil, &out,
		doFlags{hookOn401: true, cacheable: true})
	return out, err
}

// CreateStudent registers a new student account.
func (c *Client) CreateStudent(ctx context.Context, req CreateStudentRequest) error {
	return c.doRequest(ctx, http.MethodPost, "/admin/students", req, nil, doFlags{hookOn401: true})
}

// UpdateStudent updates an existing student.
func (c *Client) UpdateStudent(ctx context.Context, id string, req CreateStudentRequest) error {
	return c.doRequest(ctx, http.MethodPut, "/admin/students/"+url.PathEscape(id), req, nil,
		doFlags{hookOn401: true})
}

// DeleteStudent removes a student.
func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	return c.doRequest(ctx, http.MethodDelete, "/admin/students/"+url.PathEscape(id), nil, nil,
		doFlags{hookOn401: true})
}

// ListPrograms returns all OJT programs.
func (c *Client) ListPrograms(ctx context.Context) ([]Program, error) {
	var out []Program
	err := c.doRequest(ctx, http.MethodGet, "/admin/programs", nil, &out,
		doFlags{hookOn401: true, cacheable: true})
	return out, err
}

// CreateProgram adds a program offering.
func (c *Client) CreateProgram(ctx context.Context, req CreateProgramRequest) error {
	return c.doRequest(ctx, http.MethodPost, "/admin/programs", req, nil, doFlags{hookOn401: true})
}

// ListPartners returns all partner companies.
func (c *Client) ListPartners(ctx context.Context) ([]Partner, error) {
	var out []Partner
	err := c.doRequest(ctx, http.MethodGet, "/admin/partners", nil, &out,
		doFlags{hookOn401: true, cacheable: true})
	return out, err
}

// CreatePartner adds a partner company.
func (c *Client) CreatePartner(ctx context.Context, req CreatePartnerRequest) error {
	return c.doRequest(ctx, http.MethodPost, "/admin/partners", req, nil, doFlags{hookOn401: true})
}

// ListApplications returns all OJT applications.
func (c *Client) ListApplications(ctx context.Context) ([]Application, error) {
	var out []Application
	err := c.doRequest(ctx, http.MethodGet, "/admin/applications", nil, &out,
		doFlags{hookOn401: true, cacheable: true})
	return out, err
}

// CreateApplication files an application on a student's behalf.
func (c *Client) CreateApplication(ctx context.Context, req SubmitApplicationRequest) error {
	return c.doRequest(ctx, http.MethodPost, "/admin/applications", req, nil, doFlags{hookOn401: true})
}

// ReviewApplication sets the review outcome for an application.
func (c *Client) ReviewApplication(ctx context.Context, id string, req ReviewApplicationRequest) error {
	return c.doRequest(ctx, http.MethodPut, "/admin/applications/"+url.PathEscape(id), req, nil,
		doFlags{hookOn401: true})
}

// Report fetches the rows for a generated report.
func (c *Client) Report(ctx context.Context, req ReportRequest) ([]report.Row, error) {
	q := url.Values{}
	q.Set("type", req.Type)
	if req.DateRange != "" {
		q.Set("range", req.DateRange)
	}
	if req.Status != "" {
		q.Set("status", req.Status)
	}

	var out []report.Row
	err := c.doRequest(ctx, http.MethodGet, "/admin/reports?"+q.Encode(), nil, &out,
		doFlags{hookOn401: true, cacheable: true})
	return out, err
}

// ---------------------------------------------------------------------------
// Student resources
// ---------------------------------------------------------------------------

// MyApplication returns the student's own application, if any.
func (c *Client) MyApplication(ctx context.Context) (*StudentApplication, error) {
	var app StudentApplication
	err := c.doRequest(ctx, http.MethodGet, "/application", nil, &app,
		doFlags{hookOn401: true, cacheable: true})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// SubmitApplication files the student's OJT application.
func (c *Client) SubmitApplication(ctx context.Context, req SubmitApplicationRequest) error {
	return c.doRequest(ctx, http.MethodPost, "/student/application/submit", req, nil,
		doFlags{hookOn401: true})
}

// Progress returns the student's OJT progress summary.
func (c *Client) Progress(ctx context.Context) (*Progress, error) {
	var p Progress
	err := c.doRequest(ctx, http.MethodGet, "/student/progress", nil, &p,
		doFlags{hookOn401: true, cacheable: true})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
