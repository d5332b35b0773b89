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
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mverma/stride/internal/logger"
	"github.com/mverma/stride/internal/models"
	"github.com/mverma/stride/internal/stats"
)

// TokenProvider supplies the bearer token for authenticated calls. It is
// injected at construction so tests can substitute a fake without touching
// process-wide state.
type TokenProvider interface {
	Token() (string, error)
}

// Client is the typed boundary to the remote progress store. Every
// operation is single-attempt: failures surface to the caller for display,
// never silent retry, so a submitted entry can never be duplicated by the
// transport layer.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenProvider) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// Wire shapes. The server spells some keys differently than our models
// (notably Image_Url), so responses are decoded into private DTOs first.

type wireUser struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"Image_Url"`
}

type usersResponse struct {
	Users []wireUser `json:"users"`
}

type entriesResponse struct {
	Progress []models.ProgressEntry `json:"progress"`
}

type weeklyResponse struct {
	TotalSteps         int     `json:"totalSteps"`
	TotalWater         float64 `json:"totalWater"`
	TotalSleep         float64 `json:"totalSleep"`
	ProgressPercentage int     `json:"progressPercentage"`
}

type messageResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// FetchUsers returns the known user set in server order.
func (c *Client) FetchUsers(ctx context.Context) ([]models.User, error) {
	var resp usersResponse
	if err := c.call(ctx, http.MethodGet, "/api/auth/users", nil, true, &resp); err != nil {
		return nil, err
	}
	users := make([]models.User, len(resp.Users))
	for i, u := range resp.Users {
		users[i] = models.User{ID: u.ID, Name: u.Name, ImageURL: u.ImageURL}
	}
	return users, nil
}

// FetchEntries returns the user's entries within [from, to], sorted by date
// ascending. An empty result is valid: the user simply has no entries yet.
// Empty from/to fetch the user's full history.
func (c *Client) FetchEntries(ctx context.Context, userID int, from, to string) ([]models.ProgressEntry, error) {
	path := "/api/progress/daily?userId=" + strconv.Itoa(userID)
	if from != "" {
		path += "&from=" + from
	}
	if to != "" {
		path += "&to=" + to
	}

	var resp entriesResponse
	if err := c.call(ctx, http.MethodGet, path, nil, true, &resp); err != nil {
		return nil, err
	}

	entries := resp.Progress
	for i := range entries {
		if entries[i].Walk10kSteps == "" {
			entries[i].Walk10kSteps = models.StepNotTracked
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date < entries[j].Date
	})
	return entries, nil
}

// FetchWeeklyAggregate asks the server for the trailing-week roll-up. When
// this fails the caller falls back to fetching entries and aggregating
// locally with the stats resolver.
func (c *Client) FetchWeeklyAggregate(ctx context.Context, userID int) (models.WeeklyAggregate, error) {
	body := map[string]int{"userId": userID}
	var resp weeklyResponse
	if err := c.call(ctx, http.MethodPost, "/api/progress/weekly", body, true, &resp); err != nil {
		return models.WeeklyAggregate{}, err
	}
	return models.WeeklyAggregate{
		UserID:             userID,
		TotalSteps:         resp.TotalSteps,
		TotalWaterLiters:   resp.TotalWater,
		TotalSleepHours:    resp.TotalSleep,
		ProgressPercentage: resp.ProgressPercentage,
	}, nil
}

// Aggregator recomputes a weekly aggregate locally from entries. Satisfied
// by *stats.Resolver; an interface so tests can observe the fallback.
type Aggregator interface {
	Aggregate(userID int, entries []models.ProgressEntry, w stats.Window) models.WeeklyAggregate
}

// FetchWeeklyAggregateWithFallback asks the server for the weekly roll-up
// and, when the server cannot compute it, recomputes it locally from the
// window's entries. Auth failures are not recoverable locally and pass
// through unchanged.
func (c *Client) FetchWeeklyAggregateWithFallback(ctx context.Context, userID int, window stats.Window, resolver Aggregator) (models.WeeklyAggregate, error) {
	agg, err := c.FetchWeeklyAggregate(ctx, userID)
	if err == nil {
		agg.WindowStart = window.Start
		agg.WindowEnd = window.End
		return agg, nil
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		return models.WeeklyAggregate{}, err
	}

	logger.Warn("remote aggregate unavailable, recomputing locally", "user", userID, "error", err)
	entries, fetchErr := c.FetchEntries(ctx, userID, window.Start, window.End)
	if fetchErr != nil {
		// Report the original failure, the fallback failed the same way
		return models.WeeklyAggregate{}, err
	}
	return resolver.Aggregate(userID, entries, window), nil
}

// CreateEntry submits a validated entry. A 409 becomes ConflictError; the
// caller decides whether that means "offer edit" or a surfaced failure.
// An idempotency key guards against transport-level duplication of the write.
func (c *Client) CreateEntry(ctx context.Context, userID int, entry models.ProgressEntry) (models.ProgressEntry, error) {
	entry.UserID = userID
	req, err := c.newRequest(ctx, http.MethodPost, "/api/progress/daily", entry, true)
	if err != nil {
		return models.ProgressEntry{}, err
	}
	req.Header.Set("X-Idempotency-Key", uuid.New().String())

	var resp messageResponse
	if err := c.do(req, "create entry", entry.Date, &resp); err != nil {
		return models.ProgressEntry{}, err
	}
	logger.Info("entry created", "user", userID, "date", entry.Date)
	return entry, nil
}

// UpdateEntry replaces an existing entry. The payload goes through the same
// validation path as creation before it reaches this call.
func (c *Client) UpdateEntry(ctx context.Context, entry models.ProgressEntry) (models.ProgressEntry, error) {
	path := "/api/progress/daily/" + strconv.Itoa(entry.ID)
	var resp messageResponse
	if err := c.call(ctx, http.MethodPut, path, entry, true, &resp); err != nil {
		return models.ProgressEntry{}, err
	}
	logger.Info("entry updated", "id", entry.ID, "date", entry.Date)
	return entry, nil
}

// DeleteEntry removes an entry by id.
func (c *Client) DeleteEntry(ctx context.Context, id int) error {
	path := "/api/progress/daily/" + strconv.Itoa(id)
	var resp messageResponse
	if err := c.call(ctx, http.MethodDelete, path, nil, true, &resp); err != nil {
		return err
	}
	logger.Info("entry deleted", "id", id)
	return nil
}

// Login exchanges credentials for a bearer token. Unauthenticated.
func (c *Client) Login(ctx context.Context, email, password string) (string, string, error) {
	body := map[string]string{"emailid": email, "password": password}
	var resp messageResponse
	if err := c.call(ctx, http.MethodPost, "/api/auth/login", body, false, &resp); err != nil {
		return "", "", err
	}
	if resp.Token == "" {
		return "", "", &ServerError{StatusCode: http.StatusOK, Message: "login response contained no token"}
	}
	return resp.Token, resp.Message, nil
}

// SignupRequest carries the profile fields for account creation. The
// profile image goes through the attachment service separately and is not
// part of this payload.
type SignupRequest struct {
	Name         string `json:"name"`
	EmailID      string `json:"emailid"`
	PhoneNumber  string `json:"phone_number"`
	Password     string `json:"password"`
	GithubLink   string `json:"github_link,omitempty"`
	LinkedinLink string `json:"linkedin_link,omitempty"`
	Skills       string `json:"skills,omitempty"`
}

// Signup creates a new account. Unauthenticated.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (string, error) {
	var resp messageResponse
	if err := c.call(ctx, http.MethodPost, "/api/auth/signup", req, false, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// call builds, sends, and decodes a request in one step.
func (c *Client) call(ctx context.Context, method, path string, body interface{}, authed bool, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body, authed)
	if err != nil {
		return err
	}
	return c.do(req, method+" "+path, "", out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}, authed bool) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		token, err := c.tokens.Token()
		if err != nil || token == "" {
			return nil, &AuthError{Reason: "no token stored, run 'stride login'"}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// do executes the request and maps the response onto the error taxonomy.
// conflictDate feeds ConflictError when a 409 comes back.
func (c *Client) do(req *http.Request, op, conflictDate string, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		logger.Warn("request failed", "op", op, "error", err)
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := serverMessage(resp.Body)
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return &AuthError{Reason: message}
		case http.StatusConflict:
			return &ConflictError{Date: conflictDate, Message: message}
		default:
			return &ServerError{StatusCode: resp.StatusCode, Message: message}
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &ServerError{StatusCode: resp.StatusCode, Message: "malformed response from server"}
		}
	}
	return nil
}

func serverMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err != nil {
		return ""
	}
	var e errorResponse
	if err := json.Unmarshal(data, &e); err != nil {
		return ""
	}
	return e.Error
}
