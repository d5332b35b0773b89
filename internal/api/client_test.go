package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mverma/stride/internal/models"
	"github.com/mverma/stride/internal/stats"
)

type fakeTokens struct {
	token string
	err   error
}

func (f fakeTokens) Token() (string, error) { return f.token, f.err }

func testClient(url string) *Client {
	return NewClient(url, 5*time.Second, fakeTokens{token: "test-token"})
}

func TestFetchUsers_DecodesWireShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/users" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", got)
		}
		w.Write([]byte(`{"users":[{"id":1,"name":"Asha","Image_Url":"https://img/a.png"},{"id":2,"name":"Ben"}]}`))
	}))
	defer srv.Close()

	users, err := testClient(srv.URL).FetchUsers(context.Background())
	if err != nil {
		t.Fatalf("FetchUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ImageURL != "https://img/a.png" {
		t.Errorf("Image_Url not decoded: %q", users[0].ImageURL)
	}
	if users[1].ID != 2 || users[1].Name != "Ben" {
		t.Errorf("unexpected second user: %+v", users[1])
	}
}

func TestFetchUsers_NoStoredToken(t *testing.T) {
	c := NewClient("http://unused", time.Second, fakeTokens{})

	_, err := c.FetchUsers(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}

func TestFetchUsers_UnauthorizedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchUsers(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Reason != "token expired" {
		t.Errorf("reason = %q", authErr.Reason)
	}
}

func TestFetchEntries_SortsAndDefaultsStepStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("userId"); got != "3" {
			t.Errorf("userId = %q", got)
		}
		w.Write([]byte(`{"progress":[
			{"date":"2025-03-08","walk_10k_steps":"completed"},
			{"date":"2025-03-06"},
			{"date":"2025-03-07","walk_10k_steps":"partial"}
		]}`))
	}))
	defer srv.Close()

	entries, err := testClient(srv.URL).FetchEntries(context.Background(), 3, "", "")
	if err != nil {
		t.Fatalf("FetchEntries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Date > entries[i].Date {
			t.Errorf("entries not sorted ascending: %s before %s", entries[i-1].Date, entries[i].Date)
		}
	}
	for _, e := range entries {
		if e.Date == "2025-03-06" && e.Walk10kSteps != models.StepNotTracked {
			t.Errorf("missing status should default to not_tracked, got %q", e.Walk10kSteps)
		}
	}
}

func TestFetchEntries_EmptyResultIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"progress":[]}`))
	}))
	defer srv.Close()

	entries, err := testClient(srv.URL).FetchEntries(context.Background(), 1, "", "")
	if err != nil {
		t.Fatalf("empty result should not error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestServerError_CarriesStatusAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"database unavailable"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchUsers(context.Background())
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if serverErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", serverErr.StatusCode)
	}
	if serverErr.Message != "database unavailable" {
		t.Errorf("message = %q", serverErr.Message)
	}
}

func TestNetworkError_WrapsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := testClient(srv.URL).FetchUsers(context.Background())
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.Unwrap() == nil {
		t.Error("NetworkError should wrap the transport error")
	}
}

func TestCreateEntry_SetsIdempotencyKeyAndUser(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Idempotency-Key")
		w.Write([]byte(`{"message":"created"}`))
	}))
	defer srv.Close()

	entry := models.ProgressEntry{Date: "2025-03-08", Walk10kSteps: models.StepCompleted}
	saved, err := testClient(srv.URL).CreateEntry(context.Background(), 4, entry)
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if gotKey == "" {
		t.Error("idempotency key header not set")
	}
	if saved.UserID != 4 {
		t.Errorf("UserID = %d, want 4", saved.UserID)
	}
}

func TestCreateEntry_ConflictOnDuplicateDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"entry already exists for this date"}`))
	}))
	defer srv.Close()

	entry := models.ProgressEntry{Date: "2025-03-08", Walk10kSteps: models.StepNotTracked}
	_, err := testClient(srv.URL).CreateEntry(context.Background(), 1, entry)

	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Date != "2025-03-08" {
		t.Errorf("conflict date = %q", conflict.Date)
	}
}

func TestLogin_ReturnsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("login must not send a bearer token")
		}
		w.Write([]byte(`{"message":"welcome","token":"fresh-token"}`))
	}))
	defer srv.Close()

	token, msg, err := testClient(srv.URL).Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "fresh-token" || msg != "welcome" {
		t.Errorf("token=%q msg=%q", token, msg)
	}
}

func TestLogin_MissingTokenInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	_, _, err := testClient(srv.URL).Login(context.Background(), "a@b.c", "pw")
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
}

func TestAggregateFallback_RecomputesLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/progress/weekly":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"aggregation unavailable"}`))
		case "/api/progress/daily":
			w.Write([]byte(`{"progress":[
				{"date":"2025-03-08","water_intake":2,"walk_10k_steps":"completed"},
				{"date":"2025-03-09","water_intake":3,"walk_10k_steps":"partial"}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	window := stats.Window{Start: "2025-03-03", End: "2025-03-09"}
	agg, err := testClient(srv.URL).FetchWeeklyAggregateWithFallback(context.Background(), 5, window, stats.New())
	if err != nil {
		t.Fatalf("fallback should succeed: %v", err)
	}
	if agg.UserID != 5 {
		t.Errorf("UserID = %d", agg.UserID)
	}
	if agg.TotalSteps != 15000 {
		t.Errorf("TotalSteps = %d, want 15000", agg.TotalSteps)
	}
	if agg.TotalWaterLiters != 5 {
		t.Errorf("TotalWaterLiters = %v, want 5", agg.TotalWaterLiters)
	}
	if agg.WindowStart != window.Start || agg.WindowEnd != window.End {
		t.Errorf("window not carried: %+v", agg)
	}
}

func TestAggregateFallback_AuthErrorPassesThrough(t *testing.T) {
	entriesHit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/progress/daily" {
			entriesHit = true
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	}))
	defer srv.Close()

	window := stats.Window{Start: "2025-03-03", End: "2025-03-09"}
	_, err := testClient(srv.URL).FetchWeeklyAggregateWithFallback(context.Background(), 5, window, stats.New())

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if entriesHit {
		t.Error("auth failure should not trigger the local fallback")
	}
}

func TestAggregateFallback_RemoteSuccessSkipsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/progress/weekly" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"totalSteps":40000,"totalWater":20.5,"totalSleep":48,"progressPercentage":57}`))
	}))
	defer srv.Close()

	window := stats.Window{Start: "2025-03-03", End: "2025-03-09"}
	agg, err := testClient(srv.URL).FetchWeeklyAggregateWithFallback(context.Background(), 2, window, stats.New())
	if err != nil {
		t.Fatalf("FetchWeeklyAggregateWithFallback: %v", err)
	}
	if agg.TotalSteps != 40000 || agg.ProgressPercentage != 57 {
		t.Errorf("remote aggregate not used: %+v", agg)
	}
	if agg.WindowStart != window.Start {
		t.Errorf("window not attached to remote aggregate: %+v", agg)
	}
}
