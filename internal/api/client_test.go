package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mosdac/internal/config"
	"mosdac/internal/i18n"
)

type staticToken string

func (s staticToken) Token() (string, bool) { return string(s), s != "" }

func newTestClient(url string, tokens TokenSource) *Client {
	return NewClient(config.ServerConfig{BaseURL: url, TimeoutMS: 2000}, tokens)
}

func TestBearerAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(User{ID: 1, Email: "a@b.c"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, staticToken("tok123"))
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("Authorization=%q", gotAuth)
	}
}

func TestNoBearerWithoutToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "fresh"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, NoToken{})
	token, err := c.Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if token != "fresh" {
		t.Fatalf("token=%q", token)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization=%q on login", gotAuth)
	}
}

func TestQuerySendsSessionID(t *testing.T) {
	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/query" {
			t.Errorf("path=%q", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(QueryResponse{Answer: "hi", SessionID: body["session_id"]})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, NoToken{})
	resp, err := c.Query(context.Background(), "what is INSAT", "session_1_ab")
	if err != nil {
		t.Fatal(err)
	}
	if body["query"] != "what is INSAT" || body["session_id"] != "session_1_ab" {
		t.Fatalf("body=%v", body)
	}
	if resp.Answer != "hi" {
		t.Fatalf("answer=%q", resp.Answer)
	}
}

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   Kind
	}{
		{http.StatusUnauthorized, KindUnauthorized},
		{http.StatusNotFound, KindNotFound},
		{http.StatusInternalServerError, KindServer},
		{http.StatusBadRequest, KindServer},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		c := newTestClient(srv.URL, NoToken{})
		_, err := c.Me(context.Background())
		srv.Close()

		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("status %d: err=%v", tc.status, err)
		}
		if apiErr.Kind != tc.kind {
			t.Fatalf("status %d: kind=%v, want %v", tc.status, apiErr.Kind, tc.kind)
		}
	}
}

func TestDetailPreferredVerbatim(t *testing.T) {
	i18n.Init("en")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "Invalid MOSDAC credentials"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, NoToken{})
	_, err := c.Me(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := UserMessage(err); got != "Invalid MOSDAC credentials" {
		t.Fatalf("got %q", got)
	}
}

func TestNetworkErrorKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newTestClient(url, NoToken{})
	_, err := c.Me(context.Background())

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err=%v", err)
	}
	if apiErr.Kind != KindNetwork {
		t.Fatalf("kind=%v", apiErr.Kind)
	}
}

func TestIsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, NoToken{})
	_, err := c.Me(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("err=%v", err)
	}
}

func TestDownloadHistoryQueryParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"id": 3, "status": "queued"}]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, NoToken{})
	jobs, err := c.DownloadHistory(context.Background(), HistoryFilter{Status: "queued", Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if gotQuery != "status=queued&limit=5" {
		t.Fatalf("query=%q", gotQuery)
	}
	if len(jobs) != 1 || jobs[0].ID != 3 {
		t.Fatalf("jobs=%v", jobs)
	}
}

func TestDownloadHistoryEscapesStatus(t *testing.T) {
	var gotStatus string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStatus = r.URL.Query().Get("status")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, NoToken{})
	raw := "in progress&failed"
	if _, err := c.DownloadHistory(context.Background(), HistoryFilter{Status: raw}); err != nil {
		t.Fatal(err)
	}
	if gotStatus != raw {
		t.Fatalf("status=%q, want %q", gotStatus, raw)
	}
}
