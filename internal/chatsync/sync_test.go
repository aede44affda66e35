package chatsync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"mosdac/internal/api"
	"mosdac/internal/chat"
	"mosdac/internal/config"
	"mosdac/internal/session"
	"mosdac/internal/store"
)

func newTestSync(t *testing.T, handler http.Handler) (*Synchronizer, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	sessions := session.NewManager(st, session.DefaultTTL)
	client := api.NewClient(config.ServerConfig{BaseURL: srv.URL, TimeoutMS: 2000}, api.NoToken{})
	return New(client, sessions), srv
}

func TestSendAppendsUserThenAssistant(t *testing.T) {
	s, _ := newTestSync(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.QueryResponse{
			Answer:  "INSAT-3D carries an imager and a sounder.",
			Sources: []chat.SourceDocument{{URL: "https://mosdac.gov.in/insat-3d", Title: "INSAT-3D"}},
		})
	}))

	reply, err := s.SendMessage(context.Background(), "  tell me about INSAT-3D  ")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Role != chat.RoleAssistant {
		t.Fatalf("role=%q", reply.Role)
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len=%d", len(msgs))
	}
	if msgs[0].Role != chat.RoleUser || msgs[0].Content != "tell me about INSAT-3D" {
		t.Fatalf("user msg=%+v", msgs[0])
	}
	if len(msgs[1].Sources) != 1 {
		t.Fatalf("sources=%v", msgs[1].Sources)
	}
}

func TestBlankSendIsNoOp(t *testing.T) {
	var hits atomic.Int32
	s, _ := newTestSync(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	reply, err := s.SendMessage(context.Background(), "   ")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Role != "" || reply.Content != "" {
		t.Fatalf("reply=%+v", reply)
	}
	if hits.Load() != 0 {
		t.Fatalf("request sent for blank input")
	}
	if len(s.Messages()) != 0 {
		t.Fatalf("messages=%v", s.Messages())
	}
}

func TestConcurrentSendRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	s, _ := newTestSync(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_ = json.NewEncoder(w).Encode(api.QueryResponse{Answer: "done"})
	}))

	errc := make(chan error, 1)
	go func() {
		_, err := s.SendMessage(context.Background(), "first")
		errc <- err
	}()

	// wait until the first send is truly in flight
	<-started
	if !s.Sending() {
		t.Fatal("Sending()=false with a request in flight")
	}
	_, err := s.SendMessage(context.Background(), "second")
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("err=%v, want ErrBusy", err)
	}

	close(release)
	if err := <-errc; err != nil {
		t.Fatal(err)
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len=%d, want one user + one assistant", len(msgs))
	}
	if msgs[0].Role != chat.RoleUser || msgs[0].Content != "first" {
		t.Fatalf("msgs[0]=%+v", msgs[0])
	}
	if msgs[1].Role != chat.RoleAssistant {
		t.Fatalf("msgs[1]=%+v", msgs[1])
	}
}

func TestFailedSendKeepsUserMessage(t *testing.T) {
	s, _ := newTestSync(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := s.SendMessage(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}

	msgs := s.Messages()
	if len(msgs) != 1 {
		t.Fatalf("len=%d", len(msgs))
	}
	if msgs[0].Role != chat.RoleUser {
		t.Fatalf("role=%q", msgs[0].Role)
	}
	if s.Sending() {
		t.Fatalf("still sending after failure")
	}
}

func TestLoadHistoryReplacesWholesale(t *testing.T) {
	serverHistory := []chat.Message{
		{Role: chat.RoleUser, Content: "old question"},
		{Role: chat.RoleAssistant, Content: "old answer"},
	}
	s, _ := newTestSync(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string][]chat.Message{"history": serverHistory})
	}))

	if err := s.LoadHistory(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.LoadHistory(context.Background()); err != nil {
		t.Fatal(err)
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("len=%d (reload must replace, not append)", len(msgs))
	}
	if msgs[0].Content != "old question" {
		t.Fatalf("msgs[0]=%+v", msgs[0])
	}
}

func TestLoadHistoryFailureKeepsLocal(t *testing.T) {
	fail := false
	s, _ := newTestSync(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string][]chat.Message{
			"history": {{Role: chat.RoleUser, Content: "kept"}},
		})
	}))

	if err := s.LoadHistory(context.Background()); err != nil {
		t.Fatal(err)
	}
	fail = true
	if err := s.LoadHistory(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(s.Messages()) != 1 {
		t.Fatalf("local cache lost on failed reload: %v", s.Messages())
	}
}

func TestClearHistoryResetsSession(t *testing.T) {
	var clearedSession string
	s, _ := newTestSync(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/chat/clear-history" {
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			clearedSession = body["session_id"]
			return
		}
		_ = json.NewEncoder(w).Encode(api.QueryResponse{Answer: "ok"})
	}))

	if _, err := s.SendMessage(context.Background(), "hi"); err != nil {
		t.Fatal(err)
	}
	sid, ok := s.sessions.CurrentID()
	if !ok {
		t.Fatal("no session after send")
	}

	if err := s.ClearHistory(context.Background()); err != nil {
		t.Fatal(err)
	}
	if clearedSession != sid {
		t.Fatalf("cleared %q, want %q", clearedSession, sid)
	}
	if len(s.Messages()) != 0 {
		t.Fatalf("messages=%v", s.Messages())
	}
	if _, ok := s.sessions.CurrentID(); ok {
		t.Fatalf("session survived clear")
	}
}

func TestClearHistoryWithoutSessionSkipsBackend(t *testing.T) {
	var hits atomic.Int32
	s, _ := newTestSync(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	if err := s.ClearHistory(context.Background()); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 0 {
		t.Fatalf("backend called with no live session")
	}
}
