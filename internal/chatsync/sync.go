package chatsync

import (
	"context"
	"errors"
	"strings"
	"sync"

	"mosdac/internal/api"
	"mosdac/internal/chat"
	"mosdac/internal/session"
)

// ErrBusy is returned when a send is attempted while another one is still
// in flight for this synchronizer. Callers should disable further sends
// until the outstanding one resolves.
var ErrBusy = errors.New("chatsync: send already in flight")

// Synchronizer reconciles the local message cache with the backend
// conversation. The server-held history is the source of truth; the local
// copy is a cache that LoadHistory may replace wholesale.
type Synchronizer struct {
	api      *api.Client
	sessions *session.Manager

	mu       sync.Mutex
	sending  bool
	messages []chat.Message
}

func New(client *api.Client, sessions *session.Manager) *Synchronizer {
	return &Synchronizer{api: client, sessions: sessions}
}

// Messages returns a snapshot of the local message cache.
func (s *Synchronizer) Messages() []chat.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]chat.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Sending reports whether a send is currently in flight.
func (s *Synchronizer) Sending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sending
}

// SendMessage appends the user message optimistically, sends it with the
// current session id, and appends exactly one assistant message on success.
// Blank input is a no-op. On failure the user message stays in place and no
// assistant message is synthesized; the caller infers failure from the
// returned error. Sends are single-flight per synchronizer.
func (s *Synchronizer) SendMessage(ctx context.Context, text string) (chat.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return chat.Message{}, nil
	}

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return chat.Message{}, ErrBusy
	}
	s.sending = true
	s.messages = append(s.messages, chat.Message{Role: chat.RoleUser, Content: text})
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sending = false
		s.mu.Unlock()
	}()

	sid, err := s.sessions.GetSessionID()
	if err != nil {
		return chat.Message{}, err
	}

	resp, err := s.api.Query(ctx, text, sid)
	if err != nil {
		return chat.Message{}, err
	}

	reply := chat.Message{
		Role:    chat.RoleAssistant,
		Content: resp.Answer,
		Sources: resp.Sources,
	}
	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.mu.Unlock()
	return reply, nil
}

// LoadHistory fetches the full message sequence and replaces the local
// cache wholesale. Safe to call repeatedly; this is how a fresh surface
// recovers conversation state.
func (s *Synchronizer) LoadHistory(ctx context.Context) error {
	msgs, err := s.api.History(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.messages = msgs
	s.mu.Unlock()
	return nil
}

// ClearHistory asks the backend to discard the session's stored history,
// then drops the local session identity so the next message starts a new
// session. A missing session id is not an error; there is nothing to clear.
func (s *Synchronizer) ClearHistory(ctx context.Context) error {
	sid, ok := s.sessions.CurrentID()
	if ok {
		if err := s.api.ClearHistory(ctx, sid); err != nil {
			return err
		}
	}
	if err := s.sessions.ClearSession(); err != nil {
		return err
	}
	s.mu.Lock()
	s.messages = nil
	s.mu.Unlock()
	return nil
}
