package api

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

	"mosdac/internal/chat"
	"mosdac/internal/config"
)

// TokenSource supplies the current bearer token, if any. Every outbound
// request attaches it when present; tokenless requests (login, register)
// work through the same path without special-casing.
type TokenSource interface {
	Token() (string, bool)
}

// NoToken is a TokenSource that never has a token.
type NoToken struct{}

func (NoToken) Token() (string, bool) { return "", false }

// Client is the single HTTP client for the assistant backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

func NewClient(cfg config.ServerConfig, tokens TokenSource) *Client {
	if tokens == nil {
		tokens = NoToken{}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
		tokens: tokens,
	}
}

// User is the authenticated account record from GET /auth/me.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// QueryResponse is the assistant reply for one chat turn.
type QueryResponse struct {
	Answer    string                `json:"answer"`
	SessionID string                `json:"session_id"`
	Sources   []chat.SourceDocument `json:"sources,omitempty"`
}

// Job is the backend's download-job record. The client only ever observes
// it; all transitions happen server-side.
type Job struct {
	ID           int64  `json:"id"`
	Status       string `json:"status"`
	FilePath     string `json:"file_path,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// DownloadRequest queues a dataset download on the backend.
type DownloadRequest struct {
	DatasetID string `json:"dataset_id"`
	Username  string `json:"mosdac_username"`
	Password  string `json:"mosdac_password"`
}

// HistoryFilter narrows GET /download/history. Zero values mean no filter.
type HistoryFilter struct {
	Status string
	Limit  int
}

// Login exchanges credentials for a bearer token. The token is returned,
// not stored; persisting it is the credential store's job.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return "", fmt.Errorf("login response has no access_token")
	}
	return out.AccessToken, nil
}

func (c *Client) Register(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.doJSON(ctx, http.MethodPost, "/auth/register", body, nil)
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &out)
	return out, err
}

// Query sends one user message for the given session id.
func (c *Client) Query(ctx context.Context, query, sessionID string) (QueryResponse, error) {
	var out QueryResponse
	body := map[string]string{"query": query, "session_id": sessionID}
	err := c.doJSON(ctx, http.MethodPost, "/chat/query", body, &out)
	return out, err
}

// History fetches the full message sequence for the caller's conversation.
func (c *Client) History(ctx context.Context) ([]chat.Message, error) {
	var out struct {
		History []chat.Message `json:"history"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/chat/history", nil, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

// ClearHistory asks the backend to discard the session's stored history.
func (c *Client) ClearHistory(ctx context.Context, sessionID string) error {
	body := map[string]string{"session_id": sessionID}
	return c.doJSON(ctx, http.MethodPost, "/chat/clear-history", body, nil)
}

func (c *Client) StartDownload(ctx context.Context, req DownloadRequest) (Job, error) {
	var out Job
	err := c.doJSON(ctx, http.MethodPost, "/download/start", req, &out)
	return out, err
}

func (c *Client) DownloadHistory(ctx context.Context, filter HistoryFilter) ([]Job, error) {
	path := "/download/history"
	params := make([]string, 0, 2)
	if status := strings.TrimSpace(filter.Status); status != "" {
		params = append(params, "status="+url.QueryEscape(status))
	}
	if filter.Limit > 0 {
		params = append(params, fmt.Sprintf("limit=%d", filter.Limit))
	}
	if len(params) > 0 {
		path += "?" + strings.Join(params, "&")
	}
	var out []Job
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DownloadStatus(ctx context.Context, id int64) (Job, error) {
	var out Job
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/download/status/%d", id), nil, &out)
	return out, err
}

// DownloadFile streams the finished archive for a completed job into w.
func (c *Client) DownloadFile(ctx context.Context, id int64, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/download/file/%d", id), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, classifyStatus(resp.StatusCode, readDetail(resp.Body))
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("read download body: %w", err)
	}
	return n, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.tokens.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyStatus(resp.StatusCode, readDetail(resp.Body))
	}
	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s response: %w", path, err)
	}
	return nil
}

// readDetail extracts the backend's {"detail": "..."} field from an error
// body. Non-JSON bodies yield an empty detail so the generic message applies.
func readDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil {
		return ""
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &payload) == nil && strings.TrimSpace(payload.Detail) != "" {
		return strings.TrimSpace(payload.Detail)
	}
	return ""
}
