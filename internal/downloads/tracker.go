package downloads

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"mosdac/internal/api"
	"mosdac/internal/i18n"
)

// Request carries the three fields the backend requires to queue a
// dataset download.
type Request struct {
	DatasetID string
	Username  string
	Password  string
}

// Result discriminates a submission outcome. Message is user-facing and
// comes from the error taxonomy, never from a raw transport error.
type Result struct {
	OK      bool
	Message string
}

// Tracker observes server-side download jobs. It is pull-based and holds
// no scheduler: the owning view drives polling by calling LoadHistory on
// its own timer and tearing that timer down when the view goes away.
type Tracker struct {
	api   *api.Client
	limit int

	mu      sync.Mutex
	jobs    []api.Job
	lastErr string
}

func NewTracker(client *api.Client, historyLimit int) *Tracker {
	return &Tracker{api: client, limit: historyLimit}
}

// Jobs returns the latest point-in-time snapshot of the job list.
func (t *Tracker) Jobs() []api.Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]api.Job, len(t.jobs))
	copy(out, t.jobs)
	return out
}

// LastError returns the user-facing message from the most recent failed
// refresh or submission, empty when the last operation succeeded.
func (t *Tracker) LastError() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

func (t *Tracker) ClearError() {
	t.mu.Lock()
	t.lastErr = ""
	t.mu.Unlock()
}

// StartDownload validates the request client-side, submits it, and on
// success refreshes the history immediately so the new job shows up
// without waiting for the next poll tick.
func (t *Tracker) StartDownload(ctx context.Context, req Request) Result {
	if strings.TrimSpace(req.DatasetID) == "" ||
		strings.TrimSpace(req.Username) == "" ||
		strings.TrimSpace(req.Password) == "" {
		msg := i18n.T("err.fields_required")
		t.mu.Lock()
		t.lastErr = msg
		t.mu.Unlock()
		return Result{OK: false, Message: msg}
	}

	_, err := t.api.StartDownload(ctx, api.DownloadRequest{
		DatasetID: req.DatasetID,
		Username:  req.Username,
		Password:  req.Password,
	})
	if err != nil {
		msg := api.UserMessage(err)
		t.mu.Lock()
		t.lastErr = msg
		t.mu.Unlock()
		return Result{OK: false, Message: msg}
	}

	t.mu.Lock()
	t.lastErr = ""
	t.mu.Unlock()

	// Refresh errors are reported through LastError, not the submission
	// result; the job was accepted either way.
	_ = t.LoadHistory(ctx)
	return Result{OK: true}
}

// LoadHistory fetches the job list and replaces the snapshot wholesale.
// On failure the snapshot is cleared to empty rather than left stale:
// show nothing we can't vouch for.
func (t *Tracker) LoadHistory(ctx context.Context) error {
	jobs, err := t.api.DownloadHistory(ctx, api.HistoryFilter{Limit: t.limit})
	if err != nil {
		t.mu.Lock()
		t.jobs = nil
		t.lastErr = api.UserMessage(err)
		t.mu.Unlock()
		return err
	}
	t.mu.Lock()
	t.jobs = jobs
	t.lastErr = ""
	t.mu.Unlock()
	return nil
}

// Status fetches a single job record.
func (t *Tracker) Status(ctx context.Context, id int64) (api.Job, error) {
	return t.api.DownloadStatus(ctx, id)
}

// SaveFile streams a completed job's archive to the given local path.
func (t *Tracker) SaveFile(ctx context.Context, id int64, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := t.api.DownloadFile(ctx, id, f); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}
