package downloads

import (
	"mosdac/internal/api"
	"mosdac/internal/i18n"
)

// Status is a download job state as reported by the backend. Unrecognized
// strings are treated as in-progress so new backend statuses keep the
// poller alive instead of freezing the view.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusProcessing  Status = "processing"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
	StatusError       Status = "error"
)

// Terminal reports whether no further change is expected without a new
// submission.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusError:
		return true
	default:
		return false
	}
}

// Succeeded reports terminal success; a file reference is expected.
func (s Status) Succeeded() bool {
	return s == StatusCompleted
}

// Known reports whether the status is one this client recognizes.
func (s Status) Known() bool {
	switch s {
	case StatusQueued, StatusProcessing, StatusDownloading,
		StatusCompleted, StatusFailed, StatusError:
		return true
	default:
		return false
	}
}

// Label returns the localized display text; unknown statuses render as-is.
func (s Status) Label() string {
	if !s.Known() {
		return string(s)
	}
	return i18n.T("job." + string(s))
}

// AnyActive reports whether at least one job is still in progress, which is
// what keeps a poller scheduled.
func AnyActive(jobs []api.Job) bool {
	for _, j := range jobs {
		if !Status(j.Status).Terminal() {
			return true
		}
	}
	return false
}
