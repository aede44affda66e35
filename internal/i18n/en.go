package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	// Error taxonomy
	"err.network":         "Cannot connect to the server. Please make sure the backend is reachable.",
	"err.unauthorized":    "Authentication required. Please log in again.",
	"err.not_found":       "Endpoint not found. Check the configured base URL.",
	"err.server":          "The server reported an error. Please try again.",
	"err.fields_required": "Dataset id, username and password are all required.",

	// UI - Tabs
	"tab.chat":      "Chat",
	"tab.downloads": "Downloads",

	// UI - Status bar
	"status.ready":    "Ready",
	"status.thinking": "Thinking...",
	"status.loading":  "Loading...",
	"status.offline":  "Not logged in",

	// UI - Input
	"input.placeholder": "Ask about MOSDAC data... (Enter to send)",

	// UI - Downloads view
	"downloads.empty":         "No download jobs yet. Press 'n' to queue one.",
	"downloads.job":           "Job #%d",
	"downloads.file_ready":    "file ready",
	"downloads.form.title":    "New download",
	"downloads.form.dataset":  "Dataset id",
	"downloads.form.username": "MOSDAC username",
	"downloads.form.password": "MOSDAC password",
	"downloads.form.submit":   "Enter to submit, Esc to cancel",

	// UI - Keys
	"keys.tab":     "tab switch",
	"keys.refresh": "r refresh",
	"keys.new":     "n new download",
	"keys.quit":    "ctrl+c quit",

	// Job statuses
	"job.queued":      "queued",
	"job.processing":  "processing",
	"job.downloading": "downloading",
	"job.completed":   "completed",
	"job.failed":      "failed",
	"job.error":       "error",

	// REPL
	"repl.welcome":    "MOSDAC assistant. Type a question, or /help for commands.",
	"repl.cleared":    "Conversation cleared. A fresh session starts with your next message.",
	"repl.new":        "Started new session %s",
	"repl.logged_out": "Logged out.",
	"repl.no_answer":  "(no answer)",

	// CLI
	"cli.login_ok":    "Logged in.",
	"cli.register_ok": "Registered. You can log in now.",
	"cli.logout_ok":   "Logged out.",
	"cli.download_ok": "Download queued.",
	"cli.saved":       "Saved %s",
}
