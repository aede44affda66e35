package tui

import (
	"strings"
	"testing"

	"mosdac/internal/api"
	"mosdac/internal/chat"
	"mosdac/internal/i18n"
)

func TestRenderMarkdownEmpty(t *testing.T) {
	if got := RenderMarkdown("   ", 80); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderTranscript(t *testing.T) {
	msgs := []chat.Message{
		{Role: chat.RoleUser, Content: "what sensors does INSAT-3D carry?"},
		{
			Role:    chat.RoleAssistant,
			Content: "An imager and a sounder.",
			Sources: []chat.SourceDocument{{URL: "https://mosdac.gov.in", Title: "MOSDAC", Score: 0.8}},
		},
	}
	out := RenderTranscript(msgs, 80, DarkTheme())
	if !strings.Contains(out, "what sensors does INSAT-3D carry?") {
		t.Fatalf("user message missing:\n%s", out)
	}
	if !strings.Contains(out, "MOSDAC") {
		t.Fatalf("source missing:\n%s", out)
	}
}

func TestRenderJobLine(t *testing.T) {
	i18n.Init("en")
	theme := DarkTheme()

	line := RenderJobLine(api.Job{ID: 4, Status: "completed", FilePath: "/tmp/a.zip"}, theme)
	if !strings.Contains(line, "Job #4") {
		t.Fatalf("line=%q", line)
	}
	if !strings.Contains(line, i18n.T("downloads.file_ready")) {
		t.Fatalf("file-ready hint missing: %q", line)
	}

	line = RenderJobLine(api.Job{ID: 5, Status: "failed", ErrorMessage: "MOSDAC auth failed"}, theme)
	if !strings.Contains(line, "MOSDAC auth failed") {
		t.Fatalf("error message missing: %q", line)
	}
}
