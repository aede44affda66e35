package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"mosdac/internal/api"
	"mosdac/internal/chat"
	"mosdac/internal/downloads"
	"mosdac/internal/i18n"
)

// RenderMarkdown 使用 Glamour 渲染 markdown 文本
// RenderMarkdown renders markdown text using Glamour
func RenderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimRight(rendered, "\n")
}

// RenderTranscript 渲染整段对话：用户消息带前缀，助手消息走 markdown。
// RenderTranscript renders the conversation: prefixed user messages,
// markdown-rendered assistant replies.
func RenderTranscript(messages []chat.Message, width int, theme Theme) string {
	var b strings.Builder
	for _, msg := range messages {
		if msg.Role == chat.RoleUser {
			b.WriteString(theme.UserStyle.Render("You") + "  " + msg.Content + "\n\n")
			continue
		}
		b.WriteString(RenderMarkdown(msg.Content, width) + "\n")
		if len(msg.Sources) > 0 {
			for _, src := range msg.Sources {
				line := fmt.Sprintf("  ▸ %s (%.2f) %s", src.Title, src.Score, src.URL)
				b.WriteString(theme.MutedStyle.Render(line) + "\n")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderJobLine 渲染单条下载任务 / RenderJobLine renders one download job
func RenderJobLine(job api.Job, theme Theme) string {
	status := downloads.Status(job.Status)

	var statusText string
	switch {
	case status.Succeeded():
		statusText = theme.SuccessStyle.Render(status.Label())
	case status.Terminal():
		statusText = theme.ErrorStyle.Render(status.Label())
	default:
		statusText = theme.WarningStyle.Render(status.Label())
	}

	line := fmt.Sprintf("%s  %s", i18n.T("downloads.job", job.ID), statusText)
	if status.Succeeded() && job.FilePath != "" {
		line += "  " + theme.MutedStyle.Render(i18n.T("downloads.file_ready"))
	}
	if status.Terminal() && !status.Succeeded() && job.ErrorMessage != "" {
		line += "\n    " + theme.ErrorStyle.Render(job.ErrorMessage)
	}
	return line
}
