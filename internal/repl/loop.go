package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"mosdac/internal/api"
	"mosdac/internal/auth"
	"mosdac/internal/chat"
	"mosdac/internal/chatsync"
	"mosdac/internal/export"
	"mosdac/internal/i18n"
	"mosdac/internal/session"
	"mosdac/internal/tui"
)

const defaultWidth = 100

var replCommands = []string{
	"/help",
	"/new",
	"/clear",
	"/history",
	"/export [json|yaml|md] [path]",
	"/logout",
	"/exit",
}

// Deps wires the REPL to the conversation core.
type Deps struct {
	Sync        *chatsync.Synchronizer
	Sessions    *session.Manager
	Creds       *auth.Credentials
	HistoryPath string
	Out         io.Writer
	Width       int
}

// Loop is an interactive line-based chat surface. It shares the same
// synchronizer as the dashboard, so both render the same conversation.
type Loop struct {
	deps  Deps
	out   io.Writer
	width int

	userLabel  func(a ...any) string
	errorLabel func(a ...any) string
	mutedLabel func(a ...any) string
}

func New(deps Deps) *Loop {
	out := deps.Out
	if out == nil {
		out = os.Stdout
	}
	width := deps.Width
	if width <= 0 {
		width = defaultWidth
	}
	return &Loop{
		deps:       deps,
		out:        out,
		width:      width,
		userLabel:  color.New(color.FgCyan, color.Bold).SprintFunc(),
		errorLabel: color.New(color.FgRed).SprintFunc(),
		mutedLabel: color.New(color.FgHiBlack).SprintFunc(),
	}
}

// Run drives the read-send-print loop until /exit or EOF.
func (l *Loop) Run(ctx context.Context) error {
	input := newLineInput(l.deps.HistoryPath)
	defer input.Close()

	fmt.Fprintln(l.out, i18n.T("repl.welcome"))

	if err := l.deps.Sync.LoadHistory(ctx); err != nil {
		fmt.Fprintln(l.out, l.errorLabel(api.UserMessage(err)))
	}
	l.printTranscript(l.deps.Sync.Messages())

	for {
		line, err := input.ReadLine("> ")
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, err := l.handleCommand(ctx, line)
			if err != nil {
				fmt.Fprintln(l.out, l.errorLabel(userError(err)))
			}
			if done {
				return nil
			}
			continue
		}

		l.send(ctx, line)
	}
}

func (l *Loop) handleCommand(ctx context.Context, line string) (done bool, err error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/exit", "/quit":
		return true, nil

	case "/help":
		fmt.Fprintln(l.out, "commands:")
		for _, cmd := range replCommands {
			fmt.Fprintf(l.out, "  %s\n", cmd)
		}
		return false, nil

	case "/new":
		sid, err := l.deps.Sessions.CreateNewSession()
		if err != nil {
			return false, err
		}
		fmt.Fprintln(l.out, i18n.T("repl.new", sid))
		return false, nil

	case "/clear":
		if err := l.deps.Sync.ClearHistory(ctx); err != nil {
			return false, err
		}
		fmt.Fprintln(l.out, i18n.T("repl.cleared"))
		return false, nil

	case "/history":
		if err := l.deps.Sync.LoadHistory(ctx); err != nil {
			return false, err
		}
		l.printTranscript(l.deps.Sync.Messages())
		return false, nil

	case "/export":
		return false, l.exportTranscript(fields[1:])

	case "/logout":
		if err := l.deps.Creds.ClearToken(); err != nil {
			return false, err
		}
		fmt.Fprintln(l.out, i18n.T("repl.logged_out"))
		return false, nil

	default:
		fmt.Fprintf(l.out, "unknown command: %s\n", fields[0])
		return false, nil
	}
}

func (l *Loop) send(ctx context.Context, text string) {
	reply, err := l.deps.Sync.SendMessage(ctx, text)
	if err != nil {
		fmt.Fprintln(l.out, l.errorLabel(api.UserMessage(err)))
		return
	}
	l.printAssistant(reply)
}

func (l *Loop) exportTranscript(args []string) error {
	format := "md"
	if len(args) > 0 {
		format = args[0]
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		return err
	}

	sid, _ := l.deps.Sessions.CurrentID()
	path := fmt.Sprintf("transcript.%s", exporter.Extension())
	if len(args) > 1 {
		path = args[1]
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	t := &export.Transcript{
		SessionID:  sid,
		ExportedAt: time.Now().Format(time.RFC3339),
		Messages:   l.deps.Sync.Messages(),
	}
	if err := exporter.Export(t, f); err != nil {
		return err
	}
	fmt.Fprintln(l.out, i18n.T("cli.saved", path))
	return nil
}

// userError localizes transport errors and passes everything else through.
func userError(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return api.UserMessage(err)
	}
	return err.Error()
}

func (l *Loop) printTranscript(messages []chat.Message) {
	for _, msg := range messages {
		if msg.Role == chat.RoleUser {
			fmt.Fprintf(l.out, "%s %s\n", l.userLabel("You:"), msg.Content)
			continue
		}
		l.printAssistant(msg)
	}
}

func (l *Loop) printAssistant(msg chat.Message) {
	if strings.TrimSpace(msg.Content) == "" {
		fmt.Fprintln(l.out, l.mutedLabel(i18n.T("repl.no_answer")))
		return
	}
	fmt.Fprintln(l.out, tui.RenderMarkdown(msg.Content, l.width))
	for _, src := range msg.Sources {
		fmt.Fprintln(l.out, l.mutedLabel(fmt.Sprintf("  ▸ %s (%.2f) %s", src.Title, src.Score, src.URL)))
	}
}
