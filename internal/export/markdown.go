package export

import (
	"fmt"
	"io"

	"mosdac/internal/chat"
)

// MarkdownExporter exports transcripts as a readable markdown document
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(t *Transcript, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Conversation %s\n\n", t.SessionID); err != nil {
		return err
	}
	if t.ExportedAt != "" {
		if _, err := fmt.Fprintf(w, "_Exported %s_\n\n", t.ExportedAt); err != nil {
			return err
		}
	}

	for _, msg := range t.Messages {
		heading := "## You"
		if msg.Role == chat.RoleAssistant {
			heading = "## Assistant"
		}
		if _, err := fmt.Fprintf(w, "%s\n\n%s\n\n", heading, msg.Content); err != nil {
			return err
		}
		if len(msg.Sources) > 0 {
			if _, err := fmt.Fprintln(w, "Sources:"); err != nil {
				return err
			}
			for _, src := range msg.Sources {
				if _, err := fmt.Fprintf(w, "- [%s](%s) (score %.2f)\n", src.Title, src.URL, src.Score); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *MarkdownExporter) Extension() string {
	return "md"
}
