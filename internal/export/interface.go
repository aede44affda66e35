package export

import (
	"fmt"
	"io"

	"mosdac/internal/chat"
)

// Transcript is the exportable form of a conversation.
type Transcript struct {
	SessionID  string         `json:"session_id" yaml:"session_id"`
	ExportedAt string         `json:"exported_at" yaml:"exported_at"`
	Messages   []chat.Message `json:"messages" yaml:"messages"`
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(t *Transcript, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, yaml, md)", format)
	}
}
