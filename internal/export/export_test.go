package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"mosdac/internal/chat"
)

func sampleTranscript() *Transcript {
	return &Transcript{
		SessionID:  "session_1722500000000_ab12cd34",
		ExportedAt: "2026-08-01T12:00:00Z",
		Messages: []chat.Message{
			{Role: chat.RoleUser, Content: "what is INSAT-3D?"},
			{
				Role:    chat.RoleAssistant,
				Content: "INSAT-3D is a meteorological satellite.",
				Sources: []chat.SourceDocument{
					{URL: "https://mosdac.gov.in/insat-3d", Title: "INSAT-3D", Score: 0.91},
				},
			},
		},
	}
}

func TestNewExporter(t *testing.T) {
	for _, format := range []string{"json", "yaml", "md", "markdown"} {
		if _, err := NewExporter(format); err != nil {
			t.Fatalf("%s: %v", format, err)
		}
	}
	if _, err := NewExporter("xml"); err == nil {
		t.Fatal("xml accepted")
	}
}

func TestJSONExport(t *testing.T) {
	var buf bytes.Buffer
	e := &JSONExporter{}
	if err := e.Export(sampleTranscript(), &buf); err != nil {
		t.Fatal(err)
	}

	var got Transcript
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.SessionID != "session_1722500000000_ab12cd34" {
		t.Fatalf("session_id=%q", got.SessionID)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("messages=%d", len(got.Messages))
	}
	if got.Messages[1].Sources[0].Score != 0.91 {
		t.Fatalf("score=%v", got.Messages[1].Sources[0].Score)
	}
}

func TestYAMLExport(t *testing.T) {
	var buf bytes.Buffer
	e := &YAMLExporter{}
	if err := e.Export(sampleTranscript(), &buf); err != nil {
		t.Fatal(err)
	}

	var got Transcript
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Messages[0].Content != "what is INSAT-3D?" {
		t.Fatalf("content=%q", got.Messages[0].Content)
	}
}

func TestMarkdownExport(t *testing.T) {
	var buf bytes.Buffer
	e := &MarkdownExporter{}
	if err := e.Export(sampleTranscript(), &buf); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Conversation session_1722500000000_ab12cd34",
		"## You",
		"## Assistant",
		"[INSAT-3D](https://mosdac.gov.in/insat-3d)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestExtensions(t *testing.T) {
	cases := map[string]string{"json": "json", "yaml": "yaml", "md": "md"}
	for format, ext := range cases {
		e, err := NewExporter(format)
		if err != nil {
			t.Fatal(err)
		}
		if e.Extension() != ext {
			t.Fatalf("%s: ext=%q", format, e.Extension())
		}
	}
}
