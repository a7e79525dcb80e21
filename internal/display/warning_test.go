package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withoutColor(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestDisplayWarning_TitleOnly(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	Warning{Title: "Configuration Missing"}.Display(&buf)

	if got, want := buf.String(), "Warning: Configuration Missing\n"; got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}
}

func TestDisplayWarning_AllFields(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	w := Warning{
		Title:      "Two prefabs were dropped",
		Message:    "Missing size",
		Files:      []string{"Prefabs/a.xml", "Prefabs/b.xml"},
		Suggestion: "Fix them",
	}
	w.Display(&buf)

	want := "Warning: Two prefabs were dropped\n" +
		"    Missing size\n" +
		"    Affected files:\n" +
		"      1. Prefabs/a.xml\n" +
		"      2. Prefabs/b.xml\n" +
		"    Suggestion:\n" +
		"    Fix them\n"
	if got := buf.String(); got != want {
		t.Errorf("Display() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestDisplayWarning_SingleFile(t *testing.T) {
	withoutColor(t)

	var buf bytes.Buffer
	Warning{Title: "t", Files: []string{"only.xml"}}.Display(&buf)

	output := buf.String()
	if !strings.Contains(output, "Affected file:\n") {
		t.Errorf("expected singular heading, got %q", output)
	}
	if strings.Contains(output, "Affected files:") {
		t.Errorf("unexpected plural heading, got %q", output)
	}
}

func TestWarnDroppedPois(t *testing.T) {
	tests := []struct {
		name      string
		files     []string
		wantTitle string
	}{
		{
			name:      "single file",
			files:     []string{"Prefabs/cabin.xml"},
			wantTitle: "1 prefab was left out of the manifest",
		},
		{
			name:      "several files",
			files:     []string{"Prefabs/a.xml", "Prefabs/b.xml", "Prefabs/c.xml"},
			wantTitle: "3 prefabs were left out of the manifest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WarnDroppedPois(tt.files)
			if w.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", w.Title, tt.wantTitle)
			}
			if len(w.Files) != len(tt.files) {
				t.Errorf("Files = %v, want %v", w.Files, tt.files)
			}
			if w.Message == "" || w.Suggestion == "" {
				t.Error("expected message and suggestion to be set")
			}
		})
	}
}
