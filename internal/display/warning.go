package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning in yellow (plain when color is disabled)
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}

		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	color.New(color.FgYellow).Fprint(out, b.String())
}

// WarnDroppedPois builds the end-of-run warning listing prefab files that
// were found but left out of the manifest
func WarnDroppedPois(files []string) Warning {
	noun := "prefabs were"
	if len(files) == 1 {
		noun = "prefab was"
	}
	return Warning{
		Title:      fmt.Sprintf("%d %s left out of the manifest", len(files), noun),
		Message:    "Each file is missing a usable PrefabSize or YOffset property, or is not well-formed XML",
		Files:      files,
		Suggestion: "Fix the properties in the prefab XML, or add the file to skip_files to silence this warning",
	}
}
