package display

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
)

// ProgressIndicator prints "[N/Total] file" lines for multi-file commands
type ProgressIndicator struct {
	writer     io.Writer
	totalFiles int
	current    int
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{
		writer:     w,
		totalFiles: total,
	}
}

// Step displays progress for the next file: [N/Total] filename (cyan)
func (p *ProgressIndicator) Step(filename string) {
	p.current++
	color.New(color.FgCyan).Fprintf(p.writer, "[%d/%d] %s\n", p.current, p.totalFiles, filepath.Base(filename))
}

// Complete displays a summary line with a green check mark
func (p *ProgressIndicator) Complete(valid int) {
	mark := color.New(color.FgGreen).Sprint("✓")
	fmt.Fprintf(p.writer, "%s %d of %d files are valid POIs\n", mark, valid, p.totalFiles)
}
