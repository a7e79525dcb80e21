// Package report renders per-directory POI sections of the manifest.
package report

import (
	"fmt"
	"strings"

	"github.com/grumpygabe/TeragonPOIParser/internal/models"
)

// Render formats one directory section. Category blocks with no lines are
// omitted; the total line is always written.
func Render(displayPath string, city, wilderness, rwgTiles []string) string {
	var b strings.Builder

	b.WriteString("//\n")
	b.WriteString(fmt.Sprintf("// --------- \\%s\\ ---------\n", displayPath))
	b.WriteString(fmt.Sprintf("// %d Total POIs\n", len(city)+len(wilderness)+len(rwgTiles)))

	writeBlock(&b, "City POIs", city)
	writeBlock(&b, "Wilderness POIs", wilderness)
	writeBlock(&b, "RWG Tiles", rwgTiles)

	return b.String()
}

// RenderSection formats a DirectorySection
func RenderSection(section *models.DirectorySection) string {
	return Render(section.DisplayPath, section.City, section.Wilderness, section.RwgTiles)
}

func writeBlock(b *strings.Builder, label string, lines []string) {
	if len(lines) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("// %d %s\n", len(lines), label))
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
}
