// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"forgiveness/internal/service"
)

// FormatListName prints one list for the lists command.
// Format: "{TITLE}\t{ID}\n", with " [configured]" after the title of the
// list a run would scan.
func FormatListName(w io.Writer, list service.TaskList, configured bool) {
	title := normalizeListTitle(list.Title)
	if configured {
		title += " [configured]"
	}
	fmt.Fprintf(w, "%s\t%s\n", title, list.ID)
}

// normalizeListTitle normalizes a list title for display.
// Empty or whitespace-only titles become "(untitled)"; newlines become spaces.
func normalizeListTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
