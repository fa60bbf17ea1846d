package util

import (
	"fmt"
	"strings"
)

// ListStatusKey normalizes a list title to an internal status key used by
// the progress calculation and notifications. Lists are free-form; the
// original UI relies on Spanish (and "done") keywords.
func ListStatusKey(title string) string {
	text := strings.ToLower(title)
	if strings.Contains(text, "por hacer") || strings.Contains(text, "pendiente") {
		return "todo"
	}
	if strings.Contains(text, "proceso") || strings.Contains(text, "curso") {
		return "doing"
	}
	for _, kw := range []string{"hecho", "termin", "complet", "finaliz", "done"} {
		if strings.Contains(text, kw) {
			return "done"
		}
	}
	return "other"
}

// ListStatusLabel returns the display label for a list's status key,
// falling back to the title itself for unrecognized lists
func ListStatusLabel(title string) string {
	switch ListStatusKey(title) {
	case "todo":
		return "Por hacer"
	case "doing":
		return "En proceso"
	case "done":
		return "Completadas"
	}
	return title
}

// IsDoneList reports whether tasks in the list count as completed
func IsDoneList(title string) bool {
	return ListStatusKey(title) == "done"
}

// BuildBoardURL builds the externally reachable URL for a board, relative
// when no site URL is configured
func BuildBoardURL(siteURL string, boardID fmt.Stringer) string {
	path := fmt.Sprintf("/boards/%s", boardID)
	base := strings.TrimRight(siteURL, "/")
	if base != "" {
		return base + path
	}
	return path
}
