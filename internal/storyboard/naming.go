package storyboard

import (
	"regexp"
	"strings"
)

const maxProjectNameLen = 100

var projectNameInvalid = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// NormalizeProjectName turns a free-form title into a filesystem- and
// URL-safe project name: spaces become hyphens, anything outside
// [a-zA-Z0-9_-] is dropped, length capped at 100.
func NormalizeProjectName(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", &ValidationError{Field: "project.name", Value: title, Reason: "must not be empty"}
	}

	name := strings.ReplaceAll(trimmed, " ", "-")
	name = projectNameInvalid.ReplaceAllString(name, "")
	if len(name) > maxProjectNameLen {
		name = name[:maxProjectNameLen]
	}
	if name == "" {
		return "", &ValidationError{Field: "project.name", Value: title, Reason: "contains no usable characters"}
	}
	return name, nil
}
