package storyboard

import "fmt"

// ValidationError reports a duration or transition value outside its allowed
// range. Values are never silently clamped.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// NotFoundError reports an ordinal that does not resolve to an entity.
type NotFoundError struct {
	Kind    string // "project", "scene" or "shot"
	Project string
	Scene   int
	Shot    int
}

func (e *NotFoundError) Error() string {
	switch e.Kind {
	case "scene":
		return fmt.Sprintf("scene %d not found in project %q", e.Scene, e.Project)
	case "shot":
		return fmt.Sprintf("shot %d not found in scene %d of project %q", e.Shot, e.Scene, e.Project)
	default:
		return fmt.Sprintf("project %q not found", e.Project)
	}
}

// PersistenceError reports a failed write-back of the project. The caller may
// retry or skip; the engine never retries on its own.
type PersistenceError struct {
	Project string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist project %q: %v", e.Project, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
