// Package service defines the backend-agnostic interface for task operations.
package service

import "fmt"

// Task represents a single task item as fetched from the backend.
type Task struct {
	ID       string
	ListID   string
	Title    string
	Revision int    // optimistic-concurrency stamp; zero for etag backends
	ETag     string // opaque concurrency token; empty for revision backends
	Due      string // "YYYY-MM-DD" or empty if no due date is set
}

// Note is a free-text annotation attached to a task.
type Note struct {
	TaskID  string
	Content string
}

// TaskList represents a task list.
type TaskList struct {
	ID    string
	Title string
}

// StatusError is returned when the backend answers with a non-success status.
// Transport failures that never produced a response are not StatusErrors.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Body)
}
