package service

import "context"

// Service defines the interface for task backend operations.
// All remote calls go through this interface; the forgiveness runner
// never imports a backend SDK directly.
type Service interface {
	// ListLists returns all task lists visible to the caller, in API order.
	ListLists(ctx context.Context) ([]TaskList, error)

	// ListTasks returns every task in a list, in API order.
	// Backends page internally; the result is the complete set.
	ListTasks(ctx context.Context, listID string) ([]Task, error)

	// ListNotes returns the notes of a list. Tasks without a note are absent.
	ListNotes(ctx context.Context, listID string) ([]Note, error)

	// UpdateDueDate sets the due date ("YYYY-MM-DD") of a task. The write is
	// conditional on the task's Revision or ETag as captured at fetch time.
	UpdateDueDate(ctx context.Context, task Task, due string) error
}
