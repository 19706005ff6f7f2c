// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates a completed run. Individual update failures
	// still count as a completed run.
	Success = 0

	// UserError indicates a user error (bad args, unknown command).
	UserError = 1

	// ConfigError indicates missing credentials or settings.
	ConfigError = 2

	// BackendError indicates a backend/API/network error or a run aborted
	// on unreadable task data.
	BackendError = 3

	// ListNotFound indicates the configured list title matched no list.
	ListNotFound = 4
)
