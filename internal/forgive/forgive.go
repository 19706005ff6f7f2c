// Package forgive moves overdue tasks in one list to today's date.
//
// A run resolves the configured list title, fetches the list's tasks and
// notes, classifies every task as unaffected, excluded or to-update, and
// then patches the due date of each to-update task one at a time. Tasks
// whose note contains ExclusionMarker are never touched.
package forgive

// Logger is the log sink used by a run. *log.Logger from charmbracelet/log
// satisfies it.
type Logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
	Error(msg interface{}, keyvals ...interface{})
}
