package testutil

import (
	"fmt"
	"strings"
	"sync"
)

// Entry is one captured log line.
type Entry struct {
	Level   string
	Msg     string
	Keyvals []interface{}
}

// Logger captures log lines for assertions.
type Logger struct {
	mu      sync.Mutex
	Entries []Entry
}

func (l *Logger) add(level string, msg interface{}, keyvals []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, Entry{Level: level, Msg: fmt.Sprint(msg), Keyvals: keyvals})
}

// Debug records a debug line.
func (l *Logger) Debug(msg interface{}, keyvals ...interface{}) { l.add("debug", msg, keyvals) }

// Info records an info line.
func (l *Logger) Info(msg interface{}, keyvals ...interface{}) { l.add("info", msg, keyvals) }

// Error records an error line.
func (l *Logger) Error(msg interface{}, keyvals ...interface{}) { l.add("error", msg, keyvals) }

// Messages returns the messages logged at level, in order.
func (l *Logger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.Entries {
		if e.Level == level {
			out = append(out, e.Msg)
		}
	}
	return out
}

// Contains reports whether any message at level contains substr.
func (l *Logger) Contains(level, substr string) bool {
	for _, m := range l.Messages(level) {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}
