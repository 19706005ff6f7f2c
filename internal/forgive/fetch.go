package forgive

import (
	"context"
	"fmt"

	"forgiveness/internal/service"
)

// Item is a fetched task enriched with its note. Note is empty when the
// task has none.
type Item struct {
	service.Task
	Note string
}

// Fetch returns the tasks of a list in API order and a map from task ID to
// note content. Only tasks that have a note appear in the map.
func Fetch(ctx context.Context, svc service.Service, listID string) ([]service.Task, map[string]string, error) {
	tasks, err := svc.ListTasks(ctx, listID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch tasks: %w", err)
	}

	notes, err := svc.ListNotes(ctx, listID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch notes: %w", err)
	}

	byTask := make(map[string]string, len(notes))
	for _, n := range notes {
		byTask[n.TaskID] = n.Content
	}
	return tasks, byTask, nil
}

// Join pairs each task with its note. The input slice is not modified.
func Join(tasks []service.Task, notes map[string]string) []Item {
	items := make([]Item, len(tasks))
	for i, t := range tasks {
		items[i] = Item{Task: t, Note: notes[t.ID]}
	}
	return items
}
