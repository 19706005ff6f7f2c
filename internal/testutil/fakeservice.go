// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"forgiveness/internal/service"
)

// ErrNotFound is returned when a resource is not found.
var ErrNotFound = errors.New("not found")

// UpdateCall records one UpdateDueDate invocation.
type UpdateCall struct {
	TaskID   string
	Due      string
	Revision int
}

// FakeService is an in-memory implementation of service.Service for testing.
// Updates follow the revision rule of the real service: a write whose
// revision differs from the stored one is rejected with 409.
type FakeService struct {
	mu    sync.Mutex
	lists []service.TaskList
	tasks map[string][]service.Task // listID -> tasks
	notes map[string][]service.Note // listID -> notes

	// Calls records every method invoked, in order.
	Calls []string

	// Updates records every UpdateDueDate invocation, in order.
	Updates []UpdateCall

	// Error injection for testing
	ListListsErr error
	ListTasksErr error
	ListNotesErr error
	UpdateErr    map[string]error // taskID -> error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		tasks:     make(map[string][]service.Task),
		notes:     make(map[string][]service.Note),
		UpdateErr: make(map[string]error),
	}
}

// AddList adds a list to the fake service.
func (f *FakeService) AddList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, service.TaskList{ID: id, Title: title})
}

// AddTask adds a task to a list.
func (f *FakeService) AddTask(listID string, task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task.ListID = listID
	f.tasks[listID] = append(f.tasks[listID], task)
}

// AddNote attaches a note to a task in a list.
func (f *FakeService) AddNote(listID, taskID, content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes[listID] = append(f.notes[listID], service.Note{TaskID: taskID, Content: content})
}

// Task returns the stored state of a task.
func (f *FakeService) Task(listID, taskID string) (service.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks[listID] {
		if t.ID == taskID {
			return t, true
		}
	}
	return service.Task{}, false
}

// ListLists implements service.Service.
func (f *FakeService) ListLists(ctx context.Context) ([]service.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "ListLists")
	if f.ListListsErr != nil {
		return nil, f.ListListsErr
	}
	result := make([]service.TaskList, len(f.lists))
	copy(result, f.lists)
	return result, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, listID string) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	result := make([]service.Task, len(f.tasks[listID]))
	copy(result, f.tasks[listID])
	return result, nil
}

// ListNotes implements service.Service.
func (f *FakeService) ListNotes(ctx context.Context, listID string) ([]service.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "ListNotes")
	if f.ListNotesErr != nil {
		return nil, f.ListNotesErr
	}
	result := make([]service.Note, len(f.notes[listID]))
	copy(result, f.notes[listID])
	return result, nil
}

// UpdateDueDate implements service.Service.
func (f *FakeService) UpdateDueDate(ctx context.Context, task service.Task, due string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, "UpdateDueDate")
	f.Updates = append(f.Updates, UpdateCall{TaskID: task.ID, Due: due, Revision: task.Revision})

	if err := f.UpdateErr[task.ID]; err != nil {
		return err
	}

	stored := f.tasks[task.ListID]
	for i := range stored {
		if stored[i].ID != task.ID {
			continue
		}
		if stored[i].Revision != task.Revision {
			return &service.StatusError{Code: http.StatusConflict, Body: "revision mismatch"}
		}
		stored[i].Due = due
		stored[i].Revision++
		return nil
	}
	return &service.StatusError{Code: http.StatusNotFound, Body: ErrNotFound.Error()}
}
