package googletasks_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgiveness/internal/backend/googletasks"
	"forgiveness/internal/service"
)

func newClient(t *testing.T, handler http.HandlerFunc) *googletasks.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := googletasks.NewWithHTTPClient(context.Background(), srv.Client(), srv.URL+"/")
	require.NoError(t, err)
	return c
}

const tasksPage = `{"items":[
	{"id":"t1","title":"Pay bill","etag":"\"e1\"","due":"2020-01-01T00:00:00.000Z"},
	{"id":"t2","title":"Someday","etag":"\"e2\"","notes":"ignore #noforgiveness please"}
]}`

func TestListLists(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks/v1/users/@me/lists", r.URL.Path)
		io.WriteString(w, `{"items":[{"id":"L1","title":"Home"},{"id":"L2","title":"Work"}]}`)
	})

	lists, err := c.ListLists(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []service.TaskList{{ID: "L1", Title: "Home"}, {ID: "L2", Title: "Work"}}, lists)
}

func TestListTasksAndNotes(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tasks/v1/lists/L1/tasks", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("showCompleted"))
		io.WriteString(w, tasksPage)
	})

	got, err := c.ListTasks(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, []service.Task{
		{ID: "t1", ListID: "L1", Title: "Pay bill", ETag: `"e1"`, Due: "2020-01-01"},
		{ID: "t2", ListID: "L1", Title: "Someday", ETag: `"e2"`},
	}, got)

	notes, err := c.ListNotes(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, []service.Note{{TaskID: "t2", Content: "ignore #noforgiveness please"}}, notes)
}

func TestListTasks_Paged(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageToken") == "" {
			io.WriteString(w, `{"items":[{"id":"a","title":"A"}],"nextPageToken":"p2"}`)
			return
		}
		io.WriteString(w, `{"items":[{"id":"b","title":"B"}]}`)
	})

	got, err := c.ListTasks(context.Background(), "L1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].ID)
}

func TestUpdateDueDate(t *testing.T) {
	var body map[string]interface{}
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/tasks/v1/lists/L1/tasks/t1", r.URL.Path)
		assert.Equal(t, `"e1"`, r.Header.Get("If-Match"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		io.WriteString(w, `{"id":"t1"}`)
	})

	err := c.UpdateDueDate(context.Background(), service.Task{ID: "t1", ListID: "L1", ETag: `"e1"`}, "2020-02-01")
	require.NoError(t, err)
	assert.Equal(t, "2020-02-01T00:00:00.000Z", body["due"])
}

func TestUpdateDueDate_PreconditionFailed(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPreconditionFailed)
		io.WriteString(w, `{"error":{"code":412,"message":"Precondition Failed"}}`)
	})

	err := c.UpdateDueDate(context.Background(), service.Task{ID: "t1", ListID: "L1", ETag: `"old"`}, "2020-02-01")
	var se *service.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusPreconditionFailed, se.Code)
}
