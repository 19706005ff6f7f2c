package forgive

import (
	"fmt"

	"forgiveness/internal/service"
)

// NotFoundError reports that no list carries the configured title.
type NotFoundError struct {
	Title string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("couldn't find list with title %q", e.Title)
}

// ResolveList returns the list whose title equals title exactly.
// When several lists share the title the last one in API order wins.
func ResolveList(lists []service.TaskList, title string) (service.TaskList, error) {
	found := -1
	for i, l := range lists {
		if l.Title == title {
			found = i
		}
	}
	if found < 0 {
		return service.TaskList{}, &NotFoundError{Title: title}
	}
	return lists[found], nil
}
