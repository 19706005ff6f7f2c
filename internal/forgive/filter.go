package forgive

import (
	"fmt"
	"strings"
	"time"
)

// ExclusionMarker in a task's note opts the task out of forgiveness.
const ExclusionMarker = "#noforgiveness"

// DateLayout is the calendar date format used for due dates.
const DateLayout = "2006-01-02"

// DateError reports a due date that is not a YYYY-MM-DD calendar date.
type DateError struct {
	TaskID string
	Title  string
	Value  string
	Err    error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("task %s (%s): malformed due date %q: %v", e.TaskID, e.Title, e.Value, e.Err)
}

func (e *DateError) Unwrap() error { return e.Err }

// Overdue reports whether the item's due date is strictly before today's
// calendar date. Items without a due date are never overdue.
func Overdue(item Item, today time.Time) (bool, error) {
	if item.Due == "" {
		return false, nil
	}
	due, err := time.Parse(DateLayout, item.Due)
	if err != nil {
		return false, &DateError{TaskID: item.ID, Title: item.Title, Value: item.Due, Err: err}
	}
	return due.Before(calendarDate(today)), nil
}

// Excluded reports whether the item's note contains ExclusionMarker.
// Matching is exact and case-sensitive.
func Excluded(item Item) bool {
	return strings.Contains(item.Note, ExclusionMarker)
}

// calendarDate drops the clock and zone from t, keeping its local date.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Plan is the classification of one fetched task set.
type Plan struct {
	Items     []Item
	Excluded  []Item
	ToUpdate  []Item
	Malformed []Item
}

// Total returns the number of classified items.
func (p Plan) Total() int { return len(p.Items) }

// Classify partitions items. Excluded holds every item carrying the marker,
// overdue or not; ToUpdate holds the overdue items that are not excluded,
// in input order.
//
// A malformed due date aborts classification with a *DateError unless
// skipMalformed is set, in which case the item lands in Malformed and is
// otherwise treated as not overdue.
func Classify(items []Item, today time.Time, skipMalformed bool) (Plan, error) {
	plan := Plan{Items: items}
	for _, item := range items {
		excluded := Excluded(item)
		if excluded {
			plan.Excluded = append(plan.Excluded, item)
		}

		overdue, err := Overdue(item, today)
		if err != nil {
			if !skipMalformed {
				return Plan{}, err
			}
			plan.Malformed = append(plan.Malformed, item)
			continue
		}
		if overdue && !excluded {
			plan.ToUpdate = append(plan.ToUpdate, item)
		}
	}
	return plan, nil
}
