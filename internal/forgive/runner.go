package forgive

import (
	"context"
	"errors"
	"fmt"
	"time"

	"forgiveness/internal/service"
)

// State is the terminal state of a task after a run.
type State string

const (
	StateUnaffected   State = "unaffected"
	StateExcluded     State = "excluded"
	StateMalformed    State = "malformed"
	StateUpdated      State = "updated"
	StateUpdateFailed State = "update-failed"
	StateWouldUpdate  State = "would-update"
)

// Outcome records what happened to one task.
type Outcome struct {
	Task   service.Task
	State  State
	Status int   // backend status for StateUpdateFailed; 0 if no response
	Err    error // set for StateUpdateFailed
}

// Report summarizes a completed run.
type Report struct {
	ListID   string
	Date     string // the new due date, YYYY-MM-DD
	DryRun   bool
	Total    int
	Excluded int
	ToUpdate int
	Outcomes []Outcome
}

// Count returns the number of outcomes in state s.
func (r Report) Count(s State) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.State == s {
			n++
		}
	}
	return n
}

// Options controls a run.
type Options struct {
	ListTitle     string
	DryRun        bool
	SkipMalformed bool

	// Now returns the current time; defaults to time.Now.
	Now func() time.Time
}

// Runner executes forgiveness passes against a service.
type Runner struct {
	svc  service.Service
	log  Logger
	opts Options
}

// NewRunner creates a Runner.
func NewRunner(svc service.Service, log Logger, opts Options) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{svc: svc, log: log, opts: opts}
}

// Run performs one pass: resolve, fetch, classify, update.
//
// A missing list returns *NotFoundError before any task is read. Fetch
// failures and (unless SkipMalformed is set) malformed due dates abort the
// run before any write. Failed updates are logged and recorded in the
// report; they do not make Run return an error.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	today := r.opts.Now()
	newDue := today.Format(DateLayout)

	lists, err := r.svc.ListLists(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("fetch lists: %w", err)
	}
	r.log.Debug("fetched lists", "lists", lists)

	list, err := ResolveList(lists, r.opts.ListTitle)
	if err != nil {
		return Report{}, err
	}
	r.log.Debug("resolved list", "id", list.ID, "title", list.Title)

	tasks, notes, err := Fetch(ctx, r.svc, list.ID)
	if err != nil {
		return Report{}, err
	}

	items := Join(tasks, notes)
	for _, item := range items {
		r.log.Debug("task", "id", item.ID, "title", item.Title, "revision", item.Revision, "due", item.Due, "note", item.Note)
	}

	plan, err := Classify(items, today, r.opts.SkipMalformed)
	if err != nil {
		return Report{}, err
	}
	for _, item := range plan.Malformed {
		r.log.Error("skipping task with malformed due date", "title", item.Title, "id", item.ID, "due", item.Due)
	}

	r.log.Info(fmt.Sprintf("Found %d tasks; %d excluded; %d to update",
		plan.Total(), len(plan.Excluded), len(plan.ToUpdate)))

	report := Report{
		ListID:   list.ID,
		Date:     newDue,
		DryRun:   r.opts.DryRun,
		Total:    plan.Total(),
		Excluded: len(plan.Excluded),
		ToUpdate: len(plan.ToUpdate),
	}

	pending := make(map[string]bool, len(plan.ToUpdate))
	for _, item := range plan.ToUpdate {
		pending[item.ID] = true
	}
	malformed := make(map[string]bool, len(plan.Malformed))
	for _, item := range plan.Malformed {
		malformed[item.ID] = true
	}

	for _, item := range items {
		switch {
		case pending[item.ID]:
			delete(pending, item.ID)
			report.Outcomes = append(report.Outcomes, r.update(ctx, item.Task, newDue))
		case Excluded(item):
			report.Outcomes = append(report.Outcomes, Outcome{Task: item.Task, State: StateExcluded})
		case malformed[item.ID]:
			report.Outcomes = append(report.Outcomes, Outcome{Task: item.Task, State: StateMalformed})
		default:
			report.Outcomes = append(report.Outcomes, Outcome{Task: item.Task, State: StateUnaffected})
		}
	}

	return report, nil
}

// update writes one due date, or only logs it in dry-run mode.
func (r *Runner) update(ctx context.Context, task service.Task, due string) Outcome {
	if r.opts.DryRun {
		r.log.Info(fmt.Sprintf("Would have updated due date for %s to %s", task.Title, due))
		return Outcome{Task: task, State: StateWouldUpdate}
	}

	if err := r.svc.UpdateDueDate(ctx, task, due); err != nil {
		status := 0
		var se *service.StatusError
		if errors.As(err, &se) {
			status = se.Code
		}
		r.log.Error(fmt.Sprintf("Failed to update %s: error %d", task.Title, status), "id", task.ID, "err", err)
		return Outcome{Task: task, State: StateUpdateFailed, Status: status, Err: err}
	}

	r.log.Info(fmt.Sprintf("Updated due date for %s to %s", task.Title, due))
	return Outcome{Task: task, State: StateUpdated}
}
