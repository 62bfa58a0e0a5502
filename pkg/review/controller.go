package review

import (
	"context"
	"log/slog"
	"sync"
)

// State is a Controller lifecycle phase.
type State int

const (
	// StateLoading is the initial state and the state during any fetch.
	StateLoading State = iota
	// StateReady presents the current record and accepts one decision.
	StateReady
	// StateSubmitting holds while a decision is in flight.
	StateSubmitting
	// StateEmpty means the last load returned nothing. Only Load leaves it.
	StateEmpty
	// StateLoadFailed means the last load failed. Load may be retried.
	StateLoadFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateEmpty:
		return "empty"
	case StateLoadFailed:
		return "load_failed"
	}
	return "unknown"
}

// Outcome describes a successfully persisted decision.
type Outcome struct {
	Ack     Ack
	Advance Advance
	// Reloaded is set when the decision exhausted the queue and a refetch ran.
	Reloaded bool
	// ReloadErr holds the refetch failure, if any. The decision itself was persisted.
	ReloadErr error
}

// Snapshot is a consistent view of the controller for presentation layers.
type Snapshot struct {
	State   State
	Cursor  int
	Total   int
	Current *Record
	Err     error
}

// Controller sequences review: load, present, decide, submit, advance, and refetch
// once the queue is exhausted. It exclusively owns the queue and cursor. At most one
// load and one submission run at a time; overlapping requests fail with ErrBusy.
type Controller struct {
	mu        sync.Mutex
	backend   Backend
	submitter *Submitter
	queue     *Queue
	state     State
	fetching  bool
	lastErr   error
	logger    *slog.Logger
}

// NewController creates a Controller in StateLoading. Call Load to populate it.
func NewController(backend Backend, logger *slog.Logger) *Controller {
	return &Controller{
		backend:   backend,
		submitter: NewSubmitter(backend),
		queue:     &Queue{},
		state:     StateLoading,
		logger:    logger.With("component", "review"),
	}
}

// State returns the current phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Current returns the record under review. It reports false unless a record is presented.
func (c *Controller) Current() (Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateReady && c.state != StateSubmitting {
		return Record{}, false
	}
	return c.queue.Current()
}

// Position returns the cursor and queue length.
func (c *Controller) Position() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queue.Cursor(), c.queue.Len()
}

// Snapshot returns state, position, current record, and the last load error together.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:  c.state,
		Cursor: c.queue.Cursor(),
		Total:  c.queue.Len(),
		Err:    c.lastErr,
	}
	if c.state == StateReady || c.state == StateSubmitting {
		if r, ok := c.queue.Current(); ok {
			s.Current = &r
		}
	}
	return s
}

// Load fetches a fresh queue, replacing the old one wholesale. It is also the explicit
// reload trigger for StateEmpty and StateLoadFailed.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.fetching || c.state == StateSubmitting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.beginLoad()
	c.mu.Unlock()

	return c.fetch(ctx)
}

// Decide submits d for the current record. Validation failures and overlapping
// decisions are rejected without touching the queue. A backend failure leaves the
// same record current for retry. A success advances the cursor, refetching when the
// queue is exhausted.
func (c *Controller) Decide(ctx context.Context, d Decision) (Outcome, error) {
	c.mu.Lock()
	if err := c.acceptingLocked(); err != nil {
		c.mu.Unlock()
		return Outcome{}, err
	}

	record, _ := c.queue.Current()
	if err := c.submitter.Validate(record, d); err != nil {
		c.mu.Unlock()
		return Outcome{}, err
	}

	c.transition(StateSubmitting)
	c.mu.Unlock()

	ack, err := c.submitter.Submit(ctx, record, d)

	c.mu.Lock()
	if err != nil {
		c.transition(StateReady)
		c.mu.Unlock()
		c.logger.Warn("submit failed, item kept for retry", "id", record.ID, "error", err)
		return Outcome{}, err
	}

	out := Outcome{Ack: ack, Advance: c.queue.Advance()}
	if !out.Advance.Exhausted {
		c.transition(StateReady)
		c.mu.Unlock()
		return out, nil
	}

	c.logger.Info("queue exhausted, reloading", "reviewed", c.queue.Len())
	c.beginLoad()
	c.mu.Unlock()

	out.Reloaded = true
	out.ReloadErr = c.fetch(ctx)
	return out, nil
}

// Approve confirms the current record's text.
func (c *Controller) Approve(ctx context.Context) (Outcome, error) {
	r, _ := c.Current()
	return c.Decide(ctx, Approve(r))
}

// Correct replaces the current record's text with text.
func (c *Controller) Correct(ctx context.Context, text string) (Outcome, error) {
	r, _ := c.Current()
	return c.Decide(ctx, Correct(r, text))
}

func (c *Controller) acceptingLocked() error {
	switch c.state {
	case StateReady:
		return nil
	case StateSubmitting:
		return ErrBusy
	case StateEmpty:
		return ErrNothingToReview
	case StateLoading:
		if c.fetching {
			return ErrBusy
		}
	}
	return ErrNotReady
}

func (c *Controller) beginLoad() {
	c.fetching = true
	c.transition(StateLoading)
}

func (c *Controller) fetch(ctx context.Context) error {
	q, err := Load(ctx, c.backend, c.logger)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.fetching = false
	c.lastErr = err

	if err != nil {
		c.queue = &Queue{}
		c.transition(StateLoadFailed)
		c.logger.Warn("load failed", "error", err)
		return err
	}

	c.queue = q
	if q.Len() == 0 {
		c.transition(StateEmpty)
	} else {
		c.transition(StateReady)
	}
	return nil
}

func (c *Controller) transition(to State) {
	if c.state != to {
		c.logger.Debug("state change", "from", c.state, "to", to, "cursor", c.queue.Cursor())
	}
	c.state = to
}
