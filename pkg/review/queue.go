package review

import (
	"context"
	"errors"
	"log/slog"
	"slices"
)

// Backend is the collaborator that serves pending products and persists feedback.
type Backend interface {
	// Products returns the raw listing body; its shape is interpreted by ParseRecords.
	Products(ctx context.Context) ([]byte, error)
	// SubmitFeedback persists one reviewer decision.
	SubmitFeedback(ctx context.Context, fb Feedback) (Ack, error)
}

// Advance is the result of stepping the queue cursor.
type Advance struct {
	Index     int
	Exhausted bool
}

// MovedTo reports a successful step to index i.
func MovedTo(i int) Advance {
	return Advance{Index: i}
}

// Exhausted reports that the cursor was already on the last item.
func Exhausted() Advance {
	return Advance{Exhausted: true}
}

// Queue is an ordered, finite set of records with a cursor on the current item.
// Order is the backend's order. The zero Queue is empty.
type Queue struct {
	items  []Record
	cursor int
}

// NewQueue creates a queue over items with the cursor at 0.
func NewQueue(items []Record) *Queue {
	q := &Queue{}
	q.Replace(items)
	return q
}

// Replace swaps in a new item set wholesale and resets the cursor.
func (q *Queue) Replace(items []Record) {
	q.items = slices.Clone(items)
	q.cursor = 0
}

// Current returns the record under the cursor, or false when the queue is empty.
func (q *Queue) Current() (Record, bool) {
	if len(q.items) == 0 {
		return Record{}, false
	}
	return q.items[q.cursor], true
}

// Advance moves the cursor forward. On the last item it reports Exhausted and leaves
// the queue untouched; refetching is the caller's decision.
func (q *Queue) Advance() Advance {
	if q.cursor+1 < len(q.items) {
		q.cursor++
		return MovedTo(q.cursor)
	}
	return Exhausted()
}

// Len returns the number of items.
func (q *Queue) Len() int {
	return len(q.items)
}

// Cursor returns the index of the current item.
func (q *Queue) Cursor() int {
	return q.cursor
}

// Items returns a copy of the queued records.
func (q *Queue) Items() []Record {
	return slices.Clone(q.items)
}

// Load fetches the pending listing and returns a fresh queue with the cursor at 0.
// A malformed listing degrades to an empty queue; transport and backend failures
// are returned.
func Load(ctx context.Context, backend Backend, logger *slog.Logger) (*Queue, error) {
	body, err := backend.Products(ctx)
	if err != nil {
		return nil, err
	}

	records, err := ParseRecords(body)
	if err != nil {
		if !errors.Is(err, ErrMalformedResponse) {
			return nil, err
		}
		logger.Warn("listing is not a sequence, treating as empty", "error", err)
	}

	return NewQueue(records), nil
}
