package review_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/curator/pkg/review"
)

type mockBackend struct {
	productsFn func(ctx context.Context) ([]byte, error)
	submitFn   func(ctx context.Context, fb review.Feedback) (review.Ack, error)

	productCalls int
	submitCalls  int
	submitted    []review.Feedback
}

func (m *mockBackend) Products(ctx context.Context) ([]byte, error) {
	m.productCalls++
	return m.productsFn(ctx)
}

func (m *mockBackend) SubmitFeedback(ctx context.Context, fb review.Feedback) (review.Ack, error) {
	m.submitCalls++
	m.submitted = append(m.submitted, fb)
	if m.submitFn == nil {
		return review.Ack{Status: "success"}, nil
	}
	return m.submitFn(ctx, fb)
}

func listing(body string) func(context.Context) ([]byte, error) {
	return func(context.Context) ([]byte, error) {
		return []byte(body), nil
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func records(texts ...string) []review.Record {
	out := make([]review.Record, len(texts))
	for i, text := range texts {
		out[i] = review.Record{ID: review.NewID(i + 1), TextContent: text, Status: review.DefaultStatus}
	}
	return out
}

func TestQueueEmpty(t *testing.T) {
	var q review.Queue

	if _, ok := q.Current(); ok {
		t.Error("empty queue should have no current item")
	}
	if adv := q.Advance(); !adv.Exhausted {
		t.Errorf("advance on empty = %+v, want exhausted", adv)
	}
	if q.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", q.Cursor())
	}
}

func TestQueueAdvanceBounds(t *testing.T) {
	for n := 1; n <= 5; n++ {
		q := review.NewQueue(records(make([]string, n)...))

		for i := 1; i < n; i++ {
			adv := q.Advance()
			if adv.Exhausted {
				t.Fatalf("n=%d: exhausted early at step %d", n, i)
			}
			if adv.Index != i {
				t.Fatalf("n=%d: index = %d, want %d", n, adv.Index, i)
			}
		}

		if adv := q.Advance(); !adv.Exhausted {
			t.Fatalf("n=%d: expected exhausted after %d steps", n, n-1)
		}
		if q.Cursor() != n-1 {
			t.Errorf("n=%d: exhausted advance moved cursor to %d", n, q.Cursor())
		}
		if q.Len() != n {
			t.Errorf("n=%d: exhausted advance changed length to %d", n, q.Len())
		}
	}
}

func TestQueueReplaceResetsCursor(t *testing.T) {
	q := review.NewQueue(records("A", "B", "C"))
	q.Advance()
	q.Advance()

	q.Replace(records("X", "Y"))

	if q.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", q.Cursor())
	}
	r, ok := q.Current()
	if !ok || r.TextContent != "X" {
		t.Errorf("current = %+v, %v", r, ok)
	}
}

func TestQueueItemsIsCopy(t *testing.T) {
	q := review.NewQueue(records("A"))
	items := q.Items()
	items[0].TextContent = "mutated"

	r, _ := q.Current()
	if r.TextContent != "A" {
		t.Errorf("queue mutated through Items: %q", r.TextContent)
	}
}

func TestLoad(t *testing.T) {
	t.Run("preserves server order", func(t *testing.T) {
		backend := &mockBackend{productsFn: listing(`[{"id":3,"text":"C"},{"id":1,"text":"A"}]`)}

		q, err := review.Load(context.Background(), backend, discardLogger())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		items := q.Items()
		if len(items) != 2 || items[0].TextContent != "C" || items[1].TextContent != "A" {
			t.Errorf("items = %+v", items)
		}
	})

	t.Run("malformed degrades to empty", func(t *testing.T) {
		backend := &mockBackend{productsFn: listing(`{"error":"boom"}`)}

		q, err := review.Load(context.Background(), backend, discardLogger())
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if q.Len() != 0 {
			t.Errorf("len = %d, want 0", q.Len())
		}
	})

	t.Run("network failure returned", func(t *testing.T) {
		backend := &mockBackend{productsFn: func(context.Context) ([]byte, error) {
			return nil, review.ErrNetworkUnavailable
		}}

		_, err := review.Load(context.Background(), backend, discardLogger())
		if !errors.Is(err, review.ErrNetworkUnavailable) {
			t.Errorf("err = %v, want ErrNetworkUnavailable", err)
		}
	})
}
