package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/curator/pkg/review"
)

type fakeBackend struct {
	listings [][]byte
	loads    int
	failNext bool
	posted   []review.Feedback
}

func (f *fakeBackend) Products(context.Context) ([]byte, error) {
	i := min(f.loads, len(f.listings)-1)
	f.loads++
	return f.listings[i], nil
}

func (f *fakeBackend) SubmitFeedback(_ context.Context, fb review.Feedback) (review.Ack, error) {
	if f.failNext {
		f.failNext = false
		return review.Ack{}, review.ErrNetworkUnavailable
	}
	f.posted = append(f.posted, fb)
	return review.Ack{Status: "success"}, nil
}

func runSession(t *testing.T, backend *fakeBackend, input string) string {
	t.Helper()
	ctrl := review.NewController(backend, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var out bytes.Buffer
	if err := newSession(ctrl, strings.NewReader(input), &out).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestSessionApproveAndCorrect(t *testing.T) {
	backend := &fakeBackend{listings: [][]byte{
		[]byte(`[{"id":1,"text_content":"A","category":"Kitchen","variant_price":"9.99"},{"id":2,"text":"B"}]`),
		[]byte(`[]`),
	}}

	out := runSession(t, backend, "\nB-fixed\n:q\n")

	if len(backend.posted) != 2 {
		t.Fatalf("posted = %d, want 2", len(backend.posted))
	}
	if !backend.posted[0].IsApproved || backend.posted[0].Correction != "A" {
		t.Errorf("approve payload = %+v", backend.posted[0])
	}
	if backend.posted[1].IsApproved || backend.posted[1].Correction != "B-fixed" {
		t.Errorf("correct payload = %+v", backend.posted[1])
	}

	id, _ := json.Marshal(backend.posted[0].ProductID)
	if string(id) != "1" {
		t.Errorf("product id = %s, want 1", id)
	}

	for _, want := range []string{
		"Product Review (1/2)",
		"Category: Kitchen  Price: 9.99",
		"Product Review (2/2)",
		"Queue finished, reloaded.",
		"No products need review right now.",
		"Bye!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if backend.loads != 2 {
		t.Errorf("loads = %d, want 2", backend.loads)
	}
}

func TestSessionRetryKeepsItem(t *testing.T) {
	backend := &fakeBackend{
		listings: [][]byte{[]byte(`[{"id":"a","text":"A"},{"id":"b","text":"B"}]`)},
		failNext: true,
	}

	out := runSession(t, backend, "\n\n:s\n:q\n")

	if !strings.Contains(out, "Failed to submit feedback") {
		t.Errorf("missing failure message:\n%s", out)
	}
	if strings.Count(out, "Product Review (1/2)") != 2 {
		t.Errorf("item 1 should be presented twice:\n%s", out)
	}
	if len(backend.posted) != 1 || backend.posted[0].ProductID.String() != "a" {
		t.Errorf("posted = %+v", backend.posted)
	}
	if !strings.Contains(out, "state=ready cursor=1 total=2") {
		t.Errorf("missing state line:\n%s", out)
	}
}

func TestSessionEmptyQueue(t *testing.T) {
	backend := &fakeBackend{listings: [][]byte{[]byte(`{"not":"an array"}`)}}

	out := runSession(t, backend, "\nfix\n")

	if len(backend.posted) != 0 {
		t.Errorf("posted = %d, want 0", len(backend.posted))
	}
	if !strings.Contains(out, "Nothing to submit.") {
		t.Errorf("missing nothing-to-submit message:\n%s", out)
	}
}

func TestSessionReload(t *testing.T) {
	backend := &fakeBackend{listings: [][]byte{
		[]byte(`[]`),
		[]byte(`[{"id":3,"text":"C"}]`),
	}}

	out := runSession(t, backend, ":r\n:q\n")

	if !strings.Contains(out, "Product Review (1/1)") {
		t.Errorf("reload did not present new item:\n%s", out)
	}
}

func TestSessionStopsOnCancelAtPrompt(t *testing.T) {
	backend := &fakeBackend{listings: [][]byte{[]byte(`[{"id":1,"text":"A"}]`)}}
	ctrl := review.NewController(backend, slog.New(slog.NewTextHandler(io.Discard, nil)))

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newSession(ctrl, pr, io.Discard).Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run still waiting for input after cancel")
	}
	if len(backend.posted) != 0 {
		t.Errorf("posted = %d, want 0", len(backend.posted))
	}
}

type stalledBackend struct {
	*fakeBackend
	entered chan struct{}
}

func (b *stalledBackend) SubmitFeedback(ctx context.Context, _ review.Feedback) (review.Ack, error) {
	close(b.entered)
	<-ctx.Done()
	return review.Ack{}, ctx.Err()
}

func TestSessionStopsOnCancelDuringSubmit(t *testing.T) {
	backend := &stalledBackend{
		fakeBackend: &fakeBackend{listings: [][]byte{[]byte(`[{"id":1,"text":"A"}]`)}},
		entered:     make(chan struct{}),
	}
	ctrl := review.NewController(backend, slog.New(slog.NewTextHandler(io.Discard, nil)))

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- newSession(ctrl, pr, &out).Run(ctx) }()

	go pw.Write([]byte("\n"))
	<-backend.entered
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel during submit")
	}
	if strings.Contains(out.String(), "Failed to submit feedback") {
		t.Errorf("interrupted submit reported as failure:\n%s", out.String())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("abcdefghijkl", 8); got != "abcde..." {
		t.Errorf("truncate long = %q", got)
	}
}
