package review_test

import (
	"context"
	"errors"
	"testing"

	"github.com/JaimeStill/curator/pkg/review"
)

func TestSubmitApproveSendsOriginalText(t *testing.T) {
	backend := &mockBackend{}
	s := review.NewSubmitter(backend)
	r := records("Blue Mug")[0]

	if _, err := s.Submit(context.Background(), r, review.Approve(r)); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(backend.submitted) != 1 {
		t.Fatalf("submissions = %d, want 1", len(backend.submitted))
	}
	fb := backend.submitted[0]
	if !fb.IsApproved {
		t.Error("is_approved = false, want true")
	}
	if fb.Correction != "Blue Mug" {
		t.Errorf("correction = %q, want original text", fb.Correction)
	}
	if fb.ProductID != r.ID {
		t.Errorf("product_id = %s, want %s", fb.ProductID, r.ID)
	}
}

func TestSubmitApproveIgnoresCorrectionText(t *testing.T) {
	backend := &mockBackend{}
	s := review.NewSubmitter(backend)
	r := records("Blue Mug")[0]

	d := review.Decision{ProductID: r.ID, IsApproved: true, CorrectionText: "ignored"}
	if _, err := s.Submit(context.Background(), r, d); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := backend.submitted[0].Correction; got != "Blue Mug" {
		t.Errorf("correction = %q, want original text", got)
	}
}

func TestSubmitCorrectSendsReviewerText(t *testing.T) {
	backend := &mockBackend{}
	s := review.NewSubmitter(backend)
	r := records("Blu Mug")[0]

	if _, err := s.Submit(context.Background(), r, review.Correct(r, "Blue Mug")); err != nil {
		t.Fatalf("submit: %v", err)
	}

	fb := backend.submitted[0]
	if fb.IsApproved {
		t.Error("is_approved = true, want false")
	}
	if fb.Correction != "Blue Mug" {
		t.Errorf("correction = %q, want Blue Mug", fb.Correction)
	}
}

func TestSubmitRequiresCorrectionText(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		backend := &mockBackend{}
		s := review.NewSubmitter(backend)
		r := records("A")[0]

		_, err := s.Submit(context.Background(), r, review.Correct(r, text))
		if !errors.Is(err, review.ErrValidation) {
			t.Errorf("text %q: err = %v, want ErrValidation", text, err)
		}
		if backend.submitCalls != 0 {
			t.Errorf("text %q: network calls = %d, want 0", text, backend.submitCalls)
		}
	}
}

func TestSubmitRejectsMismatchedTarget(t *testing.T) {
	backend := &mockBackend{}
	s := review.NewSubmitter(backend)
	rs := records("A", "B")

	_, err := s.Submit(context.Background(), rs[0], review.Approve(rs[1]))
	if !errors.Is(err, review.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
	if backend.submitCalls != 0 {
		t.Errorf("network calls = %d, want 0", backend.submitCalls)
	}
}

func TestSubmitPropagatesBackendError(t *testing.T) {
	backend := &mockBackend{submitFn: func(context.Context, review.Feedback) (review.Ack, error) {
		return review.Ack{}, &review.BackendError{Status: 500, Body: "db down"}
	}}
	s := review.NewSubmitter(backend)
	r := records("A")[0]

	_, err := s.Submit(context.Background(), r, review.Approve(r))
	if !errors.Is(err, review.ErrBackend) {
		t.Errorf("err = %v, want ErrBackend", err)
	}

	var be *review.BackendError
	if !errors.As(err, &be) || be.Status != 500 {
		t.Errorf("backend error = %v", be)
	}
	if !review.Retryable(err) {
		t.Error("backend error should be retryable")
	}
}
