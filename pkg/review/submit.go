package review

import (
	"context"
	"fmt"
	"strings"
)

// Decision is a reviewer's verdict on one record.
type Decision struct {
	ProductID      ID
	IsApproved     bool
	CorrectionText string
}

// Approve confirms r's current text.
func Approve(r Record) Decision {
	return Decision{ProductID: r.ID, IsApproved: true}
}

// Correct replaces r's text with text.
func Correct(r Record, text string) Decision {
	return Decision{ProductID: r.ID, CorrectionText: text}
}

// Feedback is the payload persisted by the backend. Correction is always the text
// to store: the original text on approval, the reviewer's text on correction.
type Feedback struct {
	ProductID  ID     `json:"product_id"`
	IsApproved bool   `json:"is_approved"`
	Correction string `json:"correction"`
}

// Ack is the backend's acknowledgement of a persisted decision.
type Ack struct {
	Status     string `json:"status"`
	FeedbackID string `json:"feedback_id,omitempty"`
}

// Submitter validates decisions and sends them to the backend. It keeps no state
// between calls.
type Submitter struct {
	backend Backend
}

// NewSubmitter creates a Submitter bound to backend.
func NewSubmitter(backend Backend) *Submitter {
	return &Submitter{backend: backend}
}

// Validate checks a decision against its target record without touching the network.
func (s *Submitter) Validate(r Record, d Decision) error {
	if d.ProductID != r.ID {
		return fmt.Errorf("%w: decision targets %s, current item is %s", ErrValidation, d.ProductID, r.ID)
	}
	if !d.IsApproved && strings.TrimSpace(d.CorrectionText) == "" {
		return fmt.Errorf("%w: correction text required", ErrValidation)
	}
	return nil
}

// Payload builds the feedback body for d.
func (s *Submitter) Payload(r Record, d Decision) Feedback {
	fb := Feedback{
		ProductID:  r.ID,
		IsApproved: d.IsApproved,
		Correction: d.CorrectionText,
	}
	if d.IsApproved {
		fb.Correction = r.TextContent
	}
	return fb
}

// Submit validates d and, when valid, sends it. Validation failures never reach the backend.
func (s *Submitter) Submit(ctx context.Context, r Record, d Decision) (Ack, error) {
	if err := s.Validate(r, d); err != nil {
		return Ack{}, err
	}

	ack, err := s.backend.SubmitFeedback(ctx, s.Payload(r, d))
	if err != nil {
		return Ack{}, fmt.Errorf("submit feedback for %s: %w", r.ID, err)
	}
	return ack, nil
}
