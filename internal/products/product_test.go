package products_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/curator/internal/products"
)

func TestFeedbackCommandValidate(t *testing.T) {
	id := uuid.New()
	text := func(s string) *string { return &s }

	tests := []struct {
		name string
		cmd  products.FeedbackCommand
		want error
	}{
		{"approve", products.FeedbackCommand{ProductID: id, IsApproved: true, Correction: text("Mug")}, nil},
		{"approve empty text", products.FeedbackCommand{ProductID: id, IsApproved: true, Correction: text("")}, nil},
		{"correct", products.FeedbackCommand{ProductID: id, Correction: text("Blue Mug")}, nil},
		{"correct blank", products.FeedbackCommand{ProductID: id, Correction: text(" \t")}, products.ErrCorrectionRequired},
		{"missing correction", products.FeedbackCommand{ProductID: id, IsApproved: true}, products.ErrCorrectionRequired},
		{"missing id", products.FeedbackCommand{IsApproved: true, Correction: text("Mug")}, products.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
