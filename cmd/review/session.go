package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JaimeStill/curator/pkg/review"
)

const (
	cmdQuit   = ":q"
	cmdReload = ":r"
	cmdState  = ":s"
)

// session drives a Controller from line-oriented input. An empty line approves,
// any other non-command line is the corrected text.
type session struct {
	ctrl *review.Controller
	in   io.Reader
	out  io.Writer
}

func newSession(ctrl *review.Controller, in io.Reader, out io.Writer) *session {
	return &session{
		ctrl: ctrl,
		in:   in,
		out:  out,
	}
}

// Run loads the queue and processes input until :q, end of input, or ctx is
// done. Input is read on its own goroutine so cancellation is noticed while
// the prompt is waiting.
func (s *session) Run(ctx context.Context) error {
	lines, readErr := s.readLines(ctx)

	if err := s.ctrl.Load(ctx); err != nil && ctx.Err() == nil {
		s.printf("Failed to load products: %v\n", err)
	}

	for {
		s.render()
		s.printf("> ")

		var line string
		select {
		case <-ctx.Done():
			s.printf("\n")
			return nil
		case l, ok := <-lines:
			if !ok {
				s.printf("\n")
				return readErr()
			}
			line = l
		}

		if quit := s.handle(ctx, strings.TrimRight(line, "\r")); quit {
			s.printf("Bye!\n")
			return nil
		}
		if ctx.Err() != nil {
			s.printf("\n")
			return nil
		}
	}
}

// readLines scans s.in until end of input or ctx is done. The returned func
// reports the scanner error and is valid once the channel is closed.
func (s *session) readLines(ctx context.Context) (<-chan string, func() error) {
	lines := make(chan string)
	var err error

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		err = sc.Err()
	}()

	return lines, func() error { return err }
}

func (s *session) handle(ctx context.Context, line string) bool {
	switch strings.TrimSpace(line) {
	case cmdQuit:
		return true
	case cmdReload:
		if err := s.ctrl.Load(ctx); err != nil && ctx.Err() == nil {
			s.printf("Failed to load products: %v\n", err)
		}
		return false
	case cmdState:
		snap := s.ctrl.Snapshot()
		s.printf("state=%s cursor=%d total=%d\n", snap.State, snap.Cursor, snap.Total)
		return false
	}

	var (
		out review.Outcome
		err error
	)
	if strings.TrimSpace(line) == "" {
		out, err = s.ctrl.Approve(ctx)
	} else {
		out, err = s.ctrl.Correct(ctx, line)
	}

	switch {
	case err == nil:
		s.printf("Feedback submitted successfully.\n")
		if out.Reloaded {
			s.printf("Queue finished, reloaded.\n")
		}
		if out.ReloadErr != nil {
			s.printf("Failed to load products: %v\n", out.ReloadErr)
		}
	case ctx.Err() != nil:
		// interrupted; Run exits on its next check
	case errors.Is(err, review.ErrNothingToReview), errors.Is(err, review.ErrNotReady):
		s.printf("Nothing to submit. Use %s to reload.\n", cmdReload)
	case review.Retryable(err):
		s.printf("Failed to submit feedback: %v\n", err)
		s.printf("The item is still current. Press enter or retype to retry.\n")
	default:
		s.printf("Failed to submit feedback: %v\n", err)
	}
	return false
}

func (s *session) render() {
	snap := s.ctrl.Snapshot()

	switch snap.State {
	case review.StateEmpty:
		s.printf("\nNo products need review right now. %s reload, %s quit\n", cmdReload, cmdQuit)
	case review.StateLoadFailed:
		s.printf("\nProducts could not be loaded. %s retry, %s quit\n", cmdReload, cmdQuit)
	case review.StateReady:
		if snap.Current == nil {
			return
		}
		r := snap.Current
		s.printf("\nProduct Review (%d/%d)\n", snap.Cursor+1, snap.Total)
		s.printf("  %s\n", r.TextContent)

		var details []string
		if c := deref(r.Category); c != "" {
			details = append(details, "Category: "+c)
		}
		if t := deref(r.ProductType); t != "" {
			details = append(details, "Type: "+t)
		}
		if p := amount(r.Price); p != "" {
			details = append(details, "Price: "+p)
		}
		if len(details) > 0 {
			s.printf("  %s\n", strings.Join(details, "  "))
		}
		s.printf("Enter approves, text corrects, %s reload, %s state, %s quit\n", cmdReload, cmdState, cmdQuit)
	}
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func amount(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
