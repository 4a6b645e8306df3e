package stream

import (
	"io"
	"sync"

	"github.com/jferrettiboke/ai/core"
	"github.com/jferrettiboke/ai/logging"
)

// cursor identifiers into the Result's pending queues.
const (
	textCursor = iota
	fullCursor
	rawCursor
	numCursors
)

// ResultOptions configures a Result.
type ResultOptions struct {
	// Logger is the observability channel the text view reports error parts
	// through (it otherwise discards non-text content).
	Logger logging.Logger
}

// Result wraps one transformed part sequence and exposes independent
// consumption views over it. Each view is a pull-based cursor with its own
// read position: consuming one view does not advance the others. Views are
// single-pass, like the underlying sequence.
//
// Internally each pull takes the next unconsumed part from the shared source
// under a mutex and queues it for the remaining cursors, so no part is ever
// lost or duplicated and no pull happens before some view asks for it. The
// raw cursor backing WriteSSE only starts queuing once WriteSSE is invoked;
// consumers that stick to the views never buffer parts for it.
type Result struct {
	mu         sync.Mutex
	src        <-chan core.StreamPart
	done       bool
	started    bool
	rawEnabled bool
	queues     [numCursors][]core.StreamPart
	warnings   []string

	text *TextStream
	full *FullStream
	raw  *rawStream
}

// NewResult wraps a transformed part sequence.
func NewResult(parts <-chan core.StreamPart, optFns ...func(o *ResultOptions)) *Result {
	opts := ResultOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	r := &Result{src: parts}
	r.text = &TextStream{result: r, logger: opts.Logger}
	r.full = &FullStream{result: r}
	r.raw = &rawStream{result: r}
	return r
}

// SetWarnings attaches provider diagnostics surfaced when the generation was
// started.
func (r *Result) SetWarnings(warnings []string) { r.warnings = warnings }

// Warnings returns provider diagnostics surfaced when the generation started.
func (r *Result) Warnings() []string { return r.warnings }

// TextStream returns the text-only view. Repeated calls return the same
// cursor; the view is single-pass.
func (r *Result) TextStream() *TextStream { return r.text }

// FullStream returns the full-event view. Repeated calls return the same
// cursor; the view is single-pass.
func (r *Result) FullStream() *FullStream { return r.full }

// next advances the given cursor by one part. The second return is false once
// the underlying sequence is exhausted for that cursor.
func (r *Result) next(cursor int) (core.StreamPart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.queues[cursor]) > 0 {
		part := r.queues[cursor][0]
		r.queues[cursor] = r.queues[cursor][1:]
		return part, true
	}
	if r.done {
		return nil, false
	}

	r.started = true
	part, ok := <-r.src
	if !ok {
		r.done = true
		return nil, false
	}
	for other := range r.queues {
		if other == cursor {
			continue
		}
		if other == rawCursor && !r.rawEnabled {
			continue
		}
		r.queues[other] = append(r.queues[other], part)
	}
	return part, true
}

// enableRaw switches the raw cursor's queue on. The raw sequence must be
// complete, so enabling after any part has already been consumed is an error.
func (r *Result) enableRaw() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rawEnabled {
		return nil
	}
	if r.started {
		return errUsedStream
	}
	r.rawEnabled = true
	return nil
}

// TextStream is the text-only view: a lazy, finite sequence of non-empty text
// fragments. Tool calls, tool results and zero-length fragments are silently
// discarded; error parts are reported through the configured logger and
// consumption continues.
type TextStream struct {
	result *Result
	logger logging.Logger
}

// Next returns the next non-empty text fragment, or io.EOF once the
// underlying sequence is exhausted.
func (s *TextStream) Next() (string, error) {
	for {
		part, ok := s.result.next(textCursor)
		if !ok {
			return "", io.EOF
		}
		switch p := part.(type) {
		case core.TextDeltaPart:
			if p.Text == "" {
				continue
			}
			return p.Text, nil
		case core.ErrorPart:
			s.logger.Error("stream.error_part",
				"tool", p.ToolName, "tool_call_id", p.ToolCallID, "error", errMessage(p.Err))
		}
	}
}

// FullStream is the full-event view: every part of the underlying sequence
// except zero-length text deltas, which are elided exactly as in the text view.
type FullStream struct {
	result *Result
}

// Next returns the next part, or a nil part and io.EOF once the underlying
// sequence is exhausted.
func (s *FullStream) Next() (core.StreamPart, error) {
	for {
		part, ok := s.result.next(fullCursor)
		if !ok {
			return nil, io.EOF
		}
		if td, isText := part.(core.TextDeltaPart); isText && td.Text == "" {
			continue
		}
		return part, nil
	}
}

// rawStream is the unfiltered cursor backing the delivery surface.
type rawStream struct {
	result *Result
}

func (s *rawStream) Next() (core.StreamPart, error) {
	part, ok := s.result.next(rawCursor)
	if !ok {
		return nil, io.EOF
	}
	return part, nil
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
