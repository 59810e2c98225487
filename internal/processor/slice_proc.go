package processor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/harshithgowdakt/granuleflow/internal/column"
	"github.com/harshithgowdakt/granuleflow/internal/port"
)

// NoLimit leaves the window unbounded after the offset.
const NoLimit int64 = -1

// windowCase is how one batch relates to the remaining window.
type windowCase uint8

const (
	caseExhausted     windowCase = iota // limit used up: empty output
	casePassAll                         // no offset, no limit: whole batch
	caseHead                            // no offset, limit ends inside batch
	casePassCounted                     // no offset, limit extends past batch
	caseTail                            // unbounded, offset ends inside batch
	caseSkipUnbounded                   // unbounded, offset covers batch
	caseInner                           // window lies fully inside batch
	caseSkipBounded                     // bounded, offset covers batch
	caseTailCounted                     // bounded, window starts inside batch and continues
)

var windowCaseNames = [...]string{
	caseExhausted:     "exhausted",
	casePassAll:       "pass_all",
	caseHead:          "head",
	casePassCounted:   "pass_counted",
	caseTail:          "tail",
	caseSkipUnbounded: "skip_unbounded",
	caseInner:         "inner",
	caseSkipBounded:   "skip_bounded",
	caseTailCounted:   "tail_counted",
}

func (c windowCase) String() string {
	if int(c) < len(windowCaseNames) {
		return windowCaseNames[c]
	}
	return fmt.Sprintf("windowCase(%d)", uint8(c))
}

// WindowState is the part of an (offset, limit) window not yet consumed.
type WindowState struct {
	OffsetRemaining int64
	LimitRemaining  int64
	Bounded         bool
}

// NewWindowState validates offset and limit. limit may be NoLimit.
func NewWindowState(offset, limit int64) (WindowState, error) {
	if offset < 0 {
		return WindowState{}, fmt.Errorf("%w: negative offset %d", ErrInvalidConfig, offset)
	}
	if limit < 0 && limit != NoLimit {
		return WindowState{}, fmt.Errorf("%w: negative limit %d", ErrInvalidConfig, limit)
	}
	if limit == NoLimit {
		return WindowState{OffsetRemaining: offset}, nil
	}
	return WindowState{OffsetRemaining: offset, LimitRemaining: limit, Bounded: true}, nil
}

// WindowStep is the effect of one batch: rows [From, To) are emitted and
// the window continues as Next.
type WindowStep struct {
	Case     windowCase
	From, To int64
	Next     WindowState
}

func (w WindowState) classify(rows int64) windowCase {
	o, n := w.OffsetRemaining, w.LimitRemaining
	switch {
	case w.Bounded && n == 0:
		return caseExhausted
	case o == 0 && !w.Bounded:
		return casePassAll
	case o == 0 && n <= rows:
		return caseHead
	case o == 0:
		return casePassCounted
	case !w.Bounded && o <= rows:
		return caseTail
	case !w.Bounded:
		return caseSkipUnbounded
	case o+n <= rows:
		return caseInner
	case o >= rows:
		return caseSkipBounded
	default:
		return caseTailCounted
	}
}

// Step applies a batch of the given length to the window.
func (w WindowState) Step(rows int64) WindowStep {
	c := w.classify(rows)
	s := WindowStep{Case: c, Next: w}
	o, n := w.OffsetRemaining, w.LimitRemaining
	switch c {
	case caseExhausted:
	case casePassAll:
		s.To = rows
	case caseHead:
		s.To = n
		s.Next.LimitRemaining = 0
	case casePassCounted:
		s.To = rows
		s.Next.LimitRemaining = n - rows
	case caseTail:
		s.From, s.To = o, rows
		s.Next.OffsetRemaining = 0
	case caseSkipUnbounded, caseSkipBounded:
		s.Next.OffsetRemaining = o - rows
	case caseInner:
		s.From, s.To = o, o+n
		s.Next.OffsetRemaining = 0
		s.Next.LimitRemaining = 0
	case caseTailCounted:
		s.From, s.To = o, rows
		s.Next.OffsetRemaining = 0
		s.Next.LimitRemaining = n - (rows - o)
	}
	return s
}

// Done reports whether no further rows can fall inside the window.
func (w WindowState) Done() bool { return w.Bounded && w.LimitRemaining == 0 }

// SliceProcessor passes the rows of a global (offset, limit) window over
// the whole stream. It emits one batch per input batch, empty when no rows
// of that batch are in the window, and drains its input after the window
// closes.
type SliceProcessor struct {
	BaseProcessor
	window WindowState
	in     port.Source[arrow.Record]
	out    port.Sink[arrow.Record]
}

// NewSliceProcessor creates a windower. limit may be NoLimit.
func NewSliceProcessor(offset, limit int64, in port.Source[arrow.Record], out port.Sink[arrow.Record]) (*SliceProcessor, error) {
	w, err := NewWindowState(offset, limit)
	if err != nil {
		return nil, err
	}
	return &SliceProcessor{
		BaseProcessor: NewBaseProcessor("Slice"),
		window:        w,
		in:            in,
		out:           out,
	}, nil
}

func (s *SliceProcessor) Run(ctx context.Context) (err error) {
	log, finish := s.start(ctx)
	defer finish(&err)
	defer s.out.Close()
	defer releaseOnError(&err, s.in)

	state := s.window
	for {
		b, ok, err := s.recv(ctx, s.in)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		step := state.Step(b.NumRows())
		if !state.Done() && step.Next.Done() {
			log.Debug("window closed, draining input")
		}
		state = step.Next
		if !port.Connected(s.out) {
			continue
		}
		log.Debug("window step",
			slog.String("case", step.Case.String()),
			slog.Int64("from", step.From),
			slog.Int64("to", step.To))
		if err := s.emit(ctx, s.out, column.SliceRows(b, step.From, step.To)); err != nil {
			return err
		}
	}
}
