package chat

import "context"

type OutcomeKind int

const (
	// OutcomeSkipped means nothing was sent.
	OutcomeSkipped OutcomeKind = iota
	OutcomeReply
	OutcomeEmpty
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeReply:
		return "reply"
	case OutcomeEmpty:
		return "empty"
	case OutcomeError:
		return "error"
	}
	return "unknown"
}

// Outcome is how an exchange resolved. Content is the assistant turn that
// was appended; Err carries the transport error for OutcomeError.
type Outcome struct {
	Kind    OutcomeKind
	Content string
	Err     error
}

// Exchange is one in-flight request.
type Exchange struct {
	done    chan struct{}
	outcome Outcome
}

func newExchange() *Exchange {
	return &Exchange{done: make(chan struct{})}
}

func resolvedExchange(o Outcome) *Exchange {
	ex := newExchange()
	ex.resolve(o)
	return ex
}

func (e *Exchange) resolve(o Outcome) {
	e.outcome = o
	close(e.done)
}

// Done is closed once the exchange has resolved.
func (e *Exchange) Done() <-chan struct{} { return e.done }

// Outcome returns the result. Only meaningful after Done is closed.
func (e *Exchange) Outcome() Outcome {
	select {
	case <-e.done:
		return e.outcome
	default:
		return Outcome{}
	}
}

// Wait blocks until the exchange resolves or ctx is done.
func (e *Exchange) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-e.done:
		return e.outcome, nil
	default:
	}
	select {
	case <-e.done:
		return e.outcome, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
