package invoice

import (
	"context"

	"github.com/google/uuid"
)

// State of a single generation attempt.
type State string

const (
	StateIdle       State = "idle"
	StateGenerating State = "generating"
	StateCommitted  State = "committed"
	StateRolledBack State = "rolled_back"
)

const RolledBackMessage = "Error generating invoice. All changes have been rolled back."

// Attempt tracks one caller's generation request through
// Idle -> Generating -> Committed or RolledBack. A rolled back attempt keeps
// its params and can be run again. Attempt is not safe for concurrent use.
type Attempt struct {
	Params    GenerateParams
	State     State
	InvoiceID uuid.UUID
	Invoice   *Invoice // Nil when Replayed
	Replayed  bool
	Err       error
}

func NewAttempt(params GenerateParams) *Attempt {
	return &Attempt{Params: params, State: StateIdle}
}

// Message is the user-facing outcome of the attempt.
func (a *Attempt) Message() string {
	switch a.State {
	case StateGenerating:
		return "Generating invoice..."
	case StateCommitted:
		return "Invoice generated."
	case StateRolledBack:
		return RolledBackMessage
	default:
		return ""
	}
}

// Run executes the attempt. onComplete, if set, receives the invoice id once
// the generation has committed.
func (s *Service) Run(ctx context.Context, a *Attempt, onComplete func(invoiceID uuid.UUID)) error {
	if a.State == StateGenerating || a.State == StateCommitted {
		return ErrAttemptStarted
	}

	a.State = StateGenerating
	a.Err = nil

	res, err := s.Generate(ctx, a.Params)
	if err != nil {
		a.State = StateRolledBack
		a.Err = err

		return err
	}

	a.State = StateCommitted
	a.InvoiceID = res.InvoiceID
	a.Invoice = res.Invoice
	a.Replayed = res.Replayed

	if onComplete != nil {
		onComplete(res.InvoiceID)
	}

	return nil
}
