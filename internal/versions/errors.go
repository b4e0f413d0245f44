package versions

import "errors"

// ErrNotFound marks a referenced tab, version, or ledger entry that does
// not exist. Surfaced to the caller, never retried.
var ErrNotFound = errors.New("not found")

// PreconditionError blocks an operation on a safety rule. The reason is
// meant to be shown to the user verbatim.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// Backend failures carry no dedicated type: they are wrapped with context
// and propagated raw, and nothing in this package retries or swallows
// them.
