package editing

import "errors"

// ErrMissingCredential marks a fatal configuration problem: no API key is
// available, so no remote call is ever attempted.
var ErrMissingCredential = errors.New("editing: api key is not configured")

// ErrGenerationFailed wraps every remote failure surfaced to the UI layer.
// The wrapped message carries the human-readable cause.
var ErrGenerationFailed = errors.New("editing: generation failed")

// ErrInvalidRequest marks requests rejected before any remote call.
var ErrInvalidRequest = errors.New("editing: invalid request")
