package usecase

import "time"

const (
	// DefaultMaxCommitAttempts bounds the optimistic retry loop. A version
	// conflict past this many attempts surfaces as ErrConcurrentUpdateExceeded.
	DefaultMaxCommitAttempts = 5

	// DefaultRetryInitialBackoff is the first pause between commit attempts.
	DefaultRetryInitialBackoff = 10 * time.Millisecond

	// DefaultRetryMaxBackoff caps the pause between commit attempts.
	DefaultRetryMaxBackoff = 250 * time.Millisecond

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
