package quiz

import "time"

// Cancel revokes a scheduled callback. Calling it more than once, or after
// the callback ran, is a no-op.
type Cancel func()

// Scheduler runs fn once after delay. Callbacks must be delivered on the
// same logical thread that calls the Controller.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Cancel
}

// Rand is the random source used to draw questions. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}
