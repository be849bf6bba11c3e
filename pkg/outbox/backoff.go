package outbox

import (
	"math/rand"
	"time"
)

// retrySchedule holds the delay before each redelivery: one minute after the
// first failure, five after the second, fifteen after the third. Attempts
// beyond the schedule reuse the last entry.
var retrySchedule = []time.Duration{
	1 * time.Minute,
	5 * time.Minute,
	15 * time.Minute,
}

func backoff(attempts int) time.Duration {
	if attempts <= 0 {
		return 0
	}
	if attempts > len(retrySchedule) {
		return retrySchedule[len(retrySchedule)-1]
	}
	return retrySchedule[attempts-1]
}

func jitter(r *rand.Rand, maxJitter time.Duration) time.Duration {
	if maxJitter <= 0 || r == nil {
		return 0
	}
	// [0, maxJitter]
	return time.Duration(r.Int63n(int64(maxJitter) + 1)) //nolint:gosec
}
