package limiter

import "context"

// Limiter spaces outbound requests. A single instance is shared by every
// client in the process so the upstream rate policy holds no matter how many
// lookups run concurrently.
type Limiter interface {
	Acquire(ctx context.Context) error
}
