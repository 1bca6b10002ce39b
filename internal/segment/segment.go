package segment

import (
	"context"
	"errors"
)

// Lookup errors returned by resolvers.
var (
	ErrUserNotFound = errors.New("user not found in segment service")
	ErrUnavailable  = errors.New("segment service unavailable")
)

// Resolver maps a user to their audience segment.
type Resolver interface {
	// Resolve returns the user's segment label. Implementations must honour
	// ctx cancellation and deadlines.
	Resolve(ctx context.Context, userID int64) (string, error)
}
