package segment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// StaticResolver serves segments from a fixed user → segment table.
// Unknown users fail with ErrUserNotFound.
type StaticResolver struct {
	segments map[int64]string
}

// NewStaticResolver copies segments into a new resolver.
func NewStaticResolver(segments map[int64]string) *StaticResolver {
	table := make(map[int64]string, len(segments))
	for userID, segment := range segments {
		table[userID] = segment
	}
	return &StaticResolver{segments: table}
}

// Resolve returns the fixed segment for userID.
func (r *StaticResolver) Resolve(ctx context.Context, userID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	segment, ok := r.segments[userID]
	if !ok {
		return "", fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	}
	return segment, nil
}

// ParseFixtures parses "userID:segment" pairs separated by commas,
// e.g. "1:p1,2:p2,3:p3".
func ParseFixtures(list string) (map[int64]string, error) {
	fixtures := make(map[int64]string)
	for _, pair := range strings.Split(list, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		rawID, segment, ok := strings.Cut(pair, ":")
		if !ok {
			return nil, fmt.Errorf("invalid segment fixture %q: expected userID:segment", pair)
		}

		userID, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user ID in segment fixture %q: %w", pair, err)
		}

		segment = strings.TrimSpace(segment)
		if segment == "" {
			return nil, fmt.Errorf("empty segment in segment fixture %q", pair)
		}

		fixtures[userID] = segment
	}
	return fixtures, nil
}
