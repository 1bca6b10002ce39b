package segment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// UserSegmentPath is the segment service endpoint queried with ?user_id=.
const UserSegmentPath = "/api/v1/user_segment"

// DefaultTimeout bounds a single segment lookup.
const DefaultTimeout = 2 * time.Second

// userSegmentResponse is the segment service payload.
type userSegmentResponse struct {
	Segment string `json:"segment"`
}

// HTTPResolver resolves segments from the remote user segment service.
type HTTPResolver struct {
	baseURL *url.URL
	client  *http.Client
	timeout time.Duration
	logger  zerolog.Logger
}

// NewHTTPResolver creates a resolver for the service at baseURL. The client
// carries no timeout of its own; every call is bounded by timeout instead.
func NewHTTPResolver(baseURL string, timeout time.Duration, logger zerolog.Logger) (*HTTPResolver, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid segment service URL %q: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid segment service URL %q: scheme and host are required", baseURL)
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPResolver{
		baseURL: parsed,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout: timeout,
		logger:  logger.With().Str("component", "segment-resolver").Logger(),
	}, nil
}

// Resolve queries GET {base}/api/v1/user_segment?user_id={id}.
func (r *HTTPResolver) Resolve(ctx context.Context, userID int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	endpoint := r.baseURL.JoinPath(UserSegmentPath)
	endpoint.RawQuery = url.Values{"user_id": {strconv.FormatInt(userID, 10)}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build segment request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: lookup for user %d timed out after %s: %w", ErrUnavailable, userID, r.timeout, err)
		}
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	r.logger.Debug().
		Int64("user_id", userID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("segment service responded")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("user %d: %w", userID, ErrUserNotFound)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: status %s for user %d", ErrUnavailable, resp.Status, userID)
	}

	var payload userSegmentResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: invalid response for user %d: %w", ErrUnavailable, userID, err)
	}
	if payload.Segment == "" {
		return "", fmt.Errorf("user %d has no segment: %w", userID, ErrUserNotFound)
	}

	return payload.Segment, nil
}
