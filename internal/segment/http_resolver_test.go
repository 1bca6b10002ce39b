package segment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSegmentServer mimics the user segment service: users 1-3 map to p1-p3,
// user 500 triggers a server error, user 999 responds too slowly.
func newSegmentServer(t *testing.T) *httptest.Server {
	t.Helper()

	segments := map[string]string{"1": "p1", "2": "p2", "3": "p3"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != UserSegmentPath || r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}

		userID := r.URL.Query().Get("user_id")
		switch userID {
		case "500":
			w.WriteHeader(http.StatusInternalServerError)
			return
		case "999":
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
			return
		case "777":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"segment":`))
			return
		}

		segment, ok := segments[userID]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"segment":"` + segment + `"}`))
	}))
	t.Cleanup(server.Close)

	return server
}

func TestNewHTTPResolver_InvalidURL(t *testing.T) {
	tests := []string{"", "localhost:8080", "://bad", "/relative/path"}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			resolver, err := NewHTTPResolver(raw, time.Second, zerolog.Nop())
			require.Error(t, err)
			assert.Nil(t, resolver)
		})
	}
}

func TestHTTPResolver_Resolve(t *testing.T) {
	server := newSegmentServer(t)
	resolver, err := NewHTTPResolver(server.URL+"/", 200*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)

	tests := []struct {
		name      string
		userID    int64
		expected  string
		expectErr error
	}{
		{name: "User 1 in p1", userID: 1, expected: "p1"},
		{name: "User 2 in p2", userID: 2, expected: "p2"},
		{name: "User 3 in p3", userID: 3, expected: "p3"},
		{name: "Unknown user", userID: 404, expectErr: ErrUserNotFound},
		{name: "Negative user", userID: -1, expectErr: ErrUserNotFound},
		{name: "Server error", userID: 500, expectErr: ErrUnavailable},
		{name: "Timeout", userID: 999, expectErr: ErrUnavailable},
		{name: "Malformed body", userID: 777, expectErr: ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segment, err := resolver.Resolve(context.Background(), tt.userID)

			if tt.expectErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Empty(t, segment)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, segment)
		})
	}
}

func TestHTTPResolver_Resolve_TimeoutIsBounded(t *testing.T) {
	server := newSegmentServer(t)
	resolver, err := NewHTTPResolver(server.URL, 50*time.Millisecond, zerolog.Nop())
	require.NoError(t, err)

	start := time.Now()
	_, err = resolver.Resolve(context.Background(), 999)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestHTTPResolver_Resolve_Unreachable(t *testing.T) {
	server := newSegmentServer(t)
	url := server.URL
	server.Close()

	resolver, err := NewHTTPResolver(url, time.Second, zerolog.Nop())
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPResolver_DefaultTimeout(t *testing.T) {
	resolver, err := NewHTTPResolver("http://segments.internal", 0, zerolog.Nop())

	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, resolver.timeout)
}
