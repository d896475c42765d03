package urlcheck_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/commitcheck/internal/adapter/driven/urlcheck"
)

func TestStatus_ReturnsStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		switch r.URL.Path {
		case "/OPS-1":
			w.WriteHeader(http.StatusOK)
		case "/gone":
			w.WriteHeader(http.StatusGone)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	checker := urlcheck.NewChecker(5 * time.Second)

	tests := []struct {
		path string
		want int
	}{
		{path: "/OPS-1", want: http.StatusOK},
		{path: "/gone", want: http.StatusGone},
		{path: "/missing", want: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			status, err := checker.Status(context.Background(), server.URL+tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestStatus_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	status, err := urlcheck.NewCheckerWithHTTPClient(server.Client()).Status(context.Background(), server.URL+"/old")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}

func TestStatus_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	addr := server.URL
	server.Close()

	_, err := urlcheck.NewChecker(time.Second).Status(context.Background(), addr+"/x")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requesting")
}

func TestStatus_InvalidURL(t *testing.T) {
	_, err := urlcheck.NewChecker(time.Second).Status(context.Background(), "://bad")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "building request")
}

func TestStatus_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	t.Cleanup(server.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := urlcheck.NewChecker(time.Second).Status(ctx, server.URL)

	assert.ErrorIs(t, err, context.Canceled)
}
