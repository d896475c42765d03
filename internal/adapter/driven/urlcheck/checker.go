// Package urlcheck implements the URLChecker port with a plain HTTP GET.
package urlcheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/commitcheck/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.URLChecker = (*Checker)(nil)

// maxDrainBytes bounds how much of a response body is read before closing so
// the underlying connection can be reused.
const maxDrainBytes = 64 << 10

// Checker issues GET requests and reports the response status code.
// Redirects are followed by the underlying http.Client.
type Checker struct {
	client *http.Client
}

// NewChecker creates a Checker whose requests time out after timeout.
func NewChecker(timeout time.Duration) *Checker {
	return &Checker{client: &http.Client{Timeout: timeout}}
}

// NewCheckerWithHTTPClient creates a Checker with a caller-supplied client.
func NewCheckerWithHTTPClient(client *http.Client) *Checker {
	return &Checker{client: client}
}

// Status performs a GET on rawURL and returns the final status code. A
// non-200 status is not an error; only transport failures are.
func (c *Checker) Status(ctx context.Context, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("building request for %s: %w", rawURL, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("requesting %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	slog.Debug("url checked", "url", rawURL, "status", resp.StatusCode)

	return resp.StatusCode, nil
}
