package driven

import "context"

// URLChecker issues a GET request for a derived URL and reports the HTTP
// status code. Transport failures are returned as errors.
type URLChecker interface {
	Status(ctx context.Context, url string) (int, error)
}
