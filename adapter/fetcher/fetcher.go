package fetcher

import "context"

// Response carries the status and body of a completed request. Non success
// statuses are reported here instead of as errors so callers can apply
// their own fallback policy.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// Fetcher issues a single GET. An error means the request never completed
// at the transport level; a throttled or failing upstream still yields a
// Response.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}
