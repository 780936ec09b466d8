package secfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/docseek-io/filing-lookup/adapter/fetcher"
	"github.com/docseek-io/filing-lookup/adapter/limiter"
	"github.com/docseek-io/filing-lookup/adapter/logger"
	"github.com/pkg/errors"
)

const (
	// contact identification required by the upstream fair access policy
	userAgent = "docseek.io info@docseek.io"

	requestTimeout = 10 * time.Second
	maxAttempts    = 3
	backoffBase    = 10 * time.Second
)

var throttledErr error = errors.New("Upstream answered 429 Too Many Requests")

type secFetch struct {
	client   *http.Client
	limiter  limiter.Limiter
	logger   logger.Logger
	attempts uint64
	base     time.Duration
}

func New(l limiter.Limiter, log logger.Logger) *secFetch {
	return &secFetch{
		client:   &http.Client{Timeout: requestTimeout},
		limiter:  l,
		logger:   log,
		attempts: maxAttempts,
		base:     backoffBase,
	}
}

// Fetch issues a rate limited GET. Throttling answers are retried with a
// linearly growing pause; when the retry budget is spent the last throttled
// response is handed back as-is, the caller gets a best effort result
// rather than an error. Transport failures are never retried.
func (f *secFetch) Fetch(ctx context.Context, url string) (*fetcher.Response, error) {

	var last *fetcher.Response
	attempt := 0

	operation := func() (*fetcher.Response, error) {
		attempt++
		res, err := f.attempt(ctx, url)
		if err != nil {
			// connection, resolution and timeout errors belong to the caller
			return nil, backoff.Permanent(err)
		}
		if res.StatusCode == http.StatusTooManyRequests {
			last = res
			f.logger.Log(fmt.Sprintf(
				"429 Too Many Requests for '%s' on attempt %d/%d",
				url,
				attempt,
				f.attempts,
			))
			return nil, throttledErr
		}
		return res, nil
	}

	res, err := backoff.RetryWithData(
		operation,
		backoff.WithMaxRetries(&linear{step: f.base}, f.attempts-1),
	)
	if err != nil {
		// only a retry budget spent entirely on throttling yields the
		// stale response; a transport failure on any attempt wins
		if err == throttledErr && last != nil {
			return last, nil
		}
		return nil, err
	}

	return res, nil
}

func (f *secFetch) attempt(ctx context.Context, url string) (*fetcher.Response, error) {

	// every attempt funnels through the shared limiter, retries included
	if err := f.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("User-Agent", userAgent)
	req.Header.Add("Accept", "*/*")
	req.Header.Add("Connection", "keep-alive")

	res, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "Request to '%s' failed", url)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "Reading body from '%s' failed", url)
	}

	return &fetcher.Response{StatusCode: res.StatusCode, Body: body}, nil
}

// linear waits attempt times step: 1x after the first failed attempt, 2x
// after the second and so on.
type linear struct {
	step time.Duration
	n    int64
}

func (l *linear) NextBackOff() time.Duration {
	l.n++
	return time.Duration(l.n) * l.step
}

func (l *linear) Reset() {
	l.n = 0
}
