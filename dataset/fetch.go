package dataset

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jpillora/backoff"

	"github.com/raykavin/timechart/core"
)

// DefaultFetchAttempts bounds retries on transient download failures.
const DefaultFetchAttempts = 4

// setupFetchRetry creates a backoff with sensible defaults
func setupFetchRetry() *backoff.Backoff {
	return &backoff.Backoff{
		Min: 100 * time.Millisecond,
		Max: 2 * time.Second,
	}
}

// Fetch downloads a CSV dataset from url, retrying transient failures
// with exponential backoff. Client errors (4xx) are not retried.
func Fetch(ctx context.Context, log core.Logger, url, name, timeField string) (*Dataset, error) {
	retry := setupFetchRetry()

	var lastErr error
	for attempt := 0; attempt < DefaultFetchAttempts; attempt++ {
		if attempt > 0 {
			wait := retry.Duration()
			log.WithField("url", url).
				WithField("attempt", attempt).
				Warnf("dataset fetch failed, retrying in %s: %v", wait, lastErr)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		ds, retryable, err := fetchOnce(ctx, url, name, timeField)
		if err == nil {
			return ds, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("fetch %s: %w", url, lastErr)
}

func fetchOnce(ctx context.Context, url, name, timeField string) (*Dataset, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server returned %s", resp.Status)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("server returned %s", resp.Status)
	}

	ds, err := FromCSV(resp.Body, name, timeField)
	if err != nil {
		return nil, false, err
	}
	return ds, false, nil
}
