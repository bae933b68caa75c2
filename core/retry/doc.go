// Package retry provides an explicit retry policy for remote operations.
//
// A Policy bundles the attempt ceiling, the exponential backoff schedule and
// the classifier that separates transient failures (rate limits, timeouts,
// 5xx responses) from permanent ones (permission denied, malformed payload).
// Callers mark errors with MarkTransient or MarkPermanent, or supply their
// own classifier.
//
//	p := retry.Default()
//	attempts, err := p.Do(ctx, func(ctx context.Context) error {
//	    return client.Insert(ctx, ev)
//	})
package retry
