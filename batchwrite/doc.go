// Package batchwrite writes arbitrarily large sets of put and delete requests
// to DynamoDB through BatchWriteItem.
//
// BatchWriteItem accepts at most 25 requests per call, may commit only part
// of them (returning the rest as UnprocessedItems) and may fail transiently.
// A [Writer] hides all three: it splits each table's requests into chunks,
// re-drives unprocessed items until the store reports none left, retries
// retryable errors up to a fixed budget, and merges the per-call
// ConsumedCapacity and ItemCollectionMetrics into a single result.
//
// # Usage
//
//	req := batchwrite.Request{}
//	_ = req.Put("orders", order)
//	_ = req.Delete("orders", map[string]string{"id": "stale"})
//
//	w := batchwrite.New(dynamoClient, batchwrite.DefaultConfig())
//	out, err := w.WriteAll(ctx, req)
//
// # Ordering
//
// Tables are written one at a time in name order. Within a table, chunks are
// sent front to back, so the first 25 requests go out first and the last
// chunk holds the remainder. Calls are strictly sequential.
//
// # Retries
//
// Two kinds of re-issue are kept apart:
//
//   - Unprocessed items are sent again immediately, with no limit. Each round
//     is progress reported by the store itself.
//   - Retryable errors (see [IsRetryable]) re-send the same input immediately,
//     at most [Config.MaxRetries] calls per chunk in total.
//
// There is no backoff between calls. Combine with the SDK's own retryer if
// the table is throttled heavily.
//
// # Errors
//
// A terminal failure aborts the whole request and is returned as a
// [*BatchError] wrapping the store error:
//
//   - errors.As(err, &apiErr) still finds the SDK error
//   - errors.Is(err, [ErrRetriesExhausted]) reports a spent retry budget
//   - [ErrNilClient] - the Writer has no client
package batchwrite
