package batchwrite

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// Client is the part of the DynamoDB API the Writer needs.
// *dynamodb.Client satisfies this interface.
type Client interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// Writer drives arbitrarily large write requests through BatchWriteItem.
type Writer struct {
	client    Client
	config    Config
	logger    *slog.Logger
	metrics   *Metrics
	retryable RetryableFunc
}

// Option configures optional behavior of a Writer.
type Option func(*Writer)

// WithLogger sets the logger. If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithMetrics sets the collectors updated on every call.
func WithMetrics(m *Metrics) Option {
	return func(w *Writer) {
		w.metrics = m
	}
}

// WithRetryable replaces the error classifier (IsRetryable by default).
func WithRetryable(fn RetryableFunc) Option {
	return func(w *Writer) {
		if fn != nil {
			w.retryable = fn
		}
	}
}

// New creates a new Writer.
func New(client Client, config Config, opts ...Option) *Writer {
	config.validate()
	w := &Writer{
		client:    client,
		config:    config,
		logger:    slog.Default(),
		retryable: IsRetryable,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Config returns the validated configuration.
func (w *Writer) Config() Config {
	return w.config
}

// WriteAll writes every request in req using a Writer with DefaultConfig.
func WriteAll(ctx context.Context, client Client, req Request) (*dynamodb.BatchWriteItemOutput, error) {
	return New(client, DefaultConfig()).WriteAll(ctx, req)
}

// WriteAll issues every request in req and returns the merged result once
// all of them are committed. Tables are written one at a time in name order
// and each table's requests in chunks of BatchSize, front to back.
//
// On a non-retryable error, or when a chunk spends its retry budget, the
// whole call stops and returns a *BatchError wrapping the store error.
// Chunks committed before the failure are not rolled back.
func (w *Writer) WriteAll(ctx context.Context, req Request) (*dynamodb.BatchWriteItemOutput, error) {
	if w.client == nil {
		return nil, ErrNilClient
	}

	logger := w.logger.With("run", uuid.NewString())
	chunks := Plan(req, w.config.BatchSize)

	logger.Debug("starting batch write",
		"tables", len(req),
		"requests", req.Len(),
		"chunks", len(chunks),
	)

	result := &dynamodb.BatchWriteItemOutput{
		UnprocessedItems: map[string][]types.WriteRequest{},
	}
	for _, c := range chunks {
		out, err := w.drive(ctx, logger, c)
		if err != nil {
			logger.Error("batch write failed",
				"table", c.Table,
				"chunk", c.Index,
				"error", err,
			)
			return nil, err
		}
		result = Merge(result, out)
	}

	logger.Info("batch write completed",
		"requests", req.Len(),
		"chunks", len(chunks),
	)
	return result, nil
}

// phase is the reason the driver re-issues a call.
type phase string

const (
	// progressing: the store committed part of the input and returned the
	// rest as unprocessed. Unbounded, every round is forward progress.
	progressing phase = ReasonUnprocessed

	// recovering: the call failed with a retryable error and the same input
	// is sent again. Bounded by MaxRetries.
	recovering phase = ReasonError
)

// drive sends one chunk until the store reports nothing unprocessed.
func (w *Writer) drive(ctx context.Context, logger *slog.Logger, c Chunk) (*dynamodb.BatchWriteItemOutput, error) {
	pending := map[string][]types.WriteRequest{c.Table: c.Requests}

	var result *dynamodb.BatchWriteItemOutput
	attempts := 1
	calls := 0
	for {
		if err := ctx.Err(); err != nil {
			w.metrics.failure(c.Table)
			return nil, &BatchError{Table: c.Table, Attempts: calls, Err: err}
		}

		calls++
		w.metrics.call(c.Table)
		out, err := w.client.BatchWriteItem(ctx, w.input(pending))
		if err != nil {
			if !w.retryable(err) {
				w.metrics.failure(c.Table)
				return nil, &BatchError{Table: c.Table, Attempts: calls, Err: err}
			}
			if attempts >= w.config.MaxRetries {
				w.metrics.failure(c.Table)
				return nil, &BatchError{Table: c.Table, Attempts: calls, Exhausted: true, Err: err}
			}
			attempts++
			w.next(logger, c, recovering, calls, "code", errorCode(err), "error", err)
			continue
		}
		if out == nil {
			out = &dynamodb.BatchWriteItemOutput{}
		}

		sent := Request(pending).Len()
		left := Request(out.UnprocessedItems).Len()
		w.metrics.written(c.Table, sent-left)
		result = Merge(result, out)

		if left == 0 {
			return result, nil
		}
		pending = out.UnprocessedItems
		w.next(logger, c, progressing, calls, "unprocessed", left)
	}
}

// next records that the driver is about to re-issue a call.
func (w *Writer) next(logger *slog.Logger, c Chunk, p phase, calls int, attrs ...any) {
	w.metrics.retry(c.Table, string(p))
	logger.Debug("retrying chunk",
		append([]any{"table", c.Table, "chunk", c.Index, "reason", string(p), "calls", calls}, attrs...)...,
	)
}

// input builds the call parameters for the pending requests.
func (w *Writer) input(pending map[string][]types.WriteRequest) *dynamodb.BatchWriteItemInput {
	return &dynamodb.BatchWriteItemInput{
		RequestItems:                pending,
		ReturnConsumedCapacity:      w.config.ReturnConsumedCapacity,
		ReturnItemCollectionMetrics: w.config.ReturnItemCollectionMetrics,
	}
}
