package batchwrite

import "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

const (
	// MaxBatchSize is the largest number of write requests DynamoDB accepts
	// in a single BatchWriteItem call.
	MaxBatchSize = 25

	// DefaultMaxRetries is the number of calls a chunk may spend on
	// retryable errors before the failure becomes terminal.
	DefaultMaxRetries = 100
)

// Config holds configuration for the Writer.
type Config struct {
	// BatchSize is the number of write requests sent per call.
	// Default: 25
	// Max: 25 (DynamoDB limit)
	BatchSize int

	// MaxRetries is the total number of calls a chunk may make while the
	// store keeps returning retryable errors. Progress rounds (calls that
	// return unprocessed items) do not count against it.
	// Default: 100
	MaxRetries int

	// ReturnConsumedCapacity is forwarded on every call. When set to
	// INDEXES or TOTAL the aggregated result carries the capacity records.
	// Default: "" (SDK default, NONE)
	ReturnConsumedCapacity types.ReturnConsumedCapacity

	// ReturnItemCollectionMetrics is forwarded on every call.
	// Default: "" (SDK default, NONE)
	ReturnItemCollectionMetrics types.ReturnItemCollectionMetrics
}

// DefaultConfig returns the limits DynamoDB documents for BatchWriteItem.
func DefaultConfig() Config {
	return Config{
		BatchSize:  MaxBatchSize,
		MaxRetries: DefaultMaxRetries,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.BatchSize < 1 || c.BatchSize > MaxBatchSize {
		c.BatchSize = MaxBatchSize
	}
	if c.MaxRetries < 1 {
		c.MaxRetries = DefaultMaxRetries
	}
}
