package batchwrite

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Merge folds two BatchWriteItem results into one.
//
// UnprocessedItems of the merged result is always empty: merging only
// happens on results that represent progress, and pending work is tracked
// by the driver. ConsumedCapacity and ItemCollectionMetrics are
// concatenated (a first, then b); a field that is absent on both sides stays
// nil. Neither input is modified. Nil results are treated as empty.
func Merge(a, b *dynamodb.BatchWriteItemOutput) *dynamodb.BatchWriteItemOutput {
	if a == nil {
		a = &dynamodb.BatchWriteItemOutput{}
	}
	if b == nil {
		b = &dynamodb.BatchWriteItemOutput{}
	}
	return &dynamodb.BatchWriteItemOutput{
		UnprocessedItems:      map[string][]types.WriteRequest{},
		ConsumedCapacity:      mergeConsumedCapacity(a.ConsumedCapacity, b.ConsumedCapacity),
		ItemCollectionMetrics: mergeItemCollectionMetrics(a.ItemCollectionMetrics, b.ItemCollectionMetrics),
	}
}

// mergeConsumedCapacity concatenates capacity records; each record is a
// separate draw, so nothing is deduplicated.
func mergeConsumedCapacity(a, b []types.ConsumedCapacity) []types.ConsumedCapacity {
	if a == nil && b == nil {
		return nil
	}
	merged := make([]types.ConsumedCapacity, 0, len(a)+len(b))
	merged = append(merged, a...)
	return append(merged, b...)
}

// mergeItemCollectionMetrics returns the key union of a and b, with the
// lists of shared keys concatenated.
func mergeItemCollectionMetrics(a, b map[string][]types.ItemCollectionMetrics) map[string][]types.ItemCollectionMetrics {
	if a == nil && b == nil {
		return nil
	}
	merged := make(map[string][]types.ItemCollectionMetrics, len(a)+len(b))
	for _, side := range []map[string][]types.ItemCollectionMetrics{a, b} {
		for table, metrics := range side {
			list := make([]types.ItemCollectionMetrics, 0, len(merged[table])+len(metrics))
			list = append(list, merged[table]...)
			merged[table] = append(list, metrics...)
		}
	}
	return merged
}
