package batchwrite

import (
	"fmt"
	"maps"
	"slices"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/writeall/internal/chunk"
)

// PK represents a DynamoDB primary key.
type PK map[string]types.AttributeValue

// Request maps table names to the write requests addressed to them.
// It has the same shape as BatchWriteItemInput.RequestItems, so a plain
// map[string][]types.WriteRequest can be passed wherever a Request is expected.
type Request map[string][]types.WriteRequest

// PutItem appends a put of an already encoded item.
func (r Request) PutItem(table string, item map[string]types.AttributeValue) {
	r[table] = append(r[table], types.WriteRequest{
		PutRequest: &types.PutRequest{Item: item},
	})
}

// DeleteKey appends a delete of an already encoded key.
func (r Request) DeleteKey(table string, key PK) {
	r[table] = append(r[table], types.WriteRequest{
		DeleteRequest: &types.DeleteRequest{Key: key},
	})
}

// Put marshals item with attributevalue and appends it as a put.
func (r Request) Put(table string, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item for %s: %w", table, err)
	}
	r.PutItem(table, av)
	return nil
}

// Delete marshals key with attributevalue and appends it as a delete.
func (r Request) Delete(table string, key any) error {
	av, err := attributevalue.MarshalMap(key)
	if err != nil {
		return fmt.Errorf("marshal key for %s: %w", table, err)
	}
	r.DeleteKey(table, av)
	return nil
}

// Len returns the total number of write requests across all tables.
func (r Request) Len() int {
	n := 0
	for _, reqs := range r {
		n += len(reqs)
	}
	return n
}

// Tables returns the table names in the order WriteAll processes them.
func (r Request) Tables() []string {
	return slices.Sorted(maps.Keys(r))
}

// Chunk is the unit of one BatchWriteItem call.
type Chunk struct {
	// Table is the table every request in the chunk is addressed to.
	Table string

	// Index is the chunk's position within its table, starting at 0.
	Index int

	// Requests are the write requests, at most BatchSize of them.
	Requests []types.WriteRequest
}

// Plan partitions r into chunks of at most batchSize requests, in the order
// WriteAll sends them: tables by name, chunks front to back within a table.
// A table with no requests contributes no chunks.
func Plan(r Request, batchSize int) []Chunk {
	if batchSize < 1 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}
	var chunks []Chunk
	for _, table := range r.Tables() {
		for i, group := range chunk.Split(r[table], batchSize) {
			chunks = append(chunks, Chunk{Table: table, Index: i, Requests: group})
		}
	}
	return chunks
}
