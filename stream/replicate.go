// Package stream provides DynamoDB Streams handlers that replay table changes
// into another table through batchwrite.
package stream

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/writeall/batchwrite"
)

// ttlPrincipal is the principal DynamoDB reports on deletes performed by TTL expiry.
const ttlPrincipal = "dynamodb.amazonaws.com"

// Writer is the part of *batchwrite.Writer the handler needs.
type Writer interface {
	WriteAll(ctx context.Context, req batchwrite.Request) (*dynamodb.BatchWriteItemOutput, error)
}

// Options configures a Handler.
type Options struct {
	// TargetTable receives every replicated write.
	TargetTable string

	// SkipTTLRemovals ignores REMOVE records produced by TTL expiry, so the
	// target keeps items the source aged out.
	SkipTTLRemovals bool
}

// Handler replicates DynamoDB stream events into a target table.
type Handler struct {
	writer Writer
	opts   Options
	logger *slog.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(w Writer, opts Options, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		writer: w,
		opts:   opts,
		logger: logger,
	}
}

// HandleReplicate writes the changes in event to the target table.
// This function is designed to be used as an AWS Lambda handler.
//
// INSERT and MODIFY records become puts of the new image, REMOVE records
// become deletes of the key. When a key appears more than once in the event
// only its last record is written, because BatchWriteItem rejects two
// operations on the same key in one call.
func (h *Handler) HandleReplicate(ctx context.Context, event events.DynamoDBEvent) error {
	writes, skipped := h.collect(event.Records)
	if len(writes) == 0 {
		h.logger.Debug("nothing to replicate",
			"records", len(event.Records),
			"skipped", skipped,
		)
		return nil
	}

	out, err := h.writer.WriteAll(ctx, batchwrite.Request{h.opts.TargetTable: writes})
	if err != nil {
		h.logger.Error("failed to replicate records",
			"target", h.opts.TargetTable,
			"writes", len(writes),
			"error", err,
		)
		return fmt.Errorf("replicate to %s: %w", h.opts.TargetTable, err) // Will retry, eventually DLQ
	}

	h.logger.Info("replicated stream records",
		"target", h.opts.TargetTable,
		"records", len(event.Records),
		"writes", len(writes),
		"skipped", skipped,
		"capacityRecords", len(out.ConsumedCapacity),
	)
	return nil
}

// collect converts records to write requests, keeping only the last write per key.
func (h *Handler) collect(records []events.DynamoDBEventRecord) ([]types.WriteRequest, int) {
	var writes []types.WriteRequest
	index := make(map[string]int)
	skipped := 0

	for _, record := range records {
		req, ok := h.writeRequest(record)
		if !ok {
			skipped++
			continue
		}

		if len(record.Change.Keys) == 0 {
			writes = append(writes, req)
			continue
		}
		key := KeyFingerprint(record.Change.Keys)
		if i, seen := index[key]; seen {
			writes[i] = req
			continue
		}
		index[key] = len(writes)
		writes = append(writes, req)
	}
	return writes, skipped
}

// writeRequest converts a single stream record.
func (h *Handler) writeRequest(record events.DynamoDBEventRecord) (types.WriteRequest, bool) {
	switch events.DynamoDBOperationType(record.EventName) {
	case events.DynamoDBOperationTypeInsert, events.DynamoDBOperationTypeModify:
		if len(record.Change.NewImage) == 0 {
			h.logger.Warn("skipping record without new image",
				"eventID", record.EventID,
				"viewType", record.Change.StreamViewType,
			)
			return types.WriteRequest{}, false
		}
		return types.WriteRequest{
			PutRequest: &types.PutRequest{Item: ConvertStreamImage(record.Change.NewImage)},
		}, true

	case events.DynamoDBOperationTypeRemove:
		if h.opts.SkipTTLRemovals && isTTLRemoval(record) {
			return types.WriteRequest{}, false
		}
		if len(record.Change.Keys) == 0 {
			h.logger.Warn("skipping remove without keys", "eventID", record.EventID)
			return types.WriteRequest{}, false
		}
		return types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: ConvertStreamKey(record.Change.Keys)},
		}, true
	}
	return types.WriteRequest{}, false
}

func isTTLRemoval(record events.DynamoDBEventRecord) bool {
	return record.UserIdentity != nil &&
		record.UserIdentity.Type == "Service" &&
		record.UserIdentity.PrincipalID == ttlPrincipal
}
