package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"github.com/jacentio/writeall/batchwrite"
	"github.com/jacentio/writeall/internal/cliconfig"
)

// fakeClient commits everything and reports one capacity unit per request.
type fakeClient struct {
	calls int
	err   error
}

func (f *fakeClient) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := &dynamodb.BatchWriteItemOutput{}
	for table, reqs := range params.RequestItems {
		out.ConsumedCapacity = append(out.ConsumedCapacity, types.ConsumedCapacity{
			TableName:     aws.String(table),
			CapacityUnits: aws.Float64(float64(len(reqs))),
		})
	}
	return out, nil
}

func writeInput(t *testing.T, orders, customers int) string {
	t.Helper()
	doc := map[string][]map[string]any{}
	for i := 0; i < orders; i++ {
		doc["orders"] = append(doc["orders"], map[string]any{"put": map[string]any{"id": i, "total": 1.5}})
	}
	for i := 0; i < customers; i++ {
		doc["customers"] = append(doc["customers"], map[string]any{"delete": map[string]any{"id": i}})
	}
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal input: %v", err)
	}
	path := filepath.Join(t.TempDir(), "items.json")
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func testConfig(file string) cliconfig.Config {
	cfg := cliconfig.DefaultConfig()
	cfg.File = file
	return cfg
}

func factoryFor(c batchwrite.Client) clientFactory {
	return func(ctx context.Context, cfg cliconfig.Config) (batchwrite.Client, error) {
		return c, nil
	}
}

func decodeSummary(t *testing.T, buf *bytes.Buffer) summary {
	t.Helper()
	var s summary
	if err := json.Unmarshal(buf.Bytes(), &s); err != nil {
		t.Fatalf("invalid summary %q: %v", buf.String(), err)
	}
	return s
}

func TestRun_DryRun(t *testing.T) {
	cfg := testConfig(writeInput(t, 30, 3))
	cfg.DryRun = true

	client := &fakeClient{}
	var out bytes.Buffer
	if err := run(context.Background(), cfg, zerolog.Nop(), &out, factoryFor(client)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.calls != 0 {
		t.Errorf("expected no calls on dry run, got %d", client.calls)
	}

	s := decodeSummary(t, &out)
	if !s.DryRun || s.Requests != 33 || s.Chunks != 3 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if len(s.Tables) != 2 || s.Tables[0].Table != "customers" || s.Tables[1].Table != "orders" {
		t.Fatalf("unexpected tables: %+v", s.Tables)
	}
	if got := s.Tables[1].ChunkSizes; len(got) != 2 || got[0] != 25 || got[1] != 5 {
		t.Errorf("expected order chunks [25 5], got %v", got)
	}
}

func TestRun_Write(t *testing.T) {
	cfg := testConfig(writeInput(t, 30, 3))

	client := &fakeClient{}
	var out bytes.Buffer
	if err := run(context.Background(), cfg, zerolog.Nop(), &out, factoryFor(client)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.calls != 3 {
		t.Errorf("expected 3 calls, got %d", client.calls)
	}

	s := decodeSummary(t, &out)
	if s.DryRun {
		t.Error("expected a real run")
	}
	if s.Duration == "" {
		t.Error("expected duration to be reported")
	}
	orders := s.Tables[1]
	if orders.Calls != 2 || orders.Retries != 0 {
		t.Errorf("expected 2 calls and no retries for orders, got %+v", orders)
	}
	if orders.CapacityUnits != 30 {
		t.Errorf("expected 30 capacity units for orders, got %v", orders.CapacityUnits)
	}
	if s.Tables[0].Calls != 1 || s.Tables[0].CapacityUnits != 3 {
		t.Errorf("unexpected customers summary: %+v", s.Tables[0])
	}
}

func TestRun_Errors(t *testing.T) {
	t.Run("missing input", func(t *testing.T) {
		cfg := testConfig(filepath.Join(t.TempDir(), "missing.json"))
		err := run(context.Background(), cfg, zerolog.Nop(), &bytes.Buffer{}, factoryFor(&fakeClient{}))
		if err == nil {
			t.Error("expected error for missing input")
		}
	})

	t.Run("client factory", func(t *testing.T) {
		cfg := testConfig(writeInput(t, 1, 0))
		factoryErr := errors.New("no credentials")
		factory := func(ctx context.Context, cfg cliconfig.Config) (batchwrite.Client, error) {
			return nil, factoryErr
		}
		err := run(context.Background(), cfg, zerolog.Nop(), &bytes.Buffer{}, factory)
		if !errors.Is(err, factoryErr) {
			t.Errorf("expected factory error, got %v", err)
		}
	})

	t.Run("write failure", func(t *testing.T) {
		cfg := testConfig(writeInput(t, 1, 0))
		storeErr := errors.New("access denied")
		var out bytes.Buffer
		err := run(context.Background(), cfg, zerolog.Nop(), &out, factoryFor(&fakeClient{err: storeErr}))
		if !errors.Is(err, storeErr) {
			t.Errorf("expected store error, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "write: ") {
			t.Errorf("expected wrapped error, got %v", err)
		}
		if out.Len() != 0 {
			t.Errorf("expected no summary on failure, got %s", out.String())
		}
	})
}

func TestSummary_AddResultIgnoresUnknownTables(t *testing.T) {
	req := batchwrite.Request{}
	req.PutItem("orders", map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "1"}})
	s := newSummary(req, batchwrite.Plan(req, 25))

	s.addResult(&dynamodb.BatchWriteItemOutput{
		ConsumedCapacity: []types.ConsumedCapacity{
			{TableName: aws.String("orders"), CapacityUnits: aws.Float64(2)},
			{TableName: aws.String("other"), CapacityUnits: aws.Float64(5)},
		},
		ItemCollectionMetrics: map[string][]types.ItemCollectionMetrics{
			"orders": {{}, {}},
		},
	})
	s.addResult(nil)

	if s.Tables[0].CapacityUnits != 2 {
		t.Errorf("expected 2 capacity units, got %v", s.Tables[0].CapacityUnits)
	}
	if s.Tables[0].ItemCollections != 2 {
		t.Errorf("expected 2 item collections, got %d", s.Tables[0].ItemCollections)
	}
}
