package input

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const sample = `{
  "orders": [
    {"put": {"id": "o-1", "total": 12.50, "paid": true, "note": null,
             "lines": [{"sku": "a", "qty": 2}], "meta": {"source": "import"}}},
    {"delete": {"id": "o-0"}}
  ],
  "customers": [
    {"put": {"id": "c-1", "visits": 12345678901234567890}}
  ]
}`

func TestDecode(t *testing.T) {
	req, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if req.Len() != 3 {
		t.Fatalf("expected 3 requests, got %d", req.Len())
	}
	if tables := req.Tables(); len(tables) != 2 || tables[0] != "customers" || tables[1] != "orders" {
		t.Errorf("unexpected tables: %v", tables)
	}

	orders := req["orders"]
	put := orders[0].PutRequest
	if put == nil {
		t.Fatal("expected first order operation to be a put")
	}
	if v, ok := put.Item["id"].(*types.AttributeValueMemberS); !ok || v.Value != "o-1" {
		t.Errorf("unexpected id: %v", put.Item["id"])
	}
	if v, ok := put.Item["total"].(*types.AttributeValueMemberN); !ok || v.Value != "12.50" {
		t.Errorf("expected total to keep its literal as N, got %v", put.Item["total"])
	}
	if v, ok := put.Item["paid"].(*types.AttributeValueMemberBOOL); !ok || !v.Value {
		t.Errorf("unexpected paid: %v", put.Item["paid"])
	}
	if _, ok := put.Item["note"].(*types.AttributeValueMemberNULL); !ok {
		t.Errorf("expected note to be NULL, got %v", put.Item["note"])
	}

	lines, ok := put.Item["lines"].(*types.AttributeValueMemberL)
	if !ok || len(lines.Value) != 1 {
		t.Fatalf("unexpected lines: %v", put.Item["lines"])
	}
	line, ok := lines.Value[0].(*types.AttributeValueMemberM)
	if !ok {
		t.Fatalf("unexpected line: %v", lines.Value[0])
	}
	if v, ok := line.Value["qty"].(*types.AttributeValueMemberN); !ok || v.Value != "2" {
		t.Errorf("expected nested number, got %v", line.Value["qty"])
	}

	if orders[1].DeleteRequest == nil {
		t.Fatal("expected second order operation to be a delete")
	}
	if v, ok := orders[1].DeleteRequest.Key["id"].(*types.AttributeValueMemberS); !ok || v.Value != "o-0" {
		t.Errorf("unexpected delete key: %v", orders[1].DeleteRequest.Key)
	}

	visits := req["customers"][0].PutRequest.Item["visits"]
	if v, ok := visits.(*types.AttributeValueMemberN); !ok || v.Value != "12345678901234567890" {
		t.Errorf("expected large number to survive unchanged, got %v", visits)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"not json", `{`, "decode input"},
		{"wrong shape", `{"orders": {"put": {}}}`, "decode input"},
		{"empty table", `{"": [{"put": {"id": "x"}}]}`, "empty table name"},
		{"both", `{"orders": [{"put": {"id": "x"}, "delete": {"id": "x"}}]}`, "orders[0]: operation has both"},
		{"neither", `{"orders": [{"put": {"id": "x"}}, {}]}`, "orders[1]: operation needs"},
		{"empty key", `{"orders": [{"delete": {}}]}`, "empty key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDecode_EmptyTable(t *testing.T) {
	req, err := Decode(strings.NewReader(`{"orders": []}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Len() != 0 {
		t.Errorf("expected no requests, got %d", req.Len())
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}

	req, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Len() != 3 {
		t.Errorf("expected 3 requests, got %d", req.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
