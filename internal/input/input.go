// Package input decodes the writeall JSON document into a batchwrite.Request.
//
// The document maps table names to lists of operations, each holding exactly
// one of "put" (the full item) or "delete" (the key):
//
//	{
//	  "orders": [
//	    {"put": {"id": "o-1", "total": 12.5, "tags": ["new"]}},
//	    {"delete": {"id": "o-0"}}
//	  ]
//	}
//
// JSON numbers keep their literal text and are written as DynamoDB numbers.
package input

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/jacentio/writeall/batchwrite"
)

// Stdin is the file name that selects standard input.
const Stdin = "-"

type operation struct {
	Put    map[string]any `json:"put"`
	Delete map[string]any `json:"delete"`
}

// Load reads the document at path, or standard input when path is Stdin.
func Load(path string) (batchwrite.Request, error) {
	if path == Stdin {
		return Decode(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a document from r.
func Decode(r io.Reader) (batchwrite.Request, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc map[string][]operation
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}

	req := batchwrite.Request{}
	for _, table := range slices.Sorted(maps.Keys(doc)) {
		if table == "" {
			return nil, fmt.Errorf("decode input: empty table name")
		}
		for i, op := range doc[table] {
			if err := add(req, table, op); err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", table, i, err)
			}
		}
	}
	return req, nil
}

func add(req batchwrite.Request, table string, op operation) error {
	switch {
	case op.Put != nil && op.Delete != nil:
		return fmt.Errorf("operation has both put and delete")
	case op.Put != nil:
		return req.Put(table, numbers(op.Put))
	case op.Delete != nil:
		if len(op.Delete) == 0 {
			return fmt.Errorf("delete has an empty key")
		}
		return req.Delete(table, numbers(op.Delete))
	default:
		return fmt.Errorf("operation needs put or delete")
	}
}

// numbers replaces json.Number values with attributevalue.Number so they
// marshal as N instead of S.
func numbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		return attributevalue.Number(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = numbers(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = numbers(e)
		}
		return out
	default:
		return v
	}
}
