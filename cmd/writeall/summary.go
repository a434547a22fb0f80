package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jacentio/writeall/batchwrite"
)

// summary is the JSON document printed after a run.
type summary struct {
	DryRun   bool            `json:"dryRun"`
	Requests int             `json:"requests"`
	Chunks   int             `json:"chunks"`
	Duration string          `json:"duration,omitempty"`
	Tables   []*tableSummary `json:"tables"`

	byName map[string]*tableSummary
}

type tableSummary struct {
	Table           string  `json:"table"`
	Requests        int     `json:"requests"`
	ChunkSizes      []int   `json:"chunkSizes"`
	Calls           int     `json:"calls,omitempty"`
	Retries         int     `json:"retries,omitempty"`
	CapacityUnits   float64 `json:"capacityUnits,omitempty"`
	ItemCollections int     `json:"itemCollections,omitempty"`
}

func newSummary(req batchwrite.Request, chunks []batchwrite.Chunk) *summary {
	s := &summary{
		Requests: req.Len(),
		Chunks:   len(chunks),
		Tables:   []*tableSummary{},
		byName:   map[string]*tableSummary{},
	}
	for _, table := range req.Tables() {
		t := &tableSummary{Table: table, Requests: len(req[table]), ChunkSizes: []int{}}
		s.Tables = append(s.Tables, t)
		s.byName[table] = t
	}
	for _, c := range chunks {
		t := s.byName[c.Table]
		t.ChunkSizes = append(t.ChunkSizes, len(c.Requests))
	}
	return s
}

// addResult folds the aggregated consumed capacity and item collection
// metrics into the per-table totals.
func (s *summary) addResult(out *dynamodb.BatchWriteItemOutput) {
	if out == nil {
		return
	}
	for _, cc := range out.ConsumedCapacity {
		if t, ok := s.byName[aws.ToString(cc.TableName)]; ok {
			t.CapacityUnits += aws.ToFloat64(cc.CapacityUnits)
		}
	}
	for table, metrics := range out.ItemCollectionMetrics {
		if t, ok := s.byName[table]; ok {
			t.ItemCollections += len(metrics)
		}
	}
}

// addMetrics copies the call and retry counters gathered from g.
func (s *summary) addMetrics(g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var table string
			for _, l := range m.GetLabel() {
				if l.GetName() == "table" {
					table = l.GetValue()
				}
			}
			t, ok := s.byName[table]
			if !ok {
				continue
			}
			n := int(m.GetCounter().GetValue())
			switch mf.GetName() {
			case "writeall_calls_total":
				t.Calls += n
			case "writeall_retries_total":
				t.Retries += n
			}
		}
	}
	return nil
}

func (s *summary) write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
