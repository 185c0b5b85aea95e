// Package metrics defines the index measures and exports them to Prometheus.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"contrib.go.opencensus.io/exporter/prometheus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

const (
	OpInsert   = "insert"
	OpContains = "contains"
	OpRange    = "range"
	OpNearest  = "nearest"

	ResultOK    = "ok"
	ResultError = "error"
)

var (
	KeyOp, _     = tag.NewKey("op")
	KeyResult, _ = tag.NewKey("result")

	OpLatency = stats.Float64("kdset/op_latency", "Latency of index operations", stats.UnitMilliseconds)
	Points    = stats.Int64("kdset/points", "Points returned or inserted by an operation", stats.UnitDimensionless)
	IndexSize = stats.Int64("kdset/index_size", "Distinct points held by the index", stats.UnitDimensionless)
)

var Views = []*view.View{
	{
		Name:        "op_count",
		Description: "Number of index operations",
		Measure:     OpLatency,
		TagKeys:     []tag.Key{KeyOp, KeyResult},
		Aggregation: view.Count(),
	},
	{
		Name:        "op_latency",
		Description: "Distribution of index operation latency",
		Measure:     OpLatency,
		TagKeys:     []tag.Key{KeyOp},
		Aggregation: view.Distribution(0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500),
	},
	{
		Name:        "op_points",
		Description: "Distribution of points touched by an operation",
		Measure:     Points,
		TagKeys:     []tag.Key{KeyOp},
		Aggregation: view.Distribution(0, 1, 10, 100, 1000, 10000, 100000),
	},
	{
		Name:        "index_size",
		Description: "Distinct points held by the index",
		Measure:     IndexSize,
		Aggregation: view.LastValue(),
	},
}

// Register registers the views and returns the Prometheus scrape handler.
func Register(namespace string) (http.Handler, error) {
	if err := view.Register(Views...); err != nil {
		return nil, fmt.Errorf("registering views: %w", err)
	}
	exporter, err := prometheus.NewExporter(prometheus.Options{Namespace: namespace})
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}
	return exporter, nil
}

// RecordOp records one operation started at start that touched n points.
func RecordOp(ctx context.Context, op string, start time.Time, n int, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	ms := float64(time.Since(start)) / float64(time.Millisecond)
	_ = stats.RecordWithTags(ctx,
		[]tag.Mutator{tag.Upsert(KeyOp, op), tag.Upsert(KeyResult, result)},
		OpLatency.M(ms), Points.M(int64(n)),
	)
}

func RecordSize(ctx context.Context, size int) {
	stats.Record(ctx, IndexSize.M(int64(size)))
}
