package reducer

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/rcliao/keyreducer/internal/anim"
	"github.com/rcliao/keyreducer/internal/model"
)

// counterTotals sums every int64 counter the reader has seen, by name.
func counterTotals(t *testing.T, reader sdkmetric.Reader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	totals := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}
	return totals
}

func TestReduceRecordsMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(ctx)

	m, err := NewMetrics(mp)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	c := keyed(t, model.TangentLinear, 0, 0, 0, 10, 10, 10)
	if _, err := Reduce(ctx, c, Options{Tolerance: 2, Metrics: m}, anim.Untracked); err != nil {
		t.Fatalf("reduce: %v", err)
	}
	// Skipped curves are not counted.
	short := keyed(t, model.TangentLinear, 0, 1)
	if _, err := Reduce(ctx, short, Options{Tolerance: 2, Metrics: m}, anim.Untracked); err != nil {
		t.Fatalf("reduce short: %v", err)
	}

	diff(t, map[string]int64{
		"keyreducer_curves_reduced_total": 1,
		"keyreducer_keys_removed_total":   2,
		"keyreducer_keys_repaired_total":  2,
	}, counterTotals(t, reader))
}
