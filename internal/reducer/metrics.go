package reducer

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metrics counts reductions on a meter provider.
type Metrics struct {
	curvesReduced metric.Int64Counter
	keysRemoved   metric.Int64Counter
	keysRepaired  metric.Int64Counter
}

// NewMetrics registers the reducer counters with mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter("keyreducer.reducer")
	m := &Metrics{}
	var err error

	m.curvesReduced, err = meter.Int64Counter(
		"keyreducer_curves_reduced_total",
		metric.WithDescription("Total number of curves reduced"),
	)
	if err != nil {
		return nil, err
	}

	m.keysRemoved, err = meter.Int64Counter(
		"keyreducer_keys_removed_total",
		metric.WithDescription("Total number of keys removed by reduction"),
	)
	if err != nil {
		return nil, err
	}

	m.keysRepaired, err = meter.Int64Counter(
		"keyreducer_keys_repaired_total",
		metric.WithDescription("Total number of keys reinserted by the boundary repair pass"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

var (
	globalMetrics    *Metrics
	globalMetricsErr error
	globalOnce       sync.Once
)

// defaultMetrics registers on the global provider the first time a
// reduction is recorded, so a provider set at startup is picked up.
func defaultMetrics() (*Metrics, error) {
	globalOnce.Do(func() {
		globalMetrics, globalMetricsErr = NewMetrics(otel.GetMeterProvider())
	})
	return globalMetrics, globalMetricsErr
}

func (m *Metrics) record(ctx context.Context, r Result) {
	m.curvesReduced.Add(ctx, 1)
	if removed := r.KeysBefore - r.KeysAfter; removed > 0 {
		m.keysRemoved.Add(ctx, int64(removed))
	}
	if r.Repaired > 0 {
		m.keysRepaired.Add(ctx, int64(r.Repaired))
	}
}

func recordReduction(ctx context.Context, m *Metrics, r Result) {
	if m == nil {
		var err error
		if m, err = defaultMetrics(); err != nil {
			return
		}
	}
	m.record(ctx, r)
}
