package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/sqldialect-go/oteladapters"
)

func newMeter() (*sdkmetric.ManualReader, *oteladapters.MetricsCollector) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return reader, oteladapters.NewMetricsCollector(provider.Meter("test"))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader, name string) metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	t.Fatalf("metric %s not found", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_ShouldRecord_DurationsInSeconds(t *testing.T) {
	reader, collector := newMeter()

	collector.RecordDuration("dialect_bind_duration_seconds", 150*time.Millisecond, map[string]string{"operation": "bind"})
	collector.RecordDurationContext(context.Background(), "dialect_bind_duration_seconds", 50*time.Millisecond, map[string]string{"operation": "bind"})

	m := collect(t, reader, "dialect_bind_duration_seconds")
	assert.Equal(t, "s", m.Unit)
	assert.Equal(t, "dialect bind duration", m.Description)

	histogram, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(2), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.2, histogram.DataPoints[0].Sum, 0.001)

	want := attribute.NewSet(attribute.String("operation", "bind"))
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&want))
}

func Test_MetricsCollector_ShouldCount_PerLabelSet(t *testing.T) {
	reader, collector := newMeter()

	success := map[string]string{"operation": "bind", "status": "success"}
	failure := map[string]string{"operation": "bind", "status": "error"}
	collector.IncrementCounter("dialect_operations_total", success)
	collector.IncrementCounter("dialect_operations_total", success)
	collector.IncrementCounterContext(context.Background(), "dialect_operations_total", failure)

	sum, ok := collect(t, reader, "dialect_operations_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 2)

	totals := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		status, _ := dp.Attributes.Value("status")
		totals[status.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"success": 2, "error": 1}, totals)
}

func Test_MetricsCollector_ShouldRecord_GaugeValues(t *testing.T) {
	reader, collector := newMeter()

	collector.RecordValue("dialect_registered_products", 12, nil)
	collector.RecordValueContext(context.Background(), "dialect_registered_products", 13, nil)

	gauge, ok := collect(t, reader, "dialect_registered_products").Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 13.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_ShouldBeSafe_ForConcurrentUse(t *testing.T) {
	reader, collector := newMeter()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("dialect_errors_total", map[string]string{"error_type": "probe_no_rows"})
		}()
	}
	wg.Wait()

	sum, ok := collect(t, reader, "dialect_errors_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(50), sum.DataPoints[0].Value)
}
