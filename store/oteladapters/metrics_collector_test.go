package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/composable-store-go/store"
	"github.com/AntonStoeckl/composable-store-go/store/oteladapters"
)

func Test_MetricsCollector_RecordDuration_InSeconds(t *testing.T) {
	// arrange
	reader, provider := givenMeter()
	collector := oteladapters.NewMetricsCollector(provider.Meter("test"))
	labels := map[string]string{store.LabelStoreName: "todos", store.LabelStatus: store.StatusSuccess}

	// act
	collector.RecordDuration("store_dispatch_duration_seconds", 150*time.Millisecond, labels)

	// assert
	m := findMetric(t, collect(t, reader), "store_dispatch_duration_seconds")
	histogram, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "expected a float64 histogram")
	require.Len(t, histogram.DataPoints, 1)
	assert.Equal(t, uint64(1), histogram.DataPoints[0].Count)
	assert.InDelta(t, 0.15, histogram.DataPoints[0].Sum, 0.001)
	assert.True(t, hasAttributes(histogram.DataPoints[0].Attributes, labels))
	assert.Equal(t, "s", m.Unit)
}

func Test_MetricsCollector_IncrementCounter_ReusesTheInstrument(t *testing.T) {
	// arrange
	reader, provider := givenMeter()
	collector := oteladapters.NewMetricsCollector(provider.Meter("test"))
	labels := map[string]string{store.LabelActionType: "todo/added"}

	// act
	collector.IncrementCounter("store_dispatch_calls_total", labels)
	collector.IncrementCounterContext(context.Background(), "store_dispatch_calls_total", labels)
	collector.IncrementCounter("store_dispatch_calls_total", labels)

	// assert
	m := findMetric(t, collect(t, reader), "store_dispatch_calls_total")
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum")
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
	assert.True(t, sum.IsMonotonic)
}

func Test_MetricsCollector_RecordValue_KeepsTheLastValue(t *testing.T) {
	// arrange
	reader, provider := givenMeter()
	collector := oteladapters.NewMetricsCollector(provider.Meter("test"))
	labels := map[string]string{store.LabelStoreName: "todos"}

	// act
	collector.RecordValue("store_subscribers", 1, labels)
	collector.RecordValueContext(context.Background(), "store_subscribers", 2, labels)

	// assert
	m := findMetric(t, collect(t, reader), "store_subscribers")
	gauge, ok := m.Data.(metricdata.Gauge[float64])
	require.True(t, ok, "expected a float64 gauge")
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 2.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	// arrange
	reader, provider := givenMeter()
	collector := oteladapters.NewMetricsCollector(provider.Meter("test"))

	// act
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("effects_runs_total", nil)
		}()
	}
	wg.Wait()

	// assert
	m := findMetric(t, collect(t, reader), "effects_runs_total")
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(20), sum.DataPoints[0].Value)
}

func Test_MetricsCollector_ReceivesStoreDispatchMetrics(t *testing.T) {
	// arrange
	reader, provider := givenMeter()
	collector := oteladapters.NewMetricsCollector(provider.Meter("test"))

	s, err := store.New[int](
		countTicks,
		0,
		store.WithName[int]("clock"),
		store.WithMetrics[int](collector),
	)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	// act
	_, err = s.Dispatch(tick{})
	require.NoError(t, err)

	// assert
	rm := collect(t, reader)
	calls, ok := findMetric(t, rm, store.DispatchCallsMetric).Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, calls.DataPoints, 1)
	assert.True(t, hasAttributes(calls.DataPoints[0].Attributes, map[string]string{
		store.LabelStoreName:  "clock",
		store.LabelActionType: "clock/tick",
	}))

	_, ok = findMetric(t, rm, store.DispatchDurationMetric).Data.(metricdata.Histogram[float64])
	assert.True(t, ok)
}
