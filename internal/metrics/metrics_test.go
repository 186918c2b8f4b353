package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewWorldMetrics(reg)
	require.NoError(t, err)

	m.ChunkLoaded()
	m.ChunkLoaded()
	m.ChunkUnloaded()
	m.ChunkRemeshed(42)
	m.EditApplied()
	m.EditIgnored()
	m.EditFailed("not_loaded")
	m.EditFailed("not_loaded")
	m.SetDirty(3)
	m.ObserveTick(2 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ChunksLoaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ChunksUnloaded))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadedChunks), "gauge = загружено - выгружено")
	assert.Equal(t, 42.0, testutil.ToFloat64(m.MeshQuads))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EditsApplied))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EditsIgnored))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EditErrors.WithLabelValues("not_loaded")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DirtyChunks))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TickDuration))
}

func TestWorldMetricsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewWorldMetrics(reg)
	require.NoError(t, err)

	_, err = NewWorldMetrics(reg)
	assert.Error(t, err, "повторная регистрация должна вернуть ошибку")
}

func TestNilWorldMetrics(t *testing.T) {
	var m *WorldMetrics
	m.ChunkLoaded()
	m.ChunkUnloaded()
	m.ChunkRemeshed(1)
	m.EditApplied()
	m.EditIgnored()
	m.EditFailed("x")
	m.SetDirty(1)
	m.ObserveTick(time.Second)
}

func TestProcessSampler(t *testing.T) {
	s, err := NewProcessSampler()
	require.NoError(t, err)

	stats, err := s.Sample()
	require.NoError(t, err)
	assert.Greater(t, stats.RSSBytes, uint64(0))
	assert.Contains(t, stats.String(), "rss=")
}
