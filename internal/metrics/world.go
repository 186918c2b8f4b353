package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "blockverse"

// WorldMetrics содержит Prometheus метрики менеджера мира.
// Все методы безопасно вызывать на nil.
type WorldMetrics struct {
	ChunksLoaded   prometheus.Counter
	ChunksUnloaded prometheus.Counter
	ChunksRemeshed prometheus.Counter
	EditsApplied   prometheus.Counter
	EditsIgnored   prometheus.Counter
	EditErrors     *prometheus.CounterVec

	LoadedChunks prometheus.Gauge
	DirtyChunks  prometheus.Gauge
	MeshQuads    prometheus.Gauge

	TickDuration prometheus.Histogram
}

// NewWorldMetrics создаёт метрики и регистрирует их в reg.
// reg == nil означает prometheus.DefaultRegisterer.
func NewWorldMetrics(reg prometheus.Registerer) (*WorldMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &WorldMetrics{
		ChunksLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_loaded_total",
			Help:      "Количество загруженных чанков",
		}),
		ChunksUnloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_unloaded_total",
			Help:      "Количество выгруженных чанков",
		}),
		ChunksRemeshed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_remeshed_total",
			Help:      "Количество перестроенных мешей",
		}),
		EditsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edits_applied_total",
			Help:      "Применённые правки блоков",
		}),
		EditsIgnored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edits_ignored_total",
			Help:      "Правки без эффекта (ломание пустоты, установка в занятый блок)",
		}),
		EditErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edit_errors_total",
			Help:      "Ошибки правок по причине",
		}, []string{"reason"}),
		LoadedChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "chunks_loaded",
			Help:      "Текущее число загруженных чанков",
		}),
		DirtyChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dirty_chunks",
			Help:      "Чанки, ожидающие перестроения",
		}),
		MeshQuads: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mesh_quads",
			Help:      "Квады последнего перестроенного меша",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Длительность тика мира",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
	}

	collectors := []prometheus.Collector{
		m.ChunksLoaded, m.ChunksUnloaded, m.ChunksRemeshed,
		m.EditsApplied, m.EditsIgnored, m.EditErrors,
		m.LoadedChunks, m.DirtyChunks, m.MeshQuads,
		m.TickDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *WorldMetrics) ChunkLoaded() {
	if m == nil {
		return
	}
	m.ChunksLoaded.Inc()
	m.LoadedChunks.Inc()
}

func (m *WorldMetrics) ChunkUnloaded() {
	if m == nil {
		return
	}
	m.ChunksUnloaded.Inc()
	m.LoadedChunks.Dec()
}

func (m *WorldMetrics) ChunkRemeshed(quads int) {
	if m == nil {
		return
	}
	m.ChunksRemeshed.Inc()
	m.MeshQuads.Set(float64(quads))
}

func (m *WorldMetrics) EditApplied() {
	if m == nil {
		return
	}
	m.EditsApplied.Inc()
}

func (m *WorldMetrics) EditIgnored() {
	if m == nil {
		return
	}
	m.EditsIgnored.Inc()
}

// EditFailed учитывает ошибку правки; reason - короткая метка ("not_loaded", ...)
func (m *WorldMetrics) EditFailed(reason string) {
	if m == nil {
		return
	}
	m.EditErrors.WithLabelValues(reason).Inc()
}

func (m *WorldMetrics) SetDirty(n int) {
	if m == nil {
		return
	}
	m.DirtyChunks.Set(float64(n))
}

func (m *WorldMetrics) ObserveTick(d time.Duration) {
	if m == nil {
		return
	}
	m.TickDuration.Observe(d.Seconds())
}
