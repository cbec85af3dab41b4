package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "livegif"

// Metrics
// All methods may be called on a nil *Metrics, which records nothing.
type Metrics struct {
	FramesPublished   prometheus.Counter
	RenderErrors      prometheus.Counter
	RenderSeconds     prometheus.Histogram
	Connections       prometheus.Gauge
	CappedConnections prometheus.Counter
	ChunksSent        prometheus.Counter
	BytesSent         prometheus.Counter
	FramesSkipped     prometheus.Counter
	EncodeErrors      prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FramesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "frames_published_total",
			Help: "Frame results published by the producer, failures included.",
		}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "render_errors_total",
			Help: "Ticks whose frame could not be rendered.",
		}),
		RenderSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "render_seconds",
			Help:    "Time spent rendering and publishing one frame.",
			Buckets: []float64{.001, .0025, .005, .01, .02, .04, .08, .16, .32},
		}),
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "connections_active",
			Help: "Clients currently receiving a stream.",
		}),
		CappedConnections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "connections_capped_total",
			Help: "Connections served with a frame cap because of their user agent.",
		}),
		ChunksSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "chunks_sent_total",
			Help: "Encoded chunks written to clients.",
		}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "bytes_sent_total",
			Help: "Encoded bytes written to clients.",
		}),
		FramesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "frames_skipped_total",
			Help: "Frames a connection never saw because it was slower than the producer.",
		}),
		EncodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "encode_errors_total",
			Help: "Connections ended by an encoder failure.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.FramesPublished,
			m.RenderErrors,
			m.RenderSeconds,
			m.Connections,
			m.CappedConnections,
			m.ChunksSent,
			m.BytesSent,
			m.FramesSkipped,
			m.EncodeErrors,
		)
	}

	return m
}

func (m *Metrics) ObserveRender(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.FramesPublished.Inc()
	m.RenderSeconds.Observe(d.Seconds())
	if err != nil {
		m.RenderErrors.Inc()
	}
}

func (m *Metrics) ConnectionOpened(capped bool) {
	if m == nil {
		return
	}
	m.Connections.Inc()
	if capped {
		m.CappedConnections.Inc()
	}
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.Connections.Dec()
}

func (m *Metrics) ChunkSent(n int) {
	if m == nil {
		return
	}
	m.ChunksSent.Inc()
	m.BytesSent.Add(float64(n))
}

func (m *Metrics) Skipped(n uint64) {
	if m == nil || n == 0 {
		return
	}
	m.FramesSkipped.Add(float64(n))
}

func (m *Metrics) EncodeFailed() {
	if m == nil {
		return
	}
	m.EncodeErrors.Inc()
}
