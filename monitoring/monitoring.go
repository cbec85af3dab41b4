package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"

	"github.com/allape/gogger"
	"github.com/allape/livegif/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var l = gogger.New("monitoring")

type Monitoring struct {
	conf   config.Monitoring
	server *http.Server
}

// New creates the monitoring server, gatherer is what /metrics exposes.
func New(conf config.Monitoring, gatherer prometheus.Gatherer) *Monitoring {
	m := &Monitoring{conf: conf}
	m.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", conf.Port),
		Handler: m.Handler(gatherer),
	}
	return m
}

func (m *Monitoring) Handler(gatherer prometheus.Gatherer) http.Handler {
	h := http.NewServeMux()

	if m.conf.ProfilingEnabled {
		prefix := fmt.Sprintf("%s/debug/pprof", m.conf.URLPrefix)
		l.Info().Printf("profiling is enabled at %v", prefix)
		h.HandleFunc(prefix+"/", pprof.Index)
		h.HandleFunc(prefix+"/cmdline", pprof.Cmdline)
		h.HandleFunc(prefix+"/profile", pprof.Profile)
		h.HandleFunc(prefix+"/symbol", pprof.Symbol)
		h.HandleFunc(prefix+"/trace", pprof.Trace)
		// named profiles under a custom prefix are not reachable through pprof.Index
		h.Handle(prefix+"/allocs", pprof.Handler("allocs"))
		h.Handle(prefix+"/block", pprof.Handler("block"))
		h.Handle(prefix+"/goroutine", pprof.Handler("goroutine"))
		h.Handle(prefix+"/heap", pprof.Handler("heap"))
		h.Handle(prefix+"/mutex", pprof.Handler("mutex"))
		h.Handle(prefix+"/threadcreate", pprof.Handler("threadcreate"))
	}

	if m.conf.MetricEnabled {
		metricPath := fmt.Sprintf("%s/metrics", m.conf.URLPrefix)
		l.Info().Printf("prometheus metric is enabled at %v", metricPath)
		h.Handle(metricPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return h
}

// Run serves until Shutdown is called.
func (m *Monitoring) Run() error {
	listener, err := net.Listen("tcp", m.server.Addr)
	if err != nil {
		return err
	}
	l.Info().Printf("starting monitoring server at %v", listener.Addr())
	err = m.server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (m *Monitoring) Shutdown(ctx context.Context) error {
	l.Info().Println("shutting down monitoring server")
	return m.server.Shutdown(ctx)
}

func (m *Monitoring) String() string {
	return fmt.Sprintf("monitoring::%s:%d", m.conf.URLPrefix, m.conf.Port)
}
