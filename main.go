package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allape/gogger"
	"github.com/allape/livegif/config"
	"github.com/allape/livegif/factory"
	"github.com/allape/livegif/live"
	"github.com/allape/livegif/live/channel"
	"github.com/allape/livegif/live/frame"
	"github.com/allape/livegif/live/producer"
	"github.com/allape/livegif/monitoring"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
)

var l = gogger.New("main")

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	conf, configFile, err := config.GetConfig(args)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		l.Error().Println("get config:", err)
		return 2
	}

	renderer, err := factory.RendererFromConfig(conf)
	if err != nil {
		l.Error().Println("renderer from config:", err)
		return 2
	}

	videoCodec, err := factory.CodecFromConfig(conf)
	if err != nil {
		l.Error().Println("codec from config:", err)
		return 2
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	frames := channel.New(frame.Sentinel())

	p := producer.New(renderer, frames, &producer.Options{
		FrameRate: conf.Video.FrameRate,
		Metrics:   metrics,
	})

	policy := live.NewPolicy(conf.Policy.LimitedAgents, conf.Policy.FrameCap)
	server := live.New(frames, videoCodec, renderer.Size(), &live.Options{
		Path:     conf.HTTP.Path,
		Cors:     conf.HTTP.Cors,
		Policy:   policy,
		Producer: p,
		Metrics:  metrics,
	})

	gin.SetMode(gin.ReleaseMode)
	httpServer := &http.Server{
		Addr:              conf.HTTP.Addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		// streams end when ctx is cancelled, otherwise Shutdown would wait for them forever
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	producerDone := make(chan error, 1)
	go func() {
		producerDone <- p.Run(ctx)
	}()

	serverDone := make(chan error, 1)
	go func() {
		l.Info().Printf("serving %s on http://%s%s", videoCodec.ContentType(), conf.HTTP.Addr, conf.HTTP.Path)
		serverDone <- httpServer.ListenAndServe()
	}()

	var mon *monitoring.Monitoring
	if conf.Monitoring.IsEnabled() {
		mon = monitoring.New(conf.Monitoring, registry)
		go func() {
			err := mon.Run()
			if err != nil {
				l.Error().Println(mon, err)
			}
		}()
	}

	if configFile != "" {
		go func() {
			err := config.Watch(ctx, configFile, args, func(c config.Config) {
				policy.Update(c.Policy.LimitedAgents, c.Policy.FrameCap)
				l.Info().Printf("policy updated: %v get %d frames", c.Policy.LimitedAgents, c.Policy.FrameCap)
			})
			if err != nil {
				l.Warn().Println("watch config:", err)
			}
		}()
	}

	code := 0

	select {
	case <-ctx.Done():
		l.Info().Println("exiting")
	case err := <-producerDone:
		var fatal *frame.FatalError
		if errors.As(err, &fatal) {
			l.Error().Println("no frame will ever be produced:", fatal)
		} else {
			l.Error().Println("producer stopped:", err)
		}
		code = 1
	case err := <-serverDone:
		l.Error().Println("http server:", err)
		code = 1
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	err = httpServer.Shutdown(shutdownCtx)
	if err != nil {
		l.Warn().Println("shutdown http server:", err)
		_ = httpServer.Close()
	}
	if mon != nil {
		_ = mon.Shutdown(shutdownCtx)
	}

	return code
}
