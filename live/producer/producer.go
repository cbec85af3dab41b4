package producer

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/allape/gogger"
	"github.com/allape/livegif/live/channel"
	"github.com/allape/livegif/live/frame"
	"github.com/allape/livegif/live/render"
	"github.com/allape/livegif/monitoring"
)

var l = gogger.New("live.producer")

type State int32

const (
	Idle State = iota
	Running
	Stopped
	Dead
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	case Dead:
		return "dead"
	}
	return "unknown"
}

// Producer renders frames at a fixed rate and publishes each result to a channel.
// A tick that runs late is followed immediately by the next one, missed ticks are not caught up.
type Producer struct {
	drawer   *render.Drawer
	renderer render.Renderer
	channel  *channel.Channel[frame.Result]
	metrics  *monitoring.Metrics

	period time.Duration
	index  uint64
	state  atomic.Int32

	errLocker sync.Locker
	err       error
}

func (p *Producer) State() State {
	return State(p.state.Load())
}

func (p *Producer) Period() time.Duration {
	return p.period
}

// Err returns the fatal error once the producer is Dead.
func (p *Producer) Err() error {
	p.errLocker.Lock()
	defer p.errLocker.Unlock()
	return p.err
}

// Run opens the renderer and produces frames until ctx is done.
// It returns a *frame.FatalError if the renderer cannot be opened.
func (p *Producer) Run(ctx context.Context) error {
	if !p.state.CompareAndSwap(int32(Idle), int32(Running)) {
		return errors.New("producer already started")
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	err := p.renderer.Open()
	if err != nil {
		fatal := &frame.FatalError{Err: err}
		p.errLocker.Lock()
		p.err = fatal
		p.errLocker.Unlock()
		p.state.Store(int32(Dead))
		l.Error().Println(fatal)
		return fatal
	}
	defer func() {
		_ = p.renderer.Close()
	}()

	l.Info().Printf("producing %v frames every %v", p.renderer.Size(), p.period)

	timer := time.NewTimer(p.period)
	timer.Stop()

	for {
		if ctx.Err() != nil {
			p.state.Store(int32(Stopped))
			return ctx.Err()
		}

		start := time.Now()
		p.Tick()
		elapsed := time.Since(start)

		wait := p.period - elapsed
		if wait <= 0 {
			l.Verbose().Printf("frame #%d took %v, over the %v budget", p.index-1, elapsed, p.period)
			continue
		}

		timer.Reset(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
		case <-timer.C:
		}
	}
}

// Tick renders the next frame and publishes it, or the render error in its place.
func (p *Producer) Tick() uint64 {
	start := time.Now()

	index := p.index
	p.index++

	f, err := p.drawer.Draw(index)
	if err != nil {
		l.Warn().Println(err)
	}

	generation := p.channel.Publish(frame.Result{Frame: f, Err: err})
	p.metrics.ObserveRender(time.Since(start), err)

	return generation
}

type Options struct {
	FrameRate float64
	Metrics   *monitoring.Metrics
}

func New(renderer render.Renderer, ch *channel.Channel[frame.Result], options *Options) *Producer {
	if options == nil {
		options = &Options{}
	}

	if options.FrameRate <= 0 {
		options.FrameRate = 25
	}

	period := time.Duration(float64(time.Second) / options.FrameRate)

	return &Producer{
		drawer:    &render.Drawer{Renderer: renderer, Delay: period},
		renderer:  renderer,
		channel:   ch,
		metrics:   options.Metrics,
		period:    period,
		errLocker: &sync.Mutex{},
	}
}
