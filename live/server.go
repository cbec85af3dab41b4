// Package live serves the latest frames of a channel to every HTTP client as one endless image.
package live

import (
	"errors"
	"image"
	"io"
	"net/http"

	"github.com/allape/gogger"
	"github.com/allape/livegif/live/channel"
	"github.com/allape/livegif/live/codec"
	"github.com/allape/livegif/live/frame"
	"github.com/allape/livegif/live/producer"
	"github.com/allape/livegif/live/stream"
	"github.com/allape/livegif/monitoring"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

var l = gogger.New("live")

const HealthPath = "/healthz"

// Producer is the part of *producer.Producer the health check looks at.
type Producer interface {
	State() producer.State
	Err() error
}

type Options struct {
	Path     string
	Cors     bool
	Policy   *Policy
	Producer Producer
	Metrics  *monitoring.Metrics
}

type Server struct {
	channel  *channel.Channel[frame.Result]
	codec    codec.Codec
	size     image.Point
	path     string
	cors     bool
	policy   *Policy
	producer Producer
	metrics  *monitoring.Metrics
}

func New(ch *channel.Channel[frame.Result], c codec.Codec, size image.Point, options *Options) *Server {
	if options == nil {
		options = &Options{}
	}

	if options.Path == "" {
		options.Path = "/"
	}

	if options.Policy == nil {
		options.Policy = NewPolicy(nil, 0)
	}

	return &Server{
		channel:  ch,
		codec:    c,
		size:     size,
		path:     options.Path,
		cors:     options.Cors,
		policy:   options.Policy,
		producer: options.Producer,
		metrics:  options.Metrics,
	}
}

func (s *Server) Policy() *Policy {
	return s.policy
}

func (s *Server) Router() *gin.Engine {
	engine := gin.New()
	engine.Use(recovery())
	if s.cors {
		engine.Use(cors.Default())
	}

	engine.GET(s.path, s.Stream)
	engine.GET(HealthPath, s.Health)

	return engine
}

// Stream writes the encoded frames of the channel to one client until the client leaves,
// its frame cap is reached or the stream fails.
func (s *Server) Stream(c *gin.Context) {
	id := connectionID()
	ctx := c.Request.Context()
	userAgent := c.Request.UserAgent()
	maxFrames := s.policy.FrameCap(userAgent)

	subscription := s.channel.Subscribe()
	defer subscription.Close()

	st := stream.New(subscription, s.codec, s.size, &stream.Options{
		MaxFrames: maxFrames,
		Metrics:   s.metrics,
	})

	header, err := st.Next(ctx)
	if err != nil {
		l.Error().Printf("[%s] create encoder: %v", id, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	s.metrics.ConnectionOpened(maxFrames > 0)
	defer s.metrics.ConnectionClosed()

	l.Info().Printf("[%s] %s connected, user agent %q, frame cap %d", id, c.ClientIP(), userAgent, maxFrames)

	h := c.Writer.Header()
	h.Set("Content-Type", s.codec.ContentType())
	h.Set("Cache-Control", "no-cache, no-store")
	h.Set("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()

	chunk := header
	for {
		if len(chunk) > 0 {
			n, err := c.Writer.Write(chunk)
			if err != nil {
				l.Verbose().Printf("[%s] write: %v", id, err)
				return
			}
			s.metrics.ChunkSent(n)
		}
		c.Writer.Flush()

		chunk, err = st.Next(ctx)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			l.Info().Printf("[%s] frame cap of %d reached", id, maxFrames)
			return
		case ctx.Err() != nil:
			l.Info().Printf("[%s] disconnected after %d frames", id, st.Frames())
			return
		default:
			l.Error().Printf("[%s] stream aborted after %d frames: %v", id, st.Frames(), err)
			// the status is already sent, the client has to see a broken body
			panic(http.ErrAbortHandler)
		}
	}
}

type health struct {
	State       string `json:"state"`
	Generation  uint64 `json:"generation"`
	Subscribers int    `json:"subscribers"`
	Error       string `json:"error,omitempty"`
}

// Health reports 503 once the producer can no longer publish frames.
func (s *Server) Health(c *gin.Context) {
	res := health{
		State:       producer.Running.String(),
		Generation:  s.channel.Generation(),
		Subscribers: s.channel.Subscribers(),
	}

	status := http.StatusOK
	if s.producer != nil {
		state := s.producer.State()
		res.State = state.String()
		if err := s.producer.Err(); err != nil {
			res.Error = err.Error()
		}
		if state == producer.Dead || state == producer.Stopped {
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, res)
}

func connectionID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return "-"
	}
	return id.String()
}

// recovery is gin.Recovery that lets http.ErrAbortHandler through to net/http.
func recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				l.Error().Println("panic:", err)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
