package config

import (
	"github.com/spf13/pflag"
)

// WithFlags binds command line flags to c, the current values become the flag defaults.
func (c *Config) WithFlags(fs *pflag.FlagSet) *Config {
	var conf string
	fs.StringVarP(&conf, "conf", "c", "", "Set custom configuration file path")

	fs.StringVar(&c.HTTP.Addr, "addr", c.HTTP.Addr, "HTTP server address (host:port)")
	fs.Float64Var(&c.Video.FrameRate, "fps", c.Video.FrameRate, "Frames rendered per second")
	fs.IntVar(&c.Video.Width, "width", c.Video.Width, "Frame width in pixels")
	fs.IntVar(&c.Video.Height, "height", c.Video.Height, "Frame height in pixels")
	fs.StringVar((*string)(&c.Video.Renderer), "renderer", string(c.Video.Renderer), "Renderer: [text, fade, drive]")
	fs.StringVar((*string)(&c.Codec.Type), "codec", string(c.Codec.Type), "Stream format: [gif, mjpeg]")
	fs.IntVar(&c.Policy.FrameCap, "frame-cap", c.Policy.FrameCap, "Frames sent to limited user agents, 0 for no cap")
	fs.IntVar(&c.Monitoring.Port, "monitoring.port", c.Monitoring.Port, "Monitoring server port")
	fs.BoolVar(&c.Monitoring.MetricEnabled, "monitoring.metric", c.Monitoring.MetricEnabled, "Serve prometheus metrics")
	fs.BoolVar(&c.Monitoring.ProfilingEnabled, "monitoring.profiling", c.Monitoring.ProfilingEnabled, "Serve pprof")

	return c
}
