package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/allape/gogger"
	"github.com/allape/livegif/envar"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
)

var l = gogger.New("config")

const (
	DefaultConfigPath = "livegif.toml"
	MaxDimension      = 65535
)

type RendererType string

const (
	RendererText  RendererType = "text"
	RendererFade  RendererType = "fade"
	RendererDrive RendererType = "drive"
)

type CodecType string

const (
	CodecGIF   CodecType = "gif"
	CodecMJPEG CodecType = "mjpeg"
)

type HTTP struct {
	Addr string `toml:"addr"`
	Path string `toml:"path"`
	Cors bool   `toml:"cors"`
}

type Video struct {
	Width     int          `toml:"width"`
	Height    int          `toml:"height"`
	FrameRate float64      `toml:"frame_rate"`
	Renderer  RendererType `toml:"renderer"`
	Font      string       `toml:"font"`
	FontSize  float64      `toml:"font_size"`
	Text      string       `toml:"text"`
	// Ext holds renderer specific options.
	// Example: seed:"42" max_speed:"6"
	Ext TagString `toml:"ext"`
}

type Codec struct {
	Type CodecType `toml:"type"`
	// LoopCount 0 loops forever, -1 plays once, n repeats n times
	LoopCount int  `toml:"loop_count"`
	Dither    bool `toml:"dither"`
	Delta     bool `toml:"delta"`
	Quality   int  `toml:"quality"`
}

type Policy struct {
	// LimitedAgents user agent substrings of clients that cannot handle an endless body
	LimitedAgents []string `toml:"limited_agents"`
	FrameCap      int      `toml:"frame_cap"`
}

type Monitoring struct {
	Port             int    `toml:"port"`
	URLPrefix        string `toml:"url_prefix"`
	MetricEnabled    bool   `toml:"metric_enabled"`
	ProfilingEnabled bool   `toml:"profiling_enabled"`
}

func (m Monitoring) IsEnabled() bool {
	return m.MetricEnabled || m.ProfilingEnabled
}

type Config struct {
	HTTP       HTTP       `toml:"http"`
	Video      Video      `toml:"video"`
	Codec      Codec      `toml:"codec"`
	Policy     Policy     `toml:"policy"`
	Monitoring Monitoring `toml:"monitoring"`
}

func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr: "0.0.0.0:8080",
			Path: "/",
		},
		Video: Video{
			Width:     300,
			Height:    100,
			FrameRate: 25,
			Renderer:  RendererText,
			FontSize:  20,
			Text:      "this is frame #%d",
		},
		Codec: Codec{
			Type:      CodecGIF,
			LoopCount: 1,
			Delta:     true,
			Quality:   75,
		},
		Policy: Policy{
			LimitedAgents: []string{"Discordbot"},
			FrameCap:      10,
		},
	}
}

// Load reads a toml file on top of the defaults.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	err = toml.Unmarshal(data, &config)
	if err != nil {
		return config, fmt.Errorf("parse %s: %w", path, err)
	}

	return config, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Video.Width <= 0 || c.Video.Width > MaxDimension || c.Video.Height <= 0 || c.Video.Height > MaxDimension {
		errs = append(errs, fmt.Errorf("invalid video size %dx%d", c.Video.Width, c.Video.Height))
	}
	if c.Video.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("invalid frame rate %v", c.Video.FrameRate))
	}
	switch c.Video.Renderer {
	case RendererText, RendererFade, RendererDrive:
	default:
		errs = append(errs, fmt.Errorf("unknown renderer: %s", c.Video.Renderer))
	}

	switch c.Codec.Type {
	case CodecGIF, CodecMJPEG:
	default:
		errs = append(errs, fmt.Errorf("unknown codec: %s", c.Codec.Type))
	}
	if c.Codec.Quality < 0 || c.Codec.Quality > 100 {
		errs = append(errs, fmt.Errorf("invalid jpeg quality %d", c.Codec.Quality))
	}

	if c.Policy.FrameCap < 0 {
		errs = append(errs, fmt.Errorf("invalid frame cap %d", c.Policy.FrameCap))
	}

	if !strings.HasPrefix(c.HTTP.Path, "/") {
		errs = append(errs, fmt.Errorf("http path must start with /: %q", c.HTTP.Path))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http addr is empty"))
	}

	return errors.Join(errs...)
}

// GetConfig
// Values are taken from, in increasing priority: defaults, the config file, env vars, flags.
// The file is -c/--conf, LIVEGIF_CONFIG or livegif.toml. A missing default file is not an error.
func GetConfig(args []string) (Config, string, error) {
	configFile, explicit, err := configPath(args)
	if err != nil {
		return Config{}, "", err
	}

	config := Default()
	_, err = os.Stat(configFile)
	switch {
	case err == nil:
		l.Info().Println("reading config file:", configFile)
		config, err = Load(configFile)
		if err != nil {
			return config, configFile, err
		}
	case explicit:
		return config, configFile, err
	default:
		l.Info().Println("config file not found, using defaults:", configFile)
		configFile = ""
	}

	err = config.overlay(args)
	if err != nil {
		return config, configFile, err
	}

	l.Verbose().Printf("use config: %+v", config)

	return config, configFile, nil
}

// Reload reads the file at path again and applies the same env vars and flags as GetConfig,
// so a value set on the command line keeps winning over the file.
func Reload(path string, args []string) (Config, error) {
	config, err := Load(path)
	if err != nil {
		return config, err
	}
	err = config.overlay(args)
	return config, err
}

func (c *Config) overlay(args []string) error {
	c.HTTP.Addr = envar.Getenv(envar.LivegifAddr, c.HTTP.Addr)

	fs := pflag.NewFlagSet("livegif", pflag.ContinueOnError)
	c.WithFlags(fs)
	err := fs.Parse(args)
	if err != nil {
		return err
	}

	return c.Validate()
}

func configPath(args []string) (string, bool, error) {
	var path string

	fs := pflag.NewFlagSet("livegif", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.StringVarP(&path, "conf", "c", "", "")

	err := fs.Parse(args)
	if err != nil && !errors.Is(err, pflag.ErrHelp) {
		return "", false, err
	}

	if path != "" {
		return path, true, nil
	}

	path = envar.Getenv(envar.LivegifConfig, "")
	if path != "" {
		return path, true, nil
	}

	return DefaultConfigPath, false, nil
}
