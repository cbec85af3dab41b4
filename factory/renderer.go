package factory

import (
	"fmt"

	"github.com/allape/livegif/config"
	"github.com/allape/livegif/live/render"
	"github.com/allape/livegif/live/render/drive"
	"github.com/allape/livegif/live/render/fade"
	"github.com/allape/livegif/live/render/text"
)

// RendererFromConfig builds the renderer named by [video] renderer.
// Renderer specific options come from [video] ext.
func RendererFromConfig(conf config.Config) (render.Renderer, error) {
	ext := conf.Video.Ext

	switch conf.Video.Renderer {
	case config.RendererText:
		timestamp, err := ext.GetBool("timestamp", false)
		if err != nil {
			return nil, fmt.Errorf("timestamp: %w", err)
		}
		return text.New(&text.Options{
			Width:     conf.Video.Width,
			Height:    conf.Video.Height,
			FontPath:  conf.Video.Font,
			FontSize:  conf.Video.FontSize,
			Format:    conf.Video.Text,
			Timestamp: timestamp,
		}), nil
	case config.RendererFade:
		period, err := ext.GetUint64("period", fade.DefaultPeriod)
		if err != nil {
			return nil, fmt.Errorf("period: %w", err)
		}
		saturation, err := ext.GetFloat("saturation", 0)
		if err != nil {
			return nil, fmt.Errorf("saturation: %w", err)
		}
		return fade.New(&fade.Options{
			Width:      conf.Video.Width,
			Height:     conf.Video.Height,
			Period:     period,
			Saturation: saturation,
		}), nil
	case config.RendererDrive:
		seed, err := ext.GetUint64("seed", 0)
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		maxSpeed, err := ext.GetFloat("max_speed", 0)
		if err != nil {
			return nil, fmt.Errorf("max_speed: %w", err)
		}
		radius, err := ext.GetFloat("radius", 0)
		if err != nil {
			return nil, fmt.Errorf("radius: %w", err)
		}
		trail, err := ext.GetInt("trail", 0)
		if err != nil {
			return nil, fmt.Errorf("trail: %w", err)
		}
		return drive.New(&drive.Options{
			Width:    conf.Video.Width,
			Height:   conf.Video.Height,
			Seed:     seed,
			MaxSpeed: maxSpeed,
			Radius:   radius,
			Trail:    trail,
		}), nil
	default:
		return nil, fmt.Errorf("unknown renderer: %s", conf.Video.Renderer)
	}
}
