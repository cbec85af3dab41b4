package factory

import (
	"fmt"

	"github.com/allape/livegif/config"
	"github.com/allape/livegif/live/codec"
	"github.com/allape/livegif/live/codec/gif"
	"github.com/allape/livegif/live/codec/mjpeg"
)

func CodecFromConfig(conf config.Config) (codec.Codec, error) {
	switch conf.Codec.Type {
	case config.CodecGIF:
		return &gif.Codec{Options: gif.Options{
			LoopCount: conf.Codec.LoopCount,
			Dither:    conf.Codec.Dither,
			Delta:     conf.Codec.Delta,
		}}, nil
	case config.CodecMJPEG:
		return &mjpeg.Codec{Quality: conf.Codec.Quality}, nil
	default:
		return nil, fmt.Errorf("unknown codec: %s", conf.Codec.Type)
	}
}
