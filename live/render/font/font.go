package font

import (
	"os"

	"github.com/golang/freetype/truetype"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Load parses the TrueType font at path, or the built-in Go Regular when path is empty.
func Load(path string) (*truetype.Font, error) {
	if path == "" {
		return truetype.Parse(goregular.TTF)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return truetype.Parse(data)
}

func Face(f *truetype.Font, size float64) xfont.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size})
}
