package drive

import (
	"math"
	"math/rand/v2"
)

const (
	speedJitter   = 0.5
	headingJitter = 0.4
)

// Walker is a random drive: the velocity wanders, in polar form, and the position follows it.
// It bounces off the walls of its rectangle and never goes faster than MaxSpeed.
type Walker struct {
	rng *rand.Rand

	X       float64
	Y       float64
	Speed   float64
	Heading float64
	Steps   uint64

	MinX     float64
	MinY     float64
	MaxX     float64
	MaxY     float64
	MaxSpeed float64
}

func NewWalker(seed uint64, minX, minY, maxX, maxY, maxSpeed float64) *Walker {
	return &Walker{
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		X:        (minX + maxX) / 2,
		Y:        (minY + maxY) / 2,
		MinX:     minX,
		MinY:     minY,
		MaxX:     maxX,
		MaxY:     maxY,
		MaxSpeed: maxSpeed,
	}
}

func (w *Walker) Step() {
	w.Speed += (w.rng.Float64()*2 - 1) * speedJitter
	w.Heading += (w.rng.Float64()*2 - 1) * headingJitter

	if w.Speed > w.MaxSpeed {
		w.Speed = w.MaxSpeed
	}
	if w.Speed < 0 {
		w.Speed = -w.Speed
		w.Heading += math.Pi
	}

	w.X += w.Speed * math.Cos(w.Heading)
	w.Y += w.Speed * math.Sin(w.Heading)

	if w.X < w.MinX {
		w.X = 2*w.MinX - w.X
		w.Heading = math.Pi - w.Heading
	} else if w.X > w.MaxX {
		w.X = 2*w.MaxX - w.X
		w.Heading = math.Pi - w.Heading
	}
	if w.Y < w.MinY {
		w.Y = 2*w.MinY - w.Y
		w.Heading = -w.Heading
	} else if w.Y > w.MaxY {
		w.Y = 2*w.MaxY - w.Y
		w.Heading = -w.Heading
	}

	// a bounce can still overshoot when the rectangle is narrower than one step
	w.X = math.Min(math.Max(w.X, w.MinX), w.MaxX)
	w.Y = math.Min(math.Max(w.Y, w.MinY), w.MaxY)

	w.Heading = math.Mod(w.Heading, 2*math.Pi)
	if w.Heading < 0 {
		w.Heading += 2 * math.Pi
	}

	w.Steps++
}
