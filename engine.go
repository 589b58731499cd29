package main

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Engine maps pixels to the nearest color of a fixed candidate set.
type Engine struct {
	candidates []Color
	workers    int
}

// NewEngine creates an Engine for the given candidates. The order of
// candidates decides ties: the lowest index wins.
//
// workers is the number of row bands processed at once, values below 1 mean
// runtime.GOMAXPROCS(0).
func NewEngine(candidates []Color, workers int) (*Engine, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidateSet
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Engine{
		candidates: append([]Color(nil), candidates...),
		workers:    workers,
	}, nil
}

// Candidates returns a copy of the candidate colors.
func (e *Engine) Candidates() []Color {
	return append([]Color(nil), e.candidates...)
}

// Distance is the L1 (Manhattan) distance between two colors, 0 to 765.
func Distance(a, b Color) int {
	return absDiff(a.R, b.R) + absDiff(a.G, b.G) + absDiff(a.B, b.B)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// Nearest returns the index of the closest candidate to p.
func (e *Engine) Nearest(p Color) int {
	best, bestDist := 0, Distance(e.candidates[0], p)
	for i := 1; i < len(e.candidates) && bestDist > 0; i++ {
		// Only strictly closer colors replace the best one
		if d := Distance(e.candidates[i], p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Index returns the nearest candidate index for every pixel of src, in the
// same row-major order.
func (e *Engine) Index(src *Grid) []int {
	idx := make([]int, len(src.Pix))
	if len(idx) == 0 {
		return idx
	}

	bands := e.workers
	if bands > src.Height {
		bands = src.Height
	}
	rowsPerBand := (src.Height + bands - 1) / bands

	var g errgroup.Group
	for y0 := 0; y0 < src.Height; y0 += rowsPerBand {
		start := y0 * src.Width
		end := min(y0+rowsPerBand, src.Height) * src.Width
		g.Go(func() error {
			for i := start; i < end; i++ {
				idx[i] = e.Nearest(src.Pix[i])
			}
			return nil
		})
	}
	// Bands never fail
	_ = g.Wait()
	return idx
}

// Recolor returns a new grid with the dimensions of src where every pixel is
// replaced by its nearest candidate.
func (e *Engine) Recolor(src *Grid) *Grid {
	return e.apply(src, e.candidates)
}

// apply matches src against the candidates, then writes the color at the
// matched index of pal. pal must be at least as long as the candidate set.
func (e *Engine) apply(src *Grid, pal []Color) *Grid {
	dst := NewGrid(src.Width, src.Height)
	for i, ci := range e.Index(src) {
		dst.Pix[i] = pal[ci]
	}
	return dst
}
