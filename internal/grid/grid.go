package grid

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

const hexDigits = "0123456789abcdef"

// RowSeparator terminates each packed row when separators are requested.
const RowSeparator = "\r\n"

// Grid is a dense 2D array stored in row-major order.
type Grid[T constraints.Integer] struct {
	w, h  int
	cells []T
}

func New[T constraints.Integer](w, h int, fill T) *Grid[T] {
	g := &Grid[T]{}
	g.Resize(w, h, fill)
	return g
}

func (g *Grid[T]) Width() int  { return g.w }
func (g *Grid[T]) Height() int { return g.h }

func (g *Grid[T]) index(x, y int) int {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		panic(fmt.Sprintf("grid: (%d,%d) out of range %dx%d", x, y, g.w, g.h))
	}
	return y*g.w + x
}

func (g *Grid[T]) Get(x, y int) T     { return g.cells[g.index(x, y)] }
func (g *Grid[T]) Set(x, y int, v T) { g.cells[g.index(x, y)] = v }

// Resize changes the dimensions, keeping the overlapping top-left region and
// filling every new cell with fill.
func (g *Grid[T]) Resize(w, h int, fill T) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	next := make([]T, w*h)
	for i := range next {
		next[i] = fill
	}
	keepW, keepH := min(w, g.w), min(h, g.h)
	for y := 0; y < keepH; y++ {
		copy(next[y*w:y*w+keepW], g.cells[y*g.w:y*g.w+keepW])
	}
	g.w, g.h, g.cells = w, h, next
}

func (g *Grid[T]) Fill(v T) {
	for i := range g.cells {
		g.cells[i] = v
	}
}

// CopyRect copies the sw×sh rectangle at (sx,sy) of src to (dx,dy) of g.
// Both rectangles are clamped to their own grid, so oversized or partially
// outside requests copy only the part that fits on both sides.
func (g *Grid[T]) CopyRect(src *Grid[T], sx, sy, sw, sh, dx, dy int) {
	sx = clamp(sx, 0, src.w)
	sy = clamp(sy, 0, src.h)
	sw = clamp(sw, 0, src.w-sx)
	sh = clamp(sh, 0, src.h-sy)
	dx = clamp(dx, 0, g.w)
	dy = clamp(dy, 0, g.h)
	w := min(sw, g.w-dx)
	h := min(sh, g.h-dy)

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			g.cells[(dy+y)*g.w+dx+x] = src.cells[(sy+y)*src.w+sx+x]
		}
	}
}

// Outside reports the first cell (row-major) whose value is not within
// [lo, hi].
func (g *Grid[T]) Outside(lo, hi T) (x, y int, found bool) {
	for i, v := range g.cells {
		if v < lo || v > hi {
			return i % g.w, i / g.w, true
		}
	}
	return 0, 0, false
}

// Pack renders every cell as two lowercase hex digits in row-major order.
// Values must already fit in a byte.
func (g *Grid[T]) Pack(rowSeparators bool) string {
	var b strings.Builder
	n := len(g.cells) * 2
	if rowSeparators {
		n += g.h * len(RowSeparator)
	}
	b.Grow(n)
	for y := 0; y < g.h; y++ {
		for _, v := range g.cells[y*g.w : (y+1)*g.w] {
			c := uint8(v)
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xf])
		}
		if rowSeparators {
			b.WriteString(RowSeparator)
		}
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
