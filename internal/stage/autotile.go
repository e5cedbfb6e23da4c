package stage

import (
	"minipak.dev/internal/grid"
	"minipak.dev/internal/tiles"
)

// autotile rewrites every member cell of terrain t in live with the remapped
// blob-wang shape of its neighbourhood. scratch must have live's size; it
// holds the membership snapshot so rewrites do not affect later lookups.
// Neighbours past the edge repeat the edge cell.
func autotile(live, scratch *grid.Grid[int], t *tiles.Terrain) {
	w, h := live.Width(), live.Height()
	scratch.Fill(0)
	scratch.CopyRect(live, 0, 0, w, h, 0, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := 0
			if t.Member(scratch.Get(x, y)) {
				m = 1
			}
			scratch.Set(x, y, m)
		}
	}

	for x := 0; x < w; x++ {
		xl, xr := max(x-1, 0), min(x+1, w-1)
		for y := 0; y < h; y++ {
			if scratch.Get(x, y) == 0 {
				continue
			}
			yt, yb := max(y-1, 0), min(y+1, h-1)
			mask := scratch.Get(xl, yt)*tiles.NW |
				scratch.Get(x, yt)*tiles.N |
				scratch.Get(xr, yt)*tiles.NE |
				scratch.Get(xl, y)*tiles.W |
				scratch.Get(xr, y)*tiles.E |
				scratch.Get(xl, yb)*tiles.SW |
				scratch.Get(x, yb)*tiles.S |
				scratch.Get(xr, yb)*tiles.SE
			live.Set(x, y, t.Tile(mask))
		}
	}
}
