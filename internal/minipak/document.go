package minipak

import (
	"fmt"
	"strings"

	"minipak.dev/internal/config"
	"minipak.dev/internal/grid"
	"minipak.dev/internal/tiles"
)

const (
	mapWidth  = 128
	mapHeight = 32
	// mapColumn is the first map column holding the tile rules.
	mapColumn = 48
)

// LevelDocument renders the build as the cart's level source.
func (b *Build) LevelDocument() string {
	nl := grid.RowSeparator
	var s strings.Builder
	fmt.Fprintf(&s, "g_cart_name = %q%s", b.PakID, nl)
	fmt.Fprintf(&s, "g_w_req = %q%s", b.BeatRequirements, nl)
	s.WriteString("g_levels = {" + nl)
	for wi, w := range b.Worlds {
		s.WriteString("{" + nl)
		for si, st := range w {
			s.WriteString(`"` + st.Encoded.Text + `"`)
			if si < len(w)-1 {
				s.WriteString(",")
			}
			s.WriteString(nl)
		}
		s.WriteString("}")
		if wi < len(b.Worlds)-1 {
			s.WriteString(",")
		}
		s.WriteString(nl)
	}
	s.WriteString("}")
	return s.String()
}

// MapImage lays the 256 rule quads out as 2x2 blocks starting at column 48.
func MapImage(rules *tiles.Table) *grid.Grid[int] {
	if rules == nil {
		rules = tiles.Rules()
	}
	m := grid.New(mapWidth, mapHeight, 0)
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			q := rules.Quad(x*16 + y)
			px, py := (mapColumn+x)*2, y*2
			m.Set(px, py, q[tiles.TL])
			m.Set(px+1, py, q[tiles.TR])
			m.Set(px, py+1, q[tiles.BL])
			m.Set(px+1, py+1, q[tiles.BR])
		}
	}
	return m
}

// MapDocument renders the map image as a cart file.
func MapDocument(rules *tiles.Table, cfg config.Config) string {
	cfg.Normalize()
	nl := grid.RowSeparator
	return "pico-8 cartridge // http://www.pico-8.com" + nl +
		fmt.Sprintf("version %d", cfg.CartVersion) + nl +
		"__map__" + nl +
		MapImage(rules).Pack(true)
}
