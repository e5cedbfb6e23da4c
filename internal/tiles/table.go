package tiles

import "sync"

// Quad is the 2x2 group of sprite ids drawn for one puzzle cell.
type Quad [4]int

// Quadrant positions inside a Quad.
const (
	TL = iota
	TR
	BL
	BR
)

// FillerTile is drawn for every cell value nothing else claims.
const FillerTile = 15

// Table maps every cell value to the quad the cart draws for it.
type Table struct {
	quads    [256]Quad
	terrains [len(terrainDefs)]Terrain
}

// Terrains returns a copy of the autotile passes in the order they run.
func (t *Table) Terrains() []Terrain { return append([]Terrain(nil), t.terrains[:]...) }

// Terrain returns a copy of the named autotile pass.
func (t *Table) Terrain(name string) (Terrain, bool) {
	for _, tr := range t.terrains {
		if tr.Name == name {
			return tr, true
		}
	}
	return Terrain{}, false
}

// Quad is total over 0..255; anything else is the void quad.
func (t *Table) Quad(b int) Quad {
	if b < 0 || b > 255 {
		return Quad{}
	}
	return t.quads[b]
}

func mirrored(tile int) Quad { return Quad{253, tile, 253, tile + 16} }
func full(tile int) Quad     { return Quad{tile, tile + 1, tile + 16, tile + 17} }
func single(tile int) Quad   { return Quad{tile, tile, tile, tile} }

type rule struct {
	value int
	quad  Quad
}

var rules = []rule{
	{Floor, mirrored(16)},
	{DarkFloor, mirrored(17)},
	{Player, full(218)},

	{Bitmask(ElemLockOn, 0), mirrored(19)},
	{Bitmask(ElemLockOff, 0), mirrored(20)},
	{Bitmask(ElemLockOn, 1), mirrored(21)},
	{Bitmask(ElemLockOff, 1), mirrored(22)},
	{Bitmask(ElemLockOn, 2), mirrored(23)},
	{Bitmask(ElemLockOff, 2), mirrored(24)},
	{Bitmask(ElemLockOn, 3), mirrored(25)},
	{Bitmask(ElemLockOff, 3), mirrored(26)},
	{OctoOn, mirrored(27)},
	{OctoOff, mirrored(28)},

	{Bitmask(ElemZapper, 1), mirrored(29)},
	{Bitmask(ElemZapper, 0), mirrored(30)},
	{Bitmask(ElemZapper, 2), mirrored(31)},

	{SlimeTrap, mirrored(48)},
	{LockBlock, mirrored(51)},
	{GenericKey, mirrored(18)},

	{HeartKey, mirrored(52)},
	{DiamondKey, mirrored(53)},
	{TriangleKey, mirrored(54)},
	{CoinKey, mirrored(55)},

	{Bitmask(ElemOctogem, 0), mirrored(56)},
	{Bitmask(ElemOctogem, 1), mirrored(57)},
	{Bitmask(ElemOctogem, 2), mirrored(58)},
	{Bitmask(ElemOctogem, 3), mirrored(59)},
	{Bitmask(ElemOctogem, 4), mirrored(60)},
	{Bitmask(ElemOctogem, 5), mirrored(61)},
	{Bitmask(ElemOctogem, 6), mirrored(62)},
	{Bitmask(ElemOctogem, 7), mirrored(63)},

	{NormalState, mirrored(80)},
	{FireState, mirrored(81)},
	{IceState, mirrored(82)},

	{Bitmask(ElemPortal, 0), full(88)},
	{Bitmask(ElemPortal, 1), full(90)},
	{Bitmask(ElemPortal, 2), full(92)},
	{Bitmask(ElemPortal, 3), full(94)},

	{Bitmask(ElemConveyor, 0), full(112)},
	{Bitmask(ElemConveyor, 1), full(114)},
	{Bitmask(ElemConveyor, 2), full(116)},
	{Bitmask(ElemConveyor, 3), full(118)},

	{IceBlock, full(120)},
	{IceFloor, full(122)},
	{Cracked, full(124)},
	{DarkCracked, full(126)},
	{Lava, single(191)},
	{Water, single(207)},

	{SlimeNormal, full(218)},
	{SlimeFire, full(220)},
	{SlimeIce, full(222)},
	{ClosedSlimeTrap, mirrored(49)},
	{Pit, mirrored(50)},
}

// Build assembles a fresh table. Explicit rules go in first, then every
// terrain's remapped shapes. Value 0 keeps the void quad and any other value
// whose top-left sub-tile is still 0 gets the filler quad.
func Build() *Table {
	t := &Table{terrains: terrainDefs}
	for _, r := range rules {
		t.quads[r.value] = r.quad
	}
	for _, tr := range t.terrains {
		for s, v := range tr.Remap {
			t.quads[v] = tr.Quad(s)
		}
	}
	filler := single(FillerTile)
	for i := 1; i < len(t.quads); i++ {
		if t.quads[i][TL] == 0 {
			t.quads[i] = filler
		}
	}
	return t
}

var (
	rulesOnce sync.Once
	shared    *Table
)

// Rules returns the process-wide table. It is built on first use and never
// modified afterwards.
func Rules() *Table {
	rulesOnce.Do(func() { shared = Build() })
	return shared
}
