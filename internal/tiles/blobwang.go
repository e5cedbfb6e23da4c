package tiles

// Neighbour bits of a blob-wang mask. A set bit means the neighbour belongs to
// the same terrain as the centre cell.
const (
	NW = 1 << iota
	N
	NE
	W
	E
	SW
	S
	SE
)

// Shapes is the number of canonical blob-wang shapes.
const Shapes = 47

// blobWangIndex maps an 8-bit neighbour mask to its canonical shape.
var blobWangIndex = [256]uint8{
	0, 0, 1, 1, 0, 0, 1, 1,
	2, 2, 3, 4, 2, 2, 3, 4,
	5, 5, 6, 6, 5, 5, 7, 7,
	8, 8, 9, 10, 8, 8, 11, 12,
	0, 0, 1, 1, 0, 0, 1, 1,
	2, 2, 3, 4, 2, 2, 3, 4,
	5, 5, 6, 6, 5, 5, 7, 7,
	8, 8, 9, 10, 8, 8, 11, 12,
	13, 13, 14, 14, 13, 13, 14, 14,
	15, 15, 16, 17, 15, 15, 16, 17,
	18, 18, 19, 19, 18, 18, 20, 20,
	21, 21, 22, 23, 21, 21, 24, 25,
	13, 13, 14, 14, 13, 13, 14, 14,
	26, 26, 27, 28, 26, 26, 27, 28,
	18, 18, 19, 19, 18, 18, 20, 20,
	29, 29, 30, 31, 29, 29, 32, 33,
	0, 0, 1, 1, 0, 0, 1, 1,
	2, 2, 3, 4, 2, 2, 3, 4,
	5, 5, 6, 6, 5, 5, 7, 7,
	8, 8, 9, 10, 8, 8, 11, 12,
	0, 0, 1, 1, 0, 0, 1, 1,
	2, 2, 3, 4, 2, 2, 3, 4,
	5, 5, 6, 6, 5, 5, 7, 7,
	8, 8, 9, 10, 8, 8, 11, 12,
	13, 13, 14, 14, 13, 13, 14, 14,
	15, 15, 16, 17, 15, 15, 16, 17,
	34, 34, 35, 35, 34, 34, 36, 36,
	37, 37, 38, 39, 37, 37, 40, 41,
	13, 13, 14, 14, 13, 13, 14, 14,
	26, 26, 27, 28, 26, 26, 27, 28,
	34, 34, 35, 35, 34, 34, 36, 36,
	42, 42, 43, 44, 42, 42, 45, 46,
}

// shapeTiles holds the sub-tile offsets (TL, TR, BL, BR) of every shape
// before a terrain's adjustments are applied.
var shapeTiles = [Shapes]Quad{
	{2, 1, 4, 8}, {6, 9, 4, 8}, {3, 1, 12, 8}, {7, 9, 12, 8}, {15, 9, 12, 8}, {2, 3, 4, 12}, {6, 11, 4, 12}, {6, 15, 4, 12},
	{3, 3, 12, 12}, {7, 11, 12, 12}, {15, 11, 12, 12}, {7, 15, 12, 12}, {15, 15, 12, 12}, {2, 1, 6, 9}, {6, 9, 6, 9}, {3, 1, 14, 9},
	{7, 9, 14, 9}, {15, 9, 14, 9}, {2, 3, 6, 13}, {6, 11, 6, 13}, {6, 15, 6, 13}, {3, 3, 14, 13}, {7, 11, 14, 13}, {15, 11, 14, 13},
	{7, 15, 14, 13}, {15, 15, 14, 13}, {3, 1, 15, 9}, {7, 9, 15, 9}, {15, 9, 15, 9}, {3, 3, 15, 13}, {7, 11, 15, 13}, {15, 11, 15, 13},
	{7, 15, 15, 13}, {15, 15, 15, 13}, {2, 3, 6, 15}, {6, 11, 6, 15}, {6, 15, 6, 15}, {3, 3, 14, 15}, {7, 11, 14, 15}, {15, 11, 14, 15},
	{7, 15, 14, 15}, {15, 15, 14, 15}, {3, 3, 15, 15}, {7, 11, 15, 15}, {15, 11, 15, 15}, {7, 15, 15, 15}, {15, 15, 15, 15},
}

// Terrain describes one autotile pass: which cells belong to it and which
// cell value each shape is rewritten to.
type Terrain struct {
	Name  string
	Remap [Shapes]int

	member int
	// clearAll clears sub-tile 15 in every quadrant instead of only the
	// bottom-right one.
	clearAll bool
	bank     int
}

// Member reports whether a cell value takes part in this terrain's pass.
func (t *Terrain) Member(v int) bool { return v == t.member }

// Tile returns the cell value a member with neighbour mask m is rewritten to.
func (t *Terrain) Tile(m int) int { return t.Remap[Shape(m)] }

// Shape maps an 8-bit neighbour mask to its canonical shape.
func Shape(m int) int { return int(blobWangIndex[m&0xff]) }

// Quad returns the adjusted sub-tiles drawn for shape s.
func (t *Terrain) Quad(s int) Quad {
	q := shapeTiles[s]
	for j := range q {
		if q[j] == 15 && (t.clearAll || j == BR) {
			q[j] = 0
		}
		q[j] += t.bank
	}
	return q
}

// Terrain names, in the order the passes run.
const (
	TerrainWalls = "walls"
	TerrainLava  = "lava"
	TerrainWater = "water"
)

// walls surround every void cell, so its members are the void cells.
var walls = Terrain{
	Name: TerrainWalls,
	Remap: [Shapes]int{
		11, 12, 13, 14, 16, 17, 18, 19,
		20, 21, 22, 23, 24, 25, 26, 27,
		28, 29, 30, 31, 32, 42, 43, 45,
		46, 48, 49, 50, 51, 52, 53, 54,
		55, 56, 57, 58, 59, 60, 61, 62,
		63, 64, 65, 75, 76, 77, 78,
	},
	member:   Void,
	clearAll: true,
}

var lavaTerrain = Terrain{
	Name: TerrainLava,
	Remap: [Shapes]int{
		80, 81, 82, 83, 84, 85, 86, 87,
		88, 89, 90, 91, 92, 93, 94, 95,
		96, 97, 103, 104, 107, 108, 109, 110,
		112, 113, 114, 115, 116, 117, 118, 119,
		120, 121, 122, 123, 124, 125, 126, 127,
		128, 129, 130, 131, 132, 133, 134,
	},
	member: Lava,
	bank:   176,
}

var waterTerrain = Terrain{
	Name: TerrainWater,
	Remap: [Shapes]int{
		135, 136, 139, 140, 141, 142, 144, 145,
		146, 147, 148, 149, 150, 151, 152, 153,
		154, 155, 156, 157, 158, 159, 160, 161,
		162, 163, 164, 165, 166, 167, 168, 169,
		170, 171, 172, 173, 174, 176, 177, 178,
		179, 180, 181, 182, 183, 184, 185,
	},
	member: Water,
	bank:   192,
}

// terrainDefs lists the autotile passes in the order they run. Tables copy
// them, so nothing outside this package can change a built table.
var terrainDefs = [...]Terrain{walls, lavaTerrain, waterTerrain}
