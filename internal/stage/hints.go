package stage

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// MaxHints is the most hint arrows a stage can carry.
const MaxHints = 15

// Hint is one arrow of the hint path: the direction taken from (X,Y).
type Hint struct {
	Dir  int
	X, Y int
}

// Direction steps, counter-clockwise from +x with y growing downwards.
var (
	dirDX = [4]int{1, 0, -1, 0}
	dirDY = [4]int{0, -1, 0, 1}
)

// Directions unpacks the recorded moves of a replay: a little-endian move
// count followed by four 2-bit directions per byte, low bits first.
func Directions(replay []byte) (moveCount int, dirs []int) {
	if len(replay) < 2 {
		return 0, nil
	}
	moveCount = int(binary.LittleEndian.Uint16(replay[:2]))
	dirs = make([]int, 0, (len(replay)-2)*4)
	for _, b := range replay[2:] {
		for shift := 0; shift < 8; shift += 2 {
			dirs = append(dirs, int(b>>shift)&0x3)
		}
	}
	return moveCount, dirs
}

// HintPath replays up to limit moves from (x,y). The path is not checked
// against the stage layout.
func HintPath(replay []byte, x, y, limit int) []Hint {
	moveCount, dirs := Directions(replay)
	n := min(MaxHints, moveCount, limit, len(dirs))
	if n <= 0 {
		return nil
	}
	path := make([]Hint, 0, n)
	for _, d := range dirs[:n] {
		path = append(path, Hint{Dir: d, X: x, Y: y})
		x += dirDX[d]
		y += dirDY[d]
	}
	return path
}

// hintString renders the count digit followed by "dxy" per hint.
func hintString(path []Hint) string {
	var b strings.Builder
	b.WriteString(hexDigit(len(path)))
	for _, h := range path {
		fmt.Fprintf(&b, "%d%x%x", h.Dir, h.X&0xf, h.Y&0xf)
	}
	return b.String()
}
