package stage

import (
	"errors"
	"fmt"
	"strings"

	"minipak.dev/internal/grid"
	"minipak.dev/internal/tiles"
	"minipak.dev/internal/worldpak"
)

const (
	MaxWidth  = 16
	MaxHeight = 15
)

var (
	ErrStageTooLarge  = errors.New("stage too large")
	ErrDecompression  = errors.New("decompression failed")
	ErrTileOutOfRange = errors.New("value does not fit in a byte")
)

// Encoded is a transcoded stage. Text is what goes into the level document;
// the other fields are the parts it was assembled from.
type Encoded struct {
	Header    string
	Hints     []Hint
	Objects   []Object
	TileCount int
	Grid      *grid.Grid[int]
	Text      string
}

// Encode transcodes one stage. A nil rules uses the shared table.
func Encode(st worldpak.Stage, rules *tiles.Table) (*Encoded, error) {
	if rules == nil {
		rules = tiles.Rules()
	}
	if st.Width < 0 || st.Height < 0 {
		return nil, fmt.Errorf("%w: stage %q has negative size %vx%v", ErrStageTooLarge, st.Name, st.Width, st.Height)
	}
	if st.Width > MaxWidth || st.Height > MaxHeight {
		return nil, fmt.Errorf("%w: stage %q is %vx%v, must be %dx%d or less",
			ErrStageTooLarge, st.Name, st.Width, st.Height, MaxWidth, MaxHeight)
	}

	// A stage without data is all void.
	var (
		cells []byte
		err   error
	)
	if st.Data != "" {
		if cells, err = Inflate(st.Data); err != nil {
			return nil, fmt.Errorf("stage %q data: %w", st.Name, err)
		}
	}
	var replay []byte
	if st.ReplayData != "" {
		if replay, err = Inflate(st.ReplayData); err != nil {
			return nil, fmt.Errorf("stage %q replay: %w", st.Name, err)
		}
	}

	w, h := int(st.Width), int(st.Height)
	enc := &Encoded{
		Header: PicoLabel(st.Name) +
			PicoLabel(st.Author) +
			hexDigit(clampInt(w-1, 0, 15)) +
			fmt.Sprintf("%02d", st.SaveSlot) +
			PicoTime(st.TargetTime) +
			PicoTime(st.DevTime),
		// Slot 0 always belongs to the player, even without a player cell.
		Objects: []Object{{Kind: KindPlayer}},
		Grid:    grid.New(w+2, h+2, tiles.Void),
	}

	startX, startY := enc.classify(cells, w, h)

	scratch := grid.New(w+2, h+2, 0)
	terrains := rules.Terrains()
	for i := range terrains {
		autotile(enc.Grid, scratch, &terrains[i])
	}

	if st.ReplayData != "" {
		enc.Hints = HintPath(replay, startX, startY, int(st.HintCount))
	}

	if x, y, found := enc.Grid.Outside(0, 255); found {
		return nil, fmt.Errorf("%w: stage %q cell (%d,%d) = %d", ErrTileOutOfRange, st.Name, x, y, enc.Grid.Get(x, y))
	}
	if enc.TileCount > 255 {
		return nil, fmt.Errorf("%w: stage %q tile count %d", ErrTileOutOfRange, st.Name, enc.TileCount)
	}

	var b strings.Builder
	b.WriteString(enc.Header)
	b.WriteString(hintString(enc.Hints))
	fmt.Fprintf(&b, "%02x", len(enc.Objects))
	for _, o := range enc.Objects {
		b.WriteString(o.String())
	}
	fmt.Fprintf(&b, "%02x", enc.TileCount)
	b.WriteString(enc.Grid.Pack(false))
	enc.Text = b.String()
	return enc, nil
}

// classify walks the w×h cells in row-major order, collects objects, and
// writes every cell into the padded grid. It returns the player start.
func (enc *Encoded) classify(cells []byte, w, h int) (startX, startY int) {
	var portals portalPairs
	n := min(len(cells), w*h)
	for i := 0; i < n; i++ {
		v := int(cells[i])
		x, y := i%w, i/w
		elem, sub := tiles.Element(v), tiles.Sub(v)

		switch {
		case v == tiles.Player:
			enc.Objects[0] = Object{Kind: KindPlayer, X: x, Y: y}
			startX, startY = x, y
		case elem == tiles.ElemOctogem:
			enc.Objects = append(enc.Objects, Object{Kind: KindOctogem, X: x, Y: y, Payload: sub})
		case elem == tiles.ElemPortal:
			enc.Objects = append(enc.Objects, portals.visit(sub, x, y)...)
		case elem == tiles.ElemArrow:
			enc.Objects = append(enc.Objects, Object{Kind: KindArrow, X: x, Y: y, Payload: sub})
			v = tiles.Floor
		default:
			if f, ok := fixedObjects[v]; ok {
				enc.Objects = append(enc.Objects, Object{Kind: f.kind, X: x, Y: y, Payload: f.payload})
			}
		}

		px, py := x+1, y+1
		switch {
		case v == tiles.Floor && (px+py)%2 == 1:
			v = tiles.DarkFloor
		case v == tiles.Cracked && (px+py)%2 == 0:
			v = tiles.DarkCracked
		}

		if v != tiles.Void {
			enc.TileCount++
		}
		// Slime traps are touched twice.
		if v == tiles.SlimeTrap {
			enc.TileCount++
		}
		enc.Grid.Set(px, py, v)
	}
	return startX, startY
}
