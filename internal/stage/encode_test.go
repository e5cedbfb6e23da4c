package stage

import (
	"errors"
	"strings"
	"testing"

	"minipak.dev/internal/tiles"
	"minipak.dev/internal/worldpak"
)

func testStage(t *testing.T, w, h int, cells []byte) worldpak.Stage {
	t.Helper()
	data, err := Deflate(cells)
	if err != nil {
		t.Fatalf("deflate: %v", err)
	}
	st := worldpak.DefaultStage()
	st.Name = "Test"
	st.Author = ""
	st.Width = float64(w)
	st.Height = float64(h)
	st.Data = data
	return st
}

func withReplay(t *testing.T, st worldpak.Stage, replay []byte, hints int) worldpak.Stage {
	t.Helper()
	data, err := Deflate(replay)
	if err != nil {
		t.Fatalf("deflate replay: %v", err)
	}
	st.ReplayData = data
	st.HintCount = float64(hints)
	return st
}

func mustEncode(t *testing.T, st worldpak.Stage) *Encoded {
	t.Helper()
	enc, err := Encode(st, tiles.Build())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return enc
}

func terrain(t *testing.T, name string) tiles.Terrain {
	t.Helper()
	tr, ok := tiles.Rules().Terrain(name)
	if !ok {
		t.Fatalf("no terrain %q", name)
	}
	return tr
}

func TestEncode_SinglePlayer(t *testing.T) {
	enc := mustEncode(t, testStage(t, 1, 1, []byte{byte(tiles.Player)}))

	if len(enc.Objects) != 1 {
		t.Fatalf("objects=%d want 1", len(enc.Objects))
	}
	if got := enc.Objects[0].String(); got != "00000" {
		t.Fatalf("player record=%q want 00000", got)
	}
	if enc.TileCount != 1 {
		t.Fatalf("tile count=%d want 1", enc.TileCount)
	}

	wantPrefix := "3test4unset000599.9999599.9999" + "0" + "01" + "00000" + "01"
	if !strings.HasPrefix(enc.Text, wantPrefix) {
		t.Fatalf("text=%q want prefix %q", enc.Text, wantPrefix)
	}
	if len(enc.Text) != len(wantPrefix)+3*3*2 {
		t.Fatalf("text length=%d want %d", len(enc.Text), len(wantPrefix)+18)
	}

	// The border is all wall; the player cell is untouched.
	if got := enc.Grid.Get(1, 1); got != tiles.Player {
		t.Fatalf("centre=%d want player", got)
	}
	walls := terrain(t, tiles.TerrainWalls)
	if got := enc.Grid.Get(0, 0); got != walls.Remap[33] {
		t.Fatalf("corner=%d want %d", got, walls.Remap[33])
	}
	if got := enc.Grid.Get(1, 0); got != walls.Remap[12] {
		t.Fatalf("top edge=%d want %d", got, walls.Remap[12])
	}
}

func TestEncode_PlayerSlotReservedWithoutPlayer(t *testing.T) {
	enc := mustEncode(t, testStage(t, 2, 1, []byte{byte(tiles.HeartKey), byte(tiles.Floor)}))
	if len(enc.Objects) != 2 {
		t.Fatalf("objects=%d want 2", len(enc.Objects))
	}
	if got := enc.Objects[0].String(); got != "00000" {
		t.Fatalf("placeholder=%q want 00000", got)
	}
	if got := enc.Objects[1].String(); got != "10053" {
		t.Fatalf("heart key=%q want 10053", got)
	}
}

func TestEncode_FixedObjects(t *testing.T) {
	cells := []byte{
		byte(tiles.HeartKey), byte(tiles.DiamondKey), byte(tiles.TriangleKey), byte(tiles.CoinKey),
		byte(tiles.NormalState), byte(tiles.FireState), byte(tiles.IceState), byte(tiles.GenericKey),
		byte(tiles.Bitmask(tiles.ElemOctogem, 6)), byte(tiles.Player),
	}
	enc := mustEncode(t, testStage(t, 10, 1, cells))
	got := make([]string, len(enc.Objects))
	for i, o := range enc.Objects {
		got[i] = o.String()
	}
	expect := []string{"09000", "10053", "21054", "32055", "43056", "640e6", "750e7", "860e8", "9709f", "58006"}
	if strings.Join(got, ",") != strings.Join(expect, ",") {
		t.Fatalf("objects=%v want %v", got, expect)
	}
}

func TestEncode_FloorPortalPairing(t *testing.T) {
	portal := byte(tiles.Bitmask(tiles.ElemPortal, 1))
	enc := mustEncode(t, testStage(t, 3, 1, []byte{portal, byte(tiles.Floor), portal}))
	if len(enc.Objects) != 3 {
		t.Fatalf("objects=%d want 3", len(enc.Objects))
	}
	if got := enc.Objects[1].String(); got != "a2000" {
		t.Fatalf("first link=%q want a2000", got)
	}
	if got := enc.Objects[2].String(); got != "a0020" {
		t.Fatalf("second link=%q want a0020", got)
	}
}

func TestEncode_UnpairedPortalDropped(t *testing.T) {
	red := byte(tiles.Bitmask(tiles.ElemPortal, 0))
	blue := byte(tiles.Bitmask(tiles.ElemPortal, 2))
	enc := mustEncode(t, testStage(t, 4, 1, []byte{red, red, red, blue}))
	portals := 0
	for _, o := range enc.Objects {
		if o.Kind == KindPortal {
			portals++
		}
	}
	if portals != 2 {
		t.Fatalf("portal records=%d want 2 (one pair, two pending)", portals)
	}
}

func TestEncode_ArrowBecomesFloor(t *testing.T) {
	arrow := byte(tiles.Bitmask(tiles.ElemArrow, 2))
	enc := mustEncode(t, testStage(t, 2, 1, []byte{arrow, arrow}))
	if got := enc.Objects[1].String(); got != "b0002" {
		t.Fatalf("arrow=%q want b0002", got)
	}
	if got := enc.Objects[2].String(); got != "b1002" {
		t.Fatalf("arrow=%q want b1002", got)
	}
	if enc.Grid.Get(1, 1) != tiles.Floor || enc.Grid.Get(2, 1) != tiles.DarkFloor {
		t.Fatalf("arrow cells=%d,%d want floor checkerboard", enc.Grid.Get(1, 1), enc.Grid.Get(2, 1))
	}
}

func TestEncode_CheckerboardUsesPaddedCoordinates(t *testing.T) {
	enc := mustEncode(t, testStage(t, 2, 2, []byte{
		byte(tiles.Floor), byte(tiles.Floor),
		byte(tiles.Cracked), byte(tiles.Cracked),
	}))
	cases := []struct{ x, y, want int }{
		{1, 1, tiles.Floor},
		{2, 1, tiles.DarkFloor},
		{1, 2, tiles.Cracked},
		{2, 2, tiles.DarkCracked},
	}
	for _, tc := range cases {
		if got := enc.Grid.Get(tc.x, tc.y); got != tc.want {
			t.Fatalf("(%d,%d)=%d want %d", tc.x, tc.y, got, tc.want)
		}
	}
	if enc.TileCount != 4 {
		t.Fatalf("tile count=%d want 4", enc.TileCount)
	}
}

func TestEncode_SlimeTrapCountsTwice(t *testing.T) {
	enc := mustEncode(t, testStage(t, 3, 1, []byte{byte(tiles.SlimeTrap), 0, byte(tiles.Floor)}))
	if enc.TileCount != 3 {
		t.Fatalf("tile count=%d want 3", enc.TileCount)
	}
}

func TestEncode_LavaAutotile(t *testing.T) {
	cells := make([]byte, 9)
	for i := range cells {
		cells[i] = byte(tiles.Lava)
	}
	enc := mustEncode(t, testStage(t, 3, 3, cells))
	lava := terrain(t, tiles.TerrainLava)
	if got := enc.Grid.Get(2, 2); got != lava.Remap[46] {
		t.Fatalf("centre=%d want %d", got, lava.Remap[46])
	}
	if got := enc.Grid.Get(1, 1); got != lava.Remap[34] {
		t.Fatalf("corner=%d want %d", got, lava.Remap[34])
	}
	for x := 0; x < 5; x++ {
		if v := enc.Grid.Get(x, 0); v == tiles.Void || v == tiles.Lava {
			t.Fatalf("border (%d,0)=%d not walled", x, v)
		}
	}
}

// Each pass only joins cells of its own terrain, and walls written by the
// first pass are left alone by the later ones.
func TestEncode_WaterNextToLava(t *testing.T) {
	enc := mustEncode(t, testStage(t, 4, 1, []byte{
		byte(tiles.Water), byte(tiles.Water), byte(tiles.Lava), byte(tiles.Lava),
	}))
	walls := terrain(t, tiles.TerrainWalls)
	lava := terrain(t, tiles.TerrainLava)
	water := terrain(t, tiles.TerrainWater)

	cases := []struct {
		x, y int
		want int
	}{
		{1, 1, water.Tile(tiles.E)},
		{2, 1, water.Tile(tiles.W)},
		{3, 1, lava.Tile(tiles.E)},
		{4, 1, lava.Tile(tiles.W)},
		// Left border: every neighbour but the water cell to the east is void.
		{0, 1, walls.Tile(0xff &^ tiles.E)},
		{5, 1, walls.Tile(0xff &^ tiles.W)},
	}
	for _, tc := range cases {
		if got := enc.Grid.Get(tc.x, tc.y); got != tc.want {
			t.Fatalf("cell (%d,%d)=%d want %d", tc.x, tc.y, got, tc.want)
		}
	}
	if water.Tile(tiles.E) == lava.Tile(tiles.E) {
		t.Fatalf("water and lava share a tile")
	}
	if enc.TileCount != 4 {
		t.Fatalf("tile count=%d want 4", enc.TileCount)
	}
}

func TestEncode_DefaultStageWithoutData(t *testing.T) {
	st := worldpak.DefaultStage()
	if st.Data != "" {
		t.Fatalf("default stage data=%q want empty", st.Data)
	}
	enc, err := Encode(st, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "6no name8no author" + "0" + "00" + "599.9999599.9999" + "0" + "01" + "00000" + "00"
	if !strings.HasPrefix(enc.Text, want) || len(enc.Text) != len(want)+3*3*2 {
		t.Fatalf("text=%q want %q + 18 grid digits", enc.Text, want)
	}
	walls := terrain(t, tiles.TerrainWalls)
	if got := enc.Grid.Get(1, 1); got != walls.Tile(0xff) {
		t.Fatalf("empty cell=%d want enclosed wall %d", got, walls.Tile(0xff))
	}
}

func TestEncode_Hints(t *testing.T) {
	cells := make([]byte, 9)
	cells[4] = byte(tiles.Player)
	// three moves: east, north, west (south is recorded but past the count)
	replay := []byte{3, 0, 0 | 1<<2 | 2<<4 | 3<<6}
	enc := mustEncode(t, withReplay(t, testStage(t, 3, 3, cells), replay, 10))

	want := []Hint{{0, 1, 1}, {1, 2, 1}, {2, 2, 0}}
	if len(enc.Hints) != len(want) {
		t.Fatalf("hints=%v want %v", enc.Hints, want)
	}
	for i := range want {
		if enc.Hints[i] != want[i] {
			t.Fatalf("hint %d=%v want %v", i, enc.Hints[i], want[i])
		}
	}
	if !strings.Contains(enc.Text, "599.9999"+"3011121220"+"01") {
		t.Fatalf("hint string missing from %q", enc.Text)
	}
}

func TestHintPath_Limits(t *testing.T) {
	replay := []byte{0xff, 0x00}
	for i := 0; i < 8; i++ {
		replay = append(replay, 0)
	}
	if got := len(HintPath(replay, 0, 0, 100)); got != MaxHints {
		t.Fatalf("len=%d want %d", got, MaxHints)
	}
	if got := len(HintPath(replay, 0, 0, 4)); got != 4 {
		t.Fatalf("declared hint count: len=%d want 4", got)
	}
	if got := len(HintPath([]byte{9, 0, 0}, 0, 0, 100)); got != 4 {
		t.Fatalf("decoded directions: len=%d want 4", got)
	}
	if got := len(HintPath([]byte{2, 0, 0}, 0, 0, 100)); got != 2 {
		t.Fatalf("move count: len=%d want 2", got)
	}
	if HintPath([]byte{1}, 0, 0, 5) != nil {
		t.Fatalf("short replay should give no hints")
	}
}

func TestEncode_Errors(t *testing.T) {
	wide := testStage(t, 1, 1, []byte{1})
	wide.Width = 17
	if _, err := Encode(wide, nil); !errors.Is(err, ErrStageTooLarge) {
		t.Fatalf("width 17: err=%v", err)
	}
	tall := testStage(t, 1, 1, []byte{1})
	tall.Height = 16
	if _, err := Encode(tall, nil); !errors.Is(err, ErrStageTooLarge) {
		t.Fatalf("height 16: err=%v", err)
	}
	// -2x-2 still has four cells.
	negative := testStage(t, 1, 1, []byte{1, 1, 1, 1})
	negative.Width, negative.Height = -2, -2
	if _, err := Encode(negative, nil); !errors.Is(err, ErrStageTooLarge) {
		t.Fatalf("-2x-2: err=%v", err)
	}
	negative.Width, negative.Height = 2, -1
	if _, err := Encode(negative, nil); !errors.Is(err, ErrStageTooLarge) {
		t.Fatalf("2x-1: err=%v", err)
	}

	bad := testStage(t, 1, 1, []byte{1})
	bad.Data = "not base64!"
	if _, err := Encode(bad, nil); !errors.Is(err, ErrDecompression) {
		t.Fatalf("bad base64: err=%v", err)
	}
	bad.Data = "AAAAAA=="
	if _, err := Encode(bad, nil); !errors.Is(err, ErrDecompression) {
		t.Fatalf("bad zlib: err=%v", err)
	}

	badReplay := testStage(t, 1, 1, []byte{1})
	badReplay.ReplayData = "AAAAAA=="
	if _, err := Encode(badReplay, nil); !errors.Is(err, ErrDecompression) {
		t.Fatalf("bad replay: err=%v", err)
	}
}

func TestEncode_IgnoresBytesPastStage(t *testing.T) {
	enc := mustEncode(t, testStage(t, 1, 1, []byte{byte(tiles.Player), byte(tiles.HeartKey), byte(tiles.HeartKey)}))
	if len(enc.Objects) != 1 {
		t.Fatalf("objects=%d want 1", len(enc.Objects))
	}
}

func TestEncode_HeaderFields(t *testing.T) {
	st := testStage(t, 16, 1, make([]byte, 16))
	st.Name = "A Very Long Stage Name Indeed"
	st.Author = "Riley"
	st.SaveSlot = 7
	st.TargetTime = 12.3456
	st.DevTime = 5
	enc := mustEncode(t, st)
	if want := "fa very long stag" + "4riley" + "f" + "07" + "012.3456" + "005.0000"; enc.Header != want {
		t.Fatalf("header=%q want %q", enc.Header, want)
	}
}
