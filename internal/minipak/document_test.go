package minipak

import (
	"strings"
	"testing"

	"minipak.dev/internal/config"
	"minipak.dev/internal/stage"
	"minipak.dev/internal/tiles"
)

func TestLevelDocument_Layout(t *testing.T) {
	b := &Build{
		PakID:            "cart",
		BeatRequirements: "05",
		Worlds: [][]StageBuild{
			{{Encoded: &stage.Encoded{Text: "a"}}, {Encoded: &stage.Encoded{Text: "b"}}},
			{{Encoded: &stage.Encoded{Text: "c"}}},
		},
	}
	want := "g_cart_name = \"cart\"\r\n" +
		"g_w_req = \"05\"\r\n" +
		"g_levels = {\r\n" +
		"{\r\n\"a\",\r\n\"b\"\r\n},\r\n" +
		"{\r\n\"c\"\r\n}\r\n" +
		"}"
	if got := b.LevelDocument(); got != want {
		t.Fatalf("document=%q want %q", got, want)
	}
}

func TestLevelDocument_FromConvert(t *testing.T) {
	var c Converter
	b, err := c.Convert(testPak(t, []int{3}))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	doc := b.LevelDocument()
	line := "\"" + b.Worlds[0][0].Encoded.Text + "\"\r\n"
	if !strings.Contains(doc, line) {
		t.Fatalf("document missing stage line %q", line)
	}
	if !strings.HasPrefix(doc, "g_cart_name = \"pak1\"\r\ng_w_req = \"0\"\r\n") {
		t.Fatalf("document header=%q", doc)
	}
}

func TestMapImage_PlacesQuads(t *testing.T) {
	rules := tiles.Build()
	m := MapImage(rules)
	if m.Width() != mapWidth || m.Height() != mapHeight {
		t.Fatalf("size=%dx%d want %dx%d", m.Width(), m.Height(), mapWidth, mapHeight)
	}
	for _, idx := range []int{0, 1, 17, 33, 255} {
		x, y := idx/16, idx%16
		px, py := (mapColumn+x)*2, y*2
		q := rules.Quad(idx)
		got := tiles.Quad{m.Get(px, py), m.Get(px+1, py), m.Get(px, py+1), m.Get(px+1, py+1)}
		if got != q {
			t.Fatalf("quad %d at (%d,%d)=%v want %v", idx, px, py, got, q)
		}
	}
	for y := 0; y < mapHeight; y++ {
		for x := 0; x < mapColumn*2; x++ {
			if v := m.Get(x, y); v != 0 {
				t.Fatalf("cell (%d,%d)=%d want 0 left of the rule block", x, y, v)
			}
		}
	}
}

func TestMapDocument_Format(t *testing.T) {
	cfg := config.Defaults()
	doc := MapDocument(nil, cfg)
	header := "pico-8 cartridge // http://www.pico-8.com\r\nversion 42\r\n__map__\r\n"
	if !strings.HasPrefix(doc, header) {
		t.Fatalf("header=%q", doc[:min(len(doc), len(header))])
	}
	rows := strings.Split(strings.TrimSuffix(doc[len(header):], "\r\n"), "\r\n")
	if len(rows) != mapHeight {
		t.Fatalf("rows=%d want %d", len(rows), mapHeight)
	}
	for i, r := range rows {
		if len(r) != mapWidth*2 {
			t.Fatalf("row %d len=%d want %d", i, len(r), mapWidth*2)
		}
	}

	cfg.CartVersion = 41
	if !strings.Contains(MapDocument(nil, cfg), "\r\nversion 41\r\n") {
		t.Fatalf("cart version not applied")
	}
}
