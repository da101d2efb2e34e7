package parallel

import (
	"image"
	"testing"
)

func TestNewTileGrid_Dimensions(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		tilesX, tilesY int
	}{
		{"exact", 128, 64, 2, 1},
		{"partial edge", 130, 65, 3, 2},
		{"single pixel", 1, 1, 1, 1},
		{"smaller than tile", 10, 20, 1, 1},
		{"empty", 0, 100, 0, 0},
		{"negative", -5, 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewTileGrid(tt.width, tt.height)
			if g.TilesX() != tt.tilesX || g.TilesY() != tt.tilesY {
				t.Errorf("tiles = %dx%d, want %dx%d", g.TilesX(), g.TilesY(), tt.tilesX, tt.tilesY)
			}
			if g.Len() != tt.tilesX*tt.tilesY {
				t.Errorf("Len() = %d, want %d", g.Len(), tt.tilesX*tt.tilesY)
			}
		})
	}
}

func TestTileGrid_CoversImageExactlyOnce(t *testing.T) {
	const w, h = 150, 97
	g := NewTileGrid(w, h)

	covered := make([]int, w*h)
	g.ForEach(func(tile Tile) {
		for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
			for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
				covered[y*w+x]++
			}
		}
	})
	for i, n := range covered {
		if n != 1 {
			t.Fatalf("pixel (%d, %d) covered %d times, want 1", i%w, i/w, n)
		}
	}
}

func TestTileGrid_TileAt(t *testing.T) {
	g := NewTileGrid(130, 70)

	tile, ok := g.TileAt(2, 1)
	if !ok {
		t.Fatal("TileAt(2, 1) not found")
	}
	want := image.Rect(128, 64, 130, 70)
	if tile.Bounds != want {
		t.Errorf("Bounds = %v, want %v", tile.Bounds, want)
	}
	if tile.Pixels() != 2*6 {
		t.Errorf("Pixels() = %d, want 12", tile.Pixels())
	}

	if _, ok := g.TileAt(3, 0); ok {
		t.Error("TileAt(3, 0) should be out of range")
	}
	if _, ok := g.TileAt(-1, 0); ok {
		t.Error("TileAt(-1, 0) should be out of range")
	}
}
