package parallel

import "image"

// TileGrid divides an image into tiles, stored row-major.
//
// Thread safety: a TileGrid is immutable after creation.
type TileGrid struct {
	tiles  []Tile
	tilesX int
	tilesY int
	width  int
	height int
}

// NewTileGrid creates the tile grid covering a width×height image.
// Non-positive dimensions yield an empty grid.
func NewTileGrid(width, height int) *TileGrid {
	if width <= 0 || height <= 0 {
		return &TileGrid{}
	}

	tilesX := (width + TileWidth - 1) / TileWidth
	tilesY := (height + TileHeight - 1) / TileHeight

	g := &TileGrid{
		tiles:  make([]Tile, 0, tilesX*tilesY),
		tilesX: tilesX,
		tilesY: tilesY,
		width:  width,
		height: height,
	}
	for ty := range tilesY {
		for tx := range tilesX {
			x0, y0 := tx*TileWidth, ty*TileHeight
			x1 := min(x0+TileWidth, width)
			y1 := min(y0+TileHeight, height)
			g.tiles = append(g.tiles, Tile{
				Col:    tx,
				Row:    ty,
				Bounds: image.Rect(x0, y0, x1, y1),
			})
		}
	}
	return g
}

// Len returns the number of tiles.
func (g *TileGrid) Len() int { return len(g.tiles) }

// TilesX returns the number of tile columns.
func (g *TileGrid) TilesX() int { return g.tilesX }

// TilesY returns the number of tile rows.
func (g *TileGrid) TilesY() int { return g.tilesY }

// Size returns the image dimensions covered by the grid.
func (g *TileGrid) Size() (width, height int) { return g.width, g.height }

// TileAt returns the tile at column tx and row ty.
// The second result is false if the indices are out of range.
func (g *TileGrid) TileAt(tx, ty int) (Tile, bool) {
	if tx < 0 || tx >= g.tilesX || ty < 0 || ty >= g.tilesY {
		return Tile{}, false
	}
	return g.tiles[ty*g.tilesX+tx], true
}

// ForEach calls fn for each tile in row-major order.
func (g *TileGrid) ForEach(fn func(Tile)) {
	for _, t := range g.tiles {
		fn(t)
	}
}
