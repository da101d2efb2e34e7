// Package parallel provides the tile-based parallel evaluation used by the
// CPU gradient renderer.
//
// The output image is divided into 64x64 pixel tiles that are shaded
// independently on a WorkerPool. Tiles write to disjoint pixel ranges of
// the shared destination, so the only synchronization is the completion
// barrier of WorkerPool.ExecuteAll.
package parallel

import "image"

// Tile size constants chosen so one tile of RGBA output (16KB) fits in L1.
const (
	// TileWidth is the width of a tile in pixels.
	TileWidth = 64

	// TileHeight is the height of a tile in pixels.
	TileHeight = 64
)

// Tile is a rectangular region of the output image.
// Edge tiles are smaller when the image size is not a multiple of the
// tile size.
type Tile struct {
	// Col is the tile column index (0-based).
	Col int

	// Row is the tile row index (0-based).
	Row int

	// Bounds is the pixel rectangle covered by the tile.
	Bounds image.Rectangle
}

// Pixels returns the number of pixels covered by the tile.
func (t Tile) Pixels() int {
	return t.Bounds.Dx() * t.Bounds.Dy()
}
