// Package world provides dungeon generation, map state and field of view.
package world

// Tile represents a single map tile.
type Tile rune

const (
	// TileWall represents an impassable wall tile.
	TileWall Tile = '#'
	// TileFloor represents a passable floor tile.
	TileFloor Tile = '.'
)

// IsPassable returns true if the tile can be walked on.
func (t Tile) IsPassable() bool {
	return t == TileFloor
}

// BlocksSight returns true if the tile stops line of sight.
func (t Tile) BlocksSight() bool {
	return !t.IsPassable()
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}

// Valid reports whether t is one of the known tile kinds.
func (t Tile) Valid() bool {
	return t == TileWall || t == TileFloor
}
