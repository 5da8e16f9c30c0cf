package entity

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/darkcave/internal/gamedata"
)

// Monster is a hostile creature placed in the dungeon.
type Monster struct {
	DefID     string // Definition identifier (e.g., "goblin")
	Name      string // Display name
	Symbol    rune   // Display symbol
	Color     string // Hex color code
	X, Y      int    // Position in the dungeon
	RoomIndex int    // Index of the room this monster spawned in (-1 if none)
	HP        int    // Current hit points
	MaxHP     int    // Maximum hit points
	Attack    int
	Defense   int
}

// NewMonsterFromDef creates a new monster from a data-driven definition.
func NewMonsterFromDef(def *gamedata.EnemyDef, x, y, roomIndex int) *Monster {
	return &Monster{
		DefID:     def.ID,
		Name:      def.Name,
		Symbol:    def.GlyphRune(),
		Color:     def.Color,
		X:         x,
		Y:         y,
		RoomIndex: roomIndex,
		HP:        def.HP,
		MaxHP:     def.HP,
		Attack:    def.Attack,
		Defense:   def.Defense,
	}
}

// Position returns the monster's current x, y coordinates.
func (m *Monster) Position() (int, int) {
	return m.X, m.Y
}

// IsAlive returns true if the monster has HP remaining.
func (m *Monster) IsAlive() bool { return m.HP > 0 }

// TCellColor returns the monster's display color.
func (m *Monster) TCellColor() tcell.Color {
	return gamedata.ColorOr(m.Color, tcell.ColorPurple)
}
