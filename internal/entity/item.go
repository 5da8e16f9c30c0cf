// Package entity provides the player character, items and monsters.
package entity

import (
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/samdwyer/darkcave/internal/gamedata"
)

// Item is a single owned object instantiated from an ItemDef.
// Every Item has its own identity; two items made from the same definition
// never share storage.
type Item struct {
	ID    uuid.UUID         // Instance identity, used by equipment slots
	DefID string            // Template identifier (e.g., "bow")
	Name  string            // Display name
	Glyph rune              // Display symbol
	Color string            // Hex color code
	Kind  gamedata.ItemKind // Weapon, armor or consumable
	Power int               // Attack/defense bonus or remaining uses
}

// NewItemFromDef creates a fresh item from a data-driven definition.
func NewItemFromDef(def *gamedata.ItemDef) *Item {
	return &Item{
		ID:    uuid.New(),
		DefID: def.ID,
		Name:  def.Name,
		Glyph: def.GlyphRune(),
		Color: def.Color,
		Kind:  def.Kind,
		Power: def.Power,
	}
}

// TCellColor returns the item's display color.
func (i *Item) TCellColor() tcell.Color {
	return gamedata.ColorOr(i.Color, tcell.ColorWhite)
}
