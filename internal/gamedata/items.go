package gamedata

// ItemKind classifies what an item is used for.
type ItemKind string

const (
	KindWeapon     ItemKind = "weapon"
	KindArmor      ItemKind = "armor"
	KindConsumable ItemKind = "consumable"
)

// Equippable reports whether items of this kind occupy an equipment slot.
func (k ItemKind) Equippable() bool {
	return k == KindWeapon || k == KindArmor
}

// ItemDef defines an item template loaded from JSON.
type ItemDef struct {
	ID    string   `json:"id"`    // Unique identifier (e.g., "bow")
	Name  string   `json:"name"`  // Display name (e.g., "Bow")
	Glyph string   `json:"glyph"` // Single character for rendering
	Color string   `json:"color"` // Hex color code
	Kind  ItemKind `json:"kind"`
	Power int      `json:"power"` // Attack bonus for weapons, defense bonus for armor, uses for consumables
}

// GlyphRune returns the glyph as a rune for rendering.
func (d *ItemDef) GlyphRune() rune {
	if len(d.Glyph) == 0 {
		return '?'
	}
	return rune(d.Glyph[0])
}

// ItemsFile represents the structure of items.json.
type ItemsFile struct {
	Items []ItemDef `json:"items"`
}

// LoadItems loads item definitions from the embedded items.json file.
func LoadItems() ([]ItemDef, error) {
	file, err := Load[ItemsFile]("items.json")
	if err != nil {
		return nil, err
	}
	return file.Items, nil
}
