package entity

import (
	"fmt"
	"strings"
)

// Background is a starting archetype chosen at character creation.
type Background int

const (
	Barbarian Background = iota
	Ranger
	Wizard
)

// Kit is the fixed starting equipment of a background. Item fields hold
// gamedata item IDs; Consumable is empty when the kit has none.
type Kit struct {
	Name       string
	Weapon     string
	Armor      string
	Consumable string
}

var kits = [...]Kit{
	Barbarian: {Name: "Barbarian", Weapon: "sword", Armor: "chain_mail"},
	Ranger:    {Name: "Ranger", Weapon: "bow", Armor: "leather_armor", Consumable: "arrow"},
	Wizard:    {Name: "Wizard", Weapon: "staff", Armor: "robe"},
}

// Backgrounds returns every background in declaration order.
func Backgrounds() []Background {
	return []Background{Barbarian, Ranger, Wizard}
}

// Kit returns the background's starting kit. Unknown values yield the zero Kit.
func (b Background) Kit() Kit {
	if b < 0 || int(b) >= len(kits) {
		return Kit{}
	}
	return kits[b]
}

// String returns the background's display name.
func (b Background) String() string {
	if name := b.Kit().Name; name != "" {
		return name
	}
	return "Unknown"
}

// ParseBackground resolves a background by case-insensitive name.
func ParseBackground(name string) (Background, error) {
	for _, b := range Backgrounds() {
		if strings.EqualFold(b.String(), strings.TrimSpace(name)) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown background %q", name)
}
