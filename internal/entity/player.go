package entity

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/samdwyer/darkcave/internal/gamedata"
)

const (
	// MaxNameLength is the longest character name, in runes.
	MaxNameLength = 15

	// DefaultInventoryCapacity is the number of items a new player can carry.
	DefaultInventoryCapacity = 26
)

var (
	ErrInventoryFull  = errors.New("inventory is full")
	ErrNotEquippable  = errors.New("item cannot be equipped")
	ErrNotInInventory = errors.New("item is not in the inventory")
)

// Inventory is the ordered list of items the player carries.
type Inventory struct {
	Capacity int
	Items    []*Item
}

// Equipment records which inventory items are worn. A slot holds the ID of an
// item in the inventory, or uuid.Nil when empty; equipping never moves items.
type Equipment struct {
	Weapon uuid.UUID
	Armor  uuid.UUID
}

// Player is the character controlled by the user.
type Player struct {
	Name    string
	Symbol  rune
	X, Y    int
	HP      int
	MaxHP   int
	Attack  int
	Defense int

	Inventory Inventory
	Equipment Equipment
}

// NewPlayer creates a player from the baseline template. Each call builds
// fresh storage.
func NewPlayer() *Player {
	return &Player{
		Name:    "Player",
		Symbol:  '@',
		HP:      30,
		MaxHP:   30,
		Attack:  2,
		Defense: 1,
		Inventory: Inventory{
			Capacity: DefaultInventoryCapacity,
			Items:    make([]*Item, 0, DefaultInventoryCapacity),
		},
	}
}

// ValidateName checks a character name against the length rules.
func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 {
		return errors.New("name is empty")
	}
	if n > MaxNameLength {
		return fmt.Errorf("name %q is longer than %d characters", name, MaxNameLength)
	}
	return nil
}

// SetName assigns the character name.
func (p *Player) SetName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	p.Name = name
	return nil
}

// Position returns the player's current x, y coordinates.
func (p *Player) Position() (int, int) {
	return p.X, p.Y
}

// SetPosition places the player.
func (p *Player) SetPosition(x, y int) {
	p.X = x
	p.Y = y
}

// Move updates the player position by the given delta.
func (p *Player) Move(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// AddItem appends an item to the end of the inventory.
func (p *Player) AddItem(item *Item) error {
	if len(p.Inventory.Items) >= p.Inventory.Capacity {
		return ErrInventoryFull
	}
	p.Inventory.Items = append(p.Inventory.Items, item)
	return nil
}

// ItemByID returns the inventory item with the given ID, or nil.
func (p *Player) ItemByID(id uuid.UUID) *Item {
	if id == uuid.Nil {
		return nil
	}
	for _, item := range p.Inventory.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// EquippedWeapon returns the worn weapon, or nil.
func (p *Player) EquippedWeapon() *Item {
	return p.ItemByID(p.Equipment.Weapon)
}

// EquippedArmor returns the worn armor, or nil.
func (p *Player) EquippedArmor() *Item {
	return p.ItemByID(p.Equipment.Armor)
}

// IsEquipped reports whether item occupies an equipment slot.
func (p *Player) IsEquipped(item *Item) bool {
	if item == nil {
		return false
	}
	return p.Equipment.Weapon == item.ID || p.Equipment.Armor == item.ID
}

// ToggleEquip wears item, or takes it off if already worn. Equipping an item
// replaces whatever was in its slot. notify receives the player-facing
// message; pass nil to equip silently.
func (p *Player) ToggleEquip(item *Item, notify func(string)) error {
	if item == nil || !item.Kind.Equippable() {
		return ErrNotEquippable
	}
	if p.ItemByID(item.ID) == nil {
		return ErrNotInInventory
	}

	slot := &p.Equipment.Armor
	if item.Kind == gamedata.KindWeapon {
		slot = &p.Equipment.Weapon
	}

	if *slot == item.ID {
		*slot = uuid.Nil
		if notify != nil {
			notify(fmt.Sprintf("You remove the %s.", item.Name))
		}
		return nil
	}

	if previous := p.ItemByID(*slot); previous != nil && notify != nil {
		notify(fmt.Sprintf("You remove the %s.", previous.Name))
	}
	*slot = item.ID
	if notify != nil {
		notify(fmt.Sprintf("You equip the %s.", item.Name))
	}
	return nil
}

// AttackPower returns base attack plus the worn weapon's bonus.
func (p *Player) AttackPower() int {
	if w := p.EquippedWeapon(); w != nil {
		return p.Attack + w.Power
	}
	return p.Attack
}

// DefensePower returns base defense plus the worn armor's bonus.
func (p *Player) DefensePower() int {
	if a := p.EquippedArmor(); a != nil {
		return p.Defense + a.Power
	}
	return p.Defense
}

// Validate checks the player's structural invariants: a valid name, a bounded
// inventory without nil or duplicate items, and equipment that refers only to
// carried items of the right kind.
func (p *Player) Validate() error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}
	if p.Inventory.Capacity < 0 || len(p.Inventory.Items) > p.Inventory.Capacity {
		return fmt.Errorf("inventory holds %d items, capacity %d", len(p.Inventory.Items), p.Inventory.Capacity)
	}

	seen := make(map[uuid.UUID]bool, len(p.Inventory.Items))
	for i, item := range p.Inventory.Items {
		if item == nil {
			return fmt.Errorf("inventory slot %d is empty", i)
		}
		if seen[item.ID] {
			return fmt.Errorf("inventory contains item %s twice", item.ID)
		}
		seen[item.ID] = true
	}

	if err := p.checkSlot("weapon", p.Equipment.Weapon, gamedata.KindWeapon); err != nil {
		return err
	}
	return p.checkSlot("armor", p.Equipment.Armor, gamedata.KindArmor)
}

func (p *Player) checkSlot(slot string, id uuid.UUID, kind gamedata.ItemKind) error {
	if id == uuid.Nil {
		return nil
	}
	item := p.ItemByID(id)
	if item == nil {
		return fmt.Errorf("%s slot refers to %s: %w", slot, id, ErrNotInInventory)
	}
	if item.Kind != kind {
		return fmt.Errorf("%s slot holds a %s", slot, item.Kind)
	}
	return nil
}
