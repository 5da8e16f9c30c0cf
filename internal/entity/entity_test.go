package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/samdwyer/darkcave/internal/gamedata"
)

func newTestItem(kind gamedata.ItemKind, name string) *Item {
	return NewItemFromDef(&gamedata.ItemDef{
		ID:    strings.ToLower(name),
		Name:  name,
		Glyph: "/",
		Kind:  kind,
		Power: 2,
	})
}

func TestBackgroundKits(t *testing.T) {
	tests := []struct {
		bg         Background
		name       string
		weapon     string
		armor      string
		consumable string
	}{
		{Barbarian, "Barbarian", "sword", "chain_mail", ""},
		{Ranger, "Ranger", "bow", "leather_armor", "arrow"},
		{Wizard, "Wizard", "staff", "robe", ""},
	}

	for _, tt := range tests {
		kit := tt.bg.Kit()
		if kit.Name != tt.name || kit.Weapon != tt.weapon || kit.Armor != tt.armor || kit.Consumable != tt.consumable {
			t.Errorf("%v.Kit() = %+v, want {%s %s %s %s}", tt.bg, kit, tt.name, tt.weapon, tt.armor, tt.consumable)
		}
		if got := tt.bg.String(); got != tt.name {
			t.Errorf("%d.String() = %q, want %q", tt.bg, got, tt.name)
		}
	}

	if got := Background(99).String(); got != "Unknown" {
		t.Errorf("Background(99).String() = %q, want %q", got, "Unknown")
	}
}

func TestParseBackground(t *testing.T) {
	bg, err := ParseBackground(" wizard ")
	if err != nil {
		t.Fatalf("ParseBackground() error = %v", err)
	}
	if bg != Wizard {
		t.Errorf("ParseBackground(\"wizard\") = %v, want Wizard", bg)
	}
	if _, err := ParseBackground("bard"); err == nil {
		t.Error("ParseBackground(\"bard\") should fail")
	}
}

func TestNewPlayerIsFresh(t *testing.T) {
	a, b := NewPlayer(), NewPlayer()
	if err := a.AddItem(newTestItem(gamedata.KindWeapon, "Sword")); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if len(b.Inventory.Items) != 0 {
		t.Errorf("second player inventory length = %d, want 0", len(b.Inventory.Items))
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"", false},
		{"A", true},
		{strings.Repeat("x", MaxNameLength), true},
		{strings.Repeat("x", MaxNameLength+1), false},
		{strings.Repeat("é", MaxNameLength), true},
	}
	for _, tt := range tests {
		err := ValidateName(tt.name)
		if tt.valid && err != nil {
			t.Errorf("ValidateName(%q) error = %v, want nil", tt.name, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", tt.name)
		}
	}
}

func TestToggleEquipKeepsInventory(t *testing.T) {
	p := NewPlayer()
	bow := newTestItem(gamedata.KindWeapon, "Bow")
	if err := p.AddItem(bow); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	var messages []string
	notify := func(msg string) { messages = append(messages, msg) }

	if err := p.ToggleEquip(bow, notify); err != nil {
		t.Fatalf("ToggleEquip() error = %v", err)
	}
	if !p.IsEquipped(bow) {
		t.Error("bow should be equipped")
	}
	if len(p.Inventory.Items) != 1 || p.Inventory.Items[0] != bow {
		t.Errorf("inventory after equip = %v, want [bow]", p.Inventory.Items)
	}
	if len(messages) != 1 || messages[0] != "You equip the Bow." {
		t.Errorf("messages = %q, want [You equip the Bow.]", messages)
	}

	if err := p.ToggleEquip(bow, notify); err != nil {
		t.Fatalf("ToggleEquip() second call error = %v", err)
	}
	if p.IsEquipped(bow) {
		t.Error("bow should be unequipped after second toggle")
	}
	if len(p.Inventory.Items) != 1 {
		t.Errorf("inventory length after unequip = %d, want 1", len(p.Inventory.Items))
	}
	if messages[len(messages)-1] != "You remove the Bow." {
		t.Errorf("last message = %q, want %q", messages[len(messages)-1], "You remove the Bow.")
	}
}

func TestToggleEquipSilent(t *testing.T) {
	p := NewPlayer()
	armor := newTestItem(gamedata.KindArmor, "Robe")
	_ = p.AddItem(armor)

	if err := p.ToggleEquip(armor, nil); err != nil {
		t.Fatalf("ToggleEquip() error = %v", err)
	}
	if p.EquippedArmor() != armor {
		t.Error("EquippedArmor() should return the robe")
	}
	if p.DefensePower() != p.Defense+armor.Power {
		t.Errorf("DefensePower() = %d, want %d", p.DefensePower(), p.Defense+armor.Power)
	}
}

func TestToggleEquipReplacesSlot(t *testing.T) {
	p := NewPlayer()
	sword := newTestItem(gamedata.KindWeapon, "Sword")
	staff := newTestItem(gamedata.KindWeapon, "Staff")
	_ = p.AddItem(sword)
	_ = p.AddItem(staff)

	_ = p.ToggleEquip(sword, nil)
	var messages []string
	_ = p.ToggleEquip(staff, func(m string) { messages = append(messages, m) })

	if p.EquippedWeapon() != staff {
		t.Error("EquippedWeapon() should be the staff")
	}
	want := []string{"You remove the Sword.", "You equip the Staff."}
	if strings.Join(messages, "|") != strings.Join(want, "|") {
		t.Errorf("messages = %q, want %q", messages, want)
	}
}

func TestToggleEquipErrors(t *testing.T) {
	p := NewPlayer()
	arrow := newTestItem(gamedata.KindConsumable, "Arrow")
	_ = p.AddItem(arrow)
	if err := p.ToggleEquip(arrow, nil); !errors.Is(err, ErrNotEquippable) {
		t.Errorf("ToggleEquip(consumable) error = %v, want ErrNotEquippable", err)
	}

	stray := newTestItem(gamedata.KindWeapon, "Dagger")
	if err := p.ToggleEquip(stray, nil); !errors.Is(err, ErrNotInInventory) {
		t.Errorf("ToggleEquip(not carried) error = %v, want ErrNotInInventory", err)
	}
}

func TestAddItemCapacity(t *testing.T) {
	p := NewPlayer()
	p.Inventory.Capacity = 1
	if err := p.AddItem(newTestItem(gamedata.KindArmor, "Robe")); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if err := p.AddItem(newTestItem(gamedata.KindArmor, "Mail")); !errors.Is(err, ErrInventoryFull) {
		t.Errorf("AddItem() over capacity error = %v, want ErrInventoryFull", err)
	}
}

func TestPlayerValidate(t *testing.T) {
	p := NewPlayer()
	sword := newTestItem(gamedata.KindWeapon, "Sword")
	_ = p.AddItem(sword)
	_ = p.ToggleEquip(sword, nil)
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	p.Equipment.Armor = uuid.New()
	if err := p.Validate(); !errors.Is(err, ErrNotInInventory) {
		t.Errorf("Validate() with dangling armor = %v, want ErrNotInInventory", err)
	}

	p.Equipment.Armor = sword.ID
	if err := p.Validate(); err == nil {
		t.Error("Validate() with a weapon in the armor slot should fail")
	}

	p.Equipment.Armor = uuid.Nil
	p.Inventory.Items = append(p.Inventory.Items, sword)
	if err := p.Validate(); err == nil {
		t.Error("Validate() with a duplicated item should fail")
	}
}

func TestNewMonsterFromDef(t *testing.T) {
	def := &gamedata.EnemyDef{ID: "orc", Name: "Orc", Glyph: "o", Color: "#3F7F3F", HP: 14, Attack: 4, Defense: 1}
	m := NewMonsterFromDef(def, 3, 4, 2)

	if m.Symbol != 'o' || m.HP != 14 || m.MaxHP != 14 || m.RoomIndex != 2 {
		t.Errorf("NewMonsterFromDef() = %+v", m)
	}
	if x, y := m.Position(); x != 3 || y != 4 {
		t.Errorf("Position() = (%d,%d), want (3,4)", x, y)
	}
	if !m.IsAlive() {
		t.Error("new monster should be alive")
	}
}
