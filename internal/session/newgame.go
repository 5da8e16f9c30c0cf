package session

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/darkcave/internal/entity"
	"github.com/samdwyer/darkcave/internal/gamedata"
	"github.com/samdwyer/darkcave/internal/telemetry"
	"github.com/samdwyer/darkcave/internal/world"
)

// WelcomeMessage is the first line of every new game's message log.
const WelcomeMessage = "Hello and welcome, adventurer, to yet another dungeon!"

// Generator lays out a freshly allocated dungeon.
type Generator func(ctx context.Context, d *world.Dungeon) error

// Initializer builds new sessions. It holds only read-only templates, so one
// Initializer can build any number of independent games.
type Initializer struct {
	Items      *gamedata.ItemRegistry
	Enemies    *gamedata.EnemyRegistry // nil leaves the dungeon empty
	Background entity.Background       // Starting kit
	Width      int                     // Map width, world.DefaultWidth when zero
	Height     int                     // Map height, world.DefaultHeight when zero
	Seed       int64                   // Map seed; 0 picks a new seed per game
	Generate   Generator               // Layout step, (*world.Dungeon).Generate when nil
}

// NewGame returns a brand new session for a character called name.
// Errors from any step are returned unhandled; the caller decides how to
// report them.
func (in *Initializer) NewGame(ctx context.Context, name string) (*Session, error) {
	tracer := telemetry.Tracer("session")
	ctx, span := tracer.Start(ctx, "session.new_game")
	defer span.End()
	span.SetAttributes(attribute.String("background", in.Background.String()))

	player := entity.NewPlayer()
	if err := player.SetName(name); err != nil {
		return nil, telemetry.Fail(span, err)
	}

	width, height := in.Width, in.Height
	if width == 0 {
		width = world.DefaultWidth
	}
	if height == 0 {
		height = world.DefaultHeight
	}

	seed := in.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	span.SetAttributes(attribute.Int64("seed", seed))

	dungeon := world.NewDungeon(width, height, rng)
	generate := in.Generate
	if generate == nil {
		generate = func(ctx context.Context, d *world.Dungeon) error { return d.Generate(ctx) }
	}
	if err := generate(ctx, dungeon); err != nil {
		return nil, telemetry.Fail(span, fmt.Errorf("generate dungeon: %w", err))
	}
	player.SetPosition(dungeon.StartPosition())

	s := &Session{
		ID:       uuid.New(),
		Player:   player,
		Dungeon:  dungeon,
		Monsters: in.spawnMonsters(dungeon, rng),
		Log:      NewMessageLog(),
	}

	s.UpdateFOV()
	s.Log.Add(WelcomeMessage, gamedata.ColorWelcomeText)

	if err := in.giveStartingKit(player); err != nil {
		return nil, telemetry.Fail(span, err)
	}

	span.SetAttributes(
		attribute.Int("dungeon.rooms", len(dungeon.Rooms)),
		attribute.Int("monsters", len(s.Monsters)),
		attribute.Int("inventory", len(player.Inventory.Items)),
	)
	return s, nil
}

// spawnMonsters places one monster in every room except the starting room.
func (in *Initializer) spawnMonsters(d *world.Dungeon, rng *rand.Rand) []*entity.Monster {
	monsters := []*entity.Monster{}
	if in.Enemies == nil {
		return monsters
	}
	for i := 1; i < len(d.Rooms); i++ {
		def := in.Enemies.SpawnRandom(rng)
		if def == nil {
			break
		}
		x, y := d.RandomPointInRoom(i)
		monsters = append(monsters, entity.NewMonsterFromDef(def, x, y, i))
	}
	return monsters
}

// giveStartingKit instantiates the background's items and wears the weapon
// and armor without announcing it.
func (in *Initializer) giveStartingKit(p *entity.Player) error {
	kit := in.Background.Kit()
	for _, id := range []string{kit.Weapon, kit.Consumable, kit.Armor} {
		if id == "" {
			continue
		}
		if in.Items == nil {
			return fmt.Errorf("no item templates for starting item %q", id)
		}
		def := in.Items.GetByID(id)
		if def == nil {
			return fmt.Errorf("unknown starting item %q", id)
		}

		item := entity.NewItemFromDef(def)
		if err := p.AddItem(item); err != nil {
			return fmt.Errorf("add starting item %q: %w", id, err)
		}
		if id == kit.Weapon || id == kit.Armor {
			if err := p.ToggleEquip(item, nil); err != nil {
				return fmt.Errorf("equip starting item %q: %w", id, err)
			}
		}
	}
	return nil
}
