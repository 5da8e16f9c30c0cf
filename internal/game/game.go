// Package game runs the main loop: it renders the current state, waits for one
// input event and hands it to the menu state machine or the gameplay handler.
package game

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/darkcave/internal/gamedata"
	"github.com/samdwyer/darkcave/internal/menu"
	"github.com/samdwyer/darkcave/internal/savegame"
	"github.com/samdwyer/darkcave/internal/session"
	"github.com/samdwyer/darkcave/internal/telemetry"
	"github.com/samdwyer/darkcave/internal/ui"
)

// Terminal is the screen the game draws on and reads input from.
type Terminal interface {
	ui.Surface
	PollEvent() tcell.Event
	Sync()
	Close()
}

// Game holds the current handler state and the services it drives.
type Game struct {
	term     Terminal
	renderer *ui.Renderer
	machine  *menu.Machine
	store    *savegame.Store
	logger   *log.Logger
	state    menu.State
}

// New creates a game on the real terminal.
func New(cfg Config, logger *log.Logger) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	g, err := NewWithTerminal(cfg, screen, logger)
	if err != nil {
		screen.Close()
		return nil, err
	}
	return g, nil
}

// NewWithTerminal creates a game drawing on term.
func NewWithTerminal(cfg Config, term Terminal, logger *log.Logger) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	items, err := gamedata.LoadItemRegistry()
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	enemies, err := gamedata.LoadEnemyRegistry()
	if err != nil {
		return nil, fmt.Errorf("load enemies: %w", err)
	}

	store, err := NewStore(cfg)
	if err != nil {
		return nil, err
	}

	initializer := &session.Initializer{
		Items:      items,
		Enemies:    enemies,
		Background: cfg.StartingBackground(),
		Width:      cfg.MapWidth,
		Height:     cfg.MapHeight,
		Seed:       cfg.Seed,
	}

	return &Game{
		term:     term,
		renderer: ui.NewRenderer(term),
		machine:  menu.NewMachine(store, initializer, logger),
		store:    store,
		logger:   logger,
		state:    menu.MainMenu(),
	}, nil
}

// NewStore opens the save store described by cfg.
func NewStore(cfg Config) (*savegame.Store, error) {
	codec, err := savegame.NewCodec()
	if err != nil {
		return nil, err
	}
	return savegame.NewStore(cfg.SavesDir, cfg.SaveExt, codec)
}

// State returns the current handler state.
func (g *Game) State() menu.State {
	return g.state
}

// Run executes the main loop until the player quits. Every state change is
// rendered before the next event is read.
func (g *Game) Run(ctx context.Context) error {
	ctx, span := telemetry.Tracer("game").Start(ctx, "game.run")
	defer span.End()
	defer g.term.Close()

	for g.state.Mode != menu.ModeTerminated {
		g.renderer.Render(g.state)

		ev := g.term.PollEvent()
		if ev == nil {
			// Screen finalized underneath us.
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			g.handleKey(ctx, ev)
		case *tcell.EventResize:
			g.term.Sync()
		}
	}

	span.SetAttributes(attribute.String("exit", "quit"))
	return nil
}

// handleKey routes one key to whichever handler owns input.
func (g *Game) handleKey(ctx context.Context, ev *tcell.EventKey) {
	before := g.state.Mode
	if before == menu.ModeGameplay {
		g.state = g.play(ctx, g.state.Session, ev)
	} else {
		g.state = g.machine.Next(ctx, g.state, ev)
	}
	if g.state.Mode != before {
		g.logger.Printf("state %s -> %s", before, g.state.Mode)
	}
}
