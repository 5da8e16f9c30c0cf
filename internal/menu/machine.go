package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime/debug"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/darkcave/internal/savegame"
	"github.com/samdwyer/darkcave/internal/session"
)

// Popup texts.
const (
	MsgNoSavedGame   = "No saved game to load."
	msgLoadFailed    = "Failed to load save:\n%v"
	msgNewGameFailed = "Failed to start new game:\n%v"
)

// Saves is the storage the menu loads games from.
type Saves interface {
	List() []string
	Load(ctx context.Context, name string) (*session.Session, error)
}

// GameFactory builds new sessions.
type GameFactory interface {
	NewGame(ctx context.Context, name string) (*session.Session, error)
}

// Machine computes menu transitions. It is the only place where load and
// new-game failures are turned into popups.
type Machine struct {
	saves  Saves
	games  GameFactory
	logger *log.Logger
}

// NewMachine creates a Machine. logger receives failure diagnostics; nil
// discards them.
func NewMachine(saves Saves, games GameFactory, logger *log.Logger) *Machine {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Machine{saves: saves, games: games, logger: logger}
}

// Next returns the state that follows st after ev. Gameplay and Terminated
// are outside the menu and are returned unchanged.
func (m *Machine) Next(ctx context.Context, st State, ev *tcell.EventKey) State {
	switch st.Mode {
	case ModeMainMenu:
		return m.mainMenu(ev)
	case ModeNamePrompt:
		return m.namePrompt(ctx, st, ev)
	case ModeSaveSelect:
		return m.saveSelect(ctx, st, ev)
	case ModePopup:
		return MainMenu()
	default:
		return st
	}
}

func (m *Machine) mainMenu(ev *tcell.EventKey) State {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Terminated()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return Terminated()
		case 'n', 'N':
			return State{Mode: ModeNamePrompt}
		case 'l', 'L':
			saves := m.saves.List()
			if len(saves) == 0 {
				return Popup(MsgNoSavedGame)
			}
			return State{Mode: ModeSaveSelect, Select: SaveSelect{Saves: saves}}
		}
	}
	return MainMenu()
}

func (m *Machine) namePrompt(ctx context.Context, st State, ev *tcell.EventKey) State {
	prompt, status := st.Prompt.Handle(ev)
	switch status {
	case PromptCancelled:
		return MainMenu()
	case PromptDone:
		s, err := m.newGame(ctx, prompt.Name())
		if err != nil {
			m.logger.Printf("new game for %q failed: %v", prompt.Name(), err)
			return Popup(fmt.Sprintf(msgNewGameFailed, err))
		}
		return Gameplay(s)
	}
	return State{Mode: ModeNamePrompt, Prompt: prompt}
}

// newGame runs the factory, converting a panic into an error.
func (m *Machine) newGame(ctx context.Context, name string) (s *session.Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Printf("panic during new game: %v\n%s", r, debug.Stack())
			s, err = nil, fmt.Errorf("unexpected error: %v", r)
		}
	}()
	return m.games.NewGame(ctx, name)
}

func (m *Machine) saveSelect(ctx context.Context, st State, ev *tcell.EventKey) State {
	name, status := st.Select.Handle(ev)
	switch status {
	case SelectCancelled:
		return MainMenu()
	case SelectChosen:
		s, err := m.saves.Load(ctx, name)
		if errors.Is(err, savegame.ErrSaveNotFound) {
			m.logger.Printf("load %q: %v", name, err)
			return Popup(MsgNoSavedGame)
		}
		if err != nil {
			m.logger.Printf("load %q failed: %v", name, err)
			return Popup(fmt.Sprintf(msgLoadFailed, err))
		}
		return Gameplay(s)
	}
	return st
}
