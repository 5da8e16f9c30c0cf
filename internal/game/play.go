package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/darkcave/internal/gamedata"
	"github.com/samdwyer/darkcave/internal/menu"
	"github.com/samdwyer/darkcave/internal/session"
)

// Messages written to the session log by gameplay actions.
const (
	msgSaved      = "Game saved."
	msgSaveFailed = "Save failed: %v"
	msgBlocked    = "The %s blocks your way."
)

// play handles one key while a session is active. It returns the next state:
// usually the same session, or the main menu once the game is saved and left.
func (g *Game) play(ctx context.Context, s *session.Session, ev *tcell.EventKey) menu.State {
	switch ev.Key() {
	case tcell.KeyEscape:
		if err := g.save(ctx, s); err != nil {
			return menu.Gameplay(s)
		}
		return menu.MainMenu()
	case tcell.KeyCtrlC:
		g.logger.Printf("left %q without saving", s.Player.Name)
		return menu.MainMenu()

	case tcell.KeyUp:
		g.tryMove(s, 0, -1)
	case tcell.KeyDown:
		g.tryMove(s, 0, 1)
	case tcell.KeyLeft:
		g.tryMove(s, -1, 0)
	case tcell.KeyRight:
		g.tryMove(s, 1, 0)

	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case 'k':
			g.tryMove(s, 0, -1)
		case 'j':
			g.tryMove(s, 0, 1)
		case 'h':
			g.tryMove(s, -1, 0)
		case 'l':
			g.tryMove(s, 1, 0)
		case 's':
			_ = g.save(ctx, s)
		default:
			if r >= '1' && r <= '9' {
				g.toggleEquip(s, int(r-'1'))
			}
		}
	}
	return menu.Gameplay(s)
}

// tryMove attempts to move the player by the given delta.
func (g *Game) tryMove(s *session.Session, dx, dy int) {
	x, y := s.Player.X+dx, s.Player.Y+dy
	if !s.Dungeon.IsPassable(x, y) {
		return
	}
	if m := s.MonsterAt(x, y); m != nil {
		s.Log.Add(fmt.Sprintf(msgBlocked, m.Name), gamedata.ColorWhite)
		return
	}
	s.Player.Move(dx, dy)
	s.Turn++
	s.UpdateFOV()
}

// toggleEquip wears or removes the inventory item at index.
func (g *Game) toggleEquip(s *session.Session, index int) {
	if index < 0 || index >= len(s.Player.Inventory.Items) {
		return
	}
	item := s.Player.Inventory.Items[index]
	notify := func(msg string) { s.Log.Add(msg, gamedata.ColorEquip) }
	if err := s.Player.ToggleEquip(item, notify); err != nil {
		s.Log.Add(fmt.Sprintf("You can't equip the %s.", item.Name), gamedata.ColorError)
	}
}

// save writes the session under the player's name and reports the outcome in
// the message log.
func (g *Game) save(ctx context.Context, s *session.Session) error {
	name := SaveName(s.Player.Name)
	if err := g.store.Save(ctx, name, s); err != nil {
		g.logger.Printf("save %q failed: %v", name, err)
		s.Log.Add(fmt.Sprintf(msgSaveFailed, err), gamedata.ColorError)
		return err
	}
	s.Log.Add(msgSaved, gamedata.ColorWhite)
	return nil
}

// saveNameEscaper percent-escapes the characters a file name cannot hold.
// The escape character itself is escaped first, so distinct names never
// collide.
var saveNameEscaper = strings.NewReplacer(
	"%", "%25",
	"/", "%2F",
	`\`, "%5C",
	"\x00", "%00",
)

// SaveName turns a character name into a save identifier. Every distinct
// name maps to a distinct identifier, spaces included.
func SaveName(playerName string) string {
	name := saveNameEscaper.Replace(playerName)
	if name == "." || name == ".." {
		return strings.ReplaceAll(name, ".", "%2E")
	}
	return name
}
