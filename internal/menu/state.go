// Package menu implements the pre-game screens as a state machine: the main
// menu, character-name entry, saved-game selection and popups.
package menu

import "github.com/samdwyer/darkcave/internal/session"

// Mode identifies which handler currently owns input.
type Mode int

const (
	// ModeMainMenu shows the title screen and its options.
	ModeMainMenu Mode = iota
	// ModeNamePrompt reads a new character's name.
	ModeNamePrompt
	// ModeSaveSelect lists saved games to load.
	ModeSaveSelect
	// ModePopup shows a one-shot message over the main menu.
	ModePopup
	// ModeGameplay hands control and the session to the game loop.
	ModeGameplay
	// ModeTerminated ends the program.
	ModeTerminated
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeMainMenu:
		return "main_menu"
	case ModeNamePrompt:
		return "name_prompt"
	case ModeSaveSelect:
		return "save_select"
	case ModePopup:
		return "popup"
	case ModeGameplay:
		return "gameplay"
	case ModeTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// State is the current handler and its local data. Only the field belonging
// to Mode is meaningful.
type State struct {
	Mode    Mode
	Prompt  NamePrompt       // ModeNamePrompt
	Select  SaveSelect       // ModeSaveSelect
	Message string           // ModePopup
	Session *session.Session // ModeGameplay
}

// MainMenu returns the initial state.
func MainMenu() State { return State{Mode: ModeMainMenu} }

// Popup returns a state showing msg until any key is pressed.
func Popup(msg string) State { return State{Mode: ModePopup, Message: msg} }

// Gameplay returns a state that hands s to the game loop.
func Gameplay(s *session.Session) State { return State{Mode: ModeGameplay, Session: s} }

// Terminated returns the final state.
func Terminated() State { return State{Mode: ModeTerminated} }
