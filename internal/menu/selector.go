package menu

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
)

// SelectStatus is the outcome of feeding one key to a SaveSelect.
type SelectStatus int

const (
	SelectActive    SelectStatus = iota // Keep reading keys
	SelectChosen                        // A save was picked
	SelectCancelled                     // The user backed out
)

// SaveSelect lets the user pick one save by its 1-based position.
type SaveSelect struct {
	Saves []string
}

// Handle applies one key event. Keys that are not a digit naming a listed
// save are ignored.
func (s SaveSelect) Handle(ev *tcell.EventKey) (string, SelectStatus) {
	switch ev.Key() {
	case tcell.KeyEscape:
		return "", SelectCancelled
	case tcell.KeyRune:
		choice, err := strconv.Atoi(string(ev.Rune()))
		if err != nil || choice < 1 || choice > len(s.Saves) {
			return "", SelectActive
		}
		return s.Saves[choice-1], SelectChosen
	}
	return "", SelectActive
}
