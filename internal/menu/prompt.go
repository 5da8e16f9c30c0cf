package menu

import (
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/darkcave/internal/entity"
)

// PromptStatus is the outcome of feeding one key to a NamePrompt.
type PromptStatus int

const (
	PromptActive    PromptStatus = iota // Keep reading keys
	PromptDone                          // Name() is the chosen, non-empty name
	PromptCancelled                     // The user backed out; the buffer is discarded
)

// NamePrompt is the character-name entry field. The zero value is an empty
// prompt ready for input.
type NamePrompt struct {
	buffer   string
	rejected bool // last printable key was refused because the buffer was full
}

// Name returns the text entered so far.
func (p NamePrompt) Name() string { return p.buffer }

// Len returns the number of characters entered.
func (p NamePrompt) Len() int { return utf8.RuneCountInString(p.buffer) }

// Overflow reports whether the too-long warning should be shown. It can only
// be true while the buffer is full.
func (p NamePrompt) Overflow() bool {
	return p.rejected && p.Len() >= entity.MaxNameLength
}

// Handle applies one key event and returns the updated prompt.
func (p NamePrompt) Handle(ev *tcell.EventKey) (NamePrompt, PromptStatus) {
	switch ev.Key() {
	case tcell.KeyEscape:
		return NamePrompt{}, PromptCancelled

	case tcell.KeyEnter:
		if p.buffer == "" {
			return p, PromptActive
		}
		return p, PromptDone

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if _, size := utf8.DecodeLastRuneInString(p.buffer); size > 0 {
			p.buffer = p.buffer[:len(p.buffer)-size]
		}
		p.rejected = false
		return p, PromptActive

	case tcell.KeyRune:
		r := ev.Rune()
		if !unicode.IsPrint(r) {
			return p, PromptActive
		}
		if p.Len() >= entity.MaxNameLength {
			p.rejected = true
			return p, PromptActive
		}
		p.buffer += string(r)
		p.rejected = false
		return p, PromptActive
	}

	return p, PromptActive
}
