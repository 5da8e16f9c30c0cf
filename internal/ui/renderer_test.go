package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/darkcave/internal/entity"
	"github.com/samdwyer/darkcave/internal/gamedata"
	"github.com/samdwyer/darkcave/internal/menu"
	"github.com/samdwyer/darkcave/internal/session"
)

// fakeSurface records drawn cells in memory.
type fakeSurface struct {
	width, height int
	cells         [][]rune
	styles        [][]tcell.Style
	shows         int
}

func newFakeSurface(width, height int) *fakeSurface {
	f := &fakeSurface{width: width, height: height}
	f.Clear()
	return f
}

func (f *fakeSurface) SetContent(x, y int, r rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return
	}
	f.cells[y][x] = r
	f.styles[y][x] = style
}

func (f *fakeSurface) Size() (int, int) { return f.width, f.height }
func (f *fakeSurface) Show()            { f.shows++ }

func (f *fakeSurface) Clear() {
	f.cells = make([][]rune, f.height)
	f.styles = make([][]tcell.Style, f.height)
	for y := range f.cells {
		f.cells[y] = []rune(strings.Repeat(" ", f.width))
		f.styles[y] = make([]tcell.Style, f.width)
	}
}

func (f *fakeSurface) row(y int) string {
	return string(f.cells[y])
}

func (f *fakeSurface) text() string {
	rows := make([]string, f.height)
	for y := range rows {
		rows[y] = f.row(y)
	}
	return strings.Join(rows, "\n")
}

func TestPrintAlignment(t *testing.T) {
	s := newFakeSurface(20, 3)
	r := NewRenderer(s)

	r.Print(0, 0, "left", tcell.StyleDefault, AlignLeft)
	r.Print(10, 1, "mid", tcell.StyleDefault, AlignCenter)
	r.Print(19, 2, "right", tcell.StyleDefault, AlignRight)

	if got := s.row(0); !strings.HasPrefix(got, "left") {
		t.Errorf("row 0 = %q, want prefix %q", got, "left")
	}
	if got := s.row(1); got[9:12] != "mid" {
		t.Errorf("row 1 = %q, want \"mid\" at column 9", got)
	}
	if got := s.row(2); !strings.HasSuffix(got, "right") {
		t.Errorf("row 2 = %q, want suffix %q", got, "right")
	}
}

func TestRenderMainMenu(t *testing.T) {
	s := newFakeSurface(80, 50)
	NewRenderer(s).Render(menu.MainMenu())

	out := s.text()
	for _, want := range append([]string{Title, Credit}, MenuOptions...) {
		if !strings.Contains(out, want) {
			t.Errorf("main menu missing %q", want)
		}
	}
	if s.shows != 1 {
		t.Errorf("Show() called %d times, want 1", s.shows)
	}
}

func TestRenderNamePrompt(t *testing.T) {
	s := newFakeSurface(80, 50)
	r := NewRenderer(s)

	var p menu.NamePrompt
	for _, ch := range strings.Repeat("k", entity.MaxNameLength) {
		p, _ = p.Handle(tcell.NewEventKey(tcell.KeyRune, ch, tcell.ModNone))
	}
	r.Render(menu.State{Mode: menu.ModeNamePrompt, Prompt: p})
	if strings.Contains(s.text(), nameTooLong) {
		t.Error("warning shown before any rejected key")
	}
	if !strings.Contains(s.text(), strings.Repeat("k", entity.MaxNameLength)) {
		t.Error("prompt should show the typed name")
	}

	p, _ = p.Handle(tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone))
	r.Render(menu.State{Mode: menu.ModeNamePrompt, Prompt: p})
	if !strings.Contains(s.text(), nameTooLong) {
		t.Error("warning missing after rejected key")
	}
}

func TestRenderSaveSelectNumbersInOrder(t *testing.T) {
	s := newFakeSurface(80, 50)
	NewRenderer(s).Render(menu.State{Mode: menu.ModeSaveSelect, Select: menu.SaveSelect{Saves: []string{"b", "a"}}})

	if !strings.Contains(s.row(0), selectTitle) {
		t.Errorf("row 0 = %q, want title", s.row(0))
	}
	if !strings.Contains(s.row(2), "[1] b") {
		t.Errorf("row 2 = %q, want \"[1] b\"", s.row(2))
	}
	if !strings.Contains(s.row(3), "[2] a") {
		t.Errorf("row 3 = %q, want \"[2] a\"", s.row(3))
	}
}

func TestRenderPopupOverMenu(t *testing.T) {
	s := newFakeSurface(80, 50)
	NewRenderer(s).Render(menu.Popup("Failed to load save:\nchecksum mismatch"))

	out := s.text()
	for _, want := range []string{"Failed to load save:", "checksum mismatch", Credit} {
		if !strings.Contains(out, want) {
			t.Errorf("popup screen missing %q", want)
		}
	}
}

func TestRenderSession(t *testing.T) {
	in := &session.Initializer{
		Items:   gamedata.MustLoadItemRegistry(),
		Enemies: gamedata.MustLoadEnemyRegistry(),
		Seed:    11,
	}
	sess, err := in.NewGame(context.Background(), "Renderer")
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}

	s := newFakeSurface(80, 50)
	NewRenderer(s).Render(menu.Gameplay(sess))

	if got := s.cells[sess.Player.Y][sess.Player.X]; got != '@' {
		t.Errorf("cell at player = %q, want '@'", got)
	}
	if !strings.Contains(s.row(sess.Dungeon.Height), "Renderer") {
		t.Errorf("status row = %q, want player name", s.row(sess.Dungeon.Height))
	}
	if !strings.Contains(s.text(), session.WelcomeMessage) {
		t.Error("welcome message not rendered")
	}
	if s.cells[0][0] != ' ' && !sess.Dungeon.IsExplored(0, 0) {
		t.Error("unexplored cells should stay blank")
	}
}

func TestRenderSessionSmallTerminal(t *testing.T) {
	in := &session.Initializer{
		Items:      gamedata.MustLoadItemRegistry(),
		Enemies:    gamedata.MustLoadEnemyRegistry(),
		Background: entity.Ranger,
		Seed:       5,
	}
	sess, err := in.NewGame(context.Background(), "Tiny")
	if err != nil {
		t.Fatalf("NewGame() error = %v", err)
	}
	sess.Log.Add("Game saved.", gamedata.ColorWhite)

	s := newFakeSurface(80, 24)
	NewRenderer(s).Render(menu.Gameplay(sess))

	panel := 24 - panelLines
	if !strings.Contains(s.row(panel), "Tiny") {
		t.Errorf("status row %d = %q, want player name", panel, s.row(panel))
	}

	inventory := s.row(panel + 1)
	for i, item := range sess.Player.Inventory.Items {
		label := fmt.Sprintf("%d:", i+1)
		if !strings.Contains(inventory, label) || !strings.Contains(inventory, item.Name) {
			t.Errorf("inventory row = %q, want %s %s", inventory, label, item.Name)
		}
	}
	if !strings.Contains(inventory, sess.Player.EquippedWeapon().Name+equippedMark) {
		t.Errorf("inventory row = %q, want equipped weapon marked", inventory)
	}

	if got := s.row(23); !strings.HasPrefix(got, "Game saved.") {
		t.Errorf("bottom row = %q, want latest message", got)
	}

	players := strings.Count(s.text(), "@")
	if players != 1 {
		t.Errorf("player drawn %d times, want once inside the view", players)
	}
	for y := panel; y < 24; y++ {
		if strings.ContainsRune(s.row(y), '@') {
			t.Errorf("player drawn on panel row %d", y)
		}
	}
}

func TestCamera(t *testing.T) {
	tests := []struct {
		pos, size, view, want int
	}{
		{5, 40, 80, 0},   // map fits
		{3, 43, 17, 0},   // near the top edge
		{20, 43, 17, 12}, // centred
		{42, 43, 17, 26}, // clamped at the bottom edge
	}
	for _, tt := range tests {
		if got := camera(tt.pos, tt.size, tt.view); got != tt.want {
			t.Errorf("camera(%d, %d, %d) = %d, want %d", tt.pos, tt.size, tt.view, got, tt.want)
		}
	}
}
