package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/samdwyer/darkcave/internal/entity"
	"github.com/samdwyer/darkcave/internal/gamedata"
	"github.com/samdwyer/darkcave/internal/menu"
	"github.com/samdwyer/darkcave/internal/session"
	"github.com/samdwyer/darkcave/internal/world"
)

// Align controls where text is placed relative to its x coordinate.
type Align int

const (
	AlignLeft   Align = iota // Text starts at x
	AlignCenter              // Text is centered on x
	AlignRight               // Text ends at x
)

const (
	// Title is the game's name on the main menu.
	Title = "Cave in the Darkness"
	// Credit is the line at the bottom of the main menu.
	Credit = "By GoodleShoes"

	menuWidth   = 24
	logLines    = 5
	panelLines  = logLines + 2 // status, inventory, messages
	namePrompt  = "Enter your character name:"
	nameTooLong = "This name is too long, sorry!"
	selectTitle = "Select a saved game to load"

	inventoryEmpty = "Your pack is empty."
	equippedMark   = " (E)"
)

// MenuOptions are the main menu entries in display order.
var MenuOptions = []string{"[N] Play a new game", "[L] Load a saved game", "[Q] Quit"}

var (
	styleTitle   = tcell.StyleDefault.Foreground(gamedata.MustParseHexColor(gamedata.ColorMenuTitle)).Bold(true)
	styleText    = tcell.StyleDefault.Foreground(gamedata.MustParseHexColor(gamedata.ColorMenuText))
	styleOption  = styleText.Background(tcell.ColorBlack)
	styleError   = tcell.StyleDefault.Foreground(gamedata.MustParseHexColor(gamedata.ColorError))
	stylePopup   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	styleWallLit = tcell.StyleDefault.Foreground(tcell.ColorBurlyWood)
	styleFloor   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleMemory  = tcell.StyleDefault.Foreground(tcell.ColorDarkBlue)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// Renderer handles drawing the game to a surface.
type Renderer struct {
	surface Surface
}

// NewRenderer creates a new renderer for the given surface.
func NewRenderer(surface Surface) *Renderer {
	return &Renderer{surface: surface}
}

// Render draws the screen for st and presents it.
func (r *Renderer) Render(st menu.State) {
	r.surface.Clear()

	switch st.Mode {
	case menu.ModeMainMenu:
		r.drawMainMenu()
	case menu.ModeNamePrompt:
		r.drawNamePrompt(st.Prompt)
	case menu.ModeSaveSelect:
		r.drawSaveSelect(st.Select)
	case menu.ModePopup:
		r.drawMainMenu()
		r.drawPopup(st.Message)
	case menu.ModeGameplay:
		if st.Session != nil {
			r.drawSession(st.Session)
		}
	}

	r.surface.Show()
}

// Print writes text at (x, y) with the given alignment. Width is measured in
// terminal cells, so wide characters are accounted for.
func (r *Renderer) Print(x, y int, text string, style tcell.Style, align Align) {
	switch align {
	case AlignCenter:
		x -= uniseg.StringWidth(text) / 2
	case AlignRight:
		x -= uniseg.StringWidth(text) - 1
	}

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		if len(runes) == 0 {
			continue
		}
		r.surface.SetContent(x, y, runes[0], style)
		x += g.Width()
	}
}

func (r *Renderer) drawMainMenu() {
	w, h := r.surface.Size()

	r.Print(w/2, h/2-4, Title, styleTitle, AlignCenter)
	r.Print(w/2, h-2, Credit, styleTitle, AlignCenter)

	for i, text := range MenuOptions {
		r.Print(w/2, h/2-2+i, fmt.Sprintf("%-*s", menuWidth, text), styleOption, AlignCenter)
	}
}

func (r *Renderer) drawNamePrompt(p menu.NamePrompt) {
	w, h := r.surface.Size()

	r.Print(w/2, h/2, namePrompt, styleText, AlignCenter)
	r.Print(w/2, h/2+1, p.Name(), styleText, AlignCenter)
	if p.Overflow() {
		r.Print(w/2, h/2+2, nameTooLong, styleError, AlignCenter)
	}
}

func (r *Renderer) drawSaveSelect(sel menu.SaveSelect) {
	w, _ := r.surface.Size()

	r.Print(w/2, 0, selectTitle, styleTitle, AlignCenter)
	for i, name := range sel.Saves {
		r.Print(w/2, i+2, fmt.Sprintf("[%d] %s", i+1, name), styleText, AlignCenter)
	}
}

func (r *Renderer) drawPopup(message string) {
	w, h := r.surface.Size()
	lines := strings.Split(message, "\n")

	boxWidth := 0
	for _, line := range lines {
		boxWidth = max(boxWidth, uniseg.StringWidth(line))
	}
	boxWidth += 4
	boxHeight := len(lines) + 2

	left, top := w/2-boxWidth/2, h/2-boxHeight/2
	for y := top; y < top+boxHeight; y++ {
		for x := left; x < left+boxWidth; x++ {
			r.surface.SetContent(x, y, ' ', stylePopup)
		}
	}
	for i, line := range lines {
		r.Print(w/2, top+1+i, line, stylePopup, AlignCenter)
	}
}

// drawSession draws the map in a viewport that follows the player, with the
// status line, inventory and latest messages pinned to the bottom rows.
func (r *Renderer) drawSession(s *session.Session) {
	d := s.Dungeon
	p := s.Player
	w, h := r.surface.Size()
	viewH := max(h-panelLines, 1)
	camX := camera(p.X, d.Width, w)
	camY := camera(p.Y, d.Height, viewH)

	for sy := 0; sy < viewH && sy+camY < d.Height; sy++ {
		for sx := 0; sx < w && sx+camX < d.Width; sx++ {
			x, y := sx+camX, sy+camY
			tile := d.GetTile(x, y)
			switch {
			case d.IsVisible(x, y):
				r.surface.SetContent(sx, sy, tile.Rune(), tileStyle(tile))
			case d.IsExplored(x, y):
				r.surface.SetContent(sx, sy, tile.Rune(), styleMemory)
			}
		}
	}

	inView := func(x, y int) bool {
		return x >= camX && x < camX+w && y >= camY && y < camY+viewH
	}
	for _, m := range s.Monsters {
		if m.IsAlive() && d.IsVisible(m.X, m.Y) && inView(m.X, m.Y) {
			r.surface.SetContent(m.X-camX, m.Y-camY, m.Symbol, tcell.StyleDefault.Foreground(m.TCellColor()))
		}
	}
	r.surface.SetContent(p.X-camX, p.Y-camY, p.Symbol, stylePlayer)

	panel := viewH
	r.Print(0, panel, fmt.Sprintf("%s  HP: %d/%d  ATK: %d  DEF: %d  Turn: %d",
		p.Name, p.HP, p.MaxHP, p.AttackPower(), p.DefensePower(), s.Turn), styleText, AlignLeft)
	r.drawInventory(p, panel+1)

	for i, msg := range s.Log.Last(logLines) {
		style := tcell.StyleDefault.Foreground(gamedata.ColorOr(msg.Color, tcell.ColorWhite))
		r.Print(0, panel+2+i, msg.FullText(), style, AlignLeft)
	}
}

// drawInventory lists the first nine items on one row, numbered by the key
// that toggles them. Equipped items are marked.
func (r *Renderer) drawInventory(p *entity.Player, y int) {
	if len(p.Inventory.Items) == 0 {
		r.Print(0, y, inventoryEmpty, styleText, AlignLeft)
		return
	}
	x := 0
	for i, item := range p.Inventory.Items {
		if i >= 9 {
			break
		}
		label := fmt.Sprintf("%d:", i+1)
		r.Print(x, y, label, styleText, AlignLeft)
		x += len(label)
		r.surface.SetContent(x, y, item.Glyph, tcell.StyleDefault.Foreground(item.TCellColor()))
		name := " " + item.Name
		if p.IsEquipped(item) {
			name += equippedMark
		}
		r.Print(x+1, y, name, styleText, AlignLeft)
		x += 1 + uniseg.StringWidth(name) + 2
	}
}

// camera returns the first map cell shown along one axis so that pos stays
// inside a view of the given size.
func camera(pos, size, view int) int {
	if size <= view {
		return 0
	}
	return min(max(pos-view/2, 0), size-view)
}

// tileStyle returns the style for a tile in the field of view.
func tileStyle(tile world.Tile) tcell.Style {
	switch tile {
	case world.TileWall:
		return styleWallLit
	case world.TileFloor:
		return styleFloor
	default:
		return tcell.StyleDefault
	}
}
