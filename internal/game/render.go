package game

import (
	"fmt"

	"github.com/vovakirdan/scarab/internal/actor"
	"github.com/vovakirdan/scarab/internal/core"
	"github.com/vovakirdan/scarab/internal/entities"
	"github.com/vovakirdan/scarab/internal/scene"
)

// Render draws the session into dst: the field and the actors projected
// through the camera, with the HUD over the top rows.
// The camera viewport is expected to match dst minus the HUD rows.
func (s *Session) Render(dst *core.Screen) {
	dst.Clear()

	s.renderField(dst)
	s.renderActors(dst)
	s.renderHUD(dst)
	if s.debug {
		s.renderDebug(dst)
	}

	switch {
	case s.gameOver:
		renderOverlay(dst, "You fell", "Press R to restart")
	case s.paused:
		renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// project maps a world box to screen cells below the HUD.
func (s *Session) project(b core.Box) core.Box {
	return s.camera.ProjectBox(b).Translate(core.V(0, HUDHeight))
}

func (s *Session) renderHUD(dst *core.Screen) {
	st := s.State()
	hud := fmt.Sprintf(" Scarab - Health: %d  Kills: %d  Enemies: %d", st.Health, st.Kills, st.Enemies)
	if s.status != "" {
		hud += "  | " + s.status
	}
	for y := range HUDHeight {
		for x := range dst.Width() {
			dst.Set(x, y, ' ')
		}
	}
	dst.DrawText(0, 0, hud, core.ColorHUD)

	for x := range dst.Width() {
		dst.Set(x, 1, '─')
	}
}

func (s *Session) renderField(dst *core.Screen) {
	for _, c := range s.scene.Field().Cells() {
		if !c.Solidity.Blocks() || !s.camera.Visible(c.Box) {
			continue
		}
		dst.FillBox(s.project(c.Box), '█', core.ColorSolid)
	}
}

func (s *Session) renderActors(dst *core.Screen) {
	for _, a := range s.scene.Actors() {
		if !s.camera.Visible(a.Box()) {
			continue
		}
		r, c := glyph(a)
		dst.FillBox(s.project(a.Box()), r, c)
	}
}

func glyph(a *actor.Actor) (rune, core.Color) {
	switch {
	case entities.PlayerState(a) != nil:
		if entities.PlayerState(a).GraceLeft > 0 {
			return '@', core.ColorPlayerHurt
		}
		return '@', core.ColorPlayer
	case entities.EnemyState(a) != nil:
		return 'x', core.ColorEnemy
	default:
		return '?', core.ColorUnknown
	}
}

// renderDebug lists tick and per-actor motion along the bottom rows.
func (s *Session) renderDebug(dst *core.Screen) {
	lines := []string{fmt.Sprintf("tick %d  dt %.4f  actors %d", s.scene.Tick(), s.dt, s.scene.Len())}
	for id, a := range s.scene.Actors() {
		lines = append(lines, debugLine(id, a))
	}

	y := dst.Height() - len(lines)
	for i, line := range lines {
		if y+i < HUDHeight {
			continue
		}
		dst.DrawText(0, y+i, line, core.ColorDebug)
	}
}

func debugLine(id scene.ActorID, a *actor.Actor) string {
	b, v := a.Box(), a.Velocity()
	return fmt.Sprintf("#%d %-6s pos(%.1f,%.1f) vel(%.1f,%.1f) |v|=%.1f/%g",
		id, a.Kind(), b.Pos.X, b.Pos.Y, v.X, v.Y, v.Len(), a.MaxSpeed())
}

// renderOverlay draws a centered overlay message.
func renderOverlay(dst *core.Screen, line1, line2 string) {
	w := dst.Width()
	h := dst.Height()

	boxW := max(len(line1), len(line2)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	for y := boxY; y < boxY+boxH && y < h; y++ {
		for x := boxX; x < boxX+boxW && x < w; x++ {
			if x < 0 || y < 0 {
				continue
			}
			isTopOrBottom := y == boxY || y == boxY+boxH-1
			isLeftOrRight := x == boxX || x == boxX+boxW-1
			switch {
			case isTopOrBottom && isLeftOrRight:
				dst.Set(x, y, '+')
			case isTopOrBottom:
				dst.Set(x, y, '-')
			case isLeftOrRight:
				dst.Set(x, y, '|')
			default:
				dst.Set(x, y, ' ')
			}
		}
	}

	drawCenteredText(dst, line1, boxY+1)
	drawCenteredText(dst, line2, boxY+3)
}

// drawCenteredText draws text centered horizontally.
func drawCenteredText(dst *core.Screen, text string, y int) {
	dst.DrawText((dst.Width()-len(text))/2, y, text, core.ColorDefault)
}
