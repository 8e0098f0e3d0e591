// Package render рисует мир в терминале через tcell. Renderer подписывается
// на очередь событий и перерисовывает кадр один раз за ход, по маркеру
// queue_exhausted.
package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"camp-engine/internal/domain"
	"camp-engine/pkg/logger"
)

// LogLines - сколько строк игрового лога выводится под картой.
const LogLines = 5

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleStatus = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

type Renderer struct {
	Screen tcell.Screen
	// World отдаёт текущий мир: после смены уровня он другой.
	World func() *domain.World
	// Status - строка над логом (ход, уровень). Может быть nil.
	Status func() string

	frames int
	log    *logrus.Entry
}

func New(screen tcell.Screen, world func() *domain.World) *Renderer {
	return &Renderer{
		Screen: screen,
		World:  world,
		log:    logger.Component("render"),
	}
}

func (r *Renderer) ProcessGameEvent(ev domain.GameEvent) {
	if ev.Type == domain.EventQueueExhausted {
		r.Draw()
	}
}

// Frames - сколько кадров нарисовано.
func (r *Renderer) Frames() int { return r.frames }

// Draw рисует карту, статус и хвост лога.
func (r *Renderer) Draw() {
	w := r.World()
	if w == nil {
		return
	}
	r.Screen.Clear()

	for y := 0; y < w.Grid.Height(); y++ {
		for x := 0; x < w.Grid.Width(); x++ {
			ch, style := Cell(w, domain.Position{X: x, Y: y})
			r.Screen.SetContent(x, y, ch, nil, style)
		}
	}

	row := w.Grid.Height() + 1
	if r.Status != nil {
		r.text(0, row, r.Status(), styleStatus)
		row++
	}
	for _, line := range w.Log.Last(LogLines) {
		r.text(0, row, line, styleText)
		row++
	}

	r.Screen.Show()
	r.frames++
	r.log.WithField("frame", r.frames).Trace("frame drawn")
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		r.Screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

// Cell - символ и стиль клетки: слои кладутся снизу вверх, видна верхняя
// живая сущность с заданным глифом.
func Cell(w *domain.World, p domain.Position) (rune, tcell.Style) {
	ch, style := ' ', tcell.StyleDefault
	for l := domain.LayerBackground; l < domain.LayerCount; l++ {
		e := w.Grid.Entity(l, p)
		if e == nil || !e.Alive() || e.Glyph.IsZero() {
			continue
		}
		red, green, blue := e.Glyph.RGB()
		ch = rune(e.Glyph.Char())
		style = tcell.StyleDefault.Foreground(tcell.NewRGBColor(red, green, blue))
	}
	return ch, style
}

// StatusLine - стандартная строка статуса героя.
func StatusLine(level, turn int, hero *domain.Entity) string {
	if hero == nil || hero.Fighter == nil {
		return fmt.Sprintf("L%d T%d", level, turn)
	}
	f := hero.Fighter
	line := fmt.Sprintf("L%d T%d  HP %d/%d  Ammo %d/%d", level, turn, f.HP, f.MaxHP, f.Ammo, f.MaxAmmo)
	if hero.Breath != nil {
		line += fmt.Sprintf("  Breath %d", hero.Breath.Counter)
	}
	return line
}
