package render

import (
	"github.com/gdamore/tcell/v2"

	"camp-engine/internal/domain"
	"camp-engine/pkg/api"
)

var arrowDirs = map[tcell.Key][2]int{
	tcell.KeyUp:    {0, -1},
	tcell.KeyDown:  {0, 1},
	tcell.KeyLeft:  {-1, 0},
	tcell.KeyRight: {1, 0},
}

// vi-раскладка, диагонали на y/u/b/n
var runeDirs = map[rune][2]int{
	'h': {-1, 0},
	'j': {0, 1},
	'k': {0, -1},
	'l': {1, 0},
	'y': {-1, -1},
	'u': {1, -1},
	'b': {-1, 1},
	'n': {1, 1},
}

// KeyCommand переводит нажатие в команду героя. Цифры 1-9 применяют
// предмет инвентаря на себя, D выбрасывает первый предмет.
func KeyCommand(ev *tcell.EventKey) (domain.Command, bool) {
	if d, ok := arrowDirs[ev.Key()]; ok {
		return api.Walk(d[0], d[1]), true
	}
	if ev.Key() != tcell.KeyRune {
		return domain.Command{}, false
	}

	ch := ev.Rune()
	if d, ok := runeDirs[ch]; ok {
		return api.Walk(d[0], d[1]), true
	}
	switch {
	case ch == '.':
		return api.Wait(), true
	case ch == 'g':
		return api.Grab(), true
	case ch == 'D':
		return api.DropItem(0), true
	case ch >= '1' && ch <= '9':
		return api.UseItem(int(ch-'1'), nil), true
	}
	return domain.Command{}, false
}

// IsQuit - Esc, Ctrl+C или q.
func IsQuit(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
		(ev.Key() == tcell.KeyRune && ev.Rune() == 'q')
}
