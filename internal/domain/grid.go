package domain

import (
	"slices"

	"github.com/rotisserie/eris"

	"camp-engine/internal/core/types"
)

// Grid - слоистое пространственное хранилище. На каждый слой - плотный массив
// y*width+x -> EntityID (NilEntityID = пусто), поэтому на (слой, клетку)
// приходится не больше одной сущности.
//
// Сетка не владеет сущностями: флаги проходимости она читает через арену.
type Grid struct {
	width  int
	height int
	layers [LayerCount][]types.EntityID
	store  *EntityStore
}

func NewGrid(width, height int, store *EntityStore) *Grid {
	g := &Grid{width: width, height: height, store: store}
	for l := range g.layers {
		g.layers[l] = make([]types.EntityID, width*height)
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

func (g *Grid) index(p Position) int {
	return p.Y*g.width + p.X
}

// Get возвращает обитателя клетки слоя. Вне сетки - NilEntityID.
func (g *Grid) Get(layer Layer, p Position) types.EntityID {
	if !layer.Valid() || !g.InBounds(p) {
		return types.NilEntityID
	}
	return g.layers[layer][g.index(p)]
}

// Entity - то же, что Get, но сразу разрешает ID через арену.
func (g *Grid) Entity(layer Layer, p Position) *Entity {
	return g.store.Get(g.Get(layer, p))
}

// Set кладёт ID в пустую клетку слоя.
func (g *Grid) Set(layer Layer, p Position, id types.EntityID) error {
	if !layer.Valid() || !g.InBounds(p) {
		return eris.Wrapf(ErrOutOfBounds, "set %s at %s", layer, p)
	}
	i := g.index(p)
	if !g.layers[layer][i].IsNil() {
		return eris.Wrapf(ErrOccupied, "set %s at %s", layer, p)
	}
	g.layers[layer][i] = id
	return nil
}

// Move переносит обитателя слоя из from в to. Целевая клетка должна быть пуста.
func (g *Grid) Move(layer Layer, from, to Position) error {
	if !layer.Valid() || !g.InBounds(from) || !g.InBounds(to) {
		return eris.Wrapf(ErrOutOfBounds, "move %s %s->%s", layer, from, to)
	}
	src, dst := g.index(from), g.index(to)
	id := g.layers[layer][src]
	if id.IsNil() {
		return eris.Wrapf(ErrNotOnGrid, "move %s %s->%s: source is empty", layer, from, to)
	}
	if src == dst {
		return nil
	}
	if !g.layers[layer][dst].IsNil() {
		return eris.Wrapf(ErrOccupied, "move %s %s->%s", layer, from, to)
	}
	g.layers[layer][dst] = id
	g.layers[layer][src] = types.NilEntityID
	return nil
}

// Delete очищает клетку слоя и возвращает бывшего обитателя.
func (g *Grid) Delete(layer Layer, p Position) (types.EntityID, error) {
	if !layer.Valid() || !g.InBounds(p) {
		return types.NilEntityID, eris.Wrapf(ErrOutOfBounds, "delete %s at %s", layer, p)
	}
	i := g.index(p)
	id := g.layers[layer][i]
	g.layers[layer][i] = types.NilEntityID
	return id, nil
}

// Column - непустые обитатели клетки по всем слоям снизу вверх.
func (g *Grid) Column(p Position) []types.EntityID {
	if !g.InBounds(p) {
		return nil
	}
	i := g.index(p)
	col := make([]types.EntityID, 0, LayerCount)
	for l := LayerBackground; l < LayerCount; l++ {
		if id := g.layers[l][i]; !id.IsNil() {
			col = append(col, id)
		}
	}
	return col
}

// Neighbors8 - соседи в пределах сетки, без самой клетки.
func (g *Grid) Neighbors8(p Position) []Position {
	out := make([]Position, 0, len(Directions8))
	for _, d := range Directions8 {
		if n := p.Add(d); g.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

// EntrancePossible - каждый обитатель клетки (если есть) проходим пешком.
// Вне сетки войти нельзя.
func (g *Grid) EntrancePossible(p Position) bool {
	return g.enterable(p, func(e *Entity) bool { return e.Passable })
}

// AirEntrancePossible - то же для снарядов и прыжков.
func (g *Grid) AirEntrancePossible(p Position) bool {
	return g.enterable(p, func(e *Entity) bool { return e.AirPassable })
}

func (g *Grid) enterable(p Position, pass func(e *Entity) bool) bool {
	if !g.InBounds(p) {
		return false
	}
	for _, id := range g.Column(p) {
		if e := g.store.Get(id); e != nil && !pass(e) {
			return false
		}
	}
	return true
}

// TraceLine - линия Брезенхэма от start к end, обрезанная по первой
// непролетаемой клетке после старта (она входит в результат).
// Для start == end возвращает [start].
func (g *Grid) TraceLine(start, end Position) []Position {
	if start == end {
		return []Position{start}
	}

	dx, dy := abs(end.X-start.X), abs(end.Y-start.Y)
	sx, sy := sign(end.X-start.X), sign(end.Y-start.Y)
	err := dx - dy

	line := make([]Position, 0, max(dx, dy)+1)
	cur := start
	for {
		line = append(line, cur)
		if cur != start && !g.AirEntrancePossible(cur) {
			break
		}
		if cur == end {
			break
		}

		e2 := err * 2
		if e2 > -dy {
			err -= dy
			cur.X += sx
		}
		if e2 < dx {
			err += dx
			cur.Y += sy
		}
	}
	return line
}

// InRangeTargets - обитатели заданных слоёв в квадрате радиуса radius,
// до которых долетает линия. С excludeAdjacent соседние клетки
// отбрасываются (линия должна быть длиннее двух точек). Клетка самого
// стрелка не входит. Результат отсортирован по длине линии, при равенстве -
// в порядке обхода (строка за строкой, слои снизу вверх).
func (g *Grid) InRangeTargets(p Position, radius int, layers []Layer, excludeAdjacent bool) []types.EntityID {
	type hit struct {
		id   types.EntityID
		dist int
	}

	x0, x1 := max(0, p.X-radius), min(g.width-1, p.X+radius)
	y0, y1 := max(0, p.Y-radius), min(g.height-1, p.Y+radius)

	var hits []hit
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			target := Position{X: x, Y: y}
			if target == p {
				continue
			}
			for _, l := range layers {
				id := g.Get(l, target)
				if id.IsNil() {
					continue
				}
				line := g.TraceLine(p, target)
				if line[len(line)-1] != target {
					continue
				}
				if excludeAdjacent && len(line) <= 2 {
					continue
				}
				hits = append(hits, hit{id: id, dist: len(line)})
			}
		}
	}

	slices.SortStableFunc(hits, func(a, b hit) int { return a.dist - b.dist })

	out := make([]types.EntityID, len(hits))
	for i, h := range hits {
		out[i] = h.id
	}
	return out
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
