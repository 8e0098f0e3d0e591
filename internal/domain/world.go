package domain

import (
	"slices"

	"github.com/rotisserie/eris"

	"camp-engine/internal/core/types"
	"camp-engine/internal/core/types/enums"
)

// World - сетка, арена и порядок ходов. Главный актёр всегда стоит первым
// в списке актёров.
type World struct {
	Grid  *Grid
	Store *EntityStore
	Log   *MessageLog

	primary       types.EntityID
	actors        []types.EntityID
	constructions []types.EntityID
}

func NewWorld(width, height int, shard uint8) *World {
	store := NewEntityStore(shard)
	return &World{
		Grid:  NewGrid(width, height, store),
		Store: store,
		Log:   NewMessageLog(DefaultLogCapacity),
	}
}

// Entity разрешает ID; nil для пустого или устаревшего.
func (w *World) Entity(id types.EntityID) *Entity {
	return w.Store.Get(id)
}

// Spawn регистрирует сущность (если у неё ещё нет ID), ставит её на сетку и
// добавляет в очередь ходов по варианту.
func (w *World) Spawn(e *Entity, p Position) (types.EntityID, error) {
	return w.spawn(e, p, false)
}

// SpawnPrimary - то же для главного актёра: он встаёт в начало очереди.
func (w *World) SpawnPrimary(e *Entity, p Position) (types.EntityID, error) {
	if e.Kind != enums.EntityKindActor {
		return types.NilEntityID, eris.Errorf("primary entity must be an actor, got %s", e.Kind)
	}
	return w.spawn(e, p, true)
}

func (w *World) spawn(e *Entity, p Position, primary bool) (types.EntityID, error) {
	fresh := w.Store.Get(e.ID) != e
	if fresh {
		w.Store.Add(e)
	}
	if err := w.Place(e, p); err != nil {
		if fresh {
			w.Store.Remove(e.ID)
			e.ID = types.NilEntityID
		}
		return types.NilEntityID, eris.Wrapf(err, "spawn %s", e.Name())
	}

	switch {
	case primary:
		w.primary = e.ID
		w.actors = slices.Insert(w.actors, 0, e.ID)
	case e.Kind == enums.EntityKindActor:
		w.actors = append(w.actors, e.ID)
	case e.Kind == enums.EntityKindConstruction:
		w.constructions = append(w.constructions, e.ID)
	}
	return e.ID, nil
}

// Adopt регистрирует сущность вне сетки (предмет, сразу лежащий в инвентаре).
func (w *World) Adopt(e *Entity) types.EntityID {
	if w.Store.Get(e.ID) == e {
		return e.ID
	}
	return w.Store.Add(e)
}

// Place ставит уже зарегистрированную сущность в её слой.
func (w *World) Place(e *Entity, p Position) error {
	if e.OnGrid {
		return eris.Errorf("%s is already on grid at %s", e.Name(), e.Pos)
	}
	if err := w.Grid.Set(e.Layer, p, e.ID); err != nil {
		return err
	}
	e.Pos = p
	e.OnGrid = true
	return nil
}

// Lift снимает сущность с сетки, не уничтожая её (предмет уходит в инвентарь).
func (w *World) Lift(e *Entity) error {
	if !e.OnGrid {
		return eris.Wrapf(ErrNotOnGrid, "lift %s", e.Name())
	}
	if _, err := w.Grid.Delete(e.Layer, e.Pos); err != nil {
		return err
	}
	e.OnGrid = false
	return nil
}

// Relocate двигает сущность внутри её слоя.
func (w *World) Relocate(e *Entity, to Position) error {
	if !e.OnGrid {
		return eris.Wrapf(ErrNotOnGrid, "relocate %s", e.Name())
	}
	if err := w.Grid.Move(e.Layer, e.Pos, to); err != nil {
		return err
	}
	e.Pos = to
	return nil
}

// Destroy убирает сущность с сетки и помечает уничтоженной. Слот арены
// освобождается в Reap, после того как слушатели увидят события хода.
// Повторный вызов ничего не делает и возвращает false.
func (w *World) Destroy(e *Entity) bool {
	if e == nil || e.Destroyed {
		return false
	}
	if e.OnGrid {
		_ = w.Lift(e)
	}
	e.Destroyed = true
	return true
}

// Reap освобождает слоты уничтоженных сущностей и чистит очередь ходов.
// Предметы из инвентаря погибшего уходят вместе с ним.
func (w *World) Reap() int {
	var dead []*Entity
	w.Store.Each(func(e *Entity) {
		if e.Destroyed {
			dead = append(dead, e)
		}
	})
	for _, e := range dead {
		if e.Inventory != nil {
			for _, id := range e.Inventory.Items {
				w.Store.Remove(id)
			}
			e.Inventory.Items = nil
		}
		w.Store.Remove(e.ID)
	}

	gone := func(id types.EntityID) bool { return w.Store.Get(id) == nil }
	w.actors = slices.DeleteFunc(w.actors, gone)
	w.constructions = slices.DeleteFunc(w.constructions, gone)
	return len(dead)
}

// Primary - главный актёр; nil, если он уже убран из арены.
func (w *World) Primary() *Entity {
	return w.Store.Get(w.primary)
}

func (w *World) PrimaryID() types.EntityID {
	return w.primary
}

// Actors - живые актёры в порядке ходов (главный первым).
func (w *World) Actors() []*Entity {
	return w.resolve(w.actors)
}

// Constructions - живые постройки в порядке регистрации.
func (w *World) Constructions() []*Entity {
	return w.resolve(w.constructions)
}

func (w *World) resolve(ids []types.EntityID) []*Entity {
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		if e := w.Store.Get(id); e.Alive() {
			out = append(out, e)
		}
	}
	return out
}

// TopFighter - верхний боец в колонке (цель выстрела или взрыва).
func (w *World) TopFighter(p Position) *Entity {
	col := w.Grid.Column(p)
	for i := len(col) - 1; i >= 0; i-- {
		if e := w.Store.Get(col[i]); e.Alive() && e.Fighter != nil {
			return e
		}
	}
	return nil
}
