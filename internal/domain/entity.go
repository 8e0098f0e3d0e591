package domain

import (
	"slices"

	"camp-engine/internal/core/types"
	"camp-engine/internal/core/types/enums"
)

// Entity - тайл, актёр, постройка или предмет. Что сущность умеет, решают
// компоненты: nil-компонент означает отсутствие способности.
type Entity struct {
	ID   types.EntityID
	Kind enums.EntityKind

	Pos    Position
	Layer  Layer
	OnGrid bool

	// Passable - можно ли войти в клетку пешком, AirPassable - пролетит ли снаряд.
	Passable    bool
	AirPassable bool
	// AllowEntrance - дружественные бойцы проходят сквозь (флаги, платформы).
	AllowEntrance bool
	Destroyed     bool

	Glyph types.Glyph

	// Компоненты (Если nil - значит свойство отсутствует)
	Descriptor *Descriptor
	Fighter    *Fighter
	Inventory  *Inventory
	Faction    *Faction
	Breath     *Breath
	Brain      *Brain
	Usable     *Usable
	Spawner    *Spawner
	Trap       *Trap
	Upgrader   *Upgrader
	Exit       *Exit
}

// DefaultLayer - домашний слой для варианта сущности.
func DefaultLayer(kind enums.EntityKind) Layer {
	switch kind {
	case enums.EntityKindActor:
		return LayerActors
	case enums.EntityKindConstruction:
		return LayerConstructions
	case enums.EntityKindItem:
		return LayerItems
	default:
		return LayerBackground
	}
}

// NewEntity создаёт сущность варианта kind в её домашнем слое.
func NewEntity(kind enums.EntityKind, glyph types.Glyph) *Entity {
	return &Entity{
		Kind:        kind,
		Layer:       DefaultLayer(kind),
		Passable:    true,
		AirPassable: true,
		Glyph:       glyph,
	}
}

// Name - имя для лога; безымянные сущности представляются вариантом.
func (e *Entity) Name() string {
	if e.Descriptor != nil && e.Descriptor.Name != "" {
		return e.Descriptor.Name
	}
	return e.Kind.String()
}

// Alive - сущность ещё участвует в симуляции.
func (e *Entity) Alive() bool {
	return e != nil && !e.Destroyed
}

// Clone делает глубокую копию без идентичности: ID сброшен, сущность вне
// сетки, инвентарь пуст (предметы не делятся между владельцами).
func (e *Entity) Clone() *Entity {
	c := *e
	c.ID = types.NilEntityID
	c.OnGrid = false
	c.Destroyed = false

	if e.Descriptor != nil {
		d := *e.Descriptor
		c.Descriptor = &d
	}
	if e.Fighter != nil {
		c.Fighter = e.Fighter.clone()
	}
	if e.Inventory != nil {
		c.Inventory = &Inventory{Volume: e.Inventory.Volume}
	}
	if e.Faction != nil {
		c.Faction = e.Faction.clone()
	}
	if e.Breath != nil {
		c.Breath = e.Breath.clone()
	}
	if e.Brain != nil {
		c.Brain = e.Brain.clone()
	}
	if e.Usable != nil {
		u := *e.Usable
		u.Values = slices.Clone(e.Usable.Values)
		c.Usable = &u
	}
	if e.Spawner != nil {
		s := *e.Spawner
		c.Spawner = &s
	}
	if e.Trap != nil {
		t := *e.Trap
		t.Effect.Values = slices.Clone(e.Trap.Effect.Values)
		c.Trap = &t
	}
	if e.Upgrader != nil {
		u := *e.Upgrader
		c.Upgrader = &u
	}
	if e.Exit != nil {
		x := *e.Exit
		c.Exit = &x
	}
	return &c
}

// bindOwner проставляет обратные ссылки компонентов после выдачи ID.
func (e *Entity) bindOwner() {
	if e.Fighter != nil {
		e.Fighter.Owner = e.ID
	}
	if e.Inventory != nil {
		e.Inventory.Owner = e.ID
	}
	if e.Faction != nil {
		e.Faction.Owner = e.ID
	}
	if e.Breath != nil {
		e.Breath.Owner = e.ID
	}
}
