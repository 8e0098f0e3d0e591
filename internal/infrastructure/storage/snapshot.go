package storage

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"

	"camp-engine/internal/core/types"
	"camp-engine/internal/core/types/enums"
	"camp-engine/internal/domain"
)

// Snapshot - состояние мира между ходами: раскладка по слоям, компоненты
// каждой сущности, порядок ходов и игровой лог. Случайный генератор не
// сохраняется: воспроизводимость даёт запись партии, а не снимок.
type Snapshot struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Shard  uint8 `json:"shard"`

	Primary       types.EntityID   `json:"primary"`
	Actors        []types.EntityID `json:"actors"`
	Constructions []types.EntityID `json:"constructions"`

	Entities []EntityRecord `json:"entities"`
	Log      []string       `json:"log,omitempty"`
}

// EntityRecord - одна сущность арены в порядке индексов.
type EntityRecord struct {
	ID    types.EntityID `json:"id"`
	Kind  string         `json:"kind"`
	Layer string         `json:"layer"`

	X      int  `json:"x"`
	Y      int  `json:"y"`
	OnGrid bool `json:"onGrid"`

	Passable      bool `json:"passable"`
	AirPassable   bool `json:"airPassable"`
	AllowEntrance bool `json:"allowEntrance,omitempty"`

	Glyph types.Glyph `json:"glyph"`

	Descriptor *domain.Descriptor `json:"descriptor,omitempty"`
	Fighter    *domain.Fighter    `json:"fighter,omitempty"`
	Inventory  *InventoryRecord   `json:"inventory,omitempty"`
	Faction    *FactionRecord     `json:"faction,omitempty"`
	Breath     *domain.Breath     `json:"breath,omitempty"`
	Brain      *domain.Brain      `json:"brain,omitempty"`
	Usable     *domain.Usable     `json:"usable,omitempty"`
	Spawner    *domain.Spawner    `json:"spawner,omitempty"`
	Trap       *domain.Trap       `json:"trap,omitempty"`
	Upgrader   *domain.Upgrader   `json:"upgrader,omitempty"`
	Exit       *domain.Exit       `json:"exit,omitempty"`
}

type InventoryRecord struct {
	Volume int              `json:"volume"`
	Items  []types.EntityID `json:"items"`
}

// FactionRecord - фракция со множествами, развёрнутыми в сортированные списки.
type FactionRecord struct {
	Tag     string   `json:"tag"`
	Enemies []string `json:"enemies,omitempty"`
	Allies  []string `json:"allies,omitempty"`
}

// Capture снимает мир. Уничтоженные, но ещё не убранные сущности не попадают в снимок.
func Capture(w *domain.World) *Snapshot {
	snap := &Snapshot{
		Width:   w.Grid.Width(),
		Height:  w.Grid.Height(),
		Primary: w.PrimaryID(),
		Log:     w.Log.Last(domain.DefaultLogCapacity),
	}
	for _, e := range w.Actors() {
		snap.Actors = append(snap.Actors, e.ID)
	}
	for _, e := range w.Constructions() {
		snap.Constructions = append(snap.Constructions, e.ID)
	}
	w.Store.Each(func(e *domain.Entity) {
		if !e.Destroyed {
			snap.Shard = e.ID.Shard()
			snap.Entities = append(snap.Entities, record(e))
		}
	})
	return snap
}

func record(live *domain.Entity) EntityRecord {
	// Компоненты копируются: снимок не должен меняться вместе с миром
	e := live.Clone()
	e.ID, e.OnGrid, e.Pos = live.ID, live.OnGrid, live.Pos
	r := EntityRecord{
		ID:            e.ID,
		Kind:          e.Kind.String(),
		Layer:         e.Layer.String(),
		X:             e.Pos.X,
		Y:             e.Pos.Y,
		OnGrid:        e.OnGrid,
		Passable:      e.Passable,
		AirPassable:   e.AirPassable,
		AllowEntrance: e.AllowEntrance,
		Glyph:         e.Glyph,
		Descriptor:    e.Descriptor,
		Fighter:       e.Fighter,
		Breath:        e.Breath,
		Brain:         e.Brain,
		Usable:        e.Usable,
		Spawner:       e.Spawner,
		Trap:          e.Trap,
		Upgrader:      e.Upgrader,
		Exit:          e.Exit,
	}
	if live.Inventory != nil {
		r.Inventory = &InventoryRecord{Volume: live.Inventory.Volume, Items: append([]types.EntityID{}, live.Inventory.Items...)}
	}
	if e.Faction != nil {
		r.Faction = &FactionRecord{Tag: e.Faction.Tag, Enemies: e.Faction.EnemyTags(), Allies: e.Faction.AllyTags()}
	}
	return r
}

// Restore собирает новый мир по снимку. Сущности получают новые ID в арене;
// ссылки между ними (инвентари, главный актёр, порядок ходов) переводятся
// на новые ID.
func Restore(snap *Snapshot) (*domain.World, error) {
	w := domain.NewWorld(snap.Width, snap.Height, snap.Shard)
	remap := make(map[types.EntityID]*domain.Entity, len(snap.Entities))

	// 1. Регистрация в арене в исходном порядке
	for _, r := range snap.Entities {
		e, err := entity(r)
		if err != nil {
			return nil, err
		}
		w.Adopt(e)
		remap[r.ID] = e
	}

	// 2. Инвентари ссылаются на новые ID
	for _, r := range snap.Entities {
		if r.Inventory == nil {
			continue
		}
		owner := remap[r.ID]
		for _, old := range r.Inventory.Items {
			item, ok := remap[old]
			if !ok {
				return nil, eris.Errorf("inventory of %s references unknown item %s", r.ID, old)
			}
			if err := owner.Inventory.Append(item.ID); err != nil {
				return nil, eris.Wrapf(err, "restore inventory of %s", r.ID)
			}
		}
	}

	// 3. Сетка: сначала очередь ходов (главный первым), затем всё остальное
	placed := make(map[types.EntityID]bool, len(snap.Entities))
	spawn := func(old types.EntityID, primary bool) error {
		e, ok := remap[old]
		if !ok {
			return eris.Errorf("turn order references unknown entity %s", old)
		}
		at := e.Pos
		e.OnGrid = false
		var err error
		if primary {
			_, err = w.SpawnPrimary(e, at)
		} else {
			_, err = w.Spawn(e, at)
		}
		placed[old] = true
		return err
	}
	if _, alive := remap[snap.Primary]; alive {
		if err := spawn(snap.Primary, true); err != nil {
			return nil, eris.Wrap(err, "restore primary")
		}
	}
	for _, id := range append(append([]types.EntityID{}, snap.Actors...), snap.Constructions...) {
		if placed[id] {
			continue
		}
		if err := spawn(id, false); err != nil {
			return nil, eris.Wrapf(err, "restore %s", id)
		}
	}
	for _, r := range snap.Entities {
		if !r.OnGrid || placed[r.ID] {
			continue
		}
		e := remap[r.ID]
		e.OnGrid = false
		if err := w.Place(e, domain.Position{X: r.X, Y: r.Y}); err != nil {
			return nil, eris.Wrapf(err, "restore %s", r.ID)
		}
	}

	for _, msg := range snap.Log {
		w.Log.Add(msg)
	}
	return w, nil
}

func entity(r EntityRecord) (*domain.Entity, error) {
	kind := enums.ParseEntityKind(r.Kind)
	if kind == enums.EntityKindUnknown {
		return nil, eris.Errorf("entity %s has unknown kind %q", r.ID, r.Kind)
	}
	layer, ok := domain.ParseLayer(r.Layer)
	if !ok {
		return nil, eris.Errorf("entity %s has unknown layer %q", r.ID, r.Layer)
	}

	e := domain.NewEntity(kind, r.Glyph)
	e.Layer = layer
	e.Pos = domain.Position{X: r.X, Y: r.Y}
	e.Passable = r.Passable
	e.AirPassable = r.AirPassable
	e.AllowEntrance = r.AllowEntrance
	e.Descriptor = r.Descriptor
	e.Fighter = r.Fighter
	e.Breath = r.Breath
	e.Brain = r.Brain
	e.Usable = r.Usable
	e.Spawner = r.Spawner
	e.Trap = r.Trap
	e.Upgrader = r.Upgrader
	e.Exit = r.Exit
	if r.Inventory != nil {
		e.Inventory = &domain.Inventory{Volume: r.Inventory.Volume}
	}
	if r.Faction != nil {
		e.Faction = domain.NewFaction(r.Faction.Tag, r.Faction.Enemies, r.Faction.Allies)
	}
	// Свои копии компонентов: снимок можно восстанавливать многократно
	restored := e.Clone()
	restored.Pos = e.Pos
	return restored, nil
}

// Marshal / Unmarshal - JSON-форма снимка.
func (s *Snapshot) Marshal() ([]byte, error) {
	bz, err := json.Marshal(s)
	if err != nil {
		return nil, eris.Wrap(err, "encode snapshot")
	}
	return bz, nil
}

func UnmarshalSnapshot(bz []byte) (*Snapshot, error) {
	s := new(Snapshot)
	if err := json.Unmarshal(bz, s); err != nil {
		return nil, eris.Wrap(err, "decode snapshot")
	}
	return s, nil
}
