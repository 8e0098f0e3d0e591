package domain

import (
	"github.com/rotisserie/eris"

	"camp-engine/internal/core/types"
)

type slot struct {
	gen    uint16
	entity *Entity
}

// EntityStore - арена сущностей. Сетка, инвентари и поля хранят только
// EntityID; устаревший ID (после удаления) больше не разрешается в сущность.
type EntityStore struct {
	shard uint8
	slots []slot
	free  []uint32
}

func NewEntityStore(shard uint8) *EntityStore {
	return &EntityStore{shard: shard}
}

// Add выдаёт сущности ID и связывает компоненты с владельцем.
func (s *EntityStore) Add(e *Entity) types.EntityID {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = uint32(len(s.slots))
		s.slots = append(s.slots, slot{})
	}

	sl := &s.slots[idx]
	// Поколение начинается с 1, поэтому выданный ID никогда не равен NilEntityID.
	sl.gen++
	if sl.gen == 0 {
		sl.gen = 1
	}
	sl.entity = e

	e.ID = types.PackEntityID(s.shard, e.Kind, sl.gen, idx)
	e.bindOwner()
	return e.ID
}

// Get разрешает ID; nil для пустого, чужого или устаревшего ID.
func (s *EntityStore) Get(id types.EntityID) *Entity {
	if id.IsNil() || id.Shard() != s.shard {
		return nil
	}
	idx := id.Index()
	if int(idx) >= len(s.slots) {
		return nil
	}
	sl := s.slots[idx]
	if sl.entity == nil || sl.gen != id.Generation() {
		return nil
	}
	return sl.entity
}

// Lookup - Get с ошибкой для вызывающих, которым ID достался из хранимой
// ссылки (инвентарь, очередь ходов).
func (s *EntityStore) Lookup(id types.EntityID) (*Entity, error) {
	if e := s.Get(id); e != nil {
		return e, nil
	}
	return nil, eris.Wrapf(ErrStaleEntity, "resolve %s", id)
}

// Remove освобождает слот. Повторное удаление - false.
func (s *EntityStore) Remove(id types.EntityID) bool {
	if s.Get(id) == nil {
		return false
	}
	idx := id.Index()
	s.slots[idx].entity = nil
	s.free = append(s.free, idx)
	return true
}

// Len - число живых слотов.
func (s *EntityStore) Len() int {
	return len(s.slots) - len(s.free)
}

// Each обходит сущности в порядке индексов.
func (s *EntityStore) Each(fn func(e *Entity)) {
	for _, sl := range s.slots {
		if sl.entity != nil {
			fn(sl.entity)
		}
	}
}
