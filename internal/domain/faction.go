package domain

import (
	"slices"

	"github.com/zyedidia/generic/mapset"

	"camp-engine/internal/core/types"
)

// Faction - тег стороны и явные множества врагов и союзников.
// Вражда несимметрична: решает множество того, кто действует.
type Faction struct {
	Owner   types.EntityID
	Tag     string
	Enemies mapset.Set[string]
	Allies  mapset.Set[string]
}

func NewFaction(tag string, enemies, allies []string) *Faction {
	f := &Faction{
		Tag:     tag,
		Enemies: mapset.New[string](),
		Allies:  mapset.New[string](),
	}
	for _, e := range enemies {
		f.Enemies.Put(e)
	}
	for _, a := range allies {
		f.Allies.Put(a)
	}
	return f
}

// IsEnemy - считает ли f сторону other враждебной.
func (f *Faction) IsEnemy(other *Faction) bool {
	if f == nil || other == nil {
		return false
	}
	return f.Enemies.Has(other.Tag)
}

// IsFriendly - своя сторона или явный союзник.
func (f *Faction) IsFriendly(other *Faction) bool {
	if f == nil || other == nil {
		return false
	}
	return f.Tag == other.Tag || f.Allies.Has(other.Tag)
}

// EnemyTags возвращает отсортированный список (для снапшотов и логов).
func (f *Faction) EnemyTags() []string {
	return sortedTags(f.Enemies)
}

func (f *Faction) AllyTags() []string {
	return sortedTags(f.Allies)
}

func (f *Faction) clone() *Faction {
	return NewFaction(f.Tag, f.EnemyTags(), f.AllyTags())
}

func sortedTags(s mapset.Set[string]) []string {
	out := make([]string, 0, s.Size())
	s.Each(func(tag string) {
		out = append(out, tag)
	})
	slices.Sort(out)
	return out
}
