package navigation

import (
	"slices"

	"camp-engine/internal/domain"
)

// Стандартные имена полей: веса Brain ссылаются на них в прототипах.
const (
	FieldPC       = "pc"
	FieldUpgrader = "upgrader"
)

// Set - именованные поля расстояний одного мира. Регистрируется в
// диспетчере одним слушателем и раздаёт события полям в порядке добавления.
type Set struct {
	fields map[string]*DistanceField
	order  []string
}

func NewSet(fields ...*DistanceField) *Set {
	s := &Set{fields: make(map[string]*DistanceField)}
	for _, f := range fields {
		s.Add(f)
	}
	return s
}

// Add добавляет поле; поле с тем же именем заменяется.
func (s *Set) Add(f *DistanceField) {
	if _, ok := s.fields[f.Name]; !ok {
		s.order = append(s.order, f.Name)
	}
	s.fields[f.Name] = f
}

func (s *Set) Get(name string) (*DistanceField, bool) {
	f, ok := s.fields[name]
	return f, ok
}

func (s *Set) Names() []string {
	return slices.Clone(s.order)
}

// Combined - взвешенная сумма полей в клетке. Если хоть одно поле из
// weights отсутствует или не определено в клетке, сумма не определена.
func (s *Set) Combined(weights map[string]int, p domain.Position) (int, bool) {
	if len(weights) == 0 {
		return 0, false
	}
	sum := 0
	for name, w := range weights {
		f, ok := s.fields[name]
		if !ok {
			return 0, false
		}
		v, ok := f.Value(p)
		if !ok {
			return 0, false
		}
		sum += w * v
	}
	return sum, true
}

// Refresh применяет ещё не доставленные события и пересобирает затронутые
// поля. Вызывается сразу после успешного хода главного актёра, чтобы
// остальные ходили по свежему полю, а не ждали разбора очереди.
// Возвращает число пересобранных полей.
func (s *Set) Refresh(pending []domain.GameEvent) int {
	n := 0
	for _, name := range s.order {
		f := s.fields[name]
		dirty := false
		for _, ev := range pending {
			if f.Observe(ev) {
				dirty = true
			}
		}
		if dirty {
			f.Rebuild()
			n++
		}
	}
	return n
}

func (s *Set) ProcessGameEvent(ev domain.GameEvent) {
	for _, name := range s.order {
		s.fields[name].ProcessGameEvent(ev)
	}
}
