package dungeon

import (
	"slices"

	"camp-engine/internal/domain"
)

// Factory - реестр прототипов по имени. Реализует systems.Prototypes:
// спавнеры, флаги, мины и площадки апгрейда строят сущности через него.
type Factory struct {
	templates map[string]EntityTemplate
}

// NewFactory создаёт фабрику со всеми стандартными шаблонами и героем.
func NewFactory() *Factory {
	f := &Factory{templates: make(map[string]EntityTemplate)}
	f.Register("hero", Hero)
	f.Register("drone", Drone)
	f.Register("tank", Tank)
	for _, set := range []map[string]EntityTemplate{EnemyTemplates, ConstructionTemplates, ItemTemplates} {
		for name, t := range set {
			f.Register(name, t)
		}
	}
	return f
}

// Register добавляет или заменяет шаблон.
func (f *Factory) Register(name string, t EntityTemplate) {
	f.templates[name] = t
}

func (f *Factory) Build(name string) (*domain.Entity, bool) {
	t, ok := f.templates[name]
	if !ok {
		return nil, false
	}
	return t.Spawn(), true
}

// Names - отсортированный список зарегистрированных прототипов.
func (f *Factory) Names() []string {
	out := make([]string, 0, len(f.templates))
	for name := range f.templates {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
