package systems

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"camp-engine/internal/domain"
	"camp-engine/internal/events"
	"camp-engine/internal/navigation"
)

// Prototypes строит свежую сущность по имени прототипа (спавнеры, мины, апгрейды).
type Prototypes interface {
	Build(name string) (*domain.Entity, bool)
}

// Context - всё, что нужно системам для одного действия. Передаётся явно,
// глобального состояния у систем нет.
type Context struct {
	World      *domain.World
	Events     *events.Dispatcher
	Fields     *navigation.Set
	Rng        *rand.Rand
	Prototypes Prototypes
	Log        *logrus.Entry
}

func (c *Context) emit(t domain.EventType, actor *domain.Entity) {
	if err := c.Events.Emit(t, actor); err != nil {
		c.Log.WithError(err).Error("failed to emit event")
	}
}

func (c *Context) emitAt(t domain.EventType, actor *domain.Entity, loc domain.Position) {
	if err := c.Events.EmitAt(t, actor, loc); err != nil {
		c.Log.WithError(err).Error("failed to emit event")
	}
}

// Message пишет строку в игровой лог и сообщает об этом слушателям.
func (c *Context) Message(format string, args ...any) {
	c.World.Log.Add(fmt.Sprintf(format, args...))
	c.emit(domain.EventLogUpdated, nil)
}

func (c *Context) build(name string) (*domain.Entity, bool) {
	if c.Prototypes == nil {
		return nil, false
	}
	return c.Prototypes.Build(name)
}
