package navigation

import (
	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"

	"camp-engine/internal/core/types"
	"camp-engine/internal/core/types/enums"
	"camp-engine/internal/domain"
	"camp-engine/pkg/logger"
)

const (
	// Impassable - клетка, которую поле не рассматривает (стена, пустота).
	Impassable = -1
	// Unreachable - проходимая клетка, до которой волна не дошла.
	Unreachable = 1<<30 - 1
)

// EntityFilter - предикат над сущностью (аттрактор, триггер).
type EntityFilter func(e *domain.Entity) bool

// DistanceField - карта Дейкстры: для каждой клетки число шагов (диагональ
// = 1) до ближайшего аттрактора. Пересчитывается целиком при каждом
// значимом событии: волна идёт заново от всех аттракторов, частичных
// патчей нет.
type DistanceField struct {
	Name string

	world  *domain.World
	width  int
	height int
	values []int

	attractors  mapset.Set[types.EntityID]
	isAttractor EntityFilter
	triggers    map[domain.EventType]EntityFilter

	// Позиции аттракторов на момент последней сборки: повторное "moved"
	// без реального сдвига не вызывает пересборку.
	builtFor map[types.EntityID]domain.Position

	frontier []int
	next     []int

	Valid bool
	log   *logrus.Entry
}

// NewDistanceField создаёт поле и сразу собирает его. По умолчанию поле
// слушает перемещение и появление аттракторов, а также уничтожение и
// появление любых построек (они меняют проходимость).
func NewDistanceField(name string, world *domain.World, isAttractor EntityFilter) *DistanceField {
	size := world.Grid.Width() * world.Grid.Height()
	f := &DistanceField{
		Name:        name,
		world:       world,
		width:       world.Grid.Width(),
		height:      world.Grid.Height(),
		values:      make([]int, size),
		attractors:  mapset.New[types.EntityID](),
		isAttractor: isAttractor,
		triggers:    make(map[domain.EventType]EntityFilter),
		builtFor:    make(map[types.EntityID]domain.Position),
		log:         logger.Component("navigation").WithField("field", name),
	}

	isConstruction := func(e *domain.Entity) bool { return e.Kind == enums.EntityKindConstruction }
	orConstruction := func(e *domain.Entity) bool { return isAttractor(e) || isConstruction(e) }
	f.triggers[domain.EventMoved] = isAttractor
	f.triggers[domain.EventActorSpawned] = isAttractor
	f.triggers[domain.EventConstructionSpawned] = orConstruction
	f.triggers[domain.EventWasDestroyed] = orConstruction

	f.Reset()
	return f
}

// blocked: нет пола, пол непроходим, или стоит непроходимая постройка
// без фракции. Постройки с фракцией (вражеская турель) не блокируют -
// к ним надо уметь подойти, чтобы ударить.
func (f *DistanceField) blocked(p domain.Position) bool {
	bg := f.world.Grid.Entity(domain.LayerBackground, p)
	if bg == nil || !bg.Passable {
		return true
	}
	c := f.world.Grid.Entity(domain.LayerConstructions, p)
	return c != nil && !c.Passable && c.Faction == nil
}

// Reset заново собирает множество аттракторов по всей арене и пересобирает поле.
func (f *DistanceField) Reset() {
	f.attractors = mapset.New[types.EntityID]()
	f.world.Store.Each(func(e *domain.Entity) {
		if e.Alive() && e.OnGrid && f.isAttractor(e) {
			f.attractors.Put(e.ID)
		}
	})
	f.Rebuild()
}

// Rebuild - полный пересчёт волной от всех аттракторов.
func (f *DistanceField) Rebuild() {
	// 1. Непроходимое - сентинел, остальное - "ещё не достигнуто"
	for i := range f.values {
		p := domain.Position{X: i % f.width, Y: i / f.width}
		if f.blocked(p) {
			f.values[i] = Impassable
		} else {
			f.values[i] = Unreachable
		}
	}

	// 2. Клетки аттракторов - ноль
	f.frontier = f.frontier[:0]
	clear(f.builtFor)
	f.attractors.Each(func(id types.EntityID) {
		e := f.world.Entity(id)
		if !e.Alive() || !e.OnGrid {
			return
		}
		f.builtFor[id] = e.Pos
		i := e.Pos.Y*f.width + e.Pos.X
		if f.values[i] != 0 {
			f.values[i] = 0
			f.frontier = append(f.frontier, i)
		}
	})

	// 3. Волна по 8 соседям: каждая клетка получает значение ровно один раз
	for dist := 1; len(f.frontier) > 0; dist++ {
		f.next = f.next[:0]
		for _, i := range f.frontier {
			x, y := i%f.width, i/f.width
			for _, d := range domain.Directions8 {
				nx, ny := x+d.X, y+d.Y
				if nx < 0 || nx >= f.width || ny < 0 || ny >= f.height {
					continue
				}
				ni := ny*f.width + nx
				if f.values[ni] != Unreachable {
					continue
				}
				f.values[ni] = dist
				f.next = append(f.next, ni)
			}
		}
		f.frontier, f.next = f.next, f.frontier
	}

	f.Valid = true
	f.log.WithField("attractors", f.attractors.Size()).Debug("distance field rebuilt")
}

// Value - расстояние до ближайшего аттрактора. false для клеток вне сетки,
// непроходимых и недостижимых.
func (f *DistanceField) Value(p domain.Position) (int, bool) {
	if p.X < 0 || p.X >= f.width || p.Y < 0 || p.Y >= f.height {
		return 0, false
	}
	v := f.values[p.Y*f.width+p.X]
	if v == Impassable || v == Unreachable {
		return 0, false
	}
	return v, true
}

// Raw - значение клетки вместе с сентинелами (отладка, тесты инвариантов).
func (f *DistanceField) Raw(p domain.Position) int {
	return f.values[p.Y*f.width+p.X]
}

func (f *DistanceField) Width() int  { return f.width }
func (f *DistanceField) Height() int { return f.height }

func (f *DistanceField) HasAttractor(id types.EntityID) bool {
	return f.attractors.Has(id)
}

func (f *DistanceField) AttractorCount() int {
	return f.attractors.Size()
}

// Observe применяет событие к множеству аттракторов. Возвращает true, если
// поле нужно пересобрать.
func (f *DistanceField) Observe(ev domain.GameEvent) bool {
	filter, ok := f.triggers[ev.Type]
	if !ok {
		return false
	}
	e := f.world.Entity(ev.Actor)

	if ev.Type == domain.EventWasDestroyed {
		if f.attractors.Has(ev.Actor) {
			f.attractors.Remove(ev.Actor)
			return true
		}
		return e != nil && filter(e)
	}

	if e == nil || !filter(e) {
		return false
	}
	if f.isAttractor(e) && e.Alive() && e.OnGrid {
		if !f.attractors.Has(e.ID) {
			f.attractors.Put(e.ID)
			return true
		}
		if ev.Type == domain.EventMoved {
			pos, built := f.builtFor[e.ID]
			return !built || pos != e.Pos
		}
	}
	return true
}

// ProcessGameEvent делает поле слушателем диспетчера.
func (f *DistanceField) ProcessGameEvent(ev domain.GameEvent) {
	if f.Observe(ev) {
		f.Rebuild()
	}
}
