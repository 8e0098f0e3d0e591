package dungeon

import (
	"math/rand"

	"camp-engine/internal/domain"
)

// Константы генерации
const (
	MapWidth  = 40
	MapHeight = 24
	MaxRooms  = 8
	MinSize   = 4
	MaxSize   = 10
)

// Generator строит уровни подземелья из комнат и коридоров. Всё случайное
// берётся из переданного генератора: один seed - одно подземелье.
type Generator struct {
	Width   int
	Height  int
	Shard   uint8
	Factory *Factory
}

func NewGenerator(width, height int, shard uint8, factory *Factory) *Generator {
	return &Generator{Width: width, Height: height, Shard: shard, Factory: factory}
}

// Generate создает уровень level. Чем глубже, тем больше врагов; лучники
// появляются со второго уровня, турели с третьего.
func (g *Generator) Generate(level int, rng *rand.Rand) (*domain.World, domain.Position, error) {
	b := NewLevel(level, rng, g.Factory).
		WithSize(g.Width, g.Height).
		WithShard(g.Shard).
		WithRooms(MaxRooms)

	// Лестница ВНИЗ в последней комнате, ВВЕРХ рядом со стартом
	b.PlaceExit("down", level+1)
	if level > 1 {
		b.PlaceExit("up", level-1)
	}

	b.SpawnEnemy("thug", 2+level).
		SpawnEnemy("goblin", level)
	if level >= 2 {
		b.SpawnEnemy("archer", level-1)
	}
	if level >= 3 {
		b.SpawnConstruction("turret", 1)
	}

	b.SpawnConstruction("nest", 1).
		SpawnConstruction("mine", level/2).
		SpawnConstruction("tree", 3).
		SpawnLoot(3)

	if level == 1 {
		b.StarterKit("bottle", "flag", "landmine", "rocket", "ammo_pack")
	}
	return b.Build()
}
