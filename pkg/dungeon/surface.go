package dungeon

import (
	"math/rand"
	"strings"

	"github.com/rotisserie/eris"

	"camp-engine/internal/domain"
)

// CampMap - "домашний" уровень: лагерь с площадкой апгрейда, дронами и
// гнездом за рекой деревьев. Лестница ведёт в подземелье.
const CampMap = `//width 20
//height 9
####################
#@..B......#.......#
#..d.......#...z...#
#..U.......#.......#
#..........^...S...#
#..d.......#.......#
#.F........#...g...#
#..........#......>#
####################
`

// Surface - источник уровней, где первым идёт лагерь из текстовой карты,
// а все следующие уровни отдаёт Depths.
type Surface struct {
	Map     *MapFile
	Shard   uint8
	Factory *Factory
	Depths  *Generator
}

// NewSurface разбирает CampMap.
func NewSurface(factory *Factory, depths *Generator) (*Surface, error) {
	m, err := ParseMap(strings.NewReader(CampMap))
	if err != nil {
		return nil, eris.Wrap(err, "parse camp map")
	}
	s := &Surface{Map: m, Factory: factory, Depths: depths}
	if depths != nil {
		s.Shard = depths.Shard
	}
	return s, nil
}

// Generate создает лагерь для уровня 1; глубже уровни строит Depths с тем же номером.
func (s *Surface) Generate(level int, rng *rand.Rand) (*domain.World, domain.Position, error) {
	if level > 1 && s.Depths != nil {
		return s.Depths.Generate(level, rng)
	}
	return s.Map.Build(level, s.Shard, s.Factory)
}
