package dungeon

import (
	"math/rand"

	"camp-engine/internal/domain"
)

// LevelSource строит уровень по номеру (1 - верхний).
type LevelSource interface {
	Generate(level int, rng *rand.Rand) (*domain.World, domain.Position, error)
}

// LevelOptions - откуда брать уровни при запуске.
type LevelOptions struct {
	// MapsDir - каталог с *.lvl; если задан, остальное не используется.
	MapsDir string
	// NoCamp - начинать сразу в подземелье, без лагеря.
	NoCamp bool
	Width  int
	Height int
	Shard  uint8
}

// Levels выбирает источник уровней: готовые карты, лагерь с подземельем под
// ним или одно подземелье.
func Levels(opts LevelOptions, factory *Factory) (LevelSource, error) {
	if opts.MapsDir != "" {
		maps, err := LoadMapDir(opts.MapsDir, opts.Shard, factory)
		if err != nil {
			return nil, err
		}
		return maps, nil
	}

	depths := NewGenerator(opts.Width, opts.Height, opts.Shard, factory)
	if opts.NoCamp {
		return depths, nil
	}
	surface, err := NewSurface(factory, depths)
	if err != nil {
		return nil, err
	}
	return surface, nil
}
