package engine

import (
	"time"

	"github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
)

// Config хранит параметры запуска движка
type Config struct {
	// Seed - мастер-зерно. От него зависят генерация уровней и все броски.
	Seed    int64 `config:"CAMP_SEED"`
	ShardID uint8 `config:"CAMP_SHARD"`

	Width  int `config:"CAMP_WIDTH"`
	Height int `config:"CAMP_HEIGHT"`

	// ReplayDir - куда складывать записи партий (пусто - не писать).
	ReplayDir string `config:"CAMP_REPLAY_DIR"`
	Addr      string `config:"CAMP_ADDR"`
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:   time.Now().UnixNano(),
		Width:  40,
		Height: 24,
		Addr:   ":8080",
	}
}

// LoadConfig накладывает переменные окружения CAMP_* на значения по умолчанию.
func LoadConfig() (Config, error) {
	cfg := NewConfig()
	if err := config.FromEnv().To(&cfg); err != nil {
		return cfg, eris.Wrap(err, "load engine config")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, eris.Errorf("grid size %dx%d must be positive", cfg.Width, cfg.Height)
	}
	return cfg, nil
}
