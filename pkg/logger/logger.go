package logger

import (
	"io"
	"os"
	"strings"

	"github.com/JeremyLoy/config"
	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
// До вызова Init пишет в stderr с уровнем info.
var Log = logrus.New()

// Options - параметры логгера, читаемые из окружения.
type Options struct {
	Level  string `config:"LOG_LEVEL"`
	Format string `config:"LOG_FORMAT"`
}

// Init инициализирует глобальный логгер.
// Эта функция должна быть вызвана один раз при старте приложения в main.go.
func Init() {
	opts := Options{Level: "info", Format: "text"}
	// Ошибка возможна только при кривом значении; остаёмся на умолчаниях.
	_ = config.FromEnv().To(&opts)
	Configure(opts, os.Stdout)
}

// Configure применяет опции к глобальному логгеру.
func Configure(opts Options, out io.Writer) {
	// 1. Уровень. Для отладки симуляции выставляйте LOG_LEVEL=debug.
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// 2. Форматтер: "json" для сбора логов, иначе текст.
	if strings.ToLower(opts.Format) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	// 3. Куда писать.
	Log.SetOutput(out)
}

// Silence глушит вывод (используется в TestMain пакетов, которые логируют).
func Silence() {
	Log.SetOutput(io.Discard)
	Log.SetLevel(logrus.PanicLevel)
}

// Component возвращает логгер с полем component.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}
