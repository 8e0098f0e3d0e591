// Package version - номер сборки: число суток от эпохи до даты сборки.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/rotisserie/eris"
)

// Заполняются при сборке:
// -ldflags "-X camp-engine/internal/version.BuildDate=2026-03-01 -X camp-engine/internal/version.Commit=abc123"
var (
	BuildDate string // YYYY-MM-DD (UTC)
	Commit    string
)

// ErrNoBuildDate - бинарник собран без даты.
var ErrNoBuildDate = eris.New("build date is not set")

var epoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// VersionInfo - ответ /version.
type VersionInfo struct {
	BuildID   int    `json:"buildId"`
	BuildDate string `json:"buildDate,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Go        string `json:"go"`
	Error     string `json:"error,omitempty"`
}

// BuildIDFor - номер сборки для даты.
func BuildIDFor(date string) (int, error) {
	if date == "" {
		return 0, ErrNoBuildDate
	}
	t, err := time.ParseInLocation(time.DateOnly, date, time.UTC)
	if err != nil {
		return 0, eris.Wrapf(err, "invalid build date %q", date)
	}
	if t.Before(epoch) {
		return 0, eris.Errorf("build date %s is before epoch %s", date, epoch.Format(time.DateOnly))
	}
	return int(t.Sub(epoch).Hours() / 24), nil
}

// Info собирает сведения о бинарнике. Без -X Commit берётся ревизия, которую
// go build записал сам.
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    Commit,
		Go:        runtime.Version(),
	}
	if info.Commit == "" {
		info.Commit = vcsRevision()
	}

	id, err := BuildIDFor(BuildDate)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.BuildID = id
	return info
}

func vcsRevision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

// String - строка для лога при старте.
func String() string {
	info := Info()
	if info.Error != "" {
		return fmt.Sprintf("camp-engine build unknown (%s), %s", info.Error, info.Go)
	}
	s := fmt.Sprintf("camp-engine build %d (%s), %s", info.BuildID, info.BuildDate, info.Go)
	if info.Commit != "" {
		s += ", commit " + info.Commit
	}
	return s
}
