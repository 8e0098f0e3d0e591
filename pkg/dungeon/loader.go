package dungeon

import (
	"bufio"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"camp-engine/internal/domain"
)

// ErrBadMap - текстовая карта не разобрана.
var ErrBadMap = eris.New("bad map file")

// Glyphs - символ текстовой карты → имя прототипа. '.' - пустой пол,
// '@' - точка старта главного актёра.
var Glyphs = map[rune]string{
	'#': "tree",
	'_': "hole",
	'S': "nest",
	'^': "mine",
	'f': "headless",
	't': "turret",
	'U': "upgrader",
	'>': "exit_down",
	'<': "exit_up",
	'z': "thug",
	'g': "goblin",
	'a': "archer",
	'd': "drone",
	'B': "bottle",
	'A': "ammo_pack",
	'F': "flag",
	'L': "landmine",
	'R': "rocket",
}

// MapFile - разобранная текстовая карта: теги из заголовка и строки сетки.
//
//	//width 5
//	//height 3
//	#####
//	#@.z#
//	#####
type MapFile struct {
	Width  int
	Height int
	Tags   map[string]string
	Lines  []string
}

// ParseMap читает заголовок из строк "//tag value" и следующие за ним строки карты.
func ParseMap(r io.Reader) (*MapFile, error) {
	m := &MapFile{Tags: make(map[string]string)}
	sc := bufio.NewScanner(r)
	readingMap := false
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.HasPrefix(line, "//") {
			if readingMap {
				// Теги после карты не читаются
				break
			}
			fields := strings.Fields(strings.TrimPrefix(line, "//"))
			if len(fields) != 2 {
				return nil, eris.Wrapf(ErrBadMap, "incorrect tag line %q", line)
			}
			m.Tags[fields[0]] = fields[1]
			continue
		}
		if line == "" && !readingMap {
			continue
		}
		readingMap = true
		m.Lines = append(m.Lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrap(err, "read map")
	}

	var err error
	if m.Width, err = m.intTag("width"); err != nil {
		return nil, err
	}
	if m.Height, err = m.intTag("height"); err != nil {
		return nil, err
	}
	if len(m.Lines) < m.Height {
		return nil, eris.Wrapf(ErrBadMap, "expected %d rows, got %d", m.Height, len(m.Lines))
	}
	for y := 0; y < m.Height; y++ {
		if n := len([]rune(m.Lines[y])); n < m.Width {
			return nil, eris.Wrapf(ErrBadMap, "row %d has %d cells, expected %d", y, n, m.Width)
		}
	}
	return m, nil
}

func (m *MapFile) intTag(name string) (int, error) {
	raw, ok := m.Tags[name]
	if !ok {
		return 0, eris.Wrapf(ErrBadMap, "missing tag %q", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, eris.Wrapf(ErrBadMap, "tag %s=%q is not a positive integer", name, raw)
	}
	return v, nil
}

// Build собирает мир по карте: под каждой клеткой пол, поверх - прототип
// символа. Выходы получают назначение level+1 (вниз) или level-1 (вверх).
func (m *MapFile) Build(level int, shard uint8, factory *Factory) (*domain.World, domain.Position, error) {
	world := domain.NewWorld(m.Width, m.Height, shard)
	start := domain.Position{X: -1, Y: -1}

	for y := 0; y < m.Height; y++ {
		row := []rune(m.Lines[y])
		for x := 0; x < m.Width; x++ {
			p := domain.Position{X: x, Y: y}
			if _, err := world.Spawn(FloorTile(), p); err != nil {
				return nil, start, eris.Wrapf(err, "lay floor at %s", p)
			}

			switch ch := row[x]; ch {
			case '.', ' ':
			case '@':
				start = p
			default:
				name, ok := Glyphs[ch]
				if !ok {
					return nil, start, eris.Wrapf(ErrBadMap, "unknown glyph %q at %s", ch, p)
				}
				e, ok := factory.Build(name)
				if !ok {
					return nil, start, eris.Errorf("prototype %q is not defined", name)
				}
				if e.Exit != nil {
					e.Exit.Destination = level + 1
					if name == "exit_up" {
						e.Exit.Destination = level - 1
					}
				}
				if _, err := world.Spawn(e, p); err != nil {
					return nil, start, eris.Wrapf(err, "place %s at %s", name, p)
				}
			}
		}
	}

	if start.X < 0 {
		return nil, start, eris.Wrap(ErrBadMap, "no start position '@'")
	}
	return world, start, nil
}

// MapLevels - уровни из готовых текстовых карт; уровень n берёт карту
// n-1 по кругу.
type MapLevels struct {
	Maps    []*MapFile
	Shard   uint8
	Factory *Factory
}

// LoadMapDir читает все *.lvl из каталога в порядке имён.
func LoadMapDir(dir string, shard uint8, factory *Factory) (*MapLevels, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.lvl"))
	if err != nil {
		return nil, eris.Wrapf(err, "list maps in %s", dir)
	}
	if len(paths) == 0 {
		return nil, eris.Wrapf(ErrBadMap, "no *.lvl files in %s", dir)
	}
	slices.Sort(paths)

	levels := &MapLevels{Shard: shard, Factory: factory}
	for _, path := range paths {
		m, err := loadMapFile(path)
		if err != nil {
			return nil, err
		}
		levels.Maps = append(levels.Maps, m)
	}
	return levels, nil
}

func loadMapFile(path string) (*MapFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open map %s", path)
	}
	defer f.Close()

	m, err := ParseMap(f)
	if err != nil {
		return nil, eris.Wrapf(err, "parse map %s", path)
	}
	return m, nil
}

func (l *MapLevels) Generate(level int, _ *rand.Rand) (*domain.World, domain.Position, error) {
	if len(l.Maps) == 0 {
		return nil, domain.Position{}, eris.Wrap(ErrBadMap, "no maps loaded")
	}
	i := (max(level, 1) - 1) % len(l.Maps)
	return l.Maps[i].Build(level, l.Shard, l.Factory)
}
