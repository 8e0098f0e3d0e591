package dungeon

import (
	"math/rand"

	"github.com/rotisserie/eris"

	"camp-engine/internal/core/types"
	"camp-engine/internal/core/types/enums"
	"camp-engine/internal/domain"
	"camp-engine/pkg/utils"
)

// Rect - Вспомогательная структура для комнаты
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Y <= other.Y+other.H && r.Y+r.H >= other.Y
}

// Contains - клетка внутри комнаты (стены периметра не считаются).
func (r Rect) Contains(p domain.Position) bool {
	return p.X > r.X && p.X < r.X+r.W && p.Y > r.Y && p.Y < r.Y+r.H
}

func createRoom(floor [][]bool, room Rect) {
	for y := room.Y + 1; y < room.Y+room.H; y++ {
		for x := room.X + 1; x < room.X+room.W; x++ {
			floor[y][x] = true
		}
	}
}

func createHCorridor(floor [][]bool, x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		floor[y][x] = true
	}
}

func createVCorridor(floor [][]bool, y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		floor[y][x] = true
	}
}

// FloorTile и RockTile - фон клетки.
func FloorTile() *domain.Entity {
	return domain.NewEntity(enums.EntityKindTile, types.MakeGlyph(types.ColorFloor, '.'))
}

func RockTile() *domain.Entity {
	t := domain.NewEntity(enums.EntityKindTile, types.MakeGlyph(types.ColorWall, '#'))
	t.Passable = false
	t.AirPassable = false
	return t
}

// LevelBuilder предоставляет fluent API для создания уровней. Первая
// ошибка запоминается, остальные шаги после неё ничего не делают;
// Build её возвращает.
type LevelBuilder struct {
	level   int
	width   int
	height  int
	shard   uint8
	rooms   []Rect
	floor   [][]bool
	world   *domain.World
	factory *Factory
	rng     *rand.Rand
	err     error
}

// NewLevel создает новый builder для уровня
func NewLevel(level int, rng *rand.Rand, factory *Factory) *LevelBuilder {
	return &LevelBuilder{
		level:   level,
		width:   MapWidth,
		height:  MapHeight,
		factory: factory,
		rng:     rng,
	}
}

// WithSize устанавливает размер карты
func (b *LevelBuilder) WithSize(width, height int) *LevelBuilder {
	b.width = width
	b.height = height
	return b
}

func (b *LevelBuilder) WithShard(shard uint8) *LevelBuilder {
	b.shard = shard
	return b
}

// WithRooms генерирует комнаты и коридоры и выстилает фон мира.
func (b *LevelBuilder) WithRooms(maxRooms int) *LevelBuilder {
	if b.err != nil {
		return b
	}
	maxSize := min(MaxSize, b.width-3, b.height-3)
	if maxSize < MinSize {
		b.err = eris.Errorf("map %dx%d is too small for rooms", b.width, b.height)
		return b
	}

	b.floor = make([][]bool, b.height)
	for y := range b.floor {
		b.floor[y] = make([]bool, b.width)
	}

	// Генерируем комнаты
	b.rooms = make([]Rect, 0, maxRooms)
	for i := 0; i < maxRooms; i++ {
		w := utils.RandRange(b.rng, MinSize, maxSize)
		h := utils.RandRange(b.rng, MinSize, maxSize)
		x := utils.RandRange(b.rng, 1, b.width-w-1)
		y := utils.RandRange(b.rng, 1, b.height-h-1)

		newRoom := Rect{X: x, Y: y, W: w, H: h}

		// Проверяем пересечения
		failed := false
		for _, other := range b.rooms {
			if newRoom.Intersects(other) {
				failed = true
				break
			}
		}
		if failed {
			continue
		}

		createRoom(b.floor, newRoom)

		// Соединяем с предыдущей комнатой
		if len(b.rooms) > 0 {
			prevX, prevY := b.rooms[len(b.rooms)-1].Center()
			currX, currY := newRoom.Center()

			if b.rng.Intn(2) == 0 {
				createHCorridor(b.floor, prevX, currX, prevY)
				createVCorridor(b.floor, prevY, currY, currX)
			} else {
				createVCorridor(b.floor, prevY, currY, prevX)
				createHCorridor(b.floor, prevX, currX, currY)
			}
		}
		b.rooms = append(b.rooms, newRoom)
	}

	b.world = domain.NewWorld(b.width, b.height, b.shard)
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			tile := RockTile()
			if b.floor[y][x] {
				tile = FloorTile()
			}
			if _, err := b.world.Spawn(tile, domain.Position{X: x, Y: y}); err != nil {
				b.err = eris.Wrap(err, "lay background")
				return b
			}
		}
	}
	return b
}

// free - клетка пола, свободная в слое layer и не совпадающая со стартом.
func (b *LevelBuilder) free(p domain.Position, layer domain.Layer) bool {
	return b.world.Grid.InBounds(p) &&
		b.floor[p.Y][p.X] &&
		p != b.GetStartPos() &&
		b.world.Grid.Get(layer, p).IsNil() &&
		b.world.Grid.EntrancePossible(p)
}

// randomCell ищет свободную клетку внутри room (не больше 20 попыток).
func (b *LevelBuilder) randomCell(room Rect, layer domain.Layer) (domain.Position, bool) {
	for attempt := 0; attempt < 20; attempt++ {
		p := domain.Position{
			X: utils.RandRange(b.rng, room.X+1, room.X+room.W-1),
			Y: utils.RandRange(b.rng, room.Y+1, room.Y+room.H-1),
		}
		if b.free(p, layer) {
			return p, true
		}
	}
	return domain.Position{}, false
}

func (b *LevelBuilder) spawn(name string, p domain.Position) (*domain.Entity, bool) {
	e, ok := b.factory.Build(name)
	if !ok {
		b.err = eris.Errorf("prototype %q is not defined", name)
		return nil, false
	}
	if _, err := b.world.Spawn(e, p); err != nil {
		b.err = eris.Wrapf(err, "spawn %s at %s", name, p)
		return nil, false
	}
	return e, true
}

// SpawnEnemy ставит count врагов из шаблона в случайные комнаты, кроме первой.
// Каждому врагу достаётся случайный предмет из LootTable, если есть куда положить.
func (b *LevelBuilder) SpawnEnemy(templateName string, count int) *LevelBuilder {
	for i := 0; i < count && b.err == nil && len(b.rooms) > 1; i++ {
		room := b.rooms[b.rng.Intn(len(b.rooms)-1)+1]
		pos, ok := b.randomCell(room, domain.LayerActors)
		if !ok {
			continue
		}
		enemy, ok := b.spawn(templateName, pos)
		if !ok {
			return b
		}

		// Масштабируем здоровье по уровню
		if enemy.Fighter != nil {
			enemy.Fighter.MaxHP += (b.level - 1) / 2
			enemy.Fighter.HP = enemy.Fighter.MaxHP
		}
		if enemy.Inventory != nil && !enemy.Inventory.Full() {
			b.give(enemy, b.randomLoot())
		}
	}
	return b
}

// SpawnItem раскладывает предметы по случайным комнатам.
func (b *LevelBuilder) SpawnItem(templateName string, count int) *LevelBuilder {
	return b.scatter(templateName, count, domain.LayerItems)
}

// SpawnConstruction ставит постройки в случайные комнаты.
func (b *LevelBuilder) SpawnConstruction(templateName string, count int) *LevelBuilder {
	return b.scatter(templateName, count, domain.LayerConstructions)
}

// SpawnLoot раскладывает count случайных предметов из LootTable.
func (b *LevelBuilder) SpawnLoot(count int) *LevelBuilder {
	for i := 0; i < count && b.err == nil; i++ {
		b.SpawnItem(b.randomLoot(), 1)
	}
	return b
}

func (b *LevelBuilder) scatter(templateName string, count int, layer domain.Layer) *LevelBuilder {
	for i := 0; i < count && b.err == nil && len(b.rooms) > 0; i++ {
		room := b.rooms[b.rng.Intn(len(b.rooms))]
		pos, ok := b.randomCell(room, layer)
		if !ok {
			continue // Пропускаем, если не нашли место
		}
		b.spawn(templateName, pos)
	}
	return b
}

func (b *LevelBuilder) randomLoot() string {
	name, _ := utils.Choice(b.rng, LootTable)
	return name
}

// give кладёт новый предмет в инвентарь владельца (в арене, не на сетке).
func (b *LevelBuilder) give(owner *domain.Entity, itemName string) {
	item, ok := b.factory.Build(itemName)
	if !ok {
		b.err = eris.Errorf("prototype %q is not defined", itemName)
		return
	}
	b.world.Adopt(item)
	if err := owner.Inventory.Append(item.ID); err != nil {
		b.err = eris.Wrapf(err, "give %s to %s", itemName, owner.Name())
	}
}

// StarterKit раскладывает предметы на клетках вокруг старта.
func (b *LevelBuilder) StarterKit(names ...string) *LevelBuilder {
	if b.err != nil || b.world == nil || len(names) == 0 {
		return b
	}
	for _, p := range b.world.Grid.Neighbors8(b.GetStartPos()) {
		if len(names) == 0 || b.err != nil {
			break
		}
		if b.free(p, domain.LayerItems) {
			b.spawn(names[0], p)
			names = names[1:]
		}
	}
	return b
}

// PlaceExit размещает лестницу: "up" - в первой комнате рядом со стартом,
// иначе - в центре последней.
func (b *LevelBuilder) PlaceExit(direction string, targetLevel int) *LevelBuilder {
	if b.err != nil || len(b.rooms) == 0 {
		return b
	}

	var pos domain.Position
	name := "exit_down"
	if direction == "up" {
		name = "exit_up"
		found := false
		for _, p := range b.world.Grid.Neighbors8(b.GetStartPos()) {
			if b.free(p, domain.LayerConstructions) {
				pos, found = p, true
				break
			}
		}
		if !found {
			return b
		}
	} else {
		cx, cy := b.rooms[len(b.rooms)-1].Center()
		pos = domain.Position{X: cx, Y: cy}
	}

	if exit, ok := b.spawn(name, pos); ok {
		exit.Exit.Destination = targetLevel
	}
	return b
}

// GetStartPos возвращает стартовую позицию (центр первой комнаты)
func (b *LevelBuilder) GetStartPos() domain.Position {
	if len(b.rooms) > 0 {
		cx, cy := b.rooms[0].Center()
		return domain.Position{X: cx, Y: cy}
	}
	return domain.Position{X: b.width / 2, Y: b.height / 2}
}

// Rooms - сгенерированные комнаты (первая - стартовая).
func (b *LevelBuilder) Rooms() []Rect {
	return b.rooms
}

// Build собирает и возвращает готовый мир
func (b *LevelBuilder) Build() (*domain.World, domain.Position, error) {
	if b.err != nil {
		return nil, domain.Position{}, eris.Wrapf(b.err, "build level %d", b.level)
	}
	if b.world == nil {
		return nil, domain.Position{}, eris.Errorf("build level %d: no rooms generated", b.level)
	}
	return b.world, b.GetStartPos(), nil
}
