package dungeon

import (
	"slices"

	"camp-engine/internal/core/types"
	"camp-engine/internal/core/types/enums"
	"camp-engine/internal/domain"
	"camp-engine/internal/navigation"
)

// Фракции
const (
	FactionPC  = "pc"
	FactionNPC = "npc"
)

// EntityTemplate определяет шаблон для создания сущности
type EntityTemplate struct {
	Name        string
	Description string
	Kind        enums.EntityKind
	Glyph       types.Glyph

	// Solid - в клетку нельзя войти, Opaque - снаряд не пролетает.
	Solid         bool
	Opaque        bool
	AllowEntrance bool

	Fighter   *domain.Fighter
	Faction   string
	Brain     *domain.Brain
	Inventory int
	Breath    map[string]int
	Usable    *domain.Usable
	Spawner   *domain.Spawner
	Trap      *domain.Usable
	Upgrader  *domain.Upgrader
	Exit      bool
}

// Spawn создаёт свежую сущность из шаблона. Компоненты не делятся между
// экземплярами: каждая копия живёт своей жизнью.
func (t EntityTemplate) Spawn() *domain.Entity {
	e := domain.NewEntity(t.Kind, t.Glyph)
	e.Passable = !t.Solid
	e.AirPassable = !t.Opaque
	e.AllowEntrance = t.AllowEntrance
	if t.Name != "" {
		e.Descriptor = &domain.Descriptor{Name: t.Name, Description: t.Description}
	}

	if t.Fighter != nil {
		f := *t.Fighter
		f.Attacks = slices.Clone(t.Fighter.Attacks)
		f.Defenses = slices.Clone(t.Fighter.Defenses)
		if f.HP == 0 {
			f.HP = f.MaxHP
		}
		e.Fighter = &f
	}
	if t.Faction != "" {
		e.Faction = domain.NewFaction(t.Faction, enemiesOf(t.Faction), nil)
	}
	if t.Brain != nil {
		e.Brain = t.Brain
	}
	if t.Inventory > 0 {
		e.Inventory = &domain.Inventory{Volume: t.Inventory}
	}
	if t.Breath != nil {
		e.Breath = &domain.Breath{Skills: t.Breath}
	}
	e.Usable = t.Usable
	e.Spawner = t.Spawner
	if t.Trap != nil {
		e.Trap = &domain.Trap{Effect: *t.Trap}
	}
	e.Upgrader = t.Upgrader
	if t.Exit {
		e.Exit = &domain.Exit{}
	}
	// Clone разводит оставшиеся указатели на шаблон
	return e.Clone()
}

func enemiesOf(tag string) []string {
	switch tag {
	case FactionPC:
		return []string{FactionNPC}
	case FactionNPC:
		return []string{FactionPC}
	}
	return nil
}

// Стандартные наборы бросков бойца.
var (
	defaultAttacks  = []int{1, 2, 3}
	defaultDefenses = []int{0, 0, 1}
)

func chasePC() *domain.Brain {
	return &domain.Brain{Kind: enums.BrainMelee, Weights: map[string]int{navigation.FieldPC: 1}}
}

// --- АКТЁРЫ ---

var Hero = EntityTemplate{
	Name:        "PC",
	Description: "Player character",
	Kind:        enums.EntityKindActor,
	Glyph:       types.MakeGlyph(types.ColorPlayer, '@'),
	Solid:       true,
	Fighter:     &domain.Fighter{MaxHP: 10, Attacks: defaultAttacks, Defenses: defaultDefenses, RangedAttack: 2, Ammo: 5, MaxAmmo: 5},
	Faction:     FactionPC,
	Inventory:   10,
	Breath:      map[string]int{"jump": 3},
}

var Thug = EntityTemplate{
	Name:        "Thug",
	Description: "A regular thug",
	Kind:        enums.EntityKindActor,
	Glyph:       types.MakeGlyph(types.ColorHostile, 'z'),
	Solid:       true,
	Fighter:     &domain.Fighter{MaxHP: 2, Attacks: defaultAttacks, Defenses: defaultDefenses},
	Faction:     FactionNPC,
	Brain:       chasePC(),
	Inventory:   1,
}

var Goblin = EntityTemplate{
	Name:        "Goblin",
	Description: "Small, mean and persistent",
	Kind:        enums.EntityKindActor,
	Glyph:       types.MakeGlyph(types.ColorHostile, 'g'),
	Solid:       true,
	Fighter:     &domain.Fighter{MaxHP: 4, Attacks: []int{1, 2}, Defenses: defaultDefenses},
	Faction:     FactionNPC,
	Brain:       chasePC(),
	Inventory:   1,
}

var Archer = EntityTemplate{
	Name:        "Archer",
	Description: "Keeps its distance and shoots",
	Kind:        enums.EntityKindActor,
	Glyph:       types.MakeGlyph(types.ColorHostile, 'a'),
	Solid:       true,
	Fighter:     &domain.Fighter{MaxHP: 3, Attacks: []int{1, 2}, Defenses: []int{0}, RangedAttack: 2, Ammo: 4, MaxAmmo: 4},
	Faction:     FactionNPC,
	Brain: &domain.Brain{
		Kind:            enums.BrainRanged,
		Weights:         map[string]int{navigation.FieldPC: 1},
		Range:           3,
		ExcludeAdjacent: true,
	},
	Inventory: 1,
}

// Drone - дружественное шасси, ищет площадку апгрейда.
var Drone = EntityTemplate{
	Name:        "Drone",
	Description: "Looks for an upgrade pad",
	Kind:        enums.EntityKindActor,
	Glyph:       types.MakeGlyph(types.ColorFriend, 'd'),
	Solid:       true,
	Fighter:     &domain.Fighter{MaxHP: 3, Attacks: []int{1}, Defenses: []int{0}},
	Faction:     FactionPC,
	Brain:       &domain.Brain{Kind: enums.BrainMelee, Weights: map[string]int{navigation.FieldUpgrader: 1}},
}

var Tank = EntityTemplate{
	Name:        "Tank",
	Description: "An upgraded drone that follows you around",
	Kind:        enums.EntityKindActor,
	Glyph:       types.MakeGlyph(types.ColorFriend, 'T'),
	Solid:       true,
	Fighter:     &domain.Fighter{MaxHP: 12, Attacks: []int{2, 3, 4}, Defenses: []int{0, 1, 1}},
	Faction:     FactionPC,
	Brain:       chasePC(),
}

// --- ПОСТРОЙКИ ---

var Tree = EntityTemplate{
	Name:   "Tree",
	Kind:   enums.EntityKindConstruction,
	Glyph:  types.MakeGlyph(types.ColorTree, '#'),
	Solid:  true,
	Opaque: true,
}

// Hole - воронка; пройти нельзя, простреливается.
var Hole = EntityTemplate{
	Name:  "Hole",
	Kind:  enums.EntityKindConstruction,
	Glyph: types.MakeGlyph(types.ColorWall, '_'),
	Solid: true,
}

var Nest = EntityTemplate{
	Name:        "Nest",
	Description: "A dark hole in the ground",
	Kind:        enums.EntityKindConstruction,
	Glyph:       types.MakeGlyph(types.ColorHazard, 'S'),
	Faction:     FactionNPC,
	Spawner:     &domain.Spawner{Prototype: "thug", Frequency: 5},
}

var Mine = EntityTemplate{
	Name:  "Mine",
	Kind:  enums.EntityKindConstruction,
	Glyph: types.MakeGlyph(types.ColorHazard, '^'),
	Trap:  &domain.Usable{Effect: enums.EffectExplode, Values: []int{5}},
}

// Headless - боец-постройка: бьёт соседних врагов, своих пропускает.
var Headless = EntityTemplate{
	Name:          "Headless dude",
	Description:   "It fights on your side",
	Kind:          enums.EntityKindConstruction,
	Glyph:         types.MakeGlyph(types.ColorFriend, 'f'),
	Solid:         true,
	AllowEntrance: true,
	Fighter:       &domain.Fighter{MaxHP: 5, Attacks: defaultAttacks, Defenses: defaultDefenses},
	Faction:       FactionPC,
	Brain:         &domain.Brain{Kind: enums.BrainFighterSpawn},
}

var Turret = EntityTemplate{
	Name:    "Turret",
	Kind:    enums.EntityKindConstruction,
	Glyph:   types.MakeGlyph(types.ColorHostile, 't'),
	Solid:   true,
	Fighter: &domain.Fighter{MaxHP: 6, Attacks: []int{1}, Defenses: []int{0, 1}, RangedAttack: 1, Ammo: 30, MaxAmmo: 30},
	Faction: FactionNPC,
	Brain:   &domain.Brain{Kind: enums.BrainShooterSpawn, Range: 5, ExcludeAdjacent: true},
}

var UpgradePad = EntityTemplate{
	Name:     "Upgrade pad",
	Kind:     enums.EntityKindConstruction,
	Glyph:    types.MakeGlyph(types.ColorFriend, 'U'),
	Faction:  FactionPC,
	Upgrader: &domain.Upgrader{Chassis: "Drone", Prototype: "tank"},
}

var ExitDown = EntityTemplate{
	Name:        "Stairs down",
	Description: "Leads deeper",
	Kind:        enums.EntityKindConstruction,
	Glyph:       types.MakeGlyph(types.ColorPlayer, '>'),
	Exit:        true,
}

var ExitUp = EntityTemplate{
	Name:        "Stairs up",
	Description: "Leads back",
	Kind:        enums.EntityKindConstruction,
	Glyph:       types.MakeGlyph(types.ColorPlayer, '<'),
	Exit:        true,
}

// --- ПРЕДМЕТЫ ---

var Bottle = EntityTemplate{
	Name:        "Bottle",
	Description: "Heals for 2 or 3 HP",
	Kind:        enums.EntityKindItem,
	Glyph:       types.MakeGlyph(types.ColorItem, '!'),
	Usable:      &domain.Usable{Effect: enums.EffectHeal, Values: []int{2, 3}, Consumable: true},
}

var AmmoPack = EntityTemplate{
	Name:        "Ammo pack",
	Description: "Refills the magazine",
	Kind:        enums.EntityKindItem,
	Glyph:       types.MakeGlyph(types.ColorItem, '='),
	Usable:      &domain.Usable{Effect: enums.EffectRefillAmmo, Consumable: true},
}

var Flag = EntityTemplate{
	Name:        "Spawning flag",
	Description: "Builds a headless dude next to you",
	Kind:        enums.EntityKindItem,
	Glyph:       types.MakeGlyph(types.ColorItem, 'F'),
	Usable:      &domain.Usable{Effect: enums.EffectSpawnConstruction, Prototype: "headless", Consumable: true},
}

var Landmine = EntityTemplate{
	Name:        "Landmine",
	Description: "Places a landmine next to you",
	Kind:        enums.EntityKindItem,
	Glyph:       types.MakeGlyph(types.ColorItem, 'L'),
	Usable:      &domain.Usable{Effect: enums.EffectSpawnConstruction, Prototype: "mine", Consumable: true},
}

var Rocket = EntityTemplate{
	Name:        "Rocket",
	Description: "Can and should be fired at enemies",
	Kind:        enums.EntityKindItem,
	Glyph:       types.MakeGlyph(types.ColorItem, 'R'),
	Usable:      &domain.Usable{Effect: enums.EffectExplode, Values: []int{5}, Consumable: true},
}

// EnemyTemplates - враги, которых генератор расставляет по комнатам.
var EnemyTemplates = map[string]EntityTemplate{
	"thug":   Thug,
	"goblin": Goblin,
	"archer": Archer,
}

var ConstructionTemplates = map[string]EntityTemplate{
	"tree":      Tree,
	"hole":      Hole,
	"nest":      Nest,
	"mine":      Mine,
	"headless":  Headless,
	"turret":    Turret,
	"upgrader":  UpgradePad,
	"exit_down": ExitDown,
	"exit_up":   ExitUp,
}

var ItemTemplates = map[string]EntityTemplate{
	"bottle":    Bottle,
	"ammo_pack": AmmoPack,
	"flag":      Flag,
	"landmine":  Landmine,
	"rocket":    Rocket,
}

// LootTable - ключи всех предметов в стабильном порядке: выбор из него
// должен зависеть только от генератора случайных чисел.
var LootTable []string

func init() {
	for key := range ItemTemplates {
		LootTable = append(LootTable, key)
	}
	slices.Sort(LootTable)
}
