package domain

import (
	"math/rand"
	"slices"

	"camp-engine/internal/core/types"
	"camp-engine/internal/core/types/enums"
	"camp-engine/pkg/utils"
)

// --- КОМПОНЕНТЫ ---
// Компонент принадлежит ровно одной сущности; Owner - её ID в арене, не указатель.

// Fighter - здоровье, атака/защита и боезапас.
type Fighter struct {
	Owner types.EntityID `json:"owner"`

	MaxHP int `json:"maxHp"`
	HP    int `json:"hp"`

	// Дискретные наборы, из которых бросается значение.
	Attacks  []int `json:"attacks"`
	Defenses []int `json:"defenses"`
	// RangedAttack > 0 - фиксированный урон выстрела, иначе бросается Attacks.
	RangedAttack int `json:"rangedAttack,omitempty"`

	Ammo    int `json:"ammo,omitempty"`
	MaxAmmo int `json:"maxAmmo,omitempty"`
}

// SetHP присваивает здоровье с ограничением сверху. Значение ≤ 0 не
// ограничивается: это триггер смерти, который должна увидеть боевая система.
func (f *Fighter) SetHP(v int) {
	if v > f.MaxHP {
		v = f.MaxHP
	}
	f.HP = v
}

// Damage наносит урон. Возвращает true, если цель погибла.
func (f *Fighter) Damage(amount int) bool {
	if amount < 0 {
		amount = 0
	}
	f.SetHP(f.HP - amount)
	return f.IsDead()
}

// Heal лечит и возвращает фактически восстановленное здоровье.
func (f *Fighter) Heal(amount int) int {
	if amount <= 0 || f.IsDead() {
		return 0
	}
	before := f.HP
	f.SetHP(f.HP + amount)
	return f.HP - before
}

func (f *Fighter) IsDead() bool {
	return f.HP <= 0
}

// Wounded - здоровье не выше половины (повод пить зелье).
func (f *Fighter) Wounded() bool {
	return f.HP*2 <= f.MaxHP
}

func (f *Fighter) RollAttack(rng *rand.Rand) int {
	return utils.Roll(rng, f.Attacks)
}

func (f *Fighter) RollDefense(rng *rand.Rand) int {
	return utils.Roll(rng, f.Defenses)
}

// RollRanged - урон выстрела.
func (f *Fighter) RollRanged(rng *rand.Rand) int {
	if f.RangedAttack > 0 {
		return f.RangedAttack
	}
	return f.RollAttack(rng)
}

// CanShoot - у бойца есть магазин и в нём что-то осталось.
func (f *Fighter) CanShoot() bool {
	return f.MaxAmmo > 0 && f.Ammo > 0
}

// OutOfAmmo - стрелок с пустым магазином.
func (f *Fighter) OutOfAmmo() bool {
	return f.MaxAmmo > 0 && f.Ammo == 0
}

// SpendAmmo списывает один патрон. Возвращает false, если патронов нет.
func (f *Fighter) SpendAmmo() bool {
	if f.Ammo <= 0 {
		return false
	}
	f.Ammo--
	return true
}

// Refill пополняет магазин, не выше MaxAmmo. Возвращает добавленное количество.
func (f *Fighter) Refill(amount int) int {
	before := f.Ammo
	f.Ammo = min(f.MaxAmmo, f.Ammo+max(0, amount))
	return f.Ammo - before
}

func (f *Fighter) clone() *Fighter {
	c := *f
	c.Attacks = slices.Clone(f.Attacks)
	c.Defenses = slices.Clone(f.Defenses)
	return &c
}

// Descriptor - имя и описание для лога и интерфейса.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Inventory - ограниченный упорядоченный список предметов. Предметы в
// инвентаре живут в арене, но не стоят на сетке.
type Inventory struct {
	Owner  types.EntityID   `json:"owner"`
	Volume int              `json:"volume"`
	Items  []types.EntityID `json:"items"`
}

func (inv *Inventory) Len() int {
	return len(inv.Items)
}

func (inv *Inventory) Full() bool {
	return len(inv.Items) >= inv.Volume
}

// Append кладёт предмет в конец списка.
func (inv *Inventory) Append(id types.EntityID) error {
	if inv.Full() {
		return ErrInventoryFull
	}
	inv.Items = append(inv.Items, id)
	return nil
}

// At возвращает предмет по индексу; false для индекса вне списка.
func (inv *Inventory) At(i int) (types.EntityID, bool) {
	if i < 0 || i >= len(inv.Items) {
		return types.NilEntityID, false
	}
	return inv.Items[i], true
}

// Remove вынимает предмет по индексу с сохранением порядка остальных.
func (inv *Inventory) Remove(i int) (types.EntityID, bool) {
	id, ok := inv.At(i)
	if !ok {
		return types.NilEntityID, false
	}
	inv.Items = slices.Delete(inv.Items, i, i+1)
	return id, true
}

func (inv *Inventory) IndexOf(id types.EntityID) int {
	return slices.Index(inv.Items, id)
}

// Breath - кулдаун особых умений. Готов, когда счётчик на нуле.
type Breath struct {
	Owner   types.EntityID `json:"owner"`
	Counter int            `json:"counter"`
	Skills  map[string]int `json:"skills"`
}

func (b *Breath) Ready() bool {
	return b.Counter == 0
}

// Spend взводит кулдаун на стоимость умения. Неизвестное умение или
// незавершённый кулдаун - false.
func (b *Breath) Spend(skill string) bool {
	cost, ok := b.Skills[skill]
	if !ok || !b.Ready() {
		return false
	}
	b.Counter = cost
	return true
}

// Tick уменьшает счётчик на единицу в начале хода владельца.
func (b *Breath) Tick() {
	if b.Counter > 0 {
		b.Counter--
	}
}

func (b *Breath) clone() *Breath {
	c := *b
	c.Skills = make(map[string]int, len(b.Skills))
	for k, v := range b.Skills {
		c.Skills[k] = v
	}
	return &c
}

// Brain - параметры AI-политики.
type Brain struct {
	Kind enums.BrainKind `json:"kind"`
	// Weights - вес каждого именованного поля расстояний при спуске.
	Weights map[string]int `json:"weights,omitempty"`
	// Range - дальность стрельбы (0 - не стреляет).
	Range int `json:"range,omitempty"`
	// ExcludeAdjacent - не стрелять в упор, соседей бьём в ближнем бою.
	ExcludeAdjacent bool `json:"excludeAdjacent,omitempty"`
}

func (b *Brain) clone() *Brain {
	c := *b
	if b.Weights != nil {
		c.Weights = make(map[string]int, len(b.Weights))
		for k, v := range b.Weights {
			c.Weights[k] = v
		}
	}
	return &c
}

// Usable - предмет с эффектом применения.
type Usable struct {
	Effect enums.EffectType `json:"effect"`
	// Values - набор, из которого бросается сила эффекта.
	Values []int `json:"values,omitempty"`
	// Prototype - имя прототипа для spawn_construction.
	Prototype string `json:"prototype,omitempty"`
	// Consumable - предмет исчезает после успешного применения.
	Consumable bool `json:"consumable"`
}

// Spawner - постройка, раз в Frequency ходов выпускающая актёра.
type Spawner struct {
	Prototype string `json:"prototype"`
	Frequency int    `json:"frequency"`
	Counter   int    `json:"counter"`
}

// Trap - мина: первый ход взводится, затем срабатывает под актёром.
type Trap struct {
	Primed bool   `json:"primed"`
	Effect Usable `json:"effect"`
}

// Upgrader превращает стоящего на нём дружественного актёра-шасси в прототип.
type Upgrader struct {
	Chassis   string `json:"chassis"`
	Prototype string `json:"prototype"`
}

// Exit - выход с уровня.
type Exit struct {
	Destination int `json:"destination"`
}
