package enums

import "strings"

// EffectType - эффект, который предмет производит при использовании.
type EffectType uint8

const (
	EffectUnknown EffectType = iota
	EffectHeal
	EffectRefillAmmo
	EffectSpawnConstruction
	EffectExplode
)

var effectToString = map[EffectType]string{
	EffectHeal:              "heal",
	EffectRefillAmmo:        "refill_ammo",
	EffectSpawnConstruction: "spawn_construction",
	EffectExplode:           "explode",
}

var effectStringToType = map[string]EffectType{
	"HEAL":               EffectHeal,
	"REFILL_AMMO":        EffectRefillAmmo,
	"SPAWN_CONSTRUCTION": EffectSpawnConstruction,
	"EXPLODE":            EffectExplode,
}

func (e EffectType) String() string {
	if val, ok := effectToString[e]; ok {
		return val
	}
	return "unknown"
}

func ParseEffectType(s string) EffectType {
	if val, ok := effectStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return EffectUnknown
}

// TargetedOnTile сообщает, нужна ли эффекту клетка-цель (иначе цель - сам владелец).
func (e EffectType) TargetedOnTile() bool {
	return e == EffectSpawnConstruction || e == EffectExplode
}
