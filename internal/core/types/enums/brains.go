package enums

import "strings"

// BrainKind выбирает политику AIController.
type BrainKind uint8

const (
	BrainNone BrainKind = iota
	BrainMelee
	BrainRanged
	BrainFighterSpawn
	BrainShooterSpawn
)

var brainToString = map[BrainKind]string{
	BrainNone:         "none",
	BrainMelee:        "melee",
	BrainRanged:       "ranged",
	BrainFighterSpawn: "fighter_spawn",
	BrainShooterSpawn: "shooter_spawn",
}

var brainStringToType = map[string]BrainKind{
	"NONE":          BrainNone,
	"MELEE":         BrainMelee,
	"RANGED":        BrainRanged,
	"FIGHTER_SPAWN": BrainFighterSpawn,
	"SHOOTER_SPAWN": BrainShooterSpawn,
}

func (b BrainKind) String() string {
	if val, ok := brainToString[b]; ok {
		return val
	}
	return "unknown"
}

func ParseBrainKind(s string) BrainKind {
	if val, ok := brainStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return BrainNone
}

// Stationary - политика, не сходящая с места (турели и гнёзда).
func (b BrainKind) Stationary() bool {
	return b == BrainFighterSpawn || b == BrainShooterSpawn
}
