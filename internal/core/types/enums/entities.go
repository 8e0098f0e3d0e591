package enums

import "strings"

// EntityKind - теговый вариант сущности. Поведение определяется компонентами,
// вариант нужен только для выбора слоя по умолчанию и для логов.
type EntityKind uint8

const (
	EntityKindUnknown EntityKind = iota
	EntityKindTile
	EntityKindActor
	EntityKindConstruction
	EntityKindItem
)

var entityKindToString = map[EntityKind]string{
	EntityKindTile:         "tile",
	EntityKindActor:        "actor",
	EntityKindConstruction: "construction",
	EntityKindItem:         "item",
}

var entityKindStringToType = map[string]EntityKind{
	"TILE":         EntityKindTile,
	"ACTOR":        EntityKindActor,
	"CONSTRUCTION": EntityKindConstruction,
	"ITEM":         EntityKindItem,
}

func (k EntityKind) String() string {
	if val, ok := entityKindToString[k]; ok {
		return val
	}
	return "unknown"
}

// ParseEntityKind конвертирует строку в Enum (нужно для загрузки прототипов).
func ParseEntityKind(s string) EntityKind {
	if val, ok := entityKindStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return EntityKindUnknown
}
