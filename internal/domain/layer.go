package domain

import "strings"

// Layer - слой сетки. Порядок констант задаёт порядок колонки: снизу вверх.
type Layer uint8

const (
	LayerBackground Layer = iota
	LayerConstructions
	LayerItems
	LayerActors

	LayerCount
)

var layerToString = map[Layer]string{
	LayerBackground:    "background",
	LayerConstructions: "constructions",
	LayerItems:         "items",
	LayerActors:        "actors",
}

var layerStringToType = map[string]Layer{
	"BACKGROUND":    LayerBackground,
	"CONSTRUCTIONS": LayerConstructions,
	"ITEMS":         LayerItems,
	"ACTORS":        LayerActors,
}

func (l Layer) String() string {
	if val, ok := layerToString[l]; ok {
		return val
	}
	return "unknown"
}

func (l Layer) Valid() bool {
	return l < LayerCount
}

// ParseLayer возвращает слой по имени; второй результат false для неизвестного имени.
func ParseLayer(s string) (Layer, bool) {
	l, ok := layerStringToType[strings.ToUpper(s)]
	return l, ok
}
