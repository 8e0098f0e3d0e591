package types

import "fmt"

// Glyph - упакованный цветной символ клетки:
//
//	[ RGB (24) | Char (8) ]
//
// Рендерер раскладывает его в руну и цвет терминала.
type Glyph uint32

const (
	bitsChar  = 8
	bitsColor = 24

	shiftColor = bitsChar

	maskChar  = (1 << bitsChar) - 1
	maskColor = (1 << bitsColor) - 1
)

// Палитра, которой пользуются прототипы.
const (
	ColorFloor   uint32 = 0x3A3A3A
	ColorWall    uint32 = 0x8A8A8A
	ColorTree    uint32 = 0x2E8B57
	ColorPlayer  uint32 = 0xFFFFFF
	ColorHostile uint32 = 0xD23C3C
	ColorFriend  uint32 = 0x4CA3DD
	ColorItem    uint32 = 0xE8C547
	ColorHazard  uint32 = 0xFF8C00
)

// MakeGlyph упаковывает младшие 24 бита цвета и символ.
//
//	MakeGlyph(0xFFA500, 'A') == 0xFFA50041
func MakeGlyph(colorRGB uint32, char byte) Glyph {
	return Glyph((colorRGB&maskColor)<<shiftColor | (uint32(char) & maskChar))
}

func (g Glyph) Color() uint32 {
	return uint32(g>>shiftColor) & maskColor
}

func (g Glyph) Char() byte {
	return byte(g & maskChar)
}

// RGB раскладывает цвет на каналы (удобно для tcell.NewRGBColor).
func (g Glyph) RGB() (r, gr, b int32) {
	c := g.Color()
	return int32(c >> 16 & 0xFF), int32(c >> 8 & 0xFF), int32(c & 0xFF)
}

// IsZero - глиф не задан, рендерер рисует пустоту.
func (g Glyph) IsZero() bool {
	return g == 0
}

func (g Glyph) String() string {
	ch := string([]byte{g.Char()})
	if c := g.Char(); c < 32 || c > 126 {
		ch = fmt.Sprintf("\\x%02X", c)
	}
	return fmt.Sprintf("Glyph{char='%s', color=#%06X}", ch, g.Color())
}
