package component

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-drift/uisync/pkg/errors"
)

// Unit is the unit of a width or height.
type Unit int

const (
	UnitPixels Unit = iota
	UnitPercentage
	UnitEm
	UnitEx
	UnitInch
	UnitCm
	UnitMm
	UnitPoints
	UnitPicas
)

var unitSymbols = [...]string{
	UnitPixels:     "px",
	UnitPercentage: "%",
	UnitEm:         "em",
	UnitEx:         "ex",
	UnitInch:       "in",
	UnitCm:         "cm",
	UnitMm:         "mm",
	UnitPoints:     "pt",
	UnitPicas:      "pc",
}

// Symbol returns the CSS symbol of the unit.
func (u Unit) Symbol() string {
	if u < 0 || int(u) >= len(unitSymbols) {
		return ""
	}
	return unitSymbols[u]
}

func (u Unit) String() string {
	return u.Symbol()
}

// UnitFromSymbol returns the unit for a CSS symbol. The empty symbol means pixels.
func UnitFromSymbol(symbol string) (Unit, bool) {
	if symbol == "" {
		return UnitPixels, true
	}
	for u, s := range unitSymbols {
		if s == symbol {
			return Unit(u), true
		}
	}
	return UnitPixels, false
}

// Size is a magnitude with a unit. A negative magnitude means undefined.
type Size struct {
	Value float32
	Unit  Unit
}

// SizeUndefined lets the client size the node from its content.
var SizeUndefined = Size{Value: -1, Unit: UnitPixels}

// SizeFull fills the space given by the parent.
var SizeFull = Size{Value: 100, Unit: UnitPercentage}

// Px returns a pixel size.
func Px(v float32) Size {
	return Size{Value: v, Unit: UnitPixels}
}

// Percent returns a percentage size.
func Percent(v float32) Size {
	return Size{Value: v, Unit: UnitPercentage}
}

// IsUndefined reports whether the size is undefined.
func (s Size) IsUndefined() bool {
	return s.Value < 0
}

// CSS returns the size as a CSS length. Pixel sizes are truncated to integers.
// Undefined sizes return the empty string.
func (s Size) CSS() string {
	if s.IsUndefined() {
		return ""
	}
	if s.Unit == UnitPixels {
		return strconv.Itoa(int(s.Value)) + s.Unit.Symbol()
	}
	return strconv.FormatFloat(float64(s.Value), 'f', -1, 32) + s.Unit.Symbol()
}

func (s Size) String() string {
	if s.IsUndefined() {
		return "undefined"
	}
	return s.CSS()
}

func normalizeSize(s Size) Size {
	if s.Value < 0 {
		return SizeUndefined
	}
	return s
}

const sizeGrammar = `^(-?\d+(\.\d+)?)(%|px|em|ex|in|cm|mm|pt|pc)?$`

var sizePattern = regexp.MustCompile(sizeGrammar)

// ParseSize parses "<number>[unit]". A blank string is not an error and
// yields SizeUndefined, as does any negative magnitude regardless of unit.
// A string outside the grammar fails with *errors.ParseError.
func ParseSize(s string) (Size, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SizeUndefined, nil
	}
	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return SizeUndefined, &errors.ParseError{Input: s, Pattern: sizeGrammar}
	}
	v, err := strconv.ParseFloat(m[1], 32)
	if err != nil {
		return SizeUndefined, &errors.ParseError{Input: s, Pattern: sizeGrammar}
	}
	if v < 0 {
		return SizeUndefined, nil
	}
	unit, _ := UnitFromSymbol(m[3])
	return Size{Value: float32(v), Unit: unit}, nil
}
