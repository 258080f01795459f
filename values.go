// Copyright 2018 The oksvg Authors. All rights reserved.

package okbg

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
)

// Unit is a CSS length unit. UnitNone is only used for the unit-less zero.
type Unit string

const (
	UnitNone    Unit = ""
	UnitPx      Unit = "px"
	UnitEm      Unit = "em"
	UnitRem     Unit = "rem"
	UnitEx      Unit = "ex"
	UnitCh      Unit = "ch"
	UnitVw      Unit = "vw"
	UnitVh      Unit = "vh"
	UnitVmin    Unit = "vmin"
	UnitVmax    Unit = "vmax"
	UnitCm      Unit = "cm"
	UnitMm      Unit = "mm"
	UnitQ       Unit = "q"
	UnitIn      Unit = "in"
	UnitPt      Unit = "pt"
	UnitPc      Unit = "pc"
	UnitPercent Unit = "%"
)

// DefaultFontSize is the font size em based units resolve against when
// the caller has nothing better.
const DefaultFontSize = 16.0

// Length is a CSS length or percentage.
type Length struct {
	Value float64
	Unit  Unit
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + string(l.Unit)
}

// IsPercent reports whether l is a percentage.
func (l Length) IsPercent() bool {
	return l.Unit == UnitPercent
}

// Pixels resolves l to device pixels. Percentages and viewport units are
// taken relative to ref; font relative units use fontSize.
func (l Length) Pixels(ref, fontSize float64) float64 {
	v := l.Value
	switch l.Unit {
	case UnitPercent, UnitVw, UnitVh, UnitVmin, UnitVmax:
		return v * ref / 100
	case UnitEm, UnitRem:
		return v * fontSize
	case UnitEx, UnitCh:
		return v * fontSize / 2
	case UnitIn:
		return v * 96
	case UnitCm:
		return v * 96 / 2.54
	case UnitMm:
		return v * 96 / 25.4
	case UnitQ:
		return v * 96 / 101.6
	case UnitPt:
		return v * 96 / 72
	case UnitPc:
		return v * 16
	}
	return v
}

// splitDimension splits text into its numeric value and lower-cased unit.
func splitDimension(text string) (float64, string, bool) {
	b := []byte(strings.TrimSpace(text))
	num, unit := parse.Dimension(b)
	if num == 0 || num+unit != len(b) {
		return 0, "", false
	}
	f, err := strconv.ParseFloat(string(b[:num]), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, "", false
	}
	return f, strings.ToLower(string(b[num:])), true
}

// ParseLength parses a length, a percentage or the unit-less zero.
func ParseLength(text string) (Length, error) {
	f, unit, ok := splitDimension(text)
	if !ok {
		return Length{}, fmt.Errorf("%w: length %q", ErrBadValue, text)
	}
	switch unit {
	case "":
		if f != 0 {
			return Length{}, fmt.Errorf("%w: length %q has no unit", ErrBadValue, text)
		}
		return Length{}, nil
	case "%":
		return Length{Value: f, Unit: UnitPercent}, nil
	}
	u, ok := lengthUnits[unit]
	if !ok {
		return Length{}, fmt.Errorf("%w: length %q has unknown unit", ErrBadValue, text)
	}
	return Length{Value: f, Unit: u}, nil
}

// Angle is a CSS angle normalized to degrees.
type Angle struct {
	Degrees float64
	Text    string
}

func (a Angle) String() string {
	return a.Text
}

// Radians returns the angle in radians.
func (a Angle) Radians() float64 {
	return a.Degrees * math.Pi / 180
}

// ParseAngle parses an angle in deg, grad, rad or turn units.
func ParseAngle(text string) (Angle, error) {
	f, unit, ok := splitDimension(text)
	if !ok {
		return Angle{}, fmt.Errorf("%w: angle %q", ErrBadValue, text)
	}
	if unit == "" && f == 0 {
		return Angle{Text: text}, nil
	}
	scale, ok := angleUnits[unit]
	if !ok {
		return Angle{}, fmt.Errorf("%w: angle %q has unknown unit", ErrBadValue, text)
	}
	return Angle{Degrees: f * scale, Text: text}, nil
}

// Edge names the side a PositionComponent is measured from.
type Edge string

const (
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeCenter Edge = "center"
)

func (e Edge) horizontal() bool { return e == EdgeLeft || e == EdgeRight }
func (e Edge) vertical() bool   { return e == EdgeTop || e == EdgeBottom }

// PositionComponent is one axis of a Position: an offset measured from an
// edge. The offset is ignored for EdgeCenter.
type PositionComponent struct {
	Edge   Edge
	Offset Length
}

func (c PositionComponent) String() string {
	if c.Edge == EdgeCenter || c.Offset == (Length{}) {
		return string(c.Edge)
	}
	return string(c.Edge) + " " + c.Offset.String()
}

// resolve returns the pixel offset of an object of size obj inside an
// area of size area.
func (c PositionComponent) resolve(area, obj float64) float64 {
	free := area - obj
	if c.Edge == EdgeCenter {
		return free / 2
	}
	var d float64
	if c.Offset.IsPercent() {
		d = free * c.Offset.Value / 100
	} else {
		d = c.Offset.Pixels(area, DefaultFontSize)
	}
	if c.Edge == EdgeRight || c.Edge == EdgeBottom {
		return free - d
	}
	return d
}

// Position is a 2-D background position.
type Position struct {
	X, Y PositionComponent
	Text string
}

func (p Position) String() string {
	return p.Text
}

// Resolve returns the top-left corner, relative to the area, of an object
// of size objW x objH placed at p inside an area of size areaW x areaH.
func (p Position) Resolve(areaW, areaH, objW, objH float64) (x, y float64) {
	return p.X.resolve(areaW, objW), p.Y.resolve(areaH, objH)
}

// positionItem is one keyword or length of a position value.
type positionItem struct {
	edge   Edge
	length Length
	isLen  bool
}

// NewPosition builds a Position from one to four position tokens, using
// the background-position rules for keyword order and edge offsets.
func NewPosition(tokens []Token) (Position, error) {
	if len(tokens) == 0 || len(tokens) > 4 {
		return Position{}, fmt.Errorf("%w: position needs 1 to 4 values, got %d", ErrBadValue, len(tokens))
	}
	items := make([]positionItem, len(tokens))
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Value
		switch {
		case t.Type == TokenIdent && positionIdents[strings.ToLower(t.Value)]:
			items[i].edge = Edge(strings.ToLower(t.Value))
		case isLengthOrPercent(t):
			l, err := ParseLength(t.Value)
			if err != nil {
				return Position{}, err
			}
			items[i] = positionItem{length: l, isLen: true}
		default:
			return Position{}, fmt.Errorf("%w: %s in position", ErrBadValue, t)
		}
	}
	text := strings.Join(texts, " ")
	var (
		p   Position
		err error
	)
	switch len(items) {
	case 1:
		p, err = position1(items[0])
	case 2:
		p, err = position2(items[0], items[1])
	default:
		p, err = positionEdges(items)
	}
	if err != nil {
		return Position{}, fmt.Errorf("%w: position %q: %v", ErrBadValue, text, err)
	}
	p.Text = text
	return p, nil
}

var centered = PositionComponent{Edge: EdgeCenter}

func position1(a positionItem) (Position, error) {
	switch {
	case a.isLen:
		return Position{X: PositionComponent{Edge: EdgeLeft, Offset: a.length}, Y: centered}, nil
	case a.edge.vertical():
		return Position{X: centered, Y: PositionComponent{Edge: a.edge}}, nil
	}
	return Position{X: PositionComponent{Edge: a.edge}, Y: centered}, nil
}

func position2(a, b positionItem) (Position, error) {
	if !a.isLen && !b.isLen && (a.edge.vertical() || b.edge.horizontal()) {
		a, b = b, a
	}
	x := PositionComponent{Edge: a.edge}
	if a.isLen {
		x = PositionComponent{Edge: EdgeLeft, Offset: a.length}
	}
	y := PositionComponent{Edge: b.edge}
	if b.isLen {
		y = PositionComponent{Edge: EdgeTop, Offset: b.length}
	}
	if x.Edge.vertical() || y.Edge.horizontal() {
		return Position{}, paramMismatchError
	}
	return Position{X: x, Y: y}, nil
}

// positionEdges handles the three and four value forms, which are pairs of
// an edge keyword and an optional offset.
func positionEdges(items []positionItem) (Position, error) {
	var groups []PositionComponent
	for i := 0; i < len(items); i++ {
		if items[i].isLen {
			return Position{}, paramMismatchError
		}
		g := PositionComponent{Edge: items[i].edge}
		if i+1 < len(items) && items[i+1].isLen {
			if g.Edge == EdgeCenter {
				return Position{}, paramMismatchError
			}
			g.Offset = items[i+1].length
			i++
		}
		groups = append(groups, g)
	}
	if len(groups) != 2 {
		return Position{}, paramMismatchError
	}
	a, b := groups[0], groups[1]
	if a.Edge.vertical() || b.Edge.horizontal() {
		a, b = b, a
	}
	if a.Edge.vertical() || b.Edge.horizontal() {
		return Position{}, paramMismatchError
	}
	return Position{X: a, Y: b}, nil
}

// SizeKeyword is one of the background-size keywords.
type SizeKeyword string

const (
	SizeContain SizeKeyword = "contain"
	SizeCover   SizeKeyword = "cover"
)

// SizeComponent is one side of an explicit background-size: auto or a
// length.
type SizeComponent struct {
	Auto   bool
	Length Length
}

func (c SizeComponent) String() string {
	if c.Auto {
		return "auto"
	}
	return c.Length.String()
}

// Size is either a keyword or an explicit width and height.
type Size struct {
	Keyword       SizeKeyword
	Width, Height SizeComponent
}

func (s Size) String() string {
	if s.Keyword != "" {
		return string(s.Keyword)
	}
	return s.Width.String() + " " + s.Height.String()
}

// Repeat is a background-repeat keyword.
type Repeat string

const (
	RepeatX    Repeat = "repeat-x"
	RepeatY    Repeat = "repeat-y"
	RepeatBoth Repeat = "repeat"
	NoRepeat   Repeat = "no-repeat"
)

// Attachment is a background-attachment keyword.
type Attachment string

const (
	AttachScroll Attachment = "scroll"
	AttachFixed  Attachment = "fixed"
	AttachLocal  Attachment = "local"
)

// Box is a background-origin or background-clip keyword.
type Box string

const (
	PaddingBox Box = "padding-box"
	BorderBox  Box = "border-box"
	ContentBox Box = "content-box"
)
