// Copyright 2017 The oksvg Authors. All rights reserved.
// created: 2/12/2017 by S.R.Wiley

package okbg

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/image/colornames"
)

// Color is a parsed CSS color together with the text it was read from.
type Color struct {
	Value color.NRGBA
	Text  string
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.Value.RGBA()
}

func (c Color) String() string {
	return c.Text
}

// Transparent is the fully transparent black the "transparent" keyword
// stands for.
var Transparent = color.NRGBA{}

func isColorName(v string) bool {
	v = strings.ToLower(v)
	if v == "transparent" {
		return true
	}
	_, ok := colornames.Map[v]
	return ok
}

func isHexColor(v string) bool {
	v = strings.TrimPrefix(v, "#")
	switch len(v) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	_, err := strconv.ParseUint(v, 16, 32)
	return err == nil
}

func badColor(text string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: color %q: %v", ErrBadValue, text, err)
	}
	return fmt.Errorf("%w: color %q", ErrBadValue, text)
}

// ParseColor parses a CSS color in all forms accepted by the tokenizer:
// named colors (the SVG 1.1 set from the colornames package), transparent,
// hex notation with 3, 4, 6 or 8 digits, rgb(), rgba(), hsl() and hsla().
func ParseColor(text string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(text))
	if v == "" {
		return Color{}, badColor(text, nil)
	}
	if v == "transparent" {
		return Color{Value: Transparent, Text: text}, nil
	}
	if cn, ok := colornames.Map[v]; ok {
		return Color{Value: color.NRGBA{cn.R, cn.G, cn.B, cn.A}, Text: text}, nil
	}
	if v[0] == '#' {
		c, err := parseColorNum(v)
		if err != nil {
			return Color{}, badColor(text, err)
		}
		return Color{Value: c, Text: text}, nil
	}
	name, args, ok := splitColorFunc(v)
	if !ok {
		return Color{}, badColor(text, nil)
	}
	var (
		c   color.NRGBA
		err error
	)
	switch name {
	case "rgb", "rgba":
		c, err = parseRGB(args)
	case "hsl", "hsla":
		c, err = parseHSL(args)
	default:
		return Color{}, badColor(text, nil)
	}
	if err != nil {
		return Color{}, badColor(text, err)
	}
	return Color{Value: c, Text: text}, nil
}

// parseColorNum reads the hex color string e.g. #FBD9BD
func parseColorNum(colorStr string) (c color.NRGBA, err error) {
	colorStr = strings.TrimPrefix(colorStr, "#")
	switch len(colorStr) {
	case 3, 4:
		// short notation duplicates each digit
		long := make([]byte, 0, 8)
		for i := 0; i < len(colorStr); i++ {
			long = append(long, colorStr[i], colorStr[i])
		}
		colorStr = string(long)
	case 6, 8:
	default:
		return c, paramMismatchError
	}
	if len(colorStr) == 6 {
		colorStr += "ff"
	}
	for _, v := range []struct {
		c *uint8
		s string
	}{
		{&c.R, colorStr[0:2]},
		{&c.G, colorStr[2:4]},
		{&c.B, colorStr[4:6]},
		{&c.A, colorStr[6:8]}} {
		var t uint64
		t, err = strconv.ParseUint(v.s, 16, 8)
		if err != nil {
			return
		}
		*v.c = uint8(t)
	}
	return
}

// splitColorFunc splits "rgb(1, 2, 3)" into its name and arguments. Both
// the comma syntax and the space syntax with a "/ alpha" part are accepted.
func splitColorFunc(v string) (string, []string, bool) {
	open := strings.IndexByte(v, '(')
	if open <= 0 || !strings.HasSuffix(v, ")") {
		return "", nil, false
	}
	name := strings.TrimSpace(v[:open])
	body, alpha, slash := strings.Cut(v[open+1:len(v)-1], "/")
	var args []string
	if strings.Contains(body, ",") {
		for _, a := range strings.Split(body, ",") {
			args = append(args, strings.TrimSpace(a))
		}
	} else {
		args = strings.Fields(body)
	}
	if slash {
		args = append(args, strings.TrimSpace(alpha))
	}
	return name, args, true
}

func parseRGB(args []string) (color.NRGBA, error) {
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, paramMismatchError
	}
	var cvals [3]uint8
	for i := range cvals {
		n, err := parseColorValue(args[i])
		if err != nil {
			return color.NRGBA{}, err
		}
		cvals[i] = n
	}
	a := uint8(0xFF)
	if len(args) == 4 {
		f, err := parseAlpha(args[3])
		if err != nil {
			return color.NRGBA{}, err
		}
		a = uint8(math.Round(f * 0xFF))
	}
	return color.NRGBA{cvals[0], cvals[1], cvals[2], a}, nil
}

func parseColorValue(v string) (uint8, error) {
	if strings.HasSuffix(v, "%") {
		n, err := strconv.ParseFloat(strings.TrimSpace(v[:len(v)-1]), 64)
		if err != nil {
			return 0, err
		}
		return uint8(math.Round(clamp(n, 0, 100) * 0xFF / 100)), nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return uint8(math.Round(clamp(n, 0, 255))), nil
}

func parseAlpha(v string) (float64, error) {
	if strings.HasSuffix(v, "%") {
		n, err := strconv.ParseFloat(strings.TrimSpace(v[:len(v)-1]), 64)
		if err != nil {
			return 0, err
		}
		return clamp(n/100, 0, 1), nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return clamp(n, 0, 1), nil
}

func parseHSL(args []string) (color.NRGBA, error) {
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, paramMismatchError
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hue in hsl: '%s' (%s)", args[0], err)
	}
	var sl [2]float64
	for i, a := range args[1:3] {
		if !strings.HasSuffix(a, "%") {
			return color.NRGBA{}, paramMismatchError
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(a[:len(a)-1]), 64)
		if err != nil {
			return color.NRGBA{}, err
		}
		sl[i] = clamp(f/100, 0, 1)
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := css.HSL2RGB(h/360, sl[0], sl[1])
	a := 1.0
	if len(args) == 4 {
		if a, err = parseAlpha(args[3]); err != nil {
			return color.NRGBA{}, err
		}
	}
	return color.NRGBA{
		uint8(math.Round(r * 0xFF)),
		uint8(math.Round(g * 0xFF)),
		uint8(math.Round(b * 0xFF)),
		uint8(math.Round(a * 0xFF))}, nil
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}
