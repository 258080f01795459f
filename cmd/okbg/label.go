// Copyright 2018 The oksvg Authors. All rights reserved.

package main

import (
	"image"
	"image/color"
	"regexp"
	"strconv"

	"github.com/golang/freetype/truetype"
	cfp "github.com/raykov/css-font-parser"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
	"golang.org/x/image/math/fixed"
)

var fontSizeRegexp = regexp.MustCompile(`[^0-9.]+`)

const defaultFontSize = 10.0

// labelFace returns a Go font face for a CSS font shorthand such as
// "italic bold 12px sans-serif".
func labelFace(spec string) (font.Face, error) {
	f := cfp.Parse(spec)
	size := defaultFontSize
	if s := fontSizeRegexp.ReplaceAllString(f.Size, ""); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		if v > 0 {
			size = v
		}
	}

	var rawTTF []byte
	switch {
	case f.Variant == "small-caps" && f.Style == "italic":
		rawTTF = gosmallcapsitalic.TTF
	case f.Variant == "small-caps":
		rawTTF = gosmallcaps.TTF
	case f.Style == "italic" && f.Weight == "bold":
		rawTTF = gobolditalic.TTF
	case f.Style == "italic":
		rawTTF = goitalic.TTF
	case f.Weight == "bold":
		rawTTF = gobold.TTF
	default:
		rawTTF = goregular.TTF
	}
	ff, err := truetype.Parse(rawTTF)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(ff, &truetype.Options{Size: size}), nil
}

// drawLabel writes text along the bottom left corner of img.
func drawLabel(img *image.RGBA, face font.Face, text string) {
	b := img.Bounds()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(b.Min.X + 2),
			Y: fixed.I(b.Max.Y-2) - face.Metrics().Descent,
		},
	}
	d.DrawString(text)
}
