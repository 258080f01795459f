// Copyright 2018 The oksvg Authors. All rights reserved.
//
// created: 5/12/2018 by S.R.Wiley

package okbg

import (
	"image"
	"image/color"
	"math"

	"github.com/srwiley/rasterx"
)

// defaultAngle points the gradient line to the bottom of the box.
const defaultAngle = 180.0

// gradientLine returns the end points of the gradient line of l over a
// w x h box. An angle wins over a start point; a start point gives the line
// through it and its reflection across the center.
func gradientLine(l GradientLayer, w, h float64) (x1, y1, x2, y2 float64) {
	cx, cy := w/2, h/2
	if l.Start != nil && l.Angle == nil {
		sx, sy := l.Start.Resolve(w, h, 0, 0)
		if sx != cx || sy != cy {
			return sx, sy, 2*cx - sx, 2*cy - sy
		}
	}
	deg := defaultAngle
	if l.Angle != nil {
		deg = l.Angle.Degrees
	}
	rad := deg * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	half := (math.Abs(w*dx) + math.Abs(h*dy)) / 2
	return cx - dx*half, cy - dy*half, cx + dx*half, cy + dy*half
}

// stopOffsets resolves stop offsets to fractions of a gradient line of the
// given length. Offsets never decrease; missing ones are spread evenly
// between their neighbours, with the ends defaulting to 0 and 1.
func stopOffsets(stops []Stop, length float64) []float64 {
	n := len(stops)
	if n == 0 {
		return nil
	}
	offs := make([]float64, n)
	set := make([]bool, n)
	for i, s := range stops {
		switch {
		case s.Offset == nil:
			continue
		case s.Offset.IsPercent():
			offs[i] = s.Offset.Value / 100
		case length > 0:
			offs[i] = s.Offset.Pixels(length, DefaultFontSize) / length
		}
		set[i] = true
	}
	if !set[0] {
		offs[0], set[0] = 0, true
	}
	if !set[n-1] {
		offs[n-1], set[n-1] = 1, true
	}
	max := offs[0]
	for i := 1; i < n; i++ {
		if !set[i] {
			continue
		}
		if offs[i] < max {
			offs[i] = max
		}
		max = offs[i]
	}
	for i := 0; i < n; {
		j := i + 1
		for j < n && !set[j] {
			j++
		}
		if j >= n {
			break
		}
		step := (offs[j] - offs[i]) / float64(j-i)
		for k := i + 1; k < j; k++ {
			offs[k] = offs[i] + step*float64(k-i)
		}
		i = j
	}
	return offs
}

// rasterGradient converts l into a rasterx gradient over a w x h box. Stop
// alpha goes into the stop opacity since rasterx blends colors and
// opacities separately.
func rasterGradient(l GradientLayer, w, h float64) *rasterx.Gradient {
	x1, y1, x2, y2 := gradientLine(l, w, h)
	offs := stopOffsets(l.Stops, math.Hypot(x2-x1, y2-y1))
	g := &rasterx.Gradient{
		Points: [5]float64{x1 / w, y1 / h, x2 / w, y2 / h},
		Matrix: rasterx.Identity,
		Spread: rasterx.PadSpread,
		Units:  rasterx.ObjectBoundingBox,
	}
	g.Bounds.W, g.Bounds.H = w, h
	for i, s := range l.Stops {
		c := s.Color.Value
		g.Stops = append(g.Stops, rasterx.GradStop{
			StopColor: color.NRGBA{c.R, c.G, c.B, 0xFF},
			Offset:    offs[i],
			Opacity:   float64(c.A) / 0xFF,
		})
	}
	return g
}

// gradientImage rasterizes l into a w x h image.
func gradientImage(l GradientLayer, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if w <= 0 || h <= 0 {
		return img
	}
	filler := rasterx.NewFiller(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds()))
	filler.SetColor(rasterGradient(l, float64(w), float64(h)).GetColorFunction(1))
	rasterx.AddRect(0, 0, float64(w), float64(h), 0, filler)
	filler.Draw()
	return img
}
