// Copyright 2018 The oksvg Authors. All rights reserved.

package okbg

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/srwiley/rasterx"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

// ImageLoader resolves the URL of an image layer.
type ImageLoader interface {
	Load(url string) (image.Image, error)
}

// Renderer paints a Background. The positioning area is also the painting
// area: origin, clip and attachment do not change where a layer goes.
type Renderer struct {
	Loader ImageLoader
	Log    *zap.Logger
}

func (r *Renderer) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// Draw paints bg into area of dst: the color at the bottom, then the layers
// from last to first. Image layers that fail to load are skipped.
func (r *Renderer) Draw(dst draw.Image, area image.Rectangle, bg *Background) error {
	if dst == nil {
		return errors.New("okbg: nil destination image")
	}
	if bg == nil || area.Empty() {
		return nil
	}
	w, h := area.Dx(), area.Dy()
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	if bg.Color != nil {
		filler := rasterx.NewFiller(w, h, rasterx.NewScannerGV(w, h, canvas, canvas.Bounds()))
		filler.SetColor(bg.Color.Value)
		rasterx.AddRect(0, 0, float64(w), float64(h), 0, filler)
		filler.Draw()
	}
	for i := len(bg.Layers) - 1; i >= 0; i-- {
		if err := r.drawLayer(canvas, bg.Layers[i]); err != nil {
			r.logger().Warn("background layer skipped",
				zap.Int("layer", i), zap.Stringer("value", bg.Layers[i]), zap.Error(err))
		}
	}
	draw.Draw(dst, area, canvas, image.Point{}, draw.Over)
	return nil
}

func (r *Renderer) drawLayer(canvas *image.RGBA, l Layer) error {
	aw, ah := float64(canvas.Rect.Dx()), float64(canvas.Rect.Dy())
	props := l.Props()
	var tile image.Image
	switch l := l.(type) {
	case GradientLayer:
		w, h := tileSize(props.Size, aw, ah, aw, ah)
		tw, th, err := tileDims(w, h, tileBudget(aw, ah))
		if err != nil || tw == 0 || th == 0 {
			return err
		}
		tile = gradientImage(l, tw, th)
	case ImageLayer:
		if r.Loader == nil {
			return ErrNoImage
		}
		img, err := r.Loader.Load(l.URL)
		if err != nil {
			return err
		}
		iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
		w, h := tileSize(props.Size, aw, ah, iw, ih)
		tw, th, err := tileDims(w, h, math.Max(tileBudget(aw, ah), iw*ih))
		if err != nil || tw == 0 || th == 0 {
			return err
		}
		tile = scaleImage(img, tw, th)
	}
	if tile == nil || tile.Bounds().Empty() {
		return nil
	}
	paintTiles(canvas, tile, props)
	return nil
}

const (
	tileAreaFactor = 16
	minTileBudget  = 1 << 20
)

// tileBudget is the largest tile, in pixels, painted into an aw x ah area:
// tileAreaFactor times the area, and never less than minTileBudget.
func tileBudget(aw, ah float64) float64 {
	return math.Max(tileAreaFactor*aw*ah, minTileBudget)
}

// tileDims rounds a tile size to whole pixels. Empty sizes give zero, sizes
// over budget fail with ErrTileTooLarge.
func tileDims(w, h, budget float64) (int, int, error) {
	w, h = math.Round(w), math.Round(h)
	if !(w >= 1 && h >= 1) {
		return 0, 0, nil
	}
	if w*h > budget {
		return 0, 0, fmt.Errorf("%w: %gx%g pixels, budget %g", ErrTileTooLarge, w, h, budget)
	}
	return int(w), int(h), nil
}

// tileSize returns the size one copy of a layer is painted at in an
// aw x ah area, for an image with intrinsic size iw x ih.
func tileSize(s *Size, aw, ah, iw, ih float64) (float64, float64) {
	w, h := iw, ih
	switch {
	case s == nil:
	case s.Keyword == SizeContain || s.Keyword == SizeCover:
		if iw > 0 && ih > 0 {
			k := math.Min(aw/iw, ah/ih)
			if s.Keyword == SizeCover {
				k = math.Max(aw/iw, ah/ih)
			}
			w, h = iw*k, ih*k
		}
	default:
		autoW, autoH := s.Width.Auto, s.Height.Auto
		if !autoW {
			w = s.Width.Length.Pixels(aw, DefaultFontSize)
		}
		if !autoH {
			h = s.Height.Length.Pixels(ah, DefaultFontSize)
		}
		switch {
		case autoW && !autoH && ih > 0:
			w = h * iw / ih
		case autoH && !autoW && iw > 0:
			h = w * ih / iw
		}
	}
	return w, h
}

func scaleImage(img image.Image, w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return nil
	}
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// paintTiles places tile in canvas according to the position and repeats
// it along the axes the repeat value names. Layers repeat in both
// directions unless told otherwise.
func paintTiles(canvas *image.RGBA, tile image.Image, p LayerProps) {
	area := canvas.Rect
	tb := tile.Bounds()
	tw, th := tb.Dx(), tb.Dy()
	var fx, fy float64
	if p.Position != nil {
		fx, fy = p.Position.Resolve(float64(area.Dx()), float64(area.Dy()), float64(tw), float64(th))
	}
	x0, y0 := int(math.Round(fx)), int(math.Round(fy))
	repX := p.Repeat == "" || p.Repeat == RepeatBoth || p.Repeat == RepeatX
	repY := p.Repeat == "" || p.Repeat == RepeatBoth || p.Repeat == RepeatY
	xs, ys := []int{x0}, []int{y0}
	if repX {
		xs = tileStarts(x0, tw, area.Dx())
	}
	if repY {
		ys = tileStarts(y0, th, area.Dy())
	}
	for _, y := range ys {
		for _, x := range xs {
			r := image.Rect(x, y, x+tw, y+th)
			draw.Draw(canvas, r, tile, tb.Min, draw.Over)
		}
	}
}

// tileStarts returns the offsets of every tile of size n along an axis of
// the given length that has a tile at at.
func tileStarts(at, n, length int) []int {
	start := at % n
	if start > 0 {
		start -= n
	}
	var out []int
	for p := start; p < length; p += n {
		out = append(out, p)
	}
	return out
}
