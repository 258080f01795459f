// Copyright 2018 The oksvg Authors. All rights reserved.

package okbg

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"github.com/tdewolff/parse/v2"
	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/webp" // register decoder
)

// FileLoader loads background images from the file system and from data
// URIs. Relative paths are resolved against Dir.
type FileLoader struct {
	Dir string
}

// Load implements ImageLoader.
func (fl FileLoader) Load(url string) (image.Image, error) {
	lower := strings.ToLower(url)
	switch {
	case strings.HasPrefix(lower, "data:"):
		mediatype, data, err := parse.DataURI([]byte(url))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoImage, err)
		}
		return decodeImage(bytes.NewReader(data), strings.Contains(string(mediatype), "svg"))
	case strings.Contains(lower, "://"):
		return nil, fmt.Errorf("%w: remote url %q", ErrNoImage, url)
	}
	path := filepath.FromSlash(url)
	if !filepath.IsAbs(path) {
		path = filepath.Join(fl.Dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoImage, err)
	}
	defer f.Close()
	return decodeImage(f, strings.EqualFold(filepath.Ext(path), ".svg"))
}

func decodeImage(r io.Reader, svg bool) (image.Image, error) {
	if svg {
		return decodeSVG(r)
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoImage, err)
	}
	return img, nil
}

// decodeSVG rasterizes an SVG document at the size of its view box.
func decodeSVG(r io.Reader) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoImage, err)
	}
	w, h := int(math.Ceil(icon.ViewBox.W)), int(math.Ceil(icon.ViewBox.H))
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: svg has no size", ErrNoImage)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	icon.Draw(rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds())), 1)
	return img, nil
}
