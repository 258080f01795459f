// Copyright 2018 The oksvg Authors. All rights reserved.

// Command okbg prints and renders the extended backgrounds found in the
// style attributes of an HTML document.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/raykov/okbg"
	"go.uber.org/zap"
	"golang.org/x/image/font"
)

func main() {
	prop := flag.String("prop", okbg.DefaultProperty, "name of the extended background property")
	out := flag.String("out", "", "directory to render backgrounds into as PNG files")
	size := flag.String("size", "200x100", "render size as WxH")
	label := flag.Bool("label", false, "write the background value onto each rendered image")
	fontSpec := flag.String("font", "10px", "CSS font shorthand for -label")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	var err error
	var l *zap.Logger
	if *verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	zap.ReplaceGlobals(l)
	defer l.Sync() //nolint:errcheck

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: okbg [-prop name] [-out dir] [-size WxH] [-label] [-font spec] [-v] file.html")
		os.Exit(2)
	}
	path := flag.Arg(0)
	w, h, err := parseSize(*size)
	if err != nil {
		l.Fatal("bad size", zap.String("size", *size), zap.Error(err))
	}

	f, err := os.Open(path)
	if err != nil {
		l.Fatal("open", zap.String("path", path), zap.Error(err))
	}
	defer f.Close()
	elems, err := styledElements(f)
	if err != nil {
		l.Fatal("parse html", zap.String("path", path), zap.Error(err))
	}
	l.Debug("loaded document", zap.String("path", path), zap.Int("styled", len(elems)))

	if *out != "" {
		if err := os.MkdirAll(*out, 0o755); err != nil {
			l.Fatal("create output dir", zap.String("dir", *out), zap.Error(err))
		}
	}
	var face font.Face
	if *label {
		if face, err = labelFace(*fontSpec); err != nil {
			l.Fatal("load label font", zap.String("font", *fontSpec), zap.Error(err))
		}
	}
	r := &okbg.Renderer{
		Loader: okbg.FileLoader{Dir: filepath.Dir(path)},
		Log:    l.Named("render"),
	}
	for n, e := range elems {
		info := okbg.NewInfo(okbg.ParseInlineStyle(e.style), okbg.WithLogger(l), okbg.WithPropertyName(*prop))
		bg, err := info.Background()
		if err != nil {
			fmt.Printf("%s\t%v\terror: %v\n", e.path, info.IsActive(), err)
			continue
		}
		fmt.Printf("%s\t%v\t%s\n", e.path, info.IsActive(), bg)
		if *out == "" {
			continue
		}
		file := filepath.Join(*out, fmt.Sprintf("%d-%s.png", n, e.tag))
		if err := render(r, file, w, h, bg, face); err != nil {
			l.Error("render", zap.String("file", file), zap.Error(err))
		}
	}
}

func parseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("missing x in %q", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, err
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, err
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("size %q must be positive", s)
	}
	return w, h, nil
}

// render draws bg into a w x h PNG file, labelled with its value when face
// is not nil.
func render(r *okbg.Renderer, file string, w, h int, bg *okbg.Background, face font.Face) error {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := r.Draw(img, img.Bounds(), bg); err != nil {
		return err
	}
	if face != nil {
		drawLabel(img, face, bg.String())
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
