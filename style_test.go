// Copyright 2018 The oksvg Authors. All rights reserved.

package okbg

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// failingStyle fails or panics when a chosen property is read.
type failingStyle struct {
	*Style
	failOn  string
	panicOn string
}

var errRead = errors.New("read failed")

func (f *failingStyle) Property(name string) (string, error) {
	if name == f.panicOn {
		panic("boom")
	}
	if name == f.failOn {
		return "", errRead
	}
	return f.Style.Property(name)
}

func TestParseInlineStyle(t *testing.T) {
	s := ParseInlineStyle(`-ok-background: url(a.png) / cover; Background-Color:red ; background-position: bottom 5px right; junk; color: blue`)
	tests := map[string]string{
		DefaultProperty:   "url(a.png) / cover",
		PropColor:         "red",
		PropPositionX:     "right",
		PropPositionY:     "bottom 5px",
		"color":           "blue",
		"junk":            "",
		"background-clip": "",
	}
	for name, want := range tests {
		if got, _ := s.Property(name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestParseInlineStyleURLs(t *testing.T) {
	const dataURI = "data:image/png;base64,iVBORw0KGgo="
	tests := []struct {
		name  string
		attr  string
		prop  string
		value string
		url   string
	}{
		{
			name:  "data uri",
			attr:  "-ok-background: url(" + dataURI + ") no-repeat; color: red",
			prop:  DefaultProperty,
			value: "url(" + dataURI + ") no-repeat",
			url:   dataURI,
		},
		{
			name:  "quoted url with semicolon",
			attr:  `-ok-background: url("a;b.png"); color: red`,
			prop:  DefaultProperty,
			value: `url("a;b.png")`,
			url:   "a;b.png",
		},
		{
			name:  "quoted url with colon",
			attr:  `color: red; -ok-background: url('c:d.png') repeat-x`,
			prop:  DefaultProperty,
			value: `url('c:d.png') repeat-x`,
			url:   "c:d.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ParseInlineStyle(tt.attr)
			if got, _ := s.Property(tt.prop); got != tt.value {
				t.Errorf("%s = %q, want %q", tt.prop, got, tt.value)
			}
			if got, _ := s.Property("color"); got != "red" {
				t.Errorf("color = %q, want red", got)
			}
			info := NewInfo(s)
			if !info.IsActive() {
				t.Fatal("expected active")
			}
			bg, err := info.Background()
			if err != nil {
				t.Fatal(err)
			}
			if len(bg.Layers) != 1 || bg.Layers[0].(ImageLayer).URL != tt.url {
				t.Errorf("got %v, want one layer with url %q", bg, tt.url)
			}
		})
	}
}

func TestDeclarations(t *testing.T) {
	got := declarations(` a : 1 ; ; b:url(x;y) /* c: 2 */; d: f(e; g) h; nocolon; : empty; i: "j;k"`)
	want := [][2]string{
		{"a", "1"},
		{"b", "url(x;y)"},
		{"d", "f(e; g) h"},
		{"i", `"j;k"`},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestSplitPosition(t *testing.T) {
	tests := []struct {
		in, x, y string
	}{
		{"top", "center", "top"},
		{"left", "left", "center"},
		{"top left", "left", "top"},
		{"10px 20%", "10px", "20%"},
		{"right 10px bottom 5%", "right 10px", "bottom 5%"},
		{"bottom 5% right", "right", "bottom 5%"},
		{"", "", ""},
	}
	for _, tt := range tests {
		x, y := splitPosition(tt.in)
		if x != tt.x || y != tt.y {
			t.Errorf("splitPosition(%q) = %q, %q, want %q, %q", tt.in, x, y, tt.x, tt.y)
		}
	}
}

func TestExpandBackground(t *testing.T) {
	s := ParseInlineStyle("background: #00f url('x.png') no-repeat right top")
	want := map[string]string{
		PropColor:     "#00f",
		PropImage:     "url(x.png)",
		PropRepeat:    "no-repeat",
		PropPositionX: "right",
		PropPositionY: "top",
	}
	for name, v := range want {
		if got, _ := s.Property(name); got != v {
			t.Errorf("%s = %q, want %q", name, got, v)
		}
	}

	s = ParseInlineStyle("background: linear-gradient(red, blue)")
	if v, ok := s.Get("background"); !ok || v != "linear-gradient(red, blue)" {
		t.Errorf("gradient shorthand should be kept as written, got %q", v)
	}
}

func TestFallback(t *testing.T) {
	red := colorOf(t, "red")
	pos := positionOf(t, "left top")
	tests := []struct {
		name  string
		style string
		want  *Background
	}{
		{name: "color and image", style: "background-color: red; background-image: url(\"a.png\"); background-repeat: repeat-x; background-position: left top", want: &Background{
			Color:  &red,
			Layers: []Layer{ImageLayer{URL: "a.png", LayerProps: LayerProps{Repeat: RepeatX, Position: &pos}}},
		}},
		{name: "transparent and none", style: "background-color: transparent; background-image: none", want: &Background{}},
		{name: "nothing set", style: "", want: &Background{}},
		{name: "image without position", style: "background-image: url(b.png)", want: &Background{
			Layers: []Layer{ImageLayer{URL: "b.png"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fallback(ParseInlineStyle(tt.style))
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestFallbackIgnoresOverrides(t *testing.T) {
	s := ParseInlineStyle("background-color: red; background-image: url(a.png)")
	if err := s.SetOverride(PropColor, "blue"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetOverride(PropImage, "none"); err != nil {
		t.Fatal(err)
	}
	bg, err := Fallback(s)
	if err != nil {
		t.Fatal(err)
	}
	if bg.Color == nil || bg.Color.Text != "red" || len(bg.Layers) != 1 {
		t.Fatalf("fallback read overrides: %v", bg)
	}
	if s.Override(PropColor) != "blue" || s.Override(PropImage) != "none" {
		t.Errorf("overrides not restored: %q %q", s.Override(PropColor), s.Override(PropImage))
	}
}

func TestFallbackRestoresOnError(t *testing.T) {
	f := &failingStyle{Style: ParseInlineStyle("background-color: red"), failOn: PropRepeat}
	if err := f.SetOverride(PropColor, "blue"); err != nil {
		t.Fatal(err)
	}
	_, err := Fallback(f)
	if !errors.Is(err, errRead) {
		t.Fatalf("got %v, want read error", err)
	}
	if f.Override(PropColor) != "blue" {
		t.Errorf("override not restored after error: %q", f.Override(PropColor))
	}
}

func TestWithoutOverridesRestoresOnPanic(t *testing.T) {
	f := &failingStyle{Style: NewStyle(), panicOn: PropImage}
	if err := f.SetOverride(PropImage, "url(x.png)"); err != nil {
		t.Fatal(err)
	}
	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		_ = WithoutOverrides(f, []string{PropColor, PropImage}, func() error {
			if f.Override(PropImage) != "" {
				t.Error("override still set inside the read")
			}
			_, err := f.Property(PropImage)
			return err
		})
	}()
	if f.Override(PropImage) != "url(x.png)" {
		t.Errorf("override not restored after panic: %q", f.Override(PropImage))
	}
}

func TestWithoutOverridesCombinesErrors(t *testing.T) {
	s := NewStyle()
	if err := s.SetOverride(PropColor, "red"); err != nil {
		t.Fatal(err)
	}
	err := WithoutOverrides(s, []string{PropColor, ""}, func() error { return errRead })
	if !errors.Is(err, errRead) {
		t.Errorf("got %v, want the read error", err)
	}
	if s.Override(PropColor) != "red" {
		t.Errorf("override not restored: %q", s.Override(PropColor))
	}
}

func TestFallbackBadColor(t *testing.T) {
	_, err := Fallback(ParseInlineStyle("background-color: nope"))
	if !errors.Is(err, ErrBadValue) {
		t.Errorf("got %v, want ErrBadValue", err)
	}
}

func TestInfo(t *testing.T) {
	t.Run("extended property", func(t *testing.T) {
		s := ParseInlineStyle("-ok-background: url(a.png), url(b.png); background-color: red")
		info := NewInfo(s)
		if !info.IsActive() {
			t.Fatal("expected active")
		}
		bg, err := info.Background()
		if err != nil {
			t.Fatal(err)
		}
		if bg.Color != nil || len(bg.Layers) != 2 {
			t.Errorf("got %v", bg)
		}
	})
	t.Run("hard failure", func(t *testing.T) {
		info := NewInfo(ParseInlineStyle("-ok-background: url(a.png) %%"))
		if info.IsActive() {
			t.Error("expected inactive")
		}
		if _, err := info.Background(); !errors.Is(err, ErrSyntax) {
			t.Errorf("got %v, want ErrSyntax", err)
		}
	})
	t.Run("fallback only when absent", func(t *testing.T) {
		info := NewInfo(ParseInlineStyle("background-color: red"))
		if info.IsActive() {
			t.Error("expected inactive")
		}
		bg, err := info.Background()
		if err != nil {
			t.Fatal(err)
		}
		if bg.Color == nil || bg.Color.Text != "red" || len(bg.Layers) != 0 {
			t.Errorf("got %v", bg)
		}
	})
	t.Run("custom property name", func(t *testing.T) {
		s := ParseInlineStyle("-pie-background: linear-gradient(red, blue)")
		if NewInfo(s).IsActive() {
			t.Error("default property should not see -pie-background")
		}
		if !NewInfo(s, WithPropertyName("-pie-background")).IsActive() {
			t.Error("expected active with custom property name")
		}
	})
}

func TestInfoMemoizes(t *testing.T) {
	s := ParseInlineStyle("-ok-background: url(a.png)")
	info := NewInfo(s, WithParser(NewParser(nil)))
	first, err := info.Background()
	if err != nil {
		t.Fatal(err)
	}
	second, _ := info.Background()
	if first != second {
		t.Error("unchanged style should return the cached result")
	}
	s.Set(DefaultProperty, "url(b.png)")
	third, err := info.Background()
	if err != nil {
		t.Fatal(err)
	}
	if third == first || third.Layers[0].(ImageLayer).URL != "b.png" {
		t.Errorf("changed style not parsed again: %v", third)
	}
}

func TestInfoRawSignature(t *testing.T) {
	s := ParseInlineStyle("-ok-background: red; background-color: blue; background-image: none; background-position: top")
	got := NewInfo(s).RawSignature()
	want := strings.Join([]string{"red", "blue", "none", "", "center", "top"}, "|")
	if got != want {
		t.Errorf("RawSignature = %q, want %q", got, want)
	}
}

func TestInfoLogsSoftFailures(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := ParseInlineStyle("-ok-background: linear-gradient(red), url(a.png)")
	bg, err := NewInfo(s, WithLogger(zap.New(core))).Background()
	if err != nil {
		t.Fatal(err)
	}
	if len(bg.Layers) != 1 {
		t.Errorf("got %v", bg)
	}
	entries := logs.FilterMessage("gradient discarded").All()
	if len(entries) != 1 {
		t.Fatalf("got %d gradient log entries, want 1", len(entries))
	}
	if entries[0].LoggerName != "info.parser" {
		t.Errorf("logger name = %q", entries[0].LoggerName)
	}
}
