// Copyright 2018 The oksvg Authors. All rights reserved.

package okbg

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Standard background properties read by the fallback path.
const (
	PropColor     = "background-color"
	PropImage     = "background-image"
	PropRepeat    = "background-repeat"
	PropPositionX = "background-position-x"
	PropPositionY = "background-position-y"

	// DefaultProperty is the name of the extended background property.
	DefaultProperty = "-ok-background"
)

var fallbackProps = [...]string{PropColor, PropImage, PropRepeat, PropPositionX, PropPositionY}

// Element is the style source of one document element.
//
// Property returns the resolved value of a property, overrides first.
// Override and SetOverride access the override store that sits on top of the
// author style; an empty value means no override.
type Element interface {
	Property(name string) (string, error)
	Override(name string) string
	SetOverride(name, value string) error
}

// Style is a map backed Element.
type Style struct {
	author   map[string]string
	override map[string]string
}

// NewStyle returns an empty Style.
func NewStyle() *Style {
	return &Style{
		author:   make(map[string]string),
		override: make(map[string]string),
	}
}

// Set sets an author declaration.
func (s *Style) Set(name, value string) {
	s.author[strings.ToLower(name)] = value
}

// Get returns the author declaration for name.
func (s *Style) Get(name string) (string, bool) {
	v, ok := s.author[strings.ToLower(name)]
	return v, ok
}

func (s *Style) Property(name string) (string, error) {
	name = strings.ToLower(name)
	if v := s.override[name]; v != "" {
		return v, nil
	}
	return s.author[name], nil
}

func (s *Style) Override(name string) string {
	return s.override[strings.ToLower(name)]
}

func (s *Style) SetOverride(name, value string) error {
	if name == "" {
		return fmt.Errorf("%w: empty property name", ErrBadValue)
	}
	name = strings.ToLower(name)
	if value == "" {
		delete(s.override, name)
		return nil
	}
	s.override[name] = value
	return nil
}

// ParseInlineStyle reads the declarations of a style attribute. The
// background-position and background shorthands are expanded into the
// standard fields.
func ParseInlineStyle(attr string) *Style {
	s := NewStyle()
	for _, d := range declarations(attr) {
		name, value := strings.ToLower(d[0]), d[1]
		switch name {
		case "background-position":
			x, y := splitPosition(value)
			s.Set(PropPositionX, x)
			s.Set(PropPositionY, y)
		case "background":
			expandBackground(s, value)
		default:
			s.Set(name, value)
		}
	}
	return s
}

// declarations splits a style attribute into name and value pairs. Values
// keep their text as written. A ";" or ":" inside a url, a string or a
// parenthesized group does not end a part.
func declarations(attr string) [][2]string {
	var (
		out         [][2]string
		name, value strings.Builder
		colon       bool
		depth       int
	)
	flush := func() {
		if n := strings.TrimSpace(name.String()); colon && n != "" {
			out = append(out, [2]string{n, strings.TrimSpace(value.String())})
		}
		name.Reset()
		value.Reset()
		colon, depth = false, 0
	}
	l := css.NewLexer(parse.NewInputString(attr))
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			flush()
			return out
		case css.CommentToken:
			continue
		case css.SemicolonToken:
			if depth == 0 {
				flush()
				continue
			}
		case css.ColonToken:
			if depth == 0 && !colon {
				colon = true
				continue
			}
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken, css.LeftBraceToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
			if depth > 0 {
				depth--
			}
		}
		if colon {
			value.Write(data)
		} else {
			name.Write(data)
		}
	}
}

// splitPosition splits a background-position value into its x and y
// parts.
func splitPosition(v string) (x, y string) {
	f := strings.Fields(v)
	isY := func(s string) bool {
		s = strings.ToLower(s)
		return s == "top" || s == "bottom"
	}
	isX := func(s string) bool {
		s = strings.ToLower(s)
		return s == "left" || s == "right"
	}
	switch len(f) {
	case 0:
		return "", ""
	case 1:
		if isY(f[0]) {
			return "center", f[0]
		}
		return f[0], "center"
	case 2:
		if isY(f[0]) || isX(f[1]) {
			return f[1], f[0]
		}
		return f[0], f[1]
	}
	// keyword offset pairs
	var groups []string
	for _, w := range f {
		if _, err := ParseLength(w); err == nil && len(groups) > 0 {
			groups[len(groups)-1] += " " + w
			continue
		}
		groups = append(groups, w)
	}
	if len(groups) != 2 {
		return v, ""
	}
	if isY(strings.Fields(groups[0])[0]) {
		return groups[1], groups[0]
	}
	return groups[0], groups[1]
}

// expandBackground sets the standard fields from a single layer background
// shorthand. Values the parser rejects are kept as written.
func expandBackground(s *Style, v string) {
	bg, err := Parse(v)
	if err != nil || len(bg.Layers) > 1 {
		s.Set("background", v)
		return
	}
	s.Set(PropColor, "transparent")
	if bg.Color != nil {
		s.Set(PropColor, bg.Color.Text)
	}
	s.Set(PropImage, "none")
	if len(bg.Layers) == 0 {
		return
	}
	l, ok := bg.Layers[0].(ImageLayer)
	if !ok {
		s.Set("background", v)
		return
	}
	s.Set(PropImage, formatURL(l.URL))
	if l.Repeat != "" {
		s.Set(PropRepeat, string(l.Repeat))
	}
	if l.Position != nil {
		x, y := splitPosition(l.Position.Text)
		s.Set(PropPositionX, x)
		s.Set(PropPositionY, y)
	}
}

// WithoutOverrides clears the overrides of props, calls fn and restores the
// overrides on every exit path, panics included. Restore errors are
// combined with the error of fn.
func WithoutOverrides(el Element, props []string, fn func() error) (err error) {
	saved := make(map[string]string, len(props))
	for _, name := range props {
		saved[name] = el.Override(name)
	}
	defer func() {
		for _, name := range props {
			if v := saved[name]; v != "" {
				err = multierr.Append(err, el.SetOverride(name, v))
			}
		}
	}()
	for _, name := range props {
		if saved[name] == "" {
			continue
		}
		if err := el.SetOverride(name, ""); err != nil {
			return err
		}
	}
	return fn()
}

// Fallback builds a Background with at most one image layer from the
// standard background fields of el, ignoring overrides on the color and
// image.
func Fallback(el Element) (*Background, error) {
	var vals [len(fallbackProps)]string
	err := WithoutOverrides(el, []string{PropColor, PropImage}, func() error {
		var err error
		for i, name := range fallbackProps {
			v, e := el.Property(name)
			vals[i] = strings.TrimSpace(v)
			err = multierr.Append(err, e)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return fallbackBackground(vals[0], vals[1], vals[2], vals[3], vals[4])
}

func fallbackBackground(clr, img, repeat, posX, posY string) (*Background, error) {
	bg := &Background{}
	if clr != "" && !strings.EqualFold(clr, "transparent") {
		c, err := ParseColor(clr)
		if err != nil {
			return nil, err
		}
		bg.Color = &c
	}
	if img == "" || strings.EqualFold(img, "none") {
		return bg, nil
	}
	l := ImageLayer{URL: img}
	if u, ok := unwrapURL(img); ok {
		l.URL = u
	}
	if repeat != "" {
		l.Repeat = Repeat(repeat)
	}
	if pos := strings.TrimSpace(posX + " " + posY); pos != "" {
		tokens, err := Tokenize(pos)
		if err != nil {
			return nil, err
		}
		p, err := NewPosition(tokens)
		if err != nil {
			return nil, err
		}
		l.Position = &p
	}
	bg.Layers = []Layer{l}
	return bg, nil
}

// Info answers background questions about one element. It remembers the
// last result and parses again only when the raw style fields change. Info
// is not safe for concurrent use.
type Info struct {
	el     Element
	prop   string
	parser *Parser
	log    *zap.Logger

	sig    string
	cached bool
	bg     *Background
	err    error
}

// Option configures an Info.
type Option func(*Info)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(i *Info) {
		if log != nil {
			i.log = log
		}
	}
}

// WithPropertyName sets the name of the extended property.
func WithPropertyName(name string) Option {
	return func(i *Info) {
		if name != "" {
			i.prop = name
		}
	}
}

// WithParser sets the parser used for the extended property.
func WithParser(p *Parser) Option {
	return func(i *Info) {
		i.parser = p
	}
}

// NewInfo returns an Info for el.
func NewInfo(el Element, opts ...Option) *Info {
	i := &Info{
		el:   el,
		prop: DefaultProperty,
		log:  zap.NewNop(),
	}
	for _, o := range opts {
		o(i)
	}
	i.log = i.log.Named("info")
	if i.parser == nil {
		i.parser = NewParser(i.log)
	}
	return i
}

func (i *Info) read(name string) string {
	v, err := i.el.Property(name)
	if err != nil {
		i.log.Warn("property read failed", zap.String("property", name), zap.Error(err))
		return ""
	}
	return strings.TrimSpace(v)
}

// IsActive reports whether the extended property is set and parses.
func (i *Info) IsActive() bool {
	if i.read(i.prop) == "" {
		return false
	}
	_, err := i.Background()
	return err == nil
}

// Background returns the parsed extended property, or the fallback when it
// is absent.
func (i *Info) Background() (*Background, error) {
	sig := i.RawSignature()
	if i.cached && sig == i.sig {
		return i.bg, i.err
	}
	if text := i.read(i.prop); text != "" {
		i.bg, i.err = i.parser.ParseString(text)
	} else {
		i.bg, i.err = Fallback(i.el)
	}
	i.sig, i.cached = sig, true
	return i.bg, i.err
}

// RawSignature joins the raw values of every field the result depends on.
func (i *Info) RawSignature() string {
	parts := make([]string, 0, len(fallbackProps)+1)
	parts = append(parts, i.read(i.prop))
	for _, name := range fallbackProps {
		parts = append(parts, i.read(name))
	}
	return strings.Join(parts, "|")
}
