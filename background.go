// Copyright 2018 The oksvg Authors. All rights reserved.

package okbg

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Background is the parsed form of a background value. Layers are in
// declaration order, so Layers[0] is painted on top. Either field may be
// empty.
type Background struct {
	Color  *Color
	Layers []Layer
}

// String renders b back into the extended background syntax.
func (b *Background) String() string {
	if b == nil {
		return "none"
	}
	parts := make([]string, 0, len(b.Layers)+1)
	for _, l := range b.Layers {
		parts = append(parts, l.String())
	}
	s := strings.Join(parts, ", ")
	if b.Color != nil {
		if s == "" {
			return b.Color.String()
		}
		return b.Color.String() + " " + s
	}
	if s == "" {
		return "none"
	}
	return s
}

// Layer is an ImageLayer or a GradientLayer.
type Layer interface {
	Props() LayerProps
	String() string
	layer()
}

// LayerProps are the placement properties any layer may carry. Unset
// values are zero or nil.
type LayerProps struct {
	Repeat     Repeat
	Position   *Position
	Attachment Attachment
	Origin     Box
	Clip       Box
	Size       *Size
}

// Props returns the placement properties of the layer.
func (p LayerProps) Props() LayerProps {
	return p
}

func (p LayerProps) String() string {
	var parts []string
	if p.Position != nil {
		parts = append(parts, p.Position.String())
	}
	if p.Size != nil {
		parts = append(parts, "/ "+p.Size.String())
	}
	if p.Repeat != "" {
		parts = append(parts, string(p.Repeat))
	}
	if p.Attachment != "" {
		parts = append(parts, string(p.Attachment))
	}
	if p.Origin != "" {
		parts = append(parts, string(p.Origin))
	}
	if p.Clip != "" && p.Clip != p.Origin {
		parts = append(parts, string(p.Clip))
	}
	return strings.Join(parts, " ")
}

// ImageLayer is a layer painted from an image URL.
type ImageLayer struct {
	URL string
	LayerProps
}

func (ImageLayer) layer() {}

func (l ImageLayer) String() string {
	return joinLayer(formatURL(l.URL), l.LayerProps)
}

var urlNewlines = strings.NewReplacer("\n", `\a `, "\r", `\d `, "\f", `\c `)

// formatURL writes u as url() text that tokenizes back to u. URLs that
// are not valid unquoted are written as an escaped double quoted string.
func formatURL(u string) string {
	if !strings.Contains(u, `\`) && css.IsURLUnquoted([]byte(u)) {
		return "url(" + u + ")"
	}
	q := parse.AppendEscape(nil, []byte(u), []byte{'"'}, '\\')
	return `url("` + urlNewlines.Replace(string(q)) + `")`
}

// Stop is a gradient color stop. Offset is nil when the stop has none.
type Stop struct {
	Color  Color
	Offset *Length
}

func (s Stop) String() string {
	if s.Offset == nil {
		return s.Color.String()
	}
	return s.Color.String() + " " + s.Offset.String()
}

// GradientLayer is a linear-gradient layer with at least two stops. Start
// is the point the gradient line passes through, Angle its direction.
type GradientLayer struct {
	Start *Position
	Angle *Angle
	Stops []Stop
	LayerProps
}

func (GradientLayer) layer() {}

func (l GradientLayer) String() string {
	args := make([]string, 0, len(l.Stops)+1)
	var head []string
	if l.Start != nil {
		head = append(head, l.Start.String())
	}
	if l.Angle != nil {
		head = append(head, l.Angle.String())
	}
	if len(head) > 0 {
		args = append(args, strings.Join(head, " "))
	}
	for _, s := range l.Stops {
		args = append(args, s.String())
	}
	return joinLayer("linear-gradient("+strings.Join(args, ", ")+")", l.LayerProps)
}

func joinLayer(head string, p LayerProps) string {
	if tail := p.String(); tail != "" {
		return head + " " + tail
	}
	return head
}

type layerKind uint8

const (
	untagged layerKind = iota
	imageKind
	gradientKind
)

// layerBuilder collects a layer in progress. It starts untagged and is
// committed to exactly one kind by the first url or gradient seen.
type layerBuilder struct {
	kind  layerKind
	url   string
	grad  GradientLayer
	props LayerProps
}

func (b *layerBuilder) tagged() bool {
	return b.kind != untagged
}

func (b *layerBuilder) image(url string) error {
	if b.tagged() {
		return ErrLayerTagged
	}
	b.kind, b.url = imageKind, url
	return nil
}

func (b *layerBuilder) gradient(g GradientLayer) error {
	if b.tagged() {
		return ErrLayerTagged
	}
	b.kind, b.grad = gradientKind, g
	return nil
}

// setIdent applies a repeat, origin/clip or attachment keyword. Other
// identifiers are ignored.
func (b *layerBuilder) setIdent(v string) {
	v = strings.ToLower(v)
	switch {
	case repeatIdents[v]:
		b.props.Repeat = Repeat(v)
	case originIdents[v]:
		b.props.Origin = Box(v)
		if clipIdents[v] {
			b.props.Clip = Box(v)
		}
	case attachmentIdents[v]:
		b.props.Attachment = Attachment(v)
	}
}

// build returns the finished layer, or nil for an untagged builder.
func (b *layerBuilder) build() Layer {
	switch b.kind {
	case imageKind:
		return ImageLayer{URL: b.url, LayerProps: b.props}
	case gradientKind:
		g := b.grad
		g.LayerProps = b.props
		return g
	}
	return nil
}
