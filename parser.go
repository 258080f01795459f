// Copyright 2018 The oksvg Authors. All rights reserved.

package okbg

import (
	"strings"

	"go.uber.org/zap"
)

var (
	repeatIdents = map[string]bool{
		string(RepeatX):    true,
		string(RepeatY):    true,
		string(RepeatBoth): true,
		string(NoRepeat):   true,
	}
	originIdents = map[string]bool{
		string(PaddingBox): true,
		string(BorderBox):  true,
		string(ContentBox): true,
	}
	// clipIdents shares its members with originIdents, so one keyword may
	// set both.
	clipIdents = map[string]bool{
		string(PaddingBox): true,
		string(BorderBox):  true,
	}
	attachmentIdents = map[string]bool{
		string(AttachScroll): true,
		string(AttachFixed):  true,
		string(AttachLocal):  true,
	}
	sizeKeywords = map[string]SizeKeyword{
		string(SizeContain): SizeContain,
		string(SizeCover):   SizeCover,
	}
)

const gradientFunc = "linear-gradient("

// Parser turns background tokens into a Background. A Parser keeps no
// state between calls, but one call must not be shared between goroutines
// with a logger that is not safe for concurrent use.
type Parser struct {
	log *zap.Logger
}

// NewParser returns a Parser logging to log. A nil log disables logging.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("parser")}
}

func (p *Parser) logger() *zap.Logger {
	if p == nil || p.log == nil {
		return zap.NewNop()
	}
	return p.log
}

var defaultParser = NewParser(nil)

// Parse parses a background value with a parser that does not log.
func Parse(css string) (*Background, error) {
	return defaultParser.ParseString(css)
}

// ParseString tokenizes css and parses the result.
func (p *Parser) ParseString(css string) (*Background, error) {
	tokens, err := Tokenize(css)
	if err != nil {
		p.logger().Debug("tokenize failed", zap.String("css", css), zap.Error(err))
		return nil, err
	}
	return p.Parse(tokens)
}

// scan returns the end of the maximal run of tokens starting at from that
// satisfy pred. tokens[from:end] is the run; tokens[end] is left for the
// caller.
func scan(tokens []Token, from int, pred func(Token) bool) (end int) {
	end = from
	for end < len(tokens) && pred(tokens[end]) {
		end++
	}
	return end
}

// Parse builds a Background from tokens. Any top level token that does not
// fit the grammar fails the whole parse with an error wrapping ErrSyntax.
// Malformed gradients only drop their own layer.
func (p *Parser) Parse(tokens []Token) (*Background, error) {
	bg, err := p.parse(tokens)
	if err != nil {
		p.logger().Debug("background rejected", zap.Error(err))
		return nil, err
	}
	return bg, nil
}

func (p *Parser) parse(tokens []Token) (*Background, error) {
	var (
		bg  = &Background{}
		cur layerBuilder
	)
	for i := 0; i < len(tokens); {
		t := tokens[i]
		switch {
		case !cur.tagged() && t.is(TokenFunction, gradientFunc):
			g, next, ok := p.gradient(tokens, i+1)
			if ok {
				if err := cur.gradient(g); err != nil {
					return nil, &SyntaxError{Pos: i, Token: t, Err: err}
				}
			}
			i = next
			continue
		case !cur.tagged() && t.Type == TokenURL:
			if err := cur.image(t.Value); err != nil {
				return nil, &SyntaxError{Pos: i, Token: t, Err: err}
			}
		case isPositionToken(t) && cur.props.Size == nil:
			end := scan(tokens, i, isPositionToken)
			pos, err := NewPosition(tokens[i:end])
			if err != nil {
				return nil, &SyntaxError{Pos: i, Token: t, Err: err}
			}
			cur.props.Position = &pos
			i = end
			continue
		case t.Type == TokenIdent:
			cur.setIdent(t.Value)
		case t.Type == TokenColor && bg.Color == nil:
			c, err := ParseColor(t.Value)
			if err != nil {
				return nil, &SyntaxError{Pos: i, Token: t, Err: err}
			}
			bg.Color = &c
		case t.is(TokenOperator, "/"):
			next, err := p.size(tokens, i+1, &cur)
			if err != nil {
				return nil, err
			}
			i = next
			continue
		case t.is(TokenOperator, ","):
			if cur.tagged() {
				bg.Layers = append(bg.Layers, cur.build())
				cur = layerBuilder{}
			}
		default:
			return nil, &SyntaxError{Pos: i, Token: t}
		}
		i++
	}
	if cur.tagged() {
		bg.Layers = append(bg.Layers, cur.build())
	}
	return bg, nil
}

// size reads the operand of a "/" starting at i and returns the index of
// the first token it did not consume.
func (p *Parser) size(tokens []Token, i int, cur *layerBuilder) (int, error) {
	if i >= len(tokens) {
		return i, nil
	}
	t := tokens[i]
	if t.Type == TokenIdent {
		if kw, ok := sizeKeywords[strings.ToLower(t.Value)]; ok {
			cur.props.Size = &Size{Keyword: kw}
			return i + 1, nil
		}
	}
	w, ok, err := sizeToken(t)
	if err != nil {
		return i, &SyntaxError{Pos: i, Token: t, Err: err}
	}
	if !ok {
		return i + 1, nil
	}
	h := w
	if i+1 < len(tokens) {
		hc, ok, err := sizeToken(tokens[i+1])
		if err != nil {
			return i + 1, &SyntaxError{Pos: i + 1, Token: tokens[i+1], Err: err}
		}
		if ok {
			h = hc
			i++
		}
	}
	cur.props.Size = &Size{Width: w, Height: h}
	return i + 1, nil
}

// closeGroup returns the index just past the ")" that closes the group
// tokens[i] belongs to, or len(tokens) when the group is not closed.
func closeGroup(tokens []Token, i int) int {
	depth := 1
	for ; i < len(tokens); i++ {
		switch {
		case tokens[i].Type == TokenFunction, tokens[i].is(TokenCharacter, "("):
			depth++
		case tokens[i].is(TokenCharacter, ")"):
			if depth--; depth == 0 {
				return i + 1
			}
		}
	}
	return len(tokens)
}

// gradient parses the arguments of a linear-gradient starting at i, just
// after the function token. It returns the index of the first token it did
// not consume and whether a usable gradient was read. A gradient that is
// malformed or has fewer than two stops is dropped without an error and
// the scan resumes after its closing parenthesis.
func (p *Parser) gradient(tokens []Token, i int) (GradientLayer, int, bool) {
	var (
		g    GradientLayer
		stop *Stop
	)
	drop := func(at int, reason string, err error) (GradientLayer, int, bool) {
		p.logger().Debug("gradient discarded",
			zap.Int("pos", at), zap.String("reason", reason), zap.Error(err))
		return GradientLayer{}, closeGroup(tokens, at), false
	}
	first := func() bool {
		return g.Angle == nil && g.Start == nil && stop == nil && len(g.Stops) == 0
	}
	for i < len(tokens) {
		t := tokens[i]
		switch {
		case t.is(TokenCharacter, ")"):
			if stop != nil {
				g.Stops = append(g.Stops, *stop)
			}
			if len(g.Stops) < 2 {
				return drop(i, "fewer than two stops", nil)
			}
			return g, i + 1, true
		case t.Type == TokenColor:
			if (g.Angle != nil || g.Start != nil) && (i == 0 || tokens[i-1].Type != TokenOperator) {
				return drop(i, "stop color without separator", nil)
			}
			c, err := ParseColor(t.Value)
			if err != nil {
				return drop(i, "bad stop color", err)
			}
			stop = &Stop{Color: c}
			if i+1 < len(tokens) && isLengthOrPercent(tokens[i+1]) {
				l, err := ParseLength(tokens[i+1].Value)
				if err != nil {
					return drop(i+1, "bad stop offset", err)
				}
				stop.Offset = &l
				i++
			}
		case t.Type == TokenAngle && first():
			a, err := ParseAngle(t.Value)
			if err != nil {
				return drop(i, "bad angle", err)
			}
			g.Angle = &a
		case isPositionToken(t) && first():
			end := scan(tokens, i, isPositionToken)
			pos, err := NewPosition(tokens[i:end])
			if err != nil {
				return drop(end-1, "bad start position", err)
			}
			g.Start = &pos
			i = end
			continue
		case t.is(TokenOperator, ","):
			if stop != nil {
				g.Stops = append(g.Stops, *stop)
				stop = nil
			}
		default:
			return drop(i, "unexpected "+t.String(), nil)
		}
		i++
	}
	return drop(len(tokens), "unterminated", nil)
}
