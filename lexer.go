// Copyright 2018 The oksvg Authors. All rights reserved.

package okbg

import (
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

var (
	lengthUnits = map[string]Unit{
		"px": UnitPx, "em": UnitEm, "rem": UnitRem, "ex": UnitEx, "ch": UnitCh,
		"vw": UnitVw, "vh": UnitVh, "vmin": UnitVmin, "vmax": UnitVmax,
		"cm": UnitCm, "mm": UnitMm, "q": UnitQ, "in": UnitIn, "pt": UnitPt, "pc": UnitPc,
	}
	angleUnits = map[string]float64{
		"deg":  1,
		"grad": 360.0 / 400.0,
		"rad":  180 / math.Pi,
		"turn": 360,
	}
	colorFuncs = map[string]bool{
		"rgb(":  true,
		"rgba(": true,
		"hsl(":  true,
		"hsla(": true,
	}
)

// Tokenize splits a background value into classified tokens. Whitespace
// and comments are dropped. Color functions such as rgb(...) are folded
// into a single TokenColor.
func Tokenize(text string) ([]Token, error) {
	l := css.NewLexer(parse.NewInputString(text))
	var toks []Token
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			if err := l.Err(); err != io.EOF {
				return nil, &SyntaxError{Pos: len(toks), Msg: err.Error()}
			}
			return toks, nil
		case css.WhitespaceToken, css.CommentToken:
		case css.FunctionToken:
			if !colorFuncs[strings.ToLower(string(data))] {
				toks = append(toks, Token{Type: TokenFunction, Value: string(data)})
				break
			}
			v, ok := readFunction(l, data)
			if !ok {
				return nil, &SyntaxError{Pos: len(toks), Msg: "unterminated " + string(data)}
			}
			toks = append(toks, Token{Type: TokenColor, Value: v})
		default:
			toks = append(toks, classify(tt, data))
		}
	}
}

// readFunction collects the raw text of a function call up to and
// including its closing parenthesis.
func readFunction(l *css.Lexer, name []byte) (string, bool) {
	var sb strings.Builder
	sb.Write(name)
	depth := 1
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return "", false
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
		}
		sb.Write(data)
		if depth == 0 {
			return sb.String(), true
		}
	}
}

func classify(tt css.TokenType, data []byte) Token {
	v := string(data)
	switch tt {
	case css.IdentToken:
		if isColorName(v) {
			return Token{Type: TokenColor, Value: v}
		}
		return Token{Type: TokenIdent, Value: v}
	case css.HashToken:
		if isHexColor(v) {
			return Token{Type: TokenColor, Value: v}
		}
	case css.NumberToken:
		return Token{Type: TokenNumber, Value: v}
	case css.PercentageToken:
		return Token{Type: TokenPercent, Value: v}
	case css.DimensionToken:
		num, unit := parse.Dimension(data)
		if num > 0 && num+unit == len(data) {
			u := strings.ToLower(v[num:])
			if _, ok := lengthUnits[u]; ok {
				return Token{Type: TokenLength, Value: v}
			}
			if _, ok := angleUnits[u]; ok {
				return Token{Type: TokenAngle, Value: v}
			}
		}
	case css.URLToken:
		if u, ok := unwrapURL(v); ok {
			return Token{Type: TokenURL, Value: u}
		}
	case css.CommaToken:
		return Token{Type: TokenOperator, Value: v}
	case css.DelimToken:
		if v == "/" {
			return Token{Type: TokenOperator, Value: v}
		}
		return Token{Type: TokenCharacter, Value: v}
	case css.LeftParenthesisToken, css.RightParenthesisToken,
		css.LeftBracketToken, css.RightBracketToken,
		css.LeftBraceToken, css.RightBraceToken,
		css.ColonToken, css.SemicolonToken:
		return Token{Type: TokenCharacter, Value: v}
	}
	return Token{Type: TokenUnknown, Value: v}
}

// unwrapURL strips the url(...) wrapper, surrounding whitespace and
// quotes, and resolves escapes. It reports false for anything that is not
// a non-empty url().
func unwrapURL(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if len(v) < 5 || !strings.EqualFold(v[:4], "url(") || !strings.HasSuffix(v, ")") {
		return "", false
	}
	v = strings.TrimSpace(v[4 : len(v)-1])
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	v = unescape(v)
	return v, v != ""
}

// unescape resolves CSS backslash escapes: up to six hex digits and one
// optional whitespace for a code point, an escaped newline for nothing,
// any other escaped character for itself.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			sb.WriteByte(s[i])
			continue
		}
		i++
		j := i
		for j < len(s) && j-i < 6 && isHexDigit(s[j]) {
			j++
		}
		if j == i {
			if s[i] != '\n' {
				sb.WriteByte(s[i])
			}
			continue
		}
		r, _ := strconv.ParseUint(s[i:j], 16, 32)
		if r == 0 || r > unicode.MaxRune || r >= 0xD800 && r <= 0xDFFF {
			r = unicode.ReplacementChar
		}
		sb.WriteRune(rune(r))
		if j < len(s) && parse.IsWhitespace(s[j]) {
			j++
		}
		i = j - 1
	}
	return sb.String()
}

func isHexDigit(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
