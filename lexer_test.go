// Copyright 2018 The oksvg Authors. All rights reserved.

package okbg

import (
	"errors"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		css  string
		want []Token
	}{
		{name: "image layer", css: "url(a.png) no-repeat top left", want: []Token{
			{TokenURL, "a.png"},
			{TokenIdent, "no-repeat"},
			{TokenIdent, "top"},
			{TokenIdent, "left"},
		}},
		{name: "quoted url", css: `url( "a b.png" )`, want: []Token{
			{TokenURL, "a b.png"},
		}},
		{name: "colors", css: "red rgb(1, 2, 3) #fff #zz Transparent", want: []Token{
			{TokenColor, "red"},
			{TokenColor, "rgb(1, 2, 3)"},
			{TokenColor, "#fff"},
			{TokenUnknown, "#zz"},
			{TokenColor, "Transparent"},
		}},
		{name: "numbers", css: "45deg -10px 50% 0 / ,", want: []Token{
			{TokenAngle, "45deg"},
			{TokenLength, "-10px"},
			{TokenPercent, "50%"},
			{TokenNumber, "0"},
			{TokenOperator, "/"},
			{TokenOperator, ","},
		}},
		{name: "gradient", css: "linear-gradient(red, blue)", want: []Token{
			{TokenFunction, "linear-gradient("},
			{TokenColor, "red"},
			{TokenOperator, ","},
			{TokenColor, "blue"},
			{TokenCharacter, ")"},
		}},
		{name: "nested color function", css: "linear-gradient(hsla(120, 100%, 50%, .5) 10%, blue)", want: []Token{
			{TokenFunction, "linear-gradient("},
			{TokenColor, "hsla(120, 100%, 50%, .5)"},
			{TokenPercent, "10%"},
			{TokenOperator, ","},
			{TokenColor, "blue"},
			{TokenCharacter, ")"},
		}},
		{name: "unknown unit", css: "10foo", want: []Token{{TokenUnknown, "10foo"}}},
		{name: "garbage", css: "%%", want: []Token{{TokenCharacter, "%"}, {TokenCharacter, "%"}}},
		{name: "comments", css: "/* x */ red /* y */", want: []Token{{TokenColor, "red"}}},
		{name: "empty", css: "  ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.css)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.css, got, tt.want)
			}
		})
	}
}

func TestTokenizeUnterminatedColor(t *testing.T) {
	_, err := Tokenize("red rgb(1, 2")
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("got %v, want a syntax error", err)
	}
	var se *SyntaxError
	if !errors.As(err, &se) || se.Pos != 1 {
		t.Errorf("got %#v, want position 1", err)
	}
}

func TestUnwrapURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"url(a.png)", "a.png", true},
		{"URL( 'b.png' )", "b.png", true},
		{`url("")`, "", false},
		{"url(a.png", "", false},
		{"a.png", "", false},
		{`url("a\"b\\c.png")`, `a"b\c.png`, true},
		{`url('it\'s.png')`, "it's.png", true},
		{`url("\41 b\000043.png")`, "AbC.png", true},
		{`url("x\0 y")`, "x\uFFFDy", true},
	}
	for _, tt := range tests {
		got, ok := unwrapURL(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("unwrapURL(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestClassifierHelpers(t *testing.T) {
	tests := []struct {
		tok      Token
		length   bool
		position bool
		size     bool
	}{
		{Token{TokenLength, "10px"}, true, true, true},
		{Token{TokenPercent, "5%"}, true, true, true},
		{Token{TokenNumber, "0"}, true, true, true},
		{Token{TokenNumber, "-0.0"}, true, true, true},
		{Token{TokenNumber, "1"}, false, false, false},
		{Token{TokenIdent, "Top"}, false, true, false},
		{Token{TokenIdent, "center"}, false, true, false},
		{Token{TokenIdent, "auto"}, false, false, true},
		{Token{TokenIdent, "cover"}, false, false, false},
		{Token{TokenAngle, "45deg"}, false, false, false},
		{Token{TokenColor, "red"}, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.tok.String(), func(t *testing.T) {
			if got := isLengthOrPercent(tt.tok); got != tt.length {
				t.Errorf("isLengthOrPercent = %v, want %v", got, tt.length)
			}
			if got := isPositionToken(tt.tok); got != tt.position {
				t.Errorf("isPositionToken = %v, want %v", got, tt.position)
			}
			_, ok, err := sizeToken(tt.tok)
			if err != nil {
				t.Fatal(err)
			}
			if ok != tt.size {
				t.Errorf("sizeToken ok = %v, want %v", ok, tt.size)
			}
		})
	}
}

func TestSizeToken(t *testing.T) {
	c, ok, err := sizeToken(Token{TokenIdent, "AUTO"})
	if err != nil || !ok || !c.Auto {
		t.Errorf("auto: got %+v, %v, %v", c, ok, err)
	}
	c, ok, err = sizeToken(Token{TokenLength, "12px"})
	if err != nil || !ok || c != (SizeComponent{Length: Length{12, UnitPx}}) {
		t.Errorf("12px: got %+v, %v, %v", c, ok, err)
	}
}
