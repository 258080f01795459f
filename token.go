// Copyright 2018 The oksvg Authors. All rights reserved.

package okbg

import (
	"fmt"
	"strconv"
	"strings"
)

// TokenType classifies a background value token.
type TokenType uint8

const (
	TokenEOF TokenType = iota
	TokenLength
	TokenPercent
	TokenNumber
	TokenIdent
	TokenColor
	TokenAngle
	TokenURL
	TokenFunction
	TokenOperator
	TokenCharacter
	TokenUnknown
)

var tokenNames = [...]string{
	TokenEOF:       "EOF",
	TokenLength:    "LENGTH",
	TokenPercent:   "PERCENT",
	TokenNumber:    "NUMBER",
	TokenIdent:     "IDENT",
	TokenColor:     "COLOR",
	TokenAngle:     "ANGLE",
	TokenURL:       "URL",
	TokenFunction:  "FUNCTION",
	TokenOperator:  "OPERATOR",
	TokenCharacter: "CHARACTER",
	TokenUnknown:   "UNKNOWN",
}

func (tt TokenType) String() string {
	if int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return "TokenType(" + strconv.Itoa(int(tt)) + ")"
}

// Token is one classified lexeme. For TokenURL the Value holds the
// unwrapped URL, for TokenFunction the name including the opening
// parenthesis, e.g. "linear-gradient(".
type Token struct {
	Type  TokenType
	Value string
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}

// is reports whether t is of type tt with a case-insensitive value v.
func (t Token) is(tt TokenType, v string) bool {
	return t.Type == tt && strings.EqualFold(t.Value, v)
}

// isLengthOrPercent accepts lengths, percentages and the unit-less zero.
func isLengthOrPercent(t Token) bool {
	switch t.Type {
	case TokenLength, TokenPercent:
		return true
	case TokenNumber:
		f, err := strconv.ParseFloat(t.Value, 64)
		return err == nil && f == 0
	}
	return false
}

var positionIdents = map[string]bool{
	"top":    true,
	"right":  true,
	"bottom": true,
	"left":   true,
	"center": true,
}

func isPositionToken(t Token) bool {
	if isLengthOrPercent(t) {
		return true
	}
	return t.Type == TokenIdent && positionIdents[strings.ToLower(t.Value)]
}

// sizeToken returns the size component for t, or false if t can not be
// one side of a background-size.
func sizeToken(t Token) (SizeComponent, bool, error) {
	if t.is(TokenIdent, "auto") {
		return SizeComponent{Auto: true}, true, nil
	}
	if !isLengthOrPercent(t) {
		return SizeComponent{}, false, nil
	}
	l, err := ParseLength(t.Value)
	if err != nil {
		return SizeComponent{}, false, err
	}
	return SizeComponent{Length: l}, true, nil
}
