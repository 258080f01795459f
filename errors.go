// Copyright 2018 The oksvg Authors. All rights reserved.

package okbg

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is returned, possibly wrapped, when a background value can
	// not be parsed at all. Callers should fall back to native rendering.
	ErrSyntax = errors.New("okbg: syntax error")

	// ErrBadValue marks literal text a value constructor rejected.
	ErrBadValue = errors.New("okbg: bad value")

	// ErrLayerTagged is returned when a layer that already is an image or a
	// gradient is asked to become the other kind.
	ErrLayerTagged = errors.New("okbg: layer already tagged")

	// ErrNoImage is returned by an ImageLoader that can not resolve a URL.
	ErrNoImage = errors.New("okbg: image not found")

	// ErrTileTooLarge is returned when a layer's size asks for a tile that
	// is out of proportion to the painting area.
	ErrTileTooLarge = errors.New("okbg: tile too large")

	paramMismatchError = errors.New("param mismatch")
)

// SyntaxError describes where a background value stopped making sense.
// Pos is the index of the offending token.
type SyntaxError struct {
	Pos   int
	Token Token
	Msg   string
	Err   error
}

func (e *SyntaxError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "unexpected " + e.Token.String()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s at token %d: %s", ErrSyntax, e.Pos, msg)
}

// Is makes errors.Is(err, ErrSyntax) hold for every SyntaxError.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
