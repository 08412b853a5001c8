// Copyright © 2026 zincware.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.
//

package aaargs

import "github.com/pkg/errors"

var (
	// ErrUnknownOption is returned for a parser setting or tag label that does not exist.
	ErrUnknownOption = errors.New("unknown option")
	// ErrKind is returned when an argument is declared or constructed with an impossible shape,
	// e.g. a required positional argument or a missing required field.
	ErrKind = errors.New("invalid argument kind")
	// ErrValue is returned for defaults, consts and choices that don't fit the argument.
	ErrValue = errors.New("invalid argument value")
	// ErrNameMismatch is returned by Parse when the parsed result is not keyed by the
	// declared attribute names, typically because explicit flags don't match the field.
	ErrNameMismatch = errors.New("argument name mismatch")
	// ErrHelp is returned by Parse when help or version output was requested and printed.
	ErrHelp = errors.New("help requested")
)

// declaration errors are programming mistakes rather than bad user input
func isDeclarationError(err error) bool {
	return errors.Is(err, ErrUnknownOption) ||
		errors.Is(err, ErrKind) ||
		errors.Is(err, ErrValue) ||
		errors.Is(err, ErrNameMismatch)
}
