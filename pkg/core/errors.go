package core

import "errors"

var (
	// ErrConstruction marks a wrong-typed or wrong-shaped argument to a constructor.
	ErrConstruction = errors.New("invalid construction argument")

	// ErrArity marks a registered function that does not accept the declared number of variables.
	ErrArity = errors.New("function arity mismatch")

	// ErrDimension marks a point, index or color whose length does not match what the receiver holds.
	ErrDimension = errors.New("dimension mismatch")
)
