package domain

import "errors"

var (
	// ErrDuplicate reports a unique-constraint conflict (visitor email, attraction name).
	ErrDuplicate = errors.New("duplicate value for unique field")

	// ErrMissingReference reports an operation against a row that does not exist,
	// such as selling a ticket to an unknown visitor.
	ErrMissingReference = errors.New("referenced row does not exist")
)
