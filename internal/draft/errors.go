package draft

import "errors"

var (
	ErrUnknownSection = errors.New("unknown section")
	ErrInvalidPatch   = errors.New("invalid patch")
	ErrDuplicateSkill = errors.New("skill already present")
	ErrInvalidColor   = errors.New("invalid color")
)
