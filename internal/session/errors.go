package session

import (
	"errors"
	"fmt"
)

// ErrInvalid is the parent of every user-correctable rejection. Test with
// errors.Is(err, ErrInvalid).
var ErrInvalid = errors.New("invalid")

var (
	ErrNoProgram     = fmt.Errorf("%w: select a program", ErrInvalid)
	ErrNoDays        = fmt.Errorf("%w: add days to this program first", ErrInvalid)
	ErrNoDay         = fmt.Errorf("%w: select a day", ErrInvalid)
	ErrEmptyDay      = fmt.Errorf("%w: this day has no exercises", ErrInvalid)
	ErrInvalidField  = fmt.Errorf("%w: field must be reps or weight", ErrInvalid)
	ErrSetOutOfRange = fmt.Errorf("%w: no such exercise or set", ErrInvalid)
	ErrInvalidDelta  = fmt.Errorf("%w: delta must be -1 or 1", ErrInvalid)
)
