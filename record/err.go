package record

import (
	"errors"

	"github.com/ezrec/tracecfg/translate"
)

var f = translate.From

var (
	ErrFailureMissing = errors.New(f("failure address missing"))
	ErrFailureExtra   = errors.New(f("more than one failure address"))
	ErrJumpKind       = errors.New(f("jump kind invalid"))
)

// ErrJump reports a jump record that failed validation.
type ErrJump struct {
	Name string
	Kind JumpKind
	Err  error
}

func (err *ErrJump) Error() string {
	return f("jump %v (%v) %v", err.Name, err.Kind.String(), err.Err)
}

func (err *ErrJump) Unwrap() error {
	return err.Err
}
