package trace

import (
	"errors"

	"github.com/ezrec/tracecfg/translate"
)

var f = translate.From

var (
	// Directive errors
	ErrEntrySyntax     = errors.New(f(".entry syntax"))
	ErrEntryDuplicate  = errors.New(f(".entry duplicated"))
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrReptSyntax      = errors.New(f(".rept syntax"))
	ErrReptNesting     = errors.New(f(".rept in .rept prohibited"))
	ErrReptLonely      = errors.New(f(".rept without .endr"))
	ErrReptLonelyEndr  = errors.New(f(".endr without .rept"))
	ErrReptEquate      = errors.New(f(".equ in .rept prohibited"))
	ErrDirective       = errors.New(f("directive unknown"))

	// Step errors
	ErrLabelDuplicate = errors.New(f("label duplicated"))
	ErrLabelDangling  = errors.New(f("label without a step"))
	ErrStepSyntax     = errors.New(f("step needs an address and a name"))
	ErrJumpSyntax     = errors.New(f("jump needs a success and at most one failure address"))

	// Binary trace errors
	ErrStreamHeader = errors.New(f("trace header missing"))
	ErrStreamKind   = errors.New(f("step kind unknown"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a number, equate or label", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax indicates the location of a text trace error.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrStream indicates the position of a binary trace error.
type ErrStream struct {
	Step int
	Err  error
}

func (err *ErrStream) Error() string {
	return f("step %d %v", err.Step, err.Err)
}

func (err *ErrStream) Unwrap() error {
	return err.Err
}
