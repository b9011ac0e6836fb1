package record

import (
	"fmt"
	"strings"
)

// Record is a decoded trace record; either an Instruction or a Jump.
type Record interface {
	// Mnemonic returns the operation name.
	Mnemonic() string
	// ListingOperand returns the operand column of a block listing.
	ListingOperand() string

	isRecord()
}

// Instruction is a non-control-flow operation.
type Instruction struct {
	Name    string
	Operand string
}

// NewInstruction creates an instruction. Multiple operand words are joined
// with a single space.
func NewInstruction(name string, operand ...string) Instruction {
	return Instruction{
		Name:    name,
		Operand: strings.Join(operand, " "),
	}
}

func (Instruction) isRecord() {}

// Mnemonic returns the instruction name.
func (in Instruction) Mnemonic() string {
	return in.Name
}

// ListingOperand returns the instruction operand.
func (in Instruction) ListingOperand() string {
	return in.Operand
}

// String returns the instruction in trace syntax.
func (in Instruction) String() string {
	if len(in.Operand) == 0 {
		return in.Name
	}
	return in.Name + " " + in.Operand
}

// Jump is a control-flow transfer.
//
// Conditional jumps always carry a failure address; unconditional jumps
// may omit it.
type Jump struct {
	name       string
	success    int
	kind       JumpKind
	failure    int
	hasFailure bool
}

// NewJump creates a jump to success. At most one failure address may be
// given, and it must be given for conditional kinds.
func NewJump(name string, success int, kind JumpKind, failure ...int) (jmp Jump, err error) {
	defer func() {
		if err != nil {
			err = &ErrJump{Name: name, Kind: kind, Err: err}
		}
	}()

	if !kind.Valid() {
		err = ErrJumpKind
		return
	}

	if len(failure) > 1 {
		err = ErrFailureExtra
		return
	}

	jmp = Jump{
		name:    name,
		success: success,
		kind:    kind,
	}

	if len(failure) == 1 {
		jmp.failure = failure[0]
		jmp.hasFailure = true
	}

	if kind.Conditional() && !jmp.hasFailure {
		jmp = Jump{}
		err = ErrFailureMissing
		return
	}

	return
}

// MustJump is like NewJump, but panics on a validation error.
func MustJump(name string, success int, kind JumpKind, failure ...int) Jump {
	jmp, err := NewJump(name, success, kind, failure...)
	if err != nil {
		panic(err)
	}
	return jmp
}

func (Jump) isRecord() {}

// Mnemonic returns the jump name.
func (jmp Jump) Mnemonic() string {
	return jmp.name
}

// ListingOperand returns the success address in hex, the column a listing
// shows for a jump.
func (jmp Jump) ListingOperand() string {
	return fmt.Sprintf("%#x", jmp.success)
}

// Name returns the jump name.
func (jmp Jump) Name() string {
	return jmp.name
}

// Success returns the success address.
func (jmp Jump) Success() int {
	return jmp.success
}

// Kind returns the jump kind.
func (jmp Jump) Kind() JumpKind {
	return jmp.kind
}

// Failure returns the failure address, if any.
func (jmp Jump) Failure() (addr int, ok bool) {
	return jmp.failure, jmp.hasFailure
}

// String returns the jump in trace syntax.
func (jmp Jump) String() string {
	text := fmt.Sprintf("%v %v %#x", jmp.name, jmp.kind.String(), jmp.success)
	if jmp.hasFailure {
		text += fmt.Sprintf(" %#x", jmp.failure)
	}
	return text
}
