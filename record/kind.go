package record

// JumpKind is the control-flow kind of a jump record.
type JumpKind int

//go:generate go tool stringer -linecomment -type=JumpKind
const (
	JUMP_UNCONDITIONAL         = JumpKind(0) // jmp
	JUMP_CONDITIONAL_TAKEN     = JumpKind(1) // jcc+
	JUMP_CONDITIONAL_NOT_TAKEN = JumpKind(2) // jcc-
)

var jumpKindMap = map[string]JumpKind{
	JUMP_UNCONDITIONAL.String():         JUMP_UNCONDITIONAL,
	JUMP_CONDITIONAL_TAKEN.String():     JUMP_CONDITIONAL_TAKEN,
	JUMP_CONDITIONAL_NOT_TAKEN.String(): JUMP_CONDITIONAL_NOT_TAKEN,
}

// ParseJumpKind returns the kind named by word, as produced by String().
func ParseJumpKind(word string) (kind JumpKind, ok bool) {
	kind, ok = jumpKindMap[word]
	return
}

// Valid returns true if the kind is one of the defined jump kinds.
func (kind JumpKind) Valid() bool {
	return kind >= JUMP_UNCONDITIONAL && kind <= JUMP_CONDITIONAL_NOT_TAKEN
}

// Conditional returns true if the kind needs a failure address.
func (kind JumpKind) Conditional() bool {
	return kind == JUMP_CONDITIONAL_TAKEN || kind == JUMP_CONDITIONAL_NOT_TAKEN
}
