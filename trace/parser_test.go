package trace

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/tracecfg/cfg"
	"github.com/ezrec/tracecfg/record"
)

func parseLines(t *testing.T, p *Parser, lines ...string) (tr *Trace, err error) {
	t.Helper()
	return p.Parse(strings.NewReader(strings.Join(lines, "\n")))
}

func TestParser(t *testing.T) {
	assert := assert.New(t)

	p := &Parser{}
	tr, err := parseLines(t, p, "")
	assert.NoError(err)
	assert.Equal(0, len(tr.Steps))
	assert.Equal(0, tr.Entry)
	assert.False(tr.EntrySet)
	assert.Equal("0", p.Equate["LINENO"])
}

func TestParser_Steps(t *testing.T) {
	assert := assert.New(t)

	p := &Parser{}
	tr, err := parseLines(t, p,
		"; the original demonstration trace",
		".entry 0",
		"1 LOAD",
		"2 PUSH 1",
		"3 STORE 1          ; comment",
		"4 JMP jmp 5",
		"5 PUSH 1",
		"6 JNE jcc+ 0x10 0x20",
		"\t0x20\tMOV r0, r1",
	)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(0, tr.Entry)
	assert.True(tr.EntrySet)

	expected := []Step{
		{3, 1, record.NewInstruction("LOAD")},
		{4, 2, record.NewInstruction("PUSH", "1")},
		{5, 3, record.NewInstruction("STORE", "1")},
		{6, 4, record.MustJump("JMP", 5, record.JUMP_UNCONDITIONAL)},
		{7, 5, record.NewInstruction("PUSH", "1")},
		{8, 6, record.MustJump("JNE", 0x10, record.JUMP_CONDITIONAL_TAKEN, 0x20)},
		{9, 0x20, record.NewInstruction("MOV", "r0,", "r1")},
	}
	assert.Equal(expected, tr.Steps)

	var addrs []int
	for addr := range tr.All() {
		addrs = append(addrs, addr)
	}
	assert.Equal([]int{1, 2, 3, 4, 5, 6, 0x20}, addrs)
}

func TestParser_Entry(t *testing.T) {
	assert := assert.New(t)

	p := &Parser{}
	tr, err := parseLines(t, p, "0x40 NOP", "0x41 NOP")
	assert.NoError(err)
	assert.Equal(0x40, tr.Entry)
	assert.False(tr.EntrySet)

	_, err = parseLines(t, p, ".entry 0", ".entry 1")
	assert.True(errors.Is(err, ErrEntryDuplicate))

	_, err = parseLines(t, p, ".entry")
	assert.True(errors.Is(err, ErrEntrySyntax))
}

func TestParser_Equate(t *testing.T) {
	assert := assert.New(t)

	p := &Parser{}
	p.Predefine("BASE", "0x100")
	tr, err := parseLines(t, p,
		".equ LOOP 0x110",
		".entry BASE",
		"BASE LOAD",
		"$(BASE+1) JMP jmp LOOP",
		"LOOP NOP",
		"$(LOOP+1) JMP jmp $(LOOP-0x10)",
		"$(LINENO) NOP",
	)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(0x100, tr.Entry)
	assert.Equal(0x101, tr.Steps[1].Address)
	assert.Equal(record.MustJump("JMP", 0x110, record.JUMP_UNCONDITIONAL), tr.Steps[1].Record)
	assert.Equal(record.MustJump("JMP", 0x100, record.JUMP_UNCONDITIONAL), tr.Steps[3].Record)
	assert.Equal(7, tr.Steps[4].Address)

	_, err = parseLines(t, p, ".equ A 1", ".equ A 2")
	assert.True(errors.Is(err, ErrEquateDuplicate))

	_, err = parseLines(t, p, ".equ A")
	assert.True(errors.Is(err, ErrEquateSyntax))

	_, err = parseLines(t, p, "$(1 +) NOP")
	assert.Error(err)

	_, err = parseLines(t, p, `$("x") NOP`)
	assert.True(errors.Is(err, ErrParseExpression(`"x"`)))
}

func TestParser_Labels(t *testing.T) {
	assert := assert.New(t)

	p := &Parser{}
	tr, err := parseLines(t, p,
		"start: 0 CMP r0 0",
		"1 JE jcc- done loop",
		"loop:",
		"0x10 DEC r0",
		"0x11 JMP jmp start",
		"done: exit: 0x20 HALT",
		"0x21 JMP jmp $(done+1)",
	)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(map[string]int{"start": 0, "loop": 0x10, "done": 0x20, "exit": 0x20}, p.Label)
	assert.Equal(record.MustJump("JE", 0x20, record.JUMP_CONDITIONAL_NOT_TAKEN, 0x10), tr.Steps[1].Record)
	assert.Equal(record.MustJump("JMP", 0, record.JUMP_UNCONDITIONAL), tr.Steps[3].Record)
	assert.Equal(record.MustJump("JMP", 0x21, record.JUMP_UNCONDITIONAL), tr.Steps[5].Record)

	_, err = parseLines(t, p, "a: 0 NOP", "a: 1 NOP")
	assert.True(errors.Is(err, ErrLabelDuplicate))

	_, err = parseLines(t, p, "0 NOP", "a:")
	assert.True(errors.Is(err, ErrLabelDangling))

	_, err = parseLines(t, p, "0 JMP jmp nowhere")
	assert.True(errors.Is(err, ErrLabelMissing("nowhere")))
	var es *ErrSyntax
	assert.True(errors.As(err, &es))
	assert.Equal(1, es.LineNo)
	assert.Equal("0 JMP jmp nowhere", es.Line)
}

func TestParser_Errors(t *testing.T) {
	assert := assert.New(t)

	p := &Parser{}

	_, err := parseLines(t, p, "0 NOP", "1")
	assert.True(errors.Is(err, ErrStepSyntax))
	var es *ErrSyntax
	assert.True(errors.As(err, &es))
	assert.Equal(2, es.LineNo)

	_, err = parseLines(t, p, "zz NOP")
	assert.True(errors.Is(err, ErrParseValue("zz")))

	_, err = parseLines(t, p, "0 JMP jmp")
	assert.True(errors.Is(err, ErrJumpSyntax))

	_, err = parseLines(t, p, "0 JMP jmp 1 2 3")
	assert.True(errors.Is(err, ErrJumpSyntax))

	_, err = parseLines(t, p, "0 JNE jcc+ 1")
	assert.True(errors.Is(err, record.ErrFailureMissing))

	_, err = parseLines(t, p, ".org 0")
	assert.True(errors.Is(err, ErrDirective))
}

func TestParser_Rept(t *testing.T) {
	assert := assert.New(t)

	p := &Parser{}
	p.Predefine("REPT", fmt.Sprintf("%d", REPT_LIMIT))
	tr, err := parseLines(t, p,
		".equ TIMES 3",
		"0 SET r0 3",
		"1 JMP jmp loop",
		".rept TIMES",
		"loop: 0x10 DEC r0",
		"0x11 JNZ jcc+ 0x12 loop",
		".endr",
		".rept $(TIMES-3)",
		"0x99 NEVER",
		".endr",
		"0x12 HALT",
	)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(9, len(tr.Steps))
	assert.Equal(5, tr.Steps[2].LineNo)
	assert.Equal(6, tr.Steps[3].LineNo)
	assert.Equal(5, tr.Steps[6].LineNo)
	assert.Equal(11, tr.Steps[8].LineNo)

	b := cfg.NewBuilder(tr.Entry)
	b.Consume(tr.All())
	g := b.Graph()

	// The body ran three times around one loop block, which HALT extends.
	assert.Equal(2, g.Len())
	loop, ok := g.FindByAddress(0x10)
	assert.True(ok)
	assert.Equal([]int{0x10, 0x11, 0x12}, slices.Collect(loop.Addresses()))
	assert.Equal(4, g.EdgeCount())

	_, err = parseLines(t, p, ".rept 2", ".rept 2")
	assert.True(errors.Is(err, ErrReptNesting))

	_, err = parseLines(t, p, ".rept 2", "0 NOP")
	assert.True(errors.Is(err, ErrReptLonely))

	_, err = parseLines(t, p, ".endr")
	assert.True(errors.Is(err, ErrReptLonelyEndr))

	_, err = parseLines(t, p, ".rept 2", ".equ X 1", "0x10 INC", ".endr")
	assert.True(errors.Is(err, ErrReptEquate))
	var er *ErrSyntax
	assert.True(errors.As(err, &er))
	assert.Equal(2, er.LineNo)

	_, err = parseLines(t, p, ".rept")
	assert.True(errors.Is(err, ErrReptSyntax))

	_, err = parseLines(t, p, ".rept -1", ".endr")
	assert.True(errors.Is(err, ErrReptSyntax))

	_, err = parseLines(t, p, ".rept $(REPT+1)", ".endr")
	assert.True(errors.Is(err, ErrReptSyntax))

	_, err = parseLines(t, p, ".rept 1", "0 NOP", "zz NOP", ".endr")
	var es *ErrSyntax
	assert.True(errors.As(err, &es))
	assert.Equal(3, es.LineNo)
	assert.Equal("zz NOP", es.Line)
}

func TestParser_Scenario(t *testing.T) {
	assert := assert.New(t)

	p := &Parser{}
	tr, err := parseLines(t, p,
		".entry 0",
		"1 LOAD",
		"2 PUSH 1",
		"3 STORE 1",
		"4 JMP jmp 5",
		"5 PUSH 1",
	)
	assert.NoError(err)

	b := cfg.NewBuilder(tr.Entry)
	b.Consume(tr.All())

	g := b.Graph()
	assert.Equal(2, g.Len())
	assert.Equal(1, g.EdgeCount())

	a := g.Block(0)
	assert.Equal([]int{1, 2, 3, 4}, slices.Collect(a.Addresses()))
}
