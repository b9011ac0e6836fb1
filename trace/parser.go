// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package trace

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/tracecfg/record"
)

// Step is a single trace record at an address.
type Step struct {
	LineNo  int           // Source line, or step index of a binary trace.
	Address int           // Program counter of the record.
	Record  record.Record // Decoded record.
}

// Trace is a parsed trace.
type Trace struct {
	Entry    int  // Entry point of the graph.
	EntrySet bool // If set, Entry came from the trace itself.
	Steps    []Step
}

// All iterates over the (address, record) steps of the trace.
func (tr *Trace) All() iter.Seq2[int, record.Record] {
	return func(yield func(addr int, rec record.Record) bool) {
		for _, step := range tr.Steps {
			if !yield(step.Address, step.Record) {
				return
			}
		}
	}
}

const (
	REPT_LIMIT = 1 << 16 // Maximum .rept count
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// repeat is a .rept block being collected.
type repeat struct {
	LineNo int      // Line number of the first repeated line.
	Count  int      // Number of repetitions.
	Lines  []string // Lines of text to repeat.
}

// link is a jump whose addresses are resolved once all labels are known.
type link struct {
	Step    int    // Index into the steps.
	Line    string // Source text.
	Name    string // Jump name.
	Kind    record.JumpKind
	Targets []string // Success and optional failure words.
}

// Parser is a single pass reader for text traces.
type Parser struct {
	Verbose bool // If set, verbosely logs every line read.

	Label  map[string]int    // Map of labels to step addresses.
	Equate map[string]string // Map of equates.

	predefine map[string]string // Predefines
	steps     []Step
	links     []link
	pending   []string // Labels waiting for their step.
	entry     int
	entrySet  bool
}

// Predefine defines a new equate or redefines an existing equate, for
// every following Parse.
func (p *Parser) Predefine(equ string, value string) {
	if p.predefine == nil {
		p.predefine = map[string]string{equ: value}
	} else {
		p.predefine[equ] = value
	}
}

// value returns the value of a simple word.
func (p *Parser) value(word string) (value int, err error) {
	equate, ok := p.Equate[word]
	if ok {
		word = equate
	}

	v64, perr := strconv.ParseInt(word, 0, 64)
	if perr == nil {
		value = int(v64)
		return
	}

	value, ok = p.Label[word]
	if !ok {
		err = ErrParseValue(word)
	}

	return
}

// parenEval does $(...) evaluations
func (p *Parser) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{Name: "trace"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, addr := range p.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	for key := range p.Equate {
		var v int
		v, err = p.value(key)
		if err != nil {
			// Ignore non-integer equates.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(v)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

var parenRe = regexp.MustCompile(`\$\([^\$]*\)`)

// expand replaces every $(...) in line with its value.
func (p *Parser) expand(line string) (out string, err error) {
	out = parenRe.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := p.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	return
}

// parseLine expands a single line into words, handling .equ.
func (p *Parser) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	p.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	line, err = p.expand(line)
	if err != nil {
		return
	}

	words = strings.Fields(line)

	// .equ CONST VALUE
	if len(words) > 0 && words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := p.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		p.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	return
}

// parseWords evaluates the words of a single step or directive.
func (p *Parser) parseWords(words []string, line string, lineno int) (err error) {
	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		p.pending = append(p.pending, words[0][:len(words[0])-1])
		words = words[1:]
	}

	// no-op
	if len(words) == 0 {
		return
	}

	if words[0] == ".entry" {
		if len(words) != 2 {
			err = ErrEntrySyntax
			return
		}
		if p.entrySet {
			err = ErrEntryDuplicate
			return
		}
		p.entry, err = p.value(words[1])
		if err != nil {
			return
		}
		p.entrySet = true
		return
	}

	if strings.HasPrefix(words[0], ".") {
		err = ErrDirective
		return
	}

	if len(words) < 2 {
		err = ErrStepSyntax
		return
	}

	addr, err := p.value(words[0])
	if err != nil {
		return
	}

	for _, label := range p.pending {
		known, ok := p.Label[label]
		if ok && known != addr {
			err = ErrLabelDuplicate
			return
		}
		p.Label[label] = addr
	}
	p.pending = p.pending[:0]

	name := words[1]
	args := words[2:]

	step := Step{
		LineNo:  lineno,
		Address: addr,
	}

	kind, is_jump := record.JumpKind(0), false
	if len(args) > 0 {
		kind, is_jump = record.ParseJumpKind(args[0])
	}

	if is_jump {
		targets := args[1:]
		if len(targets) < 1 || len(targets) > 2 {
			err = ErrJumpSyntax
			return
		}
		p.links = append(p.links, link{
			Step:    len(p.steps),
			Line:    line,
			Name:    name,
			Kind:    kind,
			Targets: targets,
		})
	} else {
		step.Record = record.NewInstruction(name, args...)
	}

	p.steps = append(p.steps, step)

	return
}

// parse parses a single line of text.
func (p *Parser) parse(line string, lineno int) (err error) {
	words, err := p.parseLine(line, lineno)
	if err != nil {
		return
	}

	return p.parseWords(words, line, lineno)
}

// link resolves the addresses of a jump and stores its record.
func (p *Parser) link(ln link) (err error) {
	addrs := make([]int, len(ln.Targets))
	for n, word := range ln.Targets {
		addrs[n], err = p.value(word)
		if err != nil {
			if _, ok := err.(ErrParseValue); ok {
				err = ErrLabelMissing(word)
			}
			return
		}
	}

	jmp, err := record.NewJump(ln.Name, addrs[0], ln.Kind, addrs[1:]...)
	if err != nil {
		return
	}

	p.steps[ln.Step].Record = jmp

	return
}

// Parse parses an input stream into a Trace.
func (p *Parser) Parse(input io.Reader) (tr *Trace, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var rept *repeat

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	p.Label = make(map[string]int, 16)
	p.Equate = maps.Clone(sysEquate)
	for attr, val := range p.predefine {
		p.Equate[attr] = val
	}
	p.steps = nil
	p.links = p.links[:0]
	p.pending = p.pending[:0]
	p.entry = 0
	p.entrySet = false

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if p.Verbose {
			log.Printf("trace: %v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .rept COUNT
		if len(words) > 0 && words[0] == ".rept" {
			if rept != nil {
				err = ErrReptNesting
				return
			}
			words, err = p.parseLine(line, lineno)
			if err != nil {
				return
			}
			if len(words) != 2 {
				err = ErrReptSyntax
				return
			}
			var count int
			count, err = p.value(words[1])
			if err != nil {
				return
			}
			if count < 0 || count > REPT_LIMIT {
				err = ErrReptSyntax
				return
			}
			rept = &repeat{
				LineNo: lineno + 1,
				Count:  count,
			}
			continue
		}

		if len(words) > 0 && words[0] == ".endr" {
			if rept == nil {
				err = ErrReptLonelyEndr
				return
			}
			body := rept
			rept = nil
			outer := lineno
			for range body.Count {
				for n, text := range body.Lines {
					line = text
					lineno = body.LineNo + n
					err = p.parse(line, lineno)
					if err != nil {
						return
					}
				}
			}
			lineno = outer
			continue
		}

		if rept != nil {
			if len(words) > 0 && words[0] == ".equ" {
				err = ErrReptEquate
				return
			}
			rept.Lines = append(rept.Lines, line)
			continue
		}

		err = p.parse(line, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if rept != nil {
		err = ErrReptLonely
		return
	}

	if len(p.pending) > 0 {
		err = ErrLabelDangling
		return
	}

	// Final linking of jump addresses.
	for _, ln := range p.links {
		err = p.link(ln)
		if err != nil {
			line = ln.Line
			lineno = p.steps[ln.Step].LineNo
			return
		}
	}

	tr = &Trace{
		Entry:    p.entry,
		EntrySet: p.entrySet,
		Steps:    p.steps,
	}

	if !tr.EntrySet && len(tr.Steps) > 0 {
		tr.Entry = tr.Steps[0].Address
	}

	return
}
