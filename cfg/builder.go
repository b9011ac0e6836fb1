package cfg

import (
	"iter"
	"log"

	"github.com/ezrec/tracecfg/record"
)

// Builder partitions a trace into the basic blocks of a Graph.
type Builder struct {
	Verbose bool // If set, logs every block transition.

	graph   *Graph
	current BlockID
}

// NewBuilder creates a builder whose first block starts at entry.
func NewBuilder(entry int) (b *Builder) {
	b = &Builder{
		graph: NewGraph(),
	}

	blk := b.graph.NewBlock(entry)
	b.graph.AddNode(blk.ID())
	b.current = blk.ID()

	return
}

// Graph returns the graph under construction.
func (b *Builder) Graph() *Graph {
	return b.graph
}

// Current returns the open block being extended.
func (b *Builder) Current() *Block {
	return b.graph.Block(b.current)
}

// Consume processes every step of a trace, in order.
func (b *Builder) Consume(trace iter.Seq2[int, record.Record]) {
	for addr, rec := range trace {
		b.Process(addr, rec)
	}
}

// Process feeds one trace record at addr into the graph.
//
// An instruction extends the current block, unless addr is already in it.
// An unconditional jump is ignored if addr is already in the current block;
// otherwise it links the current block to the block at its success address.
// A conditional jump always links the current block to the block at its
// failure address, so revisiting it adds another edge.
//
// Panics if rec is neither a record.Instruction nor a record.Jump, or if
// addr is below the start of the current block.
func (b *Builder) Process(addr int, rec record.Record) {
	cur := b.Current()

	switch rec := rec.(type) {
	case record.Instruction:
		if cur.Has(addr) {
			return
		}
		cur.Add(addr, rec)
	case record.Jump:
		switch rec.Kind() {
		case record.JUMP_UNCONDITIONAL:
			if cur.Has(addr) {
				return
			}
			b.link(addr, rec, rec.Success())
		default:
			target := rec.Success()
			failure, ok := rec.Failure()
			if ok {
				target = failure
			}
			b.link(addr, rec, target)
		}
	default:
		panic(ErrRecordInvalid)
	}
}

// link closes the current block with jmp at addr and moves to the block at
// target, creating it if no node starts there.
func (b *Builder) link(addr int, jmp record.Jump, target int) {
	cur := b.Current()

	next, ok := b.graph.FindByAddress(target)
	if !ok {
		next = b.graph.NewBlock(target)
	}

	cur.Add(addr, jmp)
	b.graph.AddNode(next.ID())
	b.graph.AddEdge(cur.ID(), next.ID())

	if b.Verbose {
		verb := "new"
		if ok {
			verb = "found"
		}
		log.Printf("cfg: %#x: %v block %v -> %v block %v @ %#x", addr, jmp.Kind(), int(cur.ID()), verb, int(next.ID()), target)
	}

	b.current = next.ID()
}
