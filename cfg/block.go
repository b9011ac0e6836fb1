package cfg

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"unicode"

	"github.com/ezrec/tracecfg/record"
)

// BlockID is the creation-order identity of a block within its Graph.
type BlockID int

// Block is a basic block: a straight-line run of trace records keyed by
// address, in insertion order.
type Block struct {
	id      BlockID
	start   int
	addrs   []int                 // Insertion order.
	entries map[int]record.Record // Address to record.
}

func newBlock(id BlockID, start int) *Block {
	return &Block{
		id:      id,
		start:   start,
		entries: make(map[int]record.Record),
	}
}

// ID returns the block identity.
func (blk *Block) ID() BlockID {
	return blk.id
}

// Start returns the block start address.
func (blk *Block) Start() int {
	return blk.start
}

// Add inserts rec at addr, or overwrites the record already at addr.
//
// Panics if addr is below Start(), or if rec is nil.
func (blk *Block) Add(addr int, rec record.Record) {
	if rec == nil {
		panic(ErrRecordInvalid)
	}
	if addr < blk.start {
		panic(&ErrAddressBelowStart{Block: blk.id, Start: blk.start, Address: addr})
	}

	_, ok := blk.entries[addr]
	if !ok {
		blk.addrs = append(blk.addrs, addr)
	}
	blk.entries[addr] = rec
}

// Has returns true if the block holds an entry at addr.
func (blk *Block) Has(addr int) (ok bool) {
	_, ok = blk.entries[addr]
	return
}

// Entry returns the record at addr.
func (blk *Block) Entry(addr int) (rec record.Record, ok bool) {
	rec, ok = blk.entries[addr]
	return
}

// Len returns the number of entries.
func (blk *Block) Len() int {
	return len(blk.addrs)
}

// End returns the last inserted address. ok is false for an empty block.
func (blk *Block) End() (addr int, ok bool) {
	if len(blk.addrs) == 0 {
		return
	}

	return blk.addrs[len(blk.addrs)-1], true
}

// Addresses iterates over the entry addresses in insertion order.
func (blk *Block) Addresses() iter.Seq[int] {
	return func(yield func(addr int) bool) {
		for _, addr := range blk.addrs {
			if !yield(addr) {
				return
			}
		}
	}
}

// Entries iterates over the entries in insertion order.
func (blk *Block) Entries() iter.Seq2[int, record.Record] {
	return func(yield func(addr int, rec record.Record) bool) {
		for _, addr := range blk.addrs {
			if !yield(addr, blk.entries[addr]) {
				return
			}
		}
	}
}

// listingLine formats a single entry of a listing, without a newline.
func listingLine(addr int, rec record.Record) string {
	return fmt.Sprintf("%-16s %-12s %-12s", fmt.Sprintf("%#x", addr), listingName(rec.Mnemonic()), listingOperand(rec.ListingOperand()))
}

// listingName quotes a name that would not read back as one listing word.
func listingName(name string) string {
	if len(name) == 0 || strings.HasPrefix(name, `"`) ||
		strings.IndexFunc(name, func(r rune) bool { return unicode.IsSpace(r) || !unicode.IsPrint(r) }) >= 0 {
		return strconv.Quote(name)
	}
	return name
}

// listingOperand quotes an operand that would not read back as its
// single-space separated words.
func listingOperand(operand string) string {
	if len(operand) == 0 {
		return operand
	}
	if strings.HasPrefix(operand, `"`) || strings.Join(strings.Fields(operand), " ") != operand ||
		strings.IndexFunc(operand, func(r rune) bool { return !unicode.IsPrint(r) }) >= 0 {
		return strconv.Quote(operand)
	}
	return operand
}

// String returns a human readable listing of the block, one line per entry
// with the address, name and operand. Empty names, and names or operands
// that would not survive ParseListing as written, are Go-quoted.
func (blk *Block) String() string {
	var text strings.Builder
	for addr, rec := range blk.Entries() {
		text.WriteString(listingLine(addr, rec))
		text.WriteString("\n")
	}
	return text.String()
}
