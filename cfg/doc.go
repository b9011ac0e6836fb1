// Package cfg builds a control-flow graph from a linear trace of decoded
// instructions and jumps.
//
// A Builder consumes (address, record) pairs one at a time. Instructions
// extend the current basic block; jumps close it, resolve or create the
// target block, link the two with an edge, and make the target current.
// Blocks revisited by a later jump (loop targets) are found again by their
// start address, so a back-edge points at the existing block.
//
// Blocks live in an arena owned by the Graph and are referred to by their
// creation-order BlockID. Edges are stored as BlockIDs, so cycles need no
// mutual references. Several blocks may share a start address; the BlockID
// alone is a block's identity.
//
// The Graph and Builder have a single writer. Independent Builders may run
// over disjoint traces, as each Graph owns its own id counter.
package cfg
