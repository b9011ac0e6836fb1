package cfg

import (
	"iter"
	"slices"

	"github.com/ezrec/tracecfg/internal"
)

// Graph is an arena of blocks plus the adjacency between them.
//
// Blocks are created with NewBlock and become nodes once registered with
// AddNode. Each node has an ordered successor list that may hold the same
// successor more than once.
type Graph struct {
	blocks []*Block    // Arena, indexed by BlockID.
	node   []bool      // Registered as a node.
	edges  [][]BlockID // Successors, indexed by BlockID.
	nodes  int         // Count of registered nodes.
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// NewBlock allocates a block starting at start, with the next BlockID.
// The block is not a node of the graph until passed to AddNode.
func (g *Graph) NewBlock(start int) *Block {
	blk := newBlock(BlockID(len(g.blocks)), start)
	g.blocks = append(g.blocks, blk)
	g.node = append(g.node, false)
	g.edges = append(g.edges, nil)
	return blk
}

// Block returns the block with the given id, or nil if the graph never
// allocated it.
func (g *Graph) Block(id BlockID) *Block {
	if id < 0 || int(id) >= len(g.blocks) {
		return nil
	}
	return g.blocks[id]
}

// Has returns true if id is a registered node.
func (g *Graph) Has(id BlockID) bool {
	return id >= 0 && int(id) < len(g.node) && g.node[id]
}

func (g *Graph) isNode(blk *Block) bool {
	return g.node[blk.id]
}

// mustHave panics unless id is a registered node.
func (g *Graph) mustHave(id BlockID) {
	if !g.Has(id) {
		panic(ErrNodeMissing(id))
	}
}

// AddNode registers a block as a node with an initial successor list.
// A block that is already a node keeps its successor list.
//
// Panics if id was not allocated by this graph, or if any edge refers to a
// block that is not a node.
func (g *Graph) AddNode(id BlockID, edges ...BlockID) {
	if g.Block(id) == nil {
		panic(ErrNodeMissing(id))
	}

	if g.node[id] {
		return
	}

	for _, to := range edges {
		if to != id {
			g.mustHave(to)
		}
	}

	g.node[id] = true
	g.nodes++
	g.edges[id] = slices.Clone(edges)
}

// AddEdge appends to to the successor list of from. Adding the same edge
// twice stores it twice.
//
// Panics if either block is not a node.
func (g *Graph) AddEdge(from, to BlockID) {
	g.mustHave(from)
	g.mustHave(to)

	g.edges[from] = append(g.edges[from], to)
}

// FindByAddress returns the most recently created node starting at addr.
func (g *Graph) FindByAddress(addr int) (blk *Block, ok bool) {
	for node := range g.Nodes() {
		if node.start == addr {
			return node, true
		}
	}

	return
}

// Nodes iterates over the nodes, most recently created first.
func (g *Graph) Nodes() iter.Seq[*Block] {
	return internal.IterSeqBackward(g.blocks, g.isNode)
}

// Blocks iterates over the nodes in creation order.
func (g *Graph) Blocks() iter.Seq[*Block] {
	return func(yield func(blk *Block) bool) {
		for _, blk := range g.blocks {
			if !g.node[blk.id] {
				continue
			}
			if !yield(blk) {
				return
			}
		}
	}
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return g.nodes
}

// Successors iterates over the successors of id, in the order the edges
// were added.
func (g *Graph) Successors(id BlockID) iter.Seq[*Block] {
	return func(yield func(blk *Block) bool) {
		if !g.Has(id) {
			return
		}
		for _, to := range g.edges[id] {
			if !yield(g.blocks[to]) {
				return
			}
		}
	}
}

// Edges iterates over every stored edge, grouped by source node in
// creation order.
func (g *Graph) Edges() iter.Seq2[*Block, *Block] {
	return func(yield func(from, to *Block) bool) {
		for from := range g.Blocks() {
			for to := range g.Successors(from.id) {
				if !yield(from, to) {
					return
				}
			}
		}
	}
}

// EdgeCount returns the number of stored edges, duplicates included.
func (g *Graph) EdgeCount() (count int) {
	for id, edges := range g.edges {
		if g.node[id] {
			count += len(edges)
		}
	}
	return
}
