package cfg

import (
	"fmt"
	"io"
	"strings"
)

// dotEscape escapes text for a double-quoted DOT string.
func dotEscape(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	return strings.ReplaceAll(text, `"`, `\"`)
}

// DotLabel returns the Graphviz label of the block: a header line, then the
// block listing, each line left justified.
func (blk *Block) DotLabel() string {
	var label strings.Builder
	label.WriteString(fmt.Sprintf("block %d @ %#x\\l", int(blk.id), blk.start))
	for addr, rec := range blk.Entries() {
		label.WriteString(dotEscape(strings.TrimRight(listingLine(addr, rec), " ")))
		label.WriteString("\\l")
	}
	return label.String()
}

// WriteDot writes g in Graphviz DOT form: one node per block and one edge
// per stored successor, both in creation order.
func WriteDot(w io.Writer, g *Graph, name string) (err error) {
	if len(name) == 0 {
		name = "cfg"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("digraph \"%s\" {\n", dotEscape(name)))
	sb.WriteString("  node [shape=box, fontname=\"Courier\"];\n")

	for blk := range g.Blocks() {
		sb.WriteString(fmt.Sprintf("  b%d [label=\"%s\"];\n", int(blk.id), blk.DotLabel()))
	}

	for from, to := range g.Edges() {
		sb.WriteString(fmt.Sprintf("  b%d -> b%d;\n", int(from.id), int(to.id)))
	}

	sb.WriteString("}\n")

	_, err = io.WriteString(w, sb.String())
	return
}
