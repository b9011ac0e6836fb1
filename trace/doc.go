// Package trace reads execution traces into (address, record) steps for the
// CFG builder.
//
// A text trace has one step per line:
//
//	[label:]... ADDR NAME [OPERAND...]          ; instruction
//	[label:]... ADDR NAME KIND SUCCESS [FAILURE] ; jump
//
// where KIND is one of jmp, jcc+ or jcc-. A ';' starts a comment.
//
// Directives:
//
//	.entry ADDR        entry point of the graph
//	.equ NAME VALUE    define an equate
//	.rept COUNT        repeat the following steps COUNT times...
//	.endr              ...up to here
//
// Values are numbers in any Go base syntax, equates, or $(expr) compile-time
// expressions evaluated with Starlark over the integer equates and the labels
// defined so far. An equate is defined once, so .equ may not appear inside a
// .rept body. Jump targets may also name labels defined later in the
// file; they are linked once the whole trace is read.
//
// A binary trace is a msgpack stream written by Encoder and read by Decoder.
package trace
