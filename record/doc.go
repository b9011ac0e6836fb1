// Package record holds the decoded trace records consumed by the CFG
// builder: plain instructions and jumps.
//
// Records are immutable values. Two records are equal when their fields are
// equal, so they may be compared with == and used as map keys.
package record
