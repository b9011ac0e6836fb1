package cfg

import (
	"errors"

	"github.com/ezrec/tracecfg/translate"
)

var f = translate.From

var (
	// Precondition violations. These are raised with panic().
	ErrRecordInvalid = errors.New(f("record is neither instruction nor jump"))

	// Listing parse errors
	ErrListingShort   = errors.New(f("listing line needs an address and a name"))
	ErrListingAddress = errors.New(f("listing address invalid"))
	ErrListingQuote   = errors.New(f("listing quoted field invalid"))
)

// ErrAddressBelowStart is raised when an entry is added below the start of
// its block.
type ErrAddressBelowStart struct {
	Block   BlockID
	Start   int
	Address int
}

func (err *ErrAddressBelowStart) Error() string {
	return f("block %v: address %#x below start %#x", int(err.Block), err.Address, err.Start)
}

// ErrNodeMissing is raised when an edge refers to a block that is not a
// registered node of the graph.
type ErrNodeMissing BlockID

func (err ErrNodeMissing) Error() string {
	return f("block %v is not a node", int(err))
}

// ErrListingSyntax indicates the location of a listing parse error.
type ErrListingSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrListingSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrListingSyntax) Unwrap() error {
	return err.Err
}
