package trace

import (
	"errors"
	"io"
	"iter"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ezrec/tracecfg/record"
)

// StreamMagic identifies a binary trace header.
const StreamMagic = "tracecfg/1"

// stepInstruction is the wire kind of an instruction step. Jumps use the
// name of their record.JumpKind.
const stepInstruction = "op"

// Header opens a binary trace.
type Header struct {
	Magic    string `msgpack:"magic"`
	Entry    int    `msgpack:"entry"`
	EntrySet bool   `msgpack:"entry_set"`
}

// wireStep is the msgpack form of a step.
type wireStep struct {
	Address int    `msgpack:"addr"`
	Kind    string `msgpack:"kind"`
	Name    string `msgpack:"name"`
	Operand string `msgpack:"operand,omitempty"`
	Success int    `msgpack:"success,omitempty"`
	Failure *int   `msgpack:"failure,omitempty"`
}

// Encoder writes a binary trace.
type Encoder struct {
	enc *msgpack.Encoder
}

// NewEncoder writes the trace header to w, and returns an encoder for the
// steps that follow it.
func NewEncoder(w io.Writer, entry int, entrySet bool) (e *Encoder, err error) {
	enc := msgpack.NewEncoder(w)
	err = enc.Encode(&Header{
		Magic:    StreamMagic,
		Entry:    entry,
		EntrySet: entrySet,
	})
	if err != nil {
		return
	}

	e = &Encoder{enc: enc}
	return
}

// Encode writes a single step.
func (e *Encoder) Encode(addr int, rec record.Record) (err error) {
	ws := wireStep{
		Address: addr,
	}

	switch rec := rec.(type) {
	case record.Instruction:
		ws.Kind = stepInstruction
		ws.Name = rec.Name
		ws.Operand = rec.Operand
	case record.Jump:
		ws.Kind = rec.Kind().String()
		ws.Name = rec.Name()
		ws.Success = rec.Success()
		failure, ok := rec.Failure()
		if ok {
			ws.Failure = &failure
		}
	default:
		err = ErrStreamKind
		return
	}

	return e.enc.Encode(&ws)
}

// WriteTrace writes a whole trace in binary form.
func WriteTrace(w io.Writer, tr *Trace) (err error) {
	enc, err := NewEncoder(w, tr.Entry, tr.EntrySet)
	if err != nil {
		return
	}

	for n, step := range tr.Steps {
		err = enc.Encode(step.Address, step.Record)
		if err != nil {
			err = &ErrStream{Step: n, Err: err}
			return
		}
	}

	return
}

// Decoder reads a binary trace.
type Decoder struct {
	Header Header // Header of the trace.

	dec  *msgpack.Decoder
	step int
	err  error
}

// NewDecoder reads the trace header from r.
func NewDecoder(r io.Reader) (d *Decoder, err error) {
	dec := msgpack.NewDecoder(r)

	var hdr Header
	err = dec.Decode(&hdr)
	if err == nil && hdr.Magic != StreamMagic {
		err = ErrStreamHeader
	}
	if err != nil {
		if !errors.Is(err, ErrStreamHeader) {
			err = errors.Join(ErrStreamHeader, err)
		}
		return
	}

	d = &Decoder{
		Header: hdr,
		dec:    dec,
	}
	return
}

// Next returns the next step. At the end of the trace, err is io.EOF.
func (d *Decoder) Next() (addr int, rec record.Record, err error) {
	var ws wireStep
	err = d.dec.Decode(&ws)
	if errors.Is(err, io.EOF) {
		err = io.EOF
		return
	}

	defer func() {
		if err != nil {
			err = &ErrStream{Step: d.step, Err: err}
		}
		d.step++
	}()

	if err != nil {
		return
	}

	addr = ws.Address

	if ws.Kind == stepInstruction {
		rec = record.Instruction{Name: ws.Name, Operand: ws.Operand}
		return
	}

	kind, ok := record.ParseJumpKind(ws.Kind)
	if !ok {
		err = ErrStreamKind
		return
	}

	var failure []int
	if ws.Failure != nil {
		failure = append(failure, *ws.Failure)
	}

	rec, err = record.NewJump(ws.Name, ws.Success, kind, failure...)
	if err != nil {
		rec = nil
	}

	return
}

// All iterates over the remaining steps. Iteration stops at the end of the
// trace or at the first error, which Err then returns.
func (d *Decoder) All() iter.Seq2[int, record.Record] {
	return func(yield func(addr int, rec record.Record) bool) {
		for {
			addr, rec, err := d.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				d.err = err
				return
			}
			if !yield(addr, rec) {
				return
			}
		}
	}
}

// Err returns the error that stopped All, if any.
func (d *Decoder) Err() error {
	return d.err
}

// ReadTrace reads a whole binary trace.
func ReadTrace(r io.Reader) (tr *Trace, err error) {
	d, err := NewDecoder(r)
	if err != nil {
		return
	}

	tr = &Trace{
		Entry:    d.Header.Entry,
		EntrySet: d.Header.EntrySet,
	}

	for addr, rec := range d.All() {
		tr.Steps = append(tr.Steps, Step{
			LineNo:  d.step - 1,
			Address: addr,
			Record:  rec,
		})
	}

	err = d.Err()
	if err != nil {
		tr = nil
	}

	return
}
