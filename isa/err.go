package isa

import (
	"errors"

	"github.com/panda-isa/panda/translate"
)

var f = translate.From

var (
	// Codec errors
	ErrFieldOverflow  = errors.New(f("field overflow"))
	ErrFormatMismatch = errors.New(f("format mismatch"))
	ErrUnknownOpcode  = errors.New(f("unknown opcode"))
	ErrWordSyntax     = errors.New(f("word syntax"))
)

// ErrField reports a field value wider than its slot in the word.
type ErrField struct {
	Format Format
	Field  string
	Value  uint
	Width  uint
}

func (err *ErrField) Error() string {
	return f("%v: %v field %v value %v does not fit in %v bits",
		ErrFieldOverflow.Error(), err.Format.String(), err.Field, err.Value, err.Width)
}

func (err *ErrField) Unwrap() error {
	return ErrFieldOverflow
}

// ErrFormat reports an instruction or word used under the wrong format.
type ErrFormat struct {
	Want Format    // Format asked for by the caller.
	Got  Format    // Format implied by the variant or opcode.
	Op   Operation // Opcode involved.
}

func (err *ErrFormat) Error() string {
	return f("%v: %v is %v, not %v",
		ErrFormatMismatch.Error(), err.Op.String(), err.Got.String(), err.Want.String())
}

func (err *ErrFormat) Unwrap() error {
	return ErrFormatMismatch
}

// ErrOpcode is a 4-bit opcode value with no defined Operation.
type ErrOpcode uint8

func (eo ErrOpcode) Error() string {
	return f("%v 0b%04b", ErrUnknownOpcode.Error(), uint8(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	if err == ErrUnknownOpcode {
		return true
	}
	_, ok = err.(ErrOpcode)
	return
}
