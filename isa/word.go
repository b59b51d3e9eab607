package isa

import (
	"fmt"
	"strconv"
	"strings"
)

// Word is the 16-bit container of a 9-bit instruction.
type Word uint16

// Field positions, counted from bit 0.
const (
	WORD_BITS = 9
	WORD_MASK = Word(1<<WORD_BITS - 1) // Defined bits of a word.

	OPCODE_SHIFT = 5
	OPCODE_WIDTH = 4
	OPCODE_MASK  = 1<<OPCODE_WIDTH - 1

	REG_WIDTH  = 2
	FLAG_WIDTH = 1
	ADDR_WIDTH = 4
	IMM_WIDTH  = 5

	RS_SHIFT      = 0 // R, CMP, MEM, FUNCTIONAL
	RD_SHIFT      = 2 // R, CMP, MEM, FUNCTIONAL
	SRC_SEL_SHIFT = 4 // R, CMP, MEM
	UNUSED_SHIFT  = 4 // FUNCTIONAL

	ADDR_SHIFT    = 0 // B
	ABS_REL_SHIFT = 4 // B

	SHIFT_RD_SHIFT     = 0 // SHIFT
	SHIFT_UNUSED_SHIFT = 2 // SHIFT
	ARITH_SHIFT        = 3 // SHIFT
	DIR_SHIFT          = 4 // SHIFT

	IMM_SHIFT = 0 // IM
)

// String returns the 9-bit window in binary, most significant bit first.
func (w Word) String() string {
	return fmt.Sprintf("%09b", uint16(w&WORD_MASK))
}

// bits extracts width bits starting at shift.
func (w Word) bits(shift, width uint) uint8 {
	return uint8((w >> shift) & (1<<width - 1))
}

// ParseWord parses a listing word. A nine digit string of 0 and 1 is read as
// binary; anything else is read as a Go integer literal.
func ParseWord(text string) (word Word, err error) {
	text = strings.TrimSpace(text)

	base := 0
	if len(text) == WORD_BITS && strings.Trim(text, "01") == "" {
		base = 2
	}

	value, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		err = fmt.Errorf("%w: %q", ErrWordSyntax, text)
		return
	}

	if value > uint64(WORD_MASK) {
		err = fmt.Errorf("%w: %q wider than %d bits", ErrFieldOverflow, text, WORD_BITS)
		return
	}

	word = Word(value)
	return
}

// packer accumulates fields into a word, keeping the first overflow.
type packer struct {
	format Format
	word   Word
	err    error
}

func (p *packer) put(field string, value uint8, shift, width uint) {
	if p.err != nil {
		return
	}

	if uint(value) >= 1<<width {
		p.err = &ErrField{Format: p.format, Field: field, Value: uint(value), Width: width}
		return
	}

	p.word |= Word(value) << shift
}

func (p *packer) opcode(op Operation) {
	if p.err != nil {
		return
	}

	if !op.Valid() {
		p.err = &ErrField{Format: p.format, Field: "opcode", Value: uint(op), Width: OPCODE_WIDTH}
		return
	}

	if FormatOf(op) != p.format {
		p.err = &ErrFormat{Want: p.format, Got: FormatOf(op), Op: op}
		return
	}

	p.word |= Word(op) << OPCODE_SHIFT
}

// result returns the packed word, or zero and the first error.
func (p *packer) result() (Word, error) {
	if p.err != nil {
		return 0, p.err
	}

	return p.word, nil
}
