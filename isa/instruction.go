package isa

import (
	"fmt"
)

// Reg is a register index. Only r0 to r3 fit in a register field.
type Reg uint8

// String returns the assembly name of the register.
func (r Reg) String() string {
	return fmt.Sprintf("r%d", uint8(r))
}

// Source selector values.
const (
	SRC_RS = 0 // Use register rs.
	SRC_IM = 1 // Use the immediate register; rs is ignored.
)

// Branch addressing values.
const (
	BRANCH_RELATIVE = 0
	BRANCH_ABSOLUTE = 1
)

// Shift direction and kind values.
const (
	SHIFT_LEFT       = 0
	SHIFT_RIGHT      = 1
	SHIFT_LOGICAL    = 0
	SHIFT_ARITHMETIC = 1
)

// Instruction is one of R, Branch, Compare, Shift, Mem, Immediate or
// Functional.
type Instruction interface {
	Format() Format
	Operation() Operation
	String() string

	pack() (Word, error)
}

// R is the register format: ADD, ADC, SUB, AND, OR, XOR, MOV.
type R struct {
	Op     Operation
	Rd     Reg
	Rs     Reg
	SrcSel uint8
}

// Branch is the B format: BLT, BGT, BEQ.
type Branch struct {
	Op     Operation
	AbsRel uint8
	Addr   uint8 // Relative offset, or absolute target.
}

// Compare is the CMP format.
type Compare struct {
	Op     Operation
	Rd     Reg
	Rs     Reg
	SrcSel uint8
}

// Shift is the SHIFT format.
type Shift struct {
	Op     Operation
	Dir    uint8
	Arith  uint8
	Unused uint8
	Rd     Reg
}

// Mem is the MEM format: LOAD, STORE.
type Mem struct {
	Op     Operation
	Rd     Reg
	Rs     Reg
	SrcSel uint8
}

// Immediate is the IM format: LOAD_IMMEDIATE. Imm indexes the immediate
// lookup table.
type Immediate struct {
	Op  Operation
	Imm uint8
}

// Functional is the FUNCTIONAL format: SET_REG. The Unused bit is clear for
// SET_REG proper; the halt and noop patterns set it.
type Functional struct {
	Op     Operation
	Unused uint8
	Rd     Reg
	Rs     Reg
}

var (
	HALT = Functional{Op: OP_SET_REG, Unused: 1, Rd: 3, Rs: 3} // 111111111
	NOOP = Functional{Op: OP_SET_REG, Unused: 1, Rd: 0, Rs: 0} // 111110000
)

var (
	_ Instruction = R{}
	_ Instruction = Branch{}
	_ Instruction = Compare{}
	_ Instruction = Shift{}
	_ Instruction = Mem{}
	_ Instruction = Immediate{}
	_ Instruction = Functional{}
)

func (R) Format() Format          { return FORMAT_R }
func (Branch) Format() Format     { return FORMAT_B }
func (Compare) Format() Format    { return FORMAT_CMP }
func (Shift) Format() Format      { return FORMAT_SHIFT }
func (Mem) Format() Format        { return FORMAT_MEM }
func (Immediate) Format() Format  { return FORMAT_IM }
func (Functional) Format() Format { return FORMAT_FUNCTIONAL }

func (i R) Operation() Operation          { return i.Op }
func (i Branch) Operation() Operation     { return i.Op }
func (i Compare) Operation() Operation    { return i.Op }
func (i Shift) Operation() Operation      { return i.Op }
func (i Mem) Operation() Operation        { return i.Op }
func (i Immediate) Operation() Operation  { return i.Op }
func (i Functional) Operation() Operation { return i.Op }

// packRegs packs the shared rs/rd/srcSel shape of R, CMP and MEM.
func packRegs(format Format, op Operation, rd, rs Reg, srcSel uint8) (Word, error) {
	p := packer{format: format}
	p.put("rs", uint8(rs), RS_SHIFT, REG_WIDTH)
	p.put("rd", uint8(rd), RD_SHIFT, REG_WIDTH)
	p.put("srcSel", srcSel, SRC_SEL_SHIFT, FLAG_WIDTH)
	p.opcode(op)
	return p.result()
}

func (i R) pack() (Word, error) {
	return packRegs(FORMAT_R, i.Op, i.Rd, i.Rs, i.SrcSel)
}

func (i Compare) pack() (Word, error) {
	return packRegs(FORMAT_CMP, i.Op, i.Rd, i.Rs, i.SrcSel)
}

func (i Mem) pack() (Word, error) {
	return packRegs(FORMAT_MEM, i.Op, i.Rd, i.Rs, i.SrcSel)
}

func (i Branch) pack() (Word, error) {
	p := packer{format: FORMAT_B}
	p.put("addr", i.Addr, ADDR_SHIFT, ADDR_WIDTH)
	p.put("absRel", i.AbsRel, ABS_REL_SHIFT, FLAG_WIDTH)
	p.opcode(i.Op)
	return p.result()
}

func (i Shift) pack() (Word, error) {
	p := packer{format: FORMAT_SHIFT}
	p.put("rd", uint8(i.Rd), SHIFT_RD_SHIFT, REG_WIDTH)
	p.put("unused", i.Unused, SHIFT_UNUSED_SHIFT, FLAG_WIDTH)
	p.put("arith", i.Arith, ARITH_SHIFT, FLAG_WIDTH)
	p.put("dir", i.Dir, DIR_SHIFT, FLAG_WIDTH)
	p.opcode(i.Op)
	return p.result()
}

func (i Immediate) pack() (Word, error) {
	p := packer{format: FORMAT_IM}
	p.put("imm", i.Imm, IMM_SHIFT, IMM_WIDTH)
	p.opcode(i.Op)
	return p.result()
}

func (i Functional) pack() (Word, error) {
	p := packer{format: FORMAT_FUNCTIONAL}
	p.put("rs", uint8(i.Rs), RS_SHIFT, REG_WIDTH)
	p.put("rd", uint8(i.Rd), RD_SHIFT, REG_WIDTH)
	p.put("unused", i.Unused, UNUSED_SHIFT, FLAG_WIDTH)
	p.opcode(i.Op)
	return p.result()
}

// Encode packs an instruction into a word. The instruction must be the
// variant for format, and its opcode must use format. Fields wider than
// their slot are rejected, never truncated.
func Encode(format Format, inst Instruction) (word Word, err error) {
	if inst == nil {
		err = &ErrFormat{Want: format, Got: -1, Op: -1}
		return
	}

	if inst.Format() != format {
		err = &ErrFormat{Want: format, Got: inst.Format(), Op: inst.Operation()}
		return
	}

	return inst.pack()
}

// Decode unpacks a word under format. Bits 9 to 15 are ignored. The word's
// opcode must use format.
func Decode(format Format, word Word) (inst Instruction, err error) {
	op, err := OpcodeOf(word)
	if err != nil {
		return
	}

	if FormatOf(op) != format {
		err = &ErrFormat{Want: format, Got: FormatOf(op), Op: op}
		return
	}

	switch format {
	case FORMAT_R:
		inst = R{
			Op:     op,
			Rs:     Reg(word.bits(RS_SHIFT, REG_WIDTH)),
			Rd:     Reg(word.bits(RD_SHIFT, REG_WIDTH)),
			SrcSel: word.bits(SRC_SEL_SHIFT, FLAG_WIDTH),
		}
	case FORMAT_B:
		inst = Branch{
			Op:     op,
			Addr:   word.bits(ADDR_SHIFT, ADDR_WIDTH),
			AbsRel: word.bits(ABS_REL_SHIFT, FLAG_WIDTH),
		}
	case FORMAT_CMP:
		inst = Compare{
			Op:     op,
			Rs:     Reg(word.bits(RS_SHIFT, REG_WIDTH)),
			Rd:     Reg(word.bits(RD_SHIFT, REG_WIDTH)),
			SrcSel: word.bits(SRC_SEL_SHIFT, FLAG_WIDTH),
		}
	case FORMAT_SHIFT:
		inst = Shift{
			Op:     op,
			Rd:     Reg(word.bits(SHIFT_RD_SHIFT, REG_WIDTH)),
			Unused: word.bits(SHIFT_UNUSED_SHIFT, FLAG_WIDTH),
			Arith:  word.bits(ARITH_SHIFT, FLAG_WIDTH),
			Dir:    word.bits(DIR_SHIFT, FLAG_WIDTH),
		}
	case FORMAT_MEM:
		inst = Mem{
			Op:     op,
			Rs:     Reg(word.bits(RS_SHIFT, REG_WIDTH)),
			Rd:     Reg(word.bits(RD_SHIFT, REG_WIDTH)),
			SrcSel: word.bits(SRC_SEL_SHIFT, FLAG_WIDTH),
		}
	case FORMAT_IM:
		inst = Immediate{
			Op:  op,
			Imm: word.bits(IMM_SHIFT, IMM_WIDTH),
		}
	case FORMAT_FUNCTIONAL:
		inst = Functional{
			Op:     op,
			Rs:     Reg(word.bits(RS_SHIFT, REG_WIDTH)),
			Rd:     Reg(word.bits(RD_SHIFT, REG_WIDTH)),
			Unused: word.bits(UNUSED_SHIFT, FLAG_WIDTH),
		}
	}

	return
}

// DecodeWord decodes a bare word, taking the format from its opcode.
func DecodeWord(word Word) (inst Instruction, err error) {
	op, err := OpcodeOf(word)
	if err != nil {
		return
	}

	return Decode(FormatOf(op), word)
}
