package isa

import (
	"fmt"
)

// rawString renders an instruction with no mnemonic form as a raw word.
// Fields that do not fit a word are shown as they are.
func rawString(inst Instruction) string {
	word, err := inst.pack()
	if err != nil {
		return fmt.Sprintf("%#v", inst)
	}

	return fmt.Sprintf(".word 0b%v", word.String())
}

// regsString renders the rd/rs/srcSel shape shared by R, CMP and MEM.
func regsString(inst Instruction, rd, rs Reg, srcSel uint8) string {
	if srcSel == SRC_IM {
		if rs != 0 {
			return rawString(inst)
		}
		return fmt.Sprintf("%v %v, im", inst.Operation(), rd)
	}

	return fmt.Sprintf("%v %v, %v", inst.Operation(), rd, rs)
}

func (i R) String() string {
	return regsString(i, i.Rd, i.Rs, i.SrcSel)
}

func (i Compare) String() string {
	return regsString(i, i.Rd, i.Rs, i.SrcSel)
}

func (i Mem) String() string {
	return regsString(i, i.Rd, i.Rs, i.SrcSel)
}

func (i Branch) String() string {
	mode := "relative"
	if i.AbsRel == BRANCH_ABSOLUTE {
		mode = "absolute"
	}

	return fmt.Sprintf("%v_%v %d", i.Op, mode, i.Addr)
}

func (i Shift) String() string {
	if i.Unused != 0 {
		return rawString(i)
	}

	dir := "left"
	if i.Dir == SHIFT_RIGHT {
		dir = "right"
	}
	kind := "logical"
	if i.Arith == SHIFT_ARITHMETIC {
		kind = "arithmetic"
	}

	return fmt.Sprintf("%v_%v_%v %v", i.Op, dir, kind, i.Rd)
}

func (i Immediate) String() string {
	return fmt.Sprintf("%v %d", i.Op, i.Imm)
}

func (i Functional) String() string {
	switch {
	case i == HALT:
		return "halt"
	case i == NOOP:
		return "noop"
	case i.Unused != 0:
		return rawString(i)
	}

	return fmt.Sprintf("%v %v, %v", i.Op, i.Rd, i.Rs)
}
