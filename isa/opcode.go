package isa

// Operation is a logical opcode, stored in the top four bits of a word.
type Operation int

//go:generate go tool stringer -linecomment -type=Operation
const (
	OP_ADD            = Operation(0)  // add
	OP_ADC            = Operation(1)  // adc
	OP_SUB            = Operation(2)  // sub
	OP_AND            = Operation(3)  // and
	OP_OR             = Operation(4)  // or
	OP_XOR            = Operation(5)  // xor
	OP_MOV            = Operation(6)  // mov
	OP_BLT            = Operation(7)  // blt
	OP_BGT            = Operation(8)  // bgt
	OP_BEQ            = Operation(9)  // beq
	OP_CMP            = Operation(10) // cmp
	OP_SHIFT          = Operation(11) // shift
	OP_LOAD           = Operation(12) // load
	OP_STORE          = Operation(13) // store
	OP_LOAD_IMMEDIATE = Operation(14) // load_immediate
	OP_SET_REG        = Operation(15) // set_reg
)

// Format identifies the bit layout of a word.
type Format int

//go:generate go tool stringer -type=Format -trimprefix=FORMAT_
const (
	FORMAT_R          = Format(0)
	FORMAT_B          = Format(1)
	FORMAT_CMP        = Format(2)
	FORMAT_SHIFT      = Format(3)
	FORMAT_MEM        = Format(4)
	FORMAT_IM         = Format(5)
	FORMAT_FUNCTIONAL = Format(6)
)

// formatTable maps each opcode to its layout. Indexed by Operation.
var formatTable = [...]Format{
	OP_ADD:            FORMAT_R,
	OP_ADC:            FORMAT_R,
	OP_SUB:            FORMAT_R,
	OP_AND:            FORMAT_R,
	OP_OR:             FORMAT_R,
	OP_XOR:            FORMAT_R,
	OP_MOV:            FORMAT_R,
	OP_BLT:            FORMAT_B,
	OP_BGT:            FORMAT_B,
	OP_BEQ:            FORMAT_B,
	OP_CMP:            FORMAT_CMP,
	OP_SHIFT:          FORMAT_SHIFT,
	OP_LOAD:           FORMAT_MEM,
	OP_STORE:          FORMAT_MEM,
	OP_LOAD_IMMEDIATE: FORMAT_IM,
	OP_SET_REG:        FORMAT_FUNCTIONAL,
}

// Valid returns true if op is one of the sixteen defined operations.
func (op Operation) Valid() bool {
	return op >= 0 && int(op) < len(formatTable)
}

// FormatOf returns the layout used by an operation. An undefined operation
// has no layout, and gets a Format that is not Valid.
func FormatOf(op Operation) Format {
	if !op.Valid() {
		return Format(-1)
	}

	return formatTable[op]
}

// Valid returns true if f is one of the seven defined formats.
func (f Format) Valid() bool {
	return f >= FORMAT_R && f <= FORMAT_FUNCTIONAL
}

// RegisterLimit returns how many registers the register fields of the format
// can address. The register file is larger; the upper registers are not
// reachable from inside a word.
func (f Format) RegisterLimit() int {
	switch f {
	case FORMAT_R, FORMAT_CMP, FORMAT_SHIFT, FORMAT_MEM, FORMAT_FUNCTIONAL:
		return 1 << REG_WIDTH
	}

	return 0
}

// Operations returns the operations encoded with format f, in opcode order.
func (f Format) Operations() (ops []Operation) {
	for op, format := range formatTable {
		if format == f {
			ops = append(ops, Operation(op))
		}
	}

	return
}

// OpcodeOf returns the operation held in bits 5 to 8 of the word.
func OpcodeOf(word Word) (op Operation, err error) {
	code := uint8((word >> OPCODE_SHIFT) & OPCODE_MASK)
	op = Operation(code)
	if !op.Valid() {
		err = ErrOpcode(code)
		return
	}

	return
}
