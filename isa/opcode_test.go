package isa

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOf(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op     Operation
		format Format
	}){
		{OP_ADD, FORMAT_R},
		{OP_ADC, FORMAT_R},
		{OP_SUB, FORMAT_R},
		{OP_AND, FORMAT_R},
		{OP_OR, FORMAT_R},
		{OP_XOR, FORMAT_R},
		{OP_MOV, FORMAT_R},
		{OP_BLT, FORMAT_B},
		{OP_BGT, FORMAT_B},
		{OP_BEQ, FORMAT_B},
		{OP_CMP, FORMAT_CMP},
		{OP_SHIFT, FORMAT_SHIFT},
		{OP_LOAD, FORMAT_MEM},
		{OP_STORE, FORMAT_MEM},
		{OP_LOAD_IMMEDIATE, FORMAT_IM},
		{OP_SET_REG, FORMAT_FUNCTIONAL},
	}

	assert.Equal(len(formatTable), len(table))

	for _, entry := range table {
		assert.Equal(entry.format, FormatOf(entry.op), entry.op.String())
	}
}

func TestFormatOf_Total(t *testing.T) {
	assert := assert.New(t)

	for code := range 1 << OPCODE_WIDTH {
		op := Operation(code)
		assert.True(op.Valid(), op.String())
		assert.True(FormatOf(op).Valid(), op.String())
	}

	assert.False(Operation(16).Valid())
	assert.False(Operation(-1).Valid())

	for _, op := range []Operation{16, -1, 1 << 20} {
		assert.False(FormatOf(op).Valid(), "%d", op)

		_, err := Encode(FORMAT_R, R{Op: op, Rd: 1})
		assert.True(errors.Is(err, ErrFieldOverflow), "%d", op)
	}
}

func TestFormat_Operations(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]Operation{OP_ADD, OP_ADC, OP_SUB, OP_AND, OP_OR, OP_XOR, OP_MOV}, FORMAT_R.Operations())
	assert.Equal([]Operation{OP_BLT, OP_BGT, OP_BEQ}, FORMAT_B.Operations())
	assert.Equal([]Operation{OP_CMP}, FORMAT_CMP.Operations())
	assert.Equal([]Operation{OP_SHIFT}, FORMAT_SHIFT.Operations())
	assert.Equal([]Operation{OP_LOAD, OP_STORE}, FORMAT_MEM.Operations())
	assert.Equal([]Operation{OP_LOAD_IMMEDIATE}, FORMAT_IM.Operations())
	assert.Equal([]Operation{OP_SET_REG}, FORMAT_FUNCTIONAL.Operations())
	assert.Nil(Format(7).Operations())
}

func TestFormat_RegisterLimit(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(4, FORMAT_R.RegisterLimit())
	assert.Equal(4, FORMAT_CMP.RegisterLimit())
	assert.Equal(4, FORMAT_SHIFT.RegisterLimit())
	assert.Equal(4, FORMAT_MEM.RegisterLimit())
	assert.Equal(4, FORMAT_FUNCTIONAL.RegisterLimit())
	assert.Equal(0, FORMAT_B.RegisterLimit())
	assert.Equal(0, FORMAT_IM.RegisterLimit())

	// The register file is wider than any register field.
	assert.Less(FORMAT_R.RegisterLimit(), REG_FILE_SIZE)
}

func TestOpcodeOf(t *testing.T) {
	assert := assert.New(t)

	op, err := OpcodeOf(10)
	assert.NoError(err)
	assert.Equal(OP_ADD, op)

	op, err = OpcodeOf(465)
	assert.NoError(err)
	assert.Equal(OP_LOAD_IMMEDIATE, op)

	// Bits above the 9-bit window are never inspected.
	op, err = OpcodeOf(0xfe00 | 465)
	assert.NoError(err)
	assert.Equal(OP_LOAD_IMMEDIATE, op)

	for word := range Word(1 << WORD_BITS) {
		op, err := OpcodeOf(word)
		assert.NoError(err)
		assert.Equal(Operation(word>>OPCODE_SHIFT), op, word.String())
	}
}

func TestErrOpcode(t *testing.T) {
	assert := assert.New(t)

	var err error = ErrOpcode(0b1010)
	assert.True(errors.Is(err, ErrUnknownOpcode))
	assert.True(errors.Is(err, ErrOpcode(0)))
	assert.False(errors.Is(err, ErrFormatMismatch))
	assert.Contains(err.Error(), "1010")
}

func TestOperation_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("add", OP_ADD.String())
	assert.Equal("load_immediate", OP_LOAD_IMMEDIATE.String())
	assert.Equal("set_reg", OP_SET_REG.String())
	assert.Equal("Operation(16)", Operation(16).String())

	assert.Equal("R", FORMAT_R.String())
	assert.Equal("FUNCTIONAL", FORMAT_FUNCTIONAL.String())
	assert.Equal("Format(-1)", Format(-1).String())
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]string{}
	for key, value := range Defines() {
		defines[key] = value
	}

	assert.Equal("16", defines["REG_FILE_SIZE"])
	assert.Equal("256", defines["MEM_SIZE"])
	assert.Equal("32", defines["IMM_TABLE_SIZE"])
	assert.Equal("0x1ff", defines["WORD_MASK"])
}
