package isa

import (
	"fmt"
	"iter"
	"maps"
)

const (
	REG_FILE_SIZE  = 16  // Registers in the register file.
	MEM_SIZE       = 256 // Bytes of data memory.
	IMM_TABLE_SIZE = 32  // Entries in the immediate lookup table.
)

var _isa_defines = map[string]string{
	"REG_FILE_SIZE":  fmt.Sprintf("%v", REG_FILE_SIZE),
	"MEM_SIZE":       fmt.Sprintf("%v", MEM_SIZE),
	"IMM_TABLE_SIZE": fmt.Sprintf("%v", IMM_TABLE_SIZE),
	"WORD_MASK":      fmt.Sprintf("%#x", uint16(WORD_MASK)),
}

// Defines returns the architecture constants as assembler equates.
func Defines() iter.Seq2[string, string] {
	return maps.All(_isa_defines)
}
