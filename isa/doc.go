// Package isa implements the instruction codec for the PANDA processor.
//
// Every PANDA instruction is a 9-bit word stored in a 16-bit container, with
// bits 9 to 15 always zero. The top four bits of the 9-bit window hold the
// opcode; the remaining five bits are laid out in one of seven formats
// (R, B, CMP, SHIFT, MEM, IM and FUNCTIONAL), chosen by the opcode.
//
// The R, CMP and MEM layouts are bit-identical, so a word does not describe
// its own format. Callers either carry the Format alongside the word, or
// derive it with OpcodeOf and FormatOf before calling Decode; DecodeWord does
// exactly that.
package isa
