package asm

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/panda-isa/panda/isa"
)

// Opcode is a line of assembled code with its source location.
type Opcode struct {
	LineNo    int
	Ip        int
	Words     []string
	Inst      isa.Instruction // nil for a raw .word
	Word      isa.Word
	LinkLabel string // Label or immediate resolved after the last line.
}

// Program is an assembled instruction stream and its immediate table.
type Program struct {
	Opcodes    []Opcode
	Immediates []uint8 // Immediate lookup table, indexed by load_immediate.
}

// Debug returns the opcode assembled at ip, or nil.
func (prog *Program) Debug(ip int) *Opcode {
	for n, op := range prog.Opcodes {
		if op.Ip == ip {
			return &prog.Opcodes[n]
		}
	}

	return nil
}

// Words iterates over the program's words by instruction pointer.
func (prog *Program) Words() iter.Seq2[int, isa.Word] {
	return func(yield func(ip int, word isa.Word) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Ip, op.Word) {
				return
			}
		}
	}
}

// Binary returns the program as raw 16-bit containers.
func (prog *Program) Binary() (bins []uint16) {
	for _, word := range prog.Words() {
		bins = append(bins, uint16(word))
	}

	return
}

// WriteListing writes one 9-digit binary word per line.
func (prog *Program) WriteListing(w io.Writer) (err error) {
	for _, word := range prog.Words() {
		_, err = fmt.Fprintln(w, word.String())
		if err != nil {
			return
		}
	}

	return
}

// WriteImmediates writes the immediate table, one 8-digit binary value per
// line.
func (prog *Program) WriteImmediates(w io.Writer) (err error) {
	for _, value := range prog.Immediates {
		_, err = fmt.Fprintf(w, "%08b\n", value)
		if err != nil {
			return
		}
	}

	return
}

// ReadListing reads words written by WriteListing. Blank lines and text
// after ';' are skipped.
func ReadListing(r io.Reader) (words []isa.Word, err error) {
	scanner := bufio.NewScanner(r)

	var lineno int
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(strings.Split(scanner.Text(), ";")[0])
		if len(line) == 0 {
			continue
		}

		var word isa.Word
		word, err = isa.ParseWord(line)
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}
		words = append(words, word)
	}

	err = scanner.Err()
	return
}
