// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/panda-isa/panda/internal"
	"github.com/panda-isa/panda/isa"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// localLabel matches a label that may be local to a macro expansion.
var localLabel = regexp.MustCompile(`@[^\s,:;]*`)

// localLabels returns the '@' labels defined by the macro body. Other '@'
// labels in the body refer to the program.
func (macro *Macro) localLabels() map[string]bool {
	labels := map[string]bool{}
	for _, line := range macro.Lines {
		for _, word := range strings.Fields(strings.ReplaceAll(line, ",", " ")) {
			label, ok := strings.CutSuffix(word, ":")
			if !ok {
				break
			}
			if strings.HasPrefix(label, "@") {
				labels[label] = true
			}
		}
	}

	return labels
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass macro assembler for the PANDA instruction set.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine  map[string]string   // Predefines
	Label      map[string]int      // Map of jump labels to instruction indexes.
	Equate     map[string]string   // Map of equates.
	Macro      map[string](*Macro) // Map of macros.
	Immediate  map[string]int      // Map of immediate names to table indexes.
	Immediates []uint8             // Immediate table, in definition order.

	expansions int // Macro expansion counter, for local labels.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap maps R, CMP and MEM mnemonics to their operation.
var regMap = map[string]isa.Operation{
	"add":   isa.OP_ADD,
	"adc":   isa.OP_ADC,
	"sub":   isa.OP_SUB,
	"and":   isa.OP_AND,
	"or":    isa.OP_OR,
	"xor":   isa.OP_XOR,
	"mov":   isa.OP_MOV,
	"cmp":   isa.OP_CMP,
	"load":  isa.OP_LOAD,
	"store": isa.OP_STORE,
}

// branchMap maps blt_relative, beq_absolute, ... to a template branch.
var branchMap = func() map[string]isa.Branch {
	branches := map[string]isa.Branch{}
	for _, op := range isa.FORMAT_B.Operations() {
		branches[op.String()+"_relative"] = isa.Branch{Op: op, AbsRel: isa.BRANCH_RELATIVE}
		branches[op.String()+"_absolute"] = isa.Branch{Op: op, AbsRel: isa.BRANCH_ABSOLUTE}
	}
	return branches
}()

// shiftMap maps the four shift mnemonics to a template shift.
var shiftMap = map[string]isa.Shift{
	"shift_left_logical":     {Op: isa.OP_SHIFT, Dir: isa.SHIFT_LEFT, Arith: isa.SHIFT_LOGICAL},
	"shift_right_logical":    {Op: isa.OP_SHIFT, Dir: isa.SHIFT_RIGHT, Arith: isa.SHIFT_LOGICAL},
	"shift_left_arithmetic":  {Op: isa.OP_SHIFT, Dir: isa.SHIFT_LEFT, Arith: isa.SHIFT_ARITHMETIC},
	"shift_right_arithmetic": {Op: isa.OP_SHIFT, Dir: isa.SHIFT_RIGHT, Arith: isa.SHIFT_ARITHMETIC},
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint64, err error) {
	value, err = strconv.ParseUint(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// fieldOf returns the value of a word destined for an instruction field.
// The codec checks the exact width; this only keeps the value in a byte.
func (asm *Assembler) fieldOf(word string) (value uint8, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 > 0xff {
		err = fmt.Errorf("%w: %v", ErrValueRange, word)
		return
	}

	value = uint8(v64)
	return
}

// register parses r0..r15, or a plain register number.
func (asm *Assembler) register(word string) (reg isa.Reg, err error) {
	word = strings.ToLower(word)

	num := word
	if strings.HasPrefix(word, "r") {
		num = word[1:]
	}

	value, err := strconv.ParseUint(num, 10, 8)
	if err != nil || value >= isa.REG_FILE_SIZE {
		err = fmt.Errorf("%w: %v", ErrRegisterInvalid, word)
		return
	}

	reg = isa.Reg(value)
	return
}

// source parses a register, or 'im' for the immediate register.
func (asm *Assembler) source(word string) (rs isa.Reg, srcSel uint8, err error) {
	if strings.ToLower(word) == "im" {
		srcSel = isa.SRC_IM
		return
	}

	rs, err = asm.register(word)
	srcSel = isa.SRC_RS
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 uint64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeUint64(v64)
	}
	err = nil
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Uint64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into the words of a statement.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	// Commas are optional separators.
	line = strings.ReplaceAll(line, ",", " ")
	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.ToLower(words[0]) == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentIp()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// '@' labels defined in the body are local to each expansion.
		asm.expansions++
		local := fmt.Sprintf("%v_%v_", name, asm.expansions)
		locals := macro.localLabels()

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = localLabel.ReplaceAllStringFunc(line, func(label string) string {
				if locals[label] {
					return local + label[1:]
				}
				return label
			})
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentIp gets the current Ip
func (asm *Assembler) currentIp() int {
	return len(asm.Opcode)
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]int, 16)
	asm.Opcode = asm.Opcode[:0]
	asm.Macro = make(map[string](*Macro))
	asm.Immediate = make(map[string]int, isa.IMM_TABLE_SIZE)
	asm.Immediates = nil
	asm.expansions = 0
	asm.Equate = maps.Collect(internal.IterSeq2Concat(maps.All(sysEquate), isa.Defines()))
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels and immediates.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}

		err = asm.link(op)
		if err != nil {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			return
		}
	}

	prog = &Program{
		Opcodes:    slices.Clone(asm.Opcode),
		Immediates: slices.Clone(asm.Immediates),
	}

	return
}

// link resolves the label or immediate name of an opcode, and encodes it.
func (asm *Assembler) link(op *Opcode) (err error) {
	label := op.LinkLabel

	var inst isa.Instruction
	switch linked := op.Inst.(type) {
	case isa.Branch:
		target, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		if linked.AbsRel == isa.BRANCH_RELATIVE {
			target -= op.Ip
			if target < 0 {
				err = fmt.Errorf("%w: %v", ErrBranchBackward, label)
				return
			}
		}
		if target > 0xff {
			err = fmt.Errorf("%w: %v", ErrValueRange, label)
			return
		}
		linked.Addr = uint8(target)
		inst = linked
	case isa.Immediate:
		index, ok := asm.Immediate[label]
		if !ok {
			err = ErrImmediateMissing(label)
			return
		}
		linked.Imm = uint8(index)
		inst = linked
	default:
		err = fmt.Errorf("%w: cannot link %v", ErrInstructionInvalid, label)
		return
	}

	if asm.Verbose {
		log.Printf("link %v: %v", label, inst)
	}

	op.Inst = inst
	op.Word, err = isa.Encode(inst.Format(), inst)
	return
}

// argCount checks the number of operands of a statement.
func argCount(args []string, count int) error {
	switch {
	case len(args) < count:
		return ErrOpcodeValueMissing
	case len(args) > count:
		return ErrOpcodeExtraArgs
	}

	return nil
}

// defineImmediate adds a named entry to the immediate table.
func (asm *Assembler) defineImmediate(name string, args []string) (err error) {
	err = argCount(args, 1)
	if err != nil {
		return
	}

	_, ok := asm.Immediate[name]
	if ok {
		err = ErrImmediateDuplicate
		return
	}

	if len(asm.Immediates) >= isa.IMM_TABLE_SIZE {
		err = ErrImmediateFull
		return
	}

	value, err := asm.fieldOf(args[0])
	if err != nil {
		return
	}

	asm.Immediate[name] = len(asm.Immediates)
	asm.Immediates = append(asm.Immediates, value)

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var inst isa.Instruction
	var word isa.Word
	var raw bool
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if err != nil || (inst == nil && !raw) {
			return
		}
		if inst != nil && len(label) == 0 {
			word, err = isa.Encode(inst.Format(), inst)
			if err != nil {
				return
			}
		}
		opcode := Opcode{LineNo: lineno, Ip: asm.currentIp(), Words: initial_words, Inst: inst, Word: word, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	switch {
	case mnemonic == ".word":
		// .word VALUE => raw instruction word
		err = argCount(args, 1)
		if err != nil {
			return
		}
		var value uint64
		value, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if value > uint64(isa.WORD_MASK) {
			err = fmt.Errorf("%w: %v", isa.ErrFieldOverflow, args[0])
			return
		}
		word = isa.Word(value)
		raw = true
	case strings.HasPrefix(mnemonic, "."):
		// .NAME VALUE => immediate table entry
		err = asm.defineImmediate(words[0], args)
	case mnemonic == "halt":
		err = argCount(args, 0)
		inst = isa.HALT
	case mnemonic == "noop":
		err = argCount(args, 0)
		inst = isa.NOOP
	case mnemonic == "set_reg":
		err = argCount(args, 2)
		if err != nil {
			return
		}
		var rd, rs isa.Reg
		rd, err = asm.register(args[0])
		if err != nil {
			return
		}
		rs, err = asm.register(args[1])
		if err != nil {
			return
		}
		inst = isa.Functional{Op: isa.OP_SET_REG, Rd: rd, Rs: rs}
	case mnemonic == "inc", mnemonic == "dec":
		// inc/dec rd => adc rd with the mode in srcSel
		err = argCount(args, 1)
		if err != nil {
			return
		}
		var rd isa.Reg
		rd, err = asm.register(args[0])
		if err != nil {
			return
		}
		mode := isa.SRC_RS
		if mnemonic == "dec" {
			mode = isa.SRC_IM
		}
		inst = isa.R{Op: isa.OP_ADC, Rd: rd, SrcSel: uint8(mode)}
	case mnemonic == "load_immediate":
		err = argCount(args, 1)
		if err != nil {
			return
		}
		imm := isa.Immediate{Op: isa.OP_LOAD_IMMEDIATE}
		if strings.HasPrefix(args[0], ".") {
			label = args[0]
		} else {
			imm.Imm, err = asm.fieldOf(args[0])
			if err != nil {
				return
			}
		}
		inst = imm
	default:
		inst, label, err = asm.parseOperation(mnemonic, args)
	}

	return
}

// parseOperation evaluates the register, branch and shift forms.
func (asm *Assembler) parseOperation(mnemonic string, args []string) (inst isa.Instruction, label string, err error) {
	if op, ok := regMap[mnemonic]; ok {
		err = argCount(args, 2)
		if err != nil {
			return
		}
		if strings.ToLower(args[0]) == "im" {
			err = ErrTargetInvalid
			return
		}
		var rd, rs isa.Reg
		var srcSel uint8
		rd, err = asm.register(args[0])
		if err != nil {
			return
		}
		rs, srcSel, err = asm.source(args[1])
		if err != nil {
			return
		}
		switch isa.FormatOf(op) {
		case isa.FORMAT_CMP:
			inst = isa.Compare{Op: op, Rd: rd, Rs: rs, SrcSel: srcSel}
		case isa.FORMAT_MEM:
			inst = isa.Mem{Op: op, Rd: rd, Rs: rs, SrcSel: srcSel}
		default:
			inst = isa.R{Op: op, Rd: rd, Rs: rs, SrcSel: srcSel}
		}
		return
	}

	if branch, ok := branchMap[mnemonic]; ok {
		err = argCount(args, 1)
		if err != nil {
			return
		}
		if _, nerr := asm.valueOf(args[0]); nerr != nil {
			label = args[0]
		} else {
			branch.Addr, err = asm.fieldOf(args[0])
			if err != nil {
				return
			}
		}
		inst = branch
		return
	}

	if shift, ok := shiftMap[mnemonic]; ok {
		err = argCount(args, 1)
		if err != nil {
			return
		}
		shift.Rd, err = asm.register(args[0])
		if err != nil {
			return
		}
		inst = shift
		return
	}

	err = ErrInstructionInvalid
	return
}
