// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/panda-isa/panda/asm"
	"github.com/panda-isa/panda/isa"
)

// defines collects -D NAME=VALUE flags.
type defines map[string]string

func (d defines) String() string {
	return fmt.Sprintf("%v", map[string]string(d))
}

func (d defines) Set(text string) error {
	name, value, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 {
		return fmt.Errorf("expected NAME=VALUE, got %q", text)
	}
	d[name] = value
	return nil
}

// printSamples prints the encodings of two well known instructions.
func printSamples(w io.Writer) (err error) {
	samples := []struct {
		label string
		inst  isa.Instruction
	}{
		{"R-format", isa.R{Op: isa.OP_ADD, Rd: 1, Rs: 2, SrcSel: isa.SRC_RS}},
		{"IM-format", isa.Immediate{Op: isa.OP_LOAD_IMMEDIATE, Imm: 17}},
	}

	for _, sample := range samples {
		var word isa.Word
		word, err = isa.Encode(sample.inst.Format(), sample.inst)
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, "%v instruction in binary: %v\n", sample.label, word)
		if err != nil {
			return
		}
	}

	return
}

// disassemble prints each word of a listing with its decoded form.
func disassemble(w io.Writer, words []isa.Word) (err error) {
	for ip, word := range words {
		var inst isa.Instruction
		inst, err = isa.DecodeWord(word)
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, "%3d: %v  %-5v %v\n", ip, word, inst.Format(), inst)
		if err != nil {
			return
		}
	}

	return
}

// create opens a file for output, with '-' meaning stdout.
func create(path string) (w io.WriteCloser, err error) {
	if path == "-" {
		return os.Stdout, nil
	}

	return os.Create(path)
}

func main() {
	var compile string
	var output string
	var immediates string
	var listing string
	var verbose bool
	predefs := defines{}

	flag.StringVar(&compile, "c", "", "assembly file to compile")
	flag.StringVar(&output, "o", "-", "Listing output")
	flag.StringVar(&immediates, "i", "", "Immediate table output")
	flag.StringVar(&listing, "d", "", "listing file to disassemble")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Var(predefs, "D", "Predefine NAME=VALUE (repeatable)")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 && len(listing) == 0 {
		err := printSamples(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	// Assemble a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		assembler := &asm.Assembler{Verbose: verbose}
		for name, value := range predefs {
			assembler.Predefine(name, value)
		}

		prog, err := assembler.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		ouf, err := create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()

		err = prog.WriteListing(ouf)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}

		if len(immediates) != 0 {
			imf, err := create(immediates)
			if err != nil {
				log.Fatalf("%v: %v", immediates, err)
			}
			defer imf.Close()

			err = prog.WriteImmediates(imf)
			if err != nil {
				log.Fatalf("%v: %v", immediates, err)
			}
		}
	}

	// Disassemble an existing listing.
	if len(listing) != 0 {
		inf, err := os.Open(listing)
		if err != nil {
			log.Fatalf("%v: %v", listing, err)
		}
		defer inf.Close()

		words, err := asm.ReadListing(inf)
		if err != nil {
			log.Fatalf("%v: %v", listing, err)
		}

		err = disassemble(os.Stdout, words)
		if err != nil {
			log.Fatalf("%v: %v", listing, err)
		}
	}
}
