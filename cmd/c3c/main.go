package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	c3 "github.com/ccbrown/c3c"
)

type args struct {
	inputPath  *string
	outputPath *string

	astOnly *bool
	irOnly  *bool

	optimize *int
	verify   *bool
}

func readArgs() *args {
	a := &args{
		inputPath:  flag.String("input", "", "Path to the input source file"),
		outputPath: flag.String("output", "/dev/stdout", "Path to the output file"),

		astOnly: flag.Bool("ast-only", false, "Print the parsed AST and exit"),
		irOnly:  flag.Bool("ir-only", false, "Print the lowered LLVM IR without writing an executable"),

		optimize: flag.Int("optimize", 0, "Optimization level passed through to codegen"),
		verify:   flag.Bool("verify", true, "Run block-structure verification after lowering"),
	}
	flag.Parse()
	return a
}

func main() {
	a := readArgs()

	if *a.inputPath == "" {
		log.Fatal("input file not informed")
	}

	cfg := c3.NewConfig()
	cfg.SetInt("codegen.optimize", *a.optimize)
	cfg.SetBool("lowering.verify", *a.verify)

	if *a.astOnly {
		root, err := c3.ParseFile(*a.inputPath, cfg)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(c3.PrintAST(root))
		return
	}

	result, err := c3.CompileFile(*a.inputPath, cfg)
	if err != nil {
		log.Fatal(err)
	}

	ir := result.Module.String()
	if *a.irOnly {
		fmt.Print(ir)
		return
	}

	if err := os.WriteFile(*a.outputPath, []byte(ir), 0644); err != nil {
		log.Fatalf("can't write output: %s", err.Error())
	}
}
