package c3

import (
	"os"

	"github.com/llir/llvm/ir"
	"github.com/pkg/errors"
)

// CompileResult bundles what a successful CompileFile produces: the
// parsed AST (for -ast-only style tooling) and the lowered module.
// Parse errors are not carried here: the parser's accumulated errors
// come back from CompileFile as a single wrapped error instead (spec
// §4.4 "Error recovery").
type CompileResult struct {
	AST    *SequenceNode
	Module *ir.Module
}

// ParseFile runs the read -> tokenize -> parse stages of spec §4.9's
// pipeline, stopping short of lowering. It exists so tooling like
// -ast-only can print a file's AST even when lowering that AST would
// fail, or would simply rather not run.
func ParseFile(path string, cfg *Config) (*SequenceNode, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	pp := NewFileTokenizer()
	if !pp.ProcessFile(path) {
		return nil, errors.Wrapf(os.ErrNotExist, "reading %s", path)
	}

	parser := NewParser(pp.Tokens(), cfg)
	root, err := parser.Parse()
	if err != nil {
		return nil, errors.Wrap(err, "parsing")
	}

	return root, nil
}

// CompileFile runs the full pipeline described in spec §4.9: read the
// source file, tokenize it, parse and resolve it into an AST, then
// lower that AST into an LLVM module. It mirrors the original
// implementation's main() (preprocess -> parse -> check -> build_ir),
// just with Go's recovery-then-return-error idiom standing in for the
// original's exit-code-on-first-hard-error flow.
func CompileFile(path string, cfg *Config) (*CompileResult, error) {
	if cfg == nil {
		cfg = NewConfig()
	}

	root, err := ParseFile(path, cfg)
	if err != nil {
		return nil, err
	}

	lowerer := NewLowerer(cfg)
	if err := lowerer.Lower(root); err != nil {
		return nil, errors.Wrap(err, "lowering")
	}

	return &CompileResult{AST: root, Module: lowerer.Module()}, nil
}
