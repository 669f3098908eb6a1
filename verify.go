package c3

import (
	"fmt"

	"github.com/llir/llvm/ir"
)

// VerifyError reports a structural defect a correct lowering pass
// should never produce. Unlike ParseError, it always indicates a
// compiler bug, not a user error (spec §5, §7).
type VerifyError struct {
	Function string
	Block    string
	Message  string
}

func (e VerifyError) Error() string {
	return fmt.Sprintf("%s/%s: %s", e.Function, e.Block, e.Message)
}

// VerifyModule checks spec §5's block-structure invariant — every
// basic block has exactly one terminator, and every block is in fact
// terminated — across every function in m. github.com/llir/llvm builds
// IR but ships no verifier of its own, so the front-end carries this
// one (spec §4.8).
func VerifyModule(m *ir.Module) []VerifyError {
	var errs []VerifyError
	for _, f := range m.Funcs {
		for _, b := range f.Blocks {
			if b.Term == nil {
				errs = append(errs, VerifyError{Function: f.Name(), Block: b.Name(), Message: "block has no terminator"})
			}
		}
	}
	return errs
}
