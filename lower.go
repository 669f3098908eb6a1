package c3

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// funcContext holds the per-function mutable lowering state: the
// current insertion block, whether it already ended in a terminator,
// and the unified return block every `return` branches to instead of
// emitting its own ret (spec §4.5 "Return-block unification").
type funcContext struct {
	fn          *ir.Func
	cur         *ir.Block
	terminated  bool
	returnBlock *ir.Block
	returnSlot  value.Value // nil for a void function
	returnType  *Type
}

// Lowerer walks a parsed AST and builds a github.com/llir/llvm Module,
// implementing spec §4.5's AST-to-SSA-IR lowering pass as a Visitor
// (spec §4.3). Expression visits communicate their result back through
// the scratch `value` field rather than a return value, since
// Visitor.Accept only returns an error. An lvalue-producing node
// leaves its address there; an rvalue-producing node leaves its
// computed value — the same single-channel convention the original
// lowering pass uses, with lvalue()/rvalue() deciding whether to load.
type Lowerer struct {
	module *ir.Module
	types  *irTypes
	config *Config

	funcs       map[string]*ir.Func
	namedValues map[string]value.Value
	strings     int

	stack []*funcContext

	value value.Value
}

func NewLowerer(cfg *Config) *Lowerer {
	if cfg == nil {
		cfg = NewConfig()
	}
	m := ir.NewModule()
	return &Lowerer{
		module:      m,
		types:       newIRTypes(m),
		config:      cfg,
		funcs:       map[string]*ir.Func{},
		namedValues: map[string]value.Value{},
	}
}

// Module exposes the module under construction, for emission after
// Lower returns.
func (l *Lowerer) Module() *ir.Module { return l.module }

// Lower runs the visitor over root and, if the "lowering.verify"
// config flag is set (spec §4.8), checks the resulting module's block
// structure before returning.
func (l *Lowerer) Lower(root Node) error {
	if err := root.Accept(l); err != nil {
		return err
	}
	if l.config.GetBool("lowering.verify") {
		if errs := VerifyModule(l.module); len(errs) > 0 {
			return fmt.Errorf("%d verification error(s), first: %s", len(errs), errs[0])
		}
	}
	return nil
}

func (l *Lowerer) top() *funcContext { return l.stack[len(l.stack)-1] }

// zeroValue builds the default global initializer for t: numeric kinds
// get a zero constant, pointers a null constant, structs a zero
// aggregate.
func zeroValue(t types.Type) constant.Constant {
	switch tt := t.(type) {
	case *types.IntType:
		return constant.NewInt(0, tt)
	case *types.FloatType:
		return constant.NewFloat(0, tt)
	case *types.PointerType:
		return constant.NewNull(tt)
	default:
		return constant.NewZeroInitializer(t)
	}
}

// buildBasicBlock lowers node into block in isolation: it swaps the
// context's current block in, visits node, and — unless node already
// terminated the block (e.g. with a nested return) — branches to next
// before restoring the caller's block and terminated flag. This is how
// if/else branches and loop bodies get built out of the control-flow
// node's own linear position without disturbing the block the caller
// is still assembling (spec §4.5 "Block-structured lowering").
func (l *Lowerer) buildBasicBlock(ctx *funcContext, block *ir.Block, node Node, next *ir.Block) error {
	savedCur, savedTerm := ctx.cur, ctx.terminated
	ctx.cur, ctx.terminated = block, false
	if err := node.Accept(l); err != nil {
		return err
	}
	if !ctx.terminated {
		ctx.cur.NewBr(next)
	}
	ctx.cur, ctx.terminated = savedCur, savedTerm
	return nil
}

// ---- Visitor ----

func (l *Lowerer) VisitNop(n *NopNode) error { return nil }

// VisitSequence lowers each child in order, but stops as soon as the
// enclosing function's current block has been terminated (by a nested
// return) — any statements after a return are dead and the original
// never lowers them either. At global scope there is no enclosing
// function context, so every child always runs.
func (l *Lowerer) VisitSequence(n *SequenceNode) error {
	for _, child := range n.Children {
		if len(l.stack) > 0 && l.top().terminated {
			break
		}
		if err := child.Accept(l); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) VisitVariableDec(n *VariableDecNode) error {
	if len(l.stack) == 0 {
		return l.visitGlobalVariableDec(n)
	}
	ctx := l.top()
	slot := ctx.cur.NewAlloca(l.types.Lower(n.Var.Type))
	l.namedValues[n.Var.GlobalName] = slot
	if n.Init != nil {
		v, err := l.rvalue(n.Init, n.Var.Type)
		if err != nil {
			return err
		}
		ctx.cur.NewStore(v, slot)
	}
	return nil
}

// visitGlobalVariableDec handles a TYPE name [= expr]; statement parsed
// outside any function body. The grammar doesn't distinguish this from
// a local declaration (spec §4.4 item 4 applies at every scope), but an
// LLVM global needs a genuine compile-time constant initializer, so
// only a bare literal is accepted here; anything else is an invariant
// violation the parser should have caught instead.
func (l *Lowerer) visitGlobalVariableDec(n *VariableDecNode) error {
	llt := l.types.Lower(n.Var.Type)
	init := zeroValue(llt)
	if n.Init != nil {
		switch e := n.Init.(type) {
		case *IntegerNode:
			init = constant.NewInt(e.Value, llt.(*types.IntType))
		case *FloatingPointNode:
			init = constant.NewFloat(e.Value, types.Double)
		default:
			panicInvariant("global variable initializer must be a literal constant")
		}
	}
	gv := l.module.NewGlobalDef(n.Var.GlobalName, init)
	l.namedValues[n.Var.GlobalName] = gv
	return nil
}

func (l *Lowerer) VisitFunctionProto(n *FunctionProtoNode) error {
	l.declareFunc(n.Func)
	return nil
}

// declareFunc returns the llir function for f, declaring it on first
// reference. Redeclaration is guarded by a Go map keyed on the
// front-end's already-unique global name, standing in for the
// original's "create, then notice the name collided, erase and
// re-lookup" trick — llir/llvm's module has no implicit by-name
// symbol table to collide against.
func (l *Lowerer) declareFunc(f *C3Function) *ir.Func {
	if fn, ok := l.funcs[f.GlobalName]; ok {
		return fn
	}
	retType := l.types.Lower(f.Signature.ReturnType)
	params := make([]*ir.Param, len(f.Signature.ArgTypes))
	for i, at := range f.Signature.ArgTypes {
		params[i] = ir.NewParam("", l.types.Lower(at))
	}
	fn := l.module.NewFunc(f.GlobalName, retType, params...)
	l.funcs[f.GlobalName] = fn
	return fn
}

func (l *Lowerer) VisitFunctionDef(n *FunctionDefNode) error {
	f := n.Proto.Func
	fn := l.declareFunc(f)
	for i, name := range n.Proto.ArgNames {
		fn.Params[i].SetName(name)
	}

	entry := fn.NewBlock("entry")
	ctx := &funcContext{fn: fn, cur: entry, returnType: f.Signature.ReturnType}
	l.stack = append(l.stack, ctx)
	defer func() { l.stack = l.stack[:len(l.stack)-1] }()

	for i, name := range n.Proto.ArgNames {
		argType := f.Signature.ArgTypes[i]
		slot := entry.NewAlloca(l.types.Lower(argType))
		entry.NewStore(fn.Params[i], slot)
		l.namedValues[n.ArgPrefix+name] = slot
	}

	if f.Signature.ReturnType.Kind != KindVoid {
		ctx.returnSlot = entry.NewAlloca(l.types.Lower(f.Signature.ReturnType))
	}

	ctx.returnBlock = fn.NewBlock("return")

	if err := n.Body.Accept(l); err != nil {
		return err
	}
	if !ctx.terminated {
		ctx.cur.NewBr(ctx.returnBlock)
	}

	if f.Signature.ReturnType.Kind == KindVoid {
		ctx.returnBlock.NewRet(nil)
	} else {
		loaded := ctx.returnBlock.NewLoad(ctx.returnSlot)
		ctx.returnBlock.NewRet(loaded)
	}

	// The return block is created before the body, so any if/while
	// blocks the body introduces land ahead of it in fn.Blocks already
	// (llir/llvm appends on creation); move it to the end so the
	// function reads top-to-bottom with the epilogue last.
	blocks := fn.Blocks
	reordered := make([]*ir.Block, 0, len(blocks))
	for _, b := range blocks {
		if b != ctx.returnBlock {
			reordered = append(reordered, b)
		}
	}
	fn.Blocks = append(reordered, ctx.returnBlock)

	return nil
}
