// Package codegen translates the annotated AST into LLVM IR.
//
// Nested procedures are compiled against per-call-frame access links: every
// function's activation record is an identified struct type whose field 0
// points to the frame of its statically enclosing function, and non-local
// variable references walk that chain. The outermost procedure is its own
// parent, so the chain is total.
package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/pkg/errors"

	"github.com/palc-lang/palc/pkg/ast"
	"github.com/palc-lang/palc/pkg/config"
	"github.com/palc-lang/palc/pkg/verify"
)

// fnSymbol is one entry of the global callable namespace. Entries are
// created exactly once, during the declare phase, before any call site or
// nested function that mentions them is lowered. frame stays nil only for
// runtime primitives, which have no activation record of their own.
type fnSymbol struct {
	name      string
	irFunc    *ir.Func
	frame     *types.StructType
	parent    *fnSymbol // enclosing function's symbol; self-loop at the root
	params    []*ast.Node
	ret       *ast.Type
	needsLink bool
	depth     int
}

// Generator holds the state of one translation unit's compilation.
type Generator struct {
	cfg    *config.Config
	m      *ir.Module
	funcs  map[string]*fnSymbol
	strs   map[string]*ir.Global
	intTy  *types.IntType
	byteTy *types.IntType
	cur    string // function currently being compiled, for fault context
}

func NewGenerator(cfg *config.Config) *Generator {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Generator{
		cfg:    cfg,
		m:      ir.NewModule(),
		funcs:  make(map[string]*fnSymbol),
		strs:   make(map[string]*ir.Global),
		intTy:  types.NewInt(uint64(cfg.IntBits)),
		byteTy: types.NewInt(uint64(cfg.ByteBits)),
	}
}

// Fault is an internal-consistency violation. Semantic analysis rejects
// ill-formed programs before they reach the generator, so a Fault means the
// input contract was broken; compilation of the whole unit is abandoned.
type Fault struct {
	Fn  string
	Msg string
}

func (f *Fault) Error() string {
	if f.Fn == "" {
		return "codegen: " + f.Msg
	}
	return fmt.Sprintf("codegen: in %s: %s", f.Fn, f.Msg)
}

// failf aborts compilation with a Fault carrying the current function name.
// The panic is recovered at the Compile boundary only.
func (g *Generator) failf(format string, args ...interface{}) {
	panic(&Fault{Fn: g.cur, Msg: fmt.Sprintf(format, args...)})
}

// Compile lowers the whole program to a single LLVM module, then runs the
// structural validator over the result. Any fault or validation failure is
// returned as an error; no partial module is ever handed back.
func (g *Generator) Compile(prog *ast.Program) (m *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*Fault)
			if !ok {
				panic(r)
			}
			m, err = nil, f
		}
	}()

	if prog == nil || prog.Root == nil {
		return nil, errors.New("codegen: empty program")
	}
	root := prog.Root
	if root.Kind != ast.FuncDecl {
		return nil, errors.New("codegen: program root is not a function")
	}
	if d := root.Data.(ast.FuncDeclNode); d.Parent != root {
		return nil, errors.Errorf("codegen: outermost function %s must be its own parent", d.Name)
	}

	g.declareRuntime()
	g.compileFunc(root)

	if g.cfg.IsFeatureEnabled(config.FeatVerify) {
		if verr := verify.Module(g.m); verr != nil {
			return nil, errors.WithMessage(verr, "codegen: generated module is structurally invalid")
		}
	}
	return g.m, nil
}

// declare registers a callable in the global namespace. The namespace is
// write-once per entry; a second declaration of the same mangled name means
// the mangler upstream failed to keep names globally unique.
func (g *Generator) declare(sym *fnSymbol) *fnSymbol {
	if _, ok := g.funcs[sym.name]; ok {
		g.failf("duplicate declaration of callable %q", sym.name)
	}
	g.funcs[sym.name] = sym
	return sym
}

// lookup resolves a callable. A miss is a fault, never a "not yet declared"
// condition: the declare-then-recurse-then-emit order guarantees that every
// reachable callee is registered before any body is lowered.
func (g *Generator) lookup(name string) *fnSymbol {
	sym, ok := g.funcs[name]
	if !ok {
		g.failf("call to unresolved callable %q", name)
	}
	return sym
}
