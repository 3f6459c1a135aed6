package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/palc-lang/palc/pkg/ast"
	"github.com/palc-lang/palc/pkg/config"
)

// compileFunc compiles one function node: declare its signature and frame
// type, recursively compile its nested functions, then emit its body. The
// declare work happens strictly before the recursion so that nested frames
// can embed a pointer to this frame and so that calls in either direction
// resolve, and the recursion happens strictly before this body is lowered.
func (g *Generator) compileFunc(n *ast.Node) *fnSymbol {
	d := n.Data.(ast.FuncDeclNode)
	isRoot := d.Parent == n

	var parentSym *fnSymbol
	if !isRoot {
		if d.Parent == nil {
			g.failf("nested function %q has no parent", d.Name)
		}
		pd := d.Parent.Data.(ast.FuncDeclNode)
		parentSym = g.funcs[pd.Name]
		if parentSym == nil || parentSym.frame == nil || len(parentSym.frame.Fields) == 0 {
			g.failf("nested function %q compiled before its parent %q has a frame", d.Name, pd.Name)
		}
	}

	sym := g.declareFunc(d, parentSym)

	for _, l := range d.Locals {
		if l.Kind != ast.FuncDecl {
			continue
		}
		child := l.Data.(ast.FuncDeclNode)
		if child.Parent != n {
			g.failf("nested function %q does not point back at %q", child.Name, d.Name)
		}
		g.compileFunc(l)
	}

	g.emitBody(n, sym)
	return sym
}

// declareFunc registers the callable signature and builds the frame type.
// Nested functions carry a synthesized leading parameter: a pointer to the
// enclosing function's frame, stored into frame field 0 by the prologue.
// The root's frame field 0 points at its own frame type instead.
func (g *Generator) declareFunc(d ast.FuncDeclNode, parentSym *fnSymbol) *fnSymbol {
	prev := g.cur
	g.cur = d.Name
	defer func() { g.cur = prev }()

	frame := types.NewStruct()
	g.m.NewTypeDef(d.Name+".frame", frame)

	parentFrame := frame
	if parentSym != nil {
		parentFrame = parentSym.frame
	}

	var irParams []*ir.Param
	if parentSym != nil {
		irParams = append(irParams, ir.NewParam("__link", types.NewPointer(parentSym.frame)))
	}
	for _, p := range d.Params {
		pd := p.Data.(ast.ParamNode)
		name := ""
		if g.cfg.IsFeatureEnabled(config.FeatNamedSlots) {
			name = pd.Name
		}
		irParams = append(irParams, ir.NewParam(name, g.paramType(pd)))
	}
	f := g.m.NewFunc(d.Name, g.returnType(d.Ret), irParams...)

	frame.Fields = g.buildFrame(d.Params, d.Locals, parentFrame)

	sym := &fnSymbol{
		name:      d.Name,
		irFunc:    f,
		frame:     frame,
		params:    d.Params,
		ret:       d.Ret,
		needsLink: parentSym != nil,
		depth:     d.Depth,
	}
	sym.parent = sym
	if parentSym != nil {
		sym.parent = parentSym
	}
	return g.declare(sym)
}

// emitBody lowers the function body: entry block, frame allocation,
// parameter-to-frame stores, statements, and the trailing terminator.
func (g *Generator) emitBody(n *ast.Node, sym *fnSymbol) {
	d := n.Data.(ast.FuncDeclNode)
	prev := g.cur
	g.cur = d.Name
	defer func() { g.cur = prev }()

	f := sym.irFunc
	entry := f.NewBlock("entry")
	framePtr := entry.NewAlloca(sym.frame)
	if g.cfg.IsFeatureEnabled(config.FeatNamedSlots) {
		framePtr.SetName("frame")
	}

	// Slot 0 first: the access link for nested functions, a self pointer at
	// the root so that zero-hop and n-hop walks go through the same code.
	link := entry.NewGetElementPtr(sym.frame, framePtr, g.index(0), g.index(0))
	if sym.needsLink {
		entry.NewStore(f.Params[0], link)
	} else {
		entry.NewStore(framePtr, link)
	}

	argOff := 0
	if sym.needsLink {
		argOff = 1
	}
	for i := range d.Params {
		slot := entry.NewGetElementPtr(sym.frame, framePtr, g.index(0), g.index(int64(i+1)))
		entry.NewStore(f.Params[argOff+i], slot)
	}

	fg := &funcGen{gen: g, sym: sym, f: f, frame: framePtr, cur: entry}
	terminal := fg.lowerStmt(d.Body)

	// Control falls off the end only when the trailing block can actually be
	// entered: an if whose arms both return leaves behind a predecessor-less
	// merge block, which is dead, not a missing return.
	if fg.cur.Term == nil && !terminal && reached(f, fg.cur) {
		if sym.ret != nil && sym.ret.Kind != ast.TYPE_VOID {
			g.failf("control falls off the end of function returning %s", sym.ret)
		}
		if g.cfg.IsFeatureEnabled(config.FeatStrictReturn) {
			g.failf("procedure body does not end in an explicit return")
		}
		fg.cur.NewRet(nil)
	}

	// Statements after a return are still emitted; the blocks they land in
	// have no predecessors and are closed here.
	for _, b := range f.Blocks {
		if b.Term == nil {
			b.NewUnreachable()
		}
	}
}

// reached reports whether b is the entry block or the target of some branch
// emitted so far.
func reached(f *ir.Func, b *ir.Block) bool {
	if len(f.Blocks) > 0 && f.Blocks[0] == b {
		return true
	}
	for _, blk := range f.Blocks {
		switch t := blk.Term.(type) {
		case *ir.TermBr:
			if t.Target == b {
				return true
			}
		case *ir.TermCondBr:
			if t.TargetTrue == b || t.TargetFalse == b {
				return true
			}
		}
	}
	return false
}

// funcGen lowers one function body, tracking the basic block under
// construction the way a cursor would.
type funcGen struct {
	gen   *Generator
	sym   *fnSymbol
	f     *ir.Func
	frame value.Value
	cur   *ir.Block
}

// walkLinks follows the access-link chain for the given number of hops,
// starting at (and possibly returning) the current frame, and reports which
// function's frame the resulting pointer addresses.
func (fg *funcGen) walkLinks(hops int) (value.Value, *fnSymbol) {
	if hops < 0 {
		fg.gen.failf("negative access-link distance %d", hops)
	}
	ptr, sym := fg.frame, fg.sym
	for i := 0; i < hops; i++ {
		slot := fg.cur.NewGetElementPtr(sym.frame, ptr, fg.gen.index(0), fg.gen.index(0))
		ptr = fg.cur.NewLoad(types.NewPointer(sym.parent.frame), slot)
		sym = sym.parent
	}
	return ptr, sym
}

// index returns an i32 constant for use as a GEP index.
func (g *Generator) index(i int64) constant.Constant {
	return constant.NewInt(types.I32, i)
}
