package codegen

import (
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/palc-lang/palc/pkg/ast"
)

// lowerCall emits a call instruction and returns its result value, or nil
// for procedures. Whether an access link must be synthesized as an extra
// leading argument is recorded on the callee's symbol by the declare phase,
// not inferred from argument counts; the arity relationship is kept only as
// an internal consistency check. The link, when needed, points at the frame
// of the callee's statically enclosing function, reached by walking
// callerDepth - calleeDepth + 1 hops from the current frame.
func (fg *funcGen) lowerCall(n *ast.Node) value.Value {
	g := fg.gen
	d := n.Data.(ast.CallNode)
	callee := g.lookup(d.Callee)

	if len(d.Args) != len(callee.params) {
		g.failf("call to %q passes %d arguments, declared with %d parameters",
			d.Callee, len(d.Args), len(callee.params))
	}

	// Arguments evaluate left to right, before the link walk. By-reference
	// scalars travel as addresses; arrays decay to base pointers on their
	// own during expression lowering.
	args := make([]value.Value, 0, len(d.Args)+1)
	for i, a := range d.Args {
		p := callee.params[i].Data.(ast.ParamNode)
		if p.ByRef && !p.Typ.IsArray() {
			addr, typ := fg.lowerLvalue(a)
			if typ.IsArray() {
				g.failf("call to %q: argument %d is an array, parameter %q wants a scalar reference",
					d.Callee, i, p.Name)
			}
			args = append(args, addr)
			continue
		}
		args = append(args, fg.lowerExpr(a))
	}

	if callee.needsLink {
		hops := d.CallerDepth - d.CalleeDepth + 1
		link, owner := fg.walkLinks(hops)
		if owner.frame != callee.parent.frame {
			g.failf("call to %q: %d-hop access link lands in frame of %s, want %s",
				d.Callee, hops, owner.name, callee.parent.name)
		}
		args = append([]value.Value{link}, args...)
	}

	if len(args) != len(callee.irFunc.Params) {
		g.failf("call to %q: %d actual arguments for %d declared parameters",
			d.Callee, len(args), len(callee.irFunc.Params))
	}

	res := fg.cur.NewCall(callee.irFunc, args...)
	if types.Equal(res.Type(), types.Void) {
		return nil
	}
	return res
}
