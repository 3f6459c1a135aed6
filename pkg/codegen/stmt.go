package codegen

import (
	"github.com/llir/llvm/ir"

	"github.com/palc-lang/palc/pkg/ast"
	"github.com/palc-lang/palc/pkg/config"
	"github.com/palc-lang/palc/pkg/util"
)

// lowerStmt lowers one statement into the current block and reports whether
// it is terminal, i.e. control cannot fall through past it. Only return is
// terminal directly; compounds are terminal when any member is. Statements
// after a terminal one are still emitted (into a fresh, unreachable block);
// terminal status only decides whether fallthrough branches are appended.
func (fg *funcGen) lowerStmt(n *ast.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case ast.Block:
		terminal := false
		for _, s := range n.Data.(ast.BlockNode).Stmts {
			if terminal && fg.cur.Term != nil {
				util.Warn(fg.gen.cfg, config.WarnUnreachableCode, "unreachable statement in %s", fg.gen.cur)
				fg.cur = fg.f.NewBlock("")
			}
			if fg.lowerStmt(s) {
				terminal = true
			}
		}
		return terminal

	case ast.Assign:
		d := n.Data.(ast.AssignNode)
		val := fg.lowerExpr(d.Rhs)
		addr, typ := fg.lowerLvalue(d.Lhs)
		if typ.IsArray() {
			fg.gen.failf("cannot assign to whole array %q", d.Lhs.Data.(ast.VarRefNode).Name)
		}
		fg.cur.NewStore(val, addr)
		return false

	case ast.Call:
		fg.lowerCall(n)
		return false

	case ast.If:
		return fg.lowerIf(n.Data.(ast.IfNode))

	case ast.While:
		return fg.lowerWhile(n.Data.(ast.WhileNode))

	case ast.Return:
		d := n.Data.(ast.ReturnNode)
		if d.Expr != nil {
			fg.cur.NewRet(fg.lowerExpr(d.Expr))
		} else {
			fg.cur.NewRet(nil)
		}
		return true

	case ast.Empty:
		return false
	}
	fg.gen.failf("unhandled statement kind %d", n.Kind)
	return false
}

// lowerIf emits the conditional branch diamond. Arms that end in a return
// get no fallthrough edge into the merge block. The statement itself is
// reported non-terminal even when both arms return; the merge block then
// simply has no predecessors.
func (fg *funcGen) lowerIf(d ast.IfNode) bool {
	cond := fg.lowerCond(d.Cond)

	thenB := fg.f.NewBlock("")
	var elseB *ir.Block
	if d.Else != nil {
		elseB = fg.f.NewBlock("")
	}
	merge := fg.f.NewBlock("")
	if elseB == nil {
		elseB = merge
	}
	fg.cur.NewCondBr(cond, thenB, elseB)

	fg.cur = thenB
	fg.lowerStmt(d.Then)
	if fg.cur.Term == nil {
		fg.cur.NewBr(merge)
	}

	if d.Else != nil {
		fg.cur = elseB
		fg.lowerStmt(d.Else)
		if fg.cur.Term == nil {
			fg.cur.NewBr(merge)
		}
	}

	fg.cur = merge
	return false
}

// lowerWhile emits the loop head / body / merge triple. The condition is
// re-evaluated in its own block so the back edge has somewhere to land.
func (fg *funcGen) lowerWhile(d ast.WhileNode) bool {
	head := fg.f.NewBlock("")
	body := fg.f.NewBlock("")
	merge := fg.f.NewBlock("")

	fg.cur.NewBr(head)
	fg.cur = head
	cond := fg.lowerCond(d.Cond)
	fg.cur.NewCondBr(cond, body, merge)

	fg.cur = body
	fg.lowerStmt(d.Body)
	if fg.cur.Term == nil {
		fg.cur.NewBr(head)
	}

	fg.cur = merge
	return false
}
