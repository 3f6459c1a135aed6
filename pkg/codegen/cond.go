package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"github.com/palc-lang/palc/pkg/ast"
)

// lowerCond lowers a boolean condition to a single i1 value in the current
// block chain. Short-circuit and/or produce a control-flow merge: the
// second operand is evaluated in a separate block that only runs when the
// first operand did not already decide the result, and the merged value is
// a phi over the two paths.
func (fg *funcGen) lowerCond(n *ast.Node) value.Value {
	g := fg.gen
	switch n.Kind {
	case ast.BoolLit:
		return constant.NewBool(n.Data.(ast.BoolLitNode).Value)

	case ast.Not:
		v := fg.lowerCond(n.Data.(ast.NotNode).Cond)
		return fg.cur.NewXor(v, constant.True)

	case ast.Relation:
		return fg.lowerRelation(n.Data.(ast.RelationNode))

	case ast.Logic:
		return fg.lowerLogic(n.Data.(ast.LogicNode))
	}
	g.failf("unhandled condition kind %d", n.Kind)
	return nil
}

// lowerRelation compares two expressions. Ordered predicates are signed for
// int operands and unsigned for byte operands; equality and inequality are
// sign-agnostic.
func (fg *funcGen) lowerRelation(d ast.RelationNode) value.Value {
	g := fg.gen
	l := fg.lowerExpr(d.L)
	r := fg.lowerExpr(d.R)

	var pred enum.IPred
	switch d.Op {
	case ast.Eq:
		pred = enum.IPredEQ
	case ast.Ne:
		pred = enum.IPredNE
	case ast.Lt, ast.Le, ast.Gt, ast.Ge:
		signed := fg.signedOperands(d.Typ)
		switch {
		case d.Op == ast.Lt && signed:
			pred = enum.IPredSLT
		case d.Op == ast.Lt:
			pred = enum.IPredULT
		case d.Op == ast.Le && signed:
			pred = enum.IPredSLE
		case d.Op == ast.Le:
			pred = enum.IPredULE
		case d.Op == ast.Gt && signed:
			pred = enum.IPredSGT
		case d.Op == ast.Gt:
			pred = enum.IPredUGT
		case d.Op == ast.Ge && signed:
			pred = enum.IPredSGE
		default:
			pred = enum.IPredUGE
		}
	default:
		g.failf("unhandled relational operator %d", d.Op)
	}
	return fg.cur.NewICmp(pred, l, r)
}

func (fg *funcGen) lowerLogic(d ast.LogicNode) value.Value {
	g := fg.gen

	c1 := fg.lowerCond(d.L)
	first := fg.cur

	middle := fg.f.NewBlock("")
	merge := fg.f.NewBlock("")
	switch d.Op {
	case ast.And:
		first.NewCondBr(c1, middle, merge)
	case ast.Or:
		first.NewCondBr(c1, merge, middle)
	default:
		g.failf("unhandled logical operator %d", d.Op)
	}

	fg.cur = middle
	c2 := fg.lowerCond(d.R)
	var combined value.Value
	if d.Op == ast.And {
		combined = fg.cur.NewAnd(c1, c2)
	} else {
		combined = fg.cur.NewOr(c1, c2)
	}
	evaluated := fg.cur
	evaluated.NewBr(merge)

	fg.cur = merge
	return merge.NewPhi(ir.NewIncoming(c1, first), ir.NewIncoming(combined, evaluated))
}
