package codegen

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/palc-lang/palc/pkg/ast"
)

// lowerExpr lowers a value expression and returns the resulting IR value.
func (fg *funcGen) lowerExpr(n *ast.Node) value.Value {
	g := fg.gen
	switch n.Kind {
	case ast.Number:
		return constant.NewInt(g.intTy, n.Data.(ast.NumberNode).Value)

	case ast.Char:
		return constant.NewInt(g.byteTy, int64(n.Data.(ast.CharNode).Value))

	case ast.String:
		return fg.stringAddr(n.Data.(ast.StringNode).Value)

	case ast.VarRef:
		addr, typ := fg.lowerLvalue(n)
		if typ.IsArray() {
			// An array lvalue already denotes its base address.
			return addr
		}
		return fg.cur.NewLoad(g.valueType(typ), addr)

	case ast.UnaryOp:
		d := n.Data.(ast.UnaryOpNode)
		v := fg.lowerExpr(d.Expr)
		switch d.Op {
		case ast.Plus:
			return v
		case ast.Neg:
			zero := constant.NewInt(fg.scalarType(d.Typ), 0)
			return fg.cur.NewSub(zero, v)
		}
		g.failf("unhandled unary operator %d", d.Op)

	case ast.BinaryOp:
		return fg.lowerBinary(n.Data.(ast.BinaryOpNode))

	case ast.Call:
		res := fg.lowerCall(n)
		if res == nil {
			g.failf("procedure %q used as an expression", n.Data.(ast.CallNode).Callee)
		}
		return res
	}
	g.failf("unhandled expression kind %d", n.Kind)
	return nil
}

// lowerBinary lowers arithmetic. Addition, subtraction and multiplication
// are representation-identical for signed int and unsigned byte; division
// and remainder split on the operands' static type: signed for int,
// unsigned for byte. Any other operand type is a fault, since semantic
// analysis rejects mixed-type arithmetic.
func (fg *funcGen) lowerBinary(d ast.BinaryOpNode) value.Value {
	g := fg.gen
	l := fg.lowerExpr(d.L)
	r := fg.lowerExpr(d.R)
	switch d.Op {
	case ast.Add:
		return fg.cur.NewAdd(l, r)
	case ast.Sub:
		return fg.cur.NewSub(l, r)
	case ast.Mul:
		return fg.cur.NewMul(l, r)
	case ast.Div:
		if fg.signedOperands(d.Typ) {
			return fg.cur.NewSDiv(l, r)
		}
		return fg.cur.NewUDiv(l, r)
	case ast.Rem:
		if fg.signedOperands(d.Typ) {
			return fg.cur.NewSRem(l, r)
		}
		return fg.cur.NewURem(l, r)
	}
	g.failf("unhandled binary operator %d", d.Op)
	return nil
}

// signedOperands reports whether a division, remainder or ordered compare
// over the given static operand type uses the signed instruction variant.
func (fg *funcGen) signedOperands(t *ast.Type) bool {
	if t == nil || !t.IsScalar() {
		fg.gen.failf("operands typed %s reached signedness selection", t)
	}
	return t.Kind == ast.TYPE_INT
}

func (fg *funcGen) scalarType(t *ast.Type) *types.IntType {
	if t != nil && t.Kind == ast.TYPE_BYTE {
		return fg.gen.byteTy
	}
	return fg.gen.intTy
}

// lowerLvalue resolves a variable occurrence to an address. The returned
// type is the denoted type: the element type when a subscript was applied,
// the array type itself when an unsubscripted array (in which case the
// returned value is the base pointer, not a loadable slot address).
func (fg *funcGen) lowerLvalue(n *ast.Node) (value.Value, *ast.Type) {
	g := fg.gen
	if n.Kind == ast.String {
		return fg.stringAddr(n.Data.(ast.StringNode).Value), ast.TypeString
	}
	if n.Kind != ast.VarRef {
		g.failf("expression of kind %d is not an lvalue", n.Kind)
	}
	d := n.Data.(ast.VarRefNode)

	framePtr, owner := fg.walkLinks(d.Hops)
	field := int64(d.Slot + 1)
	if int(field) >= len(owner.frame.Fields) {
		g.failf("variable %q: slot %d out of range for frame of %s", d.Name, d.Slot, owner.name)
	}
	slot := fg.cur.NewGetElementPtr(owner.frame, framePtr, g.index(0), g.index(field))

	var base value.Value
	switch {
	case d.IsParam && d.Typ.IsArray():
		// The slot holds the pointer to the first element.
		base = fg.cur.NewLoad(types.NewPointer(g.valueType(d.Typ.Base)), slot)
	case d.IsParam && d.ByRef:
		// The slot holds a pointer to the caller's storage.
		base = fg.cur.NewLoad(types.NewPointer(g.valueType(d.Typ)), slot)
	case d.Typ.IsArray():
		// Local arrays live inline; decay to the first element's address.
		base = fg.cur.NewGetElementPtr(g.valueType(d.Typ), slot, g.index(0), g.index(0))
	default:
		base = slot
	}

	if d.Index == nil {
		return base, d.Typ
	}
	if !d.Typ.IsArray() {
		g.failf("subscript applied to non-array variable %q", d.Name)
	}
	idx := fg.lowerExpr(d.Index)
	elem := fg.cur.NewGetElementPtr(g.valueType(d.Typ.Base), base, idx)
	return elem, d.Typ.Base
}

// stringAddr interns a string literal as a private read-only global byte
// buffer (bytes plus NUL) and returns a pointer to its first byte. Literal
// globals are content-addressed so identical literals share storage.
func (fg *funcGen) stringAddr(s string) value.Value {
	g := fg.gen
	gv, ok := g.strs[s]
	if !ok {
		name := fmt.Sprintf(".str.%016x", xxhash.Sum64String(s))
		gv = g.m.NewGlobalDef(name, constant.NewCharArrayFromString(s+"\x00"))
		gv.Immutable = true
		gv.Linkage = enum.LinkagePrivate
		gv.UnnamedAddr = enum.UnnamedAddrUnnamedAddr
		g.strs[s] = gv
	}
	return fg.cur.NewGetElementPtr(gv.ContentType, gv, g.index(0), g.index(0))
}
