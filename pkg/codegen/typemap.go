package codegen

import (
	"github.com/llir/llvm/ir/types"

	"github.com/palc-lang/palc/pkg/ast"
)

// valueType maps a PAL value type to its LLVM representation. The language's
// type set is closed; anything else is a fault.
func (g *Generator) valueType(t *ast.Type) types.Type {
	if t == nil {
		g.failf("missing type annotation")
	}
	switch t.Kind {
	case ast.TYPE_INT:
		return g.intTy
	case ast.TYPE_BYTE:
		return g.byteTy
	case ast.TYPE_STRING:
		return types.NewPointer(g.byteTy)
	case ast.TYPE_ARRAY:
		if t.Base == nil || !t.Base.IsScalar() {
			g.failf("array of non-scalar element type %s", t.Base)
		}
		return types.NewArray(uint64(t.Len), g.valueType(t.Base))
	}
	g.failf("type %s cannot be mapped to the target", t)
	return nil
}

// paramType maps a declared parameter to the type it is passed as: by-value
// scalars travel as values, by-reference scalars as pointers to the caller's
// storage, and arrays always as pointers to their first element.
func (g *Generator) paramType(p ast.ParamNode) types.Type {
	switch {
	case p.Typ.IsArray():
		if !p.ByRef {
			g.failf("array parameter %q must be passed by reference", p.Name)
		}
		return types.NewPointer(g.valueType(p.Typ.Base))
	case p.ByRef:
		if !p.Typ.IsScalar() {
			g.failf("by-reference parameter %q has non-scalar type %s", p.Name, p.Typ)
		}
		return types.NewPointer(g.valueType(p.Typ))
	default:
		if p.Typ != nil && p.Typ.Kind == ast.TYPE_STRING {
			return g.valueType(p.Typ)
		}
		if !p.Typ.IsScalar() {
			g.failf("by-value parameter %q has non-scalar type %s", p.Name, p.Typ)
		}
		return g.valueType(p.Typ)
	}
}

// returnType maps a declared return type; nil means "no value".
func (g *Generator) returnType(t *ast.Type) types.Type {
	if t == nil || t.Kind == ast.TYPE_VOID {
		return types.Void
	}
	if !t.IsScalar() {
		g.failf("return type %s is not a scalar", t)
	}
	return g.valueType(t)
}
