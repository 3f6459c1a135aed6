package codegen

import (
	"github.com/llir/llvm/ir/types"

	"github.com/palc-lang/palc/pkg/ast"
)

// buildFrame computes the ordered field list of a function's activation
// record: field 0 is the access link (a pointer to the enclosing function's
// frame), followed by one field per declared parameter and one per local
// variable. Nested function declarations contribute no fields. Parameter
// fields mirror the passing convention (paramType), so the prologue can
// store each incoming argument into its slot unchanged; local arrays are
// laid out inline.
func (g *Generator) buildFrame(params, locals []*ast.Node, parent *types.StructType) []types.Type {
	fields := make([]types.Type, 0, 1+len(params)+len(locals))
	fields = append(fields, types.NewPointer(parent))
	for _, p := range params {
		fields = append(fields, g.paramType(p.Data.(ast.ParamNode)))
	}
	for _, l := range locals {
		if l.Kind != ast.VarDecl {
			continue
		}
		d := l.Data.(ast.VarDeclNode)
		if d.Typ.IsArray() || d.Typ.IsScalar() {
			fields = append(fields, g.valueType(d.Typ))
			continue
		}
		g.failf("local %q has unsupported type %s", d.Name, d.Typ)
	}
	return fields
}
