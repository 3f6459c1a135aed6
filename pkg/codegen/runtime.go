package codegen

import (
	"github.com/llir/llvm/ir"

	"github.com/palc-lang/palc/pkg/ast"
)

// Runtime primitive names. The I/O and string operations are forward
// declarations whose bodies live in a separate runtime library; the widen,
// narrow and byte I/O helpers are pure glue whose bodies the generator
// emits itself.
const (
	RtWriteInt  = "pal_writeint"
	RtWriteByte = "pal_writebyte"
	RtWriteStr  = "pal_writestr"
	RtReadInt   = "pal_readint"
	RtReadByte  = "pal_readbyte"
	RtReadStr   = "pal_readstr"
	RtStrLen    = "pal_strlen"
	RtStrCmp    = "pal_strcmp"
	RtStrCpy    = "pal_strcpy"
	RtStrCat    = "pal_strcat"
	RtWiden     = "pal_widen"
	RtNarrow    = "pal_narrow"
)

// declareRuntime populates the callable namespace with the runtime
// primitives. None of them takes an access link.
func (g *Generator) declareRuntime() {
	str := ast.TypeString

	g.declarePrim(RtWriteInt, nil, p("v", ast.TypeInt))
	g.declarePrim(RtWriteStr, nil, p("s", str))
	g.declarePrim(RtReadInt, ast.TypeInt)
	g.declarePrim(RtReadStr, nil, p("s", str))
	g.declarePrim(RtStrLen, ast.TypeInt, p("s", str))
	g.declarePrim(RtStrCmp, ast.TypeInt, p("a", str), p("b", str))
	g.declarePrim(RtStrCpy, nil, p("dst", str), p("src", str))
	g.declarePrim(RtStrCat, nil, p("dst", str), p("src", str))

	widen := g.declarePrim(RtWiden, ast.TypeInt, p("b", ast.TypeByte))
	narrow := g.declarePrim(RtNarrow, ast.TypeByte, p("v", ast.TypeInt))
	writeByte := g.declarePrim(RtWriteByte, nil, p("b", ast.TypeByte))
	readByte := g.declarePrim(RtReadByte, ast.TypeByte)

	g.emitGlue(widen, narrow, writeByte, readByte)
}

func p(name string, typ *ast.Type) *ast.Node {
	return ast.NewParam(name, typ, false)
}

func (g *Generator) declarePrim(name string, ret *ast.Type, params ...*ast.Node) *fnSymbol {
	var irParams []*ir.Param
	for _, pn := range params {
		pd := pn.Data.(ast.ParamNode)
		irParams = append(irParams, ir.NewParam(pd.Name, g.paramType(pd)))
	}
	f := g.m.NewFunc(name, g.returnType(ret), irParams...)

	sym := &fnSymbol{
		name:   name,
		irFunc: f,
		params: params,
		ret:    ret,
	}
	sym.parent = sym
	return g.declare(sym)
}

// emitGlue defines the helpers that are pure IR: widening and narrowing
// between byte and int, and byte-level I/O expressed through the
// int-level primitives.
func (g *Generator) emitGlue(widen, narrow, writeByte, readByte *fnSymbol) {
	wb := widen.irFunc.NewBlock("entry")
	wb.NewRet(wb.NewZExt(widen.irFunc.Params[0], g.intTy))

	nb := narrow.irFunc.NewBlock("entry")
	nb.NewRet(nb.NewTrunc(narrow.irFunc.Params[0], g.byteTy))

	ob := writeByte.irFunc.NewBlock("entry")
	widened := ob.NewCall(widen.irFunc, writeByte.irFunc.Params[0])
	ob.NewCall(g.lookup(RtWriteInt).irFunc, widened)
	ob.NewRet(nil)

	rb := readByte.irFunc.NewBlock("entry")
	raw := rb.NewCall(g.lookup(RtReadInt).irFunc)
	rb.NewRet(rb.NewCall(narrow.irFunc, raw))
}
