package main

import (
	"sort"

	"github.com/palc-lang/palc/pkg/ast"
)

// The driver has no frontend; it carries a handful of built-in programs in
// already-analyzed form, the way the semantic analyzer would hand them over.
// Each builder returns a fresh tree so repeated compilations never share
// nodes.
var samples = map[string]func() *ast.Program{
	"countdown": sampleCountdown,
	"nested":    sampleNested,
	"swap":      sampleSwap,
	"bytes":     sampleBytes,
	"squares":   sampleSquares,
}

func sampleNames() []string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func num(v int64) *ast.Node { return ast.NewNumber(v) }

// local builds a reference to a local variable of the current function.
func local(name string, slot int, typ *ast.Type) *ast.Node {
	return ast.NewVarRef(name, 0, slot, false, false, typ, nil)
}

// outer builds a reference to a variable one access-link hop away.
func outer(name string, slot int, typ *ast.Type) *ast.Node {
	return ast.NewVarRef(name, 1, slot, false, false, typ, nil)
}

// procedure main()
//   var n: int
//   n := 10
//   while n > 0 do
//     pal_writeint(n)
//     n := n - 1
func sampleCountdown() *ast.Program {
	n := func() *ast.Node { return local("n", 0, ast.TypeInt) }
	body := ast.NewBlock([]*ast.Node{
		ast.NewAssign(n(), num(10)),
		ast.NewWhile(
			ast.NewRelation(ast.Gt, ast.TypeInt, n(), num(0)),
			ast.NewBlock([]*ast.Node{
				ast.NewCall("pal_writeint", 0, 0, []*ast.Node{n()}),
				ast.NewAssign(n(), ast.NewBinaryOp(ast.Sub, ast.TypeInt, n(), num(1))),
			}),
		),
	})
	main := ast.NewFuncDecl("main",
		nil,
		[]*ast.Node{ast.NewVarDecl("n", ast.TypeInt)},
		body, nil, 0)
	return ast.NewProgram(main)
}

// procedure main()
//   var total: int
//   procedure add(v: int)
//     total := total + v
//   procedure twice(v: int)
//     add(v)
//     add(v)
//   total := 0
//   twice(3)
//   twice(4)
//   pal_writeint(total)
//
// add and twice reach total through one access-link hop; twice calls its
// sibling add by passing main's frame along.
func sampleNested() *ast.Program {
	add := ast.NewFuncDecl("main.add",
		[]*ast.Node{ast.NewParam("v", ast.TypeInt, false)},
		nil,
		ast.NewBlock([]*ast.Node{
			ast.NewAssign(
				outer("total", 0, ast.TypeInt),
				ast.NewBinaryOp(ast.Add, ast.TypeInt,
					outer("total", 0, ast.TypeInt),
					ast.NewVarRef("v", 0, 0, true, false, ast.TypeInt, nil)),
			),
		}),
		nil, 1)

	callAdd := func() *ast.Node {
		return ast.NewCall("main.add", 1, 1, []*ast.Node{
			ast.NewVarRef("v", 0, 0, true, false, ast.TypeInt, nil),
		})
	}
	twice := ast.NewFuncDecl("main.twice",
		[]*ast.Node{ast.NewParam("v", ast.TypeInt, false)},
		nil,
		ast.NewBlock([]*ast.Node{callAdd(), callAdd()}),
		nil, 1)

	main := ast.NewFuncDecl("main",
		nil,
		[]*ast.Node{
			ast.NewVarDecl("total", ast.TypeInt),
			add,
			twice,
		},
		ast.NewBlock([]*ast.Node{
			ast.NewAssign(local("total", 0, ast.TypeInt), num(0)),
			ast.NewCall("main.twice", 0, 1, []*ast.Node{num(3)}),
			ast.NewCall("main.twice", 0, 1, []*ast.Node{num(4)}),
			ast.NewCall("pal_writeint", 0, 0, []*ast.Node{local("total", 0, ast.TypeInt)}),
		}),
		nil, 0)
	ast.SetParent(add, main)
	ast.SetParent(twice, main)
	return ast.NewProgram(main)
}

// procedure main()
//   var a: int
//   var b: int
//   procedure swap(ref x: int, ref y: int)
//     var t: int
//     t := x; x := y; y := t
//   function min(x: int, y: int): int
//     if x < y then return x
//     return y
//   a := 3; b := 9
//   swap(a, b)
//   pal_writeint(a)
//   pal_writeint(b)
//   pal_writeint(min(a, b))
func sampleSwap() *ast.Program {
	refX := func() *ast.Node { return ast.NewVarRef("x", 0, 0, true, true, ast.TypeInt, nil) }
	refY := func() *ast.Node { return ast.NewVarRef("y", 0, 1, true, true, ast.TypeInt, nil) }
	swap := ast.NewFuncDecl("main.swap",
		[]*ast.Node{
			ast.NewParam("x", ast.TypeInt, true),
			ast.NewParam("y", ast.TypeInt, true),
		},
		[]*ast.Node{ast.NewVarDecl("t", ast.TypeInt)},
		ast.NewBlock([]*ast.Node{
			ast.NewAssign(local("t", 2, ast.TypeInt), refX()),
			ast.NewAssign(refX(), refY()),
			ast.NewAssign(refY(), local("t", 2, ast.TypeInt)),
		}),
		nil, 1)

	valX := func() *ast.Node { return ast.NewVarRef("x", 0, 0, true, false, ast.TypeInt, nil) }
	valY := func() *ast.Node { return ast.NewVarRef("y", 0, 1, true, false, ast.TypeInt, nil) }
	min := ast.NewFuncDecl("main.min",
		[]*ast.Node{
			ast.NewParam("x", ast.TypeInt, false),
			ast.NewParam("y", ast.TypeInt, false),
		},
		nil,
		ast.NewBlock([]*ast.Node{
			ast.NewIf(
				ast.NewRelation(ast.Lt, ast.TypeInt, valX(), valY()),
				ast.NewReturn(valX()),
				nil,
			),
			ast.NewReturn(valY()),
		}),
		ast.TypeInt, 1)

	a := func() *ast.Node { return local("a", 0, ast.TypeInt) }
	b := func() *ast.Node { return local("b", 1, ast.TypeInt) }
	main := ast.NewFuncDecl("main",
		nil,
		[]*ast.Node{
			ast.NewVarDecl("a", ast.TypeInt),
			ast.NewVarDecl("b", ast.TypeInt),
			swap,
			min,
		},
		ast.NewBlock([]*ast.Node{
			ast.NewAssign(a(), num(3)),
			ast.NewAssign(b(), num(9)),
			ast.NewCall("main.swap", 0, 1, []*ast.Node{a(), b()}),
			ast.NewCall("pal_writeint", 0, 0, []*ast.Node{a()}),
			ast.NewCall("pal_writeint", 0, 0, []*ast.Node{b()}),
			ast.NewCall("pal_writeint", 0, 0, []*ast.Node{
				ast.NewCall("main.min", 0, 1, []*ast.Node{a(), b()}),
			}),
		}),
		nil, 0)
	ast.SetParent(swap, main)
	ast.SetParent(min, main)
	return ast.NewProgram(main)
}

// procedure main()
//   var b: byte
//   b := 200
//   b := b / 3
//   if b < 100 then pal_writestr("small")
//   pal_writebyte(b)
//
// Byte arithmetic is unsigned, so the division and the comparison come out
// as udiv and ult.
func sampleBytes() *ast.Program {
	b := func() *ast.Node { return local("b", 0, ast.TypeByte) }
	main := ast.NewFuncDecl("main",
		nil,
		[]*ast.Node{ast.NewVarDecl("b", ast.TypeByte)},
		ast.NewBlock([]*ast.Node{
			ast.NewAssign(b(), ast.NewChar(200)),
			ast.NewAssign(b(), ast.NewBinaryOp(ast.Div, ast.TypeByte, b(), ast.NewChar(3))),
			ast.NewIf(
				ast.NewRelation(ast.Lt, ast.TypeByte, b(), ast.NewChar(100)),
				ast.NewCall("pal_writestr", 0, 0, []*ast.Node{ast.NewString("small")}),
				nil,
			),
			ast.NewCall("pal_writebyte", 0, 0, []*ast.Node{b()}),
		}),
		nil, 0)
	return ast.NewProgram(main)
}

// procedure main()
//   var xs: array 5 of int
//   var i: int
//   i := 0
//   while i < 5 do
//     xs[i] := i * i
//     i := i + 1
//   i := 0
//   while i < 5 do
//     pal_writeint(xs[i])
//     i := i + 1
func sampleSquares() *ast.Program {
	arrTy := ast.NewArrayType(ast.TypeInt, 5)
	i := func() *ast.Node { return local("i", 1, ast.TypeInt) }
	elem := func() *ast.Node {
		return ast.NewVarRef("xs", 0, 0, false, false, arrTy, i())
	}
	main := ast.NewFuncDecl("main",
		nil,
		[]*ast.Node{
			ast.NewVarDecl("xs", arrTy),
			ast.NewVarDecl("i", ast.TypeInt),
		},
		ast.NewBlock([]*ast.Node{
			ast.NewAssign(i(), num(0)),
			ast.NewWhile(
				ast.NewRelation(ast.Lt, ast.TypeInt, i(), num(5)),
				ast.NewBlock([]*ast.Node{
					ast.NewAssign(elem(), ast.NewBinaryOp(ast.Mul, ast.TypeInt, i(), i())),
					ast.NewAssign(i(), ast.NewBinaryOp(ast.Add, ast.TypeInt, i(), num(1))),
				}),
			),
			ast.NewAssign(i(), num(0)),
			ast.NewWhile(
				ast.NewRelation(ast.Lt, ast.TypeInt, i(), num(5)),
				ast.NewBlock([]*ast.Node{
					ast.NewCall("pal_writeint", 0, 0, []*ast.Node{elem()}),
					ast.NewAssign(i(), ast.NewBinaryOp(ast.Add, ast.TypeInt, i(), num(1))),
				}),
			),
		}),
		nil, 0)
	return ast.NewProgram(main)
}
