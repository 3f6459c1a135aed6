package verify

import (
	"strings"
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

func TestValidModule(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunc("f", types.I32, ir.NewParam("x", types.I32))
	entry := f.NewBlock("entry")
	pos := f.NewBlock("pos")
	neg := f.NewBlock("neg")

	cond := entry.NewICmp(enum.IPredSLT, f.Params[0], constant.NewInt(types.I32, 0))
	entry.NewCondBr(cond, neg, pos)
	neg.NewRet(constant.NewInt(types.I32, 0))
	pos.NewRet(f.Params[0])

	if err := Module(m); err != nil {
		t.Errorf("valid module rejected: %v", err)
	}
}

func TestForwardDeclarationSkipped(t *testing.T) {
	m := ir.NewModule()
	m.NewFunc("extern", types.Void, ir.NewParam("x", types.I32))
	if err := Module(m); err != nil {
		t.Errorf("declaration-only function rejected: %v", err)
	}
}

func TestMissingTerminator(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunc("f", types.Void)
	f.NewBlock("entry") // never terminated

	err := Module(m)
	if err == nil {
		t.Fatal("block without terminator accepted")
	}
	if !strings.Contains(err.Error(), "terminator") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReturnTypeMismatch(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunc("f", types.I32)
	f.NewBlock("entry").NewRet(nil)

	if err := Module(m); err == nil {
		t.Fatal("bare ret in a value-returning function accepted")
	}

	m = ir.NewModule()
	f = m.NewFunc("g", types.Void)
	f.NewBlock("entry").NewRet(constant.NewInt(types.I32, 1))

	if err := Module(m); err == nil {
		t.Fatal("valued ret in a void function accepted")
	}
}

func TestCondBrNeedsI1(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunc("f", types.Void)
	entry := f.NewBlock("entry")
	exit := f.NewBlock("exit")
	entry.NewCondBr(constant.NewInt(types.I32, 1), exit, exit)
	exit.NewRet(nil)

	err := Module(m)
	if err == nil {
		t.Fatal("condbr on an i32 condition accepted")
	}
	if !strings.Contains(err.Error(), "i1") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStoreTypeMismatch(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunc("f", types.Void)
	entry := f.NewBlock("entry")
	slot := entry.NewAlloca(types.I8)
	entry.NewStore(constant.NewInt(types.I32, 1), slot)
	entry.NewRet(nil)

	err := Module(m)
	if err == nil {
		t.Fatal("store of i32 through an i8 slot accepted")
	}
	if !strings.Contains(err.Error(), "store") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCallArityMismatch(t *testing.T) {
	m := ir.NewModule()
	callee := m.NewFunc("callee", types.Void, ir.NewParam("x", types.I32))
	f := m.NewFunc("f", types.Void)
	entry := f.NewBlock("entry")
	entry.NewCall(callee)
	entry.NewRet(nil)

	if err := Module(m); err == nil {
		t.Fatal("call with missing argument accepted")
	}
}

func TestCallArgumentTypeMismatch(t *testing.T) {
	m := ir.NewModule()
	callee := m.NewFunc("callee", types.Void, ir.NewParam("x", types.I32))
	f := m.NewFunc("f", types.Void)
	entry := f.NewBlock("entry")
	entry.NewCall(callee, constant.NewInt(types.I8, 1))
	entry.NewRet(nil)

	if err := Module(m); err == nil {
		t.Fatal("call with i8 argument for i32 parameter accepted")
	}
}

func TestPhiMissingPredecessor(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunc("f", types.I32, ir.NewParam("c", types.I1))
	entry := f.NewBlock("entry")
	left := f.NewBlock("left")
	right := f.NewBlock("right")
	merge := f.NewBlock("merge")

	entry.NewCondBr(f.Params[0], left, right)
	left.NewBr(merge)
	right.NewBr(merge)
	// Only one of the two predecessors is named.
	phi := merge.NewPhi(ir.NewIncoming(constant.NewInt(types.I32, 1), left))
	merge.NewRet(phi)

	err := Module(m)
	if err == nil {
		t.Fatal("phi missing a predecessor edge accepted")
	}
	if !strings.Contains(err.Error(), "predecessor") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPhiCoversAllPredecessors(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunc("f", types.I32, ir.NewParam("c", types.I1))
	entry := f.NewBlock("entry")
	left := f.NewBlock("left")
	right := f.NewBlock("right")
	merge := f.NewBlock("merge")

	entry.NewCondBr(f.Params[0], left, right)
	left.NewBr(merge)
	right.NewBr(merge)
	phi := merge.NewPhi(
		ir.NewIncoming(constant.NewInt(types.I32, 1), left),
		ir.NewIncoming(constant.NewInt(types.I32, 2), right),
	)
	merge.NewRet(phi)

	if err := Module(m); err != nil {
		t.Errorf("well-formed phi rejected: %v", err)
	}
}

func TestBinaryOperandTypeMismatch(t *testing.T) {
	m := ir.NewModule()
	f := m.NewFunc("f", types.Void)
	entry := f.NewBlock("entry")
	entry.NewAdd(constant.NewInt(types.I32, 1), constant.NewInt(types.I8, 1))
	entry.NewRet(nil)

	if err := Module(m); err == nil {
		t.Fatal("add over mismatched widths accepted")
	}
}

func TestBranchIntoForeignFunction(t *testing.T) {
	m := ir.NewModule()
	other := m.NewFunc("other", types.Void)
	foreign := other.NewBlock("their")
	foreign.NewRet(nil)

	f := m.NewFunc("f", types.Void)
	f.NewBlock("entry").NewBr(foreign)

	err := Module(m)
	if err == nil {
		t.Fatal("branch into another function's block accepted")
	}
}
