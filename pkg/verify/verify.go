// Package verify performs a structural validation pass over a generated
// LLVM module. It is not a full IR verifier; it checks the properties the
// generator is supposed to guarantee by construction, so that a broken
// lowering is caught at compile time instead of surfacing as a crash in
// the system toolchain later.
package verify

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pkg/errors"
)

// Module validates every defined function of m. The first violation found
// is returned; a nil result means the module passed all checks.
func Module(m *ir.Module) error {
	for _, f := range m.Funcs {
		if len(f.Blocks) == 0 {
			continue // forward declaration
		}
		if err := checkFunc(f); err != nil {
			return errors.WithMessagef(err, "function %s", f.Name())
		}
	}
	return nil
}

// fnChecker carries the per-function state: the set of SSA values defined
// in the function and the block topology.
type fnChecker struct {
	f      *ir.Func
	defs   map[value.Value]bool
	blocks map[*ir.Block]bool
	preds  map[*ir.Block][]*ir.Block
}

func checkFunc(f *ir.Func) error {
	c := &fnChecker{
		f:      f,
		defs:   make(map[value.Value]bool),
		blocks: make(map[*ir.Block]bool),
		preds:  make(map[*ir.Block][]*ir.Block),
	}
	for _, p := range f.Params {
		c.defs[p] = true
	}
	for _, b := range f.Blocks {
		c.blocks[b] = true
		for _, inst := range b.Insts {
			if v, ok := inst.(value.Value); ok {
				c.defs[v] = true
			}
		}
	}

	// Terminators first, so that the predecessor map is complete before
	// any phi is inspected.
	for _, b := range f.Blocks {
		if err := c.checkTerm(b); err != nil {
			return errors.WithMessagef(err, "block %s", blockName(b))
		}
	}
	for _, b := range f.Blocks {
		for _, inst := range b.Insts {
			if err := c.checkInst(b, inst); err != nil {
				return errors.WithMessagef(err, "block %s", blockName(b))
			}
		}
	}
	return nil
}

func blockName(b *ir.Block) string {
	if name := b.Name(); name != "" {
		return "%" + name
	}
	return "(unnamed)"
}

// defined reports whether v is usable as an operand: a value defined in
// this function, or a constant (globals and functions are constants).
func (c *fnChecker) defined(v value.Value) bool {
	if _, ok := v.(constant.Constant); ok {
		return true
	}
	return c.defs[v]
}

func (c *fnChecker) operand(what string, v value.Value) error {
	if v == nil {
		return errors.Errorf("%s operand is nil", what)
	}
	if !c.defined(v) {
		return errors.Errorf("%s operand %s is not defined in this function", what, v.Ident())
	}
	return nil
}

func (c *fnChecker) target(what string, v value.Value) (*ir.Block, error) {
	b, ok := v.(*ir.Block)
	if !ok {
		return nil, errors.Errorf("%s target %v is not a basic block", what, v)
	}
	if !c.blocks[b] {
		return nil, errors.Errorf("%s targets block %s of another function", what, blockName(b))
	}
	return b, nil
}

func (c *fnChecker) checkTerm(b *ir.Block) error {
	switch t := b.Term.(type) {
	case nil:
		return errors.New("missing terminator")
	case *ir.TermRet:
		want := c.f.Sig.RetType
		if t.X == nil {
			if !want.Equal(types.Void) {
				return errors.Errorf("ret without value in function returning %s", want)
			}
			return nil
		}
		if err := c.operand("ret", t.X); err != nil {
			return err
		}
		if !t.X.Type().Equal(want) {
			return errors.Errorf("ret of %s in function returning %s", t.X.Type(), want)
		}
	case *ir.TermBr:
		dst, err := c.target("br", t.Target)
		if err != nil {
			return err
		}
		c.preds[dst] = append(c.preds[dst], b)
	case *ir.TermCondBr:
		if err := c.operand("condbr", t.Cond); err != nil {
			return err
		}
		if !t.Cond.Type().Equal(types.I1) {
			return errors.Errorf("condbr condition has type %s, want i1", t.Cond.Type())
		}
		dstT, err := c.target("condbr true", t.TargetTrue)
		if err != nil {
			return err
		}
		dstF, err := c.target("condbr false", t.TargetFalse)
		if err != nil {
			return err
		}
		c.preds[dstT] = append(c.preds[dstT], b)
		c.preds[dstF] = append(c.preds[dstF], b)
	case *ir.TermUnreachable:
		// fine; closes a block nothing falls into
	default:
		return errors.Errorf("unexpected terminator %T", t)
	}
	return nil
}

func (c *fnChecker) checkInst(b *ir.Block, inst ir.Instruction) error {
	switch i := inst.(type) {
	case *ir.InstAlloca:
		if i.ElemType == nil {
			return errors.New("alloca without element type")
		}
	case *ir.InstLoad:
		if err := c.operand("load", i.Src); err != nil {
			return err
		}
		pt, ok := i.Src.Type().(*types.PointerType)
		if !ok {
			return errors.Errorf("load from non-pointer %s", i.Src.Type())
		}
		if !pt.ElemType.Equal(i.ElemType) {
			return errors.Errorf("load of %s through pointer to %s", i.ElemType, pt.ElemType)
		}
	case *ir.InstStore:
		if err := c.operand("store value", i.Src); err != nil {
			return err
		}
		if err := c.operand("store address", i.Dst); err != nil {
			return err
		}
		pt, ok := i.Dst.Type().(*types.PointerType)
		if !ok {
			return errors.Errorf("store to non-pointer %s", i.Dst.Type())
		}
		if !pt.ElemType.Equal(i.Src.Type()) {
			return errors.Errorf("store of %s through pointer to %s", i.Src.Type(), pt.ElemType)
		}
	case *ir.InstGetElementPtr:
		if err := c.operand("gep base", i.Src); err != nil {
			return err
		}
		if _, ok := i.Src.Type().(*types.PointerType); !ok {
			return errors.Errorf("gep base has non-pointer type %s", i.Src.Type())
		}
		for _, idx := range i.Indices {
			if err := c.operand("gep index", idx); err != nil {
				return err
			}
		}
	case *ir.InstCall:
		return c.checkCall(i)
	case *ir.InstICmp:
		if err := c.operand("icmp", i.X); err != nil {
			return err
		}
		if err := c.operand("icmp", i.Y); err != nil {
			return err
		}
		if !i.X.Type().Equal(i.Y.Type()) {
			return errors.Errorf("icmp between %s and %s", i.X.Type(), i.Y.Type())
		}
	case *ir.InstAdd:
		return c.binary("add", i.X, i.Y)
	case *ir.InstSub:
		return c.binary("sub", i.X, i.Y)
	case *ir.InstMul:
		return c.binary("mul", i.X, i.Y)
	case *ir.InstSDiv:
		return c.binary("sdiv", i.X, i.Y)
	case *ir.InstUDiv:
		return c.binary("udiv", i.X, i.Y)
	case *ir.InstSRem:
		return c.binary("srem", i.X, i.Y)
	case *ir.InstURem:
		return c.binary("urem", i.X, i.Y)
	case *ir.InstAnd:
		return c.binary("and", i.X, i.Y)
	case *ir.InstOr:
		return c.binary("or", i.X, i.Y)
	case *ir.InstXor:
		return c.binary("xor", i.X, i.Y)
	case *ir.InstZExt:
		return c.extend("zext", i.From, i.To, false)
	case *ir.InstTrunc:
		return c.extend("trunc", i.From, i.To, true)
	case *ir.InstPhi:
		return c.checkPhi(b, i)
	default:
		return errors.Errorf("unexpected instruction %T", inst)
	}
	return nil
}

func (c *fnChecker) binary(what string, x, y value.Value) error {
	if err := c.operand(what, x); err != nil {
		return err
	}
	if err := c.operand(what, y); err != nil {
		return err
	}
	if !x.Type().Equal(y.Type()) {
		return errors.Errorf("%s between %s and %s", what, x.Type(), y.Type())
	}
	if _, ok := x.Type().(*types.IntType); !ok {
		return errors.Errorf("%s on non-integer type %s", what, x.Type())
	}
	return nil
}

func (c *fnChecker) extend(what string, from value.Value, to types.Type, shrink bool) error {
	if err := c.operand(what, from); err != nil {
		return err
	}
	src, ok := from.Type().(*types.IntType)
	if !ok {
		return errors.Errorf("%s of non-integer %s", what, from.Type())
	}
	dst, ok := to.(*types.IntType)
	if !ok {
		return errors.Errorf("%s to non-integer %s", what, to)
	}
	if shrink && dst.BitSize >= src.BitSize {
		return errors.Errorf("%s from i%d to i%d does not shrink", what, src.BitSize, dst.BitSize)
	}
	if !shrink && dst.BitSize <= src.BitSize {
		return errors.Errorf("%s from i%d to i%d does not widen", what, src.BitSize, dst.BitSize)
	}
	return nil
}

func (c *fnChecker) checkCall(i *ir.InstCall) error {
	callee, ok := i.Callee.(*ir.Func)
	if !ok {
		return errors.Errorf("indirect call through %v", i.Callee)
	}
	sig := callee.Sig
	if len(i.Args) != len(sig.Params) {
		return errors.Errorf("call to %s with %d arguments, signature has %d",
			callee.Name(), len(i.Args), len(sig.Params))
	}
	for n, arg := range i.Args {
		if err := c.operand(fmt.Sprintf("call argument %d", n), arg); err != nil {
			return err
		}
		if !arg.Type().Equal(sig.Params[n]) {
			return errors.Errorf("call to %s: argument %d has type %s, want %s",
				callee.Name(), n, arg.Type(), sig.Params[n])
		}
	}
	return nil
}

// checkPhi verifies that a phi names each of its block's predecessors
// exactly once, with a value of the phi's own type.
func (c *fnChecker) checkPhi(b *ir.Block, i *ir.InstPhi) error {
	seen := make(map[*ir.Block]bool)
	for _, inc := range i.Incs {
		pred, err := c.target("phi", inc.Pred)
		if err != nil {
			return err
		}
		if seen[pred] {
			return errors.Errorf("phi lists predecessor %s twice", blockName(pred))
		}
		seen[pred] = true
		if err := c.operand("phi", inc.X); err != nil {
			return err
		}
		if !inc.X.Type().Equal(i.Type()) {
			return errors.Errorf("phi of %s with incoming %s", i.Type(), inc.X.Type())
		}
	}
	for _, pred := range c.preds[b] {
		if !seen[pred] {
			return errors.Errorf("phi is missing an incoming edge for predecessor %s", blockName(pred))
		}
	}
	if len(seen) != len(dedup(c.preds[b])) {
		return errors.Errorf("phi lists %d predecessors, block has %d", len(seen), len(dedup(c.preds[b])))
	}
	return nil
}

func dedup(blocks []*ir.Block) []*ir.Block {
	seen := make(map[*ir.Block]bool, len(blocks))
	var out []*ir.Block
	for _, b := range blocks {
		if !seen[b] {
			seen[b] = true
			out = append(out, b)
		}
	}
	return out
}
