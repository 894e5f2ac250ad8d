package wasm

import (
	stderrors "errors"

	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm/internal/binary"
)

// readConstExpr decodes a constant initializer: exactly one value-producing
// instruction followed by end. The result must have type want. terminator
// is the code reported when the range ends before end is found.
func (d *decoder) readConstExpr(c *binary.Cursor, want ValType, terminator errors.Code) (ConstExpr, error) {
	start := c.Pos()
	var expr ConstExpr
	produced := false

	for {
		off := c.Pos()
		op, err := c.ReadByte()
		if err != nil {
			return ConstExpr{}, errors.Malformed(terminator, off, err)
		}

		if op == OpEnd {
			if !produced {
				return ConstExpr{}, errors.At(errors.CodeInitConstExprStackEmpty, off)
			}
			if expr.Type != want {
				return ConstExpr{}, errors.New(errors.CodeInitConstExprTypeMismatch).
					At(start).
					Payload(errors.ValTypes{Expected: byte(want), Actual: byte(expr.Type)}).
					Build()
			}
			expr.Raw = c.Since(start)
			return expr, nil
		}
		if produced {
			return ConstExpr{}, errors.At(errors.CodeInitConstExprStackShouldBeOnlyOne, off)
		}

		expr.Opcode = op
		if err := d.readConstInstr(c, op, off, &expr, terminator); err != nil {
			return ConstExpr{}, err
		}
		produced = true
	}
}

func (d *decoder) readConstInstr(c *binary.Cursor, op byte, off int, expr *ConstExpr, terminator errors.Code) error {
	immOff := c.Pos()
	var err error

	switch op {
	case OpI32Const:
		var v int32
		v, err = c.ReadS32()
		expr.Type, expr.Value = ValI32, uint64(uint32(v))
	case OpI64Const:
		var v int64
		v, err = c.ReadS64()
		expr.Type, expr.Value = ValI64, uint64(v)
	case OpF32Const:
		var v uint32
		v, err = c.ReadU32LE()
		expr.Type, expr.Value = ValF32, uint64(v)
	case OpF64Const:
		expr.Type = ValF64
		expr.Value, err = c.ReadU64LE()
	case OpGlobalGet:
		var idx uint32
		if idx, err = c.ReadU32(); err != nil {
			break
		}
		if idx >= d.importedGlobals {
			return errors.New(errors.CodeInitConstExprRefIllegalImportedGlobal).
				At(immOff).
				Payload(errors.GlobalRef{Index: idx, Imported: d.importedGlobals}).
				Build()
		}
		gt := d.m.GlobalType(idx)
		if gt.Mutable {
			return errors.WithU32(errors.CodeInitConstExprRefMutableImportedGlobal, immOff, idx)
		}
		expr.Type, expr.Value = gt.ValType, uint64(idx)
	case OpRefNull:
		if !d.opts.Features.ReferenceTypes {
			return errors.WithByte(errors.CodeInitConstExprIllegalInstruction, off, op)
		}
		var t byte
		if t, err = c.ReadByte(); err != nil {
			break
		}
		if ValType(t) != ValFuncRef && ValType(t) != ValExtern {
			return errors.At(errors.CodeInitConstExprIllegalData, immOff)
		}
		expr.Type = ValType(t)
	case OpRefFunc:
		if !d.opts.Features.ReferenceTypes {
			return errors.WithByte(errors.CodeInitConstExprIllegalInstruction, off, op)
		}
		var idx uint32
		if idx, err = c.ReadU32(); err != nil {
			break
		}
		expr.Type, expr.Value = ValFuncRef, uint64(idx)
	default:
		return errors.WithByte(errors.CodeInitConstExprIllegalInstruction, off, op)
	}

	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, binary.ErrUnexpectedEnd):
		return errors.Malformed(terminator, immOff, err)
	default:
		return errors.Malformed(errors.CodeInitConstExprIllegalData, immOff, err)
	}
}
