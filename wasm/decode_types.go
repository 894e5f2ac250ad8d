package wasm

import (
	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm/internal/binary"
)

// validValType reports whether b is a value type under the enabled features.
func (d *decoder) validValType(b byte) bool {
	switch ValType(b) {
	case ValI32, ValI64, ValF32, ValF64:
		return true
	case ValV128:
		return d.opts.Features.SIMD
	case ValFuncRef, ValExtern:
		return d.opts.Features.ReferenceTypes
	}
	return false
}

// validElemType reports whether b may be a table element type.
func (d *decoder) validElemType(b byte) bool {
	switch ValType(b) {
	case ValFuncRef:
		return true
	case ValExtern:
		return d.opts.Features.ReferenceTypes
	}
	return false
}

func (d *decoder) readFuncType(c *binary.Cursor) (FuncType, error) {
	off := c.Pos()
	prefix, _ := c.ReadByte()
	if prefix != FuncTypePrefix {
		return FuncType{}, errors.WithByte(errors.CodeIllegalTypePrefix, off, prefix)
	}

	params, _, err := d.readValTypes(c, errors.CodeInvalidParameterLength, errors.CodeIllegalParameterLength)
	if err != nil {
		return FuncType{}, err
	}
	results, resultsOff, err := d.readValTypes(c, errors.CodeInvalidResultLength, errors.CodeIllegalResultLength)
	if err != nil {
		return FuncType{}, err
	}
	if len(results) > 1 && !d.opts.Features.MultiValue {
		return FuncType{}, errors.WithU32(errors.CodeWasm1NotAllowMultiValue, resultsOff, uint32(len(results)))
	}
	return FuncType{Params: params, Results: results}, nil
}

// readValTypes reads a length-prefixed value type vector and returns the
// offset of its length field.
func (d *decoder) readValTypes(c *binary.Cursor, invalid, illegal errors.Code) ([]ValType, int, error) {
	off := c.Pos()
	n, err := c.ReadU32()
	if err != nil {
		return nil, off, errors.Malformed(invalid, off, err)
	}
	if uint64(n) > uint64(c.Len()) {
		return nil, off, errors.WithU32(illegal, off, n)
	}
	if n == 0 {
		return nil, off, nil
	}
	types := make([]ValType, n)
	for i := range types {
		at := c.Pos()
		b, _ := c.ReadByte()
		if !d.validValType(b) {
			return nil, off, errors.WithByte(errors.CodeIllegalValueType, at, b)
		}
		types[i] = ValType(b)
	}
	return types, off, nil
}

func (d *decoder) readLimits(c *binary.Cursor) (Limits, error) {
	off := c.Pos()
	flag, err := c.ReadByte()
	if err != nil {
		return Limits{}, errors.Malformed(errors.CodeLimitTypeCannotFindFlag, off, err)
	}
	if flag != LimitsMinOnly && flag != LimitsMinMax {
		return Limits{}, errors.WithByte(errors.CodeLimitTypeIllegalFlag, off, flag)
	}

	minOff := c.Pos()
	lo, err := c.ReadU32()
	if err != nil {
		return Limits{}, errors.Malformed(errors.CodeLimitTypeInvalidMin, minOff, err)
	}
	if flag == LimitsMinOnly {
		return Limits{Min: lo}, nil
	}

	maxOff := c.Pos()
	hi, err := c.ReadU32()
	if err != nil {
		return Limits{}, errors.Malformed(errors.CodeLimitTypeInvalidMax, maxOff, err)
	}
	if hi < lo {
		return Limits{}, errors.New(errors.CodeLimitTypeMaxLtMin).
			At(maxOff).
			Payload(errors.MinMax{Min: lo, Max: hi}).
			Build()
	}
	return Limits{Min: lo, Max: &hi}, nil
}

func (d *decoder) readTableType(c *binary.Cursor) (TableType, error) {
	off := c.Pos()
	elem, err := c.ReadByte()
	if err != nil {
		return TableType{}, errors.Malformed(errors.CodeTableTypeCannotFindElement, off, err)
	}
	if !d.validElemType(elem) {
		return TableType{}, errors.WithByte(errors.CodeTableTypeIllegalElement, off, elem)
	}
	lim, err := d.readLimits(c)
	if err != nil {
		return TableType{}, err
	}
	return TableType{ElemType: ValType(elem), Limits: lim}, nil
}

func (d *decoder) readMemoryType(c *binary.Cursor) (MemoryType, error) {
	lim, err := d.readLimits(c)
	if err != nil {
		return MemoryType{}, err
	}
	return MemoryType{Limits: lim}, nil
}

func (d *decoder) readGlobalType(c *binary.Cursor) (GlobalType, error) {
	off := c.Pos()
	vt, err := c.ReadByte()
	if err != nil {
		return GlobalType{}, errors.Malformed(errors.CodeGlobalTypeCannotFindValtype, off, err)
	}
	if !d.validValType(vt) {
		return GlobalType{}, errors.WithByte(errors.CodeGlobalTypeIllegalValtype, off, vt)
	}

	off = c.Pos()
	mut, err := c.ReadByte()
	if err != nil {
		return GlobalType{}, errors.Malformed(errors.CodeGlobalTypeCannotFindMut, off, err)
	}
	if mut != MutConst && mut != MutVar {
		return GlobalType{}, errors.WithByte(errors.CodeGlobalTypeIllegalMut, off, mut)
	}
	return GlobalType{ValType: ValType(vt), Mutable: mut == MutVar}, nil
}

// readTypeIdx reads a function type index and checks it against the type
// section.
func (d *decoder) readTypeIdx(c *binary.Cursor) (uint32, error) {
	off := c.Pos()
	idx, err := c.ReadU32()
	if err != nil {
		return 0, errors.Malformed(errors.CodeInvalidTypeIndex, off, err)
	}
	if uint64(idx) >= uint64(len(d.m.Types)) {
		return 0, errors.WithU32(errors.CodeIllegalTypeIndex, off, idx)
	}
	return idx, nil
}
