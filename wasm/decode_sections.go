package wasm

import (
	"math"

	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm/internal/binary"
)

var (
	typeVector = binary.VectorCodes{
		Invalid:  errors.CodeInvalidTypeCount,
		Exceeded: errors.CodeTypeSectionResolvedExceeded,
		Mismatch: errors.CodeTypeSectionResolvedNotMatch,
		Limit:    "types",
	}
	importVector = binary.VectorCodes{
		Invalid:  errors.CodeInvalidImportCount,
		Exceeded: errors.CodeImportSectionResolvedExceeded,
		Mismatch: errors.CodeImportSectionResolvedNotMatch,
		Limit:    "imports",
	}
	funcVector = binary.VectorCodes{
		Invalid:  errors.CodeInvalidFuncCount,
		Exceeded: errors.CodeFuncSectionResolvedExceeded,
		Mismatch: errors.CodeFuncSectionResolvedNotMatch,
		Limit:    "funcs",
	}
	tableVector = binary.VectorCodes{
		Invalid:  errors.CodeInvalidTableCount,
		Exceeded: errors.CodeTableSectionResolvedExceeded,
		Mismatch: errors.CodeTableSectionResolvedNotMatch,
		Limit:    "tables",
	}
	memoryVector = binary.VectorCodes{
		Invalid:  errors.CodeInvalidMemoryCount,
		Exceeded: errors.CodeMemorySectionResolvedExceeded,
		Mismatch: errors.CodeMemorySectionResolvedNotMatch,
		Limit:    "memories",
	}
	globalVector = binary.VectorCodes{
		Invalid:  errors.CodeInvalidGlobalCount,
		Exceeded: errors.CodeGlobalSectionResolvedExceeded,
		Mismatch: errors.CodeGlobalSectionResolvedNotMatch,
		Limit:    "globals",
	}
	exportVector = binary.VectorCodes{
		Invalid:  errors.CodeInvalidExportCount,
		Exceeded: errors.CodeExportSectionResolvedExceeded,
		Mismatch: errors.CodeExportSectionResolvedNotMatch,
		Limit:    "exports",
	}
	elemVector = binary.VectorCodes{
		Invalid:  errors.CodeInvalidElemCount,
		Exceeded: errors.CodeElemSectionResolvedExceeded,
		Mismatch: errors.CodeElemSectionResolvedNotMatch,
		Limit:    "elems",
	}
	elemFuncIdxCount = binary.VectorCodes{
		Invalid: errors.CodeInvalidElemFuncidxCount,
		Limit:   "elem_funcidx",
	}
	codeVector = binary.VectorCodes{
		Invalid:  errors.CodeInvalidCodeCount,
		Exceeded: errors.CodeCodeSectionResolvedExceeded,
		Mismatch: errors.CodeCodeSectionResolvedNotMatch,
		Limit:    "codes",
	}
	dataVector = binary.VectorCodes{
		Invalid:  errors.CodeInvalidDataCount,
		Exceeded: errors.CodeDataSectionResolvedExceeded,
		Mismatch: errors.CodeDataSectionResolvedNotMatch,
		Limit:    "data",
	}

	importModuleName = binary.NameCodes{
		Invalid: errors.CodeInvalidImportModuleNameLength,
		Empty:   errors.CodeImportModuleNameLengthCannotBeZero,
		TooLong: errors.CodeImportModuleNameTooLength,
	}
	importExternName = binary.NameCodes{
		Invalid: errors.CodeInvalidImportExternNameLength,
		Empty:   errors.CodeImportExternNameLengthCannotBeZero,
		TooLong: errors.CodeImportExternNameTooLength,
	}
	exportName = binary.NameCodes{
		Invalid: errors.CodeInvalidExportNameLength,
		Empty:   errors.CodeExportNameLengthCannotBeZero,
		TooLong: errors.CodeExportNameTooLength,
	}
	customName = binary.NameCodes{
		Invalid: errors.CodeInvalidCustomNameLength,
		Empty:   errors.CodeOK,
		TooLong: errors.CodeIllegalCustomNameLength,
	}
)

func (d *decoder) parseCustomSection(c *binary.Cursor) error {
	name, err := binary.ReadName(c, customName)
	if err != nil {
		return err
	}
	d.m.CustomSections = append(d.m.CustomSections, CustomSection{
		Name: name,
		Data: c.Skip(),
	})
	return nil
}

func (d *decoder) parseTypeSection(c *binary.Cursor) error {
	types, err := binary.ReadVector(c, typeVector, d.opts.Limits.Types, d.readFuncType)
	if err != nil {
		return err
	}
	d.m.Types = types
	return nil
}

func (d *decoder) parseImportSection(c *binary.Cursor) error {
	imports, err := binary.ReadVector(c, importVector, d.opts.Limits.Imports, d.readImport)
	if err != nil {
		return err
	}
	d.m.Imports = imports
	return nil
}

func (d *decoder) readImport(c *binary.Cursor) (Import, error) {
	var imp Import
	var err error
	if imp.Module, err = binary.ReadName(c, importModuleName); err != nil {
		return Import{}, err
	}
	if imp.Name, err = binary.ReadName(c, importExternName); err != nil {
		return Import{}, err
	}

	off := c.Pos()
	kind, err := c.ReadByte()
	if err != nil {
		return Import{}, errors.Malformed(errors.CodeImportMissingImportType, off, err)
	}
	imp.Desc.Kind = kind

	switch kind {
	case KindFunc:
		if err := d.requires(SectionType); err != nil {
			return Import{}, err
		}
		if imp.Desc.TypeIdx, err = d.readTypeIdx(c); err != nil {
			return Import{}, err
		}
		d.importedFuncs++
	case KindTable:
		tt, err := d.readTableType(c)
		if err != nil {
			return Import{}, err
		}
		d.importedTables++
		if d.importedTables > 1 && !d.opts.Features.MultiTable {
			return Import{}, errors.New(errors.CodeWasm1NotAllowMultiTable).
				At(off).
				Payload(errors.ImportDefine{Kind: KindTable, Imported: d.importedTables}).
				Build()
		}
		imp.Desc.Table = &tt
	case KindMemory:
		mt, err := d.readMemoryType(c)
		if err != nil {
			return Import{}, err
		}
		d.importedMemories++
		if d.importedMemories > 1 && !d.opts.Features.MultiMemory {
			return Import{}, errors.New(errors.CodeWasm1NotAllowMultiMemory).
				At(off).
				Payload(errors.ImportDefine{Kind: KindMemory, Imported: d.importedMemories}).
				Build()
		}
		imp.Desc.Memory = &mt
	case KindGlobal:
		gt, err := d.readGlobalType(c)
		if err != nil {
			return Import{}, err
		}
		d.importedGlobals++
		imp.Desc.Global = &gt
	default:
		return Import{}, errors.WithByte(errors.CodeIllegalImportdescPrefix, off, kind)
	}

	if d.opts.Features.RejectDuplicateImports {
		if d.importKeys == nil {
			d.importKeys = make(map[importKey]struct{})
		}
		key := importKey{module: imp.Module, name: imp.Name, kind: kind}
		if _, dup := d.importKeys[key]; dup {
			return Import{}, errors.New(errors.CodeDuplicateImports).
				At(off).
				Payload(errors.Duplicate{Module: imp.Module, Name: imp.Name, Kind: kind}).
				Build()
		}
		d.importKeys[key] = struct{}{}
	}
	return imp, nil
}

func (d *decoder) parseFunctionSection(c *binary.Cursor) error {
	off := c.Pos()
	n, err := binary.ReadCount(c, funcVector, d.opts.Limits.Funcs)
	if err != nil {
		return err
	}
	if n > 0 {
		if err := d.requires(SectionType); err != nil {
			return err
		}
	}
	if err := checkImpDef(off, KindFunc, d.importedFuncs, n); err != nil {
		return err
	}
	funcs, err := binary.ReadEntries(c, n, funcVector, d.readTypeIdx)
	if err != nil {
		return err
	}
	d.m.Funcs = funcs
	return nil
}

func (d *decoder) parseTableSection(c *binary.Cursor) error {
	off := c.Pos()
	n, err := binary.ReadCount(c, tableVector, d.opts.Limits.Tables)
	if err != nil {
		return err
	}
	if err := checkImpDef(off, KindTable, d.importedTables, n); err != nil {
		return err
	}
	if uint64(d.importedTables)+uint64(n) > 1 && !d.opts.Features.MultiTable {
		return errors.New(errors.CodeWasm1NotAllowMultiTable).
			At(off).
			Payload(errors.ImportDefine{Kind: KindTable, Imported: d.importedTables, Defined: n}).
			Build()
	}
	tables, err := binary.ReadEntries(c, n, tableVector, d.readTableType)
	if err != nil {
		return err
	}
	d.m.Tables = tables
	return nil
}

func (d *decoder) parseMemorySection(c *binary.Cursor) error {
	off := c.Pos()
	n, err := binary.ReadCount(c, memoryVector, d.opts.Limits.Memories)
	if err != nil {
		return err
	}
	if err := checkImpDef(off, KindMemory, d.importedMemories, n); err != nil {
		return err
	}
	if uint64(d.importedMemories)+uint64(n) > 1 && !d.opts.Features.MultiMemory {
		return errors.New(errors.CodeWasm1NotAllowMultiMemory).
			At(off).
			Payload(errors.ImportDefine{Kind: KindMemory, Imported: d.importedMemories, Defined: n}).
			Build()
	}
	mems, err := binary.ReadEntries(c, n, memoryVector, d.readMemoryType)
	if err != nil {
		return err
	}
	d.m.Memories = mems
	return nil
}

func (d *decoder) parseGlobalSection(c *binary.Cursor) error {
	off := c.Pos()
	n, err := binary.ReadCount(c, globalVector, d.opts.Limits.Globals)
	if err != nil {
		return err
	}
	if err := checkImpDef(off, KindGlobal, d.importedGlobals, n); err != nil {
		return err
	}
	globals, err := binary.ReadEntries(c, n, globalVector, func(c *binary.Cursor) (Global, error) {
		gt, err := d.readGlobalType(c)
		if err != nil {
			return Global{}, err
		}
		init, err := d.readConstExpr(c, gt.ValType, errors.CodeInitConstExprTerminatorNotFound)
		if err != nil {
			return Global{}, err
		}
		return Global{Type: gt, Init: init}, nil
	})
	if err != nil {
		return err
	}
	d.m.Globals = globals
	return nil
}

func (d *decoder) parseExportSection(c *binary.Cursor) error {
	exports, err := binary.ReadVector(c, exportVector, d.opts.Limits.Exports, d.readExport)
	if err != nil {
		return err
	}
	d.m.Exports = exports
	return nil
}

// readExport decodes one export. A name may be reused across kinds (a
// function and a memory both called "x") unless Features.UniqueExportNames
// is set, in which case any repeat is duplicate_exports.
func (d *decoder) readExport(c *binary.Cursor) (Export, error) {
	name, err := binary.ReadName(c, exportName)
	if err != nil {
		return Export{}, err
	}

	off := c.Pos()
	kind, err := c.ReadByte()
	if err != nil {
		return Export{}, errors.Malformed(errors.CodeExportMissingExportType, off, err)
	}
	if kind >= kindCount {
		return Export{}, errors.WithByte(errors.CodeIllegalExportdescPrefix, off, kind)
	}
	if d.exportNameUsed(name, kind) {
		return Export{}, errors.New(errors.CodeDuplicateExports).
			At(off).
			Payload(errors.Duplicate{Name: name, Kind: kind}).
			Build()
	}
	names := d.exportNames[kind]
	if names == nil {
		names = make(map[string]struct{})
		d.exportNames[kind] = names
	}
	names[name] = struct{}{}

	idxOff := c.Pos()
	if c.Done() {
		return Export{}, errors.At(errors.CodeExportMissingExportIdx, idxOff)
	}
	idx, err := c.ReadU32()
	if err != nil {
		return Export{}, errors.Malformed(errors.CodeInvalidExportIdx, idxOff, err)
	}
	if space := d.indexSpace(kind); idx >= space {
		return Export{}, errors.New(errors.CodeExportedIndexExceedsMaxval).
			At(idxOff).
			Payload(errors.ExportBound{Index: idx, Max: space, Kind: kind}).
			Build()
	}
	return Export{Name: name, Kind: kind, Idx: idx}, nil
}

func (d *decoder) exportNameUsed(name string, kind byte) bool {
	if _, dup := d.exportNames[kind][name]; dup {
		return true
	}
	if !d.opts.Features.UniqueExportNames {
		return false
	}
	for _, names := range d.exportNames {
		if _, dup := names[name]; dup {
			return true
		}
	}
	return false
}

func (d *decoder) parseStartSection(c *binary.Cursor) error {
	off := c.Pos()
	idx, err := c.ReadU32()
	if err != nil {
		return errors.Malformed(errors.CodeInvalidStartIdx, off, err)
	}
	if space := d.funcSpace(); idx >= space {
		return errors.OutOfBounds(errors.CodeStartIndexExceedsMaxval, off, idx, space)
	}
	if ft := d.m.GetFuncType(idx); ft == nil || len(ft.Params) != 0 || len(ft.Results) != 0 {
		return errors.WithU32(errors.CodeFuncRefByStartIllegalSign, off, idx)
	}
	if !c.Done() {
		return errors.WithU32(errors.CodeIllegalSectionLength, c.Pos(), uint32(len(d.cur.Body)))
	}
	d.m.Start = &idx
	return nil
}

func (d *decoder) parseElementSection(c *binary.Cursor) error {
	elems, err := binary.ReadVector(c, elemVector, d.opts.Limits.Elems, d.readElement)
	if err != nil {
		return err
	}
	d.m.Elements = elems
	return nil
}

func (d *decoder) readElement(c *binary.Cursor) (Element, error) {
	off := c.Pos()
	table, err := c.ReadU32()
	if err != nil {
		return Element{}, errors.Malformed(errors.CodeInvalidElemTableIdx, off, err)
	}
	if space := d.tableSpace(); table >= space {
		return Element{}, errors.OutOfBounds(errors.CodeElemTableIndexExceedsMaxval, off, table, space)
	}

	offset, err := d.readConstExpr(c, ValI32, errors.CodeElemInitTerminatorNotFound)
	if err != nil {
		return Element{}, err
	}

	n, err := binary.ReadCount(c, elemFuncIdxCount, d.opts.Limits.ElemFuncIdx)
	if err != nil {
		return Element{}, err
	}
	space := d.funcSpace()
	idxs := make([]uint32, 0, min(uint64(n), uint64(c.Len())))
	for range n {
		at := c.Pos()
		idx, err := c.ReadU32()
		if err != nil {
			return Element{}, errors.Malformed(errors.CodeInvalidElemFuncidx, at, err)
		}
		if idx >= space {
			return Element{}, errors.OutOfBounds(errors.CodeElemFuncIndexExceedsMaxval, at, idx, space)
		}
		idxs = append(idxs, idx)
	}
	return Element{TableIdx: table, Offset: offset, FuncIdxs: idxs}, nil
}

func (d *decoder) parseCodeSection(c *binary.Cursor) error {
	off := c.Pos()
	n, err := binary.ReadCount(c, codeVector, d.opts.Limits.Codes)
	if err != nil {
		return err
	}
	if n > 0 {
		if err := d.requires(SectionFunction); err != nil {
			return err
		}
	}
	if uint64(n) != uint64(len(d.m.Funcs)) {
		return errors.CountMismatch(errors.CodeCodeNeDefinedFunc, off, uint32(len(d.m.Funcs)), n)
	}
	bodies, err := binary.ReadEntries(c, n, codeVector, d.readFuncBody)
	if err != nil {
		return err
	}
	d.m.Code = bodies
	return nil
}

func (d *decoder) readFuncBody(c *binary.Cursor) (FuncBody, error) {
	off := c.Pos()
	size, err := c.ReadU32()
	if err != nil {
		return FuncBody{}, errors.Malformed(errors.CodeInvalidCodeBodySize, off, err)
	}
	if uint64(size) > uint64(c.Len()) {
		return FuncBody{}, errors.WithU32(errors.CodeIllegalCodeBodySize, off, size)
	}
	body, _ := c.Sub(int(size))

	groupsOff := body.Pos()
	groups, err := body.ReadU32()
	if err != nil {
		return FuncBody{}, errors.Malformed(errors.CodeInvalidLocalCount, groupsOff, err)
	}
	locals := make([]LocalEntry, 0, min(uint64(groups), uint64(body.Len())))
	var total uint64
	for range groups {
		at := body.Pos()
		count, err := body.ReadU32()
		if err != nil {
			return FuncBody{}, errors.Malformed(errors.CodeInvalidClocalN, at, err)
		}
		total += uint64(count)
		if total > math.MaxUint32 {
			return FuncBody{}, errors.At(errors.CodeLocalsExceedU32Max, at)
		}
		if limit := d.opts.Limits.Locals; limit != 0 && total > limit {
			return FuncBody{}, errors.New(errors.CodeExceedParserLimit).
				At(at).
				Payload(errors.Limit{Name: "locals", Value: total, Max: limit}).
				Build()
		}

		at = body.Pos()
		vt, err := body.ReadByte()
		if err != nil {
			return FuncBody{}, errors.Malformed(errors.CodeCodeMissingLocalType, at, err)
		}
		if !d.validValType(vt) {
			return FuncBody{}, errors.WithByte(errors.CodeIllegalValueType, at, vt)
		}
		locals = append(locals, LocalEntry{Count: count, ValType: ValType(vt)})
	}

	return FuncBody{Locals: locals, Code: body.Skip(), Offset: off}, nil
}

func (d *decoder) parseDataSection(c *binary.Cursor) error {
	segs, err := binary.ReadVector(c, dataVector, d.opts.Limits.Data, d.readDataSegment)
	if err != nil {
		return err
	}
	d.m.Data = segs
	return nil
}

func (d *decoder) readDataSegment(c *binary.Cursor) (DataSegment, error) {
	off := c.Pos()
	mem, err := c.ReadU32()
	if err != nil {
		return DataSegment{}, errors.Malformed(errors.CodeInvalidDataMemoryIdx, off, err)
	}
	if space := d.memorySpace(); mem >= space {
		return DataSegment{}, errors.OutOfBounds(errors.CodeDataMemoryIndexExceedsMaxval, off, mem, space)
	}

	offset, err := d.readConstExpr(c, ValI32, errors.CodeDataInitTerminatorNotFound)
	if err != nil {
		return DataSegment{}, err
	}

	sizeOff := c.Pos()
	size, err := c.ReadU32()
	if err != nil {
		return DataSegment{}, errors.Malformed(errors.CodeInvalidDataByteSizeCount, sizeOff, err)
	}
	if uint64(size) > uint64(c.Len()) {
		return DataSegment{}, errors.WithU32(errors.CodeIllegalDataByteSizeCount, sizeOff, size)
	}
	init, _ := c.ReadBytes(int(size))
	return DataSegment{MemIdx: mem, Offset: offset, Init: init}, nil
}
