package wasm

// Module is a decoded WebAssembly module. Byte slices inside it (code
// bodies, init expressions, data and custom payloads, section bodies) alias
// the buffer passed to Decode and stay valid only as long as it does.
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []uint32 // Type indices for declared functions
	Tables   []TableType
	Memories []MemoryType
	Globals  []Global
	Exports  []Export
	Start    *uint32
	Elements []Element
	Code     []FuncBody
	Data     []DataSegment

	CustomSections []CustomSection

	// Sections lists every section in file order.
	Sections []Section
}

// Section is a view of one top-level section.
type Section struct {
	Body   []byte
	Offset int // position of the section id byte
	ID     byte
}

// FuncType represents a WebAssembly function signature with parameter and result types.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// ValType is a value type encoding.
type ValType byte

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	case ValV128:
		return "v128"
	case ValFuncRef:
		return "funcref"
	case ValExtern:
		return "externref"
	default:
		return "unknown"
	}
}

// Import represents an imported function, table, memory, or global.
type Import struct {
	Desc   ImportDesc
	Module string
	Name   string
}

// ImportDesc describes an imported item.
// Kind uses KindFunc, KindTable, KindMemory, or KindGlobal constants.
type ImportDesc struct {
	Table   *TableType
	Memory  *MemoryType
	Global  *GlobalType
	TypeIdx uint32
	Kind    byte
}

// TableType describes a table with element type and size limits.
type TableType struct {
	Limits   Limits
	ElemType ValType
}

// MemoryType describes a linear memory with size limits.
type MemoryType struct {
	Limits Limits
}

// Limits describes size constraints for tables and memories.
type Limits struct {
	Max *uint32
	Min uint32
}

// GlobalType describes a global variable's type and mutability.
type GlobalType struct {
	ValType ValType
	Mutable bool
}

// Global represents a global variable with type and initialization.
type Global struct {
	Init ConstExpr
	Type GlobalType
}

// ConstExpr is a decoded constant initializer expression.
//
// Value holds the immediate: the two's-complement bits of the i32.const
// or i64.const operand, the IEEE bit pattern for f32.const and f64.const,
// or the index for global.get and ref.func.
type ConstExpr struct {
	Raw    []byte // expression bytes including the end opcode
	Value  uint64
	Opcode byte
	Type   ValType
}

// Export describes an exported item.
// Kind uses KindFunc, KindTable, KindMemory, or KindGlobal constants.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// Element represents an active element segment.
type Element struct {
	Offset   ConstExpr
	FuncIdxs []uint32
	TableIdx uint32
}

// FuncBody represents a function's local declarations and bytecode.
type FuncBody struct {
	Locals []LocalEntry
	Code   []byte // Raw expression bytes including end opcode
	Offset int    // position of the body size field
}

// NumLocals returns the total number of declared locals.
func (b *FuncBody) NumLocals() uint64 {
	var n uint64
	for _, l := range b.Locals {
		n += uint64(l.Count)
	}
	return n
}

// LocalEntry represents a group of local variables with the same type.
type LocalEntry struct {
	Count   uint32
	ValType ValType
}

// DataSegment represents an active data segment.
type DataSegment struct {
	Offset ConstExpr
	Init   []byte
	MemIdx uint32
}

// CustomSection holds a named custom section's data.
type CustomSection struct {
	Name string
	Data []byte
}

func (m *Module) numImported(kind byte) int {
	count := 0
	for _, imp := range m.Imports {
		if imp.Desc.Kind == kind {
			count++
		}
	}
	return count
}

// NumImportedFuncs returns the number of imported functions
func (m *Module) NumImportedFuncs() int { return m.numImported(KindFunc) }

// NumImportedGlobals returns the number of imported globals
func (m *Module) NumImportedGlobals() int { return m.numImported(KindGlobal) }

// NumImportedTables returns the number of imported tables
func (m *Module) NumImportedTables() int { return m.numImported(KindTable) }

// NumImportedMemories returns the number of imported memories
func (m *Module) NumImportedMemories() int { return m.numImported(KindMemory) }

// GetFuncType returns the type of a function by its index in the function
// index space, or nil if the index is out of range.
func (m *Module) GetFuncType(funcIdx uint32) *FuncType {
	for _, imp := range m.Imports {
		if imp.Desc.Kind != KindFunc {
			continue
		}
		if funcIdx == 0 {
			return m.typeAt(imp.Desc.TypeIdx)
		}
		funcIdx--
	}
	if uint64(funcIdx) >= uint64(len(m.Funcs)) {
		return nil
	}
	return m.typeAt(m.Funcs[funcIdx])
}

func (m *Module) typeAt(idx uint32) *FuncType {
	if uint64(idx) >= uint64(len(m.Types)) {
		return nil
	}
	return &m.Types[idx]
}

// GlobalType returns the type of a global by its index in the global index
// space, or nil if the index is out of range.
func (m *Module) GlobalType(globalIdx uint32) *GlobalType {
	for _, imp := range m.Imports {
		if imp.Desc.Kind != KindGlobal {
			continue
		}
		if globalIdx == 0 {
			return imp.Desc.Global
		}
		globalIdx--
	}
	if uint64(globalIdx) >= uint64(len(m.Globals)) {
		return nil
	}
	return &m.Globals[globalIdx].Type
}

// SectionByID returns the first section with the given id.
func (m *Module) SectionByID(id byte) (Section, bool) {
	for _, s := range m.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}
