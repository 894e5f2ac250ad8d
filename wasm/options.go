package wasm

import "go.uber.org/zap"

// Features enables encodings beyond the WebAssembly 1.0 binary format.
type Features struct {
	// MultiValue allows function types with more than one result.
	MultiValue bool

	// MultiMemory allows more than one memory, imported or defined.
	MultiMemory bool

	// MultiTable allows more than one table, imported or defined.
	MultiTable bool

	// ReferenceTypes enables funcref/externref value types, externref
	// tables, and ref.null/ref.func in constant expressions.
	ReferenceTypes bool

	// SIMD enables the v128 value type.
	SIMD bool

	// RejectDuplicateImports fails on a repeated (module, name, kind)
	// import. The core format permits duplicates.
	RejectDuplicateImports bool

	// UniqueExportNames rejects an export name already used by an export
	// of any kind. Without it only names repeated within one kind fail.
	UniqueExportNames bool
}

// ParserLimits caps the counts a module may declare. A zero field disables
// that limit.
type ParserLimits struct {
	Codes       uint64
	Locals      uint64
	Data        uint64
	ElemFuncIdx uint64
	Elems       uint64
	Exports     uint64
	Funcs       uint64
	Globals     uint64
	Imports     uint64
	Memories    uint64
	Tables      uint64
	Types       uint64
}

// DefaultParserLimits returns the limits applied by DefaultOptions.
func DefaultParserLimits() ParserLimits {
	return ParserLimits{
		Codes:       262144,
		Locals:      65536,
		Data:        262144,
		ElemFuncIdx: 262144,
		Elems:       262144,
		Exports:     262144,
		Funcs:       262144,
		Globals:     262144,
		Imports:     262144,
		Memories:    1024,
		Tables:      1024,
		Types:       262144,
	}
}

// Options configures decoding.
type Options struct {
	// Logger receives per-section debug entries. Nil uses Logger().
	Logger *zap.Logger

	Features Features
	Limits   ParserLimits

	// RequireSections reports no_wasm_section_found for a module with a
	// valid header and no sections. Otherwise such a module decodes as empty.
	RequireSections bool
}

// DefaultOptions returns WebAssembly 1.0 decoding with default limits.
func DefaultOptions() Options {
	return Options{
		Limits: DefaultParserLimits(),
	}
}
