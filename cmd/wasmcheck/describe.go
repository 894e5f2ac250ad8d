package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/wippyai/wasm-binfmt/wasm"
)

// sectionDetail describes the entries of m.Sections[idx], one per line.
func sectionDetail(m *wasm.Module, idx int) string {
	var b strings.Builder
	s := m.Sections[idx]

	switch s.ID {
	case wasm.SectionCustom:
		if c, ok := customAt(m, idx); ok {
			fmt.Fprintf(&b, "name %q, %d bytes\n", c.Name, len(c.Data))
		}
	case wasm.SectionType:
		for i, t := range m.Types {
			fmt.Fprintf(&b, "[%d] %s\n", i, funcTypeString(t))
		}
	case wasm.SectionImport:
		for i, imp := range m.Imports {
			fmt.Fprintf(&b, "[%d] %s.%s %s\n", i, imp.Module, imp.Name, importDescString(imp.Desc))
		}
	case wasm.SectionFunction:
		base := m.NumImportedFuncs()
		for i, t := range m.Funcs {
			fmt.Fprintf(&b, "[%d] type %d\n", base+i, t)
		}
	case wasm.SectionTable:
		base := m.NumImportedTables()
		for i, t := range m.Tables {
			fmt.Fprintf(&b, "[%d] %s %s\n", base+i, t.ElemType, limitsString(t.Limits))
		}
	case wasm.SectionMemory:
		base := m.NumImportedMemories()
		for i, mem := range m.Memories {
			fmt.Fprintf(&b, "[%d] %s\n", base+i, limitsString(mem.Limits))
		}
	case wasm.SectionGlobal:
		base := m.NumImportedGlobals()
		for i, g := range m.Globals {
			fmt.Fprintf(&b, "[%d] %s = %s\n", base+i, globalTypeString(g.Type), constExprString(g.Init))
		}
	case wasm.SectionExport:
		for _, e := range m.Exports {
			fmt.Fprintf(&b, "%q %s %d\n", e.Name, wasm.KindName(e.Kind), e.Idx)
		}
	case wasm.SectionStart:
		if m.Start != nil {
			fmt.Fprintf(&b, "func %d\n", *m.Start)
		}
	case wasm.SectionElement:
		for i, e := range m.Elements {
			fmt.Fprintf(&b, "[%d] table %d offset (%s) funcs %v\n", i, e.TableIdx, constExprString(e.Offset), e.FuncIdxs)
		}
	case wasm.SectionCode:
		base := m.NumImportedFuncs()
		for i, body := range m.Code {
			fmt.Fprintf(&b, "[%d] %d locals, %d code bytes at offset %d\n", base+i, body.NumLocals(), len(body.Code), body.Offset)
		}
	case wasm.SectionData:
		for i, d := range m.Data {
			fmt.Fprintf(&b, "[%d] memory %d offset (%s) %d bytes\n", i, d.MemIdx, constExprString(d.Offset), len(d.Init))
		}
	}
	return b.String()
}

// sectionSummary is the one-line description used in listings.
func sectionSummary(m *wasm.Module, idx int) string {
	s := m.Sections[idx]
	var n int
	switch s.ID {
	case wasm.SectionCustom:
		if c, ok := customAt(m, idx); ok {
			return fmt.Sprintf("%q", c.Name)
		}
		return ""
	case wasm.SectionType:
		n = len(m.Types)
	case wasm.SectionImport:
		n = len(m.Imports)
	case wasm.SectionFunction:
		n = len(m.Funcs)
	case wasm.SectionTable:
		n = len(m.Tables)
	case wasm.SectionMemory:
		n = len(m.Memories)
	case wasm.SectionGlobal:
		n = len(m.Globals)
	case wasm.SectionExport:
		n = len(m.Exports)
	case wasm.SectionStart:
		if m.Start != nil {
			return fmt.Sprintf("func %d", *m.Start)
		}
		return ""
	case wasm.SectionElement:
		n = len(m.Elements)
	case wasm.SectionCode:
		n = len(m.Code)
	case wasm.SectionData:
		n = len(m.Data)
	}
	return fmt.Sprintf("%d entries", n)
}

// customAt returns the custom section decoded from m.Sections[idx].
func customAt(m *wasm.Module, idx int) (wasm.CustomSection, bool) {
	k := 0
	for i := range idx {
		if m.Sections[i].ID == wasm.SectionCustom {
			k++
		}
	}
	if k < len(m.CustomSections) {
		return m.CustomSections[k], true
	}
	return wasm.CustomSection{}, false
}

func valTypesString(types []wasm.ValType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func funcTypeString(t wasm.FuncType) string {
	return valTypesString(t.Params) + " -> " + valTypesString(t.Results)
}

func limitsString(l wasm.Limits) string {
	if l.Max == nil {
		return fmt.Sprintf("min=%d", l.Min)
	}
	return fmt.Sprintf("min=%d max=%d", l.Min, *l.Max)
}

func globalTypeString(g wasm.GlobalType) string {
	if g.Mutable {
		return "mut " + g.ValType.String()
	}
	return g.ValType.String()
}

func importDescString(d wasm.ImportDesc) string {
	switch d.Kind {
	case wasm.KindFunc:
		return fmt.Sprintf("func type %d", d.TypeIdx)
	case wasm.KindTable:
		if d.Table != nil {
			return fmt.Sprintf("table %s %s", d.Table.ElemType, limitsString(d.Table.Limits))
		}
	case wasm.KindMemory:
		if d.Memory != nil {
			return "memory " + limitsString(d.Memory.Limits)
		}
	case wasm.KindGlobal:
		if d.Global != nil {
			return "global " + globalTypeString(*d.Global)
		}
	}
	return wasm.KindName(d.Kind)
}

func constExprString(e wasm.ConstExpr) string {
	switch e.Opcode {
	case wasm.OpI32Const:
		return fmt.Sprintf("i32.const %d", int32(uint32(e.Value)))
	case wasm.OpI64Const:
		return fmt.Sprintf("i64.const %d", int64(e.Value))
	case wasm.OpF32Const:
		return fmt.Sprintf("f32.const %g", math.Float32frombits(uint32(e.Value)))
	case wasm.OpF64Const:
		return fmt.Sprintf("f64.const %g", math.Float64frombits(e.Value))
	case wasm.OpGlobalGet:
		return fmt.Sprintf("global.get %d", e.Value)
	case wasm.OpRefNull:
		return "ref.null " + e.Type.String()
	case wasm.OpRefFunc:
		return fmt.Sprintf("ref.func %d", e.Value)
	default:
		return fmt.Sprintf("opcode 0x%02x", e.Opcode)
	}
}
