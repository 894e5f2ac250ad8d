package render

import (
	"fmt"
	"strings"

	"github.com/wippyai/wasm-binfmt/errors"
	"github.com/wippyai/wasm-binfmt/wasm"
)

// messages holds one template per code. {name} placeholders are filled
// from the payload and rendered as highlighted values.
var messages = map[errors.Code]string{
	errors.CodeOK:      "No error.",
	errors.CodeUnknown: "Unknown error.",

	errors.CodeIllegalBeginPointer:          `Begin pointer "{begin}" > end pointer "{end}".`,
	errors.CodeIllegalWasmFileFormat:        "Illegal WebAssembly file format.",
	errors.CodeNoWasmSectionFound:           "No WebAssembly section found.",
	errors.CodeInvalidSectionLength:         "Invalid section length.",
	errors.CodeIllegalSectionLength:         `Illegal section length "{value}".`,
	errors.CodeNotEnoughSpace:               `Not enough space before offset "{end}".`,
	errors.CodeNotEnoughSpaceUnmarked:       "Not enough space.",
	errors.CodeIllegalSectionID:             `Illegal section id "{value}".`,
	errors.CodeDuplicateSection:             `Duplicate or out-of-order section "{section}".`,
	errors.CodeInvalidSectionCanonicalOrder: `Section "{required}" must appear after section "{missing}".`,
	errors.CodeForwardDependencyMissing:     `Section "{required}" requires section "{missing}" to appear before it.`,

	errors.CodeSizeExceedsMaxSizeT: `Size "{value}" exceeds the maximum value of size_t.`,
	errors.CodeExceedParserLimit:   `The {name} count "{value}" exceeds the parser limit "{max}".`,
	errors.CodeCounterOverflows:    "Counter overflows.",
	errors.CodeInvalidUTF8Sequence: "Invalid UTF-8 sequence.",
	errors.CodeIllegalValueType:    `Illegal value type "{value}".`,

	errors.CodeInvalidCustomNameLength: "Invalid custom section name length.",
	errors.CodeIllegalCustomNameLength: `Illegal custom section name length "{value}".`,

	errors.CodeInvalidTypeCount:            "Invalid type count.",
	errors.CodeTypeSectionResolvedExceeded: `The number of types resolved exceeds the actual number "{value}".`,
	errors.CodeTypeSectionResolvedNotMatch: `The number of types resolved "{resolved}" does not match the actual number "{declared}".`,
	errors.CodeIllegalTypePrefix:           `Illegal type prefix "{value}".`,
	errors.CodeInvalidParameterLength:      "Invalid parameter length.",
	errors.CodeIllegalParameterLength:      `Illegal parameter length "{value}".`,
	errors.CodeInvalidResultLength:         "Invalid result length.",
	errors.CodeIllegalResultLength:         `Illegal result length "{value}".`,
	errors.CodeWasm1NotAllowMultiValue:     `WebAssembly 1.0 does not allow multiple results, found "{value}".`,

	errors.CodeInvalidImportCount:                 "Invalid import count.",
	errors.CodeImportSectionResolvedExceeded:      `The number of imports resolved exceeds the actual number "{value}".`,
	errors.CodeImportSectionResolvedNotMatch:      `The number of imports resolved "{resolved}" does not match the actual number "{declared}".`,
	errors.CodeInvalidImportModuleNameLength:      "Invalid import module name length.",
	errors.CodeImportModuleNameLengthCannotBeZero: "Import module name length cannot be zero.",
	errors.CodeImportModuleNameTooLength:          `Import module name length "{value}" exceeds the section.`,
	errors.CodeInvalidImportExternNameLength:      "Invalid import name length.",
	errors.CodeImportExternNameLengthCannotBeZero: "Import name length cannot be zero.",
	errors.CodeImportExternNameTooLength:          `Import name length "{value}" exceeds the section.`,
	errors.CodeImportMissingImportType:            "Import is missing its type.",
	errors.CodeIllegalImportdescPrefix:            `Illegal import descriptor prefix "{value}".`,
	errors.CodeDuplicateImports:                   `Duplicate {kind} import "{module}.{name}".`,
	errors.CodeInvalidTypeIndex:                   "Invalid type index.",
	errors.CodeIllegalTypeIndex:                   `Illegal type index "{value}".`,
	errors.CodeImpDefNumExceedU32Max:              `The number of imported "{imported}" and defined "{defined}" {kind}s exceeds the maximum value of u32.`,

	errors.CodeTableTypeCannotFindElement:  "Table type is missing its element type.",
	errors.CodeTableTypeIllegalElement:     `Illegal table element type "{value}".`,
	errors.CodeLimitTypeCannotFindFlag:     "Limits are missing their flag.",
	errors.CodeLimitTypeIllegalFlag:        `Illegal limits flag "{value}".`,
	errors.CodeLimitTypeInvalidMin:         "Invalid limits minimum.",
	errors.CodeLimitTypeInvalidMax:         "Invalid limits maximum.",
	errors.CodeLimitTypeMaxLtMin:           `Limits maximum "{max}" is less than minimum "{min}".`,
	errors.CodeGlobalTypeCannotFindValtype: "Global type is missing its value type.",
	errors.CodeGlobalTypeIllegalValtype:    `Illegal global value type "{value}".`,
	errors.CodeGlobalTypeCannotFindMut:     "Global type is missing its mutability.",
	errors.CodeGlobalTypeIllegalMut:        `Illegal global mutability "{value}".`,

	errors.CodeInvalidFuncCount:              "Invalid function count.",
	errors.CodeFuncSectionResolvedExceeded:   `The number of functions resolved exceeds the actual number "{value}".`,
	errors.CodeFuncSectionResolvedNotMatch:   `The number of functions resolved "{resolved}" does not match the actual number "{declared}".`,
	errors.CodeInvalidTableCount:             "Invalid table count.",
	errors.CodeTableSectionResolvedExceeded:  `The number of tables resolved exceeds the actual number "{value}".`,
	errors.CodeTableSectionResolvedNotMatch:  `The number of tables resolved "{resolved}" does not match the actual number "{declared}".`,
	errors.CodeWasm1NotAllowMultiTable:       `WebAssembly 1.0 allows one table, found "{imported}" imported and "{defined}" defined.`,
	errors.CodeInvalidMemoryCount:            "Invalid memory count.",
	errors.CodeMemorySectionResolvedExceeded: `The number of memories resolved exceeds the actual number "{value}".`,
	errors.CodeMemorySectionResolvedNotMatch: `The number of memories resolved "{resolved}" does not match the actual number "{declared}".`,
	errors.CodeWasm1NotAllowMultiMemory:      `WebAssembly 1.0 allows one memory, found "{imported}" imported and "{defined}" defined.`,
	errors.CodeInvalidGlobalCount:            "Invalid global count.",
	errors.CodeGlobalSectionResolvedExceeded: `The number of globals resolved exceeds the actual number "{value}".`,
	errors.CodeGlobalSectionResolvedNotMatch: `The number of globals resolved "{resolved}" does not match the actual number "{declared}".`,
	errors.CodeGlobalInitTerminatorNotFound:  "Global initializer is missing its end opcode.",

	errors.CodeInitConstExprTerminatorNotFound:       "Constant expression is missing its end opcode.",
	errors.CodeInitConstExprIllegalInstruction:       `Illegal instruction "{value}" in constant expression.`,
	errors.CodeInitConstExprIllegalData:              "Illegal immediate in constant expression.",
	errors.CodeInitConstExprStackEmpty:               "Constant expression leaves the stack empty.",
	errors.CodeInitConstExprStackShouldBeOnlyOne:     "Constant expression must leave exactly one value.",
	errors.CodeInitConstExprTypeMismatch:             `Constant expression type "{actual}" does not match "{expected}".`,
	errors.CodeInitConstExprRefIllegalImportedGlobal: `global.get "{index}" does not refer to one of the "{imported}" imported globals.`,
	errors.CodeInitConstExprRefMutableImportedGlobal: `global.get "{value}" refers to a mutable global.`,

	errors.CodeInvalidExportCount:            "Invalid export count.",
	errors.CodeExportSectionResolvedExceeded: `The number of exports resolved exceeds the actual number "{value}".`,
	errors.CodeExportSectionResolvedNotMatch: `The number of exports resolved "{resolved}" does not match the actual number "{declared}".`,
	errors.CodeInvalidExportNameLength:       "Invalid export name length.",
	errors.CodeExportNameLengthCannotBeZero:  "Export name length cannot be zero.",
	errors.CodeExportNameTooLength:           `Export name length "{value}" exceeds the section.`,
	errors.CodeExportMissingExportType:       "Export is missing its type.",
	errors.CodeIllegalExportdescPrefix:       `Illegal export descriptor prefix "{value}".`,
	errors.CodeDuplicateExports:              `Duplicate {kind} export "{name}".`,
	errors.CodeExportMissingExportIdx:        "Export is missing its index.",
	errors.CodeInvalidExportIdx:              "Invalid export index.",
	errors.CodeExportedIndexExceedsMaxval:    `Exported {kind} index "{index}" exceeds the maximum value "{max}".`,

	errors.CodeInvalidStartIdx:           "Invalid start function index.",
	errors.CodeStartIndexExceedsMaxval:   `Start function index "{index}" exceeds the maximum value "{max}".`,
	errors.CodeFuncRefByStartIllegalSign: `Start function "{value}" must take no parameters and return no results.`,

	errors.CodeInvalidElemCount:            "Invalid element segment count.",
	errors.CodeElemSectionResolvedExceeded: `The number of element segments resolved exceeds the actual number "{value}".`,
	errors.CodeElemSectionResolvedNotMatch: `The number of element segments resolved "{resolved}" does not match the actual number "{declared}".`,
	errors.CodeInvalidElemTableIdx:         "Invalid element segment table index.",
	errors.CodeInvalidElemKind:             `Invalid element segment kind "{value}".`,
	errors.CodeElemTableIndexExceedsMaxval: `Element segment table index "{index}" exceeds the maximum value "{max}".`,
	errors.CodeElemInitTerminatorNotFound:  "Element segment offset is missing its end opcode.",
	errors.CodeInvalidElemFuncidxCount:     "Invalid element segment function count.",
	errors.CodeInvalidElemFuncidx:          "Invalid element segment function index.",
	errors.CodeElemFuncIndexExceedsMaxval:  `Element segment function index "{index}" exceeds the maximum value "{max}".`,

	errors.CodeInvalidCodeCount:            "Invalid code count.",
	errors.CodeCodeNeDefinedFunc:           `The number of code entries "{resolved}" does not match the number of defined functions "{declared}".`,
	errors.CodeCodeSectionResolvedExceeded: `The number of code entries resolved exceeds the actual number "{value}".`,
	errors.CodeCodeSectionResolvedNotMatch: `The number of code entries resolved "{resolved}" does not match the actual number "{declared}".`,
	errors.CodeInvalidCodeBodySize:         "Invalid function body size.",
	errors.CodeIllegalCodeBodySize:         `Illegal function body size "{value}".`,
	errors.CodeInvalidLocalCount:           "Invalid local declaration count.",
	errors.CodeInvalidClocalN:              "Invalid local count.",
	errors.CodeLocalsExceedU32Max:          "The final list of locals exceeds the maximum value of u32.",
	errors.CodeCodeMissingLocalType:        "Local declaration is missing its type.",

	errors.CodeInvalidDataCount:             "Invalid data segment count.",
	errors.CodeDataSectionResolvedExceeded:  `The number of data segments resolved exceeds the actual number "{value}".`,
	errors.CodeDataSectionResolvedNotMatch:  `The number of data segments resolved "{resolved}" does not match the actual number "{declared}".`,
	errors.CodeInvalidDataMemoryIdx:         "Invalid data segment memory index.",
	errors.CodeInvalidDataKind:              `Invalid data segment kind "{value}".`,
	errors.CodeDataMemoryIndexExceedsMaxval: `Data segment memory index "{index}" exceeds the maximum value "{max}".`,
	errors.CodeDataInitTerminatorNotFound:   "Data segment offset is missing its end opcode.",
	errors.CodeInvalidDataByteSizeCount:     "Invalid data segment size.",
	errors.CodeIllegalDataByteSizeCount:     `Illegal data segment size "{value}".`,
}

type spanKind uint8

const (
	spanText spanKind = iota
	spanValue
)

type span struct {
	text string
	kind spanKind
}

// Message returns the human-readable message for err without prefix,
// offset or styling.
func Message(err *errors.Error) string {
	var b strings.Builder
	for _, s := range messageSpans(err) {
		b.WriteString(s.text)
	}
	return b.String()
}

func messageSpans(err *errors.Error) []span {
	tmpl, ok := messages[err.Code]
	if !ok {
		tmpl = messages[errors.CodeUnknown]
	}
	fields := payloadFields(err.Payload)

	var out []span
	for tmpl != "" {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			out = append(out, span{text: tmpl})
			break
		}
		end := strings.IndexByte(tmpl[open:], '}')
		if end < 0 {
			out = append(out, span{text: tmpl})
			break
		}
		if open > 0 {
			out = append(out, span{text: tmpl[:open]})
		}
		name := tmpl[open+1 : open+end]
		v, ok := fields[name]
		if !ok {
			v = "?"
		}
		out = append(out, span{text: v, kind: spanValue})
		tmpl = tmpl[open+end+1:]
	}
	return out
}

func payloadFields(p errors.Payload) map[string]string {
	u := func(v uint32) string { return fmt.Sprintf("%d", v) }
	switch p := p.(type) {
	case errors.Byte:
		return map[string]string{"value": p.String(), "section": wasm.SectionName(byte(p))}
	case errors.U32:
		return map[string]string{"value": p.String()}
	case errors.U64:
		return map[string]string{"value": p.String()}
	case errors.Counts:
		return map[string]string{"declared": u(p.Declared), "resolved": u(p.Resolved)}
	case errors.Sections:
		return map[string]string{"missing": wasm.SectionName(p.Missing), "required": wasm.SectionName(p.Required)}
	case errors.ValTypes:
		return map[string]string{"expected": wasm.ValType(p.Expected).String(), "actual": wasm.ValType(p.Actual).String()}
	case errors.End:
		return map[string]string{"end": fmt.Sprintf("%d", p.Offset)}
	case errors.Bound:
		return map[string]string{"index": u(p.Index), "max": u(p.Max)}
	case errors.ExportBound:
		return map[string]string{"kind": wasm.KindName(p.Kind), "index": u(p.Index), "max": u(p.Max)}
	case errors.ImportDefine:
		return map[string]string{"kind": wasm.KindName(p.Kind), "imported": u(p.Imported), "defined": u(p.Defined)}
	case errors.MinMax:
		return map[string]string{"min": u(p.Min), "max": u(p.Max)}
	case errors.Limit:
		return map[string]string{"name": p.Name, "value": fmt.Sprintf("%d", p.Value), "max": fmt.Sprintf("%d", p.Max)}
	case errors.Duplicate:
		return map[string]string{"kind": wasm.KindName(p.Kind), "module": p.Module, "name": p.Name}
	case errors.GlobalRef:
		return map[string]string{"index": u(p.Index), "imported": u(p.Imported)}
	case errors.Range:
		return map[string]string{"begin": fmt.Sprintf("%d", p.Begin), "end": fmt.Sprintf("%d", p.End)}
	}
	return nil
}
