package errors

// Code identifies a decode or validation failure. The set is closed; every
// code carries exactly one payload shape, listed next to it.
type Code uint16

const (
	CodeOK      Code = iota // None
	CodeUnknown             // None

	// Framing and ordering.
	CodeIllegalBeginPointer          // Range
	CodeIllegalWasmFileFormat        // None
	CodeNoWasmSectionFound           // None
	CodeInvalidSectionLength         // None
	CodeIllegalSectionLength         // U32
	CodeNotEnoughSpace               // End
	CodeNotEnoughSpaceUnmarked       // None
	CodeIllegalSectionID             // Byte
	CodeDuplicateSection             // Byte
	CodeInvalidSectionCanonicalOrder // Sections
	CodeForwardDependencyMissing     // Sections

	// Generic.
	CodeSizeExceedsMaxSizeT // U64
	CodeExceedParserLimit   // Limit
	CodeCounterOverflows    // None
	CodeInvalidUTF8Sequence // None
	CodeIllegalValueType    // Byte

	// Custom section.
	CodeInvalidCustomNameLength // None
	CodeIllegalCustomNameLength // U32

	// Type section.
	CodeInvalidTypeCount            // None
	CodeTypeSectionResolvedExceeded // U32
	CodeTypeSectionResolvedNotMatch // Counts
	CodeIllegalTypePrefix           // Byte
	CodeInvalidParameterLength      // None
	CodeIllegalParameterLength      // U32
	CodeInvalidResultLength         // None
	CodeIllegalResultLength         // U32
	CodeWasm1NotAllowMultiValue     // U32

	// Import section.
	CodeInvalidImportCount                 // None
	CodeImportSectionResolvedExceeded      // U32
	CodeImportSectionResolvedNotMatch      // Counts
	CodeInvalidImportModuleNameLength      // None
	CodeImportModuleNameLengthCannotBeZero // None
	CodeImportModuleNameTooLength          // U32
	CodeInvalidImportExternNameLength      // None
	CodeImportExternNameLengthCannotBeZero // None
	CodeImportExternNameTooLength          // U32
	CodeImportMissingImportType            // None
	CodeIllegalImportdescPrefix            // Byte
	CodeDuplicateImports                   // Duplicate
	CodeInvalidTypeIndex                   // None
	CodeIllegalTypeIndex                   // U32
	CodeImpDefNumExceedU32Max              // ImportDefine

	// Table, memory and global types.
	CodeTableTypeCannotFindElement  // None
	CodeTableTypeIllegalElement     // Byte
	CodeLimitTypeCannotFindFlag     // None
	CodeLimitTypeIllegalFlag        // Byte
	CodeLimitTypeInvalidMin         // None
	CodeLimitTypeInvalidMax         // None
	CodeLimitTypeMaxLtMin           // MinMax
	CodeGlobalTypeCannotFindValtype // None
	CodeGlobalTypeIllegalValtype    // Byte
	CodeGlobalTypeCannotFindMut     // None
	CodeGlobalTypeIllegalMut        // Byte

	// Function, table, memory and global sections.
	CodeInvalidFuncCount              // None
	CodeFuncSectionResolvedExceeded   // U32
	CodeFuncSectionResolvedNotMatch   // Counts
	CodeInvalidTableCount             // None
	CodeTableSectionResolvedExceeded  // U32
	CodeTableSectionResolvedNotMatch  // Counts
	CodeWasm1NotAllowMultiTable       // ImportDefine
	CodeInvalidMemoryCount            // None
	CodeMemorySectionResolvedExceeded // U32
	CodeMemorySectionResolvedNotMatch // Counts
	CodeWasm1NotAllowMultiMemory      // ImportDefine
	CodeInvalidGlobalCount            // None
	CodeGlobalSectionResolvedExceeded // U32
	CodeGlobalSectionResolvedNotMatch // Counts
	CodeGlobalInitTerminatorNotFound  // None; reserved, globals report CodeInitConstExprTerminatorNotFound

	// Constant initializer expressions.
	CodeInitConstExprTerminatorNotFound       // None
	CodeInitConstExprIllegalInstruction       // Byte
	CodeInitConstExprIllegalData              // None
	CodeInitConstExprStackEmpty               // None
	CodeInitConstExprStackShouldBeOnlyOne     // None
	CodeInitConstExprTypeMismatch             // ValTypes
	CodeInitConstExprRefIllegalImportedGlobal // GlobalRef
	CodeInitConstExprRefMutableImportedGlobal // U32

	// Export section.
	CodeInvalidExportCount            // None
	CodeExportSectionResolvedExceeded // U32
	CodeExportSectionResolvedNotMatch // Counts
	CodeInvalidExportNameLength       // None
	CodeExportNameLengthCannotBeZero  // None
	CodeExportNameTooLength           // U32
	CodeExportMissingExportType       // None
	CodeIllegalExportdescPrefix       // Byte
	CodeDuplicateExports              // Duplicate
	CodeExportMissingExportIdx        // None
	CodeInvalidExportIdx              // None
	CodeExportedIndexExceedsMaxval    // ExportBound

	// Start section.
	CodeInvalidStartIdx           // None
	CodeStartIndexExceedsMaxval   // Bound
	CodeFuncRefByStartIllegalSign // U32

	// Element section.
	CodeInvalidElemCount            // None
	CodeElemSectionResolvedExceeded // U32
	CodeElemSectionResolvedNotMatch // Counts
	CodeInvalidElemTableIdx         // None
	CodeInvalidElemKind             // U32
	CodeElemTableIndexExceedsMaxval // Bound
	CodeElemInitTerminatorNotFound  // None
	CodeInvalidElemFuncidxCount     // None
	CodeInvalidElemFuncidx          // None
	CodeElemFuncIndexExceedsMaxval  // Bound

	// Code section.
	CodeInvalidCodeCount            // None
	CodeCodeNeDefinedFunc           // Counts
	CodeCodeSectionResolvedExceeded // U32
	CodeCodeSectionResolvedNotMatch // Counts
	CodeInvalidCodeBodySize         // None
	CodeIllegalCodeBodySize         // U32
	CodeInvalidLocalCount           // None
	CodeInvalidClocalN              // None
	CodeLocalsExceedU32Max          // None
	CodeCodeMissingLocalType        // None

	// Data section.
	CodeInvalidDataCount             // None
	CodeDataSectionResolvedExceeded  // U32
	CodeDataSectionResolvedNotMatch  // Counts
	CodeInvalidDataMemoryIdx         // None
	CodeInvalidDataKind              // U32
	CodeDataMemoryIndexExceedsMaxval // Bound
	CodeDataInitTerminatorNotFound   // None
	CodeInvalidDataByteSizeCount     // None
	CodeIllegalDataByteSizeCount     // U32

	codeCount
)

var codeNames = [codeCount]string{
	CodeOK:      "ok",
	CodeUnknown: "unknown",

	CodeIllegalBeginPointer:          "illegal_begin_pointer",
	CodeIllegalWasmFileFormat:        "illegal_wasm_file_format",
	CodeNoWasmSectionFound:           "no_wasm_section_found",
	CodeInvalidSectionLength:         "invalid_section_length",
	CodeIllegalSectionLength:         "illegal_section_length",
	CodeNotEnoughSpace:               "not_enough_space",
	CodeNotEnoughSpaceUnmarked:       "not_enough_space_unmarked",
	CodeIllegalSectionID:             "illegal_section_id",
	CodeDuplicateSection:             "duplicate_section",
	CodeInvalidSectionCanonicalOrder: "invalid_section_canonical_order",
	CodeForwardDependencyMissing:     "forward_dependency_missing",

	CodeSizeExceedsMaxSizeT: "size_exceeds_the_maximum_value_of_size_t",
	CodeExceedParserLimit:   "exceed_the_max_parser_limit",
	CodeCounterOverflows:    "counter_overflows",
	CodeInvalidUTF8Sequence: "invalid_utf8_sequence",
	CodeIllegalValueType:    "illegal_value_type",

	CodeInvalidCustomNameLength: "invalid_custom_name_length",
	CodeIllegalCustomNameLength: "illegal_custom_name_length",

	CodeInvalidTypeCount:            "invalid_type_count",
	CodeTypeSectionResolvedExceeded: "type_section_resolved_exceeded_the_actual_number",
	CodeTypeSectionResolvedNotMatch: "type_section_resolved_not_match_the_actual_number",
	CodeIllegalTypePrefix:           "illegal_type_prefix",
	CodeInvalidParameterLength:      "invalid_parameter_length",
	CodeIllegalParameterLength:      "illegal_parameter_length",
	CodeInvalidResultLength:         "invalid_result_length",
	CodeIllegalResultLength:         "illegal_result_length",
	CodeWasm1NotAllowMultiValue:     "wasm1_not_allow_multi_value",

	CodeInvalidImportCount:                 "invalid_import_count",
	CodeImportSectionResolvedExceeded:      "import_section_resolved_exceeded_the_actual_number",
	CodeImportSectionResolvedNotMatch:      "import_section_resolved_not_match_the_actual_number",
	CodeInvalidImportModuleNameLength:      "invalid_import_module_name_length",
	CodeImportModuleNameLengthCannotBeZero: "import_module_name_length_cannot_be_zero",
	CodeImportModuleNameTooLength:          "import_module_name_too_length",
	CodeInvalidImportExternNameLength:      "invalid_import_extern_name_length",
	CodeImportExternNameLengthCannotBeZero: "import_extern_name_length_cannot_be_zero",
	CodeImportExternNameTooLength:          "import_extern_name_too_length",
	CodeImportMissingImportType:            "import_missing_import_type",
	CodeIllegalImportdescPrefix:            "illegal_importdesc_prefix",
	CodeDuplicateImports:                   "duplicate_imports_of_the_same_import_type",
	CodeInvalidTypeIndex:                   "invalid_type_index",
	CodeIllegalTypeIndex:                   "illegal_type_index",
	CodeImpDefNumExceedU32Max:              "imp_def_num_exceed_u32max",

	CodeTableTypeCannotFindElement:  "table_type_cannot_find_element",
	CodeTableTypeIllegalElement:     "table_type_illegal_element",
	CodeLimitTypeCannotFindFlag:     "limit_type_cannot_find_flag",
	CodeLimitTypeIllegalFlag:        "limit_type_illegal_flag",
	CodeLimitTypeInvalidMin:         "limit_type_invalid_min",
	CodeLimitTypeInvalidMax:         "limit_type_invalid_max",
	CodeLimitTypeMaxLtMin:           "limit_type_max_lt_min",
	CodeGlobalTypeCannotFindValtype: "global_type_cannot_find_valtype",
	CodeGlobalTypeIllegalValtype:    "global_type_illegal_valtype",
	CodeGlobalTypeCannotFindMut:     "global_type_cannot_find_mut",
	CodeGlobalTypeIllegalMut:        "global_type_illegal_mut",

	CodeInvalidFuncCount:              "invalid_func_count",
	CodeFuncSectionResolvedExceeded:   "func_section_resolved_exceeded_the_actual_number",
	CodeFuncSectionResolvedNotMatch:   "func_section_resolved_not_match_the_actual_number",
	CodeInvalidTableCount:             "invalid_table_count",
	CodeTableSectionResolvedExceeded:  "table_section_resolved_exceeded_the_actual_number",
	CodeTableSectionResolvedNotMatch:  "table_section_resolved_not_match_the_actual_number",
	CodeWasm1NotAllowMultiTable:       "wasm1_not_allow_multi_table",
	CodeInvalidMemoryCount:            "invalid_memory_count",
	CodeMemorySectionResolvedExceeded: "memory_section_resolved_exceeded_the_actual_number",
	CodeMemorySectionResolvedNotMatch: "memory_section_resolved_not_match_the_actual_number",
	CodeWasm1NotAllowMultiMemory:      "wasm1_not_allow_multi_memory",
	CodeInvalidGlobalCount:            "invalid_global_count",
	CodeGlobalSectionResolvedExceeded: "global_section_resolved_exceeded_the_actual_number",
	CodeGlobalSectionResolvedNotMatch: "global_section_resolved_not_match_the_actual_number",
	CodeGlobalInitTerminatorNotFound:  "global_init_terminator_not_found",

	CodeInitConstExprTerminatorNotFound:       "init_const_expr_terminator_not_found",
	CodeInitConstExprIllegalInstruction:       "init_const_expr_illegal_instruction",
	CodeInitConstExprIllegalData:              "init_const_expr_illegal_data",
	CodeInitConstExprStackEmpty:               "init_const_expr_stack_empty",
	CodeInitConstExprStackShouldBeOnlyOne:     "init_const_expr_stack_should_be_only_one_element",
	CodeInitConstExprTypeMismatch:             "init_const_expr_type_mismatch",
	CodeInitConstExprRefIllegalImportedGlobal: "init_const_expr_ref_illegal_imported_global",
	CodeInitConstExprRefMutableImportedGlobal: "init_const_expr_ref_mutable_imported_global",

	CodeInvalidExportCount:            "invalid_export_count",
	CodeExportSectionResolvedExceeded: "export_section_resolved_exceeded_the_actual_number",
	CodeExportSectionResolvedNotMatch: "export_section_resolved_not_match_the_actual_number",
	CodeInvalidExportNameLength:       "invalid_export_name_length",
	CodeExportNameLengthCannotBeZero:  "export_name_length_cannot_be_zero",
	CodeExportNameTooLength:           "export_name_too_length",
	CodeExportMissingExportType:       "export_missing_export_type",
	CodeIllegalExportdescPrefix:       "illegal_exportdesc_prefix",
	CodeDuplicateExports:              "duplicate_exports_of_the_same_export_type",
	CodeExportMissingExportIdx:        "export_missing_export_idx",
	CodeInvalidExportIdx:              "invalid_export_idx",
	CodeExportedIndexExceedsMaxval:    "exported_index_exceeds_maxvul",

	CodeInvalidStartIdx:           "invalid_start_idx",
	CodeStartIndexExceedsMaxval:   "start_index_exceeds_maxvul",
	CodeFuncRefByStartIllegalSign: "func_ref_by_start_has_illegal_sign",

	CodeInvalidElemCount:            "invalid_elem_count",
	CodeElemSectionResolvedExceeded: "elem_section_resolved_exceeded_the_actual_number",
	CodeElemSectionResolvedNotMatch: "element_section_resolved_not_match_the_actual_number",
	CodeInvalidElemTableIdx:         "invalid_elem_table_idx",
	CodeInvalidElemKind:             "invalid_elem_kind",
	CodeElemTableIndexExceedsMaxval: "elem_table_index_exceeds_maxvul",
	CodeElemInitTerminatorNotFound:  "elem_init_terminator_not_found",
	CodeInvalidElemFuncidxCount:     "invalid_elem_funcidx_count",
	CodeInvalidElemFuncidx:          "invalid_elem_funcidx",
	CodeElemFuncIndexExceedsMaxval:  "elem_func_index_exceeds_maxvul",

	CodeInvalidCodeCount:            "invalid_code_count",
	CodeCodeNeDefinedFunc:           "code_ne_defined_func",
	CodeCodeSectionResolvedExceeded: "code_section_resolved_exceeded_the_actual_number",
	CodeCodeSectionResolvedNotMatch: "code_section_resolved_not_match_the_actual_number",
	CodeInvalidCodeBodySize:         "invalid_code_body_size",
	CodeIllegalCodeBodySize:         "illegal_code_body_size",
	CodeInvalidLocalCount:           "invalid_local_count",
	CodeInvalidClocalN:              "invalid_clocal_n",
	CodeLocalsExceedU32Max:          "final_list_of_locals_exceeds_the_maximum_value_of_u32max",
	CodeCodeMissingLocalType:        "code_missing_local_type",

	CodeInvalidDataCount:             "invalid_data_count",
	CodeDataSectionResolvedExceeded:  "data_section_resolved_exceeded_the_actual_number",
	CodeDataSectionResolvedNotMatch:  "data_section_resolved_not_match_the_actual_number",
	CodeInvalidDataMemoryIdx:         "invalid_data_memory_idx",
	CodeInvalidDataKind:              "invalid_data_kind",
	CodeDataMemoryIndexExceedsMaxval: "data_memory_index_exceeds_maxvul",
	CodeDataInitTerminatorNotFound:   "data_init_terminator_not_found",
	CodeInvalidDataByteSizeCount:     "invalid_data_byte_size_count",
	CodeIllegalDataByteSizeCount:     "illegal_data_byte_size_count",
}

// String returns the canonical snake_case name of the code.
func (c Code) String() string {
	if c < codeCount {
		return codeNames[c]
	}
	return codeNames[CodeUnknown]
}

// Codes returns every defined code in declaration order.
func Codes() []Code {
	out := make([]Code, 0, codeCount)
	for c := CodeOK; c < codeCount; c++ {
		out = append(out, c)
	}
	return out
}

// Phase reports which decoding stage raises the code.
func (c Code) Phase() Phase {
	switch c {
	case CodeIllegalBeginPointer, CodeIllegalWasmFileFormat, CodeNoWasmSectionFound,
		CodeInvalidSectionLength, CodeIllegalSectionLength, CodeIllegalSectionID,
		CodeDuplicateSection, CodeInvalidSectionCanonicalOrder, CodeForwardDependencyMissing:
		return PhaseScan
	case CodeIllegalTypeIndex, CodeImpDefNumExceedU32Max, CodeDuplicateImports,
		CodeWasm1NotAllowMultiTable, CodeWasm1NotAllowMultiMemory, CodeLimitTypeMaxLtMin,
		CodeInitConstExprTypeMismatch, CodeInitConstExprRefIllegalImportedGlobal,
		CodeInitConstExprRefMutableImportedGlobal, CodeDuplicateExports,
		CodeExportedIndexExceedsMaxval, CodeStartIndexExceedsMaxval, CodeFuncRefByStartIllegalSign,
		CodeElemTableIndexExceedsMaxval, CodeElemFuncIndexExceedsMaxval, CodeCodeNeDefinedFunc,
		CodeDataMemoryIndexExceedsMaxval, CodeExceedParserLimit:
		return PhaseValidate
	default:
		return PhaseDecode
	}
}

// Err returns a sentinel matching any *Error carrying this code, for use
// with errors.Is.
func (c Code) Err() error {
	return &Error{Code: c, Payload: None{}}
}
