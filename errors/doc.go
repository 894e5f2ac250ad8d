// Package errors provides the diagnostic record produced by the decoder.
//
// Every failure is a single *Error carrying the module-relative byte offset,
// a Code from a closed enumeration, and a typed Payload selected by that code.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.CodeIllegalValueType).
//		At(12).
//		Payload(errors.Byte(0xff)).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.WithByte(errors.CodeGlobalTypeIllegalMut, off, 0x02)
//	err := errors.CountMismatch(errors.CodeTypeSectionResolvedNotMatch, end, 2, 1)
//
// Errors match by code with errors.Is:
//
//	if errors.Is(err, errors.CodeDuplicateSection.Err()) { ... }
package errors
