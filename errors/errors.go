package errors

import (
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseScan     Phase = "scan"     // header and section framing
	PhaseDecode   Phase = "decode"   // section contents
	PhaseValidate Phase = "validate" // cross-references and module-wide checks
)

// Error is the record produced by a failed decode. Offset is relative to
// the start of the module.
type Error struct {
	Payload Payload
	Cause   error
	Offset  int
	Code    Code
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Code.Phase()))
	b.WriteString("] ")
	b.WriteString(e.Code.String())
	b.WriteString(" at offset ")
	b.WriteString(strconv.Itoa(e.Offset))

	if e.Payload != nil {
		if s := e.Payload.String(); s != "" {
			b.WriteString(": ")
			b.WriteString(s)
		}
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same code
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(code Code) *Builder {
	return &Builder{
		err: Error{
			Code:    code,
			Payload: None{},
		},
	}
}

// At sets the module-relative offset
func (b *Builder) At(offset int) *Builder {
	b.err.Offset = offset
	return b
}

// Payload sets the typed detail
func (b *Builder) Payload(p Payload) *Builder {
	b.err.Payload = p
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// At creates an error without payload
func At(code Code, offset int) *Error {
	return &Error{Code: code, Offset: offset, Payload: None{}}
}

// Malformed creates an error for a value that could not be read
func Malformed(code Code, offset int, cause error) *Error {
	return &Error{Code: code, Offset: offset, Payload: None{}, Cause: cause}
}

// WithByte creates an error carrying the offending byte
func WithByte(code Code, offset int, b byte) *Error {
	return &Error{Code: code, Offset: offset, Payload: Byte(b)}
}

// WithU32 creates an error carrying a 32-bit value
func WithU32(code Code, offset int, v uint32) *Error {
	return &Error{Code: code, Offset: offset, Payload: U32(v)}
}

// OutOfBounds creates an index bound error
func OutOfBounds(code Code, offset int, index, max uint32) *Error {
	return &Error{Code: code, Offset: offset, Payload: Bound{Index: index, Max: max}}
}

// CountMismatch creates a declared/resolved mismatch error
func CountMismatch(code Code, offset int, declared, resolved uint32) *Error {
	return &Error{Code: code, Offset: offset, Payload: Counts{Declared: declared, Resolved: resolved}}
}

// NotEnoughSpace creates an error for a read that ran past end
func NotEnoughSpace(offset, end int) *Error {
	return &Error{Code: CodeNotEnoughSpace, Offset: offset, Payload: End{Offset: end}}
}
