package binary

import (
	"github.com/wippyai/wasm-binfmt/errors"
)

// VectorCodes selects the diagnostics reported by a count-prefixed vector.
type VectorCodes struct {
	Invalid  errors.Code // count could not be read
	Exceeded errors.Code // more entries than declared
	Mismatch errors.Code // fewer entries than declared
	Limit    string      // parser limit name reported with CodeExceedParserLimit
}

// ReadCount reads a vector count and checks it against the platform size
// and limit. A zero limit disables the limit check.
func ReadCount(c *Cursor, codes VectorCodes, limit uint64) (uint32, error) {
	off := c.pos
	n, err := c.ReadU32()
	if err != nil {
		return 0, errors.Malformed(codes.Invalid, off, err)
	}
	if !FitsInt(uint64(n)) {
		return 0, errors.New(errors.CodeSizeExceedsMaxSizeT).At(off).Payload(errors.U64(n)).Build()
	}
	if limit != 0 && uint64(n) > limit {
		return 0, errors.New(errors.CodeExceedParserLimit).
			At(off).
			Payload(errors.Limit{Name: codes.Limit, Value: uint64(n), Max: limit}).
			Build()
	}
	return n, nil
}

// ReadEntries decodes entries until the cursor range is exhausted. Decoding
// a (count+1)th entry fails with codes.Exceeded at that entry's offset;
// running out of bytes before count entries fails with codes.Mismatch at
// the end of the range.
func ReadEntries[T any](c *Cursor, count uint32, codes VectorCodes, decode func(*Cursor) (T, error)) ([]T, error) {
	out := make([]T, 0, min(uint64(count), uint64(c.Len())))
	var resolved uint32
	for c.pos != c.end {
		if resolved == count {
			return nil, errors.WithU32(codes.Exceeded, c.pos, count)
		}
		v, err := decode(c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		resolved++
	}
	if resolved != count {
		return nil, errors.CountMismatch(codes.Mismatch, c.pos, count, resolved)
	}
	return out, nil
}

// ReadVector reads a count followed by exactly that many entries filling
// the rest of the cursor range.
func ReadVector[T any](c *Cursor, codes VectorCodes, limit uint64, decode func(*Cursor) (T, error)) ([]T, error) {
	n, err := ReadCount(c, codes, limit)
	if err != nil {
		return nil, err
	}
	return ReadEntries(c, n, codes, decode)
}
