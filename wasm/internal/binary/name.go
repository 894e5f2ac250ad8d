package binary

import (
	"unicode/utf8"

	"github.com/wippyai/wasm-binfmt/errors"
)

// NameCodes selects the diagnostics reported for a length-prefixed name.
type NameCodes struct {
	Invalid errors.Code // length could not be read
	Empty   errors.Code // zero length; CodeOK permits empty names
	TooLong errors.Code // length runs past the range
}

// ReadName reads a length-prefixed UTF-8 name. Length failures are
// reported at the length field.
func ReadName(c *Cursor, codes NameCodes) (string, error) {
	off := c.pos
	n, err := c.ReadU32()
	if err != nil {
		return "", errors.Malformed(codes.Invalid, off, err)
	}
	if n == 0 {
		if codes.Empty != errors.CodeOK {
			c.pos = off
			return "", errors.At(codes.Empty, off)
		}
		return "", nil
	}
	if !FitsInt(uint64(n)) {
		c.pos = off
		return "", errors.New(errors.CodeSizeExceedsMaxSizeT).At(off).Payload(errors.U64(n)).Build()
	}
	if int(n) > c.end-c.pos {
		c.pos = off
		return "", errors.WithU32(codes.TooLong, off, n)
	}
	data := c.buf[c.pos : c.pos+int(n)]
	if bad := invalidUTF8(data); bad >= 0 {
		c.pos += bad
		return "", errors.At(errors.CodeInvalidUTF8Sequence, c.pos)
	}
	c.pos += int(n)
	return string(data), nil
}

// invalidUTF8 returns the index of the first byte that does not start a
// valid UTF-8 sequence, or -1.
func invalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
