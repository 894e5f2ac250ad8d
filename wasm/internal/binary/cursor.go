package binary

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	// ErrOverflow is returned when a LEB128 value exceeds the target width.
	ErrOverflow = errors.New("leb128: overflow")

	// ErrUnexpectedEnd is returned when a read runs past the end of the range.
	ErrUnexpectedEnd = errors.New("unexpected end of range")
)

// Cursor is a bounds-checked read position over a module buffer.
//
// Positions are absolute indexes into buf, so Pos doubles as the
// module-relative offset used in diagnostics. A failed read leaves the
// position at the start of the value that could not be read.
type Cursor struct {
	buf   []byte
	begin int
	pos   int
	end   int
}

// NewCursor creates a cursor over the whole buffer.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf, end: len(buf)}
}

// Window creates a cursor over buf[begin:end]. The caller guarantees
// 0 <= begin <= end <= len(buf).
func Window(buf []byte, begin, end int) *Cursor {
	return &Cursor{buf: buf, begin: begin, pos: begin, end: end}
}

// Begin returns the first position of the range.
func (c *Cursor) Begin() int { return c.begin }

// Pos returns the current position.
func (c *Cursor) Pos() int { return c.pos }

// End returns the position one past the range.
func (c *Cursor) End() int { return c.end }

// Len returns the number of unread bytes.
func (c *Cursor) Len() int { return c.end - c.pos }

// Done reports whether the range is fully consumed.
func (c *Cursor) Done() bool { return c.pos == c.end }

// Remaining returns the unread bytes without consuming them.
func (c *Cursor) Remaining() []byte { return c.buf[c.pos:c.end:c.end] }

// Since returns the bytes consumed from mark up to the current position.
func (c *Cursor) Since(mark int) []byte { return c.buf[mark:c.pos:c.pos] }

// Skip advances to the end of the range and returns what was skipped.
func (c *Cursor) Skip() []byte {
	rest := c.Remaining()
	c.pos = c.end
	return rest
}

// PeekByte returns the next byte without consuming it.
func (c *Cursor) PeekByte() (byte, error) {
	if c.pos == c.end {
		return 0, ErrUnexpectedEnd
	}
	return c.buf[c.pos], nil
}

// ReadByte reads a single byte and advances the position.
func (c *Cursor) ReadByte() (byte, error) {
	if c.pos == c.end {
		return 0, ErrUnexpectedEnd
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// ReadBytes returns a view of the next n bytes. The view aliases the
// module buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > c.end-c.pos {
		return nil, ErrUnexpectedEnd
	}
	b := c.buf[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return b, nil
}

// Sub returns a cursor over the next n bytes and advances past them.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	if n < 0 || n > c.end-c.pos {
		return nil, ErrUnexpectedEnd
	}
	sub := Window(c.buf, c.pos, c.pos+n)
	c.pos += n
	return sub, nil
}

// ReadUvarint reads an unsigned LEB128 value of at most bits significant
// bits. The encoding may use at most ceil(bits/7) bytes and the unused
// high bits of the final byte must be zero.
func (c *Cursor) ReadUvarint(bits uint) (uint64, error) {
	var result uint64
	var shift uint
	p := c.pos
	for {
		if p == c.end {
			return 0, ErrUnexpectedEnd
		}
		b := c.buf[p]
		p++
		if shift+7 >= bits {
			// final permitted byte
			if b&0x80 != 0 || uint64(b)>>(bits-shift) != 0 {
				return 0, ErrOverflow
			}
			result |= uint64(b) << shift
			break
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
	}
	c.pos = p
	return result, nil
}

// ReadSvarint reads a signed LEB128 value of at most bits significant bits.
// The unused high bits of the final permitted byte must be a sign
// extension of the value.
func (c *Cursor) ReadSvarint(bits uint) (int64, error) {
	var result int64
	var shift uint
	var b byte
	p := c.pos
	for {
		if p == c.end {
			return 0, ErrUnexpectedEnd
		}
		b = c.buf[p]
		p++
		if shift+7 >= bits {
			if b&0x80 != 0 {
				return 0, ErrOverflow
			}
			rest := bits - shift // 1..7 value bits left in this byte
			hi := (b & 0x7f) >> (rest - 1)
			if hi != 0 && hi != 0x7f>>(rest-1) {
				return 0, ErrOverflow
			}
			result |= int64(b&0x7f) << shift
			shift += 7
			break
		}
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	// Sign extend
	if shift < 64 && b&0x40 != 0 {
		result |= ^int64(0) << shift
	}
	c.pos = p
	return result, nil
}

// ReadU32 reads an unsigned LEB128 encoded uint32.
func (c *Cursor) ReadU32() (uint32, error) {
	v, err := c.ReadUvarint(32)
	return uint32(v), err
}

// ReadU64 reads an unsigned LEB128 encoded uint64.
func (c *Cursor) ReadU64() (uint64, error) {
	return c.ReadUvarint(64)
}

// ReadS32 reads a signed LEB128 encoded int32.
func (c *Cursor) ReadS32() (int32, error) {
	v, err := c.ReadSvarint(32)
	return int32(v), err
}

// ReadS64 reads a signed LEB128 encoded int64.
func (c *Cursor) ReadS64() (int64, error) {
	return c.ReadSvarint(64)
}

// ReadU32LE reads a little-endian uint32 (fixed 4 bytes).
func (c *Cursor) ReadU32LE() (uint32, error) {
	buf, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadU64LE reads a little-endian uint64 (fixed 8 bytes).
func (c *Cursor) ReadU64LE() (uint64, error) {
	buf, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// FitsInt reports whether v can be used as a length on this platform.
func FitsInt(v uint64) bool {
	return v <= math.MaxInt
}
