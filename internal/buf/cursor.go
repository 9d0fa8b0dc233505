package buf

import (
	"errors"
	"fmt"
)

// ErrShortBuffer is returned when a cursor operation would move past the end
// of its buffer.
var ErrShortBuffer = errors.New("buf: short buffer")

// Cursor reads sequentially through a read-only buffer. It never copies or
// mutates the underlying bytes.
type Cursor struct {
	b   []byte
	pos int
}

// NewCursor returns a cursor positioned at the start of b.
func NewCursor(b []byte) *Cursor {
	return &Cursor{b: b}
}

// Pos returns the number of bytes consumed so far.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of bytes left after the cursor.
func (c *Cursor) Remaining() int { return len(c.b) - c.pos }

// advance is the single bounds check every read goes through.
func (c *Cursor) advance(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("advance %d: %w", n, ErrShortBuffer)
	}
	if n > c.Remaining() {
		return nil, fmt.Errorf("need %d bytes at %d, have %d: %w", n, c.pos, c.Remaining(), ErrShortBuffer)
	}
	p := c.b[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return p, nil
}

// Skip advances the cursor by n bytes without decoding them.
func (c *Cursor) Skip(n int) error {
	_, err := c.advance(n)
	return err
}

// Bytes returns the next n bytes as a sub-slice of the underlying buffer.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	return c.advance(n)
}

// ReadU8 consumes one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	p, err := c.advance(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// ReadU16 consumes two bytes in big-endian order.
func (c *Cursor) ReadU16() (uint16, error) {
	p, err := c.advance(2)
	if err != nil {
		return 0, err
	}
	return U16BE(p), nil
}

// ReadU24 consumes three bytes in big-endian order.
func (c *Cursor) ReadU24() (uint32, error) {
	p, err := c.advance(3)
	if err != nil {
		return 0, err
	}
	return U24BE(p), nil
}

// ReadU32 consumes four bytes in big-endian order.
func (c *Cursor) ReadU32() (uint32, error) {
	p, err := c.advance(4)
	if err != nil {
		return 0, err
	}
	return U32BE(p), nil
}
