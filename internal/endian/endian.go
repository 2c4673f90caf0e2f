// Package endian implements bounds-checked, big-endian fixed-width reads and
// writes against an in-memory buffer, in the read-advance/write-advance style
// used throughout the volume header codec.
package endian

import (
	"encoding/binary"

	"Picocrypt-NG/internal/errors"
)

// Cursor tracks a read or write offset into a fixed buffer. The zero value
// starts at offset 0.
type Cursor struct {
	buf    []byte
	offset int
}

// NewCursor wraps buf for sequential big-endian access starting at offset 0.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the cursor's current position.
func (c *Cursor) Offset() int { return c.offset }

// Seek repositions the cursor without touching the buffer.
func (c *Cursor) Seek(offset int) { c.offset = offset }

func (c *Cursor) advance(n int) (int, error) {
	start := c.offset
	c.offset += n
	if c.offset > len(c.buf) {
		return 0, errors.NewOutOfRange("endian: advance past buffer end", start, n, len(c.buf))
	}
	return start, nil
}

// ReadU16 reads a big-endian uint16 at the cursor and advances it by 2.
func (c *Cursor) ReadU16() (uint16, error) {
	start, err := c.advance(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(c.buf[start : start+2]), nil
}

// ReadU32 reads a big-endian uint32 at the cursor and advances it by 4.
func (c *Cursor) ReadU32() (uint32, error) {
	start, err := c.advance(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(c.buf[start : start+4]), nil
}

// ReadU64 reads a big-endian uint64 at the cursor and advances it by 8.
func (c *Cursor) ReadU64() (uint64, error) {
	start, err := c.advance(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(c.buf[start : start+8]), nil
}

// Skip advances the cursor by n bytes without reading, still bounds-checked.
func (c *Cursor) Skip(n int) error {
	_, err := c.advance(n)
	return err
}

// WriteU16 writes v as big-endian at the cursor and advances it by 2.
func (c *Cursor) WriteU16(v uint16) error {
	start, err := c.advance(2)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint16(c.buf[start:start+2], v)
	return nil
}

// WriteU32 writes v as big-endian at the cursor and advances it by 4.
func (c *Cursor) WriteU32(v uint32) error {
	start, err := c.advance(4)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(c.buf[start:start+4], v)
	return nil
}

// WriteU64 writes v as big-endian at the cursor and advances it by 8.
func (c *Cursor) WriteU64(v uint64) error {
	start, err := c.advance(8)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint64(c.buf[start:start+8], v)
	return nil
}

// U32At reads a big-endian uint32 at a fixed offset without touching the
// cursor. Used for CRC check-back reads that must not disturb the main
// sequential walk.
func U32At(buf []byte, offset int) (uint32, error) {
	if offset < 0 || offset+4 > len(buf) {
		return 0, errors.NewOutOfRange("endian: U32At out of range", offset, 4, len(buf))
	}
	return binary.BigEndian.Uint32(buf[offset : offset+4]), nil
}

// PutU32At writes a big-endian uint32 at a fixed offset without touching any
// cursor.
func PutU32At(buf []byte, offset int, v uint32) error {
	if offset < 0 || offset+4 > len(buf) {
		return errors.NewOutOfRange("endian: PutU32At out of range", offset, 4, len(buf))
	}
	binary.BigEndian.PutUint32(buf[offset:offset+4], v)
	return nil
}
