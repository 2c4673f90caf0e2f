// Package securebuf provides a fixed-size byte container that guarantees
// zeroization on destruction and forbids accidental reuse of key material
// after release. The header's Salt, HeaderKey, and DataAreaKey and the trial
// engine's header-key buffer are Buffers; short-lived plain slices that hold
// key bytes, such as the decrypted scratch plaintext, are zeroed with Wipe.
package securebuf

import (
	"crypto/subtle"

	"Picocrypt-NG/internal/errors"
)

// Buffer is a fixed-size, zero-on-close byte container.
type Buffer struct {
	data   []byte
	closed bool
}

// New allocates a Buffer of the given size, zero-filled.
func New(size int) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

// NewFrom allocates a Buffer and copies src into it. The buffer's size is
// len(src).
func NewFrom(src []byte) *Buffer {
	b := New(len(src))
	copy(b.data, src)
	return b
}

// Size returns the buffer's fixed capacity.
func (b *Buffer) Size() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// CopyFrom overwrites the buffer's contents with src. src must fit exactly;
// a length mismatch is ErrParameterIncorrect, not silently truncated or
// zero-padded, since a short or long copy here always indicates the caller
// sized something wrong upstream.
func (b *Buffer) CopyFrom(src []byte) error {
	if b.closed {
		return errors.NewParamError("securebuf", "CopyFrom on closed buffer")
	}
	if len(src) != len(b.data) {
		return errors.NewParamError("securebuf", "CopyFrom length mismatch")
	}
	copy(b.data, src)
	return nil
}

// GetRange returns a bounded view into the buffer — not a copy, and not a
// transfer of ownership. The view is invalidated by the next Zero/Close.
func (b *Buffer) GetRange(offset, length int) ([]byte, error) {
	if b.closed {
		return nil, errors.NewOutOfRange("securebuf: GetRange on closed buffer", offset, length, 0)
	}
	if offset < 0 || length < 0 || offset+length > len(b.data) {
		return nil, errors.NewOutOfRange("securebuf: GetRange", offset, length, len(b.data))
	}
	return b.data[offset : offset+length], nil
}

// Zero overwrites the buffer's contents with zeros in a way the compiler
// cannot elide, without releasing the underlying storage.
func (b *Buffer) Zero() {
	if b == nil || len(b.data) == 0 {
		return
	}
	zeros := make([]byte, len(b.data))
	subtle.ConstantTimeCopy(1, b.data, zeros)
}

// Close zeros the buffer and marks it unusable. Idempotent.
func (b *Buffer) Close() {
	if b == nil || b.closed {
		return
	}
	b.Zero()
	b.closed = true
}

// Wipe is a free function form of Zero for plain byte slices that never got
// wrapped in a Buffer (e.g. a short-lived copy taken for a single compare).
func Wipe(slices ...[]byte) {
	for _, s := range slices {
		if len(s) == 0 {
			continue
		}
		zeros := make([]byte, len(s))
		subtle.ConstantTimeCopy(1, s, zeros)
	}
}
