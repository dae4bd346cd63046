// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcspv

import (
	"fmt"

	"github.com/decred/dcrd/math/uint256"
)

// ByteView is a non-owning, read-only window into a byte buffer.  Slicing a
// view produces a new view over the same underlying buffer without copying.
//
// The zero value is an empty view.
type ByteView struct {
	buf    []byte
	offset int
	length int
}

// NewByteView returns a view that covers the entire provided buffer.
func NewByteView(buf []byte) ByteView {
	return ByteView{buf: buf, length: len(buf)}
}

// Len returns the number of bytes covered by the view.
func (v ByteView) Len() int {
	return v.length
}

// Bytes returns the bytes covered by the view.  The returned slice shares the
// underlying buffer and has its capacity capped to the view so appending to it
// never clobbers bytes outside the view.  Callers must treat it as read only.
func (v ByteView) Bytes() []byte {
	end := v.offset + v.length
	return v.buf[v.offset:end:end]
}

// At returns the byte at the provided offset relative to the start of the view.
func (v ByteView) At(i int) (byte, error) {
	if i < 0 || i >= v.length {
		str := fmt.Sprintf("read at offset %d of %d byte view", i, v.length)
		return 0, makeError(ErrOutOfRange, str)
	}
	return v.buf[v.offset+i], nil
}

// Slice returns a new view of n bytes that starts at the provided offset
// relative to the start of this view.
func (v ByteView) Slice(offset, n int) (ByteView, error) {
	if offset < 0 || n < 0 || offset > v.length || n > v.length-offset {
		str := fmt.Sprintf("slice [%d:%d] out of range for %d byte view",
			offset, offset+n, v.length)
		return ByteView{}, makeError(ErrOutOfRange, str)
	}
	return ByteView{buf: v.buf, offset: v.offset + offset, length: n}, nil
}

// Tail returns a new view of everything after the provided offset.
func (v ByteView) Tail(offset int) (ByteView, error) {
	return v.Slice(offset, v.length-offset)
}

// slice is a convenience wrapper around ByteView.Slice for raw buffers.
func slice(b []byte, offset, n int) ([]byte, error) {
	v, err := NewByteView(b).Slice(offset, n)
	if err != nil {
		return nil, err
	}
	return v.Bytes(), nil
}

// LastBytes returns the final n bytes of the provided buffer.  An error of
// kind ErrOutOfRange is returned when n exceeds the length of the buffer.
func LastBytes(b []byte, n int) ([]byte, error) {
	if n < 0 || n > len(b) {
		str := fmt.Sprintf("requested last %d bytes of %d byte buffer", n,
			len(b))
		return nil, makeError(ErrOutOfRange, str)
	}
	return b[len(b)-n:], nil
}

// ReverseEndianness returns a reversed copy of the provided bytes.  It is
// typically used to convert between the little-endian form Bitcoin uses to
// store hashes internally and the big-endian form used to display them.
func ReverseEndianness(b []byte) []byte {
	reversed := make([]byte, len(b))
	for i := range b {
		reversed[len(b)-1-i] = b[i]
	}
	return reversed
}

// BytesToUint interprets the provided big-endian bytes as an unsigned integer.
// Inputs up to 32 bytes are converted exactly.  Wider inputs can't be
// represented and are rejected with ErrOutOfRange rather than truncated.
func BytesToUint(b []byte) (*uint256.Uint256, error) {
	if len(b) > 32 {
		str := fmt.Sprintf("%d bytes exceeds the 32 byte maximum for an "+
			"unsigned 256-bit integer", len(b))
		return nil, makeError(ErrOutOfRange, str)
	}
	var n uint256.Uint256
	n.SetByteSlice(b)
	return &n, nil
}
