// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcspv

import (
	"encoding/binary"
	"fmt"
)

// VarInt is a decoded Bitcoin variable length integer (also known as a
// CompactSize) along with the number of bytes its encoding occupies.
type VarInt struct {
	// PrefixLength is the total encoded length including the prefix byte.
	// It is always one of 1, 3, 5, or 9.
	PrefixLength int

	// Value is the decoded integer.
	Value uint64
}

// DetermineVarIntDataLength returns the number of bytes implied by the prefix
// byte of a variable length integer.  Prefixes below 0xfd hold the value
// themselves and report 1, referring to the prefix byte.  The 0xfd, 0xfe, and
// 0xff prefixes report the 2, 4, and 8 little-endian data bytes that follow.
func DetermineVarIntDataLength(prefix byte) int {
	switch prefix {
	case 0xfd:
		return 2
	case 0xfe:
		return 4
	case 0xff:
		return 8
	default:
		return 1
	}
}

// varIntTrailingLen returns the number of data bytes that follow the prefix
// byte.  It is zero for single byte encodings.
func varIntTrailingLen(prefix byte) int {
	if prefix < 0xfd {
		return 0
	}
	return DetermineVarIntDataLength(prefix)
}

// ParseVarInt decodes the variable length integer at the start of the provided
// buffer.  Non-minimal encodings are accepted at face value.  An error of kind
// ErrMalformedVarInt is returned when the buffer is empty or ends before all of
// the data bytes announced by the prefix.
func ParseVarInt(b []byte) (VarInt, error) {
	if len(b) == 0 {
		return VarInt{}, makeError(ErrMalformedVarInt,
			"no bytes available for varint prefix")
	}

	prefix := b[0]
	dataLen := varIntTrailingLen(prefix)
	if len(b)-1 < dataLen {
		str := fmt.Sprintf("varint prefix 0x%02x requires %d data bytes, "+
			"but only %d remain", prefix, dataLen, len(b)-1)
		return VarInt{}, makeError(ErrMalformedVarInt, str)
	}

	var value uint64
	switch dataLen {
	case 0:
		value = uint64(prefix)
	case 2:
		value = uint64(binary.LittleEndian.Uint16(b[1:3]))
	case 4:
		value = uint64(binary.LittleEndian.Uint32(b[1:5]))
	case 8:
		value = binary.LittleEndian.Uint64(b[1:9])
	}
	return VarInt{PrefixLength: 1 + dataLen, Value: value}, nil
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// the provided value as a minimally encoded variable length integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	}
	return 9
}

// AppendVarInt appends the minimal variable length integer encoding of the
// provided value to dst and returns the extended buffer.
func AppendVarInt(dst []byte, val uint64) []byte {
	switch {
	case val < 0xfd:
		return append(dst, uint8(val))
	case val <= 0xffff:
		dst = append(dst, 0xfd)
		return binary.LittleEndian.AppendUint16(dst, uint16(val))
	case val <= 0xffffffff:
		dst = append(dst, 0xfe)
		return binary.LittleEndian.AppendUint32(dst, uint32(val))
	}
	dst = append(dst, 0xff)
	return binary.LittleEndian.AppendUint64(dst, val)
}
