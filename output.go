// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcspv

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// valueSize is the size of the little-endian satoshi amount that begins every
// output.
const valueSize = 8

// ExtractValueLE returns the 8-byte little-endian value of the provided output.
func ExtractValueLE(output []byte) ([]byte, error) {
	return slice(output, 0, valueSize)
}

// ExtractValue returns the value in satoshis of the provided output.
func ExtractValue(output []byte) (uint64, error) {
	value, err := ExtractValueLE(output)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(value), nil
}

// parseOutputScriptLen decodes the variable length integer that encodes the
// script length of the provided output.
func parseOutputScriptLen(output []byte) (VarInt, error) {
	if len(output) < valueSize {
		str := fmt.Sprintf("output of %d bytes ends before its %d byte value",
			len(output), valueSize)
		return VarInt{}, makeError(ErrOutOfRange, str)
	}
	return ParseVarInt(output[valueSize:])
}

// ExtractOutputScriptLen returns the length of the script of the provided
// output.  The returned length does not include the variable length integer
// that encodes it.
func ExtractOutputScriptLen(output []byte) (uint64, error) {
	varInt, err := parseOutputScriptLen(output)
	if err != nil {
		return 0, err
	}
	return varInt.Value, nil
}

// DetermineOutputLength returns the total number of bytes the provided output
// occupies: the value, the script length prefix, and the script.  Only the
// bytes up to and including the script length need to be present.
//
// Unlike ValidateVin, a script length that can't be decoded is treated as
// malformed data rather than a failed validation.  An error of kind
// ErrInvalidVarInt is returned when the length prefix is truncated, when a
// multi-byte prefix encodes a zero length, or when the declared length can't
// be addressed.
func DetermineOutputLength(output []byte) (uint64, error) {
	varInt, err := parseOutputScriptLen(output)
	switch {
	case errors.Is(err, ErrMalformedVarInt):
		str := fmt.Sprintf("unable to read output script length: %v", err)
		return 0, makeError(ErrInvalidVarInt, str)
	case err != nil:
		return 0, err
	}

	if varInt.PrefixLength > 1 && varInt.Value == 0 {
		str := fmt.Sprintf("zero script length encoded with %d bytes",
			varInt.PrefixLength)
		return 0, makeError(ErrInvalidVarInt, str)
	}
	if varInt.Value > math.MaxUint32 {
		str := fmt.Sprintf("script length %d exceeds the maximum "+
			"addressable size", varInt.Value)
		return 0, makeError(ErrInvalidVarInt, str)
	}

	return valueSize + uint64(varInt.PrefixLength) + varInt.Value, nil
}

// ExtractScript returns the script of the provided output without its length
// prefix.
func ExtractScript(output []byte) ([]byte, error) {
	varInt, err := parseOutputScriptLen(output)
	if err != nil {
		return nil, err
	}
	offset := valueSize + varInt.PrefixLength
	if varInt.Value > uint64(len(output)-offset) {
		str := fmt.Sprintf("script of %d bytes overruns %d byte output",
			varInt.Value, len(output))
		return nil, makeError(ErrOutOfRange, str)
	}
	return slice(output, offset, int(varInt.Value))
}

// ExtractHash returns the hash committed to by the script of the provided
// output when it is a P2PKH, P2SH, P2WPKH, or P2WSH script.
//
// A nil slice is returned for every other output, including null data outputs
// and outputs too short to hold their declared script.  This is an expected
// outcome rather than an error.
func ExtractHash(output []byte) []byte {
	script, err := ExtractScript(output)
	if err != nil {
		return nil
	}
	return ExtractScriptHash(script)
}

// ExtractOpReturnData returns the data pushed by the script of the provided
// output when it has the form OP_RETURN <pushdata>.  A nil slice is returned
// for every other output.
func ExtractOpReturnData(output []byte) []byte {
	script, err := ExtractScript(output)
	if err != nil {
		return nil
	}
	return ExtractScriptOpReturnData(script)
}
