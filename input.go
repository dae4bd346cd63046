// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcspv

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// outpointSize is the size of a serialized outpoint: a 32-byte previous
	// transaction id followed by a 4-byte little-endian output index.
	outpointSize = 36

	// sequenceSize is the size of the sequence number that ends every input.
	sequenceSize = 4

	// minInputSize is the size of an input with an empty scriptSig, which is
	// also the size of every witness placeholder input.
	minInputSize = outpointSize + 1 + sequenceSize
)

// scriptSigPrefixByte returns the first byte following the outpoint of the
// provided input.
func scriptSigPrefixByte(input []byte) (byte, error) {
	if len(input) <= outpointSize {
		str := fmt.Sprintf("input of %d bytes ends before its scriptSig "+
			"length at offset %d", len(input), outpointSize)
		return 0, makeError(ErrOutOfRange, str)
	}
	return input[outpointSize], nil
}

// IsLegacyInput returns whether or not the provided input carries its
// scriptSig inline.  Inputs whose scriptSig length is zero are witness
// placeholders whose spend data lives outside the main transaction body.
func IsLegacyInput(input []byte) (bool, error) {
	prefix, err := scriptSigPrefixByte(input)
	if err != nil {
		return false, err
	}
	return prefix != 0, nil
}

// ExtractOutpoint returns the 36-byte outpoint that begins the provided input.
func ExtractOutpoint(input []byte) ([]byte, error) {
	return slice(input, 0, outpointSize)
}

// ExtractInputTxIDLE returns the previous transaction id of the provided input
// in the little-endian order it is serialized in.
func ExtractInputTxIDLE(input []byte) ([]byte, error) {
	return slice(input, 0, 32)
}

// ExtractInputTxID returns the previous transaction id of the provided input
// in the big-endian order it is conventionally displayed in.
func ExtractInputTxID(input []byte) ([]byte, error) {
	txid, err := ExtractInputTxIDLE(input)
	if err != nil {
		return nil, err
	}
	return ReverseEndianness(txid), nil
}

// ExtractTxIndexLE returns the 4-byte little-endian previous output index of
// the provided input.
func ExtractTxIndexLE(input []byte) ([]byte, error) {
	return slice(input, 32, 4)
}

// ExtractTxIndex returns the previous output index of the provided input.
func ExtractTxIndex(input []byte) (uint32, error) {
	idx, err := ExtractTxIndexLE(input)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(idx), nil
}

// ExtractScriptSigLen returns the number of data bytes that follow the prefix
// of the variable length integer encoding the scriptSig length along with the
// scriptSig length itself.  Single byte encodings report zero data bytes, so a
// witness placeholder input reports (0, 0).
func ExtractScriptSigLen(input []byte) (int, uint64, error) {
	if _, err := scriptSigPrefixByte(input); err != nil {
		return 0, 0, err
	}
	varInt, err := ParseVarInt(input[outpointSize:])
	if err != nil {
		return 0, 0, err
	}
	return varInt.PrefixLength - 1, varInt.Value, nil
}

// scriptSigSpan returns the number of bytes occupied by the scriptSig of the
// provided input including its length prefix.
func scriptSigSpan(input []byte) (uint64, error) {
	dataLen, scriptSigLen, err := ExtractScriptSigLen(input)
	if err != nil {
		return 0, err
	}
	if scriptSigLen > math.MaxUint32 {
		str := fmt.Sprintf("scriptSig length %d exceeds the maximum "+
			"addressable size", scriptSigLen)
		return 0, makeError(ErrOutOfRange, str)
	}
	return 1 + uint64(dataLen) + scriptSigLen, nil
}

// ExtractScriptSig returns the length-prefixed scriptSig of the provided input.
// A witness placeholder input yields the single zero length byte.
func ExtractScriptSig(input []byte) ([]byte, error) {
	span, err := scriptSigSpan(input)
	if err != nil {
		return nil, err
	}
	if span > uint64(len(input)-outpointSize) {
		str := fmt.Sprintf("scriptSig of %d bytes overruns %d byte input",
			span, len(input))
		return nil, makeError(ErrOutOfRange, str)
	}
	return slice(input, outpointSize, int(span))
}

// ExtractSequenceLELegacy returns the 4-byte little-endian sequence number of
// an input by skipping over its length-prefixed scriptSig.
func ExtractSequenceLELegacy(input []byte) ([]byte, error) {
	span, err := scriptSigSpan(input)
	if err != nil {
		return nil, err
	}
	offset := uint64(outpointSize) + span
	if offset > uint64(len(input)) {
		str := fmt.Sprintf("sequence at offset %d overruns %d byte input",
			offset, len(input))
		return nil, makeError(ErrOutOfRange, str)
	}
	return slice(input, int(offset), sequenceSize)
}

// ExtractSequenceLegacy returns the sequence number of an input by skipping
// over its length-prefixed scriptSig.
func ExtractSequenceLegacy(input []byte) (uint32, error) {
	seq, err := ExtractSequenceLELegacy(input)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(seq), nil
}

// ExtractSequenceLEWitness returns the 4-byte little-endian sequence number of
// a witness placeholder input, which always directly follows the zero scriptSig
// length byte.
func ExtractSequenceLEWitness(input []byte) ([]byte, error) {
	return slice(input, outpointSize+1, sequenceSize)
}

// ExtractSequenceWitness returns the sequence number of a witness placeholder
// input.
func ExtractSequenceWitness(input []byte) (uint32, error) {
	seq, err := ExtractSequenceLEWitness(input)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(seq), nil
}

// DetermineInputLength returns the total number of bytes the provided input
// occupies: the outpoint, the scriptSig with its length prefix, and the
// sequence number.  Only the bytes up to and including the scriptSig length
// need to be present.
func DetermineInputLength(input []byte) (uint64, error) {
	span, err := scriptSigSpan(input)
	if err != nil {
		return 0, err
	}
	return outpointSize + span + sequenceSize, nil
}
