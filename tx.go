// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcspv

import (
	"errors"
	"fmt"
)

// vectorWalker steps through the elements of a variable length integer
// prefixed input or output vector.
type vectorWalker struct {
	vector ByteView
	count  uint64
	offset uint64

	// elementLen determines the length of the element at the start of the
	// provided bytes.
	elementLen func([]byte) (uint64, error)
}

// newVectorWalker decodes the element count of the provided vector and returns
// a walker positioned at its first element.
func newVectorWalker(vector []byte, elementLen func([]byte) (uint64, error)) (*vectorWalker, error) {
	count, err := ParseVarInt(vector)
	if err != nil {
		return nil, err
	}
	return &vectorWalker{
		vector:     NewByteView(vector),
		count:      count.Value,
		offset:     uint64(count.PrefixLength),
		elementLen: elementLen,
	}, nil
}

// remaining returns the number of bytes after the current position.
func (w *vectorWalker) remaining() uint64 {
	return uint64(w.vector.Len()) - w.offset
}

// next returns the length of the element at the current position without
// requiring the whole element to be present and advances past it.
func (w *vectorWalker) next() (uint64, uint64, error) {
	rest, err := w.vector.Tail(int(w.offset))
	if err != nil {
		return 0, 0, err
	}
	length, err := w.elementLen(rest.Bytes())
	if err != nil {
		return 0, 0, err
	}
	start := w.offset
	w.offset += length
	return start, length, nil
}

// elementAt returns the element at the provided index.
func (w *vectorWalker) elementAt(index uint64) ([]byte, error) {
	if index >= w.count {
		str := fmt.Sprintf("index %d is out of range for vector of %d "+
			"elements", index, w.count)
		return nil, makeError(ErrIndexOutOfRange, str)
	}

	for i := uint64(0); ; i++ {
		start, length, err := w.next()
		if err != nil {
			return nil, err
		}
		if w.offset > uint64(w.vector.Len()) {
			str := fmt.Sprintf("element %d of %d bytes at offset %d overruns "+
				"%d byte vector", i, length, start, w.vector.Len())
			return nil, makeError(ErrOutOfRange, str)
		}
		if i == index {
			element, err := w.vector.Slice(int(start), int(length))
			if err != nil {
				return nil, err
			}
			return element.Bytes(), nil
		}
	}
}

// ExtractInputAtIndex returns the input at the provided index of a variable
// length integer prefixed input vector.  The vector is walked from its first
// input, so every preceding input must be well formed.
//
// An error of kind ErrIndexOutOfRange is returned when the index is not less
// than the declared number of inputs and ErrOutOfRange is returned when an
// input extends past the end of the vector.
func ExtractInputAtIndex(vin []byte, index uint64) ([]byte, error) {
	walker, err := newVectorWalker(vin, DetermineInputLength)
	if err != nil {
		return nil, err
	}
	return walker.elementAt(index)
}

// ExtractOutputAtIndex returns the output at the provided index of a variable
// length integer prefixed output vector.  The vector is walked from its first
// output, so every preceding output must be well formed.
//
// An error of kind ErrIndexOutOfRange is returned when the index is not less
// than the declared number of outputs.  Malformed script lengths are reported
// as they are by DetermineOutputLength.
func ExtractOutputAtIndex(vout []byte, index uint64) ([]byte, error) {
	walker, err := newVectorWalker(vout, DetermineOutputLength)
	if err != nil {
		return nil, err
	}
	return walker.elementAt(index)
}

// ValidateVin returns whether or not the provided bytes are a well formed input
// vector: a non-zero variable length integer count followed by exactly that
// many inputs with no trailing bytes.
//
// Every failure, including malformed input framing, is reported as false.
func ValidateVin(vin []byte) bool {
	walker, err := newVectorWalker(vin, DetermineInputLength)
	if err != nil || walker.count == 0 {
		return false
	}

	for i := uint64(0); i < walker.count; i++ {
		if walker.remaining() == 0 {
			return false
		}
		if _, _, err := walker.next(); err != nil {
			return false
		}
		if walker.offset > uint64(len(vin)) {
			return false
		}
	}
	return walker.remaining() == 0
}

// ValidateVout returns whether or not the provided bytes are a well formed
// output vector: a non-zero variable length integer count followed by exactly
// that many outputs with no trailing bytes.
//
// A vector whose count or lengths do not add up is reported as false.  An
// output whose script length is malformed is instead reported as an error of
// kind ErrInvalidVarInt, matching DetermineOutputLength.
func ValidateVout(vout []byte) (bool, error) {
	walker, err := newVectorWalker(vout, DetermineOutputLength)
	if err != nil || walker.count == 0 {
		return false, nil
	}

	for i := uint64(0); i < walker.count; i++ {
		if walker.remaining() == 0 {
			return false, nil
		}
		_, _, err := walker.next()
		switch {
		case errors.Is(err, ErrOutOfRange):
			// The vector ends inside the value of the output.
			return false, nil
		case err != nil:
			return false, err
		}
		if walker.offset > uint64(len(vout)) {
			return false, nil
		}
	}
	return walker.remaining() == 0, nil
}
