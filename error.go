// Copyright (c) 2019-2020 The Decred developers
// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcspv

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrOutOfRange indicates an attempt to read or slice beyond the end of
	// the provided buffer.
	ErrOutOfRange = ErrorKind("ErrOutOfRange")

	// ErrMalformedVarInt indicates a variable length integer whose prefix
	// announces more data bytes than remain in the buffer.
	ErrMalformedVarInt = ErrorKind("ErrMalformedVarInt")

	// ErrInvalidVarInt indicates the script length of an output is encoded
	// with a variable length integer that is either truncated or degenerate.
	ErrInvalidVarInt = ErrorKind("ErrInvalidVarInt")

	// ErrInvalidNodeSize indicates a merkle node that is not exactly 32
	// bytes.
	ErrInvalidNodeSize = ErrorKind("ErrInvalidNodeSize")

	// ErrIndexOutOfRange indicates a requested input or output index that is
	// not less than the count declared by the vector.
	ErrIndexOutOfRange = ErrorKind("ErrIndexOutOfRange")

	// ErrMalformedProof indicates a merkle proof that is not a whole number
	// of 32-byte nodes or does not contain at least a leaf and a root.
	ErrMalformedProof = ErrorKind("ErrMalformedProof")

	// ErrInvalidHeaderSize indicates a block header that is not exactly 80
	// bytes.
	ErrInvalidHeaderSize = ErrorKind("ErrInvalidHeaderSize")

	// ErrHighHash indicates a block header does not hash to a value which is
	// lower than the target difficulty it commits to.
	ErrHighHash = ErrorKind("ErrHighHash")

	// ErrUnexpectedDifficulty indicates a target difficulty that is not
	// positive or is higher than the proof of work limit.
	ErrUnexpectedDifficulty = ErrorKind("ErrUnexpectedDifficulty")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies malformed data passed to one of the decoding functions.  It
// has full support for errors.Is and errors.As, so the caller can ascertain
// the specific reason for the error by checking the underlying error.
type Error struct {
	Description string
	Err         error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
