// Copyright (c) 2019-2020 The Decred developers
// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvproof

import "fmt"

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific RuleError.
const (
	// ErrInvalidField indicates a fixed size field of a proof, such as the
	// version or lock time of the transaction, has the wrong size.
	ErrInvalidField = ErrorKind("ErrInvalidField")

	// ErrInvalidVin indicates a malformed input vector.
	ErrInvalidVin = ErrorKind("ErrInvalidVin")

	// ErrInvalidVout indicates a malformed output vector.
	ErrInvalidVout = ErrorKind("ErrInvalidVout")

	// ErrTxIDMismatch indicates the transaction id a proof claims does not
	// match the id of the transaction it carries.
	ErrTxIDMismatch = ErrorKind("ErrTxIDMismatch")

	// ErrBadHeaderChainLength indicates a header chain that is empty or is
	// not a whole number of 80-byte headers.
	ErrBadHeaderChainLength = ErrorKind("ErrBadHeaderChainLength")

	// ErrInvalidChain indicates a header that does not commit to the hash of
	// the header before it.
	ErrInvalidChain = ErrorKind("ErrInvalidChain")

	// ErrLowWork indicates a header that does not hash to a value lower than
	// the target it commits to.
	ErrLowWork = ErrorKind("ErrLowWork")

	// ErrInvalidMerkleProof indicates a merkle proof that does not prove
	// inclusion of the transaction in the block.
	ErrInvalidMerkleProof = ErrorKind("ErrInvalidMerkleProof")

	// ErrInvalidRetarget indicates the target of the first header of an
	// epoch does not follow from the epoch before it.
	ErrInvalidRetarget = ErrorKind("ErrInvalidRetarget")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// RuleError identifies a proof that failed validation.  It has full support
// for errors.Is and errors.As, so the caller can ascertain the specific reason
// for the error by checking the underlying error.
type RuleError struct {
	Description string
	Err         error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e RuleError) Unwrap() error {
	return e.Err
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(kind ErrorKind, desc string) RuleError {
	return RuleError{Err: kind, Description: desc}
}

// wrapError creates a RuleError of the provided kind that also wraps the
// decoding error that caused it, so errors.Is matches either of them.
func wrapError(kind ErrorKind, desc string, err error) RuleError {
	return RuleError{Err: fmt.Errorf("%w: %w", kind, err), Description: desc}
}
