// Copyright (c) 2019-2020 The Decred developers
// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcspv

import (
	"errors"
	"io"
	"testing"
)

// TestErrorKindStringer tests the stringized output for the ErrorKind type.
func TestErrorKindStringer(t *testing.T) {
	tests := []struct {
		in   ErrorKind
		want string
	}{
		{ErrOutOfRange, "ErrOutOfRange"},
		{ErrMalformedVarInt, "ErrMalformedVarInt"},
		{ErrInvalidVarInt, "ErrInvalidVarInt"},
		{ErrInvalidNodeSize, "ErrInvalidNodeSize"},
		{ErrIndexOutOfRange, "ErrIndexOutOfRange"},
		{ErrMalformedProof, "ErrMalformedProof"},
		{ErrInvalidHeaderSize, "ErrInvalidHeaderSize"},
		{ErrHighHash, "ErrHighHash"},
		{ErrUnexpectedDifficulty, "ErrUnexpectedDifficulty"},
	}

	for i, test := range tests {
		result := test.in.Error()
		if result != test.want {
			t.Errorf("#%d: got: %s want: %s", i, result, test.want)
			continue
		}
	}
}

// TestError tests the error output for the Error type.
func TestError(t *testing.T) {
	tests := []struct {
		in   Error
		want string
	}{{
		Error{Description: "some error"},
		"some error",
	}, {
		Error{Description: "human-readable error"},
		"human-readable error",
	}}

	for i, test := range tests {
		result := test.in.Error()
		if result != test.want {
			t.Errorf("#%d: got: %s want: %s", i, result, test.want)
			continue
		}
	}
}

// TestErrorKindIsAs ensures both ErrorKind and Error can be identified as being
// a specific error kind via errors.Is and unwrapped via errors.As.
func TestErrorKindIsAs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
		wantAs    ErrorKind
	}{{
		name:      "ErrOutOfRange == ErrOutOfRange",
		err:       ErrOutOfRange,
		target:    ErrOutOfRange,
		wantMatch: true,
		wantAs:    ErrOutOfRange,
	}, {
		name:      "Error.ErrOutOfRange == ErrOutOfRange",
		err:       makeError(ErrOutOfRange, ""),
		target:    ErrOutOfRange,
		wantMatch: true,
		wantAs:    ErrOutOfRange,
	}, {
		name:      "Error.ErrInvalidVarInt == Error.ErrInvalidVarInt",
		err:       makeError(ErrInvalidVarInt, ""),
		target:    makeError(ErrInvalidVarInt, ""),
		wantMatch: true,
		wantAs:    ErrInvalidVarInt,
	}, {
		name:      "ErrMalformedVarInt != ErrInvalidVarInt",
		err:       ErrMalformedVarInt,
		target:    ErrInvalidVarInt,
		wantMatch: false,
		wantAs:    ErrMalformedVarInt,
	}, {
		name:      "Error.ErrMalformedProof != ErrInvalidNodeSize",
		err:       makeError(ErrMalformedProof, ""),
		target:    ErrInvalidNodeSize,
		wantMatch: false,
		wantAs:    ErrMalformedProof,
	}, {
		name:      "Error.ErrHighHash != io.EOF",
		err:       makeError(ErrHighHash, ""),
		target:    io.EOF,
		wantMatch: false,
		wantAs:    ErrHighHash,
	}}

	for _, test := range tests {
		// Ensure the error matches or not depending on the expected result.
		result := errors.Is(test.err, test.target)
		if result != test.wantMatch {
			t.Errorf("%s: incorrect error identification -- got %v, want %v",
				test.name, result, test.wantMatch)
			continue
		}

		// Ensure the underlying error kind can be unwrapped and is the
		// expected kind.
		var kind ErrorKind
		if !errors.As(test.err, &kind) {
			t.Errorf("%s: unable to unwrap to error kind", test.name)
			continue
		}
		if kind != test.wantAs {
			t.Errorf("%s: unexpected unwrapped error kind -- got %v, want %v",
				test.name, kind, test.wantAs)
			continue
		}
	}
}
