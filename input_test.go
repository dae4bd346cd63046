// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcspv

import (
	"bytes"
	"errors"
	"testing"
)

// TestInputDecoding ensures the fields of inputs serialized by the wire package
// are extracted as expected.
func TestInputDecoding(t *testing.T) {
	tx := testTx()
	tests := []struct {
		name       string // test description
		index      int    // index of the input in the test tx
		legacy     bool   // expected legacy status
		dataLen    int    // expected scriptSig length prefix data bytes
		scriptLen  uint64 // expected scriptSig length
		wantLength uint64 // expected input length
	}{{
		name:       "legacy",
		index:      0,
		legacy:     true,
		dataLen:    0,
		scriptLen:  107,
		wantLength: 36 + 1 + 107 + 4,
	}, {
		name:       "legacy with 3 byte length prefix",
		index:      1,
		legacy:     true,
		dataLen:    2,
		scriptLen:  300,
		wantLength: 36 + 3 + 300 + 4,
	}, {
		name:       "witness placeholder",
		index:      2,
		legacy:     false,
		dataLen:    0,
		scriptLen:  0,
		wantLength: 41,
	}}

	for _, test := range tests {
		txIn := tx.TxIn[test.index]
		input := serializeTxIn(txIn)

		legacy, err := IsLegacyInput(input)
		if err != nil || legacy != test.legacy {
			t.Errorf("%q: unexpected legacy status -- got %v (%v), want %v",
				test.name, legacy, err, test.legacy)
			continue
		}

		outpoint, err := ExtractOutpoint(input)
		if err != nil || !bytes.Equal(outpoint, input[:36]) {
			t.Errorf("%q: unexpected outpoint -- got %x (%v)", test.name,
				outpoint, err)
			continue
		}
		txIDLE, err := ExtractInputTxIDLE(input)
		if err != nil || !bytes.Equal(txIDLE, txIn.PreviousOutPoint.Hash[:]) {
			t.Errorf("%q: unexpected LE txid -- got %x (%v)", test.name,
				txIDLE, err)
			continue
		}
		txID, err := ExtractInputTxID(input)
		wantTxID := hexToBytes(txIn.PreviousOutPoint.Hash.String())
		if err != nil || !bytes.Equal(txID, wantTxID) {
			t.Errorf("%q: unexpected txid -- got %x (%v), want %x", test.name,
				txID, err, wantTxID)
			continue
		}
		txIndex, err := ExtractTxIndex(input)
		if err != nil || txIndex != txIn.PreviousOutPoint.Index {
			t.Errorf("%q: unexpected tx index -- got %d (%v), want %d",
				test.name, txIndex, err, txIn.PreviousOutPoint.Index)
			continue
		}

		dataLen, scriptLen, err := ExtractScriptSigLen(input)
		if err != nil || dataLen != test.dataLen || scriptLen != test.scriptLen {
			t.Errorf("%q: unexpected scriptSig length -- got (%d, %d) (%v), "+
				"want (%d, %d)", test.name, dataLen, scriptLen, err,
				test.dataLen, test.scriptLen)
			continue
		}

		scriptSig, err := ExtractScriptSig(input)
		wantScriptSig := AppendVarInt(nil, uint64(len(txIn.SignatureScript)))
		wantScriptSig = append(wantScriptSig, txIn.SignatureScript...)
		if err != nil || !bytes.Equal(scriptSig, wantScriptSig) {
			t.Errorf("%q: unexpected scriptSig -- got %x (%v), want %x",
				test.name, scriptSig, err, wantScriptSig)
			continue
		}

		length, err := DetermineInputLength(input)
		if err != nil || length != test.wantLength {
			t.Errorf("%q: unexpected length -- got %d (%v), want %d",
				test.name, length, err, test.wantLength)
			continue
		}
		if int(length) != len(input) {
			t.Errorf("%q: length %d does not match serialized length %d",
				test.name, length, len(input))
			continue
		}

		sequence, err := ExtractSequenceLegacy(input)
		if err != nil || sequence != txIn.Sequence {
			t.Errorf("%q: unexpected legacy sequence -- got %x (%v), want %x",
				test.name, sequence, err, txIn.Sequence)
			continue
		}
		sequenceLE, err := ExtractSequenceLELegacy(input)
		if err != nil || !bytes.Equal(sequenceLE, input[len(input)-4:]) {
			t.Errorf("%q: unexpected legacy LE sequence -- got %x (%v)",
				test.name, sequenceLE, err)
			continue
		}
		if !test.legacy {
			sequence, err := ExtractSequenceWitness(input)
			if err != nil || sequence != txIn.Sequence {
				t.Errorf("%q: unexpected witness sequence -- got %x (%v), "+
					"want %x", test.name, sequence, err, txIn.Sequence)
				continue
			}
		}
	}
}

// TestInputDecodingErrors ensures reads beyond the end of an input fail with
// ErrOutOfRange instead of panicking.
func TestInputDecodingErrors(t *testing.T) {
	input := serializeTxIn(testTx().TxIn[1])

	tests := []struct {
		name    string // test description
		input   []byte // input to decode
		wantErr error  // expected error
	}{{
		name:    "empty",
		input:   nil,
		wantErr: ErrOutOfRange,
	}, {
		name:    "outpoint only",
		input:   input[:36],
		wantErr: ErrOutOfRange,
	}, {
		name:    "truncated length prefix",
		input:   input[:38],
		wantErr: ErrMalformedVarInt,
	}, {
		name:    "truncated scriptSig",
		input:   input[:100],
		wantErr: ErrOutOfRange,
	}}

	for _, test := range tests {
		if _, err := IsLegacyInput(test.input); len(test.input) <= 36 &&
			!errors.Is(err, ErrOutOfRange) {

			t.Errorf("%q: mismatched legacy err -- got %v, want %v",
				test.name, err, ErrOutOfRange)
			continue
		}
		if _, err := ExtractScriptSig(test.input); !errors.Is(err, test.wantErr) {
			t.Errorf("%q: mismatched scriptSig err -- got %v, want %v",
				test.name, err, test.wantErr)
			continue
		}
		if _, err := ExtractSequenceLegacy(test.input); !errors.Is(err, test.wantErr) {
			t.Errorf("%q: mismatched sequence err -- got %v, want %v",
				test.name, err, test.wantErr)
			continue
		}
	}

	// A witness sequence read past the end of a short input must fail too.
	if _, err := ExtractSequenceWitness(input[:40]); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("mismatched witness sequence err -- got %v, want %v", err,
			ErrOutOfRange)
	}
	if _, err := ExtractTxIndex(input[:35]); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("mismatched tx index err -- got %v, want %v", err,
			ErrOutOfRange)
	}

	// The length of an input only depends on the bytes through its scriptSig
	// length.
	length, err := DetermineInputLength(input[:39])
	if err != nil || length != uint64(len(input)) {
		t.Fatalf("unexpected length of truncated input -- got %d (%v), want %d",
			length, err, len(input))
	}
}
