// Copyright (c) 2021 The Decred developers
// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcspv

import (
	"bytes"
)

// These constants are the opcodes needed to recognize the standard output
// script templates.  They are defined here to avoid a dependency on a full
// script engine.
const (
	op0           = 0x00
	opData20      = 0x14
	opData32      = 0x20
	opData75      = 0x4b
	opPushData1   = 0x4c
	opReturn      = 0x6a
	opDup         = 0x76
	opEqual       = 0x87
	opEqualVerify = 0x88
	opHash160     = 0xa9
	opCheckSig    = 0xac
)

// ScriptClass identifies the template an output script matches.
type ScriptClass byte

// These constants define the recognized script classes.
const (
	// ScriptUnknown identifies a script that does not match any of the
	// recognized templates.
	ScriptUnknown ScriptClass = iota

	// ScriptP2PKH identifies a pay-to-pubkey-hash script of the form:
	//	OP_DUP OP_HASH160 <20-byte hash> OP_EQUALVERIFY OP_CHECKSIG
	ScriptP2PKH

	// ScriptP2SH identifies a pay-to-script-hash script of the form:
	//	OP_HASH160 <20-byte hash> OP_EQUAL
	ScriptP2SH

	// ScriptP2WPKH identifies a version 0 witness pubkey hash script of the
	// form:
	//	OP_0 <20-byte hash>
	ScriptP2WPKH

	// ScriptP2WSH identifies a version 0 witness script hash script of the
	// form:
	//	OP_0 <32-byte hash>
	ScriptP2WSH

	// ScriptOpReturn identifies a provably unspendable null data script of
	// the form:
	//	OP_RETURN [<pushdata>]
	ScriptOpReturn

	// numScriptClasses is the maximum script class number used in tests.
	// This entry MUST be the last entry in the enum.
	numScriptClasses
)

// scriptClassToName houses the human-readable strings which describe each
// script class.
var scriptClassToName = []string{
	ScriptUnknown:  "unknown",
	ScriptP2PKH:    "p2pkh",
	ScriptP2SH:     "p2sh",
	ScriptP2WPKH:   "p2wpkh",
	ScriptP2WSH:    "p2wsh",
	ScriptOpReturn: "opreturn",
}

// String returns the ScriptClass as a human-readable name.
func (c ScriptClass) String() string {
	if c >= numScriptClasses {
		return "invalid"
	}
	return scriptClassToName[c]
}

// scriptTemplate describes a script made of a fixed prefix, a hash payload of
// fixed size, and a fixed suffix.
type scriptTemplate struct {
	class      ScriptClass
	prefix     []byte
	payloadLen int
	suffix     []byte
}

// match returns the hash payload embedded in the script when it matches the
// template exactly.
func (t *scriptTemplate) match(script []byte) ([]byte, bool) {
	if len(script) != len(t.prefix)+t.payloadLen+len(t.suffix) {
		return nil, false
	}
	if !bytes.HasPrefix(script, t.prefix) || !bytes.HasSuffix(script, t.suffix) {
		return nil, false
	}
	payloadEnd := len(t.prefix) + t.payloadLen
	return script[len(t.prefix):payloadEnd:payloadEnd], true
}

// hashTemplates are the recognized templates that commit to a hash.
var hashTemplates = []scriptTemplate{{
	class:      ScriptP2PKH,
	prefix:     []byte{opDup, opHash160, opData20},
	payloadLen: 20,
	suffix:     []byte{opEqualVerify, opCheckSig},
}, {
	class:      ScriptP2SH,
	prefix:     []byte{opHash160, opData20},
	payloadLen: 20,
	suffix:     []byte{opEqual},
}, {
	class:      ScriptP2WPKH,
	prefix:     []byte{op0, opData20},
	payloadLen: 20,
}, {
	class:      ScriptP2WSH,
	prefix:     []byte{op0, opData32},
	payloadLen: 32,
}}

// extractOpReturnPayload returns the data pushed by a null data script along
// with whether or not the script is a null data script at all.  A bare
// OP_RETURN is a null data script without a payload.
//
// Only a single canonical push is recognized: either a direct push of 1 to 75
// bytes or an OP_PUSHDATA1 push, with no trailing bytes.
func extractOpReturnPayload(script []byte) ([]byte, bool) {
	if len(script) == 0 || script[0] != opReturn {
		return nil, false
	}
	if len(script) == 1 {
		return nil, true
	}

	pushOp := script[1]
	switch {
	case pushOp >= 1 && pushOp <= opData75:
		if len(script) != 2+int(pushOp) {
			return nil, false
		}
		return script[2:], true

	case pushOp == opPushData1:
		if len(script) < 3 || len(script) != 3+int(script[2]) {
			return nil, false
		}
		return script[3:], true
	}

	return nil, false
}

// ClassifyScript returns the class of the provided output script.
func ClassifyScript(script []byte) ScriptClass {
	for i := range hashTemplates {
		if _, ok := hashTemplates[i].match(script); ok {
			return hashTemplates[i].class
		}
	}
	if _, ok := extractOpReturnPayload(script); ok {
		return ScriptOpReturn
	}
	return ScriptUnknown
}

// ExtractScriptHash returns the hash committed to by a P2PKH, P2SH, P2WPKH, or
// P2WSH script.  It returns nil for all other scripts, including null data
// scripts.
func ExtractScriptHash(script []byte) []byte {
	for i := range hashTemplates {
		if payload, ok := hashTemplates[i].match(script); ok {
			return payload
		}
	}
	return nil
}

// ExtractScriptOpReturnData returns the payload of an OP_RETURN <pushdata>
// script.  It returns nil for all other scripts, including a bare OP_RETURN.
func ExtractScriptOpReturnData(script []byte) []byte {
	payload, _ := extractOpReturnPayload(script)
	return payload
}
