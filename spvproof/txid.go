// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvproof

import (
	"fmt"

	"github.com/btcspv/btcspv"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// versionSize and lockTimeSize are the sizes of the fixed fields that
	// surround the input and output vectors of a transaction.
	versionSize  = 4
	lockTimeSize = 4
)

// CalcTxID returns the id of the transaction made of the provided version,
// input vector, output vector, and lock time, which is the hash256 of their
// concatenation.  The vectors must be well formed, and the fixed fields must
// be 4 bytes each.
//
// The id is in internal byte order, so its String method produces the usual
// big-endian display form.
func CalcTxID(version, vin, vout, lockTime []byte) (chainhash.Hash, error) {
	if len(version) != versionSize {
		str := fmt.Sprintf("transaction version is %d bytes instead of %d",
			len(version), versionSize)
		return chainhash.Hash{}, ruleError(ErrInvalidField, str)
	}
	if len(lockTime) != lockTimeSize {
		str := fmt.Sprintf("transaction lock time is %d bytes instead of %d",
			len(lockTime), lockTimeSize)
		return chainhash.Hash{}, ruleError(ErrInvalidField, str)
	}
	if !btcspv.ValidateVin(vin) {
		return chainhash.Hash{}, ruleError(ErrInvalidVin,
			"transaction input vector is malformed")
	}
	ok, err := btcspv.ValidateVout(vout)
	if err != nil {
		str := fmt.Sprintf("transaction output vector is malformed: %v", err)
		return chainhash.Hash{}, wrapError(ErrInvalidVout, str, err)
	}
	if !ok {
		return chainhash.Hash{}, ruleError(ErrInvalidVout,
			"transaction output vector is malformed")
	}

	serialized := make([]byte, 0, len(version)+len(vin)+len(vout)+len(lockTime))
	serialized = append(serialized, version...)
	serialized = append(serialized, vin...)
	serialized = append(serialized, vout...)
	serialized = append(serialized, lockTime...)
	return btcspv.Hash256(serialized), nil
}
