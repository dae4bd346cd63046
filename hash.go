// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcspv

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/ripemd160"
)

// Hash160Size is the size of a hash160 digest in bytes.
const Hash160Size = ripemd160.Size

// Sha256 calculates a single round of SHA-256 over the provided bytes.
func Sha256(b []byte) [sha256.Size]byte {
	return sha256.Sum256(b)
}

// Ripemd160 calculates RIPEMD-160 over the provided bytes.
func Ripemd160(b []byte) [ripemd160.Size]byte {
	var digest [ripemd160.Size]byte
	hasher := ripemd160.New()
	hasher.Write(b)
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// Hash256 calculates sha256(sha256(b)).  This is the digest Bitcoin uses for
// transaction ids, block hashes, and merkle tree nodes.
//
// The returned hash is in the internal byte order, so its String method
// produces the conventional reversed display form.
func Hash256(b []byte) chainhash.Hash {
	return chainhash.DoubleHashH(b)
}

// Hash160 calculates ripemd160(sha256(b)).  This is the digest Bitcoin uses to
// commit to public keys and scripts in pay-to-pubkey-hash and pay-to-script-hash
// outputs.
func Hash160(b []byte) [Hash160Size]byte {
	digest := sha256.Sum256(b)
	return Ripemd160(digest[:])
}

// Hash256MerkleStep calculates hash256(a || b), the parent of two adjacent
// nodes in a Bitcoin merkle tree.  Both nodes must be exactly 32 bytes or an
// error of kind ErrInvalidNodeSize is returned.
func Hash256MerkleStep(a, b []byte) (chainhash.Hash, error) {
	if len(a) != chainhash.HashSize || len(b) != chainhash.HashSize {
		str := fmt.Sprintf("merkle nodes must be %d bytes -- got %d and %d",
			chainhash.HashSize, len(a), len(b))
		return chainhash.Hash{}, makeError(ErrInvalidNodeSize, str)
	}
	return hashMerkleBranches(a, b), nil
}

// hashMerkleBranches calculates hash256(left || right) for nodes that are
// already known to be 32 bytes.
func hashMerkleBranches(left, right []byte) chainhash.Hash {
	var buf [chainhash.HashSize * 2]byte
	copy(buf[:chainhash.HashSize], left)
	copy(buf[chainhash.HashSize:], right)
	return chainhash.DoubleHashH(buf[:])
}
