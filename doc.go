// Copyright (c) 2019-2022 The Decred developers
// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package btcspv provides stateless functions for verifying Bitcoin transactions,
block headers, and merkle inclusion proofs from their raw serialized bytes.

It is ideal for applications such as lightweight clients and bridges that need
to confirm a transaction pays a given output and is committed to by a block
header without running a full node.  Every function is pure and safe for
concurrent access.

# Function categories

The provided functions fall into the following categories:

  - Byte slicing and endianness conversion
  - Variable length integer decoding and encoding
  - Hashing
  - Transaction input and output decoding
  - Output script classification
  - Block header decoding
  - Merkle root calculation and inclusion proofs
  - Proof-of-work and difficulty retargeting

# Transaction decoding

Inputs and outputs are decoded in place from the input vector (vin) and output
vector (vout) of a transaction.  Both vectors begin with a variable length
integer count.  An input whose scriptSig length is zero is a witness
placeholder whose spend data lives in the witness section, which is not part of
either vector.

# Merkle tree inclusion proofs

  - Calculate the merkle root of a block from its transaction ids
  - Generate an inclusion proof for a given tree and leaf index
  - Verify a leaf is a member of the tree at a given index via the proof,
    either as a list of sibling hashes or as a flat byte proof that carries the
    leaf and root

Proofs that pair a right node with an identical sibling are rejected since only
a tree with a duplicated trailing subtree can produce them.

# Proof-of-work

  - Converting to and from the compact target difficulty representation
  - Calculating work and difficulty values based on a target
  - Checking a block hash satisfies a target difficulty and that target
    difficulty is within a valid range
  - Calculating the target of the next 2016 block epoch

# Errors

The functions report three kinds of outcomes that callers must keep apart:

  - Validation functions such as ValidateVin and VerifyHash256Merkle report a
    failed validation as false
  - Decoding functions report malformed data with an error of type Error
  - Extraction functions such as ExtractHash and ExtractOpReturnData report an
    output that does not match the requested pattern with a nil slice

Errors are of type Error and wrap an ErrorKind, so the specific reason for an
error can be determined with errors.Is:

	if errors.Is(err, btcspv.ErrInvalidVarInt) {
		// handle the malformed output
	}
*/
package btcspv
