// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package spvproof validates simplified payment verification (SPV) proofs of
Bitcoin transactions using the stateless primitives of package btcspv.

A proof ties a transaction, given as its version, input vector, output vector,
and lock time, to a block header that commits to it through a merkle inclusion
proof.  Validating it involves recomputing the transaction id from the raw
fields, checking the header meets the target it commits to, and verifying the
merkle proof against the merkle root of the header.

The package also provides the building blocks of that process, which are
useful on their own when following a chain of headers:

  - CalcTxID computes the id of a transaction from its raw fields
  - ValidateHeaderChain checks a run of headers links together and meets the
    proof of work each of them commits to
  - ValidateRetarget checks the target of the first header of an epoch against
    the difficulty adjustment rule
  - Prove verifies a merkle inclusion proof for a transaction id

Errors

All errors returned by this package wrap an ErrorKind or, for errors found
while decoding raw data, a btcspv.ErrorKind, so the caller can check the
reason with errors.Is.
*/
package spvproof
