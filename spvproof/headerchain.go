// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvproof

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/btcspv/btcspv"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// ValidateHeaderPrevHash returns whether or not the provided header commits to
// the provided hash as the hash of its parent.
func ValidateHeaderPrevHash(header []byte, prevHash *chainhash.Hash) (bool, error) {
	prevBlock, err := btcspv.ExtractPrevBlockLE(header)
	if err != nil {
		return false, err
	}
	return bytes.Equal(prevBlock, prevHash[:]), nil
}

// ValidateHeaderWork returns whether or not the provided header hash is
// strictly lower than the provided target.  The all zero hash is never valid
// work.
func ValidateHeaderWork(digest *chainhash.Hash, target *big.Int) bool {
	if *digest == (chainhash.Hash{}) {
		return false
	}
	return btcspv.HashToBig(digest).Cmp(target) < 0
}

// ValidateHeaderChain validates the provided concatenation of 80-byte headers
// and returns the sum of their difficulties.  Every header after the first one
// must commit to the hash of the header before it, and every header must meet
// the target it commits to.
//
// Only the linkage and the work of the headers are checked.  In particular,
// the targets are taken from the headers as is, so a caller that needs them
// to follow the difficulty adjustment rule must also use ValidateRetarget.
func ValidateHeaderChain(headers []byte) (*big.Int, error) {
	if len(headers) == 0 || len(headers)%btcspv.HeaderSize != 0 {
		str := fmt.Sprintf("header chain of %d bytes is not a whole number "+
			"of %d byte headers", len(headers), btcspv.HeaderSize)
		return nil, ruleError(ErrBadHeaderChainLength, str)
	}

	numHeaders := len(headers) / btcspv.HeaderSize
	totalDifficulty := new(big.Int)
	var prevHash chainhash.Hash
	for i := 0; i < numHeaders; i++ {
		header := headers[i*btcspv.HeaderSize : (i+1)*btcspv.HeaderSize]
		if i != 0 {
			ok, err := ValidateHeaderPrevHash(header, &prevHash)
			if err != nil {
				return nil, err
			}
			if !ok {
				str := fmt.Sprintf("header %d does not commit to the hash "+
					"%v of header %d", i, prevHash, i-1)
				return nil, ruleError(ErrInvalidChain, str)
			}
		}

		hash, err := btcspv.HeaderHash(header)
		if err != nil {
			return nil, err
		}
		target, err := btcspv.ExtractTarget(header)
		if err != nil {
			return nil, err
		}
		if !ValidateHeaderWork(&hash, target) {
			str := fmt.Sprintf("hash %v of header %d is not lower than its "+
				"target %064x", hash, i, target)
			return nil, ruleError(ErrLowWork, str)
		}

		totalDifficulty.Add(totalDifficulty, btcspv.CalcDifficulty(target))
		prevHash = hash
	}

	log.Debugf("Validated chain of %d headers ending at %v with total "+
		"difficulty %v", numHeaders, prevHash, totalDifficulty)
	return totalDifficulty, nil
}

// ValidateRetarget validates the target of the first header of a difficulty
// epoch given the first and last headers of the previous epoch.  The next
// header must commit to the last header, the previous epoch must have a single
// target, and the target of the next header must equal the one the
// difficulty adjustment rule produces at compact precision.
//
// The heights of the headers are not known, so it is up to the caller to
// ensure the headers are actually on epoch boundaries.
func ValidateRetarget(firstHeader, lastHeader, nextHeader []byte) error {
	lastHash, err := btcspv.HeaderHash(lastHeader)
	if err != nil {
		return err
	}
	ok, err := ValidateHeaderPrevHash(nextHeader, &lastHash)
	if err != nil {
		return err
	}
	if !ok {
		str := fmt.Sprintf("next header does not commit to the hash %v of "+
			"the last header", lastHash)
		return ruleError(ErrInvalidChain, str)
	}

	firstBits, err := btcspv.ExtractBits(firstHeader)
	if err != nil {
		return err
	}
	lastBits, err := btcspv.ExtractBits(lastHeader)
	if err != nil {
		return err
	}
	if firstBits != lastBits {
		str := fmt.Sprintf("first header bits %08x do not match last header "+
			"bits %08x", firstBits, lastBits)
		return ruleError(ErrInvalidRetarget, str)
	}

	firstTimestamp, err := btcspv.ExtractTimestamp(firstHeader)
	if err != nil {
		return err
	}
	lastTimestamp, err := btcspv.ExtractTimestamp(lastHeader)
	if err != nil {
		return err
	}
	lastTarget, err := btcspv.ExtractTarget(lastHeader)
	if err != nil {
		return err
	}
	nextTarget, err := btcspv.ExtractTarget(nextHeader)
	if err != nil {
		return err
	}

	expected := btcspv.RetargetAlgorithm(lastTarget, firstTimestamp,
		lastTimestamp)
	if !btcspv.TruncatedTargetEqual(expected, nextTarget) {
		str := fmt.Sprintf("next header target %064x does not match the "+
			"expected target %064x", nextTarget, expected)
		return ruleError(ErrInvalidRetarget, str)
	}

	log.Debugf("Validated retarget to %064x after epoch from %d to %d",
		nextTarget, firstTimestamp, lastTimestamp)
	return nil
}
