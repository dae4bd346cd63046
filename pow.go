// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcspv

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/math/uint256"
)

const (
	// RetargetInterval is the number of blocks in a difficulty epoch.
	RetargetInterval = 2016

	// TargetSpacing is the desired number of seconds between blocks.
	TargetSpacing = 600

	// ExpectedTimespan is the desired number of seconds an epoch takes.
	ExpectedTimespan = RetargetInterval * TargetSpacing

	// minRetargetTimespan and maxRetargetTimespan bound the observed epoch
	// duration used to adjust the target, which limits every adjustment to
	// a factor of four in either direction.
	minRetargetTimespan = ExpectedTimespan / 4
	maxRetargetTimespan = ExpectedTimespan * 4

	// diff1Bits is the compact form of the easiest target on the main
	// network, which defines a difficulty of one.
	diff1Bits = 0x1d00ffff
)

var (
	// bigOne is 1 represented as a big.Int.  It is defined here to avoid the
	// overhead of creating it multiple times.
	bigOne = big.NewInt(1)

	// oneLsh256 is 1 shifted left 256 bits.  It is defined here to avoid the
	// overhead of creating it multiple times.
	oneLsh256 = new(big.Int).Lsh(bigOne, 256)

	// bigExpectedTimespan is ExpectedTimespan represented as a big.Int.
	bigExpectedTimespan = big.NewInt(ExpectedTimespan)

	// diff1Target is the target that corresponds to a difficulty of one.
	diff1Target = CompactToBig(diff1Bits)

	// mainNetPowLimit is the highest proof of work target a main network
	// block can have, 2^224 - 1.
	mainNetPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 224), bigOne)
)

// Diff1Target returns the target that corresponds to a difficulty of one.  The
// caller owns the returned value.
func Diff1Target() *big.Int {
	return new(big.Int).Set(diff1Target)
}

// MainNetPowLimit returns the highest proof of work target a main network block
// can have, 2^224 - 1.  The caller owns the returned value.
func MainNetPowLimit() *big.Int {
	return new(big.Int).Set(mainNetPowLimit)
}

// HashToBig converts a chainhash.Hash into a big.Int that can be used to
// perform math comparisons.
func HashToBig(hash *chainhash.Hash) *big.Int {
	// A Hash is in little-endian, but the big package wants the bytes in
	// big-endian, so reverse them.
	buf := *hash
	blen := len(buf)
	for i := 0; i < blen/2; i++ {
		buf[i], buf[blen-1-i] = buf[blen-1-i], buf[i]
	}

	return new(big.Int).SetBytes(buf[:])
}

// CompactToBig converts a compact representation of a whole number N to an
// unsigned 32-bit number.  The representation is similar to IEEE754 floating
// point numbers.
//
// Like IEEE754 floating point, there are three basic components: the sign,
// the exponent, and the mantissa.  They are broken out as follows:
//
//  1. the most significant 8 bits represent the unsigned base 256 exponent
//  2. zero-based bit 23 (the 24th bit) represents the sign bit
//  3. the least significant 23 bits represent the mantissa
//
// Diagram:
//
//	-------------------------------------------------
//	|   Exponent     |    Sign    |    Mantissa     |
//	|-----------------------------------------------|
//	| 8 bits [31-24] | 1 bit [23] | 23 bits [22-00] |
//	-------------------------------------------------
//
// The formula to calculate N is:
//
//	N = (-1^sign) * mantissa * 256^(exponent-3)
//
// This is the consensus decoding of the bits field of a block header.  See
// ExtractTarget for the unsigned decoding of a full 3-byte mantissa.
func CompactToBig(compact uint32) *big.Int {
	// Extract the mantissa, sign bit, and exponent.
	mantissa := compact & 0x007fffff
	isNegative := compact&0x00800000 != 0
	exponent := uint(compact >> 24)

	bn := decodeCompact(mantissa, exponent)

	// Make it negative if the sign bit is set.
	if isNegative {
		bn = bn.Neg(bn)
	}

	return bn
}

// decodeCompact returns mantissa * 256^(exponent-3).
func decodeCompact(mantissa uint32, exponent uint) *big.Int {
	// Since the base for the exponent is 256, the exponent can be treated as
	// the number of bytes to represent the full 256-bit number.  So, treat the
	// exponent as the number of bytes and shift the mantissa right or left
	// accordingly.
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		return big.NewInt(int64(mantissa))
	}
	bn := big.NewInt(int64(mantissa))
	return bn.Lsh(bn, 8*(exponent-3))
}

// BigToCompact converts a whole number N to a compact representation using an
// unsigned 32-bit number.  The compact representation only provides 23 bits of
// precision, so values larger than (2^23 - 1) only encode the most significant
// digits of the number.  See CompactToBig for details.
func BigToCompact(n *big.Int) uint32 {
	// No need to do any work if it's zero.
	if n.Sign() == 0 {
		return 0
	}

	// Since the base for the exponent is 256, the exponent can be treated as
	// the number of bytes.  So, shift the number right or left accordingly.
	// This is equivalent to:
	// mantissa = mantissa / 256^(exponent-3)
	var mantissa uint32
	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		// Use a copy to avoid modifying the caller's original number.
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}

	// When the mantissa already has the sign bit set, the number is too large
	// to fit into the available 23-bits, so divide the number by 256 and
	// increment the exponent accordingly.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	// Pack the exponent, sign bit, and mantissa into an unsigned 32-bit int and
	// return it.
	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}

// CalcWork calculates a work value from difficulty bits.  Bitcoin increases
// the difficulty for generating a block by decreasing the value which the
// generated hash must be less than.  Since a lower target difficulty value
// equates to higher actual difficulty, the work value which will be accumulated
// must be the inverse of the difficulty.  Also, in order to avoid potential
// division by zero and really small floating point numbers, the result adds 1
// to the denominator and multiplies the numerator by 2^256.
func CalcWork(bits uint32) *big.Int {
	// Return a work value of zero if the passed difficulty bits represent a
	// negative number. Note this should not happen in practice with valid
	// blocks, but an invalid block could trigger it.
	difficultyNum := CompactToBig(bits)
	if difficultyNum.Sign() <= 0 {
		return big.NewInt(0)
	}

	// (1 << 256) / (difficultyNum + 1)
	denominator := new(big.Int).Add(difficultyNum, bigOne)
	return new(big.Int).Div(oneLsh256, denominator)
}

// checkProofOfWorkRange ensures the provided target difficulty is in min/max
// range per the provided proof-of-work limit.
func checkProofOfWorkRange(target *big.Int, powLimit *big.Int) error {
	// The target difficulty must be larger than zero.
	if target.Sign() <= 0 {
		str := fmt.Sprintf("target difficulty of %064x is too low", target)
		return makeError(ErrUnexpectedDifficulty, str)
	}

	// The target difficulty must be less than the maximum allowed.
	if target.Cmp(powLimit) > 0 {
		str := fmt.Sprintf("target difficulty of %064x is higher than max of "+
			"%064x", target, powLimit)
		return makeError(ErrUnexpectedDifficulty, str)
	}

	return nil
}

// checkProofOfWorkHash ensures the provided hash is less than the provided
// target difficulty.
func checkProofOfWorkHash(powHash *chainhash.Hash, target *big.Int) error {
	// The proof of work hash must be less than the target difficulty.
	hashNum := HashToBig(powHash)
	if hashNum.Cmp(target) > 0 {
		str := fmt.Sprintf("proof of work hash %064x is higher than "+
			"expected max of %064x", hashNum, target)
		return makeError(ErrHighHash, str)
	}

	return nil
}

// CheckProofOfWorkHash ensures the provided hash is less than the provided
// compact target difficulty.
func CheckProofOfWorkHash(powHash *chainhash.Hash, bits uint32) error {
	target := CompactToBig(bits)
	return checkProofOfWorkHash(powHash, target)
}

// CheckProofOfWork ensures the provided hash is less than the provided compact
// target difficulty and that the target difficulty is in min/max range per the
// provided proof-of-work limit.
func CheckProofOfWork(powHash *chainhash.Hash, bits uint32, powLimit *big.Int) error {
	target := CompactToBig(bits)
	if err := checkProofOfWorkRange(target, powLimit); err != nil {
		return err
	}

	// The proof of work hash must be less than the target difficulty.
	return checkProofOfWorkHash(powHash, target)
}

// clampTimespan limits the observed duration of an epoch to the range allowed
// by the retarget rule.  A second timestamp before the first is treated as an
// epoch that took no time at all.
func clampTimespan(firstTimestamp, secondTimestamp uint32) int64 {
	actualTimespan := int64(secondTimestamp) - int64(firstTimestamp)
	switch {
	case actualTimespan < minRetargetTimespan:
		return minRetargetTimespan
	case actualTimespan > maxRetargetTimespan:
		return maxRetargetTimespan
	}
	return actualTimespan
}

// RetargetAlgorithm calculates the target for the epoch that follows an epoch
// which started at the first timestamp and ended at the second timestamp:
//
//	newTarget = previousTarget * clamp(second - first) / ExpectedTimespan
//
// The observed timespan is clamped to [ExpectedTimespan/4, ExpectedTimespan*4]
// and no other limit is applied, so rejecting a zero or otherwise pathological
// previous target is up to the caller.
//
// The result is calculated with full precision.  Block headers carry targets in
// compact form, so it must be compared against them with TruncatedTargetEqual
// or converted with BigToCompact first.  RetargetCompact does the latter.
func RetargetAlgorithm(previousTarget *big.Int, firstTimestamp, secondTimestamp uint32) *big.Int {
	timespan := big.NewInt(clampTimespan(firstTimestamp, secondTimestamp))
	newTarget := new(big.Int).Mul(previousTarget, timespan)
	return newTarget.Div(newTarget, bigExpectedTimespan)
}

// RetargetCompact calculates the compact bits for the epoch that follows an
// epoch which started at the first timestamp and ended at the second timestamp
// and had the provided compact bits.  See RetargetAlgorithm for details.
func RetargetCompact(previousBits, firstTimestamp, secondTimestamp uint32) uint32 {
	previousTarget := CompactToBig(previousBits)
	return BigToCompact(RetargetAlgorithm(previousTarget, firstTimestamp,
		secondTimestamp))
}

// truncateTarget drops the low-order bits of the provided target that the
// compact representation can't carry.  It returns false when the target is
// negative or does not fit in 256 bits.
func truncateTarget(target *big.Int) (uint256.Uint256, bool) {
	var n uint256.Uint256
	if target.Sign() < 0 || target.BitLen() > 256 {
		return n, false
	}
	n.SetBig(target)

	// Only the three most significant bytes are preserved, and only two of
	// them when the highest of the three would set the sign bit.
	exponent := uint32((n.BitLen() + 7) / 8)
	if exponent >= 3 {
		shift := 8 * (exponent - 3)
		if new(uint256.Uint256).RshVal(&n, shift).Uint32()&0x00800000 != 0 {
			shift += 8
		}
		n.Rsh(shift).Lsh(shift)
	}
	return n, true
}

// TruncatedTargetEqual returns whether or not the provided targets are equal at
// the precision of the compact representation.  Targets that are negative or
// wider than 256 bits are never equal.
func TruncatedTargetEqual(a, b *big.Int) bool {
	truncatedA, ok := truncateTarget(a)
	if !ok {
		return false
	}
	truncatedB, ok := truncateTarget(b)
	if !ok {
		return false
	}
	return truncatedA.Eq(&truncatedB)
}
