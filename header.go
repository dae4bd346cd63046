// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcspv

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// HeaderSize is the size of a serialized block header.
const HeaderSize = 80

// These constants define the offsets of the fields of a serialized block
// header.
const (
	versionOffset    = 0
	prevBlockOffset  = 4
	merkleRootOffset = 36
	timestampOffset  = 68
	bitsOffset       = 72
	nonceOffset      = 76
)

// headerField returns n bytes of the provided header starting at the provided
// offset after ensuring the header is exactly HeaderSize bytes.
func headerField(header []byte, offset, n int) ([]byte, error) {
	if len(header) != HeaderSize {
		str := fmt.Sprintf("block header is %d bytes instead of %d",
			len(header), HeaderSize)
		return nil, makeError(ErrInvalidHeaderSize, str)
	}
	return header[offset : offset+n : offset+n], nil
}

// ExtractVersion returns the version of the provided block header.
func ExtractVersion(header []byte) (int32, error) {
	version, err := headerField(header, versionOffset, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(version)), nil
}

// ExtractPrevBlockLE returns the hash of the previous block committed to by
// the provided header in its internal little-endian order.
func ExtractPrevBlockLE(header []byte) ([]byte, error) {
	return headerField(header, prevBlockOffset, chainhash.HashSize)
}

// ExtractPrevBlockBE returns the hash of the previous block committed to by
// the provided header in the big-endian order it is displayed in.
func ExtractPrevBlockBE(header []byte) ([]byte, error) {
	prevBlock, err := ExtractPrevBlockLE(header)
	if err != nil {
		return nil, err
	}
	return ReverseEndianness(prevBlock), nil
}

// ExtractMerkleRootLE returns the merkle root of the provided header in its
// internal little-endian order.
func ExtractMerkleRootLE(header []byte) ([]byte, error) {
	return headerField(header, merkleRootOffset, chainhash.HashSize)
}

// ExtractMerkleRootBE returns the merkle root of the provided header in the
// big-endian order it is displayed in.
func ExtractMerkleRootBE(header []byte) ([]byte, error) {
	merkleRoot, err := ExtractMerkleRootLE(header)
	if err != nil {
		return nil, err
	}
	return ReverseEndianness(merkleRoot), nil
}

// ExtractTimestampLE returns the 4-byte little-endian timestamp of the
// provided header.
func ExtractTimestampLE(header []byte) ([]byte, error) {
	return headerField(header, timestampOffset, 4)
}

// ExtractTimestamp returns the timestamp of the provided header in seconds
// since the unix epoch.
func ExtractTimestamp(header []byte) (uint32, error) {
	timestamp, err := ExtractTimestampLE(header)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(timestamp), nil
}

// ExtractBits returns the compact target difficulty of the provided header.
func ExtractBits(header []byte) (uint32, error) {
	bits, err := headerField(header, bitsOffset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(bits), nil
}

// ExtractNonce returns the nonce of the provided header.
func ExtractNonce(header []byte) (uint32, error) {
	nonce, err := headerField(header, nonceOffset, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(nonce), nil
}

// ExtractTarget returns the target the hash of the provided header must not
// exceed.  The three mantissa bytes of the compact bits field are decoded as
// an unsigned value, so the result is never negative.  For all targets a
// consensus-valid header can carry, this is identical to CompactToBig.
func ExtractTarget(header []byte) (*big.Int, error) {
	bits, err := ExtractBits(header)
	if err != nil {
		return nil, err
	}
	return decodeCompact(bits&0x00ffffff, uint(bits>>24)), nil
}

// CalcDifficulty returns the difficulty of the provided target, which is the
// integer quotient of the difficulty one target and the target.  A target that
// is not positive has a difficulty of zero.
func CalcDifficulty(target *big.Int) *big.Int {
	if target.Sign() <= 0 {
		return new(big.Int)
	}
	return new(big.Int).Div(diff1Target, target)
}

// ExtractDifficulty returns the difficulty of the target committed to by the
// provided header.  See CalcDifficulty for details.
func ExtractDifficulty(header []byte) (*big.Int, error) {
	target, err := ExtractTarget(header)
	if err != nil {
		return nil, err
	}
	return CalcDifficulty(target), nil
}

// HeaderHash returns the hash of the provided header, which is the hash256 of
// its serialized bytes.
func HeaderHash(header []byte) (chainhash.Hash, error) {
	if _, err := headerField(header, 0, HeaderSize); err != nil {
		return chainhash.Hash{}, err
	}
	return Hash256(header), nil
}

// CheckHeaderProofOfWork ensures the hash of the provided header does not
// exceed the target it commits to and that the target is in range per the
// provided proof-of-work limit.
func CheckHeaderProofOfWork(header []byte, powLimit *big.Int) error {
	bits, err := ExtractBits(header)
	if err != nil {
		return err
	}
	hash := Hash256(header)
	return CheckProofOfWork(&hash, bits, powLimit)
}
