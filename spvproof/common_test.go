// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvproof

import (
	"bytes"
	"encoding/hex"
	"testing"
	"time"

	"github.com/btcspv/btcspv"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

const (
	// block1HeaderHex is the serialized header of main network block 1.
	block1HeaderHex = "010000006fe28c0ab6f1b372c1a6a246ae63f74f931e8365e15a089c" +
		"68d6190000000000982051fd1e4ba744bbbe680e1fee14677ba1a3c3540bf7b1cdb6" +
		"06e857233e0e61bc6649ffff001d01e36299"

	// regTestBits is the easiest target of the regression test network,
	// which allows headers to be mined in tests.
	regTestBits = 0x207fffff
)

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error.  This is only provided for the hard-coded constants so errors in
// the source code can be detected.  It will only (and must only) be called with
// hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// serializeHeader returns the serialization of the provided header.
func serializeHeader(t *testing.T, header *wire.BlockHeader) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, header.Serialize(&buf))
	return buf.Bytes()
}

// genesisHeader returns the serialized header of the main network genesis
// block.
func genesisHeader(t *testing.T) []byte {
	return serializeHeader(t, &chaincfg.MainNetParams.GenesisBlock.Header)
}

// mineHeader increments the nonce of the provided header until its hash meets
// the target it commits to.
func mineHeader(t *testing.T, header *wire.BlockHeader) {
	t.Helper()
	target := btcspv.CompactToBig(header.Bits)
	for {
		hash := header.BlockHash()
		if hash != (chainhash.Hash{}) && btcspv.HashToBig(&hash).Cmp(target) < 0 {
			return
		}
		header.Nonce++
		require.NotZero(t, header.Nonce, "nonce space exhausted")
	}
}

// testBlock returns a mined regression test block with the requested number
// of distinct transactions.
func testBlock(t *testing.T, numTxs int) *wire.MsgBlock {
	t.Helper()
	txs := make([]*wire.MsgTx, 0, numTxs)
	leaves := make([]chainhash.Hash, 0, numTxs)
	for i := 0; i < numTxs; i++ {
		tx := wire.NewMsgTx(2)
		prevOut := wire.OutPoint{Hash: chainhash.Hash{0x01, byte(i)}, Index: uint32(i)}
		tx.AddTxIn(wire.NewTxIn(&prevOut, []byte{0x51}, nil))
		tx.AddTxOut(wire.NewTxOut(int64(1000*(i+1)), []byte{0x6a, 0x01, byte(i)}))
		txs = append(txs, tx)
		leaves = append(leaves, tx.TxHash())
	}

	block := &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:    0x20000000,
			PrevBlock:  *chaincfg.MainNetParams.GenesisHash,
			MerkleRoot: btcspv.CalcMerkleRoot(leaves),
			Timestamp:  time.Unix(1700000000, 0),
			Bits:       regTestBits,
		},
		Transactions: txs,
	}
	mineHeader(t, &block.Header)
	return block
}
