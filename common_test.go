// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcspv

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

const (
	// genesisHeaderHex is the serialized header of the main network genesis
	// block.
	genesisHeaderHex = "0100000000000000000000000000000000000000000000000000" +
		"000000000000000000003ba3edfd7a7b12b27ac72c3e67768f617fc81bc3888a5" +
		"1323a9fb8aa4b1e5e4a29ab5f49ffff001d1dac2b7c"

	// block1HeaderHex is the serialized header of main network block 1.
	block1HeaderHex = "010000006fe28c0ab6f1b372c1a6a246ae63f74f931e8365e15a089c" +
		"68d6190000000000982051fd1e4ba744bbbe680e1fee14677ba1a3c3540bf7b1cd" +
		"b606e857233e0e61bc6649ffff001d01e36299"

	// genesisCoinbaseHex is the serialized coinbase transaction of the main
	// network genesis block.
	genesisCoinbaseHex = "01000000010000000000000000000000000000000000000000" +
		"000000000000000000000000ffffffff4d04ffff001d0104455468652054696d65" +
		"732030332f4a616e2f32303039204368616e63656c6c6f72206f6e206272696e6b" +
		"206f66207365636f6e64206261696c6f757420666f722062616e6b73ffffffff01" +
		"00f2052a01000000434104678afdb0fe5548271967f1a67130b7105cd6a828e039" +
		"09a67962e0ea1f61deb649f6bc3f4cef38c4f35504e51ec112de5c384df7ba0b8d" +
		"578a4c702b6bf11d5fac00000000"

	// genesisMerkleRoot is the merkle root of the genesis block, which is
	// also the id of its only transaction.
	genesisMerkleRoot = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"

	// genesisHash is the hash of the genesis block.
	genesisHash = "000000000019d6689c085ae165831e934ff763ae46a2a6c172b3f1b60a8ce26f"
)

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error.  This is only provided for the hard-coded constants so errors in
// the source code can be detected. It will only (and must only) be called with
// hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// mustParseHash converts the passed big-endian hex string into a
// chainhash.Hash and will panic if there is an error.  It must only be called
// with hard-coded values.
func mustParseHash(s string) chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(s)
	if err != nil {
		panic("invalid hash in source file: " + s)
	}
	return *hash
}

// repeatByte returns a slice of n copies of the provided byte.
func repeatByte(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

// Standard output scripts used throughout the tests.  The hash payloads are
// distinct so extraction mistakes are detected.
var (
	p2pkhHash  = repeatByte(0x11, 20)
	p2shHash   = repeatByte(0x22, 20)
	p2wpkhHash = repeatByte(0x33, 20)
	p2wshHash  = repeatByte(0x44, 32)
	nullData   = []byte("btcspv")

	p2pkhScript = append(append([]byte{opDup, opHash160, opData20},
		p2pkhHash...), opEqualVerify, opCheckSig)
	p2shScript    = append(append([]byte{opHash160, opData20}, p2shHash...), opEqual)
	p2wpkhScript  = append([]byte{op0, opData20}, p2wpkhHash...)
	p2wshScript   = append([]byte{op0, opData32}, p2wshHash...)
	opReturnData  = append([]byte{opReturn, byte(len(nullData))}, nullData...)
	unknownScript = []byte{0x51}
)

// testTx returns a transaction with a legacy input, an input with a scriptSig
// long enough to require a 3 byte length prefix, a witness placeholder input,
// and one output of every script class.
func testTx() *wire.MsgTx {
	tx := wire.NewMsgTx(2)
	prevHash := mustParseHash("f4184fc596403b9d638783cf57adfe4c75c605f6356fbc91338530e9831e9e16")
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: *wire.NewOutPoint(&prevHash, 1),
		SignatureScript:  repeatByte(0xab, 107),
		Sequence:         0xfffffffe,
	})
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: *wire.NewOutPoint(&prevHash, 7),
		SignatureScript:  repeatByte(0xcd, 300),
		Sequence:         0xfffffffd,
	})
	tx.AddTxIn(&wire.TxIn{
		PreviousOutPoint: *wire.NewOutPoint(&prevHash, 0x01020304),
		Sequence:         0x00000010,
	})
	tx.AddTxOut(wire.NewTxOut(100000, p2pkhScript))
	tx.AddTxOut(wire.NewTxOut(200000, p2shScript))
	tx.AddTxOut(wire.NewTxOut(300000, p2wpkhScript))
	tx.AddTxOut(wire.NewTxOut(400000, p2wshScript))
	tx.AddTxOut(wire.NewTxOut(0, opReturnData))
	tx.AddTxOut(wire.NewTxOut(500000, unknownScript))
	tx.LockTime = 0x0a0b0c0d
	return tx
}

// splitTx serializes the provided transaction without witness data and
// returns its version, input vector, output vector, and lock time.
func splitTx(t *testing.T, tx *wire.MsgTx) (version, vin, vout, locktime []byte) {
	t.Helper()

	var buf bytes.Buffer
	if err := tx.SerializeNoWitness(&buf); err != nil {
		t.Fatalf("unexpected error serializing tx: %v", err)
	}
	raw := buf.Bytes()

	voutLen := wire.VarIntSerializeSize(uint64(len(tx.TxOut)))
	for _, txOut := range tx.TxOut {
		voutLen += txOut.SerializeSize()
	}
	voutStart := len(raw) - 4 - voutLen
	return raw[:4], raw[4:voutStart], raw[voutStart : len(raw)-4],
		raw[len(raw)-4:]
}

// serializeTxIn returns the serialized form of the provided input.
func serializeTxIn(txIn *wire.TxIn) []byte {
	buf := make([]byte, 0, minInputSize+len(txIn.SignatureScript))
	buf = append(buf, txIn.PreviousOutPoint.Hash[:]...)
	buf = append(buf, byte(txIn.PreviousOutPoint.Index),
		byte(txIn.PreviousOutPoint.Index>>8),
		byte(txIn.PreviousOutPoint.Index>>16),
		byte(txIn.PreviousOutPoint.Index>>24))
	buf = AppendVarInt(buf, uint64(len(txIn.SignatureScript)))
	buf = append(buf, txIn.SignatureScript...)
	return append(buf, byte(txIn.Sequence), byte(txIn.Sequence>>8),
		byte(txIn.Sequence>>16), byte(txIn.Sequence>>24))
}

// serializeTxOut returns the serialized form of the provided output.
func serializeTxOut(t *testing.T, txOut *wire.TxOut) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := wire.WriteTxOut(&buf, 0, 0, txOut); err != nil {
		t.Fatalf("unexpected error serializing output: %v", err)
	}
	return buf.Bytes()
}
