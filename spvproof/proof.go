// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package spvproof

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/btcspv/btcspv"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// HexBytes is a byte slice that is encoded as a hex string in JSON.
type HexBytes []byte

// String returns the hex encoding of the bytes.
func (b HexBytes) String() string {
	return hex.EncodeToString(b)
}

// MarshalText satisfies the encoding.TextMarshaler interface.
func (b HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(b)), nil
}

// UnmarshalText satisfies the encoding.TextUnmarshaler interface.
func (b *HexBytes) UnmarshalText(text []byte) error {
	decoded, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	*b = decoded
	return nil
}

// Proof is a proof that a transaction is included in the block identified by
// a header.
//
// The transaction is carried as its raw version, input vector, output vector,
// and lock time, which is the serialization its id commits to.  Witness data
// is not part of it.  TxID is the claimed id of the transaction in the usual
// big-endian display form.  IntermediateNodes is the concatenation of the
// sibling hashes from the leaf level of the merkle tree up to, but excluding,
// the root.
type Proof struct {
	Version           HexBytes `json:"version"`
	Vin               HexBytes `json:"vin"`
	Vout              HexBytes `json:"vout"`
	LockTime          HexBytes `json:"locktime"`
	TxID              string   `json:"tx_id"`
	Index             uint32   `json:"index"`
	ConfirmingHeader  HexBytes `json:"confirming_header"`
	IntermediateNodes HexBytes `json:"intermediate_nodes"`
}

// ReadProof decodes a JSON encoded proof from the provided reader.  Unknown
// fields are rejected.
func ReadProof(r io.Reader) (*Proof, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var proof Proof
	if err := dec.Decode(&proof); err != nil {
		return nil, fmt.Errorf("unable to decode proof: %w", err)
	}
	return &proof, nil
}

// WriteProof writes the JSON encoding of the provided proof to the provided
// writer.
func WriteProof(w io.Writer, proof *Proof) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(proof)
}

// splitTx returns the fields of the provided transaction that its id commits
// to.
func splitTx(tx *wire.MsgTx) (version, vin, vout, lockTime []byte, err error) {
	var buf bytes.Buffer
	buf.Grow(tx.SerializeSizeStripped())
	if err := tx.SerializeNoWitness(&buf); err != nil {
		return nil, nil, nil, nil, err
	}
	serialized := buf.Bytes()

	voutLen := btcspv.VarIntSerializeSize(uint64(len(tx.TxOut)))
	for _, txOut := range tx.TxOut {
		voutLen += txOut.SerializeSize()
	}
	voutStart := len(serialized) - lockTimeSize - voutLen

	version = serialized[:versionSize]
	vin = serialized[versionSize:voutStart]
	vout = serialized[voutStart : len(serialized)-lockTimeSize]
	lockTime = serialized[len(serialized)-lockTimeSize:]
	return version, vin, vout, lockTime, nil
}

// NewProof creates a proof of inclusion of the transaction at the provided
// index of the provided block.
func NewProof(block *wire.MsgBlock, txIndex uint32) (*Proof, error) {
	if uint64(txIndex) >= uint64(len(block.Transactions)) {
		str := fmt.Sprintf("transaction index %d is out of range for a "+
			"block with %d transactions", txIndex, len(block.Transactions))
		return nil, ruleError(ErrInvalidField, str)
	}

	leaves := make([]chainhash.Hash, 0, len(block.Transactions))
	for _, tx := range block.Transactions {
		leaves = append(leaves, tx.TxHash())
	}
	branch := btcspv.GenerateInclusionProof(leaves, txIndex)
	nodes := make([]byte, 0, len(branch)*chainhash.HashSize)
	for i := range branch {
		nodes = append(nodes, branch[i][:]...)
	}

	var header bytes.Buffer
	header.Grow(btcspv.HeaderSize)
	if err := block.Header.Serialize(&header); err != nil {
		return nil, err
	}

	tx := block.Transactions[txIndex]
	version, vin, vout, lockTime, err := splitTx(tx)
	if err != nil {
		return nil, err
	}

	return &Proof{
		Version:           version,
		Vin:               vin,
		Vout:              vout,
		LockTime:          lockTime,
		TxID:              leaves[txIndex].String(),
		Index:             txIndex,
		ConfirmingHeader:  header.Bytes(),
		IntermediateNodes: nodes,
	}, nil
}

// Prove returns whether or not the provided intermediate nodes prove the
// transaction id is included at the provided index of a block with the
// provided merkle root.  A transaction that is alone in its block is proven by
// no intermediate nodes at index zero.
func Prove(txID, merkleRoot *chainhash.Hash, intermediateNodes []byte, index uint64) bool {
	if *txID == *merkleRoot && index == 0 && len(intermediateNodes) == 0 {
		return true
	}

	proof := make([]byte, 0, len(intermediateNodes)+2*chainhash.HashSize)
	proof = append(proof, txID[:]...)
	proof = append(proof, intermediateNodes...)
	proof = append(proof, merkleRoot[:]...)
	ok, err := btcspv.VerifyHash256Merkle(proof, index)
	if err != nil {
		log.Tracef("Rejected malformed merkle proof: %v", err)
		return false
	}
	return ok
}

// Validate validates the proof.  The transaction must be well formed and have
// the claimed id, the confirming header must meet the target it commits to,
// and the intermediate nodes must prove the transaction is included in the
// block at the claimed index.
//
// Validating a proof only establishes that a header with valid work commits
// to the transaction.  Whether the header is part of the best chain is up to
// the caller.
func (p *Proof) Validate() error {
	txID, err := CalcTxID(p.Version, p.Vin, p.Vout, p.LockTime)
	if err != nil {
		return err
	}
	claimedTxID, err := chainhash.NewHashFromStr(p.TxID)
	if err != nil {
		str := fmt.Sprintf("transaction id %q is malformed: %v", p.TxID, err)
		return wrapError(ErrInvalidField, str, err)
	}
	if txID != *claimedTxID {
		str := fmt.Sprintf("transaction id %v does not match the id of the "+
			"transaction %v", claimedTxID, txID)
		return ruleError(ErrTxIDMismatch, str)
	}

	if len(p.ConfirmingHeader) != btcspv.HeaderSize {
		str := fmt.Sprintf("confirming header is %d bytes instead of %d",
			len(p.ConfirmingHeader), btcspv.HeaderSize)
		return ruleError(ErrInvalidField, str)
	}
	if _, err := ValidateHeaderChain(p.ConfirmingHeader); err != nil {
		return err
	}

	rootLE, err := btcspv.ExtractMerkleRootLE(p.ConfirmingHeader)
	if err != nil {
		return err
	}
	var merkleRoot chainhash.Hash
	copy(merkleRoot[:], rootLE)
	if !Prove(&txID, &merkleRoot, p.IntermediateNodes, uint64(p.Index)) {
		str := fmt.Sprintf("merkle proof does not prove inclusion of %v at "+
			"index %d under merkle root %v", txID, p.Index, merkleRoot)
		return ruleError(ErrInvalidMerkleProof, str)
	}

	log.Debugf("Validated proof of transaction %v at index %d", txID, p.Index)
	return nil
}
