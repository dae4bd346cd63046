// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/btcspv/btcspv"
	"github.com/btcspv/btcspv/spvproof"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/require"
)

// block1HeaderHex is the serialized header of main network block 1.
const block1HeaderHex = "010000006fe28c0ab6f1b372c1a6a246ae63f74f931e8365e15a089c" +
	"68d6190000000000982051fd1e4ba744bbbe680e1fee14677ba1a3c3540bf7b1cdb6" +
	"06e857233e0e61bc6649ffff001d01e36299"

// headerHex returns the hex encoded serialization of the provided header.
func headerHex(t *testing.T, header *wire.BlockHeader) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, header.Serialize(&buf))
	return hex.EncodeToString(buf.Bytes())
}

// genesisBlockHex returns the hex encoded main network genesis block.
func genesisBlockHex(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, chaincfg.MainNetParams.GenesisBlock.Serialize(&buf))
	return hex.EncodeToString(buf.Bytes())
}

// genesisHeaderHex returns the hex encoded main network genesis header.
func genesisHeaderHex(t *testing.T) string {
	return headerHex(t, &chaincfg.MainNetParams.GenesisBlock.Header)
}

func TestRunCreateAndValidateProof(t *testing.T) {
	dir := t.TempDir()
	blockFile := filepath.Join(dir, "block.hex")
	require.NoError(t, os.WriteFile(blockFile, []byte(genesisBlockHex(t)+"\n"), 0600))

	var proofJSON bytes.Buffer
	err := run(&config{BlockFile: blockFile}, nil, &proofJSON)
	require.NoError(t, err)

	proofFile := filepath.Join(dir, "proof.json")
	require.NoError(t, os.WriteFile(proofFile, proofJSON.Bytes(), 0600))

	var out bytes.Buffer
	require.NoError(t, run(&config{ProofFile: proofFile}, nil, &out))
	require.Contains(t, out.String(), "proof valid")
	require.Contains(t, out.String(), chaincfg.MainNetParams.GenesisBlock.Transactions[0].TxHash().String())

	// The same proof from stdin.
	out.Reset()
	require.NoError(t, run(&config{ProofFile: "-"}, bytes.NewReader(proofJSON.Bytes()), &out))
	require.Contains(t, out.String(), "proof valid")

	// A proof for a transaction that is not in the block.
	out.Reset()
	err = run(&config{BlockFile: blockFile, TxIndex: 1}, nil, &out)
	require.ErrorIs(t, err, spvproof.ErrInvalidField)

	// A tampered proof.
	tampered := strings.Replace(proofJSON.String(), `"index": 0`, `"index": 1`, 1)
	err = run(&config{ProofFile: "-"}, strings.NewReader(tampered), &out)
	require.ErrorIs(t, err, spvproof.ErrInvalidMerkleProof)
}

func TestRunHeaders(t *testing.T) {
	var out bytes.Buffer
	err := run(&config{Headers: genesisHeaderHex(t) + block1HeaderHex}, nil, &out)
	require.NoError(t, err)
	require.Equal(t, "header chain valid: 2 headers, total difficulty 2\n", out.String())

	err = run(&config{Headers: block1HeaderHex + genesisHeaderHex(t)}, nil, &out)
	require.ErrorIs(t, err, spvproof.ErrInvalidChain)

	err = run(&config{Headers: "zz"}, nil, &out)
	require.Error(t, err)
}

// minedHeadersHex returns a hex encoded chain of mined regression test headers.
// The header at the provided break index, if any, does not commit to the header
// before it.
func minedHeadersHex(t *testing.T, numHeaders, breakIndex int) string {
	t.Helper()
	var headers strings.Builder
	var prevHash chainhash.Hash
	for i := 0; i < numHeaders; i++ {
		header := wire.BlockHeader{
			Version:   4,
			PrevBlock: prevHash,
			Timestamp: time.Unix(int64(1700000000+600*i), 0),
			Bits:      0x207fffff,
		}
		if i == breakIndex {
			header.PrevBlock[0] ^= 0xff
		}
		target := btcspv.CompactToBig(header.Bits)
		for {
			hash := header.BlockHash()
			if hash != (chainhash.Hash{}) && btcspv.HashToBig(&hash).Cmp(target) < 0 {
				prevHash = hash
				break
			}
			header.Nonce++
		}
		headers.WriteString(headerHex(t, &header))
	}
	return headers.String()
}

func TestRunHeadersBatches(t *testing.T) {
	numHeaders := 2*headersPerBatch + 1

	var out bytes.Buffer
	err := run(&config{Headers: minedHeadersHex(t, numHeaders, -1)}, nil, &out)
	require.NoError(t, err)
	require.Equal(t, "header chain valid: 4033 headers, total difficulty 0\n", out.String())

	// A broken link at the first header of a batch is detected through the
	// overlapping header.
	err = run(&config{Headers: minedHeadersHex(t, numHeaders, headersPerBatch)}, nil, &out)
	require.ErrorIs(t, err, spvproof.ErrInvalidChain)

	err = run(&config{Headers: block1HeaderHex[:158]}, nil, &out)
	require.Error(t, err)
}

func TestRunMerkleProof(t *testing.T) {
	leaves := make([]chainhash.Hash, 6)
	for i := range leaves {
		leaves[i] = btcspv.Hash256([]byte{byte(i)})
	}
	root := btcspv.CalcMerkleRoot(leaves)
	branch := btcspv.GenerateInclusionProof(leaves, 5)
	proofHex := hex.EncodeToString(btcspv.SerializeMerkleProof(&leaves[5], branch, &root))

	var out bytes.Buffer
	require.NoError(t, run(&config{MerkleProof: proofHex, Index: 5}, nil, &out))
	require.Equal(t, "merkle proof valid at index 5\n", out.String())

	require.Error(t, run(&config{MerkleProof: proofHex, Index: 4}, nil, &out))
	err := run(&config{MerkleProof: proofHex[2:], Index: 5}, nil, &out)
	require.ErrorIs(t, err, btcspv.ErrMalformedProof)
}

func TestRunRetarget(t *testing.T) {
	first := wire.BlockHeader{
		Version:   1,
		Timestamp: time.Unix(1261130161, 0),
		Bits:      0x1d00ffff,
	}
	last := wire.BlockHeader{
		Version:   1,
		PrevBlock: chainhash.Hash{0x01},
		Timestamp: time.Unix(1262152739, 0),
		Bits:      0x1d00ffff,
	}
	next := wire.BlockHeader{
		Version:   1,
		PrevBlock: last.BlockHash(),
		Timestamp: time.Unix(1262153464, 0),
		Bits:      0x1d00d86a,
	}
	headers := headerHex(t, &first) + headerHex(t, &last) + headerHex(t, &next)

	var out bytes.Buffer
	require.NoError(t, run(&config{Retarget: headers}, nil, &out))
	require.Equal(t, "retarget valid: next bits 1d00d86a\n", out.String())

	next.Bits = 0x1d00ffff
	headers = headers[:4*btcspv.HeaderSize] + headerHex(t, &next)
	err := run(&config{Retarget: headers}, nil, &out)
	require.ErrorIs(t, err, spvproof.ErrInvalidRetarget)

	require.Error(t, run(&config{Retarget: headers[:2*btcspv.HeaderSize]}, nil, &out))
}

func TestRunSingleAction(t *testing.T) {
	var out bytes.Buffer
	err := run(&config{ProofFile: "-", BlockFile: "-"}, strings.NewReader(""), &out)
	require.ErrorContains(t, err, "exactly one action")
	require.Empty(t, out.String())

	require.Error(t, run(&config{}, nil, &out))
}
