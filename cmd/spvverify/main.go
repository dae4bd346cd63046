// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"runtime"
	"strings"

	"github.com/btcspv/btcspv"
	"github.com/btcspv/btcspv/internal/progresslog"
	"github.com/btcspv/btcspv/internal/version"
	"github.com/btcspv/btcspv/spvproof"
	"github.com/btcsuite/btcd/wire"
	flags "github.com/jessevdk/go-flags"
)

// decodeHexArg decodes the hex encoded value of the named option.
func decodeHexArg(name, value string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("--%s is not valid hex: %w", name, err)
	}
	return b, nil
}

// readInput returns the contents of the named file or of stdin when the name
// is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// validateProof validates the JSON encoded proof at the provided path.
func validateProof(path string, stdin io.Reader, stdout io.Writer) error {
	data, err := readInput(path, stdin)
	if err != nil {
		return err
	}
	proof, err := spvproof.ReadProof(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if err := proof.Validate(); err != nil {
		return fmt.Errorf("invalid proof: %w", err)
	}
	fmt.Fprintf(stdout, "proof valid: transaction %s at index %d\n",
		proof.TxID, proof.Index)
	return nil
}

// createProof writes the JSON encoding of a proof for the transaction at the
// provided index of the hex encoded block at the provided path.
func createProof(path string, txIndex uint32, stdin io.Reader, stdout io.Writer) error {
	data, err := readInput(path, stdin)
	if err != nil {
		return err
	}
	serialized, err := decodeHexArg("block", string(data))
	if err != nil {
		return err
	}
	var block wire.MsgBlock
	if err := block.Deserialize(bytes.NewReader(serialized)); err != nil {
		return fmt.Errorf("unable to decode block: %w", err)
	}

	spvvLog.Debugf("Creating proof for transaction %d of block %v", txIndex,
		block.BlockHash())
	proof, err := spvproof.NewProof(&block, txIndex)
	if err != nil {
		return err
	}
	return spvproof.WriteProof(stdout, proof)
}

// headersPerBatch is the number of headers validated between progress updates.
const headersPerBatch = btcspv.RetargetInterval

// validateHeaders validates the provided hex encoded header chain in batches,
// logging progress along the way.  Each batch after the first one starts with
// the final header of the batch before it so the link between them is also
// validated.
func validateHeaders(headersHex string, stdout io.Writer) error {
	headers, err := decodeHexArg("headers", headersHex)
	if err != nil {
		return err
	}
	if len(headers) == 0 || len(headers)%btcspv.HeaderSize != 0 {
		return fmt.Errorf("--headers is %d bytes, which is not a whole "+
			"number of %d byte headers", len(headers), btcspv.HeaderSize)
	}

	progress := progresslog.New("Validated", spvvLog)
	numHeaders := len(headers) / btcspv.HeaderSize
	totalDifficulty := new(big.Int)
	for start := 0; start < numHeaders; start += headersPerBatch {
		end := start + headersPerBatch
		if end > numHeaders {
			end = numHeaders
		}
		from := start
		if start > 0 {
			from = start - 1
		}
		batch := headers[from*btcspv.HeaderSize : end*btcspv.HeaderSize]
		difficulty, err := spvproof.ValidateHeaderChain(batch)
		if err != nil {
			return fmt.Errorf("invalid header chain after header %d: %w",
				from, err)
		}
		if from != start {
			// The overlapping header was counted by the previous batch.
			target, err := btcspv.ExtractTarget(batch[:btcspv.HeaderSize])
			if err != nil {
				return err
			}
			difficulty.Sub(difficulty, btcspv.CalcDifficulty(target))
		}
		totalDifficulty.Add(totalDifficulty, difficulty)

		lastHeader := batch[len(batch)-btcspv.HeaderSize:]
		progress.LogHeaderProgress(uint64(end-start), lastHeader,
			end == numHeaders)
	}

	fmt.Fprintf(stdout, "header chain valid: %d headers, total difficulty %v\n",
		numHeaders, totalDifficulty)
	return nil
}

// verifyMerkleProof verifies the provided hex encoded flat merkle proof.
func verifyMerkleProof(proofHex string, index uint64, stdout io.Writer) error {
	proof, err := decodeHexArg("merkleproof", proofHex)
	if err != nil {
		return err
	}
	ok, err := btcspv.VerifyHash256Merkle(proof, index)
	if err != nil {
		return fmt.Errorf("malformed merkle proof: %w", err)
	}
	if !ok {
		return fmt.Errorf("merkle proof does not prove inclusion at index %d",
			index)
	}
	fmt.Fprintf(stdout, "merkle proof valid at index %d\n", index)
	return nil
}

// validateRetarget validates the provided hex encoded first and last headers
// of an epoch and first header of the following epoch.
func validateRetarget(headersHex string, stdout io.Writer) error {
	headers, err := decodeHexArg("retarget", headersHex)
	if err != nil {
		return err
	}
	if len(headers) != 3*btcspv.HeaderSize {
		return fmt.Errorf("--retarget must be exactly 3 headers, got %d bytes",
			len(headers))
	}
	first := headers[:btcspv.HeaderSize]
	last := headers[btcspv.HeaderSize : 2*btcspv.HeaderSize]
	next := headers[2*btcspv.HeaderSize:]
	if err := spvproof.ValidateRetarget(first, last, next); err != nil {
		return fmt.Errorf("invalid retarget: %w", err)
	}
	bits, err := btcspv.ExtractBits(next)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "retarget valid: next bits %08x\n", bits)
	return nil
}

// run performs the single action requested by the provided configuration.
func run(cfg *config, stdin io.Reader, stdout io.Writer) error {
	if n := cfg.numActions(); n != 1 {
		return fmt.Errorf("expected exactly one action, got %d", n)
	}

	switch {
	case cfg.BlockFile != "":
		return createProof(cfg.BlockFile, cfg.TxIndex, stdin, stdout)
	case cfg.ProofFile != "":
		return validateProof(cfg.ProofFile, stdin, stdout)
	case cfg.Headers != "":
		return validateHeaders(cfg.Headers, stdout)
	case cfg.MerkleProof != "":
		return verifyMerkleProof(cfg.MerkleProof, cfg.Index, stdout)
	default:
		return validateRetarget(cfg.Retarget, stdout)
	}
}

// spvverifyMain is the real main function for spvverify.  It is necessary to
// work around the fact that deferred functions do not run when os.Exit() is
// called.
func spvverifyMain() int {
	cfg, _, err := loadConfig(os.Args[1:])
	if err != nil {
		var e *flags.Error
		switch {
		case errors.As(err, &e) && e.Type == flags.ErrHelp:
			return 0
		case errors.As(err, &e):
			// The parser already printed the error.
		case errors.Is(err, errShowSubsystems):
			fmt.Println("Supported subsystems", supportedSubsystems())
			return 0
		default:
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	if cfg.ShowVersion {
		fmt.Printf("%s version %s (Go version %s %s/%s)\n", appName,
			version.String(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
		return 0
	}

	spvvLog.Debugf("Version %s (Go version %s %s/%s)", version.String(),
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if err := run(cfg, os.Stdin, os.Stdout); err != nil {
		spvvLog.Error(err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(spvverifyMain())
}
