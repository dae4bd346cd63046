// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2020 The Decred developers
// Copyright (c) 2025 The btcspv developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcspv

import (
	"fmt"
	"math/bits"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// CalcMerkleRootInPlace is an in-place version of CalcMerkleRoot that reuses
// the backing array of the provided slice to perform the calculation thereby
// preventing extra allocations.  It is the caller's responsibility to ensure it
// is safe to mutate the entries in the provided slice.
//
// The function internally appends an additional entry in the case the number
// of provided leaves is odd, so the caller may wish to pre-allocate space for
// one additional item in the backing array in that case to ensure it doesn't
// need to be reallocated to expand it.
//
// For example:
//
//	allocLen := len(leaves) + len(leaves)&1
//	leaves := make([]chainhash.Hash, len(leaves), allocLen)
//	// populate the leaves
//
// See CalcMerkleRoot for more details on how the merkle root is calculated.
func CalcMerkleRootInPlace(leaves []chainhash.Hash) chainhash.Hash {
	if len(leaves) == 0 {
		// All zero.
		return chainhash.Hash{}
	}

	// Create a buffer to reuse for hashing the branches and some long lived
	// slices into it to avoid reslicing.
	var buf [2 * chainhash.HashSize]byte
	var left = buf[:chainhash.HashSize]
	var right = buf[chainhash.HashSize:]
	var both = buf[:]

	// The following algorithm works by replacing the leftmost entries in the
	// slice with the concatenations of each subsequent set of 2 hashes and
	// shrinking the slice by half to account for the fact that each level of
	// the tree is half the size of the previous one.  In the case a level is
	// unbalanced (there is no final right child), the final node is duplicated
	// so it ultimately is concatenated with itself.
	//
	// For example, the following illustrates calculating a tree with 5 leaves:
	//
	// [0 1 2 3 4]                              (5 entries)
	// 1st iteration: [h(0||1) h(2||3) h(4||4)] (3 entries)
	// 2nd iteration: [h(h01||h23) h(h44||h44)] (2 entries)
	// 3rd iteration: [h(h0123||h4444)]         (1 entry)
	for len(leaves) > 1 {
		// When there is no right child, the parent is generated by hashing the
		// concatenation of the left child with itself.
		if len(leaves)&1 != 0 {
			leaves = append(leaves, leaves[len(leaves)-1])
		}

		// Set the parent node to the hash of the concatenation of the left and
		// right children.
		for i := 0; i < len(leaves)/2; i++ {
			copy(left, leaves[i*2][:])
			copy(right, leaves[i*2+1][:])
			leaves[i] = chainhash.DoubleHashH(both)
		}
		leaves = leaves[:len(leaves)/2]
	}
	return leaves[0]
}

// CalcMerkleRoot calculates and returns a merkle root depending on the
// provided leaf hashes.  The leaf hashes are the transaction ids of a block in
// their internal byte order and the result is the merkle root a block header
// commits to.  The leaves will NOT be modified.
//
// A merkle tree is a tree in which every non-leaf node is the hash of its
// children nodes.  A diagram depicting how this works for Bitcoin transactions
// where h(x) is a hash256 follows:
//
//	         root = h1234 = h(h12 + h34)
//	        /                           \
//	  h12 = h(h1 + h2)            h34 = h(h3 + h4)
//	   /            \              /            \
//	 h1              h2          h3              h4
//
// The number of inputs is not always a power of two which results in a
// balanced tree structure as above.  In that case, parent nodes with no
// children are also zero and parent nodes with only a single left node are
// calculated by concatenating the left node with itself before hashing.
func CalcMerkleRoot(leaves []chainhash.Hash) chainhash.Hash {
	allocLen := len(leaves) + len(leaves)&1
	dupLeaves := make([]chainhash.Hash, len(leaves), allocLen)
	copy(dupLeaves, leaves)
	return CalcMerkleRootInPlace(dupLeaves)
}

// GenerateInclusionProof treats the provided slice of hashes as leaves of a
// merkle tree and generates and returns a merkle tree inclusion proof for the
// given leaf index.  The proof can be used to efficiently prove the leaf
// associated with given leaf index is a member of the tree.
//
// A merkle tree inclusion proof consists of the ceil(log2(x)) intermediate
// sibling hashes along the path from the target leaf to prove through the root
// node.  The sibling hashes, along with the original leaf hash (and its
// original leaf index), can be used to recalculate the merkle root which, in
// turn, can be verified against a known good merkle root in order to prove the
// leaf is actually a member of the tree at that position.
//
// For example, consider the following merkle tree:
//
//	         root = h1234 = h(h12 + h34)
//	        /                           \
//	  h12 = h(h1 + h2)            h34 = h(h3 + h4)
//	   /            \              /            \
//	  h1            h2            h3            h4
//
// Further, consider the goal is to prove inclusion of h3 at the 0-based leaf
// index of 2.  The proof will consist of the sibling hashes h4 and h12.  On the
// other hand, if the goal were to prove inclusion of h2 at the 0-based leaf
// index of 1, the proof would consist of the sibling hashes h1 and h34.
//
// Specifying a leaf index that is out of range will return nil.
func GenerateInclusionProof(leaves []chainhash.Hash, leafIndex uint32) []chainhash.Hash {
	// The leaf index must be in range.
	if uint64(leafIndex) >= uint64(len(leaves)) {
		return nil
	}

	// Nothing more to do when there is only a single leaf since the root is
	// the leaf itself.
	if len(leaves) == 1 {
		return nil
	}

	// Create a buffer to reuse for hashing the branches and some long lived
	// slices into it to avoid reslicing.
	var buf [2 * chainhash.HashSize]byte
	var left = buf[:chainhash.HashSize]
	var right = buf[chainhash.HashSize:]
	var both = buf[:]

	// Copy the leaves so they can be safely mutated by the in-place merkle
	// root calculation.  Note that the backing array is provided with space
	// for one additional item when the number of leaves is odd as an
	// optimization for the in-place calculation to avoid the need to grow the
	// backing array.
	allocLen := len(leaves) + len(leaves)&1
	dupLeaves := make([]chainhash.Hash, len(leaves), allocLen)
	copy(dupLeaves, leaves)
	leaves = dupLeaves

	// Populate the proof by walking each level of the tree and storing the
	// sibling of the node on the path to the root.  The parents of each level
	// replace the leftmost entries of the slice as in CalcMerkleRootInPlace.
	numProofHashes := bits.Len32(uint32(len(leaves) - 1))
	proof := make([]chainhash.Hash, 0, numProofHashes)
	for len(leaves) > 1 {
		// When there is no right child, the parent is generated by hashing the
		// concatenation of the left child with itself.
		if len(leaves)&1 != 0 {
			leaves = append(leaves, leaves[len(leaves)-1])
		}

		// Add the sibling hash of the node on the path to the proof.
		proof = append(proof, leaves[leafIndex^1])

		// Set the parent node to the hash of the concatenation of the left and
		// right children.
		for i := 0; i < len(leaves)/2; i++ {
			copy(left, leaves[i*2][:])
			copy(right, leaves[i*2+1][:])
			leaves[i] = chainhash.DoubleHashH(both)
		}
		leaves = leaves[:len(leaves)/2]
		leafIndex >>= 1
	}

	return proof
}

// verifyBranch recalculates the root from the provided leaf, its index, and
// the sibling hashes along its path and reports whether or not it matches the
// provided root.
//
// A sibling that is identical to the node it is paired with while the node is
// the right child is rejected.  Bitcoin trees only ever pair a node with
// itself when it is the final left node of a level, so such a pairing means
// the proof was built from a tree with a duplicated trailing subtree
// (CVE-2012-2459), which commits to the same root as the honest tree.
//
// An index with bits set beyond the depth of the proof is also rejected so
// that every leaf position has exactly one valid index.
func verifyBranch(root, leaf *chainhash.Hash, index uint64, branch []chainhash.Hash) bool {
	if len(branch) < 64 && index>>uint(len(branch)) != 0 {
		return false
	}

	current := *leaf
	for i := range branch {
		sibling := &branch[i]
		if index&1 == 1 {
			if *sibling == current {
				return false
			}
			current = hashMerkleBranches(sibling[:], current[:])
		} else {
			current = hashMerkleBranches(current[:], sibling[:])
		}
		index >>= 1
	}
	return current == *root
}

// VerifyInclusionProof returns whether or not the given leaf hash, original
// leaf index, and inclusion proof result in recalculating a merkle root that
// matches the provided merkle root.  See GenerateInclusionProof for details
// about the proof.
func VerifyInclusionProof(root, leaf *chainhash.Hash, leafIndex uint32, proof []chainhash.Hash) bool {
	return verifyBranch(root, leaf, uint64(leafIndex), proof)
}

// SerializeMerkleProof returns the flat form of a merkle proof accepted by
// VerifyHash256Merkle: the leaf, the sibling hashes from the leaf level up,
// and the root, all in their internal byte order.
func SerializeMerkleProof(leaf *chainhash.Hash, branch []chainhash.Hash, root *chainhash.Hash) []byte {
	proof := make([]byte, 0, (len(branch)+2)*chainhash.HashSize)
	proof = append(proof, leaf[:]...)
	for i := range branch {
		proof = append(proof, branch[i][:]...)
	}
	return append(proof, root[:]...)
}

// VerifyHash256Merkle returns whether or not the provided flat merkle proof
// proves inclusion of its leaf at the provided index.  The proof is the
// concatenation of 32-byte nodes: the leaf, the sibling hashes from the leaf
// level up, and finally the root.
//
// A proof of just a leaf and a root describes a tree with a single leaf and is
// only valid when both are equal and the index is zero.  See
// VerifyInclusionProof for the pairing rules applied to the siblings.
//
// An error of kind ErrMalformedProof is returned when the proof is not a whole
// number of nodes or has fewer than two nodes.  All other failures are
// reported as false.
func VerifyHash256Merkle(proof []byte, index uint64) (bool, error) {
	if len(proof)%chainhash.HashSize != 0 {
		str := fmt.Sprintf("merkle proof of %d bytes is not a multiple of "+
			"the %d byte node size", len(proof), chainhash.HashSize)
		return false, makeError(ErrMalformedProof, str)
	}
	numNodes := len(proof) / chainhash.HashSize
	if numNodes < 2 {
		str := fmt.Sprintf("merkle proof has %d nodes, but at least a leaf "+
			"and a root are required", numNodes)
		return false, makeError(ErrMalformedProof, str)
	}

	nodes := make([]chainhash.Hash, numNodes)
	for i := range nodes {
		copy(nodes[i][:], proof[i*chainhash.HashSize:])
	}
	leaf, root := &nodes[0], &nodes[numNodes-1]
	return verifyBranch(root, leaf, index, nodes[1:numNodes-1]), nil
}
