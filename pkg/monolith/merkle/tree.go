// Package merkle builds binary Merkle trees and Merkle Mountain Ranges on
// top of the Monolith 2:1 compression function and fixed-input hash.
package merkle

import (
	"fmt"
	"math/bits"

	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/crh"
	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/field"
	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/permutation"
	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/twotoone"
)

// NodeIndex indexes internal nodes of a Tree.
// Convention:
//   - Nothing lives at index 0
//   - Index 1 points to the root
//   - Indices 2 and 3 contain the two children of the root
//   - And so on...
type NodeIndex = uint64

// LeafIndex indexes the leafs of a Tree, left to right, starting at zero.
type LeafIndex = uint64

// Height counts the number of layers in the tree, not including the root.
type Height = uint32

// RootIndex is the node index of the root.
const RootIndex NodeIndex = 1

// Tree is a binary tree of crh.Digests over the Monolith 2:1 compression
// function, used to efficiently prove inclusion of items in a set.
type Tree struct {
	params *permutation.Params
	nodes  []crh.Digest
}

func hashPair(params *permutation.Params, left, right crh.Digest) crh.Digest {
	out, err := twotoone.Compress(params, [4]field.Element(left), [4]field.Element(right))
	if err != nil {
		// New validates params before building a Tree. Mmr,
		// VerifyInclusionProof and InclusionProof.Verify do not validate the
		// params they are given, so params that fail permutation.Validate or
		// are not width 8 panic here.
		panic(fmt.Sprintf("merkle: unexpected compression error: %v", err))
	}
	return crh.Digest(out)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1) == 0)
}

// New builds a Tree with the given leafs. Returns an error if there are
// zero leafs or the leaf count is not a power of two.
func New(params *permutation.Params, leafs []crh.Digest) (*Tree, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if int(params.StateSize) != twotoone.Width {
		return nil, permutation.Error{Kind: permutation.InvalidWidth, Message: "merkle: params must be a width-8 instance"}
	}

	numLeafs := len(leafs)
	if numLeafs == 0 {
		return nil, fmt.Errorf("merkle: cannot build a tree with zero leafs")
	}
	if !isPowerOfTwo(numLeafs) {
		return nil, fmt.Errorf("merkle: leaf count must be a power of two, got %d", numLeafs)
	}

	nodes := make([]crh.Digest, 2*numLeafs)
	copy(nodes[numLeafs:], leafs)

	for numRemaining := numLeafs; numRemaining > 1; numRemaining /= 2 {
		for i := 0; i < numRemaining; i += 2 {
			left := nodes[numRemaining+i]
			right := nodes[numRemaining+i+1]
			nodes[numRemaining/2+i/2] = hashPair(params, left, right)
		}
	}

	return &Tree{params: params, nodes: nodes}, nil
}

// Root returns the root digest of the tree.
func (t *Tree) Root() crh.Digest {
	if len(t.nodes) == 0 {
		return crh.Digest{}
	}
	return t.nodes[RootIndex]
}

// Height returns the height of the tree.
func (t *Tree) Height() Height {
	if len(t.nodes) <= 1 {
		return 0
	}
	numLeafs := len(t.nodes) / 2
	return uint32(bits.Len(uint(numLeafs)) - 1)
}

// NumLeafs returns the number of leafs in the tree.
func (t *Tree) NumLeafs() uint64 {
	if len(t.nodes) <= 1 {
		return 0
	}
	return uint64(len(t.nodes) / 2)
}

// GetLeaf returns the leaf at the given index.
func (t *Tree) GetLeaf(index LeafIndex) (crh.Digest, error) {
	numLeafs := t.NumLeafs()
	if index >= numLeafs {
		return crh.Digest{}, fmt.Errorf("merkle: leaf index %d out of range [0, %d)", index, numLeafs)
	}
	return t.nodes[numLeafs+index], nil
}

// AuthenticationPath returns the sibling digests needed to recompute the
// root from the leaf at leafIndex.
func (t *Tree) AuthenticationPath(leafIndex LeafIndex) ([]crh.Digest, error) {
	numLeafs := t.NumLeafs()
	if leafIndex >= numLeafs {
		return nil, fmt.Errorf("merkle: leaf index %d out of range [0, %d)", leafIndex, numLeafs)
	}

	height := t.Height()
	path := make([]crh.Digest, height)
	nodeIndex := numLeafs + leafIndex

	for i := uint32(0); i < height; i++ {
		path[i] = t.nodes[nodeIndex^1]
		nodeIndex /= 2
	}
	return path, nil
}

// VerifyInclusionProof checks that leaf sits at leafIndex in a tree with the
// given root, using authPath as the sibling witness.
func VerifyInclusionProof(params *permutation.Params, root crh.Digest, leafIndex LeafIndex, leaf crh.Digest, authPath []crh.Digest) bool {
	current := leaf
	index := leafIndex

	for _, sibling := range authPath {
		if index%2 == 0 {
			current = hashPair(params, current, sibling)
		} else {
			current = hashPair(params, sibling, current)
		}
		index /= 2
	}

	return current.Equal(root)
}

// LeafIndexDigestPair names one leaf a batch proof is about.
type LeafIndexDigestPair struct {
	Index  LeafIndex
	Digest crh.Digest
}

// InclusionProof is an inclusion proof for several leafs at once, sharing a
// single de-duplicated authentication structure: a sibling is only included
// once even if two leafs in the batch need it.
type InclusionProof struct {
	TreeHeight              Height
	IndexedLeafs            []LeafIndexDigestPair
	AuthenticationStructure []crh.Digest
}

// NewInclusionProof builds a batch inclusion proof for leafIndices.
func (t *Tree) NewInclusionProof(leafIndices []LeafIndex) (*InclusionProof, error) {
	numLeafs := t.NumLeafs()
	for _, idx := range leafIndices {
		if idx >= numLeafs {
			return nil, fmt.Errorf("merkle: leaf index %d out of range [0, %d)", idx, numLeafs)
		}
	}

	indexedLeafs := make([]LeafIndexDigestPair, len(leafIndices))
	for i, idx := range leafIndices {
		leaf, _ := t.GetLeaf(idx)
		indexedLeafs[i] = LeafIndexDigestPair{Index: idx, Digest: leaf}
	}

	return &InclusionProof{
		TreeHeight:              t.Height(),
		IndexedLeafs:            indexedLeafs,
		AuthenticationStructure: t.buildAuthenticationStructure(leafIndices),
	}, nil
}

// buildAuthenticationStructure returns the de-duplicated sibling set needed
// to recompute the root from every leaf in leafIndices: a node already
// known, as one of the named leafs, as an already-collected sibling, or as
// an ancestor on the path of an earlier leaf in the batch, is never emitted.
func (t *Tree) buildAuthenticationStructure(leafIndices []LeafIndex) []crh.Digest {
	numLeafs := t.NumLeafs()
	height := t.Height()

	revealed := make(map[NodeIndex]bool, 2*len(leafIndices))
	for _, idx := range leafIndices {
		revealed[numLeafs+idx] = true
	}

	var authNodes []crh.Digest
	for _, leafIdx := range leafIndices {
		nodeIndex := numLeafs + leafIdx
		for level := Height(0); level < height; level++ {
			siblingIndex := nodeIndex ^ 1
			if !revealed[siblingIndex] {
				authNodes = append(authNodes, t.nodes[siblingIndex])
				revealed[siblingIndex] = true
			}
			nodeIndex /= 2
			revealed[nodeIndex] = true
		}
	}
	return authNodes
}

// Verify checks a batch inclusion proof against root, rebuilding just the
// nodes the proof names and recomputing every ancestor that both of its
// children are known for.
func (p *InclusionProof) Verify(params *permutation.Params, root crh.Digest) bool {
	if len(p.IndexedLeafs) == 0 {
		return false
	}

	numLeafs := uint64(1) << p.TreeHeight
	nodes := make(map[NodeIndex]crh.Digest, 2*len(p.IndexedLeafs)+len(p.AuthenticationStructure))

	leafIndices := make([]LeafIndex, len(p.IndexedLeafs))
	known := make(map[NodeIndex]bool, len(nodes))
	for i, pair := range p.IndexedLeafs {
		nodes[numLeafs+pair.Index] = pair.Digest
		known[numLeafs+pair.Index] = true
		leafIndices[i] = pair.Index
	}

	authIdx := 0
	for _, leafIdx := range leafIndices {
		nodeIndex := numLeafs + leafIdx
		for level := Height(0); level < p.TreeHeight; level++ {
			siblingIndex := nodeIndex ^ 1
			if !known[siblingIndex] && authIdx < len(p.AuthenticationStructure) {
				nodes[siblingIndex] = p.AuthenticationStructure[authIdx]
				known[siblingIndex] = true
				authIdx++
			}
			nodeIndex /= 2
			known[nodeIndex] = true
		}
	}

	for level := p.TreeHeight; level > 0; level-- {
		levelStart := NodeIndex(1) << level
		for nodeIdx := levelStart; nodeIdx < 2*levelStart; nodeIdx += 2 {
			left, okLeft := nodes[nodeIdx]
			right, okRight := nodes[nodeIdx+1]
			if okLeft && okRight {
				nodes[nodeIdx/2] = hashPair(params, left, right)
			}
		}
	}

	computed, ok := nodes[RootIndex]
	return ok && computed.Equal(root)
}
