package merkle

import (
	"math/bits"

	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/crh"
	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/field"
	"github.com/utkarshparkhi/crypto-primitives-monolith/pkg/monolith/permutation"
)

// Mmr is a Merkle Mountain Range: a collection of perfect binary Merkle
// trees ("peaks") arranged by decreasing size, supporting efficient append
// and membership proofs without requiring a power-of-two leaf count.
//
// It uses the width-8 permutation (via twotoone.Compress) to merge peaks and
// the width-12 sponge-based CRH to bag the final peak set into one digest,
// since peak-merging is a fixed 4+4 input while bagging is variable-length.
type Mmr struct {
	twoToOneParams *permutation.Params
	crhParams      *permutation.Params
	leafCount      uint64
	peaks          []crh.Digest
}

// NewMmr builds an Mmr from an explicit peak set and leaf count.
func NewMmr(twoToOneParams, crhParams *permutation.Params, peaks []crh.Digest, leafCount uint64) *Mmr {
	return &Mmr{twoToOneParams: twoToOneParams, crhParams: crhParams, leafCount: leafCount, peaks: peaks}
}

// NewMmrFromLeafs builds an Mmr from a full list of leafs.
func NewMmrFromLeafs(twoToOneParams, crhParams *permutation.Params, leafs []crh.Digest) *Mmr {
	return &Mmr{
		twoToOneParams: twoToOneParams,
		crhParams:      crhParams,
		leafCount:      uint64(len(leafs)),
		peaks:          peaksFromLeafs(twoToOneParams, leafs),
	}
}

// peaksFromLeafs computes the Mmr peaks from a list of leafs by merging
// perfect subtrees bottom-up, following the diagonal-processing walk:
// each new leaf joins the run of peaks whose heights match the trailing
// zero count of the 1-indexed position being processed.
func peaksFromLeafs(params *permutation.Params, leafs []crh.Digest) []crh.Digest {
	if len(leafs) == 0 {
		return []crh.Digest{}
	}

	maxTreeHeight := bits.Len(uint(len(leafs)))
	peaks := make([]crh.Digest, 0, maxTreeHeight)

	diagonalIdx := uint64(1)
	for i := 0; i+1 < len(leafs); i += 2 {
		right := hashPair(params, leafs[i], leafs[i+1])

		numMerges := bits.TrailingZeros64(diagonalIdx)
		for j := 0; j < numMerges; j++ {
			if len(peaks) == 0 {
				break
			}
			left := peaks[len(peaks)-1]
			peaks = peaks[:len(peaks)-1]
			right = hashPair(params, left, right)
		}

		peaks = append(peaks, right)
		diagonalIdx++
	}

	if len(leafs)%2 == 1 {
		peaks = append(peaks, leafs[len(leafs)-1])
	}

	return peaks
}

// BagPeaks computes a single commitment to the entire Mmr by hashing the
// leaf count together with all peaks through the variable-length CRH.
func (m *Mmr) BagPeaks() (crh.Digest, error) {
	return bagPeaks(m.crhParams, m.peaks, m.leafCount)
}

func bagPeaks(crhParams *permutation.Params, peaks []crh.Digest, leafCount uint64) (crh.Digest, error) {
	if len(peaks) == 0 {
		return crh.Digest{}, nil
	}

	input := make([]field.Element, 0, 1+len(peaks)*4)
	input = append(input, field.New(leafCount))
	for _, peak := range peaks {
		input = append(input, peak[:]...)
	}

	return crh.Hash(crhParams, input)
}

// Peaks returns a copy of the Mmr's peaks.
func (m *Mmr) Peaks() []crh.Digest {
	out := make([]crh.Digest, len(m.peaks))
	copy(out, m.peaks)
	return out
}

// IsEmpty reports whether the Mmr has no leafs.
func (m *Mmr) IsEmpty() bool {
	return m.leafCount == 0
}

// NumLeafs returns the number of leafs appended to the Mmr.
func (m *Mmr) NumLeafs() uint64 {
	return m.leafCount
}

// MembershipProof is a proof that a leaf is a member of an Mmr.
type MembershipProof struct {
	LeafIndex uint64
	AuthPath  []crh.Digest
}

// Append adds a leaf to the Mmr and returns its membership proof. The proof
// leads to one of the peaks as they stand right after this call; it is not
// updated by later appends, so it stops verifying once a later append
// merges that peak.
func (m *Mmr) Append(newLeaf crh.Digest) MembershipProof {
	newPeaks, proof := calculateNewPeaksFromAppend(m.twoToOneParams, m.peaks, newLeaf, m.leafCount)
	m.peaks = newPeaks
	m.leafCount++
	return proof
}

func calculateNewPeaksFromAppend(params *permutation.Params, oldPeaks []crh.Digest, newLeaf crh.Digest, oldLeafCount uint64) ([]crh.Digest, MembershipProof) {
	peaks := make([]crh.Digest, len(oldPeaks))
	copy(peaks, oldPeaks)
	peaks = append(peaks, newLeaf)

	var authPath []crh.Digest

	numMerges := trailingOnes64(oldLeafCount)
	for i := 0; i < numMerges; i++ {
		if len(peaks) < 2 {
			break
		}
		inProgress := peaks[len(peaks)-1]
		peaks = peaks[:len(peaks)-1]
		previous := peaks[len(peaks)-1]
		peaks = peaks[:len(peaks)-1]

		authPath = append(authPath, previous)
		peaks = append(peaks, hashPair(params, previous, inProgress))
	}

	return peaks, MembershipProof{LeafIndex: oldLeafCount, AuthPath: authPath}
}

// VerifyMembership checks a membership proof for leaf against any of the
// Mmr's current peaks.
func (m *Mmr) VerifyMembership(leaf crh.Digest, proof MembershipProof) bool {
	current := leaf
	for _, authNode := range proof.AuthPath {
		current = hashPair(m.twoToOneParams, authNode, current)
	}

	for _, peak := range m.peaks {
		if current.Equal(peak) {
			return true
		}
	}
	return false
}

// IsConsistent reports whether the peak count matches the number of set
// bits in the leaf count, the structural invariant of an Mmr accumulator.
func (m *Mmr) IsConsistent() bool {
	return len(m.peaks) == bits.OnesCount64(m.leafCount)
}

func trailingOnes64(x uint64) int {
	if x == 0 {
		return 0
	}
	return bits.TrailingZeros64(^x)
}
