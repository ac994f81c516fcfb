// Package database maintains the core data model for the chain: blocks,
// ledger events, and account summaries.
package database

import (
	"crypto/sha256"
	"encoding/json"
	"slices"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// zeroHash represents a hash code of zeros.
const zeroHash = "0x0000000000000000000000000000000000000000000000000000000000000000"

// BlockID uniquely identifies a block. The id is an opaque content hash
// encoded as a hex string, so ids sort lexicographically and give fork
// choice a total order for breaking ties.
type BlockID string

// Block represents a group of ledger events anchored to a parent block.
// A block with no parent is a root. Blocks never change once constructed.
type Block struct {
	Parent *BlockID `json:"parent,omitempty"`
	ID     BlockID  `json:"id"`
	Events []Event  `json:"events"`
}

// NewBlock constructs a block whose id is the hash of its own content.
func NewBlock(parent *BlockID, events []Event) Block {
	b := Block{
		Parent: parent,
		Events: events,
	}
	b.ID = b.HashID()

	return b
}

// HashID computes the content hash for the block. The declared id takes no
// part in the hash, so a block's id can always be recomputed and checked.
func (b Block) HashID() BlockID {
	content := struct {
		Parent *BlockID `json:"parent"`
		Events []Event  `json:"events"`
	}{
		Parent: b.Parent,
		Events: b.Events,
	}

	data, err := json.Marshal(content)
	if err != nil {
		return BlockID(zeroHash)
	}

	hash := sha256.Sum256(data)
	return BlockID(hexutil.Encode(hash[:]))
}

// Equal reports whether two blocks carry identical content. This check
// decides whether re-adding a block is an idempotent no-op or a clobber.
func (b Block) Equal(other Block) bool {
	if b.ID != other.ID {
		return false
	}

	switch {
	case b.Parent == nil && other.Parent != nil:
		return false
	case b.Parent != nil && other.Parent == nil:
		return false
	case b.Parent != nil && *b.Parent != *other.Parent:
		return false
	}

	return slices.Equal(b.Events, other.Events)
}

// =============================================================================

// Complex is a JSON friendly complex coordinate.
type Complex struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

// ToComplex converts a native complex value into its wire form.
func ToComplex(v complex128) Complex {
	return Complex{Re: real(v), Im: imag(v)}
}

// Complex128 converts the wire form back into a native complex value.
func (c Complex) Complex128() complex128 {
	return complex(c.Re, c.Im)
}

// WithProofOfWork pairs a payload with the puzzle candidate that was
// found for it.
type WithProofOfWork[T any] struct {
	Candidate Complex `json:"candidate"`
	Inner     T       `json:"inner"`
}
