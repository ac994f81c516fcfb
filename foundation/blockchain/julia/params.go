package julia

import (
	"crypto/sha256"

	"github.com/ardanlabs/juliachain/foundation/blockchain/database"
)

// Params holds the puzzle parameterization for one block.
type Params struct {
	C                complex128
	ReMin            float64
	ReMax            float64
	TargetIterations uint16
}

// ParamsForBlock derives the puzzle parameters from a block id. The
// derivation is a pure function of the id alone: every validator must
// compute identical parameters from identical ids for consensus to hold.
//
// The parameters stay inside a family known to admit solutions: c near
// 0.5+0.5i with the real corridor [0, 0.5]. The imaginary part of c and
// the target iteration count are perturbed by the id hash so different
// blocks pose different puzzles.
func ParamsForBlock(id database.BlockID) Params {
	h := sha256.Sum256([]byte(id))

	return Params{
		C:                complex(0.5, 0.5+(float64(h[0])-127.5)/16384),
		ReMin:            0.0,
		ReMax:            0.5,
		TargetIterations: 6 + uint16(h[1]%5),
	}
}
