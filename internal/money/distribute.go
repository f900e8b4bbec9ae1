package money

import (
	"fmt"
	"math/big"
)

// Distribute divides total into len(weights) parts proportional to weights.
//
// Each part is first truncated to total*w/W. The units lost to truncation are
// then handed out one at a time to the earliest entries with a non-zero
// weight, so the parts always sum to total and the result is deterministic.
// Total must not be negative.
func Distribute(total Money, weights []int64) ([]Money, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no weights", ErrInvalidWeights)
	}
	if total.Amount < 0 {
		return nil, fmt.Errorf("%w: negative total %d", ErrInvalidWeights, total.Amount)
	}

	sumW := new(big.Int)
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight at index %d", ErrInvalidWeights, i)
		}
		sumW.Add(sumW, big.NewInt(w))
	}
	if sumW.Sign() == 0 {
		return nil, fmt.Errorf("%w: zero total weight", ErrInvalidWeights)
	}

	t := big.NewInt(total.Amount)
	parts := make([]Money, len(weights))
	var assigned int64
	for i, w := range weights {
		share := new(big.Int).Mul(t, big.NewInt(w))
		share.Quo(share, sumW)
		// share <= total, so it always fits.
		parts[i] = Money{Amount: share.Int64(), Currency: total.Currency}
		assigned += parts[i].Amount
	}

	remainder := total.Amount - assigned
	for i := 0; remainder > 0; i++ {
		if weights[i] == 0 {
			continue
		}
		parts[i].Amount++
		remainder--
	}
	return parts, nil
}
