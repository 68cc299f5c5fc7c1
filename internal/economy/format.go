package economy

import (
	"math"
	"math/big"

	"github.com/dustin/go-humanize"
)

// Comma formats an amount with thousands separators.
func Comma(v uint64) string {
	if v > math.MaxInt64 {
		return humanize.BigComma(new(big.Int).SetUint64(v))
	}
	return humanize.Comma(int64(v))
}
