package mathutil

import (
	"github.com/shopspring/decimal"
)

// FeeForSize returns the fee in satoshis of a transaction of size bytes at
// satsPerByte, rounded up to the next satoshi.
func FeeForSize(size int, satsPerByte decimal.Decimal) uint64 {
	if size <= 0 || !satsPerByte.IsPositive() {
		return 0
	}
	fee := decimal.NewFromInt(int64(size)).Mul(satsPerByte).Ceil()
	return fee.BigInt().Uint64()
}
