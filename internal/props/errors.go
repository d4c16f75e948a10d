package props

import (
	"errors"
	"fmt"
)

// ErrValueUnavailable signals that a single record cannot yield a value for a
// market. Callers recover by excluding the record from aggregation; it never
// reaches the end caller.
var ErrValueUnavailable = errors.New("no usable value for market")

// UnsupportedMarketError indicates extraction was requested for a market with
// no defined rule. Fatal to the single call, recoverable by choosing another
// market.
type UnsupportedMarketError struct {
	Market string
}

func (e *UnsupportedMarketError) Error() string {
	return fmt.Sprintf("unsupported market: %s", e.Market)
}

// NewUnsupportedMarketError creates an UnsupportedMarketError for the given key
func NewUnsupportedMarketError(market string) *UnsupportedMarketError {
	return &UnsupportedMarketError{Market: market}
}

// IsUnsupportedMarket checks if an error is an UnsupportedMarketError
func IsUnsupportedMarket(err error) bool {
	var target *UnsupportedMarketError
	return errors.As(err, &target)
}
