package types

import "errors"

// Classified failure kinds shared across the engine. Call sites wrap these
// with fmt.Errorf("%w: ...") so callers can match on errors.Is.
var (
	ErrInvalidConfiguration  = errors.New("invalid configuration")
	ErrInvalidMarketState    = errors.New("invalid market state")
	ErrInvalidPositionUpdate = errors.New("invalid position update")
	ErrNumerical             = errors.New("numerical error")
	ErrInvalidQuote          = errors.New("invalid quote generation")
)
