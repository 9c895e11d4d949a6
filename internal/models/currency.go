package models

import (
	"regexp"
	"time"
)

// currencyCodeRe matches ISO-style uppercase codes. Four letters are allowed
// for stablecoin references like USDT used as routing intermediates.
var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3,4}$`)

// ValidCurrencyCode returns true if code is an uppercase 3-4 letter code.
func ValidCurrencyCode(code string) bool {
	return currencyCodeRe.MatchString(code)
}

// Currency is a tracked currency. At most one currency has IsBase set; the
// base swap is performed atomically by the currency store.
type Currency struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name,omitempty"`
	Symbol    string    `json:"symbol,omitempty"`
	IsBase    bool      `json:"is_base"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
